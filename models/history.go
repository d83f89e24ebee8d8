package models

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jwerthen/Werco-ERP-MES-sub001/utils"
	"gorm.io/gorm"
)

// History is the audit trail. Auto-processing writes one row per
// created order and per expedite flag, referencing the triggering
// action id.
type History struct {
	ID            int       `gorm:"primary_key" json:"id"`
	ActionType    string    `gorm:"size:10;not null" json:"action_type" binding:"required"`
	Before        string    `gorm:"type:text" json:"before"`
	After         string    `gorm:"type:text" json:"after"`
	Description   string    `gorm:"type:text;not null" json:"description"`
	ReferenceID   int       `gorm:"index" json:"reference_id"`
	ReferenceType string    `gorm:"size:255" json:"reference_type"`
	UserId        int       `gorm:"index" json:"user_id"`
	UserName      string    `gorm:"size:100" json:"user_name"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// CreateHistory writes one audit row. Attribution comes from the
// context; batch tools that run without a user are recorded as system.
func CreateHistory(tx *gorm.DB, ctx context.Context,
	actionType string,
	referenceId int,
	referenceType string,
	before interface{},
	after interface{},
	description string) error {

	b, _ := json.Marshal(before)
	a, _ := json.Marshal(after)

	userId, _ := utils.GetUserIdFromContext(ctx)
	userName, ok := utils.GetUserNameFromContext(ctx)
	if !ok || userName == "" {
		userName = "system"
	}

	history := History{
		ActionType:    actionType,
		Before:        string(b),
		After:         string(a),
		Description:   description,
		ReferenceID:   referenceId,
		ReferenceType: referenceType,
		UserId:        userId,
		UserName:      userName,
	}
	return tx.WithContext(ctx).Create(&history).Error
}
