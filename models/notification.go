package models

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// Notification is the channel used for Expedite actions: nothing is
// ordered automatically, purchasing/production is told to chase the
// existing supply instead.
type Notification struct {
	ID            int              `gorm:"primary_key" json:"id"`
	Type          NotificationType `gorm:"size:30;not null" json:"type"`
	Title         string           `gorm:"size:255;not null" json:"title"`
	Message       string           `gorm:"type:text" json:"message"`
	ReferenceId   int              `gorm:"index" json:"reference_id"`
	ReferenceType string           `gorm:"size:50" json:"reference_type"`
	IsRead        *bool            `gorm:"not null;default:false" json:"is_read"`
	CreatedAt     time.Time        `gorm:"autoCreateTime" json:"created_at"`
}

type NewNotification struct {
	Type          NotificationType
	Title         string
	Message       string
	ReferenceId   int
	ReferenceType string
}

func CreateNotification(tx *gorm.DB, ctx context.Context, input *NewNotification) (*Notification, error) {
	notification := Notification{
		Type:          input.Type,
		Title:         input.Title,
		Message:       input.Message,
		ReferenceId:   input.ReferenceId,
		ReferenceType: input.ReferenceType,
	}
	if err := tx.WithContext(ctx).Create(&notification).Error; err != nil {
		return nil, err
	}
	return &notification, nil
}
