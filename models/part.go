package models

import (
	"context"
	"time"

	"github.com/jwerthen/Werco-ERP-MES-sub001/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Part master data. Immutable as far as the planning engine is
// concerned; a run snapshots all active parts once at start.
type Part struct {
	ID           int             `gorm:"primary_key" json:"id"`
	PartNumber   string          `gorm:"size:100;uniqueIndex;not null" json:"part_number" binding:"required"`
	Name         string          `gorm:"size:255;not null" json:"name"`
	Description  string          `gorm:"type:text" json:"description"`
	PartType     PartType        `gorm:"size:20;not null;default:Manufactured" json:"part_type"`
	UnitOfMeasure string         `gorm:"size:20;default:EA" json:"unit_of_measure"`
	LeadTimeDays int             `gorm:"default:0" json:"lead_time_days"`
	SafetyStock  decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"safety_stock"`
	ReorderPoint decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"reorder_point"`
	StandardCost decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"standard_cost"`
	IsActive     *bool           `gorm:"not null;default:true" json:"is_active"`
	CreatedAt    time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

// GetActiveParts loads the part master snapshot for a planning run.
func GetActiveParts(tx *gorm.DB, ctx context.Context) ([]*Part, error) {
	var parts []*Part
	err := tx.WithContext(ctx).Where("is_active = ?", true).Order("id").Find(&parts).Error
	if err != nil {
		return nil, err
	}
	return parts, nil
}

// GetPart fetches one part by id.
// (may return RecordNotFound)
func GetPart(tx *gorm.DB, ctx context.Context, id int) (*Part, error) {
	var part Part
	err := tx.WithContext(ctx).First(&part, id).Error
	if err != nil {
		return nil, utils.ErrorRecordNotFound
	}
	return &part, nil
}
