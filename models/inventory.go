package models

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// InventoryLevel is the per-part stock position the planner nets
// against: on hand, allocated to open orders, and already on order.
type InventoryLevel struct {
	ID           int             `gorm:"primary_key" json:"id"`
	PartId       int             `gorm:"uniqueIndex;not null" json:"part_id" binding:"required"`
	QtyOnHand    decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"qty_on_hand"`
	QtyAllocated decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"qty_allocated"`
	QtyOnOrder   decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"qty_on_order"`
	UpdatedAt    time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

// GetInventoryLevel returns the stock position for a part. A part with
// no inventory row planned yet is simply empty, not an error.
func GetInventoryLevel(tx *gorm.DB, ctx context.Context, partId int) (*InventoryLevel, error) {
	var level InventoryLevel
	err := tx.WithContext(ctx).Where("part_id = ?", partId).First(&level).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &InventoryLevel{
			PartId:       partId,
			QtyOnHand:    decimal.Zero,
			QtyAllocated: decimal.Zero,
			QtyOnOrder:   decimal.Zero,
		}, nil
	}
	if err != nil {
		return nil, err
	}
	return &level, nil
}
