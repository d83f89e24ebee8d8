package models

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProductionOrder is the demand source for planning: open orders with
// an outstanding quantity and a due date inside the horizon.
type ProductionOrder struct {
	ID            int                   `gorm:"primary_key" json:"id"`
	OrderNumber   string                `gorm:"size:100;uniqueIndex;not null" json:"order_number" binding:"required"`
	PartId        int                   `gorm:"index;not null" json:"part_id" binding:"required"`
	QtyOrdered    decimal.Decimal       `gorm:"type:decimal(20,4);not null" json:"qty_ordered" binding:"required"`
	QtyCompleted  decimal.Decimal       `gorm:"type:decimal(20,4);default:0" json:"qty_completed"`
	DueDate       time.Time             `gorm:"index;not null" json:"due_date" binding:"required"`
	CurrentStatus ProductionOrderStatus `gorm:"size:20;not null;default:Open" json:"current_status"`
	CreatedAt     time.Time             `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time             `gorm:"autoUpdateTime" json:"updated_at"`
}

// Outstanding is the quantity still to be produced.
func (po ProductionOrder) Outstanding() decimal.Decimal {
	remaining := po.QtyOrdered.Sub(po.QtyCompleted)
	if remaining.IsNegative() {
		return decimal.Zero
	}
	return remaining
}

// DemandLine is one unit of open demand handed to the explosion stage.
type DemandLine struct {
	ProductionOrderId int
	OrderNumber       string
	PartId            int
	Quantity          decimal.Decimal
	DueDate           time.Time
}

// GetOpenDemand returns open/in-progress production orders due on or
// before horizonEnd with a positive outstanding quantity, earliest due
// date first. The ordering keeps reruns deterministic.
func GetOpenDemand(tx *gorm.DB, ctx context.Context, horizonEnd time.Time) ([]DemandLine, error) {
	var orders []*ProductionOrder
	err := tx.WithContext(ctx).
		Where("current_status IN ?", []ProductionOrderStatus{ProductionOrderStatusOpen, ProductionOrderStatusInProgress}).
		Where("due_date <= ?", horizonEnd).
		Order("due_date, id").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}

	demand := make([]DemandLine, 0, len(orders))
	for _, order := range orders {
		outstanding := order.Outstanding()
		if !outstanding.IsPositive() {
			continue
		}
		demand = append(demand, DemandLine{
			ProductionOrderId: order.ID,
			OrderNumber:       order.OrderNumber,
			PartId:            order.PartId,
			Quantity:          outstanding,
			DueDate:           order.DueDate,
		})
	}
	return demand, nil
}
