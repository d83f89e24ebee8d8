package models

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// WorkOrder as created by MRP auto-processing for Manufacture actions.
type WorkOrder struct {
	ID            int             `gorm:"primary_key" json:"id"`
	OrderNumber   string          `gorm:"size:100;uniqueIndex;not null" json:"order_number" binding:"required"`
	PartId        int             `gorm:"index;not null" json:"part_id" binding:"required"`
	Qty           decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"qty" binding:"required"`
	DueDate       time.Time       `gorm:"not null" json:"due_date"`
	StartDate     *time.Time      `gorm:"default:null" json:"start_date"`
	Priority      int             `gorm:"default:5" json:"priority"`
	CurrentStatus WorkOrderStatus `gorm:"size:20;not null;default:Draft" json:"current_status"`
	Notes         string          `gorm:"type:text" json:"notes"`
	MrpRunId      int             `gorm:"index;default:null" json:"mrp_run_id"`
	MrpActionId   int             `gorm:"index;default:null" json:"mrp_action_id"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewWorkOrder struct {
	PartId      int
	Qty         decimal.Decimal
	DueDate     time.Time
	StartDate   time.Time
	Priority    int
	Status      WorkOrderStatus
	Notes       string
	MrpRunId    int
	MrpActionId int
}

// CreateWorkOrderFromAction writes a work order for an MRP Manufacture
// action, inheriting the action's priority.
func CreateWorkOrderFromAction(tx *gorm.DB, ctx context.Context, input *NewWorkOrder) (*WorkOrder, error) {
	orderNumber, err := nextDocumentNumber(tx, ctx, &WorkOrder{}, "order_number", "WO", input.DueDate)
	if err != nil {
		return nil, err
	}

	startDate := input.StartDate
	order := WorkOrder{
		OrderNumber:   orderNumber,
		PartId:        input.PartId,
		Qty:           input.Qty,
		DueDate:       input.DueDate,
		StartDate:     &startDate,
		Priority:      input.Priority,
		CurrentStatus: input.Status,
		Notes:         input.Notes,
		MrpRunId:      input.MrpRunId,
		MrpActionId:   input.MrpActionId,
	}
	if err := tx.WithContext(ctx).Create(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}
