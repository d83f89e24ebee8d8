package models

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PurchaseOrder as created by MRP auto-processing: one supplier, one
// line per triggering action, tagged with the run and action that
// produced it.
type PurchaseOrder struct {
	ID                   int                   `gorm:"primary_key" json:"id"`
	OrderNumber          string                `gorm:"size:100;uniqueIndex;not null" json:"order_number" binding:"required"`
	SupplierId           int                   `gorm:"index;not null" json:"supplier_id" binding:"required"`
	OrderDate            time.Time             `gorm:"not null" json:"order_date" binding:"required"`
	ExpectedDeliveryDate *time.Time            `gorm:"default:null" json:"expected_delivery_date"`
	CurrentStatus        PurchaseOrderStatus   `gorm:"size:20;not null;default:Draft" json:"current_status"`
	Notes                string                `gorm:"type:text" json:"notes"`
	OrderTotalAmount     decimal.Decimal       `gorm:"type:decimal(20,4);default:0" json:"order_total_amount"`
	MrpRunId             int                   `gorm:"index;default:null" json:"mrp_run_id"`
	MrpActionId          int                   `gorm:"index;default:null" json:"mrp_action_id"`
	Details              []PurchaseOrderDetail `gorm:"foreignKey:PurchaseOrderId" json:"details"`
	CreatedAt            time.Time             `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt            time.Time             `gorm:"autoUpdateTime" json:"updated_at"`
}

type PurchaseOrderDetail struct {
	ID              int             `gorm:"primary_key" json:"id"`
	PurchaseOrderId int             `gorm:"index;not null" json:"purchase_order_id"`
	PartId          int             `gorm:"index;not null" json:"part_id" binding:"required"`
	Description     string          `gorm:"size:255" json:"description"`
	Qty             decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"qty" binding:"required"`
	UnitRate        decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"unit_rate"`
	RequiredDate    *time.Time      `gorm:"default:null" json:"required_date"`
}

// nextDocumentNumber builds a date-scoped monotonic number like
// PO-20260825-003. Counting rows with the day prefix keeps the sequence
// monotonic within the day; callers serialize runs (see MRPRun).
func nextDocumentNumber(tx *gorm.DB, ctx context.Context, model interface{}, column string, prefix string, date time.Time) (string, error) {
	dayPrefix := fmt.Sprintf("%s-%s-", prefix, date.UTC().Format("20060102"))
	var count int64
	err := tx.WithContext(ctx).Model(model).
		Where(column+" LIKE ?", dayPrefix+"%").
		Count(&count).Error
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%03d", dayPrefix, count+1), nil
}

type NewPurchaseOrder struct {
	SupplierId   int
	PartId       int
	Description  string
	Qty          decimal.Decimal
	UnitRate     decimal.Decimal
	OrderDate    time.Time
	RequiredDate time.Time
	Status       PurchaseOrderStatus
	MrpRunId     int
	MrpActionId  int
}

// CreatePurchaseOrderFromAction writes a single-line purchase order for
// an MRP Order action.
func CreatePurchaseOrderFromAction(tx *gorm.DB, ctx context.Context, input *NewPurchaseOrder) (*PurchaseOrder, error) {
	orderNumber, err := nextDocumentNumber(tx, ctx, &PurchaseOrder{}, "order_number", "PO", input.OrderDate)
	if err != nil {
		return nil, err
	}

	requiredDate := input.RequiredDate
	order := PurchaseOrder{
		OrderNumber:          orderNumber,
		SupplierId:           input.SupplierId,
		OrderDate:            input.OrderDate,
		ExpectedDeliveryDate: &requiredDate,
		CurrentStatus:        input.Status,
		OrderTotalAmount:     input.Qty.Mul(input.UnitRate),
		MrpRunId:             input.MrpRunId,
		MrpActionId:          input.MrpActionId,
		Details: []PurchaseOrderDetail{
			{
				PartId:       input.PartId,
				Description:  input.Description,
				Qty:          input.Qty,
				UnitRate:     input.UnitRate,
				RequiredDate: &requiredDate,
			},
		},
	}
	if err := tx.WithContext(ctx).Create(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}
