package models

import (
	"context"
	"time"

	"github.com/jwerthen/Werco-ERP-MES-sub001/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Supplier struct {
	ID        int       `gorm:"primary_key" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name" binding:"required"`
	Email     string    `gorm:"size:255" json:"email"`
	Phone     string    `gorm:"size:50" json:"phone"`
	IsActive  *bool     `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// SupplierPart maps a part to an approved supplier. An explicit
// mapping outranks purchase history during vendor resolution.
type SupplierPart struct {
	ID           int             `gorm:"primary_key" json:"id"`
	SupplierId   int             `gorm:"index:idx_supplier_part,unique;not null" json:"supplier_id" binding:"required"`
	PartId       int             `gorm:"index:idx_supplier_part,unique;not null" json:"part_id" binding:"required"`
	SupplierSku  string          `gorm:"size:100" json:"supplier_sku"`
	LastUnitCost decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"last_unit_cost"`
	LeadTimeDays int             `gorm:"default:0" json:"lead_time_days"`
	IsPreferred  *bool           `gorm:"not null;default:false" json:"is_preferred"`
	CreatedAt    time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

// GetMappedSupplierForPart returns the supplier-part mapping winner:
// preferred mappings first, then oldest mapping.
// (may return RecordNotFound)
func GetMappedSupplierForPart(tx *gorm.DB, ctx context.Context, partId int) (*Supplier, error) {
	var supplier Supplier
	err := tx.WithContext(ctx).
		Joins("JOIN supplier_parts ON supplier_parts.supplier_id = suppliers.id").
		Where("supplier_parts.part_id = ? AND suppliers.is_active = ?", partId, true).
		Order("supplier_parts.is_preferred DESC, supplier_parts.id").
		First(&supplier).Error
	if err != nil {
		return nil, utils.ErrorRecordNotFound
	}
	return &supplier, nil
}

// GetMostFrequentSupplierForPart returns the supplier that appears most
// often in purchase history for the part.
// (may return RecordNotFound)
func GetMostFrequentSupplierForPart(tx *gorm.DB, ctx context.Context, partId int) (*Supplier, error) {
	var supplierId int
	err := tx.WithContext(ctx).Model(&PurchaseOrderDetail{}).
		Joins("JOIN purchase_orders ON purchase_orders.id = purchase_order_details.purchase_order_id").
		Where("purchase_order_details.part_id = ?", partId).
		Where("purchase_orders.current_status <> ?", PurchaseOrderStatusCancelled).
		Group("purchase_orders.supplier_id").
		Order("COUNT(*) DESC, purchase_orders.supplier_id").
		Select("purchase_orders.supplier_id").
		Limit(1).
		Scan(&supplierId).Error
	if err != nil || supplierId == 0 {
		return nil, utils.ErrorRecordNotFound
	}

	var supplier Supplier
	if err := tx.WithContext(ctx).First(&supplier, supplierId).Error; err != nil {
		return nil, utils.ErrorRecordNotFound
	}
	return &supplier, nil
}

// GetFirstActiveSupplier is the resolver of last resort.
// (may return RecordNotFound)
func GetFirstActiveSupplier(tx *gorm.DB, ctx context.Context) (*Supplier, error) {
	var supplier Supplier
	err := tx.WithContext(ctx).Where("is_active = ?", true).Order("id").First(&supplier).Error
	if err != nil {
		return nil, utils.ErrorRecordNotFound
	}
	return &supplier, nil
}

// GetLatestPurchasePrice returns the unit rate of the most recent
// non-cancelled purchase of the part from the supplier.
// (may return RecordNotFound)
func GetLatestPurchasePrice(tx *gorm.DB, ctx context.Context, supplierId int, partId int) (decimal.Decimal, error) {
	var detail PurchaseOrderDetail
	err := tx.WithContext(ctx).Model(&PurchaseOrderDetail{}).
		Joins("JOIN purchase_orders ON purchase_orders.id = purchase_order_details.purchase_order_id").
		Where("purchase_order_details.part_id = ? AND purchase_orders.supplier_id = ?", partId, supplierId).
		Where("purchase_orders.current_status <> ?", PurchaseOrderStatusCancelled).
		Order("purchase_orders.order_date DESC, purchase_order_details.id DESC").
		First(&detail).Error
	if err != nil {
		return decimal.Zero, utils.ErrorRecordNotFound
	}
	return detail.UnitRate, nil
}
