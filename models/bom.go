package models

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// BillOfMaterial is the header for one revision of a part's component
// list. Only one active revision per part takes part in planning.
type BillOfMaterial struct {
	ID        int       `gorm:"primary_key" json:"id"`
	PartId    int       `gorm:"index;not null" json:"part_id" binding:"required"`
	Revision  string    `gorm:"size:20;default:A" json:"revision"`
	IsActive  *bool     `gorm:"not null;default:true" json:"is_active"`
	Items     []BomItem `gorm:"foreignKey:BomId" json:"items"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// BomItem is one directed edge parent part -> component part.
// Make items recurse into the component's own BOM during explosion;
// Buy items are leaves. Alternates never take part in planning.
type BomItem struct {
	ID                 int             `gorm:"primary_key" json:"id"`
	BomId              int             `gorm:"index;not null" json:"bom_id" binding:"required"`
	ComponentPartId    int             `gorm:"index;not null" json:"component_part_id" binding:"required"`
	Quantity           decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"quantity" binding:"required"`
	ScrapFactor        decimal.Decimal `gorm:"type:decimal(10,4);default:0" json:"scrap_factor"`
	LeadTimeOffsetDays int             `gorm:"default:0" json:"lead_time_offset_days"`
	ItemType           BomItemType     `gorm:"size:10;not null;default:Buy" json:"item_type"`
	IsAlternate        *bool           `gorm:"not null;default:false" json:"is_alternate"`
	IsActive           *bool           `gorm:"not null;default:true" json:"is_active"`
	SortOrder          int             `gorm:"default:0" json:"sort_order"`
}

// GetActiveBOMs loads every active BOM with its items, ordered the way
// the explosion walks them. One run works off this snapshot only.
func GetActiveBOMs(tx *gorm.DB, ctx context.Context) ([]*BillOfMaterial, error) {
	var boms []*BillOfMaterial
	err := tx.WithContext(ctx).Where("is_active = ?", true).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("bom_items.sort_order, bom_items.id")
		}).
		Order("part_id, id").
		Find(&boms).Error
	if err != nil {
		return nil, err
	}
	return boms, nil
}
