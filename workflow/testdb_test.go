package workflow

import (
	"io"
	"testing"
	"time"

	"github.com/jwerthen/Werco-ERP-MES-sub001/models"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	err = db.AutoMigrate(
		&models.Part{},
		&models.BillOfMaterial{},
		&models.BomItem{},
		&models.InventoryLevel{},
		&models.ProductionOrder{},
		&models.Supplier{},
		&models.SupplierPart{},
		&models.PurchaseOrder{},
		&models.PurchaseOrderDetail{},
		&models.WorkOrder{},
		&models.MRPRun{},
		&models.MRPRequirement{},
		&models.MRPAction{},
		&models.Notification{},
		&models.History{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newTestLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func boolPtr(b bool) *bool {
	return &b
}

func d(value int64) decimal.Decimal {
	return decimal.NewFromInt(value)
}

func day(year int, month time.Month, dayOfMonth int) time.Time {
	return time.Date(year, month, dayOfMonth, 0, 0, 0, 0, time.UTC)
}

func createTestPart(t *testing.T, db *gorm.DB, partNumber string, partType models.PartType, leadTimeDays int, safetyStock decimal.Decimal) *models.Part {
	t.Helper()
	part := &models.Part{
		PartNumber:   partNumber,
		Name:         partNumber,
		PartType:     partType,
		LeadTimeDays: leadTimeDays,
		SafetyStock:  safetyStock,
		IsActive:     boolPtr(true),
	}
	if err := db.Create(part).Error; err != nil {
		t.Fatalf("create part %s: %v", partNumber, err)
	}
	return part
}

func createTestBOM(t *testing.T, db *gorm.DB, partId int, items []models.BomItem) *models.BillOfMaterial {
	t.Helper()
	bom := &models.BillOfMaterial{
		PartId:   partId,
		Revision: "A",
		IsActive: boolPtr(true),
		Items:    items,
	}
	if err := db.Create(bom).Error; err != nil {
		t.Fatalf("create bom for part %d: %v", partId, err)
	}
	return bom
}

func createTestInventory(t *testing.T, db *gorm.DB, partId int, onHand, allocated, onOrder decimal.Decimal) {
	t.Helper()
	level := &models.InventoryLevel{
		PartId:       partId,
		QtyOnHand:    onHand,
		QtyAllocated: allocated,
		QtyOnOrder:   onOrder,
	}
	if err := db.Create(level).Error; err != nil {
		t.Fatalf("create inventory for part %d: %v", partId, err)
	}
}

func createTestOrder(t *testing.T, db *gorm.DB, orderNumber string, partId int, qty decimal.Decimal, dueDate time.Time) *models.ProductionOrder {
	t.Helper()
	order := &models.ProductionOrder{
		OrderNumber:   orderNumber,
		PartId:        partId,
		QtyOrdered:    qty,
		DueDate:       dueDate,
		CurrentStatus: models.ProductionOrderStatusOpen,
	}
	if err := db.Create(order).Error; err != nil {
		t.Fatalf("create production order %s: %v", orderNumber, err)
	}
	return order
}
