package models

import (
	"testing"

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
		&Part{},
		&BillOfMaterial{},
		&BomItem{},
		&InventoryLevel{},
		&ProductionOrder{},
		&Supplier{},
		&SupplierPart{},
		&PurchaseOrder{},
		&PurchaseOrderDetail{},
		&WorkOrder{},
		&MRPRun{},
		&MRPRequirement{},
		&MRPAction{},
		&Notification{},
		&History{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func boolPtr(b bool) *bool {
	return &b
}
