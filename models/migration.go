package models

import (
	"log"

	"github.com/jwerthen/Werco-ERP-MES-sub001/config"
)

func MigrateTable() {
	db := config.GetDB()

	err := db.AutoMigrate(
		&Part{}, &BillOfMaterial{}, &BomItem{},
		&InventoryLevel{},
		&ProductionOrder{},
		&Supplier{}, &SupplierPart{},
		&PurchaseOrder{}, &PurchaseOrderDetail{},
		&WorkOrder{},
		&MRPRun{}, &MRPRequirement{}, &MRPAction{},
		&Notification{},
		&History{},
	)
	if err != nil {
		log.Fatal(err)
	}
}
