package workflow

import (
	"context"
	"testing"
	"time"

	"github.com/jwerthen/Werco-ERP-MES-sub001/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func createTestSupplier(t *testing.T, db *gorm.DB, name string) *models.Supplier {
	t.Helper()
	supplier := &models.Supplier{Name: name, IsActive: boolPtr(true)}
	if err := db.Create(supplier).Error; err != nil {
		t.Fatalf("create supplier %s: %v", name, err)
	}
	return supplier
}

func mapSupplierPart(t *testing.T, db *gorm.DB, supplierId, partId int, preferred bool) {
	t.Helper()
	mapping := &models.SupplierPart{
		SupplierId:  supplierId,
		PartId:      partId,
		IsPreferred: boolPtr(preferred),
	}
	if err := db.Create(mapping).Error; err != nil {
		t.Fatalf("map supplier %d to part %d: %v", supplierId, partId, err)
	}
}

func seedPurchase(t *testing.T, db *gorm.DB, orderNumber string, supplierId, partId int, unitRate decimal.Decimal, orderDate time.Time) {
	t.Helper()
	order := &models.PurchaseOrder{
		OrderNumber:   orderNumber,
		SupplierId:    supplierId,
		OrderDate:     orderDate,
		CurrentStatus: models.PurchaseOrderStatusClosed,
		Details: []models.PurchaseOrderDetail{
			{PartId: partId, Qty: d(1), UnitRate: unitRate},
		},
	}
	if err := db.Create(order).Error; err != nil {
		t.Fatalf("seed purchase %s: %v", orderNumber, err)
	}
}

func createRunWithActions(t *testing.T, db *gorm.DB, actions []models.MRPAction) *models.MRPRun {
	t.Helper()
	ctx := context.Background()
	run, err := models.CreateMRPRun(db, ctx, &models.NewMRPRun{
		CorrelationId:       "test",
		PlanningHorizonDays: 90,
		StartedAt:           time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("create run: %v", err)
	}
	for i := range actions {
		actions[i].MrpRunId = run.ID
	}
	if err := models.SaveActions(db, ctx, actions); err != nil {
		t.Fatalf("save actions: %v", err)
	}
	if err := models.MarkMRPRunComplete(db, ctx, run, 1, len(actions), len(actions), 0); err != nil {
		t.Fatalf("complete run: %v", err)
	}
	return run
}

func TestReviewModeIsANoOp(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	today := day(2026, time.August, 25)

	part := createTestPart(t, db, "CMP-200", models.PartTypePurchased, 5, d(0))
	createTestSupplier(t, db, "Acme Metals")
	run := createRunWithActions(t, db, []models.MRPAction{
		{PartId: part.ID, ActionType: models.MRPActionTypeOrder, Priority: 5,
			Quantity: d(10), RequiredDate: today.AddDate(0, 0, 10), SuggestedOrderDate: today.AddDate(0, 0, 5)},
	})

	summary, err := NewAutoProcessor(newTestLogger()).ProcessRunActions(db, ctx, run, models.MRPProcessingModeReview, today)
	if err != nil {
		t.Fatalf("ProcessRunActions: %v", err)
	}
	if summary.PosCreated != 0 || summary.WosCreated != 0 || summary.ActionsProcessed != 0 {
		t.Errorf("review mode produced side effects: %+v", summary)
	}

	var poCount int64
	db.Model(&models.PurchaseOrder{}).Count(&poCount)
	if poCount != 0 {
		t.Errorf("expected no purchase orders, got %d", poCount)
	}
	actions, _ := models.GetUnprocessedActionsForRun(db, ctx, run.ID)
	if len(actions) != 1 {
		t.Errorf("action must stay unprocessed in review mode")
	}
}

func TestAutoDraftCreatesDraftOrders(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	today := day(2026, time.August, 25)

	purchased := createTestPart(t, db, "CMP-200", models.PartTypePurchased, 5, d(0))
	purchased.StandardCost = decimal.NewFromFloat(12.5)
	db.Save(purchased)
	made := createTestPart(t, db, "SUB-300", models.PartTypeManufactured, 3, d(0))
	supplier := createTestSupplier(t, db, "Acme Metals")
	mapSupplierPart(t, db, supplier.ID, purchased.ID, true)

	run := createRunWithActions(t, db, []models.MRPAction{
		{PartId: purchased.ID, ActionType: models.MRPActionTypeOrder, Priority: 5,
			Quantity: d(16), RequiredDate: today.AddDate(0, 0, 20), SuggestedOrderDate: today.AddDate(0, 0, 15)},
		{PartId: made.ID, ActionType: models.MRPActionTypeManufacture, Priority: 5,
			Quantity: d(4), RequiredDate: today.AddDate(0, 0, 20), SuggestedOrderDate: today.AddDate(0, 0, 17)},
	})

	summary, err := NewAutoProcessor(newTestLogger()).ProcessRunActions(db, ctx, run, models.MRPProcessingModeAutoDraft, today)
	if err != nil {
		t.Fatalf("ProcessRunActions: %v", err)
	}
	if summary.PosCreated != 1 || summary.WosCreated != 1 || summary.ActionsProcessed != 2 || summary.Errors != 0 {
		t.Fatalf("summary = %+v", summary)
	}

	var po models.PurchaseOrder
	if err := db.Preload("Details").First(&po).Error; err != nil {
		t.Fatalf("load purchase order: %v", err)
	}
	if po.CurrentStatus != models.PurchaseOrderStatusDraft {
		t.Errorf("po status = %s, want Draft", po.CurrentStatus)
	}
	if po.SupplierId != supplier.ID || po.MrpRunId != run.ID {
		t.Errorf("po = %+v", po)
	}
	if len(po.Details) != 1 || !po.Details[0].Qty.Equal(d(16)) {
		t.Fatalf("po details = %+v", po.Details)
	}
	// no purchase history, so the standard cost is the fallback
	if !po.Details[0].UnitRate.Equal(decimal.NewFromFloat(12.5)) {
		t.Errorf("unit rate = %s, want 12.5", po.Details[0].UnitRate)
	}
	if !po.OrderTotalAmount.Equal(decimal.NewFromFloat(200)) {
		t.Errorf("order total = %s, want 200", po.OrderTotalAmount)
	}

	var wo models.WorkOrder
	if err := db.First(&wo).Error; err != nil {
		t.Fatalf("load work order: %v", err)
	}
	if wo.CurrentStatus != models.WorkOrderStatusDraft {
		t.Errorf("wo status = %s, want Draft", wo.CurrentStatus)
	}
	if wo.Priority != 5 || !wo.Qty.Equal(d(4)) {
		t.Errorf("wo = %+v", wo)
	}
	if wo.StartDate == nil || !wo.StartDate.Equal(today.AddDate(0, 0, 17)) {
		t.Errorf("wo start date = %v", wo.StartDate)
	}

	remaining, _ := models.GetUnprocessedActionsForRun(db, ctx, run.ID)
	if len(remaining) != 0 {
		t.Errorf("expected all actions processed, %d remain", len(remaining))
	}
	actions, _ := models.GetActionsForRun(db, ctx, run.ID)
	for _, action := range actions {
		if action.IsProcessed == nil || !*action.IsProcessed || action.ProcessedAt == nil {
			t.Errorf("action %d not marked processed", action.ID)
		}
	}
}

func TestAutoSubmitReleasesOrders(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	today := day(2026, time.August, 25)

	purchased := createTestPart(t, db, "CMP-200", models.PartTypePurchased, 5, d(0))
	made := createTestPart(t, db, "SUB-300", models.PartTypeManufactured, 3, d(0))
	supplier := createTestSupplier(t, db, "Acme Metals")
	mapSupplierPart(t, db, supplier.ID, purchased.ID, false)

	run := createRunWithActions(t, db, []models.MRPAction{
		{PartId: purchased.ID, ActionType: models.MRPActionTypeOrder, Priority: 5,
			Quantity: d(2), RequiredDate: today.AddDate(0, 0, 20), SuggestedOrderDate: today.AddDate(0, 0, 15)},
		{PartId: made.ID, ActionType: models.MRPActionTypeManufacture, Priority: 5,
			Quantity: d(2), RequiredDate: today.AddDate(0, 0, 20), SuggestedOrderDate: today.AddDate(0, 0, 17)},
	})

	if _, err := NewAutoProcessor(newTestLogger()).ProcessRunActions(db, ctx, run, models.MRPProcessingModeAutoSubmit, today); err != nil {
		t.Fatalf("ProcessRunActions: %v", err)
	}

	var po models.PurchaseOrder
	db.First(&po)
	if po.CurrentStatus != models.PurchaseOrderStatusIssued {
		t.Errorf("po status = %s, want Issued", po.CurrentStatus)
	}
	var wo models.WorkOrder
	db.First(&wo)
	if wo.CurrentStatus != models.WorkOrderStatusReleased {
		t.Errorf("wo status = %s, want Released", wo.CurrentStatus)
	}
}

func TestVendorMappingOutranksPurchaseHistory(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	today := day(2026, time.August, 25)

	part := createTestPart(t, db, "CMP-200", models.PartTypePurchased, 5, d(0))
	mapped := createTestSupplier(t, db, "Mapped Supplier")
	frequent := createTestSupplier(t, db, "Frequent Supplier")

	mapSupplierPart(t, db, mapped.ID, part.ID, true)
	// plenty of history from the other vendor
	seedPurchase(t, db, "PO-OLD-001", frequent.ID, part.ID, d(9), today.AddDate(0, 0, -60))
	seedPurchase(t, db, "PO-OLD-002", frequent.ID, part.ID, d(9), today.AddDate(0, 0, -30))

	run := createRunWithActions(t, db, []models.MRPAction{
		{PartId: part.ID, ActionType: models.MRPActionTypeOrder, Priority: 5,
			Quantity: d(5), RequiredDate: today.AddDate(0, 0, 20), SuggestedOrderDate: today.AddDate(0, 0, 15)},
	})

	if _, err := NewAutoProcessor(newTestLogger()).ProcessRunActions(db, ctx, run, models.MRPProcessingModeAutoDraft, today); err != nil {
		t.Fatalf("ProcessRunActions: %v", err)
	}

	var po models.PurchaseOrder
	if err := db.Where("mrp_run_id = ?", run.ID).First(&po).Error; err != nil {
		t.Fatalf("load purchase order: %v", err)
	}
	if po.SupplierId != mapped.ID {
		t.Errorf("supplier = %d, want mapped supplier %d", po.SupplierId, mapped.ID)
	}
}

func TestVendorFallsBackToPurchaseHistory(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	today := day(2026, time.August, 25)

	part := createTestPart(t, db, "CMP-200", models.PartTypePurchased, 5, d(0))
	occasional := createTestSupplier(t, db, "Occasional Supplier")
	frequent := createTestSupplier(t, db, "Frequent Supplier")

	seedPurchase(t, db, "PO-OLD-001", occasional.ID, part.ID, d(8), today.AddDate(0, 0, -90))
	seedPurchase(t, db, "PO-OLD-002", frequent.ID, part.ID, d(9), today.AddDate(0, 0, -60))
	seedPurchase(t, db, "PO-OLD-003", frequent.ID, part.ID, d(11), today.AddDate(0, 0, -10))

	run := createRunWithActions(t, db, []models.MRPAction{
		{PartId: part.ID, ActionType: models.MRPActionTypeOrder, Priority: 5,
			Quantity: d(5), RequiredDate: today.AddDate(0, 0, 20), SuggestedOrderDate: today.AddDate(0, 0, 15)},
	})

	if _, err := NewAutoProcessor(newTestLogger()).ProcessRunActions(db, ctx, run, models.MRPProcessingModeAutoDraft, today); err != nil {
		t.Fatalf("ProcessRunActions: %v", err)
	}

	var po models.PurchaseOrder
	if err := db.Where("mrp_run_id = ?", run.ID).Preload("Details").First(&po).Error; err != nil {
		t.Fatalf("load purchase order: %v", err)
	}
	if po.SupplierId != frequent.ID {
		t.Errorf("supplier = %d, want most frequent %d", po.SupplierId, frequent.ID)
	}
	// the most recent purchase from that vendor prices the line
	if !po.Details[0].UnitRate.Equal(d(11)) {
		t.Errorf("unit rate = %s, want 11", po.Details[0].UnitRate)
	}
}

func TestExpediteRaisesNotification(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	today := day(2026, time.August, 25)

	part := createTestPart(t, db, "CMP-200", models.PartTypePurchased, 10, d(0))
	run := createRunWithActions(t, db, []models.MRPAction{
		{PartId: part.ID, ActionType: models.MRPActionTypeExpedite, Priority: 1,
			Quantity: d(5), RequiredDate: today.AddDate(0, 0, 3), SuggestedOrderDate: today},
	})

	summary, err := NewAutoProcessor(newTestLogger()).ProcessRunActions(db, ctx, run, models.MRPProcessingModeAutoDraft, today)
	if err != nil {
		t.Fatalf("ProcessRunActions: %v", err)
	}
	if summary.PosCreated != 0 || summary.WosCreated != 0 || summary.ActionsProcessed != 1 {
		t.Fatalf("summary = %+v", summary)
	}

	var notification models.Notification
	if err := db.First(&notification).Error; err != nil {
		t.Fatalf("load notification: %v", err)
	}
	if notification.Type != models.NotificationTypeMrpExpedite {
		t.Errorf("notification type = %s", notification.Type)
	}
	if notification.ReferenceType != "MrpAction" {
		t.Errorf("reference type = %s", notification.ReferenceType)
	}

	remaining, _ := models.GetUnprocessedActionsForRun(db, ctx, run.ID)
	if len(remaining) != 0 {
		t.Errorf("expedite action must be marked processed")
	}
}

func TestActionErrorDoesNotStopBatch(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	today := day(2026, time.August, 25)

	part := createTestPart(t, db, "CMP-200", models.PartTypePurchased, 5, d(0))
	supplier := createTestSupplier(t, db, "Acme Metals")
	mapSupplierPart(t, db, supplier.ID, part.ID, true)

	run := createRunWithActions(t, db, []models.MRPAction{
		// part id 9999 does not exist; this action must fail alone
		{PartId: 9999, ActionType: models.MRPActionTypeOrder, Priority: 1,
			Quantity: d(1), RequiredDate: today.AddDate(0, 0, 10), SuggestedOrderDate: today.AddDate(0, 0, 5)},
		{PartId: part.ID, ActionType: models.MRPActionTypeOrder, Priority: 5,
			Quantity: d(5), RequiredDate: today.AddDate(0, 0, 20), SuggestedOrderDate: today.AddDate(0, 0, 15)},
	})

	summary, err := NewAutoProcessor(newTestLogger()).ProcessRunActions(db, ctx, run, models.MRPProcessingModeAutoDraft, today)
	if err != nil {
		t.Fatalf("ProcessRunActions: %v", err)
	}
	if summary.Errors != 1 || summary.ActionsProcessed != 1 || summary.PosCreated != 1 {
		t.Fatalf("summary = %+v", summary)
	}

	actions, _ := models.GetActionsForRun(db, ctx, run.ID)
	var failed *models.MRPAction
	for _, action := range actions {
		if action.PartId == 9999 {
			failed = action
		}
	}
	if failed == nil || failed.ErrorMessage == "" {
		t.Errorf("failed action must carry its error message")
	}
	if failed.IsProcessed != nil && *failed.IsProcessed {
		t.Errorf("failed action must stay unprocessed")
	}
}

func TestProcessRejectsUnknownMode(t *testing.T) {
	db := newTestDB(t)
	run := createRunWithActions(t, db, nil)
	_, err := NewAutoProcessor(newTestLogger()).ProcessRunActions(db, context.Background(), run, models.MRPProcessingMode("Bogus"), day(2026, time.August, 25))
	if err == nil {
		t.Fatalf("expected error for unknown mode")
	}
}
