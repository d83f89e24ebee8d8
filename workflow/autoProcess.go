package workflow

import (
	"context"
	"fmt"
	"time"

	"github.com/jwerthen/Werco-ERP-MES-sub001/config"
	"github.com/jwerthen/Werco-ERP-MES-sub001/models"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// AutoProcessSummary is the batch outcome of one auto-processing pass.
type AutoProcessSummary struct {
	PosCreated       int `json:"pos_created"`
	WosCreated       int `json:"wos_created"`
	ActionsProcessed int `json:"actions_processed"`
	Errors           int `json:"errors"`
}

// AutoProcessor turns a run's actions into draft (or released) orders.
type AutoProcessor struct {
	vendorResolvers []VendorResolver
	costResolvers   []CostResolver
	logger          *logrus.Logger
}

func NewAutoProcessor(logger *logrus.Logger) *AutoProcessor {
	return &AutoProcessor{
		vendorResolvers: defaultVendorResolvers(),
		costResolvers:   defaultCostResolvers(),
		logger:          logger,
	}
}

// ProcessRunActions handles every unprocessed action of the run under
// the given mode. Review touches nothing. A failure on one action is
// recorded on that action and counted; the rest of the batch still
// runs.
func (p *AutoProcessor) ProcessRunActions(db *gorm.DB, ctx context.Context, run *models.MRPRun, mode models.MRPProcessingMode, today time.Time) (*AutoProcessSummary, error) {
	summary := &AutoProcessSummary{}
	if mode == models.MRPProcessingModeReview {
		return summary, nil
	}
	if mode != models.MRPProcessingModeAutoDraft && mode != models.MRPProcessingModeAutoSubmit {
		return nil, fmt.Errorf("invalid processing mode %q", mode)
	}

	actions, err := models.GetUnprocessedActionsForRun(db, ctx, run.ID)
	if err != nil {
		return nil, err
	}

	poStatus := models.PurchaseOrderStatusDraft
	woStatus := models.WorkOrderStatusDraft
	if mode == models.MRPProcessingModeAutoSubmit {
		poStatus = models.PurchaseOrderStatusIssued
		woStatus = models.WorkOrderStatusReleased
	}

	for _, action := range actions {
		var createdPO, createdWO bool
		err := db.Transaction(func(tx *gorm.DB) error {
			var txErr error
			createdPO, createdWO, txErr = p.processAction(tx, ctx, run, action, poStatus, woStatus, today)
			return txErr
		})
		if err != nil {
			summary.Errors++
			config.LogError(p.logger, "workflow", "ProcessRunActions", run.RunNumber, map[string]interface{}{
				"actionId": action.ID,
				"partId":   action.PartId,
			}, err)
			if recordErr := models.RecordActionError(db, ctx, action, err); recordErr != nil {
				config.LogError(p.logger, "workflow", "RecordActionError", run.RunNumber, nil, recordErr)
			}
			continue
		}
		summary.ActionsProcessed++
		if createdPO {
			summary.PosCreated++
		}
		if createdWO {
			summary.WosCreated++
		}
	}

	p.logger.WithFields(logrus.Fields{
		"runNumber":        run.RunNumber,
		"mode":             mode,
		"posCreated":       summary.PosCreated,
		"wosCreated":       summary.WosCreated,
		"actionsProcessed": summary.ActionsProcessed,
		"errors":           summary.Errors,
	}).Info("mrp auto-processing complete")
	return summary, nil
}

func (p *AutoProcessor) processAction(tx *gorm.DB, ctx context.Context, run *models.MRPRun, action *models.MRPAction,
	poStatus models.PurchaseOrderStatus, woStatus models.WorkOrderStatus, today time.Time) (createdPO bool, createdWO bool, err error) {

	part, err := models.GetPart(tx, ctx, action.PartId)
	if err != nil {
		return false, false, fmt.Errorf("part %d not found for action %d", action.PartId, action.ID)
	}

	switch action.ActionType {
	case models.MRPActionTypeOrder:
		supplier, err := resolveVendor(tx, ctx, p.vendorResolvers, action.PartId)
		if err != nil {
			return false, false, err
		}
		unitCost, resolved, err := resolveUnitCost(tx, ctx, p.costResolvers, supplier.ID, action.PartId)
		if err != nil {
			return false, false, err
		}
		if !resolved {
			p.logger.WithFields(logrus.Fields{
				"partNumber": part.PartNumber,
				"supplierId": supplier.ID,
			}).Warn("no unit cost resolvable; purchase order line priced at zero")
		}

		order, err := models.CreatePurchaseOrderFromAction(tx, ctx, &models.NewPurchaseOrder{
			SupplierId:   supplier.ID,
			PartId:       part.ID,
			Description:  part.Name,
			Qty:          action.Quantity,
			UnitRate:     unitCost,
			OrderDate:    today,
			RequiredDate: action.RequiredDate,
			Status:       poStatus,
			MrpRunId:     run.ID,
			MrpActionId:  action.ID,
		})
		if err != nil {
			return false, false, err
		}
		if err := models.MarkActionProcessed(tx, ctx, action, order.ID, 0); err != nil {
			return false, false, err
		}
		p.audit(tx, ctx, action, order,
			fmt.Sprintf("Purchase order %s created for %s x %s from %s.",
				order.OrderNumber, part.PartNumber, action.Quantity, supplier.Name))
		return true, false, nil

	case models.MRPActionTypeManufacture:
		order, err := models.CreateWorkOrderFromAction(tx, ctx, &models.NewWorkOrder{
			PartId:      part.ID,
			Qty:         action.Quantity,
			DueDate:     action.RequiredDate,
			StartDate:   action.SuggestedOrderDate,
			Priority:    action.Priority,
			Status:      woStatus,
			Notes:       fmt.Sprintf("Auto-created by MRP run %s", run.RunNumber),
			MrpRunId:    run.ID,
			MrpActionId: action.ID,
		})
		if err != nil {
			return false, false, err
		}
		if err := models.MarkActionProcessed(tx, ctx, action, 0, order.ID); err != nil {
			return false, false, err
		}
		p.audit(tx, ctx, action, order,
			fmt.Sprintf("Work order %s created for %s x %s.",
				order.OrderNumber, part.PartNumber, action.Quantity))
		return false, true, nil

	case models.MRPActionTypeExpedite:
		// nothing is ordered; purchasing/production chases existing supply
		target := "production"
		if part.PartType.IsProcured() {
			target = "purchasing"
		}
		notification, notifyErr := models.CreateNotification(tx, ctx, &models.NewNotification{
			Type:  models.NotificationTypeMrpExpedite,
			Title: fmt.Sprintf("Expedite %s", part.PartNumber),
			Message: fmt.Sprintf("Run %s: %s x %s needed by %s is already inside lead time; expedite via %s.",
				run.RunNumber, part.PartNumber, action.Quantity, action.RequiredDate.Format("2006-01-02"), target),
			ReferenceId:   action.ID,
			ReferenceType: "MrpAction",
		})
		// fire and forget: a failed notification must not fail the batch
		if notifyErr != nil {
			config.LogError(p.logger, "workflow", "processAction", "expedite notification", nil, notifyErr)
		}
		if err := models.MarkActionProcessed(tx, ctx, action, 0, 0); err != nil {
			return false, false, err
		}
		p.audit(tx, ctx, action, notification,
			fmt.Sprintf("Expedite raised for %s x %s needed by %s.",
				part.PartNumber, action.Quantity, action.RequiredDate.Format("2006-01-02")))
		return false, false, nil
	}

	return false, false, fmt.Errorf("unknown action type %q", action.ActionType)
}

// audit is best-effort; audit failures are logged, never propagated.
func (p *AutoProcessor) audit(tx *gorm.DB, ctx context.Context, action *models.MRPAction, after interface{}, description string) {
	if err := models.CreateHistory(tx, ctx, "Create", action.ID, "MrpAction", nil, after, description); err != nil {
		config.LogError(p.logger, "workflow", "audit", "mrp action audit", map[string]interface{}{
			"actionId": action.ID,
		}, err)
	}
}
