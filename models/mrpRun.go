package models

import (
	"context"
	"errors"
	"time"

	"github.com/jwerthen/Werco-ERP-MES-sub001/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// MRPRun is one auditable planning execution. Created Running, flipped
// exactly once to Complete or Error, never mutated afterwards. Reruns
// create new rows; prior runs are immutable history.
type MRPRun struct {
	ID                  int             `gorm:"primary_key" json:"id"`
	RunNumber           string          `gorm:"size:100;uniqueIndex;not null" json:"run_number"`
	CorrelationId       string          `gorm:"size:36;index" json:"correlation_id"`
	PlanningHorizonDays int             `gorm:"not null;default:90" json:"planning_horizon_days"`
	IncludeSafetyStock  *bool           `gorm:"not null;default:true" json:"include_safety_stock"`
	IncludeAllocated    *bool           `gorm:"not null;default:true" json:"include_allocated"`
	Status              MRPRunStatus    `gorm:"size:20;not null;default:Running" json:"status"`
	StartedAt           time.Time       `gorm:"not null" json:"started_at"`
	CompletedAt         *time.Time      `gorm:"default:null" json:"completed_at"`
	ErrorMessage        string          `gorm:"type:text" json:"error_message"`
	PartsAnalyzed       int             `gorm:"default:0" json:"parts_analyzed"`
	RequirementCount    int             `gorm:"default:0" json:"requirement_count"`
	ActionCount         int             `gorm:"default:0" json:"action_count"`
	WarningCount        int             `gorm:"default:0" json:"warning_count"`
	CreatedAt           time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

// MRPRequirement is one (part, required date) bucket of a run. Rows are
// written once at the run's commit point and never updated.
type MRPRequirement struct {
	ID           int             `gorm:"primary_key" json:"id"`
	MrpRunId     int             `gorm:"index;not null" json:"mrp_run_id"`
	PartId       int             `gorm:"index;not null" json:"part_id"`
	RequiredDate time.Time       `gorm:"not null" json:"required_date"`
	BomLevel     int             `gorm:"default:0" json:"bom_level"`
	QtyRequired  decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"qty_required"`
	QtyOnHand    decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"qty_on_hand"`
	QtyAllocated decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"qty_allocated"`
	QtyOnOrder   decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"qty_on_order"`
	QtyAvailable decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"qty_available"`
	QtyShortage  decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"qty_shortage"`
	Sources      string          `gorm:"type:text" json:"sources"`
	CreatedAt    time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

// MRPAction is one recommended action for a shortage bucket. After the
// run completes the row is mutated only to record processing outcome.
type MRPAction struct {
	ID                 int             `gorm:"primary_key" json:"id"`
	MrpRunId           int             `gorm:"index;not null" json:"mrp_run_id"`
	PartId             int             `gorm:"index;not null" json:"part_id"`
	ActionType         MRPActionType   `gorm:"size:20;not null" json:"action_type"`
	Priority           int             `gorm:"default:5" json:"priority"`
	Quantity           decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"quantity"`
	RequiredDate       time.Time       `gorm:"not null" json:"required_date"`
	SuggestedOrderDate time.Time       `gorm:"not null" json:"suggested_order_date"`
	IsProcessed        *bool           `gorm:"not null;default:false" json:"is_processed"`
	ProcessedAt        *time.Time      `gorm:"default:null" json:"processed_at"`
	ErrorMessage       string          `gorm:"type:text" json:"error_message"`
	PurchaseOrderId    int             `gorm:"default:null" json:"purchase_order_id"`
	WorkOrderId        int             `gorm:"default:null" json:"work_order_id"`
	CreatedAt          time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewMRPRun struct {
	CorrelationId       string
	PlanningHorizonDays int
	IncludeSafetyStock  bool
	IncludeAllocated    bool
	StartedAt           time.Time
}

// CreateMRPRun opens a run in Running status with a date-scoped
// monotonic run number (MRP-20260825-003). The row is committed before
// planning starts so a crashed run still leaves a trace.
func CreateMRPRun(tx *gorm.DB, ctx context.Context, input *NewMRPRun) (*MRPRun, error) {
	runNumber, err := nextDocumentNumber(tx, ctx, &MRPRun{}, "run_number", "MRP", input.StartedAt)
	if err != nil {
		return nil, err
	}

	includeSafetyStock := input.IncludeSafetyStock
	includeAllocated := input.IncludeAllocated
	run := MRPRun{
		RunNumber:           runNumber,
		CorrelationId:       input.CorrelationId,
		PlanningHorizonDays: input.PlanningHorizonDays,
		IncludeSafetyStock:  &includeSafetyStock,
		IncludeAllocated:    &includeAllocated,
		Status:              MRPRunStatusRunning,
		StartedAt:           input.StartedAt,
	}
	if err := tx.WithContext(ctx).Create(&run).Error; err != nil {
		return nil, err
	}
	return &run, nil
}

// MarkMRPRunComplete records the aggregate counts and flips the run to
// its terminal Complete status.
func MarkMRPRunComplete(tx *gorm.DB, ctx context.Context, run *MRPRun, partsAnalyzed, requirementCount, actionCount, warningCount int) error {
	if run.Status != MRPRunStatusRunning {
		return errors.New("mrp run is already terminal")
	}
	now := time.Now().UTC()
	return tx.WithContext(ctx).Model(run).
		Updates(map[string]interface{}{
			"status":            MRPRunStatusComplete,
			"completed_at":      now,
			"parts_analyzed":    partsAnalyzed,
			"requirement_count": requirementCount,
			"action_count":      actionCount,
			"warning_count":     warningCount,
		}).Error
}

// MarkMRPRunFailed flips the run to its terminal Error status with the
// failure message. The failed row is kept for auditability.
func MarkMRPRunFailed(tx *gorm.DB, ctx context.Context, run *MRPRun, runErr error) error {
	if run.Status != MRPRunStatusRunning {
		return errors.New("mrp run is already terminal")
	}
	now := time.Now().UTC()
	return tx.WithContext(ctx).Model(run).
		Updates(map[string]interface{}{
			"status":        MRPRunStatusError,
			"completed_at":  now,
			"error_message": runErr.Error(),
		}).Error
}

// SaveRequirements batch-inserts the run's requirement rows.
func SaveRequirements(tx *gorm.DB, ctx context.Context, requirements []MRPRequirement) error {
	if len(requirements) == 0 {
		return nil
	}
	return tx.WithContext(ctx).CreateInBatches(requirements, 500).Error
}

// SaveActions batch-inserts the run's action rows.
func SaveActions(tx *gorm.DB, ctx context.Context, actions []MRPAction) error {
	if len(actions) == 0 {
		return nil
	}
	return tx.WithContext(ctx).CreateInBatches(actions, 500).Error
}

// GetMRPRun fetches one run by id.
// (may return RecordNotFound)
func GetMRPRun(tx *gorm.DB, ctx context.Context, id int) (*MRPRun, error) {
	var run MRPRun
	if err := tx.WithContext(ctx).First(&run, id).Error; err != nil {
		return nil, utils.ErrorRecordNotFound
	}
	return &run, nil
}

// GetMRPRuns lists runs, newest first.
func GetMRPRuns(tx *gorm.DB, ctx context.Context, limit int) ([]*MRPRun, error) {
	var runs []*MRPRun
	dbCtx := tx.WithContext(ctx).Order("id DESC")
	if limit > 0 {
		dbCtx = dbCtx.Limit(limit)
	}
	if err := dbCtx.Find(&runs).Error; err != nil {
		return nil, err
	}
	return runs, nil
}

// GetLatestCompleteMRPRun returns the most recent Complete run;
// planners act on this one.
// (may return RecordNotFound)
func GetLatestCompleteMRPRun(tx *gorm.DB, ctx context.Context) (*MRPRun, error) {
	var run MRPRun
	err := tx.WithContext(ctx).
		Where("status = ?", MRPRunStatusComplete).
		Order("id DESC").
		First(&run).Error
	if err != nil {
		return nil, utils.ErrorRecordNotFound
	}
	return &run, nil
}

// GetRequirementsForRun returns a run's requirement buckets ordered by
// part and date.
func GetRequirementsForRun(tx *gorm.DB, ctx context.Context, runId int) ([]*MRPRequirement, error) {
	var requirements []*MRPRequirement
	err := tx.WithContext(ctx).
		Where("mrp_run_id = ?", runId).
		Order("part_id, required_date").
		Find(&requirements).Error
	if err != nil {
		return nil, err
	}
	return requirements, nil
}

// GetActionsForRun returns a run's actions, most urgent first.
func GetActionsForRun(tx *gorm.DB, ctx context.Context, runId int) ([]*MRPAction, error) {
	var actions []*MRPAction
	err := tx.WithContext(ctx).
		Where("mrp_run_id = ?", runId).
		Order("priority, required_date, id").
		Find(&actions).Error
	if err != nil {
		return nil, err
	}
	return actions, nil
}

// GetUnprocessedActionsForRun returns the actions auto-processing still
// has to handle, most urgent first.
func GetUnprocessedActionsForRun(tx *gorm.DB, ctx context.Context, runId int) ([]*MRPAction, error) {
	var actions []*MRPAction
	err := tx.WithContext(ctx).
		Where("mrp_run_id = ? AND is_processed = ?", runId, false).
		Order("priority, required_date, id").
		Find(&actions).Error
	if err != nil {
		return nil, err
	}
	return actions, nil
}

// MarkActionProcessed records a successful processing outcome together
// with the created order id, if any.
func MarkActionProcessed(tx *gorm.DB, ctx context.Context, action *MRPAction, purchaseOrderId, workOrderId int) error {
	now := time.Now().UTC()
	updates := map[string]interface{}{
		"is_processed": true,
		"processed_at": now,
	}
	if purchaseOrderId > 0 {
		updates["purchase_order_id"] = purchaseOrderId
	}
	if workOrderId > 0 {
		updates["work_order_id"] = workOrderId
	}
	return tx.WithContext(ctx).Model(action).Updates(updates).Error
}

// RecordActionError notes a per-action processing failure without
// blocking the rest of the batch.
func RecordActionError(tx *gorm.DB, ctx context.Context, action *MRPAction, actionErr error) error {
	return tx.WithContext(ctx).Model(action).
		Update("error_message", actionErr.Error()).Error
}
