package workflow

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jwerthen/Werco-ERP-MES-sub001/config"
	"github.com/jwerthen/Werco-ERP-MES-sub001/models"
	"github.com/jwerthen/Werco-ERP-MES-sub001/utils"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var validate = validator.New()

// RunOptions is the invocation configuration of one planning run.
type RunOptions struct {
	PlanningHorizonDays int  `validate:"gt=0,lte=3650"`
	IncludeSafetyStock  bool
	IncludeAllocated    bool
}

func DefaultRunOptions() RunOptions {
	return RunOptions{
		PlanningHorizonDays: 90,
		IncludeSafetyStock:  true,
		IncludeAllocated:    true,
	}
}

// RunMRP executes one full planning pass: open a run, explode all open
// demand, aggregate, net against inventory, and persist everything in
// a single final transaction before flipping the run to Complete. On
// failure the run is committed as Error with the message and the error
// propagates to the caller. Nothing here locks out overlapping runs;
// callers that cannot tolerate duplicate actions across runs must
// serialize invocations themselves.
func RunMRP(db *gorm.DB, ctx context.Context, logger *logrus.Logger, opts RunOptions) (*models.MRPRun, error) {
	if err := validate.Struct(opts); err != nil {
		return nil, err
	}

	correlationId, ok := utils.GetCorrelationIdFromContext(ctx)
	if !ok || correlationId == "" {
		correlationId = uuid.NewString()
	}

	startedAt := time.Now().UTC()
	today := utils.TruncateToDay(startedAt)

	run, err := models.CreateMRPRun(db, ctx, &models.NewMRPRun{
		CorrelationId:       correlationId,
		PlanningHorizonDays: opts.PlanningHorizonDays,
		IncludeSafetyStock:  opts.IncludeSafetyStock,
		IncludeAllocated:    opts.IncludeAllocated,
		StartedAt:           startedAt,
	})
	if err != nil {
		return nil, err
	}

	logger.WithFields(logrus.Fields{
		"runNumber":     run.RunNumber,
		"correlationId": correlationId,
		"horizonDays":   opts.PlanningHorizonDays,
	}).Info("mrp run started")

	if err := executeRun(db, ctx, logger, run, opts, today); err != nil {
		config.LogError(logger, "workflow", "RunMRP", run.RunNumber, nil, err)
		if markErr := models.MarkMRPRunFailed(db, ctx, run, err); markErr != nil {
			config.LogError(logger, "workflow", "MarkMRPRunFailed", run.RunNumber, nil, markErr)
		}
		return run, err
	}

	logger.WithFields(logrus.Fields{
		"runNumber":    run.RunNumber,
		"parts":        run.PartsAnalyzed,
		"requirements": run.RequirementCount,
		"actions":      run.ActionCount,
		"warnings":     run.WarningCount,
	}).Info("mrp run complete")
	return run, nil
}

func executeRun(db *gorm.DB, ctx context.Context, logger *logrus.Logger, run *models.MRPRun, opts RunOptions, today time.Time) error {
	horizonEnd := today.AddDate(0, 0, opts.PlanningHorizonDays)

	demand, err := models.GetOpenDemand(db, ctx, horizonEnd)
	if err != nil {
		return err
	}
	data, err := LoadPlanningData(db, ctx)
	if err != nil {
		return err
	}

	planner := NewPlanner(data, logger)
	aggregator := NewAggregator()

	for _, line := range demand {
		bom, ok := data.Boms[line.PartId]
		if !ok {
			// demand for a part without a BOM has no component needs
			continue
		}
		exploded := planner.ExplodeBOM(bom.ID, line.Quantity, utils.TruncateToDay(line.DueDate), 0, nil)
		aggregator.Add(line, exploded)
	}

	var requirements []models.MRPRequirement
	var actions []models.MRPAction
	partsAnalyzed := 0

	for _, pr := range aggregator.Parts() {
		part, ok := data.Parts[pr.PartId]
		if !ok {
			planner.warn("executeRun", "aggregated part missing from snapshot", logrus.Fields{"partId": pr.PartId})
			continue
		}
		inventory, err := models.GetInventoryLevel(db, ctx, pr.PartId)
		if err != nil {
			return err
		}

		partRequirements, partActions := NetPartRequirements(part, inventory, pr,
			opts.IncludeSafetyStock, opts.IncludeAllocated, today)
		requirements = append(requirements, partRequirements...)
		actions = append(actions, partActions...)
		partsAnalyzed++
	}

	for i := range requirements {
		requirements[i].MrpRunId = run.ID
	}
	for i := range actions {
		actions[i].MrpRunId = run.ID
	}

	// single commit point: rows and the terminal status land together
	return db.Transaction(func(tx *gorm.DB) error {
		if err := models.SaveRequirements(tx, ctx, requirements); err != nil {
			return err
		}
		if err := models.SaveActions(tx, ctx, actions); err != nil {
			return err
		}
		if err := models.MarkMRPRunComplete(tx, ctx, run,
			partsAnalyzed, len(requirements), len(actions), planner.Warnings()); err != nil {
			return err
		}
		run.PartsAnalyzed = partsAnalyzed
		run.RequirementCount = len(requirements)
		run.ActionCount = len(actions)
		run.WarningCount = planner.Warnings()
		return nil
	})
}
