package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/jwerthen/Werco-ERP-MES-sub001/config"
	"github.com/jwerthen/Werco-ERP-MES-sub001/models"
	"github.com/jwerthen/Werco-ERP-MES-sub001/utils"
	"github.com/jwerthen/Werco-ERP-MES-sub001/workflow"
)

func main() {
	horizonDays := flag.Int("horizon", 90, "Planning horizon in days")
	safetyStock := flag.Bool("safety-stock", true, "Include safety stock in netting")
	allocated := flag.Bool("allocated", true, "Subtract allocated quantity from available stock")
	mode := flag.String("mode", string(models.MRPProcessingModeReview), "Processing mode: Review, AutoDraft or AutoSubmit")
	migrate := flag.Bool("migrate", false, "Run AutoMigrate before planning")
	flag.Parse()

	processingMode := models.MRPProcessingMode(*mode)
	switch processingMode {
	case models.MRPProcessingModeReview, models.MRPProcessingModeAutoDraft, models.MRPProcessingModeAutoSubmit:
	default:
		fmt.Fprintf(os.Stderr, "invalid mode %q\n", *mode)
		os.Exit(1)
	}

	config.ConnectDatabaseWithRetry()
	db := config.GetDB()
	if db == nil {
		fmt.Fprintln(os.Stderr, "database not initialized")
		os.Exit(1)
	}
	if *migrate {
		models.MigrateTable()
	}
	logger := config.GetLogger()

	ctx := context.Background()
	ctx = utils.SetUserNameInContext(ctx, "mrp-cli")

	run, err := workflow.RunMRP(db, ctx, logger, workflow.RunOptions{
		PlanningHorizonDays: *horizonDays,
		IncludeSafetyStock:  *safetyStock,
		IncludeAllocated:    *allocated,
	})
	if err != nil {
		if run != nil {
			fmt.Fprintf(os.Stderr, "mrp run %s failed: %v\n", run.RunNumber, err)
		} else {
			fmt.Fprintf(os.Stderr, "mrp run failed: %v\n", err)
		}
		os.Exit(1)
	}

	fmt.Printf("Run %s complete: %d parts analyzed, %d requirements, %d actions, %d warnings\n",
		run.RunNumber, run.PartsAnalyzed, run.RequirementCount, run.ActionCount, run.WarningCount)

	if processingMode == models.MRPProcessingModeReview {
		return
	}

	processor := workflow.NewAutoProcessor(logger)
	summary, err := processor.ProcessRunActions(db, ctx, run, processingMode, utils.TruncateToDay(run.StartedAt))
	if err != nil {
		fmt.Fprintf(os.Stderr, "auto-processing failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Auto-processing (%s): %d POs, %d WOs, %d actions processed, %d errors\n",
		processingMode, summary.PosCreated, summary.WosCreated, summary.ActionsProcessed, summary.Errors)
}
