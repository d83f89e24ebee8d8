package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-playground/validator/v10"
	"github.com/jwerthen/Werco-ERP-MES-sub001/config"
	"github.com/jwerthen/Werco-ERP-MES-sub001/models"
	"github.com/jwerthen/Werco-ERP-MES-sub001/utils"
	"github.com/jwerthen/Werco-ERP-MES-sub001/workflow"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

// SchedulerConfig drives the periodic planning run. Standard 5-field
// cron expression (minute, hour, dom, month, dow).
type SchedulerConfig struct {
	Schedule            string `yaml:"schedule" validate:"required"`
	PlanningHorizonDays int    `yaml:"planning_horizon_days" validate:"gt=0,lte=3650"`
	IncludeSafetyStock  bool   `yaml:"include_safety_stock"`
	IncludeAllocated    bool   `yaml:"include_allocated"`
	Mode                string `yaml:"mode" validate:"oneof=Review AutoDraft AutoSubmit"`
}

func loadConfig(path string) (*SchedulerConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := &SchedulerConfig{
		Schedule:            "0 2 * * *",
		PlanningHorizonDays: 90,
		IncludeSafetyStock:  true,
		IncludeAllocated:    true,
		Mode:                string(models.MRPProcessingModeReview),
	}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, err
	}
	if err := validator.New().Struct(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func main() {
	configPath := flag.String("config", "mrp-scheduler.yaml", "Path to scheduler config")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	config.ConnectDatabaseWithRetry()
	db := config.GetDB()
	logger := config.GetLogger()

	runOnce := func() {
		ctx := utils.SetUserNameInContext(context.Background(), "mrp-scheduler")
		run, err := workflow.RunMRP(db, ctx, logger, workflow.RunOptions{
			PlanningHorizonDays: cfg.PlanningHorizonDays,
			IncludeSafetyStock:  cfg.IncludeSafetyStock,
			IncludeAllocated:    cfg.IncludeAllocated,
		})
		if err != nil {
			// the failed run is already committed with its message
			config.LogError(logger, "mrp-scheduler", "runOnce", "scheduled run", nil, err)
			return
		}

		mode := models.MRPProcessingMode(cfg.Mode)
		if mode == models.MRPProcessingModeReview {
			return
		}
		processor := workflow.NewAutoProcessor(logger)
		if _, err := processor.ProcessRunActions(db, ctx, run, mode, utils.TruncateToDay(run.StartedAt)); err != nil {
			config.LogError(logger, "mrp-scheduler", "runOnce", "auto-processing", nil, err)
		}
	}

	c := cron.New()
	if _, err := c.AddFunc(cfg.Schedule, runOnce); err != nil {
		fmt.Fprintf(os.Stderr, "invalid schedule %q: %v\n", cfg.Schedule, err)
		os.Exit(1)
	}
	c.Start()
	logger.WithField("schedule", cfg.Schedule).Info("mrp scheduler started")

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	<-c.Stop().Done()
	logger.Info("mrp scheduler stopped")
}
