package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/worker"

	"github.com/Apurer/gift-registry/internal/app/api"
	platformobservability "github.com/Apurer/gift-registry/internal/platform/observability"
	platformpostgres "github.com/Apurer/gift-registry/internal/platform/postgres"
	checkoutactivities "github.com/Apurer/gift-registry/internal/platform/temporal/activities/checkout"
	checkoutworkflows "github.com/Apurer/gift-registry/internal/platform/temporal/workflows/checkout"
)

func main() {
	ctx := context.Background()
	const serviceName = "gift-registry-worker"
	cfg, err := api.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName,
		platformobservability.WithLogLevel(cfg.LogLevel),
		platformobservability.WithEnvironment(cfg.Environment),
	)
	if err != nil {
		log.Fatalf("failed to initialize observability: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	db, cleanupDB := platformpostgres.ConnectOptional(ctx, cfg.PostgresDSN, logger)
	defer cleanupDB()
	if db == nil {
		logger.Error("the fulfillment worker needs the shared postgres catalog; set POSTGRES_DSN")
		os.Exit(1)
	}
	catalogStore, err := api.BuildCatalogStore(cfg, db, logger)
	if err != nil {
		logger.Error("failed to build catalog store", slog.String("error", err.Error()))
		os.Exit(1)
	}
	fulfiller, incrementer, err := api.BuildFulfiller(ctx, cfg, catalogStore, logger)
	if err != nil {
		logger.Error("failed to build fulfiller", slog.String("error", err.Error()))
		os.Exit(1)
	}
	activities := checkoutactivities.NewActivities(fulfiller)

	temporalClient, err := api.ConnectTemporal(cfg, instruments, "temporal-worker")
	if err != nil {
		logger.Error("failed to create Temporal client", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer temporalClient.Close()

	w := worker.New(temporalClient, checkoutworkflows.FulfillmentTaskQueue, worker.Options{})
	w.RegisterWorkflowWithOptions(checkoutworkflows.FulfillmentWorkflow, checkoutworkflows.RegisterOptions())
	w.RegisterActivityWithOptions(activities.IncrementInventory, activity.RegisterOptions{Name: checkoutactivities.IncrementInventoryActivityName})
	w.RegisterActivityWithOptions(activities.RunPostCommitHooks, activity.RegisterOptions{Name: checkoutactivities.RunPostCommitHooksActivityName})

	logger.Info("worker listening",
		slog.String("taskQueue", checkoutworkflows.FulfillmentTaskQueue),
		slog.String("namespace", cfg.TemporalNamespace),
		slog.String("inventory.strategy", incrementer.Strategy()))
	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Error("Temporal worker exited with error", slog.String("error", err.Error()))
		return
	}
	logger.Info("Temporal worker stopped")
}
