package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	"github.com/Apurer/invoicing-api/internal/app/api"
	platformobservability "github.com/Apurer/invoicing-api/internal/platform/observability"
	invoiceactivities "github.com/Apurer/invoicing-api/internal/platform/temporal/activities/invoices"
	invoiceworkflows "github.com/Apurer/invoicing-api/internal/platform/temporal/workflows/invoices"
)

func main() {
	ctx := context.Background()
	const serviceName = "invoicing-worker"
	cfg, err := api.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName, cfg.ResourceAttributes())
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
	if err := cfg.RequireSharedStore(); err != nil {
		logger.Error("refusing to start worker", slog.String("error", err.Error()))
		os.Exit(1)
	}

	services, err := api.BuildServices(ctx, cfg, instruments)
	if err != nil {
		logger.Error("failed to build services", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer services.Close()
	invoiceActivities := invoiceactivities.NewActivities(services.Invoices)

	cfg.TemporalDisabled = false
	temporalClient, err := api.ConnectTemporalClient(cfg, instruments)
	if err != nil {
		logger.Error("failed to create Temporal client", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer temporalClient.Close()

	w := worker.New(temporalClient, invoiceworkflows.InvoiceCreationTaskQueue, worker.Options{})
	w.RegisterWorkflowWithOptions(invoiceworkflows.InvoiceCreationWorkflow, workflow.RegisterOptions{Name: invoiceworkflows.InvoiceCreationWorkflowName})
	w.RegisterActivityWithOptions(invoiceActivities.CreateInvoice, activity.RegisterOptions{Name: invoiceactivities.CreateInvoiceActivityName})

	logger.Info("worker listening", slog.String("taskQueue", invoiceworkflows.InvoiceCreationTaskQueue), slog.String("namespace", cfg.TemporalNamespace))
	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Error("Temporal worker exited with error", slog.String("error", err.Error()))
		return
	}
	logger.Info("Temporal worker stopped")
}
