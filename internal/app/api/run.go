package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"

	invoicingserver "github.com/Apurer/invoicing-api/go"
	invoicesworkflows "github.com/Apurer/invoicing-api/internal/domains/invoices/adapters/workflows"
	invoiceports "github.com/Apurer/invoicing-api/internal/domains/invoices/ports"
	platformobservability "github.com/Apurer/invoicing-api/internal/platform/observability"
)

const ServiceName = "invoicing-api"

// Run boots the invoicing HTTP API with observability, repositories, and workflows wired.
// It returns when ctx is cancelled or the server fails.
func Run(ctx context.Context) error {
	cfg, err := LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	instruments, shutdown, err := platformobservability.Init(ctx, ServiceName, cfg.ResourceAttributes())
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	services, err := BuildServices(ctx, cfg, instruments)
	if err != nil {
		return err
	}
	defer services.Close()

	invoiceWorkflows, closeWorkflows := selectInvoiceWorkflows(cfg, services.Invoices, func(cfg Config) (client.Client, error) {
		return ConnectTemporalClient(cfg, instruments)
	}, logger)
	defer closeWorkflows()

	handlers := invoicingserver.ApiHandleFunctions{
		ClientAPI:  invoicingserver.NewClientAPI(services.Clients),
		ProductAPI: invoicingserver.NewProductAPI(services.Products),
		InvoiceAPI: invoicingserver.NewInvoiceAPI(services.Invoices, invoiceWorkflows),
		ReportAPI:  invoicingserver.NewReportAPI(services.Reports),
	}
	router := invoicingserver.NewRouter(handlers)
	router.Use(otelgin.Middleware(ServiceName))

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	serveErr := make(chan error, 1)
	go func() {
		logger.Info("invoicing API listening", slog.String("addr", server.Addr))
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		logger.Error("invoicing API server exited", slog.String("addr", server.Addr), slog.String("error", err.Error()))
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	logger.Info("invoicing API stopped")
	return nil
}

// selectInvoiceWorkflows runs invoice creation through Temporal when a shared store and a
// reachable server are available, and inline otherwise.
func selectInvoiceWorkflows(cfg Config, invoices invoiceports.Service, dial func(Config) (client.Client, error), logger *slog.Logger) (invoiceports.WorkflowOrchestrator, func()) {
	inline := invoicesworkflows.NewInlineInvoiceWorkflows(invoices)
	if err := cfg.RequireSharedStore(); err != nil {
		if !cfg.TemporalDisabled {
			logger.Warn("Temporal workflows skipped, creating invoices inline", slog.String("reason", err.Error()))
		}
		return inline, func() {}
	}
	temporalClient, err := dial(cfg)
	if err != nil {
		logger.Warn("Temporal workflows unavailable, creating invoices inline", slog.String("error", err.Error()))
		return inline, func() {}
	}
	logger.Info("Temporal workflows enabled", slog.String("namespace", cfg.TemporalNamespace))
	return invoicesworkflows.NewTemporalInvoiceWorkflows(temporalClient), temporalClient.Close
}

// ConnectTemporalClient dials Temporal with tracing and slog-backed logging.
func ConnectTemporalClient(cfg Config, instruments *platformobservability.Instruments) (client.Client, error) {
	if cfg.TemporalDisabled {
		return nil, errors.New("temporal disabled via TEMPORAL_DISABLED env")
	}
	tracerOptions := temporalotel.TracerOptions{}
	if instruments != nil {
		tracerOptions.Tracer = instruments.Tracer("temporal-client")
	}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(tracerOptions)
	if err != nil {
		return nil, err
	}
	options := client.Options{
		HostPort:  cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Logger:    workerlog.NewStructuredLogger(effectiveLogger(instruments)),
	}
	options.Interceptors = append(options.Interceptors, tracingInterceptor)
	return client.Dial(options)
}

func effectiveLogger(instruments *platformobservability.Instruments) *slog.Logger {
	if instruments != nil && instruments.Logger != nil {
		return instruments.Logger
	}
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}
