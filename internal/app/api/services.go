package api

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	clientsmemory "github.com/Apurer/invoicing-api/internal/domains/clients/adapters/memory"
	clientsobs "github.com/Apurer/invoicing-api/internal/domains/clients/adapters/observability"
	clientsgorm "github.com/Apurer/invoicing-api/internal/domains/clients/adapters/persistence/gormdb"
	clientsapp "github.com/Apurer/invoicing-api/internal/domains/clients/application"
	clientports "github.com/Apurer/invoicing-api/internal/domains/clients/ports"
	invoicescache "github.com/Apurer/invoicing-api/internal/domains/invoices/adapters/cache/redis"
	invoicesevents "github.com/Apurer/invoicing-api/internal/domains/invoices/adapters/events"
	invoicesmemory "github.com/Apurer/invoicing-api/internal/domains/invoices/adapters/memory"
	invoicesobs "github.com/Apurer/invoicing-api/internal/domains/invoices/adapters/observability"
	invoicesgorm "github.com/Apurer/invoicing-api/internal/domains/invoices/adapters/persistence/gormdb"
	invoicesapp "github.com/Apurer/invoicing-api/internal/domains/invoices/application"
	invoiceports "github.com/Apurer/invoicing-api/internal/domains/invoices/ports"
	productsmemory "github.com/Apurer/invoicing-api/internal/domains/products/adapters/memory"
	productsobs "github.com/Apurer/invoicing-api/internal/domains/products/adapters/observability"
	productsgorm "github.com/Apurer/invoicing-api/internal/domains/products/adapters/persistence/gormdb"
	productsapp "github.com/Apurer/invoicing-api/internal/domains/products/application"
	productports "github.com/Apurer/invoicing-api/internal/domains/products/ports"
	reportsmemory "github.com/Apurer/invoicing-api/internal/domains/reports/adapters/memory"
	reportsgorm "github.com/Apurer/invoicing-api/internal/domains/reports/adapters/persistence/gormdb"
	reportsapp "github.com/Apurer/invoicing-api/internal/domains/reports/application"
	reportports "github.com/Apurer/invoicing-api/internal/domains/reports/ports"
	"github.com/Apurer/invoicing-api/internal/platform/database"
	"github.com/Apurer/invoicing-api/internal/platform/migrations"
	platformobservability "github.com/Apurer/invoicing-api/internal/platform/observability"
	"github.com/Apurer/invoicing-api/internal/platform/render"
)

// Services bundles the decorated application services shared by the API and the worker.
type Services struct {
	Clients  clientports.Service
	Products productports.Service
	Invoices invoiceports.Service
	Reports  reportports.Service

	closers []func()
}

// Close releases connections opened while building the services, newest first.
func (s *Services) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
	s.closers = nil
}

type repositories struct {
	clients     clientports.Repository
	products    productports.Repository
	invoiceUoW  invoiceports.UnitOfWork
	invoiceRepo invoiceports.Repository
	reports     reportports.Repository
}

// BuildServices opens the configured backend, applies migrations and wires every service
// with its adapters and observability decorators.
func BuildServices(ctx context.Context, cfg Config, instruments *platformobservability.Instruments) (*Services, error) {
	logger := effectiveLogger(instruments)
	services := &Services{}

	db, closeDB, err := database.Open(ctx, cfg.Database, logger)
	if err != nil {
		return nil, err
	}
	services.closers = append(services.closers, closeDB)
	if db != nil {
		if err := migrate(cfg, db, logger); err != nil {
			services.Close()
			return nil, err
		}
	}
	repos := buildRepositories(db, logger)

	if cfg.RedisAddr != "" {
		redisClient := goredis.NewClient(&goredis.Options{Addr: cfg.RedisAddr})
		services.closers = append(services.closers, func() { _ = redisClient.Close() })
		repos.invoiceRepo = invoicescache.NewRepository(repos.invoiceRepo, redisClient, cfg.InvoiceCacheTTL, logger)
		logger.Info("invoice read cache enabled", slog.String("addr", cfg.RedisAddr), slog.Duration("ttl", cfg.InvoiceCacheTTL))
	}

	publisher, closePublisher := buildPublisher(cfg, instruments, logger)
	services.closers = append(services.closers, closePublisher)
	renderer := render.NewPDFRenderer(cfg.DocumentIssuer)

	services.Clients = clientsobs.New(
		clientsapp.NewService(repos.clients),
		clientsobs.WithLogger(logger),
		clientsobs.WithTracer(instruments.Tracer("internal.clients.application")),
		clientsobs.WithMeter(instruments.Meter("internal.clients.application")),
	)
	services.Products = productsobs.New(
		productsapp.NewService(repos.products),
		productsobs.WithLogger(logger),
		productsobs.WithTracer(instruments.Tracer("internal.products.application")),
		productsobs.WithMeter(instruments.Meter("internal.products.application")),
	)
	coreInvoices := invoicesapp.NewService(repos.invoiceUoW, repos.invoiceRepo,
		invoicesapp.WithEventPublisher(publisher),
		invoicesapp.WithRenderer(renderer),
		invoicesapp.WithLogger(logger),
	)
	services.Invoices = invoicesobs.New(
		coreInvoices,
		invoicesobs.WithLogger(logger),
		invoicesobs.WithTracer(instruments.Tracer("internal.invoices.application")),
		invoicesobs.WithMeter(instruments.Meter("internal.invoices.application")),
	)
	services.Reports = reportsapp.NewService(repos.reports, renderer)
	return services, nil
}

func migrate(cfg Config, db *gorm.DB, logger *slog.Logger) error {
	if cfg.Migrations == MigrationsSQL {
		if err := migrations.RunSQL(cfg.Database.PostgresDSN); err != nil {
			return fmt.Errorf("apply sql migrations: %w", err)
		}
		logger.Info("sql migrations applied")
		return nil
	}
	if err := migrations.Run(db); err != nil {
		return fmt.Errorf("auto-migrate schema: %w", err)
	}
	logger.Info("schema auto-migrated", slog.String("driver", database.Dialect(db)))
	return nil
}

func buildRepositories(db *gorm.DB, logger *slog.Logger) repositories {
	if db == nil {
		logger.Warn("no database configured, using in-memory repositories")
		clients := clientsmemory.NewRepository()
		products := productsmemory.NewRepository()
		invoices := invoicesmemory.NewStore(clients, products)
		return repositories{
			clients:     clients,
			products:    products,
			invoiceUoW:  invoices,
			invoiceRepo: invoices,
			reports:     reportsmemory.NewRepository(invoices),
		}
	}
	invoices := invoicesgorm.NewStore(db)
	return repositories{
		clients:     clientsgorm.NewRepository(db),
		products:    productsgorm.NewRepository(db),
		invoiceUoW:  invoices,
		invoiceRepo: invoices,
		reports:     reportsgorm.NewRepository(db),
	}
}

func buildPublisher(cfg Config, instruments *platformobservability.Instruments, logger *slog.Logger) (invoiceports.EventPublisher, func()) {
	if len(cfg.KafkaBrokers) == 0 {
		return invoicesevents.NewLogPublisher(logger), func() {}
	}
	writer, err := invoicesevents.NewTracedWriter(cfg.KafkaBrokers, cfg.KafkaInvoiceTopic, "invoicing-api", instruments.TracerProvider)
	if err != nil {
		logger.Warn("kafka publisher unavailable, logging invoice events instead", slog.String("error", err.Error()))
		return invoicesevents.NewLogPublisher(logger), func() {}
	}
	logger.Info("publishing invoice events to kafka",
		slog.String("brokers", strings.Join(cfg.KafkaBrokers, ",")),
		slog.String("topic", cfg.KafkaInvoiceTopic))
	return invoicesevents.NewKafkaPublisher(writer), func() { _ = writer.Close() }
}
