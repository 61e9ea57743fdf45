package api

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.opentelemetry.io/otel/attribute"
	"go.temporal.io/sdk/client"

	"github.com/Apurer/invoicing-api/internal/platform/database"
	platformobservability "github.com/Apurer/invoicing-api/internal/platform/observability"
)

const (
	MigrationsAuto = "auto"
	MigrationsSQL  = "sql"
)

// Config carries environment-driven settings for the API and worker processes.
type Config struct {
	Port              string
	Database          database.Settings
	Migrations        string
	TemporalAddress   string
	TemporalNamespace string
	TemporalDisabled  bool
	RedisAddr         string
	InvoiceCacheTTL   time.Duration
	KafkaBrokers      []string
	KafkaInvoiceTopic string
	DocumentIssuer    string
}

// LoadConfig reads a .env file when present, then environment variables, applies
// defaults, and validates basic constraints.
func LoadConfig() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	cfg := Config{
		Port: envDefault("PORT", "8080"),
		Database: database.Settings{
			Driver:      strings.ToLower(envDefault("DB_DRIVER", "")),
			PostgresDSN: strings.TrimSpace(os.Getenv("POSTGRES_DSN")),
			MySQLDSN:    strings.TrimSpace(os.Getenv("MYSQL_DSN")),
			SQLitePath:  envDefault("SQLITE_PATH", "invoicing.db"),
		},
		Migrations:        strings.ToLower(envDefault("MIGRATIONS", MigrationsAuto)),
		TemporalAddress:   envDefault("TEMPORAL_ADDRESS", client.DefaultHostPort),
		TemporalNamespace: envDefault("TEMPORAL_NAMESPACE", client.DefaultNamespace),
		TemporalDisabled:  isTruthy(os.Getenv("TEMPORAL_DISABLED")),
		RedisAddr:         strings.TrimSpace(os.Getenv("REDIS_ADDR")),
		KafkaBrokers:      splitList(os.Getenv("KAFKA_BROKERS")),
		KafkaInvoiceTopic: envDefault("KAFKA_INVOICE_TOPIC", "invoices.events"),
		DocumentIssuer:    envDefault("DOCUMENT_ISSUER", "Invoicing API"),
	}
	if cfg.Database.Driver == "" {
		// Backwards-compatible default: a Postgres DSN alone selects Postgres.
		cfg.Database.Driver = database.DriverMemory
		if cfg.Database.PostgresDSN != "" {
			cfg.Database.Driver = database.DriverPostgres
		}
	}
	switch cfg.Database.Driver {
	case database.DriverMemory, database.DriverSQLite:
	case database.DriverPostgres:
		if cfg.Database.PostgresDSN == "" {
			return Config{}, fmt.Errorf("POSTGRES_DSN is required when DB_DRIVER=postgres")
		}
	case database.DriverMySQL:
		if cfg.Database.MySQLDSN == "" {
			return Config{}, fmt.Errorf("MYSQL_DSN is required when DB_DRIVER=mysql")
		}
	default:
		return Config{}, fmt.Errorf("DB_DRIVER must be one of postgres, mysql, sqlite, memory")
	}
	switch cfg.Migrations {
	case MigrationsAuto:
	case MigrationsSQL:
		if cfg.Database.Driver != database.DriverPostgres {
			return Config{}, fmt.Errorf("MIGRATIONS=sql is only supported with DB_DRIVER=postgres")
		}
	default:
		return Config{}, fmt.Errorf("MIGRATIONS must be auto or sql")
	}
	cfg.InvoiceCacheTTL = 10 * time.Minute
	if raw := strings.TrimSpace(os.Getenv("INVOICE_CACHE_TTL_SECONDS")); raw != "" {
		seconds, err := strconv.Atoi(raw)
		if err != nil || seconds <= 0 {
			return Config{}, fmt.Errorf("INVOICE_CACHE_TTL_SECONDS must be a positive integer")
		}
		cfg.InvoiceCacheTTL = time.Duration(seconds) * time.Second
	}
	return cfg, nil
}

// RequireSharedStore fails when records live only inside this process, so a Temporal
// worker in another process could not see them.
func (c Config) RequireSharedStore() error {
	if c.Database.Driver == database.DriverMemory {
		return errors.New("DB_DRIVER=memory keeps records in-process; Temporal invoice workflows need a shared database")
	}
	return nil
}

// ResourceAttributes describes the configured backends on every span and metric.
func (c Config) ResourceAttributes() platformobservability.Option {
	return platformobservability.WithResourceAttributes(
		attribute.String("invoicing.db.driver", c.Database.Driver),
		attribute.Bool("invoicing.temporal.disabled", c.TemporalDisabled),
	)
}

func envDefault(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func isTruthy(value string) bool {
	value = strings.TrimSpace(strings.ToLower(value))
	return value == "1" || value == "true" || value == "yes"
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
