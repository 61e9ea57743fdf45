// Package database selects and opens the configured relational backend.
package database

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	platformmysql "github.com/Apurer/invoicing-api/internal/platform/mysql"
	platformpostgres "github.com/Apurer/invoicing-api/internal/platform/postgres"
	platformsqlite "github.com/Apurer/invoicing-api/internal/platform/sqlite"
)

const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
)

// Settings names the backend and its connection string.
type Settings struct {
	Driver      string
	PostgresDSN string
	MySQLDSN    string
	SQLitePath  string
}

// Open connects to the configured backend. It returns a nil DB for the memory driver.
func Open(ctx context.Context, settings Settings, logger *slog.Logger) (*gorm.DB, func(), error) {
	cfg := NewGormConfig(logger)
	var (
		db  *gorm.DB
		err error
	)
	switch strings.ToLower(settings.Driver) {
	case DriverMemory, "":
		return nil, func() {}, nil
	case DriverPostgres:
		db, err = platformpostgres.Connect(ctx, settings.PostgresDSN, cfg)
	case DriverMySQL:
		db, err = platformmysql.Connect(ctx, settings.MySQLDSN, cfg)
	case DriverSQLite:
		db, err = platformsqlite.Connect(ctx, settings.SQLitePath, cfg)
	default:
		return nil, func() {}, fmt.Errorf("unsupported database driver %q", settings.Driver)
	}
	if err != nil {
		return nil, func() {}, fmt.Errorf("connect %s: %w", settings.Driver, err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, func() {}, err
	}
	if logger != nil {
		logger.Info("database connection established", slog.String("driver", settings.Driver))
	}
	return db, func() { _ = sqlDB.Close() }, nil
}

// NewGormConfig builds the shared GORM config: driver errors are translated into gorm
// sentinels and SQL logging is routed through slog.
func NewGormConfig(logger *slog.Logger) *gorm.Config {
	cfg := &gorm.Config{TranslateError: true}
	if logger == nil {
		cfg.Logger = gormlogger.Default.LogMode(gormlogger.Silent)
		return cfg
	}
	cfg.Logger = gormlogger.New(
		slog.NewLogLogger(logger.Handler(), slog.LevelWarn),
		gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		},
	)
	return cfg
}

// Dialect reports the GORM dialect name of an open connection.
func Dialect(db *gorm.DB) string {
	if db == nil || db.Dialector == nil {
		return ""
	}
	return db.Dialector.Name()
}
