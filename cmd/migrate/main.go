package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/Apurer/invoicing-api/internal/app/api"
	"github.com/Apurer/invoicing-api/internal/platform/database"
	"github.com/Apurer/invoicing-api/internal/platform/migrations"
)

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	cfg, err := api.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if cfg.Database.Driver == database.DriverMemory {
		log.Fatal("DB_DRIVER is memory; nothing to migrate")
	}

	if cfg.Migrations == api.MigrationsSQL {
		if err := migrations.RunSQL(cfg.Database.PostgresDSN); err != nil {
			log.Fatalf("failed to apply sql migrations: %v", err)
		}
		log.Printf("sql migrations applied")
		return
	}
	db, cleanup, err := database.Open(ctx, cfg.Database, logger)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer cleanup()
	if err := migrations.Run(db); err != nil {
		log.Fatalf("failed to migrate schema: %v", err)
	}
	log.Printf("schema migration completed")
}
