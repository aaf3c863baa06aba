package main

// Run database migrations:
//   go run ./cmd/migrate
//   go run ./cmd/migrate -status

import (
	"context"
	"flag"

	"learnpath-backend/internal/shared/config"
	"learnpath-backend/internal/shared/storage/db"
	"learnpath-backend/internal/shared/telemetry"
)

func main() {
	status := flag.Bool("status", false, "print migration status instead of applying")
	flag.Parse()

	cfg := config.Load()
	ctx := context.Background()

	telemetry.SetLevel(cfg.LogLevel)

	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFor(db.RoleMigrate, cfg.DBPool))
	if err != nil {
		telemetry.Fatal("migrate.connect_failed", map[string]any{"error": err})
	}
	defer sqlDB.Close()

	if *status {
		if err := db.MigrationStatus(ctx, sqlDB); err != nil {
			sqlDB.Close()
			telemetry.Fatal("migrate.status_failed", map[string]any{"error": err})
		}
		return
	}

	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		sqlDB.Close()
		telemetry.Fatal("migrate.up_failed", map[string]any{"error": err})
	}
	telemetry.Info("migrate.done", nil)
}
