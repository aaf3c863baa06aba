package main

// Load a catalog file from the configured object store:
//   go run ./cmd/import-catalog -key catalog/courses.json
// Write the published catalog back out:
//   go run ./cmd/import-catalog -key catalog/snapshot.json -export

import (
	"context"
	"flag"
	"os"
	"strings"
	"time"

	"learnpath-backend/internal/bootstrap"
	"learnpath-backend/internal/shared/config"
	"learnpath-backend/internal/shared/telemetry"
)

func main() {
	key := flag.String("key", "catalog.json", "object key of the catalog JSON array")
	export := flag.Bool("export", false, "export published courses to key instead of importing")
	timeout := flag.Duration("timeout", 5*time.Minute, "overall deadline")
	flag.Parse()

	if strings.TrimSpace(*key) == "" {
		telemetry.Error("import_catalog.usage", map[string]any{"error": "-key is required"})
		telemetry.Sync()
		os.Exit(2)
	}

	cfg := config.Load()
	app, err := bootstrap.Build(cfg)
	if err != nil {
		telemetry.Fatal("import_catalog.bootstrap_failed", map[string]any{"error": err})
	}
	defer app.Close()
	defer telemetry.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	if *export {
		n, err := app.CatalogImporter.Export(ctx, *key)
		if err != nil {
			telemetry.Fatal("import_catalog.export_failed", map[string]any{"key": *key, "error": err})
		}
		telemetry.Info("import_catalog.exported", map[string]any{"key": *key, "courses": n})
		return
	}

	res, err := app.CatalogImporter.Import(ctx, *key)
	if err != nil {
		telemetry.Fatal("import_catalog.import_failed", map[string]any{"key": *key, "error": err})
	}
	for _, msg := range res.Errors {
		telemetry.Warn("import_catalog.skipped", map[string]any{"key": *key, "reason": msg})
	}
	fields := map[string]any{"key": *key, "imported": res.Imported, "skipped": res.Skipped}
	if len(res.Errors) > 0 && res.Imported == 0 {
		telemetry.Fatal("import_catalog.nothing_imported", fields)
	}
	telemetry.Info("import_catalog.imported", fields)
}
