// Package main imports authored YAML content into a database catalogue.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/H3WH4L3/TTRPG-Helper/internal/config"
	"github.com/H3WH4L3/TTRPG-Helper/internal/importer"
	"github.com/H3WH4L3/TTRPG-Helper/internal/observability"
	"github.com/H3WH4L3/TTRPG-Helper/internal/storage"
)

func main() {
	configPath := flag.String("config", "", "path to configuration file (defaults and TTRPG_ environment when empty)")
	driver := flag.String("driver", "", "target catalogue: postgres or sqlite (defaults to catalog.driver)")
	sourcePath := flag.String("source", "content", "YAML file or directory to import")
	flag.Parse()

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Fatalf("loading .env: %v", err)
	}
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	if *driver != "" {
		cfg.Catalog.Driver = *driver
		if err := cfg.Validate(); err != nil {
			log.Fatalf("invalid driver: %v", err)
		}
	}
	if cfg.Catalog.Driver == config.DriverYAML {
		fmt.Fprintln(os.Stderr, "usage: import-content -driver <postgres|sqlite> [-source <path>] [-config <file>]")
		os.Exit(1)
	}
	logger, err := observability.NewLogger(cfg.Logging, "import-content")
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}

	err = run(context.Background(), cfg, logger, *sourcePath)
	if err != nil {
		logger.Error("import failed", zap.String("source", *sourcePath), zap.Error(err))
	}
	_ = observability.Sync(logger)
	if err != nil {
		os.Exit(1)
	}
}

// run imports sourcePath into the configured store and prints a summary.
// The store is closed before run returns.
func run(ctx context.Context, cfg config.Config, logger *zap.Logger, sourcePath string) error {
	store, err := storage.OpenStore(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("opening %s catalogue: %w", cfg.Catalog.Driver, err)
	}
	defer store.Close()

	report, err := importer.New(store, logger).Run(ctx, sourcePath)
	if err != nil {
		return err
	}
	fmt.Printf("imported %d class(es), %d armor, %d weapon(s), %d item(s), %d narrative(s) into %s in %s\n",
		report.Classes, report.Armors, report.Weapons, report.Items, report.Narratives,
		cfg.Catalog.Driver, report.Elapsed.Round(time.Millisecond))
	if n := len(report.Problems); n > 0 {
		fmt.Printf("%d catalogue problem(s); run checkdata for details\n", n)
	}
	return nil
}
