// Package main audits the configured catalogue for authoring mistakes that
// would make character generation fail.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/H3WH4L3/TTRPG-Helper/internal/config"
	"github.com/H3WH4L3/TTRPG-Helper/internal/game/ruleset"
	"github.com/H3WH4L3/TTRPG-Helper/internal/observability"
	"github.com/H3WH4L3/TTRPG-Helper/internal/storage"
)

const healthTimeout = 5 * time.Second

func main() {
	configPath := flag.String("config", "", "path to configuration file (defaults and TTRPG_ environment when empty)")
	driver := flag.String("driver", "", "override catalog.driver: postgres, sqlite or yaml")
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
	logger, err := observability.NewLogger(cfg.Logging, "checkdata")
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}

	n, err := run(context.Background(), cfg, logger, os.Stdout)
	if err != nil {
		logger.Error("checkdata failed", zap.String("driver", cfg.Catalog.Driver), zap.Error(err))
	}
	_ = observability.Sync(logger)
	if err != nil || n > 0 {
		os.Exit(1)
	}
}

// run opens the catalogue, health-checks it when it sits behind a database
// server, and audits it. The catalogue is released before run returns.
func run(ctx context.Context, cfg config.Config, logger *zap.Logger, w io.Writer) (int, error) {
	cat, release, err := storage.OpenCatalog(ctx, cfg, logger)
	if err != nil {
		return 0, fmt.Errorf("opening %s catalogue: %w", cfg.Catalog.Driver, err)
	}
	defer func() { _ = release() }()

	if hc, ok := cat.(storage.HealthChecker); ok {
		start := time.Now()
		if err := hc.Health(ctx, healthTimeout); err != nil {
			return 0, err
		}
		logger.Info("catalogue reachable", zap.Duration("elapsed", time.Since(start)))
	}
	return check(ctx, cat, w)
}

// check prints every audit problem to w and returns how many were found.
// A row failing validation is returned as the error.
func check(ctx context.Context, cat ruleset.Catalog, w io.Writer) (int, error) {
	problems, err := ruleset.Audit(ctx, cat)
	if err != nil {
		return 0, err
	}
	for _, p := range problems {
		fmt.Fprintln(w, p.String())
	}
	if len(problems) == 0 {
		fmt.Fprintln(w, "catalogue ok")
	} else {
		fmt.Fprintf(w, "%d problem(s)\n", len(problems))
	}
	return len(problems), nil
}
