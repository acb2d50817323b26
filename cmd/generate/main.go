// Package main generates random characters from the configured catalogue.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/H3WH4L3/TTRPG-Helper/internal/config"
	"github.com/H3WH4L3/TTRPG-Helper/internal/game/character"
	"github.com/H3WH4L3/TTRPG-Helper/internal/game/dice"
	"github.com/H3WH4L3/TTRPG-Helper/internal/observability"
	"github.com/H3WH4L3/TTRPG-Helper/internal/sheet"
	"github.com/H3WH4L3/TTRPG-Helper/internal/storage"
)

var formats = map[string]bool{"text": true, "json": true, "yaml": true}

func main() {
	start := time.Now()

	configPath := flag.String("config", "", "path to configuration file (defaults and TTRPG_ environment when empty)")
	count := flag.Int("count", 1, "number of characters to generate")
	format := flag.String("format", "text", "output format: text, json or yaml")
	color := flag.Bool("color", false, "colorize text output with ANSI escapes")
	flag.Parse()

	if !formats[*format] {
		log.Fatalf("unknown format %q (supported: text, json, yaml)", *format)
	}
	if *count < 0 {
		log.Fatalf("count must not be negative, got %d", *count)
	}
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Fatalf("loading .env: %v", err)
	}
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	logger, err := observability.NewLogger(cfg.Logging, "generate")
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}

	err = run(context.Background(), cfg, logger, os.Stdout, *count, *format, *color)
	if err != nil {
		logger.Error("generate failed", zap.Error(err))
	}
	logger.Debug("done", zap.Duration("elapsed", time.Since(start)))
	_ = observability.Sync(logger)
	if err != nil {
		os.Exit(1)
	}
}

// run opens the catalogue, generates count characters and writes them to w.
// The catalogue is released before run returns.
func run(ctx context.Context, cfg config.Config, logger *zap.Logger, w io.Writer, count int, format string, color bool) error {
	cat, release, err := storage.OpenCatalog(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("opening %s catalogue: %w", cfg.Catalog.Driver, err)
	}
	defer func() { _ = release() }()

	src := dice.NewCryptoSource()
	if cfg.Generator.Seed != 0 {
		src = dice.NewSeededSource(cfg.Generator.Seed)
	}
	gen := character.NewGenerator(cat, dice.NewLoggedRoller(src, logger), character.Settings{
		Sexes:         cfg.Generator.Sexes,
		NoArmorLabel:  cfg.Generator.NoArmorLabel,
		UnarmedLabel:  cfg.Generator.UnarmedLabel,
		UnarmedDamage: cfg.Generator.UnarmedDamage,
		Concurrency:   cfg.Generator.Concurrency,
	}, logger)

	chars, err := gen.GenerateMany(ctx, count)
	if err != nil {
		return fmt.Errorf("generating characters: %w", err)
	}
	if err := write(w, chars, format, color); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}

func write(w io.Writer, chars []character.Character, format string, color bool) error {
	switch format {
	case "text":
		for i, c := range chars {
			if i > 0 {
				if _, err := fmt.Fprintln(w); err != nil {
					return err
				}
			}
			if _, err := io.WriteString(w, sheet.RenderText(c, color)); err != nil {
				return err
			}
		}
		return nil
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(chars)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(chars); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown format %q (supported: text, json, yaml)", format)
	}
}
