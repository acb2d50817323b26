// Package importer loads authored YAML content, validates it and writes it
// into a persistent catalogue.
package importer

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/H3WH4L3/TTRPG-Helper/internal/game/ruleset"
)

// Sink persists a complete catalogue, replacing whatever it held before.
//
// Postcondition: Import leaves the sink equal to ds or unchanged on error.
type Sink interface {
	Import(ctx context.Context, ds ruleset.Dataset) error
}

// Report summarises one import.
type Report struct {
	Classes    int
	Armors     int
	Weapons    int
	Items      int
	Narratives int
	// Problems are audit findings; they are reported but do not block the import.
	Problems []ruleset.Problem
	Elapsed  time.Duration
}

// Importer orchestrates content import from a YAML source into a Sink.
type Importer struct {
	sink   Sink
	logger *zap.Logger
}

// New constructs an Importer writing to sink.
//
// Precondition: sink and logger must be non-nil.
// Postcondition: returns a non-nil Importer.
func New(sink Sink, logger *zap.Logger) *Importer {
	return &Importer{sink: sink, logger: logger}
}

// Run loads the dataset at sourcePath, validates every record, audits the
// result and writes it to the sink.
//
// Precondition: sourcePath names a YAML file or a directory of YAML files.
// Postcondition: On success the sink holds the dataset and the returned
// Report lists any audit problems. Nothing is written when loading or
// validation fails.
func (imp *Importer) Run(ctx context.Context, sourcePath string) (Report, error) {
	start := time.Now()

	ds, err := ruleset.LoadDataset(sourcePath)
	if err != nil {
		return Report{}, fmt.Errorf("loading source: %w", err)
	}
	mem, err := ruleset.NewMemoryCatalog(ds)
	if err != nil {
		return Report{}, fmt.Errorf("validating source: %w", err)
	}
	problems, err := ruleset.Audit(ctx, mem)
	if err != nil {
		return Report{}, fmt.Errorf("auditing source: %w", err)
	}
	for _, p := range problems {
		imp.logger.Warn("catalogue problem", zap.String("problem", p.String()))
	}

	t0 := time.Now()
	if err := imp.sink.Import(ctx, ds); err != nil {
		return Report{}, fmt.Errorf("writing catalogue: %w", err)
	}
	imp.logger.Debug("catalogue written", zap.Duration("elapsed", time.Since(t0)))

	r := Report{
		Classes:    len(ds.Classes),
		Armors:     len(ds.Armors),
		Weapons:    len(ds.Weapons),
		Items:      len(ds.Items),
		Narratives: len(ds.Narratives),
		Problems:   problems,
		Elapsed:    time.Since(start),
	}
	imp.logger.Info("import complete",
		zap.String("source", sourcePath),
		zap.Int("classes", r.Classes),
		zap.Int("armors", r.Armors),
		zap.Int("weapons", r.Weapons),
		zap.Int("items", r.Items),
		zap.Int("narratives", r.Narratives),
		zap.Int("problems", len(r.Problems)),
		zap.Duration("elapsed", r.Elapsed),
	)
	return r, nil
}
