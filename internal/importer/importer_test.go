package importer_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"gopkg.in/yaml.v3"

	"github.com/H3WH4L3/TTRPG-Helper/internal/game/ruleset"
	"github.com/H3WH4L3/TTRPG-Helper/internal/importer"
	"github.com/H3WH4L3/TTRPG-Helper/internal/storage/sqlite"
	"github.com/H3WH4L3/TTRPG-Helper/internal/testutil"
)

type recordingSink struct {
	calls []ruleset.Dataset
	err   error
}

func (s *recordingSink) Import(_ context.Context, ds ruleset.Dataset) error {
	s.calls = append(s.calls, ds)
	return s.err
}

func writeDataset(t *testing.T, ds ruleset.Dataset) string {
	t.Helper()
	data, err := yaml.Marshal(ds)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func TestImporter_Run_WritesDataset(t *testing.T) {
	sink := &recordingSink{}
	report, err := importer.New(sink, zap.NewNop()).Run(context.Background(), writeDataset(t, testutil.Dataset()))
	require.NoError(t, err)

	require.Len(t, sink.calls, 1)
	assert.Equal(t, testutil.Dataset(), sink.calls[0])
	assert.Equal(t, 2, report.Classes)
	assert.Equal(t, 3, report.Armors)
	assert.Equal(t, 2, report.Weapons)
	assert.Equal(t, 5, report.Items)
	assert.Equal(t, 9, report.Narratives)
	assert.Empty(t, report.Problems)
}

func TestImporter_Run_IntoSQLite(t *testing.T) {
	ctx := context.Background()
	store, err := sqlite.Open(filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, err)
	defer store.Close()

	_, err = importer.New(store, zap.NewNop()).Run(ctx, writeDataset(t, testutil.Dataset()))
	require.NoError(t, err)

	want, _ := testutil.MemoryCatalog(t).Classes(ctx)
	got, err := store.Classes(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestImporter_Run_SampleContent(t *testing.T) {
	sink := &recordingSink{}
	report, err := importer.New(sink, zap.NewNop()).Run(context.Background(), filepath.Join("..", "..", "content"))
	require.NoError(t, err)
	assert.Len(t, sink.calls, 1)
	assert.Positive(t, report.Classes)
	assert.Empty(t, report.Problems)
}

func TestImporter_Run_MissingSource(t *testing.T) {
	sink := &recordingSink{}
	_, err := importer.New(sink, zap.NewNop()).Run(context.Background(), filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorContains(t, err, "loading source")
	assert.Empty(t, sink.calls)
}

func TestImporter_Run_InvalidRecordWritesNothing(t *testing.T) {
	ds := testutil.Dataset()
	ds.Weapons[0].Damage = "3dd6"
	sink := &recordingSink{}

	_, err := importer.New(sink, zap.NewNop()).Run(context.Background(), writeDataset(t, ds))
	var re *ruleset.RecordError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, "weapon", re.Kind)
	assert.Empty(t, sink.calls)
}

func TestImporter_Run_ReportsAuditProblems(t *testing.T) {
	ds := testutil.Dataset()
	ds.Armors = ds.Armors[:2]
	core, logs := observer.New(zap.WarnLevel)
	sink := &recordingSink{}

	report, err := importer.New(sink, zap.New(core)).Run(context.Background(), writeDataset(t, ds))
	require.NoError(t, err)
	require.NotEmpty(t, report.Problems)
	assert.Len(t, sink.calls, 1, "audit problems do not block the import")
	assert.Equal(t, len(report.Problems), logs.FilterMessage("catalogue problem").Len())
}

func TestImporter_Run_SinkFailure(t *testing.T) {
	boom := errors.New("disk full")
	_, err := importer.New(&recordingSink{err: boom}, zap.NewNop()).Run(context.Background(), writeDataset(t, testutil.Dataset()))
	assert.ErrorIs(t, err, boom)
	assert.ErrorContains(t, err, "writing catalogue")
}

func TestImporter_Run_RepeatedLinkWritesNothing(t *testing.T) {
	ds := testutil.Dataset()
	ds.Classes[0].Skills = append(ds.Classes[0].Skills, "gnash")
	sink := &recordingSink{}

	_, err := importer.New(sink, zap.NewNop()).Run(context.Background(), writeDataset(t, ds))
	require.ErrorIs(t, err, ruleset.ErrDuplicateSlug)
	assert.Empty(t, sink.calls)
}
