package storage_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/H3WH4L3/TTRPG-Helper/internal/config"
	"github.com/H3WH4L3/TTRPG-Helper/internal/game/ruleset"
	"github.com/H3WH4L3/TTRPG-Helper/internal/storage"
	"github.com/H3WH4L3/TTRPG-Helper/internal/testutil"
)

func loadConfig(t *testing.T) config.Config {
	t.Helper()
	cfg, err := config.Load("")
	require.NoError(t, err)
	return cfg
}

func TestOpenCatalog_YAML(t *testing.T) {
	cfg := loadConfig(t)
	cfg.Catalog.YAMLPath = filepath.Join("..", "..", "content")

	cat, release, err := storage.OpenCatalog(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	defer release()

	classes, err := cat.Classes(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, classes)
}

func TestOpenCatalog_YAMLMissing(t *testing.T) {
	cfg := loadConfig(t)
	cfg.Catalog.YAMLPath = filepath.Join(t.TempDir(), "absent")

	_, _, err := storage.OpenCatalog(context.Background(), cfg, zap.NewNop())
	assert.Error(t, err)
}

func TestOpenStore_SQLiteRoundTrip(t *testing.T) {
	ctx := context.Background()
	cfg := loadConfig(t)
	cfg.Catalog.Driver = config.DriverSQLite
	cfg.Catalog.SQLitePath = filepath.Join(t.TempDir(), "catalog.db")

	store, err := storage.OpenStore(ctx, cfg, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, store.Import(ctx, testutil.Dataset()))
	require.NoError(t, store.Close())

	cat, release, err := storage.OpenCatalog(ctx, cfg, zap.NewNop())
	require.NoError(t, err)
	defer release()
	problems, err := ruleset.Audit(ctx, cat)
	require.NoError(t, err)
	assert.Empty(t, problems)
}

func TestOpenStore_RejectsYAML(t *testing.T) {
	_, err := storage.OpenStore(context.Background(), loadConfig(t), zap.NewNop())
	assert.ErrorContains(t, err, "not a database")
}

func TestOpenStore_Postgres(t *testing.T) {
	pc := testutil.NewPostgresContainer(t)
	pc.ApplyMigrations(t)
	cfg := loadConfig(t)
	cfg.Catalog.Driver = config.DriverPostgres
	cfg.Database = pc.Config

	ctx := context.Background()
	store, err := storage.OpenStore(ctx, cfg, zap.NewNop())
	require.NoError(t, err)
	defer store.Close()
	require.NoError(t, store.Import(ctx, testutil.Dataset()))

	w, err := store.WeaponAt(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "bow", w.Slug)

	hc, ok := store.(storage.HealthChecker)
	require.True(t, ok, "postgres store must expose a health check")
	assert.NoError(t, hc.Health(ctx, 5*time.Second))
}

func TestOpenStore_SQLiteHasNoHealthCheck(t *testing.T) {
	cfg := loadConfig(t)
	cfg.Catalog.Driver = config.DriverSQLite
	cfg.Catalog.SQLitePath = filepath.Join(t.TempDir(), "catalog.db")

	store, err := storage.OpenStore(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	defer store.Close()
	_, ok := store.(storage.HealthChecker)
	assert.False(t, ok)
}
