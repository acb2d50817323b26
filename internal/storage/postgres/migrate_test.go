package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/H3WH4L3/TTRPG-Helper/internal/game/ruleset"
	"github.com/H3WH4L3/TTRPG-Helper/internal/storage/postgres"
	"github.com/H3WH4L3/TTRPG-Helper/internal/testutil"
)

func TestMigrate_UpDown(t *testing.T) {
	pc := testutil.NewPostgresContainer(t)
	ctx := context.Background()

	res, err := postgres.Migrate(pc.DSN(), postgres.DirectionUp, 0)
	require.NoError(t, err)
	assert.Equal(t, uint(1), res.Version)
	assert.False(t, res.Dirty)
	assert.False(t, res.NoChange)

	repo := postgres.NewCatalogRepository(pc.RawPool)
	require.NoError(t, repo.Import(ctx, testutil.Dataset()))

	res, err = postgres.Migrate(pc.DSN(), postgres.DirectionUp, 0)
	require.NoError(t, err)
	assert.True(t, res.NoChange)

	res, err = postgres.Migrate(pc.DSN(), postgres.DirectionDown, 0)
	require.NoError(t, err)
	assert.Equal(t, uint(0), res.Version)

	var tables int
	require.NoError(t, pc.RawPool.QueryRow(ctx,
		`SELECT count(*) FROM information_schema.tables WHERE table_name = 'classes'`,
	).Scan(&tables))
	assert.Zero(t, tables)
}

func TestMigrate_RejectsBadArguments(t *testing.T) {
	_, err := postgres.Migrate("postgres://x@localhost/x", "sideways", 0)
	assert.Error(t, err)
	_, err = postgres.Migrate("postgres://x@localhost/x", postgres.DirectionUp, -1)
	assert.ErrorContains(t, err, "steps")
}

func TestPool_Health(t *testing.T) {
	pc := testutil.NewPostgresContainer(t)
	ctx := context.Background()

	require.NoError(t, pc.Pool.Health(ctx, 5*time.Second))
	pc.Pool.Close()
	assert.ErrorIs(t, pc.Pool.Health(ctx, time.Second), ruleset.ErrUnavailable)
}
