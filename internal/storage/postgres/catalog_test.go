package postgres_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"pgregory.net/rapid"

	"github.com/H3WH4L3/TTRPG-Helper/internal/game/character"
	"github.com/H3WH4L3/TTRPG-Helper/internal/game/dice"
	"github.com/H3WH4L3/TTRPG-Helper/internal/game/ruleset"
	"github.com/H3WH4L3/TTRPG-Helper/internal/storage/postgres"
	"github.com/H3WH4L3/TTRPG-Helper/internal/testutil"
)

func setupCatalog(t *testing.T) *postgres.CatalogRepository {
	t.Helper()
	repo := postgres.NewCatalogRepository(testutil.NewPool(t))
	require.NoError(t, repo.Import(context.Background(), testutil.Dataset()))
	return repo
}

func TestCatalogRepository(t *testing.T) {
	repo := setupCatalog(t)
	mem := testutil.MemoryCatalog(t)
	ctx := context.Background()

	t.Run("classes match dataset order", func(t *testing.T) {
		want, _ := mem.Classes(ctx)
		got, err := repo.Classes(ctx)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("linked pools", func(t *testing.T) {
		for _, rel := range ruleset.Relations {
			for _, classID := range []int64{1, 2} {
				want, _ := mem.Linked(ctx, classID, rel)
				got, err := repo.Linked(ctx, classID, rel)
				require.NoError(t, err)
				assert.Equal(t, want, got, "class %d %s", classID, rel)
			}
		}
		got, err := repo.Linked(ctx, 99, ruleset.RelationBonuses)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("armor ordinals", func(t *testing.T) {
		for i, slug := range []string{"light_armor", "medium_armor", "heavy_armor"} {
			a, err := repo.ArmorAt(ctx, i+1)
			require.NoError(t, err)
			assert.Equal(t, slug, a.Slug)
		}
		for _, ordinal := range []int{0, 4} {
			_, err := repo.ArmorAt(ctx, ordinal)
			assert.ErrorIs(t, err, ruleset.ErrNotFound)
		}
	})

	t.Run("weapon ordinals", func(t *testing.T) {
		w, err := repo.WeaponAt(ctx, 2)
		require.NoError(t, err)
		assert.Equal(t, "sword", w.Slug)
		assert.Nil(t, w.Ammo)
		_, err = repo.WeaponAt(ctx, 3)
		assert.ErrorIs(t, err, ruleset.ErrNotFound)
	})

	t.Run("narratives and items", func(t *testing.T) {
		cats, err := repo.NarrativeCategories(ctx)
		require.NoError(t, err)
		wantCats, _ := mem.NarrativeCategories(ctx)
		assert.Equal(t, wantCats, cats)

		for _, slot := range ruleset.ItemSlots {
			want, _ := mem.Items(ctx, slot)
			got, err := repo.Items(ctx, slot)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		}
	})

	t.Run("audit is clean", func(t *testing.T) {
		problems, err := ruleset.Audit(ctx, repo)
		require.NoError(t, err)
		assert.Empty(t, problems)
	})

	t.Run("generation matches memory catalogue", func(t *testing.T) {
		rapid.Check(t, func(rt *rapid.T) {
			seed := rapid.Int64().Draw(rt, "seed")
			gen := func(cat ruleset.Catalog) character.Sheet {
				g := character.NewGenerator(cat, dice.NewLoggedRoller(dice.NewSeededSource(seed), zap.NewNop()), character.DefaultSettings(), zap.NewNop())
				c, err := g.Generate(ctx)
				if err != nil {
					rt.Fatal(err)
				}
				return c.Sheet()
			}
			assert.Equal(rt, gen(mem), gen(repo))
		})
	})
}

func TestCatalogRepository_InvalidRowIsRecordError(t *testing.T) {
	pool := testutil.NewPool(t)
	repo := postgres.NewCatalogRepository(pool)
	ctx := context.Background()
	require.NoError(t, repo.Import(ctx, testutil.Dataset()))

	_, err := pool.Exec(ctx, `UPDATE weapons SET damage = '3dd6' WHERE slug = 'sword'`)
	require.NoError(t, err)

	_, err = repo.WeaponAt(ctx, 2)
	var re *ruleset.RecordError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, "weapon", re.Kind)
	assert.ErrorIs(t, err, dice.ErrFormat)
}

func TestCatalogRepository_ImportDuplicateSlug(t *testing.T) {
	repo := setupCatalog(t)
	ds := testutil.Dataset()
	ds.Items = append(ds.Items, ds.Items[0])

	err := repo.Import(context.Background(), ds)
	require.ErrorIs(t, err, ruleset.ErrDuplicateSlug)

	items, err := repo.Items(context.Background(), ruleset.SlotFirst)
	require.NoError(t, err)
	assert.Len(t, items, 2, "failed import must leave the catalogue unchanged")
}

func TestCatalogRepository_ClosedPoolIsUnavailable(t *testing.T) {
	pc := testutil.NewPostgresContainer(t)
	pc.ApplyMigrations(t)
	repo := postgres.NewCatalogRepository(pc.RawPool)
	pc.Pool.Close()

	_, err := repo.Classes(context.Background())
	assert.ErrorIs(t, err, ruleset.ErrUnavailable)
}
