package ruleset_test

import (
	"context"
	"errors"
	"testing"

	"github.com/H3WH4L3/TTRPG-Helper/internal/game/dice"
	"github.com/H3WH4L3/TTRPG-Helper/internal/game/ruleset"
	"github.com/H3WH4L3/TTRPG-Helper/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func smallDataset() ruleset.Dataset {
	return ruleset.Dataset{
		Classes: []ruleset.ClassDef{{
			Class:    validClass(),
			Bonuses:  []string{"bite"},
			Skills:   []string{"gnash", "illiterate"},
			Memories: []string{"village"},
		}},
		Bonuses:  []ruleset.Entry{{Slug: "bite", Name: "Bite"}, {Slug: "unused", Name: "Unused"}},
		Skills:   []ruleset.Entry{{Slug: "illiterate", Name: "Illiterate"}, {Slug: "gnash", Name: "Gnash"}},
		Memories: []ruleset.Entry{{Slug: "village", Name: "Village"}},
		Armors: []ruleset.Armor{
			{Slug: "light", Name: "Light", Level: 1},
			{Slug: "medium", Name: "Medium", Level: 2},
			{Slug: "heavy", Name: "Heavy", Level: 3},
		},
		Weapons: []ruleset.Weapon{{Slug: "femur", Name: "Femur", Damage: "d4"}},
		Items: []ruleset.Item{
			{Slug: "sack", Name: "Sack", Slot: ruleset.SlotFirst},
			{Slug: "rope", Name: "Rope", Slot: ruleset.SlotSecond},
			{Slug: "chest", Name: "Chest", Slot: ruleset.SlotThird},
		},
		Narratives: []ruleset.Narrative{
			{Slug: "coward", Category: ruleset.CategoryTerribleTrait, Text: "Cowardly"},
			{Slug: "hildegard", Category: ruleset.CategoryName, Text: "Hildegard"},
		},
	}
}

func TestNewMemoryCatalog_AssignsIDsAndLinks(t *testing.T) {
	cat, err := ruleset.NewMemoryCatalog(smallDataset())
	require.NoError(t, err)
	ctx := context.Background()

	classes, err := cat.Classes(ctx)
	require.NoError(t, err)
	require.Len(t, classes, 1)
	assert.Equal(t, int64(1), classes[0].ID)

	skills, err := cat.Linked(ctx, 1, ruleset.RelationSkills)
	require.NoError(t, err)
	require.Len(t, skills, 2)
	// primary-key order, not link order
	assert.Equal(t, "illiterate", skills[0].Slug)
	assert.Equal(t, int64(1), skills[0].ID)
	assert.Equal(t, "gnash", skills[1].Slug)

	bonuses, err := cat.Linked(ctx, 1, ruleset.RelationBonuses)
	require.NoError(t, err)
	require.Len(t, bonuses, 1)
	assert.Equal(t, "bite", bonuses[0].Slug)

	none, err := cat.Linked(ctx, 99, ruleset.RelationBonuses)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestMemoryCatalog_Ordinals(t *testing.T) {
	cat, err := ruleset.NewMemoryCatalog(smallDataset())
	require.NoError(t, err)
	ctx := context.Background()

	for i, want := range []string{"light", "medium", "heavy"} {
		a, err := cat.ArmorAt(ctx, i+1)
		require.NoError(t, err)
		assert.Equal(t, want, a.Slug)
	}
	_, err = cat.ArmorAt(ctx, 0)
	assert.ErrorIs(t, err, ruleset.ErrNotFound)
	_, err = cat.ArmorAt(ctx, 4)
	assert.ErrorIs(t, err, ruleset.ErrNotFound)

	w, err := cat.WeaponAt(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "femur", w.Slug)
	_, err = cat.WeaponAt(ctx, 2)
	assert.ErrorIs(t, err, ruleset.ErrNotFound)
}

func TestMemoryCatalog_CategoriesAndSlots(t *testing.T) {
	cat, err := ruleset.NewMemoryCatalog(smallDataset())
	require.NoError(t, err)
	ctx := context.Background()

	cats, err := cat.NarrativeCategories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []ruleset.NarrativeCategory{ruleset.CategoryName, ruleset.CategoryTerribleTrait}, cats)

	items, err := cat.Items(ctx, ruleset.SlotSecond)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "rope", items[0].Slug)
}

func TestMemoryCatalog_ReturnsCopies(t *testing.T) {
	cat, err := ruleset.NewMemoryCatalog(smallDataset())
	require.NoError(t, err)
	ctx := context.Background()

	armors, err := cat.Armors(ctx)
	require.NoError(t, err)
	armors[0].Name = "mutated"

	a, err := cat.ArmorAt(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Light", a.Name)
}

func TestNewMemoryCatalog_UnknownLink(t *testing.T) {
	ds := smallDataset()
	ds.Classes[0].Memories = []string{"missing"}
	_, err := ruleset.NewMemoryCatalog(ds)
	assert.ErrorContains(t, err, "unknown memories")
}

func TestNewMemoryCatalog_DuplicateSlug(t *testing.T) {
	ds := smallDataset()
	ds.Classes = append(ds.Classes, ds.Classes[0])
	_, err := ruleset.NewMemoryCatalog(ds)
	assert.ErrorIs(t, err, ruleset.ErrDuplicateSlug)
	assert.ErrorContains(t, err, "fanged_deserter")
}

func TestNewMemoryCatalog_DuplicateSlugPerTable(t *testing.T) {
	cases := map[string]func(ds *ruleset.Dataset){
		"armor":     func(ds *ruleset.Dataset) { ds.Armors = append(ds.Armors, ds.Armors[0]) },
		"weapon":    func(ds *ruleset.Dataset) { ds.Weapons = append(ds.Weapons, ds.Weapons[0]) },
		"item":      func(ds *ruleset.Dataset) { ds.Items = append(ds.Items, ds.Items[0]) },
		"narrative": func(ds *ruleset.Dataset) { ds.Narratives = append(ds.Narratives, ds.Narratives[0]) },
	}
	for kind, mutate := range cases {
		t.Run(kind, func(t *testing.T) {
			ds := testutil.Dataset()
			mutate(&ds)
			_, err := ruleset.NewMemoryCatalog(ds)
			require.ErrorIs(t, err, ruleset.ErrDuplicateSlug)
			assert.ErrorContains(t, err, kind+" ")
		})
	}
}

func TestNewMemoryCatalog_RepeatedLink(t *testing.T) {
	for _, rel := range ruleset.Relations {
		t.Run(string(rel), func(t *testing.T) {
			ds := testutil.Dataset()
			def := &ds.Classes[0]
			switch rel {
			case ruleset.RelationBonuses:
				def.Bonuses = append(def.Bonuses, def.Bonuses[0])
			case ruleset.RelationSkills:
				def.Skills = append(def.Skills, def.Skills[0])
			case ruleset.RelationMemories:
				def.Memories = append(def.Memories, def.Memories[0])
			}
			_, err := ruleset.NewMemoryCatalog(ds)
			require.ErrorIs(t, err, ruleset.ErrDuplicateSlug)
			assert.ErrorContains(t, err, "twice")
		})
	}
}

func TestNewMemoryCatalog_InvalidRecord(t *testing.T) {
	ds := smallDataset()
	ds.Classes[0].HPFormula = "3dd6"
	_, err := ruleset.NewMemoryCatalog(ds)
	require.Error(t, err)
	assert.True(t, errors.Is(err, dice.ErrFormat))
}
