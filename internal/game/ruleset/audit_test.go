package ruleset_test

import (
	"context"
	"testing"

	"github.com/H3WH4L3/TTRPG-Helper/internal/game/ruleset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func auditMessages(t *testing.T, ds ruleset.Dataset) []string {
	t.Helper()
	cat, err := ruleset.NewMemoryCatalog(ds)
	require.NoError(t, err)
	problems, err := ruleset.Audit(context.Background(), cat)
	require.NoError(t, err)
	out := make([]string, 0, len(problems))
	for _, p := range problems {
		out = append(out, p.String())
	}
	return out
}

func fullNarratives() []ruleset.Narrative {
	out := make([]ruleset.Narrative, 0, len(ruleset.NarrativeCategories))
	for _, c := range ruleset.NarrativeCategories {
		out = append(out, ruleset.Narrative{Slug: "entry", Category: c, Text: string(c)})
	}
	return out
}

func TestAudit_Clean(t *testing.T) {
	ds := smallDataset()
	ds.Narratives = fullNarratives()
	assert.Empty(t, auditMessages(t, ds))
}

func TestAudit_ReportsEmptyPools(t *testing.T) {
	ds := smallDataset()
	ds.Narratives = fullNarratives()
	ds.Classes[0].Bonuses = nil
	ds.Classes[0].Memories = nil
	msgs := auditMessages(t, ds)
	assert.Contains(t, msgs, "class fanged_deserter: no linked bonuses")
	assert.Contains(t, msgs, "class fanged_deserter: no linked memories")
}

func TestAudit_ReportsPoolPastCatalogue(t *testing.T) {
	ds := smallDataset()
	ds.Narratives = fullNarratives()
	weapon := "d6"
	ds.Classes[0].WeaponFormula = &weapon
	msgs := auditMessages(t, ds)
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0], `weapon formula "d6" can roll 6 but the catalogue has 1 rows`)
}

func TestAudit_ReportsPoolBelowFirstRow(t *testing.T) {
	ds := smallDataset()
	ds.Narratives = fullNarratives()
	armor := "d3-1"
	ds.Classes[0].ArmorFormula = &armor
	msgs := auditMessages(t, ds)
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0], "below the first row")
}

func TestAudit_ReportsMissingSlotsAndCategories(t *testing.T) {
	ds := smallDataset()
	ds.Items = ds.Items[:1]
	msgs := auditMessages(t, ds)
	assert.Contains(t, msgs, "item second: slot has no items")
	assert.Contains(t, msgs, "item third: slot has no items")
	assert.Contains(t, msgs, "narrative injury: category has no entries")
	assert.NotContains(t, msgs, "narrative name: category has no entries")
}

func TestAudit_NoClasses(t *testing.T) {
	msgs := auditMessages(t, ruleset.Dataset{})
	assert.Contains(t, msgs, "class: catalogue has no classes")
}
