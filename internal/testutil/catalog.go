package testutil

import (
	"sync"
	"testing"

	"github.com/H3WH4L3/TTRPG-Helper/internal/game/ruleset"
)

func strPtr(s string) *string { return &s }

func intPtr(n int) *int { return &n }

// Dataset returns a small catalogue that exercises every relation: one class
// with armor and weapon pools, one with neither, an ammo-bearing weapon, every
// item slot and every narrative category.
func Dataset() ruleset.Dataset {
	return ruleset.Dataset{
		Classes: []ruleset.ClassDef{
			{
				Class: ruleset.Class{
					Slug:             "fanged_deserter",
					Name:             "Fanged Deserter",
					Description:      "A soldier gone feral.",
					HPFormula:        "d10+2",
					MoneyFormula:     "2d6*10",
					SignsFormula:     "d2",
					AgilityFormula:   "3d6-1",
					PresenceFormula:  "3d6-1",
					StrengthFormula:  "3d6+2",
					ToughnessFormula: "3d6",
					ArmorFormula:     strPtr("1d3"),
					WeaponFormula:    strPtr("d2"),
					BonusCategory:    "Fanged talent:",
					MemoryCategory:   "You remember",
				},
				Bonuses:  []string{"bite_attack", "battle_hardened"},
				Skills:   []string{"illiterate", "gnash"},
				Memories: []string{"burned_village", "lost_regiment"},
			},
			{
				Class: ruleset.Class{
					Slug:             "esoteric_hermit",
					Name:             "Esoteric Hermit",
					Description:      "A recluse who speaks to stones.",
					HPFormula:        "d4",
					MoneyFormula:     "d6*10",
					SignsFormula:     "d4",
					AgilityFormula:   "3d6",
					PresenceFormula:  "3d6+2",
					StrengthFormula:  "3d6",
					ToughnessFormula: "3d6",
					BonusCategory:    "Hermit's gift:",
					MemoryCategory:   "Before the cave",
				},
				Bonuses:  []string{"master_of_fate"},
				Skills:   []string{"read_scrolls"},
				Memories: []string{"cave_of_whispers"},
			},
		},
		Bonuses: []ruleset.Entry{
			{Slug: "bite_attack", Name: "Bite", Description: "Fangs deal d6."},
			{Slug: "battle_hardened", Name: "Battle hardened", Description: "Ignore the first wound."},
			{Slug: "master_of_fate", Name: "Master of fate", Description: "Reroll one die per day."},
		},
		Skills: []ruleset.Entry{
			{Slug: "illiterate", Name: "Illiterate", Description: "Cannot read scrolls."},
			{Slug: "gnash", Name: "Gnash", Description: "Scare foes."},
			{Slug: "read_scrolls", Name: "Scroll reader", Description: "Use scrolls freely."},
		},
		Memories: []ruleset.Entry{
			{Slug: "burned_village", Name: "Burned village", Description: "the village you burned."},
			{Slug: "lost_regiment", Name: "Lost regiment", Description: "the regiment that left you."},
			{Slug: "cave_of_whispers", Name: "Cave of whispers", Description: "a voice that named your death."},
		},
		Armors: []ruleset.Armor{
			{Slug: "light_armor", Name: "Light armor", Level: 1},
			{Slug: "medium_armor", Name: "Medium armor", Level: 2, Effect: strPtr("Agility one step harder.")},
			{Slug: "heavy_armor", Name: "Heavy armor", Level: 3, Effect: strPtr("Agility two steps harder.")},
		},
		Weapons: []ruleset.Weapon{
			{Slug: "bow", Name: "Bow", Damage: "d6", Ammo: strPtr("Presence + 10 arrows")},
			{Slug: "sword", Name: "Sword", Damage: "d6", Effect: strPtr("Parry on a 20.")},
		},
		Items: []ruleset.Item{
			{Slug: "backpack", Name: "Backpack", Cost: intPtr(7), Slot: ruleset.SlotFirst},
			{Slug: "sack", Name: "Sack", Cost: intPtr(2), Slot: ruleset.SlotFirst},
			{Slug: "torches", Name: "Torches", Counts: strPtr("Presence + 4"), Slot: ruleset.SlotSecond},
			{Slug: "medicine_chest", Name: "Medicine chest", Effect: strPtr("Heals d6."), Slot: ruleset.SlotThird},
			{Slug: "manacles", Name: "Manacles", Cost: intPtr(10), Slot: ruleset.SlotThird},
		},
		Narratives: []ruleset.Narrative{
			{Slug: "gambler", Category: ruleset.CategoryBadHabit, Text: "You gamble away every coin."},
			{Slug: "night_singer", Category: ruleset.CategoryBadHabit, Text: "You sing loudly at night."},
			{Slug: "cult_runaway", Category: ruleset.CategoryDangerousPast, Text: "You fled a cult."},
			{Slug: "coward", Category: ruleset.CategoryTerribleTrait, Text: "Cowardly"},
			{Slug: "arrogant", Category: ruleset.CategoryTerribleTrait, Text: "Arrogant"},
			{Slug: "missing_eye", Category: ruleset.CategoryInjury, Text: "One eye is a milky ruin."},
			{Slug: "find_sister", Category: ruleset.CategorySecretQuest, Text: "Find your lost sister."},
			{Slug: "hildegard", Category: ruleset.CategoryName, Text: "Hildegard"},
			{Slug: "aerg_tor", Category: ruleset.CategoryName, Text: "Aerg-Tor"},
		},
	}
}

// MemoryCatalog builds an in-memory catalogue from Dataset, failing the test on error.
func MemoryCatalog(t testing.TB) *ruleset.MemoryCatalog {
	t.Helper()
	cat, err := ruleset.NewMemoryCatalog(Dataset())
	if err != nil {
		t.Fatalf("building memory catalog: %v", err)
	}
	return cat
}

// ScriptedSource replays a fixed list of draws, cycling when exhausted. Each
// draw is reduced modulo n so any script is valid for any call.
type ScriptedSource struct {
	mu    sync.Mutex
	vals  []int
	calls int
}

// NewScriptedSource returns a source replaying vals.
//
// Precondition: vals must be non-empty and non-negative.
func NewScriptedSource(vals ...int) *ScriptedSource {
	return &ScriptedSource{vals: vals}
}

// Intn returns the next scripted value modulo n.
func (s *ScriptedSource) Intn(n int) int {
	if n <= 0 {
		panic("testutil: Intn called with n <= 0")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	v := s.vals[s.calls%len(s.vals)] % n
	s.calls++
	return v
}

// Calls returns how many draws have been made.
func (s *ScriptedSource) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}
