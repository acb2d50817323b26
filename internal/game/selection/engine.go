// Package selection performs the randomized catalogue picks character
// generation needs. The Catalog supplies candidate rows; every draw is made
// here from the injected dice source, so identical draws over identical data
// give identical picks.
package selection

import (
	"context"
	"fmt"

	"github.com/H3WH4L3/TTRPG-Helper/internal/game/dice"
	"github.com/H3WH4L3/TTRPG-Helper/internal/game/ruleset"
)

// Engine hides the catalogue query shape behind typed pick operations.
// It holds no mutable state of its own and is safe for concurrent use when
// its Catalog and dice Source are.
type Engine struct {
	catalog ruleset.Catalog
	roller  *dice.Roller
}

// NewEngine creates an Engine drawing from roller's source.
//
// Precondition: catalog and roller must be non-nil.
func NewEngine(catalog ruleset.Catalog, roller *dice.Roller) *Engine {
	return &Engine{catalog: catalog, roller: roller}
}

// pickOne draws one candidate uniformly from list's result.
//
// Postcondition: returns an error wrapping ErrNotFound when list yields nothing.
func pickOne[T any](ctx context.Context, src dice.Source, what string, list func(context.Context) ([]T, error)) (T, error) {
	var zero T
	candidates, err := list(ctx)
	if err != nil {
		return zero, fmt.Errorf("listing %s: %w", what, err)
	}
	if len(candidates) == 0 {
		return zero, fmt.Errorf("no %s: %w", what, ruleset.ErrNotFound)
	}
	return candidates[src.Intn(len(candidates))], nil
}

// pickByRoll evaluates formula to an upper bound N, draws an ordinal in
// [1, N] and fetches that row. A nil formula means none is granted.
func pickByRoll[T any](e *Engine, ctx context.Context, what string, formula *string, at func(context.Context, int) (T, error)) (*T, error) {
	if formula == nil {
		return nil, nil
	}
	bound, err := e.roller.Evaluate(*formula)
	if err != nil {
		return nil, fmt.Errorf("%s pool formula: %w", what, err)
	}
	if bound < 1 {
		return nil, fmt.Errorf("%s pool formula %q rolled %d: %w", what, *formula, bound, ruleset.ErrNotFound)
	}
	ordinal := dice.Between(e.roller.Source(), 1, bound)
	row, err := at(ctx, ordinal)
	if err != nil {
		return nil, fmt.Errorf("%s #%d: %w", what, ordinal, err)
	}
	return &row, nil
}

func (e *Engine) linked(classID int64, rel ruleset.Relation) func(context.Context) ([]ruleset.Entry, error) {
	return func(ctx context.Context) ([]ruleset.Entry, error) {
		return e.catalog.Linked(ctx, classID, rel)
	}
}

// PickClass draws one class uniformly from the whole catalogue.
func (e *Engine) PickClass(ctx context.Context) (ruleset.Class, error) {
	return pickOne(ctx, e.roller.Source(), "classes", e.catalog.Classes)
}

// PickBonus draws one bonus uniformly from those linked to classID.
func (e *Engine) PickBonus(ctx context.Context, classID int64) (ruleset.Entry, error) {
	return pickOne(ctx, e.roller.Source(), fmt.Sprintf("bonuses for class %d", classID), e.linked(classID, ruleset.RelationBonuses))
}

// PickMemory draws one memory uniformly from those linked to classID.
func (e *Engine) PickMemory(ctx context.Context, classID int64) (ruleset.Entry, error) {
	return pickOne(ctx, e.roller.Source(), fmt.Sprintf("memories for class %d", classID), e.linked(classID, ruleset.RelationMemories))
}

// Skills returns every skill linked to classID as name -> description.
// No randomness is involved.
func (e *Engine) Skills(ctx context.Context, classID int64) (map[string]string, error) {
	entries, err := e.catalog.Linked(ctx, classID, ruleset.RelationSkills)
	if err != nil {
		return nil, fmt.Errorf("listing skills for class %d: %w", classID, err)
	}
	skills := make(map[string]string, len(entries))
	for _, s := range entries {
		skills[s.Name] = s.Description
	}
	return skills, nil
}

// PickNarratives draws exactly one entry for every category present in the
// catalogue. Categories are visited in sorted order.
func (e *Engine) PickNarratives(ctx context.Context) (map[ruleset.NarrativeCategory]string, error) {
	cats, err := e.catalog.NarrativeCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing narrative categories: %w", err)
	}
	out := make(map[ruleset.NarrativeCategory]string, len(cats))
	for _, cat := range cats {
		n, err := pickOne(ctx, e.roller.Source(), fmt.Sprintf("%s narratives", cat), func(ctx context.Context) ([]ruleset.Narrative, error) {
			return e.catalog.Narratives(ctx, cat)
		})
		if err != nil {
			return nil, err
		}
		out[cat] = n.Text
	}
	return out, nil
}

// PickArmor rolls the class's armor pool formula and returns the armor whose
// 1-based catalogue position equals a uniform draw in [1, roll].
// Returns nil, nil when formula is nil.
func (e *Engine) PickArmor(ctx context.Context, formula *string) (*ruleset.Armor, error) {
	return pickByRoll(e, ctx, "armor", formula, e.catalog.ArmorAt)
}

// PickWeapon is PickArmor for the weapon catalogue.
func (e *Engine) PickWeapon(ctx context.Context, formula *string) (*ruleset.Weapon, error) {
	return pickByRoll(e, ctx, "weapon", formula, e.catalog.WeaponAt)
}

// PickItems draws one item per starting slot, returned in slot order.
func (e *Engine) PickItems(ctx context.Context) ([]ruleset.Item, error) {
	items := make([]ruleset.Item, 0, len(ruleset.ItemSlots))
	for _, slot := range ruleset.ItemSlots {
		it, err := pickOne(ctx, e.roller.Source(), fmt.Sprintf("%s items", slot), func(ctx context.Context) ([]ruleset.Item, error) {
			return e.catalog.Items(ctx, slot)
		})
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, nil
}
