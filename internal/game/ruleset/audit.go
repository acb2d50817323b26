package ruleset

import (
	"context"
	"fmt"

	"github.com/H3WH4L3/TTRPG-Helper/internal/game/dice"
)

// Problem is one authoring-time invariant violation found by Audit.
type Problem struct {
	Kind    string
	Slug    string
	Message string
}

func (p Problem) String() string {
	if p.Slug == "" {
		return fmt.Sprintf("%s: %s", p.Kind, p.Message)
	}
	return fmt.Sprintf("%s %s: %s", p.Kind, p.Slug, p.Message)
}

// Audit checks the cross-record invariants generation relies on: at least one
// class, a non-empty bonus and memory pool per class, armor and weapon pool
// formulas that cannot roll past the end of their catalogue, every item slot
// stocked and every narrative category present.
//
// Row-level validity is enforced by the Catalog itself; a row that fails it is
// returned as the error rather than as a Problem.
func Audit(ctx context.Context, cat Catalog) ([]Problem, error) {
	var problems []Problem

	classes, err := cat.Classes(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing classes: %w", err)
	}
	if len(classes) == 0 {
		problems = append(problems, Problem{Kind: "class", Message: "catalogue has no classes"})
	}
	armors, err := cat.Armors(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing armors: %w", err)
	}
	weapons, err := cat.Weapons(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing weapons: %w", err)
	}

	for _, c := range classes {
		for _, rel := range []Relation{RelationBonuses, RelationMemories} {
			linked, err := cat.Linked(ctx, c.ID, rel)
			if err != nil {
				return nil, fmt.Errorf("listing %s of class %s: %w", rel, c.Slug, err)
			}
			if len(linked) == 0 {
				problems = append(problems, Problem{Kind: "class", Slug: c.Slug, Message: fmt.Sprintf("no linked %s", rel)})
			}
		}
		if p, ok := poolProblem(c, "armor", c.ArmorFormula, len(armors)); ok {
			problems = append(problems, p)
		}
		if p, ok := poolProblem(c, "weapon", c.WeaponFormula, len(weapons)); ok {
			problems = append(problems, p)
		}
	}

	for _, slot := range ItemSlots {
		items, err := cat.Items(ctx, slot)
		if err != nil {
			return nil, fmt.Errorf("listing %s items: %w", slot, err)
		}
		if len(items) == 0 {
			problems = append(problems, Problem{Kind: "item", Slug: string(slot), Message: "slot has no items"})
		}
	}

	present, err := cat.NarrativeCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing narrative categories: %w", err)
	}
	have := make(map[NarrativeCategory]bool, len(present))
	for _, p := range present {
		have[p] = true
	}
	for _, want := range NarrativeCategories {
		if !have[want] {
			problems = append(problems, Problem{Kind: "narrative", Slug: string(want), Message: "category has no entries"})
		}
	}
	return problems, nil
}

func poolProblem(c Class, kind string, formula *string, size int) (Problem, bool) {
	if formula == nil {
		return Problem{}, false
	}
	expr, err := dice.Parse(*formula)
	if err != nil {
		return Problem{Kind: "class", Slug: c.Slug, Message: fmt.Sprintf("%s formula: %v", kind, err)}, true
	}
	if expr.Min() < 1 {
		return Problem{Kind: "class", Slug: c.Slug, Message: fmt.Sprintf("%s formula %q can roll %d, below the first row", kind, *formula, expr.Min())}, true
	}
	if expr.Max() > size {
		return Problem{Kind: "class", Slug: c.Slug, Message: fmt.Sprintf("%s formula %q can roll %d but the catalogue has %d rows", kind, *formula, expr.Max(), size)}, true
	}
	return Problem{}, false
}
