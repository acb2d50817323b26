package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/H3WH4L3/TTRPG-Helper/internal/game/ruleset"
)

// Import replaces the whole catalogue with ds in one transaction. Id
// sequences restart so armor and weapon ordinals follow dataset order.
//
// Precondition: ds should already have passed ruleset.NewMemoryCatalog.
// Postcondition: The catalogue equals ds, or is unchanged on error.
func (s *Store) Import(ctx context.Context, ds ruleset.Dataset) (err error) {
	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin import: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, table := range []string{
		"class_bonuses", "class_skills", "class_memories",
		"classes", "bonuses", "skills", "memories",
		"armors", "weapons", "items", "narratives",
	} {
		if _, err = tx.ExecContext(ctx, `DELETE FROM `+table); err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM sqlite_sequence`); err != nil {
		return fmt.Errorf("resetting id sequences: %w", err)
	}

	ids := make(map[ruleset.Relation]map[string]int64, len(relationTables))
	pools := map[ruleset.Relation][]ruleset.Entry{
		ruleset.RelationBonuses:  ds.Bonuses,
		ruleset.RelationSkills:   ds.Skills,
		ruleset.RelationMemories: ds.Memories,
	}
	for _, rel := range ruleset.Relations {
		t := relationTables[rel]
		ids[rel] = make(map[string]int64, len(pools[rel]))
		for _, e := range pools[rel] {
			var id int64
			id, err = insert(ctx, tx, string(rel), e.Slug, fmt.Sprintf(
				`INSERT INTO %s (slug, name, description) VALUES (?, ?, ?)`, t.table),
				e.Slug, e.Name, e.Description,
			)
			if err != nil {
				return err
			}
			ids[rel][e.Slug] = id
		}
	}

	for _, def := range ds.Classes {
		c := def.Class
		var classID int64
		classID, err = insert(ctx, tx, "class", c.Slug, `
			INSERT INTO classes
				(slug, name, description,
				 hp_formula, money_formula, signs_formula,
				 agility_formula, presence_formula, strength_formula, toughness_formula,
				 armor_formula, weapon_formula, bonus_category, memory_category)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			c.Slug, c.Name, c.Description,
			c.HPFormula, c.MoneyFormula, c.SignsFormula,
			c.AgilityFormula, c.PresenceFormula, c.StrengthFormula, c.ToughnessFormula,
			c.ArmorFormula, c.WeaponFormula, c.BonusCategory, c.MemoryCategory,
		)
		if err != nil {
			return err
		}
		links := map[ruleset.Relation][]string{
			ruleset.RelationBonuses:  def.Bonuses,
			ruleset.RelationSkills:   def.Skills,
			ruleset.RelationMemories: def.Memories,
		}
		for _, rel := range ruleset.Relations {
			t := relationTables[rel]
			for _, slug := range links[rel] {
				id, ok := ids[rel][slug]
				if !ok {
					err = fmt.Errorf("class %q links unknown %s %q", c.Slug, rel, slug)
					return err
				}
				if _, err = tx.ExecContext(ctx, fmt.Sprintf(
					`INSERT INTO %s (class_id, %s) VALUES (?, ?)`, t.join, t.fk),
					classID, id,
				); err != nil {
					return fmt.Errorf("linking class %q to %s %q: %w", c.Slug, rel, slug, err)
				}
			}
		}
	}

	for _, a := range ds.Armors {
		if _, err = insert(ctx, tx, "armor", a.Slug,
			`INSERT INTO armors (slug, name, level, effect) VALUES (?, ?, ?, ?)`,
			a.Slug, a.Name, a.Level, a.Effect,
		); err != nil {
			return err
		}
	}
	for _, w := range ds.Weapons {
		if _, err = insert(ctx, tx, "weapon", w.Slug,
			`INSERT INTO weapons (slug, name, damage, effect, ammo) VALUES (?, ?, ?, ?, ?)`,
			w.Slug, w.Name, w.Damage, w.Effect, w.Ammo,
		); err != nil {
			return err
		}
	}
	for _, it := range ds.Items {
		if _, err = insert(ctx, tx, "item", it.Slug,
			`INSERT INTO items (slug, name, effect, counts, cost, category) VALUES (?, ?, ?, ?, ?, ?)`,
			it.Slug, it.Name, it.Effect, it.Counts, it.Cost, string(it.Slot),
		); err != nil {
			return err
		}
	}
	for _, n := range ds.Narratives {
		if _, err = insert(ctx, tx, "narrative", n.Slug,
			`INSERT INTO narratives (slug, category, text) VALUES (?, ?, ?)`,
			n.Slug, string(n.Category), n.Text,
		); err != nil {
			return err
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit import: %w", err)
	}
	return nil
}

func insert(ctx context.Context, tx *sql.Tx, kind, slug, query string, args ...any) (int64, error) {
	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("inserting %s %q: %w", kind, slug, ruleset.ErrDuplicateSlug)
		}
		return 0, fmt.Errorf("inserting %s %q: %w", kind, slug, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading %s %q id: %w", kind, slug, err)
	}
	return id, nil
}
