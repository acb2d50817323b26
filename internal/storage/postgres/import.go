package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/H3WH4L3/TTRPG-Helper/internal/game/ruleset"
)

// Import replaces the whole catalogue with ds in one transaction. Identity
// sequences restart so ids, and therefore armor and weapon ordinals, follow
// dataset order.
//
// Precondition: ds should already have passed ruleset.NewMemoryCatalog.
// Postcondition: The catalogue equals ds, or is unchanged on error.
func (r *CatalogRepository) Import(ctx context.Context, ds ruleset.Dataset) error {
	return pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `
			TRUNCATE classes, bonuses, skills, memories,
			         class_bonuses, class_skills, class_memories,
			         armors, weapons, items, narratives
			RESTART IDENTITY CASCADE`); err != nil {
			return fmt.Errorf("clearing catalogue: %w", err)
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
				err := tx.QueryRow(ctx, fmt.Sprintf(
					`INSERT INTO %s (slug, name, description) VALUES ($1, $2, $3) RETURNING id`, t.table),
					e.Slug, e.Name, e.Description,
				).Scan(&id)
				if err != nil {
					return insertError(string(rel), e.Slug, err)
				}
				ids[rel][e.Slug] = id
			}
		}

		for _, def := range ds.Classes {
			c := def.Class
			var classID int64
			err := tx.QueryRow(ctx, `
				INSERT INTO classes
					(slug, name, description,
					 hp_formula, money_formula, signs_formula,
					 agility_formula, presence_formula, strength_formula, toughness_formula,
					 armor_formula, weapon_formula, bonus_category, memory_category)
				VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
				RETURNING id`,
				c.Slug, c.Name, c.Description,
				c.HPFormula, c.MoneyFormula, c.SignsFormula,
				c.AgilityFormula, c.PresenceFormula, c.StrengthFormula, c.ToughnessFormula,
				c.ArmorFormula, c.WeaponFormula, c.BonusCategory, c.MemoryCategory,
			).Scan(&classID)
			if err != nil {
				return insertError("class", c.Slug, err)
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
						return fmt.Errorf("class %q links unknown %s %q", c.Slug, rel, slug)
					}
					if _, err := tx.Exec(ctx, fmt.Sprintf(
						`INSERT INTO %s (class_id, %s) VALUES ($1, $2)`, t.join, t.fk),
						classID, id,
					); err != nil {
						return fmt.Errorf("linking class %q to %s %q: %w", c.Slug, rel, slug, err)
					}
				}
			}
		}

		for _, a := range ds.Armors {
			if _, err := tx.Exec(ctx,
				`INSERT INTO armors (slug, name, level, effect) VALUES ($1, $2, $3, $4)`,
				a.Slug, a.Name, a.Level, a.Effect,
			); err != nil {
				return insertError("armor", a.Slug, err)
			}
		}
		for _, w := range ds.Weapons {
			if _, err := tx.Exec(ctx,
				`INSERT INTO weapons (slug, name, damage, effect, ammo) VALUES ($1, $2, $3, $4, $5)`,
				w.Slug, w.Name, w.Damage, w.Effect, w.Ammo,
			); err != nil {
				return insertError("weapon", w.Slug, err)
			}
		}
		for _, it := range ds.Items {
			if _, err := tx.Exec(ctx,
				`INSERT INTO items (slug, name, effect, counts, cost, category) VALUES ($1, $2, $3, $4, $5, $6)`,
				it.Slug, it.Name, it.Effect, it.Counts, it.Cost, string(it.Slot),
			); err != nil {
				return insertError("item", it.Slug, err)
			}
		}
		for _, n := range ds.Narratives {
			if _, err := tx.Exec(ctx,
				`INSERT INTO narratives (slug, category, text) VALUES ($1, $2, $3)`,
				n.Slug, string(n.Category), n.Text,
			); err != nil {
				return insertError("narrative", n.Slug, err)
			}
		}
		return nil
	})
}

func insertError(kind, slug string, err error) error {
	if isDuplicateKeyError(err) {
		return fmt.Errorf("inserting %s %q: %w", kind, slug, ruleset.ErrDuplicateSlug)
	}
	return fmt.Errorf("inserting %s %q: %w", kind, slug, err)
}

// isDuplicateKeyError checks if a pgx error is a unique constraint violation.
func isDuplicateKeyError(err error) bool {
	// SQLSTATE 23505 is unique_violation.
	var pgErr interface{ SQLState() string }
	if errors.As(err, &pgErr) {
		return pgErr.SQLState() == "23505"
	}
	return false
}
