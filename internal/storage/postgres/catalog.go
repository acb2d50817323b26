package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/H3WH4L3/TTRPG-Helper/internal/game/ruleset"
)

// CatalogRepository serves the character catalogue from PostgreSQL.
// Every row is validated before it is returned.
type CatalogRepository struct {
	db *pgxpool.Pool
}

// NewCatalogRepository creates a CatalogRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewCatalogRepository(db *pgxpool.Pool) *CatalogRepository {
	return &CatalogRepository{db: db}
}

type relationTable struct {
	table string
	join  string
	fk    string
}

var relationTables = map[ruleset.Relation]relationTable{
	ruleset.RelationBonuses:  {table: "bonuses", join: "class_bonuses", fk: "bonus_id"},
	ruleset.RelationSkills:   {table: "skills", join: "class_skills", fk: "skill_id"},
	ruleset.RelationMemories: {table: "memories", join: "class_memories", fk: "memory_id"},
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ruleset.ErrUnavailable, op, err)
}

const classColumns = `id, slug, name, description,
	hp_formula, money_formula, signs_formula,
	agility_formula, presence_formula, strength_formula, toughness_formula,
	armor_formula, weapon_formula, bonus_category, memory_category`

// Classes returns every class ordered by id.
func (r *CatalogRepository) Classes(ctx context.Context) ([]ruleset.Class, error) {
	rows, err := r.db.Query(ctx, `SELECT `+classColumns+` FROM classes ORDER BY id`)
	if err != nil {
		return nil, unavailable("listing classes", err)
	}
	defer rows.Close()

	var out []ruleset.Class
	for rows.Next() {
		var c ruleset.Class
		if err := rows.Scan(
			&c.ID, &c.Slug, &c.Name, &c.Description,
			&c.HPFormula, &c.MoneyFormula, &c.SignsFormula,
			&c.AgilityFormula, &c.PresenceFormula, &c.StrengthFormula, &c.ToughnessFormula,
			&c.ArmorFormula, &c.WeaponFormula, &c.BonusCategory, &c.MemoryCategory,
		); err != nil {
			return nil, unavailable("scanning class", err)
		}
		if err := c.Validate(); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("iterating classes", err)
	}
	return out, nil
}

// Linked returns the entries joined to classID through rel, ordered by id.
func (r *CatalogRepository) Linked(ctx context.Context, classID int64, rel ruleset.Relation) ([]ruleset.Entry, error) {
	t, ok := relationTables[rel]
	if !ok {
		return nil, fmt.Errorf("unknown relation %q", rel)
	}
	rows, err := r.db.Query(ctx, fmt.Sprintf(`
		SELECT e.id, e.slug, e.name, e.description
		FROM %s e JOIN %s j ON j.%s = e.id
		WHERE j.class_id = $1 ORDER BY e.id`, t.table, t.join, t.fk),
		classID,
	)
	if err != nil {
		return nil, unavailable("listing "+string(rel), err)
	}
	defer rows.Close()

	var out []ruleset.Entry
	for rows.Next() {
		var e ruleset.Entry
		if err := rows.Scan(&e.ID, &e.Slug, &e.Name, &e.Description); err != nil {
			return nil, unavailable("scanning "+string(rel), err)
		}
		if err := e.Validate(rel); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("iterating "+string(rel), err)
	}
	return out, nil
}

// Armors returns the armor catalogue ordered by id.
func (r *CatalogRepository) Armors(ctx context.Context) ([]ruleset.Armor, error) {
	rows, err := r.db.Query(ctx, `SELECT id, slug, name, level, effect FROM armors ORDER BY id`)
	if err != nil {
		return nil, unavailable("listing armors", err)
	}
	defer rows.Close()

	var out []ruleset.Armor
	for rows.Next() {
		var a ruleset.Armor
		if err := rows.Scan(&a.ID, &a.Slug, &a.Name, &a.Level, &a.Effect); err != nil {
			return nil, unavailable("scanning armor", err)
		}
		if err := a.Validate(); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("iterating armors", err)
	}
	return out, nil
}

// ArmorAt returns the armor at the 1-based ordinal in id order.
func (r *CatalogRepository) ArmorAt(ctx context.Context, ordinal int) (ruleset.Armor, error) {
	if ordinal < 1 {
		return ruleset.Armor{}, fmt.Errorf("armor ordinal %d: %w", ordinal, ruleset.ErrNotFound)
	}
	var a ruleset.Armor
	err := r.db.QueryRow(ctx, `
		SELECT id, slug, name, level, effect
		FROM armors ORDER BY id OFFSET $1 LIMIT 1`,
		ordinal-1,
	).Scan(&a.ID, &a.Slug, &a.Name, &a.Level, &a.Effect)
	if errors.Is(err, pgx.ErrNoRows) {
		return ruleset.Armor{}, fmt.Errorf("armor ordinal %d: %w", ordinal, ruleset.ErrNotFound)
	}
	if err != nil {
		return ruleset.Armor{}, unavailable("fetching armor", err)
	}
	if err := a.Validate(); err != nil {
		return ruleset.Armor{}, err
	}
	return a, nil
}

// Weapons returns the weapon catalogue ordered by id.
func (r *CatalogRepository) Weapons(ctx context.Context) ([]ruleset.Weapon, error) {
	rows, err := r.db.Query(ctx, `SELECT id, slug, name, damage, effect, ammo FROM weapons ORDER BY id`)
	if err != nil {
		return nil, unavailable("listing weapons", err)
	}
	defer rows.Close()

	var out []ruleset.Weapon
	for rows.Next() {
		var w ruleset.Weapon
		if err := rows.Scan(&w.ID, &w.Slug, &w.Name, &w.Damage, &w.Effect, &w.Ammo); err != nil {
			return nil, unavailable("scanning weapon", err)
		}
		if err := w.Validate(); err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("iterating weapons", err)
	}
	return out, nil
}

// WeaponAt returns the weapon at the 1-based ordinal in id order.
func (r *CatalogRepository) WeaponAt(ctx context.Context, ordinal int) (ruleset.Weapon, error) {
	if ordinal < 1 {
		return ruleset.Weapon{}, fmt.Errorf("weapon ordinal %d: %w", ordinal, ruleset.ErrNotFound)
	}
	var w ruleset.Weapon
	err := r.db.QueryRow(ctx, `
		SELECT id, slug, name, damage, effect, ammo
		FROM weapons ORDER BY id OFFSET $1 LIMIT 1`,
		ordinal-1,
	).Scan(&w.ID, &w.Slug, &w.Name, &w.Damage, &w.Effect, &w.Ammo)
	if errors.Is(err, pgx.ErrNoRows) {
		return ruleset.Weapon{}, fmt.Errorf("weapon ordinal %d: %w", ordinal, ruleset.ErrNotFound)
	}
	if err != nil {
		return ruleset.Weapon{}, unavailable("fetching weapon", err)
	}
	if err := w.Validate(); err != nil {
		return ruleset.Weapon{}, err
	}
	return w, nil
}

// NarrativeCategories returns the distinct categories present, sorted.
func (r *CatalogRepository) NarrativeCategories(ctx context.Context) ([]ruleset.NarrativeCategory, error) {
	rows, err := r.db.Query(ctx, `SELECT DISTINCT category FROM narratives ORDER BY category`)
	if err != nil {
		return nil, unavailable("listing narrative categories", err)
	}
	defer rows.Close()

	var out []ruleset.NarrativeCategory
	for rows.Next() {
		var cat string
		if err := rows.Scan(&cat); err != nil {
			return nil, unavailable("scanning narrative category", err)
		}
		out = append(out, ruleset.NarrativeCategory(cat))
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("iterating narrative categories", err)
	}
	return out, nil
}

// Narratives returns the entries of category ordered by id.
func (r *CatalogRepository) Narratives(ctx context.Context, category ruleset.NarrativeCategory) ([]ruleset.Narrative, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, slug, category, text
		FROM narratives WHERE category = $1 ORDER BY id`,
		string(category),
	)
	if err != nil {
		return nil, unavailable("listing narratives", err)
	}
	defer rows.Close()

	var out []ruleset.Narrative
	for rows.Next() {
		var (
			n   ruleset.Narrative
			cat string
		)
		if err := rows.Scan(&n.ID, &n.Slug, &cat, &n.Text); err != nil {
			return nil, unavailable("scanning narrative", err)
		}
		n.Category = ruleset.NarrativeCategory(cat)
		if err := n.Validate(); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("iterating narratives", err)
	}
	return out, nil
}

// Items returns the items of slot ordered by id.
func (r *CatalogRepository) Items(ctx context.Context, slot ruleset.ItemSlot) ([]ruleset.Item, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, slug, name, effect, counts, cost, category
		FROM items WHERE category = $1 ORDER BY id`,
		string(slot),
	)
	if err != nil {
		return nil, unavailable("listing items", err)
	}
	defer rows.Close()

	var out []ruleset.Item
	for rows.Next() {
		var (
			it  ruleset.Item
			cat string
		)
		if err := rows.Scan(&it.ID, &it.Slug, &it.Name, &it.Effect, &it.Counts, &it.Cost, &cat); err != nil {
			return nil, unavailable("scanning item", err)
		}
		it.Slot = ruleset.ItemSlot(cat)
		if err := it.Validate(); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("iterating items", err)
	}
	return out, nil
}
