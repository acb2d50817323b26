package ruleset

import (
	"context"
	"fmt"
	"sort"
)

// MemoryCatalog is an immutable in-memory Catalog built from a Dataset.
// Primary keys are assigned 1..n in dataset order per table.
type MemoryCatalog struct {
	classes    []Class
	links      map[int64]map[Relation][]Entry
	armors     []Armor
	weapons    []Weapon
	items      map[ItemSlot][]Item
	narratives map[NarrativeCategory][]Narrative
}

// NewMemoryCatalog assigns ids, resolves link slugs and validates every record.
//
// Postcondition: Returns a ready catalogue, or the first *RecordError or
// unresolved link found.
func NewMemoryCatalog(ds Dataset) (*MemoryCatalog, error) {
	c := &MemoryCatalog{
		links:      make(map[int64]map[Relation][]Entry),
		items:      make(map[ItemSlot][]Item),
		narratives: make(map[NarrativeCategory][]Narrative),
	}

	pools := map[Relation]map[string]Entry{}
	for rel, entries := range map[Relation][]Entry{
		RelationBonuses:  ds.Bonuses,
		RelationSkills:   ds.Skills,
		RelationMemories: ds.Memories,
	} {
		bySlug := make(map[string]Entry, len(entries))
		for i, e := range entries {
			e.ID = int64(i + 1)
			if err := e.Validate(rel); err != nil {
				return nil, err
			}
			if _, dup := bySlug[e.Slug]; dup {
				return nil, fmt.Errorf("%s %q: %w", rel, e.Slug, ErrDuplicateSlug)
			}
			bySlug[e.Slug] = e
		}
		pools[rel] = bySlug
	}

	seen := make(map[string]bool, len(ds.Classes))
	for i, def := range ds.Classes {
		cl := def.Class
		cl.ID = int64(i + 1)
		if err := cl.Validate(); err != nil {
			return nil, err
		}
		if seen[cl.Slug] {
			return nil, fmt.Errorf("class %q: %w", cl.Slug, ErrDuplicateSlug)
		}
		seen[cl.Slug] = true
		c.classes = append(c.classes, cl)

		links := make(map[Relation][]Entry, len(Relations))
		for rel, slugs := range map[Relation][]string{
			RelationBonuses:  def.Bonuses,
			RelationSkills:   def.Skills,
			RelationMemories: def.Memories,
		} {
			linked := make(map[string]bool, len(slugs))
			for _, slug := range slugs {
				if linked[slug] {
					return nil, fmt.Errorf("class %q links %s %q twice: %w", cl.Slug, rel, slug, ErrDuplicateSlug)
				}
				linked[slug] = true
				e, ok := pools[rel][slug]
				if !ok {
					return nil, fmt.Errorf("ruleset: class %q links unknown %s %q", cl.Slug, rel, slug)
				}
				links[rel] = append(links[rel], e)
			}
			sort.Slice(links[rel], func(a, b int) bool { return links[rel][a].ID < links[rel][b].ID })
		}
		c.links[cl.ID] = links
	}

	armorSlugs := slugSet{kind: "armor"}
	for i, a := range ds.Armors {
		a.ID = int64(i + 1)
		if err := a.Validate(); err != nil {
			return nil, err
		}
		if err := armorSlugs.add(a.Slug); err != nil {
			return nil, err
		}
		c.armors = append(c.armors, a)
	}
	weaponSlugs := slugSet{kind: "weapon"}
	for i, w := range ds.Weapons {
		w.ID = int64(i + 1)
		if err := w.Validate(); err != nil {
			return nil, err
		}
		if err := weaponSlugs.add(w.Slug); err != nil {
			return nil, err
		}
		c.weapons = append(c.weapons, w)
	}
	itemSlugs := slugSet{kind: "item"}
	for i, it := range ds.Items {
		it.ID = int64(i + 1)
		if err := it.Validate(); err != nil {
			return nil, err
		}
		if err := itemSlugs.add(it.Slug); err != nil {
			return nil, err
		}
		c.items[it.Slot] = append(c.items[it.Slot], it)
	}
	narrativeSlugs := slugSet{kind: "narrative"}
	for i, n := range ds.Narratives {
		n.ID = int64(i + 1)
		if err := n.Validate(); err != nil {
			return nil, err
		}
		if err := narrativeSlugs.add(n.Slug); err != nil {
			return nil, err
		}
		c.narratives[n.Category] = append(c.narratives[n.Category], n)
	}
	return c, nil
}

// slugSet enforces per-table slug uniqueness, as the database schemas do.
type slugSet struct {
	kind string
	seen map[string]bool
}

func (s *slugSet) add(slug string) error {
	if s.seen == nil {
		s.seen = make(map[string]bool)
	}
	if s.seen[slug] {
		return fmt.Errorf("%s %q: %w", s.kind, slug, ErrDuplicateSlug)
	}
	s.seen[slug] = true
	return nil
}

// Classes returns a copy of every class.
func (c *MemoryCatalog) Classes(context.Context) ([]Class, error) {
	return append([]Class(nil), c.classes...), nil
}

// Linked returns the entries joined to classID through rel.
// An unknown classID yields an empty slice.
func (c *MemoryCatalog) Linked(_ context.Context, classID int64, rel Relation) ([]Entry, error) {
	return append([]Entry(nil), c.links[classID][rel]...), nil
}

// Armors returns a copy of the armor catalogue.
func (c *MemoryCatalog) Armors(context.Context) ([]Armor, error) {
	return append([]Armor(nil), c.armors...), nil
}

// ArmorAt returns the armor at the 1-based ordinal.
func (c *MemoryCatalog) ArmorAt(_ context.Context, ordinal int) (Armor, error) {
	if ordinal < 1 || ordinal > len(c.armors) {
		return Armor{}, fmt.Errorf("armor ordinal %d of %d: %w", ordinal, len(c.armors), ErrNotFound)
	}
	return c.armors[ordinal-1], nil
}

// Weapons returns a copy of the weapon catalogue.
func (c *MemoryCatalog) Weapons(context.Context) ([]Weapon, error) {
	return append([]Weapon(nil), c.weapons...), nil
}

// WeaponAt returns the weapon at the 1-based ordinal.
func (c *MemoryCatalog) WeaponAt(_ context.Context, ordinal int) (Weapon, error) {
	if ordinal < 1 || ordinal > len(c.weapons) {
		return Weapon{}, fmt.Errorf("weapon ordinal %d of %d: %w", ordinal, len(c.weapons), ErrNotFound)
	}
	return c.weapons[ordinal-1], nil
}

// NarrativeCategories returns the categories that have at least one entry, sorted.
func (c *MemoryCatalog) NarrativeCategories(context.Context) ([]NarrativeCategory, error) {
	cats := make([]NarrativeCategory, 0, len(c.narratives))
	for cat := range c.narratives {
		cats = append(cats, cat)
	}
	sort.Slice(cats, func(i, j int) bool { return cats[i] < cats[j] })
	return cats, nil
}

// Narratives returns the entries of category.
func (c *MemoryCatalog) Narratives(_ context.Context, category NarrativeCategory) ([]Narrative, error) {
	return append([]Narrative(nil), c.narratives[category]...), nil
}

// Items returns the items of slot.
func (c *MemoryCatalog) Items(_ context.Context, slot ItemSlot) ([]Item, error) {
	return append([]Item(nil), c.items[slot]...), nil
}
