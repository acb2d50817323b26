package ruleset

import "context"

// Catalog is read access to the reference data. Implementations never write.
//
// Every record returned has passed its Validate method; a row that does not
// yields a *RecordError. Query failures wrap ErrUnavailable. Implementations
// must be safe for concurrent use.
type Catalog interface {
	// Classes returns every class in primary-key order.
	Classes(ctx context.Context) ([]Class, error)
	// Linked returns every entry joined to classID through rel, in primary-key order.
	Linked(ctx context.Context, classID int64, rel Relation) ([]Entry, error)
	// Armors returns the armor catalogue in primary-key order.
	Armors(ctx context.Context) ([]Armor, error)
	// ArmorAt returns the armor at the 1-based ordinal position, or ErrNotFound.
	ArmorAt(ctx context.Context, ordinal int) (Armor, error)
	// Weapons returns the weapon catalogue in primary-key order.
	Weapons(ctx context.Context) ([]Weapon, error)
	// WeaponAt returns the weapon at the 1-based ordinal position, or ErrNotFound.
	WeaponAt(ctx context.Context, ordinal int) (Weapon, error)
	// NarrativeCategories returns the distinct categories present, sorted.
	NarrativeCategories(ctx context.Context) ([]NarrativeCategory, error)
	// Narratives returns every entry of category in primary-key order.
	Narratives(ctx context.Context, category NarrativeCategory) ([]Narrative, error)
	// Items returns every item of slot in primary-key order.
	Items(ctx context.Context, slot ItemSlot) ([]Item, error)
}
