// Package ruleset defines the read-only reference records the character
// generator samples from, the Catalog contract data sources implement, and
// the validation every record passes at the data-source boundary.
package ruleset

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/H3WH4L3/TTRPG-Helper/internal/game/dice"
)

// Relation names a class-linked pool.
type Relation string

const (
	RelationBonuses  Relation = "bonuses"
	RelationSkills   Relation = "skills"
	RelationMemories Relation = "memories"
)

// Relations lists every class-linked pool.
var Relations = []Relation{RelationBonuses, RelationSkills, RelationMemories}

// ItemSlot is the starting-equipment slot an item is drawn for.
type ItemSlot string

const (
	SlotFirst  ItemSlot = "first"
	SlotSecond ItemSlot = "second"
	SlotThird  ItemSlot = "third"
)

// ItemSlots lists the starting-equipment slots in draw order.
var ItemSlots = []ItemSlot{SlotFirst, SlotSecond, SlotThird}

// NarrativeCategory is a backstory slot filled by exactly one entry.
type NarrativeCategory string

const (
	CategoryBadHabit      NarrativeCategory = "bad_habit"
	CategoryDangerousPast NarrativeCategory = "dangerous_past"
	CategoryTerribleTrait NarrativeCategory = "terrible_trait"
	CategoryInjury        NarrativeCategory = "injury"
	CategorySecretQuest   NarrativeCategory = "secret_quest"
	CategoryName          NarrativeCategory = "name"
)

// NarrativeCategories lists every known narrative category.
var NarrativeCategories = []NarrativeCategory{
	CategoryBadHabit,
	CategoryDangerousPast,
	CategoryTerribleTrait,
	CategoryInjury,
	CategorySecretQuest,
	CategoryName,
}

// Class is the archetype template driving every randomized derivation.
//
// Invariant (after Validate): every formula parses; ArmorFormula and
// WeaponFormula are nil when the class grants no armor or weapon.
type Class struct {
	ID               int64   `yaml:"-"`
	Slug             string  `yaml:"slug" validate:"required,slug"`
	Name             string  `yaml:"name" validate:"required"`
	Description      string  `yaml:"description"`
	HPFormula        string  `yaml:"hp" validate:"required"`
	MoneyFormula     string  `yaml:"money" validate:"required"`
	SignsFormula     string  `yaml:"signs" validate:"required"`
	AgilityFormula   string  `yaml:"agility" validate:"required"`
	PresenceFormula  string  `yaml:"presence" validate:"required"`
	StrengthFormula  string  `yaml:"strength" validate:"required"`
	ToughnessFormula string  `yaml:"toughness" validate:"required"`
	ArmorFormula     *string `yaml:"armor"`
	WeaponFormula    *string `yaml:"weapon"`
	BonusCategory    string  `yaml:"bonus_category"`
	MemoryCategory   string  `yaml:"memory_category"`
}

// Validate checks the record's fields and that every formula parses.
func (c Class) Validate() error {
	if err := validate.Struct(c); err != nil {
		return &RecordError{Kind: "class", ID: c.ID, Err: err}
	}
	formulas := []struct {
		field   string
		formula *string
	}{
		{"hp", &c.HPFormula},
		{"money", &c.MoneyFormula},
		{"signs", &c.SignsFormula},
		{"agility", &c.AgilityFormula},
		{"presence", &c.PresenceFormula},
		{"strength", &c.StrengthFormula},
		{"toughness", &c.ToughnessFormula},
		{"armor", c.ArmorFormula},
		{"weapon", c.WeaponFormula},
	}
	for _, f := range formulas {
		if f.formula == nil {
			continue
		}
		if _, err := dice.Parse(*f.formula); err != nil {
			return &RecordError{Kind: "class", ID: c.ID, Err: fmt.Errorf("%s formula: %w", f.field, err)}
		}
	}
	return nil
}

// Entry is a bonus, skill or memory linked to classes through a join relation.
type Entry struct {
	ID          int64  `yaml:"-"`
	Slug        string `yaml:"slug" validate:"required,slug"`
	Name        string `yaml:"name" validate:"required"`
	Description string `yaml:"description"`
}

// Validate checks the record's fields.
func (e Entry) Validate(rel Relation) error {
	if err := validate.Struct(e); err != nil {
		return &RecordError{Kind: string(rel), ID: e.ID, Err: err}
	}
	return nil
}

// Armor is a row of the armor catalogue.
type Armor struct {
	ID     int64   `yaml:"-"`
	Slug   string  `yaml:"slug" validate:"required,slug"`
	Name   string  `yaml:"name" validate:"required"`
	Level  int     `yaml:"level" validate:"gte=0,lte=10"`
	Effect *string `yaml:"effect"`
}

// Validate checks the record's fields.
func (a Armor) Validate() error {
	if err := validate.Struct(a); err != nil {
		return &RecordError{Kind: "armor", ID: a.ID, Err: err}
	}
	return nil
}

// Weapon is a row of the weapon catalogue.
//
// Ammo, when present, is free text whose third whitespace-separated token is
// an integer modifier, e.g. "Presence + 10 arrows".
type Weapon struct {
	ID     int64   `yaml:"-"`
	Slug   string  `yaml:"slug" validate:"required,slug"`
	Name   string  `yaml:"name" validate:"required"`
	Damage string  `yaml:"damage" validate:"required"`
	Effect *string `yaml:"effect"`
	Ammo   *string `yaml:"ammo"`
}

// Validate checks the record's fields, the damage formula and the ammo descriptor.
func (w Weapon) Validate() error {
	if err := validate.Struct(w); err != nil {
		return &RecordError{Kind: "weapon", ID: w.ID, Err: err}
	}
	if _, err := dice.Parse(w.Damage); err != nil {
		return &RecordError{Kind: "weapon", ID: w.ID, Err: fmt.Errorf("damage formula: %w", err)}
	}
	if _, _, err := w.AmmoModifier(); err != nil {
		return &RecordError{Kind: "weapon", ID: w.ID, Err: err}
	}
	return nil
}

// AmmoModifier extracts the integer third token of the ammo descriptor.
// ok is false when the weapon has no ammo descriptor.
func (w Weapon) AmmoModifier() (mod int, ok bool, err error) {
	if w.Ammo == nil {
		return 0, false, nil
	}
	fields := strings.Fields(*w.Ammo)
	if len(fields) < 3 {
		return 0, false, &dice.FormatError{Formula: *w.Ammo, Reason: "ammo descriptor needs at least three tokens"}
	}
	mod, err = strconv.Atoi(fields[2])
	if err != nil {
		return 0, false, &dice.FormatError{Formula: *w.Ammo, Reason: "ammo modifier is not an integer"}
	}
	return mod, true, nil
}

// Item is a piece of starting equipment.
type Item struct {
	ID     int64    `yaml:"-"`
	Slug   string   `yaml:"slug" validate:"required,slug"`
	Name   string   `yaml:"name" validate:"required"`
	Effect *string  `yaml:"effect"`
	Counts *string  `yaml:"counts"`
	Cost   *int     `yaml:"cost" validate:"omitnil,gte=0"`
	Slot   ItemSlot `yaml:"category" validate:"required,oneof=first second third"`
}

// Validate checks the record's fields.
func (i Item) Validate() error {
	if err := validate.Struct(i); err != nil {
		return &RecordError{Kind: "item", ID: i.ID, Err: err}
	}
	return nil
}

// Narrative is one backstory entry.
type Narrative struct {
	ID       int64             `yaml:"-"`
	Slug     string            `yaml:"slug" validate:"required,slug"`
	Category NarrativeCategory `yaml:"category" validate:"required,oneof=bad_habit dangerous_past terrible_trait injury secret_quest name"`
	Text     string            `yaml:"text" validate:"required"`
}

// Validate checks the record's fields.
func (n Narrative) Validate() error {
	if err := validate.Struct(n); err != nil {
		return &RecordError{Kind: "narrative", ID: n.ID, Err: err}
	}
	return nil
}
