// Package character defines the generated character value and the pipeline
// that assembles it from catalogue picks and dice rolls.
package character

import (
	"encoding/json"
	"maps"
	"slices"

	"github.com/H3WH4L3/TTRPG-Helper/internal/game/ruleset"
)

// Abilities holds the four rolled ability scores.
type Abilities struct {
	Agility   int `json:"agility" yaml:"agility"`
	Presence  int `json:"presence" yaml:"presence"`
	Strength  int `json:"strength" yaml:"strength"`
	Toughness int `json:"toughness" yaml:"toughness"`
}

// ClassInfo identifies the class a character was generated from.
type ClassInfo struct {
	Slug        string `json:"slug" yaml:"slug"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
}

// Bonus is the class bonus granted under the class's bonus category label.
type Bonus struct {
	Category    string `json:"category" yaml:"category"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
}

// String renders the bonus as "<name>: <description>".
func (b Bonus) String() string {
	return b.Name + ": " + b.Description
}

// Memory is the class memory, prefixed by the class's memory category label.
type Memory struct {
	Category string `json:"category" yaml:"category"`
	Text     string `json:"text" yaml:"text"`
}

// String renders the memory as "<category> <text>".
func (m Memory) String() string {
	if m.Category == "" {
		return m.Text
	}
	return m.Category + " " + m.Text
}

// Armor is the worn armor or the no-armor sentinel.
type Armor struct {
	Name   string  `json:"name" yaml:"name"`
	Level  int     `json:"level" yaml:"level"`
	Effect *string `json:"effect,omitempty" yaml:"effect,omitempty"`
}

// Weapon is the carried weapon or the unarmed sentinel.
// Ammo is set only when the weapon has an ammo descriptor.
type Weapon struct {
	Name   string  `json:"name" yaml:"name"`
	Damage string  `json:"damage" yaml:"damage"`
	Effect *string `json:"effect,omitempty" yaml:"effect,omitempty"`
	Ammo   *int    `json:"ammo,omitempty" yaml:"ammo,omitempty"`
}

// Item is one piece of starting equipment.
type Item struct {
	Slot   ruleset.ItemSlot `json:"slot" yaml:"slot"`
	Name   string           `json:"name" yaml:"name"`
	Effect *string          `json:"effect,omitempty" yaml:"effect,omitempty"`
	Counts *string          `json:"counts,omitempty" yaml:"counts,omitempty"`
	Cost   *int             `json:"cost,omitempty" yaml:"cost,omitempty"`
}

// Sheet is the plain-data view of a Character. Values returned by
// Character.Sheet are copies; mutating them does not affect the Character.
type Sheet struct {
	ID         string                               `json:"id" yaml:"id"`
	Name       string                               `json:"name" yaml:"name"`
	Age        int                                  `json:"age" yaml:"age"`
	Sex        string                               `json:"sex" yaml:"sex"`
	Class      ClassInfo                            `json:"class" yaml:"class"`
	HP         int                                  `json:"hp" yaml:"hp"`
	Money      int                                  `json:"money" yaml:"money"`
	Signs      int                                  `json:"signs" yaml:"signs"`
	Abilities  Abilities                            `json:"abilities" yaml:"abilities"`
	Skills     map[string]string                    `json:"skills" yaml:"skills"`
	Bonus      Bonus                                `json:"bonus" yaml:"bonus"`
	Narratives map[ruleset.NarrativeCategory]string `json:"narratives" yaml:"narratives"`
	Memory     Memory                               `json:"memory" yaml:"memory"`
	Armor      Armor                                `json:"armor" yaml:"armor"`
	Weapon     Weapon                               `json:"weapon" yaml:"weapon"`
	Items      []Item                               `json:"items" yaml:"items"`
}

// Character is an immutable generated character. The zero value is empty
// and is only returned alongside an error.
type Character struct {
	sheet Sheet
}

func newCharacter(s Sheet) Character {
	return Character{sheet: s.clone()}
}

// Sheet returns a deep copy of the character's fields.
func (c Character) Sheet() Sheet {
	return c.sheet.clone()
}

// ID returns the character id, the slug of its class.
func (c Character) ID() string { return c.sheet.ID }

// Name returns the character's generated name.
func (c Character) Name() string { return c.sheet.Name }

// MarshalJSON encodes the character as its Sheet.
func (c Character) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.sheet)
}

// MarshalYAML encodes the character as its Sheet.
func (c Character) MarshalYAML() (interface{}, error) {
	return c.sheet, nil
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func (s Sheet) clone() Sheet {
	out := s
	out.Skills = maps.Clone(s.Skills)
	out.Narratives = maps.Clone(s.Narratives)
	out.Armor.Effect = clonePtr(s.Armor.Effect)
	out.Weapon.Effect = clonePtr(s.Weapon.Effect)
	out.Weapon.Ammo = clonePtr(s.Weapon.Ammo)
	out.Items = slices.Clone(s.Items)
	for i := range out.Items {
		out.Items[i].Effect = clonePtr(out.Items[i].Effect)
		out.Items[i].Counts = clonePtr(out.Items[i].Counts)
		out.Items[i].Cost = clonePtr(out.Items[i].Cost)
	}
	return out
}
