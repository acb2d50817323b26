// Package sheet renders generated characters as printable text.
package sheet

import (
	"fmt"
	"sort"
	"strings"

	"github.com/H3WH4L3/TTRPG-Helper/internal/game/character"
	"github.com/H3WH4L3/TTRPG-Helper/internal/game/ruleset"
)

var narrativeLabels = []struct {
	category ruleset.NarrativeCategory
	label    string
}{
	{ruleset.CategoryTerribleTrait, "Terrible trait"},
	{ruleset.CategoryBadHabit, "Bad habit"},
	{ruleset.CategoryInjury, "Injury"},
	{ruleset.CategoryDangerousPast, "Dangerous past"},
	{ruleset.CategorySecretQuest, "Secret quest"},
}

// RenderText formats c as a multi-line character sheet. When color is true
// headings and values are styled with ANSI escapes.
//
// Postcondition: Returns a non-empty string ending in a newline.
func RenderText(c character.Character, color bool) string {
	s := c.Sheet()
	p := painter{enabled: color}
	var b strings.Builder

	name := s.Name
	if name == "" {
		name = "Nameless"
	}
	b.WriteString(p.Colorize(Bold+BrightWhite, name))
	b.WriteString(p.Colorf(Dim, "  (%s)", s.Class.Name))
	b.WriteString("\n")
	if s.Class.Description != "" {
		b.WriteString(p.Colorize(Dim, s.Class.Description))
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "Age %d  %s\n", s.Age, s.Sex)
	fmt.Fprintf(&b, "%s %d   %s %d   %s %d\n",
		p.Colorize(BrightRed, "HP"), s.HP,
		p.Colorize(Cyan, "Signs"), s.Signs,
		p.Colorize(Yellow, "Silver"), s.Money)
	fmt.Fprintf(&b, "Agility %d  Presence %d  Strength %d  Toughness %d\n",
		s.Abilities.Agility, s.Abilities.Presence, s.Abilities.Strength, s.Abilities.Toughness)

	b.WriteString("\n")
	if s.Bonus.Category != "" {
		b.WriteString(p.Colorize(BrightYellow, s.Bonus.Category))
		b.WriteString(" ")
	}
	b.WriteString(s.Bonus.String())
	b.WriteString("\n")

	if len(s.Skills) > 0 {
		b.WriteString(p.Colorize(Cyan, "Skills:"))
		b.WriteString("\n")
		names := make([]string, 0, len(s.Skills))
		for n := range s.Skills {
			names = append(names, n)
		}
		sort.Strings(names)
		for _, n := range names {
			fmt.Fprintf(&b, "  %s: %s\n", p.Colorize(BrightWhite, n), s.Skills[n])
		}
	}
	b.WriteString(s.Memory.String())
	b.WriteString("\n\n")

	armor := s.Armor.Name
	if s.Armor.Level > 0 {
		armor += fmt.Sprintf(" (tier %d)", s.Armor.Level)
	}
	if s.Armor.Effect != nil {
		armor += ": " + *s.Armor.Effect
	}
	fmt.Fprintf(&b, "%s %s\n", p.Colorize(Cyan, "Armor: "), armor)

	weapon := s.Weapon.Name + " " + s.Weapon.Damage
	if s.Weapon.Ammo != nil {
		weapon += fmt.Sprintf(", ammo %d", *s.Weapon.Ammo)
	}
	if s.Weapon.Effect != nil {
		weapon += ": " + *s.Weapon.Effect
	}
	fmt.Fprintf(&b, "%s %s\n", p.Colorize(Cyan, "Weapon:"), weapon)

	b.WriteString(p.Colorize(Cyan, "Items:"))
	b.WriteString("\n")
	for _, it := range s.Items {
		line := "  " + it.Name
		if it.Counts != nil {
			line += " [" + *it.Counts + "]"
		}
		if it.Cost != nil {
			line += fmt.Sprintf(" (%ds)", *it.Cost)
		}
		if it.Effect != nil {
			line += ": " + *it.Effect
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	wroteHeader := false
	for _, nl := range narrativeLabels {
		text, ok := s.Narratives[nl.category]
		if !ok {
			continue
		}
		if !wroteHeader {
			b.WriteString("\n")
			wroteHeader = true
		}
		fmt.Fprintf(&b, "%s %s\n", p.Colorize(Red, nl.label+":"), text)
	}
	return b.String()
}
