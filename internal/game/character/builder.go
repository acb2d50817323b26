package character

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/H3WH4L3/TTRPG-Helper/internal/game/dice"
	"github.com/H3WH4L3/TTRPG-Helper/internal/game/ruleset"
	"github.com/H3WH4L3/TTRPG-Helper/internal/game/selection"
)

// Age bounds, inclusive.
const (
	MinAge = 18
	MaxAge = 60
)

// Pipeline stage names reported by GenerationError.
const (
	StageClass      = "class"
	StageStats      = "stats"
	StageBonus      = "bonus"
	StageSkills     = "skills"
	StageNarratives = "narratives"
	StageMemory     = "memory"
	StageArmor      = "armor"
	StageWeapon     = "weapon"
	StageItems      = "items"
)

// GenerationError reports the pipeline stage and entity at which generation
// aborted. errors.Is reaches the underlying dice or ruleset sentinel.
type GenerationError struct {
	Stage  string
	Entity string
	Err    error
}

func (e *GenerationError) Error() string {
	if e.Entity == "" {
		return fmt.Sprintf("character generation failed at %s: %v", e.Stage, e.Err)
	}
	return fmt.Sprintf("character generation failed at %s (%s): %v", e.Stage, e.Entity, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// Settings holds the labels and limits the generator applies.
type Settings struct {
	Sexes         []string
	NoArmorLabel  string
	UnarmedLabel  string
	UnarmedDamage string
	Concurrency   int
}

// DefaultSettings returns the stock English labels and a batch limit of 4.
func DefaultSettings() Settings {
	return Settings{
		Sexes:         []string{"Male", "Female"},
		NoArmorLabel:  "No armor",
		UnarmedLabel:  "Unarmed",
		UnarmedDamage: "d1",
		Concurrency:   4,
	}
}

func (s Settings) withDefaults() Settings {
	d := DefaultSettings()
	if len(s.Sexes) == 0 {
		s.Sexes = d.Sexes
	}
	if s.NoArmorLabel == "" {
		s.NoArmorLabel = d.NoArmorLabel
	}
	if s.UnarmedLabel == "" {
		s.UnarmedLabel = d.UnarmedLabel
	}
	if s.UnarmedDamage == "" {
		s.UnarmedDamage = d.UnarmedDamage
	}
	if s.Concurrency < 1 {
		s.Concurrency = d.Concurrency
	}
	return s
}

// Generator assembles characters from a catalogue. It keeps no state between
// calls and is safe for concurrent use when its Catalog and dice Source are.
type Generator struct {
	engine   *selection.Engine
	roller   *dice.Roller
	settings Settings
	logger   *zap.Logger
}

// NewGenerator creates a Generator. Blank settings fields take their defaults.
//
// Precondition: catalog, roller and logger must be non-nil.
func NewGenerator(catalog ruleset.Catalog, roller *dice.Roller, settings Settings, logger *zap.Logger) *Generator {
	return &Generator{
		engine:   selection.NewEngine(catalog, roller),
		roller:   roller,
		settings: settings.withDefaults(),
		logger:   logger,
	}
}

// Generate runs the pipeline once and returns a complete character.
//
// Postcondition: Returns a fully populated Character, or a *GenerationError
// and the zero Character. Partial characters are never returned.
func (g *Generator) Generate(ctx context.Context) (Character, error) {
	if err := ctx.Err(); err != nil {
		return Character{}, err
	}
	start := time.Now()
	logger := g.logger.With(zap.String("generation_id", uuid.NewString()))

	sheet, err := g.assemble(ctx)
	if err != nil {
		var ge *GenerationError
		if errors.As(err, &ge) {
			logger.Warn("character generation failed",
				zap.String("stage", ge.Stage),
				zap.String("entity", ge.Entity),
				zap.Error(ge.Err),
			)
		}
		return Character{}, err
	}

	logger.Info("character generated",
		zap.String("class", sheet.Class.Slug),
		zap.String("name", sheet.Name),
		zap.Duration("elapsed", time.Since(start)),
	)
	return newCharacter(sheet), nil
}

// GenerateMany produces n independent characters, running at most
// Settings.Concurrency generations at once. The first failure cancels the
// rest and no characters are returned.
//
// With a seeded source the batch is reproducible only when Concurrency is 1,
// since concurrent generations interleave their draws.
func (g *Generator) GenerateMany(ctx context.Context, n int) ([]Character, error) {
	if n < 0 {
		return nil, fmt.Errorf("character count must not be negative, got %d", n)
	}
	out := make([]Character, n)
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(g.settings.Concurrency)
	for i := range out {
		eg.Go(func() error {
			c, err := g.Generate(egCtx)
			if err != nil {
				return fmt.Errorf("character %d of %d: %w", i+1, n, err)
			}
			out[i] = c
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func fail(stage, entity string, err error) error {
	return &GenerationError{Stage: stage, Entity: entity, Err: err}
}

func (g *Generator) assemble(ctx context.Context) (Sheet, error) {
	src := g.roller.Source()
	var s Sheet

	s.Age = dice.Between(src, MinAge, MaxAge)
	s.Sex = g.settings.Sexes[src.Intn(len(g.settings.Sexes))]

	class, err := g.engine.PickClass(ctx)
	if err != nil {
		return Sheet{}, fail(StageClass, "", err)
	}
	entity := fmt.Sprintf("class %s (id %d)", class.Slug, class.ID)
	s.ID = class.Slug
	s.Class = ClassInfo{Slug: class.Slug, Name: class.Name, Description: class.Description}

	stats := []struct {
		field   string
		formula string
		dst     *int
	}{
		{"hp", class.HPFormula, &s.HP},
		{"money", class.MoneyFormula, &s.Money},
		{"signs", class.SignsFormula, &s.Signs},
		{"agility", class.AgilityFormula, &s.Abilities.Agility},
		{"presence", class.PresenceFormula, &s.Abilities.Presence},
		{"strength", class.StrengthFormula, &s.Abilities.Strength},
		{"toughness", class.ToughnessFormula, &s.Abilities.Toughness},
	}
	for _, st := range stats {
		v, err := g.roller.Evaluate(st.formula)
		if err != nil {
			return Sheet{}, fail(StageStats, entity+" "+st.field+" formula", err)
		}
		*st.dst = v
	}

	bonus, err := g.engine.PickBonus(ctx, class.ID)
	if err != nil {
		return Sheet{}, fail(StageBonus, entity, err)
	}
	s.Bonus = Bonus{Category: class.BonusCategory, Name: bonus.Name, Description: bonus.Description}

	if s.Skills, err = g.engine.Skills(ctx, class.ID); err != nil {
		return Sheet{}, fail(StageSkills, entity, err)
	}

	if s.Narratives, err = g.engine.PickNarratives(ctx); err != nil {
		return Sheet{}, fail(StageNarratives, "", err)
	}
	s.Name = s.Narratives[ruleset.CategoryName]

	memory, err := g.engine.PickMemory(ctx, class.ID)
	if err != nil {
		return Sheet{}, fail(StageMemory, entity, err)
	}
	s.Memory = Memory{Category: class.MemoryCategory, Text: memory.Description}

	armor, err := g.engine.PickArmor(ctx, class.ArmorFormula)
	if err != nil {
		return Sheet{}, fail(StageArmor, entity, err)
	}
	s.Armor = Armor{Name: g.settings.NoArmorLabel}
	if armor != nil {
		s.Armor = Armor{Name: armor.Name, Level: armor.Level, Effect: armor.Effect}
	}

	weapon, err := g.engine.PickWeapon(ctx, class.WeaponFormula)
	if err != nil {
		return Sheet{}, fail(StageWeapon, entity, err)
	}
	s.Weapon = Weapon{Name: g.settings.UnarmedLabel, Damage: g.settings.UnarmedDamage}
	if weapon != nil {
		s.Weapon = Weapon{Name: weapon.Name, Damage: weapon.Damage, Effect: weapon.Effect}
		mod, ok, err := weapon.AmmoModifier()
		if err != nil {
			return Sheet{}, fail(StageWeapon, fmt.Sprintf("weapon %s (id %d)", weapon.Slug, weapon.ID), err)
		}
		if ok {
			ammo := s.Abilities.Presence + mod
			s.Weapon.Ammo = &ammo
		}
	}

	items, err := g.engine.PickItems(ctx)
	if err != nil {
		return Sheet{}, fail(StageItems, "", err)
	}
	s.Items = make([]Item, len(items))
	for i, it := range items {
		s.Items[i] = Item{Slot: it.Slot, Name: it.Name, Effect: it.Effect, Counts: it.Counts, Cost: it.Cost}
	}
	return s, nil
}
