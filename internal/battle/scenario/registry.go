package scenario

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/outpost-games/skirmish/internal/battle/unit"
)

// Registry resolves unit definition references from scenario files to
// stat blocks. It ships with built-in definitions and can be extended
// from YAML data files.
type Registry struct {
	defs map[string]unit.Definition
}

// builtinDefinitions are the definitions available without any data file.
var builtinDefinitions = []unit.Definition{
	{ID: "militia", Name: "Militia", MaxHP: 12, Damage: 4, MoveRange: 3, AttackRange: 1},
	{ID: "archer", Name: "Archer", MaxHP: 8, Damage: 3, MoveRange: 3, AttackRange: 3},
	{ID: "knight", Name: "Knight", MaxHP: 18, Damage: 6, MoveRange: 2, AttackRange: 1},
	{ID: "raider", Name: "Raider", MaxHP: 10, Damage: 4, MoveRange: 4, AttackRange: 1},
	{ID: "brute", Name: "Brute", MaxHP: 20, Damage: 7, MoveRange: 2, AttackRange: 1},
}

// NewRegistry creates a registry preloaded with the built-in definitions.
func NewRegistry() *Registry {
	r := &Registry{defs: make(map[string]unit.Definition)}
	for _, d := range builtinDefinitions {
		r.defs[d.ID] = d
	}
	return r
}

// definitionsFile is the YAML shape of a unit definitions data file.
type definitionsFile struct {
	Units []unit.Definition `yaml:"units"`
}

// LoadFile merges definitions from a YAML data file into the registry.
// Entries with an existing ID override the built-ins.
func (r *Registry) LoadFile(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading unit definitions: %w", err)
	}

	var file definitionsFile
	if err := yaml.Unmarshal(b, &file); err != nil {
		return fmt.Errorf("parsing unit definitions: %w", err)
	}

	for _, d := range file.Units {
		if err := validateDefinition(d); err != nil {
			return fmt.Errorf("definition %q: %w", d.ID, err)
		}
		if _, exists := r.defs[d.ID]; exists {
			log.Debug().Str("definition", d.ID).Msg("Overriding built-in unit definition")
		}
		r.defs[d.ID] = d
	}
	return nil
}

// Register adds or replaces a single definition.
func (r *Registry) Register(d unit.Definition) error {
	if err := validateDefinition(d); err != nil {
		return err
	}
	r.defs[d.ID] = d
	return nil
}

// Get resolves a definition by ID.
func (r *Registry) Get(id string) (unit.Definition, bool) {
	d, ok := r.defs[id]
	return d, ok
}

// Len returns the number of registered definitions.
func (r *Registry) Len() int {
	return len(r.defs)
}

func validateDefinition(d unit.Definition) error {
	if d.ID == "" {
		return fmt.Errorf("missing id")
	}
	if d.MaxHP <= 0 {
		return fmt.Errorf("max_hp must be positive, got %d", d.MaxHP)
	}
	if d.Damage < 0 {
		return fmt.Errorf("damage must be non-negative, got %d", d.Damage)
	}
	if d.MoveRange < 0 || d.AttackRange < 0 {
		return fmt.Errorf("ranges must be non-negative, got move %d attack %d", d.MoveRange, d.AttackRange)
	}
	return nil
}
