package scenario

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/outpost-games/skirmish/internal/battle/core"
	"github.com/outpost-games/skirmish/internal/common"
)

// GridConfig describes the battle map dimensions.
type GridConfig struct {
	Width    int     `yaml:"width"`
	Height   int     `yaml:"height"`
	CellSize float64 `yaml:"cell_size"`
}

// CellRef is a cell coordinate as it appears in scenario files.
type CellRef struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

// Cell converts the reference to a core cell.
func (c CellRef) Cell() core.Cell {
	return core.Cell{X: c.X, Y: c.Y}
}

// Placement pairs a unit definition reference with a spawn cell.
type Placement struct {
	Definition string  `yaml:"definition"`
	Cell       CellRef `yaml:"cell"`
}

// Scenario is the battle configuration handed to the engine: map shape,
// blocked terrain, and the unit placements for both sides.
type Scenario struct {
	Name         string      `yaml:"name"`
	Grid         GridConfig  `yaml:"grid"`
	BlockedCells []CellRef   `yaml:"blocked_cells"`
	PlayerUnits  []Placement `yaml:"player_units"`
	EnemyUnits   []Placement `yaml:"enemy_units"`
}

// Load reads and validates a scenario file.
func Load(path string) (*Scenario, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario file: %w", err)
	}
	return Parse(b)
}

// Parse unmarshals and validates scenario YAML.
func Parse(b []byte) (*Scenario, error) {
	var s Scenario
	if err := yaml.Unmarshal(b, &s); err != nil {
		return nil, fmt.Errorf("parsing scenario: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// BlockedAsCells returns the blocked cell list as core cells.
func (s *Scenario) BlockedAsCells() []core.Cell {
	cells := make([]core.Cell, 0, len(s.BlockedCells))
	for _, c := range s.BlockedCells {
		cells = append(cells, c.Cell())
	}
	return cells
}

// Validate checks structural validity: positive dimensions, in-bounds
// cells, and no two placements sharing a spawn cell. A side with no
// units is valid; such a battle resolves at the first end-check.
func (s *Scenario) Validate() error {
	if s == nil {
		return fmt.Errorf("scenario is nil")
	}
	if s.Grid.Width <= 0 || s.Grid.Height <= 0 {
		return fmt.Errorf("grid dimensions must be positive, got %dx%d", s.Grid.Width, s.Grid.Height)
	}
	if s.Grid.CellSize <= 0 {
		return fmt.Errorf("grid cell_size must be positive, got %v", s.Grid.CellSize)
	}

	blocked := make(map[core.Cell]bool, len(s.BlockedCells))
	for _, c := range s.BlockedCells {
		if !common.IsValidCoordinate(c.X, c.Y, s.Grid.Width, s.Grid.Height) {
			return fmt.Errorf("blocked cell %s out of bounds", c.Cell())
		}
		blocked[c.Cell()] = true
	}

	seen := make(map[core.Cell]string)
	check := func(side string, placements []Placement) error {
		for _, p := range placements {
			if p.Definition == "" {
				return fmt.Errorf("%s placement at %s has no definition", side, p.Cell.Cell())
			}
			cell := p.Cell.Cell()
			if !common.IsValidCell(cell, s.Grid.Width, s.Grid.Height) {
				return fmt.Errorf("%s placement %q at %s out of bounds", side, p.Definition, cell)
			}
			if blocked[cell] {
				return fmt.Errorf("%s placement %q spawns on blocked cell %s", side, p.Definition, cell)
			}
			if prior, dup := seen[cell]; dup {
				return fmt.Errorf("placement %q shares cell %s with %q", p.Definition, cell, prior)
			}
			seen[cell] = p.Definition
		}
		return nil
	}

	if err := check("player", s.PlayerUnits); err != nil {
		return err
	}
	return check("enemy", s.EnemyUnits)
}
