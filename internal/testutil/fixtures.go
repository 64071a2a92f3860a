package testutil

import (
	"time"

	"github.com/outpost-games/skirmish/internal/battle/scenario"
	"github.com/outpost-games/skirmish/internal/battle/unit"
)

// Scenario builds a 6x6 scenario with the given placements. The grid is
// open unless callers add blocked cells afterwards.
func Scenario(players, enemies []scenario.Placement) *scenario.Scenario {
	return &scenario.Scenario{
		Name:        "test",
		Grid:        scenario.GridConfig{Width: 6, Height: 6, CellSize: 1.0},
		PlayerUnits: players,
		EnemyUnits:  enemies,
	}
}

// Place builds a placement of the named definition at (x, y).
func Place(def string, x, y int) scenario.Placement {
	return scenario.Placement{Definition: def, Cell: scenario.CellRef{X: x, Y: y}}
}

// FastTiming returns unit action timings short enough that tests ticking
// a few milliseconds at a time finish quickly.
func FastTiming() unit.Timing {
	return unit.Timing{
		SecondsPerCell: 0.01,
		AttackDuration: 5 * time.Millisecond,
	}
}
