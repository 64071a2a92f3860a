package core

import (
	"fmt"
	"time"
)

// Team identifies which of the two opposing sides a unit fights for.
type Team int

const (
	// TeamPlayer is the player-controlled side.
	TeamPlayer Team = iota

	// TeamEnemy is the AI-controlled side.
	TeamEnemy
)

// String returns the string representation of a Team.
func (t Team) String() string {
	switch t {
	case TeamPlayer:
		return "Player"
	case TeamEnemy:
		return "Enemy"
	default:
		return fmt.Sprintf("Unknown(%d)", int(t))
	}
}

// Opposing returns the other side.
func (t Team) Opposing() Team {
	if t == TeamPlayer {
		return TeamEnemy
	}
	return TeamPlayer
}

// Unit is the capability contract the battle core requires from a combat
// unit. The core never constructs units itself; it reads their identity,
// team, position and stats, and drives them through the action entry
// points. Action entry points are fire-and-forget: the unit must invoke
// the supplied callback exactly once when the action completes, during a
// subsequent Advance call.
type Unit interface {
	// ID returns a stable unique identifier for this unit.
	ID() string

	// Team returns the side the unit fights for.
	Team() Team

	// Cell returns the unit's current grid cell. Must stay consistent
	// with the grid's occupancy map.
	Cell() Cell

	// SetCell updates the unit's grid cell. Callers are responsible for
	// keeping the grid occupancy map in sync via Grid.MoveUnit.
	SetCell(Cell)

	// MoveRange returns the unit's movement budget in steps per turn.
	MoveRange() int

	// AttackRange returns the maximum Manhattan distance the unit can
	// attack across. Range 0 means the unit cannot attack at all.
	AttackRange() int

	// Alive reports whether the unit is still in the battle. Dead units
	// never come back.
	Alive() bool

	// HasActed reports whether the unit has finished its action for the
	// current turn.
	HasActed() bool

	// MarkActed flags the unit as done for the current turn.
	MarkActed()

	// ResetForTurn clears the per-turn action flag so the unit may act
	// again.
	ResetForTurn()

	// StartMove begins asynchronous movement along the given path. The
	// path includes the unit's current cell as its first element. The
	// arrive callback fires exactly once when the final cell is reached.
	StartMove(path []Cell, arrive func())

	// StartAttack begins an asynchronous attack against the target. The
	// done callback fires exactly once when the attack resolves.
	StartAttack(target Unit, done func())

	// TakeDamage applies damage to the unit, possibly killing it.
	TakeDamage(amount int)

	// Advance drives any in-flight movement or attack forward by dt.
	// Completion callbacks are invoked from inside Advance.
	Advance(dt time.Duration)
}
