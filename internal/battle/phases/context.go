package phases

import (
	"time"

	"github.com/rs/zerolog"
)

// BattleContext provides battle-specific information to states for
// making decisions. It carries the turn counter so the machine itself
// can guarantee the increment-once-per-player-phase invariant.
type BattleContext struct {
	// BattleID uniquely identifies this battle instance
	BattleID string

	// Logger for state-specific logging
	Logger zerolog.Logger

	// TurnNumber is incremented by one on every player phase entry,
	// starting at 1 on the first player phase of a battle. It never
	// decreases.
	TurnNumber int

	// StartTime is when the battle left Setup
	StartTime time.Time

	// Victory records the battle outcome once a terminal phase is reached
	Victory bool

	// PlayerUnits and EnemyUnits track roster sizes for validation and logging
	PlayerUnits int
	EnemyUnits  int
}

// NewBattleContext creates a new battle context
func NewBattleContext(battleID string, logger zerolog.Logger) *BattleContext {
	return &BattleContext{
		BattleID: battleID,
		Logger:   logger.With().Str("battle_id", battleID).Logger(),
	}
}

// Elapsed returns the time since the battle left Setup
func (bc *BattleContext) Elapsed() time.Duration {
	if bc.StartTime.IsZero() {
		return 0
	}
	return time.Since(bc.StartTime)
}
