package events

import (
	"time"

	"github.com/outpost-games/skirmish/internal/battle/core"
)

// Event type constants
const (
	TypePhaseChanged = "battle.phase_changed"
	TypeTurnStarted  = "battle.turn_started"
	TypeUnitSpawned  = "battle.unit_spawned"
	TypeUnitMoved    = "battle.unit_moved"
	TypeUnitAttacked = "battle.unit_attacked"
	TypeUnitDied     = "battle.unit_died"
	TypeBattleEnded  = "battle.ended"
)

// PhaseChangedEvent is published on every phase transition
type PhaseChangedEvent struct {
	BaseEvent
	FromPhase string
	ToPhase   string
	Reason    string
}

// NewPhaseChangedEvent creates a new PhaseChangedEvent
func NewPhaseChangedEvent(battleID, fromPhase, toPhase, reason string) *PhaseChangedEvent {
	return &PhaseChangedEvent{
		BaseEvent: BaseEvent{
			EventType: TypePhaseChanged,
			Time:      time.Now(),
			Battle:    battleID,
		},
		FromPhase: fromPhase,
		ToPhase:   toPhase,
		Reason:    reason,
	}
}

// TurnStartedEvent is published when a new player turn begins
type TurnStartedEvent struct {
	BaseEvent
	TurnNumber int
}

// NewTurnStartedEvent creates a new TurnStartedEvent
func NewTurnStartedEvent(battleID string, turn int) *TurnStartedEvent {
	return &TurnStartedEvent{
		BaseEvent: BaseEvent{
			EventType: TypeTurnStarted,
			Time:      time.Now(),
			Battle:    battleID,
		},
		TurnNumber: turn,
	}
}

// UnitSpawnedEvent is published when a unit is placed onto the grid
type UnitSpawnedEvent struct {
	BaseEvent
	UnitID string
	Team   core.Team
	At     core.Cell
}

// NewUnitSpawnedEvent creates a new UnitSpawnedEvent
func NewUnitSpawnedEvent(battleID, unitID string, team core.Team, at core.Cell) *UnitSpawnedEvent {
	return &UnitSpawnedEvent{
		BaseEvent: BaseEvent{
			EventType: TypeUnitSpawned,
			Time:      time.Now(),
			Battle:    battleID,
		},
		UnitID: unitID,
		Team:   team,
		At:     at,
	}
}

// UnitMovedEvent is published when a unit's movement has been committed
type UnitMovedEvent struct {
	BaseEvent
	UnitID string
	Team   core.Team
	From   core.Cell
	To     core.Cell
	Steps  int
}

// NewUnitMovedEvent creates a new UnitMovedEvent
func NewUnitMovedEvent(battleID, unitID string, team core.Team, from, to core.Cell, steps int) *UnitMovedEvent {
	return &UnitMovedEvent{
		BaseEvent: BaseEvent{
			EventType: TypeUnitMoved,
			Time:      time.Now(),
			Battle:    battleID,
		},
		UnitID: unitID,
		Team:   team,
		From:   from,
		To:     to,
		Steps:  steps,
	}
}

// UnitAttackedEvent is published when an attack resolves
type UnitAttackedEvent struct {
	BaseEvent
	AttackerID string
	TargetID   string
	Damage     int
	TargetDied bool
}

// NewUnitAttackedEvent creates a new UnitAttackedEvent
func NewUnitAttackedEvent(battleID, attackerID, targetID string, damage int, targetDied bool) *UnitAttackedEvent {
	return &UnitAttackedEvent{
		BaseEvent: BaseEvent{
			EventType: TypeUnitAttacked,
			Time:      time.Now(),
			Battle:    battleID,
		},
		AttackerID: attackerID,
		TargetID:   targetID,
		Damage:     damage,
		TargetDied: targetDied,
	}
}

// UnitDiedEvent is published when a unit dies
type UnitDiedEvent struct {
	BaseEvent
	Unit core.Unit
}

// NewUnitDiedEvent creates a new UnitDiedEvent
func NewUnitDiedEvent(battleID string, unit core.Unit) *UnitDiedEvent {
	return &UnitDiedEvent{
		BaseEvent: BaseEvent{
			EventType: TypeUnitDied,
			Time:      time.Now(),
			Battle:    battleID,
		},
		Unit: unit,
	}
}

// BattleEndedEvent is published exactly once when a battle reaches a
// terminal phase
type BattleEndedEvent struct {
	BaseEvent
	Victory   bool
	FinalTurn int
}

// NewBattleEndedEvent creates a new BattleEndedEvent
func NewBattleEndedEvent(battleID string, victory bool, finalTurn int) *BattleEndedEvent {
	return &BattleEndedEvent{
		BaseEvent: BaseEvent{
			EventType: TypeBattleEnded,
			Time:      time.Now(),
			Battle:    battleID,
		},
		Victory:   victory,
		FinalTurn: finalTurn,
	}
}
