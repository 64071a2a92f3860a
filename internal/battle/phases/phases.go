package phases

import "fmt"

// BattlePhase represents the current phase of a battle
type BattlePhase int

const (
	// PhaseSetup - initial state before a battle configuration is applied
	PhaseSetup BattlePhase = iota

	// PhasePlayer - the player side acts, external input is routed
	PhasePlayer

	// PhaseEnemy - the AI side acts, external input is disabled
	PhaseEnemy

	// PhaseVictory - terminal state, the enemy roster is empty
	PhaseVictory

	// PhaseDefeat - terminal state, the player roster is empty
	PhaseDefeat
)

// String returns the string representation of a BattlePhase
func (p BattlePhase) String() string {
	switch p {
	case PhaseSetup:
		return "Setup"
	case PhasePlayer:
		return "PlayerPhase"
	case PhaseEnemy:
		return "EnemyPhase"
	case PhaseVictory:
		return "Victory"
	case PhaseDefeat:
		return "Defeat"
	default:
		return fmt.Sprintf("Unknown(%d)", p)
	}
}

// IsTerminal returns true if the phase represents a terminal state.
// No transition ever leaves a terminal phase.
func (p BattlePhase) IsTerminal() bool {
	return p == PhaseVictory || p == PhaseDefeat
}

// CanReceiveInput returns true if external input may drive unit actions
// in this phase
func (p BattlePhase) CanReceiveInput() bool {
	return p == PhasePlayer
}

// AllowedTransitions returns the valid phases this phase can transition to
func (p BattlePhase) AllowedTransitions() []BattlePhase {
	switch p {
	case PhaseSetup:
		return []BattlePhase{PhasePlayer}
	case PhasePlayer:
		return []BattlePhase{PhaseEnemy, PhaseVictory, PhaseDefeat}
	case PhaseEnemy:
		return []BattlePhase{PhasePlayer, PhaseVictory, PhaseDefeat}
	case PhaseVictory, PhaseDefeat:
		return []BattlePhase{}
	default:
		return []BattlePhase{}
	}
}

// CanTransitionTo checks if a transition from this phase to the target phase is allowed
func (p BattlePhase) CanTransitionTo(target BattlePhase) bool {
	for _, phase := range p.AllowedTransitions() {
		if phase == target {
			return true
		}
	}
	return false
}
