package phases

import (
	"fmt"
	"time"
)

// SetupState is the initial state before a battle configuration is applied
type SetupState struct{}

func NewSetupState() State {
	return &SetupState{}
}

func (s *SetupState) Phase() BattlePhase {
	return PhaseSetup
}

func (s *SetupState) Enter(ctx *BattleContext) error {
	ctx.Logger.Debug().Msg("Entering Setup state")
	return nil
}

func (s *SetupState) Exit(ctx *BattleContext) error {
	ctx.StartTime = time.Now()
	ctx.Logger.Info().
		Int("player_units", ctx.PlayerUnits).
		Int("enemy_units", ctx.EnemyUnits).
		Msg("Battle setup complete")
	return nil
}

func (s *SetupState) Validate(ctx *BattleContext) error {
	return nil
}

// PlayerPhaseState is the phase where external input drives player units
type PlayerPhaseState struct{}

func NewPlayerPhaseState() State {
	return &PlayerPhaseState{}
}

func (s *PlayerPhaseState) Phase() BattlePhase {
	return PhasePlayer
}

func (s *PlayerPhaseState) Enter(ctx *BattleContext) error {
	ctx.TurnNumber++
	ctx.Logger.Info().
		Int("turn", ctx.TurnNumber).
		Msg("Player phase started")
	return nil
}

func (s *PlayerPhaseState) Exit(ctx *BattleContext) error {
	ctx.Logger.Debug().
		Int("turn", ctx.TurnNumber).
		Msg("Player phase ended")
	return nil
}

func (s *PlayerPhaseState) Validate(ctx *BattleContext) error {
	return nil
}

// EnemyPhaseState is the phase where the AI drives enemy units
type EnemyPhaseState struct{}

func NewEnemyPhaseState() State {
	return &EnemyPhaseState{}
}

func (s *EnemyPhaseState) Phase() BattlePhase {
	return PhaseEnemy
}

func (s *EnemyPhaseState) Enter(ctx *BattleContext) error {
	ctx.Logger.Info().
		Int("turn", ctx.TurnNumber).
		Int("enemy_units", ctx.EnemyUnits).
		Msg("Enemy phase started")
	return nil
}

func (s *EnemyPhaseState) Exit(ctx *BattleContext) error {
	ctx.Logger.Debug().
		Int("turn", ctx.TurnNumber).
		Msg("Enemy phase ended")
	return nil
}

func (s *EnemyPhaseState) Validate(ctx *BattleContext) error {
	return nil
}

// VictoryState is the terminal state reached when the enemy roster empties
type VictoryState struct{}

func NewVictoryState() State {
	return &VictoryState{}
}

func (s *VictoryState) Phase() BattlePhase {
	return PhaseVictory
}

func (s *VictoryState) Enter(ctx *BattleContext) error {
	ctx.Victory = true
	ctx.Logger.Info().
		Int("final_turn", ctx.TurnNumber).
		Dur("duration", ctx.Elapsed()).
		Msg("Battle won")
	return nil
}

func (s *VictoryState) Exit(ctx *BattleContext) error {
	return fmt.Errorf("cannot leave terminal phase %s", PhaseVictory)
}

func (s *VictoryState) Validate(ctx *BattleContext) error {
	return nil
}

// DefeatState is the terminal state reached when the player roster empties
type DefeatState struct{}

func NewDefeatState() State {
	return &DefeatState{}
}

func (s *DefeatState) Phase() BattlePhase {
	return PhaseDefeat
}

func (s *DefeatState) Enter(ctx *BattleContext) error {
	ctx.Victory = false
	ctx.Logger.Info().
		Int("final_turn", ctx.TurnNumber).
		Dur("duration", ctx.Elapsed()).
		Msg("Battle lost")
	return nil
}

func (s *DefeatState) Exit(ctx *BattleContext) error {
	return fmt.Errorf("cannot leave terminal phase %s", PhaseDefeat)
}

func (s *DefeatState) Validate(ctx *BattleContext) error {
	return nil
}
