package phases

import (
	"fmt"
	"sync"
	"time"

	"github.com/outpost-games/skirmish/internal/battle/events"
)

// State represents a battle phase with lifecycle callbacks
type State interface {
	// Phase returns the BattlePhase this state represents
	Phase() BattlePhase

	// Enter is called when transitioning into this state
	Enter(ctx *BattleContext) error

	// Exit is called when transitioning out of this state
	Exit(ctx *BattleContext) error

	// Validate checks if the state is valid given the context
	Validate(ctx *BattleContext) error
}

// Transition represents a phase transition in the history
type Transition struct {
	From      BattlePhase
	To        BattlePhase
	Timestamp time.Time
	Reason    string
}

// Machine manages battle phase transitions and history
type Machine struct {
	mu           sync.RWMutex
	currentPhase BattlePhase
	states       map[BattlePhase]State
	context      *BattleContext
	history      []Transition
	eventBus     *events.EventBus
}

// NewMachine creates a new phase machine starting in Setup
func NewMachine(ctx *BattleContext, eventBus *events.EventBus) *Machine {
	m := &Machine{
		currentPhase: PhaseSetup,
		states:       make(map[BattlePhase]State),
		context:      ctx,
		history:      make([]Transition, 0, 16),
		eventBus:     eventBus,
	}

	m.registerDefaultStates()

	return m
}

// registerDefaultStates registers the built-in state implementations
func (m *Machine) registerDefaultStates() {
	m.RegisterState(NewSetupState())
	m.RegisterState(NewPlayerPhaseState())
	m.RegisterState(NewEnemyPhaseState())
	m.RegisterState(NewVictoryState())
	m.RegisterState(NewDefeatState())
}

// RegisterState registers a state implementation
func (m *Machine) RegisterState(state State) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.states[state.Phase()] = state
}

// CurrentPhase returns the current battle phase
func (m *Machine) CurrentPhase() BattlePhase {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.currentPhase
}

// TransitionTo attempts to transition to the specified phase
func (m *Machine) TransitionTo(targetPhase BattlePhase, reason string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Check if transition is allowed
	if !m.currentPhase.CanTransitionTo(targetPhase) {
		return fmt.Errorf("invalid transition from %s to %s", m.currentPhase, targetPhase)
	}

	currentState, hasCurrentState := m.states[m.currentPhase]
	targetState, hasTargetState := m.states[targetPhase]

	if !hasTargetState {
		return fmt.Errorf("no state implementation for phase %s", targetPhase)
	}

	// Validate target state
	if err := targetState.Validate(m.context); err != nil {
		return fmt.Errorf("target state validation failed: %w", err)
	}

	// Exit current state
	if hasCurrentState {
		if err := currentState.Exit(m.context); err != nil {
			m.context.Logger.Error().
				Err(err).
				Str("from_phase", m.currentPhase.String()).
				Str("to_phase", targetPhase.String()).
				Msg("Error exiting state")
			// Continue with transition despite exit error
		}
	}

	// Record transition
	m.history = append(m.history, Transition{
		From:      m.currentPhase,
		To:        targetPhase,
		Timestamp: time.Now(),
		Reason:    reason,
	})

	previousPhase := m.currentPhase
	m.currentPhase = targetPhase

	// Enter new state
	if err := targetState.Enter(m.context); err != nil {
		// Rollback on enter failure
		m.currentPhase = previousPhase
		return fmt.Errorf("failed to enter phase %s: %w", targetPhase, err)
	}

	// Publish phase transition event
	if m.eventBus != nil {
		m.eventBus.Publish(events.NewPhaseChangedEvent(
			m.context.BattleID,
			previousPhase.String(),
			targetPhase.String(),
			reason,
		))
	}

	m.context.Logger.Info().
		Str("from_phase", previousPhase.String()).
		Str("to_phase", targetPhase.String()).
		Str("reason", reason).
		Msg("Phase transition completed")

	return nil
}

// GetHistory returns a copy of the transition history
func (m *Machine) GetHistory() []Transition {
	m.mu.RLock()
	defer m.mu.RUnlock()

	history := make([]Transition, len(m.history))
	copy(history, m.history)
	return history
}

// GetContext returns the battle context
func (m *Machine) GetContext() *BattleContext {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.context
}

// CanTransitionTo checks if a transition to the target phase is allowed
func (m *Machine) CanTransitionTo(targetPhase BattlePhase) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.currentPhase.CanTransitionTo(targetPhase)
}
