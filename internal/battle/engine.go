package battle

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/outpost-games/skirmish/internal/battle/ai"
	"github.com/outpost-games/skirmish/internal/battle/core"
	"github.com/outpost-games/skirmish/internal/battle/events"
	"github.com/outpost-games/skirmish/internal/battle/phases"
	"github.com/outpost-games/skirmish/internal/battle/scenario"
	"github.com/outpost-games/skirmish/internal/battle/unit"
	"github.com/outpost-games/skirmish/internal/config"
)

// InputRouter is the surface the engine uses to gate player input while
// the enemy turn plays out. Rendering and input handling live outside
// this package; a nil router is valid and every call becomes a no-op.
type InputRouter interface {
	SetEnabled(enabled bool)
	ClearSelection()
}

// Config holds the engine's pacing knobs.
type Config struct {
	// UnitDelay paces consecutive enemy unit turns.
	UnitDelay time.Duration

	// PreAttackDelay paces an enemy unit's move-then-attack sequence.
	PreAttackDelay time.Duration

	// DeathCheckDelay is how long after a unit dies the battle end
	// check runs. The delay lets death presentation finish before the
	// phase flips.
	DeathCheckDelay time.Duration

	// Timing controls how fast unit actions animate.
	Timing unit.Timing
}

// ConfigFromApp derives engine pacing from the application config.
func ConfigFromApp(c *config.Config) Config {
	return Config{
		UnitDelay:       c.Pacing.UnitDelay(),
		PreAttackDelay:  c.Pacing.PreAttackDelay(),
		DeathCheckDelay: c.Pacing.DeathCheckDelay(),
		Timing: unit.Timing{
			SecondsPerCell: c.Movement.SecondsPerCell,
			AttackDuration: c.Combat.AttackDuration(),
		},
	}
}

// Engine owns one battle: the grid, both rosters, the phase machine and
// the enemy controller. Everything runs on the caller's update loop; the
// engine never spawns goroutines. Drive it with Update once per frame.
type Engine struct {
	cfg    Config
	logger zerolog.Logger

	battleID string
	bus      *events.EventBus
	grid     *core.Grid
	machine  *phases.Machine

	playerUnits []*unit.Soldier
	enemyUnits  []*unit.Soldier

	controller *ai.Controller
	input      InputRouter

	// pendingChecks are countdown timers armed by unit deaths. Each
	// fires one battle end check when it reaches zero.
	pendingChecks []time.Duration

	endedEventSent bool
}

// NewEngine creates an engine with a fresh battle ID. Call StartBattle
// to load a scenario and begin play.
func NewEngine(cfg Config, bus *events.EventBus, logger zerolog.Logger) *Engine {
	battleID := uuid.New().String()
	ctx := phases.NewBattleContext(battleID, logger)

	return &Engine{
		cfg:      cfg,
		logger:   logger.With().Str("battle_id", battleID).Logger(),
		battleID: battleID,
		bus:      bus,
		grid:     core.NewGrid(),
		machine:  phases.NewMachine(ctx, bus),
		controller: ai.NewController(ai.Config{
			UnitDelay:      cfg.UnitDelay,
			PreAttackDelay: cfg.PreAttackDelay,
		}, bus, logger),
	}
}

// SetInputRouter wires the player input surface. May be nil.
func (e *Engine) SetInputRouter(r InputRouter) {
	e.input = r
}

// BattleID returns the unique identifier of this battle.
func (e *Engine) BattleID() string { return e.battleID }

// Grid returns the battle grid.
func (e *Engine) Grid() *core.Grid { return e.grid }

// Bus returns the battle's event bus.
func (e *Engine) Bus() *events.EventBus { return e.bus }

// Phase returns the current battle phase.
func (e *Engine) Phase() phases.BattlePhase { return e.machine.CurrentPhase() }

// TurnNumber returns the current turn, starting at 1.
func (e *Engine) TurnNumber() int { return e.machine.GetContext().TurnNumber }

// Ended reports whether the battle has reached a terminal phase.
func (e *Engine) Ended() bool { return e.machine.CurrentPhase().IsTerminal() }

// Victory reports the outcome. Only meaningful once Ended is true.
func (e *Engine) Victory() bool { return e.machine.GetContext().Victory }

// PlayerUnits returns the living player roster in spawn order.
func (e *Engine) PlayerUnits() []*unit.Soldier { return e.playerUnits }

// EnemyUnits returns the living enemy roster in spawn order.
func (e *Engine) EnemyUnits() []*unit.Soldier { return e.enemyUnits }

// StartBattle loads a scenario onto the grid, spawns both rosters and
// opens the first player turn. Placements referencing an unknown unit
// definition are skipped with a warning rather than failing the battle.
func (e *Engine) StartBattle(s *scenario.Scenario, reg *scenario.Registry) error {
	if s == nil {
		e.logger.Warn().Msg("Ignoring battle start with no scenario")
		return fmt.Errorf("no scenario provided")
	}
	if e.machine.CurrentPhase() != phases.PhaseSetup {
		return fmt.Errorf("battle already started, phase is %s", e.machine.CurrentPhase())
	}
	if err := s.Validate(); err != nil {
		return fmt.Errorf("invalid scenario: %w", err)
	}

	e.grid.Initialize(s.Grid.Width, s.Grid.Height, s.Grid.CellSize, s.BlockedAsCells())

	e.playerUnits = e.spawnSide(core.TeamPlayer, s.PlayerUnits, reg)
	e.enemyUnits = e.spawnSide(core.TeamEnemy, s.EnemyUnits, reg)

	ctx := e.machine.GetContext()
	ctx.PlayerUnits = len(e.playerUnits)
	ctx.EnemyUnits = len(e.enemyUnits)

	e.logger.Info().
		Str("scenario", s.Name).
		Int("player_units", len(e.playerUnits)).
		Int("enemy_units", len(e.enemyUnits)).
		Msg("Battle starting")

	e.beginPlayerTurn("battle start")

	// A side that starts empty loses immediately.
	e.checkBattleEnd()
	return nil
}

func (e *Engine) spawnSide(team core.Team, placements []scenario.Placement, reg *scenario.Registry) []*unit.Soldier {
	roster := make([]*unit.Soldier, 0, len(placements))
	for _, p := range placements {
		def, ok := reg.Get(p.Definition)
		if !ok {
			e.logger.Warn().
				Str("definition", p.Definition).
				Str("team", team.String()).
				Msg("Skipping placement with unknown unit definition")
			continue
		}

		s := unit.NewSoldier(team, def, p.Cell.Cell(), e.grid.CellSize(), e.cfg.Timing)
		s.OnDeath(e.onUnitDeath)
		e.grid.PlaceUnit(s.Cell(), s)
		roster = append(roster, s)

		e.bus.Publish(events.NewUnitSpawnedEvent(e.battleID, s.ID(), team, s.Cell()))
	}
	return roster
}

// EndPlayerTurn hands control to the enemy side. Calling it outside the
// player phase is a silent no-op so double-clicks and stale UI callbacks
// cannot corrupt the phase machine.
func (e *Engine) EndPlayerTurn() {
	if e.machine.CurrentPhase() != phases.PhasePlayer {
		return
	}

	e.setInputEnabled(false)
	e.clearSelection()

	// A kill on the last player action may end the battle here.
	if e.checkBattleEnd() {
		return
	}

	if err := e.machine.TransitionTo(phases.PhaseEnemy, "player turn ended"); err != nil {
		e.logger.Error().Err(err).Msg("Failed to enter enemy phase")
		return
	}

	for _, u := range e.enemyUnits {
		u.ResetForTurn()
	}
	e.controller.Start(e.battleID, e.grid, unitsOf(e.enemyUnits), unitsOf(e.playerUnits), e.onEnemyTurnComplete)
}

func (e *Engine) onEnemyTurnComplete() {
	if e.checkBattleEnd() {
		return
	}
	e.beginPlayerTurn("enemy turn complete")
}

func (e *Engine) beginPlayerTurn(reason string) {
	if err := e.machine.TransitionTo(phases.PhasePlayer, reason); err != nil {
		e.logger.Error().Err(err).Msg("Failed to enter player phase")
		return
	}

	for _, u := range e.playerUnits {
		u.ResetForTurn()
	}
	e.setInputEnabled(true)

	e.bus.Publish(events.NewTurnStartedEvent(e.battleID, e.TurnNumber()))
}

func (e *Engine) onUnitDeath(s *unit.Soldier) {
	e.grid.RemoveUnit(s.Cell())
	e.bus.Publish(events.NewUnitDiedEvent(e.battleID, s))

	e.logger.Info().
		Str("unit_id", s.ID()).
		Str("team", s.Team().String()).
		Stringer("cell", s.Cell()).
		Msg("Unit died")

	// Defer the end check so death presentation can play out.
	e.pendingChecks = append(e.pendingChecks, e.cfg.DeathCheckDelay)
}

// checkBattleEnd prunes the dead from both rosters and resolves the
// outcome if a side is empty. Wiping the enemy wins even if the player
// side died in the same exchange. Reports whether the battle is over,
// and is a no-op once a terminal phase is reached.
func (e *Engine) checkBattleEnd() bool {
	if e.machine.CurrentPhase().IsTerminal() {
		return true
	}

	e.playerUnits = pruneDead(e.playerUnits)
	e.enemyUnits = pruneDead(e.enemyUnits)

	ctx := e.machine.GetContext()
	ctx.PlayerUnits = len(e.playerUnits)
	ctx.EnemyUnits = len(e.enemyUnits)

	switch {
	case len(e.enemyUnits) == 0:
		e.endBattle(phases.PhaseVictory, "all enemy units defeated")
		return true
	case len(e.playerUnits) == 0:
		e.endBattle(phases.PhaseDefeat, "all player units lost")
		return true
	}
	return false
}

func (e *Engine) endBattle(outcome phases.BattlePhase, reason string) {
	e.setInputEnabled(false)

	if err := e.machine.TransitionTo(outcome, reason); err != nil {
		e.logger.Error().Err(err).Stringer("outcome", outcome).Msg("Failed to end battle")
		return
	}

	if !e.endedEventSent {
		e.endedEventSent = true
		e.bus.Publish(events.NewBattleEndedEvent(e.battleID, outcome == phases.PhaseVictory, e.TurnNumber()))
	}
}

// Update advances everything time-driven by dt: unit actions, the enemy
// controller and any pending death checks. Call once per frame.
func (e *Engine) Update(dt time.Duration) {
	for _, u := range e.playerUnits {
		u.Advance(dt)
	}
	for _, u := range e.enemyUnits {
		u.Advance(dt)
	}

	e.controller.Tick(dt)

	if len(e.pendingChecks) > 0 {
		remaining := e.pendingChecks[:0]
		for _, t := range e.pendingChecks {
			t -= dt
			if t <= 0 {
				e.checkBattleEnd()
			} else {
				remaining = append(remaining, t)
			}
		}
		e.pendingChecks = remaining
	}
}

func (e *Engine) setInputEnabled(enabled bool) {
	if e.input != nil {
		e.input.SetEnabled(enabled)
	}
}

func (e *Engine) clearSelection() {
	if e.input != nil {
		e.input.ClearSelection()
	}
}

func unitsOf(roster []*unit.Soldier) []core.Unit {
	out := make([]core.Unit, len(roster))
	for i, s := range roster {
		out[i] = s
	}
	return out
}

func pruneDead(roster []*unit.Soldier) []*unit.Soldier {
	out := roster[:0]
	for _, s := range roster {
		if s.Alive() {
			out = append(out, s)
		}
	}
	return out
}
