package ai

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/outpost-games/skirmish/internal/battle/core"
	"github.com/outpost-games/skirmish/internal/battle/events"
)

// Config holds the pacing delays of the decision loop. Both are purely
// cosmetic; the loop is correct with zero delays.
type Config struct {
	// UnitDelay is inserted between consecutive unit turns.
	UnitDelay time.Duration

	// PreAttackDelay is inserted between the end of movement and the
	// start of the follow-up attack.
	PreAttackDelay time.Duration
}

// step is the controller's position inside one unit's action sequence.
type step int

const (
	stepSelectUnit step = iota
	stepAfterMove
	stepFinishUnit
)

// Controller runs the enemy side of a battle as a resumable state
// machine advanced by Tick. One unit acts at a time: it moves, waits,
// attacks, then the controller paces and picks the next unit. The whole
// loop signals a single completion callback when every unit has been
// processed or no opposing unit remains alive.
type Controller struct {
	cfg      Config
	bus      *events.EventBus
	logger   zerolog.Logger
	battleID string

	grid      *core.Grid
	roster    []core.Unit // defensive copy, iteration order = spawn order
	opponents []core.Unit // defensive copy, filtered by Alive per unit

	active     bool
	idx        int
	step       step
	delay      time.Duration
	waiting    bool
	onComplete func()
}

// NewController creates an idle enemy controller. Arm it with Start.
func NewController(cfg Config, bus *events.EventBus, logger zerolog.Logger) *Controller {
	return &Controller{
		cfg:    cfg,
		bus:    bus,
		logger: logger.With().Str("component", "enemy_ai").Logger(),
	}
}

// Active reports whether an enemy turn is in progress.
func (c *Controller) Active() bool {
	return c.active
}

// Start arms the controller for one enemy turn. The rosters are copied
// so later pruning by the owner cannot invalidate the iteration. The
// onComplete callback fires exactly once, from inside a Tick call.
func (c *Controller) Start(battleID string, grid *core.Grid, roster, opponents []core.Unit, onComplete func()) {
	if c.active {
		c.logger.Warn().Msg("Ignoring enemy turn start while one is already running")
		return
	}

	c.battleID = battleID
	c.grid = grid
	c.roster = append([]core.Unit(nil), roster...)
	c.opponents = append([]core.Unit(nil), opponents...)
	c.onComplete = onComplete
	c.idx = 0
	c.step = stepSelectUnit
	c.delay = 0
	c.waiting = false
	c.active = true

	c.logger.Info().Int("units", len(c.roster)).Msg("Enemy turn started")
}

// Tick advances the controller by dt. All decisions, grid mutations and
// callback waits happen inside Tick; no work occurs between calls.
func (c *Controller) Tick(dt time.Duration) {
	if !c.active || c.waiting {
		return
	}

	if c.delay > 0 {
		c.delay -= dt
		if c.delay > 0 {
			return
		}
		c.delay = 0
	}

	switch c.step {
	case stepSelectUnit:
		c.selectUnit()
	case stepAfterMove:
		c.afterMove()
	case stepFinishUnit:
		c.finishUnit()
	}
}

// aliveOpponents recomputes the opposing units still alive. This must
// happen per unit, not once per turn: an earlier unit's attack in the
// same turn may have killed opponents.
func (c *Controller) aliveOpponents() []core.Unit {
	alive := make([]core.Unit, 0, len(c.opponents))
	for _, u := range c.opponents {
		if u != nil && u.Alive() {
			alive = append(alive, u)
		}
	}
	return alive
}

// nearestOpponent returns the alive opponent closest to cell by
// Manhattan distance. Ties break to the first encountered in roster
// order, keeping target selection deterministic.
func nearestOpponent(from core.Cell, opponents []core.Unit) (core.Unit, int) {
	var nearest core.Unit
	best := 0
	for _, u := range opponents {
		d := core.ManhattanDistance(from, u.Cell())
		if nearest == nil || d < best {
			nearest = u
			best = d
		}
	}
	return nearest, best
}

func (c *Controller) selectUnit() {
	for c.idx < len(c.roster) {
		u := c.roster[c.idx]
		if u == nil || !u.Alive() || u.HasActed() {
			c.idx++
			continue
		}

		opponents := c.aliveOpponents()
		if len(opponents) == 0 {
			c.logger.Info().Msg("No opposing units left, ending enemy turn early")
			c.finish()
			return
		}

		c.actUnit(u, opponents)
		return
	}

	c.finish()
}

// actUnit runs one unit's decision: attack in place when the nearest
// target is already in range, otherwise step toward it through the best
// reachable cell. The reachability query and the grid mutation that
// consumes it happen in this same call; nothing may yield in between.
func (c *Controller) actUnit(u core.Unit, opponents []core.Unit) {
	target, dist := nearestOpponent(u.Cell(), opponents)

	if dist <= u.AttackRange() {
		c.beginAttack(u, target)
		return
	}

	reachable := c.grid.ReachableCells(u.Cell(), u.MoveRange())
	dest, found := bestApproach(reachable, u.Cell(), target.Cell())
	if !found {
		// Nothing improves the distance; stay put and end the turn.
		c.logger.Debug().
			Str("unit_id", u.ID()).
			Stringer("cell", u.Cell()).
			Msg("No reachable cell improves distance to target")
		c.step = stepFinishUnit
		return
	}

	path := core.ReconstructPath(reachable, u.Cell(), dest)
	if len(path) == 0 {
		c.logger.Error().
			Stringer("from", u.Cell()).
			Stringer("to", dest).
			Msg("Reachable cell failed to reconstruct, skipping move")
		c.step = stepFinishUnit
		return
	}

	from := u.Cell()
	c.grid.MoveUnit(from, dest, u)
	u.SetCell(dest)

	if c.bus != nil {
		c.bus.Publish(events.NewUnitMovedEvent(c.battleID, u.ID(), u.Team(), from, dest, len(path)-1))
	}

	c.waiting = true
	u.StartMove(path, func() {
		c.waiting = false
		c.step = stepAfterMove
		c.delay = c.cfg.PreAttackDelay
	})
}

// bestApproach picks the reachable cell minimizing Manhattan distance to
// target, strictly better than staying put. Cells are scanned in BFS
// discovery order so the choice is deterministic; the unit's own cell is
// skipped.
func bestApproach(reachable *core.ReachableMap, own, target core.Cell) (core.Cell, bool) {
	best := core.ManhattanDistance(own, target)
	var chosen core.Cell
	found := false
	for _, cell := range reachable.Cells() {
		if cell.Equal(own) {
			continue
		}
		if d := core.ManhattanDistance(cell, target); d < best {
			best = d
			chosen = cell
			found = true
		}
	}
	return chosen, found
}

// afterMove re-evaluates the nearest target once movement has settled;
// distances changed, so the pre-move target may no longer be the one in
// range.
func (c *Controller) afterMove() {
	u := c.roster[c.idx]
	opponents := c.aliveOpponents()
	if len(opponents) == 0 {
		c.step = stepFinishUnit
		return
	}

	target, dist := nearestOpponent(u.Cell(), opponents)
	if dist <= u.AttackRange() {
		c.beginAttack(u, target)
		return
	}

	c.step = stepFinishUnit
}

func (c *Controller) beginAttack(attacker, target core.Unit) {
	c.logger.Debug().
		Str("attacker_id", attacker.ID()).
		Str("target_id", target.ID()).
		Stringer("from", attacker.Cell()).
		Stringer("target_cell", target.Cell()).
		Msg("Enemy unit attacking")

	c.waiting = true
	attacker.StartAttack(target, func() {
		c.waiting = false
		c.step = stepFinishUnit

		if c.bus != nil {
			damage := 0
			if d, ok := attacker.(interface{ Damage() int }); ok {
				damage = d.Damage()
			}
			c.bus.Publish(events.NewUnitAttackedEvent(c.battleID, attacker.ID(), target.ID(), damage, !target.Alive()))
		}
	})
}

// finishUnit closes out the current unit's sequence. The unit is marked
// done whether or not it attacked, and the inter-unit pacing delay is
// armed before the next unit is considered.
func (c *Controller) finishUnit() {
	u := c.roster[c.idx]
	u.MarkActed()
	c.idx++
	c.step = stepSelectUnit
	c.delay = c.cfg.UnitDelay
}

func (c *Controller) finish() {
	if !c.active {
		return
	}
	c.active = false
	c.logger.Info().Msg("Enemy turn complete")

	if c.onComplete != nil {
		fn := c.onComplete
		c.onComplete = nil
		fn()
	}
}
