package unit

import (
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/outpost-games/skirmish/internal/battle/core"
)

// Definition holds the stat block a soldier is spawned from. Definitions
// are data assets owned by the scenario layer; the unit only reads them.
type Definition struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	MaxHP       int    `yaml:"max_hp"`
	Damage      int    `yaml:"damage"`
	MoveRange   int    `yaml:"move_range"`
	AttackRange int    `yaml:"attack_range"`
}

// Timing controls how fast soldier actions play out. Both values are
// cosmetic pacing; the engine's semantics do not depend on them.
type Timing struct {
	// SecondsPerCell is how long traversing one path cell takes.
	SecondsPerCell float64

	// AttackDuration is how long an attack takes to resolve. Damage is
	// applied when it completes.
	AttackDuration time.Duration
}

// Soldier is the concrete combat unit. Movement and attacks are
// asynchronous: an entry point records the action and the action
// progresses inside Advance, invoking its completion callback exactly
// once. A dead soldier refuses new actions but still completes their
// callbacks so callers never wait forever.
type Soldier struct {
	id     string
	team   core.Team
	def    Definition
	timing Timing

	cell     core.Cell
	cellSize float64
	worldX   float64
	worldY   float64

	hp    int
	acted bool

	// in-flight movement
	movePath    []core.Cell
	moveElapsed time.Duration
	moveFromX   float64
	moveFromY   float64
	arrive      func()

	// in-flight attack
	attackTarget  core.Unit
	attackElapsed time.Duration
	attackDone    func()

	onDeath func(*Soldier)
	logger  zerolog.Logger
}

// NewSoldier creates a soldier from a definition, standing on the given
// cell. cellSize anchors world-position interpolation.
func NewSoldier(team core.Team, def Definition, cell core.Cell, cellSize float64, timing Timing) *Soldier {
	s := &Soldier{
		id:       uuid.NewString(),
		team:     team,
		def:      def,
		timing:   timing,
		cell:     cell,
		cellSize: cellSize,
		hp:       def.MaxHP,
	}
	s.worldX, s.worldY = s.cellCenter(cell)
	s.logger = log.With().
		Str("unit_id", s.id).
		Str("definition", def.ID).
		Stringer("team", team).
		Logger()
	return s
}

func (s *Soldier) cellCenter(c core.Cell) (float64, float64) {
	return (float64(c.X) + 0.5) * s.cellSize, (float64(c.Y) + 0.5) * s.cellSize
}

// ID returns the soldier's unique identifier.
func (s *Soldier) ID() string { return s.id }

// Team returns the side the soldier fights for.
func (s *Soldier) Team() core.Team { return s.team }

// Cell returns the soldier's current grid cell.
func (s *Soldier) Cell() core.Cell { return s.cell }

// SetCell updates the soldier's grid cell. Grid occupancy is the
// caller's responsibility.
func (s *Soldier) SetCell(c core.Cell) { s.cell = c }

// MoveRange returns the movement budget in steps per turn.
func (s *Soldier) MoveRange() int { return s.def.MoveRange }

// AttackRange returns the maximum attack distance in cells.
func (s *Soldier) AttackRange() int { return s.def.AttackRange }

// HP returns the soldier's current hit points.
func (s *Soldier) HP() int { return s.hp }

// Damage returns the damage one attack deals.
func (s *Soldier) Damage() int { return s.def.Damage }

// Definition returns the stat block the soldier was spawned from.
func (s *Soldier) Definition() Definition { return s.def }

// Alive reports whether the soldier is still in the battle.
func (s *Soldier) Alive() bool { return s.hp > 0 }

// HasActed reports whether the soldier finished its action this turn.
func (s *Soldier) HasActed() bool { return s.acted }

// MarkActed flags the soldier as done for the current turn.
func (s *Soldier) MarkActed() { s.acted = true }

// ResetForTurn clears the per-turn action flag.
func (s *Soldier) ResetForTurn() { s.acted = false }

// WorldPosition returns the soldier's interpolated world position,
// used by rendering collaborators.
func (s *Soldier) WorldPosition() (float64, float64) {
	return s.worldX, s.worldY
}

// OnDeath registers a hook invoked once when the soldier dies.
func (s *Soldier) OnDeath(fn func(*Soldier)) {
	s.onDeath = fn
}

// StartMove begins movement along the path. The path includes the
// current cell as its first element; a path shorter than two cells
// completes immediately. The arrive callback fires exactly once.
func (s *Soldier) StartMove(path []core.Cell, arrive func()) {
	if !s.Alive() || len(path) < 2 {
		if !s.Alive() {
			s.logger.Debug().Msg("Dead unit refused movement")
		}
		if arrive != nil {
			arrive()
		}
		return
	}

	s.movePath = path[1:]
	s.moveElapsed = 0
	s.moveFromX, s.moveFromY = s.worldX, s.worldY
	s.arrive = arrive
}

// StartAttack begins an attack against the target. Damage lands when the
// attack duration elapses. The done callback fires exactly once.
func (s *Soldier) StartAttack(target core.Unit, done func()) {
	if !s.Alive() || target == nil {
		if !s.Alive() {
			s.logger.Debug().Msg("Dead unit refused attack")
		}
		if done != nil {
			done()
		}
		return
	}

	s.attackTarget = target
	s.attackElapsed = 0
	s.attackDone = done
}

// TakeDamage applies damage. Hitting zero kills the soldier and fires
// the death hook; a dead soldier ignores further damage.
func (s *Soldier) TakeDamage(amount int) {
	if !s.Alive() || amount <= 0 {
		return
	}
	s.hp -= amount
	if s.hp > 0 {
		s.logger.Debug().Int("damage", amount).Int("hp", s.hp).Msg("Unit damaged")
		return
	}
	s.hp = 0
	s.logger.Info().Int("damage", amount).Msg("Unit died")
	if s.onDeath != nil {
		fn := s.onDeath
		s.onDeath = nil
		fn(s)
	}
}

// Advance drives in-flight movement and attack forward by dt and fires
// completion callbacks from inside the call.
func (s *Soldier) Advance(dt time.Duration) {
	s.advanceMove(dt)
	s.advanceAttack(dt)
}

func (s *Soldier) advanceMove(dt time.Duration) {
	if len(s.movePath) == 0 {
		return
	}

	perCell := time.Duration(s.timing.SecondsPerCell * float64(time.Second))
	if perCell <= 0 {
		perCell = time.Nanosecond
	}

	s.moveElapsed += dt
	for len(s.movePath) > 0 && s.moveElapsed >= perCell {
		s.moveElapsed -= perCell
		next := s.movePath[0]
		s.movePath = s.movePath[1:]
		s.moveFromX, s.moveFromY = s.cellCenter(next)
	}
	s.worldX, s.worldY = s.moveFromX, s.moveFromY

	if len(s.movePath) > 0 {
		// Interpolate from the last reached center toward the next one.
		tx, ty := s.cellCenter(s.movePath[0])
		frac := float64(s.moveElapsed) / float64(perCell)
		s.worldX = s.moveFromX + (tx-s.moveFromX)*frac
		s.worldY = s.moveFromY + (ty-s.moveFromY)*frac
		return
	}

	s.moveElapsed = 0
	if s.arrive != nil {
		fn := s.arrive
		s.arrive = nil
		fn()
	}
}

func (s *Soldier) advanceAttack(dt time.Duration) {
	if s.attackTarget == nil {
		return
	}

	s.attackElapsed += dt
	if s.attackElapsed < s.timing.AttackDuration {
		return
	}

	target := s.attackTarget
	s.attackTarget = nil
	s.attackElapsed = 0

	target.TakeDamage(s.def.Damage)

	if s.attackDone != nil {
		fn := s.attackDone
		s.attackDone = nil
		fn()
	}
}
