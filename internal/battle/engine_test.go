package battle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/outpost-games/skirmish/internal/battle/core"
	"github.com/outpost-games/skirmish/internal/battle/events"
	"github.com/outpost-games/skirmish/internal/battle/phases"
	"github.com/outpost-games/skirmish/internal/battle/scenario"
	"github.com/outpost-games/skirmish/internal/testutil"
)

// fakeRouter records the input gating calls the engine makes.
type fakeRouter struct {
	enabled       bool
	clearedCount  int
	enableHistory []bool
}

func (f *fakeRouter) SetEnabled(enabled bool) {
	f.enabled = enabled
	f.enableHistory = append(f.enableHistory, enabled)
}

func (f *fakeRouter) ClearSelection() { f.clearedCount++ }

func fastConfig() Config {
	return Config{
		UnitDelay:       5 * time.Millisecond,
		PreAttackDelay:  5 * time.Millisecond,
		DeathCheckDelay: 10 * time.Millisecond,
		Timing:          testutil.FastTiming(),
	}
}

func newTestEngine(t *testing.T) (*Engine, *fakeRouter, *events.EventBus) {
	t.Helper()
	bus := events.NewEventBus()
	e := NewEngine(fastConfig(), bus, testutil.NopLogger())
	router := &fakeRouter{}
	e.SetInputRouter(router)
	return e, router, bus
}

// run steps the engine until cond holds, failing the test if it never does.
func run(t *testing.T, e *Engine, cond func() bool) {
	t.Helper()
	const tick = 2 * time.Millisecond
	for i := 0; i < 5000; i++ {
		if cond() {
			return
		}
		e.Update(tick)
	}
	t.Fatal("condition not reached within tick budget")
}

func TestStartBattle(t *testing.T) {
	e, router, bus := newTestEngine(t)

	spawned := 0
	bus.SubscribeFunc(events.TypeUnitSpawned, func(events.Event) { spawned++ })

	s := testutil.Scenario(
		[]scenario.Placement{testutil.Place("militia", 0, 0), testutil.Place("archer", 0, 1)},
		[]scenario.Placement{testutil.Place("raider", 5, 5)},
	)
	require.NoError(t, e.StartBattle(s, scenario.NewRegistry()))

	assert.Equal(t, phases.PhasePlayer, e.Phase())
	assert.Equal(t, 1, e.TurnNumber())
	assert.True(t, router.enabled)
	assert.Equal(t, 3, spawned)
	assert.Len(t, e.PlayerUnits(), 2)
	assert.Len(t, e.EnemyUnits(), 1)

	// Units actually occupy the grid.
	assert.NotNil(t, e.Grid().UnitAt(core.Cell{X: 0, Y: 0}))
	assert.NotNil(t, e.Grid().UnitAt(core.Cell{X: 5, Y: 5}))
}

func TestStartBattle_UnknownDefinitionSkipped(t *testing.T) {
	e, _, _ := newTestEngine(t)

	s := testutil.Scenario(
		[]scenario.Placement{testutil.Place("militia", 0, 0), testutil.Place("wyvern", 1, 0)},
		[]scenario.Placement{testutil.Place("raider", 5, 5)},
	)
	require.NoError(t, e.StartBattle(s, scenario.NewRegistry()))

	assert.Len(t, e.PlayerUnits(), 1)
	assert.Nil(t, e.Grid().UnitAt(core.Cell{X: 1, Y: 0}))
}

func TestStartBattle_Twice(t *testing.T) {
	e, _, _ := newTestEngine(t)

	s := testutil.Scenario(
		[]scenario.Placement{testutil.Place("militia", 0, 0)},
		[]scenario.Placement{testutil.Place("raider", 5, 5)},
	)
	require.NoError(t, e.StartBattle(s, scenario.NewRegistry()))
	assert.Error(t, e.StartBattle(s, scenario.NewRegistry()))
}

func TestStartBattle_NilScenario(t *testing.T) {
	e, _, _ := newTestEngine(t)

	assert.NotPanics(t, func() {
		assert.Error(t, e.StartBattle(nil, scenario.NewRegistry()))
	})
	assert.Equal(t, phases.PhaseSetup, e.Phase())

	// A corrected configuration can still start the battle afterwards.
	s := testutil.Scenario(
		[]scenario.Placement{testutil.Place("militia", 0, 0)},
		[]scenario.Placement{testutil.Place("raider", 5, 5)},
	)
	require.NoError(t, e.StartBattle(s, scenario.NewRegistry()))
	assert.Equal(t, phases.PhasePlayer, e.Phase())
}

func TestStartBattle_InvalidScenario(t *testing.T) {
	e, _, _ := newTestEngine(t)

	s := testutil.Scenario([]scenario.Placement{testutil.Place("militia", 0, 0)}, nil)
	s.Grid.Width = 0
	assert.Error(t, e.StartBattle(s, scenario.NewRegistry()))
	assert.Equal(t, phases.PhaseSetup, e.Phase())
}

func TestStartBattle_EmptyEnemySideIsInstantVictory(t *testing.T) {
	e, _, _ := newTestEngine(t)

	s := testutil.Scenario([]scenario.Placement{testutil.Place("militia", 0, 0)}, nil)
	require.NoError(t, e.StartBattle(s, scenario.NewRegistry()))

	assert.True(t, e.Ended())
	assert.Equal(t, phases.PhaseVictory, e.Phase())
	assert.True(t, e.Victory())
}

func TestStartBattle_EmptyPlayerSideIsInstantDefeat(t *testing.T) {
	e, router, _ := newTestEngine(t)

	s := testutil.Scenario(nil, []scenario.Placement{testutil.Place("raider", 5, 5)})
	require.NoError(t, e.StartBattle(s, scenario.NewRegistry()))

	assert.Equal(t, phases.PhaseDefeat, e.Phase())
	assert.False(t, e.Victory())
	assert.False(t, router.enabled)
}

func TestEndPlayerTurn_OutsidePlayerPhaseIsNoOp(t *testing.T) {
	e, router, _ := newTestEngine(t)

	// Before StartBattle the engine is still in setup.
	e.EndPlayerTurn()
	assert.Equal(t, phases.PhaseSetup, e.Phase())
	assert.Equal(t, 0, router.clearedCount)
}

func TestFullBattle_PlayerVictory(t *testing.T) {
	e, router, bus := newTestEngine(t)

	ended := 0
	var endedVictory bool
	bus.SubscribeFunc(events.TypeBattleEnded, func(ev events.Event) {
		ended++
		endedVictory = ev.(*events.BattleEndedEvent).Victory
	})

	s := testutil.Scenario(
		[]scenario.Placement{testutil.Place("knight", 0, 0)},
		[]scenario.Placement{testutil.Place("raider", 1, 0)},
	)
	require.NoError(t, e.StartBattle(s, scenario.NewRegistry()))

	// Player attacks the adjacent raider until it drops.
	knight := e.PlayerUnits()[0]
	raider := e.EnemyUnits()[0]
	for raider.Alive() {
		done := false
		knight.StartAttack(raider, func() { done = true })
		run(t, e, func() bool { return done })
	}

	run(t, e, e.Ended)

	assert.Equal(t, phases.PhaseVictory, e.Phase())
	assert.True(t, e.Victory())
	assert.Empty(t, e.EnemyUnits())
	assert.False(t, router.enabled)
	assert.Equal(t, 1, ended)
	assert.True(t, endedVictory)
	assert.Equal(t, 1, e.TurnNumber())
}

func TestFullBattle_EnemyTurnRoundTrip(t *testing.T) {
	e, router, bus := newTestEngine(t)

	turnsStarted := 0
	bus.SubscribeFunc(events.TypeTurnStarted, func(events.Event) { turnsStarted++ })

	// Tough knight far from a weak raider: the enemy turn plays out
	// without ending the battle.
	s := testutil.Scenario(
		[]scenario.Placement{testutil.Place("knight", 0, 0)},
		[]scenario.Placement{testutil.Place("raider", 5, 5)},
	)
	require.NoError(t, e.StartBattle(s, scenario.NewRegistry()))
	assert.Equal(t, 1, turnsStarted)

	e.EndPlayerTurn()
	assert.Equal(t, phases.PhaseEnemy, e.Phase())
	assert.False(t, router.enabled)
	assert.Equal(t, 1, router.clearedCount)

	run(t, e, func() bool { return e.Phase() == phases.PhasePlayer })

	assert.Equal(t, 2, e.TurnNumber())
	assert.Equal(t, 2, turnsStarted)
	assert.True(t, router.enabled)
	assert.False(t, e.PlayerUnits()[0].HasActed(), "player roster resets on turn start")
}

func TestDoubleWipe_IsVictory(t *testing.T) {
	e, _, bus := newTestEngine(t)

	ended := 0
	bus.SubscribeFunc(events.TypeBattleEnded, func(events.Event) { ended++ })

	s := testutil.Scenario(
		[]scenario.Placement{testutil.Place("militia", 0, 0), testutil.Place("archer", 0, 1)},
		[]scenario.Placement{testutil.Place("raider", 5, 5)},
	)
	require.NoError(t, e.StartBattle(s, scenario.NewRegistry()))

	// Both sides die in the same exchange.
	for _, u := range e.PlayerUnits() {
		u.TakeDamage(999)
	}
	for _, u := range e.EnemyUnits() {
		u.TakeDamage(999)
	}

	run(t, e, e.Ended)

	assert.Equal(t, phases.PhaseVictory, e.Phase())
	assert.True(t, e.Victory())
	assert.Equal(t, 1, ended, "three deaths arm three checks but only one ends the battle")
}

func TestUnitDeathFreesGridCell(t *testing.T) {
	e, _, bus := newTestEngine(t)

	died := 0
	bus.SubscribeFunc(events.TypeUnitDied, func(events.Event) { died++ })

	s := testutil.Scenario(
		[]scenario.Placement{testutil.Place("militia", 0, 0), testutil.Place("archer", 2, 2)},
		[]scenario.Placement{testutil.Place("raider", 5, 5)},
	)
	require.NoError(t, e.StartBattle(s, scenario.NewRegistry()))

	e.PlayerUnits()[0].TakeDamage(999)

	assert.Equal(t, 1, died)
	assert.Nil(t, e.Grid().UnitAt(core.Cell{X: 0, Y: 0}))
	assert.Equal(t, core.CellEmpty, e.Grid().CellStateAt(core.Cell{X: 0, Y: 0}))

	// The battle is not over yet: a player unit survives.
	run(t, e, func() bool { return len(e.PlayerUnits()) == 1 })
	assert.False(t, e.Ended())
}

func TestEnemyTurn_EnemyKillsLastPlayerUnit(t *testing.T) {
	e, _, _ := newTestEngine(t)

	s := testutil.Scenario(
		[]scenario.Placement{testutil.Place("militia", 0, 0)},
		[]scenario.Placement{testutil.Place("brute", 1, 0), testutil.Place("brute", 2, 0)},
	)
	require.NoError(t, e.StartBattle(s, scenario.NewRegistry()))

	// Militia has 12 HP, each brute hits for 7. Two enemy turns finish it.
	e.EndPlayerTurn()
	run(t, e, func() bool { return e.Phase() != phases.PhaseEnemy })

	if !e.Ended() {
		e.EndPlayerTurn()
		run(t, e, e.Ended)
	}

	assert.Equal(t, phases.PhaseDefeat, e.Phase())
	assert.False(t, e.Victory())
	assert.Empty(t, e.PlayerUnits())
}

func TestNilInputRouterIsSafe(t *testing.T) {
	bus := events.NewEventBus()
	e := NewEngine(fastConfig(), bus, testutil.NopLogger())

	s := testutil.Scenario(
		[]scenario.Placement{testutil.Place("militia", 0, 0)},
		[]scenario.Placement{testutil.Place("raider", 5, 5)},
	)
	require.NoError(t, e.StartBattle(s, scenario.NewRegistry()))

	e.EndPlayerTurn()
	run(t, e, func() bool { return e.Phase() == phases.PhasePlayer })
	assert.Equal(t, 2, e.TurnNumber())
}
