package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/outpost-games/skirmish/internal/battle"
	"github.com/outpost-games/skirmish/internal/battle/ai"
	"github.com/outpost-games/skirmish/internal/battle/core"
	"github.com/outpost-games/skirmish/internal/battle/events"
	"github.com/outpost-games/skirmish/internal/battle/phases"
	"github.com/outpost-games/skirmish/internal/battle/scenario"
	"github.com/outpost-games/skirmish/internal/battle/unit"
	"github.com/outpost-games/skirmish/internal/common"
	"github.com/outpost-games/skirmish/internal/config"
)

func main() {
	// Command line flags
	configPath := flag.String("config", "", "Path to config file")
	scenarioPath := flag.String("scenario", "", "Path to scenario file (empty to use config default)")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error) (empty to use config default)")
	maxTurns := flag.Int("max-turns", -1, "Stop after this many turns (-1 to use config default, 0 for unlimited)")
	flag.Parse()

	// Initialize configuration
	if err := config.Init(*configPath); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize config")
	}

	cfg := config.Get()

	// Use config defaults if not overridden by flags
	if *scenarioPath == "" {
		*scenarioPath = cfg.Scenario.Path
	}
	if *logLevel == "" {
		*logLevel = cfg.Logging.Level
	}
	if *maxTurns == -1 {
		*maxTurns = cfg.Battle.MaxTurns
	}

	setupLogging(*logLevel, cfg.Logging.Format)

	reg := scenario.NewRegistry()
	if cfg.Scenario.UnitsPath != "" {
		if err := reg.LoadFile(cfg.Scenario.UnitsPath); err != nil {
			log.Fatal().Err(err).Str("path", cfg.Scenario.UnitsPath).Msg("Failed to load unit definitions")
		}
	}

	s, err := loadScenario(*scenarioPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", *scenarioPath).Msg("Failed to load scenario")
	}

	log.Info().
		Str("scenario", s.Name).
		Int("max_turns", *maxTurns).
		Msg("Starting skirmish")

	if err := runBattle(cfg, s, reg, *maxTurns); err != nil {
		log.Fatal().Err(err).Msg("Battle failed")
	}
}

// loadScenario reads the scenario file, falling back to a built-in demo
// when the default path does not exist.
func loadScenario(path string) (*scenario.Scenario, error) {
	s, err := scenario.Load(path)
	if err == nil {
		return s, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	log.Warn().Str("path", path).Msg("Scenario file not found, using built-in demo")
	return demoScenario(), nil
}

func demoScenario() *scenario.Scenario {
	return &scenario.Scenario{
		Name: "demo-skirmish",
		Grid: scenario.GridConfig{Width: 10, Height: 8, CellSize: 1.0},
		BlockedCells: []scenario.CellRef{
			{X: 4, Y: 2}, {X: 4, Y: 3}, {X: 4, Y: 4}, {X: 5, Y: 4},
		},
		PlayerUnits: []scenario.Placement{
			{Definition: "knight", Cell: scenario.CellRef{X: 0, Y: 3}},
			{Definition: "militia", Cell: scenario.CellRef{X: 1, Y: 2}},
			{Definition: "archer", Cell: scenario.CellRef{X: 0, Y: 5}},
		},
		EnemyUnits: []scenario.Placement{
			{Definition: "raider", Cell: scenario.CellRef{X: 9, Y: 3}},
			{Definition: "raider", Cell: scenario.CellRef{X: 9, Y: 5}},
			{Definition: "brute", Cell: scenario.CellRef{X: 8, Y: 4}},
		},
	}
}

// runBattle plays the scenario to completion, driving the player side
// with the same decision loop the enemy uses.
func runBattle(cfg *config.Config, s *scenario.Scenario, reg *scenario.Registry, maxTurns int) error {
	bus := events.NewEventBus()
	engine := battle.NewEngine(battle.ConfigFromApp(cfg), bus, log.Logger)

	bus.SubscribeFunc(events.TypeUnitAttacked, func(ev events.Event) {
		a := ev.(*events.UnitAttackedEvent)
		log.Info().
			Str("attacker", shortID(a.AttackerID)).
			Str("target", shortID(a.TargetID)).
			Int("damage", a.Damage).
			Bool("target_died", a.TargetDied).
			Msg("Attack landed")
	})

	if err := engine.StartBattle(s, reg); err != nil {
		return err
	}

	playerAI := ai.NewController(ai.Config{
		UnitDelay:      cfg.Pacing.UnitDelay(),
		PreAttackDelay: cfg.Pacing.PreAttackDelay(),
	}, bus, log.Logger)

	dt := time.Second / time.Duration(cfg.Battle.TickRate)
	lastPrinted := 0

	// Generous bound so a stalemate cannot spin forever.
	maxTicks := 100_000
	if maxTurns > 0 {
		maxTicks = maxTurns * 10_000
	}

	for tick := 0; tick < maxTicks && !engine.Ended(); tick++ {
		if engine.Phase() == phases.PhasePlayer && !playerAI.Active() {
			turn := engine.TurnNumber()
			if maxTurns > 0 && turn > maxTurns {
				log.Info().Int("max_turns", maxTurns).Msg("Turn limit reached")
				break
			}
			if turn != lastPrinted {
				lastPrinted = turn
				fmt.Printf("Turn %d:\n%s\n", turn, renderBoard(engine))
			}
			playerAI.Start(engine.BattleID(), engine.Grid(), asUnits(engine.PlayerUnits()), asUnits(engine.EnemyUnits()), engine.EndPlayerTurn)
		}

		playerAI.Tick(dt)
		engine.Update(dt)
	}

	fmt.Printf("Final board:\n%s\n", renderBoard(engine))

	if !engine.Ended() {
		fmt.Println("Battle stopped before a side was defeated.")
		return nil
	}
	if engine.Victory() {
		fmt.Printf("Victory on turn %d!\n", engine.TurnNumber())
	} else {
		fmt.Printf("Defeat on turn %d.\n", engine.TurnNumber())
	}
	return nil
}

// renderBoard draws the grid as ASCII: '.' empty, '#' blocked, player
// units as the uppercase first letter of their definition, enemies
// lowercase.
func renderBoard(e *battle.Engine) string {
	g := e.Grid()
	var sb strings.Builder

	for y := 0; y < g.Height(); y++ {
		for x := 0; x < g.Width(); x++ {
			c := core.Cell{X: x, Y: y}
			switch {
			case g.CellStateAt(c) == core.CellBlocked:
				sb.WriteString(common.Colorize(common.BlockedColor, "#"))
			case g.UnitAt(c) != nil:
				sb.WriteString(unitGlyph(g.UnitAt(c)))
			default:
				sb.WriteString(common.Colorize(common.EmptyColor, "."))
			}
			sb.WriteByte(' ')
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func unitGlyph(u core.Unit) string {
	glyph := byte('?')
	if s, ok := u.(*unit.Soldier); ok && s.Definition().ID != "" {
		glyph = s.Definition().ID[0]
	}
	if u.Team() == core.TeamPlayer {
		glyph = upper(glyph)
	}
	return common.Colorize(common.TeamColor(u.Team()), string(glyph))
}

func upper(b byte) byte {
	if b >= 'a' && b <= 'z' {
		return b - 'a' + 'A'
	}
	return b
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func asUnits(roster []*unit.Soldier) []core.Unit {
	out := make([]core.Unit, len(roster))
	for i, s := range roster {
		out[i] = s
	}
	return out
}

func setupLogging(level, format string) {
	// Parse log level
	var logLevel zerolog.Level
	switch level {
	case "trace":
		logLevel = zerolog.TraceLevel
	case "debug":
		logLevel = zerolog.DebugLevel
	case "info":
		logLevel = zerolog.InfoLevel
	case "warn":
		logLevel = zerolog.WarnLevel
	case "error":
		logLevel = zerolog.ErrorLevel
	default:
		logLevel = zerolog.InfoLevel
	}

	zerolog.SetGlobalLevel(logLevel)

	if format == "json" {
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	} else {
		// Pretty console output for development
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		})
	}
}
