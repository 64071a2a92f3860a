package common

import (
	"github.com/outpost-games/skirmish/internal/battle/core"
)

// ANSI escape sequences for terminal board rendering.
const (
	AnsiReset = "\x1b[0m"

	ansiBlue = "\x1b[34m"
	ansiRed  = "\x1b[31m"
	ansiGray = "\x1b[90m"
)

// TeamColors maps each side to its terminal color.
var TeamColors = map[core.Team]string{
	core.TeamPlayer: ansiBlue,
	core.TeamEnemy:  ansiRed,
}

// Terrain colors
var (
	BlockedColor = ansiGray
	EmptyColor   = ansiGray
)

// TeamColor returns the color for a team, or the empty string for an
// unknown team so callers can concatenate it unconditionally.
func TeamColor(team core.Team) string {
	return TeamColors[team]
}

// Colorize wraps s in the given color followed by a reset.
func Colorize(color, s string) string {
	if color == "" {
		return s
	}
	return color + s + AnsiReset
}
