package common

import "github.com/outpost-games/skirmish/internal/battle/core"

// Abs returns the absolute value of an integer
func Abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Min returns the minimum of two integers
func Min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// Max returns the maximum of two integers
func Max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// DistanceCells calculates the Manhattan distance between two cells
func DistanceCells(from, to core.Cell) int {
	return from.DistanceTo(to)
}

// IsAdjacentCells checks if two cells are orthogonally adjacent (not diagonally)
func IsAdjacentCells(from, to core.Cell) bool {
	return from.IsAdjacentTo(to)
}
