package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCell_DistanceTo(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Cell
		expected int
	}{
		{"same cell", Cell{2, 2}, Cell{2, 2}, 0},
		{"horizontal", Cell{0, 0}, Cell{4, 0}, 4},
		{"vertical", Cell{0, 0}, Cell{0, 3}, 3},
		{"diagonal counts both axes", Cell{1, 1}, Cell{4, 5}, 7},
		{"negative coordinates", Cell{-2, -3}, Cell{1, 1}, 7},
		{"symmetric", Cell{5, 5}, Cell{0, 0}, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.a.DistanceTo(tt.b))
			assert.Equal(t, tt.expected, tt.b.DistanceTo(tt.a))
			assert.Equal(t, tt.expected, ManhattanDistance(tt.a, tt.b))
		})
	}
}

func TestCell_IsAdjacentTo(t *testing.T) {
	center := Cell{5, 5}

	tests := []struct {
		name     string
		other    Cell
		expected bool
	}{
		{"north", Cell{5, 4}, true},
		{"east", Cell{6, 5}, true},
		{"south", Cell{5, 6}, true},
		{"west", Cell{4, 5}, true},
		{"diagonal is not adjacent", Cell{6, 6}, false},
		{"same cell", Cell{5, 5}, false},
		{"two steps away", Cell{7, 5}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, center.IsAdjacentTo(tt.other))
		})
	}
}

func TestCell_Neighbors(t *testing.T) {
	c := Cell{3, 3}
	neighbors := c.Neighbors()

	assert.Len(t, neighbors, 4)
	for _, n := range neighbors {
		assert.True(t, c.IsAdjacentTo(n), "neighbor %s should be adjacent", n)
	}
}

func TestCell_ValidNeighbors(t *testing.T) {
	tests := []struct {
		name     string
		cell     Cell
		expected int
	}{
		{"center has four", Cell{2, 2}, 4},
		{"corner has two", Cell{0, 0}, 2},
		{"edge has three", Cell{0, 2}, 3},
		{"opposite corner has two", Cell{4, 4}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, tt.cell.ValidNeighbors(5, 5), tt.expected)
		})
	}
}

func TestCell_IsValid(t *testing.T) {
	tests := []struct {
		name     string
		cell     Cell
		expected bool
	}{
		{"origin", Cell{0, 0}, true},
		{"max corner", Cell{4, 4}, true},
		{"negative x", Cell{-1, 0}, false},
		{"negative y", Cell{0, -1}, false},
		{"x at width", Cell{5, 0}, false},
		{"y at height", Cell{0, 5}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.cell.IsValid(5, 5))
		})
	}
}

func TestTeam_Opposing(t *testing.T) {
	assert.Equal(t, TeamEnemy, TeamPlayer.Opposing())
	assert.Equal(t, TeamPlayer, TeamEnemy.Opposing())
}

func TestCell_String(t *testing.T) {
	assert.Equal(t, "(3,7)", Cell{3, 7}.String())
}
