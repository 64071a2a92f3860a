package core

import "fmt"

// Cell represents a position on the battle grid, addressed by integer
// column (X) and row (Y).
type Cell struct {
	X, Y int
}

// NewCell creates a new cell with the given column and row values.
func NewCell(x, y int) Cell {
	return Cell{X: x, Y: y}
}

// IsValid checks if the cell is within the given bounds.
func (c Cell) IsValid(width, height int) bool {
	return c.X >= 0 && c.X < width && c.Y >= 0 && c.Y < height
}

// DistanceTo calculates the Manhattan distance to another cell.
func (c Cell) DistanceTo(other Cell) int {
	dx := c.X - other.X
	dy := c.Y - other.Y
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}

// IsAdjacentTo checks if this cell is orthogonally adjacent to another.
func (c Cell) IsAdjacentTo(other Cell) bool {
	dx := c.X - other.X
	dy := c.Y - other.Y

	// Must be exactly one step away in either X or Y direction, but not both
	return (dx == 0 && (dy == 1 || dy == -1)) || (dy == 0 && (dx == 1 || dx == -1))
}

// Neighbors returns the four orthogonal neighbors of this cell.
// Diagonal movement does not exist on the battle grid.
func (c Cell) Neighbors() []Cell {
	return []Cell{
		{X: c.X, Y: c.Y - 1}, // North
		{X: c.X + 1, Y: c.Y}, // East
		{X: c.X, Y: c.Y + 1}, // South
		{X: c.X - 1, Y: c.Y}, // West
	}
}

// ValidNeighbors returns only the neighbors that are within the given bounds.
func (c Cell) ValidNeighbors(width, height int) []Cell {
	neighbors := c.Neighbors()
	valid := make([]Cell, 0, 4)

	for _, n := range neighbors {
		if n.IsValid(width, height) {
			valid = append(valid, n)
		}
	}

	return valid
}

// Add returns a new cell that is the sum of this cell and another.
func (c Cell) Add(other Cell) Cell {
	return Cell{
		X: c.X + other.X,
		Y: c.Y + other.Y,
	}
}

// Equal checks if two cells are equal.
func (c Cell) Equal(other Cell) bool {
	return c.X == other.X && c.Y == other.Y
}

// String returns a string representation of the cell.
func (c Cell) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// ManhattanDistance calculates the Manhattan distance between two cells.
// This is the engine's sole distance metric: every step costs one,
// there is no terrain weighting.
func ManhattanDistance(a, b Cell) int {
	return a.DistanceTo(b)
}
