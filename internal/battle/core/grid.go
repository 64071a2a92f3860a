package core

import (
	"math"

	"github.com/rs/zerolog/log"
)

// CellState describes what currently sits on a grid cell.
type CellState int

const (
	// CellEmpty - nothing on the cell, units may stop here.
	CellEmpty CellState = iota

	// CellBlocked - impassable terrain, or out of bounds.
	CellBlocked

	// CellOccupiedPlayer - a player-side unit stands here.
	CellOccupiedPlayer

	// CellOccupiedEnemy - an enemy-side unit stands here.
	CellOccupiedEnemy
)

// IsOccupied reports whether a unit of either side stands on the cell.
func (s CellState) IsOccupied() bool {
	return s == CellOccupiedPlayer || s == CellOccupiedEnemy
}

// occupiedStateFor maps a team to its occupancy cell state.
func occupiedStateFor(team Team) CellState {
	if team == TeamPlayer {
		return CellOccupiedPlayer
	}
	return CellOccupiedEnemy
}

// Grid owns the battle map: cell states, world/cell coordinate
// conversion, unit-to-cell bookkeeping, and the reachability and
// attack-range queries the rest of the engine is built on. It knows
// nothing about turns or phases.
type Grid struct {
	width    int
	height   int
	cellSize float64
	cells    []CellState // length = width*height, row-major
	blocked  map[Cell]bool
	units    map[Cell]Unit
}

// NewGrid creates an empty, zero-sized grid. Call Initialize before use.
func NewGrid() *Grid {
	return &Grid{
		blocked: make(map[Cell]bool),
		units:   make(map[Cell]Unit),
	}
}

// Initialize resets all grid state for a new battle. Cells outside the
// blocked list become empty. Non-positive dimensions or cell size leave
// the grid untouched; callers are expected to validate beforehand, this
// only logs.
func (g *Grid) Initialize(width, height int, cellSize float64, blockedCells []Cell) {
	if width <= 0 || height <= 0 {
		log.Warn().Int("width", width).Int("height", height).Msg("Ignoring grid init with non-positive dimensions")
		return
	}
	if cellSize <= 0 {
		log.Warn().Float64("cell_size", cellSize).Msg("Ignoring grid init with non-positive cell size")
		return
	}

	g.width = width
	g.height = height
	g.cellSize = cellSize
	g.cells = make([]CellState, width*height)
	g.blocked = make(map[Cell]bool)
	g.units = make(map[Cell]Unit)

	for _, c := range blockedCells {
		if !c.IsValid(width, height) {
			log.Warn().Stringer("cell", c).Msg("Skipping out-of-bounds blocked cell")
			continue
		}
		g.cells[g.idx(c)] = CellBlocked
		g.blocked[c] = true
	}
}

// Width returns the grid width in cells.
func (g *Grid) Width() int { return g.width }

// Height returns the grid height in cells.
func (g *Grid) Height() int { return g.height }

// CellSize returns the world-units-per-cell scalar.
func (g *Grid) CellSize() float64 { return g.cellSize }

func (g *Grid) idx(c Cell) int { return c.Y*g.width + c.X }

// IsInBounds checks if the cell is within grid boundaries.
func (g *Grid) IsInBounds(c Cell) bool {
	return c.IsValid(g.width, g.height)
}

// CellStateAt returns the state of a cell. Out-of-bounds cells report
// Blocked so callers can treat the result as "impassable" without a
// separate bounds check.
func (g *Grid) CellStateAt(c Cell) CellState {
	if !g.IsInBounds(c) {
		return CellBlocked
	}
	return g.cells[g.idx(c)]
}

// IsWalkable reports whether a unit may stop on the cell. Only empty
// cells qualify.
func (g *Grid) IsWalkable(c Cell) bool {
	return g.CellStateAt(c) == CellEmpty
}

// UnitAt returns the unit occupying the cell, or nil.
func (g *Grid) UnitAt(c Cell) Unit {
	return g.units[c]
}

// WorldToCell converts a world position to the cell containing it,
// using floor division by the cell size.
func (g *Grid) WorldToCell(wx, wy float64) Cell {
	return Cell{
		X: int(math.Floor(wx / g.cellSize)),
		Y: int(math.Floor(wy / g.cellSize)),
	}
}

// CellToWorldCenter returns the world position of the geometric center
// of the cell. This is the authoritative placement target for movement
// and rendering.
func (g *Grid) CellToWorldCenter(c Cell) (float64, float64) {
	return (float64(c.X) + 0.5) * g.cellSize, (float64(c.Y) + 0.5) * g.cellSize
}

// PlaceUnit records the unit on the cell and flips the cell state to the
// unit's side. No-op on out-of-bounds cells. Placing onto an occupied
// cell overwrites the previous occupant's map entry; callers must
// RemoveUnit the prior occupant first. That precondition is documented,
// not enforced.
func (g *Grid) PlaceUnit(c Cell, u Unit) {
	if !g.IsInBounds(c) {
		log.Warn().Stringer("cell", c).Msg("Ignoring unit placement out of bounds")
		return
	}
	if prev := g.units[c]; prev != nil {
		log.Debug().Stringer("cell", c).Str("unit_id", prev.ID()).Msg("Overwriting occupant during placement")
	}
	g.cells[g.idx(c)] = occupiedStateFor(u.Team())
	g.units[c] = u
}

// RemoveUnit clears the cell's occupancy back to empty. Permanently
// blocked terrain stays blocked.
func (g *Grid) RemoveUnit(c Cell) {
	if !g.IsInBounds(c) {
		return
	}
	delete(g.units, c)
	if g.blocked[c] {
		g.cells[g.idx(c)] = CellBlocked
		return
	}
	g.cells[g.idx(c)] = CellEmpty
}

// MoveUnit relocates a unit's occupancy from one cell to another. It is
// RemoveUnit followed by PlaceUnit and is not atomic against queries;
// callers must not yield between a reachability query and the move that
// acts on its result.
func (g *Grid) MoveUnit(from, to Cell, u Unit) {
	g.RemoveUnit(from)
	g.PlaceUnit(to, u)
}

// ReachableMap is the result of a reachability query: the set of cells
// a unit may stop on, each mapped to its BFS predecessor. Predecessor
// links may pass through occupied cells (traversable but not stoppable);
// those intermediates are not part of the reachable set. Discovery
// order is preserved so iteration is deterministic.
type ReachableMap struct {
	prev  map[Cell]Cell // full predecessor links, including occupied intermediates
	dests map[Cell]bool // valid stopping points
	order []Cell        // stopping points in BFS discovery order
}

// Contains reports whether the cell is a reachable stopping point.
func (m *ReachableMap) Contains(c Cell) bool {
	return m.dests[c]
}

// Predecessor returns the cell preceding c on its shortest path, and
// whether a link exists. The origin is its own predecessor.
func (m *ReachableMap) Predecessor(c Cell) (Cell, bool) {
	p, ok := m.prev[c]
	return p, ok
}

// Cells returns the reachable stopping points in BFS discovery order.
// The origin is always first.
func (m *ReachableMap) Cells() []Cell {
	return m.order
}

// Len returns the number of reachable stopping points, origin included.
func (m *ReachableMap) Len() int {
	return len(m.dests)
}

// ReachableCells performs a four-directional breadth-first search from
// origin, bounded by budget steps. Cells occupied by any unit may be
// traversed during the search but are excluded from the result: a unit
// can path through an ally or enemy's square but cannot end movement
// there. The origin is always included even though the querying unit
// occupies it. A non-positive budget yields only the origin.
func (g *Grid) ReachableCells(origin Cell, budget int) *ReachableMap {
	result := &ReachableMap{
		prev:  map[Cell]Cell{origin: origin},
		dests: map[Cell]bool{origin: true},
		order: []Cell{origin},
	}
	if budget <= 0 || !g.IsInBounds(origin) {
		return result
	}

	type node struct {
		cell Cell
		dist int
	}

	frontier := []node{{cell: origin, dist: 0}}

	for len(frontier) > 0 {
		cur := frontier[0]
		frontier = frontier[1:]

		if cur.dist >= budget {
			continue
		}

		for _, n := range cur.cell.ValidNeighbors(g.width, g.height) {
			if _, seen := result.prev[n]; seen {
				continue
			}
			state := g.cells[g.idx(n)]
			if state == CellBlocked {
				continue
			}
			result.prev[n] = cur.cell
			frontier = append(frontier, node{cell: n, dist: cur.dist + 1})

			// Occupied cells stay traversable for the search but never
			// become stopping points.
			if state.IsOccupied() {
				continue
			}
			result.dests[n] = true
			result.order = append(result.order, n)
		}
	}

	return result
}

// ReconstructPath walks predecessor links from target back to start and
// reverses the result. Returns nil if the target is not a reachable
// stopping point in the map. The returned path includes both start and
// target; intermediate cells may be occupied.
func ReconstructPath(m *ReachableMap, start, target Cell) []Cell {
	if m == nil || !m.Contains(target) {
		return nil
	}

	path := []Cell{target}
	cur := target
	for !cur.Equal(start) {
		p, ok := m.Predecessor(cur)
		if !ok || p.Equal(cur) {
			// Broken chain; target was never connected to start.
			return nil
		}
		path = append(path, p)
		cur = p
	}

	// Reverse in place so the path runs start -> target.
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// AttackRangeCells returns all in-bounds cells at Manhattan distance
// 1..attackRange from origin, origin excluded, in row-major order.
// Attack range 0 or less yields nothing: attack cells start at distance 1.
func (g *Grid) AttackRangeCells(origin Cell, attackRange int) []Cell {
	if attackRange <= 0 {
		return nil
	}

	var cells []Cell
	for dy := -attackRange; dy <= attackRange; dy++ {
		for dx := -attackRange; dx <= attackRange; dx++ {
			c := Cell{X: origin.X + dx, Y: origin.Y + dy}
			d := origin.DistanceTo(c)
			if d == 0 || d > attackRange {
				continue
			}
			if g.IsInBounds(c) {
				cells = append(cells, c)
			}
		}
	}
	return cells
}

// AttackableEnemies returns the alive units standing within attack range
// of origin that belong to a side other than attackerTeam, in
// deterministic cell order.
func (g *Grid) AttackableEnemies(origin Cell, attackRange int, attackerTeam Team) []Unit {
	var enemies []Unit
	for _, c := range g.AttackRangeCells(origin, attackRange) {
		u := g.units[c]
		if u == nil || !u.Alive() || u.Team() == attackerTeam {
			continue
		}
		enemies = append(enemies, u)
	}
	return enemies
}
