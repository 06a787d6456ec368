// Package pathfind maintains the single-source cost maps monsters use to
// approach a reference position, normally the player.
//
// Two maps are kept side by side. The blocked map only steps onto cells that
// are already open (hardness 0) and charges 1 per step. The tunnel map steps
// onto any cell that is not part of the immutable border and charges the
// hardness of the cell entered, never less than 1.
package pathfind

import (
	"math"

	"undercroft/pkg/engine/pqueue"
	"undercroft/pkg/engine/world"
)

// Unreachable is the cost of a cell no path leads to.
const Unreachable = math.MaxInt

// Kind selects one of the two movement models.
type Kind int

const (
	// Blocked is movement over open floor only.
	Blocked Kind = iota
	// Tunnel is movement that digs through rock.
	Tunnel
)

func (k Kind) String() string {
	if k == Tunnel {
		return "tunnel"
	}
	return "blocked"
}

// Connectivity selects which neighbours a single step reaches.
type Connectivity int

const (
	// Conn8 allows diagonal steps.
	Conn8 Connectivity = iota
	// Conn4 allows only orthogonal steps.
	Conn4
)

func (c Connectivity) directions() []world.Direction {
	if c == Conn4 {
		return world.CardinalDirections()
	}
	return world.AllDirections()
}

// Map is a grid-shaped table of path costs from one source cell.
type Map struct {
	width, height int
	cost          []int
	source        world.Point
}

func newMap(width, height int, source world.Point) *Map {
	m := &Map{width: width, height: height, cost: make([]int, width*height), source: source}
	for i := range m.cost {
		m.cost[i] = Unreachable
	}
	return m
}

// At returns the cost to reach (x, y), or Unreachable.
func (m *Map) At(x, y int) int {
	if x < 0 || x >= m.width || y < 0 || y >= m.height {
		return Unreachable
	}
	return m.cost[y*m.width+x]
}

// Reachable reports whether (x, y) has a finite cost.
func (m *Map) Reachable(x, y int) bool {
	return m.At(x, y) != Unreachable
}

// Source returns the cell the map was computed from.
func (m *Map) Source() world.Point {
	return m.source
}

// Width returns the number of columns covered by the map
func (m *Map) Width() int { return m.width }

// Height returns the number of rows covered by the map
func (m *Map) Height() int { return m.height }

// stepCost returns the price of entering c, or false when the move model
// cannot enter it at all.
type stepCost func(c world.Cell) (int, bool)

func blockedStep(c world.Cell) (int, bool) {
	if c.Hardness != 0 {
		return 0, false
	}
	return 1, true
}

func tunnelStep(c world.Cell) (int, bool) {
	if c.Terrain == world.ImmutableWall {
		return 0, false
	}
	if c.Hardness == 0 {
		return 1, true
	}
	return int(c.Hardness), true
}

// sweep runs Dijkstra from source over the whole grid.
func sweep(grid *world.Grid, source world.Point, dirs []world.Direction, step stepCost) *Map {
	m := newMap(grid.Width(), grid.Height(), source)
	if !grid.IsValidPosition(source.X, source.Y) {
		return m
	}

	handles := make([]pqueue.Handle, len(m.cost))
	done := make([]bool, len(m.cost))

	q := pqueue.New[world.Point]()
	m.cost[source.Y*m.width+source.X] = 0
	handles[source.Y*m.width+source.X] = q.Insert(source, 0)

	for q.Len() > 0 {
		p, pc, _ := q.RemoveMin()
		done[p.Y*m.width+p.X] = true

		for _, d := range dirs {
			n := p.Add(d)
			if !grid.IsValidPosition(n.X, n.Y) {
				continue
			}
			i := n.Y*m.width + n.X
			if done[i] {
				continue
			}
			sc, ok := step(grid.At(n.X, n.Y))
			if !ok {
				continue
			}

			c := int(pc) + sc
			if c >= m.cost[i] {
				continue
			}
			m.cost[i] = c
			if q.Contains(handles[i]) {
				q.DecreaseKey(handles[i], int64(c))
			} else {
				handles[i] = q.Insert(n, int64(c))
			}
		}
	}
	return m
}
