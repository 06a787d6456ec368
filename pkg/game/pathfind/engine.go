package pathfind

import (
	"undercroft/pkg/engine/world"
)

// Engine holds the blocked and tunnel maps for the current reference position.
type Engine struct {
	conn Connectivity

	blocked *Map
	tunnel  *Map
}

// NewEngine creates an engine with no maps computed yet; every cost is
// Unreachable until Recompute is called.
func NewEngine(conn Connectivity) *Engine {
	return &Engine{conn: conn}
}

// Recompute rebuilds both maps from ref. Call it whenever the reference
// actor moves or the grid changes.
func (e *Engine) Recompute(grid *world.Grid, ref world.Point) {
	dirs := e.conn.directions()
	e.blocked = sweep(grid, ref, dirs, blockedStep)
	e.tunnel = sweep(grid, ref, dirs, tunnelStep)
}

// Reference returns the position the maps were computed from.
func (e *Engine) Reference() (world.Point, bool) {
	if e.blocked == nil {
		return world.Point{}, false
	}
	return e.blocked.Source(), true
}

// Map returns the map for the given movement model, or nil before the first
// Recompute.
func (e *Engine) Map(k Kind) *Map {
	if k == Tunnel {
		return e.tunnel
	}
	return e.blocked
}

// BlockedCost returns the non-digging cost from the reference to (x, y).
func (e *Engine) BlockedCost(x, y int) int {
	if e.blocked == nil {
		return Unreachable
	}
	return e.blocked.At(x, y)
}

// TunnelCost returns the digging cost from the reference to (x, y).
func (e *Engine) TunnelCost(x, y int) int {
	if e.tunnel == nil {
		return Unreachable
	}
	return e.tunnel.At(x, y)
}

// NextStep returns the neighbour of from with the lowest cost in the chosen
// map. The second result is false when no neighbour is cheaper than from.
func (e *Engine) NextStep(k Kind, from world.Point) (world.Point, bool) {
	m := e.Map(k)
	if m == nil {
		return from, false
	}

	best, bestCost := from, m.At(from.X, from.Y)
	for _, d := range e.conn.directions() {
		n := from.Add(d)
		if c := m.At(n.X, n.Y); c < bestCost {
			best, bestCost = n, c
		}
	}
	return best, best != from
}
