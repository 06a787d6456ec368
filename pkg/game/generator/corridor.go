package generator

import (
	"math"

	"undercroft/pkg/engine/pqueue"
	"undercroft/pkg/engine/world"
)

// Corridor step costs. Carving through open floor costs openStepCost,
// rock costs its hardness. turnPenalty is added for every step that leaves
// the source cell's row (horizontal steps) or column (vertical steps), which
// pulls corridors into a single bend.
const (
	openStepCost = 8
	turnPenalty  = 48
)

// CarveCorridor finds the cheapest orthogonal path from one point to another
// through every non-immutable cell and turns the cells along it into
// FloorHall. Room cells on the path are left as they are. Returns the number
// of cells that became hallway.
func CarveCorridor(grid *world.Grid, from, to world.Point) int {
	w, h := grid.Width(), grid.Height()
	idx := func(p world.Point) int { return p.Y*w + p.X }

	cost := make([]int64, w*h)
	prev := make([]world.Point, w*h)
	handles := make([]pqueue.Handle, w*h)

	q := pqueue.New[world.Point]()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if grid.TerrainAt(x, y) == world.ImmutableWall {
				continue
			}
			p := world.Point{X: x, Y: y}
			cost[idx(p)] = math.MaxInt64
			if p == from {
				cost[idx(p)] = 0
			}
			handles[idx(p)] = q.Insert(p, cost[idx(p)])
		}
	}

	for q.Len() > 0 {
		p, pc, _ := q.RemoveMin()
		if pc == math.MaxInt64 {
			// Nothing left is reachable.
			return 0
		}
		if p == to {
			return tracePath(grid, from, to, prev, idx)
		}

		step := int64(grid.HardnessAt(p.X, p.Y))
		if step == 0 {
			step = openStepCost
		}

		for _, d := range world.CardinalDirections() {
			n := p.Add(d)
			if !grid.IsValidPosition(n.X, n.Y) {
				continue
			}
			hn := handles[idx(n)]
			if !q.Contains(hn) {
				continue
			}

			c := pc + step
			switch d {
			case world.North, world.South:
				if p.X != from.X {
					c += turnPenalty
				}
			default:
				if p.Y != from.Y {
					c += turnPenalty
				}
			}

			if c < cost[idx(n)] {
				cost[idx(n)] = c
				prev[idx(n)] = p
				q.DecreaseKey(hn, c)
			}
		}
	}
	return 0
}

func tracePath(grid *world.Grid, from, to world.Point, prev []world.Point, idx func(world.Point) int) int {
	carved := 0
	for p := to; p != from; p = prev[idx(p)] {
		if grid.TerrainAt(p.X, p.Y) != world.FloorRoom {
			grid.Carve(p.X, p.Y, world.FloorHall)
			carved++
		}
	}
	return carved
}
