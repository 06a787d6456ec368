package generator

import (
	"fmt"

	"github.com/zyedidia/generic/mapset"
	"github.com/zyedidia/generic/queue"

	"undercroft/pkg/engine/world"
)

// Audit checks that every room can be walked to from the first room using
// orthogonal steps over passable cells.
func Audit(grid *world.Grid) error {
	rooms := grid.Rooms()
	if len(rooms) < 2 {
		return nil
	}

	reached := Reachable(grid, world.Point{X: rooms[0].X, Y: rooms[0].Y})

	var missing []int
	for i, r := range rooms[1:] {
		if !reached.Has(world.Point{X: r.X, Y: r.Y}) {
			missing = append(missing, i+1)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: rooms %v unreachable from room 0", ErrDisconnected, missing)
	}
	return nil
}

// Reachable returns every passable cell connected to start by orthogonal steps.
func Reachable(grid *world.Grid, start world.Point) mapset.Set[world.Point] {
	visited := mapset.New[world.Point]()
	if !world.IsPassable(grid.TerrainAt(start.X, start.Y)) {
		return visited
	}

	frontier := queue.New[world.Point]()
	frontier.Enqueue(start)
	visited.Put(start)

	for !frontier.Empty() {
		p := frontier.Dequeue()
		for _, d := range world.CardinalDirections() {
			n := p.Add(d)
			if visited.Has(n) || !world.IsPassable(grid.TerrainAt(n.X, n.Y)) {
				continue
			}
			visited.Put(n)
			frontier.Enqueue(n)
		}
	}
	return visited
}
