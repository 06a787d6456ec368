package generator

import (
	"fmt"
	"math/rand"

	"undercroft/pkg/engine/world"
)

// PlaceLandmarks puts down at least one staircase of each kind and exactly
// one recovery tile. Further down staircases follow with probability 1/3
// each, further up staircases with probability 1/4. Landmarks only go on
// plain floor, so none overwrites another.
//
// Running out of plain floor fails with ErrGenerationFailure; whatever was
// placed by then stays.
func PlaceLandmarks(grid *world.Grid, rng *rand.Rand) error {
	for {
		if !placeOnFloor(grid, rng, world.StairsDown) {
			return noFloor(world.StairsDown)
		}
		if !chance(rng, 1, 3) {
			break
		}
	}
	for {
		if !placeOnFloor(grid, rng, world.StairsUp) {
			return noFloor(world.StairsUp)
		}
		if !chance(rng, 1, 4) {
			break
		}
	}
	if !placeOnFloor(grid, rng, world.Recovery) {
		return noFloor(world.Recovery)
	}
	return nil
}

func noFloor(t world.Terrain) error {
	return fmt.Errorf("%w: no floor left for %v", ErrGenerationFailure, t)
}

// placeOnFloor samples interior cells until it finds plain floor and turns
// it into t. Returns false when the grid has no plain floor left.
func placeOnFloor(grid *world.Grid, rng *rand.Rand, t world.Terrain) bool {
	if !hasPlainFloor(grid) {
		return false
	}
	for {
		x := randomIn(rng, 1, grid.Width()-2)
		y := randomIn(rng, 1, grid.Height()-2)
		if world.IsPlainFloor(grid.TerrainAt(x, y)) {
			grid.Carve(x, y, t)
			return true
		}
	}
}

func hasPlainFloor(grid *world.Grid) bool {
	found := false
	grid.ForEachCell(func(_, _ int, c world.Cell) {
		if world.IsPlainFloor(c.Terrain) {
			found = true
		}
	})
	return found
}
