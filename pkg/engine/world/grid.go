package world

import (
	"errors"
	"fmt"
	"math/rand"
)

// Default level dimensions, border included.
const (
	DefaultWidth  = 80
	DefaultHeight = 21
)

// ErrInvalidGrid is wrapped by every error Validate returns.
var ErrInvalidGrid = errors.New("world: invalid grid")

// Grid represents the level map with encapsulated cell storage.
// The outermost ring of cells is ImmutableWall and never changes.
type Grid struct {
	cells  []Cell
	rooms  []Room
	width  int
	height int
}

// NewGrid creates a grid of solid rock with the immutable border in place.
// Rock hardness is 1 until Reset randomizes it.
func NewGrid(width, height int) *Grid {
	g := &Grid{}
	g.Build(width, height)
	return g
}

// Build initializes the grid with the given dimensions
func (g *Grid) Build(width, height int) {
	if width < 3 || height < 3 {
		panic("Grid dimensions must be at least 3x3")
	}

	g.width = width
	g.height = height
	g.cells = make([]Cell, width*height)
	g.rooms = nil

	g.ForEachCell(func(x, y int, _ Cell) {
		if g.IsOnPerimeter(x, y) {
			g.cells[y*width+x] = Cell{Terrain: ImmutableWall, Hardness: HardnessImmutable}
		} else {
			g.cells[y*width+x] = Cell{Terrain: Wall, Hardness: 1}
		}
	})
}

// Reset refills the interior with rock of random hardness in [1, 254] and
// forgets all rooms.
func (g *Grid) Reset(rng *rand.Rand) {
	g.rooms = g.rooms[:0]
	for y := 1; y < g.height-1; y++ {
		for x := 1; x < g.width-1; x++ {
			g.cells[y*g.width+x] = Cell{
				Terrain:  Wall,
				Hardness: uint8(1 + rng.Intn(int(HardnessMaxRock))),
			}
		}
	}
}

// Width returns the number of columns in the grid
func (g *Grid) Width() int {
	return g.width
}

// Height returns the number of rows in the grid
func (g *Grid) Height() int {
	return g.height
}

// IsValidPosition checks if a position is within grid bounds
func (g *Grid) IsValidPosition(x, y int) bool {
	return x >= 0 && x < g.width && y >= 0 && y < g.height
}

// IsPlayablePosition checks if a position is inside the immutable border
func (g *Grid) IsPlayablePosition(x, y int) bool {
	return x >= 1 && x < g.width-1 && y >= 1 && y < g.height-1
}

// IsOnPerimeter checks if a position is on the edge of the grid
func (g *Grid) IsOnPerimeter(x, y int) bool {
	return g.IsValidPosition(x, y) && !g.IsPlayablePosition(x, y)
}

// At returns the cell at the given position. Out of bounds reads return an
// immutable wall.
func (g *Grid) At(x, y int) Cell {
	if !g.IsValidPosition(x, y) {
		return Cell{Terrain: ImmutableWall, Hardness: HardnessImmutable}
	}
	return g.cells[y*g.width+x]
}

// TerrainAt returns the terrain at the given position
func (g *Grid) TerrainAt(x, y int) Terrain {
	return g.At(x, y).Terrain
}

// HardnessAt returns the hardness at the given position
func (g *Grid) HardnessAt(x, y int) uint8 {
	return g.At(x, y).Hardness
}

// Set replaces the cell at the given position. Returns false for the border
// and for positions outside the grid.
func (g *Grid) Set(x, y int, c Cell) bool {
	if !g.IsPlayablePosition(x, y) {
		return false
	}
	g.cells[y*g.width+x] = c
	return true
}

// SetTerrain changes only the terrain of a cell.
func (g *Grid) SetTerrain(x, y int, t Terrain) bool {
	if !g.IsPlayablePosition(x, y) {
		return false
	}
	g.cells[y*g.width+x].Terrain = t
	return true
}

// SetHardness changes only the hardness of a cell.
func (g *Grid) SetHardness(x, y int, h uint8) bool {
	if !g.IsPlayablePosition(x, y) {
		return false
	}
	g.cells[y*g.width+x].Hardness = h
	return true
}

// Carve turns the cell into passable terrain t with hardness 0.
func (g *Grid) Carve(x, y int, t Terrain) bool {
	return g.Set(x, y, Cell{Terrain: t, Hardness: 0})
}

// Rooms returns the rooms in generation order. The slice must not be modified.
func (g *Grid) Rooms() []Room {
	return g.rooms
}

// AddRoom records r and marks its cells as FloorRoom. Returns false when any
// part of r falls outside the playable area.
func (g *Grid) AddRoom(r Room) bool {
	if r.Width <= 0 || r.Height <= 0 ||
		!g.IsPlayablePosition(r.X, r.Y) ||
		!g.IsPlayablePosition(r.X+r.Width-1, r.Y+r.Height-1) {
		return false
	}
	r.Interior(func(p Point) {
		g.Carve(p.X, p.Y, FloorRoom)
	})
	g.rooms = append(g.rooms, r)
	return true
}

// RoomAt returns the index of the room containing p, or -1.
func (g *Grid) RoomAt(p Point) int {
	for i, r := range g.rooms {
		if r.Contains(p) {
			return i
		}
	}
	return -1
}

// StairsPositions returns the positions of all up and down staircases.
func (g *Grid) StairsPositions() (up, down []Point) {
	g.ForEachCell(func(x, y int, c Cell) {
		switch c.Terrain {
		case StairsUp:
			up = append(up, Point{X: x, Y: y})
		case StairsDown:
			down = append(down, Point{X: x, Y: y})
		}
	})
	return up, down
}

// RecoveryPosition returns the recovery tile, if the level has one.
func (g *Grid) RecoveryPosition() (Point, bool) {
	for i, c := range g.cells {
		if c.Terrain == Recovery {
			return Point{X: i % g.width, Y: i / g.width}, true
		}
	}
	return Point{}, false
}

// ForEachCell iterates over all cells in the grid, row by row
func (g *Grid) ForEachCell(fn func(x, y int, cell Cell)) {
	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			fn(x, y, g.cells[y*g.width+x])
		}
	}
}

// Clone returns a deep copy of the grid.
func (g *Grid) Clone() *Grid {
	c := &Grid{width: g.width, height: g.height}
	c.cells = append([]Cell(nil), g.cells...)
	c.rooms = append([]Room(nil), g.rooms...)
	return c
}

// Equal reports whether both grids hold the same cells and rooms.
func (g *Grid) Equal(o *Grid) bool {
	if g.width != o.width || g.height != o.height || len(g.rooms) != len(o.rooms) {
		return false
	}
	for i := range g.cells {
		if g.cells[i] != o.cells[i] {
			return false
		}
	}
	for i := range g.rooms {
		if g.rooms[i] != o.rooms[i] {
			return false
		}
	}
	return true
}

// Validate checks the border and the hardness invariant.
func (g *Grid) Validate() error {
	if g.width < 3 || g.height < 3 {
		return fmt.Errorf("%w: dimensions %dx%d", ErrInvalidGrid, g.width, g.height)
	}

	var err error
	g.ForEachCell(func(x, y int, c Cell) {
		if err != nil {
			return
		}
		switch {
		case g.IsOnPerimeter(x, y):
			if c.Terrain != ImmutableWall || c.Hardness != HardnessImmutable {
				err = fmt.Errorf("%w: border cell (%d,%d) is %v/%d", ErrInvalidGrid, x, y, c.Terrain, c.Hardness)
			}
		case c.Terrain == ImmutableWall:
			err = fmt.Errorf("%w: immutable wall inside border at (%d,%d)", ErrInvalidGrid, x, y)
		case IsPassable(c.Terrain) && c.Hardness != 0:
			err = fmt.Errorf("%w: passable %v at (%d,%d) has hardness %d", ErrInvalidGrid, c.Terrain, x, y, c.Hardness)
		case c.Terrain == Wall && c.Hardness == 0:
			err = fmt.Errorf("%w: rock at (%d,%d) has hardness 0", ErrInvalidGrid, x, y)
		}
	})
	if err != nil {
		return err
	}

	for i, r := range g.rooms {
		if !g.IsPlayablePosition(r.X, r.Y) || !g.IsPlayablePosition(r.X+r.Width-1, r.Y+r.Height-1) {
			return fmt.Errorf("%w: room %d %+v leaves the playable area", ErrInvalidGrid, i, r)
		}
	}
	return nil
}
