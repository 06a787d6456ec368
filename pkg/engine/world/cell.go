// Package world provides the terrain grid and its primitives: cells, points,
// rooms and compass directions.
package world

import "fmt"

// Cell is a single tile of the grid.
// A cell is passable exactly when its hardness is zero.
type Cell struct {
	Terrain  Terrain
	Hardness uint8
}

// Passable reports whether the cell can be walked on.
func (c Cell) Passable() bool {
	return IsPassable(c.Terrain)
}

// Point is a grid coordinate. X is the column, Y the row.
type Point struct {
	X, Y int
}

// Add returns p moved one step in direction d.
func (p Point) Add(d Direction) Point {
	dx, dy := d.Delta()
	return Point{X: p.X + dx, Y: p.Y + dy}
}

func (p Point) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Room is an axis-aligned rectangle of FloorRoom cells.
type Room struct {
	X, Y          int
	Width, Height int
}

// Contains reports whether p lies inside the room.
func (r Room) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.X+r.Width && p.Y >= r.Y && p.Y < r.Y+r.Height
}

// Center returns the cell nearest the middle of the room.
func (r Room) Center() Point {
	return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// Interior calls fn for every cell of the room, row by row.
func (r Room) Interior(fn func(p Point)) {
	for y := r.Y; y < r.Y+r.Height; y++ {
		for x := r.X; x < r.X+r.Width; x++ {
			fn(Point{X: x, Y: y})
		}
	}
}

// Intersects reports whether the two rooms overlap once r is grown by margin
// cells on every side.
func (r Room) Intersects(o Room, margin int) bool {
	return r.X-margin < o.X+o.Width && o.X < r.X+r.Width+margin &&
		r.Y-margin < o.Y+o.Height && o.Y < r.Y+r.Height+margin
}
