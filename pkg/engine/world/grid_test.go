package world

import (
	"errors"
	"math/rand"
	"testing"
)

func TestNewGridBorder(t *testing.T) {
	g := NewGrid(DefaultWidth, DefaultHeight)

	if g.Width() != 80 || g.Height() != 21 {
		t.Fatalf("dimensions = %dx%d, want 80x21", g.Width(), g.Height())
	}

	g.ForEachCell(func(x, y int, c Cell) {
		if g.IsOnPerimeter(x, y) {
			if c.Terrain != ImmutableWall || c.Hardness != 255 {
				t.Errorf("border (%d,%d) = %v/%d, want ImmutableWall/255", x, y, c.Terrain, c.Hardness)
			}
		}
	})

	if err := g.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}
}

func TestBorderIsImmutable(t *testing.T) {
	g := NewGrid(10, 10)

	if g.Carve(0, 5, FloorHall) {
		t.Error("Carve(0,5) = true, want false")
	}
	if g.SetHardness(9, 9, 0) {
		t.Error("SetHardness(9,9) = true, want false")
	}
	if got := g.TerrainAt(0, 5); got != ImmutableWall {
		t.Errorf("TerrainAt(0,5) = %v, want ImmutableWall", got)
	}
	if got := g.TerrainAt(-1, 40); got != ImmutableWall {
		t.Errorf("TerrainAt(-1,40) = %v, want ImmutableWall", got)
	}
}

func TestResetRockHardness(t *testing.T) {
	g := NewGrid(DefaultWidth, DefaultHeight)
	g.Reset(rand.New(rand.NewSource(1)))

	g.ForEachCell(func(x, y int, c Cell) {
		if !g.IsPlayablePosition(x, y) {
			return
		}
		if c.Terrain != Wall || c.Hardness < 1 || c.Hardness > 254 {
			t.Errorf("interior (%d,%d) = %v/%d, want Wall with hardness 1..254", x, y, c.Terrain, c.Hardness)
		}
	})
}

func TestIsPassable(t *testing.T) {
	tests := []struct {
		terrain Terrain
		want    bool
	}{
		{ImmutableWall, false},
		{Wall, false},
		{Floor, true},
		{FloorRoom, true},
		{FloorHall, true},
		{StairsUp, true},
		{StairsDown, true},
		{Recovery, true},
		{Debug, false},
		{Unknown, false},
	}

	for _, tt := range tests {
		t.Run(tt.terrain.String(), func(t *testing.T) {
			if got := IsPassable(tt.terrain); got != tt.want {
				t.Errorf("IsPassable(%v) = %v, want %v", tt.terrain, got, tt.want)
			}
		})
	}
}

func TestAddRoom(t *testing.T) {
	g := NewGrid(20, 10)

	if !g.AddRoom(Room{X: 2, Y: 2, Width: 4, Height: 3}) {
		t.Fatal("AddRoom() = false, want true")
	}
	if g.AddRoom(Room{X: 17, Y: 2, Width: 4, Height: 3}) {
		t.Error("AddRoom() past the border = true, want false")
	}

	if got := len(g.Rooms()); got != 1 {
		t.Fatalf("len(Rooms()) = %d, want 1", got)
	}
	if got := g.TerrainAt(5, 4); got != FloorRoom {
		t.Errorf("TerrainAt(5,4) = %v, want FloorRoom", got)
	}
	if got := g.TerrainAt(6, 4); got != Wall {
		t.Errorf("TerrainAt(6,4) = %v, want Wall", got)
	}
	if got := g.RoomAt(Point{X: 3, Y: 3}); got != 0 {
		t.Errorf("RoomAt(3,3) = %d, want 0", got)
	}
	if got := g.RoomAt(Point{X: 1, Y: 1}); got != -1 {
		t.Errorf("RoomAt(1,1) = %d, want -1", got)
	}
}

func TestValidateCatchesHardnessMismatch(t *testing.T) {
	g := NewGrid(10, 10)
	g.Set(3, 3, Cell{Terrain: FloorHall, Hardness: 12})

	err := g.Validate()
	if !errors.Is(err, ErrInvalidGrid) {
		t.Errorf("Validate() = %v, want ErrInvalidGrid", err)
	}
}

func TestLandmarkQueries(t *testing.T) {
	g := NewGrid(10, 10)
	g.Carve(2, 2, StairsUp)
	g.Carve(3, 2, StairsDown)
	g.Carve(4, 2, StairsDown)

	up, down := g.StairsPositions()
	if len(up) != 1 || len(down) != 2 {
		t.Errorf("StairsPositions() = %d up, %d down, want 1 and 2", len(up), len(down))
	}

	if _, ok := g.RecoveryPosition(); ok {
		t.Error("RecoveryPosition() found a tile on a level without one")
	}
	g.Carve(5, 5, Recovery)
	if p, ok := g.RecoveryPosition(); !ok || p != (Point{X: 5, Y: 5}) {
		t.Errorf("RecoveryPosition() = %v, %v, want (5,5), true", p, ok)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	g := NewGrid(10, 10)
	g.AddRoom(Room{X: 1, Y: 1, Width: 2, Height: 2})
	c := g.Clone()

	if !g.Equal(c) {
		t.Fatal("Clone() not Equal to original")
	}
	c.Carve(5, 5, FloorHall)
	if g.Equal(c) {
		t.Error("modifying clone changed Equal result of original")
	}
}

func TestDirectionOpposite(t *testing.T) {
	for _, d := range AllDirections() {
		dx, dy := d.Delta()
		ox, oy := d.Opposite().Delta()
		if dx != -ox || dy != -oy {
			t.Errorf("%v.Opposite() delta = (%d,%d), want (%d,%d)", d, ox, oy, -dx, -dy)
		}
	}
	for _, d := range CardinalDirections() {
		if d.IsDiagonal() {
			t.Errorf("%v.IsDiagonal() = true, want false", d)
		}
	}
}

func TestRoomIntersects(t *testing.T) {
	a := Room{X: 2, Y: 2, Width: 4, Height: 3}

	tests := []struct {
		name string
		b    Room
		want bool
	}{
		{"overlap", Room{X: 4, Y: 3, Width: 4, Height: 3}, true},
		{"touching within margin", Room{X: 6, Y: 2, Width: 3, Height: 3}, true},
		{"one cell gap", Room{X: 7, Y: 2, Width: 3, Height: 3}, false},
		{"far away", Room{X: 20, Y: 10, Width: 3, Height: 3}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := a.Intersects(tt.b, 1); got != tt.want {
				t.Errorf("Intersects(%+v) = %v, want %v", tt.b, got, tt.want)
			}
		})
	}
}
