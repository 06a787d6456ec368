package generator

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"

	"undercroft/pkg/engine/world"
	"undercroft/pkg/game/config"
)

// RoomsAndCorridorsGenerator scatters rectangular rooms at random and joins
// consecutive rooms with weighted shortest-path corridors.
type RoomsAndCorridorsGenerator struct {
	cfg config.Generation
	log *slog.Logger
}

// NewRoomsAndCorridors creates a generator. A nil logger uses slog.Default.
func NewRoomsAndCorridors(cfg config.Generation, logger *slog.Logger) *RoomsAndCorridorsGenerator {
	if logger == nil {
		logger = slog.Default()
	}
	return &RoomsAndCorridorsGenerator{cfg: cfg, log: logger}
}

// Name returns the name of this generator
func (g *RoomsAndCorridorsGenerator) Name() string {
	return "Rooms and Corridors"
}

// Generate builds a complete level: rooms, corridors, stairs and the
// recovery tile.
func (g *RoomsAndCorridorsGenerator) Generate(ctx context.Context, rng *rand.Rand) (*world.Grid, error) {
	grid := world.NewGrid(g.cfg.Width, g.cfg.Height)
	grid.Reset(rng)

	sizes := g.sizeRooms(rng)
	if err := g.placeRooms(ctx, grid, rng, sizes); err != nil {
		return nil, err
	}

	rooms := grid.Rooms()
	for i := 1; i < len(rooms); i++ {
		ConnectRooms(grid, rng, rooms[i-1], rooms[i])
	}

	if err := PlaceLandmarks(grid, rng); err != nil {
		return nil, err
	}

	if err := Audit(grid); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGenerationFailure, err)
	}

	g.log.Debug("level generated", "generator", g.Name(), "rooms", len(rooms))
	return grid, nil
}

// sizeRooms decides how many rooms the level gets and how big each one is.
func (g *RoomsAndCorridorsGenerator) sizeRooms(rng *rand.Rand) []world.Room {
	n := g.cfg.MinRooms
	for n < g.cfg.MaxRooms && chance(rng, 6, 8) {
		n++
	}

	rooms := make([]world.Room, n)
	for i := range rooms {
		rooms[i].Width = g.cfg.RoomMinWidth
		rooms[i].Height = g.cfg.RoomMinHeight
		for rooms[i].Width < g.cfg.RoomMaxWidth && chance(rng, 3, 4) {
			rooms[i].Width++
		}
		for rooms[i].Height < g.cfg.RoomMaxHeight && chance(rng, 3, 4) {
			rooms[i].Height++
		}
	}
	return rooms
}

// placeRooms drops every room at a random origin. If a room or the one-cell
// margin around it touches existing floor, the whole grid is wiped and
// placement starts over with the same sizes.
func (g *RoomsAndCorridorsGenerator) placeRooms(ctx context.Context, grid *world.Grid, rng *rand.Rand, sizes []world.Room) error {
	for attempt := 1; attempt <= g.cfg.MaxPlacementAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("%w: %w", ErrGenerationFailure, err)
		}
		if placeAll(grid, rng, sizes) {
			if attempt > 1 {
				g.log.Debug("rooms placed", "attempts", attempt, "rooms", len(sizes))
			}
			return nil
		}
		grid.Reset(rng)
	}

	return fmt.Errorf("%w: could not place %d rooms %v after %d attempts",
		ErrGenerationFailure, len(sizes), sizes, g.cfg.MaxPlacementAttempts)
}

func placeAll(grid *world.Grid, rng *rand.Rand, sizes []world.Room) bool {
	for _, size := range sizes {
		r := world.Room{
			X:      1 + rng.Intn(grid.Width()-2-size.Width),
			Y:      1 + rng.Intn(grid.Height()-2-size.Height),
			Width:  size.Width,
			Height: size.Height,
		}
		if collides(grid, r) {
			return false
		}
		grid.AddRoom(r)
	}
	return true
}

func collides(grid *world.Grid, r world.Room) bool {
	for y := r.Y - 1; y <= r.Y+r.Height; y++ {
		for x := r.X - 1; x <= r.X+r.Width; x++ {
			if world.IsPassable(grid.TerrainAt(x, y)) {
				return true
			}
		}
	}
	return false
}

// ConnectRooms carves a corridor between random cells of a and b.
func ConnectRooms(grid *world.Grid, rng *rand.Rand, a, b world.Room) int {
	from := world.Point{
		X: randomIn(rng, a.X, a.X+a.Width-1),
		Y: randomIn(rng, a.Y, a.Y+a.Height-1),
	}
	to := world.Point{
		X: randomIn(rng, b.X, b.X+b.Width-1),
		Y: randomIn(rng, b.Y, b.Y+b.Height-1),
	}
	return CarveCorridor(grid, from, to)
}
