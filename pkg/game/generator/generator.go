package generator

import (
	"context"
	"errors"
	"math/rand"

	"undercroft/pkg/engine/world"
	"undercroft/pkg/game/config"
)

var (
	// ErrGenerationFailure is returned when no valid level could be built
	// within the configured budget.
	ErrGenerationFailure = errors.New("generator: generation failed")

	// ErrDisconnected is returned by Audit when some room cannot be reached
	// from the first room.
	ErrDisconnected = errors.New("generator: rooms are not connected")
)

// GridGenerator is an interface for map generation algorithms
type GridGenerator interface {
	Generate(ctx context.Context, rng *rand.Rand) (*world.Grid, error)
	Name() string
}

// DefaultGenerator builds classic 80x21 levels
var DefaultGenerator GridGenerator = NewRoomsAndCorridors(config.DefaultGeneration(), nil)

// chance returns true with probability num/den.
func chance(rng *rand.Rand, num, den int) bool {
	return rng.Intn(den) < num
}

// randomIn returns a uniform integer in [lo, hi].
func randomIn(rng *rand.Rand, lo, hi int) int {
	return lo + rng.Intn(hi-lo+1)
}
