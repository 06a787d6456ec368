// Package config holds the tunables for level generation and play.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/invopop/jsonschema"

	"undercroft/pkg/engine/world"
)

// ErrInvalid is wrapped by every error Validate returns.
var ErrInvalid = errors.New("config: invalid")

// Generation controls the layout generator.
type Generation struct {
	Width  int `json:"width" jsonschema:"minimum=10,description=Grid width including the immutable border"`
	Height int `json:"height" jsonschema:"minimum=8,description=Grid height including the immutable border"`

	MinRooms int `json:"minRooms" jsonschema:"minimum=1"`
	MaxRooms int `json:"maxRooms" jsonschema:"minimum=1"`

	RoomMinWidth  int `json:"roomMinWidth" jsonschema:"minimum=1"`
	RoomMaxWidth  int `json:"roomMaxWidth" jsonschema:"minimum=1"`
	RoomMinHeight int `json:"roomMinHeight" jsonschema:"minimum=1"`
	RoomMaxHeight int `json:"roomMaxHeight" jsonschema:"minimum=1"`

	// MaxPlacementAttempts bounds how often room placement may restart
	// from an empty grid before generation gives up.
	MaxPlacementAttempts int `json:"maxPlacementAttempts" jsonschema:"minimum=1,description=Full placement restarts allowed before generation fails"`
}

// Config captures everything a session needs.
type Config struct {
	// Seed for random number generation. 0 picks a seed from the clock.
	Seed int64 `json:"seed" jsonschema:"description=RNG seed; 0 picks one from the clock"`

	Generation Generation `json:"generation"`

	NumMonsters int `json:"numMonsters" jsonschema:"minimum=0"`
	PlayerSpeed int `json:"playerSpeed" jsonschema:"minimum=1"`
	MinSpeed    int `json:"minMonsterSpeed" jsonschema:"minimum=1"`
	MaxSpeed    int `json:"maxMonsterSpeed" jsonschema:"minimum=1"`

	// Diagonal enables 8-connected movement in the cost maps.
	Diagonal bool `json:"diagonal" jsonschema:"description=Use king moves in the monster cost maps"`

	SavePath    string `json:"savePath,omitempty"`
	RankingPath string `json:"rankingPath,omitempty"`

	RedrawInterval time.Duration `json:"redrawInterval" jsonschema:"description=Viewer redraw period in nanoseconds"`
}

// DefaultGeneration matches the classic 80x21 level.
func DefaultGeneration() Generation {
	return Generation{
		Width:                world.DefaultWidth,
		Height:               world.DefaultHeight,
		MinRooms:             5,
		MaxRooms:             9,
		RoomMinWidth:         4,
		RoomMaxWidth:         14,
		RoomMinHeight:        2,
		RoomMaxHeight:        8,
		MaxPlacementAttempts: 50000,
	}
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	return Config{
		Generation:     DefaultGeneration(),
		NumMonsters:    10,
		PlayerSpeed:    10,
		MinSpeed:       5,
		MaxSpeed:       20,
		Diagonal:       true,
		RedrawInterval: 200 * time.Millisecond,
	}
}

// Validate checks that the configuration describes a level that can exist.
func (c Config) Validate() error {
	g := c.Generation
	switch {
	case g.Width < 10 || g.Height < 8:
		return fmt.Errorf("%w: grid %dx%d is too small", ErrInvalid, g.Width, g.Height)
	case g.Width-2 > 255 || g.Height-2 > 255:
		return fmt.Errorf("%w: grid %dx%d does not fit the save format", ErrInvalid, g.Width, g.Height)
	case g.MinRooms < 1 || g.MaxRooms < g.MinRooms:
		return fmt.Errorf("%w: room count range [%d, %d]", ErrInvalid, g.MinRooms, g.MaxRooms)
	case g.RoomMinWidth < 1 || g.RoomMaxWidth < g.RoomMinWidth:
		return fmt.Errorf("%w: room width range [%d, %d]", ErrInvalid, g.RoomMinWidth, g.RoomMaxWidth)
	case g.RoomMinHeight < 1 || g.RoomMaxHeight < g.RoomMinHeight:
		return fmt.Errorf("%w: room height range [%d, %d]", ErrInvalid, g.RoomMinHeight, g.RoomMaxHeight)
	case g.RoomMaxWidth+2 > g.Width-2 || g.RoomMaxHeight+2 > g.Height-2:
		return fmt.Errorf("%w: largest room %dx%d does not fit in %dx%d", ErrInvalid, g.RoomMaxWidth, g.RoomMaxHeight, g.Width, g.Height)
	case g.MaxPlacementAttempts < 1:
		return fmt.Errorf("%w: maxPlacementAttempts must be positive", ErrInvalid)
	case c.NumMonsters < 0:
		return fmt.Errorf("%w: numMonsters is negative", ErrInvalid)
	case c.PlayerSpeed < 1 || c.MinSpeed < 1 || c.MaxSpeed < c.MinSpeed:
		return fmt.Errorf("%w: speeds player=%d monsters=[%d, %d]", ErrInvalid, c.PlayerSpeed, c.MinSpeed, c.MaxSpeed)
	case c.RedrawInterval <= 0:
		return fmt.Errorf("%w: redrawInterval must be positive", ErrInvalid)
	}
	return nil
}

// Load reads a JSON file over the defaults. Fields missing from the file keep
// their default values.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Schema describes the config file format.
func Schema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
	}
	schema := reflector.Reflect(new(Config))
	schema.Title = "undercroft configuration"
	schema.Description = "Generation and session tunables loaded with -config"
	return schema
}
