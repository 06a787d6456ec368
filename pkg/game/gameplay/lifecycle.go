package gameplay

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"undercroft/pkg/engine/world"
	"undercroft/pkg/game/config"
	"undercroft/pkg/game/entities"
	"undercroft/pkg/game/persistence"
	"undercroft/pkg/game/ranking"
	"undercroft/pkg/game/state"
)

// Source says where the first level comes from. At most one field should be
// set; an empty Source generates a fresh level.
type Source struct {
	SavePath  string // RLG327 save file
	PGMPath   string // binary PGM heightmap
	ImagePath string // PNG or BMP heightmap
}

// Grid reads the level named by src, or returns nil when src is empty.
func (src Source) Grid(gen config.Generation) (*world.Grid, error) {
	w, h := gen.Width, gen.Height
	switch {
	case src.SavePath != "":
		return persistence.Load(src.SavePath, w, h)
	case src.PGMPath != "":
		return persistence.ImportPGM(src.PGMPath, w, h)
	case src.ImagePath != "":
		return persistence.ImportImage(src.ImagePath, w, h)
	}
	return nil, nil
}

// BuildGame creates a new session with its first level ready to play.
func BuildGame(ctx context.Context, cfg config.Config, src Source, logger *slog.Logger) (*state.Game, error) {
	g := state.NewGame(cfg, logger)

	grid, err := src.Grid(cfg.Generation)
	if err != nil {
		return nil, fmt.Errorf("load first level: %w", err)
	}
	if grid != nil {
		err = g.LoadLevel(grid)
	} else {
		err = g.NewLevel(ctx)
	}
	if err != nil {
		return nil, err
	}

	// Placement chatter is not worth showing on the first screen.
	g.DrainMessages()
	logMessage(g, "Welcome to the undercroft!")
	logMessage(g, "%d monsters roam level %d.", g.MonstersLeft(), g.Level)
	return g, nil
}

// Simulate runs up to turns actor turns without a viewer. The player rests
// while the monsters hunt it. Returns the number of turns taken; a dead
// player ends the run early without error.
func Simulate(g *state.Game, turns int) (int, error) {
	for i := 0; i < turns; i++ {
		_, err := g.Advance(func(a *entities.Actor) error {
			if a.IsPlayer() {
				return nil
			}
			return MonsterTurn(g, a)
		})
		switch {
		case errors.Is(err, state.ErrGameOver):
			return i + 1, nil
		case err != nil:
			return i, err
		}
	}
	return turns, nil
}

// FinishGame enters the session's score on the ranking board stored at path.
// Returns the updated board and whether the score made it on.
func FinishGame(g *state.Game, path, name string) (*ranking.Board, bool, error) {
	board, err := ranking.Load(path)
	if err != nil {
		return nil, false, err
	}
	if !board.Record(name, g.Beaten) {
		return board, false, nil
	}
	if err := board.Save(path); err != nil {
		return board, true, err
	}
	return board, true, nil
}
