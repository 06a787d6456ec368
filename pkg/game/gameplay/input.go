package gameplay

import (
	"context"
	"errors"

	"github.com/leonelquinteros/gotext"

	engineinput "undercroft/pkg/engine/input"
	"undercroft/pkg/game/state"
)

// ErrQuit is returned when the player asks to leave the game.
var ErrQuit = errors.New("gameplay: quit")

// tr looks messages up in the loaded catalog. Keys without a translation
// come back formatted as they are.
var tr = gotext.Get

// ProcessIntent carries out a turn-taking intent for the player. It reports
// whether the player's turn was used up. Display-only intents such as the
// debug screens are left to the viewer and never take a turn.
func ProcessIntent(ctx context.Context, g *state.Game, intent engineinput.Intent) (bool, error) {
	if dir, ok := intent.Direction(); ok {
		return MovePlayer(g, dir), nil
	}

	switch intent.Action {
	case engineinput.ActionNone:
		return false, nil

	case engineinput.ActionRest:
		return true, nil

	case engineinput.ActionStairsUp, engineinput.ActionStairsDown:
		down := intent.Action == engineinput.ActionStairsDown
		err := g.TakeStairs(ctx, down)
		switch {
		case errors.Is(err, state.ErrNotOnStairs):
			if down {
				logMessage(g, "There is no staircase down here.")
			} else {
				logMessage(g, "There is no staircase up here.")
			}
			return false, nil
		case err != nil:
			return false, err
		}
		logMessage(g, "You arrive on level %d.", g.Level)
		return true, nil

	case engineinput.ActionQuit:
		return false, ErrQuit
	}

	return false, nil
}
