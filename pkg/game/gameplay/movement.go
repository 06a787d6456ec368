// Package gameplay provides core game logic for player commands and monster turns.
package gameplay

import (
	"undercroft/pkg/engine/world"
	"undercroft/pkg/game/entities"
	"undercroft/pkg/game/pathfind"
	"undercroft/pkg/game/state"
)

// MovePlayer moves the player one step in dir. Walking into a monster kills
// it and takes its place. Returns whether the move used up the turn.
func MovePlayer(g *state.Game, dir world.Direction) bool {
	if dir.IsDiagonal() && !g.Config.Diagonal {
		logMessage(g, "You can only move in straight lines here.")
		return false
	}

	to := g.Player.Pos.Add(dir)
	moved, occupant := g.MovePlayer(to)
	if occupant != nil {
		g.KillActor(occupant)
		moved, _ = g.MovePlayer(to)
	}
	if moved {
		describeTile(g)
		return true
	}
	if occupant != nil {
		return true
	}

	logMessage(g, "There is rock in the way.")
	return false
}

// describeTile mentions any landmark under the player.
func describeTile(g *state.Game) {
	switch g.Grid.TerrainAt(g.Player.Pos.X, g.Player.Pos.Y) {
	case world.StairsUp:
		logMessage(g, "There is a staircase up here.")
	case world.StairsDown:
		logMessage(g, "There is a staircase down here.")
	case world.Recovery:
		logMessage(g, "You feel rested here.")
	}
}

// MonsterTurn walks m one step down its cost map towards the player.
// Tunnelers follow the tunnel map and dig; everything else follows the
// blocked map. A monster reaching the player kills it.
func MonsterTurn(g *state.Game, m *entities.Actor) error {
	kind := pathfind.Blocked
	if m.Tunneling {
		kind = pathfind.Tunnel
	}

	next, ok := g.Paths.NextStep(kind, m.Pos)
	if !ok {
		return nil
	}

	if _, occupant := g.MoveActor(m, next); occupant != nil && occupant.IsPlayer() {
		logMessage(g, "The %s catches you.", m.Name)
		g.KillActor(occupant)
	}
	return nil
}

// logMessage adds a translated, formatted message to the game's message log
func logMessage(g *state.Game, msg string, a ...any) {
	g.AddMessage(tr(msg, a...))
}
