// Package entities holds the things that move around a level.
package entities

import (
	"fmt"

	"undercroft/pkg/engine/world"
)

// Kind separates the player from everything else
type Kind int

const (
	KindPlayer  Kind = iota
	KindMonster      // Any non-player actor
)

// Actor is a player or monster on the current level.
type Actor struct {
	ID    int
	Kind  Kind
	Name  string
	Glyph rune

	Pos   world.Point
	Speed int

	// Tunneling actors dig through rock and path with the tunnel map.
	Tunneling bool

	dead bool
}

// NewPlayer creates the player actor
func NewPlayer(pos world.Point, speed int) *Actor {
	return &Actor{
		ID:    0,
		Kind:  KindPlayer,
		Name:  "player",
		Glyph: '@',
		Pos:   pos,
		Speed: speed,
	}
}

// NewMonster creates a monster. Tunnelers are drawn with a 't'.
func NewMonster(id int, pos world.Point, speed int, tunneling bool) *Actor {
	glyph := 'm'
	if tunneling {
		glyph = 't'
	}
	return &Actor{
		ID:        id,
		Kind:      KindMonster,
		Name:      fmt.Sprintf("monster %d", id),
		Glyph:     glyph,
		Pos:       pos,
		Speed:     speed,
		Tunneling: tunneling,
	}
}

// IsPlayer returns true for the player actor
func (a *Actor) IsPlayer() bool {
	return a.Kind == KindPlayer
}

// Alive returns false once the actor has been killed
func (a *Actor) Alive() bool {
	return !a.dead
}

// Kill marks the actor dead. The scheduler drops it on its next turn.
func (a *Actor) Kill() {
	a.dead = true
}

func (a *Actor) String() string {
	return fmt.Sprintf("%s %c at %v speed %d", a.Name, a.Glyph, a.Pos, a.Speed)
}
