// Package renderer holds what every display backend shares: the glyphs for
// terrain and debug maps, the status line and the Renderer interface.
package renderer

import (
	"sort"
	"strings"

	"github.com/leonelquinteros/gotext"

	"undercroft/pkg/engine/world"
	"undercroft/pkg/game/entities"
	"undercroft/pkg/game/pathfind"
	"undercroft/pkg/game/state"
)

// Renderer defines the interface for game rendering backends.
type Renderer interface {
	// Init prepares the display
	Init() error

	// Fini restores the display
	Fini()

	// RenderFrame renders a complete game frame: messages, map and status line
	RenderFrame(g *state.Game)

	// GetViewportSize returns the current viewport dimensions (rows, cols)
	GetViewportSize() (rows, cols int)
}

// View selects what the map area shows.
type View int

const (
	ViewTerrain View = iota
	// ViewDistance shows the blocked cost map.
	ViewDistance
	// ViewTunnel shows the tunnel cost map.
	ViewTunnel
	ViewHardness
)

// DistanceAlphabet labels distances 0 through 61 with a single character.
const DistanceAlphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

// Map glyphs
const (
	GlyphRock       = ' '
	GlyphFloor      = '.'
	GlyphHall       = '#'
	GlyphStairsUp   = '<'
	GlyphStairsDown = '>'
	GlyphRecovery   = '+'
	GlyphDebug      = '*'
	GlyphFar        = '*' // Distance past the end of DistanceAlphabet
	GlyphError      = '0'
)

// tr looks user-facing text up in the loaded catalog.
var tr = gotext.Get

// TerrainGlyph returns the map symbol for t.
func TerrainGlyph(t world.Terrain) rune {
	switch t {
	case world.Wall, world.ImmutableWall, world.Unknown:
		return GlyphRock
	case world.Floor, world.FloorRoom:
		return GlyphFloor
	case world.FloorHall:
		return GlyphHall
	case world.StairsUp:
		return GlyphStairsUp
	case world.StairsDown:
		return GlyphStairsDown
	case world.Recovery:
		return GlyphRecovery
	case world.Debug:
		return GlyphDebug
	default:
		// Zero stands out and is not used otherwise.
		return GlyphError
	}
}

// DistanceGlyph labels a cost map entry. Unreachable cells stay blank.
func DistanceGlyph(d int) rune {
	switch {
	case d == pathfind.Unreachable:
		return GlyphRock
	case d < 0 || d >= len(DistanceAlphabet):
		return GlyphFar
	default:
		return rune(DistanceAlphabet[d])
	}
}

// HardnessGlyph maps hardness 1..255 onto the 61 non-zero labels. Only open
// cells show '0'.
func HardnessGlyph(h uint8) rune {
	if h == 0 {
		return '0'
	}
	return rune(DistanceAlphabet[1+int(h)/5])
}

// Glyph returns what cell (x, y) shows in view v, ignoring actors.
func Glyph(g *state.Game, v View, x, y int) rune {
	switch v {
	case ViewDistance:
		return DistanceGlyph(g.Paths.BlockedCost(x, y))
	case ViewTunnel:
		return DistanceGlyph(g.Paths.TunnelCost(x, y))
	case ViewHardness:
		return HardnessGlyph(g.Grid.HardnessAt(x, y))
	default:
		return TerrainGlyph(g.Grid.TerrainAt(x, y))
	}
}

// StatusLine summarises the session for the bottom of the screen. highest is
// the best score on the ranking board.
func StatusLine(g *state.Game, highest int) string {
	line := tr("LEVEL %d  SPEED %d  SCORE %d  MONSTERS %d",
		g.Level, g.Player.Speed, g.Beaten, g.MonstersLeft())
	if g.Beaten > highest {
		line += " " + tr("HIGHEST SCORE!")
	}
	return line
}

// ViewTitle names a debug view for its header line.
func ViewTitle(v View) string {
	switch v {
	case ViewDistance:
		return tr("Distance map (walking monsters). ESC to return.")
	case ViewTunnel:
		return tr("Tunneling map (digging monsters). ESC to return.")
	case ViewHardness:
		return tr("Hardness map. ESC to return.")
	default:
		return ""
	}
}

// MonsterList describes where each live monster is relative to the player,
// nearest first by walking distance. Monsters no walk reaches come last.
func MonsterList(g *state.Game) []string {
	live := make([]*entities.Actor, 0, len(g.Monsters))
	for _, m := range g.Monsters {
		if m.Alive() {
			live = append(live, m)
		}
	}
	sort.SliceStable(live, func(i, j int) bool {
		return g.Paths.BlockedCost(live[i].Pos.X, live[i].Pos.Y) < g.Paths.BlockedCost(live[j].Pos.X, live[j].Pos.Y)
	})

	lines := make([]string, len(live))
	for i, m := range live {
		lines[i] = tr("%s (%c): %s", m.Name, m.Glyph, relative(m.Pos, g.Player.Pos))
	}
	return lines
}

// relative spells out the offset from one cell to another in compass terms.
func relative(p, from world.Point) string {
	dx, dy := p.X-from.X, p.Y-from.Y

	var parts []string
	switch {
	case dy < 0:
		parts = append(parts, tr("%d north", -dy))
	case dy > 0:
		parts = append(parts, tr("%d south", dy))
	}
	switch {
	case dx < 0:
		parts = append(parts, tr("%d west", -dx))
	case dx > 0:
		parts = append(parts, tr("%d east", dx))
	}
	if len(parts) == 0 {
		return tr("here")
	}
	return strings.Join(parts, ", ")
}
