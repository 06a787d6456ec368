// Package devtools provides developer tools for testing and debugging.
package devtools

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gookit/color"

	"undercroft/pkg/game/renderer"
	"undercroft/pkg/game/state"
)

var (
	colorPlayer   = color.Style{color.FgGreen, color.OpBold}
	colorMonster  = color.Style{color.FgRed}
	colorDigger   = color.Style{color.FgYellow}
	colorLandmark = color.Style{color.FgCyan, color.OpBold}
	colorHall     = color.Style{color.FgGray}
	colorHeading  = color.Style{color.FgMagenta, color.OpBold}
)

// WriteDump writes a full debug dump of the session: metadata, legend, the
// terrain map with actors, the requested debug views and the actor list.
// With colorize set, glyphs and headings carry ANSI colours.
func WriteDump(w io.Writer, g *state.Game, colorize bool, views ...renderer.View) error {
	if g.Grid == nil {
		return fmt.Errorf("no grid")
	}
	bw := bufio.NewWriter(w)

	heading := func(s string) {
		if colorize {
			s = colorHeading.Sprint(s)
		}
		fmt.Fprintln(bw, s)
	}

	// --- Metadata ---
	heading("--- Metadata ---")
	fmt.Fprintf(bw, "seed: %d\n", g.Seed)
	fmt.Fprintf(bw, "level: %d\n", g.Level)
	fmt.Fprintf(bw, "grid: %dx%d\n", g.Grid.Width(), g.Grid.Height())
	fmt.Fprintf(bw, "rooms: %d\n", len(g.Grid.Rooms()))
	fmt.Fprintf(bw, "player: %v\n", g.Player.Pos)
	fmt.Fprintf(bw, "monsters_left: %d\n", g.MonstersLeft())
	fmt.Fprintf(bw, "beaten: %d\n", g.Beaten)
	fmt.Fprintln(bw)

	// --- Legend ---
	heading("--- Legend ---")
	fmt.Fprintln(bw, ". = room floor  # = corridor  < > = stairs  + = recovery  @ = player  m = monster  t = tunneler")
	fmt.Fprintln(bw)

	heading("--- Map ---")
	writeMap(bw, g, renderer.ViewTerrain, colorize)
	fmt.Fprintln(bw)

	for _, v := range views {
		heading(fmt.Sprintf("--- %s ---", viewName(v)))
		writeMap(bw, g, v, false)
		fmt.Fprintln(bw)
	}

	heading("--- Rooms ---")
	for i, r := range g.Grid.Rooms() {
		fmt.Fprintf(bw, "  %d: x: %d y: %d w: %d h: %d\n", i, r.X, r.Y, r.Width, r.Height)
	}
	fmt.Fprintln(bw)

	heading("--- Actors ---")
	fmt.Fprintf(bw, "  %v\n", g.Player)
	for _, m := range g.Monsters {
		status := "alive"
		if !m.Alive() {
			status = "dead"
		}
		fmt.Fprintf(bw, "  %v tunneling: %v %s\n", m, m.Tunneling, status)
	}

	return bw.Flush()
}

// writeMap writes one view of the grid with actors overlaid on terrain.
func writeMap(w io.Writer, g *state.Game, v renderer.View, colorize bool) {
	glyphs := make([][]string, g.Grid.Height())
	for y := range glyphs {
		glyphs[y] = make([]string, g.Grid.Width())
		for x := range glyphs[y] {
			r := renderer.Glyph(g, v, x, y)
			s := string(r)
			if colorize {
				switch r {
				case renderer.GlyphStairsUp, renderer.GlyphStairsDown, renderer.GlyphRecovery:
					s = colorLandmark.Sprint(s)
				case renderer.GlyphHall:
					s = colorHall.Sprint(s)
				}
			}
			glyphs[y][x] = s
		}
	}

	if v == renderer.ViewTerrain {
		for _, m := range g.Monsters {
			if !m.Alive() {
				continue
			}
			s := string(m.Glyph)
			if colorize {
				if m.Tunneling {
					s = colorDigger.Sprint(s)
				} else {
					s = colorMonster.Sprint(s)
				}
			}
			glyphs[m.Pos.Y][m.Pos.X] = s
		}
	}
	if g.Player.Alive() {
		s := string(g.Player.Glyph)
		if colorize {
			s = colorPlayer.Sprint(s)
		}
		glyphs[g.Player.Pos.Y][g.Player.Pos.X] = s
	}

	for _, row := range glyphs {
		for _, s := range row {
			fmt.Fprint(w, s)
		}
		fmt.Fprintln(w)
	}
}

func viewName(v renderer.View) string {
	switch v {
	case renderer.ViewDistance:
		return "Distance map"
	case renderer.ViewTunnel:
		return "Tunneling map"
	case renderer.ViewHardness:
		return "Hardness map"
	default:
		return "Map"
	}
}

// DumpToFile writes an uncoloured dump with every debug view to path and
// returns its absolute path.
func DumpToFile(g *state.Game, path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}

	f, err := os.Create(absPath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if err := WriteDump(f, g, false, renderer.ViewDistance, renderer.ViewTunnel, renderer.ViewHardness); err != nil {
		return "", err
	}
	return absPath, f.Close()
}
