package devtools

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gookit/color"

	"undercroft/pkg/game/config"
	"undercroft/pkg/game/renderer"
	"undercroft/pkg/game/state"
)

func newGame(t *testing.T) *state.Game {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Seed = 77
	g := state.NewGame(cfg, nil)
	if err := g.NewLevel(context.Background()); err != nil {
		t.Fatalf("NewLevel() = %v", err)
	}
	return g
}

func TestWriteDump(t *testing.T) {
	g := newGame(t)

	var buf bytes.Buffer
	if err := WriteDump(&buf, g, false, renderer.ViewDistance); err != nil {
		t.Fatalf("WriteDump() = %v", err)
	}
	out := buf.String()

	for _, section := range []string{"--- Metadata ---", "--- Map ---", "--- Distance map ---", "--- Actors ---"} {
		if !strings.Contains(out, section) {
			t.Errorf("dump lacks %q", section)
		}
	}

	lines := strings.Split(out, "\n")
	var mapStart int
	for i, l := range lines {
		if l == "--- Map ---" {
			mapStart = i + 1
			break
		}
	}
	p := g.Player.Pos
	if got := []rune(lines[mapStart+p.Y])[p.X]; got != '@' {
		t.Errorf("map at player = %q, want '@'", got)
	}
	if got := len([]rune(lines[mapStart])); got != g.Grid.Width() {
		t.Errorf("map row width = %d, want %d", got, g.Grid.Width())
	}
}

func TestWriteDumpColorMatchesPlain(t *testing.T) {
	g := newGame(t)

	var plain, colored bytes.Buffer
	if err := WriteDump(&plain, g, false); err != nil {
		t.Fatal(err)
	}
	if err := WriteDump(&colored, g, true); err != nil {
		t.Fatal(err)
	}

	if got := color.ClearCode(colored.String()); got != plain.String() {
		t.Error("coloured dump differs from the plain one once codes are stripped")
	}
}

func TestDumpToFile(t *testing.T) {
	g := newGame(t)
	path := filepath.Join(t.TempDir(), "map.txt")

	abs, err := DumpToFile(g, path)
	if err != nil {
		t.Fatalf("DumpToFile() = %v", err)
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "--- Hardness map ---") {
		t.Error("file dump lacks the hardness map")
	}
}
