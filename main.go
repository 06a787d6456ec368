package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/leonelquinteros/gotext"

	"undercroft/pkg/engine/terminal"
	"undercroft/pkg/game/config"
	"undercroft/pkg/game/devtools"
	"undercroft/pkg/game/gameplay"
	"undercroft/pkg/game/persistence"
	"undercroft/pkg/game/ranking"
	"undercroft/pkg/game/renderer"
	"undercroft/pkg/game/renderer/tui"
	"undercroft/pkg/game/state"
)

func main() {
	configPath := flag.String("config", "", "JSON configuration file overlaid on the defaults")
	seed := flag.Int64("seed", 0, "RNG seed (0 keeps the configured seed, or picks one from the clock)")
	load := flag.Bool("load", false, "start from the saved dungeon instead of generating one")
	save := flag.Bool("save", false, "save the starting dungeon")
	importPGM := flag.String("import-pgm", "", "start from a binary PGM heightmap")
	importImage := flag.String("import-image", "", "start from a PNG or BMP heightmap")
	exportPGM := flag.String("export-pgm", "", "write the starting dungeon as a PGM heightmap")
	schema := flag.Bool("schema", false, "print the configuration JSON schema and exit")
	dump := flag.Bool("dump", false, "print a debug dump instead of starting the viewer")
	views := flag.String("view", "", "comma separated debug maps for -dump: distance, tunnel, hardness")
	turns := flag.Int("turns", 0, "with -dump, let the monsters hunt for this many turns first")
	name := flag.String("name", defaultName(), "name entered on the ranking board")
	locales := flag.String("locales", "", "directory holding gettext catalogs")
	lang := flag.String("lang", "en_US", "catalog language")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if *locales != "" {
		gotext.Configure(*locales, *lang, "default")
	}

	if *schema {
		out, err := json.MarshalIndent(config.Schema(), "", "  ")
		if err != nil {
			fail(err)
		}
		fmt.Println(string(out))
		return
	}

	cfg, err := loadConfig(*configPath, *seed)
	if err != nil {
		fail(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	src := gameplay.Source{PGMPath: *importPGM, ImagePath: *importImage}
	if *load {
		src.SavePath = cfg.SavePath
	}
	g, err := gameplay.BuildGame(ctx, cfg, src, logger)
	if err != nil {
		fail(err)
	}
	logger.Info("session started", "seed", g.Seed)

	if *save {
		if err := persistence.Save(cfg.SavePath, g.Grid); err != nil {
			fail(err)
		}
	}
	if *exportPGM != "" {
		if err := writePGM(*exportPGM, g); err != nil {
			fail(err)
		}
	}

	if *dump {
		if _, err := gameplay.Simulate(g, *turns); err != nil {
			fail(err)
		}
		v, err := parseViews(*views)
		if err != nil {
			fail(err)
		}
		if err := devtools.WriteDump(os.Stdout, g, terminal.IsInteractive(), v...); err != nil {
			fail(err)
		}
		return
	}

	if err := play(ctx, g, cfg, *name, logger); err != nil {
		fail(err)
	}
}

// loadConfig applies the config file, the seed flag and the default paths.
func loadConfig(path string, seed int64) (config.Config, error) {
	cfg := config.DefaultConfig()
	if path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return cfg, err
		}
	}
	if seed != 0 {
		cfg.Seed = seed
	}

	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	if cfg.SavePath == "" {
		cfg.SavePath = filepath.Join(home, ".undercroft", "dungeon")
	}
	if cfg.RankingPath == "" {
		cfg.RankingPath = filepath.Join(home, ".undercroft", "ranking")
	}
	return cfg, nil
}

func play(ctx context.Context, g *state.Game, cfg config.Config, name string, logger *slog.Logger) error {
	w, h := terminal.GetSize()
	if !terminal.IsInteractive() || !terminal.Fits(w, h, g.Grid.Width(), g.Grid.Height()) {
		return fmt.Errorf("%s", gotext.Get("The viewer needs an interactive terminal of at least %dx%d; try -dump.",
			g.Grid.Width(), g.Grid.Height()+3))
	}

	board, err := ranking.Load(cfg.RankingPath)
	if err != nil {
		logger.Warn("ranking unavailable", "err", err)
		board = ranking.Default()
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	view := tui.New(screen, cfg.RedrawInterval, logger)
	if err := view.Init(); err != nil {
		return err
	}
	view.Highest = board.Highest()

	err = view.Play(ctx, g)
	view.Fini()

	switch {
	case errors.Is(err, state.ErrGameOver):
		fmt.Println(gotext.Get("You died on level %d after beating %d monsters.", g.Level, g.Beaten))
	case errors.Is(err, gameplay.ErrQuit), errors.Is(err, context.Canceled):
		fmt.Println(gotext.Get("You leave the undercroft having beaten %d monsters.", g.Beaten))
	case err != nil:
		return err
	}

	board, ranked, err := gameplay.FinishGame(g, cfg.RankingPath, name)
	if err != nil {
		return err
	}
	if ranked {
		fmt.Println(gotext.Get("You made the ranking!"))
	}
	for i, e := range board.Entries() {
		fmt.Printf("%d. %-20s %d\n", i+1, e.Name, e.Beaten)
	}
	return nil
}

func parseViews(s string) ([]renderer.View, error) {
	var out []renderer.View
	for _, name := range strings.Split(s, ",") {
		switch strings.TrimSpace(name) {
		case "":
		case "distance":
			out = append(out, renderer.ViewDistance)
		case "tunnel":
			out = append(out, renderer.ViewTunnel)
		case "hardness":
			out = append(out, renderer.ViewHardness)
		default:
			return nil, fmt.Errorf("unknown view %q", name)
		}
	}
	return out, nil
}

func writePGM(path string, g *state.Game) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := persistence.EncodePGM(f, g.Grid); err != nil {
		return err
	}
	return f.Close()
}

func defaultName() string {
	if u := os.Getenv("USER"); u != "" {
		return u
	}
	return "player"
}

func fail(err error) {
	slog.Error("undercroft", "err", err)
	os.Exit(1)
}
