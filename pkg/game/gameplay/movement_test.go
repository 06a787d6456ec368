package gameplay

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	engineinput "undercroft/pkg/engine/input"
	"undercroft/pkg/engine/world"
	"undercroft/pkg/game/config"
	"undercroft/pkg/game/entities"
	"undercroft/pkg/game/generator"
	"undercroft/pkg/game/persistence"
	"undercroft/pkg/game/state"
)

// makeCorridorGame creates a Game on a 16x6 grid with one 10x2 room at
// (2,2). Stairs are placed by hand so LoadLevel adds no landmarks, and the
// player stands at (3,2) with no monsters.
func makeCorridorGame(t *testing.T) *state.Game {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Seed = 9
	cfg.NumMonsters = 0
	g := state.NewGame(cfg, nil)

	grid := world.NewGrid(16, 6)
	grid.AddRoom(world.Room{X: 2, Y: 2, Width: 10, Height: 2})
	grid.Carve(11, 2, world.StairsDown)
	grid.Carve(11, 3, world.StairsUp)
	if err := g.LoadLevel(grid); err != nil {
		t.Fatalf("LoadLevel() = %v", err)
	}

	g.Player.Pos = world.Point{X: 3, Y: 2}
	g.Paths.Recompute(grid, g.Player.Pos)
	g.DrainMessages()
	return g
}

func addMonster(g *state.Game, pos world.Point, tunneling bool) *entities.Actor {
	m := entities.NewMonster(len(g.Monsters)+1, pos, 10, tunneling)
	g.Monsters = append(g.Monsters, m)
	g.Turns.Schedule(m, 0)
	return m
}

func TestMovePlayer_Floor(t *testing.T) {
	g := makeCorridorGame(t)

	if !MovePlayer(g, world.East) {
		t.Fatal("MovePlayer(East) = false, want true")
	}
	if want := (world.Point{X: 4, Y: 2}); g.Player.Pos != want {
		t.Errorf("player at %v, want %v", g.Player.Pos, want)
	}
}

func TestMovePlayer_RockTakesNoTurn(t *testing.T) {
	g := makeCorridorGame(t)

	if MovePlayer(g, world.North) {
		t.Error("MovePlayer(North) into rock = true, want false")
	}
	if got := g.DrainMessages(); len(got) != 1 {
		t.Errorf("messages = %v, want one complaint", got)
	}
}

func TestMovePlayer_DiagonalDisabled(t *testing.T) {
	g := makeCorridorGame(t)
	g.Config.Diagonal = false

	if MovePlayer(g, world.SouthEast) {
		t.Error("MovePlayer(SouthEast) with diagonals off = true, want false")
	}
	if want := (world.Point{X: 3, Y: 2}); g.Player.Pos != want {
		t.Errorf("player at %v, want %v", g.Player.Pos, want)
	}
}

func TestMovePlayer_KillsMonster(t *testing.T) {
	g := makeCorridorGame(t)
	m := addMonster(g, world.Point{X: 4, Y: 2}, false)

	if !MovePlayer(g, world.East) {
		t.Fatal("MovePlayer(East) onto monster = false, want true")
	}
	if m.Alive() {
		t.Error("monster survived being walked into")
	}
	if g.Beaten != 1 {
		t.Errorf("Beaten = %d, want 1", g.Beaten)
	}
	if want := (world.Point{X: 4, Y: 2}); g.Player.Pos != want {
		t.Errorf("player at %v, want %v", g.Player.Pos, want)
	}
}

func TestMonsterTurn_ApproachesAndKills(t *testing.T) {
	g := makeCorridorGame(t)
	m := addMonster(g, world.Point{X: 6, Y: 2}, false)

	if err := MonsterTurn(g, m); err != nil {
		t.Fatalf("MonsterTurn() = %v", err)
	}
	if m.Pos.X != 5 {
		t.Errorf("monster at %v, want x = 5", m.Pos)
	}
	MonsterTurn(g, m)
	if m.Pos.X != 4 {
		t.Errorf("monster at %v, want x = 4", m.Pos)
	}
	MonsterTurn(g, m)
	if g.Player.Alive() {
		t.Error("player survived an adjacent monster's turn")
	}
}

func TestMonsterTurn_TunnelerDigs(t *testing.T) {
	g := makeCorridorGame(t)
	for y := 1; y <= 4; y++ {
		g.Grid.SetHardness(12, y, 50)
	}
	g.Paths.Recompute(g.Grid, g.Player.Pos)
	m := addMonster(g, world.Point{X: 13, Y: 2}, true)

	if err := MonsterTurn(g, m); err != nil {
		t.Fatalf("MonsterTurn() = %v", err)
	}
	if m.Pos.X != 12 {
		t.Fatalf("tunneler at %v, want x = 12", m.Pos)
	}
	if got := g.Grid.TerrainAt(m.Pos.X, m.Pos.Y); got != world.FloorHall {
		t.Errorf("TerrainAt(%v) = %v, want FloorHall", m.Pos, got)
	}
}

func TestMonsterTurn_StuckStaysPut(t *testing.T) {
	g := makeCorridorGame(t)
	m := addMonster(g, world.Point{X: 14, Y: 4}, false)

	if err := MonsterTurn(g, m); err != nil {
		t.Fatalf("MonsterTurn() = %v", err)
	}
	if want := (world.Point{X: 14, Y: 4}); m.Pos != want {
		t.Errorf("walled-in monster moved to %v", m.Pos)
	}
}

func TestProcessIntent(t *testing.T) {
	ctx := context.Background()

	t.Run("rest", func(t *testing.T) {
		g := makeCorridorGame(t)
		acted, err := ProcessIntent(ctx, g, engineinput.Intent{Action: engineinput.ActionRest})
		if !acted || err != nil {
			t.Errorf("ProcessIntent(Rest) = %v, %v, want true, nil", acted, err)
		}
	})

	t.Run("quit", func(t *testing.T) {
		g := makeCorridorGame(t)
		if _, err := ProcessIntent(ctx, g, engineinput.Intent{Action: engineinput.ActionQuit}); !errors.Is(err, ErrQuit) {
			t.Errorf("ProcessIntent(Quit) = %v, want ErrQuit", err)
		}
	})

	t.Run("stairs elsewhere", func(t *testing.T) {
		g := makeCorridorGame(t)
		acted, err := ProcessIntent(ctx, g, engineinput.Intent{Action: engineinput.ActionStairsDown})
		if acted || err != nil {
			t.Errorf("ProcessIntent(StairsDown) off stairs = %v, %v, want false, nil", acted, err)
		}
	})

	t.Run("stairs down", func(t *testing.T) {
		g := makeCorridorGame(t)
		g.Player.Pos = world.Point{X: 11, Y: 2}
		acted, err := ProcessIntent(ctx, g, engineinput.Intent{Action: engineinput.ActionStairsDown})
		if !acted || err != nil {
			t.Fatalf("ProcessIntent(StairsDown) = %v, %v, want true, nil", acted, err)
		}
		if g.Level != 2 {
			t.Errorf("Level = %d, want 2", g.Level)
		}
	})

	t.Run("move", func(t *testing.T) {
		g := makeCorridorGame(t)
		acted, _ := ProcessIntent(ctx, g, engineinput.Intent{Action: engineinput.ActionMoveSouth})
		if !acted || g.Player.Pos != (world.Point{X: 3, Y: 3}) {
			t.Errorf("ProcessIntent(MoveSouth) = %v, player at %v", acted, g.Player.Pos)
		}
	})
}

func TestBuildGameFromSave(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Seed = 11

	fresh, err := BuildGame(context.Background(), cfg, Source{}, nil)
	if err != nil {
		t.Fatalf("BuildGame() = %v", err)
	}
	if got := fresh.PendingMessages(); got != 2 {
		t.Errorf("PendingMessages() = %d, want 2 welcome lines", got)
	}

	path := filepath.Join(t.TempDir(), "dungeon")
	if err := persistence.Save(path, fresh.Grid); err != nil {
		t.Fatal(err)
	}

	loaded, err := BuildGame(context.Background(), cfg, Source{SavePath: path}, nil)
	if err != nil {
		t.Fatalf("BuildGame(save) = %v", err)
	}
	if got, want := len(loaded.Grid.Rooms()), len(fresh.Grid.Rooms()); got != want {
		t.Errorf("loaded %d rooms, want %d", got, want)
	}

	if _, err := BuildGame(context.Background(), cfg, Source{PGMPath: filepath.Join(t.TempDir(), "none.pgm")}, nil); !errors.Is(err, persistence.ErrIO) {
		t.Errorf("BuildGame(missing pgm) = %v, want ErrIO", err)
	}
}

func TestBuildGameFromSolidRockPGM(t *testing.T) {
	cfg := config.DefaultConfig()
	w, h := cfg.Generation.Width-2, cfg.Generation.Height-2

	var pgm bytes.Buffer
	fmt.Fprintf(&pgm, "P5\n# all rock\n%d %d\n255\n", w, h)
	pgm.Write(bytes.Repeat([]byte{128}, w*h))
	path := filepath.Join(t.TempDir(), "rock.pgm")
	if err := os.WriteFile(path, pgm.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := BuildGame(context.Background(), cfg, Source{PGMPath: path}, nil); !errors.Is(err, generator.ErrGenerationFailure) {
		t.Errorf("BuildGame(solid rock) = %v, want ErrGenerationFailure", err)
	}
}

func TestSimulate(t *testing.T) {
	g := makeCorridorGame(t)
	addMonster(g, world.Point{X: 9, Y: 3}, false)

	// Five squares away, the monster reaches the player well within the
	// budget and the run stops early.
	n, err := Simulate(g, 100)
	if err != nil {
		t.Fatalf("Simulate() = %v", err)
	}
	if n >= 100 {
		t.Errorf("Simulate() ran all %d turns", n)
	}
	if g.Player.Alive() {
		t.Error("player survived the hunt")
	}
}

func TestFinishGame(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ranking")
	g := makeCorridorGame(t)
	g.Beaten = 4

	board, ranked, err := FinishGame(g, path, "ada")
	if err != nil || !ranked {
		t.Fatalf("FinishGame() = %v, %v, want ranked", ranked, err)
	}
	if board.Highest() != 4 {
		t.Errorf("Highest() = %d, want 4", board.Highest())
	}

	g.Beaten = 0
	if _, ranked, _ := FinishGame(g, path, "bob"); ranked {
		t.Error("FinishGame() with no kills ranked")
	}
}
