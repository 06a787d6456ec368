package state

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/zyedidia/generic/mapset"

	"undercroft/pkg/engine/world"
	"undercroft/pkg/game/config"
	"undercroft/pkg/game/entities"
	"undercroft/pkg/game/generator"
	"undercroft/pkg/game/pathfind"
	"undercroft/pkg/game/scheduler"
)

var (
	// ErrGameOver is returned once the player is dead.
	ErrGameOver = errors.New("state: the player is dead")

	// ErrNotOnStairs is returned when taking stairs from anywhere else.
	ErrNotOnStairs = errors.New("state: not standing on matching stairs")
)

// Game represents one play session: the current level, everything on it and
// the turn order.
type Game struct {
	Config config.Config
	Seed   int64
	Rng    *rand.Rand

	Generator generator.GridGenerator

	Grid     *world.Grid
	Player   *entities.Actor
	Monsters []*entities.Actor

	Turns *scheduler.Scheduler[*entities.Actor]
	Paths *pathfind.Engine

	Level  int // Current level number, counting from 1
	Beaten int // Monsters killed over the whole session

	// pending messages wait to be drained by the UI, Recent keeps the last
	// few for the status line.
	pending []string
	Recent  []string

	nextID int
	levels int // Levels loaded so far
	log    *slog.Logger
}

// NewGame creates a session with no level yet. A zero seed in cfg is
// replaced by one taken from the clock.
func NewGame(cfg config.Config, logger *slog.Logger) *Game {
	if logger == nil {
		logger = slog.Default()
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	conn := pathfind.Conn4
	if cfg.Diagonal {
		conn = pathfind.Conn8
	}

	return &Game{
		Config:    cfg,
		Seed:      seed,
		Rng:       rand.New(rand.NewSource(seed)),
		Generator: generator.NewRoomsAndCorridors(cfg.Generation, logger),
		Turns:     scheduler.New[*entities.Actor](),
		Paths:     pathfind.NewEngine(conn),
		Level:     1,
		log:       logger,
	}
}

// NewLevel generates a fresh level and populates it.
func (g *Game) NewLevel(ctx context.Context) error {
	grid, err := g.Generator.Generate(ctx, g.Rng)
	if err != nil {
		return fmt.Errorf("level %d: %w", g.Level, err)
	}
	return g.LoadLevel(grid)
}

// LoadLevel makes grid the current level. Levels without stairs get
// landmarks placed first. The player and monsters are placed, queued at
// time 0 with the player first, and the cost maps computed. A grid with no
// passable cell is rejected with generator.ErrGenerationFailure.
func (g *Game) LoadLevel(grid *world.Grid) error {
	if up, down := grid.StairsPositions(); len(up) == 0 && len(down) == 0 {
		if err := generator.PlaceLandmarks(grid, g.Rng); err != nil {
			return fmt.Errorf("level %d: %w", g.Level, err)
		}
	}

	pos, ok := randomCell(grid, g.Rng, func(p world.Point) bool {
		return grid.TerrainAt(p.X, p.Y) == world.FloorRoom
	})
	if !ok {
		return fmt.Errorf("level %d: %w: nowhere to stand", g.Level, generator.ErrGenerationFailure)
	}

	g.Grid = grid
	g.Turns.Clear()
	g.Monsters = nil

	if g.Player == nil {
		g.Player = entities.NewPlayer(pos, g.Config.PlayerSpeed)
		g.nextID = 1
	}
	g.Player.Pos = pos
	g.Turns.Schedule(g.Player, 0)

	occupied := mapset.New[world.Point]()
	occupied.Put(pos)
	playerRoom := grid.RoomAt(pos)
	for i := 0; i < g.Config.NumMonsters; i++ {
		mp, ok := randomCell(grid, g.Rng, func(p world.Point) bool {
			return !occupied.Has(p) && grid.RoomAt(p) != playerRoom
		})
		if !ok || occupied.Has(mp) {
			break
		}
		m := entities.NewMonster(g.nextID, mp,
			g.Config.MinSpeed+g.Rng.Intn(g.Config.MaxSpeed-g.Config.MinSpeed+1),
			g.Rng.Intn(2) == 0)
		g.nextID++
		occupied.Put(mp)
		g.Monsters = append(g.Monsters, m)
		g.Turns.Schedule(m, 0)
	}

	g.Paths.Recompute(grid, g.Player.Pos)
	g.levels++
	g.log.Info("level ready", "level", g.Level, "rooms", len(grid.Rooms()), "monsters", len(g.Monsters))
	return nil
}

// randomCell picks a uniformly random passable cell accepted by ok, or any
// passable cell when ok accepts none. Returns false when nothing is
// passable.
func randomCell(grid *world.Grid, rng *rand.Rand, ok func(world.Point) bool) (world.Point, bool) {
	var candidates, passable []world.Point
	grid.ForEachCell(func(x, y int, c world.Cell) {
		if !c.Passable() {
			return
		}
		p := world.Point{X: x, Y: y}
		passable = append(passable, p)
		if ok(p) {
			candidates = append(candidates, p)
		}
	})
	switch {
	case len(candidates) > 0:
		return candidates[rng.Intn(len(candidates))], true
	case len(passable) > 0:
		return passable[rng.Intn(len(passable))], true
	}
	return world.Point{}, false
}

// ActorAt returns the live actor standing on p, if any.
func (g *Game) ActorAt(p world.Point) *entities.Actor {
	if g.Player != nil && g.Player.Alive() && g.Player.Pos == p {
		return g.Player
	}
	for _, m := range g.Monsters {
		if m.Alive() && m.Pos == p {
			return m
		}
	}
	return nil
}

// MoveActor tries to move a one step to the destination. Tunneling actors
// wear rock down instead of moving until it gives way. Returns whether a
// moved and any live actor already standing on the destination. The caller
// decides what happens to that occupant; a does not move onto it.
func (g *Game) MoveActor(a *entities.Actor, to world.Point) (bool, *entities.Actor) {
	if occupant := g.ActorAt(to); occupant != nil && occupant != a {
		return false, occupant
	}

	c := g.Grid.At(to.X, to.Y)
	switch {
	case c.Terrain == world.ImmutableWall:
		return false, nil
	case c.Hardness > 0 && !a.Tunneling:
		return false, nil
	case c.Hardness > 0:
		if c.Hardness > DigStrength {
			g.Grid.SetHardness(to.X, to.Y, c.Hardness-DigStrength)
			g.Paths.Recompute(g.Grid, g.Player.Pos)
			return false, nil
		}
		g.Grid.Carve(to.X, to.Y, world.FloorHall)
		g.Paths.Recompute(g.Grid, g.Player.Pos)
	}

	a.Pos = to
	if a.IsPlayer() {
		g.Paths.Recompute(g.Grid, a.Pos)
	}
	return true, nil
}

// MovePlayer moves the player one step to p. The cost maps follow the
// player whenever it actually moves.
func (g *Game) MovePlayer(p world.Point) (bool, *entities.Actor) {
	return g.MoveActor(g.Player, p)
}

// DigStrength is how much hardness a tunneling actor removes per turn.
const DigStrength = 85

// KillActor kills a and drops it from the turn order. Killing a monster
// counts towards the session score.
func (g *Game) KillActor(a *entities.Actor) {
	if !a.Alive() {
		return
	}
	a.Kill()
	g.Turns.Remove(a)
	if a.IsPlayer() {
		g.AddMessage("You die.")
		return
	}
	g.Beaten++
	g.QueueMessage("You kill %s.", a.Name)
}

// MonstersLeft returns the number of live monsters on the level.
func (g *Game) MonstersLeft() int {
	n := 0
	for _, m := range g.Monsters {
		if m.Alive() {
			n++
		}
	}
	return n
}

// Advance gives the next actor its turn by calling act, then queues it
// again according to its speed. An act that changes level leaves the new
// level's turn order alone. Returns ErrGameOver once the player is
// dead and scheduler.ErrEmptyQueue when nobody is left.
func (g *Game) Advance(act func(a *entities.Actor) error) (*entities.Actor, error) {
	if !g.Player.Alive() {
		return nil, ErrGameOver
	}

	a, _, err := g.Turns.Next()
	if err != nil {
		return nil, err
	}
	level := g.levels
	if err := act(a); err != nil {
		return a, err
	}
	if !g.Player.Alive() {
		return a, ErrGameOver
	}
	// A new level has already queued everyone afresh.
	if level != g.levels {
		return a, nil
	}
	if a.Alive() {
		if _, err := g.Turns.Reschedule(a, a.Speed); err != nil {
			return a, err
		}
	}
	return a, nil
}

// TakeStairs moves the player to a new level when standing on stairs of the
// requested direction.
func (g *Game) TakeStairs(ctx context.Context, down bool) error {
	want := world.StairsUp
	if down {
		want = world.StairsDown
	}
	if g.Grid.TerrainAt(g.Player.Pos.X, g.Player.Pos.Y) != want {
		return ErrNotOnStairs
	}

	if down {
		g.Level++
	} else if g.Level > 1 {
		g.Level--
	}
	return g.NewLevel(ctx)
}

// AddMessage queues a message for the UI and keeps it in the recent log
func (g *Game) AddMessage(msg string) {
	const maxRecent = 5
	g.pending = append(g.pending, msg)
	g.Recent = append(g.Recent, msg)

	// Keep only the last maxRecent
	if len(g.Recent) > maxRecent {
		g.Recent = g.Recent[len(g.Recent)-maxRecent:]
	}
}

// QueueMessage formats and queues a message.
func (g *Game) QueueMessage(format string, args ...any) {
	g.AddMessage(fmt.Sprintf(format, args...))
}

// PendingMessages returns the number of messages not yet drained
func (g *Game) PendingMessages() int {
	return len(g.pending)
}

// DrainMessages returns the queued messages oldest first and empties the queue
func (g *Game) DrainMessages() []string {
	out := g.pending
	g.pending = nil
	return out
}
