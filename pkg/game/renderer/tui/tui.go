// Package tui is the tcell terminal viewer.
package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/leonelquinteros/gotext"

	"undercroft/pkg/engine/input"
	"undercroft/pkg/game/entities"
	"undercroft/pkg/game/gameplay"
	"undercroft/pkg/game/renderer"
	"undercroft/pkg/game/state"
)

// Layout: message line, then the map, a blank line and the status line.
const (
	messageRow = 0
	mapTop     = 1
)

var tr = gotext.Get

var _ renderer.Renderer = (*TUIRenderer)(nil)

// TUIRenderer is the terminal-based renderer implementation
type TUIRenderer struct {
	screen   tcell.Screen
	timer    *RedrawTimer
	bindings input.Bindings

	events chan tcell.Event
	quit   chan struct{}

	// Highest is the best score on the ranking board, for the status line.
	Highest int

	view renderer.View

	stylePlain    tcell.Style
	styleSubtle   tcell.Style
	stylePlayer   tcell.Style
	styleMonster  tcell.Style
	styleDigger   tcell.Style
	styleLandmark tcell.Style
	styleMessage  tcell.Style

	log *slog.Logger
}

// New creates a TUI renderer drawing on screen. The screen is initialised by Init.
func New(screen tcell.Screen, redraw time.Duration, logger *slog.Logger) *TUIRenderer {
	if logger == nil {
		logger = slog.Default()
	}
	return &TUIRenderer{
		screen:   screen,
		timer:    NewRedrawTimer(redraw),
		bindings: input.DefaultBindings(),
		events:   make(chan tcell.Event, 16),
		quit:     make(chan struct{}),
		log:      logger,
	}
}

// Init initializes the screen and starts reading its events.
func (t *TUIRenderer) Init() error {
	if err := t.screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}

	t.stylePlain = tcell.StyleDefault
	t.styleSubtle = tcell.StyleDefault.Foreground(tcell.ColorGray)
	t.stylePlayer = tcell.StyleDefault.Foreground(tcell.ColorGreen).Bold(true)
	t.styleMonster = tcell.StyleDefault.Foreground(tcell.ColorRed)
	t.styleDigger = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	t.styleLandmark = tcell.StyleDefault.Foreground(tcell.ColorAqua).Bold(true)
	t.styleMessage = tcell.StyleDefault.Foreground(tcell.ColorFuchsia)

	go t.pump()
	return nil
}

// Fini stops the timer and restores the terminal.
func (t *TUIRenderer) Fini() {
	t.timer.Stop()
	close(t.quit)
	t.screen.Fini()
}

// pump forwards screen events until the screen is finalised.
func (t *TUIRenderer) pump() {
	for {
		ev := t.screen.PollEvent()
		if ev == nil {
			close(t.events)
			return
		}
		select {
		case t.events <- ev:
		case <-t.quit:
			return
		}
	}
}

// GetViewportSize returns the screen dimensions
func (t *TUIRenderer) GetViewportSize() (rows, cols int) {
	cols, rows = t.screen.Size()
	return rows, cols
}

// RenderFrame renders a complete game frame
func (t *TUIRenderer) RenderFrame(g *state.Game) {
	t.screen.Clear()

	if t.view != renderer.ViewTerrain {
		t.drawText(0, messageRow, renderer.ViewTitle(t.view), t.styleMessage)
	} else if n := len(g.Recent); n > 0 {
		t.drawText(0, messageRow, g.Recent[n-1], t.styleSubtle)
	}

	t.drawMap(g)
	t.drawText(0, mapTop+g.Grid.Height()+1, renderer.StatusLine(g, t.Highest), t.stylePlain)
	t.screen.Show()
}

func (t *TUIRenderer) drawMap(g *state.Game) {
	for y := 0; y < g.Grid.Height(); y++ {
		for x := 0; x < g.Grid.Width(); x++ {
			r := renderer.Glyph(g, t.view, x, y)
			style := t.stylePlain
			if t.view == renderer.ViewTerrain {
				switch r {
				case renderer.GlyphStairsUp, renderer.GlyphStairsDown, renderer.GlyphRecovery:
					style = t.styleLandmark
				}
			}
			t.screen.SetContent(x, mapTop+y, r, nil, style)
		}
	}

	// Debug views show the numbers under the actors, except the player
	// who marks the origin.
	if t.view == renderer.ViewTerrain {
		for _, m := range g.Monsters {
			if m.Alive() {
				t.drawActor(m)
			}
		}
	}
	if g.Player.Alive() {
		t.drawActor(g.Player)
	}
}

func (t *TUIRenderer) drawActor(a *entities.Actor) {
	style := t.styleMonster
	switch {
	case a.IsPlayer():
		style = t.stylePlayer
	case a.Tunneling:
		style = t.styleDigger
	}
	t.screen.SetContent(a.Pos.X, mapTop+a.Pos.Y, a.Glyph, nil, style)
}

func (t *TUIRenderer) drawText(x, y int, s string, style tcell.Style) {
	w, _ := t.screen.Size()
	for i := x; i < w; i++ {
		t.screen.SetContent(i, y, ' ', nil, style)
	}
	for _, r := range s {
		if x >= w {
			break
		}
		t.screen.SetContent(x, y, r, nil, style)
		x++
	}
}

// Play runs the game loop until the player dies or quits. It returns
// state.ErrGameOver on death and gameplay.ErrQuit when the player quits.
func (t *TUIRenderer) Play(ctx context.Context, g *state.Game) error {
	t.timer.Start(ctx)
	defer t.timer.Stop()

	for {
		_, err := g.Advance(func(a *entities.Actor) error {
			if a.IsPlayer() {
				return t.playerTurn(ctx, g)
			}
			return gameplay.MonsterTurn(g, a)
		})
		if errors.Is(err, state.ErrGameOver) {
			t.RenderFrame(g)
			if err := t.showMessages(ctx, g, true); err != nil {
				return err
			}
			return state.ErrGameOver
		}
		if err != nil {
			return err
		}
	}
}

// playerTurn redraws on timer ticks while waiting for a command that uses
// up the turn.
func (t *TUIRenderer) playerTurn(ctx context.Context, g *state.Game) error {
	t.RenderFrame(g)
	if err := t.showMessages(ctx, g, false); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-t.timer.C():
			t.RenderFrame(g)

		case ev, ok := <-t.events:
			if !ok {
				return gameplay.ErrQuit
			}
			key, isKey := ev.(*tcell.EventKey)
			if !isKey {
				t.handleOther(ev, g)
				continue
			}

			intent := t.intent(key)
			switch intent.Action {
			case input.ActionShowDistance:
				if err := t.showView(ctx, g, renderer.ViewDistance); err != nil {
					return err
				}
				continue
			case input.ActionShowTunnel:
				if err := t.showView(ctx, g, renderer.ViewTunnel); err != nil {
					return err
				}
				continue
			case input.ActionShowHardness:
				if err := t.showView(ctx, g, renderer.ViewHardness); err != nil {
					return err
				}
				continue
			case input.ActionShowMonsters:
				if err := t.showMonsters(ctx, g); err != nil {
					return err
				}
				continue
			case input.ActionHelp:
				if err := t.showHelp(ctx, g); err != nil {
					return err
				}
				continue
			}

			acted, err := gameplay.ProcessIntent(ctx, g, intent)
			if err != nil || acted {
				return err
			}
			t.RenderFrame(g)
			if err := t.showMessages(ctx, g, false); err != nil {
				return err
			}
		}
	}
}

func (t *TUIRenderer) handleOther(ev tcell.Event, g *state.Game) {
	if _, ok := ev.(*tcell.EventResize); ok {
		t.screen.Sync()
		t.RenderFrame(g)
	}
}

// showMessages drains the message queue onto the top line, one at a time,
// waiting for a key between them. With waitLast the final message also
// waits. Redraws are held back so the line is not overwritten.
func (t *TUIRenderer) showMessages(ctx context.Context, g *state.Game, waitLast bool) error {
	release := t.timer.Suppress()
	defer release()

	msgs := g.DrainMessages()
	for i, msg := range msgs {
		last := i == len(msgs)-1
		if !last || waitLast {
			msg += " " + tr("--more--")
		}
		t.drawText(0, messageRow, msg, t.styleMessage)
		t.screen.Show()

		if !last || waitLast {
			if _, err := t.waitKey(ctx, g); err != nil {
				return err
			}
		}
	}
	return nil
}

// showView shows a debug map until it is dismissed.
func (t *TUIRenderer) showView(ctx context.Context, g *state.Game, v renderer.View) error {
	release := t.timer.Suppress()
	defer release()

	t.view = v
	defer func() {
		t.view = renderer.ViewTerrain
		t.RenderFrame(g)
	}()
	t.RenderFrame(g)
	t.log.Debug("debug view", "view", v)

	for {
		key, err := t.waitKey(ctx, g)
		if err != nil {
			return err
		}
		switch t.intent(key).Action {
		case input.ActionDismiss, input.ActionQuit:
			return nil
		}
	}
}

// showHelp lists the key bindings until any key is pressed.
func (t *TUIRenderer) showHelp(ctx context.Context, g *state.Game) error {
	release := t.timer.Suppress()
	defer release()
	defer t.RenderFrame(g)

	byAction := t.bindings.ByAction()
	actions := make([]input.Action, 0, len(byAction))
	for a := range byAction {
		actions = append(actions, a)
	}
	sort.Slice(actions, func(i, j int) bool { return actions[i] < actions[j] })

	t.screen.Clear()
	t.drawText(0, 0, tr("Keys. Press any key to return."), t.styleMessage)
	for i, a := range actions {
		t.drawText(2, i+2, fmt.Sprintf("%-16s %v", input.ActionName(a), byAction[a]), t.stylePlain)
	}
	t.screen.Show()

	_, err := t.waitKey(ctx, g)
	return err
}

// showMonsters lists the live monsters, nearest first, until Escape.
func (t *TUIRenderer) showMonsters(ctx context.Context, g *state.Game) error {
	release := t.timer.Suppress()
	defer release()
	defer t.RenderFrame(g)

	list := renderer.MonsterList(g)
	w, h := t.screen.Size()

	t.screen.Clear()
	t.drawText(0, 0, tr("You know of %d monsters. ESC to return.", len(list)), t.styleMessage)
	for i, line := range list {
		if i+2 >= h {
			t.drawText(2, h-1, tr("%d more", len(list)-i), t.styleSubtle)
			break
		}
		if len(line) > w-2 {
			line = line[:w-2]
		}
		t.drawText(2, i+2, line, t.stylePlain)
	}
	t.screen.Show()

	for {
		key, err := t.waitKey(ctx, g)
		if err != nil {
			return err
		}
		switch t.intent(key).Action {
		case input.ActionDismiss, input.ActionQuit:
			return nil
		}
	}
}

// waitKey blocks until a key arrives. Other events are handled on the way.
func (t *TUIRenderer) waitKey(ctx context.Context, g *state.Game) (*tcell.EventKey, error) {
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case ev, ok := <-t.events:
			if !ok {
				return nil, gameplay.ErrQuit
			}
			if key, isKey := ev.(*tcell.EventKey); isKey {
				return key, nil
			}
			if _, ok := ev.(*tcell.EventResize); ok {
				t.screen.Sync()
			}
		}
	}
}

func (t *TUIRenderer) intent(ev *tcell.EventKey) input.Intent {
	raw := input.RawInput{
		Device:    input.DeviceTerminal,
		Code:      keyCode(ev),
		Timestamp: ev.When(),
	}
	return t.bindings.MapToIntent(input.NewDebouncedInput(raw))
}

// keyCode names a tcell key the way the bindings do.
func keyCode(ev *tcell.EventKey) string {
	switch ev.Key() {
	case tcell.KeyRune:
		return string(ev.Rune())
	case tcell.KeyUp:
		return "arrow_up"
	case tcell.KeyDown:
		return "arrow_down"
	case tcell.KeyLeft:
		return "arrow_left"
	case tcell.KeyRight:
		return "arrow_right"
	case tcell.KeyHome:
		return "home"
	case tcell.KeyEnd:
		return "end"
	case tcell.KeyPgUp:
		return "pgup"
	case tcell.KeyPgDn:
		return "pgdn"
	case tcell.KeyEscape:
		return "escape"
	case tcell.KeyCtrlC:
		return "ctrl_c"
	}
	return ""
}
