package input

import (
	"sort"
	"time"

	"undercroft/pkg/engine/world"
)

// Device represents a physical input source.
type Device int

const (
	DeviceUnknown Device = iota
	DeviceKeyboard
	DeviceTerminal
)

// Action represents a high‑level intent in the game.
type Action int

const (
	ActionNone Action = iota

	// Movement, in world.Direction order
	ActionMoveNorth
	ActionMoveNorthEast
	ActionMoveEast
	ActionMoveSouthEast
	ActionMoveSouth
	ActionMoveSouthWest
	ActionMoveWest
	ActionMoveNorthWest

	ActionRest
	ActionStairsUp
	ActionStairsDown

	// Debug screens
	ActionShowDistance
	ActionShowTunnel
	ActionShowHardness
	ActionShowMonsters

	// Meta / UI
	ActionHelp
	ActionDismiss // Leaves a debug or help screen
	ActionQuit
)

// Intent is the 4th‑layer, high‑level description of what the player wants to do.
type Intent struct {
	Action Action
}

// Direction returns the movement direction of the intent, if it is a move.
func (i Intent) Direction() (world.Direction, bool) {
	if i.Action < ActionMoveNorth || i.Action > ActionMoveNorthWest {
		return 0, false
	}
	return world.Direction(i.Action - ActionMoveNorth), true
}

// RawInput is the 1st‑layer event emitted directly from an input device.
// Code is a device‑specific identifier (e.g. "k", "arrow_up", "home").
type RawInput struct {
	Device    Device
	Code      string
	Timestamp time.Time
}

// DebouncedInput is the 2nd‑layer representation after debouncing/deduplication.
// tcell already delivers one event per key press, so this is a distinct type
// rather than a filter.
type DebouncedInput struct {
	Device Device
	Code   string
}

// NewDebouncedInput converts a raw event to a debounced event.
func NewDebouncedInput(raw RawInput) DebouncedInput {
	return DebouncedInput{
		Device: raw.Device,
		Code:   raw.Code,
	}
}

// Bindings maps raw codes to actions (3rd-layer bindings).
// Multiple codes may point to the same Action.
type Bindings map[string]Action

// DefaultBindings returns the vi keys, the numeric keypad and the arrow
// block, plus the command keys.
func DefaultBindings() Bindings {
	return Bindings{
		// Movement (vi keys)
		"k": ActionMoveNorth,
		"u": ActionMoveNorthEast,
		"l": ActionMoveEast,
		"n": ActionMoveSouthEast,
		"j": ActionMoveSouth,
		"b": ActionMoveSouthWest,
		"h": ActionMoveWest,
		"y": ActionMoveNorthWest,

		// Movement (numpad digits)
		"8": ActionMoveNorth,
		"9": ActionMoveNorthEast,
		"6": ActionMoveEast,
		"3": ActionMoveSouthEast,
		"2": ActionMoveSouth,
		"1": ActionMoveSouthWest,
		"4": ActionMoveWest,
		"7": ActionMoveNorthWest,

		// Movement (arrow block, numpad without num lock)
		"arrow_up":    ActionMoveNorth,
		"pgup":        ActionMoveNorthEast,
		"arrow_right": ActionMoveEast,
		"pgdn":        ActionMoveSouthEast,
		"arrow_down":  ActionMoveSouth,
		"end":         ActionMoveSouthWest,
		"arrow_left":  ActionMoveWest,
		"home":        ActionMoveNorthWest,

		// Rest
		"5": ActionRest,
		" ": ActionRest,
		".": ActionRest,

		"<": ActionStairsUp,
		">": ActionStairsDown,

		"D": ActionShowDistance,
		"T": ActionShowTunnel,
		"H": ActionShowHardness,
		"m": ActionShowMonsters,

		"?":      ActionHelp,
		"escape": ActionDismiss,
		"Q":      ActionQuit,
		"ctrl_c": ActionQuit,
	}
}

// MapToIntent is the 3rd+4th layer: it applies the bindings to a debounced
// input and returns a high‑level Intent.
func (b Bindings) MapToIntent(ev DebouncedInput) Intent {
	if act, ok := b[ev.Code]; ok {
		return Intent{Action: act}
	}
	return Intent{Action: ActionNone}
}

// ActionName returns a human-friendly name for an action.
func ActionName(a Action) string {
	switch a {
	case ActionMoveNorth:
		return "Move North"
	case ActionMoveNorthEast:
		return "Move North-East"
	case ActionMoveEast:
		return "Move East"
	case ActionMoveSouthEast:
		return "Move South-East"
	case ActionMoveSouth:
		return "Move South"
	case ActionMoveSouthWest:
		return "Move South-West"
	case ActionMoveWest:
		return "Move West"
	case ActionMoveNorthWest:
		return "Move North-West"
	case ActionRest:
		return "Rest"
	case ActionStairsUp:
		return "Go Upstairs"
	case ActionStairsDown:
		return "Go Downstairs"
	case ActionShowDistance:
		return "Distance Map"
	case ActionShowTunnel:
		return "Tunneling Map"
	case ActionShowHardness:
		return "Hardness Map"
	case ActionShowMonsters:
		return "Monster List"
	case ActionHelp:
		return "Help"
	case ActionDismiss:
		return "Dismiss"
	case ActionQuit:
		return "Quit"
	default:
		return "None"
	}
}

// ByAction returns the bindings grouped by action.
func (b Bindings) ByAction() map[Action][]string {
	result := make(map[Action][]string)
	for code, act := range b {
		result[act] = append(result[act], code)
	}
	// Stable order within each action so the help screen doesn't flicker.
	for act, codes := range result {
		sort.Strings(codes)
		result[act] = codes
	}
	return result
}
