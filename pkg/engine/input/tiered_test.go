package input

import (
	"testing"

	"undercroft/pkg/engine/world"
)

func TestMapToIntent(t *testing.T) {
	b := DefaultBindings()

	tests := []struct {
		code string
		want Action
	}{
		{"k", ActionMoveNorth},
		{"8", ActionMoveNorth},
		{"arrow_up", ActionMoveNorth},
		{"y", ActionMoveNorthWest},
		{"home", ActionMoveNorthWest},
		{"3", ActionMoveSouthEast},
		{"5", ActionRest},
		{">", ActionStairsDown},
		{"<", ActionStairsUp},
		{"T", ActionShowTunnel},
		{"m", ActionShowMonsters},
		{"Q", ActionQuit},
		{"z", ActionNone},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			raw := RawInput{Device: DeviceTerminal, Code: tt.code}
			if got := b.MapToIntent(NewDebouncedInput(raw)).Action; got != tt.want {
				t.Errorf("MapToIntent(%q) = %v, want %v", tt.code, ActionName(got), ActionName(tt.want))
			}
		})
	}
}

func TestIntentDirection(t *testing.T) {
	for i, d := range world.AllDirections() {
		got, ok := Intent{Action: ActionMoveNorth + Action(i)}.Direction()
		if !ok || got != d {
			t.Errorf("Direction() of %s = %v, %v, want %v", ActionName(ActionMoveNorth+Action(i)), got, ok, d)
		}
	}

	if _, ok := (Intent{Action: ActionRest}).Direction(); ok {
		t.Error("Direction() of Rest reports a move")
	}
}

func TestByActionIsSorted(t *testing.T) {
	got := DefaultBindings().ByAction()[ActionMoveNorth]
	want := []string{"8", "arrow_up", "k"}
	if len(got) != len(want) {
		t.Fatalf("ByAction()[MoveNorth] = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ByAction()[MoveNorth][%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
