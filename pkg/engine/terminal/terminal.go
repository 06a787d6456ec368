// Package terminal answers questions about the controlling terminal.
package terminal

import (
	"os"

	"golang.org/x/term"
)

// The viewer needs a message line, the map and a status line.
const (
	DefaultWidth  = 80
	DefaultHeight = 24
)

// GetSize returns the current terminal width and height.
// Falls back to defaults if the size cannot be determined.
func GetSize() (width, height int) {
	width, height, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return DefaultWidth, DefaultHeight
	}
	return width, height
}

// IsInteractive reports whether both stdin and stdout are terminals.
func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

// Fits reports whether a width x height terminal can show a map of the given
// size with one line above and two below.
func Fits(width, height, mapWidth, mapHeight int) bool {
	return width >= mapWidth && height >= mapHeight+3
}
