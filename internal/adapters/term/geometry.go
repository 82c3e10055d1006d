package term

import (
	"os"

	"github.com/mattn/go-isatty"
	"golang.org/x/term"
)

// statusRows is the vertical space reserved below the frame area for the
// status bar and shell prompt.
const statusRows = 3

// Geometry returns the output geometry derived from the controlling
// terminal: full width, height minus the status area. Falls back to 80x24
// when stdout is not a terminal.
func Geometry() (width, height int) {
	width, height = 80, 24
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 && h > 0 {
		width, height = w, h
	}
	height -= statusRows
	if height < 1 {
		height = 1
	}
	return width, height
}

// IsTerminal reports whether stdout is attached to a terminal.
func IsTerminal() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
