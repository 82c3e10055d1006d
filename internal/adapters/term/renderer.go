// Package term renders row-sets to an ANSI terminal and reports output
// geometry.
package term

import (
	"fmt"
	"io"
	"strings"

	"github.com/relvid/sqlstream/internal/domain"
	"github.com/relvid/sqlstream/internal/ports"
)

const (
	cursorHome = "\x1b[H"
	cursorHide = "\x1b[?25l"
	cursorShow = "\x1b[?25h"
	sgrReset   = "\x1b[0m"
)

// Renderer repaints the terminal in place: home the cursor, write every
// line, then a centered status bar. Stable line addressing comes from the
// fixed row-set cardinality, so no per-line cursor movement is needed.
type Renderer struct {
	w    io.Writer
	cols int

	started bool
}

// NewRenderer creates a renderer writing to w, centering the status bar to
// cols columns.
func NewRenderer(w io.Writer, cols int) *Renderer {
	if cols <= 0 {
		cols = 80
	}
	return &Renderer{w: w, cols: cols}
}

// Render writes one consistent frame plus the session status bar.
func (r *Renderer) Render(rows domain.RowSet, stats ports.FrameStats) error {
	var b strings.Builder
	if !r.started {
		b.WriteString(cursorHide)
		r.started = true
	}
	b.WriteString(cursorHome)
	for _, row := range rows {
		b.WriteString(row)
		b.WriteByte('\n')
	}
	b.WriteString(statusBar(stats, r.cols))

	if _, err := io.WriteString(r.w, b.String()); err != nil {
		return fmt.Errorf("render frame %d: %w", stats.Cursor, err)
	}
	return nil
}

// Close restores the terminal: reset colors, show the cursor, move past the
// frame area.
func (r *Renderer) Close() error {
	if !r.started {
		return nil
	}
	_, err := io.WriteString(r.w, sgrReset+cursorShow+"\n")
	return err
}

// statusBar formats the per-tick session line, padded with '=' to width.
func statusBar(stats ports.FrameStats, width int) string {
	last := stats.FrameCount - 1
	if last < 0 {
		last = 0
	}
	s := fmt.Sprintf(" [ FRAME %d/%d | SQL UPDATES: %d ] ", stats.Cursor, last, stats.RowUpdates)
	return center(s, width, '=')
}

// center pads s on both sides with pad up to width runes.
func center(s string, width int, pad rune) string {
	gap := width - len([]rune(s))
	if gap <= 0 {
		return s
	}
	left := gap / 2
	right := gap - left
	return strings.Repeat(string(pad), left) + s + strings.Repeat(string(pad), right)
}
