package ports

import "github.com/relvid/sqlstream/internal/domain"

// FrameStats carries per-tick session metadata for the renderer's status
// surface.
type FrameStats struct {
	// Cursor is the index of the frame being displayed.
	Cursor int

	// FrameCount is the total number of frames in the session.
	FrameCount int

	// RowUpdates is the cumulative number of display rows overwritten by
	// bulk updates since the session started.
	RowUpdates int64
}

// Renderer writes a fully synchronized row-set to the display device such
// that line i occupies output row i. The synchronizer only calls Render
// with a consistent row-set: every line belongs to the same frame.
type Renderer interface {
	// Render writes the row-set and stats to the device.
	Render(rows domain.RowSet, stats FrameStats) error

	// Close restores the device state (cursor, colors).
	Close() error
}
