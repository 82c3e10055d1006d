package ports

import "github.com/relvid/sqlstream/internal/domain"

// FrameEncoder converts one decoded frame into the row-set stored for
// playback. Implementations are pure: same frame in, same lines out.
type FrameEncoder interface {
	// Encode returns exactly one text line per pixel row of the frame.
	// The returned strings are opaque to the caller and may contain ANSI
	// escape sequences.
	Encode(frame domain.RawFrame) (domain.RowSet, error)
}
