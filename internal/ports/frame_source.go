package ports

import (
	"context"
	"io"

	"github.com/relvid/sqlstream/internal/domain"
)

// FrameSource yields decoded video frames, already scaled to the output
// geometry, in presentation order.
type FrameSource interface {
	// Next returns the next decoded frame.
	// Returns io.EOF when the source is exhausted.
	Next(ctx context.Context) (domain.RawFrame, error)

	// Close releases the underlying decoder resources.
	Close() error
}

// ErrNoMoreFrames indicates the source is exhausted.
var ErrNoMoreFrames = io.EOF
