package playback

import (
	"context"
	"errors"
	"fmt"

	"github.com/relvid/sqlstream/internal/ports"
	"github.com/relvid/sqlstream/internal/store"
)

// progressEvery controls how often ingestion progress is logged.
const progressEvery = 30

// Ingestor drives source -> encoder -> store until the source is exhausted
// or MaxFrames have been committed.
type Ingestor struct {
	Source    ports.FrameSource
	Encoder   ports.FrameEncoder
	Store     *store.Store
	Logger    ports.Logger
	MaxFrames int // 0 means unlimited
}

// Run ingests frames and returns the number committed. Frames are assigned
// contiguous indices in decode order; any encoder or store failure aborts
// ingestion.
func (in *Ingestor) Run(ctx context.Context) (int, error) {
	frameIndex := 0
	for in.MaxFrames == 0 || frameIndex < in.MaxFrames {
		select {
		case <-ctx.Done():
			return frameIndex, ctx.Err()
		default:
		}

		raw, err := in.Source.Next(ctx)
		if err != nil {
			if errors.Is(err, ports.ErrNoMoreFrames) {
				break
			}
			return frameIndex, fmt.Errorf("read frame %d: %w", frameIndex, err)
		}

		rows, err := in.Encoder.Encode(raw)
		if err != nil {
			return frameIndex, fmt.Errorf("encode frame %d: %w", frameIndex, err)
		}
		if err := in.Store.Put(frameIndex, rows); err != nil {
			return frameIndex, err
		}
		frameIndex++

		if in.Logger != nil && frameIndex%progressEvery == 0 {
			in.Logger.Info("buffering frames",
				ports.Int("ingested", frameIndex),
				ports.Int("max", in.MaxFrames))
		}
	}

	if in.Logger != nil {
		in.Logger.Info("ingestion complete",
			ports.Int("frames", frameIndex),
			ports.Int("lines_per_frame", in.Store.LineCount()),
			ports.String("store_id", in.Store.ID()))
	}
	return frameIndex, nil
}
