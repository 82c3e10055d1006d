package domain

import (
	"errors"
	"fmt"
)

// Category sentinels. The structured error types below wrap these so that
// callers can branch on the kind with errors.Is without caring about the
// indices.
var (
	// ErrIngestion covers malformed or out-of-order frame submission.
	ErrIngestion = errors.New("sqlstream: ingestion error")

	// ErrNotFound covers reads outside the current store bounds.
	ErrNotFound = errors.New("sqlstream: frame not found")

	// ErrPersistence covers durable write/read failures.
	ErrPersistence = errors.New("sqlstream: persistence error")

	// ErrPlayback covers any failure inside the synchronization loop.
	ErrPlayback = errors.New("sqlstream: playback error")
)

// IngestionError reports a frame submitted out of order or with the wrong
// number of rows. Ingestion is aborted; the error is never retried.
type IngestionError struct {
	FrameIndex int // index the caller tried to write
	WantIndex  int // next index the store expected
	GotRows    int // rows in the submitted set (0 when ordering failed)
	WantRows   int // fixed line count of the store
	Reason     string
}

func (e *IngestionError) Error() string {
	return fmt.Sprintf("ingest frame %d: %s (expected index %d, got %d rows, want %d)",
		e.FrameIndex, e.Reason, e.WantIndex, e.GotRows, e.WantRows)
}

func (e *IngestionError) Unwrap() error { return ErrIngestion }

// NotFoundError reports a read of a frame index outside [0, frame_count).
// During playback this indicates a cursor invariant violation, not a
// recoverable runtime condition.
type NotFoundError struct {
	FrameIndex int
	FrameCount int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("frame %d not found (store holds %d frames)", e.FrameIndex, e.FrameCount)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// PersistenceError reports a failed persist or load. No automatic retry:
// silent partial persistence would break the persist/load round-trip.
type PersistenceError struct {
	Path string
	Op   string // "persist" or "load"
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() []error { return []error{ErrPersistence, e.Err} }

// PlaybackError reports a fatal failure during the synchronization loop.
// The frame store itself stays valid for a fresh playback attempt.
type PlaybackError struct {
	Cursor int
	Err    error
}

func (e *PlaybackError) Error() string {
	return fmt.Sprintf("playback at frame %d: %v", e.Cursor, e.Err)
}

func (e *PlaybackError) Unwrap() []error { return []error{ErrPlayback, e.Err} }
