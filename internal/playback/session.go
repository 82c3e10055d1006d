// Package playback drives the synchronization loop: per tick it bulk-copies
// one frame from the library into the display buffer, hands the consistent
// buffer to the renderer, and sleeps the remainder of the frame budget.
package playback

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/relvid/sqlstream/internal/domain"
	"github.com/relvid/sqlstream/internal/ports"
	"github.com/relvid/sqlstream/internal/store"
)

// Session plays one pass over a frame store. A Session is single-use:
// create, Run, discard. The store stays valid for further sessions.
type Session struct {
	store    *store.Store
	renderer ports.Renderer
	logger   ports.Logger

	fps        int
	fpsUpdates <-chan int

	mu         sync.RWMutex
	state      SessionState
	cursor     int
	rowUpdates int64
}

// Option configures optional behavior of a Session.
type Option func(*Session)

// WithLogger sets a structured logger. Defaults to none.
func WithLogger(l ports.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// WithFPSUpdates supplies a channel of target-fps overrides. Updates are
// applied at the next tick boundary; values <= 0 are ignored.
func WithFPSUpdates(ch <-chan int) Option {
	return func(s *Session) { s.fpsUpdates = ch }
}

// NewSession creates a playback session over st at the given target fps.
func NewSession(st *store.Store, renderer ports.Renderer, fps int, opts ...Option) (*Session, error) {
	if fps <= 0 {
		return nil, fmt.Errorf("playback: fps must be positive, got %d", fps)
	}
	if renderer == nil {
		return nil, fmt.Errorf("playback: renderer is required")
	}
	s := &Session{
		store:    st,
		renderer: renderer,
		fps:      fps,
		state:    StateIdle,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// State returns the current session state.
func (s *Session) State() SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Cursor returns the index of the frame currently being displayed.
func (s *Session) Cursor() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cursor
}

func (s *Session) setState(st SessionState) {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
}

// Run executes the playback loop until the cursor reaches the frame count
// or the context is cancelled. Cancellation is honored at tick boundaries
// only: an in-flight bulk update and render always complete first, so the
// display buffer is never left partially updated.
func (s *Session) Run(ctx context.Context) error {
	frameCount := s.store.FrameCount()

	if frameCount > 0 {
		if err := s.store.InitDisplay(); err != nil {
			s.setState(StateFailed)
			return &domain.PlaybackError{Cursor: 0, Err: err}
		}
	}

	for {
		s.mu.RLock()
		cursor := s.cursor
		s.mu.RUnlock()

		if cursor >= frameCount {
			s.setState(StateDone)
			return nil
		}

		select {
		case <-ctx.Done():
			s.setState(StateDone)
			return ctx.Err()
		default:
		}
		s.applyFPSUpdates()

		tickStart := time.Now()

		if err := s.tick(cursor, frameCount); err != nil {
			s.setState(StateFailed)
			return err
		}

		s.mu.Lock()
		s.state = StateAdvancing
		s.cursor++
		s.mu.Unlock()

		// Best-effort pacing: sleep whatever is left of the frame budget.
		// Overruns are not compensated; the next tick starts immediately.
		budget := time.Second / time.Duration(s.fps)
		if delay := budget - time.Since(tickStart); delay > 0 {
			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				s.setState(StateDone)
				return ctx.Err()
			case <-timer.C:
			}
		}
	}
}

// tick performs one Syncing -> Ready -> render transition for the cursor.
func (s *Session) tick(cursor, frameCount int) error {
	s.setState(StateSyncing)

	n, err := s.store.SyncDisplay(cursor)
	if err != nil {
		return &domain.PlaybackError{Cursor: cursor, Err: err}
	}
	rows, err := s.store.Display()
	if err != nil {
		return &domain.PlaybackError{Cursor: cursor, Err: err}
	}

	s.mu.Lock()
	s.rowUpdates += n
	rowUpdates := s.rowUpdates
	s.state = StateReady
	s.mu.Unlock()

	stats := ports.FrameStats{
		Cursor:     cursor,
		FrameCount: frameCount,
		RowUpdates: rowUpdates,
	}
	if err := s.renderer.Render(rows, stats); err != nil {
		return &domain.PlaybackError{Cursor: cursor, Err: err}
	}
	return nil
}

// applyFPSUpdates drains pending fps overrides, keeping the last valid one.
func (s *Session) applyFPSUpdates() {
	if s.fpsUpdates == nil {
		return
	}
	for {
		select {
		case fps, ok := <-s.fpsUpdates:
			if !ok {
				s.fpsUpdates = nil
				return
			}
			if fps > 0 && fps != s.fps {
				s.fps = fps
				if s.logger != nil {
					s.logger.Info("target fps changed", ports.Int("fps", fps))
				}
			}
		default:
			return
		}
	}
}
