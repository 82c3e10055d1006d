// Package sqlstream plays video as text frames out of a relational store.
//
// A SQLite frame library holds every pre-rendered line of every frame; a
// one-row-per-line display table is bulk-overwritten from the library each
// tick and read back for terminal output, paced to a target frame rate.
//
// Example usage:
//
//	cfg := sqlstream.DefaultConfig()
//	cfg.Source = "clip.mp4"
//	if err := cfg.Validate(); err != nil {
//	    log.Fatal(err)
//	}
//	st, err := sqlstream.Open("", cfg.ColorMode())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer st.Close()
//	if _, err := sqlstream.Ingest(context.Background(), cfg, st); err != nil {
//	    log.Fatal(err)
//	}
//	if err := sqlstream.Play(context.Background(), st, cfg.FPS); err != nil {
//	    log.Fatal(err)
//	}
package sqlstream

import (
	"context"
	"os"

	"github.com/relvid/sqlstream/internal/adapters/encode"
	"github.com/relvid/sqlstream/internal/adapters/ffmpeg"
	"github.com/relvid/sqlstream/internal/adapters/term"
	"github.com/relvid/sqlstream/internal/cliconfig"
	"github.com/relvid/sqlstream/internal/domain"
	"github.com/relvid/sqlstream/internal/playback"
	"github.com/relvid/sqlstream/internal/ports"
	"github.com/relvid/sqlstream/internal/store"
)

// Config holds the configuration for ingestion and playback.
// Use DefaultConfig() to get a Config with sensible defaults.
type Config = cliconfig.Config

// Store is a frame store plus its active display buffer.
type Store = store.Store

// Logger is the structured logging interface consumed by sqlstream.
type Logger = ports.Logger

// ColorMode selects the text encoding applied per pixel.
type ColorMode = domain.ColorMode

// Color modes.
const (
	TrueColor = domain.TrueColor
	Grayscale = domain.Grayscale
)

// SessionState is the lifecycle state of a playback session.
type SessionState = playback.SessionState

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return cliconfig.DefaultConfig()
}

// Open creates an empty frame store. An empty path keeps the store purely
// in memory; pass Config.Out to Persist for a durable snapshot instead of
// opening a file-backed store directly.
func Open(path string, mode ColorMode) (*Store, error) {
	return store.Open(path, mode)
}

// Load materializes a fully memory-resident store from a persisted
// snapshot, so playback never touches the file again.
func Load(ctx context.Context, path string) (*Store, error) {
	return store.Load(ctx, path)
}

// Option configures optional behavior of Ingest and Play.
type Option func(*options)

type options struct {
	logger     ports.Logger
	renderer   ports.Renderer
	source     ports.FrameSource
	encoder    ports.FrameEncoder
	fpsUpdates <-chan int
}

// WithLogger sets a structured logger. Defaults to no output.
func WithLogger(l Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithRenderer replaces the default terminal renderer. The caller owns the
// renderer's lifecycle.
func WithRenderer(r ports.Renderer) Option {
	return func(o *options) { o.renderer = r }
}

// WithSource replaces the default ffmpeg-backed frame source. The caller
// owns the source's lifecycle.
func WithSource(s ports.FrameSource) Option {
	return func(o *options) { o.source = s }
}

// WithEncoder replaces the default ANSI encoder.
func WithEncoder(e ports.FrameEncoder) Option {
	return func(o *options) { o.encoder = e }
}

// WithFPSUpdates supplies live target-fps overrides, applied at tick
// boundaries during Play.
func WithFPSUpdates(ch <-chan int) Option {
	return func(o *options) { o.fpsUpdates = ch }
}

// Ingest decodes cfg.Source into st until the duration limit or end of
// stream, and returns the number of frames committed.
func Ingest(ctx context.Context, cfg Config, st *Store, opts ...Option) (int, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	width, height := cfg.Width, cfg.Height
	if width == 0 || height == 0 {
		tw, th := term.Geometry()
		if width == 0 {
			width = tw
		}
		if height == 0 {
			height = th
		}
	}
	if cfg.Color && !term.IsTerminal() && o.logger != nil {
		o.logger.Warn("stdout is not a terminal; truecolor output will be raw escape sequences")
	}

	source := o.source
	if source == nil {
		input, err := ffmpeg.Resolve(ctx, cfg.Source, o.logger)
		if err != nil {
			return 0, err
		}
		src, err := ffmpeg.NewSource(ctx, ffmpeg.Config{
			Input:    input,
			Width:    width,
			Height:   height,
			FPS:      cfg.FPS,
			Duration: cfg.Duration,
		}, o.logger)
		if err != nil {
			return 0, err
		}
		defer src.Close()
		source = src
	}

	encoder := o.encoder
	if encoder == nil {
		encoder = encode.New(cfg.ColorMode(), cfg.Charset)
	}

	ing := &playback.Ingestor{
		Source:    source,
		Encoder:   encoder,
		Store:     st,
		Logger:    o.logger,
		MaxFrames: int(cfg.Duration.Seconds() * float64(cfg.FPS)),
	}
	return ing.Run(ctx)
}

// Play runs one playback session over st at the given target fps. It
// returns when the cursor reaches the frame count, the context is
// cancelled, or a playback error occurs.
func Play(ctx context.Context, st *Store, fps int, opts ...Option) error {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	renderer := o.renderer
	ownRenderer := false
	if renderer == nil {
		cols, _ := term.Geometry()
		renderer = term.NewRenderer(os.Stdout, cols)
		ownRenderer = true
	}

	sessOpts := []playback.Option{}
	if o.logger != nil {
		sessOpts = append(sessOpts, playback.WithLogger(o.logger))
	}
	if o.fpsUpdates != nil {
		sessOpts = append(sessOpts, playback.WithFPSUpdates(o.fpsUpdates))
	}

	sess, err := playback.NewSession(st, renderer, fps, sessOpts...)
	if err != nil {
		return err
	}
	runErr := sess.Run(ctx)
	if ownRenderer {
		if cerr := renderer.Close(); cerr != nil && runErr == nil {
			runErr = cerr
		}
	}
	return runErr
}
