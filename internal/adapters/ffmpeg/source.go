package ffmpeg

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"time"

	"github.com/relvid/sqlstream/internal/domain"
	"github.com/relvid/sqlstream/internal/ports"
)

// Source decodes a media input into raw RGB frames by piping ffmpeg's
// rawvideo output. Frames arrive already scaled to the requested geometry
// and resampled to the target frame rate.
type Source struct {
	cmd    *exec.Cmd
	stdout io.ReadCloser
	logger ports.Logger

	width     int
	height    int
	frameSize int
}

// Config for a decode pipeline.
type Config struct {
	// Input is a local path or a direct stream URL (see Resolve).
	Input string

	// Width and Height are the output geometry in character cells.
	Width  int
	Height int

	// FPS is the output frame rate ffmpeg resamples to.
	FPS int

	// Duration caps how much of the input is decoded. Zero means all.
	Duration time.Duration
}

// NewSource starts the ffmpeg process. The returned Source must be closed.
func NewSource(ctx context.Context, cfg Config, logger ports.Logger) (*Source, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("ffmpeg: invalid geometry %dx%d", cfg.Width, cfg.Height)
	}
	if cfg.FPS <= 0 {
		return nil, fmt.Errorf("ffmpeg: fps must be positive, got %d", cfg.FPS)
	}

	args := []string{
		"-hide_banner", "-loglevel", "error",
		"-i", cfg.Input,
	}
	if cfg.Duration > 0 {
		args = append(args, "-t", strconv.FormatFloat(cfg.Duration.Seconds(), 'f', -1, 64))
	}
	args = append(args,
		"-vf", fmt.Sprintf("scale=%d:%d", cfg.Width, cfg.Height),
		"-r", strconv.Itoa(cfg.FPS),
		"-f", "rawvideo",
		"-pix_fmt", "rgb24",
		"pipe:1",
	)

	cmd := exec.CommandContext(ctx, "ffmpeg", args...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("ffmpeg: stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("ffmpeg: start: %w", err)
	}
	if logger != nil {
		logger.Debug("decoder started",
			ports.String("input", cfg.Input),
			ports.Int("width", cfg.Width),
			ports.Int("height", cfg.Height),
			ports.Int("fps", cfg.FPS))
	}
	return &Source{
		cmd:       cmd,
		stdout:    stdout,
		logger:    logger,
		width:     cfg.Width,
		height:    cfg.Height,
		frameSize: cfg.Width * cfg.Height * 3,
	}, nil
}

// Next reads one frame. Returns io.EOF when the stream ends; a truncated
// trailing frame is treated as end of stream.
func (s *Source) Next(ctx context.Context) (domain.RawFrame, error) {
	if err := ctx.Err(); err != nil {
		return domain.RawFrame{}, err
	}
	pix := make([]byte, s.frameSize)
	if _, err := io.ReadFull(s.stdout, pix); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return domain.RawFrame{}, io.EOF
		}
		return domain.RawFrame{}, fmt.Errorf("ffmpeg: read frame: %w", err)
	}
	return domain.RawFrame{Width: s.width, Height: s.height, Pix: pix}, nil
}

// Close tears down the pipe and reaps the ffmpeg process.
func (s *Source) Close() error {
	s.stdout.Close()
	// Wait may report a broken pipe when we stop reading early; that is
	// the normal shutdown path, not a decode failure.
	if err := s.cmd.Wait(); err != nil {
		if s.logger != nil {
			s.logger.Debug("decoder exited", ports.Err(err))
		}
	}
	return nil
}
