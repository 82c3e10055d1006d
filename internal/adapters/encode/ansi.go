// Package encode turns decoded RGB frames into pre-rendered text lines,
// either 24-bit ANSI background cells or a grayscale character ramp.
package encode

import (
	"fmt"
	"strings"

	"github.com/relvid/sqlstream/internal/domain"
	"github.com/relvid/sqlstream/internal/ports"
)

// DefaultCharset is the density ramp used for grayscale output, darkest
// first. Brightness is bucketed in steps of 32, so only the first eight
// characters are ever indexed.
const DefaultCharset = "@%#*+=-:. "

const reset = "\x1b[0m"

// New returns an encoder for the given mode. An empty charset falls back
// to DefaultCharset; the charset is ignored in TrueColor mode.
func New(mode domain.ColorMode, charset string) ports.FrameEncoder {
	if mode == domain.TrueColor {
		return &trueColorEncoder{}
	}
	if charset == "" {
		charset = DefaultCharset
	}
	return &grayscaleEncoder{charset: []rune(charset)}
}

// trueColorEncoder renders each pixel as a space on a 24-bit background.
type trueColorEncoder struct{}

func (e *trueColorEncoder) Encode(frame domain.RawFrame) (domain.RowSet, error) {
	if err := checkFrame(frame); err != nil {
		return nil, err
	}
	rows := make(domain.RowSet, 0, frame.Height)
	var b strings.Builder
	for y := 0; y < frame.Height; y++ {
		b.Reset()
		b.Grow(frame.Width*20 + len(reset))
		base := y * frame.Width * 3
		for x := 0; x < frame.Width; x++ {
			p := base + x*3
			fmt.Fprintf(&b, "\x1b[48;2;%d;%d;%dm ", frame.Pix[p], frame.Pix[p+1], frame.Pix[p+2])
		}
		b.WriteString(reset)
		rows = append(rows, b.String())
	}
	return rows, nil
}

// grayscaleEncoder maps pixel brightness to a character density ramp.
type grayscaleEncoder struct {
	charset []rune
}

func (e *grayscaleEncoder) Encode(frame domain.RawFrame) (domain.RowSet, error) {
	if err := checkFrame(frame); err != nil {
		return nil, err
	}
	rows := make(domain.RowSet, 0, frame.Height)
	var b strings.Builder
	for y := 0; y < frame.Height; y++ {
		b.Reset()
		b.Grow(frame.Width)
		base := y * frame.Width * 3
		for x := 0; x < frame.Width; x++ {
			p := base + x*3
			idx := int(luma(frame.Pix[p], frame.Pix[p+1], frame.Pix[p+2])) / 32
			if idx >= len(e.charset) {
				idx = len(e.charset) - 1
			}
			b.WriteRune(e.charset[idx])
		}
		rows = append(rows, b.String())
	}
	return rows, nil
}

// luma converts RGB to BT.601 brightness using integer arithmetic.
func luma(r, g, b byte) byte {
	return byte((299*int(r) + 587*int(g) + 114*int(b)) / 1000)
}

func checkFrame(frame domain.RawFrame) error {
	if frame.Width <= 0 || frame.Height <= 0 {
		return fmt.Errorf("encode: invalid geometry %dx%d", frame.Width, frame.Height)
	}
	if want := frame.Width * frame.Height * 3; len(frame.Pix) != want {
		return fmt.Errorf("encode: pixel buffer is %d bytes, want %d", len(frame.Pix), want)
	}
	return nil
}
