package domain

// RowSet is the ordered collection of pre-rendered text lines representing
// one fully encoded frame. Index i is the content of screen row i. The
// strings are opaque to the store and the playback loop: they may contain
// ANSI escape sequences or plain characters.
type RowSet []string

// RawFrame is one decoded video frame in packed RGB order (3 bytes per
// pixel, row-major). It is what a FrameSource produces and a FrameEncoder
// consumes; nothing downstream of the encoder ever sees pixels.
type RawFrame struct {
	Width  int
	Height int

	// Pix holds Width*Height*3 bytes: R, G, B per pixel, rows top to bottom.
	Pix []byte
}

// ColorMode selects the text encoding applied to each pixel row.
type ColorMode int

const (
	// Grayscale maps pixel brightness to a character density ramp.
	Grayscale ColorMode = iota

	// TrueColor emits 24-bit ANSI background cells, one per pixel.
	TrueColor
)

// String returns the mode name as used in config files and store metadata.
func (m ColorMode) String() string {
	switch m {
	case TrueColor:
		return "truecolor"
	case Grayscale:
		return "grayscale"
	default:
		return "unknown"
	}
}

// ParseColorMode converts a metadata/config value back to a ColorMode.
// Unknown values fall back to Grayscale.
func ParseColorMode(s string) ColorMode {
	if s == "truecolor" {
		return TrueColor
	}
	return Grayscale
}
