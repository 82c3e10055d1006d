// Package ports defines the interfaces that connect the playback core to
// infrastructure adapters.
//
// The store and synchronization loop depend only on these interfaces.
// Concrete implementations live in internal/adapters: process-backed media
// sources (ffmpeg/yt-dlp), ANSI encoders, the terminal renderer, and the
// zerolog-backed logger.
//
// # Port Interfaces
//
//   - [FrameSource]: yields decoded RGB frames from a media source
//   - [FrameEncoder]: turns one decoded frame into a row-set of text lines
//   - [Renderer]: writes a consistent row-set to the output device
//   - [Logger]: structured logging abstraction
//
// Keeping these as interfaces lets the playback tests drive the loop with
// in-memory fakes and lets the media pipeline be swapped without touching
// the store or the synchronizer.
package ports
