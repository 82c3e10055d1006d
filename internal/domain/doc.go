// Package domain contains the core entities and error types for sqlstream.
//
// This package is the innermost layer: it has no dependencies on storage,
// terminals, or process execution, and only describes the data that flows
// between them.
//
// # Entities
//
//   - [RowSet]: the ordered per-line text segments of one encoded frame
//   - [RawFrame]: one decoded RGB frame before text encoding
//   - [ColorMode]: the output encoding selected at ingestion time
//
// # Errors
//
// The four error kinds mirror the phases of the pipeline: ingestion,
// lookup, persistence, and playback. All carry enough indices to diagnose
// which frame or line misbehaved, and all support errors.Is / errors.As.
package domain
