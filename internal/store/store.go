// Package store implements the relational frame store and the active
// display buffer on a single SQLite database.
//
// The frame_library table holds every pre-rendered line of every frame,
// keyed by (frame_id, line_no). The display table holds exactly one row
// per screen line and is bulk-overwritten from the library each tick. A
// meta table makes persisted snapshots self-contained.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/relvid/sqlstream/internal/domain"
)

// Schema for the frame store tables.
const Schema = `
CREATE TABLE IF NOT EXISTS frame_library (
	frame_id INTEGER NOT NULL,
	line_no INTEGER NOT NULL,
	content TEXT NOT NULL,
	PRIMARY KEY (frame_id, line_no)
);
CREATE TABLE IF NOT EXISTS display (
	line_no INTEGER PRIMARY KEY,
	content TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS meta (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
`

// Meta keys persisted alongside the frames.
const (
	metaFrameCount = "frame_count"
	metaLineCount  = "line_count"
	metaColorMode  = "color_mode"
	metaStoreID    = "store_id"
	metaCreatedAt  = "created_at"
)

// Store is a frame store plus its active display buffer.
//
// A Store is driven by a single goroutine at a time: ingestion, persist,
// load, and playback are sequential phases. The connection pool is pinned
// to one connection so that an in-memory database is shared by every
// statement and the bulk display update is never interleaved with a read.
type Store struct {
	db *sql.DB

	id         string
	frameCount int
	lineCount  int // 0 until fixed by the first Put or a Load
	colorMode  domain.ColorMode
}

// Open creates a store at the given path ("" or ":memory:" for a purely
// in-memory store) with empty tables.
func Open(path string, mode domain.ColorMode) (*Store, error) {
	if path == "" {
		path = ":memory:"
	}
	db, err := openDB(path)
	if err != nil {
		return nil, err
	}
	s := &Store{
		db:        db,
		id:        uuid.NewString(),
		colorMode: mode,
	}
	if err := s.init(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// openDB opens a SQLite database with the playback pragmas applied and the
// pool pinned to a single connection.
func openDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// One connection: an in-memory DSN yields a fresh empty database per
	// connection otherwise, and single-connection access is what makes the
	// bulk display update atomic with respect to reads.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA synchronous=OFF",
		"PRAGMA journal_mode=MEMORY",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("set pragma: %w", err)
		}
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}

func (s *Store) init() error {
	if _, err := s.db.Exec(Schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if err := s.setMeta(metaStoreID, s.id); err != nil {
		return err
	}
	if err := s.setMeta(metaCreatedAt, time.Now().UTC().Format(time.RFC3339)); err != nil {
		return err
	}
	if err := s.setMeta(metaColorMode, s.colorMode.String()); err != nil {
		return err
	}
	if err := s.setMeta(metaFrameCount, "0"); err != nil {
		return err
	}
	return s.setMeta(metaLineCount, "0")
}

// ID returns the store's identity, assigned at creation and preserved
// across persist/load round-trips.
func (s *Store) ID() string { return s.id }

// FrameCount returns the number of frames ingested so far.
func (s *Store) FrameCount() int { return s.frameCount }

// LineCount returns the fixed per-frame line count, or 0 before the first
// Put.
func (s *Store) LineCount() int { return s.lineCount }

// ColorMode returns the encoding the stored rows were rendered with.
func (s *Store) ColorMode() domain.ColorMode { return s.colorMode }

// Close releases the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Put appends all rows of one frame. The frame index must be exactly the
// next expected index, and the row count must match the line count fixed
// by the first call.
func (s *Store) Put(frameIndex int, rows domain.RowSet) error {
	if frameIndex != s.frameCount {
		return &domain.IngestionError{
			FrameIndex: frameIndex,
			WantIndex:  s.frameCount,
			GotRows:    len(rows),
			WantRows:   s.lineCount,
			Reason:     "non-contiguous frame index",
		}
	}
	if len(rows) == 0 {
		return &domain.IngestionError{
			FrameIndex: frameIndex,
			WantIndex:  s.frameCount,
			WantRows:   s.lineCount,
			Reason:     "empty row set",
		}
	}
	if s.lineCount != 0 && len(rows) != s.lineCount {
		return &domain.IngestionError{
			FrameIndex: frameIndex,
			WantIndex:  s.frameCount,
			GotRows:    len(rows),
			WantRows:   s.lineCount,
			Reason:     "row count mismatch",
		}
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("ingest frame %d: begin: %w", frameIndex, err)
	}
	stmt, err := tx.Prepare(`INSERT INTO frame_library (frame_id, line_no, content) VALUES (?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("ingest frame %d: prepare: %w", frameIndex, err)
	}
	for i, content := range rows {
		if _, err := stmt.Exec(frameIndex, i, content); err != nil {
			stmt.Close()
			tx.Rollback()
			return fmt.Errorf("ingest frame %d line %d: %w", frameIndex, i, err)
		}
	}
	stmt.Close()

	next := strconv.Itoa(frameIndex + 1)
	if _, err := tx.Exec(`INSERT OR REPLACE INTO meta (key, value) VALUES (?, ?)`, metaFrameCount, next); err != nil {
		tx.Rollback()
		return fmt.Errorf("ingest frame %d: meta: %w", frameIndex, err)
	}
	if s.lineCount == 0 {
		if _, err := tx.Exec(`INSERT OR REPLACE INTO meta (key, value) VALUES (?, ?)`,
			metaLineCount, strconv.Itoa(len(rows))); err != nil {
			tx.Rollback()
			return fmt.Errorf("ingest frame %d: meta: %w", frameIndex, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("ingest frame %d: commit: %w", frameIndex, err)
	}

	if s.lineCount == 0 {
		s.lineCount = len(rows)
	}
	s.frameCount++
	return nil
}

// Get returns the rows of one frame in line order.
func (s *Store) Get(frameIndex int) (domain.RowSet, error) {
	if frameIndex < 0 || frameIndex >= s.frameCount {
		return nil, &domain.NotFoundError{FrameIndex: frameIndex, FrameCount: s.frameCount}
	}

	rows, err := s.db.Query(
		`SELECT content FROM frame_library WHERE frame_id = ? ORDER BY line_no`, frameIndex)
	if err != nil {
		return nil, fmt.Errorf("get frame %d: %w", frameIndex, err)
	}
	defer rows.Close()

	out := make(domain.RowSet, 0, s.lineCount)
	for rows.Next() {
		var content string
		if err := rows.Scan(&content); err != nil {
			return nil, fmt.Errorf("get frame %d: scan: %w", frameIndex, err)
		}
		out = append(out, content)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get frame %d: %w", frameIndex, err)
	}
	if len(out) != s.lineCount {
		return nil, &domain.NotFoundError{FrameIndex: frameIndex, FrameCount: s.frameCount}
	}
	return out, nil
}

// Persist writes the full store to a self-contained, reopenable snapshot
// at path, overwriting any existing file.
func (s *Store) Persist(ctx context.Context, path string) error {
	// VACUUM INTO refuses to overwrite; removing first gives Persist its
	// idempotent overwrite semantics.
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return &domain.PersistenceError{Path: path, Op: "persist", Err: err}
	}
	if _, err := s.db.ExecContext(ctx, `VACUUM INTO ?`, path); err != nil {
		return &domain.PersistenceError{Path: path, Op: "persist", Err: err}
	}
	return nil
}

// Load materializes a fully memory-resident store from a persisted
// snapshot. The source file is read once, wholesale; playback never
// touches it again.
func Load(ctx context.Context, path string) (*Store, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, &domain.PersistenceError{Path: path, Op: "load", Err: err}
	}

	db, err := openDB(":memory:")
	if err != nil {
		return nil, &domain.PersistenceError{Path: path, Op: "load", Err: err}
	}
	s := &Store{db: db}

	if _, err := db.ExecContext(ctx, Schema); err != nil {
		db.Close()
		return nil, &domain.PersistenceError{Path: path, Op: "load", Err: err}
	}

	// One-shot relational clone: attach the snapshot, copy every table
	// worth keeping, detach. The display table is rebuilt per session.
	if _, err := db.ExecContext(ctx, `ATTACH DATABASE ? AS src`, path); err != nil {
		db.Close()
		return nil, &domain.PersistenceError{Path: path, Op: "load", Err: err}
	}
	copies := []string{
		`INSERT INTO frame_library SELECT frame_id, line_no, content FROM src.frame_library`,
		`INSERT OR REPLACE INTO meta SELECT key, value FROM src.meta`,
	}
	for _, q := range copies {
		if _, err := db.ExecContext(ctx, q); err != nil {
			db.Close()
			return nil, &domain.PersistenceError{Path: path, Op: "load", Err: err}
		}
	}
	if _, err := db.ExecContext(ctx, `DETACH DATABASE src`); err != nil {
		db.Close()
		return nil, &domain.PersistenceError{Path: path, Op: "load", Err: err}
	}

	if err := s.readMeta(); err != nil {
		db.Close()
		return nil, &domain.PersistenceError{Path: path, Op: "load", Err: err}
	}
	return s, nil
}

func (s *Store) setMeta(key, value string) error {
	if _, err := s.db.Exec(`INSERT OR REPLACE INTO meta (key, value) VALUES (?, ?)`, key, value); err != nil {
		return fmt.Errorf("write meta %s: %w", key, err)
	}
	return nil
}

func (s *Store) getMeta(key string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM meta WHERE key = ?`, key).Scan(&value)
	if err != nil {
		return "", fmt.Errorf("read meta %s: %w", key, err)
	}
	return value, nil
}

// readMeta restores the in-memory counters from the meta table.
func (s *Store) readMeta() error {
	fc, err := s.getMeta(metaFrameCount)
	if err != nil {
		return err
	}
	if s.frameCount, err = strconv.Atoi(fc); err != nil {
		return fmt.Errorf("parse meta %s: %w", metaFrameCount, err)
	}
	lc, err := s.getMeta(metaLineCount)
	if err != nil {
		return err
	}
	if s.lineCount, err = strconv.Atoi(lc); err != nil {
		return fmt.Errorf("parse meta %s: %w", metaLineCount, err)
	}
	cm, err := s.getMeta(metaColorMode)
	if err != nil {
		return err
	}
	s.colorMode = domain.ParseColorMode(cm)
	if s.id, err = s.getMeta(metaStoreID); err != nil {
		return err
	}
	return nil
}
