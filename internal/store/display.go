package store

import (
	"fmt"

	"github.com/relvid/sqlstream/internal/domain"
)

// InitDisplay (re)creates the active buffer: exactly LineCount empty rows,
// one per screen line. Called once at playback start; the cardinality never
// changes afterwards.
func (s *Store) InitDisplay() error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("init display: begin: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM display`); err != nil {
		tx.Rollback()
		return fmt.Errorf("init display: clear: %w", err)
	}
	stmt, err := tx.Prepare(`INSERT INTO display (line_no, content) VALUES (?, '')`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("init display: prepare: %w", err)
	}
	for i := 0; i < s.lineCount; i++ {
		if _, err := stmt.Exec(i); err != nil {
			stmt.Close()
			tx.Rollback()
			return fmt.Errorf("init display line %d: %w", i, err)
		}
	}
	stmt.Close()
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init display: commit: %w", err)
	}
	return nil
}

// SyncDisplay overwrites every display row with the corresponding library
// row of the given frame, as one bulk statement. SQLite runs the statement
// in an implicit transaction, so a reader can never observe a mix of two
// frames. Returns the number of rows overwritten.
func (s *Store) SyncDisplay(frameIndex int) (int64, error) {
	if frameIndex < 0 || frameIndex >= s.frameCount {
		return 0, &domain.NotFoundError{FrameIndex: frameIndex, FrameCount: s.frameCount}
	}

	res, err := s.db.Exec(`
		UPDATE display SET content = (
			SELECT content FROM frame_library
			WHERE frame_id = ? AND line_no = display.line_no
		)`, frameIndex)
	if err != nil {
		return 0, fmt.Errorf("sync display to frame %d: %w", frameIndex, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("sync display to frame %d: %w", frameIndex, err)
	}
	return n, nil
}

// Display returns the active buffer content in line order.
func (s *Store) Display() (domain.RowSet, error) {
	rows, err := s.db.Query(`SELECT content FROM display ORDER BY line_no`)
	if err != nil {
		return nil, fmt.Errorf("read display: %w", err)
	}
	defer rows.Close()

	out := make(domain.RowSet, 0, s.lineCount)
	for rows.Next() {
		var content string
		if err := rows.Scan(&content); err != nil {
			return nil, fmt.Errorf("read display: scan: %w", err)
		}
		out = append(out, content)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read display: %w", err)
	}
	return out, nil
}
