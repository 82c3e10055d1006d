package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/relvid/sqlstream/internal/domain"
)

func mustOpen(t *testing.T) *Store {
	t.Helper()
	s, err := Open("", domain.Grayscale)
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func mustPut(t *testing.T, s *Store, idx int, rows ...string) {
	t.Helper()
	if err := s.Put(idx, rows); err != nil {
		t.Fatalf("Put(%d) error: %v", idx, err)
	}
}

func TestPutOrdering(t *testing.T) {
	s := mustOpen(t)

	mustPut(t, s, 0, "A", "B")
	mustPut(t, s, 1, "C", "D")

	// Skipping an index must fail.
	err := s.Put(3, domain.RowSet{"E", "F"})
	if err == nil {
		t.Fatal("Put(3) with 2 frames stored: expected error, got nil")
	}
	if !errors.Is(err, domain.ErrIngestion) {
		t.Errorf("Put(3) error = %v, want ErrIngestion", err)
	}
	var ie *domain.IngestionError
	if !errors.As(err, &ie) {
		t.Fatalf("Put(3) error type = %T, want *IngestionError", err)
	}
	if ie.FrameIndex != 3 || ie.WantIndex != 2 {
		t.Errorf("IngestionError indices = (%d, want %d), expected (3, 2)", ie.FrameIndex, ie.WantIndex)
	}

	// Re-submitting an already stored index must fail too.
	if err := s.Put(1, domain.RowSet{"C", "D"}); !errors.Is(err, domain.ErrIngestion) {
		t.Errorf("Put(1) again error = %v, want ErrIngestion", err)
	}

	if s.FrameCount() != 2 {
		t.Errorf("FrameCount() = %d, want 2", s.FrameCount())
	}
}

func TestPutRowCountFixedByFirstCall(t *testing.T) {
	s := mustOpen(t)

	mustPut(t, s, 0, "A", "B", "C")
	if s.LineCount() != 3 {
		t.Fatalf("LineCount() = %d, want 3", s.LineCount())
	}

	err := s.Put(1, domain.RowSet{"D", "E"})
	if !errors.Is(err, domain.ErrIngestion) {
		t.Errorf("Put with short row set error = %v, want ErrIngestion", err)
	}
	if s.FrameCount() != 1 {
		t.Errorf("FrameCount() after failed Put = %d, want 1", s.FrameCount())
	}
}

func TestPutEmptyRowSet(t *testing.T) {
	s := mustOpen(t)
	if err := s.Put(0, nil); !errors.Is(err, domain.ErrIngestion) {
		t.Errorf("Put(0, nil) error = %v, want ErrIngestion", err)
	}
}

func TestGet(t *testing.T) {
	s := mustOpen(t)
	mustPut(t, s, 0, "A", "B")
	mustPut(t, s, 1, "C", "D")

	rows, err := s.Get(1)
	if err != nil {
		t.Fatalf("Get(1) error: %v", err)
	}
	if len(rows) != 2 || rows[0] != "C" || rows[1] != "D" {
		t.Errorf("Get(1) = %v, want [C D]", rows)
	}

	if _, err := s.Get(2); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Get(2) error = %v, want ErrNotFound", err)
	}
	if _, err := s.Get(-1); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Get(-1) error = %v, want ErrNotFound", err)
	}
}

func TestRowCountInvariant(t *testing.T) {
	s := mustOpen(t)
	for i := 0; i < 5; i++ {
		mustPut(t, s, i, "x", "y", "z")
	}
	for i := 0; i < s.FrameCount(); i++ {
		rows, err := s.Get(i)
		if err != nil {
			t.Fatalf("Get(%d) error: %v", i, err)
		}
		if len(rows) != s.LineCount() {
			t.Errorf("len(Get(%d)) = %d, want %d", i, len(rows), s.LineCount())
		}
	}
}

func TestPersistLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, err := Open("", domain.TrueColor)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	mustPut(t, s, 0, "A", "B")
	mustPut(t, s, 1, "C", "D")
	mustPut(t, s, 2, "E", "F")

	path := filepath.Join(t.TempDir(), "frames.db")
	if err := s.Persist(ctx, path); err != nil {
		t.Fatalf("Persist() error: %v", err)
	}

	loaded, err := Load(ctx, path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	defer loaded.Close()

	if loaded.FrameCount() != 3 {
		t.Errorf("loaded FrameCount() = %d, want 3", loaded.FrameCount())
	}
	if loaded.LineCount() != 2 {
		t.Errorf("loaded LineCount() = %d, want 2", loaded.LineCount())
	}
	if loaded.ColorMode() != domain.TrueColor {
		t.Errorf("loaded ColorMode() = %v, want TrueColor", loaded.ColorMode())
	}
	if loaded.ID() != s.ID() {
		t.Errorf("loaded ID() = %q, want %q", loaded.ID(), s.ID())
	}

	for i := 0; i < 3; i++ {
		want, _ := s.Get(i)
		got, err := loaded.Get(i)
		if err != nil {
			t.Fatalf("loaded Get(%d) error: %v", i, err)
		}
		for j := range want {
			if got[j] != want[j] {
				t.Errorf("frame %d line %d = %q, want %q", i, j, got[j], want[j])
			}
		}
	}
}

func TestPersistOverwrites(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "frames.db")

	s := mustOpen(t)
	mustPut(t, s, 0, "old")
	if err := s.Persist(ctx, path); err != nil {
		t.Fatal(err)
	}

	s2, err := Open("", domain.Grayscale)
	if err != nil {
		t.Fatal(err)
	}
	defer s2.Close()
	mustPut(t, s2, 0, "new")
	if err := s2.Persist(ctx, path); err != nil {
		t.Fatalf("Persist() over existing file error: %v", err)
	}

	loaded, err := Load(ctx, path)
	if err != nil {
		t.Fatal(err)
	}
	defer loaded.Close()
	rows, err := loaded.Get(0)
	if err != nil {
		t.Fatal(err)
	}
	if rows[0] != "new" {
		t.Errorf("frame 0 line 0 = %q, want %q", rows[0], "new")
	}
}

func TestLoadEmptyStore(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "empty.db")

	s := mustOpen(t)
	if err := s.Persist(ctx, path); err != nil {
		t.Fatal(err)
	}

	loaded, err := Load(ctx, path)
	if err != nil {
		t.Fatalf("Load() of empty store error: %v", err)
	}
	defer loaded.Close()
	if loaded.FrameCount() != 0 {
		t.Errorf("FrameCount() = %d, want 0", loaded.FrameCount())
	}
	if loaded.LineCount() != 0 {
		t.Errorf("LineCount() = %d, want 0", loaded.LineCount())
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(context.Background(), filepath.Join(t.TempDir(), "nope.db"))
	if !errors.Is(err, domain.ErrPersistence) {
		t.Errorf("Load() of missing file error = %v, want ErrPersistence", err)
	}
}
