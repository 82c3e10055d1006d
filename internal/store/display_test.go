package store

import (
	"errors"
	"testing"

	"github.com/relvid/sqlstream/internal/domain"
)

func TestInitDisplayCardinality(t *testing.T) {
	s := mustOpen(t)
	mustPut(t, s, 0, "A", "B")

	if err := s.InitDisplay(); err != nil {
		t.Fatalf("InitDisplay() error: %v", err)
	}
	rows, err := s.Display()
	if err != nil {
		t.Fatalf("Display() error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("len(Display()) = %d, want 2", len(rows))
	}
	for i, r := range rows {
		if r != "" {
			t.Errorf("display line %d = %q, want empty", i, r)
		}
	}

	// Re-init keeps the cardinality fixed.
	if err := s.InitDisplay(); err != nil {
		t.Fatal(err)
	}
	rows, _ = s.Display()
	if len(rows) != 2 {
		t.Errorf("len(Display()) after re-init = %d, want 2", len(rows))
	}
}

func TestSyncDisplayScenario(t *testing.T) {
	s := mustOpen(t)
	mustPut(t, s, 0, "A", "B")
	mustPut(t, s, 1, "C", "D")
	mustPut(t, s, 2, "E", "F")
	if err := s.InitDisplay(); err != nil {
		t.Fatal(err)
	}

	want := [][]string{{"A", "B"}, {"C", "D"}, {"E", "F"}}
	for f, expect := range want {
		n, err := s.SyncDisplay(f)
		if err != nil {
			t.Fatalf("SyncDisplay(%d) error: %v", f, err)
		}
		if n != 2 {
			t.Errorf("SyncDisplay(%d) rows affected = %d, want 2", f, n)
		}
		rows, err := s.Display()
		if err != nil {
			t.Fatalf("Display() error: %v", err)
		}
		for i := range expect {
			if rows[i] != expect[i] {
				t.Errorf("after sync to %d, line %d = %q, want %q", f, i, rows[i], expect[i])
			}
		}
	}
}

func TestSyncDisplayMatchesGet(t *testing.T) {
	s := mustOpen(t)
	mustPut(t, s, 0, "one", "two", "three")
	mustPut(t, s, 1, "vier", "fünf", "sechs")
	if err := s.InitDisplay(); err != nil {
		t.Fatal(err)
	}

	for f := 0; f < s.FrameCount(); f++ {
		if _, err := s.SyncDisplay(f); err != nil {
			t.Fatal(err)
		}
		display, err := s.Display()
		if err != nil {
			t.Fatal(err)
		}
		library, err := s.Get(f)
		if err != nil {
			t.Fatal(err)
		}
		for i := range library {
			if display[i] != library[i] {
				t.Errorf("frame %d line %d: display %q != library %q", f, i, display[i], library[i])
			}
		}
	}
}

func TestSyncDisplayOutOfBounds(t *testing.T) {
	s := mustOpen(t)
	mustPut(t, s, 0, "A")
	if err := s.InitDisplay(); err != nil {
		t.Fatal(err)
	}

	if _, err := s.SyncDisplay(1); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("SyncDisplay(1) error = %v, want ErrNotFound", err)
	}
	if _, err := s.SyncDisplay(-1); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("SyncDisplay(-1) error = %v, want ErrNotFound", err)
	}
}
