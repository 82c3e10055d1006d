package term

import (
	"bytes"
	"strings"
	"testing"

	"github.com/relvid/sqlstream/internal/domain"
	"github.com/relvid/sqlstream/internal/ports"
)

func TestRendererRepaint(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, 40)

	stats := ports.FrameStats{Cursor: 0, FrameCount: 3, RowUpdates: 2}
	if err := r.Render(domain.RowSet{"AA", "BB"}, stats); err != nil {
		t.Fatalf("Render() error: %v", err)
	}

	out := buf.String()
	if !strings.HasPrefix(out, cursorHide+cursorHome) {
		t.Errorf("first render should hide cursor and home; got %q", out[:min(len(out), 12)])
	}
	if !strings.Contains(out, "AA\nBB\n") {
		t.Errorf("output missing frame lines: %q", out)
	}
	if !strings.Contains(out, "FRAME 0/2") {
		t.Errorf("output missing status bar: %q", out)
	}
	if !strings.Contains(out, "SQL UPDATES: 2") {
		t.Errorf("output missing update counter: %q", out)
	}

	// Second render homes the cursor but does not hide it again.
	buf.Reset()
	stats.Cursor = 1
	if err := r.Render(domain.RowSet{"CC", "DD"}, stats); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(buf.String(), cursorHide) {
		t.Error("cursor hidden twice")
	}
	if !strings.HasPrefix(buf.String(), cursorHome) {
		t.Error("second render should start with cursor home")
	}
}

func TestRendererClose(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, 20)

	// Close before any render writes nothing.
	if err := r.Close(); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != 0 {
		t.Errorf("Close() before render wrote %q", buf.String())
	}

	if err := r.Render(domain.RowSet{"X"}, ports.FrameStats{FrameCount: 1}); err != nil {
		t.Fatal(err)
	}
	buf.Reset()
	if err := r.Close(); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, sgrReset) || !strings.Contains(out, cursorShow) {
		t.Errorf("Close() should reset colors and show cursor; got %q", out)
	}
}

func TestCenter(t *testing.T) {
	got := center("abc", 9, '=')
	if got != "===abc===" {
		t.Errorf("center = %q, want ===abc===", got)
	}
	if got := center("abcdef", 4, '='); got != "abcdef" {
		t.Errorf("center wider than width = %q, want unchanged", got)
	}
}

func TestStatusBarWidth(t *testing.T) {
	s := statusBar(ports.FrameStats{Cursor: 5, FrameCount: 100, RowUpdates: 1234}, 60)
	if len([]rune(s)) != 60 {
		t.Errorf("status bar width = %d, want 60", len([]rune(s)))
	}
	if !strings.HasPrefix(s, "=") || !strings.HasSuffix(s, "=") {
		t.Errorf("status bar not padded with '=': %q", s)
	}
}
