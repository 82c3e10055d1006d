package playback

import (
	"context"
	"fmt"
	"io"
	"testing"

	"github.com/relvid/sqlstream/internal/adapters/log"
	"github.com/relvid/sqlstream/internal/domain"
	"github.com/relvid/sqlstream/internal/store"
)

// fakeSource yields n solid 2x2 frames, then EOF.
type fakeSource struct {
	n    int
	next int
}

func (s *fakeSource) Next(ctx context.Context) (domain.RawFrame, error) {
	if s.next >= s.n {
		return domain.RawFrame{}, io.EOF
	}
	s.next++
	return domain.RawFrame{Width: 2, Height: 2, Pix: make([]byte, 12)}, nil
}

func (s *fakeSource) Close() error { return nil }

// indexEncoder produces one line per pixel row, tagged with the call index
// so stored frames are distinguishable.
type indexEncoder struct {
	calls int
}

func (e *indexEncoder) Encode(frame domain.RawFrame) (domain.RowSet, error) {
	e.calls++
	rows := make(domain.RowSet, frame.Height)
	for i := range rows {
		rows[i] = fmt.Sprintf("frame-%d-line-%d", e.calls-1, i)
	}
	return rows, nil
}

func TestIngestorRun(t *testing.T) {
	st, err := store.Open("", domain.Grayscale)
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()

	ing := &Ingestor{
		Source:  &fakeSource{n: 4},
		Encoder: &indexEncoder{},
		Store:   st,
		Logger:  log.NewNoopLogger(),
	}
	n, err := ing.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if n != 4 {
		t.Errorf("ingested %d frames, want 4", n)
	}
	if st.FrameCount() != 4 {
		t.Errorf("FrameCount() = %d, want 4", st.FrameCount())
	}
	if st.LineCount() != 2 {
		t.Errorf("LineCount() = %d, want 2", st.LineCount())
	}

	rows, err := st.Get(2)
	if err != nil {
		t.Fatal(err)
	}
	if rows[0] != "frame-2-line-0" {
		t.Errorf("frame 2 line 0 = %q, want %q", rows[0], "frame-2-line-0")
	}
}

func TestIngestorMaxFrames(t *testing.T) {
	st, err := store.Open("", domain.Grayscale)
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()

	ing := &Ingestor{
		Source:    &fakeSource{n: 10},
		Encoder:   &indexEncoder{},
		Store:     st,
		MaxFrames: 3,
	}
	n, err := ing.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Errorf("ingested %d frames, want 3 (capped)", n)
	}
}

func TestIngestorCancellation(t *testing.T) {
	st, err := store.Open("", domain.Grayscale)
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ing := &Ingestor{
		Source:  &fakeSource{n: 10},
		Encoder: &indexEncoder{},
		Store:   st,
	}
	if _, err := ing.Run(ctx); err == nil {
		t.Error("Run() with cancelled context: expected error")
	}
}
