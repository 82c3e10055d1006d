package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestFPSWatcher(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("fps = 30\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	w := New(path, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	defer w.Stop()

	if err := os.WriteFile(path, []byte("fps = 24\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	select {
	case fps := <-w.Updates():
		if fps != 24 {
			t.Errorf("update = %d, want 24", fps)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no fps update received")
	}
}

func TestFPSWatcherIgnoresInvalidValues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("fps = 30\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	w := New(path, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	// Zero fps and unparsable files must not produce updates.
	if err := os.WriteFile(path, []byte("fps = 0\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	select {
	case fps := <-w.Updates():
		t.Errorf("unexpected update %d for fps = 0", fps)
	case <-time.After(500 * time.Millisecond):
	}
}

func TestFPSWatcherIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("fps = 30\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	w := New(path, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	if err := os.WriteFile(filepath.Join(dir, "other.toml"), []byte("fps = 99\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	select {
	case fps := <-w.Updates():
		t.Errorf("unexpected update %d from unrelated file", fps)
	case <-time.After(500 * time.Millisecond):
	}
}
