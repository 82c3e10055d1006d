// Package watch monitors the sqlstream config file during playback and
// pushes target-fps changes to the running session.
package watch

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/relvid/sqlstream/internal/cliconfig"
	"github.com/relvid/sqlstream/internal/ports"
)

// defaultDebounce absorbs editor save bursts (write + chmod + rename).
const defaultDebounce = 100 * time.Millisecond

// FPSWatcher watches a TOML config file and emits the fps value whenever
// the file changes. Consumers read Updates(); sends never block, a slow
// consumer just sees the latest value.
type FPSWatcher struct {
	path     string
	logger   ports.Logger
	debounce time.Duration

	ch     chan int
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a watcher for the given config file path.
func New(path string, logger ports.Logger) *FPSWatcher {
	return &FPSWatcher{
		path:     path,
		logger:   logger,
		debounce: defaultDebounce,
		ch:       make(chan int, 1),
	}
}

// Updates returns the channel of fps override values.
func (w *FPSWatcher) Updates() <-chan int {
	return w.ch
}

// Start begins watching. Returns an error if the underlying watcher cannot
// be created; file-level problems afterwards are logged, not fatal.
func (w *FPSWatcher) Start(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	// Watch the directory: editors replace files on save, and a watch on
	// the old inode would go stale.
	if err := watcher.Add(filepath.Dir(w.path)); err != nil {
		watcher.Close()
		return err
	}

	watchCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	w.wg.Add(1)
	go w.loop(watchCtx, watcher)
	return nil
}

// Stop ends watching and waits for the loop to exit.
func (w *FPSWatcher) Stop() {
	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()
}

func (w *FPSWatcher) loop(ctx context.Context, watcher *fsnotify.Watcher) {
	defer w.wg.Done()
	defer watcher.Close()

	var debounce *time.Timer
	var debounceCh <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.path) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if debounce == nil {
				debounce = time.NewTimer(w.debounce)
			} else {
				if !debounce.Stop() {
					select {
					case <-debounce.C:
					default:
					}
				}
				debounce.Reset(w.debounce)
			}
			debounceCh = debounce.C

		case <-debounceCh:
			debounceCh = nil
			w.publish()

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			if w.logger != nil {
				w.logger.Warn("config watcher error", ports.Err(err))
			}
		}
	}
}

// publish re-reads the config file and forwards its fps value.
func (w *FPSWatcher) publish() {
	fc, err := cliconfig.LoadFileConfig(w.path)
	if err != nil {
		if w.logger != nil {
			w.logger.Warn("config reload failed", ports.String("path", w.path), ports.Err(err))
		}
		return
	}
	if fc.FPS <= 0 {
		return
	}
	// Keep only the most recent value.
	select {
	case w.ch <- fc.FPS:
	default:
		select {
		case <-w.ch:
		default:
		}
		select {
		case w.ch <- fc.FPS:
		default:
		}
	}
}
