// Package watch notifies callers when a single file on disk changes.
package watch

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/turtacn/dockprep/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/dockprep/pkg/errors"
)

// DefaultDebounce collapses the burst of events an editor emits on save.
const DefaultDebounce = 200 * time.Millisecond

// FileWatcher watches one file and calls onChange after it is created,
// written, renamed or removed.  The parent directory is watched so that
// atomic replace-by-rename saves are seen.
type FileWatcher struct {
	mu       sync.Mutex
	watcher  *fsnotify.Watcher
	path     string
	debounce time.Duration
	onChange func(path string)
	logger   logging.Logger

	stopCh  chan struct{}
	doneCh  chan struct{}
	running bool
}

// Option customises a FileWatcher.
type Option func(*FileWatcher)

// WithDebounce overrides DefaultDebounce.
func WithDebounce(d time.Duration) Option {
	return func(w *FileWatcher) { w.debounce = d }
}

// WithLogger sets the logger.
func WithLogger(l logging.Logger) Option {
	return func(w *FileWatcher) { w.logger = l }
}

// NewFileWatcher creates a watcher for path.  onChange runs on the watcher
// goroutine and must not block for long.
func NewFileWatcher(path string, onChange func(path string), opts ...Option) (*FileWatcher, error) {
	if onChange == nil {
		return nil, errors.InvalidParam("onChange callback must not be nil")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to resolve watched path").WithDetail(path)
	}
	fw := &FileWatcher{
		path:     abs,
		debounce: DefaultDebounce,
		onChange: onChange,
		logger:   logging.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(fw)
	}
	return fw, nil
}

// Path returns the absolute watched path.
func (w *FileWatcher) Path() string { return w.path }

// Start begins watching.  It is non-blocking; the loop ends when ctx is
// cancelled or Stop is called.
func (w *FileWatcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to create file watcher")
	}
	if err := watcher.Add(filepath.Dir(w.path)); err != nil {
		watcher.Close()
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to watch directory").WithDetail(filepath.Dir(w.path))
	}

	w.watcher = watcher
	w.stopCh = make(chan struct{})
	w.doneCh = make(chan struct{})
	w.running = true
	go w.run(ctx)

	w.logger.Info("watching file", logging.String("path", w.path))
	return nil
}

// Stop ends the loop and releases the underlying watcher.  Safe to call
// more than once.
func (w *FileWatcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	close(w.stopCh)
	done := w.doneCh
	w.mu.Unlock()

	<-done
}

func (w *FileWatcher) run(ctx context.Context) {
	defer close(w.doneCh)
	defer w.watcher.Close()

	var (
		timer   *time.Timer
		timerCh <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			w.markStopped()
			return
		case <-w.stopCh:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				w.markStopped()
				return
			}
			if !w.relevant(event) {
				continue
			}
			w.logger.Debug("file event", logging.String("path", event.Name), logging.String("op", event.Op.String()))
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}
			timerCh = timer.C

		case err, ok := <-w.watcher.Errors:
			if !ok {
				w.markStopped()
				return
			}
			w.logger.Warn("file watcher error", logging.Err(err))

		case <-timerCh:
			timerCh = nil
			w.onChange(w.path)
		}
	}
}

func (w *FileWatcher) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.path {
		return false
	}
	return event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0
}

// markStopped records a self-terminated loop so Stop does not wait on it.
func (w *FileWatcher) markStopped() {
	w.mu.Lock()
	w.running = false
	w.mu.Unlock()
}

//Personal.AI order the ending
