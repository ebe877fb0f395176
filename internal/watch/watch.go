// Package watch triggers a callback when any of a set of files changes on disk.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/alexisbeaulieu97/livepreview/internal/logger"
)

// DefaultDelay is the quiet period before a burst of events triggers one callback.
const DefaultDelay = 200 * time.Millisecond

// Watcher observes files through their parent directories, so editors that replace a file
// instead of writing it in place are still seen.
type Watcher struct {
	files  map[string]struct{}
	delay  time.Duration
	logger *logger.Logger
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDelay overrides the debounce delay.
func WithDelay(d time.Duration) Option {
	return func(w *Watcher) {
		w.delay = d
	}
}

// WithLogger injects a logger.
func WithLogger(l *logger.Logger) Option {
	return func(w *Watcher) {
		w.logger = l
	}
}

// New creates a watcher for the given files.
func New(files []string, opts ...Option) (*Watcher, error) {
	w := &Watcher{
		files:  make(map[string]struct{}, len(files)),
		delay:  DefaultDelay,
		logger: logger.Nop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.logger = w.logger.Component("watch")

	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", f, err)
		}
		w.files[abs] = struct{}{}
	}
	return w, nil
}

// Files lists the watched files.
func (w *Watcher) Files() []string {
	out := make([]string, 0, len(w.files))
	for f := range w.files {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// Run blocks until ctx is done, calling onChange with the sorted set of changed files after
// each debounced burst. Calls never overlap.
func (w *Watcher) Run(ctx context.Context, onChange func(ctx context.Context, changed []string)) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer fsw.Close()

	dirs := map[string]struct{}{}
	for f := range w.files {
		dirs[filepath.Dir(f)] = struct{}{}
	}
	for dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
	}
	w.logger.WithField("files", len(w.files)).Info("watching for changes")

	var (
		mu      sync.Mutex
		pending = map[string]struct{}{}
		timer   *time.Timer
	)
	fire := make(chan struct{}, 1)
	defer func() {
		mu.Lock()
		if timer != nil {
			timer.Stop()
		}
		mu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			name := filepath.Clean(event.Name)
			if _, watched := w.files[name]; !watched {
				continue
			}
			w.logger.WithFields(map[string]any{"file": name, "op": event.Op.String()}).Debug("file changed")

			mu.Lock()
			pending[name] = struct{}{}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(w.delay, func() {
				select {
				case fire <- struct{}{}:
				default:
				}
			})
			mu.Unlock()

		case <-fire:
			mu.Lock()
			changed := make([]string, 0, len(pending))
			for name := range pending {
				changed = append(changed, name)
			}
			pending = map[string]struct{}{}
			mu.Unlock()

			if len(changed) == 0 {
				continue
			}
			sort.Strings(changed)
			onChange(ctx, changed)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Error(err, "watcher error")
		}
	}
}
