// Package watch re-runs audits when target inputs change on disk.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/danmuck/bindgap/internal/audit"
	"github.com/danmuck/bindgap/internal/logging"
	"github.com/fsnotify/fsnotify"
)

const DefaultDebounce = 300 * time.Millisecond

// Watcher observes target headers and wrapper directories.
type Watcher struct {
	fs       *fsnotify.Watcher
	debounce time.Duration
	headers  map[string]bool
	wrappers map[string]bool
}

// New watches the inputs of every target. Header files are watched through
// their parent directory so editor rename-on-save keeps working.
func New(targets []audit.Target, debounce time.Duration) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch init failed: %w", err)
	}
	w := &Watcher{
		fs:       fw,
		debounce: debounce,
		headers:  make(map[string]bool),
		wrappers: make(map[string]bool),
	}
	dirs := make(map[string]bool)
	for _, t := range targets {
		h := filepath.Clean(t.Header)
		d := filepath.Clean(t.WrapperDir)
		w.headers[h] = true
		w.wrappers[d] = true
		dirs[filepath.Dir(h)] = true
		dirs[d] = true
	}
	for dir := range dirs {
		if err := fw.Add(dir); err != nil {
			_ = fw.Close()
			return nil, fmt.Errorf("watch add failed (%s): %w", dir, err)
		}
	}
	return w, nil
}

// Relevant reports whether an event touches a header or a direct wrapper file.
func (w *Watcher) Relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) &&
		!ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
		return false
	}
	name := filepath.Clean(ev.Name)
	return w.headers[name] || w.wrappers[filepath.Dir(name)]
}

// Run calls onChange once per burst of relevant events until ctx is done.
// Errors from onChange are logged and do not stop the loop.
func (w *Watcher) Run(ctx context.Context, onChange func(context.Context) error) error {
	logger := logging.For("watch")
	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if !w.Relevant(ev) {
				continue
			}
			logger.Debug().Str("path", ev.Name).Str("op", ev.Op.String()).Msg("input changed")
			timer.Reset(w.debounce)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			logger.Error().Err(err).Msg("watch error")
		case <-timer.C:
			if err := onChange(ctx); err != nil {
				logger.Error().Err(err).Msg("re-run failed")
			}
		}
	}
}

// Close releases the underlying watcher.
func (w *Watcher) Close() error {
	return w.fs.Close()
}
