// Package watch re-runs a conversion callback whenever one of a fixed set of
// input files changes on disk.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher monitors a fixed set of files and invokes a callback per change.
type Watcher struct {
	files    map[string]struct{}
	watcher  *fsnotify.Watcher
	onChange func(path string)

	// debounce suppresses the duplicate events editors produce when saving.
	debounce time.Duration
	lastSeen map[string]time.Time
}

// New creates a watcher for the given files. The callback receives the path
// as it was passed in, not the resolved absolute path.
func New(paths []string, onChange func(path string)) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	w := &Watcher{
		files:    make(map[string]struct{}, len(paths)),
		watcher:  fsw,
		onChange: onChange,
		debounce: 500 * time.Millisecond,
		lastSeen: make(map[string]time.Time, len(paths)),
	}

	// Watch the directories containing the files; watching directories is
	// more reliable than watching the files directly, since editors often
	// replace rather than rewrite them.
	dirs := make(map[string]struct{})
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			fsw.Close()
			return nil, fmt.Errorf("failed to resolve path %s: %w", p, err)
		}
		w.files[abs] = struct{}{}
		dirs[filepath.Dir(abs)] = struct{}{}
	}
	for dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			fsw.Close()
			return nil, fmt.Errorf("failed to watch directory %s: %w", dir, err)
		}
	}

	return w, nil
}

// Run processes file system events until the context is canceled or the
// underlying watcher is closed.
func (w *Watcher) Run(ctx context.Context) error {
	slog.Info("Watching for changes", "files", len(w.files))

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			w.handle(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("File watcher error", "error", err)
		}
	}
}

// Close stops the underlying file system watcher.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

func (w *Watcher) handle(event fsnotify.Event) {
	abs, err := filepath.Abs(event.Name)
	if err != nil {
		return
	}
	if _, watched := w.files[abs]; !watched {
		return
	}
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return
	}

	now := time.Now()
	if last, seen := w.lastSeen[abs]; seen && now.Sub(last) < w.debounce {
		return
	}
	w.lastSeen[abs] = now

	slog.Debug("File changed", "path", event.Name, "op", event.Op.String())
	w.onChange(event.Name)
}
