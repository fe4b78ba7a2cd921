package watch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/texkit/internal/logfields"
)

// Watcher observes a set of directory trees and feeds change events into
// a Scheduler. Directories created while watching are picked up
// automatically.
type Watcher struct {
	fs    *fsnotify.Watcher
	sched *Scheduler
}

// NewWatcher creates a watcher over the given root directories. Roots
// that do not exist are skipped with a warning so optional trees like an
// assets directory need not be present.
func NewWatcher(sched *Scheduler, roots []string) (*Watcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("fsnotify: %w", err)
	}

	added := 0
	for _, root := range roots {
		st, statErr := os.Stat(root)
		if statErr != nil || !st.IsDir() {
			slog.Warn("watch root missing, skipping", logfields.Dir(root))
			continue
		}
		if err := addDirsRecursive(fs, root); err != nil {
			_ = fs.Close()
			return nil, err
		}
		added++
	}
	if added == 0 {
		_ = fs.Close()
		return nil, fmt.Errorf("no watchable directories among %v", roots)
	}

	return &Watcher{fs: fs, sched: sched}, nil
}

// Close releases the underlying filesystem watcher.
func (w *Watcher) Close() error { return w.fs.Close() }

// Run processes filesystem events until the context is done. It returns
// nil on a clean shutdown.
func (w *Watcher) Run(ctx context.Context) error {
	w.sched.Start(ctx)

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			w.handleEvent(ev)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			slog.Warn("watcher error", logfields.Error(err))
		}
	}
}

func (w *Watcher) handleEvent(ev fsnotify.Event) {
	if shouldIgnoreEvent(ev.Name) {
		return
	}
	if ev.Op&fsnotify.Create == fsnotify.Create {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			_ = addDirsRecursive(w.fs, ev.Name)
			return
		}
	}
	verdict := w.sched.OnEvent(ev.Name)
	slog.Debug("file change",
		logfields.Path(ev.Name),
		logfields.Event(ev.Op.String()),
		slog.String("verdict", verdict.String()))
}

func addDirsRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if strings.HasPrefix(filepath.Base(path), ".") && path != root {
				return filepath.SkipDir
			}
			if err := w.Add(path); err != nil {
				slog.Warn("watch add failed", logfields.Dir(path), logfields.Error(err))
			}
		}
		return nil
	})
}

// shouldIgnoreEvent returns true for paths that never warrant a rebuild:
// hidden files and editor temp/swap artifacts.
func shouldIgnoreEvent(path string) bool {
	base := filepath.Base(path)

	if strings.HasPrefix(base, ".") {
		return true
	}
	if strings.HasSuffix(base, "~") ||
		strings.HasSuffix(base, ".swp") ||
		strings.HasSuffix(base, ".swx") ||
		strings.HasPrefix(base, ".#") ||
		strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#") {
		return true
	}
	if base == ".DS_Store" || base == "Thumbs.db" {
		return true
	}
	return false
}
