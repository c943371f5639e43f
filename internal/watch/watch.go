// Package watch implements the File Watcher (spec.md §4.5), adapted from
// the teacher's internal/watcher.Watcher: a recursive fsnotify watcher, a
// mutex-guarded pending-path debounce map flushed by a ticker, and
// reinitialization on a dropped filesystem watch. Unlike the teacher, it
// forwards coalesced path sets to project.Index.RefreshPaths instead of
// reindexing a single file, and consults a suppression map so the Section
// Editor's own writes don't trigger a redundant refresh.
package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/aidanlsb/docsectiond/internal/markup"
	"github.com/aidanlsb/docsectiond/internal/obslog"
	"github.com/aidanlsb/docsectiond/internal/project"
	"github.com/aidanlsb/docsectiond/internal/sectionedit"
)

// DebounceWindow is the coalescing window spec.md §4.5 specifies.
const DebounceWindow = 250 * time.Millisecond

// errWatchClosed is returned by runOnce when fsnotify closes its channels,
// so Run reinitializes the watch.
var errWatchClosed = errors.New("fsnotify watcher closed")

var ignoredDirNames = map[string]bool{
	".git": true, ".venv": true, "venv": true, "node_modules": true,
}

// Watcher observes root recursively and drives index.RefreshPaths for
// batches of changed markup files.
type Watcher struct {
	root     string
	index    *project.Index
	suppress *sectionedit.SuppressionMap
	log      *obslog.Logger

	fsWatcher *fsnotify.Watcher
	pending   map[string]time.Time
	mu        sync.Mutex
}

// New creates a Watcher over root. suppress and log may be nil.
func New(root string, index *project.Index, suppress *sectionedit.SuppressionMap, log *obslog.Logger) *Watcher {
	return &Watcher{
		root:     root,
		index:    index,
		suppress: suppress,
		log:      log,
		pending:  map[string]time.Time{},
	}
}

func (w *Watcher) debugf(format string, args ...interface{}) {
	if w.log != nil {
		w.log.Debugf(format, args...)
	}
}

// Run watches root until ctx is cancelled, reinitializing the underlying
// fsnotify watcher if it drops (spec.md §4.5's failure-mode clause).
func (w *Watcher) Run(ctx context.Context) error {
	for {
		err := w.runOnce(ctx)
		if err == nil || ctx.Err() != nil {
			return err
		}
		w.debugf("watch: reinitializing after error: %v", err)
		if rebuildErr := w.index.Refresh(); rebuildErr != nil {
			w.debugf("watch: full rediscovery after reinit failed: %v", rebuildErr)
		}
	}
}

func (w *Watcher) runOnce(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	w.fsWatcher = fsw
	defer fsw.Close()

	if err := w.addWatchRecursive(w.root); err != nil {
		return err
	}

	flush := time.NewTicker(50 * time.Millisecond)
	defer flush.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-fsw.Events:
			if !ok {
				return errWatchClosed
			}
			w.handleEvent(event)
		case err, ok := <-fsw.Errors:
			if !ok {
				return errWatchClosed
			}
			w.debugf("watch: fsnotify error: %v", err)
		case <-flush.C:
			w.flushPending()
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	path := event.Name

	if event.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			if !w.shouldIgnoreDir(path) {
				_ = w.addWatchRecursive(path)
			}
			return
		}
	}

	if w.shouldIgnore(path) {
		return
	}
	if _, ok := markup.DialectForPath(path); !ok {
		return
	}

	if w.suppress != nil {
		if st, err := os.Stat(path); err == nil && w.suppress.ShouldSuppress(path, st.ModTime()) {
			w.debugf("watch: suppressing self-edit echo for %s", path)
			return
		}
	}

	w.mu.Lock()
	w.pending[path] = time.Now()
	w.mu.Unlock()
}

func (w *Watcher) flushPending() {
	w.mu.Lock()
	now := time.Now()
	var ready []string
	for path, scheduledAt := range w.pending {
		if now.Sub(scheduledAt) >= DebounceWindow {
			ready = append(ready, path)
			delete(w.pending, path)
		}
	}
	w.mu.Unlock()

	if len(ready) == 0 {
		return
	}
	if err := w.index.RefreshPaths(ready); err != nil {
		w.debugf("watch: refresh failed for %v: %v", ready, err)
		return
	}
	w.debugf("watch: refreshed %d path(s)", len(ready))
}

func (w *Watcher) addWatchRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if w.shouldIgnoreDir(path) {
				return filepath.SkipDir
			}
			if addErr := w.fsWatcher.Add(path); addErr != nil {
				w.debugf("watch: failed to watch %s: %v", path, addErr)
			}
		}
		return nil
	})
}

// shouldIgnore reports whether path falls under an ignored directory name
// anywhere between root and path.
func (w *Watcher) shouldIgnore(path string) bool {
	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		return false
	}
	dir := filepath.Dir(rel)
	for dir != "." && dir != string(filepath.Separator) {
		base := filepath.Base(dir)
		if ignoredDirNames[base] || (len(base) > 1 && base[0] == '.') {
			return true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return false
}

func (w *Watcher) shouldIgnoreDir(path string) bool {
	base := filepath.Base(path)
	return ignoredDirNames[base] || (len(base) > 1 && base[0] == '.')
}
