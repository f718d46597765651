// Package watch provides recursive filesystem watching with debounced
// change batches, used to drive incremental rebuilds.
package watch

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long the watcher waits after the last change
// before emitting a batch. Editors often write several events per save.
const DefaultDebounce = 300 * time.Millisecond

// sourceExtensions are the file types that trigger a rebuild
var sourceExtensions = []string{".ts", ".tsx", ".js", ".jsx", ".mjs", ".cjs", ".json", ".css"}

// Watcher watches one or more source roots recursively and emits
// batches of changed file paths on Changes.
type Watcher struct {
	fs       *fsnotify.Watcher
	skip     []string
	debounce time.Duration

	changes chan []string
	errs    chan error
	done    chan struct{}

	mu      sync.Mutex
	pending map[string]struct{}
	timer   *time.Timer
}

// New creates a watcher over the given roots. Directories named in skip
// (and dot-directories) are not descended into. A zero debounce uses
// DefaultDebounce.
func New(roots []string, skip []string, debounce time.Duration) (*Watcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if debounce == 0 {
		debounce = DefaultDebounce
	}

	w := &Watcher{
		fs:       fs,
		skip:     skip,
		debounce: debounce,
		changes:  make(chan []string),
		errs:     make(chan error),
		done:     make(chan struct{}),
		pending:  map[string]struct{}{},
	}

	for _, root := range roots {
		if err := w.addRecursive(root); err != nil {
			fs.Close()
			return nil, err
		}
	}

	go w.loop()

	return w, nil
}

// Changes delivers debounced batches of changed file paths
func (w *Watcher) Changes() <-chan []string {
	return w.changes
}

// Errors delivers errors from the underlying filesystem watcher
func (w *Watcher) Errors() <-chan error {
	return w.errs
}

// Close stops the watcher and releases its resources
func (w *Watcher) Close() error {
	close(w.done)
	return w.fs.Close()
}

func (w *Watcher) loop() {
	for {
		select {
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}

			// track new directories
			if ev.Op.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					_ = w.addRecursive(ev.Name)
					continue
				}
			}

			if isSourceFile(ev.Name) {
				w.record(ev.Name)
			}
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}

			select {
			case w.errs <- err:
			case <-w.done:
				return
			}
		case <-w.done:
			return
		}
	}
}

// record adds a path to the pending batch and resets the debounce timer
func (w *Watcher) record(path string) {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	w.pending[filepath.Clean(path)] = struct{}{}

	if w.timer != nil {
		w.timer.Stop()
	}

	w.timer = time.AfterFunc(w.debounce, w.flush)
}

func (w *Watcher) flush() {
	w.mu.Lock()
	files := make([]string, 0, len(w.pending))
	for f := range w.pending {
		files = append(files, f)
	}
	w.pending = map[string]struct{}{}
	w.mu.Unlock()

	if len(files) == 0 {
		return
	}

	select {
	case w.changes <- files:
	case <-w.done:
	}
}

func (w *Watcher) addRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}

		if !d.IsDir() {
			return nil
		}

		if path != root && w.skipDir(d.Name()) {
			return filepath.SkipDir
		}

		return w.fs.Add(path)
	})
}

func (w *Watcher) skipDir(name string) bool {
	if strings.HasPrefix(name, ".") {
		return true
	}

	for _, s := range w.skip {
		if name == s {
			return true
		}
	}

	return false
}

func isSourceFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))

	for _, s := range sourceExtensions {
		if ext == s {
			return true
		}
	}

	return false
}
