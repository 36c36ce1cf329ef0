package build

import (
	"context"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

const debounceDelay = 250 * time.Millisecond

// Watcher calls a rebuild callback whenever something under a site
// directory changes. The output directory and hidden directories are not
// watched.
type Watcher struct {
	root    string
	exclude string
	rebuild func() error
	watcher *fsnotify.Watcher
}

// NewWatcher watches root recursively, skipping the exclude directory, which
// is relative to root.
func NewWatcher(root, exclude string, rebuild func() error) (*Watcher, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	w := &Watcher{
		root:    absRoot,
		rebuild: rebuild,
		watcher: fw,
	}
	if exclude != "" {
		w.exclude = filepath.Join(absRoot, exclude)
	}
	if err := w.addTree(absRoot); err != nil {
		fw.Close()
		return nil, err
	}
	return w, nil
}

func (w *Watcher) skip(path string) bool {
	if w.exclude != "" && (path == w.exclude || strings.HasPrefix(path, w.exclude+string(filepath.Separator))) {
		return true
	}
	return path != w.root && strings.HasPrefix(filepath.Base(path), ".")
}

func (w *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if w.skip(path) {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(path); err != nil {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}
		return nil
	})
}

// Run blocks until ctx is cancelled. Rebuild failures are logged and
// watching continues.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	timer := time.NewTimer(debounceDelay)
	timer.Stop()
	var pending <-chan time.Time

	log.Printf("watching %s for changes\n", w.root)
	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			path, err := filepath.Abs(ev.Name)
			if err != nil || w.skip(path) {
				continue
			}
			if ev.Has(fsnotify.Create) {
				if st, err := os.Stat(path); err == nil && st.IsDir() {
					if err := w.addTree(path); err != nil {
						log.Printf("[warning] %v\n", err)
					}
				}
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename) {
				timer.Reset(debounceDelay)
				pending = timer.C
			}

		case <-pending:
			pending = nil
			log.Printf("change detected, rebuilding\n")
			if err := w.rebuild(); err != nil {
				log.Printf("[error] %v\n", err)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("[warning] watch error: %v\n", err)
		}
	}
}
