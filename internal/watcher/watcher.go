// Package watcher re-triggers catalog runs when source files change.
package watcher

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher watches a directory tree for changes to matching source files and
// fires a debounced callback with the accumulated paths.
type Watcher struct {
	watcher      *fsnotify.Watcher
	root         string
	extensions   map[string]bool
	debounceTime time.Duration

	callback func(files []string)
	ctx      context.Context
	cancel   context.CancelFunc

	accumulated   map[string]bool
	accumulatedMu sync.Mutex
	debounceTimer *time.Timer
	timerMu       sync.Mutex

	stopOnce sync.Once
	doneCh   chan struct{}
}

// New creates a watcher over root for files with one of the given
// extensions (e.g. []string{".rs"}).
func New(root string, extensions []string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	extMap := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		extMap[ext] = true
	}

	w := &Watcher{
		watcher:      fsw,
		root:         root,
		extensions:   extMap,
		debounceTime: 500 * time.Millisecond,
		accumulated:  make(map[string]bool),
		doneCh:       make(chan struct{}),
	}

	if err := w.addDirectoriesRecursively(root); err != nil {
		fsw.Close()
		return nil, err
	}

	return w, nil
}

// Start begins watching. callback is invoked with the changed file paths
// after a quiet period; it runs on a background goroutine.
func (w *Watcher) Start(ctx context.Context, callback func(files []string)) error {
	if callback == nil {
		return nil
	}

	w.callback = callback
	w.ctx, w.cancel = context.WithCancel(ctx)

	go w.watch()
	return nil
}

// Stop stops the watcher. Idempotent.
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		if w.cancel != nil {
			w.cancel()
			<-w.doneCh
		} else {
			close(w.doneCh)
		}
		err = w.watcher.Close()
	})
	return err
}

// addDirectoriesRecursively registers root and all subdirectories.
func (w *Watcher) addDirectoriesRecursively(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.watcher.Add(path)
		}
		return nil
	})
}

// watch consumes fsnotify events until the context is cancelled.
func (w *Watcher) watch() {
	defer close(w.doneCh)

	for {
		select {
		case <-w.ctx.Done():
			w.stopTimer()
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			// Watch errors are transient; the next batch run surfaces any
			// real load failure.
		}
	}
}

// handleEvent accumulates a relevant event and (re)arms the debounce timer.
func (w *Watcher) handleEvent(event fsnotify.Event) {
	// New directories must be added to the watch set.
	if event.Op.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			w.addDirectoriesRecursively(event.Name)
			return
		}
	}

	if !w.extensions[filepath.Ext(event.Name)] {
		return
	}
	if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) &&
		!event.Op.Has(fsnotify.Remove) && !event.Op.Has(fsnotify.Rename) {
		return
	}

	w.accumulatedMu.Lock()
	w.accumulated[event.Name] = true
	w.accumulatedMu.Unlock()

	w.timerMu.Lock()
	defer w.timerMu.Unlock()
	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.debounceTimer = time.AfterFunc(w.debounceTime, w.fire)
}

// fire drains the accumulated set and invokes the callback.
func (w *Watcher) fire() {
	w.accumulatedMu.Lock()
	if len(w.accumulated) == 0 {
		w.accumulatedMu.Unlock()
		return
	}
	files := make([]string, 0, len(w.accumulated))
	for f := range w.accumulated {
		files = append(files, f)
	}
	w.accumulated = make(map[string]bool)
	w.accumulatedMu.Unlock()

	if w.ctx.Err() == nil {
		w.callback(files)
	}
}

func (w *Watcher) stopTimer() {
	w.timerMu.Lock()
	defer w.timerMu.Unlock()
	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
}
