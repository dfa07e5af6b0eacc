// Package watcher provides debounced file change notifications.
package watcher

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
)

// debounceWindow collapses editor write bursts into one callback.
const debounceWindow = 500 * time.Millisecond

// Watcher watches a single file and invokes a callback when it changes.
// The parent directory is watched so the file may not exist yet, and
// rename-and-replace saves are still observed.
type Watcher struct {
	path     string
	onChange func()
	fw       *fsnotify.Watcher
	stopCh   chan struct{}
	mu       sync.Mutex
	started  bool
}

// New creates a watcher for the given file path.
func New(path string, onChange func()) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		path:     filepath.Clean(path),
		onChange: onChange,
		fw:       fw,
		stopCh:   make(chan struct{}),
	}, nil
}

// Start begins watching. Safe to call once; subsequent calls are no-ops.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.started {
		return nil
	}

	if err := w.fw.Add(filepath.Dir(w.path)); err != nil {
		return err
	}
	w.started = true

	go w.loop()
	return nil
}

// Stop stops watching and releases the underlying OS watches.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.started {
		_ = w.fw.Close()
		return
	}
	w.started = false
	close(w.stopCh)
	_ = w.fw.Close()
}

func (w *Watcher) loop() {
	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-w.stopCh:
			return
		case event, ok := <-w.fw.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write | fsnotify.Create | fsnotify.Rename | fsnotify.Remove) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounceWindow, w.onChange)
		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			log.Warn().Err(err).Str("path", w.path).Msg("file watcher error")
		}
	}
}
