// Package watch monitors a velocity-model file so watch-mode runs can
// regenerate tables when the model changes on disk.
package watch

import (
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher monitors a single model file for changes using fsnotify. The
// parent directory is watched because editors typically replace files by
// rename, which drops a watch placed on the file itself.
type Watcher struct {
	Path    string
	Changes <-chan string // read-only external channel, emits the file path

	changes chan string
	done    chan struct{}
	quit    chan struct{}
	watcher *fsnotify.Watcher
}

// New creates a watcher for the given model file.
func New(path string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	ch := make(chan string, 4)
	return &Watcher{
		Path:    path,
		Changes: ch,
		changes: ch,
		done:    make(chan struct{}),
		quit:    make(chan struct{}),
		watcher: fw,
	}, nil
}

// Start begins watching the model file's directory for changes.
func (w *Watcher) Start() error {
	if err := w.watcher.Add(filepath.Dir(w.Path)); err != nil {
		return err
	}
	go w.loop()
	return nil
}

// Stop closes the watcher and channels. The consumer may have stopped
// reading Changes already; quit unblocks a loop stuck on a full buffer.
func (w *Watcher) Stop() {
	close(w.quit)
	w.watcher.Close()
	<-w.done // Wait for loop to exit
	close(w.changes)
}

// notify delivers one change, giving up on shutdown.
func (w *Watcher) notify() bool {
	select {
	case w.changes <- w.Path:
		return true
	case <-w.quit:
		return false
	}
}

func (w *Watcher) loop() {
	defer close(w.done)

	// Debounce: a save can surface as several events in quick succession.
	const debounce = 200 * time.Millisecond
	var pending time.Time
	ticker := time.NewTicker(debounce)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				if !pending.IsZero() {
					w.notify()
				}
				return
			}
			if filepath.Base(event.Name) != filepath.Base(w.Path) {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				pending = time.Now()
			}

		case _, ok := <-ticker.C:
			if !ok {
				return
			}
			if !pending.IsZero() && time.Since(pending) >= debounce {
				pending = time.Time{}
				if !w.notify() {
					return
				}
			}

		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			// Watch errors are non-fatal.
		}
	}
}
