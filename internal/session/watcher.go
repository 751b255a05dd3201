package session

import (
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// Watcher signals when the sessions directory changes so the load
// picker can refresh its file list without polling.
type Watcher struct {
	fsWatcher *fsnotify.Watcher

	// Events receives a signal per relevant filesystem change.
	Events chan struct{}
	// Errors receives watcher failures.
	Errors chan error

	done chan struct{}
}

// NewWatcher starts watching dir for session file changes.
func NewWatcher(dir string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, err
	}

	w := &Watcher{
		fsWatcher: fsw,
		Events:    make(chan struct{}, 1),
		Errors:    make(chan error, 10),
		done:      make(chan struct{}),
	}
	go w.run()
	return w, nil
}

func (w *Watcher) run() {
	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if !relevant(ev) {
				continue
			}
			// Coalesce: one pending signal is enough.
			select {
			case w.Events <- struct{}{}:
			default:
			}
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			select {
			case w.Errors <- err:
			default:
			}
		}
	}
}

// relevant filters to session file creation, removal and rename;
// temp-file writes in progress are ignored.
func relevant(ev fsnotify.Event) bool {
	name := filepath.Base(ev.Name)
	if !strings.HasPrefix(name, "session_") || !strings.HasSuffix(name, ".json") {
		return false
	}
	return ev.Op.Has(fsnotify.Create) || ev.Op.Has(fsnotify.Remove) || ev.Op.Has(fsnotify.Rename)
}

// Close stops the watcher and its goroutine.
func (w *Watcher) Close() error {
	close(w.done)
	return w.fsWatcher.Close()
}
