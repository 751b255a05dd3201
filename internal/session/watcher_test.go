package session

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRelevant(t *testing.T) {
	tests := []struct {
		name string
		ev   fsnotify.Event
		want bool
	}{
		{"session create", fsnotify.Event{Name: "/x/session_20260820_143000.json", Op: fsnotify.Create}, true},
		{"session remove", fsnotify.Event{Name: "/x/session_20260820_143000.json", Op: fsnotify.Remove}, true},
		{"session rename", fsnotify.Event{Name: "/x/session_20260820_143000.json", Op: fsnotify.Rename}, true},
		{"session write in progress", fsnotify.Event{Name: "/x/session_20260820_143000.json", Op: fsnotify.Write}, false},
		{"temp file", fsnotify.Event{Name: "/x/session_20260820_143000.json.tmp", Op: fsnotify.Create}, false},
		{"unrelated file", fsnotify.Event{Name: "/x/notes.txt", Op: fsnotify.Create}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := relevant(tt.ev); got != tt.want {
				t.Errorf("relevant(%v) = %v, want %v", tt.ev, got, tt.want)
			}
		})
	}
}

func TestWatcherSignalsOnSave(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	require.NoError(t, err)

	w, err := NewWatcher(dir)
	require.NoError(t, err)
	defer w.Close()

	_, err = store.Save(sampleTimeline(t), sampleMeta(), ms(500))
	require.NoError(t, err)

	select {
	case <-w.Events:
	case err := <-w.Errors:
		t.Fatalf("watcher error: %v", err)
	case <-time.After(2 * time.Second):
		t.Fatal("no change signal after save")
	}
}

func TestWatcherIgnoresForeignFiles(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir)
	require.NoError(t, err)
	defer w.Close()

	writeFile(t, filepath.Join(dir, "notes.txt"), "nothing to see")

	select {
	case <-w.Events:
		t.Fatal("unexpected signal for an unrelated file")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatcherMissingDir(t *testing.T) {
	_, err := NewWatcher(filepath.Join(t.TempDir(), "does-not-exist"))
	assert.Error(t, err)
}
