package session

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"legato/internal/timing"
)

// Entry describes one saved session file.
type Entry struct {
	Path    string
	Name    string
	ModTime time.Time
	Size    int64
}

// Store saves and loads session files under a single directory.
type Store struct {
	dir string
}

// NewStore creates a store rooted at dir, creating it if needed.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create sessions dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the sessions directory.
func (s *Store) Dir() string { return s.dir }

// Save writes the timeline as a new session file and returns its
// path. The file is written to a temp name and renamed so a crash
// mid-write never leaves a readable half file.
func (s *Store) Save(tl *timing.Timeline, meta timing.SessionMeta, endMono time.Duration) (string, error) {
	data, err := Encode(tl, meta, endMono)
	if err != nil {
		return "", err
	}

	name := fmt.Sprintf("session_%s.json", time.Now().Format("20060102_150405"))
	path := filepath.Join(s.dir, name)

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return "", fmt.Errorf("write session: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("write session: %w", err)
	}
	return path, nil
}

// Load reads and decodes a session file. On any error the caller's
// timeline is untouched; decoding is all-or-nothing.
func (s *Store) Load(path string) (*timing.Timeline, timing.SessionMeta, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, timing.SessionMeta{}, fmt.Errorf("read session: %w", err)
	}
	return Decode(data)
}

// List returns the saved sessions, newest first.
func (s *Store) List() ([]Entry, error) {
	paths, err := filepath.Glob(filepath.Join(s.dir, "session_*.json"))
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(paths))
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			continue
		}
		entries = append(entries, Entry{
			Path:    p,
			Name:    filepath.Base(p),
			ModTime: info.ModTime(),
			Size:    info.Size(),
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].ModTime.After(entries[j].ModTime)
	})
	return entries, nil
}
