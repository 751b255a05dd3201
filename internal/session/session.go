// Package session persists recorded timelines as JSON files and
// watches the sessions directory so the load picker stays current.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"legato/internal/keymap"
	"legato/internal/timing"
)

// SchemaVersion is the current on-disk format version. Files with a
// different version are rejected on load.
const SchemaVersion = 1

// ErrIncompatible is returned for files whose schema version does not
// match. Load failures are non-fatal: the timeline is left untouched.
var ErrIncompatible = errors.New("incompatible session schema version")

// fileIntervals is one key's serialized press list, start-ascending.
type fileInterval struct {
	Start int64 `json:"start"`
	End   int64 `json:"end"`
}

type fileKey struct {
	KeyID     string         `json:"keyId"`
	Intervals []fileInterval `json:"intervals"`
}

// File is the session persistence schema.
type File struct {
	Version   int       `json:"version"`
	StartedAt time.Time `json:"startedAt"`
	EndedAt   time.Time `json:"endedAt"`
	Keys      []fileKey `json:"keys"`
}

// Encode serializes a timeline with its wall-clock bounds. endMono is
// the monotonic timestamp substituted for any interval still open at
// save time (normally none: Stop force-closes everything first).
func Encode(tl *timing.Timeline, meta timing.SessionMeta, endMono time.Duration) ([]byte, error) {
	f := File{
		Version:   SchemaVersion,
		StartedAt: meta.StartedAt,
		EndedAt:   meta.EndedAt,
	}
	for _, k := range tl.Keys() {
		fk := fileKey{KeyID: string(k)}
		for _, iv := range tl.Intervals(k) {
			end := iv.End
			if iv.Open() {
				end = endMono
			}
			fk.Intervals = append(fk.Intervals, fileInterval{
				Start: int64(iv.Start),
				End:   int64(end),
			})
		}
		sort.Slice(fk.Intervals, func(i, j int) bool {
			return fk.Intervals[i].Start < fk.Intervals[j].Start
		})
		f.Keys = append(f.Keys, fk)
	}
	return json.MarshalIndent(f, "", "  ")
}

// Decode parses and validates a serialized session. It is
// all-or-nothing: any malformed interval fails the whole decode so a
// partial timeline can never be produced.
func Decode(data []byte) (*timing.Timeline, timing.SessionMeta, error) {
	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, timing.SessionMeta{}, fmt.Errorf("parse session: %w", err)
	}
	if f.Version != SchemaVersion {
		return nil, timing.SessionMeta{}, fmt.Errorf("%w: got %d, want %d",
			ErrIncompatible, f.Version, SchemaVersion)
	}

	tl := timing.NewTimeline()
	for _, fk := range f.Keys {
		key := keymap.Normalize(fk.KeyID)
		if key == "" {
			return nil, timing.SessionMeta{}, fmt.Errorf("session contains empty keyId")
		}
		for _, iv := range fk.Intervals {
			err := tl.Append(timing.PressInterval{
				Key:   key,
				Start: time.Duration(iv.Start),
				End:   time.Duration(iv.End),
			})
			if err != nil {
				return nil, timing.SessionMeta{}, fmt.Errorf("session key %q: %w", fk.KeyID, err)
			}
		}
	}

	meta := timing.SessionMeta{StartedAt: f.StartedAt, EndedAt: f.EndedAt}
	return tl, meta, nil
}
