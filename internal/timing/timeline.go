package timing

import (
	"fmt"
	"sort"

	"legato/internal/keymap"
)

// Timeline maps each key to its ordered press intervals. A Timeline
// value reachable through a published Version is immutable; all
// mutation happens on private copies inside the Store.
//
// Invariant: for every key, intervals are start-ordered and pairwise
// non-overlapping, and at most the last interval is open.
type Timeline struct {
	keys map[keymap.KeyID][]PressInterval
}

// NewTimeline returns an empty timeline.
func NewTimeline() *Timeline {
	return &Timeline{keys: make(map[keymap.KeyID][]PressInterval)}
}

// Intervals returns the press intervals recorded for a key. The
// returned slice must not be mutated by callers.
func (t *Timeline) Intervals(k keymap.KeyID) []PressInterval {
	return t.keys[k]
}

// Keys returns every key with at least one interval, in fixed
// physical-layout order.
func (t *Timeline) Keys() []keymap.KeyID {
	out := make([]keymap.KeyID, 0, len(t.keys))
	for k := range t.keys {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return keymap.Less(out[i], out[j]) })
	return out
}

// Len returns the total interval count across all keys.
func (t *Timeline) Len() int {
	n := 0
	for _, ivs := range t.keys {
		n += len(ivs)
	}
	return n
}

// Empty reports whether the timeline holds no intervals at all.
func (t *Timeline) Empty() bool { return t.Len() == 0 }

// openIndex returns the index of the open interval for a key, or -1.
// Only the last interval can be open.
func (t *Timeline) openIndex(k keymap.KeyID) int {
	ivs := t.keys[k]
	if n := len(ivs); n > 0 && ivs[n-1].Open() {
		return n - 1
	}
	return -1
}

// clone returns a copy of the timeline sharing no mutable structure
// with the receiver beyond interval slices that are copied lazily by
// cloneKey before mutation.
func (t *Timeline) clone() *Timeline {
	next := &Timeline{keys: make(map[keymap.KeyID][]PressInterval, len(t.keys))}
	for k, ivs := range t.keys {
		next.keys[k] = ivs
	}
	return next
}

// cloneKey replaces the given key's slice with a private copy so the
// shared slice backing a published version is never written to.
func (t *Timeline) cloneKey(k keymap.KeyID) {
	ivs := t.keys[k]
	cp := make([]PressInterval, len(ivs), len(ivs)+1)
	copy(cp, ivs)
	t.keys[k] = cp
}

// Append adds a closed interval to a timeline under construction,
// enforcing per-key ordering. It exists for rebuilding a timeline from
// a persisted session before handing it to Store.Replace; it must not
// be called on a timeline that has been published.
func (t *Timeline) Append(iv PressInterval) error {
	if iv.Open() {
		return fmt.Errorf("cannot append open interval for %q", iv.Key)
	}
	if iv.End < iv.Start {
		return fmt.Errorf("interval for %q ends at %v before start %v", iv.Key, iv.End, iv.Start)
	}
	if ivs := t.keys[iv.Key]; len(ivs) > 0 && iv.Start < ivs[len(ivs)-1].End {
		return fmt.Errorf("interval for %q starting %v overlaps previous ending %v",
			iv.Key, iv.Start, ivs[len(ivs)-1].End)
	}
	t.keys[iv.Key] = append(t.keys[iv.Key], iv)
	return nil
}

// Version is an immutable point-in-time view of the timeline,
// published atomically by the Store on every write.
type Version struct {
	seq      uint64
	timeline *Timeline
}

// Seq returns the monotonically increasing version sequence number.
func (v *Version) Seq() uint64 { return v.seq }

// Timeline returns the immutable timeline behind this version.
func (v *Version) Timeline() *Timeline { return v.timeline }
