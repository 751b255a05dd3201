package timing

import (
	"fmt"
	"sync/atomic"
	"time"

	"legato/internal/keymap"
)

// Store is the single source of truth for press intervals. It follows
// a single-writer, many-readers discipline: only the Normalizer (and
// the Controller, on the same goroutine) mutates it, while the render
// path reads whichever version is current.
//
// Writers build a new timeline copy and publish it with one atomic
// pointer swap, so readers never block and never observe a partially
// applied write.
type Store struct {
	cur atomic.Pointer[Version]
}

// NewStore returns a store holding an empty timeline at version 0.
func NewStore() *Store {
	s := &Store{}
	s.cur.Store(&Version{seq: 0, timeline: NewTimeline()})
	return s
}

// Current returns the most recently published version. Never nil.
func (s *Store) Current() *Version {
	return s.cur.Load()
}

// publish swaps in a new timeline under the next sequence number.
func (s *Store) publish(t *Timeline) *Version {
	v := &Version{seq: s.cur.Load().seq + 1, timeline: t}
	s.cur.Store(v)
	return v
}

// OpenInterval starts a new press interval for a key at time t. It is
// a protocol error if the key already has an open interval; callers
// (the Normalizer) are expected to resolve duplicates before writing.
func (s *Store) OpenInterval(k keymap.KeyID, t time.Duration) error {
	tl := s.cur.Load().timeline
	if tl.openIndex(k) >= 0 {
		return fmt.Errorf("open interval for %q already exists", k)
	}
	if ivs := tl.keys[k]; len(ivs) > 0 && t < ivs[len(ivs)-1].End {
		return fmt.Errorf("interval for %q would start at %v, before previous end %v",
			k, t, ivs[len(ivs)-1].End)
	}
	next := tl.clone()
	next.cloneKey(k)
	next.keys[k] = append(next.keys[k], PressInterval{Key: k, Start: t, End: openEnd})
	s.publish(next)
	return nil
}

// CloseInterval sets the end of the key's open interval. forced marks
// closures not caused by a real release (recovery, Stop).
func (s *Store) CloseInterval(k keymap.KeyID, t time.Duration, forced bool) error {
	tl := s.cur.Load().timeline
	idx := tl.openIndex(k)
	if idx < 0 {
		return fmt.Errorf("no open interval for %q", k)
	}
	if t < tl.keys[k][idx].Start {
		return fmt.Errorf("close time %v precedes start %v for %q", t, tl.keys[k][idx].Start, k)
	}
	next := tl.clone()
	next.cloneKey(k)
	next.keys[k][idx].End = t
	next.keys[k][idx].Forced = forced
	s.publish(next)
	return nil
}

// ForceCloseAll closes every still-open interval at time t. Invoked on
// Stop so no interval survives open across a recording boundary. The
// whole sweep is published as one version.
func (s *Store) ForceCloseAll(t time.Duration) {
	tl := s.cur.Load().timeline
	var next *Timeline
	for k := range tl.keys {
		src := tl
		if next != nil {
			src = next
		}
		idx := src.openIndex(k)
		if idx < 0 {
			continue
		}
		if next == nil {
			next = tl.clone()
		}
		next.cloneKey(k)
		next.keys[k][idx].End = t
		next.keys[k][idx].Forced = true
	}
	if next != nil {
		s.publish(next)
	}
}

// Clear discards all recorded intervals. Clearing an already-empty
// store is a no-op and does not publish a new version.
func (s *Store) Clear() {
	if s.cur.Load().timeline.Empty() {
		return
	}
	s.publish(NewTimeline())
}

// Replace swaps in a whole timeline at once, used by Load so a session
// replacement can never be observed half-applied. The caller hands
// over ownership of tl and must not mutate it afterwards.
func (s *Store) Replace(tl *Timeline) {
	if tl == nil {
		tl = NewTimeline()
	}
	s.publish(tl)
}
