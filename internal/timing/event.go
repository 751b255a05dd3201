// Package timing implements the capture core: event normalization,
// the versioned per-key timeline store, overlap detection, snapshot
// construction for the renderer, and the recording state machine.
package timing

import (
	"time"

	"legato/internal/keymap"
)

// Edge is the direction of a key transition.
type Edge int

const (
	// EdgeDown is a key press.
	EdgeDown Edge = iota
	// EdgeUp is a key release.
	EdgeUp
)

// String returns "down" or "up".
func (e Edge) String() string {
	if e == EdgeDown {
		return "down"
	}
	return "up"
}

// KeyEvent is a single raw key transition as delivered by a capture
// source. At is monotonic time since capture start, nanosecond
// resolution. Events are immutable once created.
type KeyEvent struct {
	Key  keymap.KeyID
	Edge Edge
	At   time.Duration
}

// openEnd marks an interval whose release has not been observed yet.
const openEnd = time.Duration(-1)

// PressInterval is one press of one key: the span between a Down and
// its matching Up. End is openEnd while the key is still held. Forced
// is set on intervals that were closed by recovery (a missed Up) or by
// stopping the recording, rather than by a real release.
type PressInterval struct {
	Key    keymap.KeyID
	Start  time.Duration
	End    time.Duration
	Forced bool
}

// Open reports whether the key is still held.
func (p PressInterval) Open() bool { return p.End < 0 }

// Duration returns the closed length of the interval, or the length up
// to now for an open interval.
func (p PressInterval) Duration(now time.Duration) time.Duration {
	if p.Open() {
		return now - p.Start
	}
	return p.End - p.Start
}

// endOr returns the interval end, substituting now for open intervals.
// The substitution is only ever used for reads; it is never written
// back into the timeline.
func (p PressInterval) endOr(now time.Duration) time.Duration {
	if p.Open() {
		return now
	}
	return p.End
}
