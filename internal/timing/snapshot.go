package timing

import (
	"time"

	"legato/internal/keymap"
)

// Span is a contiguous piece of a press interval on the shared time
// axis. Intervals that intersect an overlap region are split so the
// overlapping sub-span carries that region's severity while the rest
// stays clean.
type Span struct {
	Start, End time.Duration
	Severity   Severity
	Open       bool // the underlying interval has no release yet
}

// RowView is one piano-roll row: a key with at least one interval in
// scope. Spans are start-ordered and cover every visible interval.
type RowView struct {
	Key      keymap.KeyID
	Label    string
	Spans    []Span
	Held     bool          // key currently down
	HoldFor  time.Duration // live duration for a held key (now - start)
	Presses  int           // total intervals recorded for the key
	TotalDur time.Duration // cumulative closed press duration
}

// Snapshot is one frame's immutable render model, built from exactly
// one timeline version. It is never mutated after construction.
type Snapshot struct {
	Version     uint64
	Now         time.Duration
	WindowStart time.Duration
	Rows        []RowView
	Overlaps    []OverlapRegion
	Intervals   int // total interval count in the timeline
}

// Builder constructs snapshots. It holds only configuration, no
// mutable state, so Build is a pure function of (version, now).
type Builder struct {
	detector *Detector
	window   time.Duration
}

// NewBuilder creates a snapshot builder with the given visible time
// window and overlap detector.
func NewBuilder(detector *Detector, window time.Duration) *Builder {
	if window <= 0 {
		window = 5 * time.Second
	}
	return &Builder{detector: detector, window: window}
}

// Window returns the visible time window width.
func (b *Builder) Window() time.Duration { return b.window }

// Build produces the render model for one timeline version at one
// instant. Deterministic and repeatable for identical inputs: rows
// appear only for keys with recorded intervals, in fixed layout order,
// regardless of the order keys were first pressed.
func (b *Builder) Build(v *Version, now time.Duration) Snapshot {
	tl := v.Timeline()
	windowStart := now - b.window
	if windowStart < 0 {
		windowStart = 0
	}

	overlaps := b.detector.OverlapsFor(v, windowStart, now)

	snap := Snapshot{
		Version:     v.Seq(),
		Now:         now,
		WindowStart: windowStart,
		Overlaps:    overlaps,
		Intervals:   tl.Len(),
	}

	for _, k := range tl.Keys() {
		ivs := tl.Intervals(k)
		if len(ivs) == 0 {
			continue
		}
		row := RowView{Key: k, Label: keymap.Label(k), Presses: len(ivs)}
		for _, iv := range ivs {
			if !iv.Open() {
				row.TotalDur += iv.End - iv.Start
			}
			if iv.Open() {
				row.Held = true
				row.HoldFor = now - iv.Start
			}
			if iv.endOr(now) <= windowStart || iv.Start >= now {
				continue
			}
			row.Spans = append(row.Spans, splitSpans(iv, overlaps, windowStart, now)...)
		}
		snap.Rows = append(snap.Rows, row)
	}
	return snap
}

// splitSpans clips an interval to the window and splits it at overlap
// region boundaries involving its key.
func splitSpans(iv PressInterval, overlaps []OverlapRegion, windowStart, now time.Duration) []Span {
	start := max(iv.Start, windowStart)
	end := min(iv.endOr(now), now)
	if end <= start {
		return nil
	}

	// Collect the overlap pieces that fall inside this clipped span.
	type mark struct {
		start, end time.Duration
		sev        Severity
	}
	var marks []mark
	for _, r := range overlaps {
		if !r.Involves(iv.Key) || r.End <= start || r.Start >= end {
			continue
		}
		m := mark{start: max(r.Start, start), end: min(r.End, end), sev: r.Severity}
		if m.end > m.start {
			marks = append(marks, m)
		}
	}

	var spans []Span
	cursor := start
	for _, m := range marks {
		if m.start > cursor {
			spans = append(spans, Span{Start: cursor, End: m.start, Severity: SeverityClean, Open: iv.Open()})
		}
		from := max(m.start, cursor)
		if m.end > from {
			spans = append(spans, Span{Start: from, End: m.end, Severity: m.sev, Open: iv.Open()})
			cursor = m.end
		}
	}
	if cursor < end {
		spans = append(spans, Span{Start: cursor, End: end, Severity: SeverityClean, Open: iv.Open()})
	}
	return spans
}
