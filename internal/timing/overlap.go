package timing

import (
	"sort"
	"time"

	"legato/internal/keymap"
)

// Severity grades an overlap by its duration.
type Severity int

const (
	// SeverityClean means no overlap worth flagging.
	SeverityClean Severity = iota
	// SeverityMinor is a short adhesion, usually sloppy rollover.
	SeverityMinor
	// SeverityModerate is a sustained adhesion.
	SeverityModerate
	// SeveritySevere indicates the keys were effectively held together.
	SeveritySevere
)

// String returns the lower-case severity name.
func (s Severity) String() string {
	switch s {
	case SeverityMinor:
		return "minor"
	case SeverityModerate:
		return "moderate"
	case SeveritySevere:
		return "severe"
	default:
		return "clean"
	}
}

// SeverityThresholds are the minimum overlap durations for each grade.
type SeverityThresholds struct {
	Minor    time.Duration
	Moderate time.Duration
	Severe   time.Duration
}

// DefaultSeverityThresholds returns the stock 50/100/150ms grading.
func DefaultSeverityThresholds() SeverityThresholds {
	return SeverityThresholds{
		Minor:    50 * time.Millisecond,
		Moderate: 100 * time.Millisecond,
		Severe:   150 * time.Millisecond,
	}
}

// Grade classifies an overlap duration.
func (t SeverityThresholds) Grade(d time.Duration) Severity {
	switch {
	case d >= t.Severe:
		return SeveritySevere
	case d >= t.Moderate:
		return SeverityModerate
	case d >= t.Minor:
		return SeverityMinor
	default:
		return SeverityClean
	}
}

// OverlapRegion is the time range during which two distinct keys were
// held simultaneously. A and B are in layout order, so each unordered
// pair maps to exactly one region per time range. Regions are derived,
// never persisted.
type OverlapRegion struct {
	A, B       keymap.KeyID
	Start, End time.Duration
	Severity   Severity
}

// Duration returns the overlap length.
func (r OverlapRegion) Duration() time.Duration { return r.End - r.Start }

// Involves reports whether the region touches the given key.
func (r OverlapRegion) Involves(k keymap.KeyID) bool { return r.A == k || r.B == k }

// Detector computes adhesion overlaps between press intervals of
// different keys.
type Detector struct {
	thresholds SeverityThresholds
}

// NewDetector creates a detector with the given severity grading.
func NewDetector(thresholds SeverityThresholds) *Detector {
	return &Detector{thresholds: thresholds}
}

// OverlapsFor returns every positive-duration overlap between
// intervals of distinct keys that intersect [windowStart, now). Open
// intervals use now as a provisional end for the computation only.
//
// The sweep walks intervals in start order keeping an active set, so
// cost is proportional to intervals near the window plus actual
// overlaps, not all historical pairs.
func (d *Detector) OverlapsFor(v *Version, windowStart, now time.Duration) []OverlapRegion {
	tl := v.Timeline()

	var live []PressInterval
	for _, k := range tl.Keys() {
		ivs := tl.Intervals(k)
		// Per-key intervals are start-ordered; find the first one
		// still visible and take the rest.
		i := sort.Search(len(ivs), func(i int) bool {
			return ivs[i].endOr(now) > windowStart
		})
		live = append(live, ivs[i:]...)
	}
	sort.Slice(live, func(i, j int) bool { return live[i].Start < live[j].Start })

	var regions []OverlapRegion
	var active []PressInterval
	for _, iv := range live {
		end := iv.endOr(now)
		if end <= iv.Start {
			continue
		}
		kept := active[:0]
		for _, a := range active {
			if a.endOr(now) <= iv.Start {
				continue
			}
			kept = append(kept, a)
			if a.Key == iv.Key {
				continue
			}
			start := max(a.Start, iv.Start)
			stop := min(a.endOr(now), end)
			if stop <= start {
				continue
			}
			regions = append(regions, d.region(a.Key, iv.Key, start, stop))
		}
		active = append(kept, iv)
	}

	sort.Slice(regions, func(i, j int) bool {
		if regions[i].Start != regions[j].Start {
			return regions[i].Start < regions[j].Start
		}
		return keymap.Less(regions[i].A, regions[j].A)
	})
	return regions
}

// region builds a canonical, layout-ordered overlap region.
func (d *Detector) region(a, b keymap.KeyID, start, end time.Duration) OverlapRegion {
	if keymap.Less(b, a) {
		a, b = b, a
	}
	return OverlapRegion{
		A:        a,
		B:        b,
		Start:    start,
		End:      end,
		Severity: d.thresholds.Grade(end - start),
	}
}
