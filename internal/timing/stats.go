package timing

import (
	"sort"
	"time"

	"legato/internal/keymap"
)

// PairStat aggregates adhesion between one unordered key pair.
type PairStat struct {
	A, B     keymap.KeyID
	Count    int
	Total    time.Duration
	Worst    time.Duration
	Severity Severity // grade of the worst single overlap
}

// Stats summarizes signal quality for one timeline version.
type Stats struct {
	KeysPerSecond float64
	TotalPresses  int
	CleanPresses  int
	BySeverity    [4]int // indexed by Severity
	HygieneScore  float64
	RecentPair    *OverlapRegion // most recently ended overlap, nil if none
	Hotspots      []PairStat     // worst pairs by cumulative overlap
}

// hygieneWeights score each press by the worst severity it took part
// in: clean presses count fully, severe ones not at all.
var hygieneWeights = [4]float64{1.0, 0.7, 0.3, 0.0}

// Analyzer computes session statistics from a timeline version.
type Analyzer struct {
	detector  *Detector
	kpsWindow time.Duration
	hotspots  int
}

// NewAnalyzer creates an analyzer. kpsWindow is the sliding window for
// the keys-per-second rate; hotspots caps the reported worst pairs.
func NewAnalyzer(detector *Detector, kpsWindow time.Duration, hotspots int) *Analyzer {
	if kpsWindow <= 0 {
		kpsWindow = time.Second
	}
	if hotspots <= 0 {
		hotspots = 3
	}
	return &Analyzer{detector: detector, kpsWindow: kpsWindow, hotspots: hotspots}
}

// Analyze computes stats over the whole session held in v, with rates
// relative to now.
func (a *Analyzer) Analyze(v *Version, now time.Duration) Stats {
	tl := v.Timeline()
	st := Stats{}

	// Overlaps across the full session, not just the visible window.
	overlaps := a.detector.OverlapsFor(v, 0, now)

	// Worst severity each key participated in, per overlap time range.
	worstFor := make(map[keymap.KeyID][]OverlapRegion)
	for _, r := range overlaps {
		worstFor[r.A] = append(worstFor[r.A], r)
		worstFor[r.B] = append(worstFor[r.B], r)
	}

	recent := -1
	for i, r := range overlaps {
		if recent < 0 || r.End > overlaps[recent].End {
			recent = i
		}
	}
	if recent >= 0 {
		r := overlaps[recent]
		st.RecentPair = &r
	}

	for _, k := range tl.Keys() {
		for _, iv := range tl.Intervals(k) {
			st.TotalPresses++
			if iv.Start > now-a.kpsWindow && iv.Start <= now {
				st.KeysPerSecond++
			}
			sev := SeverityClean
			for _, r := range worstFor[k] {
				if r.Start < iv.endOr(now) && r.End > iv.Start && r.Severity > sev {
					sev = r.Severity
				}
			}
			st.BySeverity[sev]++
			if sev == SeverityClean {
				st.CleanPresses++
			}
			st.HygieneScore += hygieneWeights[sev]
		}
	}
	st.KeysPerSecond /= a.kpsWindow.Seconds()
	if st.TotalPresses > 0 {
		st.HygieneScore = st.HygieneScore / float64(st.TotalPresses) * 100
	} else {
		st.HygieneScore = 100
	}

	st.Hotspots = a.hotspotPairs(overlaps)
	return st
}

// hotspotPairs ranks key pairs by cumulative overlap duration.
func (a *Analyzer) hotspotPairs(overlaps []OverlapRegion) []PairStat {
	type pairKey struct{ a, b keymap.KeyID }
	agg := make(map[pairKey]*PairStat)
	for _, r := range overlaps {
		pk := pairKey{r.A, r.B}
		p, ok := agg[pk]
		if !ok {
			p = &PairStat{A: r.A, B: r.B}
			agg[pk] = p
		}
		p.Count++
		p.Total += r.Duration()
		if r.Duration() > p.Worst {
			p.Worst = r.Duration()
			p.Severity = r.Severity
		}
	}

	pairs := make([]PairStat, 0, len(agg))
	for _, p := range agg {
		pairs = append(pairs, *p)
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].Total != pairs[j].Total {
			return pairs[i].Total > pairs[j].Total
		}
		return keymap.Less(pairs[i].A, pairs[j].A)
	})
	if len(pairs) > a.hotspots {
		pairs = pairs[:a.hotspots]
	}
	return pairs
}
