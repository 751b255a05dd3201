package timing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func timelineFrom(t *testing.T, ivs ...PressInterval) *Store {
	t.Helper()
	s := NewStore()
	for _, iv := range ivs {
		require.NoError(t, s.OpenInterval(iv.Key, iv.Start))
		if !iv.Open() {
			require.NoError(t, s.CloseInterval(iv.Key, iv.End, iv.Forced))
		}
	}
	return s
}

func TestOverlapBasicAdhesion(t *testing.T) {
	// A held [0,120), D held [50,150): one region {A,D,[50,120)}.
	s := timelineFrom(t,
		PressInterval{Key: "a", Start: ms(0), End: ms(120)},
		PressInterval{Key: "d", Start: ms(50), End: ms(150)},
	)
	d := NewDetector(DefaultSeverityThresholds())

	regions := d.OverlapsFor(s.Current(), 0, ms(200))
	require.Len(t, regions, 1)
	r := regions[0]
	assert.Equal(t, "a", string(r.A))
	assert.Equal(t, "d", string(r.B))
	assert.Equal(t, ms(50), r.Start)
	assert.Equal(t, ms(120), r.End)
	assert.Equal(t, 70*time.Millisecond, r.Duration())
	assert.Equal(t, SeverityMinor, r.Severity)
}

func TestOverlapCanonicalPairOrder(t *testing.T) {
	// Same physical overlap with press order reversed still reports
	// the pair in layout order, once.
	s := timelineFrom(t,
		PressInterval{Key: "d", Start: ms(0), End: ms(120)},
		PressInterval{Key: "a", Start: ms(50), End: ms(150)},
	)
	d := NewDetector(DefaultSeverityThresholds())

	regions := d.OverlapsFor(s.Current(), 0, ms(200))
	require.Len(t, regions, 1)
	assert.Equal(t, "a", string(regions[0].A))
	assert.Equal(t, "d", string(regions[0].B))
}

func TestNoOverlapAtTouchingBoundary(t *testing.T) {
	// End-exclusive: [0,50) and [50,100) do not overlap.
	s := timelineFrom(t,
		PressInterval{Key: "a", Start: ms(0), End: ms(50)},
		PressInterval{Key: "s", Start: ms(50), End: ms(100)},
	)
	d := NewDetector(DefaultSeverityThresholds())

	assert.Empty(t, d.OverlapsFor(s.Current(), 0, ms(200)))
}

func TestSameKeyNeverOverlapsItself(t *testing.T) {
	s := timelineFrom(t,
		PressInterval{Key: "a", Start: ms(0), End: ms(50)},
		PressInterval{Key: "a", Start: ms(60), End: ms(110)},
	)
	d := NewDetector(DefaultSeverityThresholds())

	assert.Empty(t, d.OverlapsFor(s.Current(), 0, ms(200)))
}

func TestOpenIntervalUsesNowAsProvisionalEnd(t *testing.T) {
	s := timelineFrom(t,
		PressInterval{Key: "a", Start: ms(0), End: openEnd},
		PressInterval{Key: "s", Start: ms(40), End: openEnd},
	)
	d := NewDetector(DefaultSeverityThresholds())

	regions := d.OverlapsFor(s.Current(), 0, ms(100))
	require.Len(t, regions, 1)
	assert.Equal(t, ms(40), regions[0].Start)
	assert.Equal(t, ms(100), regions[0].End)

	// The provisional end is computation-only: the stored intervals
	// stay open.
	for _, k := range s.Current().Timeline().Keys() {
		assert.True(t, s.Current().Timeline().Intervals(k)[0].Open())
	}

	// A later now grows the provisional region.
	regions = d.OverlapsFor(s.Current(), 0, ms(300))
	require.Len(t, regions, 1)
	assert.Equal(t, ms(300), regions[0].End)
}

func TestOverlapWindowFiltering(t *testing.T) {
	s := timelineFrom(t,
		PressInterval{Key: "a", Start: ms(0), End: ms(100)},
		PressInterval{Key: "s", Start: ms(50), End: ms(150)},
		PressInterval{Key: "a", Start: ms(5000), End: ms(5100)},
		PressInterval{Key: "d", Start: ms(5050), End: ms(5150)},
	)
	d := NewDetector(DefaultSeverityThresholds())

	// Window excludes the early pair.
	regions := d.OverlapsFor(s.Current(), ms(1000), ms(6000))
	require.Len(t, regions, 1)
	assert.Equal(t, "d", string(regions[0].B))

	// Full-session scan sees both.
	assert.Len(t, d.OverlapsFor(s.Current(), 0, ms(6000)), 2)
}

func TestThreeKeyChord(t *testing.T) {
	// Three keys held together produce all three pairwise regions.
	s := timelineFrom(t,
		PressInterval{Key: "a", Start: ms(0), End: ms(300)},
		PressInterval{Key: "s", Start: ms(50), End: ms(350)},
		PressInterval{Key: "d", Start: ms(100), End: ms(400)},
	)
	d := NewDetector(DefaultSeverityThresholds())

	regions := d.OverlapsFor(s.Current(), 0, ms(500))
	require.Len(t, regions, 3)

	pairs := map[string]OverlapRegion{}
	for _, r := range regions {
		pairs[string(r.A)+"+"+string(r.B)] = r
	}
	require.Contains(t, pairs, "a+s")
	require.Contains(t, pairs, "a+d")
	require.Contains(t, pairs, "s+d")
	assert.Equal(t, ms(50), pairs["a+s"].Start)
	assert.Equal(t, ms(300), pairs["a+s"].End)
	assert.Equal(t, ms(100), pairs["a+d"].Start)
	assert.Equal(t, ms(300), pairs["a+d"].End)
	assert.Equal(t, ms(100), pairs["s+d"].Start)
	assert.Equal(t, ms(350), pairs["s+d"].End)
}

func TestSeverityGrading(t *testing.T) {
	th := DefaultSeverityThresholds()
	tests := []struct {
		d    time.Duration
		want Severity
	}{
		{0, SeverityClean},
		{49 * time.Millisecond, SeverityClean},
		{50 * time.Millisecond, SeverityMinor},
		{99 * time.Millisecond, SeverityMinor},
		{100 * time.Millisecond, SeverityModerate},
		{149 * time.Millisecond, SeverityModerate},
		{150 * time.Millisecond, SeveritySevere},
		{2 * time.Second, SeveritySevere},
	}
	for _, tt := range tests {
		if got := th.Grade(tt.d); got != tt.want {
			t.Errorf("Grade(%v) = %v, want %v", tt.d, got, tt.want)
		}
	}
}

func TestRegionsSortedByStart(t *testing.T) {
	s := timelineFrom(t,
		PressInterval{Key: "q", Start: ms(0), End: ms(500)},
		PressInterval{Key: "w", Start: ms(300), End: ms(600)},
		PressInterval{Key: "e", Start: ms(100), End: ms(200)},
	)
	d := NewDetector(DefaultSeverityThresholds())

	regions := d.OverlapsFor(s.Current(), 0, ms(700))
	require.Len(t, regions, 2)
	assert.LessOrEqual(t, regions[0].Start, regions[1].Start)
}
