package timing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAnalyzer() *Analyzer {
	return NewAnalyzer(NewDetector(DefaultSeverityThresholds()), time.Second, 3)
}

func TestStatsCleanSession(t *testing.T) {
	s := timelineFrom(t,
		PressInterval{Key: "a", Start: ms(0), End: ms(40)},
		PressInterval{Key: "s", Start: ms(100), End: ms(140)},
		PressInterval{Key: "d", Start: ms(200), End: ms(240)},
	)

	st := newTestAnalyzer().Analyze(s.Current(), ms(500))
	assert.Equal(t, 3, st.TotalPresses)
	assert.Equal(t, 3, st.CleanPresses)
	assert.Equal(t, 100.0, st.HygieneScore)
	assert.Nil(t, st.RecentPair)
	assert.Empty(t, st.Hotspots)
}

func TestStatsEmptySessionScoresFull(t *testing.T) {
	st := newTestAnalyzer().Analyze(NewStore().Current(), ms(0))
	assert.Equal(t, 100.0, st.HygieneScore)
	assert.Zero(t, st.TotalPresses)
}

func TestStatsHygieneWeighting(t *testing.T) {
	// Two presses overlap for 70ms (minor); two are clean.
	// Score = (1.0 + 1.0 + 0.7 + 0.7) / 4 * 100 = 85.
	s := timelineFrom(t,
		PressInterval{Key: "a", Start: ms(0), End: ms(120)},
		PressInterval{Key: "d", Start: ms(50), End: ms(150)},
		PressInterval{Key: "q", Start: ms(300), End: ms(340)},
		PressInterval{Key: "w", Start: ms(400), End: ms(440)},
	)

	st := newTestAnalyzer().Analyze(s.Current(), ms(500))
	assert.Equal(t, 4, st.TotalPresses)
	assert.Equal(t, 2, st.CleanPresses)
	assert.Equal(t, 2, st.BySeverity[SeverityMinor])
	assert.InDelta(t, 85.0, st.HygieneScore, 0.001)
}

func TestStatsSeverePressScoresZero(t *testing.T) {
	// A single pair glued together for 200ms: both presses severe,
	// weight 0.0, score 0.
	s := timelineFrom(t,
		PressInterval{Key: "a", Start: ms(0), End: ms(200)},
		PressInterval{Key: "s", Start: ms(0), End: ms(200)},
	)

	st := newTestAnalyzer().Analyze(s.Current(), ms(300))
	assert.Equal(t, 2, st.BySeverity[SeveritySevere])
	assert.Equal(t, 0.0, st.HygieneScore)
}

func TestStatsKeysPerSecond(t *testing.T) {
	// Three presses start inside the 1s window ending at now=5s; one
	// is older.
	s := timelineFrom(t,
		PressInterval{Key: "a", Start: ms(1000), End: ms(1040)},
		PressInterval{Key: "s", Start: ms(4200), End: ms(4240)},
		PressInterval{Key: "d", Start: ms(4500), End: ms(4540)},
		PressInterval{Key: "f", Start: ms(4900), End: ms(4940)},
	)

	st := newTestAnalyzer().Analyze(s.Current(), ms(5000))
	assert.InDelta(t, 3.0, st.KeysPerSecond, 0.001)
}

func TestStatsRecentPair(t *testing.T) {
	s := timelineFrom(t,
		PressInterval{Key: "a", Start: ms(0), End: ms(120)},
		PressInterval{Key: "d", Start: ms(50), End: ms(150)},
		PressInterval{Key: "q", Start: ms(1000), End: ms(1200)},
		PressInterval{Key: "w", Start: ms(1100), End: ms(1300)},
	)

	st := newTestAnalyzer().Analyze(s.Current(), ms(2000))
	require.NotNil(t, st.RecentPair)
	assert.Equal(t, "q", string(st.RecentPair.A))
	assert.Equal(t, "w", string(st.RecentPair.B))
	assert.Equal(t, ms(1200), st.RecentPair.End)
}

func TestStatsHotspotRanking(t *testing.T) {
	// a+s adhere twice (total 140ms), q+w once (60ms).
	s := timelineFrom(t,
		PressInterval{Key: "a", Start: ms(0), End: ms(80)},
		PressInterval{Key: "s", Start: ms(10), End: ms(100)},
		PressInterval{Key: "a", Start: ms(500), End: ms(600)},
		PressInterval{Key: "s", Start: ms(530), End: ms(630)},
		PressInterval{Key: "q", Start: ms(1000), End: ms(1100)},
		PressInterval{Key: "w", Start: ms(1040), End: ms(1140)},
	)

	st := newTestAnalyzer().Analyze(s.Current(), ms(2000))
	require.Len(t, st.Hotspots, 2)

	top := st.Hotspots[0]
	assert.Equal(t, "a", string(top.A))
	assert.Equal(t, "s", string(top.B))
	assert.Equal(t, 2, top.Count)
	assert.Equal(t, 140*time.Millisecond, top.Total)
	assert.Equal(t, 70*time.Millisecond, top.Worst)
	assert.Equal(t, 60*time.Millisecond, st.Hotspots[1].Total)
}

func TestStatsHotspotCap(t *testing.T) {
	a := NewAnalyzer(NewDetector(DefaultSeverityThresholds()), time.Second, 1)
	s := timelineFrom(t,
		PressInterval{Key: "a", Start: ms(0), End: ms(100)},
		PressInterval{Key: "s", Start: ms(20), End: ms(120)},
		PressInterval{Key: "q", Start: ms(500), End: ms(700)},
		PressInterval{Key: "w", Start: ms(510), End: ms(710)},
	)

	st := a.Analyze(s.Current(), ms(1000))
	require.Len(t, st.Hotspots, 1)
	assert.Equal(t, "q", string(st.Hotspots[0].A), "largest cumulative pair wins the single slot")
}
