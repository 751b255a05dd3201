package timing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ms(n int64) time.Duration { return time.Duration(n) * time.Millisecond }

func newTestNormalizer(t *testing.T) (*Normalizer, *Store) {
	t.Helper()
	store := NewStore()
	return NewNormalizer(store, DefaultRepeatConfig(), nil), store
}

func TestAutoRepeatCollapse(t *testing.T) {
	norm, store := newTestNormalizer(t)

	// Down@0, repeat Down@20 (no intervening Up), Up@40 must produce
	// exactly one interval [0,40), not two.
	require.Equal(t, VerdictAccepted, norm.Ingest(KeyEvent{Key: "w", Edge: EdgeDown, At: ms(0)}))
	require.Equal(t, VerdictRepeat, norm.Ingest(KeyEvent{Key: "w", Edge: EdgeDown, At: ms(20)}))
	require.Equal(t, VerdictAccepted, norm.Ingest(KeyEvent{Key: "w", Edge: EdgeUp, At: ms(40)}))

	ivs := store.Current().Timeline().Intervals("w")
	require.Len(t, ivs, 1)
	assert.Equal(t, ms(0), ivs[0].Start)
	assert.Equal(t, ms(40), ivs[0].End)
	assert.False(t, ivs[0].Forced)
}

func TestAutoRepeatCadenceWindow(t *testing.T) {
	norm, store := newTestNormalizer(t)

	// A long hold: initial repeat after 490ms, then 30ms cadence.
	require.Equal(t, VerdictAccepted, norm.Ingest(KeyEvent{Key: "a", Edge: EdgeDown, At: ms(0)}))
	require.Equal(t, VerdictRepeat, norm.Ingest(KeyEvent{Key: "a", Edge: EdgeDown, At: ms(490)}))
	for at := int64(520); at <= 700; at += 30 {
		require.Equal(t, VerdictRepeat, norm.Ingest(KeyEvent{Key: "a", Edge: EdgeDown, At: ms(at)}))
	}
	require.Equal(t, VerdictAccepted, norm.Ingest(KeyEvent{Key: "a", Edge: EdgeUp, At: ms(720)}))

	require.Len(t, store.Current().Timeline().Intervals("a"), 1)
}

func TestDuplicateDownRecovery(t *testing.T) {
	norm, store := newTestNormalizer(t)

	// A Down while open but far beyond any repeat window means the Up
	// was missed: the stale interval closes at its last-seen time and
	// a fresh one opens.
	require.Equal(t, VerdictAccepted, norm.Ingest(KeyEvent{Key: "k", Edge: EdgeDown, At: ms(0)}))
	require.Equal(t, VerdictRecovered, norm.Ingest(KeyEvent{Key: "k", Edge: EdgeDown, At: ms(2000)}))

	ivs := store.Current().Timeline().Intervals("k")
	require.Len(t, ivs, 2)
	assert.Equal(t, ms(0), ivs[0].Start)
	assert.Equal(t, ms(0), ivs[0].End, "stale interval closes at its own last-seen time")
	assert.True(t, ivs[0].Forced)
	assert.Equal(t, ms(2000), ivs[1].Start)
	assert.True(t, ivs[1].Open())
}

func TestRecoveryClosesAtLastRepeat(t *testing.T) {
	norm, store := newTestNormalizer(t)

	require.Equal(t, VerdictAccepted, norm.Ingest(KeyEvent{Key: "k", Edge: EdgeDown, At: ms(0)}))
	require.Equal(t, VerdictRepeat, norm.Ingest(KeyEvent{Key: "k", Edge: EdgeDown, At: ms(400)}))
	require.Equal(t, VerdictRecovered, norm.Ingest(KeyEvent{Key: "k", Edge: EdgeDown, At: ms(5000)}))

	ivs := store.Current().Timeline().Intervals("k")
	require.Len(t, ivs, 2)
	assert.Equal(t, ms(400), ivs[0].End, "provisional end extended by the repeat")
}

func TestUnmatchedUpDiscarded(t *testing.T) {
	norm, store := newTestNormalizer(t)

	require.Equal(t, VerdictAccepted, norm.Ingest(KeyEvent{Key: "a", Edge: EdgeDown, At: ms(0)}))
	before := store.Current()

	// An Up with no open interval has no effect on any state.
	require.Equal(t, VerdictDiscarded, norm.Ingest(KeyEvent{Key: "z", Edge: EdgeUp, At: ms(10)}))
	after := store.Current()

	assert.Equal(t, before.Seq(), after.Seq(), "discarded event must not publish a version")
	assert.Empty(t, after.Timeline().Intervals("z"))
	require.Len(t, after.Timeline().Intervals("a"), 1)
}

func TestClosedIntervalsOrderedAndDisjoint(t *testing.T) {
	norm, store := newTestNormalizer(t)

	// Interleave several keys and verify the core invariant: per key,
	// closed intervals are start-ordered and pairwise non-overlapping.
	script := []KeyEvent{
		{Key: "a", Edge: EdgeDown, At: ms(0)},
		{Key: "s", Edge: EdgeDown, At: ms(30)},
		{Key: "a", Edge: EdgeUp, At: ms(80)},
		{Key: "a", Edge: EdgeDown, At: ms(120)},
		{Key: "s", Edge: EdgeUp, At: ms(140)},
		{Key: "a", Edge: EdgeUp, At: ms(200)},
		{Key: "s", Edge: EdgeDown, At: ms(210)},
		{Key: "s", Edge: EdgeUp, At: ms(260)},
	}
	for _, ev := range script {
		norm.Ingest(ev)
	}

	tl := store.Current().Timeline()
	for _, k := range tl.Keys() {
		ivs := tl.Intervals(k)
		for i := 1; i < len(ivs); i++ {
			assert.GreaterOrEqual(t, ivs[i].Start, ivs[i-1].End,
				"key %q intervals must be ordered and disjoint", k)
		}
	}
}

func TestResetDropsOpenTracking(t *testing.T) {
	norm, store := newTestNormalizer(t)

	require.Equal(t, VerdictAccepted, norm.Ingest(KeyEvent{Key: "a", Edge: EdgeDown, At: ms(0)}))
	store.Clear()
	norm.Reset()

	// After a reset the old open key is forgotten: its Up is unmatched.
	assert.Equal(t, VerdictDiscarded, norm.Ingest(KeyEvent{Key: "a", Edge: EdgeUp, At: ms(50)}))
}
