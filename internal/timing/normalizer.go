package timing

import (
	"log/slog"
	"time"

	"legato/internal/keymap"
)

// Verdict classifies what the Normalizer did with a raw event.
type Verdict int

const (
	// VerdictAccepted means the event opened or closed an interval.
	VerdictAccepted Verdict = iota
	// VerdictRepeat means the event was OS auto-repeat and was
	// collapsed into the existing open interval.
	VerdictRepeat
	// VerdictRecovered means a duplicate Down outside the repeat
	// window force-closed the stale interval and opened a new one.
	VerdictRecovered
	// VerdictDiscarded means the event had no effect (unmatched Up).
	VerdictDiscarded
)

// String returns a short label for event-log display.
func (v Verdict) String() string {
	switch v {
	case VerdictAccepted:
		return "accepted"
	case VerdictRepeat:
		return "repeat"
	case VerdictRecovered:
		return "recovered"
	default:
		return "discarded"
	}
}

// RepeatConfig tunes auto-repeat collapse. Initial is the OS delay
// before the first synthetic repeat; Cadence the period between
// subsequent repeats. Both are deliberately configurable rather than
// hard-coded since OS repeat-rate settings vary.
type RepeatConfig struct {
	Initial time.Duration
	Cadence time.Duration
}

// DefaultRepeatConfig mirrors common OS defaults.
func DefaultRepeatConfig() RepeatConfig {
	return RepeatConfig{Initial: 500 * time.Millisecond, Cadence: 30 * time.Millisecond}
}

// cadenceSlack widens the cadence window to tolerate delivery jitter
// once a key is known to be auto-repeating.
const cadenceSlack = 4

// keyState is the Normalizer's per-open-key bookkeeping. lastSeen is
// the provisional end an anomalous duplicate Down will close at.
type keyState struct {
	lastSeen  time.Duration
	repeating bool
}

// Normalizer is the sole writer into the Store. It collapses OS
// auto-repeat, recovers from missed releases, and drops unmatched
// releases, logging every anomaly.
type Normalizer struct {
	store  *Store
	repeat RepeatConfig
	log    *slog.Logger
	open   map[keymap.KeyID]*keyState
}

// NewNormalizer creates a normalizer writing into store.
func NewNormalizer(store *Store, repeat RepeatConfig, log *slog.Logger) *Normalizer {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	if repeat.Initial <= 0 {
		repeat.Initial = DefaultRepeatConfig().Initial
	}
	if repeat.Cadence <= 0 {
		repeat.Cadence = DefaultRepeatConfig().Cadence
	}
	return &Normalizer{
		store:  store,
		repeat: repeat,
		log:    log,
		open:   make(map[keymap.KeyID]*keyState),
	}
}

// Ingest applies one raw event to the store and reports what happened.
// Must be called from a single goroutine.
func (n *Normalizer) Ingest(ev KeyEvent) Verdict {
	if ev.Edge == EdgeDown {
		return n.ingestDown(ev)
	}
	return n.ingestUp(ev)
}

func (n *Normalizer) ingestDown(ev KeyEvent) Verdict {
	st, held := n.open[ev.Key]
	if !held {
		if err := n.store.OpenInterval(ev.Key, ev.At); err != nil {
			// Normalizer state said closed but the store disagrees;
			// resync by treating the store as authoritative.
			n.log.Warn("store rejected open", "key", ev.Key, "err", err)
			return VerdictDiscarded
		}
		n.open[ev.Key] = &keyState{lastSeen: ev.At}
		return VerdictAccepted
	}

	window := n.repeat.Initial
	if st.repeating {
		window = n.repeat.Cadence * cadenceSlack
	}
	if ev.At-st.lastSeen <= window {
		// Auto-repeat: extend the provisional end, forward nothing.
		st.lastSeen = ev.At
		st.repeating = true
		return VerdictRepeat
	}

	// Duplicate Down beyond any repeat window: the Up was missed.
	// Close the stale interval at its last-seen time and start over.
	n.log.Warn("duplicate down outside repeat window, recovering",
		"key", ev.Key, "at", ev.At, "lastSeen", st.lastSeen)
	if err := n.store.CloseInterval(ev.Key, st.lastSeen, true); err != nil {
		n.log.Warn("recovery close failed", "key", ev.Key, "err", err)
	}
	if err := n.store.OpenInterval(ev.Key, ev.At); err != nil {
		n.log.Warn("recovery open failed", "key", ev.Key, "err", err)
		delete(n.open, ev.Key)
		return VerdictDiscarded
	}
	n.open[ev.Key] = &keyState{lastSeen: ev.At}
	return VerdictRecovered
}

func (n *Normalizer) ingestUp(ev KeyEvent) Verdict {
	if _, held := n.open[ev.Key]; !held {
		// No corresponding Down was observed; common on startup or
		// after focus changes. Has no effect on any state.
		n.log.Debug("unmatched up discarded", "key", ev.Key, "at", ev.At)
		return VerdictDiscarded
	}
	if err := n.store.CloseInterval(ev.Key, ev.At, false); err != nil {
		n.log.Warn("close failed", "key", ev.Key, "err", err)
		delete(n.open, ev.Key)
		return VerdictDiscarded
	}
	delete(n.open, ev.Key)
	return VerdictAccepted
}

// Reset drops the per-key tracking state. Called when the timeline is
// cleared or replaced so stale open-key state cannot leak into the
// next recording.
func (n *Normalizer) Reset() {
	n.open = make(map[keymap.KeyID]*keyState)
}
