package timing

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// State is the recording state machine position.
type State int

const (
	// StateIdle means no session exists yet (or it was cleared).
	StateIdle State = iota
	// StateRecording means ingestion is active.
	StateRecording
	// StateStopped means a sealed session is held and may be saved,
	// extended, replaced or cleared.
	StateStopped
)

// String returns the lower-case state name.
func (s State) String() string {
	switch s {
	case StateRecording:
		return "recording"
	case StateStopped:
		return "stopped"
	default:
		return "idle"
	}
}

// ErrIllegalTransition is returned (wrapped) for any transition the
// current state does not permit. Illegal transitions never mutate
// state.
var ErrIllegalTransition = errors.New("illegal state transition")

// SessionMeta carries the wall-clock bounds of the current session.
type SessionMeta struct {
	StartedAt time.Time
	EndedAt   time.Time
}

// Controller gates when ingestion is active and when the timeline may
// be cleared, loaded or saved. Ingestion (from the capture goroutine)
// and transitions (from the UI goroutine) are serialized by one
// mutex, so the store still sees exactly one writer at a time while
// the render path keeps reading published versions lock-free.
type Controller struct {
	store *Store
	norm  *Normalizer
	log   *slog.Logger

	mono func() time.Duration // monotonic clock, injectable for tests
	wall func() time.Time

	mu    sync.Mutex
	state State
	meta  SessionMeta
}

// NewController creates a controller in the Idle state. mono and wall
// default to real clocks when nil.
func NewController(store *Store, norm *Normalizer, mono func() time.Duration, wall func() time.Time, log *slog.Logger) *Controller {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	if mono == nil {
		epoch := time.Now()
		mono = func() time.Duration { return time.Since(epoch) }
	}
	if wall == nil {
		wall = time.Now
	}
	return &Controller{store: store, norm: norm, log: log, mono: mono, wall: wall}
}

// State returns the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Meta returns the current session's wall-clock bounds.
func (c *Controller) Meta() SessionMeta {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.meta
}

// Recording reports whether ingestion is active.
func (c *Controller) Recording() bool { return c.State() == StateRecording }

func (c *Controller) reject(op string) error {
	err := fmt.Errorf("%w: %s while %s", ErrIllegalTransition, op, c.state)
	c.log.Warn("transition rejected", "op", op, "state", c.state.String())
	return err
}

// Start begins recording. From Idle with no prior data it begins a
// fresh timeline; from Stopped the existing data is retained and
// extended.
func (c *Controller) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch c.state {
	case StateIdle, StateStopped:
	default:
		return c.reject("start")
	}
	if c.state == StateIdle {
		c.meta = SessionMeta{StartedAt: c.wall()}
	}
	c.meta.EndedAt = time.Time{}
	c.state = StateRecording
	c.log.Info("recording started", "startedAt", c.meta.StartedAt)
	return nil
}

// Stop seals the session. Every interval still open is closed at the
// stop timestamp before the transition completes, so no interval
// survives open across the boundary.
func (c *Controller) Stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateRecording {
		return c.reject("stop")
	}
	at := c.mono()
	c.store.ForceCloseAll(at)
	c.norm.Reset()
	c.meta.EndedAt = c.wall()
	c.state = StateStopped
	c.log.Info("recording stopped", "at", at, "intervals", c.store.Current().Timeline().Len())
	return nil
}

// Clear discards the timeline and returns to Idle. A Clear on an
// already-empty timeline is a harmless no-op that still lands in Idle.
func (c *Controller) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch c.state {
	case StateIdle, StateStopped:
	default:
		return c.reject("clear")
	}
	c.store.Clear()
	c.norm.Reset()
	c.meta = SessionMeta{}
	c.state = StateIdle
	c.log.Info("timeline cleared")
	return nil
}

// Load replaces the timeline wholesale with a persisted session. The
// swap is a single atomic publish, so a load can never be observed
// half-applied. On success the controller is Stopped.
func (c *Controller) Load(tl *Timeline, meta SessionMeta) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch c.state {
	case StateIdle, StateStopped:
	default:
		return c.reject("load")
	}
	c.store.Replace(tl)
	c.norm.Reset()
	c.meta = meta
	c.state = StateStopped
	c.log.Info("session loaded", "intervals", tl.Len(), "startedAt", meta.StartedAt)
	return nil
}

// BeginSave validates that saving is legal right now (Stopped only)
// and returns the version to serialize. Saving is a pure side effect:
// no state changes. The actual file I/O belongs to the session
// package.
func (c *Controller) BeginSave() (*Version, SessionMeta, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateStopped {
		return nil, SessionMeta{}, c.reject("save")
	}
	return c.store.Current(), c.meta, nil
}

// Ingest forwards a raw event to the Normalizer when recording, and
// drops it otherwise. Returns the verdict and whether the event was
// considered at all.
func (c *Controller) Ingest(ev KeyEvent) (Verdict, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateRecording {
		return VerdictDiscarded, false
	}
	return c.norm.Ingest(ev), true
}
