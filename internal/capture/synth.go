package capture

import (
	"context"
	"math/rand"
	"time"

	"legato/internal/keymap"
	"legato/internal/timing"
)

// SyntheticProfile parameterizes the generated typing stream.
type SyntheticProfile struct {
	Name string

	// MeanGap is the average gap between one key's release and the
	// next key's press. Negative skew is produced by AdhesionProb.
	MeanGap time.Duration

	// MeanHold is the average time a key stays down.
	MeanHold time.Duration

	// Jitter is the uniform spread applied to gaps and holds.
	Jitter time.Duration

	// AdhesionProb is the chance the next press lands before the
	// previous release, producing a genuine overlap.
	AdhesionProb float64

	// AdhesionLag is how far into the previous hold the overlapping
	// press lands when adhesion fires.
	AdhesionLag time.Duration

	// RepeatProb is the chance a hold is long enough that synthetic
	// auto-repeat Downs are injected at RepeatCadence.
	RepeatProb    float64
	RepeatDelay   time.Duration
	RepeatCadence time.Duration
}

// CleanTypist types with clear separation between keys.
func CleanTypist() SyntheticProfile {
	return SyntheticProfile{
		Name:     "clean-typist",
		MeanGap:  110 * time.Millisecond,
		MeanHold: 70 * time.Millisecond,
		Jitter:   35 * time.Millisecond,
	}
}

// StickyTypist produces frequent adhesion plus occasional held keys,
// exercising both the detector and the repeat collapse.
func StickyTypist() SyntheticProfile {
	return SyntheticProfile{
		Name:          "sticky-typist",
		MeanGap:       90 * time.Millisecond,
		MeanHold:      85 * time.Millisecond,
		Jitter:        30 * time.Millisecond,
		AdhesionProb:  0.35,
		AdhesionLag:   60 * time.Millisecond,
		RepeatProb:    0.05,
		RepeatDelay:   500 * time.Millisecond,
		RepeatCadence: 30 * time.Millisecond,
	}
}

// sampleText is the key stream the generator cycles through.
var sampleText = []keymap.KeyID{
	"t", "h", "e", "space", "q", "u", "i", "c", "k", "space",
	"b", "r", "o", "w", "n", "space", "f", "o", "x", "space",
	"j", "u", "m", "p", "s", "space", "o", "v", "e", "r", "space",
	"t", "h", "e", "space", "l", "a", "z", "y", "space",
	"d", "o", "g", "enter",
}

// SyntheticSource generates a human-like key edge stream. With a
// fixed seed the emitted schedule is deterministic, which the tests
// rely on.
type SyntheticSource struct {
	profile SyntheticProfile
	rng     *rand.Rand
	sleep   func(ctx context.Context, d time.Duration) error
}

// NewSyntheticSource creates a generator for the given profile.
func NewSyntheticSource(profile SyntheticProfile, seed int64) *SyntheticSource {
	return &SyntheticSource{
		profile: profile,
		rng:     rand.New(rand.NewSource(seed)),
		sleep:   sleepCtx,
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// jittered returns base +/- up to the profile jitter, floored at 1ms.
func (s *SyntheticSource) jittered(base time.Duration) time.Duration {
	j := s.profile.Jitter
	if j > 0 {
		base += time.Duration(s.rng.Int63n(int64(2*j))) - j
	}
	if base < time.Millisecond {
		base = time.Millisecond
	}
	return base
}

// Stream emits edges in real time until the context is cancelled.
func (s *SyntheticSource) Stream(ctx context.Context, emit func(timing.KeyEvent) error) error {
	epoch := time.Now()
	now := func() time.Duration { return time.Since(epoch) }

	var prev keymap.KeyID
	var prevUpAt time.Duration
	havePrev := false

	for i := 0; ; i = (i + 1) % len(sampleText) {
		key := sampleText[i]
		hold := s.jittered(s.profile.MeanHold)

		adhere := havePrev && key != prev && s.rng.Float64() < s.profile.AdhesionProb
		if adhere {
			// Press before the previous release: press now, then the
			// previous key lifts AdhesionLag later.
			if err := emit(timing.KeyEvent{Key: key, Edge: timing.EdgeDown, At: now()}); err != nil {
				return err
			}
			if err := s.sleep(ctx, s.jittered(s.profile.AdhesionLag)); err != nil {
				return err
			}
			if err := emit(timing.KeyEvent{Key: prev, Edge: timing.EdgeUp, At: now()}); err != nil {
				return err
			}
		} else {
			if havePrev {
				if err := emit(timing.KeyEvent{Key: prev, Edge: timing.EdgeUp, At: prevUpAt}); err != nil {
					return err
				}
			}
			if err := s.sleep(ctx, s.jittered(s.profile.MeanGap)); err != nil {
				return err
			}
			if err := emit(timing.KeyEvent{Key: key, Edge: timing.EdgeDown, At: now()}); err != nil {
				return err
			}
		}

		if s.profile.RepeatProb > 0 && s.rng.Float64() < s.profile.RepeatProb {
			if err := s.holdWithRepeats(ctx, key, now, emit); err != nil {
				return err
			}
		} else if err := s.sleep(ctx, hold); err != nil {
			return err
		}

		prev = key
		prevUpAt = now()
		havePrev = true
	}
}

// holdWithRepeats keeps a key down past the repeat delay, emitting the
// synthetic repeat Downs the kernel would.
func (s *SyntheticSource) holdWithRepeats(ctx context.Context, key keymap.KeyID, now func() time.Duration, emit func(timing.KeyEvent) error) error {
	if err := s.sleep(ctx, s.profile.RepeatDelay); err != nil {
		return err
	}
	repeats := 3 + s.rng.Intn(10)
	for r := 0; r < repeats; r++ {
		if err := emit(timing.KeyEvent{Key: key, Edge: timing.EdgeDown, At: now()}); err != nil {
			return err
		}
		if err := s.sleep(ctx, s.profile.RepeatCadence); err != nil {
			return err
		}
	}
	return nil
}
