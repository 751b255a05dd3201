// Package capture delivers raw key edges to the timing core. Sources
// implement a single Stream method; the core never knows whether the
// edges came from hardware or a generator.
package capture

import (
	"context"
	"errors"

	"legato/internal/timing"
)

// ErrNoKeyboard indicates no readable keyboard device was found.
// Installing the hook is a startup requirement, so callers treat this
// as fatal before recording ever begins.
var ErrNoKeyboard = errors.New("no readable keyboard device found (are you in the input group?)")

// Source emits raw key edge events until the context is cancelled or
// the device fails. Emit errors abort the stream.
type Source interface {
	Stream(ctx context.Context, emit func(timing.KeyEvent) error) error
}

// SourceFunc adapts a function literal to the Source interface.
type SourceFunc func(ctx context.Context, emit func(timing.KeyEvent) error) error

// Stream calls the underlying function.
func (f SourceFunc) Stream(ctx context.Context, emit func(timing.KeyEvent) error) error {
	return f(ctx, emit)
}

// Pump runs a source and forwards its events into ch, dropping the
// oldest pending event when the consumer falls behind rather than
// blocking the capture path. The channel is closed when the source
// stops.
func Pump(ctx context.Context, src Source, ch chan timing.KeyEvent) error {
	defer close(ch)
	return src.Stream(ctx, func(ev timing.KeyEvent) error {
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case ch <- ev:
				return nil
			default:
			}
			// Channel full: shed the oldest event so ingestion can
			// never stall the hardware callback path.
			select {
			case <-ch:
			default:
			}
		}
	})
}
