//go:build !linux

package capture

import (
	"context"
	"log/slog"

	"legato/internal/timing"
)

// EvdevSource is only available on Linux; other platforms must use
// the synthetic source.
type EvdevSource struct{}

// NewEvdevSource always fails off Linux.
func NewEvdevSource(path string, log *slog.Logger) (*EvdevSource, error) {
	_ = path
	_ = log
	return nil, ErrNoKeyboard
}

// Path returns the device path.
func (s *EvdevSource) Path() string { return "" }

// Stream always fails off Linux.
func (s *EvdevSource) Stream(ctx context.Context, emit func(timing.KeyEvent) error) error {
	return ErrNoKeyboard
}
