//go:build linux

package capture

import (
	"context"
	"encoding/binary"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sys/unix"

	"legato/internal/timing"
)

// evdev value field meanings for EV_KEY events.
const (
	evKey       = 0x01
	evValueUp   = 0
	evValueDown = 1
	// evValueHold is kernel auto-repeat, forwarded as Down and
	// collapsed by the normalizer.
	evValueHold = 2
)

// inputEventSize is sizeof(struct input_event) on 64-bit Linux:
// two 8-byte time fields plus type, code, value.
const inputEventSize = 24

// EvdevSource reads EV_KEY events from a Linux evdev character
// device.
type EvdevSource struct {
	path string
	log  *slog.Logger
}

// NewEvdevSource opens the given device, or scans for a keyboard when
// path is empty. Returns ErrNoKeyboard when nothing readable exists.
func NewEvdevSource(path string, log *slog.Logger) (*EvdevSource, error) {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	if path == "" {
		found, err := findKeyboard()
		if err != nil {
			return nil, err
		}
		path = found
	}
	// Probe for read permission up front so a privilege problem is
	// fatal at startup instead of a silent empty stream.
	fd, err := unix.Open(path, unix.O_RDONLY|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	unix.Close(fd)
	return &EvdevSource{path: path, log: log}, nil
}

// Path returns the device being read.
func (s *EvdevSource) Path() string { return s.path }

// findKeyboard locates a keyboard device via the stable udev
// by-path/by-id symlinks, which end in "-kbd" for keyboards.
func findKeyboard() (string, error) {
	for _, dir := range []string{"/dev/input/by-id", "/dev/input/by-path"} {
		links, err := filepath.Glob(filepath.Join(dir, "*-kbd"))
		if err != nil {
			continue
		}
		for _, link := range links {
			resolved, err := filepath.EvalSymlinks(link)
			if err != nil {
				continue
			}
			if f, err := os.Open(resolved); err == nil {
				f.Close()
				return resolved, nil
			}
		}
	}
	return "", ErrNoKeyboard
}

// Stream reads input events until ctx is cancelled. Device timestamps
// are mapped onto the process monotonic axis anchored at the first
// event, preserving the kernel's sub-millisecond spacing.
func (s *EvdevSource) Stream(ctx context.Context, emit func(timing.KeyEvent) error) error {
	f, err := os.Open(s.path)
	if err != nil {
		return fmt.Errorf("open %s: %w", s.path, err)
	}
	defer f.Close()

	// Unblock the Read below when the context ends.
	go func() {
		<-ctx.Done()
		f.SetReadDeadline(time.Now())
	}()

	epoch := time.Now()
	var anchor time.Duration     // mono time of first event
	var deviceBase time.Duration // device time of first event
	anchored := false

	buf := make([]byte, inputEventSize*64)
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		n, err := f.Read(buf)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("read %s: %w", s.path, err)
		}
		for off := 0; off+inputEventSize <= n; off += inputEventSize {
			sec := int64(binary.NativeEndian.Uint64(buf[off:]))
			usec := int64(binary.NativeEndian.Uint64(buf[off+8:]))
			typ := binary.NativeEndian.Uint16(buf[off+16:])
			code := binary.NativeEndian.Uint16(buf[off+18:])
			value := int32(binary.NativeEndian.Uint32(buf[off+20:]))

			if typ != evKey {
				continue
			}
			key, ok := keyName(code)
			if !ok {
				s.log.Debug("unmapped key code", "code", code)
				continue
			}

			deviceAt := time.Duration(sec)*time.Second + time.Duration(usec)*time.Microsecond
			if !anchored {
				anchor = time.Since(epoch)
				deviceBase = deviceAt
				anchored = true
			}
			at := anchor + (deviceAt - deviceBase)

			var edge timing.Edge
			switch value {
			case evValueDown, evValueHold:
				edge = timing.EdgeDown
			case evValueUp:
				edge = timing.EdgeUp
			default:
				continue
			}

			if err := emit(timing.KeyEvent{Key: key, Edge: edge, At: at}); err != nil {
				return err
			}
		}
	}
}
