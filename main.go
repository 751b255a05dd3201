// legato captures hardware key edges with sub-millisecond timing and
// visualizes per-key press intervals and adhesion overlaps in a live
// terminal piano roll.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"legato/internal/capture"
	"legato/internal/config"
	"legato/internal/logging"
	"legato/internal/session"
	"legato/internal/timing"
	"legato/internal/tui"
)

// version is overridden at build time via -ldflags.
var version = "dev"

func main() {
	var (
		configPath  = flag.String("config", "", "path to config.yaml (default: standard locations)")
		device      = flag.String("device", "", "evdev keyboard device (default: auto-detect)")
		synthetic   = flag.Bool("synthetic", false, "use the synthetic typing source instead of hardware")
		seed        = flag.Int64("seed", time.Now().UnixNano(), "seed for the synthetic source")
		showVersion = flag.Bool("version", false, "print version and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Println("legato", version)
		return
	}

	if err := run(*configPath, *device, *synthetic, *seed); err != nil {
		fmt.Fprintln(os.Stderr, "legato:", err)
		os.Exit(1)
	}
}

func run(configPath, device string, synthetic bool, seed int64) error {
	var cfg *config.Config
	var err error
	if configPath != "" {
		cfg, err = config.Load(configPath)
	} else {
		cfg, err = config.LoadFromDefaultPath()
	}
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if device != "" {
		cfg.Capture.Device = device
	}
	if synthetic {
		cfg.Capture.Synthetic = true
	}

	log, closer, err := logging.New(logging.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Path:   cfg.Log.Path,
	})
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	if closer != nil {
		defer closer.Close()
	}

	// One monotonic clock shared by ingestion and rendering so
	// timestamps land on the same axis.
	epoch := time.Now()
	mono := func() time.Duration { return time.Since(epoch) }

	// Capture source. A hook that cannot be installed is fatal here,
	// before recording is ever reachable.
	var src capture.Source
	var sourceName string
	if cfg.Capture.Synthetic {
		src = capture.NewSyntheticSource(capture.StickyTypist(), seed)
		sourceName = "synthetic"
	} else {
		ev, err := capture.NewEvdevSource(cfg.Capture.Device, log)
		if err != nil {
			return fmt.Errorf("install capture hook: %w", err)
		}
		src = ev
		sourceName = ev.Path()
	}

	store := timing.NewStore()
	norm := timing.NewNormalizer(store, cfg.Repeat(), log)
	controller := timing.NewController(store, norm, mono, time.Now, log)
	detector := timing.NewDetector(cfg.Thresholds())
	builder := timing.NewBuilder(detector, cfg.ViewWindow())
	analyzer := timing.NewAnalyzer(detector, cfg.KPSWindow(), cfg.Hotspots)

	sessions, err := session.NewStore(cfg.SessionsDir)
	if err != nil {
		return err
	}
	watcher, err := session.NewWatcher(sessions.Dir())
	if err != nil {
		log.Warn("session watcher unavailable", "err", err)
		watcher = nil
	} else {
		defer watcher.Close()
	}

	journal := tui.NewJournal(200)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Ingestion path: capture goroutine feeds the channel; a second
	// goroutine is the sole consumer and the sole writer into the
	// store (via controller and normalizer).
	events := make(chan timing.KeyEvent, 1024)
	captureErr := make(chan error, 1)
	go func() {
		captureErr <- capture.Pump(ctx, src, events)
	}()
	go func() {
		for ev := range events {
			verdict, considered := controller.Ingest(ev)
			if considered {
				journal.Event(ev, verdict)
			}
		}
	}()

	model := tui.NewModel(tui.Options{
		Theme:      cfg.Theme,
		Store:      store,
		Controller: controller,
		Builder:    builder,
		Analyzer:   analyzer,
		Sessions:   sessions,
		Watcher:    watcher,
		Journal:    journal,
		Mono:       mono,
		SourceName: sourceName,
	})

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run program: %w", err)
	}
	cancel()

	select {
	case err := <-captureErr:
		if err != nil && !errors.Is(err, context.Canceled) {
			log.Error("capture stopped", "err", err)
		}
	case <-time.After(time.Second):
	}
	return nil
}
