// Package tui renders the live piano roll, stats and event log, and
// drives the recording controller from key bindings. The render path
// only ever reads published timeline versions, so it never blocks the
// capture path.
package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"legato/internal/session"
	"legato/internal/timing"
)

// frameInterval is the render cadence (target 60Hz). Each frame reads
// whichever timeline version is current; if ingestion is busy the
// frame simply shows the previous version.
const frameInterval = time.Second / 60

// statsInterval is how often full-session statistics are recomputed.
const statsInterval = time.Second

// ViewMode selects the active screen.
type ViewMode int

const (
	// ViewRoll is the live piano-roll screen.
	ViewRoll ViewMode = iota
	// ViewLoad is the saved-session picker.
	ViewLoad
)

// Options wires the model to the core.
type Options struct {
	Theme      string
	Store      *timing.Store
	Controller *timing.Controller
	Builder    *timing.Builder
	Analyzer   *timing.Analyzer
	Sessions   *session.Store
	Watcher    *session.Watcher // may be nil; picker falls back to manual refresh
	Journal    *Journal
	Mono       func() time.Duration
	SourceName string
}

// Model is the bubbletea application state.
type Model struct {
	theme Theme
	keys  keyMap
	help  help.Model

	store      *timing.Store
	controller *timing.Controller
	builder    *timing.Builder
	analyzer   *timing.Analyzer
	sessions   *session.Store
	watcher    *session.Watcher
	journal    *Journal
	mono       func() time.Duration
	sourceName string

	viewMode    ViewMode
	sessionList list.Model

	snap  timing.Snapshot
	stats timing.Stats

	width  int
	height int
	err    error
}

// NewModel creates the application model.
func NewModel(opts Options) Model {
	theme := NewTheme(opts.Theme)

	l := list.New([]list.Item{}, newSessionDelegate(theme), 0, 0)
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()

	mono := opts.Mono
	if mono == nil {
		epoch := time.Now()
		mono = func() time.Duration { return time.Since(epoch) }
	}

	return Model{
		theme:       theme,
		keys:        newKeyMap(),
		help:        help.New(),
		store:       opts.Store,
		controller:  opts.Controller,
		builder:     opts.Builder,
		analyzer:    opts.Analyzer,
		sessions:    opts.Sessions,
		watcher:     opts.Watcher,
		journal:     opts.Journal,
		mono:        mono,
		sourceName:  opts.SourceName,
		viewMode:    ViewRoll,
		sessionList: l,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		m.frameTickCmd(),
		m.statsTickCmd(),
		m.refreshSessionsCmd(),
	}
	if m.watcher != nil {
		cmds = append(cmds, m.watchSessionsCmd())
	}
	return tea.Batch(cmds...)
}

// Message types.
type (
	frameTickMsg       time.Time
	statsTickMsg       time.Time
	sessionsChangedMsg struct{}
	sessionEntriesMsg  []session.Entry
	sessionSavedMsg    string
	sessionLoadedMsg   struct {
		path      string
		intervals int
	}
	errMsg struct{ error }
)

func (m Model) frameTickCmd() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg {
		return frameTickMsg(t)
	})
}

func (m Model) statsTickCmd() tea.Cmd {
	return tea.Tick(statsInterval, func(t time.Time) tea.Msg {
		return statsTickMsg(t)
	})
}

// watchSessionsCmd waits for the sessions directory to change.
func (m Model) watchSessionsCmd() tea.Cmd {
	return func() tea.Msg {
		select {
		case _, ok := <-m.watcher.Events:
			if !ok {
				return nil
			}
			return sessionsChangedMsg{}
		case err, ok := <-m.watcher.Errors:
			if !ok {
				return nil
			}
			return errMsg{err}
		}
	}
}

// refreshSessionsCmd re-lists the saved session files.
func (m Model) refreshSessionsCmd() tea.Cmd {
	return func() tea.Msg {
		entries, err := m.sessions.List()
		if err != nil {
			return errMsg{err}
		}
		return sessionEntriesMsg(entries)
	}
}

// saveSessionCmd serializes the current session. The controller
// validates the transition at execution time; an illegal save is
// reported, never silently dropped.
func (m Model) saveSessionCmd() tea.Cmd {
	return func() tea.Msg {
		v, meta, err := m.controller.BeginSave()
		if err != nil {
			return errMsg{err}
		}
		path, err := m.sessions.Save(v.Timeline(), meta, m.mono())
		if err != nil {
			return errMsg{err}
		}
		return sessionSavedMsg(path)
	}
}

// loadSessionCmd reads, validates and atomically installs a session.
// Failures leave the current timeline untouched.
func (m Model) loadSessionCmd(path string) tea.Cmd {
	return func() tea.Msg {
		tl, meta, err := m.sessions.Load(path)
		if err != nil {
			return errMsg{err}
		}
		if err := m.controller.Load(tl, meta); err != nil {
			return errMsg{err}
		}
		return sessionLoadedMsg{path: path, intervals: tl.Len()}
	}
}

// rebuildSnapshot builds this frame's render model from exactly one
// published version.
func (m Model) rebuildSnapshot() Model {
	m.snap = m.builder.Build(m.store.Current(), m.mono())
	return m
}

// rebuildStats recomputes full-session statistics.
func (m Model) rebuildStats() Model {
	m.stats = m.analyzer.Analyze(m.store.Current(), m.mono())
	return m
}

// updateListSize resizes the load picker to the terminal.
func (m Model) updateListSize() Model {
	h := m.height - 8
	if h < 5 {
		h = 5
	}
	w := m.width - 4
	if w < 20 {
		w = 20
	}
	m.sessionList.SetSize(w, h)
	return m
}
