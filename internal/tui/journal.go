package tui

import (
	"fmt"
	"sync"
	"time"

	"legato/internal/timing"
)

// EntryKind classifies a journal line for styling.
type EntryKind int

const (
	// EntryInfo is a neutral status line.
	EntryInfo EntryKind = iota
	// EntryEvent is an accepted key edge.
	EntryEvent
	// EntryOK is a successful control action.
	EntryOK
	// EntryWarn is an anomaly (repeat recovery, unmatched release).
	EntryWarn
	// EntryErr is a rejected action or failure.
	EntryErr
)

// JournalEntry is one line of the event log panel.
type JournalEntry struct {
	Kind EntryKind
	Text string
}

// Journal is a bounded ring of recent events and control actions. It
// is written by the ingestion goroutine and read by the render path,
// so it carries its own lock; writes never touch the timeline store.
type Journal struct {
	mu      sync.Mutex
	entries []JournalEntry
	max     int
}

// NewJournal creates a journal keeping the last max entries.
func NewJournal(max int) *Journal {
	if max <= 0 {
		max = 200
	}
	return &Journal{max: max}
}

// Add appends a line, evicting the oldest beyond capacity.
func (j *Journal) Add(kind EntryKind, format string, args ...any) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.entries = append(j.entries, JournalEntry{Kind: kind, Text: fmt.Sprintf(format, args...)})
	if len(j.entries) > j.max {
		j.entries = j.entries[len(j.entries)-j.max:]
	}
}

// Event records an ingested key edge with its normalizer verdict.
func (j *Journal) Event(ev timing.KeyEvent, verdict timing.Verdict) {
	kind := EntryEvent
	switch verdict {
	case timing.VerdictRecovered, timing.VerdictDiscarded:
		kind = EntryWarn
	case timing.VerdictRepeat:
		// Collapsed repeats would flood the log; skip them.
		return
	}
	arrow := "⬇"
	if ev.Edge == timing.EdgeUp {
		arrow = "⬆"
	}
	j.Add(kind, "%8.3fs %s %-12s %s", ev.At.Seconds(), arrow, ev.Key, verdict)
}

// Tail returns up to n most recent entries, oldest first.
func (j *Journal) Tail(n int) []JournalEntry {
	j.mu.Lock()
	defer j.mu.Unlock()
	if n > len(j.entries) {
		n = len(j.entries)
	}
	out := make([]JournalEntry, n)
	copy(out, j.entries[len(j.entries)-n:])
	return out
}

// Clear empties the journal.
func (j *Journal) Clear() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.entries = nil
}

// holdLabel formats a live hold duration for row badges.
func holdLabel(d time.Duration) string {
	return fmt.Sprintf("● %5.2fs", d.Seconds())
}
