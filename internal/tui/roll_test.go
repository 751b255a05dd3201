package tui

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"legato/internal/timing"
)

func sec(n int64) time.Duration { return time.Duration(n) * time.Second }

func TestRenderRollEmpty(t *testing.T) {
	th := NewTheme("mocha")
	snap := timing.Snapshot{Now: sec(5), WindowStart: 0}

	out := renderRoll(snap, th, 100)
	if !strings.Contains(out, "Waiting for key events") {
		t.Error("empty roll should show the waiting message")
	}
	if !strings.Contains(out, "now") {
		t.Error("axis line missing")
	}
}

func TestRenderRollRowsAndBadges(t *testing.T) {
	th := NewTheme("mocha")
	snap := timing.Snapshot{
		Now:         sec(5),
		WindowStart: 0,
		Rows: []timing.RowView{
			{
				Key: "a", Label: "A",
				Spans: []timing.Span{{Start: sec(1), End: sec(2)}},
			},
			{
				Key: "space", Label: "SPACE",
				Spans:   []timing.Span{{Start: sec(3), End: sec(5), Open: true}},
				Held:    true,
				HoldFor: sec(2),
			},
		},
	}

	out := renderRoll(snap, th, 100)
	if !strings.Contains(out, "A") || !strings.Contains(out, "SPACE") {
		t.Error("row labels missing")
	}
	if !strings.Contains(out, "○ up") {
		t.Error("released row should carry the up badge")
	}
	if !strings.Contains(out, "2.00s") {
		t.Error("held row should show the live hold duration")
	}
}

func TestRenderRollSkipsRowsOutsideWindow(t *testing.T) {
	th := NewTheme("mocha")
	snap := timing.Snapshot{
		Now:         sec(10),
		WindowStart: sec(5),
		Rows: []timing.RowView{
			{Key: "q", Label: "Q", Presses: 1}, // history only, no visible spans
		},
	}

	out := renderRoll(snap, th, 100)
	if strings.Contains(out, "Q") {
		t.Error("row with no visible spans should fold away")
	}
}

func TestRenderBarBuckets(t *testing.T) {
	th := NewTheme("mocha")
	snap := timing.Snapshot{Now: sec(10), WindowStart: 0}
	row := timing.RowView{
		Key: "a",
		Spans: []timing.Span{
			{Start: 0, End: sec(5), Severity: timing.SeverityClean},
			{Start: sec(5), End: sec(10), Severity: timing.SeveritySevere},
		},
	}

	out := renderBar(row, snap, th, 10)
	filled := strings.Count(out, "█")
	if filled != 10 {
		t.Errorf("filled cells = %d, want 10", filled)
	}
}

func TestRenderBarEmptyCells(t *testing.T) {
	th := NewTheme("mocha")
	snap := timing.Snapshot{Now: sec(10), WindowStart: 0}
	row := timing.RowView{
		Key:   "a",
		Spans: []timing.Span{{Start: 0, End: sec(1)}},
	}

	out := renderBar(row, snap, th, 10)
	if filled := strings.Count(out, "█"); filled != 1 {
		t.Errorf("filled cells = %d, want 1", filled)
	}
}

func TestThemeFallsBackToMocha(t *testing.T) {
	themes := []string{"mocha", "latte", "frappe", "macchiato", "unknown"}
	for _, name := range themes {
		th := NewTheme(name)
		if th.Title.GetBold() != true {
			t.Errorf("theme %q not fully constructed", name)
		}
	}
}

func TestThemeSeverityBars(t *testing.T) {
	th := NewTheme("mocha")
	severities := []timing.Severity{
		timing.SeverityClean, timing.SeverityMinor,
		timing.SeverityModerate, timing.SeveritySevere,
	}
	seen := map[string]bool{}
	for _, s := range severities {
		seen[fmt.Sprintf("%v", th.Bar(s).GetForeground())] = true
	}
	if len(seen) != 4 {
		t.Errorf("severity bar colors not distinct: %d unique", len(seen))
	}
}
