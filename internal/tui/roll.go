package tui

import (
	"fmt"
	"strings"
	"time"

	"legato/internal/timing"
)

// rollLabelWidth is the fixed width of the key label column.
const rollLabelWidth = 12

// renderRoll draws the folding piano roll from one snapshot: one row
// per key that has intervals, bars bucketed across the visible
// window, overlap sub-spans colored by severity.
func renderRoll(snap timing.Snapshot, th Theme, width int) string {
	barWidth := width - rollLabelWidth - 16
	if barWidth < 20 {
		barWidth = 20
	}

	var b strings.Builder

	if len(snap.Rows) == 0 {
		b.WriteString(th.Muted.Render("Waiting for key events..."))
		b.WriteString("\n\n")
		b.WriteString(axisLine(snap, th, barWidth))
		return b.String()
	}

	for _, row := range snap.Rows {
		if len(row.Spans) == 0 && !row.Held {
			// Key has history but nothing in the visible window.
			continue
		}
		label := row.Label
		if len(label) > rollLabelWidth {
			label = label[:rollLabelWidth]
		}
		b.WriteString(th.RowLabel.Render(fmt.Sprintf("%-*s", rollLabelWidth, label)))
		b.WriteString(th.Axis.Render("│"))
		b.WriteString(renderBar(row, snap, th, barWidth))
		b.WriteString(th.Axis.Render("│"))
		if row.Held {
			b.WriteString(" " + th.HeldBadge.Render(holdLabel(row.HoldFor)))
		} else {
			b.WriteString(" " + th.UpBadge.Render("○ up"))
		}
		b.WriteString("\n")
	}

	b.WriteString(axisLine(snap, th, barWidth))
	return b.String()
}

// renderBar buckets a row's spans into barWidth cells. Each cell takes
// the worst severity of any span crossing it.
func renderBar(row timing.RowView, snap timing.Snapshot, th Theme, barWidth int) string {
	window := snap.Now - snap.WindowStart
	if window <= 0 {
		return strings.Repeat(" ", barWidth)
	}
	cell := window / time.Duration(barWidth)
	if cell <= 0 {
		cell = time.Nanosecond
	}

	// severity per cell, -1 = empty
	cells := make([]int, barWidth)
	for i := range cells {
		cells[i] = -1
	}
	for _, sp := range row.Spans {
		from := int((sp.Start - snap.WindowStart) / cell)
		to := int((sp.End - snap.WindowStart + cell - 1) / cell)
		if from < 0 {
			from = 0
		}
		if to > barWidth {
			to = barWidth
		}
		for i := from; i < to; i++ {
			if int(sp.Severity) > cells[i] {
				cells[i] = int(sp.Severity)
			}
		}
	}

	var b strings.Builder
	run := func(sev int, n int) {
		if n == 0 {
			return
		}
		if sev < 0 {
			b.WriteString(strings.Repeat(" ", n))
			return
		}
		b.WriteString(th.Bar(timing.Severity(sev)).Render(strings.Repeat("█", n)))
	}
	// Emit runs of equal severity to keep the styled segments few.
	start := 0
	for i := 1; i <= barWidth; i++ {
		if i == barWidth || cells[i] != cells[start] {
			run(cells[start], i-start)
			start = i
		}
	}
	return b.String()
}

// axisLine renders the shared time axis under the rows.
func axisLine(snap timing.Snapshot, th Theme, barWidth int) string {
	window := snap.Now - snap.WindowStart
	left := fmt.Sprintf("-%.0fs", window.Seconds())
	rule := strings.Repeat("─", barWidth)
	return th.Axis.Render(fmt.Sprintf("%-*s└%s┘ now", rollLabelWidth, left, rule))
}
