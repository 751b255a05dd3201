package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// journalLines is how many event log lines the bottom panel shows.
const journalLines = 8

// View renders the UI based on the model state.
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	switch m.viewMode {
	case ViewLoad:
		b.WriteString(m.theme.PanelTitle.Render("SAVED SESSIONS"))
		b.WriteString("\n")
		b.WriteString(m.sessionList.View())
	default:
		innerWidth := m.width - 6
		b.WriteString(m.theme.Panel.Render(
			m.theme.PanelTitle.Render("PIANO ROLL") + "\n" + renderRoll(m.snap, m.theme, innerWidth)))
		b.WriteString("\n")
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
			m.theme.Panel.Render(m.renderStats()),
			" ",
			m.theme.Panel.Render(m.renderJournal()),
		))
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

// renderHeader draws the title bar with recording state and source.
func (m Model) renderHeader() string {
	title := m.theme.Title.Render("legato — input micro-timing analyzer")

	state := m.controller.State()
	var badge string
	if m.controller.Recording() {
		badge = m.theme.StateRec.Render("● " + state.String())
	} else {
		badge = m.theme.StateIdle.Render("○ " + state.String())
	}

	status := m.theme.Status.Render(fmt.Sprintf("%s | v%d | %d intervals",
		m.sourceName, m.snap.Version, m.snap.Intervals))

	spacing := m.width - lipgloss.Width(title) - lipgloss.Width(badge) - lipgloss.Width(status) - 4
	if spacing < 1 {
		spacing = 1
	}

	return lipgloss.JoinHorizontal(lipgloss.Top,
		title, strings.Repeat(" ", spacing), status, "  ", badge)
}

// renderStats draws the signal hygiene panel.
func (m Model) renderStats() string {
	var b strings.Builder
	b.WriteString(m.theme.PanelTitle.Render("SIGNAL HYGIENE"))
	b.WriteString("\n")

	score := m.stats.HygieneScore
	b.WriteString(m.theme.Score(score).Render(fmt.Sprintf("%3.0f", score)))
	b.WriteString(m.theme.Muted.Render(" / 100"))
	b.WriteString(m.theme.Status.Render(fmt.Sprintf("   %.1f keys/s", m.stats.KeysPerSecond)))
	b.WriteString("\n")

	if m.stats.TotalPresses > 0 {
		cleanPct := 100 * m.stats.CleanPresses / m.stats.TotalPresses
		filled := cleanPct / 10
		bar := m.theme.ScoreGood.Render(strings.Repeat("█", filled)) +
			m.theme.Muted.Render(strings.Repeat("░", 10-filled))
		b.WriteString(fmt.Sprintf("%s %d%% clean of %d presses\n", bar, cleanPct, m.stats.TotalPresses))
	} else {
		b.WriteString(m.theme.Muted.Render("no presses yet\n"))
	}

	if r := m.stats.RecentPair; r != nil {
		b.WriteString(m.theme.Status.Render("last: "))
		b.WriteString(m.theme.Bar(r.Severity).Render(
			fmt.Sprintf("%s+%s %dms %s", r.A, r.B, r.Duration().Milliseconds(), r.Severity)))
		b.WriteString("\n")
	}

	if len(m.stats.Hotspots) > 0 {
		b.WriteString(m.theme.PanelTitle.Render("HOTSPOTS"))
		b.WriteString("\n")
		for _, h := range m.stats.Hotspots {
			b.WriteString(m.theme.Bar(h.Severity).Render(fmt.Sprintf("%s+%s", h.A, h.B)))
			b.WriteString(m.theme.Muted.Render(
				fmt.Sprintf(" ×%d  %dms total\n", h.Count, h.Total.Milliseconds())))
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

// renderJournal draws the recent event log lines.
func (m Model) renderJournal() string {
	var b strings.Builder
	b.WriteString(m.theme.PanelTitle.Render("EVENT LOG"))
	b.WriteString("\n")

	entries := m.journal.Tail(journalLines)
	if len(entries) == 0 {
		b.WriteString(m.theme.Muted.Render("quiet"))
		return b.String()
	}
	for i, e := range entries {
		var style = m.theme.Status
		switch e.Kind {
		case EntryOK:
			style = m.theme.ScoreGood
		case EntryWarn:
			style = m.theme.ScoreFair
		case EntryErr:
			style = m.theme.Error
		case EntryInfo:
			style = m.theme.Muted
		}
		b.WriteString(style.Render(e.Text))
		if i < len(entries)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}
