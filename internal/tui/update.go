package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
)

// Update handles incoming messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m.updateListSize(), nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case frameTickMsg:
		return m.rebuildSnapshot(), m.frameTickCmd()

	case statsTickMsg:
		return m.rebuildStats(), m.statsTickCmd()

	case sessionsChangedMsg:
		return m, tea.Batch(m.refreshSessionsCmd(), m.watchSessionsCmd())

	case sessionEntriesMsg:
		items := make([]list.Item, len(msg))
		for i, e := range msg {
			items[i] = sessionItem{entry: e}
		}
		m.sessionList.SetItems(items)
		return m, nil

	case sessionSavedMsg:
		m.journal.Add(EntryOK, "session saved to %s", string(msg))
		return m, m.refreshSessionsCmd()

	case sessionLoadedMsg:
		m.journal.Add(EntryOK, "loaded %s (%d intervals)", msg.path, msg.intervals)
		m.viewMode = ViewRoll
		return m.rebuildSnapshot().rebuildStats(), nil

	case errMsg:
		m.journal.Add(EntryErr, "%v", msg.error)
		return m, nil
	}

	return m, nil
}

// handleKey dispatches key presses for the active view.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}

	if m.viewMode == ViewLoad {
		switch {
		case key.Matches(msg, m.keys.Back):
			m.viewMode = ViewRoll
			return m, nil
		case key.Matches(msg, m.keys.Select):
			if item, ok := m.sessionList.SelectedItem().(sessionItem); ok {
				return m, m.loadSessionCmd(item.entry.Path)
			}
			return m, nil
		}
		var cmd tea.Cmd
		m.sessionList, cmd = m.sessionList.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Record):
		if err := m.controller.Start(); err != nil {
			m.journal.Add(EntryErr, "%v", err)
		} else {
			m.journal.Add(EntryOK, "recording started")
		}
		return m, nil

	case key.Matches(msg, m.keys.Stop):
		if err := m.controller.Stop(); err != nil {
			m.journal.Add(EntryErr, "%v", err)
		} else {
			m.journal.Add(EntryOK, "recording stopped, %d intervals",
				m.store.Current().Timeline().Len())
		}
		return m.rebuildSnapshot(), nil

	case key.Matches(msg, m.keys.Clear):
		if err := m.controller.Clear(); err != nil {
			m.journal.Add(EntryErr, "%v", err)
		} else {
			m.journal.Clear()
			m.journal.Add(EntryInfo, "timeline cleared")
		}
		return m.rebuildSnapshot().rebuildStats(), nil

	case key.Matches(msg, m.keys.Save):
		return m, m.saveSessionCmd()

	case key.Matches(msg, m.keys.Load):
		m.viewMode = ViewLoad
		return m, m.refreshSessionsCmd()
	}

	return m, nil
}
