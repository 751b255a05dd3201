package tui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"legato/internal/session"
)

// sessionItem wraps a saved session file for the load picker.
type sessionItem struct {
	entry session.Entry
}

func (i sessionItem) FilterValue() string { return i.entry.Name }
func (i sessionItem) Title() string       { return i.entry.Name }
func (i sessionItem) Description() string {
	return fmt.Sprintf("%s | %d bytes", i.entry.ModTime.Format("2006-01-02 15:04:05"), i.entry.Size)
}

// sessionDelegate renders session file items.
type sessionDelegate struct {
	theme Theme
}

func newSessionDelegate(theme Theme) *sessionDelegate {
	return &sessionDelegate{theme: theme}
}

func (d *sessionDelegate) Height() int                             { return 2 }
func (d *sessionDelegate) Spacing() int                            { return 0 }
func (d *sessionDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }
func (d *sessionDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	i, ok := item.(sessionItem)
	if !ok {
		return
	}

	name := d.theme.Status.Render(i.entry.Name)
	if index == m.Index() {
		name = d.theme.Title.Render("> " + i.entry.Name)
	} else {
		name = "  " + name
	}
	desc := d.theme.Muted.Render("  " + i.Description())

	fmt.Fprintf(w, "%s\n%s", name, desc)
}
