package activitylog

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/chime/internal/models"
	"github.com/julianstephens/chime/internal/utils"
)

var (
	timeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Width(18)

	textStyle = lipgloss.NewStyle().
			Bold(true)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)
)

type Model struct {
	viewport viewport.Model
	entries  []models.LogEntry
}

func New(width, height int) Model {
	return Model{viewport: viewport.New(width, height)}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.entries) == 0 {
		return "No activity yet."
	}
	return m.viewport.View()
}

func (m *Model) SetSize(width, height int) {
	m.viewport.Width = width
	m.viewport.Height = height
	m.Render()
}

// SetEntries replaces the entries, newest first.
func (m *Model) SetEntries(entries []models.LogEntry) {
	m.entries = entries
	m.Render()
}

func (m *Model) Render() {
	var b strings.Builder
	for _, e := range m.entries {
		icon := "⏰"
		if e.Category == models.CategoryTimer {
			icon = "⏱"
		}
		fmt.Fprintf(&b, "%s %s %s %s\n",
			timeStyle.Render(utils.FormatWhen(e.CreatedAt)),
			icon,
			textStyle.Render(e.Text),
			statusStyle.Render(string(e.Status)),
		)
	}
	m.viewport.SetContent(b.String())
}
