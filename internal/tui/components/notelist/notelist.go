package notelist

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/chime/internal/models"
	"github.com/julianstephens/chime/internal/utils"
)

type AddNoteMsg struct{}

type DeleteNoteMsg struct {
	ID string
}

// DraftReminderMsg asks for a reminder pre-filled from the note.
type DraftReminderMsg struct {
	ID string
}

type Item struct {
	Note models.Note
}

func (i Item) Title() string { return "📝 " + i.Note.Heading() }

func (i Item) Description() string {
	body := strings.ReplaceAll(i.Note.Body, "\n", " ")
	if i.Note.CreatedAt.IsZero() {
		return body
	}
	return utils.FormatWhen(i.Note.CreatedAt) + " | " + body
}

func (i Item) FilterValue() string { return i.Note.Title + " " + i.Note.Body }

type KeyMap struct {
	Add    key.Binding
	Delete key.Binding
	Draft  key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		Draft: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "remind"),
		),
	}
}

type Model struct {
	list list.Model
	keys KeyMap
}

func New(notes []models.Note, width, height int) Model {
	l := list.New(nil, list.NewDefaultDelegate(), width, height)
	l.Title = "Notes"
	l.SetShowTitle(false)
	l.SetShowHelp(false)

	keys := DefaultKeyMap()
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Add, keys.Delete, keys.Draft}
	}
	l.AdditionalFullHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Add, keys.Delete, keys.Draft}
	}

	m := Model{list: l, keys: keys}
	m.SetNotes(notes)
	return m
}

func (m *Model) SetNotes(notes []models.Note) {
	items := make([]list.Item, len(notes))
	for i, n := range notes {
		items[i] = Item{Note: n}
	}
	m.list.SetItems(items)
}

// Filtering reports whether the list is capturing keys for its filter input.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		// Don't match if we're filtering
		if m.Filtering() {
			break
		}
		switch {
		case key.Matches(msg, m.keys.Add):
			return m, func() tea.Msg { return AddNoteMsg{} }
		case key.Matches(msg, m.keys.Delete):
			if i, ok := m.list.SelectedItem().(Item); ok {
				return m, func() tea.Msg { return DeleteNoteMsg{ID: i.Note.ID} }
			}
		case key.Matches(msg, m.keys.Draft):
			if i, ok := m.list.SelectedItem().(Item); ok {
				return m, func() tea.Msg { return DraftReminderMsg{ID: i.Note.ID} }
			}
		}
	}

	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 && !m.Filtering() {
		return "\n  No notes yet.\n  Press 'a' to add one."
	}
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}
