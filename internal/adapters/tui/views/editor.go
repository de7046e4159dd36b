package views

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"daybook/internal/adapters/tui/styles"
	"daybook/internal/application"
	"daybook/internal/domain"
)

// EditorKeyMap defines key bindings for the entry editor
type EditorKeyMap struct {
	Save     key.Binding
	Tab      key.Binding
	PrevDay  key.Binding
	NextDay  key.Binding
	Today    key.Binding
	External key.Binding
	Search   key.Binding
	Status   key.Binding
	Help     key.Binding
	Quit     key.Binding
}

var EditorKeys = EditorKeyMap{
	Save: key.NewBinding(
		key.WithKeys("ctrl+s"),
		key.WithHelp("ctrl+s", "save"),
	),
	Tab: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "text/tags"),
	),
	PrevDay: key.NewBinding(
		key.WithKeys("ctrl+p"),
		key.WithHelp("ctrl+p", "previous day"),
	),
	NextDay: key.NewBinding(
		key.WithKeys("ctrl+n"),
		key.WithHelp("ctrl+n", "next day"),
	),
	Today: key.NewBinding(
		key.WithKeys("ctrl+t"),
		key.WithHelp("ctrl+t", "today"),
	),
	External: key.NewBinding(
		key.WithKeys("ctrl+e"),
		key.WithHelp("ctrl+e", "external editor"),
	),
	Search: key.NewBinding(
		key.WithKeys("ctrl+f"),
		key.WithHelp("ctrl+f", "search"),
	),
	Status: key.NewBinding(
		key.WithKeys("ctrl+y"),
		key.WithHelp("ctrl+y", "sync status"),
	),
	Help: key.NewBinding(
		key.WithKeys("ctrl+g", "f1"),
		key.WithHelp("ctrl+g", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("ctrl+c", "quit"),
	),
}

const (
	focusBody = iota
	focusTags
)

// EditorModel is the model for the day entry editor, the app's home view.
type EditorModel struct {
	journal *application.Journal

	date    time.Time
	body    textarea.Model
	tags    textinput.Model
	focused int
	dirty   bool
	message string
	isErr   bool
	width   int
	height  int
}

// NewEditorModel creates the entry editor positioned on date.
func NewEditorModel(journal *application.Journal, date time.Time) *EditorModel {
	body := textarea.New()
	body.Placeholder = "What happened today?"
	body.Focus()

	tags := textinput.New()
	tags.Placeholder = "work, health, ..."
	tags.CharLimit = 200

	m := &EditorModel{
		journal: journal,
		body:    body,
		tags:    tags,
	}
	m.SetDate(date)
	return m
}

// SetDate loads the entry for date into the inputs, discarding any
// unsaved edit.
func (m *EditorModel) SetDate(date time.Time) {
	m.date = date
	entry := m.journal.Load(context.Background(), date)
	m.body.SetValue(entry.Text)
	m.tags.SetValue(strings.Join(entry.Tags, ", "))
	m.dirty = false
	m.message = ""
}

// Date returns the day currently being edited.
func (m *EditorModel) Date() time.Time { return m.date }

// Init initializes the editor view
func (m *EditorModel) Init() tea.Cmd {
	return textarea.Blink
}

// Update handles messages for the editor view
func (m *EditorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case EntrySavedMsg:
		m.dirty = false
		m.message = fmt.Sprintf("Saved %s", domain.DateKey(msg.Date))
		m.isErr = false
		return m, nil

	case EditorErrMsg:
		m.message = msg.Err.Error()
		m.isErr = true
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, EditorKeys.Quit):
			return m, tea.Quit

		case key.Matches(msg, EditorKeys.Save):
			return m, m.save()

		case key.Matches(msg, EditorKeys.Tab):
			if m.focused == focusBody {
				m.focused = focusTags
				m.body.Blur()
				m.tags.Focus()
			} else {
				m.focused = focusBody
				m.tags.Blur()
				m.body.Focus()
			}
			return m, nil

		case key.Matches(msg, EditorKeys.PrevDay):
			m.SetDate(m.date.AddDate(0, 0, -1))
			return m, nil

		case key.Matches(msg, EditorKeys.NextDay):
			m.SetDate(m.date.AddDate(0, 0, 1))
			return m, nil

		case key.Matches(msg, EditorKeys.Today):
			m.SetDate(time.Now())
			return m, nil

		case key.Matches(msg, EditorKeys.External):
			date := m.date
			return m, func() tea.Msg { return OpenEditorMsg{Date: date} }

		case key.Matches(msg, EditorKeys.Search):
			return m, func() tea.Msg { return SwitchToSearchMsg{} }

		case key.Matches(msg, EditorKeys.Status):
			return m, func() tea.Msg { return SwitchToStatusMsg{} }

		case key.Matches(msg, EditorKeys.Help):
			return m, func() tea.Msg { return SwitchToHelpMsg{} }
		}
	}

	var cmd tea.Cmd
	if m.focused == focusBody {
		before := m.body.Value()
		m.body, cmd = m.body.Update(msg)
		if m.body.Value() != before {
			m.dirty = true
		}
	} else {
		before := m.tags.Value()
		m.tags, cmd = m.tags.Update(msg)
		if m.tags.Value() != before {
			m.dirty = true
		}
	}
	return m, cmd
}

func (m *EditorModel) save() tea.Cmd {
	date := m.date
	entry := domain.Entry{
		Text: m.body.Value(),
		Tags: domain.NormalizeTags(strings.Split(m.tags.Value(), ",")),
	}
	return func() tea.Msg {
		if err := m.journal.Save(context.Background(), date, entry); err != nil {
			return EditorErrMsg{Err: err}
		}
		return EntrySavedMsg{Date: date}
	}
}

// EntrySavedMsg indicates a successful save.
type EntrySavedMsg struct {
	Date time.Time
}

// EditorErrMsg indicates a failed save.
type EditorErrMsg struct {
	Err error
}

// View renders the editor view
func (m *EditorModel) View() string {
	var b strings.Builder

	title := m.date.Format("Monday, 2 January 2006")
	if m.dirty {
		title += " *"
	}
	b.WriteString(styles.Title.Render(title))
	b.WriteString("\n\n")

	if m.focused == focusBody {
		b.WriteString(styles.InputFocused.Render(m.body.View()))
	} else {
		b.WriteString(styles.InputField.Render(m.body.View()))
	}
	b.WriteString("\n\n")

	b.WriteString(styles.InputLabel.Render("Tags:"))
	b.WriteString("\n")
	if m.focused == focusTags {
		b.WriteString(styles.InputFocused.Render(m.tags.View()))
	} else {
		b.WriteString(styles.InputField.Render(m.tags.View()))
	}
	b.WriteString("\n\n")

	if m.message != "" {
		if m.isErr {
			b.WriteString(styles.ErrorMsg.Render(m.message))
		} else {
			b.WriteString(styles.Success.Render(m.message))
		}
		b.WriteString("\n\n")
	}

	b.WriteString(fmt.Sprintf("%s %s  %s %s  %s %s  %s %s",
		styles.HelpKey.Render("ctrl+s"),
		styles.HelpDesc.Render("save"),
		styles.HelpKey.Render("ctrl+p/n"),
		styles.HelpDesc.Render("prev/next day"),
		styles.HelpKey.Render("ctrl+f"),
		styles.HelpDesc.Render("search"),
		styles.HelpKey.Render("ctrl+g"),
		styles.HelpDesc.Render("help"),
	))

	return styles.App.Render(b.String())
}

// SetSize updates the view dimensions
func (m *EditorModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	if width > 8 {
		m.body.SetWidth(width - 8)
	}
	if height > 14 {
		m.body.SetHeight(height - 14)
	}
}
