package views

import (
	"context"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"daybook/internal/adapters/tui/styles"
	"daybook/internal/application"
	"daybook/internal/domain"
)

// SearchKeyMap defines key bindings for the search view
type SearchKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Open   key.Binding
	Copy   key.Binding
	Cancel key.Binding
}

var SearchKeys = SearchKeyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "ctrl+p"),
		key.WithHelp("↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "ctrl+n"),
		key.WithHelp("↓", "down"),
	),
	Open: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "open entry"),
	),
	Copy: key.NewBinding(
		key.WithKeys("ctrl+y"),
		key.WithHelp("ctrl+y", "copy text"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "back"),
	),
}

// SearchModel is the model for the search view. Prefixing the query with
// #tag terms narrows by tags, the rest matches entry text.
type SearchModel struct {
	journal   *application.Journal
	input     textinput.Model
	results   []application.DatedEntry
	cursor    int
	searching bool
	width     int
	height    int
}

// NewSearchModel creates a new search view model
func NewSearchModel(journal *application.Journal) *SearchModel {
	input := textinput.New()
	input.Placeholder = "Search entries... (#tag to filter by tag)"
	input.Focus()

	return &SearchModel{
		journal: journal,
		input:   input,
	}
}

// Init initializes the search view
func (m *SearchModel) Init() tea.Cmd {
	return textinput.Blink
}

// Reset clears the query and results.
func (m *SearchModel) Reset() {
	m.input.SetValue("")
	m.results = nil
	m.cursor = 0
	m.input.Focus()
}

// Update handles messages for the search view
func (m *SearchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case searchResultsMsg:
		m.results = msg.results
		m.cursor = 0
		m.searching = false
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, SearchKeys.Cancel):
			return m, func() tea.Msg {
				return SwitchToEditorMsg{}
			}

		case key.Matches(msg, SearchKeys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil

		case key.Matches(msg, SearchKeys.Down):
			if m.cursor < len(m.results)-1 {
				m.cursor++
			}
			return m, nil

		case key.Matches(msg, SearchKeys.Copy):
			if m.cursor >= 0 && m.cursor < len(m.results) {
				clipboard.WriteAll(m.results[m.cursor].Entry.Text)
			}
			return m, nil

		case key.Matches(msg, SearchKeys.Open):
			if m.cursor >= 0 && m.cursor < len(m.results) {
				date := m.results[m.cursor].Date
				return m, func() tea.Msg {
					return SwitchToEditorMsg{Date: date}
				}
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)

	query := m.input.Value()
	if len(query) >= 2 {
		return m, tea.Batch(cmd, m.search(query))
	} else if len(query) == 0 {
		m.results = nil
	}

	return m, cmd
}

func (m *SearchModel) search(raw string) tea.Cmd {
	query, tags := splitQuery(raw)
	return func() tea.Msg {
		results, err := application.NewSearchCommand(m.journal, query, tags).Execute(context.Background())
		if err != nil {
			return searchResultsMsg{results: nil}
		}
		return searchResultsMsg{results: results}
	}
}

// splitQuery separates #tag terms from free text.
func splitQuery(raw string) (string, []string) {
	var words, tags []string
	for _, word := range strings.Fields(raw) {
		if rest, ok := strings.CutPrefix(word, "#"); ok && rest != "" {
			tags = append(tags, rest)
		} else {
			words = append(words, word)
		}
	}
	return strings.Join(words, " "), domain.NormalizeTags(tags)
}

type searchResultsMsg struct {
	results []application.DatedEntry
}

// View renders the search view
func (m *SearchModel) View() string {
	var b strings.Builder

	b.WriteString(styles.Title.Render("Search"))
	b.WriteString("\n\n")

	b.WriteString(styles.InputFocused.Render(m.input.View()))
	b.WriteString("\n\n")

	if len(m.results) == 0 {
		if len(m.input.Value()) >= 2 {
			b.WriteString(styles.MutedText.Render("No matching entries"))
		} else {
			b.WriteString(styles.MutedText.Render("Type at least 2 characters to search"))
		}
	} else {
		b.WriteString(styles.Subtitle.Render(fmt.Sprintf("%d entries", len(m.results))))
		b.WriteString("\n\n")

		maxResults := 10
		if len(m.results) < maxResults {
			maxResults = len(m.results)
		}

		for i := 0; i < maxResults; i++ {
			b.WriteString(m.renderResult(m.results[i], i == m.cursor))
			b.WriteString("\n")
		}

		if len(m.results) > 10 {
			b.WriteString(styles.MutedText.Render(fmt.Sprintf("... and %d more", len(m.results)-10)))
		}
	}

	b.WriteString("\n\n")

	b.WriteString(fmt.Sprintf("%s %s  %s %s  %s %s  %s %s",
		styles.HelpKey.Render("↑/↓"),
		styles.HelpDesc.Render("navigate"),
		styles.HelpKey.Render("enter"),
		styles.HelpDesc.Render("open"),
		styles.HelpKey.Render("ctrl+y"),
		styles.HelpDesc.Render("copy text"),
		styles.HelpKey.Render("esc"),
		styles.HelpDesc.Render("back"),
	))

	return styles.App.Render(b.String())
}

func (m *SearchModel) renderResult(result application.DatedEntry, selected bool) string {
	snippet := strings.ReplaceAll(result.Entry.Text, "\n", " ")
	if len(snippet) > 60 {
		snippet = snippet[:60] + "…"
	}

	text := fmt.Sprintf("%s  %s", domain.DateKey(result.Date), snippet)
	if len(result.Entry.Tags) > 0 {
		text += "  " + styles.Tag.Render("#"+strings.Join(result.Entry.Tags, " #"))
	}

	if selected {
		return styles.Selected.Render(text)
	}
	return text
}

// SetSize updates the view dimensions
func (m *SearchModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}
