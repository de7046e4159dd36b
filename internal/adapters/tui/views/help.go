package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"daybook/internal/adapters/tui/styles"
)

// HelpKeyMap defines key bindings for the help view
type HelpKeyMap struct {
	Close key.Binding
}

var HelpKeys = HelpKeyMap{
	Close: key.NewBinding(
		key.WithKeys("esc", "q"),
		key.WithHelp("esc/q", "close"),
	),
}

// HelpModel is the model for the help view
type HelpModel struct {
	width  int
	height int
}

// NewHelpModel creates a new help view model
func NewHelpModel() *HelpModel {
	return &HelpModel{}
}

// Init initializes the help view
func (m *HelpModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the help view
func (m *HelpModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, HelpKeys.Close) {
			return m, func() tea.Msg {
				return SwitchToEditorMsg{}
			}
		}
	}

	return m, nil
}

// View renders the help view
func (m *HelpModel) View() string {
	var b strings.Builder

	b.WriteString(styles.Title.Render("Daybook Help"))
	b.WriteString("\n\n")

	b.WriteString(styles.Subtitle.Render("One entry per day, synced to your cloud"))
	b.WriteString("\n\n")

	b.WriteString(styles.InputLabel.Render("Writing"))
	b.WriteString("\n")
	b.WriteString(helpLine("ctrl+s", "Save the entry"))
	b.WriteString(helpLine("tab", "Switch between text and tags"))
	b.WriteString(helpLine("ctrl+e", "Open in external editor"))
	b.WriteString("\n")

	b.WriteString(styles.InputLabel.Render("Navigation"))
	b.WriteString("\n")
	b.WriteString(helpLine("ctrl+p / ctrl+n", "Previous / next day"))
	b.WriteString(helpLine("ctrl+t", "Jump to today"))
	b.WriteString(helpLine("ctrl+f", "Search entries"))
	b.WriteString(helpLine("ctrl+y", "Sync status"))
	b.WriteString("\n")

	b.WriteString(styles.InputLabel.Render("General"))
	b.WriteString("\n")
	b.WriteString(helpLine("ctrl+g / F1", "Toggle help"))
	b.WriteString(helpLine("ctrl+c", "Quit"))
	b.WriteString("\n\n")

	b.WriteString(styles.InputLabel.Render("Tags"))
	b.WriteString("\n")
	b.WriteString(styles.MutedText.Render("  Comma-separated, lowercased on save."))
	b.WriteString("\n")
	b.WriteString(styles.MutedText.Render("  In search, #tag terms filter by tag."))
	b.WriteString("\n\n")

	b.WriteString(styles.HelpDesc.Render("Press "))
	b.WriteString(styles.HelpKey.Render("esc"))
	b.WriteString(styles.HelpDesc.Render(" to close"))

	return styles.App.Render(b.String())
}

func helpLine(key, desc string) string {
	return "  " + styles.HelpKey.Render(padRight(key, 20)) + styles.HelpDesc.Render(desc) + "\n"
}

func padRight(s string, length int) string {
	if len(s) >= length {
		return s
	}
	return s + strings.Repeat(" ", length-len(s))
}

// SetSize updates the view dimensions
func (m *HelpModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}
