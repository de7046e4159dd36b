package views

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"daybook/internal/adapters/tui/styles"
	"daybook/internal/application"
	"daybook/internal/domain"
)

// StatusKeyMap defines key bindings for the sync status view
type StatusKeyMap struct {
	Sync    key.Binding
	Refresh key.Binding
	Cancel  key.Binding
}

var StatusKeys = StatusKeyMap{
	Sync: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "sync now"),
	),
	Refresh: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "refresh"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc", "q"),
		key.WithHelp("esc", "back"),
	),
}

// StatusModel shows cloud connection state and runs syncs.
type StatusModel struct {
	orch    *application.Orchestrator
	spin    spinner.Model
	syncing bool
	results map[string]domain.SyncCounts
	syncErr error
	width   int
	height  int
}

// NewStatusModel creates a new sync status view model
func NewStatusModel(orch *application.Orchestrator) *StatusModel {
	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = styles.MutedText

	return &StatusModel{
		orch: orch,
		spin: spin,
	}
}

// Init initializes the status view
func (m *StatusModel) Init() tea.Cmd {
	return m.refresh()
}

// Update handles messages for the status view
func (m *StatusModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case spinner.TickMsg:
		if !m.syncing {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case connectionsRefreshedMsg:
		return m, nil

	case syncDoneMsg:
		m.syncing = false
		m.results = msg.results
		m.syncErr = msg.err
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, StatusKeys.Cancel):
			return m, func() tea.Msg {
				return SwitchToEditorMsg{}
			}

		case key.Matches(msg, StatusKeys.Refresh):
			return m, m.refresh()

		case key.Matches(msg, StatusKeys.Sync):
			if m.syncing {
				return m, nil
			}
			m.syncing = true
			m.results = nil
			m.syncErr = nil
			return m, tea.Batch(m.spin.Tick, m.sync())
		}
	}

	return m, nil
}

func (m *StatusModel) refresh() tea.Cmd {
	return func() tea.Msg {
		m.orch.RefreshConnections(context.Background())
		return connectionsRefreshedMsg{}
	}
}

func (m *StatusModel) sync() tea.Cmd {
	return func() tea.Msg {
		results, err := m.orch.SyncAll(context.Background())
		return syncDoneMsg{results: results, err: err}
	}
}

type connectionsRefreshedMsg struct{}

type syncDoneMsg struct {
	results map[string]domain.SyncCounts
	err     error
}

// View renders the status view
func (m *StatusModel) View() string {
	var b strings.Builder

	b.WriteString(styles.Title.Render("Sync"))
	b.WriteString("\n\n")

	state := m.orch.State()
	b.WriteString(m.renderProvider("Drive", application.ProviderDrive, state.ConnectedDrive))
	b.WriteString(m.renderProvider("Graph", application.ProviderGraph, state.ConnectedGraph))
	b.WriteString("\n")

	if state.LastSyncTime.IsZero() {
		b.WriteString(styles.MutedText.Render("Last sync: never"))
	} else {
		b.WriteString(styles.MutedText.Render("Last sync: " + state.LastSyncTime.Format(time.RFC822)))
	}
	b.WriteString("\n\n")

	switch {
	case m.syncing:
		b.WriteString(m.spin.View())
		b.WriteString(styles.MutedText.Render(" syncing..."))
		b.WriteString("\n\n")

	case m.syncErr != nil:
		b.WriteString(styles.ErrorMsg.Render("Sync failed: " + m.syncErr.Error()))
		b.WriteString("\n\n")

	case m.results != nil:
		if len(m.results) == 0 {
			b.WriteString(styles.MutedText.Render("No provider connected."))
			b.WriteString("\n")
		}
		for name, counts := range m.results {
			b.WriteString(styles.Success.Render(
				fmt.Sprintf("%s: %d up, %d down", name, counts.Uploaded, counts.Downloaded)))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	b.WriteString(fmt.Sprintf("%s %s  %s %s  %s %s",
		styles.HelpKey.Render("s"),
		styles.HelpDesc.Render("sync now"),
		styles.HelpKey.Render("r"),
		styles.HelpDesc.Render("refresh"),
		styles.HelpKey.Render("esc"),
		styles.HelpDesc.Render("back"),
	))

	return styles.App.Render(b.String())
}

func (m *StatusModel) renderProvider(label, name string, connected bool) string {
	var line string
	if connected {
		line = styles.Connected.Render("● " + label + " connected")
		if id := m.orch.Identity(name); id != nil {
			line += styles.MutedText.Render("  " + id.Email)
		}
	} else {
		line = styles.Disconnected.Render("○ " + label + " not connected")
	}
	return line + "\n"
}

// SetSize updates the view dimensions
func (m *StatusModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}
