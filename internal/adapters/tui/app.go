// Package tui is the interactive terminal frontend for the journal.
package tui

import (
	"context"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"daybook/internal/adapters/editor"
	"daybook/internal/adapters/tui/views"
	"daybook/internal/application"
)

// ViewState represents the current view
type ViewState int

const (
	ViewEditor ViewState = iota
	ViewSearch
	ViewStatus
	ViewHelp
)

// App is the main TUI application model
type App struct {
	journal *application.Journal
	orch    *application.Orchestrator
	editor  *editor.Opener

	state  ViewState
	entry  *views.EditorModel
	search *views.SearchModel
	status *views.StatusModel
	help   *views.HelpModel

	width  int
	height int
}

// NewApp creates a new TUI application positioned on today's entry.
func NewApp(journal *application.Journal, orch *application.Orchestrator, ed *editor.Opener) *App {
	return &App{
		journal: journal,
		orch:    orch,
		editor:  ed,
		state:   ViewEditor,
		entry:   views.NewEditorModel(journal, time.Now()),
		search:  views.NewSearchModel(journal),
		status:  views.NewStatusModel(orch),
		help:    views.NewHelpModel(),
	}
}

// Init initializes the application
func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{a.entry.Init(), a.refreshConnections()}
	if a.journal.AutoSyncEnabled(context.Background()) {
		cmds = append(cmds, a.backgroundSync())
	}
	return tea.Batch(cmds...)
}

// Update handles messages for the application
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.entry.SetSize(msg.Width, msg.Height)
		a.search.SetSize(msg.Width, msg.Height)
		a.status.SetSize(msg.Width, msg.Height)
		a.help.SetSize(msg.Width, msg.Height)
		return a, nil

	// View switching messages
	case views.SwitchToEditorMsg:
		a.state = ViewEditor
		if !msg.Date.IsZero() {
			a.entry.SetDate(msg.Date)
		}
		return a, a.entry.Init()

	case views.SwitchToSearchMsg:
		a.state = ViewSearch
		a.search.Reset()
		return a, a.search.Init()

	case views.SwitchToStatusMsg:
		a.state = ViewStatus
		return a, a.status.Init()

	case views.SwitchToHelpMsg:
		a.state = ViewHelp
		return a, nil

	case views.OpenEditorMsg:
		return a, a.openExternalEditor(msg.Date)

	case externalEditDoneMsg:
		// Reload so the saved text shows up.
		a.entry.SetDate(msg.date)
		return a, nil

	case connectionsReadyMsg, backgroundSyncDoneMsg:
		return a, nil
	}

	// Delegate to current view
	var cmd tea.Cmd
	switch a.state {
	case ViewEditor:
		_, cmd = a.entry.Update(msg)
	case ViewSearch:
		_, cmd = a.search.Update(msg)
	case ViewStatus:
		_, cmd = a.status.Update(msg)
	case ViewHelp:
		_, cmd = a.help.Update(msg)
	}

	return a, cmd
}

type externalEditDoneMsg struct {
	date time.Time
	err  error
}

type connectionsReadyMsg struct{}

type backgroundSyncDoneMsg struct{ err error }

// openExternalEditor round-trips the entry text through a temp file so
// the user's $EDITOR can take over the terminal.
func (a *App) openExternalEditor(date time.Time) tea.Cmd {
	if a.editor == nil {
		return nil
	}

	ctx := context.Background()
	entry := a.journal.Load(ctx, date)

	tmp, err := os.CreateTemp("", "daybook-*.txt")
	if err != nil {
		return func() tea.Msg { return externalEditDoneMsg{date: date, err: err} }
	}
	path := tmp.Name()
	tmp.WriteString(entry.Text)
	tmp.Close()

	cmd, err := a.editor.Command(path)
	if err != nil {
		os.Remove(path)
		return func() tea.Msg { return externalEditDoneMsg{date: date, err: err} }
	}

	return tea.ExecProcess(cmd, func(execErr error) tea.Msg {
		defer os.Remove(path)
		if execErr != nil {
			return externalEditDoneMsg{date: date, err: execErr}
		}
		edited, readErr := os.ReadFile(path)
		if readErr != nil {
			return externalEditDoneMsg{date: date, err: readErr}
		}
		entry.Text = strings.TrimRight(string(edited), "\n")
		saveErr := a.journal.Save(ctx, date, entry)
		return externalEditDoneMsg{date: date, err: saveErr}
	})
}

func (a *App) refreshConnections() tea.Cmd {
	return func() tea.Msg {
		a.orch.RefreshConnections(context.Background())
		return connectionsReadyMsg{}
	}
}

func (a *App) backgroundSync() tea.Cmd {
	return func() tea.Msg {
		_, err := a.orch.SyncAll(context.Background())
		return backgroundSyncDoneMsg{err: err}
	}
}

// View renders the current view
func (a *App) View() string {
	switch a.state {
	case ViewSearch:
		return a.search.View()
	case ViewStatus:
		return a.status.View()
	case ViewHelp:
		return a.help.View()
	default:
		return a.entry.View()
	}
}
