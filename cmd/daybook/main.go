package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"daybook/internal/adapters/editor"
	"daybook/internal/adapters/tui"
	"daybook/internal/config"
)

func main() {
	// The terminal belongs to the TUI, so logs go to a file or nowhere.
	logger := log.New(os.Stderr)
	logger.SetLevel(log.ErrorLevel)

	journal, orch, closeStore, err := config.Open(config.FromEnv(), logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer closeStore()

	app := tui.NewApp(journal, orch, editor.NewOpener())

	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
