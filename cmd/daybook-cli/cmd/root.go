package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"daybook/internal/application"
	"daybook/internal/config"
	"daybook/internal/domain"
)

var (
	verbose bool

	logger  *log.Logger
	journal *application.Journal
	orch    *application.Orchestrator
	closeFn func() error
)

var rootCmd = &cobra.Command{
	Use:   "daybook-cli",
	Short: "CLI for the daybook journal",
	Long: `daybook-cli manages a one-entry-per-day journal stored locally and
synced to cloud storage.

It provides commands to show, save, edit, search, tag, sync, and
export entries.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip initialization for help commands
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}

		logger = log.New(os.Stderr)
		logger.SetLevel(log.WarnLevel)
		if verbose {
			logger.SetLevel(log.DebugLevel)
		}

		var err error
		journal, orch, closeFn, err = config.Open(config.FromEnv(), logger)
		return err
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if closeFn != nil {
			return closeFn()
		}
		return nil
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// parseDate resolves a date argument, defaulting to today when absent.
func parseDate(args []string) (time.Time, error) {
	if len(args) == 0 {
		return time.Now(), nil
	}
	date, ok := domain.ParseDateKey(args[0])
	if !ok {
		return time.Time{}, fmt.Errorf("invalid date %q: want YYYY-MM-DD", args[0])
	}
	return date, nil
}
