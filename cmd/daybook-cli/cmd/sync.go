package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"daybook/internal/application"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Sync the journal with connected cloud providers",
	Long: `Run a full two-way sync: upload every local entry, then download
every remote entry. Remote content wins for days present on both sides.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		orch.RefreshConnections(cmd.Context())

		results, err := orch.SyncAll(cmd.Context())
		if err != nil {
			return err
		}
		if len(results) == 0 {
			fmt.Println("No cloud provider is connected. Set DAYBOOK_DRIVE_TOKEN or DAYBOOK_GRAPH_TOKEN.")
			return nil
		}

		for name, counts := range results {
			fmt.Printf("%s: uploaded %d, downloaded %d\n", name, counts.Uploaded, counts.Downloaded)
		}
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show cloud connection and sync state",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		orch.RefreshConnections(cmd.Context())
		state := orch.State()

		printProvider("drive", application.ProviderDrive, state.ConnectedDrive)
		printProvider("graph", application.ProviderGraph, state.ConnectedGraph)

		if state.LastSyncTime.IsZero() {
			fmt.Println("last sync: never")
		} else {
			fmt.Printf("last sync: %s\n", state.LastSyncTime.Format(time.RFC3339))
		}
		if state.LastError != "" {
			fmt.Printf("last error: %s\n", state.LastError)
		}

		if journal.AutoSyncEnabled(cmd.Context()) {
			fmt.Println("auto-sync: on")
		} else {
			fmt.Println("auto-sync: off")
		}
		return nil
	},
}

func printProvider(label, name string, connected bool) {
	if !connected {
		fmt.Printf("%s: not connected\n", label)
		return
	}
	if id := orch.Identity(name); id != nil && id.Email != "" {
		fmt.Printf("%s: connected as %s\n", label, id.Email)
	} else {
		fmt.Printf("%s: connected\n", label)
	}
}

var autosyncCmd = &cobra.Command{
	Use:   "autosync <on|off>",
	Short: "Toggle syncing on startup",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		switch args[0] {
		case "on":
			return journal.SetAutoSyncEnabled(cmd.Context(), true)
		case "off":
			return journal.SetAutoSyncEnabled(cmd.Context(), false)
		default:
			return fmt.Errorf("invalid value %q: want on or off", args[0])
		}
	},
}

func init() {
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(autosyncCmd)
}
