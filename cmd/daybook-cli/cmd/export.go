package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"daybook/internal/application"
)

var (
	exportFormat string
	exportOut    string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the whole journal",
	Long: `Export every entry as a single document to stdout or a file.

Examples:
  daybook-cli export
  daybook-cli export --format csv --out journal.csv`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		export := application.NewExportCommand(journal, application.ExportFormat(exportFormat))
		out, err := export.Execute(cmd.Context())
		if err != nil {
			return err
		}

		if exportOut == "" {
			fmt.Print(out)
			return nil
		}
		if err := os.WriteFile(exportOut, []byte(out), 0o644); err != nil {
			return err
		}
		fmt.Printf("Exported to %s\n", exportOut)
		return nil
	},
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every entry and tag from the local store",
	Long: `Delete all journal entries and the tag index. Settings such as the
last sync time are kept. Remote copies are not touched.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		confirmed, err := cmd.Flags().GetBool("yes")
		if err != nil {
			return err
		}
		if !confirmed {
			return fmt.Errorf("refusing to clear without --yes")
		}

		if err := journal.ClearAll(cmd.Context()); err != nil {
			return err
		}
		fmt.Println("Journal cleared")
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "json", "export format: json, csv or yaml")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "write to a file instead of stdout")
	clearCmd.Flags().Bool("yes", false, "confirm the deletion")
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(clearCmd)
}
