package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"daybook/internal/adapters/editor"
	"daybook/internal/domain"
)

var editCmd = &cobra.Command{
	Use:   "edit [date]",
	Short: "Edit an entry in your $EDITOR",
	Long: `Open the entry for a date in the external editor and save the result.
Tags are kept as they were; saving an empty file deletes the entry.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := parseDate(args)
		if err != nil {
			return err
		}

		entry := journal.Load(cmd.Context(), date)
		edited, err := editor.NewOpener().EditText(entry.Text)
		if err != nil {
			return err
		}

		entry.Text = strings.TrimRight(edited, "\n")
		if err := journal.Save(cmd.Context(), date, entry); err != nil {
			return err
		}

		if entry.IsEmpty() {
			fmt.Printf("Deleted entry for %s\n", domain.DateKey(date))
		} else {
			fmt.Printf("Saved entry for %s\n", domain.DateKey(date))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(editCmd)
}
