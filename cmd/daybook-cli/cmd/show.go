package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"daybook/internal/domain"
)

var showCmd = &cobra.Command{
	Use:   "show [date]",
	Short: "Show the entry for a date",
	Long: `Show the journal entry for a date, or for today when no date is given.

Examples:
  daybook-cli show
  daybook-cli show 2024-03-15`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := parseDate(args)
		if err != nil {
			return err
		}

		entry := journal.Load(cmd.Context(), date)
		if entry.IsEmpty() {
			fmt.Printf("No entry for %s\n", domain.DateKey(date))
			return nil
		}

		if len(entry.Tags) > 0 {
			fmt.Printf("%s  [%s]\n", domain.DateKey(date), strings.Join(entry.Tags, ", "))
		} else {
			fmt.Println(domain.DateKey(date))
		}
		fmt.Println(entry.Text)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
}
