package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"daybook/internal/application"
	"daybook/internal/domain"
)

var searchTags []string

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search journal entries",
	Long: `Search entries by text and/or tags. The text match is a
case-insensitive substring match; with multiple tags an entry must
carry them all. Results are newest first.

Examples:
  daybook-cli search alice
  daybook-cli search --tag work
  daybook-cli search gym --tag health`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := ""
		if len(args) == 1 {
			query = args[0]
		}
		if query == "" && len(searchTags) == 0 {
			return fmt.Errorf("give a query, --tag, or both")
		}

		search := application.NewSearchCommand(journal, query, domain.NormalizeTags(searchTags))
		results, err := search.Execute(cmd.Context())
		if err != nil {
			return err
		}
		if len(results) == 0 {
			fmt.Println("No matching entries")
			return nil
		}

		for _, r := range results {
			preview := strings.ReplaceAll(r.Entry.Text, "\n", " ")
			if len(preview) > 60 {
				preview = preview[:60] + "..."
			}
			if len(r.Entry.Tags) > 0 {
				fmt.Printf("%s  %s  [%s]\n", domain.DateKey(r.Date), preview, strings.Join(r.Entry.Tags, ", "))
			} else {
				fmt.Printf("%s  %s\n", domain.DateKey(r.Date), preview)
			}
		}
		return nil
	},
}

func init() {
	searchCmd.Flags().StringSliceVarP(&searchTags, "tag", "t", nil, "tag the entry must carry (repeatable)")
	rootCmd.AddCommand(searchCmd)
}
