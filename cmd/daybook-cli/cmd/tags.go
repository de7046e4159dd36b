package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"daybook/internal/domain"
)

var tagsCmd = &cobra.Command{
	Use:   "tags [tag]",
	Short: "List tags, or the entries carrying one",
	Long: `Without arguments, list every tag in use with its entry count.
With a tag, list the entries carrying it, newest first.

Examples:
  daybook-cli tags
  daybook-cli tags work`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 1 {
			return listTagged(cmd, args[0])
		}

		index, err := journal.TagIndex(cmd.Context())
		if err != nil {
			return err
		}
		if len(index) == 0 {
			fmt.Println("No tags in use")
			return nil
		}

		tags := make([]string, 0, len(index))
		for tag := range index {
			tags = append(tags, tag)
		}
		sort.Strings(tags)

		for _, tag := range tags {
			fmt.Printf("%-20s %d\n", tag, index[tag])
		}
		return nil
	},
}

func listTagged(cmd *cobra.Command, tag string) error {
	entries, err := journal.EntriesWithTag(cmd.Context(), tag)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Printf("No entries tagged %q\n", tag)
		return nil
	}

	for _, e := range entries {
		preview := strings.ReplaceAll(e.Entry.Text, "\n", " ")
		if len(preview) > 60 {
			preview = preview[:60] + "..."
		}
		fmt.Printf("%s  %s\n", domain.DateKey(e.Date), preview)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(tagsCmd)
}
