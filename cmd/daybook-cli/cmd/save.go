package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"daybook/internal/domain"
)

var saveTags []string

var saveCmd = &cobra.Command{
	Use:   "save [date] <text>",
	Short: "Save the entry for a date",
	Long: `Save the journal entry for a date, replacing whatever was there.
Pass "-" as the text to read it from stdin. Saving empty text with no
tags deletes the entry.

Examples:
  daybook-cli save "Met Alice to talk about the project"
  daybook-cli save 2024-03-15 "Gym session" --tag health
  cat note.txt | daybook-cli save -`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		dateArgs, text := args[:0], args[len(args)-1]
		if len(args) == 2 {
			dateArgs = args[:1]
		}
		date, err := parseDate(dateArgs)
		if err != nil {
			return err
		}

		if text == "-" {
			data, err := io.ReadAll(os.Stdin)
			if err != nil {
				return fmt.Errorf("reading stdin: %w", err)
			}
			text = strings.TrimRight(string(data), "\n")
		}

		entry := domain.Entry{Text: text, Tags: domain.NormalizeTags(saveTags)}
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

var deleteCmd = &cobra.Command{
	Use:   "delete <date>",
	Short: "Delete the entry for a date",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := parseDate(args)
		if err != nil {
			return err
		}

		if err := journal.Save(cmd.Context(), date, domain.EmptyEntry()); err != nil {
			return err
		}
		fmt.Printf("Deleted entry for %s\n", domain.DateKey(date))
		return nil
	},
}

func init() {
	saveCmd.Flags().StringSliceVarP(&saveTags, "tag", "t", nil, "tag for the entry (repeatable)")
	rootCmd.AddCommand(saveCmd)
	rootCmd.AddCommand(deleteCmd)
}
