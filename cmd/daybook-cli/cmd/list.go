package cmd

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"daybook/internal/domain"
)

var listCmd = &cobra.Command{
	Use:   "list [year-month]",
	Short: "List entry dates",
	Long: `List all dates that have an entry, newest first. With a YYYY-MM
argument, show that month's entries with a text preview.

Examples:
  daybook-cli list
  daybook-cli list 2024-03`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 1 {
			return listMonth(cmd, args[0])
		}

		dates, err := journal.EntryDates(cmd.Context())
		if err != nil {
			return err
		}
		if len(dates) == 0 {
			fmt.Println("The journal is empty")
			return nil
		}

		sort.Slice(dates, func(i, j int) bool { return dates[i].After(dates[j]) })
		for _, d := range dates {
			fmt.Println(domain.DateKey(d))
		}
		return nil
	},
}

func listMonth(cmd *cobra.Command, arg string) error {
	parts := strings.SplitN(arg, "-", 2)
	if len(parts) != 2 {
		return fmt.Errorf("invalid month %q: want YYYY-MM", arg)
	}
	year, errY := strconv.Atoi(parts[0])
	month, errM := strconv.Atoi(parts[1])
	if errY != nil || errM != nil || month < 1 || month > 12 {
		return fmt.Errorf("invalid month %q: want YYYY-MM", arg)
	}

	entries, err := journal.MonthEntries(cmd.Context(), year, time.Month(month))
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Printf("No entries in %s\n", arg)
		return nil
	}

	days := make([]int, 0, len(entries))
	for day := range entries {
		days = append(days, day)
	}
	sort.Ints(days)

	for _, day := range days {
		entry := entries[day]
		preview := strings.ReplaceAll(entry.Text, "\n", " ")
		if len(preview) > 60 {
			preview = preview[:60] + "..."
		}
		fmt.Printf("%04d-%02d-%02d  %s\n", year, month, day, preview)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(listCmd)
}
