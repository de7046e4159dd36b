package application

import (
	"context"
	"sort"
	"strings"
)

// SearchCommand filters the whole journal by text substring and tag
// intersection. A full linear scan with no index acceleration: correct,
// and fast enough at journal-scale volumes.
type SearchCommand struct {
	journal *Journal
	Query   string
	Tags    []string
}

// NewSearchCommand creates a new SearchCommand.
func NewSearchCommand(journal *Journal, query string, tags []string) *SearchCommand {
	return &SearchCommand{journal: journal, Query: query, Tags: tags}
}

// Execute returns the matching entries, newest first. An entry matches
// when its text contains the query case-insensitively (an empty query
// matches everything) and carries every requested tag (an empty tag set
// matches everything).
func (c *SearchCommand) Execute(ctx context.Context) ([]DatedEntry, error) {
	dates, err := c.journal.EntryDates(ctx)
	if err != nil {
		return nil, err
	}

	query := strings.ToLower(c.Query)

	var results []DatedEntry
	for _, date := range dates {
		entry := c.journal.Load(ctx, date)

		if query != "" && !strings.Contains(strings.ToLower(entry.Text), query) {
			continue
		}
		if !hasAllTags(entry.Tags, c.Tags) {
			continue
		}
		results = append(results, DatedEntry{Date: date, Entry: entry})
	}

	sort.Slice(results, func(a, b int) bool {
		return results[a].Date.After(results[b].Date)
	})
	return results, nil
}

func hasAllTags(have, want []string) bool {
	for _, tag := range want {
		found := false
		for _, t := range have {
			if t == tag {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
