package application

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"daybook/internal/domain"
)

// ExportFormat selects one of the one-way export renderings.
type ExportFormat string

const (
	FormatJSON ExportFormat = "json"
	FormatCSV  ExportFormat = "csv"
	FormatYAML ExportFormat = "yaml"
)

// csvPreviewLen caps the text column of the tabular export.
const csvPreviewLen = 100

// ExportCommand renders the whole journal in a user-facing format. These
// are read-only views over the store; they play no part in sync.
type ExportCommand struct {
	journal *Journal
	Format  ExportFormat
	now     func() time.Time
}

// NewExportCommand creates a new ExportCommand.
func NewExportCommand(journal *Journal, format ExportFormat) *ExportCommand {
	return &ExportCommand{journal: journal, Format: format, now: time.Now}
}

// Execute renders the export.
func (c *ExportCommand) Execute(ctx context.Context) (string, error) {
	records, err := c.journal.ExportAll(ctx)
	if err != nil {
		return "", err
	}

	// Stable oldest-first ordering; record paths sort chronologically.
	sort.Slice(records, func(a, b int) bool { return records[a].Path < records[b].Path })

	switch c.Format {
	case FormatJSON:
		return exportJSON(records)
	case FormatCSV:
		return exportCSV(records), nil
	case FormatYAML:
		return exportYAML(records, c.now()), nil
	default:
		return "", fmt.Errorf("unknown export format: %q", c.Format)
	}
}

type jsonEntry struct {
	Date string   `json:"date"`
	Text string   `json:"text"`
	Tags []string `json:"tags"`
}

func exportJSON(records []Record) (string, error) {
	entries := make([]jsonEntry, 0, len(records))
	for _, record := range records {
		date, ok := domain.ParseRemoteFilePath(record.Path)
		if !ok {
			continue
		}
		entry := domain.DecodeEntry([]byte(record.Content))
		tags := entry.Tags
		if tags == nil {
			tags = []string{}
		}
		entries = append(entries, jsonEntry{
			Date: domain.DateKey(date),
			Text: entry.Text,
			Tags: tags,
		})
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func exportCSV(records []Record) string {
	rows := []string{`"Date","Text Preview","Tags"`}

	for _, record := range records {
		date, ok := domain.ParseRemoteFilePath(record.Path)
		if !ok {
			continue
		}
		entry := domain.DecodeEntry([]byte(record.Content))

		preview := entry.Text
		if len(preview) > csvPreviewLen {
			preview = preview[:csvPreviewLen]
		}
		preview = strings.ReplaceAll(preview, `"`, `""`)

		rows = append(rows, fmt.Sprintf(`"%s","%s","%s"`,
			domain.DateKey(date), preview, strings.Join(entry.Tags, ";")))
	}

	return strings.Join(rows, "\n")
}

func exportYAML(records []Record, exportedAt time.Time) string {
	lines := []string{
		"# Daybook journal export",
		"# Exported: " + exportedAt.UTC().Format(time.RFC3339),
		"",
	}

	for _, record := range records {
		date, ok := domain.ParseRemoteFilePath(record.Path)
		if !ok {
			continue
		}

		lines = append(lines, "- date: "+domain.DateKey(date))
		lines = append(lines, "  content: |")
		for _, contentLine := range strings.Split(strings.TrimRight(record.Content, "\n"), "\n") {
			lines = append(lines, "    "+contentLine)
		}
		lines = append(lines, "")
	}

	return strings.Join(lines, "\n")
}
