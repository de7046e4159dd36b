// Package mcp exposes the journal over the Model Context Protocol so
// assistants can read entries and drive syncs.
package mcp

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"daybook/internal/application"
	"daybook/internal/domain"
)

// RegisterReadTools adds all read-only journal tools to the MCP server.
func RegisterReadTools(s *server.MCPServer, journal *application.Journal, orch *application.Orchestrator) {
	s.AddTool(getEntryTool(), getEntryHandler(journal))
	s.AddTool(listDatesTool(), listDatesHandler(journal))
	s.AddTool(searchTool(), searchHandler(journal))
	s.AddTool(listTagsTool(), listTagsHandler(journal))
	s.AddTool(exportTool(), exportHandler(journal))
	s.AddTool(syncStatusTool(), syncStatusHandler(orch))
}

// --- get_entry ---

func getEntryTool() mcp.Tool {
	return mcp.NewTool("get_entry",
		mcp.WithDescription("Read the journal entry for a date. Returns text and tags, or reports that the day is empty."),
		mcp.WithString("date",
			mcp.Description("Entry date in YYYY-MM-DD form. Omit for today."),
		),
	)
}

func getEntryHandler(journal *application.Journal) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		date, err := parseDateArg(req.GetString("date", ""))
		if err != nil {
			return toolError(err)
		}

		entry := journal.Load(ctx, date)
		if entry.IsEmpty() {
			return mcp.NewToolResultText(fmt.Sprintf("No entry for %s.", domain.DateKey(date))), nil
		}
		return mcp.NewToolResultText(formatEntry(date, entry)), nil
	}
}

// --- list_dates ---

func listDatesTool() mcp.Tool {
	return mcp.NewTool("list_dates",
		mcp.WithDescription("List all dates that have a journal entry, newest first."),
	)
}

func listDatesHandler(journal *application.Journal) server.ToolHandlerFunc {
	return func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		dates, err := journal.EntryDates(ctx)
		if err != nil {
			return toolError(err)
		}
		if len(dates) == 0 {
			return mcp.NewToolResultText("The journal is empty."), nil
		}

		sort.Slice(dates, func(i, j int) bool { return dates[i].After(dates[j]) })
		var sb strings.Builder
		for _, d := range dates {
			sb.WriteString(domain.DateKey(d))
			sb.WriteByte('\n')
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}

// --- search ---

func searchTool() mcp.Tool {
	return mcp.NewTool("search",
		mcp.WithDescription("Search journal entries by keyword and/or tags. Results are newest first."),
		mcp.WithString("query",
			mcp.Description("Case-insensitive text to look for in entry bodies. Optional when tags are given."),
		),
		mcp.WithString("tags",
			mcp.Description("Comma-separated tags an entry must all carry."),
		),
	)
}

func searchHandler(journal *application.Journal) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query := req.GetString("query", "")
		tags := splitTags(req.GetString("tags", ""))
		if query == "" && len(tags) == 0 {
			return toolError(fmt.Errorf("give a query, tags, or both"))
		}

		results, err := application.NewSearchCommand(journal, query, tags).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		if len(results) == 0 {
			return mcp.NewToolResultText("No matching entries."), nil
		}

		var sb strings.Builder
		for _, r := range results {
			sb.WriteString(formatEntry(r.Date, r.Entry))
			sb.WriteByte('\n')
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}

// --- list_tags ---

func listTagsTool() mcp.Tool {
	return mcp.NewTool("list_tags",
		mcp.WithDescription("List every tag in use with the number of entries carrying it."),
	)
}

func listTagsHandler(journal *application.Journal) server.ToolHandlerFunc {
	return func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		index, err := journal.TagIndex(ctx)
		if err != nil {
			return toolError(err)
		}
		if len(index) == 0 {
			return mcp.NewToolResultText("No tags in use."), nil
		}

		tags := make([]string, 0, len(index))
		for tag := range index {
			tags = append(tags, tag)
		}
		sort.Strings(tags)

		var sb strings.Builder
		for _, tag := range tags {
			fmt.Fprintf(&sb, "%s  %d\n", tag, index[tag])
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}

// --- export ---

func exportTool() mcp.Tool {
	return mcp.NewTool("export",
		mcp.WithDescription("Export the whole journal as a single document."),
		mcp.WithString("format",
			mcp.Description("Export format: json, csv or yaml. Defaults to json."),
		),
	)
}

func exportHandler(journal *application.Journal) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		format := application.ExportFormat(req.GetString("format", string(application.FormatJSON)))
		out, err := application.NewExportCommand(journal, format).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(out), nil
	}
}

// --- sync_status ---

func syncStatusTool() mcp.Tool {
	return mcp.NewTool("sync_status",
		mcp.WithDescription("Report cloud connection state and the time of the last successful sync."),
	)
}

func syncStatusHandler(orch *application.Orchestrator) server.ToolHandlerFunc {
	return func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		orch.RefreshConnections(ctx)
		state := orch.State()

		var sb strings.Builder
		fmt.Fprintf(&sb, "drive connected: %t\n", state.ConnectedDrive)
		fmt.Fprintf(&sb, "graph connected: %t\n", state.ConnectedGraph)
		fmt.Fprintf(&sb, "sync in progress: %t\n", state.Syncing)
		if state.LastSyncTime.IsZero() {
			sb.WriteString("last sync: never\n")
		} else {
			fmt.Fprintf(&sb, "last sync: %s\n", state.LastSyncTime.Format(time.RFC3339))
		}
		if state.LastError != "" {
			fmt.Fprintf(&sb, "last error: %s\n", state.LastError)
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}

// --- helpers ---

func toolError(err error) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultError(err.Error()), nil
}

func parseDateArg(raw string) (time.Time, error) {
	if raw == "" {
		return time.Now(), nil
	}
	date, ok := domain.ParseDateKey(raw)
	if !ok {
		return time.Time{}, fmt.Errorf("invalid date %q: want YYYY-MM-DD", raw)
	}
	return date, nil
}

func splitTags(raw string) []string {
	if raw == "" {
		return nil
	}
	return domain.NormalizeTags(strings.Split(raw, ","))
}

func formatEntry(date time.Time, entry domain.Entry) string {
	var sb strings.Builder
	sb.WriteString(domain.DateKey(date))
	if len(entry.Tags) > 0 {
		fmt.Fprintf(&sb, "  [%s]", strings.Join(entry.Tags, ", "))
	}
	sb.WriteByte('\n')
	sb.WriteString(entry.Text)
	sb.WriteByte('\n')
	return sb.String()
}
