package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"daybook/internal/application"
	"daybook/internal/domain"
)

// RegisterWriteTools adds the journal-mutating tools to the MCP server.
func RegisterWriteTools(s *server.MCPServer, journal *application.Journal, orch *application.Orchestrator) {
	s.AddTool(saveEntryTool(), saveEntryHandler(journal))
	s.AddTool(deleteEntryTool(), deleteEntryHandler(journal))
	s.AddTool(syncTool(), syncHandler(orch))
}

// --- save_entry ---

func saveEntryTool() mcp.Tool {
	return mcp.NewTool("save_entry",
		mcp.WithDescription("Write the journal entry for a date, replacing whatever was there. Saving empty text with no tags deletes the entry."),
		mcp.WithString("date",
			mcp.Description("Entry date in YYYY-MM-DD form. Omit for today."),
		),
		mcp.WithString("text",
			mcp.Description("The entry body."),
			mcp.Required(),
		),
		mcp.WithString("tags",
			mcp.Description("Comma-separated tags for the entry."),
		),
	)
}

func saveEntryHandler(journal *application.Journal) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		date, err := parseDateArg(req.GetString("date", ""))
		if err != nil {
			return toolError(err)
		}

		entry := domain.Entry{
			Text: req.GetString("text", ""),
			Tags: splitTags(req.GetString("tags", "")),
		}
		if err := journal.Save(ctx, date, entry); err != nil {
			return toolError(err)
		}

		if entry.IsEmpty() {
			return mcp.NewToolResultText(fmt.Sprintf("Deleted entry for %s.", domain.DateKey(date))), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("Saved entry for %s.", domain.DateKey(date))), nil
	}
}

// --- delete_entry ---

func deleteEntryTool() mcp.Tool {
	return mcp.NewTool("delete_entry",
		mcp.WithDescription("Delete the journal entry for a date."),
		mcp.WithString("date",
			mcp.Description("Entry date in YYYY-MM-DD form."),
			mcp.Required(),
		),
	)
}

func deleteEntryHandler(journal *application.Journal) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		raw := req.GetString("date", "")
		if raw == "" {
			return toolError(fmt.Errorf("date is required"))
		}
		date, err := parseDateArg(raw)
		if err != nil {
			return toolError(err)
		}

		if err := journal.Save(ctx, date, domain.EmptyEntry()); err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(fmt.Sprintf("Deleted entry for %s.", domain.DateKey(date))), nil
	}
}

// --- sync ---

func syncTool() mcp.Tool {
	return mcp.NewTool("sync",
		mcp.WithDescription("Run a full two-way sync with every connected cloud provider."),
	)
}

func syncHandler(orch *application.Orchestrator) server.ToolHandlerFunc {
	return func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		orch.RefreshConnections(ctx)
		results, err := orch.SyncAll(ctx)
		if err != nil {
			return toolError(err)
		}
		if len(results) == 0 {
			return mcp.NewToolResultText("No cloud provider is connected."), nil
		}

		var sb strings.Builder
		for name, counts := range results {
			fmt.Fprintf(&sb, "%s: uploaded %d, downloaded %d\n", name, counts.Uploaded, counts.Downloaded)
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}
