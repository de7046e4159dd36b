package main

import (
	"context"
	"io"
	stdlog "log"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	mcpadapter "daybook/internal/adapters/mcp"
	"daybook/internal/config"
)

func main() {
	// Stdout carries the protocol, so logs must stay off it.
	logger := charmlog.New(io.Discard)
	if path := os.Getenv("DAYBOOK_LOG"); path != "" {
		if f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644); err == nil {
			logger = charmlog.New(f)
		}
	}

	journal, orch, closeStore, err := config.Open(config.FromEnv(), logger)
	if err != nil {
		stdlog.Fatalf("daybook-mcp: %v", err)
	}
	defer closeStore()

	mcpServer := server.NewMCPServer(
		"daybook-mcp",
		"0.1.0",
		server.WithToolCapabilities(true),
	)

	mcpServer.AddTool(
		mcp.NewTool("ping",
			mcp.WithDescription("Health check — returns pong"),
		),
		func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return mcp.NewToolResultText("pong"), nil
		},
	)

	mcpadapter.RegisterReadTools(mcpServer, journal, orch)
	mcpadapter.RegisterWriteTools(mcpServer, journal, orch)

	if err := server.ServeStdio(mcpServer); err != nil {
		stdlog.Fatalf("daybook-mcp: %v", err)
	}
}
