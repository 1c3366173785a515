package main

import (
	"context"
	"flag"
	"log"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	mcpadapter "colophon/internal/adapters/mcp"
	"colophon/internal/adapters/ticketdb"
	"colophon/internal/adapters/yamlsource"
	"colophon/internal/config"
	"colophon/internal/logging"
	"colophon/internal/ports"
)

func main() {
	projectFlag := flag.String("project", config.DefaultProjectDir(), "path to the release notes project")
	ticketsFlag := flag.String("tickets", "", "path to the ticket snapshot (.yaml or .db)")
	flag.Parse()

	logger := logging.New(0)

	source, err := pickSource(*projectFlag, *ticketsFlag, logger)
	if err != nil {
		log.Fatalf("colophon-mcp: %v", err)
	}

	mcpServer := server.NewMCPServer(
		"colophon-mcp",
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

	mcpadapter.RegisterReadTools(mcpServer, source)

	if err := server.ServeStdio(mcpServer); err != nil {
		log.Fatalf("colophon-mcp: %v", err)
	}
}

func pickSource(projectDir, ticketsPath string, logger *logging.Logger) (ports.TicketSource, error) {
	if ticketsPath != "" {
		if strings.HasSuffix(ticketsPath, ".db") {
			return ticketdb.New(ticketsPath, logger), nil
		}
		return yamlsource.New(ticketsPath, logger), nil
	}

	project, err := config.LoadProject(projectDir)
	if err != nil {
		return nil, err
	}
	if project.HasSnapshotDB() {
		return ticketdb.New(project.SnapshotDBPath(), logger), nil
	}
	return yamlsource.New(project.TicketsPath(), logger), nil
}
