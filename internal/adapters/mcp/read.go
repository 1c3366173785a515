package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"colophon/internal/application/commands"
	"colophon/internal/domain"
	"colophon/internal/ports"
)

// RegisterReadTools adds all read-only ticket tools to the MCP server.
func RegisterReadTools(s *server.MCPServer, source ports.TicketSource) {
	s.AddTool(listTicketsTool(), listTicketsHandler(source))
	s.AddTool(ticketTool(), ticketHandler(source))
	s.AddTool(statusSummaryTool(), statusSummaryHandler(source))
}

// --- list_tickets ---

func listTicketsTool() mcp.Tool {
	return mcp.NewTool("list_tickets",
		mcp.WithDescription("List the tickets of the release notes project. An optional query narrows the list by a substring of the ticket key or summary."),
		mcp.WithString("query",
			mcp.Description("Case-insensitive substring to match against ticket keys and summaries. Omit to list everything."),
		),
	)
}

func listTicketsHandler(source ports.TicketSource) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query := req.GetString("query", "")

		result, err := commands.NewTicketsCommand(source, query).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		if len(result.Tickets) == 0 {
			return mcp.NewToolResultText("No tickets found."), nil
		}

		var sb strings.Builder
		for _, t := range result.Tickets {
			fmt.Fprintf(&sb, "%s  [%s]  %s\n", t.ID, t.DocTextStatus, t.Summary)
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}

// --- ticket ---

func ticketTool() mcp.Tool {
	return mcp.NewTool("ticket",
		mcp.WithDescription("Show one ticket in full: its metadata and the current text of its release note."),
		mcp.WithString("key",
			mcp.Description("The ticket key, with or without the tracker prefix (e.g. PROJ-1 or Jira:PROJ-1)."),
			mcp.Required(),
		),
	)
}

func ticketHandler(source ports.TicketSource) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		key := req.GetString("key", "")
		if key == "" {
			return toolError(fmt.Errorf("key is required"))
		}

		ticket, err := commands.FindTicket(ctx, source, key)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(formatTicket(ticket)), nil
	}
}

func formatTicket(t *domain.Ticket) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%s  %s\n", t.ID, t.Summary)
	fmt.Fprintf(&sb, "Doc type: %s\n", t.DocType)
	fmt.Fprintf(&sb, "Doc text status: %s\n", t.DocTextStatus)
	if t.DocsContact != "" {
		fmt.Fprintf(&sb, "Docs contact: %s\n", t.DocsContact)
	}
	if len(t.Components) > 0 {
		fmt.Fprintf(&sb, "Components: %s\n", strings.Join(t.Components, ", "))
	}
	if len(t.Subsystems) > 0 {
		fmt.Fprintf(&sb, "Subsystems: %s\n", strings.Join(t.Subsystems, ", "))
	}
	if t.URL != "" {
		fmt.Fprintf(&sb, "URL: %s\n", t.URL)
	}
	if t.HasNote() {
		fmt.Fprintf(&sb, "\n%s\n", t.DocText)
	} else {
		sb.WriteString("\nNo release note yet.\n")
	}

	return sb.String()
}

// --- status_summary ---

func statusSummaryTool() mcp.Tool {
	return mcp.NewTool("status_summary",
		mcp.WithDescription("Summarize release note completeness: overall progress, per-component counts, and per-writer assignments."),
	)
}

func statusSummaryHandler(source ports.TicketSource) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		result, err := commands.NewStatusCommand(source).Execute(ctx)
		if err != nil {
			return toolError(err)
		}

		table := result.Table
		var sb strings.Builder
		fmt.Fprintf(&sb, "%d tickets, %d complete (%.0f%%), %d in progress, %d unset\n\n",
			table.Progress.All, table.Progress.Complete, table.Progress.Percent(),
			table.Progress.InProgress, table.Progress.Unset)

		for _, group := range table.Groups {
			complete := 0
			for _, row := range group.Rows {
				if row.DocTextStatus == domain.StatusComplete {
					complete++
				}
			}
			fmt.Fprintf(&sb, "%s: %d/%d complete\n", group.Component, complete, len(group.Rows))
		}

		if len(table.Writers) > 0 {
			sb.WriteString("\nWriters:\n")
			for _, w := range table.Writers {
				fmt.Fprintf(&sb, "%s: %d/%d complete\n", w.Name, w.Complete, w.Total)
			}
		}

		return mcp.NewToolResultText(sb.String()), nil
	}
}

func toolError(err error) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultError(err.Error()), nil
}
