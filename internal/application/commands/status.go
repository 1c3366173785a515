package commands

import (
	"context"
	"fmt"

	"colophon/internal/domain"
	"colophon/internal/ports"
)

// StatusResult contains the result of a status query
type StatusResult struct {
	Table *domain.StatusTable
}

// StatusCommand builds the status table of the whole ticket set
type StatusCommand struct {
	source ports.TicketSource
}

// NewStatusCommand creates a new StatusCommand
func NewStatusCommand(source ports.TicketSource) *StatusCommand {
	return &StatusCommand{source: source}
}

// Execute runs the status command
func (c *StatusCommand) Execute(ctx context.Context) (*StatusResult, error) {
	tickets, err := c.source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load tickets: %w", err)
	}
	tickets = domain.Deduplicate(tickets)

	return &StatusResult{Table: domain.BuildStatusTable(tickets)}, nil
}
