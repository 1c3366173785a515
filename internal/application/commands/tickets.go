package commands

import (
	"context"
	"fmt"
	"strings"

	"colophon/internal/application"
	"colophon/internal/domain"
	"colophon/internal/ports"
)

// TicketsResult contains the result of a ticket query
type TicketsResult struct {
	Tickets []*domain.Ticket
}

// TicketsCommand lists the loaded tickets, optionally narrowed by a
// case-insensitive substring match on the key or the summary
type TicketsCommand struct {
	source ports.TicketSource
	Query  string
}

// NewTicketsCommand creates a new TicketsCommand
func NewTicketsCommand(source ports.TicketSource, query string) *TicketsCommand {
	return &TicketsCommand{source: source, Query: query}
}

// Execute runs the tickets command
func (c *TicketsCommand) Execute(ctx context.Context) (*TicketsResult, error) {
	tickets, err := c.source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load tickets: %w", err)
	}
	tickets = domain.Deduplicate(tickets)

	if c.Query == "" {
		return &TicketsResult{Tickets: tickets}, nil
	}

	query := strings.ToLower(c.Query)
	var matched []*domain.Ticket
	for _, t := range tickets {
		if strings.Contains(strings.ToLower(t.ID.String()), query) ||
			strings.Contains(strings.ToLower(t.Summary), query) {
			matched = append(matched, t)
		}
	}
	return &TicketsResult{Tickets: matched}, nil
}

// FindTicket returns the single ticket with the given key, from any
// tracker. An ambiguous key across trackers is an error.
func FindTicket(ctx context.Context, source ports.TicketSource, key string) (*domain.Ticket, error) {
	tickets, err := source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load tickets: %w", err)
	}
	tickets = domain.Deduplicate(tickets)

	var found *domain.Ticket
	for _, t := range tickets {
		if !strings.EqualFold(t.ID.Key, key) && !strings.EqualFold(t.ID.String(), key) {
			continue
		}
		if found != nil {
			return nil, fmt.Errorf("key %q matches both %s and %s", key, found.ID, t.ID)
		}
		found = t
	}
	if found == nil {
		return nil, fmt.Errorf("ticket %q: %w", key, application.ErrNotFound)
	}
	return found, nil
}
