package commands

import (
	"context"
	"errors"
	"testing"

	"colophon/internal/application"
)

func TestTicketsCommand_Execute(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  int
	}{
		{name: "no query returns everything", query: "", want: 3},
		{name: "key substring", query: "proj-1", want: 1},
		{name: "summary substring", query: "fix", want: 2},
		{name: "no match", query: "nothing here", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := NewTicketsCommand(&fakeSource{tickets: buildTickets()}, tt.query).Execute(context.Background())
			if err != nil {
				t.Fatalf("execute: %v", err)
			}
			if len(result.Tickets) != tt.want {
				t.Errorf("expected %d tickets, got %d", tt.want, len(result.Tickets))
			}
		})
	}
}

func TestFindTicket(t *testing.T) {
	source := &fakeSource{tickets: buildTickets()}

	ticket, err := FindTicket(context.Background(), source, "PROJ-2")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if ticket.Summary != "Image fix draft" {
		t.Errorf("unexpected ticket %+v", ticket)
	}

	if _, err := FindTicket(context.Background(), source, "PROJ-404"); !errors.Is(err, application.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
