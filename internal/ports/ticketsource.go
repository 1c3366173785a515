package ports

import (
	"context"

	"colophon/internal/domain"
)

// TicketSource delivers the fully resolved, override-applied ticket records
// that a build consumes. Fetching, authentication, and override application
// happen behind this boundary; the engine only sees the result.
type TicketSource interface {
	Load(ctx context.Context) ([]*domain.Ticket, error)
}
