package application

import "colophon/internal/domain"

// Re-export domain types for use by adapters
type (
	Ticket        = domain.Ticket
	TicketID      = domain.TicketID
	DocTextStatus = domain.DocTextStatus
	StatusTable   = domain.StatusTable
	StatusRow     = domain.StatusRow
	Progress      = domain.Progress
	Variant       = domain.Variant
)

const (
	StatusUnset      = domain.StatusUnset
	StatusInProgress = domain.StatusInProgress
	StatusComplete   = domain.StatusComplete

	VariantInternal = domain.VariantInternal
	VariantExternal = domain.VariantExternal
)
