package ports

import "colophon/internal/domain"

// NoteRenderer turns one ticket into the body text of its release note.
// The document materializer stays independent of the markup language; the
// renderer decides what a note looks like on the page.
type NoteRenderer interface {
	RenderNote(t *domain.Ticket, variant domain.Variant) string
}

// DocumentRenderer produces the full text of generated documents and the
// master file that wires the chapters together.
type DocumentRenderer interface {
	NoteRenderer

	// RenderDocument renders a leaf module or an assembly skeleton.
	RenderDocument(doc *domain.Document) string

	// RenderMaster renders the top-level file that includes every
	// generated chapter, in declared order.
	RenderMaster(chapters []*domain.Document) string

	// RenderAppendix renders the tickets-by-component appendix for one
	// variant of the document.
	RenderAppendix(table *domain.StatusTable, variant domain.Variant) string
}
