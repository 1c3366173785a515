// Package asciidoc renders materialized documents as AsciiDoc text.
// The document engine decides what gets generated; this package only
// decides what it looks like on the page.
package asciidoc

import (
	"fmt"
	"strings"
	"text/template"

	"colophon/internal/domain"
	"colophon/internal/ports"
)

const moduleTemplate = `[id="{{.ID}}"]
= {{.Title}}
{{if .Intro}}
{{.Intro}}
{{end}}{{range .Notes}}
{{.}}
{{end}}`

const assemblyTemplate = `[id="{{.ID}}"]
= {{.Title}}
{{if .Intro}}
{{.Intro}}
{{end}}{{range .Includes}}
include::{{.}}[leveloffset=+1]
{{end}}`

const masterTemplate = `= {{.Title}}
:toc:
{{range .Includes}}
include::{{.}}[leveloffset=+1]
{{end}}`

// Renderer is the AsciiDoc implementation of ports.DocumentRenderer.
type Renderer struct {
	// Title is the document title of the master file.
	Title string
	// PrivateFootnote marks private-ticket signatures with a footnote
	// reference instead of leaving them as plain, unexplained text.
	PrivateFootnote bool

	moduleTpl   *template.Template
	assemblyTpl *template.Template
	masterTpl   *template.Template
}

var _ ports.DocumentRenderer = (*Renderer)(nil)

// New creates a renderer with the given master-document title.
func New(title string) *Renderer {
	return &Renderer{
		Title:       title,
		moduleTpl:   template.Must(template.New("module").Parse(moduleTemplate)),
		assemblyTpl: template.Must(template.New("assembly").Parse(assemblyTemplate)),
		masterTpl:   template.Must(template.New("master").Parse(masterTemplate)),
	}
}

// RenderNote composes the release note of one ticket: the anchor line, the
// note body, and a signature line that ties the text back to its tickets.
// The internal variant appends a debugging line with the docs contact, the
// status, and a link, so that writers can locate unfinished notes straight
// from the draft build.
func (r *Renderer) RenderNote(t *domain.Ticket, variant domain.Variant) string {
	var b strings.Builder

	fmt.Fprintf(&b, "[id=\"%s\"]\n", t.ID.Anchor())
	// Keep UNIX line endings even if the tracker stored DOS ones.
	body := strings.TrimRight(strings.ReplaceAll(t.DocText, "\r", ""), "\n")
	b.WriteString(body)
	b.WriteString("\n\n")
	b.WriteString(r.signatures(t))
	if variant == domain.VariantInternal {
		b.WriteString(" ")
		b.WriteString(debugInfo(t))
	}

	return b.String()
}

// signatures joins the ticket's own signature with the signatures of its
// referenced tickets, comma-separated.
func (r *Renderer) signatures(t *domain.Ticket) string {
	parts := []string{r.signature(t)}
	for _, ref := range t.References {
		parts = append(parts, ref.String())
	}
	return strings.Join(parts, ", ")
}

// signature is the clickable mark of a public ticket, or the plain ID of a
// private one. Private links would lead readers to a login wall.
func (r *Renderer) signature(t *domain.Ticket) string {
	if t.Public && t.URL != "" {
		return fmt.Sprintf("link:%s[%s]", t.URL, t.ID)
	}
	if r.PrivateFootnote {
		// The deprecated footnoteref syntax still builds with very old
		// asciidoctor releases.
		return fmt.Sprintf("%sfootnoteref:[PrivateTicketFootnote]", t.ID)
	}
	return t.ID.String()
}

func debugInfo(t *domain.Ticket) string {
	return fmt.Sprintf("| %s | %s | link:%s[]", t.DocsContact, t.DocTextStatus, t.URL)
}

// RenderDocument renders one generated file: a reference module holding
// release notes, or an assembly skeleton holding include statements.
func (r *Renderer) RenderDocument(doc *domain.Document) string {
	id := strings.TrimSuffix(doc.FileName, ".adoc")

	if doc.Role == domain.RoleAssembly {
		return execute(r.assemblyTpl, map[string]any{
			"ID":       id,
			"Title":    doc.Title,
			"Intro":    doc.IntroAbstract,
			"Includes": doc.Includes,
		})
	}

	notes := make([]string, 0, len(doc.Tickets))
	for _, t := range doc.Tickets {
		notes = append(notes, r.RenderNote(t, doc.Variant))
	}
	return execute(r.moduleTpl, map[string]any{
		"ID":    id,
		"Title": doc.Title,
		"Intro": doc.IntroAbstract,
		"Notes": notes,
	})
}

// RenderMaster renders the top-level file that stitches the generated
// chapters together, in declared order.
func (r *Renderer) RenderMaster(chapters []*domain.Document) string {
	includes := make([]string, 0, len(chapters))
	for _, chapter := range chapters {
		includes = append(includes, chapter.FileName)
	}
	return execute(r.masterTpl, map[string]any{
		"Title":    r.Title,
		"Includes": includes,
	})
}

// RenderAppendix renders the tickets-by-component overview. Every component
// lists the signatures of its tickets, so writers can check coverage over
// components rather than over the chapter tree.
func (r *Renderer) RenderAppendix(table *domain.StatusTable, variant domain.Variant) string {
	var b strings.Builder

	b.WriteString("[appendix]\n= List of tickets by component\n")
	for _, group := range table.Groups {
		fmt.Fprintf(&b, "\n.%s\n", group.Component)
		for _, row := range group.Rows {
			fmt.Fprintf(&b, "* %s\n", rowSignature(row))
		}
	}

	return b.String()
}

func rowSignature(row domain.StatusRow) string {
	if row.URL != "" {
		return fmt.Sprintf("link:%s[%s]", row.URL, row.ID)
	}
	return row.ID.String()
}

func execute(tpl *template.Template, data any) string {
	var b strings.Builder
	if err := tpl.Execute(&b, data); err != nil {
		// The templates are compiled in and only receive in-memory data.
		panic(err)
	}
	return b.String()
}
