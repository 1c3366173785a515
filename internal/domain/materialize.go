package domain

import (
	"fmt"
	"strings"
)

// Variant selects one of the two independent materializations of the
// document: the complete internal edition, or the redacted external one.
type Variant string

const (
	VariantInternal Variant = "internal"
	VariantExternal Variant = "external"
)

// DocRole distinguishes the two kinds of generated documents.
type DocRole int

const (
	// RoleModule is a leaf document with no further nesting.
	RoleModule DocRole = iota
	// RoleAssembly is a container document that includes other documents.
	RoleAssembly
)

func (r DocRole) String() string {
	if r == RoleAssembly {
		return "assembly"
	}
	return "module"
}

// filePrefix is the file-name prefix that marks the document role.
func (r DocRole) filePrefix() string {
	if r == RoleAssembly {
		return "assembly_"
	}
	return "ref_"
}

const fileExt = ".adoc"

// Document is one generated file, before rendering. An assembly lists, in
// declared order, exactly the children that themselves generated; a child
// that was skipped never appears in Includes, so an include statement can
// never dangle.
type Document struct {
	FileName      string
	Role          DocRole
	Variant       Variant
	Title         string
	IntroAbstract string
	// Tickets are the release-note tickets of a leaf module, in input
	// order. Empty for assemblies.
	Tickets []*Ticket
	// Includes are the file names of the generated children, in declared
	// template order. Empty for leaf modules.
	Includes []string
	Children []*Document
}

// Flatten returns the document and all its included documents, depth-first
// in declared order.
func (d *Document) Flatten() []*Document {
	docs := []*Document{d}
	for _, child := range d.Children {
		docs = append(docs, child.Flatten()...)
	}
	return docs
}

// Materialize walks a resolved chapter forest and decides generation: a
// leaf generates a module iff its matched set is non-empty, a container
// generates an assembly iff it or any descendant captured tickets. Empty
// branches are pruned without leaving dangling includes. The returned slice
// holds the generated chapters in declared order.
func Materialize(chapters []*ResolvedNode, variant Variant) []*Document {
	names := assignFileNames(chapters)

	var docs []*Document
	for _, chapter := range chapters {
		if doc := materializeNode(chapter, variant, names); doc != nil {
			docs = append(docs, doc)
		}
	}
	return docs
}

func materializeNode(n *ResolvedNode, variant Variant, names map[*ResolvedNode]string) *Document {
	if !n.Generates {
		return nil
	}

	doc := &Document{
		FileName:      names[n],
		Variant:       variant,
		Title:         n.Section.Title,
		IntroAbstract: n.Section.IntroAbstract,
	}

	if n.IsLeaf() {
		doc.Role = RoleModule
		doc.Tickets = n.Matched
		return doc
	}

	doc.Role = RoleAssembly
	for _, child := range n.Children {
		childDoc := materializeNode(child, variant, names)
		if childDoc == nil {
			continue
		}
		doc.Children = append(doc.Children, childDoc)
		doc.Includes = append(doc.Includes, childDoc.FileName)
	}
	return doc
}

// assignFileNames names every generating node. The base name derives from
// the section title; when one shared definition (or one coincidental title)
// would generate the same file more than once, the including parent's slug
// is appended, because each inclusion site holds a different ticket subset.
// Any residual collision gets an ordinal so that a build never overwrites
// one generated file with another.
func assignFileNames(chapters []*ResolvedNode) map[*ResolvedNode]string {
	type site struct {
		node       *ResolvedNode
		parentSlug string
	}

	var sites []site
	var walk func(n *ResolvedNode, parentSlug string)
	walk = func(n *ResolvedNode, parentSlug string) {
		if !n.Generates {
			return
		}
		sites = append(sites, site{node: n, parentSlug: parentSlug})
		for _, child := range n.Children {
			walk(child, Slug(n.Section.Title))
		}
	}
	for _, chapter := range chapters {
		walk(chapter, "")
	}

	baseName := func(s site) string {
		role := RoleModule
		if !s.node.IsLeaf() {
			role = RoleAssembly
		}
		return role.filePrefix() + Slug(s.node.Section.Title) + fileExt
	}

	counts := map[string]int{}
	for _, s := range sites {
		counts[baseName(s)]++
	}

	names := make(map[*ResolvedNode]string, len(sites))
	taken := map[string]int{}
	for _, s := range sites {
		name := baseName(s)
		if counts[name] > 1 && s.parentSlug != "" {
			name = strings.TrimSuffix(name, fileExt) + "-" + s.parentSlug + fileExt
		}
		taken[name]++
		if n := taken[name]; n > 1 {
			name = strings.TrimSuffix(name, fileExt) + fmt.Sprintf("-%d", n) + fileExt
		}
		names[s.node] = name
	}
	return names
}

// Slug converts a section title to a file-name fragment: lower-case, with
// runs of non-alphanumeric characters collapsed to a single dash.
func Slug(title string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			dash = false
			b.WriteRune(r)
		default:
			dash = true
		}
	}
	return b.String()
}

// UsageStats reports the tickets that the internal materialization never
// placed in any leaf module, and the tickets that appear in more than one.
// Both are warnings for the writer, not build failures.
type UsageStats struct {
	Unused []TicketID
	Reused []TicketID
}

// ComputeUsage counts, for every ticket that carries a note, how many leaf
// modules captured it across the resolved chapter forest.
func ComputeUsage(chapters []*ResolvedNode, tickets []*Ticket) UsageStats {
	counts := map[TicketID]int{}

	var walk func(n *ResolvedNode)
	walk = func(n *ResolvedNode) {
		if n.IsLeaf() {
			if n.Generates {
				for _, t := range n.Matched {
					counts[t.ID]++
				}
			}
			return
		}
		for _, child := range n.Children {
			walk(child)
		}
	}
	for _, chapter := range chapters {
		walk(chapter)
	}

	var stats UsageStats
	for _, t := range tickets {
		if !t.HasNote() {
			continue
		}
		switch n := counts[t.ID]; {
		case n == 0:
			stats.Unused = append(stats.Unused, t.ID)
		case n > 1:
			stats.Reused = append(stats.Reused, t.ID)
		}
	}
	return stats
}
