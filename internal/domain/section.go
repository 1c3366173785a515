package domain

// DuplicatePolicy decides what happens when a ticket satisfies several
// sibling sections at the same depth.
type DuplicatePolicy int

const (
	// DuplicatesAllow places the ticket under every matching sibling.
	DuplicatesAllow DuplicatePolicy = iota
	// DuplicatesFirst places the ticket only under the first matching
	// sibling, in declared order.
	DuplicatesFirst
)

// Section is one node of the template tree. A section either defines its
// content inline, or references a shared definition from the template's
// named registry by setting Ref. Referenced definitions are reuse, not
// ownership: the same rule is evaluated independently at each inclusion
// site against that site's already-narrowed ticket set.
type Section struct {
	Title         string
	IntroAbstract string
	Filter        *Filter
	Children      []*Section

	// Ref names a shared definition in the template registry. When Ref is
	// set, all other fields are empty.
	Ref string
}

// Template is the parsed, immutable document template: the top-level
// chapters plus the registry of named shared section definitions.
type Template struct {
	Chapters   []*Section
	Registry   map[string]*Section
	Duplicates DuplicatePolicy
}

// Validate surfaces configuration errors before resolution starts:
// references to undefined names, reference cycles, sections with neither a
// filter nor children, and filters that don't compile.
func (tpl *Template) Validate() error {
	for _, chapter := range tpl.Chapters {
		if err := tpl.validateSection(chapter, map[string]bool{}); err != nil {
			return err
		}
	}
	return nil
}

func (tpl *Template) validateSection(s *Section, path map[string]bool) error {
	if s.Ref != "" {
		def, ok := tpl.Registry[s.Ref]
		if !ok {
			return &ConfigError{Reason: "section references the undefined name " + quoted(s.Ref)}
		}
		if path[s.Ref] {
			return &CycleError{Name: s.Ref, Path: pathNames(path)}
		}
		path[s.Ref] = true
		err := tpl.validateSection(def, path)
		delete(path, s.Ref)
		return err
	}

	if s.Title == "" {
		return &ConfigError{Reason: "section without a title"}
	}
	if s.Filter.IsEmpty() && len(s.Children) == 0 {
		return &ConfigError{
			Reason: "section " + quoted(s.Title) + " has neither a filter nor subsections, so there is nothing to match",
		}
	}
	if _, err := s.Filter.Compile(); err != nil {
		return &ConfigError{Reason: "section " + quoted(s.Title) + ": " + err.Error()}
	}

	for _, child := range s.Children {
		if err := tpl.validateSection(child, path); err != nil {
			return err
		}
	}
	return nil
}

// ResolvedNode is a section instance at one inclusion site, annotated with
// the subset of its parent's tickets that satisfy its filter. Resolved
// nodes are built fresh for every build and every variant; they are never
// shared, even when several sites reference one section definition.
type ResolvedNode struct {
	Section *Section
	// Definition is the registry name this node was reached through, or
	// empty for inline sections. Materialization uses it to disambiguate
	// file names of shared definitions that generate at several sites.
	Definition string
	Matched    []*Ticket
	Children   []*ResolvedNode
	// Generates records whether this node's own bucket, or any
	// descendant's, is non-empty.
	Generates bool
}

// Resolve assigns ticket subsets to every inclusion site of the template,
// top-down. The root input set is the whole collection minus tickets
// without a note body; each child receives its parent's matched set, so
// organizing at depth N is always a refinement of depth N-1.
//
// Resolve validates the template first and returns a ConfigError or
// CycleError before touching any ticket.
func (tpl *Template) Resolve(tickets []*Ticket) ([]*ResolvedNode, error) {
	if err := tpl.Validate(); err != nil {
		return nil, err
	}

	var eligible []*Ticket
	for _, t := range tickets {
		if t.HasNote() {
			eligible = append(eligible, t)
		}
	}

	nodes := make([]*ResolvedNode, 0, len(tpl.Chapters))
	for _, chapter := range tpl.Chapters {
		node, err := tpl.resolveSection(chapter, "", eligible)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, node)
	}
	return nodes, nil
}

func (tpl *Template) resolveSection(s *Section, definition string, input []*Ticket) (*ResolvedNode, error) {
	if s.Ref != "" {
		// Validate has already checked that the name exists and that the
		// reference chain is acyclic.
		return tpl.resolveSection(tpl.Registry[s.Ref], s.Ref, input)
	}

	pred, err := s.Filter.Compile()
	if err != nil {
		return nil, &ConfigError{Reason: "section " + quoted(s.Title) + ": " + err.Error()}
	}

	// Filtering preserves input order; any presentation sort belongs to a
	// downstream renderer.
	var matched []*Ticket
	for _, t := range input {
		if pred.Matches(t) {
			matched = append(matched, t)
		}
	}

	node := &ResolvedNode{
		Section:    s,
		Definition: definition,
		Matched:    matched,
	}

	claimed := map[TicketID]bool{}
	for _, childSection := range s.Children {
		childInput := matched
		if tpl.Duplicates == DuplicatesFirst {
			childInput = unclaimed(matched, claimed)
		}
		child, err := tpl.resolveSection(childSection, "", childInput)
		if err != nil {
			return nil, err
		}
		if tpl.Duplicates == DuplicatesFirst {
			claim(child, claimed)
		}
		node.Children = append(node.Children, child)
	}

	// A node generates when its own bucket is non-empty or any descendant
	// generates. For containers, a non-empty own bucket counts even when
	// no child captures those tickets.
	node.Generates = len(node.Matched) > 0
	for _, child := range node.Children {
		if child.Generates {
			node.Generates = true
		}
	}
	return node, nil
}

// IsLeaf reports whether the node has no subsections and therefore
// materializes as a reference module rather than an assembly.
func (n *ResolvedNode) IsLeaf() bool {
	return len(n.Children) == 0
}

func unclaimed(tickets []*Ticket, claimed map[TicketID]bool) []*Ticket {
	var out []*Ticket
	for _, t := range tickets {
		if !claimed[t.ID] {
			out = append(out, t)
		}
	}
	return out
}

// claim marks every ticket that appears anywhere under the node as taken.
func claim(n *ResolvedNode, claimed map[TicketID]bool) {
	if n.IsLeaf() {
		for _, t := range n.Matched {
			claimed[t.ID] = true
		}
		return
	}
	for _, child := range n.Children {
		claim(child, claimed)
	}
}

func pathNames(path map[string]bool) []string {
	names := make([]string, 0, len(path))
	for name := range path {
		names = append(names, name)
	}
	return names
}

func quoted(s string) string {
	return "\"" + s + "\""
}
