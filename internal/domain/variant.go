package domain

// VariantTickets selects the tickets that belong to a document variant.
//
// The internal variant accepts every ticket. The external variant accepts
// only tickets whose release note is complete; in-progress and unset
// tickets are silently dropped, which can legitimately make a section or a
// whole chapter generate internally but not externally.
func VariantTickets(tickets []*Ticket, variant Variant) []*Ticket {
	if variant == VariantInternal {
		return tickets
	}
	var selected []*Ticket
	for _, t := range tickets {
		if t.DocTextStatus == StatusComplete {
			selected = append(selected, t)
		}
	}
	return selected
}

// BuildVariant runs the resolution and materialization passes for one
// variant. Each call constructs its own resolved tree, so the two variants
// of a build share no mutable state and may run concurrently.
func BuildVariant(tpl *Template, tickets []*Ticket, variant Variant) ([]*Document, []*ResolvedNode, error) {
	nodes, err := tpl.Resolve(VariantTickets(tickets, variant))
	if err != nil {
		return nil, nil, err
	}
	return Materialize(nodes, variant), nodes, nil
}
