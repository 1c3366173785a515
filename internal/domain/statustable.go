package domain

import (
	"sort"
	"strings"
)

// NoComponent is the explicit bucket for tickets with an empty component
// set. They belong in the operational overview even though no section can
// match them by component.
const NoComponent = "(no component)"

// StatusRow is one ticket's entry in the status table.
type StatusRow struct {
	ID            TicketID
	Summary       string
	Status        string
	Resolution    string
	DocTextStatus DocTextStatus
	DocsContact   string
	Priority      string
	HasNote       bool
	URL           string
}

// ComponentGroup holds the rows of every ticket that carries one component
// value. Tickets with several components appear in several groups.
type ComponentGroup struct {
	Component string
	Rows      []StatusRow
}

// Progress is the completeness overview across all tickets.
type Progress struct {
	All        int
	Complete   int
	InProgress int
	Unset      int
}

// Percent returns the completed share as a percentage, or zero for an
// empty project.
func (p Progress) Percent() float64 {
	if p.All == 0 {
		return 0
	}
	return float64(p.Complete) / float64(p.All) * 100
}

// WriterStats counts the release notes assigned to one docs contact.
type WriterStats struct {
	Name     string
	Total    int
	Complete int
}

// StatusTable is the cross-cutting tabular view of all tickets, independent
// of the template tree. It is a data structure for external rendering.
type StatusTable struct {
	Groups   []ComponentGroup
	Progress Progress
	Writers  []WriterStats
}

// BuildStatusTable groups every ticket by its observed component values.
// Component groups are sorted alphabetically, with the no-component bucket
// last, so that identical ticket sets always produce identical tables.
func BuildStatusTable(tickets []*Ticket) *StatusTable {
	groups := map[string][]StatusRow{}
	writers := map[string]*WriterStats{}
	var writerOrder []string
	table := &StatusTable{}

	for _, t := range tickets {
		row := statusRow(t)

		components := t.Components
		if len(components) == 0 {
			components = []string{NoComponent}
		}
		for _, component := range components {
			groups[component] = append(groups[component], row)
		}

		table.Progress.All++
		switch t.DocTextStatus {
		case StatusComplete:
			table.Progress.Complete++
		case StatusInProgress:
			table.Progress.InProgress++
		default:
			table.Progress.Unset++
		}

		name := t.DocsContact
		if name == "" {
			name = "Missing docs contact"
		}
		w, ok := writers[name]
		if !ok {
			w = &WriterStats{Name: name}
			writers[name] = w
			writerOrder = append(writerOrder, name)
		}
		w.Total++
		if t.DocTextStatus == StatusComplete {
			w.Complete++
		}
	}

	names := make([]string, 0, len(groups))
	for name := range groups {
		if name != NoComponent {
			names = append(names, name)
		}
	}
	sort.Slice(names, func(i, j int) bool {
		return strings.ToLower(names[i]) < strings.ToLower(names[j])
	})
	if _, ok := groups[NoComponent]; ok {
		names = append(names, NoComponent)
	}

	for _, name := range names {
		table.Groups = append(table.Groups, ComponentGroup{Component: name, Rows: groups[name]})
	}

	// Writers sorted by assigned notes, descending; ties keep input order.
	sort.SliceStable(writerOrder, func(i, j int) bool {
		return writers[writerOrder[i]].Total > writers[writerOrder[j]].Total
	})
	for _, name := range writerOrder {
		table.Writers = append(table.Writers, *writers[name])
	}

	return table
}

func statusRow(t *Ticket) StatusRow {
	row := StatusRow{
		ID:            t.ID,
		Summary:       t.Summary,
		Status:        t.Status,
		DocTextStatus: t.DocTextStatus,
		DocsContact:   t.DocsContact,
		Priority:      t.Priority,
		HasNote:       t.HasNote(),
		URL:           t.URL,
	}
	// The resolution only means something once the ticket is closed.
	if !t.IsOpen {
		row.Resolution = t.Resolution
	}
	return row
}
