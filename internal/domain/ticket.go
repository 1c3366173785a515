package domain

import (
	"fmt"
	"strings"
)

// Tracker identifies an issue-tracking service. The set is closed for the
// trackers this tool understands today, but it is a plain string type so
// that new trackers can be added without touching the document engine.
type Tracker string

const (
	TrackerJira     Tracker = "Jira"
	TrackerBugzilla Tracker = "Bugzilla"
)

// ShortName returns the acronym of the tracker, if it has one.
// Otherwise, it returns the regular name.
func (t Tracker) ShortName() string {
	if t == TrackerBugzilla {
		return "BZ"
	}
	return string(t)
}

// TicketID identifies a ticket on its issue tracker.
type TicketID struct {
	Tracker Tracker
	Key     string
}

func (id TicketID) String() string {
	return fmt.Sprintf("%s:%s", id.Tracker, id.Key)
}

// Anchor formats an ID fragment usable as an HTML anchor for this ticket.
//
// For example, `BZ-12345`.
func (id TicketID) Anchor() string {
	return fmt.Sprintf("%s-%s", id.Tracker.ShortName(), id.Key)
}

// DocTextStatus is the completeness status of a ticket's release note.
type DocTextStatus int

const (
	StatusUnset DocTextStatus = iota
	StatusInProgress
	StatusComplete
)

func (s DocTextStatus) String() string {
	switch s {
	case StatusComplete:
		return "Complete"
	case StatusInProgress:
		return "In progress"
	default:
		return "Unset"
	}
}

// ParseDocTextStatus parses the status string of a release note.
// The comparison is case-insensitive.
//
// An unrecognized or empty value is a recoverable data anomaly, not a build
// failure: the returned status falls back to In progress and the error
// describes the anomaly for the caller to log.
func ParseDocTextStatus(value string) (DocTextStatus, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "complete", "done":
		return StatusComplete, nil
	case "in progress", "inprogress", "proposed":
		return StatusInProgress, nil
	case "unset", "":
		return StatusUnset, nil
	}
	return StatusInProgress, fmt.Errorf("unrecognized doc text status %q, treating as %s", value, StatusInProgress)
}

// Ticket is the abstract ticket representation that generalizes over Jira,
// Bugzilla, and any other issue tracker. It is constructed once per build
// from already-resolved, already-overridden tracker data and is immutable
// afterwards.
type Ticket struct {
	ID            TicketID
	Summary       string
	DocType       string
	Components    []string
	Subsystems    []string
	DocText       string
	DocTextStatus DocTextStatus
	DocsContact   string
	Priority      string
	Status        string
	Resolution    string
	IsOpen        bool
	Public        bool
	URL           string
	References    []TicketID
}

// ContentLines returns the lines of the doc text that aren't empty and
// aren't AsciiDoc comments, which is the actual content of the release note.
func (t *Ticket) ContentLines() []string {
	var lines []string
	for _, line := range strings.Split(t.DocText, "\n") {
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "//") {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

// HasNote reports whether the ticket carries a release note body.
// A ticket without one never enters a section's ticket set, but it still
// counts in the status table.
func (t *Ticket) HasNote() bool {
	return len(t.ContentLines()) > 0
}

// Deduplicate collapses tickets that share an identity into a single merged
// record, keeping the position of the first occurrence. Overlapping tracker
// queries routinely return the same ticket more than once.
func Deduplicate(tickets []*Ticket) []*Ticket {
	seen := make(map[TicketID]*Ticket, len(tickets))
	var unique []*Ticket

	for _, ticket := range tickets {
		first, ok := seen[ticket.ID]
		if !ok {
			seen[ticket.ID] = ticket
			unique = append(unique, ticket)
			continue
		}
		first.merge(ticket)
	}

	return unique
}

// merge fills in fields that the first-seen record is missing. Scalar fields
// keep the first non-empty value; set-valued fields take the union.
func (t *Ticket) merge(other *Ticket) {
	if t.Summary == "" {
		t.Summary = other.Summary
	}
	if t.DocType == "" {
		t.DocType = other.DocType
	}
	if t.DocText == "" {
		t.DocText = other.DocText
		t.DocTextStatus = other.DocTextStatus
	}
	if t.DocsContact == "" {
		t.DocsContact = other.DocsContact
	}
	if t.Priority == "" {
		t.Priority = other.Priority
	}
	if t.Status == "" {
		t.Status = other.Status
		t.IsOpen = other.IsOpen
	}
	if t.Resolution == "" {
		t.Resolution = other.Resolution
	}
	if t.URL == "" {
		t.URL = other.URL
	}
	t.Components = unionStrings(t.Components, other.Components)
	t.Subsystems = unionStrings(t.Subsystems, other.Subsystems)
	t.References = unionIDs(t.References, other.References)
}

func unionStrings(a, b []string) []string {
	seen := make(map[string]bool, len(a))
	for _, v := range a {
		seen[v] = true
	}
	for _, v := range b {
		if !seen[v] {
			seen[v] = true
			a = append(a, v)
		}
	}
	return a
}

func unionIDs(a, b []TicketID) []TicketID {
	seen := make(map[TicketID]bool, len(a))
	for _, v := range a {
		seen[v] = true
	}
	for _, v := range b {
		if !seen[v] {
			seen[v] = true
			a = append(a, v)
		}
	}
	return a
}
