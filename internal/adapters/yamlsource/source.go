// Package yamlsource loads resolved ticket records from a YAML snapshot
// file. The snapshot is produced by external tracker tooling; queries,
// authentication, and overrides are already applied by the time it exists.
package yamlsource

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-yaml"

	"colophon/internal/domain"
	"colophon/internal/logging"
	"colophon/internal/ports"
)

// Source implements ports.TicketSource over a snapshot file.
type Source struct {
	path string
	log  *logging.Logger
}

var _ ports.TicketSource = (*Source)(nil)

// New creates a snapshot source for the given file.
func New(path string, log *logging.Logger) *Source {
	return &Source{path: path, log: log}
}

// ticketRecord mirrors one entry of the snapshot file.
type ticketRecord struct {
	Tracker       string   `yaml:"tracker"`
	Key           string   `yaml:"key"`
	Summary       string   `yaml:"summary"`
	DocType       string   `yaml:"doc_type"`
	Components    []string `yaml:"components"`
	Subsystems    []string `yaml:"subsystems"`
	DocText       string   `yaml:"doc_text"`
	DocTextStatus string   `yaml:"doc_text_status"`
	DocsContact   string   `yaml:"docs_contact"`
	Priority      string   `yaml:"priority"`
	Status        string   `yaml:"status"`
	Resolution    string   `yaml:"resolution"`
	Open          bool     `yaml:"open"`
	Public        bool     `yaml:"public"`
	URL           string   `yaml:"url"`
	References    []string `yaml:"references"`
}

// Load reads and converts the snapshot. Status anomalies are corrected and
// logged, never fatal; a structurally broken snapshot is fatal.
func (s *Source) Load(_ context.Context) ([]*domain.Ticket, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("cannot read the ticket snapshot: %w", err)
	}

	var records []ticketRecord
	if err := yaml.UnmarshalWithOptions(data, &records, yaml.Strict()); err != nil {
		return nil, fmt.Errorf("cannot parse the ticket snapshot: %w", err)
	}

	tickets := make([]*domain.Ticket, 0, len(records))
	for i, record := range records {
		ticket, err := record.toTicket(s.log)
		if err != nil {
			return nil, fmt.Errorf("snapshot entry %d: %w", i, err)
		}
		tickets = append(tickets, ticket)
	}
	return tickets, nil
}

func (r ticketRecord) toTicket(log *logging.Logger) (*domain.Ticket, error) {
	tracker, err := ParseTracker(r.Tracker)
	if err != nil {
		return nil, err
	}
	if r.Key == "" {
		return nil, fmt.Errorf("ticket without a key")
	}
	id := domain.TicketID{Tracker: tracker, Key: r.Key}

	status, anomaly := domain.ParseDocTextStatus(r.DocTextStatus)
	if anomaly != nil {
		log.Warnf("ticket %s: %v", id, anomaly)
	}

	var references []domain.TicketID
	for _, ref := range r.References {
		refID, err := parseReference(ref)
		if err != nil {
			return nil, fmt.Errorf("ticket %s: %w", id, err)
		}
		references = append(references, refID)
	}

	return &domain.Ticket{
		ID:            id,
		Summary:       r.Summary,
		DocType:       r.DocType,
		Components:    r.Components,
		Subsystems:    r.Subsystems,
		DocText:       r.DocText,
		DocTextStatus: status,
		DocsContact:   r.DocsContact,
		Priority:      r.Priority,
		Status:        r.Status,
		Resolution:    r.Resolution,
		IsOpen:        r.Open,
		Public:        r.Public,
		URL:           r.URL,
		References:    references,
	}, nil
}

// ParseTracker normalizes a tracker name from snapshot data. `BZ` is an
// accepted shorthand for Bugzilla.
func ParseTracker(value string) (domain.Tracker, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "jira":
		return domain.TrackerJira, nil
	case "bugzilla", "bz":
		return domain.TrackerBugzilla, nil
	case "":
		return "", fmt.Errorf("ticket without a tracker")
	}
	// Unknown trackers pass through: the engine only compares identities.
	return domain.Tracker(value), nil
}

// parseReference parses a `Tracker:Key` signature string.
func parseReference(value string) (domain.TicketID, error) {
	tracker, key, ok := strings.Cut(value, ":")
	if !ok || key == "" {
		return domain.TicketID{}, fmt.Errorf("malformed reference %q, expected Tracker:Key", value)
	}
	parsed, err := ParseTracker(tracker)
	if err != nil {
		return domain.TicketID{}, fmt.Errorf("malformed reference %q: %w", value, err)
	}
	return domain.TicketID{Tracker: parsed, Key: key}, nil
}
