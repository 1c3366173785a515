// Package ticketdb loads resolved ticket records from a SQLite snapshot
// database, the exchange format of the external tracker-fetch tooling for
// projects too large for a flat YAML file.
package ticketdb

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"colophon/internal/adapters/yamlsource"
	"colophon/internal/domain"
	"colophon/internal/logging"
	"colophon/internal/ports"
)

const schema = `
CREATE TABLE IF NOT EXISTS tickets (
	tracker TEXT NOT NULL,
	key TEXT NOT NULL,
	summary TEXT NOT NULL DEFAULT '',
	doc_type TEXT NOT NULL DEFAULT '',
	components TEXT NOT NULL DEFAULT '[]',
	subsystems TEXT NOT NULL DEFAULT '[]',
	doc_text TEXT NOT NULL DEFAULT '',
	doc_text_status TEXT NOT NULL DEFAULT '',
	docs_contact TEXT NOT NULL DEFAULT '',
	priority TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL DEFAULT '',
	resolution TEXT NOT NULL DEFAULT '',
	open INTEGER NOT NULL DEFAULT 0,
	public INTEGER NOT NULL DEFAULT 0,
	url TEXT NOT NULL DEFAULT '',
	refs TEXT NOT NULL DEFAULT '[]',
	PRIMARY KEY (tracker, key)
);`

// Source implements ports.TicketSource over a snapshot database.
type Source struct {
	path string
	log  *logging.Logger
}

var _ ports.TicketSource = (*Source)(nil)

// New creates a snapshot source for the given database file.
func New(path string, log *logging.Logger) *Source {
	return &Source{path: path, log: log}
}

// Load reads every ticket in snapshot order. Rowid order keeps the input
// order the fetch tooling wrote, which downstream resolution preserves.
func (s *Source) Load(ctx context.Context) ([]*domain.Ticket, error) {
	db, err := sql.Open("sqlite3", s.path)
	if err != nil {
		return nil, fmt.Errorf("cannot open the ticket snapshot database: %w", err)
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, `
		SELECT tracker, key, summary, doc_type, components, subsystems,
		       doc_text, doc_text_status, docs_contact, priority, status,
		       resolution, open, public, url, refs
		FROM tickets ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("cannot query the ticket snapshot database: %w", err)
	}
	defer rows.Close()

	var tickets []*domain.Ticket
	for rows.Next() {
		var (
			tracker, key, statusText     string
			components, subsystems, refs string
			open, public                 bool
			t                            domain.Ticket
		)
		err := rows.Scan(&tracker, &key, &t.Summary, &t.DocType, &components, &subsystems,
			&t.DocText, &statusText, &t.DocsContact, &t.Priority, &t.Status,
			&t.Resolution, &open, &public, &t.URL, &refs)
		if err != nil {
			return nil, err
		}

		parsedTracker, err := yamlsource.ParseTracker(tracker)
		if err != nil {
			return nil, err
		}
		t.ID = domain.TicketID{Tracker: parsedTracker, Key: key}
		t.IsOpen = open
		t.Public = public

		status, anomaly := domain.ParseDocTextStatus(statusText)
		if anomaly != nil {
			s.log.Warnf("ticket %s: %v", t.ID, anomaly)
		}
		t.DocTextStatus = status

		if err := json.Unmarshal([]byte(components), &t.Components); err != nil {
			return nil, fmt.Errorf("ticket %s: bad components column: %w", t.ID, err)
		}
		if err := json.Unmarshal([]byte(subsystems), &t.Subsystems); err != nil {
			return nil, fmt.Errorf("ticket %s: bad subsystems column: %w", t.ID, err)
		}
		var refIDs []struct {
			Tracker string `json:"tracker"`
			Key     string `json:"key"`
		}
		if err := json.Unmarshal([]byte(refs), &refIDs); err != nil {
			return nil, fmt.Errorf("ticket %s: bad refs column: %w", t.ID, err)
		}
		for _, ref := range refIDs {
			refTracker, err := yamlsource.ParseTracker(ref.Tracker)
			if err != nil {
				return nil, fmt.Errorf("ticket %s: %w", t.ID, err)
			}
			t.References = append(t.References, domain.TicketID{Tracker: refTracker, Key: ref.Key})
		}

		tickets = append(tickets, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tickets, nil
}

// Write replaces the snapshot database contents with the given tickets.
// The fetch tooling uses it to publish a snapshot; tests use it to build
// fixtures.
func Write(path string, tickets []*domain.Ticket) error {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return fmt.Errorf("cannot open the ticket snapshot database: %w", err)
	}
	defer db.Close()

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("cannot create the snapshot schema: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM tickets`); err != nil {
		return err
	}
	stmt, err := tx.Prepare(`
		INSERT INTO tickets (tracker, key, summary, doc_type, components,
			subsystems, doc_text, doc_text_status, docs_contact, priority,
			status, resolution, open, public, url, refs)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, t := range tickets {
		components, err := json.Marshal(orEmpty(t.Components))
		if err != nil {
			return err
		}
		subsystems, err := json.Marshal(orEmpty(t.Subsystems))
		if err != nil {
			return err
		}
		refs := make([]map[string]string, 0, len(t.References))
		for _, ref := range t.References {
			refs = append(refs, map[string]string{"tracker": string(ref.Tracker), "key": ref.Key})
		}
		refsJSON, err := json.Marshal(refs)
		if err != nil {
			return err
		}
		_, err = stmt.Exec(string(t.ID.Tracker), t.ID.Key, t.Summary, t.DocType,
			string(components), string(subsystems), t.DocText, t.DocTextStatus.String(),
			t.DocsContact, t.Priority, t.Status, t.Resolution, t.IsOpen, t.Public,
			t.URL, string(refsJSON))
		if err != nil {
			return fmt.Errorf("ticket %s: %w", t.ID, err)
		}
	}

	return tx.Commit()
}

func orEmpty(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
