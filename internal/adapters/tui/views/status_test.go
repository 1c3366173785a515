package views

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"colophon/internal/domain"
)

func loadedModel() *StatusModel {
	table := domain.BuildStatusTable([]*domain.Ticket{
		{
			ID:            domain.TicketID{Tracker: domain.TrackerJira, Key: "PROJ-1"},
			Summary:       "CLI fix",
			Components:    []string{"oc"},
			DocText:       "Fixed.",
			DocTextStatus: domain.StatusComplete,
			URL:           "https://issues.example.com/browse/PROJ-1",
		},
		{
			ID:         domain.TicketID{Tracker: domain.TrackerJira, Key: "PROJ-2"},
			Summary:    "Image fix",
			Components: []string{"images"},
		},
	})

	m := NewStatusModel(nil)
	m.Update(tableLoadedMsg{table})
	return m
}

func TestStatusViewRendersGroups(t *testing.T) {
	view := loadedModel().View()

	for _, want := range []string{"images", "oc", "PROJ-1", "PROJ-2", "2 tickets, 1 complete"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestStatusCursorSkipsHeaders(t *testing.T) {
	m := loadedModel()

	// Lines are: images header, PROJ-2 row, oc header, PROJ-1 row. The
	// cursor starts on the first row and stepping down lands on the next
	// row, never on the oc header between them.
	if row := m.selectedRow(); row == nil || row.ID.Key != "PROJ-2" {
		t.Fatalf("expected the cursor on PROJ-2, got %+v", row)
	}

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	if row := m.selectedRow(); row == nil || row.ID.Key != "PROJ-1" {
		t.Fatalf("expected the cursor on PROJ-1, got %+v", row)
	}

	// Stepping past the last row keeps the cursor in place.
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	if row := m.selectedRow(); row == nil || row.ID.Key != "PROJ-1" {
		t.Fatalf("expected the cursor to stay on PROJ-1, got %+v", row)
	}
}

func TestStatusFilterNarrowsRows(t *testing.T) {
	m := loadedModel()

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'/'}})
	if !m.filtering {
		t.Fatal("expected filter mode")
	}
	for _, r := range "cli" {
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	view := m.View()
	if !strings.Contains(view, "PROJ-1") {
		t.Errorf("filtered view should keep PROJ-1:\n%s", view)
	}
	if strings.Contains(view, "PROJ-2") {
		t.Errorf("filtered view should drop PROJ-2:\n%s", view)
	}
	if strings.Contains(view, "images") {
		t.Errorf("an emptied group must not render its header:\n%s", view)
	}
}

func TestStatusErrorMessage(t *testing.T) {
	m := NewStatusModel(nil)
	m.Update(errMsg{errTest})

	if view := m.View(); !strings.Contains(view, "cannot load") {
		t.Errorf("view missing the error message:\n%s", view)
	}
}

var errTest = errStub("cannot load tickets")

type errStub string

func (e errStub) Error() string { return string(e) }
