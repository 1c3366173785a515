package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"colophon/internal/adapters/asciidoc"
	"colophon/internal/application"
	"colophon/internal/domain"
	"colophon/internal/logging"
)

type fakeSource struct {
	tickets []*domain.Ticket
	err     error
}

func (f *fakeSource) Load(ctx context.Context) ([]*domain.Ticket, error) {
	return f.tickets, f.err
}

func buildTickets() []*domain.Ticket {
	return []*domain.Ticket{
		{
			ID:            domain.TicketID{Tracker: domain.TrackerJira, Key: "PROJ-1"},
			Summary:       "CLI fix",
			DocType:       "Bug Fix",
			Components:    []string{"oc"},
			DocText:       "The CLI no longer crashes.",
			DocTextStatus: domain.StatusComplete,
			Public:        true,
			URL:           "https://issues.example.com/browse/PROJ-1",
		},
		{
			ID:            domain.TicketID{Tracker: domain.TrackerJira, Key: "PROJ-2"},
			Summary:       "Image fix draft",
			DocType:       "Bug Fix",
			Components:    []string{"images"},
			DocText:       "Image builds no longer fail.",
			DocTextStatus: domain.StatusInProgress,
			DocsContact:   "writer@example.com",
		},
		{
			ID:      domain.TicketID{Tracker: domain.TrackerJira, Key: "PROJ-3"},
			Summary: "No note yet",
			DocType: "Bug Fix",
		},
	}
}

func buildTemplate() *domain.Template {
	return &domain.Template{
		Chapters: []*domain.Section{
			{
				Title:  "Bug fixes",
				Filter: &domain.Filter{DocType: []string{"Bug Fix"}},
				Children: []*domain.Section{
					{Title: "OC", Filter: &domain.Filter{Component: []string{"oc"}}},
					{Title: "Images", Filter: &domain.Filter{Component: []string{"images"}}},
				},
			},
		},
	}
}

func quietLogger() *logging.Logger {
	return logging.NewWithOutput(logging.LevelError, &bytes.Buffer{}, &bytes.Buffer{})
}

func TestBuildCommand_Execute(t *testing.T) {
	outDir := t.TempDir()
	source := &fakeSource{tickets: buildTickets()}
	cmd := NewBuildCommand(source, asciidoc.New("Release notes"), buildTemplate(), outDir, quietLogger())

	result, err := cmd.Execute(context.Background())
	if err != nil {
		t.Fatalf("execute: %v", err)
	}

	mustRead := func(name string) string {
		t.Helper()
		data, err := os.ReadFile(filepath.Join(outDir, name))
		if err != nil {
			t.Fatalf("expected output file %s: %v", name, err)
		}
		return string(data)
	}

	internal := mustRead(filepath.Join("internal", "ref_images.adoc"))
	if !strings.Contains(internal, "Image builds no longer fail.") {
		t.Errorf("internal module missing the in-progress note:\n%s", internal)
	}

	// The external variant drops the incomplete note, so the whole Images
	// section vanishes from it.
	if _, err := os.Stat(filepath.Join(outDir, "external", "ref_images.adoc")); !errors.Is(err, os.ErrNotExist) {
		t.Error("the external variant must not generate a module for incomplete notes")
	}
	external := mustRead(filepath.Join("external", "assembly_bug-fixes.adoc"))
	if strings.Contains(external, "ref_images.adoc") {
		t.Errorf("dangling include in the external assembly:\n%s", external)
	}

	master := mustRead(filepath.Join("internal", "master.adoc"))
	if !strings.Contains(master, "include::assembly_bug-fixes.adoc[leveloffset=+1]") {
		t.Errorf("master file missing the chapter include:\n%s", master)
	}

	var table domain.StatusTable
	if err := json.Unmarshal([]byte(mustRead("status-table.json")), &table); err != nil {
		t.Fatalf("status table is not valid JSON: %v", err)
	}
	if table.Progress.All != 3 || table.Progress.Complete != 1 {
		t.Errorf("unexpected progress in the status table: %+v", table.Progress)
	}

	if result.Written < 7 {
		t.Errorf("expected at least 7 generated files, got %d", result.Written)
	}
	if len(result.Usage.Unused) != 0 {
		t.Errorf("no noted ticket should be unused, got %v", result.Usage.Unused)
	}
}

func TestBuildCommand_AllOrNothing(t *testing.T) {
	outDir := t.TempDir()
	// The template references an undefined name, so resolution fails.
	template := &domain.Template{
		Chapters: []*domain.Section{{Ref: "missing"}},
	}
	cmd := NewBuildCommand(&fakeSource{tickets: buildTickets()}, asciidoc.New("Release notes"), template, outDir, quietLogger())

	_, err := cmd.Execute(context.Background())
	if !errors.Is(err, domain.ErrConfig) {
		t.Fatalf("expected a configuration error, got %v", err)
	}
	var buildErr *application.BuildError
	if !errors.As(err, &buildErr) {
		t.Fatalf("expected a BuildError, got %T", err)
	}

	entries, readErr := os.ReadDir(outDir)
	if readErr != nil {
		t.Fatal(readErr)
	}
	if len(entries) != 0 {
		t.Errorf("a failed build must not write any file, found %v", entries)
	}
}

func TestBuildCommand_UsageWarnings(t *testing.T) {
	tickets := buildTickets()
	tickets = append(tickets, &domain.Ticket{
		ID:            domain.TicketID{Tracker: domain.TrackerJira, Key: "PROJ-9"},
		Summary:       "Orphan",
		DocType:       "Enhancement",
		DocText:       "Nothing matches this.",
		DocTextStatus: domain.StatusComplete,
	})

	cmd := NewBuildCommand(&fakeSource{tickets: tickets}, asciidoc.New("Release notes"), buildTemplate(), t.TempDir(), quietLogger())
	result, err := cmd.Execute(context.Background())
	if err != nil {
		t.Fatalf("execute: %v", err)
	}

	if len(result.Usage.Unused) != 1 || result.Usage.Unused[0].Key != "PROJ-9" {
		t.Errorf("expected PROJ-9 unused, got %v", result.Usage.Unused)
	}
}

func TestBuildCommand_EmptyInput(t *testing.T) {
	cmd := NewBuildCommand(&fakeSource{}, asciidoc.New("Release notes"), buildTemplate(), t.TempDir(), quietLogger())
	if _, err := cmd.Execute(context.Background()); !errors.Is(err, application.ErrEmptyInput) {
		t.Fatalf("expected ErrEmptyInput, got %v", err)
	}
}

func TestBuildCommand_Validate(t *testing.T) {
	cmd := NewBuildCommand(&fakeSource{}, asciidoc.New("Release notes"), nil, "", quietLogger())
	if err := cmd.Validate(); err == nil {
		t.Fatal("expected a validation error")
	}
}
