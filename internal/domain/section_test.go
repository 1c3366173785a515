package domain

import (
	"errors"
	"testing"
)

func testTicket(key, docType string, components ...string) *Ticket {
	return &Ticket{
		ID:            TicketID{Tracker: TrackerJira, Key: key},
		DocType:       docType,
		Components:    components,
		DocText:       ".A title\n\nA release note body.",
		DocTextStatus: StatusComplete,
	}
}

func bugFixTemplate() *Template {
	return &Template{
		Chapters: []*Section{
			{
				Title:  "Bug fixes",
				Filter: &Filter{DocType: []string{"Bug Fix"}},
				Children: []*Section{
					{Title: "oc", Filter: &Filter{Component: []string{"oc"}}},
					{Title: "Images", Filter: &Filter{Component: []string{"Image Registry"}}},
				},
			},
		},
	}
}

func TestResolveNarrowing(t *testing.T) {
	tickets := []*Ticket{
		testTicket("PROJ-1", "Bug Fix", "oc"),
		testTicket("PROJ-2", "Bug Fix", "Image Registry"),
		// Matches the `oc` component but not the chapter doc type, so it
		// must not surface anywhere below the chapter.
		testTicket("PROJ-3", "Enhancement", "oc"),
	}

	nodes, err := bugFixTemplate().Resolve(tickets)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	chapter := nodes[0]
	if len(chapter.Matched) != 2 {
		t.Fatalf("expected 2 tickets in the chapter, got %d", len(chapter.Matched))
	}
	oc, images := chapter.Children[0], chapter.Children[1]
	if len(oc.Matched) != 1 || oc.Matched[0].ID.Key != "PROJ-1" {
		t.Errorf("oc subsection: expected PROJ-1 only, got %v", keysOf(oc.Matched))
	}
	if len(images.Matched) != 1 || images.Matched[0].ID.Key != "PROJ-2" {
		t.Errorf("images subsection: expected PROJ-2 only, got %v", keysOf(images.Matched))
	}

	// Strict narrowing: every ticket of a child appears in the parent.
	for _, child := range chapter.Children {
		for _, ticket := range child.Matched {
			if !containsTicket(chapter.Matched, ticket.ID) {
				t.Errorf("ticket %s in a subsection but not in the chapter", ticket.ID)
			}
		}
	}
}

func TestResolveSiblingFanOut(t *testing.T) {
	both := testTicket("PROJ-1", "Bug Fix", "oc", "Image Registry")

	tpl := bugFixTemplate()
	nodes, err := tpl.Resolve([]*Ticket{both})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	chapter := nodes[0]
	if len(chapter.Children[0].Matched) != 1 || len(chapter.Children[1].Matched) != 1 {
		t.Error("a ticket matching two siblings must appear under each")
	}

	// With the first-match policy, only the first declared sibling keeps it.
	tpl.Duplicates = DuplicatesFirst
	nodes, err = tpl.Resolve([]*Ticket{both})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	chapter = nodes[0]
	if len(chapter.Children[0].Matched) != 1 {
		t.Error("first sibling must keep the ticket")
	}
	if len(chapter.Children[1].Matched) != 0 {
		t.Error("later sibling must not see a claimed ticket")
	}
}

func TestResolveExcludesNotelessTickets(t *testing.T) {
	noteless := testTicket("PROJ-1", "Bug Fix", "oc")
	noteless.DocText = "// nothing here\n"

	nodes, err := bugFixTemplate().Resolve([]*Ticket{noteless})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(nodes[0].Matched) != 0 {
		t.Error("a ticket without a note body must not enter any section")
	}
	if nodes[0].Generates {
		t.Error("chapter must not generate from noteless tickets")
	}
}

func TestResolveSharedReference(t *testing.T) {
	tpl := &Template{
		Registry: map[string]*Section{
			"oc-notes": {Title: "oc", Filter: &Filter{Component: []string{"oc"}}},
		},
		Chapters: []*Section{
			{
				Title:    "Bug fixes",
				Filter:   &Filter{DocType: []string{"Bug Fix"}},
				Children: []*Section{{Ref: "oc-notes"}},
			},
			{
				Title:    "Enhancements",
				Filter:   &Filter{DocType: []string{"Enhancement"}},
				Children: []*Section{{Ref: "oc-notes"}},
			},
		},
	}
	tickets := []*Ticket{
		testTicket("PROJ-1", "Bug Fix", "oc"),
		testTicket("PROJ-2", "Enhancement", "oc"),
	}

	nodes, err := tpl.Resolve(tickets)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	// One definition, two inclusion sites, two different ticket subsets.
	first := nodes[0].Children[0]
	second := nodes[1].Children[0]
	if first.Definition != "oc-notes" || second.Definition != "oc-notes" {
		t.Error("inclusion sites must record the definition name")
	}
	if first == second {
		t.Fatal("inclusion sites must be distinct runtime nodes")
	}
	if keysOf(first.Matched)[0] != "PROJ-1" || keysOf(second.Matched)[0] != "PROJ-2" {
		t.Errorf("each site must filter its own parent's subset, got %v and %v",
			keysOf(first.Matched), keysOf(second.Matched))
	}
}

func TestResolveConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		tpl  *Template
		want error
	}{
		{
			name: "undefined reference",
			tpl: &Template{
				Chapters: []*Section{{
					Title:    "Bug fixes",
					Filter:   &Filter{DocType: []string{"Bug Fix"}},
					Children: []*Section{{Ref: "missing"}},
				}},
			},
			want: ErrConfig,
		},
		{
			name: "nothing to match",
			tpl: &Template{
				Chapters: []*Section{{Title: "Empty"}},
			},
			want: ErrConfig,
		},
		{
			name: "bad where expression",
			tpl: &Template{
				Chapters: []*Section{{Title: "Broken", Filter: &Filter{Where: "priority =="}}},
			},
			want: ErrConfig,
		},
		{
			name: "direct cycle",
			tpl: &Template{
				Registry: map[string]*Section{
					"self": {Title: "Self", Filter: &Filter{DocType: []string{"x"}}, Children: []*Section{{Ref: "self"}}},
				},
				Chapters: []*Section{{Ref: "self"}},
			},
			want: ErrCycle,
		},
		{
			name: "transitive cycle",
			tpl: &Template{
				Registry: map[string]*Section{
					"a": {Title: "A", Children: []*Section{{Ref: "b"}}},
					"b": {Title: "B", Children: []*Section{{Ref: "a"}}},
				},
				Chapters: []*Section{{Ref: "a"}},
			},
			want: ErrCycle,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.tpl.Resolve(nil)
			if err == nil {
				t.Fatal("expected an error")
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestResolveDiamondReferenceIsNotACycle(t *testing.T) {
	// The same definition referenced from two sibling branches is reuse,
	// not a cycle: the expansion path never contains the name twice.
	tpl := &Template{
		Registry: map[string]*Section{
			"shared": {Title: "Shared", Filter: &Filter{Component: []string{"oc"}}},
		},
		Chapters: []*Section{{
			Title:  "Top",
			Filter: &Filter{DocType: []string{"Bug Fix"}},
			Children: []*Section{
				{Title: "Left", Filter: &Filter{Component: []string{"oc"}}, Children: []*Section{{Ref: "shared"}}},
				{Title: "Right", Filter: &Filter{Component: []string{"oc"}}, Children: []*Section{{Ref: "shared"}}},
			},
		}},
	}
	if _, err := tpl.Resolve(nil); err != nil {
		t.Fatalf("diamond reference must resolve, got %v", err)
	}
}

func keysOf(tickets []*Ticket) []string {
	keys := make([]string, 0, len(tickets))
	for _, t := range tickets {
		keys = append(keys, t.ID.Key)
	}
	return keys
}

func containsTicket(tickets []*Ticket, id TicketID) bool {
	for _, t := range tickets {
		if t.ID == id {
			return true
		}
	}
	return false
}
