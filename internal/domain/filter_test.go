package domain

import "testing"

func TestFilterMatches(t *testing.T) {
	ticket := &Ticket{
		ID:         TicketID{Tracker: TrackerJira, Key: "PROJ-1"},
		DocType:    "Bug Fix",
		Components: []string{"oc", "Image Registry"},
		Subsystems: []string{"sst_workloads"},
		Priority:   "High",
		IsOpen:     true,
	}

	tests := []struct {
		name   string
		filter *Filter
		want   bool
	}{
		{name: "nil filter matches", filter: nil, want: true},
		{name: "empty filter matches", filter: &Filter{}, want: true},
		{
			name:   "doc type exact match",
			filter: &Filter{DocType: []string{"Bug Fix"}},
			want:   true,
		},
		{
			name:   "doc type is case sensitive",
			filter: &Filter{DocType: []string{"bug fix"}},
			want:   false,
		},
		{
			name:   "doc type list matches any",
			filter: &Filter{DocType: []string{"Known Issue", "Bug Fix"}},
			want:   true,
		},
		{
			name:   "component membership",
			filter: &Filter{Component: []string{"Image Registry"}},
			want:   true,
		},
		{
			name:   "component is case insensitive",
			filter: &Filter{Component: []string{"image registry"}},
			want:   true,
		},
		{
			name:   "component mismatch",
			filter: &Filter{Component: []string{"etcd"}},
			want:   false,
		},
		{
			name:   "subsystem membership",
			filter: &Filter{Subsystem: []string{"SST_Workloads"}},
			want:   true,
		},
		{
			name:   "all present fields must match",
			filter: &Filter{DocType: []string{"Bug Fix"}, Component: []string{"etcd"}},
			want:   false,
		},
		{
			name:   "where expression",
			filter: &Filter{Where: `priority == "High" and open`},
			want:   true,
		},
		{
			name:   "where expression mismatch",
			filter: &Filter{Where: `"etcd" in components`},
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pred, err := tt.filter.Compile()
			if err != nil {
				t.Fatalf("compile: %v", err)
			}
			if got := pred.Matches(ticket); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestFilterEmptyComponentsNeverMatch(t *testing.T) {
	// The filter requires presence: a ticket with no components must not
	// vacuously satisfy a component filter.
	ticket := &Ticket{ID: TicketID{Tracker: TrackerJira, Key: "PROJ-2"}}
	pred, err := (&Filter{Component: []string{"oc"}}).Compile()
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if pred.Matches(ticket) {
		t.Error("ticket with no components matched a component filter")
	}
}

func TestFilterInvalidWhere(t *testing.T) {
	_, err := (&Filter{Where: `priority ==`}).Compile()
	if err == nil {
		t.Fatal("expected a compile error for a malformed where expression")
	}
}

func TestFilterIsEmpty(t *testing.T) {
	if !(&Filter{}).IsEmpty() {
		t.Error("empty filter must report empty")
	}
	var nilFilter *Filter
	if !nilFilter.IsEmpty() {
		t.Error("nil filter must report empty")
	}
	if (&Filter{Where: "open"}).IsEmpty() {
		t.Error("filter with a where clause is not empty")
	}
}
