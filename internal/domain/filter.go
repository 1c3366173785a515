package domain

import (
	"fmt"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Filter narrows down the tickets that can appear in the section it belongs
// to. Every present field must intersect the ticket's corresponding value;
// an absent field imposes no constraint. An entirely empty filter matches
// every ticket it is offered.
type Filter struct {
	DocType   []string
	Component []string
	Subsystem []string

	// Where is an optional expression over the ticket fields, for
	// conditions the list filters can't express, such as
	// `priority == "High" and not open`.
	Where string
}

// IsEmpty reports whether the filter imposes no constraint at all.
func (f *Filter) IsEmpty() bool {
	return f == nil ||
		(len(f.DocType) == 0 && len(f.Component) == 0 && len(f.Subsystem) == 0 && f.Where == "")
}

// Predicate matches tickets against one section filter rule.
type Predicate interface {
	Matches(t *Ticket) bool
}

// Compile translates the filter into its predicate form: a conjunction of
// one predicate per present field. The result is independent of field
// evaluation order.
func (f *Filter) Compile() (Predicate, error) {
	var preds []Predicate
	if f != nil {
		if len(f.DocType) > 0 {
			preds = append(preds, docTypePredicate(f.DocType))
		}
		if len(f.Component) > 0 {
			preds = append(preds, componentPredicate(lowered(f.Component)))
		}
		if len(f.Subsystem) > 0 {
			preds = append(preds, subsystemPredicate(lowered(f.Subsystem)))
		}
		if f.Where != "" {
			where, err := compileWhere(f.Where)
			if err != nil {
				return nil, err
			}
			preds = append(preds, where)
		}
	}
	return andPredicate(preds), nil
}

// docTypePredicate matches the ticket's scalar doc type against the allowed
// values. The comparison is a case-sensitive exact match.
type docTypePredicate []string

func (p docTypePredicate) Matches(t *Ticket) bool {
	for _, want := range p {
		if t.DocType == want {
			return true
		}
	}
	return false
}

// componentPredicate matches if any of the ticket's components appears in the
// allowed list. A ticket with no components never matches: the filter
// requires presence, not absence of contradiction.
type componentPredicate []string

func (p componentPredicate) Matches(t *Ticket) bool {
	return intersects(t.Components, p)
}

// subsystemPredicate matches like componentPredicate, over subsystems.
type subsystemPredicate []string

func (p subsystemPredicate) Matches(t *Ticket) bool {
	return intersects(t.Subsystems, p)
}

// andPredicate is the conjunction of its parts. An empty conjunction matches
// everything, which gives empty filters their wildcard behavior.
type andPredicate []Predicate

func (p andPredicate) Matches(t *Ticket) bool {
	for _, pred := range p {
		if !pred.Matches(t) {
			return false
		}
	}
	return true
}

// wherePredicate evaluates a compiled expression against the ticket fields.
type wherePredicate struct {
	source  string
	program *vm.Program
}

func (p *wherePredicate) Matches(t *Ticket) bool {
	out, err := expr.Run(p.program, whereEnv(t))
	if err != nil {
		// The program compiled as a boolean over known fields, so a
		// runtime failure can't normally happen. Fail closed.
		return false
	}
	matched, ok := out.(bool)
	return ok && matched
}

func compileWhere(source string) (*wherePredicate, error) {
	program, err := expr.Compile(source, expr.Env(whereEnv(&Ticket{})), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("invalid where expression %q: %w", source, err)
	}
	return &wherePredicate{source: source, program: program}, nil
}

// whereEnv exposes the ticket fields that where expressions can reference.
func whereEnv(t *Ticket) map[string]any {
	return map[string]any{
		"key":        t.ID.Key,
		"tracker":    string(t.ID.Tracker),
		"doc_type":   t.DocType,
		"components": t.Components,
		"subsystems": t.Subsystems,
		"priority":   t.Priority,
		"status":     t.Status,
		"resolution": t.Resolution,
		"open":       t.IsOpen,
		"public":     t.Public,
	}
}

// intersects reports whether any of the ticket values appears in the allowed
// list. The allowed list is pre-lowered; ticket values are lowered here so
// that tracker-side capitalization doesn't matter.
func intersects(values, allowed []string) bool {
	for _, value := range values {
		value = strings.ToLower(value)
		for _, want := range allowed {
			if value == want {
				return true
			}
		}
	}
	return false
}

func lowered(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = strings.ToLower(v)
	}
	return out
}
