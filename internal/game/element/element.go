// Package element holds the static advantage relation between element kinds.
package element

import (
	"fmt"
	"sort"
)

// Element names one elemental kind, e.g. "fire".
type Element string

// Rule selects how the table is consulted. The active weather picks the rule.
type Rule int

const (
	// Normal consults the strengths and weaknesses as declared.
	Normal Rule = iota
	// Inverted swaps strengths and weaknesses.
	Inverted
	// Suppressed reports no advantage and no disadvantage for any matchup.
	Suppressed
)

// String returns a human-readable rule label.
func (r Rule) String() string {
	switch r {
	case Normal:
		return "normal"
	case Inverted:
		return "inverted"
	case Suppressed:
		return "suppressed"
	default:
		return "unknown"
	}
}

// Def is the static definition of one element.
type Def struct {
	Name       Element   `yaml:"name"`
	Strengths  []Element `yaml:"strengths"`
	Weaknesses []Element `yaml:"weaknesses"`
}

// Table indexes element definitions by name.
//
// Invariant: every element referenced by a Strengths or Weaknesses list is registered.
type Table struct {
	strengths  map[Element]map[Element]struct{}
	weaknesses map[Element]map[Element]struct{}
}

// NewTable builds a Table from defs.
//
// Precondition: element names are unique.
// Postcondition: Returns an error if a name repeats or a relation references an unknown element.
func NewTable(defs []Def) (*Table, error) {
	t := &Table{
		strengths:  make(map[Element]map[Element]struct{}, len(defs)),
		weaknesses: make(map[Element]map[Element]struct{}, len(defs)),
	}
	for _, d := range defs {
		if d.Name == "" {
			return nil, fmt.Errorf("element: definition has empty name")
		}
		if _, dup := t.strengths[d.Name]; dup {
			return nil, fmt.Errorf("element: duplicate element %q", d.Name)
		}
		t.strengths[d.Name] = toSet(d.Strengths)
		t.weaknesses[d.Name] = toSet(d.Weaknesses)
	}
	for _, d := range defs {
		for _, ref := range append(append([]Element{}, d.Strengths...), d.Weaknesses...) {
			if !t.Has(ref) {
				return nil, fmt.Errorf("element %q: references unknown element %q", d.Name, ref)
			}
		}
	}
	return t, nil
}

func toSet(es []Element) map[Element]struct{} {
	out := make(map[Element]struct{}, len(es))
	for _, e := range es {
		out[e] = struct{}{}
	}
	return out
}

// Has reports whether e is registered.
func (t *Table) Has(e Element) bool {
	_, ok := t.strengths[e]
	return ok
}

// All returns the registered elements sorted by name.
func (t *Table) All() []Element {
	out := make([]Element, 0, len(t.strengths))
	for e := range t.strengths {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (t *Table) strong(a, b Element) bool {
	_, ok := t.strengths[a][b]
	return ok
}

func (t *Table) weak(a, b Element) bool {
	_, ok := t.weaknesses[a][b]
	return ok
}

// HasAdvantage reports whether a is strong against b under rule.
//
// Postcondition: always false when rule == Suppressed.
func (t *Table) HasAdvantage(a, b Element, rule Rule) bool {
	switch rule {
	case Inverted:
		return t.weak(a, b)
	case Suppressed:
		return false
	default:
		return t.strong(a, b)
	}
}

// HasDisadvantage reports whether a is weak against b under rule.
//
// Postcondition: always false when rule == Suppressed.
func (t *Table) HasDisadvantage(a, b Element, rule Rule) bool {
	switch rule {
	case Inverted:
		return t.strong(a, b)
	case Suppressed:
		return false
	default:
		return t.weak(a, b)
	}
}

// Modifier returns the damage multiplier of a attacking b: 2 on advantage,
// 0.5 on disadvantage, 1 otherwise.
func (t *Table) Modifier(a, b Element, rule Rule) float64 {
	switch {
	case t.HasAdvantage(a, b, rule):
		return 2
	case t.HasDisadvantage(a, b, rule):
		return 0.5
	default:
		return 1
	}
}
