package ai

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/cory-johannsen/witchery/internal/game/element"
)

// Registry indexes Policies by name.
//
// Invariant: each name is registered at most once.
type Registry struct {
	policies map[string]Policy
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{policies: make(map[string]Policy)}
}

// Register stores p under p.Name().
//
// Precondition: p must not be nil.
// Postcondition: returns error on name collision.
func (r *Registry) Register(p Policy) error {
	if _, exists := r.policies[p.Name()]; exists {
		return fmt.Errorf("ai.Registry: policy %q already registered", p.Name())
	}
	r.policies[p.Name()] = p
	return nil
}

// Lookup returns the Policy registered as name, or false if not registered.
func (r *Registry) Lookup(name string) (Policy, bool) {
	p, ok := r.policies[name]
	return p, ok
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.policies))
	for n := range r.policies {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// BuildRegistry registers the heuristic under HeuristicName plus one policy
// per definition. Script policies fall back to the heuristic.
//
// Precondition: tbl must be non-nil; caller may be nil only when no
// definition has KindScript.
// Postcondition: returns error on name collision or a script definition
// without a caller.
func BuildRegistry(defs []*Definition, tbl *element.Table, caller ScriptCaller, logger *zap.Logger) (*Registry, error) {
	h := NewHeuristic(tbl)
	r := NewRegistry()
	if err := r.Register(h); err != nil {
		return nil, err
	}
	for _, d := range defs {
		var p Policy
		switch d.Kind {
		case KindHeuristic:
			p = named{Policy: h, name: d.Name}
		case KindScript:
			if caller == nil {
				return nil, fmt.Errorf("ai.BuildRegistry: policy %q needs a script caller", d.Name)
			}
			p = NewScriptedPolicy(d.Name, d.ScriptSet(), d.Hook, tbl, caller, h, logger)
		default:
			return nil, fmt.Errorf("ai.BuildRegistry: policy %q: unknown kind %q", d.Name, d.Kind)
		}
		if err := r.Register(p); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// named re-registers a policy under an alias.
type named struct {
	Policy
	name string
}

func (n named) Name() string { return n.name }
