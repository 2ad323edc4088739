// Package catalog loads the read-only content tables (elements, natures, moves
// and combatant definitions) that every battle is built from.
//
// A Catalog is constructed once at process start and passed by reference into
// battle construction; it is never mutated afterwards and is safe for
// concurrent reads.
package catalog

import (
	"errors"
	"fmt"
	"sort"

	"github.com/cory-johannsen/witchery/internal/game/element"
	"github.com/cory-johannsen/witchery/internal/game/move"
	"github.com/cory-johannsen/witchery/internal/game/stats"
)

// MaxMoves is the largest move list a combatant definition may carry.
const MaxMoves = 4

// ErrNotFound is returned by lookups for unknown names.
var ErrNotFound = errors.New("catalog: not found")

// CombatantDef is the static definition a combatant is built from.
type CombatantDef struct {
	Name    string          `yaml:"name"`
	Element element.Element `yaml:"element"`
	Stats   stats.Stats     `yaml:"stats"`
	Nature  string          `yaml:"nature"`
	Trinket stats.Trinket   `yaml:"trinket"`
	Moves   []string        `yaml:"moves"`
}

// Content is the raw input of New.
type Content struct {
	Elements   []element.Def
	Natures    []stats.Nature
	Moves      []*move.Move
	Combatants []*CombatantDef
}

// Catalog indexes validated content by name.
type Catalog struct {
	elements   *element.Table
	natures    map[string]stats.Nature
	moves      map[string]*move.Move
	combatants map[string]*CombatantDef
}

// New validates c and builds a Catalog.
//
// Postcondition: every cross-reference (move and combatant elements, combatant
// natures and move names) resolves, or an error describing the first violation is returned.
func New(c Content) (*Catalog, error) {
	tbl, err := element.NewTable(c.Elements)
	if err != nil {
		return nil, err
	}
	cat := &Catalog{
		elements:   tbl,
		natures:    make(map[string]stats.Nature, len(c.Natures)),
		moves:      make(map[string]*move.Move, len(c.Moves)),
		combatants: make(map[string]*CombatantDef, len(c.Combatants)),
	}
	for _, n := range c.Natures {
		if n.Name == "" {
			return nil, errors.New("catalog: nature has empty name")
		}
		if _, dup := cat.natures[n.Name]; dup {
			return nil, fmt.Errorf("catalog: duplicate nature %q", n.Name)
		}
		cat.natures[n.Name] = n
	}
	for _, m := range c.Moves {
		if err := m.Validate(); err != nil {
			return nil, err
		}
		if !tbl.Has(m.Element) {
			return nil, fmt.Errorf("catalog: move %q has unknown element %q", m.Name, m.Element)
		}
		if _, dup := cat.moves[m.Name]; dup {
			return nil, fmt.Errorf("catalog: duplicate move %q", m.Name)
		}
		cat.moves[m.Name] = m
	}
	for _, d := range c.Combatants {
		if err := cat.validateCombatant(d); err != nil {
			return nil, err
		}
		cat.combatants[d.Name] = d
	}
	return cat, nil
}

func (c *Catalog) validateCombatant(d *CombatantDef) error {
	if d.Name == "" {
		return errors.New("catalog: combatant has empty name")
	}
	if _, dup := c.combatants[d.Name]; dup {
		return fmt.Errorf("catalog: duplicate combatant %q", d.Name)
	}
	if !c.elements.Has(d.Element) {
		return fmt.Errorf("catalog: combatant %q has unknown element %q", d.Name, d.Element)
	}
	if d.Stats.Health <= 0 {
		return fmt.Errorf("catalog: combatant %q must have health > 0", d.Name)
	}
	if d.Nature != "" {
		if _, ok := c.natures[d.Nature]; !ok {
			return fmt.Errorf("catalog: combatant %q has unknown nature %q", d.Name, d.Nature)
		}
	}
	if len(d.Moves) == 0 || len(d.Moves) > MaxMoves {
		return fmt.Errorf("catalog: combatant %q must have 1-%d moves, got %d", d.Name, MaxMoves, len(d.Moves))
	}
	for _, name := range d.Moves {
		if _, ok := c.moves[name]; !ok {
			return fmt.Errorf("catalog: combatant %q references unknown move %q", d.Name, name)
		}
	}
	return nil
}

// Elements returns the element table.
func (c *Catalog) Elements() *element.Table { return c.elements }

// Move returns the move named name.
func (c *Catalog) Move(name string) (*move.Move, error) {
	m, ok := c.moves[name]
	if !ok {
		return nil, fmt.Errorf("move %q: %w", name, ErrNotFound)
	}
	return m, nil
}

// Nature returns the nature named name. The empty name yields a zero Nature.
func (c *Catalog) Nature(name string) (stats.Nature, error) {
	if name == "" {
		return stats.Nature{}, nil
	}
	n, ok := c.natures[name]
	if !ok {
		return stats.Nature{}, fmt.Errorf("nature %q: %w", name, ErrNotFound)
	}
	return n, nil
}

// Combatant returns the combatant definition named name.
func (c *Catalog) Combatant(name string) (*CombatantDef, error) {
	d, ok := c.combatants[name]
	if !ok {
		return nil, fmt.Errorf("combatant %q: %w", name, ErrNotFound)
	}
	return d, nil
}

// CombatantNames returns every combatant name in sorted order.
func (c *Catalog) CombatantNames() []string {
	out := make([]string, 0, len(c.combatants))
	for name := range c.combatants {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// MoveCount returns the number of registered moves.
func (c *Catalog) MoveCount() int { return len(c.moves) }
