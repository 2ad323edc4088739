// Package weather defines the battle-global timed conditions that alter stat
// and elemental math.
package weather

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/witchery/internal/game/element"
)

// DefaultDuration is the number of rounds a newly set weather lasts.
const DefaultDuration = 5

// Kind identifies a weather type. The zero value (None) means clear skies.
type Kind int

const (
	None Kind = iota
	// Eclipse swaps attack and defense of every combatant.
	Eclipse
	// Fog zeroes agility of every combatant.
	Fog
	// Mirage inverts the element table.
	Mirage
	// Stillness suppresses all elemental advantage.
	Stillness
)

var kindNames = map[Kind]string{
	None:      "none",
	Eclipse:   "eclipse",
	Fog:       "fog",
	Mirage:    "mirage",
	Stillness: "stillness",
}

// String returns the weather's content name.
func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// ParseKind maps a content name to a Kind.
//
// Postcondition: Returns an error for unrecognised names.
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if name == s {
			return k, nil
		}
	}
	return None, fmt.Errorf("weather: unknown kind %q", s)
}

// UnmarshalYAML decodes a Kind from its content name.
func (k *Kind) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	parsed, err := ParseKind(s)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// ElementRule returns how the element table is consulted under k.
func (k Kind) ElementRule() element.Rule {
	switch k {
	case Mirage:
		return element.Inverted
	case Stillness:
		return element.Suppressed
	default:
		return element.Normal
	}
}

// SwapsAttackDefense reports whether k exchanges attack and defense.
func (k Kind) SwapsAttackDefense() bool { return k == Eclipse }

// ZeroesAgility reports whether k removes all agility.
func (k Kind) ZeroesAgility() bool { return k == Fog }

// Condition is the active weather of one battle.
//
// Invariant: Duration > 0 while the condition is installed.
type Condition struct {
	Kind     Kind
	Duration int
	Element  element.Element
}

// New returns a Condition of kind k lasting DefaultDuration rounds.
func New(k Kind, e element.Element) *Condition {
	return &Condition{Kind: k, Duration: DefaultDuration, Element: e}
}

// KindOf returns c.Kind, or None when c is nil.
func KindOf(c *Condition) Kind {
	if c == nil {
		return None
	}
	return c.Kind
}

// Decrement lowers the remaining duration by one.
//
// Postcondition: Returns true when the condition has expired.
func (c *Condition) Decrement() bool {
	c.Duration--
	return c.Duration <= 0
}
