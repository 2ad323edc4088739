// Package move defines moves and their sub-moves. Moves are immutable and
// shared by pointer from the catalog.
package move

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/witchery/internal/game/effect"
	"github.com/cory-johannsen/witchery/internal/game/element"
	"github.com/cory-johannsen/witchery/internal/game/weather"
)

// Category distinguishes barrier moves from everything else.
type Category int

const (
	Standard Category = iota
	// Barrier moves act before standard moves and shield the user for the
	// rest of the round, unless the same barrier was used the round before.
	Barrier
)

// String returns the category's content name.
func (c Category) String() string {
	if c == Barrier {
		return "barrier"
	}
	return "standard"
}

// UnmarshalYAML decodes "standard" or "barrier".
func (c *Category) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	switch s {
	case "", "standard":
		*c = Standard
	case "barrier":
		*c = Barrier
	default:
		return fmt.Errorf("move: unknown category %q", s)
	}
	return nil
}

// Range selects the target of a sub-move.
type Range int

const (
	Opponent Range = iota
	Self
)

// String returns the range's content name.
func (r Range) String() string {
	if r == Self {
		return "self"
	}
	return "opponent"
}

// UnmarshalYAML decodes "opponent" or "self".
func (r *Range) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	switch s {
	case "", "opponent":
		*r = Opponent
	case "self":
		*r = Self
	default:
		return fmt.Errorf("move: unknown range %q", s)
	}
	return nil
}

// SubMove is one atomic step of a move.
type SubMove struct {
	// Power is the damage percentage; 0 means the step deals no damage.
	Power  int   `yaml:"power"`
	Range  Range `yaml:"range"`
	Chance int   `yaml:"chance"`
	// Effect is applied to the range target when set.
	Effect effect.Kind `yaml:"effect"`
	// Weather is installed battle-wide when set.
	Weather weather.Kind `yaml:"weather"`
	// Heal restores this percentage of the range target's max HP.
	Heal int `yaml:"heal"`
}

// Move is a named, ordered list of sub-moves.
type Move struct {
	Name     string          `yaml:"name"`
	Element  element.Element `yaml:"element"`
	Category Category        `yaml:"category"`
	Steps    []SubMove       `yaml:"steps"`
}

// Validate checks the move's invariants.
//
// Postcondition: nil means Name is non-empty, there is at least one step, and
// every step has a chance in [1, 100] and non-negative power and heal.
func (m *Move) Validate() error {
	if m.Name == "" {
		return errors.New("move: name must not be empty")
	}
	if len(m.Steps) == 0 {
		return fmt.Errorf("move %q: must have at least one step", m.Name)
	}
	for i, s := range m.Steps {
		if s.Chance < 1 || s.Chance > 100 {
			return fmt.Errorf("move %q step %d: chance must be 1-100, got %d", m.Name, i, s.Chance)
		}
		if s.Power < 0 || s.Heal < 0 {
			return fmt.Errorf("move %q step %d: power and heal must be >= 0", m.Name, i)
		}
	}
	return nil
}

// IsBarrier reports whether the move is in the barrier category.
func (m *Move) IsBarrier() bool { return m.Category == Barrier }

// SetsWeather reports whether any step installs a weather condition.
func (m *Move) SetsWeather() bool {
	for _, s := range m.Steps {
		if s.Weather != weather.None {
			return true
		}
	}
	return false
}

// UsageCap returns how many resource points a combatant with the given
// resource stat may spend on one move in a battle.
//
// Postcondition: result >= 1.
func UsageCap(resource int) int {
	c := resource / 5
	if c < 1 {
		return 1
	}
	return c
}

// Slot is one entry of a combatant's move list with its per-battle use counter.
type Slot struct {
	Move *Move
	Uses int
}

// Usable reports whether spending rate more points stays within cap.
func (s Slot) Usable(rate, cap int) bool {
	return s.Uses+rate <= cap
}
