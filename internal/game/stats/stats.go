// Package stats computes a combatant's derived ("modified") stats from base
// stats, nature, active effects, trinket and weather.
package stats

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/witchery/internal/game/weather"
)

// Stat identifies one modifiable stat. Health and Resistance are not modifiable
// by effects; the zero value is intentionally invalid.
type Stat int

const (
	StatUnknown Stat = iota
	Attack
	Defense
	Agility
	Precision
)

// String returns the stat's content name.
func (s Stat) String() string {
	switch s {
	case Attack:
		return "attack"
	case Defense:
		return "defense"
	case Agility:
		return "agility"
	case Precision:
		return "precision"
	default:
		return "unknown"
	}
}

// Stats is a full stat block.
type Stats struct {
	Health     int `yaml:"health"`
	Attack     int `yaml:"attack"`
	Defense    int `yaml:"defense"`
	Agility    int `yaml:"agility"`
	Precision  int `yaml:"precision"`
	Resistance int `yaml:"resistance"`
}

// Modifiers holds signed deltas for the effect-modifiable stats.
type Modifiers struct {
	Attack    int `yaml:"attack"`
	Defense   int `yaml:"defense"`
	Agility   int `yaml:"agility"`
	Precision int `yaml:"precision"`
}

// Add returns m with delta added to stat. Unknown stats leave m unchanged.
func (m Modifiers) Add(stat Stat, delta int) Modifiers {
	switch stat {
	case Attack:
		m.Attack += delta
	case Defense:
		m.Defense += delta
	case Agility:
		m.Agility += delta
	case Precision:
		m.Precision += delta
	}
	return m
}

// Plus returns the element-wise sum of m and o.
func (m Modifiers) Plus(o Modifiers) Modifiers {
	return Modifiers{
		Attack:    m.Attack + o.Attack,
		Defense:   m.Defense + o.Defense,
		Agility:   m.Agility + o.Agility,
		Precision: m.Precision + o.Precision,
	}
}

// Nature is a permanent loadout applied to a combatant for its whole career.
type Nature struct {
	Name      string    `yaml:"name"`
	Modifiers Modifiers `yaml:"modifiers"`
}

// Trinket is an equippable passive modifier.
type Trinket int

const (
	NoTrinket Trinket = iota
	// Desperation adds DesperationBonus attack while HP is below a quarter of max.
	Desperation
	// Amulet blocks every incoming status effect.
	Amulet
	// Focus doubles the stat modifier of effects applied to the holder.
	Focus
	// Vitality adds VitalityBonus health.
	Vitality
	// Swiftness adds SwiftnessBonus agility.
	Swiftness
)

const (
	DesperationBonus = 30
	VitalityBonus    = 20
	SwiftnessBonus   = 15
)

var trinketNames = map[Trinket]string{
	NoTrinket:   "none",
	Desperation: "desperation",
	Amulet:      "amulet",
	Focus:       "focus",
	Vitality:    "vitality",
	Swiftness:   "swiftness",
}

// String returns the trinket's content name.
func (t Trinket) String() string {
	if s, ok := trinketNames[t]; ok {
		return s
	}
	return "unknown"
}

// ParseTrinket maps a content name to a Trinket. The empty string is NoTrinket.
func ParseTrinket(s string) (Trinket, error) {
	if s == "" {
		return NoTrinket, nil
	}
	for t, name := range trinketNames {
		if name == s {
			return t, nil
		}
	}
	return NoTrinket, fmt.Errorf("stats: unknown trinket %q", s)
}

// UnmarshalYAML decodes a Trinket from its content name.
func (t *Trinket) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	parsed, err := ParseTrinket(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// BlocksEffects reports whether the trinket prevents any effect application.
func (t Trinket) BlocksEffects() bool { return t == Amulet }

// EffectMultiplier returns the factor applied to stat modifiers of incoming effects.
func (t Trinket) EffectMultiplier() int {
	if t == Focus {
		return 2
	}
	return 1
}

// Input gathers everything Modified needs. It is a plain value; callers build
// it fresh for every calculation.
type Input struct {
	Base      Stats
	Effects   Modifiers
	Nature    Modifiers
	Trinket   Trinket
	CurrentHP int
}

// Modified computes the derived stats of in under weather w.
//
// Postcondition: every field of the result is >= 0.
func Modified(in Input, w weather.Kind) Stats {
	out := Stats{
		Health:     clamp(in.Base.Health),
		Attack:     clamp(in.Base.Attack + in.Effects.Attack + in.Nature.Attack),
		Defense:    clamp(in.Base.Defense + in.Effects.Defense + in.Nature.Defense),
		Agility:    clamp(in.Base.Agility + in.Effects.Agility + in.Nature.Agility),
		Precision:  clamp(in.Base.Precision + in.Effects.Precision + in.Nature.Precision),
		Resistance: clamp(in.Base.Resistance),
	}

	switch in.Trinket {
	case Vitality:
		out.Health += VitalityBonus
	case Swiftness:
		out.Agility += SwiftnessBonus
	case Desperation:
		if in.CurrentHP*4 < out.Health {
			out.Attack += DesperationBonus
		}
	}

	if w.SwapsAttackDefense() {
		out.Attack, out.Defense = out.Defense, out.Attack
	}
	if w.ZeroesAgility() {
		out.Agility = 0
	}
	return out
}

func clamp(v int) int {
	if v < 0 {
		return 0
	}
	return v
}
