// Package effect implements the status effect ("hex") registry: the closed set
// of effect kinds with their fixed parameters, and the per-combatant Set that
// applies, stacks, ticks and expires them.
package effect

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/witchery/internal/game/stats"
)

// Permanent marks an instance that never expires by ticking.
const Permanent = -1

// Polarity tells beneficial effects from harmful ones.
type Polarity int

const (
	Positive Polarity = iota
	Negative
)

// String returns "positive" or "negative".
func (p Polarity) String() string {
	if p == Negative {
		return "negative"
	}
	return "positive"
}

// Kind identifies one effect. The zero value is intentionally invalid.
type Kind int

const (
	KindUnknown Kind = iota
	AttackUp
	AttackDown
	DefenseUp
	DefenseDown
	AgilityUp
	AgilityDown
	PrecisionUp
	PrecisionDown
	Poison
	Haunt
	Regeneration
	Bomb
	Blessing
	Curse
	Energized
	Fatigued
	Trapped
	Revive
)

// Def holds the fixed parameters of one Kind.
type Def struct {
	Kind     Kind
	Name     string
	Duration int // rounds; Permanent for effects consumed by an event
	Polarity Polarity
	// Magnitude is the periodic damage as a percentage of max HP; negative heals.
	Magnitude int
	Opposite  Kind
	Stat      stats.Stat
	StatDelta int
	// ResourceRate replaces the holder's resource-use rate while active; 0 leaves it unchanged.
	ResourceRate   int
	FinalTickOnly  bool
	Restores       bool
	ClearsNegative bool
	BlocksNegative bool
	BlocksHealing  bool
	PreventsSwap   bool
	RevivesOnFaint bool
}

// Periodic reports whether the effect changes HP when ticked.
func (d Def) Periodic() bool { return d.Magnitude != 0 }

var defs = map[Kind]Def{
	AttackUp:      {Name: "attack_up", Duration: 3, Polarity: Positive, Stat: stats.Attack, StatDelta: 15},
	AttackDown:    {Name: "attack_down", Duration: 3, Polarity: Negative, Stat: stats.Attack, StatDelta: -15},
	DefenseUp:     {Name: "defense_up", Duration: 3, Polarity: Positive, Stat: stats.Defense, StatDelta: 15},
	DefenseDown:   {Name: "defense_down", Duration: 3, Polarity: Negative, Stat: stats.Defense, StatDelta: -15},
	AgilityUp:     {Name: "agility_up", Duration: 3, Polarity: Positive, Stat: stats.Agility, StatDelta: 15},
	AgilityDown:   {Name: "agility_down", Duration: 3, Polarity: Negative, Stat: stats.Agility, StatDelta: -15},
	PrecisionUp:   {Name: "precision_up", Duration: 3, Polarity: Positive, Stat: stats.Precision, StatDelta: 15},
	PrecisionDown: {Name: "precision_down", Duration: 3, Polarity: Negative, Stat: stats.Precision, StatDelta: -15},
	Poison:        {Name: "poison", Duration: 4, Polarity: Negative, Magnitude: 6},
	Haunt:         {Name: "haunt", Duration: 4, Polarity: Negative, Magnitude: 8, Opposite: Regeneration},
	Regeneration:  {Name: "regeneration", Duration: 4, Polarity: Positive, Magnitude: -6, Opposite: Haunt, Restores: true},
	Bomb:          {Name: "bomb", Duration: 3, Polarity: Negative, Magnitude: 40, FinalTickOnly: true},
	Blessing:      {Name: "blessing", Duration: 3, Polarity: Positive, ClearsNegative: true, BlocksNegative: true},
	Curse:         {Name: "curse", Duration: 4, Polarity: Negative, BlocksHealing: true},
	Energized:     {Name: "energized", Duration: 3, Polarity: Positive, Opposite: Fatigued, ResourceRate: 1},
	Fatigued:      {Name: "fatigued", Duration: 3, Polarity: Negative, Opposite: Energized, ResourceRate: 3},
	Trapped:       {Name: "trapped", Duration: 2, Polarity: Negative, PreventsSwap: true},
	Revive:        {Name: "revive", Duration: Permanent, Polarity: Positive, RevivesOnFaint: true, Restores: true},
}

func init() {
	for k, d := range defs {
		d.Kind = k
		defs[k] = d
	}
}

// Lookup returns the Def for k.
//
// Postcondition: ok is false for KindUnknown and unrecognised values.
func Lookup(k Kind) (Def, bool) {
	d, ok := defs[k]
	return d, ok
}

// Def returns the parameters of k, or a zero Def when k is unknown.
func (k Kind) Def() Def {
	return defs[k]
}

// String returns the effect's content name.
func (k Kind) String() string {
	if d, ok := defs[k]; ok {
		return d.Name
	}
	return "unknown"
}

// ParseKind maps a content name to a Kind.
func ParseKind(s string) (Kind, error) {
	for k, d := range defs {
		if d.Name == s {
			return k, nil
		}
	}
	return KindUnknown, fmt.Errorf("effect: unknown kind %q", s)
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

// All returns every known Kind in declaration order.
func All() []Kind {
	out := make([]Kind, 0, len(defs))
	for k := AttackUp; k <= Revive; k++ {
		out = append(out, k)
	}
	return out
}
