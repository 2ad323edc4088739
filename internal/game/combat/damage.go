package combat

import (
	"math"

	"github.com/cory-johannsen/witchery/internal/game/element"
	"github.com/cory-johannsen/witchery/internal/game/move"
	"github.com/cory-johannsen/witchery/internal/game/weather"
)

// CritMultiplier scales a critical hit.
const CritMultiplier = 1.5

// Roller is the randomness the resolver needs. *dice.Roller satisfies it.
type Roller interface {
	// Percent reports whether a roll in [0, 100) falls below chance.
	Percent(purpose string, chance float64) bool
	// CoinFlip returns 0 or 1.
	CoinFlip(purpose string) int
}

// DamageInput gathers the operands of one damage calculation.
type DamageInput struct {
	Attacker *Combatant
	Defender *Combatant
	Move     *move.Move
	Step     move.SubMove
	Weather  weather.Kind
	// K is the damage constant; non-positive selects DefaultDamageConstant.
	K int
}

// ElementModifier returns the product of the attacker-vs-defender and
// move-vs-defender element modifiers under rule.
//
// Postcondition: result is one of 4, 2, 1, 0.5 or 0.25.
func ElementModifier(tbl *element.Table, attacker, mv, defender element.Element, rule element.Rule) float64 {
	return tbl.Modifier(attacker, defender, rule) * tbl.Modifier(mv, defender, rule)
}

// ComputeDamage computes the damage one step deals.
//
// raw = power/100 * attack * K / max(defense, 1) * elementModifier, times
// CritMultiplier when the precision/10 critical roll succeeds.
//
// Precondition: in.Attacker, in.Defender and in.Move must be non-nil; r must be non-nil.
// Postcondition: 0 <= amount <= in.Defender.HP(). No state is mutated.
func ComputeDamage(tbl *element.Table, in DamageInput, r Roller) (amount int, crit bool) {
	if in.Step.Power <= 0 {
		return 0, false
	}
	k := in.K
	if k <= 0 {
		k = DefaultDamageConstant
	}
	atk := in.Attacker.Modified(in.Weather)
	def := in.Defender.Modified(in.Weather)

	raw := float64(in.Step.Power) / 100 * float64(atk.Attack) * float64(k) / float64(max(def.Defense, 1))
	raw *= ElementModifier(tbl, in.Attacker.Element(), in.Move.Element, in.Defender.Element(), in.Weather.ElementRule())

	if r.Percent("critical "+in.Move.Name, float64(atk.Precision)/10) {
		raw *= CritMultiplier
		crit = true
	}

	amount = int(math.Round(raw))
	if amount > in.Defender.HP() {
		amount = in.Defender.HP()
	}
	if amount < 0 {
		amount = 0
	}
	return amount, crit
}
