package combat

import (
	"fmt"
	"math"

	"github.com/cory-johannsen/witchery/internal/game/catalog"
	"github.com/cory-johannsen/witchery/internal/game/effect"
	"github.com/cory-johannsen/witchery/internal/game/element"
	"github.com/cory-johannsen/witchery/internal/game/move"
	"github.com/cory-johannsen/witchery/internal/game/stats"
	"github.com/cory-johannsen/witchery/internal/game/weather"
)

// Handle addresses a combatant in a battle's arena. Handles are stable for the
// lifetime of the battle.
type Handle int

// Combatant is one fighter owned by a battle. Exported methods only read
// state; every mutation goes through the owning Battle.
type Combatant struct {
	name    string
	element element.Element
	base    stats.Stats
	nature  stats.Modifiers
	trinket stats.Trinket

	trinketOverride *stats.Trinket
	elementOverride element.Element

	hp      int
	effects *effect.Set
	moves   []move.Slot
}

// NewCombatant builds a combatant from def, resolving its nature and moves
// against cat.
//
// Precondition: cat and def must be non-nil.
// Postcondition: the combatant is at full HP with no effects and zeroed use counters.
func NewCombatant(cat *catalog.Catalog, def *catalog.CombatantDef, maxEffects int) (*Combatant, error) {
	nat, err := cat.Nature(def.Nature)
	if err != nil {
		return nil, fmt.Errorf("combatant %q: %w", def.Name, err)
	}
	slots := make([]move.Slot, 0, len(def.Moves))
	for _, name := range def.Moves {
		m, err := cat.Move(name)
		if err != nil {
			return nil, fmt.Errorf("combatant %q: %w", def.Name, err)
		}
		slots = append(slots, move.Slot{Move: m})
	}
	c := &Combatant{
		name:    def.Name,
		element: def.Element,
		base:    def.Stats,
		nature:  nat.Modifiers,
		trinket: def.Trinket,
		effects: effect.NewSet(maxEffects),
		moves:   slots,
	}
	c.hp = c.MaxHP()
	return c, nil
}

// Name returns the combatant's name.
func (c *Combatant) Name() string { return c.name }

// Element returns the element override if set, otherwise the combatant's own element.
func (c *Combatant) Element() element.Element {
	if c.elementOverride != "" {
		return c.elementOverride
	}
	return c.element
}

// Trinket returns the battle-scoped override if set, otherwise the equipped trinket.
func (c *Combatant) Trinket() stats.Trinket {
	if c.trinketOverride != nil {
		return *c.trinketOverride
	}
	return c.trinket
}

// Base returns the unmodified stat block.
func (c *Combatant) Base() stats.Stats { return c.base }

// HP returns current HP.
func (c *Combatant) HP() int { return c.hp }

// Fainted reports whether HP is 0.
func (c *Combatant) Fainted() bool { return c.hp <= 0 }

// Modified returns derived stats under weather w. Never cached.
//
// Postcondition: every field is >= 0.
func (c *Combatant) Modified(w weather.Kind) stats.Stats {
	return stats.Modified(stats.Input{
		Base:      c.base,
		Effects:   c.effects.Modifiers(),
		Nature:    c.nature,
		Trinket:   c.Trinket(),
		CurrentHP: c.hp,
	}, w)
}

// MaxHP returns the modified max HP. Weather never alters health.
func (c *Combatant) MaxHP() int { return c.Modified(weather.None).Health }

// Effects returns the active effect instances in duration order.
func (c *Combatant) Effects() []*effect.Instance { return c.effects.All() }

// HasEffect reports whether an instance of k is active.
func (c *Combatant) HasEffect(k effect.Kind) bool { return c.effects.Has(k) }

// ResourceRate returns how many usage points each move use costs.
func (c *Combatant) ResourceRate() int { return c.effects.ResourceRate() }

// UsageCap returns the per-move usage cap derived from the resource stat.
func (c *Combatant) UsageCap() int { return move.UsageCap(c.base.Resistance) }

// Moves returns a copy of the move slots.
func (c *Combatant) Moves() []move.Slot {
	out := make([]move.Slot, len(c.moves))
	copy(out, c.moves)
	return out
}

// CanUse reports whether the move at i exists and is within its usage cap.
func (c *Combatant) CanUse(i int) bool {
	if i < 0 || i >= len(c.moves) {
		return false
	}
	return c.moves[i].Usable(c.ResourceRate(), c.UsageCap())
}

// damage lowers HP by amount, flooring at zero, and returns the HP actually lost.
//
// Precondition: amount >= 0.
func (c *Combatant) damage(amount int) int {
	if amount > c.hp {
		amount = c.hp
	}
	c.hp -= amount
	return amount
}

// heal raises HP by amount, capped at MaxHP, and returns the HP actually gained.
func (c *Combatant) heal(amount int) int {
	room := c.MaxHP() - c.hp
	if amount > room {
		amount = room
	}
	if amount < 0 {
		amount = 0
	}
	c.hp += amount
	return amount
}

// percentOfMax returns pct% of MaxHP, rounded, at least 1 when pct > 0.
func (c *Combatant) percentOfMax(pct int) int {
	v := int(math.Round(float64(c.MaxHP()) * float64(pct) / 100))
	if v < 1 && pct > 0 {
		return 1
	}
	return v
}

func (c *Combatant) clampHP() {
	if limit := c.MaxHP(); c.hp > limit {
		c.hp = limit
	}
}

// reset clears battle-scoped state.
//
// Postcondition: no effects or overrides; every use counter is 0; HP == MaxHP().
func (c *Combatant) reset() {
	c.effects.Clear()
	c.trinketOverride = nil
	c.elementOverride = ""
	for i := range c.moves {
		c.moves[i].Uses = 0
	}
	c.hp = c.MaxHP()
}
