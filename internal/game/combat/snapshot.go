package combat

import (
	"github.com/cory-johannsen/witchery/internal/game/effect"
	"github.com/cory-johannsen/witchery/internal/game/element"
	"github.com/cory-johannsen/witchery/internal/game/move"
	"github.com/cory-johannsen/witchery/internal/game/stats"
	"github.com/cory-johannsen/witchery/internal/game/weather"
)

// EffectView is a read-only copy of one active effect.
type EffectView struct {
	Kind      effect.Kind
	Remaining int
	Polarity  effect.Polarity
}

// MoveView is a read-only copy of one move slot.
type MoveView struct {
	// Move is shared with the catalog and must not be modified.
	Move   *move.Move
	Uses   int
	Usable bool
}

// CombatantView is a read-only copy of one combatant for display and AI.
type CombatantView struct {
	Handle       Handle
	Name         string
	Element      element.Element
	HP           int
	MaxHP        int
	Stats        stats.Stats
	Trinket      stats.Trinket
	ResourceRate int
	UsageCap     int
	CanSwap      bool
	Effects      []EffectView
	Moves        []MoveView
}

// Fainted reports whether the viewed combatant is at 0 HP.
func (v CombatantView) Fainted() bool { return v.HP <= 0 }

// SideView is a read-only copy of one player.
type SideView struct {
	Side      Side
	Active    int
	Roster    []CombatantView
	MustSwap  bool
	Submitted bool
	LastMove  string
}

// ActiveView returns the active combatant's view.
func (v SideView) ActiveView() CombatantView { return v.Roster[v.Active] }

// Snapshot is a deep, read-only copy of a battle.
type Snapshot struct {
	Round   int
	State   State
	Weather *weather.Condition
	Sides   [2]SideView
	Winner  *Side
	Forfeit bool
}

// Snapshot copies the battle's observable state.
//
// Postcondition: the result shares no mutable state with b.
func (b *Battle) Snapshot() Snapshot {
	w := weather.KindOf(b.weather)
	snap := Snapshot{
		Round:   b.round,
		State:   b.state,
		Weather: b.Weather(),
		Forfeit: b.forfeit,
	}
	if b.winner != nil {
		win := *b.winner
		snap.Winner = &win
	}
	for _, s := range Sides {
		p := b.players[s]
		sv := SideView{
			Side:      s,
			Active:    p.Active,
			MustSwap:  b.mustSwap[s],
			Submitted: b.pending[s] != nil,
			LastMove:  b.lastMove[s],
		}
		for _, h := range p.Roster {
			sv.Roster = append(sv.Roster, b.view(h, w))
		}
		snap.Sides[s] = sv
	}
	return snap
}

func (b *Battle) view(h Handle, w weather.Kind) CombatantView {
	c := b.arena[h]
	v := CombatantView{
		Handle:       h,
		Name:         c.name,
		Element:      c.Element(),
		HP:           c.hp,
		MaxHP:        c.MaxHP(),
		Stats:        c.Modified(w),
		Trinket:      c.Trinket(),
		ResourceRate: c.ResourceRate(),
		UsageCap:     c.UsageCap(),
		CanSwap:      !c.effects.PreventsSwap(),
	}
	for _, inst := range c.effects.All() {
		v.Effects = append(v.Effects, EffectView{Kind: inst.Kind, Remaining: inst.Remaining, Polarity: inst.Polarity})
	}
	for i, slot := range c.moves {
		v.Moves = append(v.Moves, MoveView{Move: slot.Move, Uses: slot.Uses, Usable: c.CanUse(i)})
	}
	return v
}
