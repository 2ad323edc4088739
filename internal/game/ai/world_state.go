package ai

import (
	"github.com/cory-johannsen/witchery/internal/game/combat"
	"github.com/cory-johannsen/witchery/internal/game/element"
	"github.com/cory-johannsen/witchery/internal/game/weather"
)

// WorldState is one side's view of a battle at decision time.
//
// Invariant: Self.Roster is non-empty and Self.Active indexes into it.
type WorldState struct {
	Round    int
	Side     combat.Side
	Weather  *weather.Condition
	Self     combat.SideView
	Opponent combat.CombatantView
}

// BuildWorldState extracts side's view from snap.
//
// Postcondition: the result shares no mutable state with snap's battle.
func BuildWorldState(snap combat.Snapshot, side combat.Side) *WorldState {
	return &WorldState{
		Round:    snap.Round,
		Side:     side,
		Weather:  snap.Weather,
		Self:     snap.Sides[side],
		Opponent: snap.Sides[side.Opponent()].ActiveView(),
	}
}

// Active returns the deciding side's active combatant.
func (ws *WorldState) Active() combat.CombatantView {
	return ws.Self.ActiveView()
}

// Rule returns the element rule of the current weather.
func (ws *WorldState) Rule() element.Rule {
	return weather.KindOf(ws.Weather).ElementRule()
}

// LivingBench returns the roster indexes of living, non-active combatants.
//
// Postcondition: indexes are ascending.
func (ws *WorldState) LivingBench() []int {
	var out []int
	for i, c := range ws.Self.Roster {
		if i != ws.Self.Active && !c.Fainted() {
			out = append(out, i)
		}
	}
	return out
}

// CanSwitch reports whether a voluntary swap would succeed: a living bench
// member exists and the active combatant is not trapped.
func (ws *WorldState) CanSwitch() bool {
	return ws.Active().CanSwap && len(ws.LivingBench()) > 0
}
