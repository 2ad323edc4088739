// Package ai chooses battle actions for sides without a human player.
//
// The built-in heuristic follows a fixed priority chain; scripted policies
// delegate the choice to a Lua hook and fall back to the heuristic.
package ai

import (
	"github.com/cory-johannsen/witchery/internal/game/combat"
	"github.com/cory-johannsen/witchery/internal/game/element"
	"github.com/cory-johannsen/witchery/internal/game/weather"
)

// Decision is the selector's choice: a swap request or a move index.
type Decision struct {
	Swap bool
	Move int
}

// ChooseMove picks self's action against an opponent of element opponent.
//
// Priority: (1) swap when self is disadvantaged and canSwitch; (2) a usable
// weather move when no weather is active or it is about to expire; (3) the
// first usable advantaged move; (4) the first usable move that is not
// disadvantaged; (5) move 0.
//
// Precondition: tbl must be non-nil and self must have at least one move.
func ChooseMove(tbl *element.Table, self combat.CombatantView, opponent element.Element, w *weather.Condition, canSwitch bool) Decision {
	rule := weather.KindOf(w).ElementRule()

	if canSwitch && tbl.HasDisadvantage(self.Element, opponent, rule) {
		return Decision{Swap: true}
	}

	if w == nil || w.Duration <= 1 {
		for i, mv := range self.Moves {
			if mv.Usable && mv.Move.SetsWeather() {
				return Decision{Move: i}
			}
		}
	}

	for i, mv := range self.Moves {
		if mv.Usable && tbl.HasAdvantage(mv.Move.Element, opponent, rule) {
			return Decision{Move: i}
		}
	}

	for i, mv := range self.Moves {
		if mv.Usable && !tbl.HasDisadvantage(mv.Move.Element, opponent, rule) {
			return Decision{Move: i}
		}
	}

	return Decision{Move: 0}
}

// SwapTarget picks the roster slot to bring in.
//
// Preference: a living bench member advantaged against the opponent, then one
// not disadvantaged, then any living member, then the next roster index.
func SwapTarget(tbl *element.Table, ws *WorldState) int {
	bench := ws.LivingBench()
	rule := ws.Rule()
	opp := ws.Opponent.Element

	for _, i := range bench {
		if tbl.HasAdvantage(ws.Self.Roster[i].Element, opp, rule) {
			return i
		}
	}
	for _, i := range bench {
		if !tbl.HasDisadvantage(ws.Self.Roster[i].Element, opp, rule) {
			return i
		}
	}
	if len(bench) > 0 {
		return bench[0]
	}
	return (ws.Self.Active + 1) % len(ws.Self.Roster)
}
