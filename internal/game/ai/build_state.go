package ai

import (
	"github.com/cory-johannsen/witchery/internal/game/combat"
	"github.com/cory-johannsen/witchery/internal/game/element"
)

// BuildScriptState converts ws into the plain table handed to Lua policies.
//
// Roster and move indexes are 1-based, matching Lua conventions. Matchup
// flags are precomputed against the opponent under the current weather.
//
// Postcondition: the result contains only values scripting.ToLua accepts.
func BuildScriptState(tbl *element.Table, ws *WorldState) map[string]any {
	rule := ws.Rule()
	opp := ws.Opponent.Element
	self := ws.Active()

	moves := make([]any, 0, len(self.Moves))
	for i, mv := range self.Moves {
		power := 0
		for _, s := range mv.Move.Steps {
			power += s.Power
		}
		moves = append(moves, map[string]any{
			"index":         i + 1,
			"name":          mv.Move.Name,
			"element":       string(mv.Move.Element),
			"power":         power,
			"barrier":       mv.Move.IsBarrier(),
			"sets_weather":  mv.Move.SetsWeather(),
			"usable":        mv.Usable,
			"uses":          mv.Uses,
			"advantaged":    tbl.HasAdvantage(mv.Move.Element, opp, rule),
			"disadvantaged": tbl.HasDisadvantage(mv.Move.Element, opp, rule),
		})
	}

	bench := make([]any, 0, len(ws.Self.Roster))
	for _, i := range ws.LivingBench() {
		c := ws.Self.Roster[i]
		bench = append(bench, map[string]any{
			"index":         i + 1,
			"name":          c.Name,
			"element":       string(c.Element),
			"hp":            c.HP,
			"max_hp":        c.MaxHP,
			"advantaged":    tbl.HasAdvantage(c.Element, opp, rule),
			"disadvantaged": tbl.HasDisadvantage(c.Element, opp, rule),
		})
	}

	selfTbl := combatantState(self)
	selfTbl["moves"] = moves
	selfTbl["disadvantaged"] = tbl.HasDisadvantage(self.Element, opp, rule)

	state := map[string]any{
		"round":      ws.Round,
		"side":       ws.Side.String(),
		"must_swap":  ws.Self.MustSwap,
		"can_switch": ws.CanSwitch(),
		"last_move":  ws.Self.LastMove,
		"self":       selfTbl,
		"opponent":   combatantState(ws.Opponent),
		"bench":      bench,
	}
	if ws.Weather != nil {
		state["weather"] = map[string]any{
			"kind":     ws.Weather.Kind.String(),
			"duration": ws.Weather.Duration,
			"element":  string(ws.Weather.Element),
		}
	}
	return state
}

func combatantState(c combat.CombatantView) map[string]any {
	effects := make([]string, 0, len(c.Effects))
	for _, e := range c.Effects {
		effects = append(effects, e.Kind.String())
	}
	return map[string]any{
		"name":     c.Name,
		"element":  string(c.Element),
		"hp":       c.HP,
		"max_hp":   c.MaxHP,
		"can_swap": c.CanSwap,
		"effects":  effects,
	}
}
