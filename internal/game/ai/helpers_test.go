package ai_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/witchery/internal/game/combat"
	"github.com/cory-johannsen/witchery/internal/game/element"
	"github.com/cory-johannsen/witchery/internal/game/move"
	"github.com/cory-johannsen/witchery/internal/game/weather"
)

const (
	fire   element.Element = "fire"
	water  element.Element = "water"
	nature element.Element = "nature"
	void   element.Element = "void"
)

func table(t testing.TB) *element.Table {
	t.Helper()
	tbl, err := element.NewTable([]element.Def{
		{Name: fire, Strengths: []element.Element{nature}, Weaknesses: []element.Element{water}},
		{Name: water, Strengths: []element.Element{fire}, Weaknesses: []element.Element{nature}},
		{Name: nature, Strengths: []element.Element{water}, Weaknesses: []element.Element{fire}},
		{Name: void},
	})
	require.NoError(t, err)
	return tbl
}

func mv(name string, e element.Element, power int) *move.Move {
	return &move.Move{Name: name, Element: e, Steps: []move.SubMove{{Power: power, Range: move.Opponent, Chance: 100}}}
}

func weatherMove(name string, e element.Element, k weather.Kind) *move.Move {
	return &move.Move{Name: name, Element: e, Steps: []move.SubMove{{Range: move.Self, Chance: 100, Weather: k}}}
}

func barrierMove(name string, e element.Element) *move.Move {
	return &move.Move{Name: name, Element: e, Category: move.Barrier, Steps: []move.SubMove{{Range: move.Self, Chance: 100}}}
}

func unit(name string, e element.Element, hp int, moves ...*move.Move) combat.CombatantView {
	v := combat.CombatantView{Name: name, Element: e, HP: hp, MaxHP: 100, CanSwap: true}
	for _, m := range moves {
		v.Moves = append(v.Moves, combat.MoveView{Move: m, Usable: true})
	}
	return v
}

// snapshot places self's roster on side A and opp as B's only combatant.
func snapshot(active int, roster []combat.CombatantView, opp combat.CombatantView, w *weather.Condition) combat.Snapshot {
	return combat.Snapshot{
		Round:   1,
		Weather: w,
		Sides: [2]combat.SideView{
			{Side: combat.SideA, Active: active, Roster: roster},
			{Side: combat.SideB, Roster: []combat.CombatantView{opp}},
		},
	}
}

func hitMoves() []*move.Move {
	return []*move.Move{mv("Ember", fire, 60), mv("Splash", water, 60), mv("Vine", nature, 60)}
}
