package ai_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/witchery/internal/game/ai"
	"github.com/cory-johannsen/witchery/internal/game/combat"
	"github.com/cory-johannsen/witchery/internal/game/element"
	"github.com/cory-johannsen/witchery/internal/game/weather"
)

func TestChooseMove_SwapsWhenDisadvantaged(t *testing.T) {
	self := unit("F", fire, 100, hitMoves()...)
	d := ai.ChooseMove(table(t), self, water, nil, true)
	assert.True(t, d.Swap)

	d = ai.ChooseMove(table(t), self, water, nil, false)
	assert.False(t, d.Swap, "no swap when switching is illegal")
}

func TestChooseMove_PrefersWeatherWhenNoneActive(t *testing.T) {
	self := unit("V", void, 100, mv("Strike", void, 50), weatherMove("Fog Call", void, weather.Fog))
	d := ai.ChooseMove(table(t), self, fire, nil, true)
	assert.Equal(t, ai.Decision{Move: 1}, d)

	expiring := &weather.Condition{Kind: weather.Fog, Duration: 1}
	assert.Equal(t, ai.Decision{Move: 1}, ai.ChooseMove(table(t), self, fire, expiring, true))

	lasting := &weather.Condition{Kind: weather.Fog, Duration: 3}
	assert.Equal(t, ai.Decision{Move: 0}, ai.ChooseMove(table(t), self, fire, lasting, true))
}

func TestChooseMove_SkipsUnusableWeatherMove(t *testing.T) {
	self := unit("V", void, 100, mv("Strike", void, 50), weatherMove("Fog Call", void, weather.Fog))
	self.Moves[1].Usable = false
	assert.Equal(t, ai.Decision{Move: 0}, ai.ChooseMove(table(t), self, fire, nil, true))
}

func TestChooseMove_AdvantagedThenNeutral(t *testing.T) {
	self := unit("V", void, 100, hitMoves()...)
	// Against fire: Splash (water) has advantage.
	assert.Equal(t, ai.Decision{Move: 1}, ai.ChooseMove(table(t), self, fire, nil, true))

	self.Moves[1].Usable = false
	// Ember vs fire is neutral and comes first.
	assert.Equal(t, ai.Decision{Move: 0}, ai.ChooseMove(table(t), self, fire, nil, true))
}

func TestChooseMove_InvertedWeatherFlipsPreference(t *testing.T) {
	self := unit("V", void, 100, hitMoves()...)
	mirage := &weather.Condition{Kind: weather.Mirage, Duration: 4}
	// Inverted: nature (normally weak to fire) becomes advantaged against fire.
	assert.Equal(t, ai.Decision{Move: 2}, ai.ChooseMove(table(t), self, fire, mirage, true))
}

func TestChooseMove_FallsBackToFirstMove(t *testing.T) {
	self := unit("V", void, 100, mv("Ember", fire, 60), mv("Vine", nature, 60))
	for i := range self.Moves {
		self.Moves[i].Usable = false
	}
	assert.Equal(t, ai.Decision{Move: 0}, ai.ChooseMove(table(t), self, water, nil, true))
}

func TestSwapTarget_Chain(t *testing.T) {
	tbl := table(t)
	opp := unit("Opp", fire, 100, hitMoves()...)

	roster := []combat.CombatantView{
		unit("Active", nature, 100, hitMoves()...),
		unit("Neutral", void, 100, hitMoves()...),
		unit("Strong", water, 100, hitMoves()...),
	}
	ws := ai.BuildWorldState(snapshot(0, roster, opp, nil), combat.SideA)
	assert.Equal(t, 2, ai.SwapTarget(tbl, ws), "advantaged member first")

	roster[2].HP = 0
	ws = ai.BuildWorldState(snapshot(0, roster, opp, nil), combat.SideA)
	assert.Equal(t, 1, ai.SwapTarget(tbl, ws), "then not disadvantaged")

	roster[1].Element = nature
	ws = ai.BuildWorldState(snapshot(0, roster, opp, nil), combat.SideA)
	assert.Equal(t, 1, ai.SwapTarget(tbl, ws), "then any living")

	roster[1].HP = 0
	ws = ai.BuildWorldState(snapshot(0, roster, opp, nil), combat.SideA)
	assert.Equal(t, 1, ai.SwapTarget(tbl, ws), "then the next index")
}

func TestWorldState_CanSwitch(t *testing.T) {
	opp := unit("Opp", fire, 100, hitMoves()...)
	roster := []combat.CombatantView{unit("A", fire, 100, hitMoves()...), unit("B", water, 0, hitMoves()...)}
	ws := ai.BuildWorldState(snapshot(0, roster, opp, nil), combat.SideA)
	assert.False(t, ws.CanSwitch(), "bench fainted")

	roster[1].HP = 10
	ws = ai.BuildWorldState(snapshot(0, roster, opp, nil), combat.SideA)
	assert.True(t, ws.CanSwitch())

	roster[0].CanSwap = false
	ws = ai.BuildWorldState(snapshot(0, roster, opp, nil), combat.SideA)
	assert.False(t, ws.CanSwitch(), "trapped")
}

func TestPropertyChooseMove_IndexInRange(t *testing.T) {
	tbl := table(t)
	elems := []element.Element{fire, water, nature, void}
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(1, 4).Draw(rt, "moves")
		self := unit("S", rapid.SampledFrom(elems).Draw(rt, "self"), 100)
		for i := 0; i < n; i++ {
			self.Moves = append(self.Moves, combat.MoveView{
				Move:   mv("m", rapid.SampledFrom(elems).Draw(rt, "el"), 50),
				Usable: rapid.Bool().Draw(rt, "usable"),
			})
		}
		opp := rapid.SampledFrom(elems).Draw(rt, "opp")
		d := ai.ChooseMove(tbl, self, opp, nil, rapid.Bool().Draw(rt, "switch"))
		if d.Swap {
			return
		}
		assert.GreaterOrEqual(rt, d.Move, 0)
		assert.Less(rt, d.Move, n)
		if self.Moves[d.Move].Usable {
			return
		}
		assert.Equal(rt, 0, d.Move, "an unusable choice is only the move 0 fallback")
		for i, m := range self.Moves {
			if m.Usable {
				assert.True(rt, tbl.HasDisadvantage(m.Move.Element, opp, element.Normal),
					"usable move %d is not disadvantaged but was passed over", i)
			}
		}
	})
}

func TestChooseMove_FallsBackToFirstMoveRegardlessOfLegality(t *testing.T) {
	tbl := table(t)
	self := unit("S", fire, 100)
	self.Moves = []combat.MoveView{
		{Move: mv("Vine", nature, 60), Usable: false},
		{Move: mv("Splash", water, 60), Usable: true},
	}
	d := ai.ChooseMove(tbl, self, nature, nil, false)
	assert.Equal(t, ai.Decision{Move: 0}, d, "only a disadvantaged move is usable, so move 0 is returned")
}
