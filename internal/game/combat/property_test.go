package combat_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/witchery/internal/game/combat"
	"github.com/cory-johannsen/witchery/internal/game/dice"
)

var rosterPool = []string{"Brute", "Titan", "Slug", "Pyro", "Mystic", "Stone", "Oak", "Poor"}

// legalAction picks a random legal action for side, or reports none exists.
func legalAction(rt *rapid.T, view combat.SideView, label string) (combat.Action, bool) {
	var options []combat.Action
	if !view.MustSwap {
		for i, m := range view.ActiveView().Moves {
			if m.Usable {
				options = append(options, combat.UseMove(i))
			}
		}
	}
	for i, c := range view.Roster {
		if i != view.Active && !c.Fainted() {
			options = append(options, combat.SwapTo(i))
		}
	}
	if len(options) == 0 {
		return combat.Action{}, false
	}
	return rapid.SampledFrom(options).Draw(rt, label), true
}

func TestPropertyBattle_HPAndStatsStayInRange(t *testing.T) {
	cat := newCatalog(t)
	rapid.Check(t, func(rt *rapid.T) {
		teamA := rapid.SliceOfN(rapid.SampledFrom(rosterPool), 1, combat.MaxRoster).Draw(rt, "teamA")
		teamB := rapid.SliceOfN(rapid.SampledFrom(rosterPool), 1, combat.MaxRoster).Draw(rt, "teamB")
		seed := rapid.Uint64().Draw(rt, "seed")
		b, err := combat.NewBattle(cat, teamA, teamB,
			combat.WithRoller(dice.NewLoggedRoller(dice.NewSeededSource(seed), nil)))
		require.NoError(rt, err)

		for round := 0; round < 40 && !b.Over(); round++ {
			snap := b.Snapshot()
			for _, s := range combat.Sides {
				if !snap.Sides[s].MustSwap {
					continue
				}
				a, ok := legalAction(rt, snap.Sides[s], "forced")
				require.True(rt, ok, "a side that must swap always has a living bench member")
				_, err := b.Submit(s, a)
				require.NoError(rt, err)
			}

			snap = b.Snapshot()
			var acts [2]combat.Action
			stuck := false
			for _, s := range combat.Sides {
				a, ok := legalAction(rt, snap.Sides[s], "action")
				if !ok {
					b.Forfeit(s)
					stuck = true
					break
				}
				acts[s] = a
			}
			if stuck {
				break
			}
			_, err := b.ResolveRound(acts[0], acts[1])
			require.NoError(rt, err)

			for _, s := range combat.Sides {
				for _, h := range b.Player(s).Roster {
					c := b.Combatant(h)
					assert.GreaterOrEqual(rt, c.HP(), 0)
					assert.LessOrEqual(rt, c.HP(), c.MaxHP())
					assert.LessOrEqual(rt, len(c.Effects()), 3)
					st := c.Modified(0)
					assert.GreaterOrEqual(rt, st.Attack, 0)
					assert.GreaterOrEqual(rt, st.Defense, 0)
					assert.GreaterOrEqual(rt, st.Agility, 0)
					assert.GreaterOrEqual(rt, st.Precision, 0)
				}
			}
		}

		if winner, ok := b.Winner(); ok && !b.Forfeited() {
			loser := winner.Opponent()
			for _, h := range b.Player(loser).Roster {
				assert.Zero(rt, b.Combatant(h).HP())
			}
		}
	})
}
