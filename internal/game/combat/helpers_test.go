package combat_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/witchery/internal/game/catalog"
	"github.com/cory-johannsen/witchery/internal/game/combat"
	"github.com/cory-johannsen/witchery/internal/game/effect"
	"github.com/cory-johannsen/witchery/internal/game/element"
	"github.com/cory-johannsen/witchery/internal/game/move"
	"github.com/cory-johannsen/witchery/internal/game/stats"
	"github.com/cory-johannsen/witchery/internal/game/weather"
)

// fixedRoller answers every percent roll with hit (never for chance <= 0)
// and every coin flip with coin.
type fixedRoller struct {
	hit  bool
	coin int
}

func (f fixedRoller) Percent(_ string, chance float64) bool { return f.hit && chance > 0 }
func (f fixedRoller) CoinFlip(_ string) int                 { return f.coin }

func hit(power int) move.SubMove { return move.SubMove{Power: power, Chance: 100} }

func onOpponent(k effect.Kind) move.SubMove { return move.SubMove{Effect: k, Chance: 100} }

func onSelf(k effect.Kind) move.SubMove {
	return move.SubMove{Effect: k, Range: move.Self, Chance: 100}
}

func statBlock(health, attack, defense, agility int) stats.Stats {
	return stats.Stats{Health: health, Attack: attack, Defense: defense, Agility: agility, Resistance: 50}
}

func testContent() catalog.Content {
	return catalog.Content{
		Elements: []element.Def{
			{Name: "fire", Strengths: []element.Element{"nature"}, Weaknesses: []element.Element{"water"}},
			{Name: "water", Strengths: []element.Element{"fire"}, Weaknesses: []element.Element{"nature"}},
			{Name: "nature", Strengths: []element.Element{"water"}, Weaknesses: []element.Element{"fire"}},
			{Name: "void"},
		},
		Moves: []*move.Move{
			{Name: "Strike", Element: "void", Steps: []move.SubMove{hit(100)}},
			{Name: "Flame", Element: "fire", Steps: []move.SubMove{hit(100)}},
			{Name: "Ward", Element: "void", Category: move.Barrier, Steps: []move.SubMove{{Range: move.Self, Chance: 100}}},
			{Name: "Double", Element: "void", Steps: []move.SubMove{hit(50), hit(50)}},
			{Name: "Hex", Element: "void", Steps: []move.SubMove{onOpponent(effect.Poison)}},
			{Name: "Bomb", Element: "void", Steps: []move.SubMove{onOpponent(effect.Bomb)}},
			{Name: "Snare", Element: "void", Steps: []move.SubMove{onOpponent(effect.Trapped)}},
			{Name: "Rites", Element: "void", Steps: []move.SubMove{onSelf(effect.Revive)}},
			{Name: "Mend", Element: "void", Steps: []move.SubMove{{Range: move.Self, Heal: 50, Chance: 100}}},
			{Name: "Curse", Element: "void", Steps: []move.SubMove{onOpponent(effect.Curse)}},
			{Name: "Fog Call", Element: "water", Steps: []move.SubMove{{Weather: weather.Fog, Chance: 100}}},
			{Name: "Mirage", Element: "void", Steps: []move.SubMove{{Weather: weather.Mirage, Chance: 100}}},
		},
		Combatants: []*catalog.CombatantDef{
			{Name: "Brute", Element: "void", Stats: statBlock(100, 100, 50, 50), Moves: []string{"Strike", "Ward", "Double", "Hex"}},
			{Name: "Titan", Element: "void", Stats: statBlock(100, 400, 50, 90), Moves: []string{"Strike", "Snare", "Bomb", "Rites"}},
			{Name: "Slug", Element: "void", Stats: statBlock(100, 100, 50, 10), Moves: []string{"Strike", "Ward", "Mend", "Curse"}},
			{Name: "Pyro", Element: "fire", Stats: statBlock(200, 100, 50, 50), Moves: []string{"Flame", "Strike", "Fog Call", "Mirage"}},
			{Name: "Mystic", Element: "void", Stats: statBlock(500, 100, 50, 50), Moves: []string{"Fog Call", "Mirage", "Ward", "Strike"}},
			{Name: "Stone", Element: "void", Stats: stats.Stats{Health: 500, Attack: 100, Defense: 50, Agility: 50, Resistance: 100}, Moves: []string{"Strike"}},
			{Name: "Oak", Element: "nature", Stats: statBlock(500, 100, 50, 50), Moves: []string{"Strike"}},
			{Name: "Poor", Element: "void", Stats: stats.Stats{Health: 100, Attack: 100, Defense: 50, Agility: 50, Resistance: 10}, Moves: []string{"Strike"}},
		},
	}
}

func newCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.New(testContent())
	require.NoError(t, err)
	return cat
}

func newBattle(t *testing.T, a, b []string, r combat.Roller) *combat.Battle {
	t.Helper()
	bt, err := combat.NewBattle(newCatalog(t), a, b, combat.WithRoller(r))
	require.NoError(t, err)
	return bt
}

func kinds(events []combat.Event) []combat.EventKind {
	out := make([]combat.EventKind, 0, len(events))
	for _, e := range events {
		out = append(out, e.Kind)
	}
	return out
}

func find(events []combat.Event, k combat.EventKind) (combat.Event, bool) {
	for _, e := range events {
		if e.Kind == k {
			return e, true
		}
	}
	return combat.Event{}, false
}

func combatantOf(t *testing.T, cat *catalog.Catalog, name string) *combat.Combatant {
	t.Helper()
	def, err := cat.Combatant(name)
	require.NoError(t, err)
	c, err := combat.NewCombatant(cat, def, effect.DefaultMaxActive)
	require.NoError(t, err)
	return c
}
