package match_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/cory-johannsen/witchery/internal/game/ai"
	"github.com/cory-johannsen/witchery/internal/game/catalog"
	"github.com/cory-johannsen/witchery/internal/game/combat"
	"github.com/cory-johannsen/witchery/internal/game/dice"
	"github.com/cory-johannsen/witchery/internal/game/element"
	"github.com/cory-johannsen/witchery/internal/game/move"
	"github.com/cory-johannsen/witchery/internal/game/stats"
	"github.com/cory-johannsen/witchery/internal/match"
)

func block(health, resistance int) stats.Stats {
	return stats.Stats{Health: health, Attack: 100, Defense: 50, Agility: 50, Resistance: resistance}
}

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.New(catalog.Content{
		Elements: []element.Def{{Name: "void"}},
		Moves: []*move.Move{
			{Name: "Strike", Element: "void", Steps: []move.SubMove{{Power: 100, Chance: 100}}},
		},
		Combatants: []*catalog.CombatantDef{
			{Name: "Brute", Element: "void", Stats: block(100, 50), Moves: []string{"Strike"}},
			{Name: "Glass", Element: "void", Stats: block(10, 50), Moves: []string{"Strike"}},
			{Name: "Tank", Element: "void", Stats: block(5000, 100), Moves: []string{"Strike"}},
			{Name: "Poor", Element: "void", Stats: block(100, 5), Moves: []string{"Strike"}},
		},
	})
	require.NoError(t, err)
	return cat
}

func seeded() combat.Option {
	return combat.WithRoller(dice.NewLoggedRoller(dice.NewSeededSource(1), nil))
}

func policies(t *testing.T, cat *catalog.Catalog) [2]match.Controller {
	h := ai.NewHeuristic(cat.Elements())
	return [2]match.Controller{match.PolicyController{Policy: h}, match.PolicyController{Policy: h}}
}

type memRecorder struct {
	mu      sync.Mutex
	results []match.Result
	err     error
}

func (m *memRecorder) Record(_ context.Context, r match.Result) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results = append(m.results, r)
	return m.err
}

// fixedController always answers with the same action.
type fixedController struct{ a combat.Action }

func (f fixedController) Action(context.Context, combat.Snapshot, combat.Side) (combat.Action, error) {
	return f.a, nil
}
func (f fixedController) Timed() bool { return false }

func TestRun_PlaysToVictory(t *testing.T) {
	cat := testCatalog(t)
	rec := &memRecorder{}
	r := match.NewRunner(cat, nil, match.WithBattleOptions(seeded()), match.WithRecorder(rec))

	res, err := r.Run(context.Background(), match.Setup{
		Rosters:     [2][]string{{"Brute"}, {"Brute"}},
		Controllers: policies(t, cat),
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, res.ID)
	require.NotNil(t, res.Winner)
	assert.False(t, res.Draw)
	assert.False(t, res.Forfeit)
	assert.Equal(t, 4, res.Rounds, "32 damage a round fells 100 HP in the fourth round")
	require.NotEmpty(t, res.Events)
	assert.Equal(t, combat.EventVictory, res.Events[len(res.Events)-1].Kind)
	assert.False(t, res.Finished.Before(res.Started))

	require.Len(t, rec.results, 1)
	assert.Equal(t, res.ID, rec.results[0].ID)
}

func TestRun_RoundLimitDeclaresDraw(t *testing.T) {
	cat := testCatalog(t)
	r := match.NewRunner(cat, nil, match.WithRoundLimit(3), match.WithBattleOptions(seeded()))
	res, err := r.Run(context.Background(), match.Setup{
		Rosters:     [2][]string{{"Tank"}, {"Tank"}},
		Controllers: policies(t, cat),
	})
	require.NoError(t, err)
	assert.True(t, res.Draw)
	assert.Nil(t, res.Winner)
	assert.Equal(t, 3, res.Rounds)
}

func TestRun_NoLegalActionForfeits(t *testing.T) {
	cat := testCatalog(t)
	r := match.NewRunner(cat, nil, match.WithBattleOptions(seeded()))
	res, err := r.Run(context.Background(), match.Setup{
		Rosters:     [2][]string{{"Poor"}, {"Brute"}},
		Controllers: policies(t, cat),
	})
	require.NoError(t, err)
	assert.True(t, res.Forfeit)
	require.NotNil(t, res.Winner)
	assert.Equal(t, combat.SideB, *res.Winner)
}

func TestRun_ForcedSwap(t *testing.T) {
	cat := testCatalog(t)
	r := match.NewRunner(cat, nil, match.WithBattleOptions(seeded()))
	res, err := r.Run(context.Background(), match.Setup{
		Rosters:     [2][]string{{"Glass", "Tank"}, {"Brute"}},
		Controllers: policies(t, cat),
	})
	require.NoError(t, err)
	var fainted, swapped bool
	for _, e := range res.Events {
		fainted = fainted || (e.Kind == combat.EventFainted && e.Actor == "Glass")
		swapped = swapped || (e.Kind == combat.EventSwapped && e.Target == "Tank")
	}
	assert.True(t, fainted)
	assert.True(t, swapped)
	require.NotNil(t, res.Winner)
	assert.Equal(t, combat.SideA, *res.Winner)
}

func TestRun_RejectedActionUsesFallback(t *testing.T) {
	cat := testCatalog(t)
	core, logs := observer.New(zap.DebugLevel)
	r := match.NewRunner(cat, zap.New(core), match.WithBattleOptions(seeded()))
	res, err := r.Run(context.Background(), match.Setup{
		Rosters:     [2][]string{{"Brute"}, {"Brute"}},
		Controllers: [2]match.Controller{fixedController{a: combat.UseMove(7)}, policies(t, cat)[1]},
	})
	require.NoError(t, err)
	assert.NotNil(t, res.Winner)
	assert.NotZero(t, logs.FilterMessage("rejected submission").Len())
	assert.NotZero(t, logs.FilterMessage("battle event").Len())
}

func TestRun_ExternalTimeoutFallsBack(t *testing.T) {
	cat := testCatalog(t)
	core, logs := observer.New(zap.DebugLevel)
	r := match.NewRunner(cat, zap.New(core),
		match.WithRoundLimit(1),
		match.WithTurnTimeout(20*time.Millisecond),
		match.WithBattleOptions(seeded()),
	)
	ext := match.NewExternalController()
	res, err := r.Run(context.Background(), match.Setup{
		Rosters:     [2][]string{{"Tank"}, {"Tank"}},
		Controllers: [2]match.Controller{ext, policies(t, cat)[1]},
	})
	require.NoError(t, err)
	assert.True(t, res.Draw)
	assert.Equal(t, 1, logs.FilterMessage("controller did not act, using fallback").Len())

	select {
	case p := <-ext.Prompts():
		assert.Equal(t, combat.SideA, p.Side)
		assert.False(t, p.Deadline.IsZero())
	default:
		t.Fatal("expected a prompt")
	}
}

func TestRun_ExternalSubmissions(t *testing.T) {
	cat := testCatalog(t)
	r := match.NewRunner(cat, nil, match.WithTurnTimeout(time.Second), match.WithBattleOptions(seeded()))
	ext := match.NewExternalController()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	var prompts int
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			select {
			case <-ctx.Done():
				return
			case p := <-ext.Prompts():
				prompts++
				a, err := ai.Fallback(p.Snapshot, p.Side)
				if err == nil {
					_ = ext.Submit(a)
				}
			}
		}
	}()

	res, err := r.Run(ctx, match.Setup{
		Rosters:     [2][]string{{"Brute"}, {"Brute"}},
		Controllers: [2]match.Controller{ext, policies(t, cat)[1]},
	})
	cancel()
	<-done
	require.NoError(t, err)
	require.NotNil(t, res.Winner)
	assert.Equal(t, res.Rounds, prompts)
}

func TestRun_ContextCancelled(t *testing.T) {
	cat := testCatalog(t)
	r := match.NewRunner(cat, nil)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	_, err := r.Run(ctx, match.Setup{
		Rosters:     [2][]string{{"Brute"}, {"Brute"}},
		Controllers: [2]match.Controller{match.NewExternalController(), policies(t, cat)[1]},
	})
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestRun_SetupErrors(t *testing.T) {
	cat := testCatalog(t)
	r := match.NewRunner(cat, nil)
	_, err := r.Run(context.Background(), match.Setup{
		Rosters:     [2][]string{{}, {"Brute"}},
		Controllers: policies(t, cat),
	})
	assert.ErrorIs(t, err, combat.ErrInvalidRoster)

	_, err = r.Run(context.Background(), match.Setup{Rosters: [2][]string{{"Brute"}, {"Brute"}}})
	assert.Error(t, err)
}

func TestRun_RecorderFailureIsLogged(t *testing.T) {
	cat := testCatalog(t)
	core, logs := observer.New(zap.DebugLevel)
	rec := &memRecorder{err: errors.New("db down")}
	r := match.NewRunner(cat, zap.New(core), match.WithRecorder(rec), match.WithBattleOptions(seeded()))
	_, err := r.Run(context.Background(), match.Setup{
		Rosters:     [2][]string{{"Brute"}, {"Brute"}},
		Controllers: policies(t, cat),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, logs.FilterMessage("recording result failed").Len())
}

func TestExternalController_SubmitBusy(t *testing.T) {
	ext := match.NewExternalController()
	require.NoError(t, ext.Submit(combat.UseMove(0)))
	assert.ErrorIs(t, ext.Submit(combat.UseMove(0)), match.ErrBusy)
}
