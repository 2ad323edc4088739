// Package match drives complete battles between two controllers.
package match

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/witchery/internal/game/ai"
	"github.com/cory-johannsen/witchery/internal/game/catalog"
	"github.com/cory-johannsen/witchery/internal/game/combat"
	"github.com/cory-johannsen/witchery/internal/observability"
)

// Setup describes one battle to run.
type Setup struct {
	Rosters     [2][]string
	Controllers [2]Controller
	// Fallback decides for a side whose controller errs or times out. A nil
	// entry uses the runner's default policy.
	Fallback [2]ai.Policy
	// Options are appended to the runner's battle options.
	Options []combat.Option
}

// Result summarises a finished battle.
type Result struct {
	ID      uuid.UUID
	Rosters [2][]string
	// Winner is nil for a draw.
	Winner   *combat.Side
	Draw     bool
	Forfeit  bool
	Rounds   int
	Events   []combat.Event
	Started  time.Time
	Finished time.Time
}

// Recorder persists finished results.
type Recorder interface {
	Record(ctx context.Context, r Result) error
}

// Runner runs battles against one catalog. A Runner may run many battles
// concurrently; each Run owns its Battle.
type Runner struct {
	cat         *catalog.Catalog
	logger      *zap.Logger
	fallback    ai.Policy
	roundLimit  int
	turnTimeout time.Duration
	options     []combat.Option
	recorder    Recorder
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithRoundLimit declares a draw once round n has resolved. 0 means no limit.
func WithRoundLimit(n int) RunnerOption { return func(r *Runner) { r.roundLimit = n } }

// WithTurnTimeout bounds how long a timed controller may take per action.
// 0 means no limit.
func WithTurnTimeout(d time.Duration) RunnerOption { return func(r *Runner) { r.turnTimeout = d } }

// WithBattleOptions applies opts to every battle.
func WithBattleOptions(opts ...combat.Option) RunnerOption {
	return func(r *Runner) { r.options = append(r.options, opts...) }
}

// WithRecorder persists each finished result. Recording failures are logged
// and do not fail the run.
func WithRecorder(rec Recorder) RunnerOption { return func(r *Runner) { r.recorder = rec } }

// WithFallback replaces the default fallback policy.
func WithFallback(p ai.Policy) RunnerOption { return func(r *Runner) { r.fallback = p } }

// NewRunner creates a Runner whose default fallback is the heuristic policy.
//
// Precondition: cat must be non-nil; a nil logger is replaced with zap.NewNop().
func NewRunner(cat *catalog.Catalog, logger *zap.Logger, opts ...RunnerOption) *Runner {
	if cat == nil {
		panic("match.NewRunner: catalog must not be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Runner{
		cat:      cat,
		logger:   logger,
		fallback: ai.NewHeuristic(cat.Elements()),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run plays one battle to completion.
//
// Precondition: both controllers must be non-nil.
// Postcondition: on success the result is terminal or a declared draw; a
// cancelled ctx returns the partial result with ctx.Err().
func (r *Runner) Run(ctx context.Context, s Setup) (Result, error) {
	for i, c := range s.Controllers {
		if c == nil {
			return Result{}, fmt.Errorf("match: side %s has no controller", combat.Side(i))
		}
	}
	res := Result{ID: uuid.New(), Rosters: s.Rosters, Started: time.Now()}
	logger := observability.BattleLogger(r.logger, res.ID, s.Rosters[combat.SideA], s.Rosters[combat.SideB])

	opts := append([]combat.Option{combat.WithLogger(logger)}, r.options...)
	opts = append(opts, s.Options...)
	b, err := combat.NewBattle(r.cat, s.Rosters[combat.SideA], s.Rosters[combat.SideB], opts...)
	if err != nil {
		return Result{}, fmt.Errorf("match: %w", err)
	}
	logger.Info("battle started")

	record := func(evs []combat.Event) {
		for _, e := range evs {
			logger.Debug("battle event",
				zap.Int("round", e.Round),
				zap.String("kind", string(e.Kind)),
				zap.String("narrative", e.Narrative),
			)
		}
		res.Events = append(res.Events, evs...)
	}

	for !b.Over() {
		if err := ctx.Err(); err != nil {
			res.Rounds = b.Round()
			res.Finished = time.Now()
			return res, err
		}
		if r.roundLimit > 0 && b.Round() > r.roundLimit {
			res.Draw = true
			break
		}
		for _, side := range combat.Sides {
			evs, err := r.collect(ctx, logger, b, s, side)
			record(evs)
			if err != nil {
				res.Finished = time.Now()
				return res, err
			}
			if b.Over() {
				break
			}
		}
		if b.Over() {
			break
		}
		evs, err := b.Tick()
		if err != nil {
			return res, fmt.Errorf("match: resolving round %d: %w", b.Round(), err)
		}
		record(evs)
	}

	res.Rounds = b.Round()
	if res.Draw {
		res.Rounds = r.roundLimit
	}
	if w, ok := b.Winner(); ok {
		res.Winner = &w
	}
	res.Forfeit = b.Forfeited()
	res.Finished = time.Now()

	fields := []zap.Field{zap.Int("rounds", res.Rounds), zap.Bool("draw", res.Draw), zap.Bool("forfeit", res.Forfeit)}
	if res.Winner != nil {
		fields = append(fields, zap.Stringer("winner", *res.Winner))
	}
	logger.Info("battle finished", fields...)

	if r.recorder != nil {
		if err := r.recorder.Record(ctx, res); err != nil {
			logger.Warn("recording result failed", zap.Error(err))
		}
	}
	return res, nil
}

// collect obtains side's submission for the current round, performing a
// forced swap first when one is owed. A side with no legal action forfeits.
func (r *Runner) collect(ctx context.Context, logger *zap.Logger, b *combat.Battle, s Setup, side combat.Side) ([]combat.Event, error) {
	var events []combat.Event
	for !b.Over() && (b.MustSwap(side) || !b.Submitted(side)) {
		snap := b.Snapshot()
		a := r.ask(ctx, logger, s, snap, side)
		if err := ctx.Err(); err != nil {
			return events, err
		}
		evs, err := b.Submit(side, a)
		if errors.Is(err, combat.ErrInvalidSubmission) {
			logger.Warn("rejected submission",
				zap.Stringer("side", side),
				zap.Stringer("action", a),
				zap.Error(err),
			)
			fb, ferr := ai.Fallback(snap, side)
			if ferr != nil {
				logger.Info("no legal action, forfeiting", zap.Stringer("side", side))
				return append(events, b.Forfeit(side)...), nil
			}
			evs, err = b.Submit(side, fb)
		}
		if err != nil {
			return events, fmt.Errorf("match: side %s submission: %w", side, err)
		}
		events = append(events, evs...)
	}
	return events, nil
}

// ask requests an action from side's controller, falling back to a policy
// when the controller errs or misses its deadline.
func (r *Runner) ask(ctx context.Context, logger *zap.Logger, s Setup, snap combat.Snapshot, side combat.Side) combat.Action {
	ctrl := s.Controllers[side]
	tctx, cancel := ctx, context.CancelFunc(func() {})
	if ctrl.Timed() && r.turnTimeout > 0 {
		tctx, cancel = context.WithTimeout(ctx, r.turnTimeout)
	}
	defer cancel()

	a, err := ctrl.Action(tctx, snap, side)
	if err == nil {
		return a
	}
	if ctx.Err() != nil {
		return combat.Action{}
	}
	logger.Info("controller did not act, using fallback",
		zap.Stringer("side", side),
		zap.Int("round", snap.Round),
		zap.Error(err),
	)
	fb := s.Fallback[side]
	if fb == nil {
		fb = r.fallback
	}
	a, err = fb.Decide(snap, side)
	if err != nil {
		return combat.Action{}
	}
	return a
}
