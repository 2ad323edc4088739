package match

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Arena runs one battle after another, waiting interval between the end of a
// battle and the start of the next.
type Arena struct {
	runner   *Runner
	next     func() (Setup, error)
	interval time.Duration
	logger   *zap.Logger
}

// NewArena creates an Arena that asks next for each battle's setup.
//
// Precondition: runner and next must be non-nil; interval > 0.
func NewArena(runner *Runner, next func() (Setup, error), interval time.Duration, logger *zap.Logger) *Arena {
	if runner == nil || next == nil {
		panic("match.NewArena: runner and next must not be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Arena{runner: runner, next: next, interval: interval, logger: logger}
}

// Run loops until ctx is cancelled, invoking onResult after each battle.
// Setup and run failures are logged and the loop carries on.
//
// Postcondition: returns ctx.Err() once ctx is done.
func (a *Arena) Run(ctx context.Context, onResult func(Result)) error {
	due := make(chan struct{}, 1)
	fire := func() {
		select {
		case due <- struct{}{}:
		default:
		}
	}
	timer := NewRoundTimer(a.interval, fire)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-due:
		}

		setup, err := a.next()
		if err != nil {
			a.logger.Warn("arena: building setup failed", zap.Error(err))
		} else if res, err := a.runner.Run(ctx, setup); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			a.logger.Warn("arena: battle failed", zap.Error(err))
		} else if onResult != nil {
			onResult(res)
		}
		timer.Reset(a.interval, fire)
	}
}
