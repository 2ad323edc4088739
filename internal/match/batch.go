package match

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/cory-johannsen/witchery/internal/game/combat"
)

// RunBatch runs every setup, at most parallel at a time, and returns the
// results in setup order.
//
// Precondition: parallel >= 1; setups share no mutable state.
// Postcondition: on error the first failure is returned and battles not yet
// started are skipped.
func RunBatch(ctx context.Context, r *Runner, setups []Setup, parallel int) ([]Result, error) {
	results := make([]Result, len(setups))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(parallel, 1))
	for i, s := range setups {
		g.Go(func() error {
			res, err := r.Run(gctx, s)
			if err != nil {
				return fmt.Errorf("battle %d: %w", i, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Summary aggregates a batch of results.
type Summary struct {
	Battles  int
	Wins     [2]int
	Draws    int
	Forfeits int
	// Rounds is the total rounds played across all battles.
	Rounds int
}

// Summarize tallies results.
func Summarize(results []Result) Summary {
	var s Summary
	for _, r := range results {
		s.Battles++
		s.Rounds += r.Rounds
		if r.Forfeit {
			s.Forfeits++
		}
		if r.Winner == nil {
			s.Draws++
			continue
		}
		s.Wins[*r.Winner]++
	}
	return s
}

// MeanRounds returns the average battle length, or 0 for an empty batch.
func (s Summary) MeanRounds() float64 {
	if s.Battles == 0 {
		return 0
	}
	return float64(s.Rounds) / float64(s.Battles)
}

// WinRate returns the fraction of battles side won.
func (s Summary) WinRate(side combat.Side) float64 {
	if s.Battles == 0 {
		return 0
	}
	return float64(s.Wins[side]) / float64(s.Battles)
}
