// Package main provides a batch simulator that plays AI policies against
// each other and reports win rates.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/witchery/internal/bootstrap"
	"github.com/cory-johannsen/witchery/internal/config"
	"github.com/cory-johannsen/witchery/internal/game/combat"
	"github.com/cory-johannsen/witchery/internal/game/dice"
	"github.com/cory-johannsen/witchery/internal/match"
	"github.com/cory-johannsen/witchery/internal/observability"
	"github.com/cory-johannsen/witchery/internal/storage/postgres"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "", "path to configuration file; empty = defaults and environment")
	battles := flag.Int("n", 100, "number of battles to simulate")
	parallel := flag.Int("parallel", 4, "battles to run concurrently")
	policyA := flag.String("a", "", "policy for side A (default arena.policy_a)")
	policyB := flag.String("b", "", "policy for side B (default arena.policy_b)")
	rosterSize := flag.Int("roster", 0, "combatants per side (default arena.roster_size)")
	seed := flag.Uint64("seed", 0, "seed for reproducible runs; 0 = crypto randomness")
	record := flag.Bool("record", false, "store every result in the database")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	if *policyA == "" {
		*policyA = cfg.Arena.PolicyA
	}
	if *policyB == "" {
		*policyB = cfg.Arena.PolicyB
	}
	if *rosterSize == 0 {
		*rosterSize = cfg.Arena.RosterSize
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	newSource := func(i int) dice.Source {
		if *seed == 0 {
			return dice.NewCryptoSource()
		}
		return dice.NewSeededSource(*seed + uint64(i))
	}

	eng, err := bootstrap.Load(cfg, dice.NewLoggedRoller(newSource(0), logger), logger)
	if err != nil {
		logger.Fatal("loading engine", zap.Error(err))
	}
	defer eng.Close()

	setups := make([]match.Setup, *battles)
	for i := range setups {
		s, err := eng.AISetup(*policyA, *policyB, *rosterSize, dice.NewLoggedRoller(newSource(i+1), logger))
		if err != nil {
			logger.Fatal("building battle", zap.Error(err))
		}
		setups[i] = s
	}

	ctx := context.Background()
	opts := bootstrap.RunnerOptions(cfg.Battle)
	if *record {
		pool, err := postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			logger.Fatal("connecting to database", zap.Error(err))
		}
		defer pool.Close()
		opts = append(opts, match.WithRecorder(postgres.NewResultRepository(pool.DB())))
	}
	runner := match.NewRunner(eng.Catalog, logger, opts...)

	logger.Info("simulating",
		zap.Int("battles", *battles),
		zap.Int("parallel", *parallel),
		zap.String("policy_a", *policyA),
		zap.String("policy_b", *policyB),
		zap.Int("roster_size", *rosterSize),
	)
	results, err := match.RunBatch(ctx, runner, setups, *parallel)
	if err != nil {
		logger.Fatal("simulation failed", zap.Error(err))
	}

	sum := match.Summarize(results)
	fmt.Fprintf(os.Stdout, "%d battles [%s]\n", sum.Battles, time.Since(start))
	fmt.Fprintf(os.Stdout, "  A %-12s wins %4d (%.1f%%)\n", *policyA, sum.Wins[combat.SideA], 100*sum.WinRate(combat.SideA))
	fmt.Fprintf(os.Stdout, "  B %-12s wins %4d (%.1f%%)\n", *policyB, sum.Wins[combat.SideB], 100*sum.WinRate(combat.SideB))
	fmt.Fprintf(os.Stdout, "  draws %d, forfeits %d, mean rounds %.1f\n", sum.Draws, sum.Forfeits, sum.MeanRounds())
}
