// Package main provides the arena service, which plays AI battles back to
// back until it receives a termination signal.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/witchery/internal/bootstrap"
	"github.com/cory-johannsen/witchery/internal/config"
	"github.com/cory-johannsen/witchery/internal/game/dice"
	"github.com/cory-johannsen/witchery/internal/match"
	"github.com/cory-johannsen/witchery/internal/observability"
	"github.com/cory-johannsen/witchery/internal/server"
	"github.com/cory-johannsen/witchery/internal/storage/postgres"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	roller := dice.NewLoggedRoller(dice.NewCryptoSource(), logger)
	eng, err := bootstrap.Load(cfg, roller, logger)
	if err != nil {
		logger.Fatal("loading engine", zap.Error(err))
	}
	defer eng.Close()

	opts := bootstrap.RunnerOptions(cfg.Battle)
	if cfg.Arena.Record {
		dbStart := time.Now()
		pool, err := postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			logger.Fatal("connecting to database", zap.Error(err))
		}
		defer pool.Close()
		logger.Info("database connected",
			zap.String("host", cfg.Database.Host),
			zap.Duration("elapsed", time.Since(dbStart)),
		)
		opts = append(opts, match.WithRecorder(postgres.NewResultRepository(pool.DB())))
	}
	runner := match.NewRunner(eng.Catalog, logger, opts...)

	next := func() (match.Setup, error) {
		return eng.AISetup(cfg.Arena.PolicyA, cfg.Arena.PolicyB, cfg.Arena.RosterSize, nil)
	}
	arena := match.NewArena(runner, next, cfg.Arena.Interval, logger)

	var played int
	onResult := func(res match.Result) {
		played++
		fields := []zap.Field{
			zap.Stringer("battle_id", res.ID),
			zap.Int("rounds", res.Rounds),
			zap.Bool("forfeit", res.Forfeit),
			zap.Int("played", played),
		}
		if res.Winner != nil {
			fields = append(fields, zap.Stringer("winner", *res.Winner))
		} else {
			fields = append(fields, zap.Bool("draw", true))
		}
		logger.Info("arena result", fields...)
	}

	lifecycle := server.NewLifecycle(logger)
	lifecycle.Add("arena", &server.RunService{Run: func(ctx context.Context) error {
		return arena.Run(ctx, onResult)
	}})

	logger.Info("arena ready",
		zap.String("policy_a", cfg.Arena.PolicyA),
		zap.String("policy_b", cfg.Arena.PolicyB),
		zap.Duration("interval", cfg.Arena.Interval),
		zap.Duration("startup", time.Since(start)),
	)
	if err := lifecycle.Run(ctx); err != nil {
		logger.Fatal("arena stopped", zap.Error(err))
	}
}
