// Package bootstrap assembles the catalog, scripting runtime and policy
// registry shared by the binaries.
package bootstrap

import (
	"fmt"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/witchery/internal/config"
	"github.com/cory-johannsen/witchery/internal/game/ai"
	"github.com/cory-johannsen/witchery/internal/game/catalog"
	"github.com/cory-johannsen/witchery/internal/game/combat"
	"github.com/cory-johannsen/witchery/internal/game/dice"
	"github.com/cory-johannsen/witchery/internal/match"
	"github.com/cory-johannsen/witchery/internal/scripting"
)

// Engine bundles everything needed to run AI battles.
type Engine struct {
	Catalog  *catalog.Catalog
	Policies *ai.Registry
	Scripts  *scripting.Manager
	roller   *dice.Roller
}

// Load reads content and policy definitions, loads one Lua VM per scripted
// policy and builds the policy registry.
//
// Precondition: roller and logger must be non-nil.
// Postcondition: on success the caller must Close the engine.
func Load(cfg config.Config, roller *dice.Roller, logger *zap.Logger) (*Engine, error) {
	start := time.Now()
	cat, err := catalog.Load(cfg.Content.Dir)
	if err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}
	logger.Info("catalog loaded",
		zap.Int("combatants", len(cat.CombatantNames())),
		zap.Int("moves", cat.MoveCount()),
		zap.Duration("elapsed", time.Since(start)),
	)

	defs, err := ai.LoadDefinitions(cfg.Content.PoliciesDir)
	if err != nil {
		return nil, fmt.Errorf("loading policy definitions: %w", err)
	}

	mgr := scripting.NewManager(roller, logger)
	for _, d := range defs {
		if d.Kind != ai.KindScript {
			continue
		}
		dir := filepath.Join(cfg.Scripting.ScriptDir, d.ScriptSet())
		if err := mgr.LoadSet(d.ScriptSet(), dir, cfg.Scripting.InstructionLimit); err != nil {
			mgr.Close()
			return nil, fmt.Errorf("loading scripts for policy %q: %w", d.Name, err)
		}
	}

	reg, err := ai.BuildRegistry(defs, cat.Elements(), mgr, logger)
	if err != nil {
		mgr.Close()
		return nil, fmt.Errorf("building policy registry: %w", err)
	}
	logger.Info("policies registered", zap.Strings("policies", reg.Names()))

	return &Engine{Catalog: cat, Policies: reg, Scripts: mgr, roller: roller}, nil
}

// Close releases the Lua VMs.
func (e *Engine) Close() {
	e.Scripts.Close()
}

// Policy returns the named policy.
func (e *Engine) Policy(name string) (ai.Policy, error) {
	p, ok := e.Policies.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("unknown policy %q (have %v)", name, e.Policies.Names())
	}
	return p, nil
}

// AISetup builds a battle between two random rosters of size combatants,
// each side played by the named policy. Rosters are drawn from the engine
// roller. A non-nil battle roller drives the battle's rolls and every
// scripted policy's engine.dice draws, so a seeded battle roller replays the
// battle exactly even while other battles share the same script VMs.
//
// Precondition: 1 <= size <= combat.MaxRoster.
func (e *Engine) AISetup(policyA, policyB string, size int, battle *dice.Roller) (match.Setup, error) {
	var s match.Setup
	for i, name := range [2]string{policyA, policyB} {
		p, err := e.Policy(name)
		if err != nil {
			return match.Setup{}, err
		}
		s.Controllers[i] = match.PolicyController{Policy: ai.BindRoller(p, battle)}
		s.Rosters[i] = RandomRoster(e.Catalog.CombatantNames(), size, e.roller)
	}
	if battle != nil {
		s.Options = []combat.Option{combat.WithRoller(battle)}
	}
	return s, nil
}

// RandomRoster draws n distinct names from names. When names holds fewer
// than n entries every name is returned in shuffled order.
//
// Postcondition: the result has min(n, len(names)) distinct entries and
// names is not modified.
func RandomRoster(names []string, n int, roller *dice.Roller) []string {
	pool := append([]string(nil), names...)
	n = min(n, len(pool))
	for i := 0; i < n; i++ {
		j := i + roller.Intn(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	return pool[:n]
}

// BattleOptions translates the battle configuration into engine options.
func BattleOptions(cfg config.BattleConfig) []combat.Option {
	return []combat.Option{
		combat.WithDamageConstant(cfg.DamageConstant),
		combat.WithMaxEffects(cfg.MaxEffects),
		combat.WithResistancePolicy(cfg.Policy()),
	}
}

// RunnerOptions translates the battle configuration into runner options.
func RunnerOptions(cfg config.BattleConfig) []match.RunnerOption {
	return []match.RunnerOption{
		match.WithRoundLimit(cfg.RoundLimit),
		match.WithTurnTimeout(cfg.TurnTimeout),
		match.WithBattleOptions(BattleOptions(cfg)...),
	}
}
