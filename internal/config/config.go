// Package config provides Viper-based configuration loading for the battle
// engine binaries.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/cory-johannsen/witchery/internal/game/effect"
)

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
}

// DSN returns the PostgreSQL connection string.
//
// Precondition: Host, Port, User, and Name must be non-empty.
// Postcondition: Returns a valid PostgreSQL DSN string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// ContentConfig locates the YAML catalog, policy definitions and Lua scripts.
type ContentConfig struct {
	// Dir holds elements.yaml, natures.yaml, moves/ and combatants/.
	Dir string `mapstructure:"dir"`
	// PoliciesDir holds AI policy definitions.
	PoliciesDir string `mapstructure:"policies_dir"`
}

// BattleConfig holds rules shared by every battle.
type BattleConfig struct {
	// DamageConstant is K in the damage formula.
	DamageConstant int `mapstructure:"damage_constant"`
	// MaxEffects is how many effects a combatant may hold at once.
	MaxEffects int `mapstructure:"max_effects"`
	// ResistancePolicy is "linear" or "quadratic".
	ResistancePolicy string `mapstructure:"resistance_policy"`
	// RoundLimit declares a draw after this many rounds; 0 disables it.
	RoundLimit int `mapstructure:"round_limit"`
	// TurnTimeout bounds an external player's turn; 0 disables it.
	TurnTimeout time.Duration `mapstructure:"turn_timeout"`
}

// Policy returns the parsed resistance policy.
//
// Precondition: ResistancePolicy passed Validate.
func (b BattleConfig) Policy() effect.ResistancePolicy {
	p, _ := effect.ParseResistancePolicy(b.ResistancePolicy)
	return p
}

// ArenaConfig holds settings of the long-running arena service.
type ArenaConfig struct {
	// Interval is the pause between consecutive battles.
	Interval time.Duration `mapstructure:"interval"`
	// PolicyA and PolicyB name the registered AI policies of each side.
	PolicyA string `mapstructure:"policy_a"`
	PolicyB string `mapstructure:"policy_b"`
	// RosterSize is how many combatants each side fields.
	RosterSize int `mapstructure:"roster_size"`
	// Record persists results to the database when true.
	Record bool `mapstructure:"record"`
}

// ScriptingConfig holds Lua sandbox settings.
type ScriptingConfig struct {
	// ScriptDir holds one subdirectory of *.lua files per script set.
	ScriptDir string `mapstructure:"script_dir"`
	// InstructionLimit caps opcodes per hook call; 0 uses the sandbox default.
	InstructionLimit int `mapstructure:"instruction_limit"`
}

// Config is the top-level application configuration.
type Config struct {
	Database  DatabaseConfig  `mapstructure:"database"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Content   ContentConfig   `mapstructure:"content"`
	Battle    BattleConfig    `mapstructure:"battle"`
	Arena     ArenaConfig     `mapstructure:"arena"`
	Scripting ScriptingConfig `mapstructure:"scripting"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	for _, err := range []error{
		validateDatabase(c.Database),
		validateLogging(c.Logging),
		validateContent(c.Content),
		validateBattle(c.Battle),
		validateArena(c.Arena),
		validateScripting(c.Scripting),
	} {
		if err != nil {
			errs = append(errs, err.Error())
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateDatabase(d DatabaseConfig) error {
	var errs []string
	if d.Host == "" {
		errs = append(errs, "database.host must not be empty")
	}
	if d.Port < 1 || d.Port > 65535 {
		errs = append(errs, fmt.Sprintf("database.port must be 1-65535, got %d", d.Port))
	}
	if d.User == "" {
		errs = append(errs, "database.user must not be empty")
	}
	if d.Name == "" {
		errs = append(errs, "database.name must not be empty")
	}
	validSSL := map[string]bool{"disable": true, "require": true, "verify-ca": true, "verify-full": true}
	if !validSSL[d.SSLMode] {
		errs = append(errs, fmt.Sprintf("database.sslmode must be one of [disable, require, verify-ca, verify-full], got %q", d.SSLMode))
	}
	if d.MaxConns < 1 {
		errs = append(errs, fmt.Sprintf("database.max_conns must be >= 1, got %d", d.MaxConns))
	}
	if d.MinConns < 0 {
		errs = append(errs, fmt.Sprintf("database.min_conns must be >= 0, got %d", d.MinConns))
	}
	if d.MinConns > d.MaxConns {
		errs = append(errs, "database.min_conns must not exceed database.max_conns")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

func validateContent(c ContentConfig) error {
	if c.Dir == "" {
		return errors.New("content.dir must not be empty")
	}
	return nil
}

func validateBattle(b BattleConfig) error {
	var errs []string
	if b.DamageConstant < 1 {
		errs = append(errs, fmt.Sprintf("battle.damage_constant must be >= 1, got %d", b.DamageConstant))
	}
	if b.MaxEffects < 1 {
		errs = append(errs, fmt.Sprintf("battle.max_effects must be >= 1, got %d", b.MaxEffects))
	}
	if _, err := effect.ParseResistancePolicy(b.ResistancePolicy); err != nil {
		errs = append(errs, fmt.Sprintf("battle.resistance_policy must be one of [linear, quadratic], got %q", b.ResistancePolicy))
	}
	if b.RoundLimit < 0 {
		errs = append(errs, fmt.Sprintf("battle.round_limit must be >= 0, got %d", b.RoundLimit))
	}
	if b.TurnTimeout < 0 {
		errs = append(errs, "battle.turn_timeout must not be negative")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateArena(a ArenaConfig) error {
	var errs []string
	if a.Interval <= 0 {
		errs = append(errs, "arena.interval must be positive")
	}
	if a.PolicyA == "" || a.PolicyB == "" {
		errs = append(errs, "arena.policy_a and arena.policy_b must not be empty")
	}
	if a.RosterSize < 1 || a.RosterSize > 4 {
		errs = append(errs, fmt.Sprintf("arena.roster_size must be 1-4, got %d", a.RosterSize))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateScripting(s ScriptingConfig) error {
	if s.InstructionLimit < 0 {
		return fmt.Errorf("scripting.instruction_limit must be >= 0, got %d", s.InstructionLimit)
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result. An empty path uses defaults and the
// environment only.
//
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()

	// Environment variable overrides with WITCHERY_ prefix
	v.SetEnvPrefix("WITCHERY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
	}

	return LoadFromViper(v)
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// NewViper returns a Viper preloaded with every default.
func NewViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "witchery")
	v.SetDefault("database.password", "witchery")
	v.SetDefault("database.name", "witchery")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("database.min_conns", 2)
	v.SetDefault("database.max_conn_lifetime", "1h")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("content.dir", "content")
	v.SetDefault("content.policies_dir", "content/policies")

	v.SetDefault("battle.damage_constant", 16)
	v.SetDefault("battle.max_effects", effect.DefaultMaxActive)
	v.SetDefault("battle.resistance_policy", "linear")
	v.SetDefault("battle.round_limit", 200)
	v.SetDefault("battle.turn_timeout", "30s")

	v.SetDefault("arena.interval", "5s")
	v.SetDefault("arena.policy_a", "heuristic")
	v.SetDefault("arena.policy_b", "heuristic")
	v.SetDefault("arena.roster_size", 3)
	v.SetDefault("arena.record", false)

	v.SetDefault("scripting.script_dir", "content/scripts/ai")
	v.SetDefault("scripting.instruction_limit", 0)
}
