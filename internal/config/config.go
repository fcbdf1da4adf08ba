// Package config provides Viper-based configuration loading for the MUD server.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
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

// GameConfig holds combat engine and game clock settings.
type GameConfig struct {
	// TickInterval is the real-time duration of one game tick.
	TickInterval time.Duration `mapstructure:"tick_interval"`
	// RoundLengthTicks is the number of game ticks between combat rounds.
	RoundLengthTicks int64 `mapstructure:"round_length_ticks"`
	// UnarmedBaseDamage is the constant base damage for participants with no weapon.
	UnarmedBaseDamage int `mapstructure:"unarmed_base_damage"`
	// DeathThreshold is the vitality value at or below which a participant dies.
	// Must be negative: vitality in (DeathThreshold, 0] means incapacitated.
	DeathThreshold int `mapstructure:"death_threshold"`
	// RewardTimeout bounds each experience-grant dispatch attempt.
	RewardTimeout time.Duration `mapstructure:"reward_timeout"`
	// DisconnectGrace is how long a disconnected participant's combat survives
	// before it is force-ended.
	DisconnectGrace time.Duration `mapstructure:"disconnect_grace"`
	// RespawnDelayTicks is the number of game ticks between an NPC's death
	// and its replacement spawning. Zero disables respawn.
	RespawnDelayTicks int64 `mapstructure:"respawn_delay_ticks"`
}

// Config is the top-level application configuration.
type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Game     GameConfig     `mapstructure:"game"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateDatabase(c.Database); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateGame(c.Game); err != nil {
		errs = append(errs, err.Error())
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
		return errors.New(strings.Join(errs, "; "))
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

func validateGame(g GameConfig) error {
	var errs []string
	if g.TickInterval <= 0 {
		errs = append(errs, fmt.Sprintf("game.tick_interval must be > 0, got %s", g.TickInterval))
	}
	if g.RoundLengthTicks < 1 {
		errs = append(errs, fmt.Sprintf("game.round_length_ticks must be >= 1, got %d", g.RoundLengthTicks))
	}
	if g.UnarmedBaseDamage < 0 {
		errs = append(errs, fmt.Sprintf("game.unarmed_base_damage must be >= 0, got %d", g.UnarmedBaseDamage))
	}
	if g.DeathThreshold >= 0 {
		errs = append(errs, fmt.Sprintf("game.death_threshold must be < 0, got %d", g.DeathThreshold))
	}
	if g.RewardTimeout <= 0 {
		errs = append(errs, fmt.Sprintf("game.reward_timeout must be > 0, got %s", g.RewardTimeout))
	}
	if g.DisconnectGrace < 0 {
		errs = append(errs, fmt.Sprintf("game.disconnect_grace must be >= 0, got %s", g.DisconnectGrace))
	}
	if g.RespawnDelayTicks < 0 {
		errs = append(errs, fmt.Sprintf("game.respawn_delay_ticks must be >= 0, got %d", g.RespawnDelayTicks))
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result.
//
// Precondition: path must be a valid file path to a YAML configuration file.
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	// Environment variable overrides with MUD_ prefix
	v.SetEnvPrefix("MUD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
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

func setDefaults(v *viper.Viper) {
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "mud")
	v.SetDefault("database.password", "mud")
	v.SetDefault("database.name", "mud")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("database.min_conns", 2)
	v.SetDefault("database.max_conn_lifetime", "1h")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	// 100ms ticks with 100 ticks per round gives 10-second combat rounds.
	v.SetDefault("game.tick_interval", "100ms")
	v.SetDefault("game.round_length_ticks", 100)
	v.SetDefault("game.unarmed_base_damage", 2)
	v.SetDefault("game.death_threshold", -10)
	v.SetDefault("game.reward_timeout", "2s")
	v.SetDefault("game.disconnect_grace", "30s")
	v.SetDefault("game.respawn_delay_ticks", 300)
}
