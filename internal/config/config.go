// Package config loads the environment configuration §6 recognizes:
// database DSN, cache DSN, JWT secret, session secret, port, environment
// tag, max players, action points per turn, turn duration, starting
// resources, and CORS origin.
//
// Grounded on EverforgeWorks-Galaxies-Server's internal/game/state.go
// LoadConfig (yaml.v3 base file, overridden by environment variables) and
// its DataLock-guarded global config pattern, adapted here into an
// explicit struct with a Validate step instead of a package-global.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/stellarforge/empirecore/players"
)

// Config is the full set of environment options §6 recognizes.
type Config struct {
	DatabaseDSN string `yaml:"database_dsn"`
	CacheDSN    string `yaml:"cache_dsn"`

	JWTSecret     string `yaml:"jwt_secret"`
	SessionSecret string `yaml:"session_secret"`

	Port        int    `yaml:"port"`
	Environment string `yaml:"environment"`

	MaxPlayers int `yaml:"max_players"`

	ActionPointsPerTurn int           `yaml:"action_points_per_turn"`
	TurnDuration        time.Duration `yaml:"turn_duration"`

	StartingResources map[players.Resource]int64 `yaml:"starting_resources"`

	CORSOrigin string `yaml:"cors_origin"`
}

// Default returns the baseline config with every §6-documented default
// applied; Load starts from this before layering the file and environment
// on top.
func Default() Config {
	return Config{
		Port:                8080,
		Environment:         "development",
		MaxPlayers:          1000,
		ActionPointsPerTurn: 10,
		TurnDuration:        24 * time.Hour,
		StartingResources: map[players.Resource]int64{
			players.Metal: 500, players.Energy: 500, players.Food: 200, players.Research: 0,
		},
		CORSOrigin: "*",
	}
}

// Load reads path (if it exists) as YAML over the defaults, then applies
// environment-variable overrides, then validates.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err == nil {
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("config: parsing %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return Config{}, fmt.Errorf("config: reading %s: %w", path, err)
		}
	}

	if err := applyEnvOverrides(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("DATABASE_DSN"); v != "" {
		cfg.DatabaseDSN = v
	}
	if v := os.Getenv("CACHE_DSN"); v != "" {
		cfg.CacheDSN = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.JWTSecret = v
	}
	if v := os.Getenv("SESSION_SECRET"); v != "" {
		cfg.SessionSecret = v
	}
	if v := os.Getenv("ENVIRONMENT"); v != "" {
		cfg.Environment = v
	}
	if v := os.Getenv("CORS_ORIGIN"); v != "" {
		cfg.CORSOrigin = v
	}

	// Numeric vars must parse as integers (§6).
	intFields := map[string]*int{
		"PORT":                   &cfg.Port,
		"MAX_PLAYERS":            &cfg.MaxPlayers,
		"ACTION_POINTS_PER_TURN": &cfg.ActionPointsPerTurn,
	}
	for name, field := range intFields {
		v := os.Getenv(name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: %s must be an integer: %w", name, err)
		}
		*field = n
	}

	if v := os.Getenv("TURN_DURATION_HOURS"); v != "" {
		hours, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: TURN_DURATION_HOURS must be an integer: %w", err)
		}
		cfg.TurnDuration = time.Duration(hours) * time.Hour
	}
	return nil
}

// MinSecretLength is the JWT/session secret length floor (§6: "JWT signing
// secret (>= 32 bytes)").
const MinSecretLength = 32

// Validate enforces the §6 constraints Load cannot express structurally.
func (c Config) Validate() error {
	if len(c.JWTSecret) > 0 && len(c.JWTSecret) < MinSecretLength {
		return fmt.Errorf("config: jwt_secret must be at least %d bytes", MinSecretLength)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("config: port out of range: %d", c.Port)
	}
	if c.MaxPlayers <= 0 {
		return fmt.Errorf("config: max_players must be positive")
	}
	if c.ActionPointsPerTurn <= 0 {
		return fmt.Errorf("config: action_points_per_turn must be positive")
	}
	if c.TurnDuration <= 0 {
		return fmt.Errorf("config: turn_duration must be positive")
	}
	return nil
}
