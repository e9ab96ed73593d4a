// Package config loads runtime settings from a YAML file, a .env file and
// the environment, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/julianstephens/objectives/internal/constants"
	"github.com/julianstephens/objectives/internal/logger"
	"github.com/julianstephens/objectives/internal/models"
	"github.com/julianstephens/objectives/internal/storage"
)

// Config holds everything the server, the sweep and the CLI need.
type Config struct {
	Database        string                   `yaml:"database"`
	DataDir         string                   `yaml:"data_dir"`
	Listen          string                   `yaml:"listen"`
	ApplicationID   string                   `yaml:"application_id"`
	PublicKey       string                   `yaml:"public_key"`
	APIBaseURL      string                   `yaml:"api_base_url"`
	Timezone        string                   `yaml:"timezone"`
	SweepInterval   time.Duration            `yaml:"sweep_interval"`
	StaleThreshold  time.Duration            `yaml:"stale_threshold"`
	DispatchTimeout time.Duration            `yaml:"dispatch_timeout"`
	Cooldowns       map[string]time.Duration `yaml:"cooldowns"`
	LogFormat       string                   `yaml:"log_format"`
	BotToken        string                   `yaml:"-"`
	location        *time.Location
	cooldowns       map[models.Frequency]time.Duration
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Database:        constants.DefaultDatabase,
		DataDir:         constants.DefaultDataDir,
		Listen:          constants.DefaultListenAddr,
		APIBaseURL:      constants.DefaultAPIBaseURL,
		Timezone:        constants.DefaultTimezone,
		SweepInterval:   constants.DefaultSweepInterval,
		StaleThreshold:  constants.DefaultStaleThreshold,
		DispatchTimeout: constants.DefaultDispatchTimeout,
	}
}

// Load reads path (missing file is fine), then the .env file in the
// working directory, then environment variables, and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	home, _ := os.UserHomeDir()

	if path != "" {
		path = storage.ExpandHome(path, home)
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		}
	}

	// A missing .env is the normal case outside development.
	_ = godotenv.Load()
	cfg.applyEnv()

	cfg.Database = storage.ExpandHome(cfg.Database, home)
	cfg.DataDir = storage.ExpandHome(cfg.DataDir, home)
	if !storage.IsPostgres(cfg.Database) && cfg.DataDir == "" {
		cfg.DataDir = filepath.Dir(cfg.Database)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	setString := func(dst *string, keys ...string) {
		for _, key := range keys {
			if v := os.Getenv(key); v != "" {
				*dst = v
				return
			}
		}
	}
	setString(&c.Database, "OBJECTIVES_DATABASE")
	setString(&c.DataDir, "OBJECTIVES_DATA_DIR")
	setString(&c.ApplicationID, "DISCORD_APP_ID", "APP_ID")
	setString(&c.PublicKey, "DISCORD_PUBLIC_KEY", "PUBLIC_KEY")
	setString(&c.BotToken, "DISCORD_TOKEN")
	setString(&c.Timezone, "OBJECTIVES_TIMEZONE")
	setString(&c.LogFormat, "OBJECTIVES_LOG_FORMAT")

	setString(&c.Listen, "OBJECTIVES_LISTEN")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("OBJECTIVES_LISTEN") == "" {
		c.Listen = ":" + port
	}
}

// Validate checks durations, the timezone and the cooldown table, and
// caches the parsed values.
func (c *Config) Validate() error {
	if c.SweepInterval <= 0 {
		return fmt.Errorf("sweep_interval must be positive, got %v", c.SweepInterval)
	}
	if c.StaleThreshold < 0 {
		return fmt.Errorf("stale_threshold must not be negative, got %v", c.StaleThreshold)
	}
	if c.DispatchTimeout <= 0 {
		return fmt.Errorf("dispatch_timeout must be positive, got %v", c.DispatchTimeout)
	}

	if _, err := logger.ParseFormat(c.LogFormat); err != nil {
		return fmt.Errorf("log_format: %w", err)
	}

	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	c.location = loc

	c.cooldowns = make(map[models.Frequency]time.Duration)
	for _, f := range models.Frequencies() {
		c.cooldowns[f] = f.DefaultCooldown()
	}
	for name, d := range c.Cooldowns {
		f, err := models.ParseFrequency(name)
		if err != nil {
			return fmt.Errorf("cooldowns: %w", err)
		}
		if d <= 0 {
			return fmt.Errorf("cooldowns: %s must be positive, got %v", name, d)
		}
		c.cooldowns[f] = d
	}

	if storage.IsPostgres(c.Database) && storage.HasEmbeddedCredentials(c.Database) {
		return fmt.Errorf("database: PostgreSQL connection strings must not embed a password; use PGPASSWORD or .pgpass")
	}
	return nil
}

// Location returns the timezone used to derive calendar days.
func (c Config) Location() *time.Location {
	if c.location == nil {
		return time.UTC
	}
	return c.location
}

// CooldownTable returns the effective cooldown for every frequency.
func (c Config) CooldownTable() map[models.Frequency]time.Duration {
	out := make(map[models.Frequency]time.Duration, len(c.cooldowns))
	for f, d := range c.cooldowns {
		out[f] = d
	}
	return out
}
