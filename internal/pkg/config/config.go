// Package config loads server settings from a TOML file and TODO_*
// environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	ModeDevelopment = "development"
	ModeProduction  = "production"
)

// Default values.
const (
	DefaultAddr       = "localhost:8080"
	DefaultMode       = ModeDevelopment
	DefaultSessionTTL = 30 * time.Minute
	DefaultBcryptCost = 10
	DefaultLogLevel   = "info"
	DefaultLogFormat  = "text"
)

const (
	minSecretLen           = 16
	minProductionSecretLen = 32
)

// Config holds the full configuration for the server.
type Config struct {
	Addr    string        `toml:"addr"`
	Mode    string        `toml:"mode"`
	Session SessionConfig `toml:"session"`
	Storage StorageConfig `toml:"storage"`
	Log     LogConfig     `toml:"log"`
}

type SessionConfig struct {
	Secret     string        `toml:"secret"`
	TTL        time.Duration `toml:"ttl"`
	BcryptCost int           `toml:"bcrypt_cost"`
}

// StorageConfig selects backends. Empty URLs mean in-memory storage.
type StorageConfig struct {
	PostgresURL   string `toml:"postgres_url"`
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
}

type LogConfig struct {
	Level     string `toml:"level"`
	Formatter string `toml:"formatter"` // text, json or logfmt
}

// Production reports whether cookies must be marked Secure.
func (c *Config) Production() bool {
	return c.Mode == ModeProduction
}

// Load returns defaults overlaid with the file at path (if non-empty) and
// then with the environment.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	setDefaults(cfg)

	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	if err := applyEnv(cfg, os.LookupEnv); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(cfg *Config) {
	cfg.Addr = DefaultAddr
	cfg.Mode = DefaultMode
	cfg.Session.TTL = DefaultSessionTTL
	cfg.Session.BcryptCost = DefaultBcryptCost
	cfg.Log.Level = DefaultLogLevel
	cfg.Log.Formatter = DefaultLogFormat
}

func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		"TODO_ADDR":           &cfg.Addr,
		"TODO_MODE":           &cfg.Mode,
		"TODO_SESSION_SECRET": &cfg.Session.Secret,
		"TODO_POSTGRES_URL":   &cfg.Storage.PostgresURL,
		"TODO_REDIS_ADDR":     &cfg.Storage.RedisAddr,
		"TODO_REDIS_PASSWORD": &cfg.Storage.RedisPassword,
		"TODO_LOG_LEVEL":      &cfg.Log.Level,
		"TODO_LOG_FORMAT":     &cfg.Log.Formatter,
	}
	for name, dst := range strs {
		if v, ok := lookup(name); ok {
			*dst = v
		}
	}

	if v, ok := lookup("TODO_SESSION_TTL"); ok {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("TODO_SESSION_TTL: %w", err)
		}
		cfg.Session.TTL = ttl
	}
	ints := map[string]*int{
		"TODO_BCRYPT_COST": &cfg.Session.BcryptCost,
		"TODO_REDIS_DB":    &cfg.Storage.RedisDB,
	}
	for name, dst := range ints {
		v, ok := lookup(name)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		*dst = n
	}
	return nil
}

// Validate reports the first setting the server cannot start with.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return errors.New("addr is empty")
	}
	switch c.Mode {
	case ModeDevelopment, ModeProduction:
	default:
		return fmt.Errorf("unknown mode %q", c.Mode)
	}

	minLen := minSecretLen
	if c.Production() {
		minLen = minProductionSecretLen
	}
	if len(c.Session.Secret) < minLen {
		return fmt.Errorf("session secret must be at least %d bytes in %s mode", minLen, c.Mode)
	}
	if c.Session.TTL <= 0 {
		return fmt.Errorf("session ttl must be positive, got %v", c.Session.TTL)
	}
	switch c.Log.Formatter {
	case "text", "json", "logfmt":
	default:
		return fmt.Errorf("unknown log formatter %q", c.Log.Formatter)
	}
	return nil
}
