package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	cfg := &Config{}
	setDefaults(cfg)

	if cfg.Addr != DefaultAddr {
		t.Errorf("Addr: got %q, want %q", cfg.Addr, DefaultAddr)
	}
	if cfg.Mode != ModeDevelopment {
		t.Errorf("Mode: got %q, want %q", cfg.Mode, ModeDevelopment)
	}
	if cfg.Session.TTL != DefaultSessionTTL {
		t.Errorf("Session.TTL: got %v, want %v", cfg.Session.TTL, DefaultSessionTTL)
	}
	if cfg.Session.BcryptCost != DefaultBcryptCost {
		t.Errorf("Session.BcryptCost: got %d, want %d", cfg.Session.BcryptCost, DefaultBcryptCost)
	}
	if cfg.Production() {
		t.Error("Production: got true, want false")
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "todo.toml")
	data := `
addr = ":9090"
mode = "production"

[session]
secret = "0123456789abcdef0123456789abcdef"
ttl = "2h"

[storage]
postgres_url = "postgres://localhost/todo"
redis_addr = "localhost:6379"

[log]
level = "debug"
formatter = "json"
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Addr != ":9090" {
		t.Errorf("Addr: got %q, want :9090", cfg.Addr)
	}
	if !cfg.Production() {
		t.Error("Production: got false, want true")
	}
	if cfg.Session.TTL != 2*time.Hour {
		t.Errorf("Session.TTL: got %v, want 2h", cfg.Session.TTL)
	}
	if cfg.Session.BcryptCost != DefaultBcryptCost {
		t.Errorf("Session.BcryptCost: got %d, want default", cfg.Session.BcryptCost)
	}
	if cfg.Storage.PostgresURL != "postgres://localhost/todo" || cfg.Storage.RedisAddr != "localhost:6379" {
		t.Errorf("Storage: got %+v", cfg.Storage)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Formatter != "json" {
		t.Errorf("Log: got %+v", cfg.Log)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Fatal("Load: expected error for missing file")
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"TODO_ADDR":           ":7070",
		"TODO_SESSION_SECRET": "from-env-secret-value",
		"TODO_SESSION_TTL":    "45m",
		"TODO_BCRYPT_COST":    "12",
		"TODO_REDIS_DB":       "3",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg := &Config{}
	setDefaults(cfg)
	if err := applyEnv(cfg, lookup); err != nil {
		t.Fatalf("applyEnv: %v", err)
	}

	if cfg.Addr != ":7070" {
		t.Errorf("Addr: got %q, want :7070", cfg.Addr)
	}
	if cfg.Session.Secret != "from-env-secret-value" {
		t.Errorf("Session.Secret: got %q", cfg.Session.Secret)
	}
	if cfg.Session.TTL != 45*time.Minute {
		t.Errorf("Session.TTL: got %v, want 45m", cfg.Session.TTL)
	}
	if cfg.Session.BcryptCost != 12 {
		t.Errorf("Session.BcryptCost: got %d, want 12", cfg.Session.BcryptCost)
	}
	if cfg.Storage.RedisDB != 3 {
		t.Errorf("Storage.RedisDB: got %d, want 3", cfg.Storage.RedisDB)
	}
	if cfg.Mode != DefaultMode {
		t.Errorf("Mode: got %q, want default", cfg.Mode)
	}
}

func TestApplyEnvInvalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"bad ttl", "TODO_SESSION_TTL", "soon"},
		{"bad cost", "TODO_BCRYPT_COST", "ten"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			setDefaults(cfg)
			err := applyEnv(cfg, func(k string) (string, bool) {
				if k == tt.key {
					return tt.val, true
				}
				return "", false
			})
			if err == nil || !strings.Contains(err.Error(), tt.key) {
				t.Fatalf("applyEnv: got %v, want error naming %s", err, tt.key)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := &Config{}
		setDefaults(cfg)
		cfg.Session.Secret = "0123456789abcdef"
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"missing secret", func(c *Config) { c.Session.Secret = "" }, "session secret"},
		{"short production secret", func(c *Config) { c.Mode = ModeProduction }, "session secret"},
		{"unknown mode", func(c *Config) { c.Mode = "staging" }, "unknown mode"},
		{"empty addr", func(c *Config) { c.Addr = "" }, "addr"},
		{"zero ttl", func(c *Config) { c.Session.TTL = 0 }, "ttl"},
		{"bad formatter", func(c *Config) { c.Log.Formatter = "xml" }, "formatter"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Validate: got %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}
