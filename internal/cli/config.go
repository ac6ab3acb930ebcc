// Package cli holds the configuration layer and wiring shared by the
// voltwiz commands.
package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"log/slog"

	"gopkg.in/yaml.v3"
)

// Config is the application configuration, loaded from YAML with
// environment overrides.
type Config struct {
	Agent       AgentConfig       `yaml:"agent"`
	Redis       RedisConfig       `yaml:"redis"`
	History     HistoryConfig     `yaml:"history"`
	Log         LogConfig         `yaml:"log"`
	Persistence PersistenceConfig `yaml:"persistence"`

	// SchemaPath points at a wizard definition YAML; empty uses the
	// built-in eight-step wizard.
	SchemaPath string `yaml:"schemaPath"`
}

// AgentConfig configures the reasoning service connection.
type AgentConfig struct {
	URL     string        `yaml:"url"`
	APIKey  string        `yaml:"apiKey"`
	Timeout time.Duration `yaml:"timeout"`
	// Demo swaps the HTTP client for the built-in scripted stub.
	Demo bool `yaml:"demo"`
}

// RedisConfig enables the Redis session store and locker when Addr is set.
type RedisConfig struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

// PersistenceConfig hardens what reaches the session store backend.
type PersistenceConfig struct {
	// EncryptionKey, when set, must be exactly 32 bytes; sessions are
	// then stored as AES-GCM envelopes.
	EncryptionKey string `yaml:"encryptionKey"`
	// FallbackKeys are previous encryption keys kept during rotation.
	FallbackKeys []string `yaml:"fallbackKeys"`
	// PIIPatterns are regexes matched against extracted parameter keys;
	// matching values are masked at rest.
	PIIPatterns []string `yaml:"piiPatterns"`
}

// HistoryConfig bounds per-session conversation history.
type HistoryConfig struct {
	Limit int `yaml:"limit"`
}

// LogConfig sets the log level (debug, info, warn, error).
type LogConfig struct {
	Level string `yaml:"level"`
}

// DefaultConfigPath is where commands look when --config is not given.
const DefaultConfigPath = "voltwiz.yaml"

// LoadConfig reads the configuration file and applies environment
// overrides. A missing file at the default path is not an error.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	case os.IsNotExist(err) && path == DefaultConfigPath:
		// Defaults only.
	default:
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	applyEnv(cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("VOLTWIZ_AGENT_URL"); v != "" {
		cfg.Agent.URL = v
	}
	if v := os.Getenv("VOLTWIZ_AGENT_API_KEY"); v != "" {
		cfg.Agent.APIKey = v
	}
	if v := os.Getenv("VOLTWIZ_REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("VOLTWIZ_REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v := os.Getenv("VOLTWIZ_REDIS_DB"); v != "" {
		if db, err := strconv.Atoi(v); err == nil {
			cfg.Redis.DB = db
		}
	}
	if v := os.Getenv("VOLTWIZ_ENCRYPTION_KEY"); v != "" {
		cfg.Persistence.EncryptionKey = v
	}
	if v := os.Getenv("VOLTWIZ_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("VOLTWIZ_SCHEMA"); v != "" {
		cfg.SchemaPath = v
	}
}

// LogLevel maps the configured level name to slog.
func (c *Config) LogLevel() slog.Level {
	switch strings.ToLower(c.Log.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
