// Package config loads application settings from an optional YAML file
// and NEXTHIRE_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/nexthire/nexthire/internal/llm"
	"github.com/nexthire/nexthire/internal/netcheck"
	"github.com/nexthire/nexthire/internal/orchestrator"
)

// EnvPrefix prefixes every environment override, e.g.
// NEXTHIRE_LLM_GEMINI_API_KEY for llm.gemini.api_key.
const EnvPrefix = "NEXTHIRE"

type Config struct {
	// UserID scopes every stored record.
	UserID string `mapstructure:"user_id"`

	// DBPath is the SQLite file. Empty uses the data directory.
	DBPath string `mapstructure:"db_path"`

	LLM     llm.Config    `mapstructure:"llm"`
	Daily   DailyConfig   `mapstructure:"daily"`
	Network NetworkConfig `mapstructure:"network"`
	Log     LogConfig     `mapstructure:"log"`
	Metrics MetricsConfig `mapstructure:"metrics"`

	// File is the config file that was read, empty if none.
	File string `mapstructure:"-"`
}

type DailyConfig struct {
	BatchDelay time.Duration `mapstructure:"batch_delay"`
}

type NetworkConfig struct {
	// ProbeAddr is dialed to check connectivity. Empty uses the endpoint
	// of the configured LLM provider.
	ProbeAddr string        `mapstructure:"probe_addr"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

// ProbeAddr returns the address the connectivity check dials.
func (c *Config) ProbeAddr() string {
	if c.Network.ProbeAddr != "" {
		return c.Network.ProbeAddr
	}
	if addr := c.LLM.Endpoint(); addr != "" {
		return addr
	}
	return netcheck.DefaultAddr
}

type LogConfig struct {
	Level string `mapstructure:"level"`

	// File is the rotated JSON log. Empty uses the data directory.
	File       string `mapstructure:"file"`
	Console    bool   `mapstructure:"console"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

type MetricsConfig struct {
	// Addr serves /metrics when set, e.g. "127.0.0.1:9464".
	Addr string `mapstructure:"addr"`
}

func setDefaults(v *viper.Viper) {
	l := llm.DefaultConfig()

	v.SetDefault("user_id", "local")
	v.SetDefault("db_path", "")

	v.SetDefault("llm.provider", l.Provider)
	v.SetDefault("llm.gemini.api_key", "")
	v.SetDefault("llm.gemini.model", l.Gemini.Model)
	v.SetDefault("llm.openai.api_key", "")
	v.SetDefault("llm.openai.model", l.OpenAI.Model)
	v.SetDefault("llm.openai.base_url", "")
	v.SetDefault("llm.anthropic.api_key", "")
	v.SetDefault("llm.anthropic.model", l.Anthropic.Model)
	v.SetDefault("llm.anthropic.base_url", "")
	v.SetDefault("llm.openrouter.api_key", "")
	v.SetDefault("llm.openrouter.model", l.OpenRouter.Model)
	v.SetDefault("llm.openrouter.base_url", "")
	v.SetDefault("llm.retry.max_attempts", l.Retry.MaxAttempts)
	v.SetDefault("llm.retry.initial_wait", l.Retry.InitialWait)
	v.SetDefault("llm.retry.max_wait", l.Retry.MaxWait)
	v.SetDefault("llm.retry.multiplier", l.Retry.Multiplier)
	v.SetDefault("llm.timeout", l.Timeout)
	v.SetDefault("llm.requests_per_minute", l.RequestsPerMinute)

	v.SetDefault("daily.batch_delay", orchestrator.DefaultBatchDelay)

	v.SetDefault("network.probe_addr", "")
	v.SetDefault("network.timeout", netcheck.DefaultTimeout)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("log.console", false)
	v.SetDefault("log.max_size_mb", 10)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age_days", 28)

	v.SetDefault("metrics.addr", "")
}

// Load reads the config file at path, or config.yaml from the config
// directory and the working directory when path is empty. A missing file
// is only an error when path was given. Environment variables override
// the file; when the selected provider has no key, the vendors' standard
// key variables are probed.
func Load(path string) (*Config, error) {
	return load(path, os.Getenv)
}

func load(path string, getenv func(string) string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		if dir, err := Dir(); err == nil {
			v.AddConfigPath(dir)
		}
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.File = v.ConfigFileUsed()

	if !cfg.LLM.HasKey() {
		if discovered, ok := cfg.LLM.Discover(getenv); ok {
			cfg.LLM = discovered
		}
	}
	return &cfg, nil
}

// Dir returns the configuration directory.
func Dir() (string, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "nexthire"), nil
}
