// Package config loads server configuration from a YAML file with
// environment variable overrides. Defaults are playable out of the box so
// `go run ./cmd/inspection-server` needs no setup.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the full server configuration.
type Config struct {
	Server struct {
		ListenAddr string `yaml:"listen_addr"`
		Debug      bool   `yaml:"debug"`
	} `yaml:"server"`

	Storage struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"storage"`

	Cache struct {
		SnapshotTTL time.Duration `yaml:"snapshot_ttl"`
	} `yaml:"cache"`

	LLM struct {
		// "openai", "anthropic", or "" for static dialogue only.
		Provider       string  `yaml:"provider"`
		DailyBudgetUSD float64 `yaml:"daily_budget_usd"`
		MonthBudgetUSD float64 `yaml:"month_budget_usd"`
	} `yaml:"llm"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	cfg := &Config{}
	cfg.Server.ListenAddr = ":8080"
	cfg.Server.Debug = false
	cfg.Storage.SQLitePath = "inspeccion.db"
	cfg.Cache.SnapshotTTL = 30 * time.Minute
	cfg.LLM.Provider = ""
	cfg.LLM.DailyBudgetUSD = 1.0
	cfg.LLM.MonthBudgetUSD = 10.0
	return cfg
}

// Load reads the YAML file at path (if it exists), then applies environment
// overrides. A missing file is not an error; a malformed one is.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	applyEnv(cfg)
	return cfg, nil
}

// applyEnv lets deploys override the file without editing it.
func applyEnv(cfg *Config) {
	if v := os.Getenv("INSPECCION_LISTEN_ADDR"); v != "" {
		cfg.Server.ListenAddr = v
	}
	if v := os.Getenv("INSPECCION_DEBUG"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Server.Debug = b
		}
	}
	if v := os.Getenv("INSPECCION_SQLITE_PATH"); v != "" {
		cfg.Storage.SQLitePath = v
	}
	if v := os.Getenv("INSPECCION_LLM_PROVIDER"); v != "" {
		cfg.LLM.Provider = v
	}
	if v := os.Getenv("INSPECCION_SNAPSHOT_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Cache.SnapshotTTL = d
		}
	}
}
