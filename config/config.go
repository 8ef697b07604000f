// Package config loads the application configuration (server ports,
// store backend, admin credential) from a YAML file with ${ENV_VAR}
// placeholder expansion. This is deployment configuration; the
// BusinessRules aggregate is runtime configuration and lives in the
// rules store instead.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port        int      `yaml:"port"`
		CORSOrigins []string `yaml:"cors_origins"`
	} `yaml:"server"`

	Store struct {
		// Backend selects the rules store: "sqlite", "redis" or "memory".
		Backend    string `yaml:"backend"`
		SQLitePath string `yaml:"sqlite_path"`
		Redis      struct {
			Address  string `yaml:"address"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
		} `yaml:"redis"`
		CacheTTLSeconds   int `yaml:"cache_ttl_seconds"`
		ReadTimeoutMillis int `yaml:"read_timeout_ms"`
	} `yaml:"store"`

	Admin struct {
		Username string `yaml:"username"`
		// PasswordHash is a bcrypt hash; the plaintext credential is never
		// stored or compared.
		PasswordHash string `yaml:"password_hash"`
		// WritesPerMinute rate-limits the mutation endpoint.
		WritesPerMinute int `yaml:"writes_per_minute"`
	} `yaml:"admin"`

	Ordering struct {
		GraceMinutes int `yaml:"grace_minutes"`
	} `yaml:"ordering"`

	Monitoring struct {
		PrometheusEnabled bool `yaml:"prometheus_enabled"`
		PrometheusPort    int  `yaml:"prometheus_port"`
	} `yaml:"monitoring"`
}

// Load reads the YAML file at path, expanding ${ENV_VAR} placeholders.
func Load(path string) (*Config, error) {
	if path == "" {
		path = "configs/config.yaml"
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Support ${ENV_VAR} placeholders in YAML config.
	data = []byte(os.ExpandEnv(string(data)))

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.applyDefaults()
	return &cfg, nil
}

// Default returns a runnable configuration when no file is present.
func Default() *Config {
	var cfg Config
	cfg.applyDefaults()
	return &cfg
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Store.Backend == "" {
		c.Store.Backend = "sqlite"
	}
	if c.Store.SQLitePath == "" {
		c.Store.SQLitePath = "storefront.db"
	}
	if c.Store.CacheTTLSeconds == 0 {
		c.Store.CacheTTLSeconds = 60
	}
	if c.Store.ReadTimeoutMillis == 0 {
		c.Store.ReadTimeoutMillis = 2000
	}
	if c.Admin.Username == "" {
		c.Admin.Username = "admin"
	}
	if c.Admin.WritesPerMinute == 0 {
		c.Admin.WritesPerMinute = 30
	}
	if c.Monitoring.PrometheusPort == 0 {
		c.Monitoring.PrometheusPort = 9090
	}
}

func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Store.CacheTTLSeconds) * time.Second
}

func (c *Config) StoreReadTimeout() time.Duration {
	return time.Duration(c.Store.ReadTimeoutMillis) * time.Millisecond
}
