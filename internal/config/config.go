package config

import (
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Store drivers.
const (
	StoreMemory   = "memory"
	StoreRedis    = "redis"
	StorePostgres = "postgres"
	StoreSQLite   = "sqlite"
)

type Config struct {
	Server struct {
		Port        string   `yaml:"port"`
		CORSOrigins []string `yaml:"cors_origins"`
		RateLimit   struct {
			Requests int    `yaml:"requests"`
			Window   string `yaml:"window"`
		} `yaml:"rate_limit"`
	} `yaml:"server"`
	Log struct {
		Level      string `yaml:"level"`
		File       string `yaml:"file"`
		MaxSizeMB  int    `yaml:"max_size_mb"`
		MaxBackups int    `yaml:"max_backups"`
		MaxAgeDays int    `yaml:"max_age_days"`
	} `yaml:"log"`
	Store struct {
		Driver     string `yaml:"driver"`
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"store"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		TTL      string `yaml:"ttl"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	Catalog struct {
		Path string `yaml:"path"`
		TTL  string `yaml:"ttl"`
	} `yaml:"catalog"`
	Assessment struct {
		ExposeAnswerKey bool `yaml:"expose_answer_key"`
	} `yaml:"assessment"`
}

// Default returns the configuration used when no file is present:
// in-memory results and the embedded catalog.
func Default() Config {
	cfg := Config{}
	cfg.Server.Port = "8080"
	cfg.Server.CORSOrigins = []string{"http://localhost:5173", "http://localhost:3000"}
	cfg.Server.RateLimit.Requests = 30
	cfg.Server.RateLimit.Window = "1m"
	cfg.Log.Level = "info"
	cfg.Log.MaxSizeMB = 100
	cfg.Log.MaxBackups = 5
	cfg.Log.MaxAgeDays = 30
	cfg.Store.Driver = StoreMemory
	cfg.Catalog.TTL = "10m"
	return cfg
}

// Load reads YAML config from path on top of Default.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	cfg.Store.Driver = strings.ToLower(strings.TrimSpace(cfg.Store.Driver))
	if cfg.Store.Driver == "" {
		cfg.Store.Driver = StoreMemory
	}
	return cfg, nil
}

// CatalogTTL is how long a loaded catalog is served from cache. Zero caches forever.
func (c Config) CatalogTTL() time.Duration {
	return durationOr(c.Catalog.TTL, 10*time.Minute)
}

// ResultTTL is the Redis retention for stored results. Zero keeps them.
func (c Config) ResultTTL() time.Duration {
	return durationOr(c.Redis.TTL, 0)
}

// RateWindow is the period over which Server.RateLimit.Requests are allowed.
func (c Config) RateWindow() time.Duration {
	if d := durationOr(c.Server.RateLimit.Window, time.Minute); d > 0 {
		return d
	}
	return time.Minute
}

// durationOr parses raw, falling back on empty, malformed or negative input.
func durationOr(raw string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(strings.TrimSpace(raw))
	if err != nil || d < 0 {
		return fallback
	}
	return d
}
