package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	doc := `
server:
  port: "9090"
store:
  driver: " SQLite "
assessment:
  expose_answer_key: true
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != "9090" {
		t.Fatalf("expected port override, got %q", cfg.Server.Port)
	}
	if cfg.Store.Driver != StoreSQLite {
		t.Fatalf("expected normalized driver, got %q", cfg.Store.Driver)
	}
	if !cfg.Assessment.ExposeAnswerKey {
		t.Fatalf("expected answer key exposure")
	}
	if cfg.Server.RateLimit.Requests != 30 || cfg.Catalog.TTL != "10m" {
		t.Fatalf("expected defaults to survive, got %+v", cfg)
	}
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if !os.IsNotExist(err) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
	if cfg.Store.Driver != StoreMemory {
		t.Fatalf("expected default config alongside error, got %+v", cfg)
	}
}

func TestRepoConfigParses(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", "config", "config.yaml"))
	if err != nil {
		t.Fatalf("load repo config: %v", err)
	}
	if cfg.Store.Driver != StoreMemory {
		t.Fatalf("unexpected driver %q", cfg.Store.Driver)
	}
}

func TestDurations(t *testing.T) {
	cfg := Default()
	if got := cfg.CatalogTTL(); got != 10*time.Minute {
		t.Fatalf("expected default catalog ttl, got %v", got)
	}
	if got := cfg.ResultTTL(); got != 0 {
		t.Fatalf("expected results kept forever by default, got %v", got)
	}
	if got := cfg.RateWindow(); got != time.Minute {
		t.Fatalf("expected 1m rate window, got %v", got)
	}

	cfg.Catalog.TTL = "0s"
	cfg.Redis.TTL = "bogus"
	cfg.Server.RateLimit.Window = "0s"
	if got := cfg.CatalogTTL(); got != 0 {
		t.Fatalf("expected explicit zero catalog ttl, got %v", got)
	}
	if got := cfg.ResultTTL(); got != 0 {
		t.Fatalf("expected fallback for malformed ttl, got %v", got)
	}
	if got := cfg.RateWindow(); got != time.Minute {
		t.Fatalf("expected non-positive window to fall back, got %v", got)
	}

	cfg.Catalog.TTL = "-5m"
	cfg.Redis.TTL = " 90s "
	if got := cfg.CatalogTTL(); got != 10*time.Minute {
		t.Fatalf("expected negative ttl to fall back, got %v", got)
	}
	if got := cfg.ResultTTL(); got != 90*time.Second {
		t.Fatalf("expected 90s, got %v", got)
	}
}
