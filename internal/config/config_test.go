package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTPPort != "8080" {
		t.Fatalf("port = %q", cfg.HTTPPort)
	}
	if cfg.TokenTTL != 24*time.Hour {
		t.Fatalf("token ttl = %v", cfg.TokenTTL)
	}
	if cfg.StrictCapacity {
		t.Fatal("strict capacity must default off")
	}
	if !cfg.AllowDuplicateApplications {
		t.Fatal("duplicate applications must default on")
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("HTTP_PORT", "9000")
	t.Setenv("TOKEN_TTL", "30m")
	t.Setenv("DB_MAX_OPEN_CONNS", "5")
	t.Setenv("STRICT_CAPACITY", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTPPort != "9000" {
		t.Fatalf("port = %q", cfg.HTTPPort)
	}
	if cfg.TokenTTL != 30*time.Minute {
		t.Fatalf("token ttl = %v", cfg.TokenTTL)
	}
	if cfg.DBMaxOpenConns != 5 {
		t.Fatalf("max open conns = %d", cfg.DBMaxOpenConns)
	}
	if !cfg.StrictCapacity {
		t.Fatal("strict capacity not picked up")
	}
}

func TestLoadIgnoresMalformedValues(t *testing.T) {
	t.Setenv("TOKEN_TTL", "not-a-duration")
	t.Setenv("DB_MAX_OPEN_CONNS", "lots")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.TokenTTL != 24*time.Hour {
		t.Fatalf("token ttl = %v, want default", cfg.TokenTTL)
	}
	if cfg.DBMaxOpenConns != 25 {
		t.Fatalf("max open conns = %d, want default", cfg.DBMaxOpenConns)
	}
}

func TestYAMLOverlayWinsOverEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := "http_port: \"7000\"\nsqlite_path: /tmp/internhub.db\nstrict_capacity: true\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("HTTP_PORT", "9000")
	t.Setenv("INTERNHUB_CONFIG", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTPPort != "7000" {
		t.Fatalf("port = %q, yaml overlay must win", cfg.HTTPPort)
	}
	if cfg.SQLitePath != "/tmp/internhub.db" {
		t.Fatalf("sqlite path = %q", cfg.SQLitePath)
	}
	if !cfg.StrictCapacity {
		t.Fatal("strict capacity not applied from yaml")
	}
}

func TestMissingYAMLFileFails(t *testing.T) {
	t.Setenv("INTERNHUB_CONFIG", filepath.Join(t.TempDir(), "absent.yaml"))
	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing config file")
	}
}
