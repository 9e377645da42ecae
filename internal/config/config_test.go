package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Port != 5050 {
		t.Errorf("Port = %d; want 5050", cfg.Port)
	}
	if cfg.Env != "development" {
		t.Errorf("Env = %q; want development", cfg.Env)
	}
	if cfg.SessionMaxAge != 86400 {
		t.Errorf("SessionMaxAge = %d; want 86400", cfg.SessionMaxAge)
	}
	if !cfg.CascadeDelete {
		t.Error("CascadeDelete should default to true")
	}
	if cfg.IsProduction() {
		t.Error("IsProduction() should be false by default")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9999")
	t.Setenv("ENV", "production")
	t.Setenv("DATABASE_URL", "postgres://tp:tp@localhost:5432/taskpilot")
	t.Setenv("CASCADE_DELETE", "false")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Port != 9999 {
		t.Errorf("Port = %d; want 9999", cfg.Port)
	}
	if !cfg.IsProduction() {
		t.Error("IsProduction() should be true")
	}
	if cfg.CascadeDelete {
		t.Error("CascadeDelete should be false")
	}
}

func TestLoad_ProductionRequiresDatabaseURL(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("DATABASE_URL", "")

	if _, err := Load(); err == nil {
		t.Error("Load() should fail in production without DATABASE_URL")
	}
}

func TestLoad_ConfigFileOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "taskpilot.yaml")
	data := []byte("port: 7070\nsession_max_age: 3600\nrate_limit:\n  requests_per_minute: 10\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("write config file: %v", err)
	}
	t.Setenv("CONFIG_FILE", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Port != 7070 {
		t.Errorf("Port = %d; want 7070", cfg.Port)
	}
	if cfg.SessionMaxAge != 3600 {
		t.Errorf("SessionMaxAge = %d; want 3600", cfg.SessionMaxAge)
	}
	if cfg.RequestsPerMinute != 10 {
		t.Errorf("RequestsPerMinute = %d; want 10", cfg.RequestsPerMinute)
	}
	// Keys absent from the file keep their environment defaults.
	if cfg.SQLitePath != "taskpilot.db" {
		t.Errorf("SQLitePath = %q; want taskpilot.db", cfg.SQLitePath)
	}
}

func TestLoad_ConfigFileMissing(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "nope.yaml"))

	if _, err := Load(); err == nil {
		t.Error("Load() should fail when CONFIG_FILE does not exist")
	}
}
