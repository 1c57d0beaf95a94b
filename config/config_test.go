package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "8080" || cfg.Database.Driver != "postgres" || cfg.Yahoo.SymbolSuffix != ".KS" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.Upstream.Timeout != 30*time.Second || cfg.Upstream.FanOutLimit != 8 {
		t.Errorf("unexpected upstream defaults: %+v", cfg.Upstream)
	}
	if cfg.Cleanup.At != "04:00" || cfg.Cleanup.InactiveDays != 90 {
		t.Errorf("unexpected cleanup defaults: %+v", cfg.Cleanup)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
port: "9090"
database:
  driver: sqlite
  sqlite_path: /tmp/test.db
upstream:
  timeout: 5s
  fanout_limit: 4
deepsearch:
  api_key: from-file
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("FANOUT_LIMIT", "12")
	t.Setenv("DEEPSEARCH_API_KEY", "from-env")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "9090" || cfg.Database.Driver != "sqlite" || cfg.Database.SQLitePath != "/tmp/test.db" {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if cfg.Upstream.Timeout != 5*time.Second {
		t.Errorf("expected 5s timeout, got %s", cfg.Upstream.Timeout)
	}
	if cfg.Upstream.FanOutLimit != 12 || cfg.DeepSearch.APIKey != "from-env" {
		t.Errorf("env should override file: %+v", cfg)
	}
}

func TestLoad_MissingFileIsOptional(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err != nil {
		t.Fatalf("missing file should not fail: %v", err)
	}
}

func TestValidate(t *testing.T) {
	cfg, _ := Load("")

	bad := *cfg
	bad.Database.Driver = "mysql"
	if err := bad.Validate(); err == nil {
		t.Error("expected error for unsupported driver")
	}

	bad = *cfg
	bad.Cleanup.At = "4am"
	if err := bad.Validate(); err == nil {
		t.Error("expected error for malformed cleanup time")
	}
}

func TestLocation(t *testing.T) {
	cfg := &Config{MarketTimezone: "Not/AZone"}
	if cfg.Location() != time.UTC {
		t.Error("expected UTC fallback")
	}
}
