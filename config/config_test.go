package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadCreatesDefaultFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.ListenAddress != ":8546" {
		t.Fatalf("unexpected listen address: %q", cfg.ListenAddress)
	}
	if cfg.MaxNameLength != 80 || cfg.MaxDescriptionLength != 500 {
		t.Fatalf("unexpected limits: %+v", cfg)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("default file was not written: %v", err)
	}

	// Reloading reads the file that was just written.
	again, err := Load(path)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if *again != *cfg {
		t.Fatalf("reload mismatch: %+v vs %+v", again, cfg)
	}
}

func TestLoadAppliesDefaultsForMissingFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("ListenAddress = \":9999\"\n"), 0o644); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.ListenAddress != ":9999" {
		t.Fatalf("explicit field lost: %q", cfg.ListenAddress)
	}
	if cfg.DataDir != "./spacedata" || cfg.MaxCIDLength != 200 {
		t.Fatalf("defaults not applied: %+v", cfg)
	}
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("NoSuchField = true\n"), 0o644); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected unknown-field error")
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config must validate: %v", err)
	}

	cfg = Default()
	cfg.ListenAddress = " "
	if err := cfg.Validate(); err == nil {
		t.Fatalf("blank listen address must be rejected")
	}

	cfg = Default()
	cfg.GenesisFile = "/no/such/genesis.json"
	if err := cfg.Validate(); err == nil {
		t.Fatalf("missing genesis file must be rejected")
	}
}
