package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/variantgo/dispatchgen/internal/config"
)

func TestLoadConfig_ExplicitPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.toml")
	if err := os.WriteFile(path, []byte(`features = ["extra"]`), 0644); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.Features) != 1 || cfg.Features[0] != "extra" {
		t.Errorf("unexpected features %v", cfg.Features)
	}
}

func TestLoadConfig_MissingExplicitPath(t *testing.T) {
	_, err := loadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	if err == nil {
		t.Fatal("expected error for missing explicit config")
	}
}

func TestLoadConfig_DefaultFallback(t *testing.T) {
	// No dispatchgen.toml in the package directory: defaults apply.
	cfg, err := loadConfig("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Output.Suffix != config.DefaultSuffix {
		t.Errorf("unexpected suffix %s", cfg.Output.Suffix)
	}
}
