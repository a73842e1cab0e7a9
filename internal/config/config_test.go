package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/TASallin/JSpz/pkg/splat"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Convert.ContentName != "content.glb" {
		t.Errorf("expected content.glb, got %s", cfg.Convert.ContentName)
	}
	if cfg.Convert.BoundsMode != "box" {
		t.Errorf("expected bounds mode box, got %s", cfg.Convert.BoundsMode)
	}
	if cfg.Convert.ErrorDivisor != 16 {
		t.Errorf("expected error divisor 16, got %v", cfg.Convert.ErrorDivisor)
	}
	if cfg.Convert.Workers != 0 {
		t.Errorf("expected workers 0 (auto), got %d", cfg.Convert.Workers)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level info, got %s", cfg.Logging.Level)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spztool.yaml")
	content := `convert:
  content_name: scene.glb
  bounds_mode: sphere
  error_divisor: 8
logging:
  level: debug
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, path); err != nil {
		t.Fatalf("loadFromFile failed: %v", err)
	}

	if cfg.Convert.ContentName != "scene.glb" {
		t.Errorf("expected scene.glb, got %s", cfg.Convert.ContentName)
	}
	if cfg.Convert.BoundsMode != "sphere" {
		t.Errorf("expected sphere, got %s", cfg.Convert.BoundsMode)
	}
	if cfg.Convert.ErrorDivisor != 8 {
		t.Errorf("expected divisor 8, got %v", cfg.Convert.ErrorDivisor)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected debug, got %s", cfg.Logging.Level)
	}
	// Unset keys keep their defaults.
	if cfg.Convert.Workers != 0 {
		t.Errorf("expected workers default 0, got %d", cfg.Convert.Workers)
	}
}

func TestSaveToRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "spztool.yaml")

	cfg := Default()
	cfg.Convert.ContentName = "custom.glb"
	cfg.Convert.Workers = 4
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo failed: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("loadFromFile failed: %v", err)
	}
	if loaded.Convert.ContentName != "custom.glb" {
		t.Errorf("expected custom.glb, got %s", loaded.Convert.ContentName)
	}
	if loaded.Convert.Workers != 4 {
		t.Errorf("expected workers 4, got %d", loaded.Convert.Workers)
	}
}

func TestOptions(t *testing.T) {
	cfg := Default()
	cfg.Convert.BoundsMode = "sphere"
	cfg.Convert.Workers = 2

	opts := cfg.Options()
	if opts.BoundsMode != splat.BoundsSphere {
		t.Errorf("expected sphere mode, got %s", opts.BoundsMode)
	}
	if opts.ContentName != "content.glb" {
		t.Errorf("expected content.glb, got %s", opts.ContentName)
	}
	if opts.Workers != 2 {
		t.Errorf("expected workers 2, got %d", opts.Workers)
	}
}

func TestInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spztool.yaml")
	if err := os.WriteFile(path, []byte("convert: [not a mapping"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := loadFromFile(Default(), path); err == nil {
		t.Error("expected error for invalid YAML")
	}
}
