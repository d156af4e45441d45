package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default config should be valid: %v", err)
	}

	if cfg.Cropper.BoundsPolicy != "reject" {
		t.Errorf("Expected reject policy, got %s", cfg.Cropper.BoundsPolicy)
	}

	if cfg.Log.File != "log.txt" {
		t.Errorf("Expected log.txt, got %s", cfg.Log.File)
	}
}

func TestSaveAndLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")

	cfg := Default()
	cfg.Cropper.BoundsPolicy = "clamp"
	cfg.Output.JPEGQuality = 70
	cfg.Log.Console = true

	if err := cfg.SaveToFile(path); err != nil {
		t.Fatalf("SaveToFile failed: %v", err)
	}

	loaded, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}

	if *loaded != *cfg {
		t.Errorf("Round trip mismatch:\n got %+v\nwant %+v", *loaded, *cfg)
	}
}

func TestLoadFromFilePartial(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"cropper":{"bounds_policy":"clamp"}}`), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}

	if cfg.Cropper.BoundsPolicy != "clamp" {
		t.Errorf("Expected clamp, got %s", cfg.Cropper.BoundsPolicy)
	}
	if cfg.Output.JPEGQuality != Default().Output.JPEGQuality {
		t.Errorf("Missing fields should keep defaults, got jpeg_quality=%d", cfg.Output.JPEGQuality)
	}
}

func TestLoadFromFileInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"cropper":`), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadFromFile(path); err == nil {
		t.Error("Expected error for invalid JSON")
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Output.Dir != Default().Output.Dir {
		t.Errorf("Expected default output dir, got %s", cfg.Output.Dir)
	}
}

func TestLoadRejectsInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"cropper":{"bounds_policy":"stretch"}}`), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Error("Expected validation error for unknown bounds policy")
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("POSTERCROP_BOUNDS_POLICY", "clamp")
	t.Setenv("POSTERCROP_JPEG_QUALITY", "80")
	t.Setenv("POSTERCROP_LOG_CONSOLE", "true")
	t.Setenv("POSTERCROP_LOG_FILE", "crops.log")

	cfg := Default()
	if err := cfg.ApplyEnv(); err != nil {
		t.Fatalf("ApplyEnv failed: %v", err)
	}

	if cfg.Cropper.BoundsPolicy != "clamp" {
		t.Errorf("Expected clamp, got %s", cfg.Cropper.BoundsPolicy)
	}
	if cfg.Output.JPEGQuality != 80 {
		t.Errorf("Expected jpeg quality 80, got %d", cfg.Output.JPEGQuality)
	}
	if !cfg.Log.Console {
		t.Error("Expected console logging to be enabled")
	}
	if cfg.Log.File != "crops.log" {
		t.Errorf("Expected crops.log, got %s", cfg.Log.File)
	}
}

func TestApplyEnvInvalid(t *testing.T) {
	t.Setenv("POSTERCROP_WEBP_QUALITY", "high")

	if err := Default().ApplyEnv(); err == nil {
		t.Error("Expected error for non-numeric quality")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"bad policy", func(c *Config) { c.Cropper.BoundsPolicy = "pad" }},
		{"bad png compression", func(c *Config) { c.Output.PNGCompression = "max" }},
		{"jpeg quality zero", func(c *Config) { c.Output.JPEGQuality = 0 }},
		{"webp quality too high", func(c *Config) { c.Output.WebPQuality = 101 }},
		{"bad log level", func(c *Config) { c.Log.Level = "trace" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Expected validation error")
			}
		})
	}
}

func TestEncodeOptions(t *testing.T) {
	cfg := Default()
	cfg.Output.WebPLossless = true
	cfg.Output.PNGCompression = "best"

	opts := cfg.EncodeOptions()
	if !opts.WebPLossless || opts.PNGCompression != "best" {
		t.Errorf("Unexpected encode options %+v", opts)
	}
}

func TestGetConfigPath(t *testing.T) {
	if filepath.Base(GetConfigPath()) != "config.json" {
		t.Errorf("Unexpected config path %s", GetConfigPath())
	}
}
