package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/menta2k/poster-cropper/pkg/cropper"
	"github.com/menta2k/poster-cropper/pkg/types"
)

// EnvPrefix is prepended to every environment override
const EnvPrefix = "POSTERCROP_"

// Config holds the application configuration
type Config struct {
	Cropper CropperConfig `json:"cropper"`
	Output  OutputConfig  `json:"output"`
	Log     LogConfig     `json:"log"`
}

// CropperConfig holds configuration for cropping
type CropperConfig struct {
	BoundsPolicy string `json:"bounds_policy"`
}

// OutputConfig holds configuration for output generation
type OutputConfig struct {
	Dir            string `json:"dir"`
	PNGCompression string `json:"png_compression"`
	JPEGQuality    int    `json:"jpeg_quality"`
	WebPQuality    int    `json:"webp_quality"`
	WebPLossless   bool   `json:"webp_lossless"`
}

// LogConfig holds configuration for the crop log
type LogConfig struct {
	File    string `json:"file"`
	Level   string `json:"level"`
	Console bool   `json:"console"`
}

// Default returns a configuration with default values
func Default() *Config {
	enc := types.DefaultEncodeOptions()
	return &Config{
		Cropper: CropperConfig{
			BoundsPolicy: string(cropper.Reject),
		},
		Output: OutputConfig{
			Dir:            ".",
			PNGCompression: enc.PNGCompression,
			JPEGQuality:    enc.JPEGQuality,
			WebPQuality:    enc.WebPQuality,
			WebPLossless:   enc.WebPLossless,
		},
		Log: LogConfig{
			File:    "log.txt",
			Level:   "info",
			Console: false,
		},
	}
}

// Load builds the effective configuration: defaults, then the config file at
// path (skipped when it does not exist), then a .env file, then environment
// variables.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		loaded, err := LoadFromFile(path)
		switch {
		case err == nil:
			cfg = loaded
		case errors.Is(err, os.ErrNotExist):
		default:
			return nil, err
		}
	}

	// A missing .env is normal
	_ = godotenv.Load()

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromFile loads configuration from a JSON file. Fields absent from the
// file keep their default values.
func LoadFromFile(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := Default()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveToFile saves configuration to a JSON file
func (c *Config) SaveToFile(filename string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ApplyEnv overrides fields from POSTERCROP_* environment variables
func (c *Config) ApplyEnv() error {
	strs := map[string]*string{
		"BOUNDS_POLICY":   &c.Cropper.BoundsPolicy,
		"OUTPUT_DIR":      &c.Output.Dir,
		"PNG_COMPRESSION": &c.Output.PNGCompression,
		"LOG_FILE":        &c.Log.File,
		"LOG_LEVEL":       &c.Log.Level,
	}
	for key, dst := range strs {
		if v, ok := os.LookupEnv(EnvPrefix + key); ok {
			*dst = v
		}
	}

	ints := map[string]*int{
		"JPEG_QUALITY": &c.Output.JPEGQuality,
		"WEBP_QUALITY": &c.Output.WebPQuality,
	}
	for key, dst := range ints {
		if v, ok := os.LookupEnv(EnvPrefix + key); ok {
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				return fmt.Errorf("%s%s: %w", EnvPrefix, key, err)
			}
			*dst = n
		}
	}

	bools := map[string]*bool{
		"WEBP_LOSSLESS": &c.Output.WebPLossless,
		"LOG_CONSOLE":   &c.Log.Console,
	}
	for key, dst := range bools {
		if v, ok := os.LookupEnv(EnvPrefix + key); ok {
			b, err := strconv.ParseBool(strings.TrimSpace(v))
			if err != nil {
				return fmt.Errorf("%s%s: %w", EnvPrefix, key, err)
			}
			*dst = b
		}
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if _, err := cropper.ParseBoundsPolicy(c.Cropper.BoundsPolicy); err != nil {
		return fmt.Errorf("cropper.bounds_policy: %w", err)
	}

	switch strings.ToLower(c.Output.PNGCompression) {
	case "", "default", "none", "fast", "best":
	default:
		return fmt.Errorf("output.png_compression must be one of default, none, fast, best")
	}

	if c.Output.JPEGQuality < 1 || c.Output.JPEGQuality > 100 {
		return fmt.Errorf("output.jpeg_quality must be between 1 and 100")
	}

	if c.Output.WebPQuality < 1 || c.Output.WebPQuality > 100 {
		return fmt.Errorf("output.webp_quality must be between 1 and 100")
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error")
	}

	return nil
}

// EncodeOptions returns the encoder settings described by the output section
func (c *Config) EncodeOptions() types.EncodeOptions {
	return types.EncodeOptions{
		PNGCompression: c.Output.PNGCompression,
		JPEGQuality:    c.Output.JPEGQuality,
		WebPQuality:    c.Output.WebPQuality,
		WebPLossless:   c.Output.WebPLossless,
	}
}

// GetConfigPath returns the default configuration file path
func GetConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "./config.json"
	}
	return filepath.Join(home, ".config", "poster-cropper", "config.json")
}
