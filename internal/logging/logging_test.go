package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/menta2k/poster-cropper/internal/config"
)

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.txt")

	logger, cleanup, err := New(config.LogConfig{File: path, Level: "info"})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	logger.Info("Success: cropped image saved", zap.Int("crop_id", 2), zap.String("output", "Poster2.png"))
	logger.Debug("hidden at info level")
	cleanup()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	out := string(data)

	for _, want := range []string{"Success: cropped image saved", "crop_id", "Poster2.png", "INFO"} {
		if !strings.Contains(out, want) {
			t.Errorf("Log output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "hidden at info level") {
		t.Error("Debug record should be filtered at info level")
	}
}

func TestNewAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.txt")
	if err := os.WriteFile(path, []byte("earlier run\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	logger, cleanup, err := New(config.LogConfig{File: path, Level: "debug"})
	if err != nil {
		t.Fatal(err)
	}
	logger.Error("Error: something failed")
	cleanup()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "earlier run\n") {
		t.Error("Existing log content was overwritten")
	}
	if !strings.Contains(string(data), "Error: something failed") {
		t.Error("New record was not appended")
	}
	if !strings.Contains(string(data), "\tERROR\t") {
		t.Errorf("Expected uppercase level in log file:\n%s", data)
	}
}

func TestNewNop(t *testing.T) {
	logger, cleanup, err := New(config.LogConfig{Level: "info"})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer cleanup()

	if logger.Core().Enabled(zap.ErrorLevel) {
		t.Error("Expected a no-op logger when no sink is configured")
	}
}

func TestNewInvalidLevel(t *testing.T) {
	if _, _, err := New(config.LogConfig{Level: "loud"}); err == nil {
		t.Error("Expected error for invalid level")
	}
}
