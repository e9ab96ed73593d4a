package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInit(t *testing.T) {
	dataDir := filepath.Join(t.TempDir(), "data")
	t.Cleanup(func() { Logger = nil })

	if err := Init(Config{DataDir: dataDir}); err != nil {
		t.Fatalf("Failed to initialize logger: %v", err)
	}

	logDir := filepath.Join(dataDir, "logs")
	if _, err := os.Stat(logDir); os.IsNotExist(err) {
		t.Errorf("Log directory was not created: %s", logDir)
	}

	if Logger == nil {
		t.Fatal("Logger is nil after initialization")
	}

	Debug("Test debug message")
	Info("Test info message", "key", "value")
	Warn("Test warning message")
	Error("Test error message")

	if _, err := os.Stat(filepath.Join(logDir, "objectives.log")); os.IsNotExist(err) {
		t.Error("log file was not created")
	}
}

func TestHelpersWithoutInit(t *testing.T) {
	Logger = nil

	// Must not panic.
	Debug("debug")
	Info("info")
	Warn("warn")
	Error("error")

	if With("k", "v") != nil {
		t.Error("With() should return nil when logger is not initialized")
	}
}

func TestWith(t *testing.T) {
	t.Cleanup(func() { Logger = nil })
	if err := Init(Config{DataDir: t.TempDir(), Debug: true}); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if With("component", "sweep") == nil {
		t.Error("With() returned nil after Init")
	}
}

func TestInitFormats(t *testing.T) {
	t.Cleanup(func() { Logger = nil })

	dataDir := t.TempDir()
	if err := Init(Config{DataDir: dataDir, Format: FormatJSON}); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	Info("sweep finished", "delivered", 2)

	data, err := os.ReadFile(filepath.Join(dataDir, "logs", "objectives.log"))
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	if !strings.Contains(string(data), `"delivered":2`) {
		t.Errorf("expected JSON log line, got %q", data)
	}

	if err := Init(Config{DataDir: dataDir, Format: "xml"}); err == nil {
		t.Error("expected an error for an unknown format")
	}
}
