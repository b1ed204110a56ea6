package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/spf13/viper"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

func TestLoadWith_Defaults(t *testing.T) {
	path := writeConfig(t, "")

	cfg, err := LoadWith(viper.New(), path)
	if err != nil {
		t.Fatalf("LoadWith() error = %v", err)
	}

	if cfg.Output.RootName != "Organized" {
		t.Errorf("Expected default root name, got %s", cfg.Output.RootName)
	}
	if !cfg.Scanner.SkipHidden {
		t.Error("Expected hidden entries to be skipped by default")
	}
	if cfg.Hashing.Algorithm != "sha256" {
		t.Errorf("Expected sha256, got %s", cfg.Hashing.Algorithm)
	}
	if cfg.Performance.Workers != 1 {
		t.Errorf("Expected 1 worker, got %d", cfg.Performance.Workers)
	}
	if cfg.History.Path != "" {
		t.Errorf("Expected history disabled, got %s", cfg.History.Path)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Expected info level, got %s", cfg.Logging.Level)
	}
}

func TestLoadWith_File(t *testing.T) {
	path := writeConfig(t, `
output:
  root_name: Sorted
  remove_duplicates: true
scanner:
  skip_hidden: false
  protected: [Private, Archive]
  exclude: ["**/*.tmp"]
hashing:
  algorithm: XXHash
performance:
  workers: 8
planner:
  exif_dates: true
history:
  path: /tmp/history.db
logging:
  level: DEBUG
  file: /tmp/organizer.log
`)

	cfg, err := LoadWith(viper.New(), path)
	if err != nil {
		t.Fatalf("LoadWith() error = %v", err)
	}

	if cfg.Output.RootName != "Sorted" || !cfg.Output.RemoveDuplicates {
		t.Errorf("Unexpected output config: %+v", cfg.Output)
	}
	if cfg.Scanner.SkipHidden {
		t.Error("Expected skip_hidden false")
	}
	if !reflect.DeepEqual(cfg.Scanner.Protected, []string{"Private", "Archive"}) {
		t.Errorf("Unexpected protected: %v", cfg.Scanner.Protected)
	}
	if !reflect.DeepEqual(cfg.Scanner.Exclude, []string{"**/*.tmp"}) {
		t.Errorf("Unexpected exclude: %v", cfg.Scanner.Exclude)
	}
	if cfg.Hashing.Algorithm != "xxhash" {
		t.Errorf("Expected normalized xxhash, got %s", cfg.Hashing.Algorithm)
	}
	if cfg.Performance.Workers != 8 || !cfg.Planner.ExifDates {
		t.Errorf("Unexpected performance/planner config: %+v %+v", cfg.Performance, cfg.Planner)
	}
	if cfg.History.Path != "/tmp/history.db" {
		t.Errorf("Unexpected history path: %s", cfg.History.Path)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.File != "/tmp/organizer.log" {
		t.Errorf("Unexpected logging config: %+v", cfg.Logging)
	}
}

func TestLoadWith_EnvOverride(t *testing.T) {
	path := writeConfig(t, "hashing:\n  algorithm: sha256\n")
	t.Setenv("ORGANIZER_HASHING_ALGORITHM", "xxhash")
	t.Setenv("ORGANIZER_OUTPUT_ROOT_NAME", "FromEnv")

	cfg, err := LoadWith(viper.New(), path)
	if err != nil {
		t.Fatalf("LoadWith() error = %v", err)
	}
	if cfg.Hashing.Algorithm != "xxhash" {
		t.Errorf("Expected env to override file, got %s", cfg.Hashing.Algorithm)
	}
	if cfg.Output.RootName != "FromEnv" {
		t.Errorf("Expected env root name, got %s", cfg.Output.RootName)
	}
}

func TestLoadWith_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"unknown algorithm", "hashing:\n  algorithm: md5\n"},
		{"negative workers", "performance:\n  workers: -1\n"},
		{"too many workers", "performance:\n  workers: 100000\n"},
		{"nested root name", "output:\n  root_name: a/b\n"},
		{"dot root name", "output:\n  root_name: ..\n"},
		{"unknown log level", "logging:\n  level: loud\n"},
		{"empty protected name", "scanner:\n  protected: [\"\"]\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.content)
			if _, err := LoadWith(viper.New(), path); err == nil {
				t.Error("Expected validation error")
			}
		})
	}
}

func TestLoadWith_MissingExplicitFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.yaml")
	if _, err := LoadWith(viper.New(), path); err == nil {
		t.Error("Expected error for missing explicit config file")
	}
}
