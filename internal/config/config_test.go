package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, path, exists, err := Load(filepath.Join(t.TempDir(), "config.toml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if exists {
		t.Fatal("expected missing config file")
	}
	if path == "" {
		t.Fatal("expected resolved path")
	}
	if cfg.Scan.Parallelism != defaultParallelism {
		t.Fatalf("unexpected parallelism %d", cfg.Scan.Parallelism)
	}
	if cfg.Validation.MinimumYear != defaultMinimumYear {
		t.Fatalf("unexpected minimum year %d", cfg.Validation.MinimumYear)
	}
	if cfg.Logging.Format != "console" {
		t.Fatalf("unexpected log format %q", cfg.Logging.Format)
	}
}

func TestLoadParsesAndNormalizes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[paths]
inbound_dir = "` + filepath.Join(dir, "inbound") + `"
library_dir = "` + filepath.Join(dir, "library") + `"
data_dir = "` + filepath.Join(dir, "data") + `"
log_dir = "` + filepath.Join(dir, "logs") + `"

[scan]
parallelism = 8

[processing]
ignored_performers = [" Various Artists ", "various artists", ""]

[logging]
format = "JSON"
level = "DEBUG"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to be found")
	}
	if cfg.Scan.Parallelism != 8 {
		t.Fatalf("unexpected parallelism %d", cfg.Scan.Parallelism)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("logging not normalized: %+v", cfg.Logging)
	}
	if got := cfg.Processing.IgnoredPerformers; len(got) != 1 || got[0] != "Various Artists" {
		t.Fatalf("ignore list not deduplicated: %v", got)
	}
}

func TestLoadRejectsEqualInboundAndLibrary(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[paths]
inbound_dir = "` + dir + `"
library_dir = "` + dir + `"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, _, _, err := Load(path); err == nil {
		t.Fatal("expected validation error")
	} else if !strings.Contains(err.Error(), "must differ") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateRejectsBadYearRange(t *testing.T) {
	cfg := Default()
	cfg.Validation.MaximumYear = cfg.Validation.MinimumYear
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected year range error")
	}
}

func TestExpandPathHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home directory: %v", err)
	}
	got, err := ExpandPath("~/music")
	if err != nil {
		t.Fatalf("ExpandPath failed: %v", err)
	}
	if got != filepath.Join(home, "music") {
		t.Fatalf("unexpected expansion %q", got)
	}
}

func TestCreateSampleRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}

	cfg, _, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load of sample failed: %v", err)
	}
	if !exists {
		t.Fatal("sample config not detected")
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("sample config invalid: %v", err)
	}
}

func TestEnsureDirectories(t *testing.T) {
	dir := t.TempDir()
	cfg := Default()
	cfg.Paths.InboundDir = filepath.Join(dir, "inbound")
	cfg.Paths.LibraryDir = filepath.Join(dir, "library")
	cfg.Paths.DataDir = filepath.Join(dir, "data")
	cfg.Paths.LogDir = filepath.Join(dir, "logs")

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, p := range []string{cfg.Paths.InboundDir, cfg.Paths.DataDir, cfg.Paths.LogDir, cfg.Paths.LibraryDir} {
		if info, err := os.Stat(p); err != nil || !info.IsDir() {
			t.Fatalf("directory %s missing: %v", p, err)
		}
	}
	if cfg.DatabasePath() != filepath.Join(cfg.Paths.DataDir, "aria.db") {
		t.Fatalf("unexpected database path %q", cfg.DatabasePath())
	}
}
