package testsupport

import (
	"path/filepath"
	"testing"

	"aria/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.InboundDir = filepath.Join(base, "inbound")
	cfg.Paths.LibraryDir = filepath.Join(base, "library")
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = filepath.Join(base, "logs")

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithParallelism overrides scan parallelism on the test config.
func WithParallelism(n int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Scan.Parallelism = n
	}
}

// WithIgnoredPerformers sets the performer ignore list on the test config.
func WithIgnoredPerformers(names ...string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Processing.IgnoredPerformers = names
	}
}
