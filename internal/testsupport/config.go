package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"synthgrid/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// Engine support files (routines and grid) are written under the temp tree so
// path-existence checks pass without a real engine installation.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.OutputDir = filepath.Join(base, "output")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Engine.LibraryPath = filepath.Join(base, "library")
	cfgVal.Engine.BroadenRoutine = writeFile(t, base, "gaussbroad.pro", "; stub\n")
	cfgVal.Engine.ExtractRoutine = writeFile(t, base, "get_spec.pro", "; stub\n")
	cfgVal.Engine.GridPath = writeFile(t, base, "grid_synthspec.sav", "stub-grid\n")
	cfgVal.Engine.LockPath = filepath.Join(base, "engine.lock")
	cfgVal.Engine.StartupTimeout = 5
	cfgVal.Catalog.Path = filepath.Join(base, "catalog.db")

	builder := &configBuilder{t: t, baseDir: base, cfg: &cfgVal}
	for _, opt := range opts {
		opt(builder)
	}
	return builder.cfg
}

// WithEngineBinary overrides the engine binary on the test config.
func WithEngineBinary(binary string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Engine.Binary = binary
	}
}

// WithInstrument selects the instrument preset on the test config.
func WithInstrument(name string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Synthesis.Instrument = name
	}
}

// WithCatalogDisabled turns off run recording on the test config.
func WithCatalogDisabled() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Catalog.Enabled = false
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.OutputDir)
}

func writeFile(t testing.TB, base, name, body string) string {
	t.Helper()
	path := filepath.Join(base, name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}
