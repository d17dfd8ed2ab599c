package testsupport

import (
	"path/filepath"
	"testing"

	"speedpack/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config whose inputs and outputs live in a unique temp
// directory. The input files are not created; use WithFixtures for that.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Inputs.Dat = filepath.Join(base, "catalog.dat")
	cfgVal.Inputs.SMDB = filepath.Join(base, "pack.txt")

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithFixtures writes the catalog and cross-reference inputs the config
// points at.
func WithFixtures(roms []Rom, rows []CrossRefRow) ConfigOption {
	return func(b *configBuilder) {
		WriteCatalogFile(b.t, b.cfg.Inputs.Dat, roms)
		WriteCrossRefFile(b.t, b.cfg.Inputs.SMDB, rows)
	}
}

// WithOutput directs the pack list to a file under the temp directory.
func WithOutput(name string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Output.Path = filepath.Join(b.baseDir, name)
	}
}

// WithPlanDB enables the plan store under the temp directory.
func WithPlanDB() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Output.PlanDB = filepath.Join(b.baseDir, "plans.db")
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Inputs.Dat)
}
