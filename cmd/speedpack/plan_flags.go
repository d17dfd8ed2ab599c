package main

import (
	"slices"

	"github.com/spf13/cobra"

	"speedpack/internal/config"
	"speedpack/internal/packlist"
	"speedpack/internal/region"
)

// planFlags are the overrides shared by commands that read the catalog.
type planFlags struct {
	dat       string
	smdb      string
	out       string
	prefix    string
	maxPerDir int
	sixtyHz   []string
	fiftyHz   []string
	exclude   []string
	planDB    string
}

func (f *planFlags) registerCatalog(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.dat, "dat", "d", "", "Catalog (Logiqx XML) path")
	cmd.Flags().IntVarP(&f.maxPerDir, "max-per-dir", "m", 0, "Maximum roms per directory (default 10000)")
	f.registerRegions(cmd)
}

func (f *planFlags) registerRegions(cmd *cobra.Command) {
	cmd.Flags().StringArrayVarP(&f.sixtyHz, "region-60hz", "6", nil, "Additional 60Hz region (repeatable)")
	cmd.Flags().StringArrayVarP(&f.fiftyHz, "region-50hz", "5", nil, "Additional 50Hz region (repeatable)")
}

func (f *planFlags) registerOutput(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.smdb, "smdb", "s", "", "Cross-reference (tab-separated) path")
	cmd.Flags().StringVarP(&f.out, "out", "o", "", "Pack-list destination (default stdout)")
	cmd.Flags().StringVarP(&f.prefix, "prefix", "p", "", "Leading directory for generated paths")
	cmd.Flags().StringArrayVarP(&f.exclude, "exclude", "x", nil, "Skip roms whose name contains this text (repeatable)")
	cmd.Flags().StringVar(&f.planDB, "db", "", "Record the run in this SQLite plan database")
}

// apply layers the changed flags over base and returns a validated copy.
// List flags extend the configured lists.
func (f *planFlags) apply(cmd *cobra.Command, base *config.Config) (*config.Config, error) {
	cfg := *base
	flags := cmd.Flags()
	if flags.Changed("dat") {
		cfg.Inputs.Dat = f.dat
	}
	if flags.Changed("smdb") {
		cfg.Inputs.SMDB = f.smdb
	}
	if flags.Changed("out") {
		cfg.Output.Path = f.out
	}
	if flags.Changed("prefix") {
		cfg.Output.Prefix = f.prefix
	}
	if flags.Changed("db") {
		cfg.Output.PlanDB = f.planDB
	}
	cfg.Regions.SixtyHz = append(slices.Clone(base.Regions.SixtyHz), f.sixtyHz...)
	cfg.Regions.FiftyHz = append(slices.Clone(base.Regions.FiftyHz), f.fiftyHz...)
	cfg.Filter.Exclude = append(slices.Clone(base.Filter.Exclude), f.exclude...)

	if err := cfg.Normalize(); err != nil {
		return nil, err
	}
	// Normalize restores the default for zero; an explicit -m 0 must fail.
	if flags.Changed("max-per-dir") {
		cfg.Output.MaxPerDir = f.maxPerDir
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func regionTable(cfg *config.Config) *region.Table {
	return region.NewTable(cfg.Regions.SixtyHz, cfg.Regions.FiftyHz)
}

func packOptions(cfg *config.Config) packlist.Options {
	return packlist.Options{
		CatalogPath:  cfg.Inputs.Dat,
		CrossRefPath: cfg.Inputs.SMDB,
		Prefix:       cfg.Output.Prefix,
		MaxPerDir:    cfg.Output.MaxPerDir,
		Regions:      regionTable(cfg),
		Exclude:      cfg.Filter.Exclude,
	}
}
