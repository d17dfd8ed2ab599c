package preflight

import (
	"path/filepath"

	"speedpack/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes the checks that apply to cfg.
func RunAll(cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckFileReadable("Catalog", cfg.Inputs.Dat),
		CheckFileReadable("Cross-reference", cfg.Inputs.SMDB),
	}
	if cfg.Output.Path != "" {
		results = append(results, CheckOutputTarget("Output directory", filepath.Dir(cfg.Output.Path)))
	}
	if cfg.Output.PlanDB != "" {
		results = append(results, CheckOutputTarget("Plan database", filepath.Dir(cfg.Output.PlanDB)))
	}
	return results
}

// Failed reports whether any result did not pass.
func Failed(results []Result) bool {
	for _, r := range results {
		if !r.Passed {
			return true
		}
	}
	return false
}
