package config

import (
	"fmt"
	"os"
	"strings"
)

// Normalize trims values, expands paths, applies environment fallbacks, and
// restores defaults for unset numeric and logging fields. Load calls it; the
// CLI calls it again after layering flag overrides.
func (c *Config) Normalize() error {
	if err := c.normalizeInputs(); err != nil {
		return err
	}
	if err := c.normalizeOutput(); err != nil {
		return err
	}
	c.Regions.SixtyHz = cleanList(c.Regions.SixtyHz)
	c.Regions.FiftyHz = cleanList(c.Regions.FiftyHz)
	c.Filter.Exclude = cleanKeywords(c.Filter.Exclude)
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizeInputs() error {
	if strings.TrimSpace(c.Inputs.Dat) == "" {
		if value, ok := os.LookupEnv("SPEEDPACK_DAT"); ok {
			c.Inputs.Dat = value
		}
	}
	if strings.TrimSpace(c.Inputs.SMDB) == "" {
		if value, ok := os.LookupEnv("SPEEDPACK_SMDB"); ok {
			c.Inputs.SMDB = value
		}
	}

	var err error
	if c.Inputs.Dat, err = expandPath(strings.TrimSpace(c.Inputs.Dat)); err != nil {
		return fmt.Errorf("inputs.dat: %w", err)
	}
	if c.Inputs.SMDB, err = expandPath(strings.TrimSpace(c.Inputs.SMDB)); err != nil {
		return fmt.Errorf("inputs.smdb: %w", err)
	}
	return nil
}

func (c *Config) normalizeOutput() error {
	var err error
	if c.Output.Path, err = expandPath(strings.TrimSpace(c.Output.Path)); err != nil {
		return fmt.Errorf("output.path: %w", err)
	}
	if c.Output.PlanDB, err = expandPath(strings.TrimSpace(c.Output.PlanDB)); err != nil {
		return fmt.Errorf("output.plan_db: %w", err)
	}
	if c.Output.MaxPerDir == 0 {
		c.Output.MaxPerDir = defaultMaxPerDir
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

// cleanList trims entries and drops empty ones and repeats while keeping
// order. Region tokens are trimmed before matching, so names are too. Case is
// preserved.
func cleanList(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, value := range values {
		trimmed := strings.TrimSpace(value)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}
	return out
}

// cleanKeywords drops empty entries and exact repeats. Keywords are literal
// substrings, so surrounding spaces are kept.
func cleanKeywords(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, value := range values {
		if value == "" {
			continue
		}
		if _, exists := seen[value]; exists {
			continue
		}
		seen[value] = struct{}{}
		out = append(out, value)
	}
	return out
}
