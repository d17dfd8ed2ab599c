package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateOutput(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateOutput() error {
	if c.Output.MaxPerDir < 1 {
		return fmt.Errorf("output.max_per_dir must be at least 1 (got %d)", c.Output.MaxPerDir)
	}
	if c.Output.Path != "" && c.Output.Path == c.Output.PlanDB {
		return errors.New("output.path and output.plan_db must differ")
	}
	if strings.ContainsAny(c.Output.Prefix, "\t\n") {
		return errors.New("output.prefix must not contain tabs or newlines")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be \"console\" or \"json\" (got %q)", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error (got %q)", c.Logging.Level)
	}
	return nil
}

// ValidateInputs ensures both input files are configured and readable.
func (c *Config) ValidateInputs() error {
	if c.Inputs.Dat == "" {
		return errors.New("inputs.dat is required (use --dat or set SPEEDPACK_DAT)")
	}
	if c.Inputs.SMDB == "" {
		return errors.New("inputs.smdb is required (use --smdb or set SPEEDPACK_SMDB)")
	}
	for key, path := range map[string]string{"inputs.dat": c.Inputs.Dat, "inputs.smdb": c.Inputs.SMDB} {
		info, err := os.Stat(path)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		if info.IsDir() {
			return fmt.Errorf("%s: %s is a directory", key, path)
		}
	}
	return nil
}
