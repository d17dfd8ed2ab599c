package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"speedpack/internal/testsupport"
)

type cliTestEnv struct {
	baseDir  string
	catalog  string
	crossRef string
}

// setupCLITestEnv isolates HOME and the working directory so no real
// configuration is picked up, and writes a small catalog fixture.
func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	t.Setenv("HOME", filepath.Join(base, "home"))
	t.Setenv("SPEEDPACK_DAT", "")
	t.Setenv("SPEEDPACK_SMDB", "")
	t.Chdir(base)

	env := &cliTestEnv{
		baseDir:  base,
		catalog:  filepath.Join(base, "catalog.dat"),
		crossRef: filepath.Join(base, "pack.txt"),
	}
	testsupport.WriteCatalogFile(t, env.catalog, []testsupport.Rom{
		testsupport.NewRom("Alpha (Japan)", "a1"),
		testsupport.NewRom("Game (Beta) (USA)", "b1"),
		testsupport.NewRom("Super Game (USA, Europe)", "s1"),
	})
	testsupport.WriteCrossRefFile(t, env.crossRef, []testsupport.CrossRefRow{
		{Translated: "h-alpha", Filename: "alpha.bin", SourceHash: "a1", Secondary: "x", Checksum: "y"},
		{Translated: "h-super", Filename: "super.bin", SourceHash: "s1", Secondary: "x", Checksum: "y"},
	})
	return env
}

func (e *cliTestEnv) inputArgs(args ...string) []string {
	return append([]string{"--dat", e.catalog, "--smdb", e.crossRef}, args...)
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
