package main

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"speedpack/internal/fileutil"
	"speedpack/internal/testsupport"
	"speedpack/internal/xref"
)

func TestPlanWritesStdout(t *testing.T) {
	env := setupCLITestEnv(t)

	out, stderr, err := runCLI(t, append([]string{"plan"}, env.inputArgs("-x", "Beta")...), "")
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	want := "h-super\t50Hz/S/Super Game (USA, Europe)\ts1\tmd5-s1\tcrc-s1\n" +
		"h-alpha\t60Hz/A-S/Alpha (Japan)\ta1\tmd5-a1\tcrc-a1\n" +
		"h-super\t60Hz/A-S/Super Game (USA, Europe)\ts1\tmd5-s1\tcrc-s1\n"
	if out != want {
		t.Fatalf("unexpected pack list:\n got %q\nwant %q", out, want)
	}
	requireContains(t, stderr, "60Hz regions")
	requireContains(t, stderr, "pack list complete")
}

func TestPlanExcludeKeywordKeepsSpaces(t *testing.T) {
	env := setupCLITestEnv(t)

	// " Game" occurs in "Super Game" but not at the start of "Game (Beta)".
	out, _, err := runCLI(t, append([]string{"plan", "-x", " Game", "--log-level", "error"}, env.inputArgs()...), "")
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	if strings.Contains(out, "Super Game") {
		t.Fatalf("keyword should exclude Super Game:\n%s", out)
	}
	requireContains(t, out, "MISSING\t60Hz/A-S/Game (Beta) (USA)\t")
}

func TestPlanMarksMissingAndAppendsRegions(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, append([]string{"plan", "-p", "MD", "-5", "Japan", "--log-level", "error"}, env.inputArgs()...), "")
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	requireContains(t, out, "h-alpha\tMD/50Hz/A-S/Alpha (Japan)\t")
	requireContains(t, out, "MISSING\tMD/60Hz/A-S/Game (Beta) (USA)\tb1\t")
	if n := strings.Count(out, "\n"); n != 5 {
		t.Fatalf("expected 5 lines, got %d:\n%s", n, out)
	}
}

func TestPlanWritesFileAndRecordsRun(t *testing.T) {
	env := setupCLITestEnv(t)
	outPath := filepath.Join(env.baseDir, "out", "pack.txt")
	dbPath := filepath.Join(env.baseDir, "plans.db")

	stdout, stderr, err := runCLI(t, append([]string{"plan", "-o", outPath, "--db", dbPath, "--summary"}, env.inputArgs()...), "")
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	if stdout != "" {
		t.Fatalf("expected nothing on stdout, got %q", stdout)
	}
	requireContains(t, stderr, "Pack list:")
	requireContains(t, stderr, "roms without a translated hash")

	written, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if strings.Count(string(written), "\n") != 4 {
		t.Fatalf("unexpected output file:\n%s", written)
	}

	listOut, _, err := runCLI(t, []string{"runs", "--db", dbPath, "--json"}, "")
	if err != nil {
		t.Fatalf("runs: %v", err)
	}
	var runs []runView
	if err := json.Unmarshal([]byte(listOut), &runs); err != nil {
		t.Fatalf("decode runs: %v\n%s", err, listOut)
	}
	if len(runs) != 1 || runs[0].Lines != 4 || runs[0].Missing != 1 || runs[0].OutputPath != outPath {
		t.Fatalf("unexpected runs %+v", runs)
	}
	requireContains(t, stderr, runs[0].ID)

	showOut, _, err := runCLI(t, []string{"runs", "show", runs[0].ID, "--db", dbPath}, "")
	if err != nil {
		t.Fatalf("runs show: %v", err)
	}
	if showOut != string(written) {
		t.Fatalf("stored lines differ from output file:\n got %q\nwant %q", showOut, written)
	}

	tableOut, _, err := runCLI(t, []string{"runs", "--db", dbPath}, "")
	if err != nil {
		t.Fatalf("runs table: %v", err)
	}
	requireContains(t, tableOut, runs[0].ID)

	delOut, _, err := runCLI(t, []string{"runs", "delete", runs[0].ID, "--db", dbPath}, "")
	if err != nil {
		t.Fatalf("runs delete: %v", err)
	}
	requireContains(t, delOut, "Deleted run")
}

func TestPlanRecordsExcludedCount(t *testing.T) {
	env := setupCLITestEnv(t)
	dbPath := filepath.Join(env.baseDir, "plans.db")

	if _, _, err := runCLI(t, append([]string{"plan", "-x", "Beta", "--db", dbPath, "--log-level", "error"}, env.inputArgs()...), ""); err != nil {
		t.Fatalf("plan: %v", err)
	}
	listOut, _, err := runCLI(t, []string{"runs", "--db", dbPath, "--json"}, "")
	if err != nil {
		t.Fatalf("runs: %v", err)
	}
	var runs []runView
	if err := json.Unmarshal([]byte(listOut), &runs); err != nil {
		t.Fatalf("decode runs: %v\n%s", err, listOut)
	}
	if len(runs) != 1 || runs[0].Excluded != 1 || runs[0].Lines != 3 || runs[0].Missing != 0 {
		t.Fatalf("unexpected runs %+v", runs)
	}

	tableOut, _, err := runCLI(t, []string{"runs", "--db", dbPath}, "")
	if err != nil {
		t.Fatalf("runs: %v", err)
	}
	requireContains(t, tableOut, "Excluded")
}

func TestPlanUsesConfigFile(t *testing.T) {
	env := setupCLITestEnv(t)
	configPath := filepath.Join(env.baseDir, "speedpack.toml")
	content := "[inputs]\ndat = \"" + env.catalog + "\"\nsmdb = \"" + env.crossRef + "\"\n\n" +
		"[output]\nprefix = \"Genesis\"\n\n[filter]\nexclude = [\"Super\"]\n"
	testsupport.WriteText(t, configPath, content)

	out, _, err := runCLI(t, []string{"plan", "--log-format", "json"}, configPath)
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	if strings.Contains(out, "Super Game") {
		t.Fatalf("configured exclusion ignored:\n%s", out)
	}
	requireContains(t, out, "Genesis/60Hz/A-S/Alpha (Japan)")
}

func TestPlanRequiresInputs(t *testing.T) {
	setupCLITestEnv(t)

	_, _, err := runCLI(t, []string{"plan"}, "")
	if err == nil || !strings.Contains(err.Error(), "inputs.dat is required") {
		t.Fatalf("expected missing dat error, got %v", err)
	}
}

func TestPlanRejectsZeroMax(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, append([]string{"plan", "-m", "0"}, env.inputArgs()...), "")
	if err == nil || !strings.Contains(err.Error(), "max_per_dir") {
		t.Fatalf("expected max_per_dir error, got %v", err)
	}
}

func TestPlanReportsMalformedCrossReference(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.WriteText(t, env.crossRef, "just one field\n")

	_, _, err := runCLI(t, append([]string{"plan"}, env.inputArgs()...), "")
	var rowErr *xref.MalformedRowError
	if !errors.As(err, &rowErr) {
		t.Fatalf("expected malformed row error, got %v", err)
	}
	requireContains(t, describeError(err), "five tab-separated fields")
}

func TestPlanFailsWhenOutputLocked(t *testing.T) {
	env := setupCLITestEnv(t)
	outPath := filepath.Join(env.baseDir, "pack.out")
	lock, err := fileutil.LockOutput(outPath)
	if err != nil {
		t.Fatalf("lock: %v", err)
	}
	defer lock.Release()

	_, _, err = runCLI(t, append([]string{"plan", "-o", outPath}, env.inputArgs()...), "")
	if !errors.Is(err, fileutil.ErrOutputLocked) {
		t.Fatalf("expected ErrOutputLocked, got %v", err)
	}
	if _, statErr := os.Stat(outPath); !errors.Is(statErr, os.ErrNotExist) {
		t.Fatalf("locked run should not create output, stat err=%v", statErr)
	}
}

func TestPlanKeepsPreviousOutputOnFailure(t *testing.T) {
	env := setupCLITestEnv(t)
	outPath := filepath.Join(env.baseDir, "pack.out")
	testsupport.WriteText(t, outPath, "previous\n")
	testsupport.WriteText(t, env.catalog, "<datafile><rom name=\"x\"")

	if _, _, err := runCLI(t, append([]string{"plan", "-o", outPath}, env.inputArgs()...), ""); err == nil {
		t.Fatal("expected parse failure")
	}
	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "previous\n" {
		t.Fatalf("failed run replaced output: %q", data)
	}
}
