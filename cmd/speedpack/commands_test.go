package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"speedpack/internal/catalog"
	"speedpack/internal/planstore"
)

func TestBucketsJSON(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"buckets", "--dat", env.catalog, "-m", "2", "--json", "--log-level", "error"}, "")
	if err != nil {
		t.Fatalf("buckets: %v", err)
	}
	var views []bucketView
	if err := json.Unmarshal([]byte(out), &views); err != nil {
		t.Fatalf("decode buckets: %v\n%s", err, out)
	}
	// 50Hz: Super. 60Hz with cap 2: [Alpha], [Game], [Super].
	want := []bucketView{
		{Bucket: 1, Speed: "50Hz", Span: "S", Records: 1, First: "Super Game (USA, Europe)", Last: "Super Game (USA, Europe)"},
		{Bucket: 2, Speed: "60Hz", Span: "A", Records: 1, First: "Alpha (Japan)", Last: "Alpha (Japan)"},
		{Bucket: 3, Speed: "60Hz", Span: "G", Records: 1, First: "Game (Beta) (USA)", Last: "Game (Beta) (USA)"},
		{Bucket: 4, Speed: "60Hz", Span: "S", Records: 1, First: "Super Game (USA, Europe)", Last: "Super Game (USA, Europe)"},
	}
	if len(views) != len(want) {
		t.Fatalf("expected %d buckets, got %+v", len(want), views)
	}
	for i := range want {
		if views[i] != want[i] {
			t.Fatalf("bucket %d: got %+v want %+v", i, views[i], want[i])
		}
	}
}

func TestBucketsTable(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"buckets", "--dat", env.catalog}, "")
	if err != nil {
		t.Fatalf("buckets: %v", err)
	}
	requireContains(t, out, "A-S")
	requireContains(t, out, "3 entries, 4 records, 2 directories (max 10,000 per directory)")
}

func TestBucketsRequiresCatalog(t *testing.T) {
	setupCLITestEnv(t)

	_, _, err := runCLI(t, []string{"buckets"}, "")
	if err == nil || !strings.Contains(err.Error(), "inputs.dat") {
		t.Fatalf("expected dat requirement, got %v", err)
	}
}

func TestBucketsSurfacesMissingField(t *testing.T) {
	env := setupCLITestEnv(t)
	if err := os.WriteFile(env.catalog, []byte(`<datafile><rom name="x" sha1="a"/></datafile>`), 0o644); err != nil {
		t.Fatal(err)
	}

	_, _, err := runCLI(t, []string{"buckets", "--dat", env.catalog}, "")
	var fieldErr *catalog.MissingFieldError
	if !errors.As(err, &fieldErr) || fieldErr.Field != "md5" {
		t.Fatalf("expected missing md5, got %v", err)
	}
	requireContains(t, describeError(err), "lacks a required attribute")
}

func TestRegionsAppendsFlags(t *testing.T) {
	setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"regions", "-5", "Spain", "-6", "Taiwan", "--json"}, "")
	if err != nil {
		t.Fatalf("regions: %v", err)
	}
	var view regionsView
	if err := json.Unmarshal([]byte(out), &view); err != nil {
		t.Fatalf("decode regions: %v", err)
	}
	if view.FiftyHz[len(view.FiftyHz)-1] != "Spain" || view.SixtyHz[len(view.SixtyHz)-1] != "Taiwan" {
		t.Fatalf("expected appended regions, got %+v", view)
	}
	if view.SixtyHz[0] != "Brazil" || view.FiftyHz[0] != "World" {
		t.Fatalf("expected built-ins first, got %+v", view)
	}

	table, _, err := runCLI(t, []string{"regions"}, "")
	if err != nil {
		t.Fatalf("regions table: %v", err)
	}
	requireContains(t, table, "Hong Kong")
}

func TestClassify(t *testing.T) {
	setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"classify", "--json", "Super Game (USA, Europe)", "Homebrew"}, "")
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	var results []classification
	if err := json.Unmarshal([]byte(out), &results); err != nil {
		t.Fatalf("decode classify: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected two results, got %+v", results)
	}
	if got := strings.Join(results[0].Speeds, ","); got != "60Hz,50Hz" {
		t.Fatalf("unexpected speeds %q", got)
	}
	if got := strings.Join(results[1].Regions, ","); got != "Unknown" {
		t.Fatalf("unexpected regions %q", got)
	}
	if got := strings.Join(results[1].Speeds, ","); got != "60Hz" {
		t.Fatalf("untagged name should default to 60Hz, got %q", got)
	}

	if _, _, err := runCLI(t, []string{"classify"}, ""); err == nil {
		t.Fatal("expected argument error")
	}
}

func TestRunsWithoutDatabase(t *testing.T) {
	setupCLITestEnv(t)

	_, _, err := runCLI(t, []string{"runs"}, "")
	if err == nil || !strings.Contains(err.Error(), "no plan database configured") {
		t.Fatalf("expected plan database error, got %v", err)
	}
}

func TestRunsEmptyAndUnknown(t *testing.T) {
	env := setupCLITestEnv(t)
	dbPath := filepath.Join(env.baseDir, "plans.db")

	out, _, err := runCLI(t, []string{"runs", "--db", dbPath}, "")
	if err != nil {
		t.Fatalf("runs: %v", err)
	}
	requireContains(t, out, "No runs recorded")

	_, _, err = runCLI(t, []string{"runs", "show", "nope", "--db", dbPath}, "")
	if !errors.Is(err, planstore.ErrRunNotFound) {
		t.Fatalf("expected ErrRunNotFound, got %v", err)
	}
	_, _, err = runCLI(t, []string{"runs", "delete", "nope", "--db", dbPath}, "")
	if !errors.Is(err, planstore.ErrRunNotFound) {
		t.Fatalf("expected ErrRunNotFound on delete, got %v", err)
	}
}

func TestConfigInitAndValidate(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"config", "validate"}, "")
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")
	requireContains(t, out, "defaults were used")

	target := filepath.Join(env.baseDir, "conf", "config.toml")
	out, _, err = runCLI(t, []string{"config", "init", "--path", target}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")

	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, ""); err == nil {
		t.Fatal("expected refusal to overwrite")
	}
	if _, _, err := runCLI(t, []string{"config", "init", "--path", target, "--overwrite"}, ""); err != nil {
		t.Fatalf("config init --overwrite: %v", err)
	}

	out, _, err = runCLI(t, []string{"config", "validate"}, target)
	if err != nil {
		t.Fatalf("validate sample: %v", err)
	}
	if strings.Contains(out, "defaults were used") {
		t.Fatalf("expected existing config, got %q", out)
	}

	out, _, err = runCLI(t, []string{"config", "validate", "--inputs"}, target)
	if err == nil {
		t.Fatal("expected inputs check to fail for the empty sample")
	}
	requireContains(t, out, "[ERROR] not configured")

	if _, _, err := runCLI(t, []string{"config", "validate", "--inputs"}, ""); err == nil {
		t.Fatal("expected missing inputs without SPEEDPACK_DAT")
	}
	t.Setenv("SPEEDPACK_DAT", env.catalog)
	t.Setenv("SPEEDPACK_SMDB", env.crossRef)
	out, _, err = runCLI(t, []string{"config", "validate", "--inputs"}, "")
	if err != nil {
		t.Fatalf("validate --inputs with env inputs: %v\n%s", err, out)
	}
	requireContains(t, out, "Catalog:")
	requireContains(t, out, "[OK]")
}

func TestInvalidConfigFails(t *testing.T) {
	env := setupCLITestEnv(t)
	path := filepath.Join(env.baseDir, "bad.toml")
	if err := os.WriteFile(path, []byte("[logging]\nformat = \"xml\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, _, err := runCLI(t, []string{"regions"}, path); err == nil {
		t.Fatal("expected invalid config error")
	}
	if _, _, err := runCLI(t, []string{"regions", "--log-level", "loud"}, ""); err == nil {
		t.Fatal("expected invalid log level error")
	}
}

func TestFormatCount(t *testing.T) {
	cases := map[int]string{0: "0", 999: "999", 10000: "10,000", 1234567: "1,234,567"}
	for in, want := range cases {
		if got := formatCount(in); got != want {
			t.Fatalf("formatCount(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestDescribeErrorPassesThroughPlainErrors(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", errors.New("plain"))
	if got := describeError(err); got != "wrapped: plain" {
		t.Fatalf("unexpected description %q", got)
	}
}

func TestRenderStatusLine(t *testing.T) {
	plain := renderStatusLine("Pack list", statusOK, "3 lines", false)
	if !strings.Contains(plain, "Pack list:") || !strings.HasSuffix(plain, "[OK] 3 lines") {
		t.Fatalf("unexpected status line %q", plain)
	}
	colored := renderStatusLine("Cross-ref", statusWarn, "", true)
	if !strings.HasPrefix(colored, ansiYellow) || !strings.HasSuffix(colored, ansiReset) {
		t.Fatalf("expected colored line, got %q", colored)
	}
}
