package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"codecrawl/internal/config"
	"codecrawl/internal/report"
)

// resetFlags restores every flag of cmd and its children to its default.
func resetFlags(t *testing.T, cmd *cobra.Command) {
	t.Helper()
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			if err := sv.Replace(nil); err != nil {
				t.Fatalf("reset %s: %v", f.Name, err)
			}
		} else if err := f.Value.Set(f.DefValue); err != nil {
			t.Fatalf("reset %s: %v", f.Name, err)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(t, sub)
	}
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	resetFlags(t, rootCmd)
	t.Cleanup(func() { resetFlags(t, rootCmd) })

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

// isolate runs the test from an empty directory so no codecrawl.toml is found.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

func TestRunSamplesJSON(t *testing.T) {
	isolate(t)
	stdout, _, err := execute(t, "run", "--builtin", "samples", "--format", "json", "--ui", "off")
	if !errors.Is(err, errFaultsFound) {
		t.Fatalf("expected errFaultsFound, got %v", err)
	}

	var out report.Output
	if err := json.Unmarshal([]byte(stdout), &out); err != nil {
		t.Fatalf("decode output: %v\n%s", err, stdout)
	}
	if out.Cancelled {
		t.Fatalf("run should not be cancelled")
	}
	s := out.Summary
	if s.Types != 5 || s.Members != 6 || s.Invocations != 8 || s.Faults != 4 {
		t.Fatalf("unexpected summary: %+v", s)
	}
	if s.ByKind["construction"] != 1 || s.ByKind["invocation"] != 2 || s.ByKind["contract"] != 1 {
		t.Fatalf("unexpected fault kinds: %v", s.ByKind)
	}
}

func TestRunNoFailOnFaults(t *testing.T) {
	isolate(t)
	stdout, _, err := execute(t, "run", "--builtin", "samples", "--format", "short", "--ui", "off", "--fail-on-faults=false")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 fault lines, got %d:\n%s", len(lines), stdout)
	}
	for _, code := range []string{"CC1001", "CC2001", "CC2002", "CC3001"} {
		if !strings.Contains(stdout, code) {
			t.Errorf("missing %s in:\n%s", code, stdout)
		}
	}
}

func TestRunFlagsOverrideConfig(t *testing.T) {
	dir := isolate(t)
	manifest := "[crawl]\nexclude = [\"*Broken\", \"*Mislabeled\"]\nerror_results = false\n\n[output]\nformat = \"short\"\n"
	if err := os.WriteFile(filepath.Join(dir, config.FileName), []byte(manifest), 0o644); err != nil {
		t.Fatal(err)
	}

	stdout, _, err := execute(t, "run", "--builtin", "samples", "--ui", "off", "--skip", "*.Divide")
	if err != nil {
		t.Fatalf("expected a clean run, got %v\n%s", err, stdout)
	}
	if stdout != "" {
		t.Fatalf("short format with no faults prints nothing, got:\n%s", stdout)
	}
}

func TestRunWritesMetrics(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "crawl.prom")
	_, _, err := execute(t, "run", "--builtin", "samples", "--format", "short", "--ui", "off", "--metrics-out", path)
	if !errors.Is(err, errFaultsFound) {
		t.Fatalf("expected errFaultsFound, got %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read metrics: %v", err)
	}
	if !strings.Contains(string(data), "codecrawl_invocations_total") {
		t.Fatalf("metrics file lacks invocation counter:\n%s", data)
	}
}

func TestRunRejectsBadFormat(t *testing.T) {
	isolate(t)
	_, _, err := execute(t, "run", "--builtin", "samples", "--format", "xml", "--ui", "off")
	if err == nil || errors.Is(err, errFaultsFound) {
		t.Fatalf("expected a format error, got %v", err)
	}
}

func TestRunLiveSorted(t *testing.T) {
	isolate(t)
	stdout, stderr, err := execute(t, "run", "--builtin", "samples", "--format", "short", "--ui", "off", "--live", "--sort")
	if !errors.Is(err, errFaultsFound) {
		t.Fatalf("expected errFaultsFound, got %v", err)
	}
	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	if len(lines) != 4 || !strings.HasPrefix(lines[0], "CC1001 samples.Broken") {
		t.Fatalf("sorted output should start with the construction fault:\n%s", stdout)
	}
	// live lines follow crawl order: Calculator is crawled first
	if !strings.Contains(stderr, "CC2001 samples.Calculator.Divide [base]") {
		t.Fatalf("live fault lines missing from stderr:\n%s", stderr)
	}
	if strings.Index(stderr, "CC2001") > strings.Index(stderr, "CC1001") {
		t.Fatalf("live lines must follow crawl order:\n%s", stderr)
	}
}

func TestListJSON(t *testing.T) {
	isolate(t)
	stdout, _, err := execute(t, "list", "--builtin", "samples", "--format", "json")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	var types []listedType
	if err := json.Unmarshal([]byte(stdout), &types); err != nil {
		t.Fatalf("decode: %v\n%s", err, stdout)
	}
	if len(types) != 5 {
		t.Fatalf("expected 5 types, got %d", len(types))
	}
	total := 0
	for _, lt := range types {
		for _, m := range lt.Members {
			total += m.Invocations
		}
	}
	if total != 8 {
		t.Fatalf("expected 8 planned invocations, got %d", total)
	}
}

func TestListPretty(t *testing.T) {
	isolate(t)
	stdout, _, err := execute(t, "list", "--builtin", "samples", "--include", "*Greeter")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if !strings.Contains(stdout, "Greet(string) (string, error)") {
		t.Fatalf("missing Greet signature:\n%s", stdout)
	}
	if !strings.HasSuffix(stdout, "1 types, 3 members, 4 invocations\n") {
		t.Fatalf("unexpected footer:\n%s", stdout)
	}
}

func TestVersionJSON(t *testing.T) {
	stdout, _, err := execute(t, "version", "--format", "json", "--full")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	var payload versionPayload
	if err := json.Unmarshal([]byte(stdout), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.Tool != "codecrawl" || payload.GitCommit == "" || payload.BuildDate == "" {
		t.Fatalf("unexpected payload: %+v", payload)
	}
}

func TestOpenCatalogErrors(t *testing.T) {
	cfg := config.Default()
	if _, _, err := openCatalog("", cfg); err == nil {
		t.Fatalf("expected an error without a target")
	}
	if _, _, err := openCatalog("nope", cfg); err == nil || !strings.Contains(err.Error(), "samples") {
		t.Fatalf("expected unknown built-in error listing names, got %v", err)
	}
	cfg.Crawl.Plugin = "x.so"
	if _, _, err := openCatalog("samples", cfg); err == nil {
		t.Fatalf("expected mutually exclusive error")
	}
	cfg = config.Default()
	cfg.Crawl.Promoted = true
	if _, _, err := openCatalog("samples", cfg); err == nil || !strings.Contains(err.Error(), "plugins only") {
		t.Fatalf("expected --promoted to be rejected for a built-in catalog, got %v", err)
	}
	cfg = config.Default()
	cfg.Crawl.Include = []string{"["}
	if _, _, err := openCatalog("samples", cfg); err == nil {
		t.Fatalf("expected bad pattern error")
	}
}

func TestReadModes(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want uiMode
		ok   bool
	}{
		{"", uiModeAuto, true},
		{"ON", uiModeOn, true},
		{" off ", uiModeOff, true},
		{"sometimes", "", false},
	} {
		got, err := readUIMode(tc.in)
		if (err == nil) != tc.ok || got != tc.want {
			t.Errorf("readUIMode(%q) = %q, %v", tc.in, got, err)
		}
	}

	if on, err := readColorMode("always", nil); err != nil || !on {
		t.Errorf("always: %v %v", on, err)
	}
	if on, err := readColorMode("auto", nil); err != nil || on {
		t.Errorf("auto without a file: %v %v", on, err)
	}
	if _, err := readColorMode("rainbow", nil); err == nil {
		t.Errorf("expected an error for rainbow")
	}
}
