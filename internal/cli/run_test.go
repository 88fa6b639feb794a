package cli

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aidanlsb/depgate/internal/config"
)

// resetRunState clears the package-level flag and config state so each
// test starts from defaults.
func resetRunState(t *testing.T) {
	t.Helper()

	prevFile, prevSuite := runFile, runSuite
	prevBinary, prevArgs := runBinary, runArgs
	prevDir, prevTimeout := runDir, runTimeout
	prevTitle := runTitle
	prevGatefile, prevCfg := gatefile, cfg
	prevGatefilePath := gatefilePath
	t.Cleanup(func() {
		runFile, runSuite = prevFile, prevSuite
		runBinary, runArgs = prevBinary, prevArgs
		runDir, runTimeout = prevDir, prevTimeout
		runTitle = prevTitle
		gatefile, cfg = prevGatefile, prevCfg
		gatefilePath = prevGatefilePath
	})

	runFile, runSuite, runBinary, runDir, runTitle = "", "", "", "", ""
	runArgs = nil
	runTimeout = 0
	gatefile, cfg = nil, nil
	gatefilePath = ""
	t.Setenv("GITHUB_ACTIONS", "false")
}

func TestGatherQueriesFromArgs(t *testing.T) {
	resetRunState(t)

	queries, source, err := gatherQueries([]string{
		":malware --expect-results=0",
		"# a comment, not a query",
	})
	if err != nil {
		t.Fatalf("gatherQueries: %v", err)
	}
	if source != "" {
		t.Fatalf("source = %q, want empty", source)
	}
	if len(queries) != 1 {
		t.Fatalf("got %d queries, want 1", len(queries))
	}
	if queries[0].Selector != ":malware" {
		t.Fatalf("Selector = %q, want %q", queries[0].Selector, ":malware")
	}
}

func TestGatherQueriesArgsAllSkippable(t *testing.T) {
	resetRunState(t)

	if _, _, err := gatherQueries([]string{"# nope", "   "}); err == nil {
		t.Fatal("expected error when every argument is a skip line")
	}
}

func TestGatherQueriesFromFile(t *testing.T) {
	resetRunState(t)

	path := filepath.Join(t.TempDir(), "queries.txt")
	block := ":malware --expect-results=0\n\n*:outdated --expect-results=<5\n"
	if err := os.WriteFile(path, []byte(block), 0o644); err != nil {
		t.Fatal(err)
	}
	runFile = path

	queries, _, err := gatherQueries(nil)
	if err != nil {
		t.Fatalf("gatherQueries: %v", err)
	}
	if len(queries) != 2 {
		t.Fatalf("got %d queries, want 2", len(queries))
	}
	if queries[1].ExpectResults != "<5" {
		t.Fatalf("ExpectResults = %q, want %q", queries[1].ExpectResults, "<5")
	}
}

func TestGatherQueriesSuiteRequiresGatefile(t *testing.T) {
	resetRunState(t)
	runSuite = "release"

	if _, _, err := gatherQueries(nil); err == nil {
		t.Fatal("expected error when --suite is set without a gatefile")
	}
}

func TestGatherQueriesFromSuite(t *testing.T) {
	resetRunState(t)
	runSuite = "release"
	gatefile = &config.Gatefile{
		Suites: map[string]*config.Suite{
			"release": {
				Queries: ":malware --expect-results=0\n",
				Gates: []*config.GateEntry{
					{Selector: "*:license(copyleft)", ExpectResults: "0", Scope: ":root > *"},
				},
			},
		},
	}

	queries, source, err := gatherQueries(nil)
	if err != nil {
		t.Fatalf("gatherQueries: %v", err)
	}
	if source != "release" {
		t.Fatalf("source = %q, want %q", source, "release")
	}
	if len(queries) != 2 {
		t.Fatalf("got %d queries, want 2", len(queries))
	}
	if queries[1].Scope != ":root > *" {
		t.Fatalf("Scope = %q, want %q", queries[1].Scope, ":root > *")
	}
}

func TestGatherQueriesFromActionsInputs(t *testing.T) {
	resetRunState(t)
	t.Setenv("GITHUB_ACTIONS", "true")
	t.Setenv("INPUT_QUERIES", ":malware --expect-results=0\n:outdated\n")

	queries, _, err := gatherQueries(nil)
	if err != nil {
		t.Fatalf("gatherQueries: %v", err)
	}
	if len(queries) != 2 {
		t.Fatalf("got %d queries, want 2", len(queries))
	}
}

func TestGatherQueriesFromActionsStructuredInputs(t *testing.T) {
	resetRunState(t)
	t.Setenv("GITHUB_ACTIONS", "true")
	t.Setenv("INPUT_QUERIES", "")
	t.Setenv("INPUT_QUERY", ":malware")
	t.Setenv("INPUT_EXPECT-RESULTS", "0")
	t.Setenv("INPUT_VIEW", "json")

	queries, _, err := gatherQueries(nil)
	if err != nil {
		t.Fatalf("gatherQueries: %v", err)
	}
	if len(queries) != 1 {
		t.Fatalf("got %d queries, want 1", len(queries))
	}
	q := queries[0]
	if q.Selector != ":malware" || q.ExpectResults != "0" || q.View != "json" {
		t.Fatalf("unexpected query %q", q.String())
	}
}

func TestGatherQueriesGatefileDefaultBlock(t *testing.T) {
	resetRunState(t)
	gatefile = &config.Gatefile{Queries: ":malware --expect-results=0\n"}

	queries, _, err := gatherQueries(nil)
	if err != nil {
		t.Fatalf("gatherQueries: %v", err)
	}
	if len(queries) != 1 {
		t.Fatalf("got %d queries, want 1", len(queries))
	}
}

func TestGatherQueriesNoSource(t *testing.T) {
	resetRunState(t)

	if _, _, err := gatherQueries(nil); err == nil {
		t.Fatal("expected error when no query source is available")
	}
}

func TestResolveRunnerDefaults(t *testing.T) {
	resetRunState(t)

	r, err := resolveRunner()
	if err != nil {
		t.Fatalf("resolveRunner: %v", err)
	}
	if r.Binary != defaultBinary {
		t.Fatalf("Binary = %q, want %q", r.Binary, defaultBinary)
	}
	if len(r.Args) != 0 || r.Dir != "" || r.Timeout != 0 {
		t.Fatalf("unexpected non-default runner: %+v", r)
	}
}

func TestResolveRunnerPrecedence(t *testing.T) {
	resetRunState(t)
	cfg = &config.Config{Binary: "config-bin", Args: []string{"--from-config"}}
	gatefile = &config.Gatefile{Binary: "gatefile-bin", Args: []string{"--from-gatefile"}}

	r, err := resolveRunner()
	if err != nil {
		t.Fatalf("resolveRunner: %v", err)
	}
	if r.Binary != "gatefile-bin" {
		t.Fatalf("Binary = %q, want gatefile to beat config", r.Binary)
	}

	runBinary = "flag-bin"
	runArgs = []string{"--from-flag"}
	r, err = resolveRunner()
	if err != nil {
		t.Fatalf("resolveRunner: %v", err)
	}
	if r.Binary != "flag-bin" {
		t.Fatalf("Binary = %q, want the flag to beat the gatefile", r.Binary)
	}
	if len(r.Args) != 1 || r.Args[0] != "--from-flag" {
		t.Fatalf("Args = %v, want flag args", r.Args)
	}
}

func TestResolveRunnerRelativeWorkingDir(t *testing.T) {
	resetRunState(t)
	gatefilePath = filepath.Join("ci", "depgate.yaml")
	gatefile = &config.Gatefile{WorkingDir: "project"}

	r, err := resolveRunner()
	if err != nil {
		t.Fatalf("resolveRunner: %v", err)
	}
	want := filepath.Join("ci", "project")
	if r.Dir != want {
		t.Fatalf("Dir = %q, want %q", r.Dir, want)
	}
}

func TestResolveRunnerTimeout(t *testing.T) {
	resetRunState(t)
	gatefile = &config.Gatefile{Timeout: "90s"}

	r, err := resolveRunner()
	if err != nil {
		t.Fatalf("resolveRunner: %v", err)
	}
	if r.Timeout != 90*time.Second {
		t.Fatalf("Timeout = %v, want 90s", r.Timeout)
	}

	runTimeout = 5 * time.Second
	r, err = resolveRunner()
	if err != nil {
		t.Fatalf("resolveRunner: %v", err)
	}
	if r.Timeout != 5*time.Second {
		t.Fatalf("Timeout = %v, want the flag to beat the gatefile", r.Timeout)
	}
}

func TestResolveRunnerRejectsBadTimeout(t *testing.T) {
	resetRunState(t)
	gatefile = &config.Gatefile{Timeout: "ninety seconds"}

	if _, err := resolveRunner(); err == nil {
		t.Fatal("expected error for unparsable gatefile timeout")
	}
}

func TestReportTitle(t *testing.T) {
	resetRunState(t)

	if got := reportTitle(""); got != "" {
		t.Fatalf("reportTitle(\"\") = %q, want empty", got)
	}
	if got := reportTitle("release"); got != "Dependency gate (release)" {
		t.Fatalf("reportTitle(release) = %q", got)
	}

	runTitle = "Supply chain gate"
	if got := reportTitle("release"); got != "Supply chain gate" {
		t.Fatalf("reportTitle = %q, want the --title flag to win", got)
	}
}
