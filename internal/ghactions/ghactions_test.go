package ghactions

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestIsActions(t *testing.T) {
	t.Setenv("GITHUB_ACTIONS", "true")
	if !IsActions() {
		t.Error("IsActions() = false with GITHUB_ACTIONS=true")
	}
	t.Setenv("GITHUB_ACTIONS", "")
	if IsActions() {
		t.Error("IsActions() = true without GITHUB_ACTIONS")
	}
}

func TestInput(t *testing.T) {
	t.Setenv("INPUT_QUERIES", ":malware --expect-results=0\n")
	if got := Input("queries"); got != ":malware --expect-results=0" {
		t.Errorf("Input(queries) = %q", got)
	}

	t.Setenv("INPUT_EXPECT_RESULTS", "0")
	if got := Input("expect results"); got != "0" {
		t.Errorf("spaces should map to underscores, got %q", got)
	}

	if got := Input("missing"); got != "" {
		t.Errorf("missing input = %q, want empty", got)
	}
}

func TestSetOutputSingleLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "output")
	t.Setenv("GITHUB_OUTPUT", path)

	if err := SetOutput("passed", "3"); err != nil {
		t.Fatal(err)
	}
	if err := SetOutput("failed", "1"); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if got := string(data); got != "passed=3\nfailed=1\n" {
		t.Errorf("output file = %q", got)
	}
}

func TestSetOutputMultiLineUsesHeredoc(t *testing.T) {
	path := filepath.Join(t.TempDir(), "output")
	t.Setenv("GITHUB_OUTPUT", path)

	if err := SetOutput("results", "line1\nline2"); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	got := string(data)
	if !strings.HasPrefix(got, "results<<DEPGATE_EOF\n") {
		t.Errorf("output = %q, want heredoc form", got)
	}
	if !strings.HasSuffix(got, "\nDEPGATE_EOF\n") {
		t.Errorf("output = %q, want closing delimiter", got)
	}
}

func TestSetOutputHostileDelimiter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "output")
	t.Setenv("GITHUB_OUTPUT", path)

	value := "a\nDEPGATE_EOF\nb"
	if err := SetOutput("results", value); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "results<<DEPGATE_EOF_\n") {
		t.Errorf("delimiter should be extended past the value: %q", string(data))
	}
}

func TestSetOutputWithoutFileIsNoop(t *testing.T) {
	t.Setenv("GITHUB_OUTPUT", "")
	if err := SetOutput("passed", "1"); err != nil {
		t.Errorf("no GITHUB_OUTPUT should be a no-op, got %v", err)
	}
}

func TestAppendStepSummary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "summary")
	t.Setenv("GITHUB_STEP_SUMMARY", path)

	if err := AppendStepSummary("## Report"); err != nil {
		t.Fatal(err)
	}
	if err := AppendStepSummary("done\n"); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if got := string(data); got != "## Report\ndone\n" {
		t.Errorf("summary = %q", got)
	}
}

func TestEscapeData(t *testing.T) {
	if got := escapeData("50% done\nnext"); got != "50%25 done%0Anext" {
		t.Errorf("escapeData = %q", got)
	}
}
