package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/depgate/internal/gate"
	"github.com/aidanlsb/depgate/internal/ghactions"
	"github.com/aidanlsb/depgate/internal/history"
	"github.com/aidanlsb/depgate/internal/queryline"
	"github.com/aidanlsb/depgate/internal/report"
	"github.com/aidanlsb/depgate/internal/slugs"
	"github.com/aidanlsb/depgate/internal/ui"
)

var (
	runFile      string
	runSuite     string
	runBinary    string
	runArgs      []string
	runDir       string
	runTimeout   time.Duration
	runReport    string
	runTitle     string
	runSoftFail  bool
	runNoHistory bool
)

// errGateFailed signals a non-zero exit after the report has been shown.
var errGateFailed = errors.New("dependency gate failed")

var runCmd = &cobra.Command{
	Use:   "run [query...]",
	Short: "Run dependency queries and gate on their result counts",
	Long: `Run each query through the external query binary and evaluate its
--expect-results comparator against the number of results.

Queries come from (first match wins):
  1. positional arguments, one query per argument
  2. --file (use "-" for stdin)
  3. --suite from the gatefile
  4. GitHub Actions inputs (queries, or query plus expect-results/view/scope/target)
  5. the gatefile's default query block

A query without --expect-results is informational: its count is reported
but it cannot fail the gate.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) > 0 && (changedFlag(cmd.Flags(), "file") || changedFlag(cmd.Flags(), "suite")) {
			fmt.Fprintln(os.Stderr, ui.Warning("positional queries take precedence over --file/--suite"))
		}

		queries, source, err := gatherQueries(args)
		if err != nil {
			if isJSONOutput() {
				outputError(ErrNoQueries, err.Error(), nil, "pass queries as arguments or add a queries block to depgate.yaml")
			}
			return err
		}

		r, err := resolveRunner()
		if err != nil {
			if isJSONOutput() {
				outputError(ErrBinaryNotConfigured, err.Error(), nil, "set binary in depgate.yaml or ~/.config/depgate/config.toml")
			}
			return err
		}

		engine := &gate.Engine{Runner: r}
		started := time.Now()
		summary := engine.Run(cmd.Context(), queries)

		warnings := recordHistory(source, started, summary)

		md := report.Markdown(reportTitle(source), summary)
		if runReport != "" {
			if err := report.WriteFile(runReport, md); err != nil {
				return fmt.Errorf("failed to write report: %w", err)
			}
		}
		if ghactions.IsActions() {
			if err := publishActionsResults(md, summary); err != nil {
				return err
			}
		}

		if isJSONOutput() {
			if summary.OK() {
				outputSuccessWithWarnings(summary, warnings)
			} else {
				outputJSON(Response{
					OK:       false,
					Data:     summary,
					Error:    &ErrorInfo{Code: ErrGateFailed, Message: errGateFailed.Error()},
					Warnings: warnings,
				})
			}
		} else {
			printSummary(summary, warnings)
		}

		if !summary.OK() && !runSoftFail {
			return errGateFailed
		}
		return nil
	},
}

// gatherQueries resolves the query set and a label for where it came from.
func gatherQueries(args []string) ([]*queryline.ParsedQuery, string, error) {
	if len(args) > 0 {
		var queries []*queryline.ParsedQuery
		for _, arg := range args {
			if q, ok := queryline.Tokenize(arg); ok {
				queries = append(queries, q)
			}
		}
		if len(queries) == 0 {
			return nil, "", fmt.Errorf("no queries in arguments")
		}
		return queries, "", nil
	}

	if runFile != "" {
		block, err := readQueryBlock(runFile)
		if err != nil {
			return nil, "", err
		}
		queries := queryline.TokenizeBatch(block)
		if len(queries) == 0 {
			return nil, "", fmt.Errorf("no queries in %s", runFile)
		}
		return queries, "", nil
	}

	if runSuite != "" {
		gf := getGatefile()
		if gf == nil {
			return nil, "", fmt.Errorf("--suite requires a gatefile (%s)", "depgate.yaml")
		}
		queries, err := gf.SuiteQueries(runSuite)
		if err != nil {
			return nil, "", err
		}
		if len(queries) == 0 {
			return nil, "", fmt.Errorf("suite %q has no queries", runSuite)
		}
		return queries, runSuite, nil
	}

	if ghactions.IsActions() {
		if queries := actionsQueries(); len(queries) > 0 {
			return queries, "", nil
		}
	}

	if gf := getGatefile(); gf != nil {
		queries, _ := gf.SuiteQueries("")
		if len(queries) > 0 {
			return queries, "", nil
		}
	}

	return nil, "", fmt.Errorf("no queries to run")
}

// actionsQueries builds queries from action inputs: a multi-line "queries"
// input, or the structured single-query form where a non-empty "target"
// input replaces the query selector.
func actionsQueries() []*queryline.ParsedQuery {
	if block := ghactions.Input("queries"); block != "" {
		return queryline.TokenizeBatch(block)
	}

	selector := ghactions.Input("query")
	target := ghactions.Input("target")
	if selector == "" && target == "" {
		return nil
	}
	q := queryline.FromParams(
		selector,
		ghactions.Input("expect-results"),
		ghactions.Input("view"),
		ghactions.Input("scope"),
		target,
	)
	return []*queryline.ParsedQuery{q}
}

func readQueryBlock(path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read query file: %w", err)
	}
	return string(data), nil
}

func recordHistory(suite string, started time.Time, summary *gate.Summary) []string {
	if runNoHistory || !getConfig().HistoryEnabled() {
		return nil
	}

	store, err := history.Open(history.Path("."))
	if err != nil {
		return []string{fmt.Sprintf("history disabled: %v", err)}
	}
	defer store.Close()

	if _, err := store.Record(slugs.SuiteKey(suite), started, summary); err != nil {
		return []string{fmt.Sprintf("failed to record history: %v", err)}
	}
	return nil
}

func reportTitle(suite string) string {
	if runTitle != "" {
		return runTitle
	}
	if suite != "" {
		return fmt.Sprintf("Dependency gate (%s)", suite)
	}
	return ""
}

// publishActionsResults writes the step summary, outputs, and annotations.
func publishActionsResults(md string, summary *gate.Summary) error {
	if err := ghactions.AppendStepSummary(md); err != nil {
		return err
	}

	outputs := [][2]string{
		{"total", strconv.Itoa(summary.Total)},
		{"passed", strconv.Itoa(summary.Passed)},
		{"failed", strconv.Itoa(summary.Failed)},
	}
	if data, err := json.Marshal(summary.Results); err == nil {
		outputs = append(outputs, [2]string{"results", string(data)})
	}

	selectors := make([]string, len(summary.Results))
	for i, res := range summary.Results {
		selectors[i] = res.Selector
	}
	for i, key := range slugs.UniqueQueryKeys(selectors) {
		outputs = append(outputs, [2]string{"count-" + key, strconv.Itoa(summary.Results[i].Count)})
	}

	for _, kv := range outputs {
		if err := ghactions.SetOutput(kv[0], kv[1]); err != nil {
			return err
		}
	}

	for _, res := range summary.Results {
		if !res.Failed() {
			continue
		}
		if res.Err != "" {
			ghactions.Errorf("query %s: %s", res.Query, res.Err)
		} else {
			ghactions.Errorf("query %s: expected %s results, got %d", res.Query, res.Expect, res.Count)
		}
	}
	if summary.OK() && summary.Total > 0 {
		ghactions.Noticef("dependency gate passed: %d/%d queries", summary.Passed, summary.Total)
	}
	return nil
}

func printSummary(summary *gate.Summary, warnings []string) {
	display := ui.NewDisplayContext()
	tbl := ui.NewGatesTable(display, summary)

	if out := tbl.Render(); out != "" {
		fmt.Println(out)
	}
	fmt.Println(tbl.RenderSummaryLine(), ui.Hint(fmt.Sprintf("in %s", summary.Elapsed.Round(time.Millisecond))))

	for _, w := range warnings {
		fmt.Fprintln(os.Stderr, ui.Warning(w))
	}
}

func init() {
	runCmd.Flags().StringVarP(&runFile, "file", "f", "", "Read queries from a file (\"-\" for stdin)")
	runCmd.Flags().StringVarP(&runSuite, "suite", "s", "", "Run a named suite from the gatefile")
	runCmd.Flags().StringVar(&runBinary, "binary", "", "Query binary to invoke (overrides gatefile and config)")
	runCmd.Flags().StringArrayVar(&runArgs, "binary-arg", nil, "Leading argument for the query binary (repeatable)")
	runCmd.Flags().StringVar(&runDir, "dir", "", "Working directory for query invocations")
	runCmd.Flags().DurationVar(&runTimeout, "timeout", 0, "Per-query timeout (e.g. 90s)")
	runCmd.Flags().StringVar(&runReport, "report", "", "Write the markdown report to a file")
	runCmd.Flags().StringVar(&runTitle, "title", "", "Report title")
	runCmd.Flags().BoolVar(&runSoftFail, "soft-fail", false, "Exit 0 even when gates fail")
	runCmd.Flags().BoolVar(&runNoHistory, "no-history", false, "Skip recording this run in the history database")
	rootCmd.AddCommand(runCmd)
}
