// Package gate runs parsed queries through the external binary and
// evaluates their expected-result comparators.
package gate

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aidanlsb/depgate/internal/count"
	"github.com/aidanlsb/depgate/internal/expect"
	"github.com/aidanlsb/depgate/internal/queryline"
	"github.com/aidanlsb/depgate/internal/runner"
)

// Result is the outcome of one gated query.
type Result struct {
	Query    string        `json:"query"`
	Selector string        `json:"selector"`
	View     string        `json:"view,omitempty"`
	Expect   string        `json:"expect,omitempty"`
	Count    int           `json:"count"`
	Passed   bool          `json:"passed"`
	Gated    bool          `json:"gated"` // false for informational queries with no comparator
	Err      string        `json:"error,omitempty"`
	Stderr   string        `json:"stderr,omitempty"`
	Duration time.Duration `json:"-"`
}

// Failed reports whether this result should fail the run: either the
// comparator did not match or the query errored.
func (r Result) Failed() bool {
	return r.Err != "" || (r.Gated && !r.Passed)
}

// Summary aggregates a batch run.
type Summary struct {
	Results []Result      `json:"results"`
	Total   int           `json:"total"`
	Passed  int           `json:"passed"`
	Failed  int           `json:"failed"`
	Elapsed time.Duration `json:"-"`
}

// OK reports whether every gated query passed and no query errored.
func (s *Summary) OK() bool {
	return s.Failed == 0
}

// Engine executes gates against one runner.
type Engine struct {
	Runner *runner.Runner
}

// Run executes every query in order and aggregates the results. Queries
// run sequentially; a failing or erroring query never stops the batch, so
// one run reports every problem at once.
func (e *Engine) Run(ctx context.Context, queries []*queryline.ParsedQuery) *Summary {
	start := time.Now()
	summary := &Summary{}

	for _, q := range queries {
		res := e.runOne(ctx, q)
		summary.Results = append(summary.Results, res)
		summary.Total++
		if res.Failed() {
			summary.Failed++
		} else {
			summary.Passed++
		}
	}

	summary.Elapsed = time.Since(start)
	return summary
}

func (e *Engine) runOne(ctx context.Context, q *queryline.ParsedQuery) Result {
	res := Result{
		Query:    q.String(),
		Selector: q.Selector,
		View:     q.View,
		Expect:   q.ExpectResults,
	}

	if problems := queryline.Validate(q); len(problems) > 0 {
		res.Err = strings.Join(problems, "; ")
		return res
	}

	var cmp expect.Comparator
	if q.ExpectResults != "" {
		// Validate already compiled this once; the second compile is
		// cheap and keeps the comparator local.
		cmp, _ = expect.Compile(q.ExpectResults)
		res.Gated = true
	}

	inv, err := e.Runner.Run(ctx, q.Args())
	res.Duration = inv.Duration
	res.Stderr = strings.TrimSpace(inv.Stderr)
	if err != nil {
		res.Err = err.Error()
		return res
	}
	if inv.ExitCode != 0 {
		res.Err = fmt.Sprintf("%s exited with code %d", e.Runner.CommandLine(q.Args()), inv.ExitCode)
		return res
	}

	res.Count = count.Count(q.View, inv.Stdout)
	if res.Gated {
		res.Passed = cmp.Matches(res.Count)
	} else {
		res.Passed = true
	}
	return res
}
