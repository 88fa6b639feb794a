// Package report renders gate run summaries as markdown, for the GitHub
// step summary, report files, and terminal display.
package report

import (
	"fmt"
	"strings"

	"github.com/aidanlsb/depgate/internal/atomicfile"
	"github.com/aidanlsb/depgate/internal/gate"
)

const (
	statusPass = "✅ pass"
	statusFail = "❌ fail"
	statusErr  = "⚠️ error"
	statusInfo = "ℹ️ info"
)

// Markdown renders the full report: a headline, the results table, and a
// failure-details section when anything went wrong.
func Markdown(title string, summary *gate.Summary) string {
	var b strings.Builder

	if title == "" {
		title = "Dependency gate"
	}
	fmt.Fprintf(&b, "## %s\n\n", title)

	if summary.Total == 0 {
		b.WriteString("No queries were run.\n")
		return b.String()
	}

	if summary.OK() {
		fmt.Fprintf(&b, "**%d/%d queries passed.**\n\n", summary.Passed, summary.Total)
	} else {
		fmt.Fprintf(&b, "**%d of %d queries failed.**\n\n", summary.Failed, summary.Total)
	}

	b.WriteString("| Query | View | Expected | Actual | Status |\n")
	b.WriteString("|---|---|---|---|---|\n")
	for _, res := range summary.Results {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
			codeCell(res.Query),
			orDash(res.View),
			orDash(codeCell(res.Expect)),
			countCell(res),
			status(res))
	}

	if details := failureDetails(summary); details != "" {
		b.WriteString("\n### Failures\n\n")
		b.WriteString(details)
	}

	return b.String()
}

func failureDetails(summary *gate.Summary) string {
	var b strings.Builder
	for _, res := range summary.Results {
		if !res.Failed() {
			continue
		}
		if res.Err != "" {
			fmt.Fprintf(&b, "- %s — %s\n", codeCell(res.Query), res.Err)
		} else {
			fmt.Fprintf(&b, "- %s — expected %s results, got %d\n",
				codeCell(res.Query), codeCell(res.Expect), res.Count)
		}
		if res.Stderr != "" && res.Err != "" {
			fmt.Fprintf(&b, "  - stderr: %s\n", firstLine(res.Stderr))
		}
	}
	return b.String()
}

func status(res gate.Result) string {
	switch {
	case res.Err != "":
		return statusErr
	case !res.Gated:
		return statusInfo
	case res.Passed:
		return statusPass
	default:
		return statusFail
	}
}

func countCell(res gate.Result) string {
	if res.Err != "" {
		return "—"
	}
	return fmt.Sprintf("%d", res.Count)
}

// codeCell wraps s in backticks for the table, neutralizing pipes so a
// quoted selector cannot break the row.
func codeCell(s string) string {
	if s == "" {
		return ""
	}
	return "`" + strings.ReplaceAll(s, "|", "\\|") + "`"
}

func orDash(s string) string {
	if s == "" {
		return "—"
	}
	return s
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

// WriteFile writes the rendered report to path atomically.
func WriteFile(path, markdown string) error {
	return atomicfile.WriteFile(path, []byte(markdown), 0o644)
}
