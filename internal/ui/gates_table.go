package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/aidanlsb/depgate/internal/gate"
)

// GatesTable renders a gate run summary for the terminal.
type GatesTable struct {
	display *DisplayContext
	summary *gate.Summary
}

// NewGatesTable creates a table for the given summary.
func NewGatesTable(display *DisplayContext, summary *gate.Summary) *GatesTable {
	return &GatesTable{display: display, summary: summary}
}

// Render generates the table output as a string, one row per query.
func (t *GatesTable) Render() string {
	if t.summary == nil || len(t.summary.Results) == 0 {
		return ""
	}

	queryWidth := t.display.TermWidth - 34 // status, expected, actual, padding
	if queryWidth < 20 {
		queryWidth = 20
	}
	if queryWidth > 100 {
		queryWidth = 100
	}

	rows := make([][]string, 0, len(t.summary.Results))
	for _, res := range t.summary.Results {
		rows = append(rows, []string{
			statusCell(res),
			TruncateWithEllipsis(res.Query, queryWidth),
			expectCell(res),
			actualCell(res),
		})
	}

	tbl := table.New().
		Border(lipgloss.Border{Bottom: "─", Middle: "─"}).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderRow(false).
		BorderColumn(false).
		BorderStyle(Muted).
		StyleFunc(func(row, col int) lipgloss.Style {
			style := lipgloss.NewStyle()
			switch col {
			case 0:
				style = style.Width(8)
			case 1:
				style = style.Width(queryWidth)
			case 2, 3:
				style = Muted.Width(9).Align(lipgloss.Right)
			}
			if col < 3 {
				style = style.PaddingRight(2)
			}
			return style
		}).
		Rows(rows...)

	return tbl.Render()
}

// RenderSummaryLine renders the one-line verdict under the table.
func (t *GatesTable) RenderSummaryLine() string {
	s := t.summary
	if s.OK() {
		return Success(fmt.Sprintf("%d/%d queries passed", s.Passed, s.Total))
	}
	return Error(fmt.Sprintf("%d of %d queries failed", s.Failed, s.Total))
}

func statusCell(res gate.Result) string {
	switch {
	case res.Err != "":
		return Fail.Render(SymbolWarning + " error")
	case !res.Gated:
		return Muted.Render(SymbolInfo + " info")
	case res.Passed:
		return Pass.Render(SymbolSuccess + " pass")
	default:
		return Fail.Render(SymbolError + " fail")
	}
}

func expectCell(res gate.Result) string {
	if res.Expect == "" {
		return "—"
	}
	return res.Expect
}

func actualCell(res gate.Result) string {
	if res.Err != "" {
		return "—"
	}
	return fmt.Sprintf("%d", res.Count)
}

// TruncateWithEllipsis truncates a string to maxLen runes, adding an
// ellipsis when anything was cut.
func TruncateWithEllipsis(s string, maxLen int) string {
	if maxLen <= 1 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return strings.TrimRight(string(runes[:maxLen-1]), " ") + "…"
}
