// Package count derives a result count from the external query binary's
// stdout, according to the view format the query declared.
package count

import (
	"strconv"
	"strings"

	"github.com/ohler55/ojg/oj"
)

// Count measures the number of results in output for the given view.
//
//   - "count": the trimmed output parsed as a bare integer.
//   - "json": top-level array length or object key count.
//   - "human", "mermaid", or anything else: non-blank lines.
//
// The count and json views fall back to line counting when the output does
// not parse; query binaries print warnings and partial output often enough
// that a hard failure here would gate on the wrong thing.
func Count(view, output string) int {
	switch view {
	case "count":
		if n, err := strconv.Atoi(strings.TrimSpace(output)); err == nil {
			return n
		}
		return NonBlankLines(output)
	case "json":
		if n, ok := jsonCount(output); ok {
			return n
		}
		return NonBlankLines(output)
	default:
		return NonBlankLines(output)
	}
}

// NonBlankLines counts the lines of s that contain any non-whitespace
// character.
func NonBlankLines(s string) int {
	n := 0
	for _, line := range strings.Split(s, "\n") {
		if strings.TrimSpace(line) != "" {
			n++
		}
	}
	return n
}

// jsonCount parses output as JSON and measures the top-level value:
// arrays by element count, objects by key count, null as zero, and any
// scalar as a single result.
func jsonCount(output string) (int, bool) {
	trimmed := strings.TrimSpace(output)
	if trimmed == "" {
		return 0, true
	}

	parsed, err := oj.ParseString(trimmed)
	if err != nil {
		return 0, false
	}

	switch v := parsed.(type) {
	case []any:
		return len(v), true
	case map[string]any:
		return len(v), true
	case nil:
		return 0, true
	default:
		return 1, true
	}
}
