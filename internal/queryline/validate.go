package queryline

import (
	"fmt"
	"strings"

	"github.com/aidanlsb/depgate/internal/expect"
)

// Views accepted by --view=, matching the display formats of the external
// query binary.
var AllowedViews = []string{"human", "json", "mermaid", "count"}

// IsAllowedView reports whether view names a known display format.
func IsAllowedView(view string) bool {
	for _, v := range AllowedViews {
		if view == v {
			return true
		}
	}
	return false
}

// Validate checks a parsed query and returns every defect found as a
// human-readable message. An empty slice means the query is valid.
//
// The expect-results grammar is owned by the expect package: validation
// attempts compilation rather than duplicating the rules here.
func Validate(q *ParsedQuery) []string {
	var problems []string

	if q == nil || q.Selector == "" {
		problems = append(problems, "query has no selector")
		if q == nil {
			return problems
		}
	}

	if q.View != "" && !IsAllowedView(q.View) {
		problems = append(problems, fmt.Sprintf(
			"invalid view %q: must be one of {%s}", q.View, strings.Join(AllowedViews, ", ")))
	}

	if q.ExpectResults != "" {
		if _, err := expect.Compile(q.ExpectResults); err != nil {
			problems = append(problems, err.Error())
		}
	}

	return problems
}

// ValidateBatch validates every query and reports all defects at once,
// prefixed with the 1-indexed query position so a long block can be fixed
// in one pass.
func ValidateBatch(queries []*ParsedQuery) []string {
	var problems []string
	for i, q := range queries {
		for _, p := range Validate(q) {
			problems = append(problems, fmt.Sprintf("query %d (%s): %s", i+1, describe(q), p))
		}
	}
	return problems
}

func describe(q *ParsedQuery) string {
	if q == nil || q.Selector == "" {
		return "<empty>"
	}
	return q.Selector
}
