// Package expect compiles expected-result-count expressions into
// predicates over an integer count.
//
// The grammar is tiny: a bare non-negative integer means exact equality,
// and the prefixes >=, <=, >, < mean the obvious comparisons. Two-character
// operators are matched before their one-character prefixes; ">=5" is
// greater-or-equal five, never ">" applied to the non-number "=5".
package expect

import (
	"fmt"
	"strconv"
	"strings"
)

// Comparator is a compiled expected-results expression. The zero value is
// not usable; obtain one from Compile.
type Comparator struct {
	source string
	op     string
	bound  int
}

// Compile parses an expression into a Comparator. The input is trimmed of
// surrounding whitespace first. On failure the error names the offending
// input and the accepted forms.
func Compile(expr string) (Comparator, error) {
	trimmed := strings.TrimSpace(expr)

	var op, rest string
	switch {
	case isDigits(trimmed):
		op, rest = "==", trimmed
	case strings.HasPrefix(trimmed, ">="):
		op, rest = ">=", trimmed[2:]
	case strings.HasPrefix(trimmed, "<="):
		op, rest = "<=", trimmed[2:]
	case strings.HasPrefix(trimmed, ">"):
		op, rest = ">", trimmed[1:]
	case strings.HasPrefix(trimmed, "<"):
		op, rest = "<", trimmed[1:]
	default:
		return Comparator{}, invalidErr(expr)
	}

	bound, err := strconv.Atoi(strings.TrimSpace(rest))
	if err != nil || bound < 0 {
		return Comparator{}, invalidErr(expr)
	}

	return Comparator{source: trimmed, op: op, bound: bound}, nil
}

// Matches evaluates the comparator against an actual result count.
func (c Comparator) Matches(count int) bool {
	switch c.op {
	case "==":
		return count == c.bound
	case ">=":
		return count >= c.bound
	case "<=":
		return count <= c.bound
	case ">":
		return count > c.bound
	case "<":
		return count < c.bound
	default:
		return false
	}
}

// String returns the trimmed source expression.
func (c Comparator) String() string {
	return c.source
}

func invalidErr(expr string) error {
	return fmt.Errorf(`invalid expect-results comparator %q: accepted forms are an exact count ("0"), or a bound with >, >=, <, <= (">5", ">=1", "<=10")`, expr)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
