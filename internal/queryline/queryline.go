// Package queryline parses dependency-query lines into structured queries.
//
// A query line is a selector followed by optional flags, e.g.:
//
//	*:license(copyleft) --scope=":root > *" --expect-results=0
//
// Lines are tokenized with a single left-to-right scan. Quoted spans
// (single or double) are kept inside the surrounding token with their quote
// characters intact; the external query binary owns unquoting semantics, so
// this layer never strips or rewrites anything.
package queryline

import "strings"

// Recognized --name=value flag prefixes. Values are captured verbatim,
// everything after the first '=' up to the end of the token.
const (
	prefixExpectResults = "--expect-results="
	prefixView          = "--view="
	prefixScope         = "--scope="
	prefixTarget        = "--target="
)

// ParsedQuery is one parsed query line. Immutable after construction.
type ParsedQuery struct {
	// Selector is the first token of the line. Never empty for a value
	// produced by Tokenize or FromParams with a non-empty selector.
	Selector string

	// Flags holds every token after the selector, in input order.
	Flags []string

	// Raw values of recognized flags. Empty string means absent; the flag
	// grammar has no way to pass an empty value without quotes, and quoted
	// values keep their quotes, so "" is unambiguous.
	ExpectResults string
	View          string
	Scope         string
	Target        string
}

// Tokenize parses one line of query text.
//
// Blank lines and lines whose trimmed form starts with '#' are skipped:
// the second return is false and no query is produced. This is not an
// error; it is how comments and separators are written in a query block.
func Tokenize(line string) (*ParsedQuery, bool) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return nil, false
	}

	tokens := scanTokens(trimmed)
	if len(tokens) == 0 {
		return nil, false
	}

	q := &ParsedQuery{
		Selector: tokens[0],
		Flags:    tokens[1:],
	}
	for _, flag := range q.Flags {
		q.captureFlag(flag)
	}
	return q, true
}

// TokenizeBatch parses a multi-line block of query text. Any line-break
// convention is accepted. Skipped lines (blank, comment) contribute
// nothing; the remaining queries keep their input order. There is no
// cross-line state.
func TokenizeBatch(block string) []*ParsedQuery {
	normalized := strings.ReplaceAll(block, "\r\n", "\n")
	normalized = strings.ReplaceAll(normalized, "\r", "\n")

	var queries []*ParsedQuery
	for _, line := range strings.Split(normalized, "\n") {
		if q, ok := Tokenize(line); ok {
			queries = append(queries, q)
		}
	}
	return queries
}

// FromParams builds a query from already-separated parameters, without
// re-tokenizing. A non-empty target replaces the selector outright. Each
// non-empty option is recorded in its field and appended to Flags as a
// synthesized --name=value token, in the order expect-results, view,
// scope. Target is not appended as a flag since it already replaced the
// selector.
func FromParams(selector, expectResults, view, scope, target string) *ParsedQuery {
	q := &ParsedQuery{Selector: selector}
	if target != "" {
		q.Selector = target
		q.Target = target
	}
	if expectResults != "" {
		q.ExpectResults = expectResults
		q.Flags = append(q.Flags, prefixExpectResults+expectResults)
	}
	if view != "" {
		q.View = view
		q.Flags = append(q.Flags, prefixView+view)
	}
	if scope != "" {
		q.Scope = scope
		q.Flags = append(q.Flags, prefixScope+scope)
	}
	return q
}

// String reassembles the query for display. Tokens are joined with single
// spaces; quoted spans survive verbatim because tokenization preserved
// them.
func (q *ParsedQuery) String() string {
	if len(q.Flags) == 0 {
		return q.Selector
	}
	return q.Selector + " " + strings.Join(q.Flags, " ")
}

// Args returns the argv tail passed to the external query binary:
// selector first, then flags in input order.
func (q *ParsedQuery) Args() []string {
	args := make([]string, 0, 1+len(q.Flags))
	args = append(args, q.Selector)
	args = append(args, q.Flags...)
	return args
}

// captureFlag records the value of a recognized --name=value flag.
// Later occurrences overwrite earlier ones.
func (q *ParsedQuery) captureFlag(flag string) {
	switch {
	case strings.HasPrefix(flag, prefixExpectResults):
		q.ExpectResults = flag[len(prefixExpectResults):]
	case strings.HasPrefix(flag, prefixView):
		q.View = flag[len(prefixView):]
	case strings.HasPrefix(flag, prefixScope):
		q.Scope = flag[len(prefixScope):]
	case strings.HasPrefix(flag, prefixTarget):
		q.Target = flag[len(prefixTarget):]
	}
}

// scanTokens splits a trimmed line into whitespace-delimited tokens,
// treating a quoted span as part of the current token. Quote characters
// are preserved. No escape sequences, no nesting; an unterminated quote
// runs to the end of the line.
func scanTokens(line string) []string {
	var tokens []string
	var current strings.Builder

	flush := func() {
		if current.Len() > 0 {
			tokens = append(tokens, current.String())
			current.Reset()
		}
	}

	for i := 0; i < len(line); i++ {
		ch := line[i]
		switch {
		case ch == ' ' || ch == '\t':
			flush()
		case ch == '"' || ch == '\'':
			current.WriteByte(ch)
			i++
			for i < len(line) && line[i] != ch {
				current.WriteByte(line[i])
				i++
			}
			if i < len(line) {
				current.WriteByte(line[i]) // closing quote
			}
		default:
			current.WriteByte(ch)
		}
	}
	flush()

	return tokens
}
