// Package shellquote formats argv slices for human display, quoting the
// arguments a shell would otherwise mangle. It is display-only; depgate
// never routes queries through a shell.
package shellquote

import "strings"

// Quote wraps s in single quotes, escaping any internal single quotes.
func Quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// QuoteIfNeeded quotes strings that a shell would interpret or split.
func QuoteIfNeeded(s string) string {
	if s == "" {
		return "''"
	}
	if strings.ContainsAny(s, " \t#[]()|!\"'*><&;$") {
		return Quote(s)
	}
	return s
}

// Join renders an argv slice as a copy-pasteable command line.
func Join(args []string) string {
	quoted := make([]string, len(args))
	for i, a := range args {
		quoted[i] = QuoteIfNeeded(a)
	}
	return strings.Join(quoted, " ")
}
