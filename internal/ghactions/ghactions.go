// Package ghactions binds depgate to the GitHub Actions runner contract:
// INPUT_* environment variables in, GITHUB_OUTPUT and GITHUB_STEP_SUMMARY
// files out, plus ::error::-style workflow commands on the log stream.
package ghactions

import (
	"fmt"
	"os"
	"strings"
)

// IsActions reports whether the process is running inside a GitHub
// Actions job.
func IsActions() bool {
	return os.Getenv("GITHUB_ACTIONS") == "true"
}

// Input returns the value of a named action input. The runner exposes
// inputs as INPUT_<NAME> with the name uppercased and spaces replaced by
// underscores; values keep their whitespace except for a trailing-newline
// trim.
func Input(name string) string {
	key := "INPUT_" + strings.ToUpper(strings.ReplaceAll(name, " ", "_"))
	return strings.TrimRight(os.Getenv(key), "\r\n")
}

// SetOutput appends a named output to the GITHUB_OUTPUT file. Multi-line
// values use the heredoc delimiter form. A missing GITHUB_OUTPUT (local
// runs) is a no-op, not an error.
func SetOutput(name, value string) error {
	path := os.Getenv("GITHUB_OUTPUT")
	if path == "" {
		return nil
	}

	var entry string
	if strings.ContainsAny(value, "\r\n") {
		delimiter := heredocDelimiter(value)
		entry = fmt.Sprintf("%s<<%s\n%s\n%s\n", name, delimiter, value, delimiter)
	} else {
		entry = fmt.Sprintf("%s=%s\n", name, value)
	}

	return appendFile(path, entry)
}

// AppendStepSummary appends markdown to the job's step summary. A missing
// GITHUB_STEP_SUMMARY is a no-op.
func AppendStepSummary(markdown string) error {
	path := os.Getenv("GITHUB_STEP_SUMMARY")
	if path == "" {
		return nil
	}
	if !strings.HasSuffix(markdown, "\n") {
		markdown += "\n"
	}
	return appendFile(path, markdown)
}

// Errorf emits an ::error:: workflow command, which the runner renders as
// an annotation.
func Errorf(format string, args ...any) {
	fmt.Fprintf(os.Stdout, "::error::%s\n", escapeData(fmt.Sprintf(format, args...)))
}

// Noticef emits a ::notice:: workflow command.
func Noticef(format string, args ...any) {
	fmt.Fprintf(os.Stdout, "::notice::%s\n", escapeData(fmt.Sprintf(format, args...)))
}

// escapeData escapes a workflow command payload per the runner's rules.
func escapeData(s string) string {
	s = strings.ReplaceAll(s, "%", "%25")
	s = strings.ReplaceAll(s, "\r", "%0D")
	s = strings.ReplaceAll(s, "\n", "%0A")
	return s
}

// heredocDelimiter picks a delimiter that does not occur in value, so a
// hostile query result cannot terminate the block early.
func heredocDelimiter(value string) string {
	delimiter := "DEPGATE_EOF"
	for strings.Contains(value, delimiter) {
		delimiter += "_"
	}
	return delimiter
}

func appendFile(path, content string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()
	if _, err := f.WriteString(content); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
