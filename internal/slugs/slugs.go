// Package slugs derives stable, machine-friendly keys from query text.
// Per-gate action outputs are named count-<slug>, so the slug must be
// deterministic and unique within a run.
package slugs

import (
	"fmt"
	"strings"

	goslug "github.com/gosimple/slug"
)

// QueryKey slugifies a selector for use as an output key component.
// Selectors are dense with punctuation (":malware", "*:license(copyleft)"),
// most of which gosimple/slug strips; a selector that slugs to nothing
// falls back to "query".
func QueryKey(selector string) string {
	s := goslug.Make(selector)
	if s == "" {
		return "query"
	}
	return s
}

// UniqueQueryKeys returns one key per selector, deduplicating repeats with
// a numeric suffix so outputs never clobber each other. Order matches the
// input.
func UniqueQueryKeys(selectors []string) []string {
	keys := make([]string, 0, len(selectors))
	seen := make(map[string]bool)

	for _, sel := range selectors {
		key := QueryKey(sel)
		if seen[key] {
			for n := 2; ; n++ {
				candidate := fmt.Sprintf("%s-%d", key, n)
				if !seen[candidate] {
					key = candidate
					break
				}
			}
		}
		seen[key] = true
		keys = append(keys, key)
	}
	return keys
}

// SuiteKey slugifies a suite name for history records and file names.
func SuiteKey(name string) string {
	s := goslug.Make(strings.TrimSpace(name))
	if s == "" {
		return "default"
	}
	return s
}
