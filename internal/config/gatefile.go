package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/aidanlsb/depgate/internal/queryline"
)

// GatefileName is the project-level configuration file depgate looks for
// in the working directory.
const GatefileName = "depgate.yaml"

// Gatefile is project-level configuration: which binary to run, where,
// and the query suites to gate on.
type Gatefile struct {
	// Binary overrides the global default query binary.
	Binary string `yaml:"binary,omitempty"`

	// Args are leading arguments for the binary.
	Args []string `yaml:"args,omitempty"`

	// WorkingDir is the directory queries run in, relative to the
	// gatefile's own directory when not absolute.
	WorkingDir string `yaml:"working_dir,omitempty"`

	// Timeout bounds each query invocation, in time.ParseDuration form
	// ("90s", "2m"). Empty means the runner default.
	Timeout string `yaml:"timeout,omitempty"`

	// Queries is the default query block, one query per line.
	Queries string `yaml:"queries,omitempty"`

	// Suites are named query sets runnable with `depgate run --suite`.
	Suites map[string]*Suite `yaml:"suites,omitempty"`
}

// Suite is a named set of queries. Queries and Gates can be combined;
// line queries run first.
type Suite struct {
	// Queries is a multi-line query block.
	Queries string `yaml:"queries,omitempty"`

	// Gates are structured entries for queries awkward to express on one
	// line (heavily-quoted scopes, generated targets).
	Gates []*GateEntry `yaml:"gates,omitempty"`
}

// GateEntry is the structured form of a single query.
type GateEntry struct {
	Selector      string `yaml:"selector,omitempty"`
	ExpectResults string `yaml:"expect_results,omitempty"`
	View          string `yaml:"view,omitempty"`
	Scope         string `yaml:"scope,omitempty"`
	Target        string `yaml:"target,omitempty"`
}

// TimeoutDuration parses the configured timeout. Zero with no error means
// no timeout was configured.
func (gf *Gatefile) TimeoutDuration() (time.Duration, error) {
	if gf.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(gf.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid timeout %q in %s: %w", gf.Timeout, GatefileName, err)
	}
	return d, nil
}

// LoadGatefile reads and parses a gatefile. A missing file is reported as
// an error; callers that treat the gatefile as optional should stat first
// or use LoadGatefileIfPresent.
func LoadGatefile(path string) (*Gatefile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var gf Gatefile
	if err := yaml.Unmarshal(data, &gf); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &gf, nil
}

// LoadGatefileIfPresent loads path when it exists and returns (nil, nil)
// when it does not.
func LoadGatefileIfPresent(path string) (*Gatefile, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	}
	return LoadGatefile(path)
}

// SuiteQueries resolves a named suite (or the default query block when
// name is empty) into parsed queries. Structured gate entries are built
// without re-tokenizing, so their values never pass through quote
// handling.
func (gf *Gatefile) SuiteQueries(name string) ([]*queryline.ParsedQuery, error) {
	if name == "" {
		return queryline.TokenizeBatch(gf.Queries), nil
	}

	suite, ok := gf.Suites[name]
	if !ok {
		return nil, fmt.Errorf("suite %q not found in %s", name, GatefileName)
	}

	queries := queryline.TokenizeBatch(suite.Queries)
	for _, entry := range suite.Gates {
		queries = append(queries, queryline.FromParams(
			entry.Selector, entry.ExpectResults, entry.View, entry.Scope, entry.Target))
	}
	return queries, nil
}
