package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/pflag"

	"github.com/aidanlsb/depgate/internal/runner"
)

// defaultBinary is used when neither flags, gatefile, nor global config
// name a query binary.
const defaultBinary = "depquery"

// resolveRunner builds the runner from flag > gatefile > global config
// precedence, one setting at a time.
func resolveRunner() (*runner.Runner, error) {
	gf := getGatefile()
	cfg := getConfig()

	r := &runner.Runner{Binary: defaultBinary}

	switch {
	case runBinary != "":
		r.Binary = runBinary
		r.Args = runArgs
	case gf != nil && gf.Binary != "":
		r.Binary = gf.Binary
		r.Args = gf.Args
	case cfg.Binary != "":
		r.Binary = cfg.Binary
		r.Args = cfg.Args
	}
	if runBinary == "" && len(runArgs) > 0 {
		r.Args = runArgs
	}

	if runDir != "" {
		r.Dir = runDir
	} else if gf != nil && gf.WorkingDir != "" {
		r.Dir = gf.WorkingDir
		if !filepath.IsAbs(r.Dir) && gatefilePath != "" {
			r.Dir = filepath.Join(filepath.Dir(gatefilePath), gf.WorkingDir)
		}
	}

	if runTimeout > 0 {
		r.Timeout = runTimeout
	} else if gf != nil {
		d, err := gf.TimeoutDuration()
		if err != nil {
			return nil, err
		}
		r.Timeout = d
	}

	if r.Binary == "" {
		return nil, fmt.Errorf("no query binary configured")
	}
	return r, nil
}

// changedFlag reports whether the user set a flag explicitly, as opposed
// to it holding its default.
func changedFlag(fs *pflag.FlagSet, name string) bool {
	f := fs.Lookup(name)
	return f != nil && f.Changed
}
