package buildinfo

// These values are injected via ldflags for release binaries and default
// to empty for local builds, where version info comes from
// debug.ReadBuildInfo instead.
var (
	Version = ""
	Commit  = ""
	Date    = ""
)
