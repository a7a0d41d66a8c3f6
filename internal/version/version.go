// Package version holds textdex build metadata, set with -ldflags -X.
package version

//nolint:revive // Set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)
