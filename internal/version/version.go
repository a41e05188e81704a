// Package version carries build metadata stamped in via -ldflags.
package version

import "fmt"

var (
	// Version is the current application version
	Version = "dev"
	// GitSHA is the git commit SHA
	GitSHA = "unknown"
	// BuildTime is the build timestamp
	BuildTime = "unknown"
)

// String returns the version line the cmds print for -version.
func String() string {
	return fmt.Sprintf("reach.report %s (%s, built %s)", Version, GitSHA, BuildTime)
}
