// Package buildinfo carries version details stamped in at link time with
// -ldflags "-X github.com/aloc23/ifit/internal/buildinfo.Version=...".
package buildinfo

import "fmt"

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// String is the version line printed by ifit --version.
func String() string {
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date)
}
