package version

import "fmt"

// These variables are overridden at build time using -ldflags.
// Keep sensible defaults for local development.
var (
	Version = "dev"
	Commit  = "none"
	Date    = ""
)

// Human returns the one-line form printed by the -version flag.
func Human() string {
	if Date == "" {
		return fmt.Sprintf("tickduel %s (commit %s)", Version, Commit)
	}
	return fmt.Sprintf("tickduel %s (commit %s, built %s)", Version, Commit, Date)
}
