package version

import "fmt"

var (
	// Version is the release version, "dev" for local builds
	Version = "dev"
	// GitSHA is the git commit the binary was built from
	GitSHA = "unknown"
	// BuildTime is the UTC build timestamp
	BuildTime = "unknown"
)

// String formats the build metadata as a single line for -version output.
func String() string {
	return fmt.Sprintf("segreport %s (%s, built %s)", Version, GitSHA, BuildTime)
}
