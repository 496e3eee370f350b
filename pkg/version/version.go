// Package version exposes build information injected via ldflags.
package version

import (
	"github.com/Masterminds/semver/v3"
)

// Set at build time:
//
//	-ldflags "-X github.com/rshade/artsel/pkg/version.version=v1.2.3 -X ...commit=abc -X ...buildDate=..."
//
//nolint:gochecknoglobals // ldflags targets
var (
	version   = "0.0.0-dev"
	commit    = "none"
	buildDate = "unknown"
)

// fallbackVersion is reported when the injected version is not valid semver.
const fallbackVersion = "0.0.0-dev"

// GetVersion returns the normalized build version without a leading "v".
func GetVersion() string {
	v, err := semver.NewVersion(version)
	if err != nil {
		return fallbackVersion
	}
	return v.String()
}

// GetCommit returns the build commit.
func GetCommit() string { return commit }

// GetBuildDate returns the build date.
func GetBuildDate() string { return buildDate }

// IsRelease reports whether the build carries a release version (no prerelease suffix).
func IsRelease() bool {
	v, err := semver.NewVersion(version)
	if err != nil {
		return false
	}
	return v.Prerelease() == ""
}
