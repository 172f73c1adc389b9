package config

import (
	"strings"

	"github.com/Masterminds/semver/v3"
)

// MinimumGoVersion is the oldest toolchain the binary is supported on.
const MinimumGoVersion = "1.21.0"

// RuntimeBelowMinimum reports whether goVersion (as returned by runtime.Version)
// is older than MinimumGoVersion. Versions that do not parse, such as devel
// builds, are never reported.
func RuntimeBelowMinimum(goVersion string) bool {
	current, err := semver.NewVersion(strings.TrimPrefix(strings.TrimSpace(goVersion), "go"))
	if err != nil {
		return false
	}
	return current.LessThan(semver.MustParse(MinimumGoVersion))
}
