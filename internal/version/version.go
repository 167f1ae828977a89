// Package version normalizes version strings and keeps a project's declared
// version in sync across its manifest (pontos.toml) and version file.
package version

import (
	"fmt"
	"regexp"
	"strings"
)

// VersionError reports a failure during version handling: a missing file,
// a missing manifest section, or a version mismatch.
type VersionError struct {
	Message string
}

func (e *VersionError) Error() string {
	return e.Message
}

func errorf(format string, args ...any) *VersionError {
	return &VersionError{Message: fmt.Sprintf(format, args...)}
}

var (
	semverPattern   = regexp.MustCompile(`^\d+\.\d+\.\d+(-[a-zA-Z0-9.-]+)?(\+[a-zA-Z0-9.-]+)?$`)
	invalidRunChars = regexp.MustCompile(`[^A-Za-z0-9.]+`)
)

// Strip removes a leading 'v' from a version string.
// E.g. v1.2.3 is converted to 1.2.3.
func Strip(version string) string {
	return strings.TrimPrefix(version, "v")
}

// Safe returns the version in normalized form. A valid semantic version
// passes through with only the tag prefix stripped; anything else has
// spaces converted to dots and remaining invalid runs collapsed to dashes.
func Safe(version string) string {
	v := Strip(version)
	if semverPattern.MatchString(v) {
		return v
	}
	v = strings.ReplaceAll(v, " ", ".")
	return invalidRunChars.ReplaceAllString(v, "-")
}

// IsSemver checks if the provided version is already in normalized
// semantic-version form.
func IsSemver(version string) bool {
	return semverPattern.MatchString(version)
}

// Equal checks if two version strings denote the same version after
// normalization.
func Equal(a, b string) bool {
	return Safe(a) == Safe(b)
}
