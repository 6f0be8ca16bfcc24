package offline

import (
	"fmt"
	"strings"

	"golang.org/x/mod/semver"
)

const generationPrefix = "cbt-"

// GenerationName returns the cache generation for an application version,
// e.g. "1.2" becomes "cbt-v1.2.0". Build metadata is dropped.
func GenerationName(version string) (string, error) {
	v := strings.TrimSpace(version)
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		return "", fmt.Errorf("invalid version %q", version)
	}
	return generationPrefix + semver.Canonical(v), nil
}
