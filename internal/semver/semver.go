// Package semver is a thin wrapper around github.com/Masterminds/semver/v3.
//
// Package versions in recipes are not always strict semver ("1.0" is common),
// so parsing is lenient. References keep the raw text for display.
package semver

import (
	"fmt"

	mm "github.com/Masterminds/semver/v3"
)

// Version is a parsed package version.
type Version struct {
	v *mm.Version
}

func ParseVersion(raw string) (Version, error) {
	v, err := mm.NewVersion(raw)
	if err != nil {
		return Version{}, fmt.Errorf("semver: parse version %q: %w", raw, err)
	}
	return Version{v: v}, nil
}

// Compare compares a and b, returning:
// -1 if a < b
//
//	0 if a == b
//	1 if a > b
func Compare(a, b Version) int {
	if a.v == nil && b.v == nil {
		return 0
	}
	if a.v == nil {
		return -1
	}
	if b.v == nil {
		return 1
	}
	return a.v.Compare(b.v)
}

// Equal reports whether a and b denote the same version ("1.0" == "1.0.0").
func Equal(a, b Version) bool {
	return Compare(a, b) == 0
}
