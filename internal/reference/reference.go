// Package reference defines the (name, version) identifier used to declare
// dependencies and tool requirements to the host.
package reference

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/specialistvlad/ipcrecipe/internal/semver"
)

var namePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_.+-]*$`)

// Reference identifies a package by name and version. Version is kept in
// the form it was written in; it is guaranteed to parse as a semver.
type Reference struct {
	Name    string
	Version string
}

// New validates name and version and returns the matching Reference.
func New(name, version string) (Reference, error) {
	if !namePattern.MatchString(name) {
		return Reference{}, fmt.Errorf("reference: invalid package name %q", name)
	}
	if _, err := semver.ParseVersion(version); err != nil {
		return Reference{}, fmt.Errorf("reference: %s: %w", name, err)
	}
	return Reference{Name: name, Version: version}, nil
}

// Parse reads the "name/version" form.
func Parse(raw string) (Reference, error) {
	name, version, ok := strings.Cut(strings.TrimSpace(raw), "/")
	if !ok {
		return Reference{}, fmt.Errorf("reference: %q is not of the form name/version", raw)
	}
	return New(name, version)
}

func MustParse(raw string) Reference {
	r, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return r
}

func (r Reference) String() string {
	return r.Name + "/" + r.Version
}

// SemVer returns the parsed version.
func (r Reference) SemVer() (semver.Version, error) {
	return semver.ParseVersion(r.Version)
}

// Sort orders refs by name, then version.
func Sort(refs []Reference) {
	sort.Slice(refs, func(i, j int) bool {
		if refs[i].Name != refs[j].Name {
			return refs[i].Name < refs[j].Name
		}
		return refs[i].Version < refs[j].Version
	})
}

// CMakeName upper-cases name and replaces anything CMake would not accept
// in a variable name with an underscore. Distinct names may share a
// CMakeName ("foo-bar" and "foo_bar").
func CMakeName(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r - 'a' + 'A'
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			return r
		default:
			return '_'
		}
	}, name)
}

// Names returns the names of refs in order.
func Names(refs []Reference) []string {
	names := make([]string, len(refs))
	for i, r := range refs {
		names[i] = r.Name
	}
	return names
}
