// Package model defines the value types shared by every depexport stage:
// module coordinates found in a build graph, components known to the
// registry, and the selectors used to include or exclude either.
package model

import (
	"cmp"
	"fmt"
	"regexp"
	"slices"
	"strings"
)

// Coordinate identifies an external module artifact as a build tool resolves it.
type Coordinate struct {
	Group   string `json:"group" toml:"group"`     // Namespace (e.g. "org.octopusden")
	Module  string `json:"name" toml:"name"`       // Artifact name within the namespace
	Version string `json:"version" toml:"version"` // Resolved version
}

// String returns "group:module:version".
func (c Coordinate) String() string {
	return c.Group + ":" + c.Module + ":" + c.Version
}

// CompareCoordinates orders coordinates by group, module and version.
func CompareCoordinates(a, b Coordinate) int {
	if c := cmp.Compare(a.Group, b.Group); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Module, b.Module); c != 0 {
		return c
	}
	return cmp.Compare(a.Version, b.Version)
}

// SortCoordinates sorts and deduplicates cs in place and returns the result.
func SortCoordinates(cs []Coordinate) []Coordinate {
	slices.SortFunc(cs, CompareCoordinates)
	return slices.Compact(cs)
}

// Component is a named, versioned release unit tracked by the components registry.
// Two components are the same only when both ID and Version are equal.
type Component struct {
	ID      string `json:"name" toml:"name"`
	Version string `json:"version" toml:"version"`
}

// String returns "id:version".
func (c Component) String() string {
	return c.ID + ":" + c.Version
}

// CompareComponents orders components by ID, then Version.
func CompareComponents(a, b Component) int {
	if c := cmp.Compare(a.ID, b.ID); c != 0 {
		return c
	}
	return cmp.Compare(a.Version, b.Version)
}

// ParseComponent parses "id:version". The version is everything after the
// last colon; it is not validated here.
func ParseComponent(s string) (Component, error) {
	i := strings.LastIndex(s, ":")
	if i <= 0 || i == len(s)-1 {
		return Component{}, fmt.Errorf("component %q: expected id:version", s)
	}
	return Component{ID: strings.TrimSpace(s[:i]), Version: strings.TrimSpace(s[i+1:])}, nil
}

// versionPattern is the accepted grammar for explicitly declared component
// versions: digit groups separated by '.', '_' or '-'.
var versionPattern = regexp.MustCompile(`^\d+([._-]\d+)*$`)

// ValidVersion reports whether v is an acceptable explicit component version.
func ValidVersion(v string) bool {
	return versionPattern.MatchString(v)
}
