// Package buildgraph describes the multi-project build that an export scans.
//
// A build is a set of projects identified by path (":" for the root,
// ":lib:core" for nested ones). Each project owns named configurations, and
// each configuration has declared dependencies plus a resolution result: the
// tree of artifacts the build tool selected for it.
//
// The scanner only depends on the [Graph], [Project] and [Configuration]
// interfaces. [Memory] is the implementation used for build graph snapshots
// and tests.
package buildgraph

import (
	"context"

	"github.com/matzehuels/depexport/pkg/model"
)

// ViewSuffix is appended to a configuration name to form its resolvable view.
const ViewSuffix = "Resolvable"

// Graph is a multi-project build.
type Graph interface {
	// Projects returns every project, nested ones included, in a stable order.
	Projects() []Project
}

// Project is one module of the build.
type Project interface {
	Path() string
	Configurations() []Configuration

	// Resolvable returns the resolvable view of base named
	// base.Name()+ViewSuffix, creating it on first use. Subsequent calls
	// with the same base return the same view.
	Resolvable(base Configuration, transitive bool) (Configuration, error)
}

// Configuration is a named dependency bucket of a project.
type Configuration interface {
	Name() string
	// Dependencies returns the declared dependencies.
	Dependencies() []Dependency
	// Resolve returns the resolution result's top-level dependencies.
	Resolve(ctx context.Context) ([]ResolvedDependency, error)
}

// Dependency is a declared dependency. Group and Version may be empty.
type Dependency struct {
	Group   string
	Name    string
	Version string
}

func (d Dependency) String() string {
	return d.Group + ":" + d.Name + ":" + d.Version
}

// ResolvedDependency is a node of a resolution result.
// Exactly one of Module or Project is set unless the node is Unresolved.
type ResolvedDependency struct {
	Module       *model.Coordinate    // external module selected by resolution
	Project      string               // path of a project dependency
	Unresolved   bool                 // resolution failed for this node
	Requested    string               // requested notation, for unresolved nodes
	Dependencies []ResolvedDependency // transitive dependencies
}

// IsModule reports whether d is a resolved external module.
func (d ResolvedDependency) IsModule() bool {
	return !d.Unresolved && d.Module != nil
}

// Module builds a resolved external module node.
func Module(group, name, version string, deps ...ResolvedDependency) ResolvedDependency {
	return ResolvedDependency{
		Module:       &model.Coordinate{Group: group, Module: name, Version: version},
		Dependencies: deps,
	}
}

// ProjectDependency builds a resolved project dependency node.
func ProjectDependency(path string, deps ...ResolvedDependency) ResolvedDependency {
	return ResolvedDependency{Project: path, Dependencies: deps}
}

// Unresolved builds a node for a dependency resolution failed on.
func Unresolved(requested string) ResolvedDependency {
	return ResolvedDependency{Unresolved: true, Requested: requested}
}
