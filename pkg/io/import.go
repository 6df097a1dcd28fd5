package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/depexport/pkg/buildgraph"
	"github.com/matzehuels/depexport/pkg/errors"
)

// Format is a snapshot encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
)

// DetectFormat returns the snapshot format for path based on its extension.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", errors.New(errors.ErrCodeInvalidFormat, "unsupported snapshot file %q (want .json or .toml)", filepath.Base(path))
	}
}

type snapshot struct {
	Projects []project `json:"projects" toml:"projects"`
}

type project struct {
	Path           string          `json:"path" toml:"path"`
	Configurations []configuration `json:"configurations,omitempty" toml:"configurations"`
	Projects       []project       `json:"projects,omitempty" toml:"projects"`
}

type configuration struct {
	Name         string       `json:"name" toml:"name"`
	Dependencies []dependency `json:"dependencies,omitempty" toml:"dependencies"`
	Resolved     []resolved   `json:"resolved,omitempty" toml:"resolved"`
}

type dependency struct {
	Group   string `json:"group,omitempty" toml:"group"`
	Name    string `json:"name" toml:"name"`
	Version string `json:"version,omitempty" toml:"version"`
}

type resolved struct {
	Group        string     `json:"group,omitempty" toml:"group"`
	Name         string     `json:"name,omitempty" toml:"name"`
	Version      string     `json:"version,omitempty" toml:"version"`
	Project      string     `json:"project,omitempty" toml:"project"`
	Unresolved   bool       `json:"unresolved,omitempty" toml:"unresolved"`
	Requested    string     `json:"requested,omitempty" toml:"requested"`
	Dependencies []resolved `json:"dependencies,omitempty" toml:"dependencies"`
}

// ReadSnapshot decodes a build graph snapshot from r.
//
// ReadSnapshot returns an INVALID_GRAPH error if:
//   - The input is malformed or contains unknown fields
//   - A project has an empty or duplicate path
//   - A configuration has no name, or a name used twice in one project
//   - A resolved node is neither a module, a project nor unresolved
//
// ReadSnapshot does not close r.
func ReadSnapshot(r io.Reader, format Format) (*buildgraph.Memory, error) {
	var data snapshot
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&data); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidGraph, err, "decode snapshot")
		}
	case FormatTOML:
		md, err := toml.NewDecoder(r).Decode(&data)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidGraph, err, "decode snapshot")
		}
		if keys := md.Undecoded(); len(keys) > 0 {
			return nil, errors.New(errors.ErrCodeInvalidGraph, "unknown snapshot keys: %v", keys)
		}
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported snapshot format %q", format)
	}

	g := buildgraph.NewMemory()
	seen := make(map[string]bool)
	if err := addProjects(g, data.Projects, seen); err != nil {
		return nil, err
	}
	return g, nil
}

// ImportSnapshot reads the snapshot file at path, detecting its format from
// the extension.
func ImportSnapshot(path string) (*buildgraph.Memory, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	g, err := ReadSnapshot(f, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}

func addProjects(g *buildgraph.Memory, projects []project, seen map[string]bool) error {
	for _, p := range projects {
		if p.Path == "" {
			return errors.New(errors.ErrCodeInvalidGraph, "project with empty path")
		}
		if seen[p.Path] {
			return errors.New(errors.ErrCodeInvalidGraph, "duplicate project %q", p.Path)
		}
		seen[p.Path] = true

		mp := g.AddProject(p.Path)
		names := make(map[string]bool)
		for _, c := range p.Configurations {
			if c.Name == "" {
				return errors.New(errors.ErrCodeInvalidGraph, "project %q: configuration with empty name", p.Path)
			}
			if names[c.Name] {
				return errors.New(errors.ErrCodeInvalidGraph, "project %q: duplicate configuration %q", p.Path, c.Name)
			}
			names[c.Name] = true

			res, err := convertResolved(c.Resolved)
			if err != nil {
				return fmt.Errorf("project %q configuration %q: %w", p.Path, c.Name, err)
			}
			mp.AddConfiguration(c.Name, convertDeclared(c.Dependencies), res)
		}
		if err := addProjects(g, p.Projects, seen); err != nil {
			return err
		}
	}
	return nil
}

func convertDeclared(deps []dependency) []buildgraph.Dependency {
	out := make([]buildgraph.Dependency, len(deps))
	for i, d := range deps {
		out[i] = buildgraph.Dependency{Group: d.Group, Name: d.Name, Version: d.Version}
	}
	return out
}

func convertResolved(nodes []resolved) ([]buildgraph.ResolvedDependency, error) {
	out := make([]buildgraph.ResolvedDependency, 0, len(nodes))
	for _, n := range nodes {
		children, err := convertResolved(n.Dependencies)
		if err != nil {
			return nil, err
		}
		var rd buildgraph.ResolvedDependency
		switch {
		case n.Unresolved:
			rd = buildgraph.Unresolved(n.Requested)
			if rd.Requested == "" {
				rd.Requested = n.Group + ":" + n.Name + ":" + n.Version
			}
		case n.Project != "":
			rd = buildgraph.ProjectDependency(n.Project, children...)
		case n.Group != "" && n.Name != "" && n.Version != "":
			rd = buildgraph.Module(n.Group, n.Name, n.Version, children...)
		default:
			return nil, errors.New(errors.ErrCodeInvalidGraph, "resolved dependency %s:%s:%s needs group, name and version", n.Group, n.Name, n.Version)
		}
		out = append(out, rd)
	}
	return out, nil
}
