package buildgraph

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/matzehuels/depexport/pkg/errors"
)

// Memory is an in-memory [Graph].
type Memory struct {
	projects []*MemoryProject
}

// NewMemory returns an empty graph.
func NewMemory() *Memory {
	return &Memory{}
}

// AddProject adds a project with the given path and returns it.
func (m *Memory) AddProject(path string) *MemoryProject {
	p := &MemoryProject{path: path, views: make(map[string]*MemoryConfiguration)}
	m.projects = append(m.projects, p)
	return p
}

// Projects implements [Graph].
func (m *Memory) Projects() []Project {
	out := make([]Project, len(m.projects))
	for i, p := range m.projects {
		out[i] = p
	}
	return out
}

// MemoryProject is a project of a [Memory] graph.
type MemoryProject struct {
	path    string
	configs []*MemoryConfiguration

	mu    sync.Mutex
	views map[string]*MemoryConfiguration
}

// AddConfiguration adds a declared configuration.
// resolved is the resolution result the build tool produced for it.
func (p *MemoryProject) AddConfiguration(name string, declared []Dependency, resolved []ResolvedDependency) *MemoryConfiguration {
	c := &MemoryConfiguration{
		name:       name,
		declared:   declared,
		resolved:   resolved,
		transitive: true,
		consumable: true,
	}
	p.configs = append(p.configs, c)
	return c
}

func (p *MemoryProject) Path() string { return p.path }

// Configurations returns declared configurations only; resolvable views
// created by [MemoryProject.Resolvable] are not listed.
func (p *MemoryProject) Configurations() []Configuration {
	out := make([]Configuration, len(p.configs))
	for i, c := range p.configs {
		out[i] = c
	}
	return out
}

// Resolvable implements [Project]. The view is never consumable and keeps
// the transitivity it was first created with.
func (p *MemoryProject) Resolvable(base Configuration, transitive bool) (Configuration, error) {
	mc, ok := base.(*MemoryConfiguration)
	if !ok || !slices.Contains(p.configs, mc) {
		return nil, errors.New(errors.ErrCodeInvalidGraph, "configuration %q does not belong to project %q", base.Name(), p.path)
	}

	name := mc.name + ViewSuffix
	p.mu.Lock()
	defer p.mu.Unlock()
	if v, ok := p.views[name]; ok {
		return v, nil
	}
	v := &MemoryConfiguration{
		name:       name,
		declared:   mc.declared,
		resolved:   mc.resolved,
		transitive: transitive,
		consumable: false,
		base:       mc,
	}
	p.views[name] = v
	return v, nil
}

// Views returns the resolvable views created so far, sorted by name.
func (p *MemoryProject) Views() []*MemoryConfiguration {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]*MemoryConfiguration, 0, len(p.views))
	for _, v := range p.views {
		out = append(out, v)
	}
	slices.SortFunc(out, func(a, b *MemoryConfiguration) int {
		return cmp.Compare(a.name, b.name)
	})
	return out
}

// MemoryConfiguration is a configuration of a [MemoryProject].
type MemoryConfiguration struct {
	name       string
	declared   []Dependency
	resolved   []ResolvedDependency
	transitive bool
	consumable bool
	base       *MemoryConfiguration
}

func (c *MemoryConfiguration) Name() string               { return c.name }
func (c *MemoryConfiguration) Dependencies() []Dependency { return c.declared }

// Transitive reports whether resolving c follows transitive dependencies.
func (c *MemoryConfiguration) Transitive() bool { return c.transitive }

// Consumable reports whether other projects may depend on c.
func (c *MemoryConfiguration) Consumable() bool { return c.consumable }

// Base returns the configuration a view was derived from, or nil.
func (c *MemoryConfiguration) Base() *MemoryConfiguration { return c.base }

// Resolve implements [Configuration]. A non-transitive configuration yields
// only the first level of its resolution result.
func (c *MemoryConfiguration) Resolve(ctx context.Context) ([]ResolvedDependency, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if c.transitive {
		return c.resolved, nil
	}
	out := make([]ResolvedDependency, len(c.resolved))
	for i, d := range c.resolved {
		d.Dependencies = nil
		out[i] = d
	}
	return out, nil
}
