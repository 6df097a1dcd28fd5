package scan

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/depexport/pkg/buildgraph"
	"github.com/matzehuels/depexport/pkg/config"
	"github.com/matzehuels/depexport/pkg/model"
	"github.com/matzehuels/depexport/pkg/pattern"
)

// Pair is a (project, configuration) selected for resolution.
type Pair struct {
	Project       buildgraph.Project
	Configuration buildgraph.Configuration
}

func (p Pair) String() string {
	if p.Project.Path() == ":" {
		return ":" + p.Configuration.Name()
	}
	return p.Project.Path() + ":" + p.Configuration.Name()
}

// Candidate is a coordinate found while walking, with its origin.
type Candidate struct {
	Owner         string // project path
	Configuration string // configuration name
	Coordinate    model.Coordinate
}

// Walker enumerates and resolves the configurations selected for scanning.
type Walker struct {
	Projects       *pattern.Pattern
	Configurations *pattern.Pattern
	Scope          config.ScopePolicy
	Transitive     bool // transitivity of newly created resolvable views
	Logger         *log.Logger
}

// NewWalker returns a Walker for the scan settings of cfg.
func NewWalker(cfg config.ScanConfig, logger *log.Logger) *Walker {
	return &Walker{
		Projects:       cfg.Projects,
		Configurations: cfg.Configurations,
		Scope:          cfg.Scope,
		Transitive:     cfg.Transitive,
		Logger:         logger,
	}
}

// Pairs returns the (project, configuration) pairs to resolve, in graph order.
// Under [config.ScopeOwner] a pair needs both patterns to match; under
// [config.ScopeModule] only the configuration pattern is applied here.
func (w *Walker) Pairs(g buildgraph.Graph) []Pair {
	var pairs []Pair
	for _, p := range g.Projects() {
		if w.Scope != config.ScopeModule && !w.Projects.Matches(p.Path()) {
			continue
		}
		for _, c := range p.Configurations() {
			if w.Configurations.Matches(c.Name()) {
				pairs = append(pairs, Pair{Project: p, Configuration: c})
			}
		}
	}
	return pairs
}

// Walk resolves every selected pair and returns the external module
// coordinates of the resolution results. Project dependencies and
// unresolved nodes are skipped, but modules reached through a project
// dependency are kept. Declared dependencies without a version produce a
// warning. A resolution failure aborts the walk.
func (w *Walker) Walk(ctx context.Context, g buildgraph.Graph) ([]Candidate, []Warning, error) {
	logger := w.logger()
	var (
		candidates []Candidate
		warnings   []Warning
	)

	for _, pair := range w.Pairs(g) {
		owner, name := pair.Project.Path(), pair.Configuration.Name()
		logger.Debug("extracting dependencies", "project", owner, "configuration", name)

		for _, d := range pair.Configuration.Dependencies() {
			if d.Version == "" {
				wr := Warning{Kind: WarningUnversionedDependency, Project: owner, Configuration: name, Subject: d.Group + ":" + d.Name}
				logger.Warn("dependency version is not specified", "project", owner, "configuration", name, "dependency", wr.Subject)
				warnings = append(warnings, wr)
			}
		}

		view, err := pair.Project.Resolvable(pair.Configuration, w.Transitive)
		if err != nil {
			return nil, warnings, fmt.Errorf("%s: %w", pair, err)
		}
		roots, err := view.Resolve(ctx)
		if err != nil {
			return nil, warnings, fmt.Errorf("resolve %s:%s: %w", owner, view.Name(), err)
		}

		seen := make(map[string]bool)
		var visit func(deps []buildgraph.ResolvedDependency)
		visit = func(deps []buildgraph.ResolvedDependency) {
			for _, d := range deps {
				switch {
				case d.Unresolved:
					logger.Debug("skipping unresolved dependency", "project", owner, "configuration", name, "requested", d.Requested)
					continue
				case d.Module != nil:
					key := "m:" + d.Module.String()
					if seen[key] {
						continue
					}
					seen[key] = true
					candidates = append(candidates, Candidate{Owner: owner, Configuration: name, Coordinate: *d.Module})
				case d.Project != "":
					key := "p:" + d.Project
					if seen[key] {
						continue
					}
					seen[key] = true
				}
				visit(d.Dependencies)
			}
		}
		visit(roots)
	}
	return candidates, warnings, nil
}

func (w *Walker) logger() *log.Logger {
	if w.Logger == nil {
		return log.Default()
	}
	return w.Logger
}
