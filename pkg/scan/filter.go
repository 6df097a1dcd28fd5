package scan

import (
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/depexport/pkg/config"
	"github.com/matzehuels/depexport/pkg/model"
	"github.com/matzehuels/depexport/pkg/pattern"
)

// Stage names a step of the filter pipeline.
type Stage string

const (
	StageNamespace Stage = "namespace"
	StageScope     Stage = "scope"
	StageExclude   Stage = "exclude"
	StageInclude   Stage = "include"
)

// Verdict records how one candidate fared in each stage. Exclude and
// include are only evaluated for candidates that passed namespace and scope.
type Verdict struct {
	Candidate Candidate
	Namespace bool
	Scope     bool
	Excluded  bool
	Included  bool
}

// Passed reports whether the candidate survived the pipeline.
func (v Verdict) Passed() bool {
	return v.Namespace && v.Scope && !v.Excluded && v.Included
}

// DroppedAt returns the first stage that rejected the candidate, or "".
func (v Verdict) DroppedAt() Stage {
	switch {
	case !v.Namespace:
		return StageNamespace
	case !v.Scope:
		return StageScope
	case v.Excluded:
		return StageExclude
	case !v.Included:
		return StageInclude
	}
	return ""
}

// FilterResult is the outcome of [Filter.Apply].
type FilterResult struct {
	Coordinates []model.Coordinate // survivors, sorted and distinct
	Verdicts    []Verdict          // one per input candidate, in input order
	Dropped     map[Stage]int      // rejections by first failing stage
}

// Filter is the dependency filter pipeline. Stages run in a fixed order:
// supported group prefix, scope pattern, exclusions, inclusions.
type Filter struct {
	Supported  []string // group prefixes served by the registry
	Scope      *pattern.Pattern
	Policy     config.ScopePolicy
	Include    []model.ModuleSelector
	Exclude    []model.ModuleSelector
	IncludeAll bool
	Logger     *log.Logger
}

// NewFilter returns a Filter for the scan settings of cfg.
func NewFilter(cfg config.ScanConfig, supported []string, logger *log.Logger) *Filter {
	return &Filter{
		Supported:  supported,
		Scope:      cfg.Projects,
		Policy:     cfg.Scope,
		Include:    cfg.Include,
		Exclude:    cfg.Exclude,
		IncludeAll: cfg.IncludeAllDependencies,
		Logger:     logger,
	}
}

// Apply runs every candidate through the pipeline.
func (f *Filter) Apply(candidates []Candidate) FilterResult {
	logger := f.Logger
	if logger == nil {
		logger = log.Default()
	}

	res := FilterResult{
		Verdicts: make([]Verdict, 0, len(candidates)),
		Dropped:  make(map[Stage]int),
	}
	var passed []model.Coordinate

	for _, c := range candidates {
		v := f.evaluate(c)
		res.Verdicts = append(res.Verdicts, v)

		if stage := v.DroppedAt(); stage != "" {
			res.Dropped[stage]++
			logger.Debug("filter: fail", "coordinate", c.Coordinate, "owner", c.Owner, "stage", stage)
			continue
		}
		logger.Debug("filter: pass", "coordinate", c.Coordinate, "owner", c.Owner)
		passed = append(passed, c.Coordinate)
	}

	res.Coordinates = model.SortCoordinates(passed)
	return res
}

func (f *Filter) evaluate(c Candidate) Verdict {
	v := Verdict{Candidate: c}

	v.Namespace = f.supported(c.Coordinate.Group)
	if !v.Namespace {
		return v
	}

	scoped := c.Owner
	if f.Policy == config.ScopeModule {
		scoped = c.Coordinate.Module
	}
	v.Scope = f.Scope == nil || f.Scope.Matches(scoped)
	if !v.Scope {
		return v
	}

	v.Excluded = model.AnyModule(f.Exclude, c.Coordinate)
	v.Included = f.IncludeAll || model.AnyModule(f.Include, c.Coordinate)
	return v
}

func (f *Filter) supported(group string) bool {
	for _, p := range f.Supported {
		if strings.HasPrefix(group, p) {
			return true
		}
	}
	return false
}
