package scan

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/depexport/pkg/buildgraph"
	"github.com/matzehuels/depexport/pkg/config"
	"github.com/matzehuels/depexport/pkg/errors"
	"github.com/matzehuels/depexport/pkg/model"
	"github.com/matzehuels/depexport/pkg/observability"
	"github.com/matzehuels/depexport/pkg/registry"
)

// Result is the outcome of an extraction.
type Result struct {
	Components []model.Component // sorted, distinct
	Warnings   []Warning
	Pairs      []string // project:configuration pairs that were resolved
	Groups     []string // group prefixes tracked by the registry
	Counts     observability.ScanCounts
}

// Extractor computes the component list of an export.
type Extractor struct {
	Config   config.ExportConfig
	Graph    buildgraph.Graph // required when scanning
	Registry registry.Lookup  // required when scanning
	Logger   *log.Logger
}

// Extract validates the declared components, scans the build graph if
// enabled and returns the merged component list. When scanning is disabled
// neither the graph nor the registry is used.
func (e *Extractor) Extract(ctx context.Context) (*Result, error) {
	logger := e.Logger
	if logger == nil {
		logger = log.Default()
	}
	if err := ValidateManual(e.Config.Components); err != nil {
		return nil, err
	}

	res := &Result{}
	if !e.Config.Scan.Enabled {
		logger.Debug("scan disabled, exporting declared components only")
		components, err := Merge(e.Config.Components, nil)
		if err != nil {
			return nil, err
		}
		res.Components = components
		return res, nil
	}

	if e.Graph == nil {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "scan is enabled but no build graph was provided")
	}
	if e.Registry == nil {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "scan is enabled but no components registry was provided")
	}

	scanned, err := e.scan(ctx, logger, res)
	if err != nil {
		return nil, err
	}
	components, err := Merge(e.Config.Components, scanned)
	if err != nil {
		return nil, err
	}
	res.Components = components
	return res, nil
}

func (e *Extractor) scan(ctx context.Context, logger *log.Logger, res *Result) ([]model.Component, error) {
	start := time.Now()
	cfg := e.Config.Scan

	walker := NewWalker(cfg, logger)
	for _, p := range walker.Pairs(e.Graph) {
		res.Pairs = append(res.Pairs, p.String())
	}
	logger.Info("extracting dependencies", "configurations", strings.Join(res.Pairs, ", "))

	candidates, warnings, err := walker.Walk(ctx, e.Graph)
	res.Warnings = append(res.Warnings, warnings...)
	if err != nil {
		return nil, err
	}
	res.Counts.Candidates = len(candidates)
	res.Counts.Unversioned = len(warnings)

	supported, err := e.Registry.SupportedGroups(ctx)
	if err != nil {
		if !errors.Is(err, errors.ErrCodeRegistry) {
			err = errors.Wrap(errors.ErrCodeRegistry, err, "failed to query components registry at '%s'", cfg.RegistryURL)
		}
		return nil, err
	}
	res.Groups = supported

	filtered := NewFilter(cfg, supported, logger).Apply(candidates)
	res.Counts.Filtered = len(filtered.Coordinates)
	logger.Debug("filtered dependencies", "kept", len(filtered.Coordinates),
		"namespace", filtered.Dropped[StageNamespace], "scope", filtered.Dropped[StageScope],
		"exclude", filtered.Dropped[StageExclude], "include", filtered.Dropped[StageInclude])

	resolver := &Resolver{Registry: e.Registry, URL: cfg.RegistryURL, Concurrency: cfg.Concurrency, Logger: logger}
	resolution, err := resolver.Resolve(ctx, filtered.Coordinates)
	if err != nil {
		return nil, err
	}
	res.Warnings = append(res.Warnings, resolution.Warnings...)
	res.Counts.Resolved = len(resolution.Components)
	res.Counts.Unmapped = len(resolution.Warnings)

	kept, dropped := ExcludeComponents(resolution.Components, cfg.ExcludeComponents)
	for _, c := range slices.Compact(slices.SortedFunc(slices.Values(dropped), model.CompareComponents)) {
		logger.Info("excluding component", "component", c)
	}
	res.Counts.Excluded = len(dropped)

	observability.Export().OnScanComplete(ctx, res.Counts, time.Since(start))
	return kept, nil
}
