package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/depexport/pkg/buildgraph"
	"github.com/matzehuels/depexport/pkg/config"
	pkgio "github.com/matzehuels/depexport/pkg/io"
	"github.com/matzehuels/depexport/pkg/observability"
	"github.com/matzehuels/depexport/pkg/registry"
	"github.com/matzehuels/depexport/pkg/scan"
	"github.com/matzehuels/depexport/pkg/sink"
)

// Runner executes export runs.
//
// The Runner holds no per-run state. Registry clients are created per run
// and closed when the run ends, so supported groups are never shared
// between runs.
type Runner struct {
	Logger *log.Logger
}

// NewRunner creates a runner. If logger is nil, log.Default() is used.
func NewRunner(logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Logger: logger}
}

// Execute runs extract → write. Sinks are only invoked after a successful
// extraction.
func (r *Runner) Execute(ctx context.Context, opts Options) (result *Result, err error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	logger := opts.Logger
	if logger == nil {
		logger = r.Logger
	}
	runID := uuid.NewString()
	logger = logger.With("run", runID)

	start := time.Now()
	hooks := observability.Export()
	hooks.OnExportStart(ctx, opts.Config.Scan.Enabled)
	defer func() {
		n := 0
		if result != nil {
			n = len(result.Components)
		}
		hooks.OnExportComplete(ctx, n, time.Since(start), err)
	}()

	extractor := &scan.Extractor{Config: opts.Config, Logger: logger}
	if opts.Config.Scan.Enabled {
		g, err := r.loadGraph(opts, logger)
		if err != nil {
			return nil, err
		}
		lookup, closeFn, err := r.registry(opts, logger)
		if err != nil {
			return nil, err
		}
		defer closeFn()
		extractor.Graph = g
		extractor.Registry = lookup
	}

	extractStart := time.Now()
	extracted, err := extractor.Extract(ctx)
	if err != nil {
		return nil, fmt.Errorf("extract: %w", err)
	}
	result = &Result{
		RunID:      runID,
		Components: extracted.Components,
		Warnings:   extracted.Warnings,
		Pairs:      extracted.Pairs,
	}
	result.Stats.Counts = extracted.Counts
	result.Stats.ExtractTime = time.Since(extractStart)
	result.Stats.ScanDisabled = !opts.Config.Scan.Enabled

	logger.Info("extracted components",
		"components", len(result.Components),
		"warnings", len(result.Warnings),
		"duration", result.Stats.ExtractTime)

	writeStart := time.Now()
	if err := r.write(opts, extracted, logger, result); err != nil {
		return nil, fmt.Errorf("write: %w", err)
	}
	result.Stats.WriteTime = time.Since(writeStart)
	result.Stats.TotalTime = time.Since(start)
	return result, nil
}

func (r *Runner) write(opts Options, extracted *scan.Result, logger *log.Logger, result *Result) error {
	sinks, err := sink.ForConfig(opts.Config, opts.Stdout)
	if err != nil {
		return err
	}
	for _, s := range sinks {
		if s.Name() == config.FormatTeamCity {
			logTeamCity(logger, opts.Config, extracted)
		}
		if err := s.Write(extracted.Components); err != nil {
			return fmt.Errorf("%s: %w", s.Name(), err)
		}
		result.Sinks = append(result.Sinks, s.Name())
	}
	if opts.Config.HasFormat(config.FormatJSON) {
		logger.Info("wrote report", "file", opts.Config.OutputFile)
	}
	return nil
}

func logTeamCity(logger *log.Logger, cfg config.ExportConfig, extracted *scan.Result) {
	if len(extracted.Components) == 0 {
		logger.Info("no dependencies to export, parameter will not be set", "parameter", cfg.TeamCityParameter)
		return
	}
	ids := make([]string, len(extracted.Components))
	for i, c := range extracted.Components {
		ids[i] = c.String()
	}
	logger.Info("resulting dependencies", "value", strings.Join(ids, ","))
	if !cfg.Scan.Enabled {
		return
	}
	group := ""
	if len(extracted.Groups) > 0 {
		group = extracted.Groups[0]
	}
	logger.Info(fmt.Sprintf("only %s.* dependencies from %s will be registered",
		group, strings.Join(extracted.Pairs, ", ")))
}

func (r *Runner) loadGraph(opts Options, logger *log.Logger) (buildgraph.Graph, error) {
	if opts.Graph != nil {
		return opts.Graph, nil
	}
	start := time.Now()
	g, err := pkgio.ImportSnapshot(opts.GraphPath)
	if err != nil {
		return nil, fmt.Errorf("load graph: %w", err)
	}
	logger.Info("loaded build graph",
		"file", opts.GraphPath,
		"projects", len(g.Projects()),
		"duration", time.Since(start))
	return g, nil
}

func (r *Runner) registry(opts Options, logger *log.Logger) (registry.Lookup, func(), error) {
	if opts.Registry != nil {
		return opts.Registry, func() {}, nil
	}
	ro := opts.RegistryOptions
	if ro.Logger == nil {
		ro.Logger = logger
	}
	client, err := registry.NewClient(opts.Config.Scan.RegistryURL, ro)
	if err != nil {
		return nil, nil, err
	}
	logger.Debug("created registry client", "url", client.URL())
	return client, func() { _ = client.Close() }, nil
}
