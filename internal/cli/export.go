package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/depexport/pkg/config"
	"github.com/matzehuels/depexport/pkg/observability"
	"github.com/matzehuels/depexport/pkg/pipeline"
)

// exportOpts holds the command-line flags for the export command.
type exportOpts struct {
	configFlags
	graph       string // build graph snapshot (JSON or TOML)
	metricsFile string // Prometheus textfile written after the run
}

// exportCommand creates the export command.
func (c *CLI) exportCommand() *cobra.Command {
	opts := &exportOpts{}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the components the build depends on",
		Long: `Export the components the build depends on.

Declared components are always exported. With --scan, the resolved build graph
is walked and every supported dependency is mapped to its component through
the components registry.

Examples:
  depexport export --component app:1.0.0
  depexport export --graph build/build-graph.json --scan --registry-url https://registry.example.com
  depexport export --graph build/build-graph.json --format json,teamcity`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runExport(cmd, opts)
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVarP(&opts.graph, "graph", "g", "", "build graph snapshot (.json or .toml)")
	cmd.Flags().StringVar(&opts.metricsFile, "metrics-file", "", "write Prometheus metrics to this textfile")

	return cmd
}

func (c *CLI) runExport(cmd *cobra.Command, opts *exportOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	cfg, err := opts.build(cmd)
	if err != nil {
		return err
	}

	var metrics *observability.Metrics
	if opts.metricsFile != "" {
		metrics = observability.NewMetrics()
		observability.SetExportHooks(metrics)
		observability.SetHTTPHooks(metrics)
		defer observability.Reset()
	}

	prog := newProgress(logger)
	result, runErr := c.newRunner().Execute(ctx, pipeline.Options{
		Config:    cfg,
		GraphPath: opts.graph,
		Stdout:    c.Stdout,
		Logger:    logger,
	})

	// Metrics describe failed runs too.
	if metrics != nil {
		if err := metrics.WriteTextfile(opts.metricsFile); err != nil {
			logger.Warn("failed to write metrics", "file", opts.metricsFile, "err", err)
		} else {
			logger.Debug("wrote metrics", "file", opts.metricsFile)
		}
	}
	if runErr != nil {
		return runErr
	}

	prog.done(fmt.Sprintf("Exported %d components", len(result.Components)))
	c.printExportSummary(cfg, result)
	return nil
}

func (c *CLI) printExportSummary(cfg config.ExportConfig, result *pipeline.Result) {
	c.printSuccess("Exported %s components", StyleHighlight.Render(fmt.Sprint(len(result.Components))))
	if cfg.Scan.Enabled {
		counts := result.Stats.Counts
		c.printDetail("%d candidates · %d filtered · %d resolved · %d unmapped · %d excluded",
			counts.Candidates, counts.Filtered, counts.Resolved, counts.Unmapped, counts.Excluded)
	}
	if n := len(result.Warnings); n > 0 {
		c.printWarning("%d warnings", n)
		for _, w := range result.Warnings {
			c.printDetail("%s", w)
		}
	}
	if cfg.HasFormat(config.FormatJSON) {
		c.printFile(cfg.OutputFile)
	}
}
