// Package pipeline runs a complete dependency export.
//
// A run loads the build graph, extracts the component list with
// [scan.Extractor] and hands the result to the configured sinks. CLI
// commands and tests share the same [Runner] so behavior stays consistent
// across entry points.
//
// # Usage
//
//	runner := pipeline.NewRunner(logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Config:    cfg,
//	    GraphPath: "build/build-graph.json",
//	})
//	if err != nil {
//	    return err
//	}
//	fmt.Println(len(result.Components), "components exported")
//
// Nothing is written when a run fails.
package pipeline

import (
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/depexport/pkg/buildgraph"
	"github.com/matzehuels/depexport/pkg/config"
	"github.com/matzehuels/depexport/pkg/errors"
	"github.com/matzehuels/depexport/pkg/model"
	"github.com/matzehuels/depexport/pkg/observability"
	"github.com/matzehuels/depexport/pkg/registry"
	"github.com/matzehuels/depexport/pkg/scan"
)

// Options contains everything one export run needs.
type Options struct {
	Config config.ExportConfig

	// Graph is the build graph to scan. When nil and scanning is enabled the
	// snapshot at GraphPath is imported.
	Graph     buildgraph.Graph
	GraphPath string

	// Registry replaces the HTTP registry client built from
	// Config.Scan.RegistryURL.
	Registry registry.Lookup

	// RegistryOptions configures the HTTP registry client.
	RegistryOptions registry.Options

	Stdout io.Writer   // Destination of service messages (default: os.Stdout)
	Logger *log.Logger // Defaults to the runner's logger
}

// Result contains the outputs of an export run.
type Result struct {
	// RunID identifies the run in logs.
	RunID string

	// Components is the exported, sorted component list.
	Components []model.Component

	// Warnings are the non-fatal findings of the scan.
	Warnings []scan.Warning

	// Pairs are the project:configuration pairs that were resolved.
	Pairs []string

	// Sinks lists the outputs that were written, in order.
	Sinks []string

	Stats Stats
}

// Stats contains run statistics.
type Stats struct {
	Counts       observability.ScanCounts
	ExtractTime  time.Duration
	WriteTime    time.Duration
	TotalTime    time.Duration
	ScanDisabled bool
}

// ValidateAndSetDefaults checks required fields and applies defaults.
func (o *Options) ValidateAndSetDefaults() error {
	if len(o.Config.Formats) == 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "no output format selected")
	}
	if o.Config.Scan.Enabled && o.Graph == nil && o.GraphPath == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "scan is enabled but no build graph was provided")
	}
	if o.Stdout == nil {
		o.Stdout = os.Stdout
	}
	return nil
}
