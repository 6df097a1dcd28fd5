// Package cli implements the depexport command-line interface.
//
// # Commands
//
//   - export: Extract the component list and write the configured outputs
//   - registry groups: List the group prefixes the components registry tracks
//   - validate: Build the layered configuration without exporting
//
// # Configuration
//
// Every command builds its configuration in layers: defaults, the TOML file
// (depexport.toml or --config), DEPEXPORT_* environment variables (optionally
// from a .env file) and finally flags that were set explicitly.
//
// # Logging
//
// Logs go to stderr. --verbose (-v) enables debug level. Service messages
// are the only thing export prints to stdout.
package cli

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/depexport/pkg/buildinfo"
	"github.com/matzehuels/depexport/pkg/config"
	"github.com/matzehuels/depexport/pkg/pipeline"
)

const appName = "depexport"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Stdout io.Writer // Service messages and command results
	Stderr io.Writer // Human-readable status lines
}

// New creates a new CLI instance logging to w.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Stdout: os.Stdout,
		Stderr: w,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Export the components a build depends on",
		Long:         `depexport collects the components a build depends on, from declared components and from the resolved build graph mapped through the components registry, and exports them for release management.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		},
	}
	root.SetVersionTemplate(buildinfo.Template())
	root.SetOut(c.Stdout)
	root.SetErr(c.Stderr)

	root.AddCommand(c.exportCommand())
	root.AddCommand(c.registryCommand())
	root.AddCommand(c.validateCommand())

	return root
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner() *pipeline.Runner {
	return pipeline.NewRunner(c.Logger)
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{config.FormatJSON}
	}
	return strings.Split(s, ",")
}
