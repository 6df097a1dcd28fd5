package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/depexport/pkg/config"
)

// validateCommand builds the configuration without exporting anything.
func (c *CLI) validateCommand() *cobra.Command {
	flags := &configFlags{}

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check the configuration without exporting",
		Long: `Build the layered configuration (file, environment, flags) and report
the effective settings. Fails on invalid patterns, invalid component versions
or a missing registry URL when scanning is enabled.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.build(cmd)
			if err != nil {
				return err
			}
			c.printSuccess("Configuration is valid")
			c.printConfig(cfg)
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func (c *CLI) printConfig(cfg config.ExportConfig) {
	ids := make([]string, len(cfg.Components))
	for i, comp := range cfg.Components {
		ids[i] = comp.String()
	}
	c.printKeyValue("components", orNone(strings.Join(ids, ", ")))
	c.printKeyValue("formats", strings.Join(cfg.Formats, ","))
	if cfg.HasFormat(config.FormatJSON) {
		c.printKeyValue("output", cfg.OutputFile)
	}
	if cfg.HasFormat(config.FormatTeamCity) {
		c.printKeyValue("parameter", cfg.TeamCityParameter)
	}

	s := cfg.Scan
	c.printKeyValue("scan", fmt.Sprint(s.Enabled))
	if !s.Enabled {
		return
	}
	c.printKeyValue("registry", s.RegistryURL)
	c.printKeyValue("projects", s.Projects.String())
	c.printKeyValue("configurations", s.Configurations.String())
	c.printKeyValue("scope", string(s.Scope))
	c.printKeyValue("include all", fmt.Sprint(s.IncludeAllDependencies))
	c.printKeyValue("transitive", fmt.Sprint(s.Transitive))
	c.printKeyValue("concurrency", fmt.Sprint(s.Concurrency))
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}
