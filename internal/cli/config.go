package cli

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/depexport/pkg/config"
	"github.com/matzehuels/depexport/pkg/errors"
	"github.com/matzehuels/depexport/pkg/model"
)

// configFlags holds the flags that override configuration layers.
type configFlags struct {
	configFile string   // TOML config (default depexport.toml, optional)
	envFiles   []string // .env files loaded before reading DEPEXPORT_*

	scan              bool
	registryURL       string
	projects          string
	configurations    string
	scope             string
	includeAll        bool
	transitive        bool
	concurrency       int
	components        []string // id:version
	includeModules    []string // group[:module]
	excludeModules    []string // group[:module]
	excludeComponents []string // id[:version]
	output            string
	format            string
	teamcityParameter string
}

func (f *configFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVarP(&f.configFile, "config", "c", "", "config file (default "+config.DefaultFile+" if present)")
	fs.StringSliceVar(&f.envFiles, "env-file", nil, "load environment from .env files (default .env if present)")

	fs.BoolVar(&f.scan, "scan", false, "discover components from the build graph")
	fs.StringVar(&f.registryURL, "registry-url", "", "components registry base URL")
	fs.StringVar(&f.projects, "projects", config.DefaultProjects, "regular expression matched against project paths")
	fs.StringVar(&f.configurations, "configurations", config.DefaultConfigurations, "regular expression matched against configuration names")
	fs.StringVar(&f.scope, "scope", string(config.ScopeOwner), "how --projects is applied (owner, module)")
	fs.BoolVar(&f.includeAll, "include-all", true, "keep every supported dependency unless excluded")
	fs.BoolVar(&f.transitive, "transitive", false, "resolve configurations transitively")
	fs.IntVar(&f.concurrency, "concurrency", config.DefaultConcurrency, "parallel registry requests")
	fs.StringArrayVar(&f.components, "component", nil, "declare a component as id:version (repeatable)")
	fs.StringArrayVar(&f.includeModules, "include-module", nil, "include dependencies matching group[:module] (repeatable)")
	fs.StringArrayVar(&f.excludeModules, "exclude-module", nil, "exclude dependencies matching group[:module] (repeatable)")
	fs.StringArrayVar(&f.excludeComponents, "exclude-component", nil, "drop discovered components matching id[:version] (repeatable)")
	fs.StringVarP(&f.output, "output", "o", config.DefaultOutputFile, "JSON report path")
	fs.StringVarP(&f.format, "format", "f", config.FormatJSON, "output formats (comma-separated: json,teamcity)")
	fs.StringVar(&f.teamcityParameter, "teamcity-parameter", config.DefaultTeamCityParameter, "TeamCity parameter name")
}

// build layers defaults, the config file, the environment and explicitly
// set flags, in that order.
func (f *configFlags) build(cmd *cobra.Command) (config.ExportConfig, error) {
	logger := loggerFromContext(cmd.Context())

	if err := config.LoadDotEnv(f.envFiles...); err != nil {
		return config.ExportConfig{}, err
	}

	b := config.NewBuilder()
	path, optional := f.configFile, false
	if path == "" {
		path, optional = config.DefaultFile, true
	}
	if err := config.LoadFile(b, path, optional); err != nil {
		return config.ExportConfig{}, err
	}
	logger.Debug("loaded configuration", "file", path)

	if err := config.ApplyEnv(b, os.LookupEnv); err != nil {
		return config.ExportConfig{}, err
	}
	if err := f.apply(cmd, b); err != nil {
		return config.ExportConfig{}, err
	}
	return b.Build()
}

func (f *configFlags) apply(cmd *cobra.Command, b *config.Builder) error {
	changed := cmd.Flags().Changed

	if changed("scan") {
		b.SetScanEnabled(f.scan)
	}
	if changed("registry-url") {
		b.SetRegistryURL(f.registryURL)
	}
	if changed("projects") {
		if err := b.SetProjects(f.projects); err != nil {
			return err
		}
	}
	if changed("configurations") {
		if err := b.SetConfigurations(f.configurations); err != nil {
			return err
		}
	}
	if changed("scope") {
		if err := b.SetScope(f.scope); err != nil {
			return err
		}
	}
	if changed("include-all") {
		b.SetIncludeAllDependencies(f.includeAll)
	}
	if changed("transitive") {
		b.SetTransitive(f.transitive)
	}
	if changed("concurrency") {
		if err := b.SetConcurrency(f.concurrency); err != nil {
			return err
		}
	}
	for _, s := range f.components {
		c, err := model.ParseComponent(s)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "--component")
		}
		b.AddComponent(c.ID, c.Version)
	}
	for _, s := range f.includeModules {
		sel, err := parseModuleSelector(s)
		if err != nil {
			return err
		}
		b.IncludeModule(sel)
	}
	for _, s := range f.excludeModules {
		sel, err := parseModuleSelector(s)
		if err != nil {
			return err
		}
		b.ExcludeModule(sel)
	}
	for _, s := range f.excludeComponents {
		if err := b.ExcludeComponent(parseComponentSelector(s)); err != nil {
			return err
		}
	}
	if changed("output") {
		if err := b.SetOutputFile(f.output); err != nil {
			return err
		}
	}
	if changed("format") {
		if err := b.SetFormats(parseFormats(f.format)); err != nil {
			return err
		}
	}
	if changed("teamcity-parameter") {
		if err := b.SetTeamCityParameter(f.teamcityParameter); err != nil {
			return err
		}
	}
	return nil
}

// parseModuleSelector parses "group", "group:module" or ":module".
func parseModuleSelector(s string) (model.ModuleSelector, error) {
	group, module, _ := strings.Cut(strings.TrimSpace(s), ":")
	sel := model.ModuleSelector{}
	if group != "" {
		sel.Group = model.Some(group)
	}
	if module != "" {
		sel.Module = model.Some(module)
	}
	if !sel.Group.IsSome() && !sel.Module.IsSome() {
		return sel, errors.New(errors.ErrCodeInvalidConfig, "invalid module selector %q (want group[:module])", s)
	}
	return sel, nil
}

// parseComponentSelector parses "id" or "id:version".
func parseComponentSelector(s string) model.ComponentSelector {
	id, version, ok := strings.Cut(strings.TrimSpace(s), ":")
	sel := model.ComponentSelector{ID: id}
	if ok && version != "" {
		sel.Version = model.Some(version)
	}
	return sel
}
