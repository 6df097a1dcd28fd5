// Package config holds the settings of an export run.
//
// Settings are layered, lowest precedence first: built-in defaults, a TOML
// config file ([LoadFile]), environment variables ([ApplyEnv], optionally
// seeded from a .env file) and finally explicit CLI flags. Every layer writes
// through the validated setters of [Builder]; [Builder.Build] performs the
// cross-field checks and returns an immutable [ExportConfig].
package config

import (
	"slices"

	"github.com/matzehuels/depexport/pkg/model"
	"github.com/matzehuels/depexport/pkg/pattern"
)

// Defaults.
const (
	DefaultProjects          = ".+"
	DefaultConfigurations    = "runtime.+"
	DefaultOutputFile        = "build/export-dependencies-report.json"
	DefaultTeamCityParameter = "DEPENDENCIES"
	DefaultConcurrency       = 4
)

// Output formats.
const (
	FormatJSON     = "json"
	FormatTeamCity = "teamcity"
)

// ValidFormats lists the supported output formats.
var ValidFormats = []string{FormatJSON, FormatTeamCity}

// ScopePolicy decides what the projects pattern is matched against.
type ScopePolicy string

const (
	// ScopeOwner matches the path of the project that owns a configuration.
	// Only matching (project, configuration) pairs are resolved.
	ScopeOwner ScopePolicy = "owner"
	// ScopeModule resolves matching configurations of every project and
	// matches the pattern against each coordinate's module name.
	ScopeModule ScopePolicy = "module"
)

// ExportConfig is the validated configuration of one export run.
type ExportConfig struct {
	Components        []model.Component // Explicitly declared components
	Scan              ScanConfig
	OutputFile        string   // JSON report path
	Formats           []string // Subset of ValidFormats
	TeamCityParameter string   // Parameter name of the TeamCity service message
}

// ScanConfig controls discovery of components from the build graph.
type ScanConfig struct {
	Enabled                bool
	RegistryURL            string
	Projects               *pattern.Pattern
	Configurations         *pattern.Pattern
	Scope                  ScopePolicy
	IncludeAllDependencies bool
	Include                []model.ModuleSelector
	Exclude                []model.ModuleSelector
	ExcludeComponents      []model.ComponentSelector
	Transitive             bool // Resolve derived views transitively
	Concurrency            int  // Parallel registry batches
}

// HasFormat reports whether f is among the selected output formats.
func (c ExportConfig) HasFormat(f string) bool {
	return slices.Contains(c.Formats, f)
}
