package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/hashicorp/go-multierror"

	"github.com/matzehuels/depexport/pkg/errors"
	"github.com/matzehuels/depexport/pkg/model"
	"github.com/matzehuels/depexport/pkg/pattern"
)

// Builder accumulates configuration layers. Setters validate their input
// immediately; Build checks the combination.
type Builder struct {
	cfg ExportConfig
}

// NewBuilder returns a Builder holding the defaults.
func NewBuilder() *Builder {
	return &Builder{cfg: ExportConfig{
		OutputFile:        DefaultOutputFile,
		Formats:           []string{FormatJSON},
		TeamCityParameter: DefaultTeamCityParameter,
		Scan: ScanConfig{
			Projects:               pattern.MustCompile(DefaultProjects),
			Configurations:         pattern.MustCompile(DefaultConfigurations),
			Scope:                  ScopeOwner,
			IncludeAllDependencies: true,
			Concurrency:            DefaultConcurrency,
		},
	}}
}

// AddComponent declares a component explicitly. Versions are validated by Build.
func (b *Builder) AddComponent(id, version string) {
	b.cfg.Components = append(b.cfg.Components, model.Component{ID: strings.TrimSpace(id), Version: strings.TrimSpace(version)})
}

// SetComponents replaces the declared components.
func (b *Builder) SetComponents(cs []model.Component) {
	b.cfg.Components = slices.Clone(cs)
}

func (b *Builder) SetScanEnabled(v bool) { b.cfg.Scan.Enabled = v }

func (b *Builder) SetRegistryURL(u string) { b.cfg.Scan.RegistryURL = strings.TrimSpace(u) }

// SetProjects compiles and sets the projects pattern.
func (b *Builder) SetProjects(expr string) error {
	p, err := pattern.Compile(expr)
	if err != nil {
		return err
	}
	b.cfg.Scan.Projects = p
	return nil
}

// SetConfigurations compiles and sets the configurations pattern.
func (b *Builder) SetConfigurations(expr string) error {
	p, err := pattern.Compile(expr)
	if err != nil {
		return err
	}
	b.cfg.Scan.Configurations = p
	return nil
}

// SetScope sets the scope policy ("owner" or "module").
func (b *Builder) SetScope(s string) error {
	switch p := ScopePolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case ScopeOwner, ScopeModule:
		b.cfg.Scan.Scope = p
		return nil
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "invalid scope policy %q (want %s or %s)", s, ScopeOwner, ScopeModule)
	}
}

func (b *Builder) SetIncludeAllDependencies(v bool) { b.cfg.Scan.IncludeAllDependencies = v }

func (b *Builder) SetTransitive(v bool) { b.cfg.Scan.Transitive = v }

// SetConcurrency sets the number of parallel registry batches (>= 1).
func (b *Builder) SetConcurrency(n int) error {
	if n < 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "concurrency must be at least 1, got %d", n)
	}
	b.cfg.Scan.Concurrency = n
	return nil
}

func (b *Builder) IncludeModule(s model.ModuleSelector) {
	b.cfg.Scan.Include = append(b.cfg.Scan.Include, s)
}

func (b *Builder) ExcludeModule(s model.ModuleSelector) {
	b.cfg.Scan.Exclude = append(b.cfg.Scan.Exclude, s)
}

// ExcludeComponent adds a component exclusion. The ID is required.
func (b *Builder) ExcludeComponent(s model.ComponentSelector) error {
	if strings.TrimSpace(s.ID) == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "component exclusion needs an id")
	}
	b.cfg.Scan.ExcludeComponents = append(b.cfg.Scan.ExcludeComponents, s)
	return nil
}

// SetOutputFile sets the JSON report path.
func (b *Builder) SetOutputFile(path string) error {
	if err := errors.ValidatePath(path); err != nil {
		return err
	}
	b.cfg.OutputFile = path
	return nil
}

// SetFormats sets the output formats. Entries are trimmed, lowercased and
// deduplicated; unknown formats are rejected.
func (b *Builder) SetFormats(formats []string) error {
	var out []string
	for _, f := range formats {
		f = strings.ToLower(strings.TrimSpace(f))
		if f == "" || slices.Contains(out, f) {
			continue
		}
		if !slices.Contains(ValidFormats, f) {
			return errors.New(errors.ErrCodeInvalidFormat, "invalid output format %q (valid: %s)", f, strings.Join(ValidFormats, ", "))
		}
		out = append(out, f)
	}
	if len(out) == 0 {
		return errors.New(errors.ErrCodeInvalidFormat, "no output format selected")
	}
	b.cfg.Formats = out
	return nil
}

// SetTeamCityParameter sets the TeamCity parameter name.
func (b *Builder) SetTeamCityParameter(name string) error {
	if strings.TrimSpace(name) == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "TeamCity parameter name cannot be empty")
	}
	b.cfg.TeamCityParameter = strings.TrimSpace(name)
	return nil
}

// Build validates the accumulated settings and returns the configuration.
//
// Build fails when:
//   - any declared component has an invalid version (all are reported)
//   - scanning is enabled without a usable registry URL
func (b *Builder) Build() (ExportConfig, error) {
	if err := ValidateComponents(b.cfg.Components); err != nil {
		return ExportConfig{}, err
	}
	if b.cfg.Scan.Enabled {
		if b.cfg.Scan.RegistryURL == "" {
			return ExportConfig{}, errors.New(errors.ErrCodeInvalidConfig, "'scan' is enabled, but 'registry_url' is not configured")
		}
		if err := errors.ValidateURL(b.cfg.Scan.RegistryURL); err != nil {
			return ExportConfig{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "scan registry_url")
		}
	}

	cfg := b.cfg
	cfg.Components = slices.Clone(cfg.Components)
	cfg.Formats = slices.Clone(cfg.Formats)
	cfg.Scan.Include = slices.Clone(cfg.Scan.Include)
	cfg.Scan.Exclude = slices.Clone(cfg.Scan.Exclude)
	cfg.Scan.ExcludeComponents = slices.Clone(cfg.Scan.ExcludeComponents)
	return cfg, nil
}

// ValidateComponents checks every component version and reports all
// offending id:version pairs in a single INVALID_VERSION error.
func ValidateComponents(cs []model.Component) error {
	var result *multierror.Error
	var invalid []string
	for _, c := range cs {
		if c.ID == "" {
			result = multierror.Append(result, fmt.Errorf("component with empty id (version %q)", c.Version))
			invalid = append(invalid, c.String())
			continue
		}
		if !model.ValidVersion(c.Version) {
			result = multierror.Append(result, fmt.Errorf("version format not valid: %s", c))
			invalid = append(invalid, c.String())
		}
	}
	if result == nil {
		return nil
	}
	result.ErrorFormat = listErrors
	return errors.Wrap(errors.ErrCodeInvalidVersion, result, "invalid component versions [%s]", strings.Join(invalid, ", "))
}

func listErrors(errs []error) string {
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "; ")
}
