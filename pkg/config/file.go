package config

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/depexport/pkg/errors"
	"github.com/matzehuels/depexport/pkg/model"
)

// DefaultFile is the config file looked up in the working directory.
const DefaultFile = "depexport.toml"

// File is the TOML representation of a config file. Pointer fields
// distinguish "absent" from zero values so a file only overrides what it sets.
//
//	output_file = "build/export-dependencies-report.json"
//	format = ["json", "teamcity"]
//
//	[[components]]
//	name = "component_a"
//	version = "1.0.0"
//
//	[scan]
//	enabled = true
//	registry_url = "http://registry:4567"
//	configurations = "runtime.+"
//
//	[[scan.exclude_modules]]
//	group = "org.octopusden"
//	name = "test-utils"
type File struct {
	OutputFile        *string         `toml:"output_file"`
	Format            []string        `toml:"format"`
	TeamCityParameter *string         `toml:"teamcity_parameter"`
	Components        []FileComponent `toml:"components"`
	Scan              *FileScan       `toml:"scan"`
}

// FileComponent is a [[components]] or [[scan.exclude_components]] entry.
type FileComponent struct {
	Name    string  `toml:"name"`
	Version *string `toml:"version"`
}

// FileModule is a module selector entry.
type FileModule struct {
	Group *string `toml:"group"`
	Name  *string `toml:"name"`
}

// FileScan is the [scan] table.
type FileScan struct {
	Enabled                *bool           `toml:"enabled"`
	RegistryURL            *string         `toml:"registry_url"`
	Projects               *string         `toml:"projects"`
	Configurations         *string         `toml:"configurations"`
	Scope                  *string         `toml:"scope"`
	IncludeAllDependencies *bool           `toml:"include_all_dependencies"`
	Transitive             *bool           `toml:"transitive"`
	Concurrency            *int            `toml:"concurrency"`
	IncludeModules         []FileModule    `toml:"include_modules"`
	ExcludeModules         []FileModule    `toml:"exclude_modules"`
	ExcludeComponents      []FileComponent `toml:"exclude_components"`
}

// ReadFile decodes a TOML config from r. Unknown keys are rejected.
func ReadFile(r io.Reader) (*File, error) {
	var f File
	md, err := toml.NewDecoder(r).Decode(&f)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode config")
	}
	if keys := md.Undecoded(); len(keys) > 0 {
		names := make([]string, len(keys))
		for i, k := range keys {
			names[i] = k.String()
		}
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown config keys: %s", strings.Join(names, ", "))
	}
	return &f, nil
}

// LoadFile reads the TOML config at path and applies it to b.
// When optional is set a missing file is not an error.
func LoadFile(b *Builder, path string, optional bool) error {
	fh, err := os.Open(path)
	if err != nil {
		if optional && os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("open config %s: %w", path, err)
	}
	defer fh.Close()

	f, err := ReadFile(fh)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if err := f.Apply(b); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// Apply writes every field present in f to b.
func (f *File) Apply(b *Builder) error {
	if f.OutputFile != nil {
		if err := b.SetOutputFile(*f.OutputFile); err != nil {
			return err
		}
	}
	if f.Format != nil {
		if err := b.SetFormats(f.Format); err != nil {
			return err
		}
	}
	if f.TeamCityParameter != nil {
		if err := b.SetTeamCityParameter(*f.TeamCityParameter); err != nil {
			return err
		}
	}
	for _, c := range f.Components {
		v := ""
		if c.Version != nil {
			v = *c.Version
		}
		b.AddComponent(c.Name, v)
	}
	if f.Scan != nil {
		return f.Scan.apply(b)
	}
	return nil
}

func (s *FileScan) apply(b *Builder) error {
	if s.Enabled != nil {
		b.SetScanEnabled(*s.Enabled)
	}
	if s.RegistryURL != nil {
		b.SetRegistryURL(*s.RegistryURL)
	}
	if s.Projects != nil {
		if err := b.SetProjects(*s.Projects); err != nil {
			return err
		}
	}
	if s.Configurations != nil {
		if err := b.SetConfigurations(*s.Configurations); err != nil {
			return err
		}
	}
	if s.Scope != nil {
		if err := b.SetScope(*s.Scope); err != nil {
			return err
		}
	}
	if s.IncludeAllDependencies != nil {
		b.SetIncludeAllDependencies(*s.IncludeAllDependencies)
	}
	if s.Transitive != nil {
		b.SetTransitive(*s.Transitive)
	}
	if s.Concurrency != nil {
		if err := b.SetConcurrency(*s.Concurrency); err != nil {
			return err
		}
	}
	for _, m := range s.IncludeModules {
		b.IncludeModule(m.selector())
	}
	for _, m := range s.ExcludeModules {
		b.ExcludeModule(m.selector())
	}
	for _, c := range s.ExcludeComponents {
		if err := b.ExcludeComponent(model.ComponentSelector{ID: c.Name, Version: model.FromPtr(c.Version)}); err != nil {
			return err
		}
	}
	return nil
}

func (m FileModule) selector() model.ModuleSelector {
	return model.ModuleSelector{Group: model.FromPtr(m.Group), Module: model.FromPtr(m.Name)}
}
