package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/matzehuels/depexport/pkg/errors"
)

// Environment variables read by ApplyEnv.
const (
	EnvScanEnabled            = "DEPEXPORT_SCAN_ENABLED"
	EnvRegistryURL            = "DEPEXPORT_REGISTRY_URL"
	EnvProjects               = "DEPEXPORT_PROJECTS"
	EnvConfigurations         = "DEPEXPORT_CONFIGURATIONS"
	EnvScopePolicy            = "DEPEXPORT_SCOPE_POLICY"
	EnvIncludeAllDependencies = "DEPEXPORT_INCLUDE_ALL_DEPENDENCIES"
	EnvOutputFile             = "DEPEXPORT_OUTPUT_FILE"
	EnvFormat                 = "DEPEXPORT_FORMAT"
	EnvTeamCityParameter      = "DEPEXPORT_TEAMCITY_PARAMETER"
)

// LoadDotEnv loads variables from the given .env files (default ".env")
// into the process environment. Variables already set are kept, and
// missing files are ignored.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); os.IsNotExist(err) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "load %s", f)
		}
	}
	return nil
}

// ApplyEnv applies DEPEXPORT_* variables found by lookup to b.
// Pass os.LookupEnv for the process environment.
func ApplyEnv(b *Builder, lookup func(string) (string, bool)) error {
	get := func(key string) (string, bool) {
		v, ok := lookup(key)
		if !ok || strings.TrimSpace(v) == "" {
			return "", false
		}
		return strings.TrimSpace(v), true
	}

	if v, ok := get(EnvScanEnabled); ok {
		enabled, err := parseBool(EnvScanEnabled, v)
		if err != nil {
			return err
		}
		b.SetScanEnabled(enabled)
	}
	if v, ok := get(EnvRegistryURL); ok {
		b.SetRegistryURL(v)
	}
	if v, ok := get(EnvProjects); ok {
		if err := b.SetProjects(v); err != nil {
			return err
		}
	}
	if v, ok := get(EnvConfigurations); ok {
		if err := b.SetConfigurations(v); err != nil {
			return err
		}
	}
	if v, ok := get(EnvScopePolicy); ok {
		if err := b.SetScope(v); err != nil {
			return err
		}
	}
	if v, ok := get(EnvIncludeAllDependencies); ok {
		all, err := parseBool(EnvIncludeAllDependencies, v)
		if err != nil {
			return err
		}
		b.SetIncludeAllDependencies(all)
	}
	if v, ok := get(EnvOutputFile); ok {
		if err := b.SetOutputFile(v); err != nil {
			return err
		}
	}
	if v, ok := get(EnvFormat); ok {
		if err := b.SetFormats(strings.Split(v, ",")); err != nil {
			return err
		}
	}
	if v, ok := get(EnvTeamCityParameter); ok {
		if err := b.SetTeamCityParameter(v); err != nil {
			return err
		}
	}
	return nil
}

func parseBool(key, v string) (bool, error) {
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, errors.New(errors.ErrCodeInvalidConfig, "%s: invalid boolean %q", key, v)
	}
	return b, nil
}
