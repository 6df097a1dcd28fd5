package scan

import "fmt"

// WarningKind classifies non-fatal findings of an extraction.
type WarningKind string

const (
	// WarningUnmappedArtifact: the registry has no component for an artifact.
	WarningUnmappedArtifact WarningKind = "unmapped-artifact"
	// WarningUnversionedDependency: a declared dependency has no version.
	WarningUnversionedDependency WarningKind = "unversioned-dependency"
)

// Warning is a non-fatal finding. Warnings are logged as they occur and
// returned with the extraction result.
type Warning struct {
	Kind          WarningKind
	Project       string // owning project, if known
	Configuration string // owning configuration, if known
	Subject       string // the artifact or dependency concerned
}

func (w Warning) String() string {
	switch w.Kind {
	case WarningUnmappedArtifact:
		return fmt.Sprintf("no component found for artifact %s", w.Subject)
	case WarningUnversionedDependency:
		return fmt.Sprintf("dependency %s in %s:%s has no version", w.Subject, w.Project, w.Configuration)
	default:
		return fmt.Sprintf("%s: %s", w.Kind, w.Subject)
	}
}
