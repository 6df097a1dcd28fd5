package registry

import (
	"context"

	"github.com/matzehuels/depexport/pkg/model"
)

// Lookup is the registry API needed by an export.
type Lookup interface {
	// SupportedGroups returns the group prefixes the registry tracks.
	SupportedGroups(ctx context.Context) ([]string, error)
	// FindComponents maps coordinates to components, one result per artifact
	// the registry reports on.
	FindComponents(ctx context.Context, coords []model.Coordinate) ([]ArtifactComponent, error)
}

// ArtifactComponent pairs an artifact with the component that owns it.
// Component is nil when the registry knows no owner.
type ArtifactComponent struct {
	Artifact  model.Coordinate
	Component *model.Component
}

// Wire types of the REST API.
type (
	artifactDTO struct {
		Group   string `json:"group"`
		Name    string `json:"name"`
		Version string `json:"version"`
	}

	componentDTO struct {
		ID      string `json:"id"`
		Version string `json:"version"`
	}

	artifactComponentDTO struct {
		Artifact  artifactDTO   `json:"artifact"`
		Component *componentDTO `json:"component"`
	}

	findResponse struct {
		ArtifactComponents []artifactComponentDTO `json:"artifactComponents"`
	}
)

func toDTOs(coords []model.Coordinate) []artifactDTO {
	out := make([]artifactDTO, len(coords))
	for i, c := range coords {
		out[i] = artifactDTO{Group: c.Group, Name: c.Module, Version: c.Version}
	}
	return out
}

func (r findResponse) results() []ArtifactComponent {
	out := make([]ArtifactComponent, 0, len(r.ArtifactComponents))
	for _, ac := range r.ArtifactComponents {
		item := ArtifactComponent{
			Artifact: model.Coordinate{Group: ac.Artifact.Group, Module: ac.Artifact.Name, Version: ac.Artifact.Version},
		}
		if ac.Component != nil && ac.Component.ID != "" {
			item.Component = &model.Component{ID: ac.Component.ID, Version: ac.Component.Version}
		}
		out = append(out, item)
	}
	return out
}
