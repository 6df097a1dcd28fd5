package sink

import (
	"github.com/matzehuels/depexport/pkg/io"
	"github.com/matzehuels/depexport/pkg/model"
)

// JSONFile writes the report file at Path.
type JSONFile struct {
	Path string
}

func (s *JSONFile) Name() string { return "json" }

func (s *JSONFile) Write(components []model.Component) error {
	return io.ExportComponents(components, s.Path)
}
