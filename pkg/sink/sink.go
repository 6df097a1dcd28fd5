package sink

import (
	"fmt"
	"io"

	"github.com/matzehuels/depexport/pkg/config"
	"github.com/matzehuels/depexport/pkg/model"
)

// Sink is an output destination for the component list.
type Sink interface {
	// Name identifies the sink in logs ("json", "teamcity").
	Name() string
	// Write emits components. It is called once per export.
	Write(components []model.Component) error
}

// ForConfig returns the sinks selected by cfg.Formats, in order.
// Service messages go to stdout.
func ForConfig(cfg config.ExportConfig, stdout io.Writer) ([]Sink, error) {
	sinks := make([]Sink, 0, len(cfg.Formats))
	for _, f := range cfg.Formats {
		switch f {
		case config.FormatJSON:
			sinks = append(sinks, &JSONFile{Path: cfg.OutputFile})
		case config.FormatTeamCity:
			sinks = append(sinks, &TeamCity{Parameter: cfg.TeamCityParameter, W: stdout})
		default:
			return nil, fmt.Errorf("unknown output format %q", f)
		}
	}
	return sinks, nil
}
