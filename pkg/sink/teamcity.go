package sink

import (
	"fmt"
	"io"
	"strings"

	"github.com/matzehuels/depexport/pkg/model"
)

var teamCityEscaper = strings.NewReplacer(
	"|", "||",
	"'", "|'",
	"[", "|[",
	"]", "|]",
	"\n", "|n",
	"\r", "|r",
)

// EscapeTeamCity escapes s for use inside a TeamCity service message value.
func EscapeTeamCity(s string) string {
	return teamCityEscaper.Replace(s)
}

// TeamCityMessage formats the setParameter service message for components.
// It returns false for an empty list.
func TeamCityMessage(parameter string, components []model.Component) (string, bool) {
	if len(components) == 0 {
		return "", false
	}
	ids := make([]string, len(components))
	for i, c := range components {
		ids[i] = c.String()
	}
	return fmt.Sprintf("##teamcity[setParameter name='%s' value='%s']",
		EscapeTeamCity(parameter), EscapeTeamCity(strings.Join(ids, ","))), true
}

// TeamCity prints the service message to W.
type TeamCity struct {
	Parameter string
	W         io.Writer
}

func (s *TeamCity) Name() string { return "teamcity" }

func (s *TeamCity) Write(components []model.Component) error {
	msg, ok := TeamCityMessage(s.Parameter, components)
	if !ok {
		return nil
	}
	_, err := fmt.Fprintln(s.W, msg)
	return err
}
