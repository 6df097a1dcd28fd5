// Package pattern compiles the project and configuration selectors used by
// the scanner. Patterns are regular expressions that must match the whole
// value, not a substring of it.
package pattern

import (
	"regexp"

	"github.com/matzehuels/depexport/pkg/errors"
)

// Pattern is a compiled full-match regular expression.
type Pattern struct {
	expr string
	re   *regexp.Regexp
}

// Compile compiles expr with full-match semantics.
// An invalid expression yields an INVALID_PATTERN error naming it.
func Compile(expr string) (*Pattern, error) {
	re, err := regexp.Compile(`^(?:` + expr + `)$`)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPattern, err, "invalid pattern %q", expr)
	}
	return &Pattern{expr: expr, re: re}, nil
}

// MustCompile is like Compile but panics on error. Intended for defaults.
func MustCompile(expr string) *Pattern {
	p, err := Compile(expr)
	if err != nil {
		panic(err)
	}
	return p
}

// Matches reports whether the whole of s matches the pattern.
func (p *Pattern) Matches(s string) bool {
	return p.re.MatchString(s)
}

// String returns the source expression.
func (p *Pattern) String() string {
	return p.expr
}
