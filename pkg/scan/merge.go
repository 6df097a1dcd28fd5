package scan

import (
	"slices"

	"github.com/matzehuels/depexport/pkg/config"
	"github.com/matzehuels/depexport/pkg/model"
)

// ValidateManual checks the versions of explicitly declared components.
// All invalid id:version pairs are reported in one INVALID_VERSION error.
func ValidateManual(manual []model.Component) error {
	return config.ValidateComponents(manual)
}

// Merge validates manual, unites it with scanned, removes duplicates and
// sorts by ID then version. Components sharing an ID with different versions
// are all kept.
func Merge(manual, scanned []model.Component) ([]model.Component, error) {
	if err := ValidateManual(manual); err != nil {
		return nil, err
	}
	out := make([]model.Component, 0, len(manual)+len(scanned))
	out = append(out, manual...)
	out = append(out, scanned...)
	slices.SortFunc(out, model.CompareComponents)
	return slices.Compact(out), nil
}

// ExcludeComponents drops components matching any selector and returns the
// kept and dropped components.
func ExcludeComponents(cs []model.Component, sel []model.ComponentSelector) (kept, dropped []model.Component) {
	if len(sel) == 0 {
		return cs, nil
	}
	for _, c := range cs {
		if model.AnyComponent(sel, c) {
			dropped = append(dropped, c)
			continue
		}
		kept = append(kept, c)
	}
	return kept, dropped
}
