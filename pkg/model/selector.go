package model

// ModuleSelector selects coordinates by group and/or module name.
// Absent fields are wildcards; present fields must all match exactly.
type ModuleSelector struct {
	Group  Option[string]
	Module Option[string]
}

// Matches reports whether c satisfies every present field of s.
func (s ModuleSelector) Matches(c Coordinate) bool {
	return s.Group.Matches(c.Group) && s.Module.Matches(c.Module)
}

func (s ModuleSelector) String() string {
	return s.Group.String() + ":" + s.Module.String()
}

// ComponentSelector selects resolved components by ID and optional version.
type ComponentSelector struct {
	ID      string
	Version Option[string]
}

// Matches reports whether c has the selector's ID and, when set, its version.
func (s ComponentSelector) Matches(c Component) bool {
	return s.ID == c.ID && s.Version.Matches(c.Version)
}

func (s ComponentSelector) String() string {
	return s.ID + ":" + s.Version.String()
}

// AnyModule reports whether any selector in sel matches c.
func AnyModule(sel []ModuleSelector, c Coordinate) bool {
	for _, s := range sel {
		if s.Matches(c) {
			return true
		}
	}
	return false
}

// AnyComponent reports whether any selector in sel matches c.
func AnyComponent(sel []ComponentSelector, c Component) bool {
	for _, s := range sel {
		if s.Matches(c) {
			return true
		}
	}
	return false
}
