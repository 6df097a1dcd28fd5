package model

import (
	"slices"
	"testing"
)

func TestValidVersion(t *testing.T) {
	tests := []struct {
		version string
		want    bool
	}{
		{"1", true},
		{"1.0.0", true},
		{"1.0_2", true},
		{"2-10.3", true},
		{"1.1.0.6-0024", true},

		{"", false},
		{"1.0.0-SNAPSHOT", false},
		{"v1.0", false},
		{"1..0", false},
		{"1.0.", false},
		{".1", false},
		{"1.x", false},
	}

	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			if got := ValidVersion(tt.version); got != tt.want {
				t.Errorf("ValidVersion(%q) = %v, want %v", tt.version, got, tt.want)
			}
		})
	}
}

func TestParseComponent(t *testing.T) {
	tests := []struct {
		in      string
		want    Component
		wantErr bool
	}{
		{in: "component_a:1.0.0", want: Component{ID: "component_a", Version: "1.0.0"}},
		{in: " a : 2 ", want: Component{ID: "a", Version: "2"}},
		{in: "a", wantErr: true},
		{in: ":1.0", wantErr: true},
		{in: "a:", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseComponent(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseComponent(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseComponent(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestSortCoordinates(t *testing.T) {
	in := []Coordinate{
		{"org.b", "x", "1"},
		{"org.a", "y", "2"},
		{"org.a", "y", "1"},
		{"org.b", "x", "1"},
	}
	got := SortCoordinates(in)
	want := []Coordinate{
		{"org.a", "y", "1"},
		{"org.a", "y", "2"},
		{"org.b", "x", "1"},
	}
	if !slices.Equal(got, want) {
		t.Errorf("SortCoordinates() = %v, want %v", got, want)
	}
}

func TestCompareComponents(t *testing.T) {
	cs := []Component{{"b", "1"}, {"a", "2"}, {"a", "10"}, {"a", "1"}}
	slices.SortFunc(cs, CompareComponents)
	want := []Component{{"a", "1"}, {"a", "10"}, {"a", "2"}, {"b", "1"}}
	if !slices.Equal(cs, want) {
		t.Errorf("sorted = %v, want %v", cs, want)
	}
}

func TestOption(t *testing.T) {
	none := None[string]()
	if none.IsSome() {
		t.Error("None().IsSome() = true")
	}
	if !none.Matches("anything") {
		t.Error("None should match any value")
	}
	if none.String() != "*" {
		t.Errorf("None().String() = %q, want *", none.String())
	}

	some := Some("org.octopusden")
	if v, ok := some.Get(); !ok || v != "org.octopusden" {
		t.Errorf("Get() = %q, %v", v, ok)
	}
	if !some.Matches("org.octopusden") || some.Matches("org.other") {
		t.Error("Some should match only its own value")
	}

	var zero Option[string]
	if zero.IsSome() {
		t.Error("zero Option should be None")
	}

	s := "x"
	if !FromPtr(&s).IsSome() || FromPtr[string](nil).IsSome() {
		t.Error("FromPtr mismatch")
	}
}

func TestModuleSelector(t *testing.T) {
	c := Coordinate{Group: "org.octopusden", Module: "lib", Version: "1.0"}
	tests := []struct {
		name string
		sel  ModuleSelector
		want bool
	}{
		{"wildcard", ModuleSelector{}, true},
		{"group only", ModuleSelector{Group: Some("org.octopusden")}, true},
		{"module only", ModuleSelector{Module: Some("lib")}, true},
		{"both", ModuleSelector{Group: Some("org.octopusden"), Module: Some("lib")}, true},
		{"group mismatch", ModuleSelector{Group: Some("org.other"), Module: Some("lib")}, false},
		{"module mismatch", ModuleSelector{Group: Some("org.octopusden"), Module: Some("other")}, false},
		{"prefix is not a match", ModuleSelector{Group: Some("org")}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.sel.Matches(c); got != tt.want {
				t.Errorf("Matches() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestComponentSelector(t *testing.T) {
	c := Component{ID: "component_a", Version: "1.0.0"}
	tests := []struct {
		name string
		sel  ComponentSelector
		want bool
	}{
		{"id only", ComponentSelector{ID: "component_a"}, true},
		{"id and version", ComponentSelector{ID: "component_a", Version: Some("1.0.0")}, true},
		{"version mismatch", ComponentSelector{ID: "component_a", Version: Some("2.0.0")}, false},
		{"id mismatch", ComponentSelector{ID: "component_b"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.sel.Matches(c); got != tt.want {
				t.Errorf("Matches() = %v, want %v", got, tt.want)
			}
		})
	}

	if !AnyComponent([]ComponentSelector{{ID: "x"}, {ID: "component_a"}}, c) {
		t.Error("AnyComponent() = false, want true")
	}
	if AnyComponent(nil, c) {
		t.Error("AnyComponent(nil) = true, want false")
	}
}
