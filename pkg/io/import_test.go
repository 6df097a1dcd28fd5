package io

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/depexport/pkg/buildgraph"
	"github.com/matzehuels/depexport/pkg/errors"
)

const jsonSnapshot = `{
  "projects": [
    {
      "path": ":",
      "configurations": [
        {
          "name": "runtimeClasspath",
          "dependencies": [
            {"group": "org.octopusden", "name": "lib", "version": "1.0"},
            {"group": "org.octopusden", "name": "platform"}
          ],
          "resolved": [
            {"group": "org.octopusden", "name": "lib", "version": "1.0",
             "dependencies": [{"group": "org.octopusden", "name": "util", "version": "2.0"}]},
            {"project": ":core"},
            {"unresolved": true, "requested": "org.missing:x:1"}
          ]
        }
      ],
      "projects": [
        {"path": ":core", "configurations": [{"name": "compileClasspath"}]}
      ]
    }
  ]
}`

const tomlSnapshot = `
[[projects]]
path = ":"

  [[projects.configurations]]
  name = "runtimeClasspath"

    [[projects.configurations.dependencies]]
    group = "org.octopusden"
    name = "lib"
    version = "1.0"

    [[projects.configurations.resolved]]
    group = "org.octopusden"
    name = "lib"
    version = "1.0"

      [[projects.configurations.resolved.dependencies]]
      group = "org.octopusden"
      name = "util"
      version = "2.0"

[[projects]]
path = ":core"
`

func TestReadSnapshotJSON(t *testing.T) {
	g, err := ReadSnapshot(strings.NewReader(jsonSnapshot), FormatJSON)
	if err != nil {
		t.Fatalf("ReadSnapshot: %v", err)
	}

	projects := g.Projects()
	if len(projects) != 2 {
		t.Fatalf("projects = %d, want 2", len(projects))
	}
	if projects[0].Path() != ":" || projects[1].Path() != ":core" {
		t.Errorf("paths = %q, %q", projects[0].Path(), projects[1].Path())
	}

	cfg := projects[0].Configurations()[0]
	if cfg.Name() != "runtimeClasspath" {
		t.Errorf("configuration = %q", cfg.Name())
	}
	deps := cfg.Dependencies()
	if len(deps) != 2 || deps[1].Version != "" {
		t.Errorf("declared = %+v", deps)
	}

	res, err := cfg.Resolve(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(res) != 3 {
		t.Fatalf("resolved = %d, want 3", len(res))
	}
	if !res[0].IsModule() || res[0].Module.Module != "lib" || len(res[0].Dependencies) != 1 {
		t.Errorf("resolved[0] = %+v", res[0])
	}
	if res[1].Project != ":core" {
		t.Errorf("resolved[1] = %+v", res[1])
	}
	if !res[2].Unresolved || res[2].Requested != "org.missing:x:1" {
		t.Errorf("resolved[2] = %+v", res[2])
	}
}

func TestReadSnapshotTOML(t *testing.T) {
	g, err := ReadSnapshot(strings.NewReader(tomlSnapshot), FormatTOML)
	if err != nil {
		t.Fatalf("ReadSnapshot: %v", err)
	}
	projects := g.Projects()
	if len(projects) != 2 {
		t.Fatalf("projects = %d, want 2", len(projects))
	}
	res, err := projects[0].Configurations()[0].Resolve(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(res) != 1 || res[0].Module.Version != "1.0" || len(res[0].Dependencies) != 1 {
		t.Errorf("resolved = %+v", res)
	}
	if got := res[0].Dependencies[0].Module.Module; got != "util" {
		t.Errorf("child = %q, want util", got)
	}
}

func TestReadSnapshotInvalid(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		format Format
	}{
		{"malformed", `{"projects": [`, FormatJSON},
		{"unknown field", `{"projects": [], "extra": 1}`, FormatJSON},
		{"empty path", `{"projects": [{"path": ""}]}`, FormatJSON},
		{"duplicate path", `{"projects": [{"path": ":a"}, {"path": ":a"}]}`, FormatJSON},
		{"nested duplicate", `{"projects": [{"path": ":a", "projects": [{"path": ":a"}]}]}`, FormatJSON},
		{"duplicate configuration", `{"projects": [{"path": ":", "configurations": [{"name": "x"}, {"name": "x"}]}]}`, FormatJSON},
		{"unnamed configuration", `{"projects": [{"path": ":", "configurations": [{}]}]}`, FormatJSON},
		{"incomplete module", `{"projects": [{"path": ":", "configurations": [{"name": "x", "resolved": [{"group": "g"}]}]}]}`, FormatJSON},
		{"unknown toml key", "[[projects]]\npath = \":\"\ncolour = \"red\"\n", FormatTOML},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadSnapshot(strings.NewReader(tt.input), tt.format)
			if !errors.Is(err, errors.ErrCodeInvalidGraph) {
				t.Errorf("err = %v, want INVALID_GRAPH", err)
			}
		})
	}
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		path    string
		want    Format
		wantErr bool
	}{
		{"build-graph.json", FormatJSON, false},
		{"dir/Graph.JSON", FormatJSON, false},
		{"build-graph.toml", FormatTOML, false},
		{"build-graph.yaml", "", true},
		{"build-graph", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := DetectFormat(tt.path)
			if (err != nil) != tt.wantErr {
				t.Fatalf("DetectFormat(%q) error = %v", tt.path, err)
			}
			if got != tt.want {
				t.Errorf("DetectFormat(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestImportSnapshot(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "graph.json")
	if err := os.WriteFile(path, []byte(jsonSnapshot), 0o644); err != nil {
		t.Fatal(err)
	}

	g, err := ImportSnapshot(path)
	if err != nil {
		t.Fatalf("ImportSnapshot: %v", err)
	}
	var _ buildgraph.Graph = g
	if len(g.Projects()) != 2 {
		t.Errorf("projects = %d", len(g.Projects()))
	}

	if _, err := ImportSnapshot(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}
