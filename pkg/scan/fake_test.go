package scan

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/depexport/pkg/buildgraph"
	"github.com/matzehuels/depexport/pkg/config"
	"github.com/matzehuels/depexport/pkg/model"
	"github.com/matzehuels/depexport/pkg/pattern"
	"github.com/matzehuels/depexport/pkg/registry"
)

// fakeRegistry is an in-memory registry.Lookup.
type fakeRegistry struct {
	groups     []string
	components map[model.Coordinate]model.Component // absent = unmapped
	err        error                                // returned by FindComponents
	groupsErr  error
	delay      func(batch []model.Coordinate) time.Duration

	mu         sync.Mutex
	calls      [][]model.Coordinate
	groupCalls int
}

func (f *fakeRegistry) SupportedGroups(context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.groupCalls++
	if f.groupsErr != nil {
		return nil, f.groupsErr
	}
	return f.groups, nil
}

func (f *fakeRegistry) FindComponents(ctx context.Context, coords []model.Coordinate) ([]registry.ArtifactComponent, error) {
	f.mu.Lock()
	f.calls = append(f.calls, append([]model.Coordinate(nil), coords...))
	f.mu.Unlock()

	if f.delay != nil {
		select {
		case <-time.After(f.delay(coords)):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	out := make([]registry.ArtifactComponent, len(coords))
	for i, c := range coords {
		out[i] = registry.ArtifactComponent{Artifact: c}
		if comp, ok := f.components[c]; ok {
			out[i].Component = &comp
		}
	}
	return out, nil
}

func (f *fakeRegistry) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func testLogger() *log.Logger {
	return log.New(io.Discard)
}

func coord(group, name, version string) model.Coordinate {
	return model.Coordinate{Group: group, Module: name, Version: version}
}

func scanConfig(projects, configurations string) config.ScanConfig {
	return config.ScanConfig{
		Enabled:                true,
		RegistryURL:            "http://registry.test",
		Projects:               pattern.MustCompile(projects),
		Configurations:         pattern.MustCompile(configurations),
		Scope:                  config.ScopeOwner,
		IncludeAllDependencies: true,
		Concurrency:            1,
	}
}

// sampleGraph is a root project with two services and a shared library.
func sampleGraph() *buildgraph.Memory {
	g := buildgraph.NewMemory()

	g.AddProject(":").AddConfiguration("runtimeClasspath", nil, []buildgraph.ResolvedDependency{
		buildgraph.Module("org.octopusden.root", "root-lib", "1.0"),
	})

	a := g.AddProject(":service-a")
	a.AddConfiguration("runtimeClasspath",
		[]buildgraph.Dependency{
			{Group: "org.octopusden.octopus-cloud-commons", Name: "octopus-security-common", Version: "2.0.15"},
			{Group: "org.octopusden", Name: "platform-bom"},
		},
		[]buildgraph.ResolvedDependency{
			buildgraph.Module("org.octopusden.octopus-cloud-commons", "octopus-security-common", "2.0.15",
				buildgraph.Module("org.springframework", "spring-core", "6.1.0")),
			buildgraph.ProjectDependency(":lib",
				buildgraph.Module("org.octopusden.lib", "lib-util", "3.1")),
			buildgraph.Unresolved("org.octopusden:missing:1.0"),
		})
	a.AddConfiguration("testRuntimeClasspath", nil, []buildgraph.ResolvedDependency{
		buildgraph.Module("org.junit", "junit", "5.10"),
	})

	g.AddProject(":service-b").AddConfiguration("runtimeElements", nil, []buildgraph.ResolvedDependency{
		buildgraph.Module("org.octopusden.octopus-cloud-commons", "octopus-security-common", "2.0.15"),
	})

	g.AddProject(":lib").AddConfiguration("compileClasspath", nil, []buildgraph.ResolvedDependency{
		buildgraph.Module("org.octopusden.lib", "lib-util", "3.1"),
	})
	return g
}
