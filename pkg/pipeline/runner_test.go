package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/depexport/pkg/config"
	"github.com/matzehuels/depexport/pkg/errors"
	"github.com/matzehuels/depexport/pkg/httputil"
	"github.com/matzehuels/depexport/pkg/model"
	"github.com/matzehuels/depexport/pkg/observability"
	"github.com/matzehuels/depexport/pkg/registry"
)

const snapshot = `{
  "projects": [
    {
      "path": ":",
      "configurations": [
        {
          "name": "runtimeClasspath",
          "resolved": [
            {"group": "org.octopusden.octopus", "name": "client", "version": "1.0.0"},
            {"group": "org.octopusden.octopus", "name": "commons", "version": "2.1"},
            {"group": "org.springframework", "name": "spring-core", "version": "6.1.0"}
          ]
        },
        {
          "name": "testRuntimeClasspath",
          "resolved": [
            {"group": "org.octopusden.octopus", "name": "test-kit", "version": "9.9"}
          ]
        }
      ]
    }
  ]
}`

// registryServer answers like a components registry tracking org.octopusden.
func registryServer(t *testing.T, failFind bool) *httptest.Server {
	t.Helper()
	known := map[string]string{
		"client":   "octopus-client",
		"test-kit": "octopus-test-kit",
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/supported-groups"):
			json.NewEncoder(w).Encode([]string{"org.octopusden"})
		case strings.HasSuffix(r.URL.Path, "/find-by-artifacts"):
			if failFind {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			var artifacts []map[string]string
			if err := json.NewDecoder(r.Body).Decode(&artifacts); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			items := make([]map[string]any, 0, len(artifacts))
			for _, a := range artifacts {
				item := map[string]any{"artifact": a, "component": nil}
				if id, ok := known[a["name"]]; ok {
					item["component"] = map[string]string{"id": id, "version": a["version"]}
				}
				items = append(items, item)
			}
			json.NewEncoder(w).Encode(map[string]any{"artifactComponents": items})
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func writeSnapshot(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "build-graph.json")
	if err := os.WriteFile(path, []byte(snapshot), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func testOptions(t *testing.T, cfg config.ExportConfig, graphPath string) (Options, *bytes.Buffer) {
	t.Helper()
	var stdout bytes.Buffer
	return Options{
		Config:          cfg,
		GraphPath:       graphPath,
		RegistryOptions: registry.Options{Retry: &httputil.Policy{Attempts: 1, Delay: time.Millisecond}},
		Stdout:          &stdout,
		Logger:          log.New(io.Discard),
	}, &stdout
}

func buildConfig(t *testing.T, dir, registryURL string, formats ...string) config.ExportConfig {
	t.Helper()
	b := config.NewBuilder()
	b.AddComponent("manual", "3.0")
	b.SetScanEnabled(registryURL != "")
	b.SetRegistryURL(registryURL)
	if err := b.SetOutputFile(filepath.Join(dir, "build", "report.json")); err != nil {
		t.Fatal(err)
	}
	if err := b.SetFormats(formats); err != nil {
		t.Fatal(err)
	}
	cfg, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return cfg
}

func TestExecute_Scan(t *testing.T) {
	dir := t.TempDir()
	server := registryServer(t, false)
	cfg := buildConfig(t, dir, server.URL, config.FormatJSON, config.FormatTeamCity)
	opts, stdout := testOptions(t, cfg, writeSnapshot(t, dir))

	result, err := NewRunner(nil).Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	want := []model.Component{
		{ID: "manual", Version: "3.0"},
		{ID: "octopus-client", Version: "1.0.0"},
	}
	if len(result.Components) != len(want) {
		t.Fatalf("components = %v, want %v", result.Components, want)
	}
	for i := range want {
		if result.Components[i] != want[i] {
			t.Errorf("components[%d] = %v, want %v", i, result.Components[i], want[i])
		}
	}
	if result.RunID == "" {
		t.Error("missing run id")
	}
	if len(result.Pairs) != 1 || result.Pairs[0] != ":runtimeClasspath" {
		t.Errorf("pairs = %v", result.Pairs)
	}
	if len(result.Warnings) != 1 {
		t.Errorf("warnings = %v, want the unmapped commons artifact", result.Warnings)
	}
	if len(result.Sinks) != 2 {
		t.Errorf("sinks = %v", result.Sinks)
	}

	data, err := os.ReadFile(cfg.OutputFile)
	if err != nil {
		t.Fatalf("report not written: %v", err)
	}
	var report []model.Component
	if err := json.Unmarshal(data, &report); err != nil {
		t.Fatal(err)
	}
	if len(report) != 2 || report[1].ID != "octopus-client" {
		t.Errorf("report = %s", data)
	}

	line := "##teamcity[setParameter name='DEPENDENCIES' value='manual:3.0,octopus-client:1.0.0']\n"
	if stdout.String() != line {
		t.Errorf("stdout = %q, want %q", stdout.String(), line)
	}
}

func TestExecute_ScanDisabled(t *testing.T) {
	dir := t.TempDir()
	cfg := buildConfig(t, dir, "", config.FormatJSON)
	opts, stdout := testOptions(t, cfg, "")

	result, err := NewRunner(nil).Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(result.Components) != 1 || result.Components[0].ID != "manual" {
		t.Errorf("components = %v", result.Components)
	}
	if !result.Stats.ScanDisabled {
		t.Error("ScanDisabled should be set")
	}
	if stdout.Len() != 0 {
		t.Errorf("json only run printed %q", stdout.String())
	}
	if _, err := os.Stat(cfg.OutputFile); err != nil {
		t.Errorf("report not written: %v", err)
	}
}

func TestExecute_RegistryFailureWritesNothing(t *testing.T) {
	dir := t.TempDir()
	server := registryServer(t, true)
	cfg := buildConfig(t, dir, server.URL, config.FormatJSON, config.FormatTeamCity)
	opts, stdout := testOptions(t, cfg, writeSnapshot(t, dir))

	_, err := NewRunner(nil).Execute(context.Background(), opts)
	if err == nil {
		t.Fatal("expected registry error")
	}
	if !errors.Is(err, errors.ErrCodeRegistry) {
		t.Errorf("error code = %v, want %s", errors.GetCode(err), errors.ErrCodeRegistry)
	}
	if !strings.Contains(err.Error(), server.URL) {
		t.Errorf("error %q should name the registry", err)
	}
	if _, statErr := os.Stat(cfg.OutputFile); !os.IsNotExist(statErr) {
		t.Errorf("report written on failure: %v", statErr)
	}
	if stdout.Len() != 0 {
		t.Errorf("service message printed on failure: %q", stdout.String())
	}
}

func TestExecute_InvalidOptions(t *testing.T) {
	dir := t.TempDir()
	cfg := buildConfig(t, dir, "http://registry.test", config.FormatJSON)
	opts, _ := testOptions(t, cfg, "")

	_, err := NewRunner(nil).Execute(context.Background(), opts)
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("err = %v, want %s", err, errors.ErrCodeInvalidConfig)
	}
}

type recordingHooks struct {
	observability.NoopExportHooks

	mu         sync.Mutex
	started    bool
	components int
	err        error
}

func (h *recordingHooks) OnExportStart(context.Context, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.started = true
}

func (h *recordingHooks) OnExportComplete(_ context.Context, components int, _ time.Duration, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.components = components
	h.err = err
}

func TestExecute_Hooks(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetExportHooks(hooks)
	t.Cleanup(observability.Reset)

	dir := t.TempDir()
	cfg := buildConfig(t, dir, "", config.FormatJSON)
	opts, _ := testOptions(t, cfg, "")
	if _, err := NewRunner(nil).Execute(context.Background(), opts); err != nil {
		t.Fatal(err)
	}
	if !hooks.started || hooks.components != 1 || hooks.err != nil {
		t.Errorf("hooks = started:%v components:%d err:%v", hooks.started, hooks.components, hooks.err)
	}
}
