package observability

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	e := NoopExportHooks{}
	e.OnExportStart(ctx, true)
	e.OnScanComplete(ctx, ScanCounts{Candidates: 10}, time.Second)
	e.OnBatch(ctx, 50, time.Second, nil)
	e.OnExportComplete(ctx, 3, time.Second, nil)

	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "POST", "registry", "/rest/api/2/components/find-by-artifacts")
	h.OnResponse(ctx, "POST", "registry", "/rest/api/2/components/find-by-artifacts", 200, time.Second)
	h.OnError(ctx, "POST", "registry", "/rest/api/2/components/find-by-artifacts", nil)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()

	if _, ok := Export().(NoopExportHooks); !ok {
		t.Error("Export() should return NoopExportHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	customExport := &testExportHooks{}
	SetExportHooks(customExport)
	if Export() != customExport {
		t.Error("SetExportHooks should set custom hooks")
	}

	customHTTP := &testHTTPHooks{}
	SetHTTPHooks(customHTTP)
	if HTTP() != customHTTP {
		t.Error("SetHTTPHooks should set custom hooks")
	}

	Reset()
	if _, ok := Export().(NoopExportHooks); !ok {
		t.Error("Reset() should restore NoopExportHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()
	defer Reset()

	custom := &testExportHooks{}
	SetExportHooks(custom)
	SetExportHooks(nil)

	if Export() != custom {
		t.Error("SetExportHooks(nil) should be ignored")
	}
}

func TestMetricsWriteTextfile(t *testing.T) {
	ctx := context.Background()
	m := NewMetrics()

	m.OnExportStart(ctx, true)
	m.OnBatch(ctx, 50, 20*time.Millisecond, nil)
	m.OnBatch(ctx, 3, 10*time.Millisecond, errors.New("boom"))
	m.OnScanComplete(ctx, ScanCounts{Candidates: 7, Filtered: 4, Resolved: 3, Unmapped: 1}, time.Second)
	m.OnResponse(ctx, "POST", "registry", "/find", 200, 15*time.Millisecond)
	m.OnError(ctx, "GET", "registry", "/groups", errors.New("refused"))
	m.OnExportComplete(ctx, 3, time.Second, nil)

	path := filepath.Join(t.TempDir(), "depexport.prom")
	if err := m.WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	out := string(data)

	for _, want := range []string{
		`depexport_exports_total{result="success"} 1`,
		`depexport_components 3`,
		`depexport_scan_items{stage="filtered"} 4`,
		`depexport_scan_items{stage="unmapped"} 1`,
		`depexport_registry_batches_total{result="error"} 1`,
		`depexport_registry_batches_total{result="success"} 1`,
		`depexport_http_requests_total{code="200",method="POST",path="/find"} 1`,
		`depexport_http_request_errors_total{method="GET",path="/groups"} 1`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("textfile missing %q\n%s", want, out)
		}
	}
}

func TestMetricsFailedExportKeepsComponents(t *testing.T) {
	m := NewMetrics()
	m.OnExportComplete(context.Background(), 5, time.Second, nil)
	m.OnExportComplete(context.Background(), 0, time.Second, errors.New("registry down"))

	path := filepath.Join(t.TempDir(), "m.prom")
	if err := m.WriteTextfile(path); err != nil {
		t.Fatal(err)
	}
	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), "depexport_components 5") {
		t.Errorf("failed export should not reset component gauge:\n%s", data)
	}
}

// Test implementations
type testExportHooks struct{ NoopExportHooks }
type testHTTPHooks struct{ NoopHTTPHooks }
