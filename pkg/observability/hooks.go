// Package observability provides hooks for metrics and tracing.
//
// Libraries emit events through the registered hooks; the CLI decides which
// backend receives them. Defaults are no-ops, so packages can call the hooks
// unconditionally.
//
// # Usage
//
// Register hooks at application startup:
//
//	m := observability.NewMetrics()
//	observability.SetExportHooks(m)
//	observability.SetHTTPHooks(m)
//	defer m.WriteTextfile("depexport.prom")
//
// Libraries call hooks to emit events:
//
//	observability.Export().OnExportStart(ctx, scanEnabled)
//	// ... extract ...
//	observability.Export().OnExportComplete(ctx, len(components), time.Since(start), err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Export Hooks
// =============================================================================

// ScanCounts summarises one scan pass.
type ScanCounts struct {
	Candidates  int // Coordinates produced by the graph walk (with duplicates)
	Filtered    int // Distinct coordinates that passed the filter pipeline
	Resolved    int // Components returned by the registry
	Unmapped    int // Coordinates the registry had no component for
	Excluded    int // Components dropped by component exclusions
	Unversioned int // Declared dependencies without a version
}

// ExportHooks receives events from the export pipeline.
type ExportHooks interface {
	OnExportStart(ctx context.Context, scanEnabled bool)
	OnScanComplete(ctx context.Context, counts ScanCounts, duration time.Duration)
	OnBatch(ctx context.Context, size int, duration time.Duration, err error)
	OnExportComplete(ctx context.Context, components int, duration time.Duration, err error)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from HTTP client operations.
type HTTPHooks interface {
	// OnRequest records an outgoing HTTP request.
	OnRequest(ctx context.Context, method, host, path string)

	// OnResponse records an HTTP response.
	OnResponse(ctx context.Context, method, host, path string, statusCode int, duration time.Duration)

	// OnError records an HTTP error (network failure, timeout).
	OnError(ctx context.Context, method, host, path string, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopExportHooks is a no-op implementation of ExportHooks.
type NoopExportHooks struct{}

func (NoopExportHooks) OnExportStart(context.Context, bool)                         {}
func (NoopExportHooks) OnScanComplete(context.Context, ScanCounts, time.Duration)   {}
func (NoopExportHooks) OnBatch(context.Context, int, time.Duration, error)          {}
func (NoopExportHooks) OnExportComplete(context.Context, int, time.Duration, error) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, string, error)                 {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	exportHooks ExportHooks = NoopExportHooks{}
	httpHooks   HTTPHooks   = NoopHTTPHooks{}
	hooksMu     sync.RWMutex
)

// SetExportHooks registers custom export hooks.
// This should be called once at application startup before any export runs.
func SetExportHooks(h ExportHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		exportHooks = h
	}
}

// SetHTTPHooks registers custom HTTP hooks.
// This should be called once at application startup before any HTTP operations.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Export returns the registered export hooks.
func Export() ExportHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return exportHooks
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	exportHooks = NoopExportHooks{}
	httpHooks = NoopHTTPHooks{}
}
