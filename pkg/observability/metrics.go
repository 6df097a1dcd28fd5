package observability

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "depexport"

// Metrics implements [ExportHooks] and [HTTPHooks] on a private Prometheus
// registry. A CLI run is too short-lived to be scraped, so the collected
// values are written out with [Metrics.WriteTextfile] for the node exporter
// textfile collector.
type Metrics struct {
	registry *prometheus.Registry

	exports         *prometheus.CounterVec
	exportDuration  prometheus.Histogram
	components      prometheus.Gauge
	scanItems       *prometheus.GaugeVec
	batches         *prometheus.CounterVec
	batchDuration   prometheus.Histogram
	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestErrors   *prometheus.CounterVec
}

// NewMetrics creates a Metrics with all collectors registered.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		exports: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "exports_total",
				Help:      "Export runs by outcome and whether scanning was enabled.",
			},
			[]string{"result"},
		),
		exportDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "export_duration_seconds",
				Help:      "Wall time of an export run.",
				Buckets:   prometheus.DefBuckets,
			},
		),
		components: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "components",
				Help:      "Components in the last exported list.",
			},
		),
		scanItems: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "scan_items",
				Help:      "Item counts of the last scan by stage.",
			},
			[]string{"stage"},
		),
		batches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "registry_batches_total",
				Help:      "Registry lookup batches by outcome.",
			},
			[]string{"result"},
		),
		batchDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "registry_batch_duration_seconds",
				Help:      "Duration of one registry lookup batch.",
				Buckets:   prometheus.DefBuckets,
			},
		),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "HTTP responses by method, path and status code.",
			},
			[]string{"method", "path", "code"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		requestErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_request_errors_total",
				Help:      "HTTP requests that failed without a response.",
			},
			[]string{"method", "path"},
		),
	}
	m.registry.MustRegister(
		m.exports,
		m.exportDuration,
		m.components,
		m.scanItems,
		m.batches,
		m.batchDuration,
		m.requests,
		m.requestDuration,
		m.requestErrors,
	)
	return m
}

// Registry exposes the underlying registry, e.g. for tests or a push gateway.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// WriteTextfile writes all collected metrics atomically to path in the
// Prometheus text exposition format.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}

func (m *Metrics) OnExportStart(context.Context, bool) {}

func (m *Metrics) OnScanComplete(_ context.Context, c ScanCounts, _ time.Duration) {
	m.scanItems.WithLabelValues("candidates").Set(float64(c.Candidates))
	m.scanItems.WithLabelValues("filtered").Set(float64(c.Filtered))
	m.scanItems.WithLabelValues("resolved").Set(float64(c.Resolved))
	m.scanItems.WithLabelValues("unmapped").Set(float64(c.Unmapped))
	m.scanItems.WithLabelValues("excluded").Set(float64(c.Excluded))
	m.scanItems.WithLabelValues("unversioned").Set(float64(c.Unversioned))
}

func (m *Metrics) OnBatch(_ context.Context, _ int, d time.Duration, err error) {
	m.batches.WithLabelValues(result(err)).Inc()
	m.batchDuration.Observe(d.Seconds())
}

func (m *Metrics) OnExportComplete(_ context.Context, components int, d time.Duration, err error) {
	m.exports.WithLabelValues(result(err)).Inc()
	m.exportDuration.Observe(d.Seconds())
	if err == nil {
		m.components.Set(float64(components))
	}
}

func (m *Metrics) OnRequest(context.Context, string, string, string) {}

func (m *Metrics) OnResponse(_ context.Context, method, _, path string, code int, d time.Duration) {
	m.requests.WithLabelValues(method, path, strconv.Itoa(code)).Inc()
	m.requestDuration.WithLabelValues(method, path).Observe(d.Seconds())
}

func (m *Metrics) OnError(_ context.Context, method, _, path string, _ error) {
	m.requestErrors.WithLabelValues(method, path).Inc()
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
