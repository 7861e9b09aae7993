// Package telemetry keeps Prometheus metrics for a CLI run and writes them
// in the node_exporter textfile format. Nothing listens on the network.
package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/textguard/textguard/internal/types"
)

type Metrics struct {
	reg *prometheus.Registry

	FilesScanned  prometheus.Counter
	FilesCached   prometheus.Counter
	FindingsTotal *prometheus.CounterVec
	ScanDuration  prometheus.Histogram
	DetectTotal   *prometheus.CounterVec
}

// New registers the metric set on a private registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Metrics{
		reg: reg,
		FilesScanned: f.NewCounter(prometheus.CounterOpts{
			Name: "textguard_files_scanned_total",
			Help: "Files read and passed to the detector.",
		}),
		FilesCached: f.NewCounter(prometheus.CounterOpts{
			Name: "textguard_files_cached_total",
			Help: "Files skipped because their content was unchanged and clean.",
		}),
		FindingsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "textguard_findings_total",
			Help: "Findings reported, by threat type and severity.",
		}, []string{"type", "severity"}),
		ScanDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "textguard_scan_duration_seconds",
			Help:    "Wall-clock duration of a scan.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
		DetectTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "textguard_detect_total",
			Help: "Single-text detections, by outcome.",
		}, []string{"outcome"}),
	}
}

func (m *Metrics) Registry() *prometheus.Registry { return m.reg }

// RecordScan adds the outcome of one scan.
func (m *Metrics) RecordScan(findings []types.Finding, scanned, cached int, d time.Duration) {
	m.FilesScanned.Add(float64(scanned))
	m.FilesCached.Add(float64(cached))
	for _, f := range findings {
		m.FindingsTotal.WithLabelValues(string(f.Type), string(f.Severity)).Inc()
	}
	m.ScanDuration.Observe(d.Seconds())
}

// RecordDetect counts one Detect call and its threats.
func (m *Metrics) RecordDetect(threats []types.ThreatInfo) {
	if len(threats) == 0 {
		m.DetectTotal.WithLabelValues("clean").Inc()
		return
	}
	m.DetectTotal.WithLabelValues("threats").Inc()
	for _, t := range threats {
		m.FindingsTotal.WithLabelValues(string(t.Type), string(t.Type.Severity())).Inc()
	}
}

// WriteFile writes the current values to path atomically.
func (m *Metrics) WriteFile(path string) error {
	return prometheus.WriteToTextfile(path, m.reg)
}
