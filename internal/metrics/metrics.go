// Package metrics records conversion outcomes as Prometheus metrics that
// can be written to a node_exporter textfile.
package metrics

import (
	"fmt"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/ctrf-io/newman-reporter-ctrf-json/internal/ctrf"
)

const (
	MetricsNamespace = "ctrf"
)

// Recorder counts tests and report writes. It is safe for concurrent use
// by several reporters.
type Recorder struct {
	registry *prometheus.Registry

	testsTotal      *prometheus.CounterVec
	reportsWritten  prometheus.Counter
	reportFailures  *prometheus.CounterVec
	runDuration     *prometheus.GaugeVec
	lastReportStamp prometheus.Gauge
}

// NewRecorder creates a recorder with its own registry
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		testsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: MetricsNamespace,
			Name:      "tests_total",
			Help:      "Number of tests written to CTRF reports",
		}, []string{
			"status",
		}),
		reportsWritten: factory.NewCounter(prometheus.CounterOpts{
			Namespace: MetricsNamespace,
			Name:      "reports_written_total",
			Help:      "Number of CTRF reports written",
		}),
		reportFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: MetricsNamespace,
			Name:      "report_failures_total",
			Help:      "Number of CTRF reports that could not be produced",
		}, []string{
			"stage",
		}),
		runDuration: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: MetricsNamespace,
			Name:      "run_duration_milliseconds",
			Help:      "Time between run start and stop of the last report per file",
		}, []string{
			"report",
		}),
		lastReportStamp: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: MetricsNamespace,
			Name:      "last_report_timestamp_seconds",
			Help:      "Unix time the last report was written",
		}),
	}
}

// Registry exposes the underlying registry
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// ReportWritten counts the tests of a written report
func (r *Recorder) ReportWritten(path string, report *ctrf.Report) {
	s := report.Results.Summary

	r.testsTotal.WithLabelValues(string(ctrf.StatusPassed)).Add(float64(s.Passed))
	r.testsTotal.WithLabelValues(string(ctrf.StatusFailed)).Add(float64(s.Failed))
	r.testsTotal.WithLabelValues(string(ctrf.StatusSkipped)).Add(float64(s.Skipped))
	r.testsTotal.WithLabelValues(string(ctrf.StatusPending)).Add(float64(s.Pending))
	r.testsTotal.WithLabelValues(string(ctrf.StatusOther)).Add(float64(s.Other))

	r.reportsWritten.Inc()
	r.runDuration.WithLabelValues(filepath.Base(path)).Set(float64(s.Stop - s.Start))
	r.lastReportStamp.Set(float64(s.Stop) / 1000)
}

// ReportFailed counts a report that could not be written
func (r *Recorder) ReportFailed(_ string, _ error) {
	r.reportFailures.WithLabelValues("write").Inc()
}

// InputFailed counts an input that could not be loaded
func (r *Recorder) InputFailed() {
	r.reportFailures.WithLabelValues("load").Inc()
}

// WriteTextfile writes all metrics in the text exposition format
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}
