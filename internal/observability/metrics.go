package observability

import (
	"fmt"

	"github.com/danmuck/bindgap/internal/audit"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds per-target audit gauges in a private registry.
type Metrics struct {
	registry     *prometheus.Registry
	declarations *prometheus.GaugeVec
	gaps         *prometheus.GaugeVec
	excluded     *prometheus.GaugeVec
	coverage     *prometheus.GaugeVec
	failures     *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		declarations: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "bindgap",
				Subsystem: "audit",
				Name:      "declarations",
				Help:      "Exported declarations found in the target header.",
			},
			[]string{"target"},
		),
		gaps: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "bindgap",
				Subsystem: "audit",
				Name:      "gaps",
				Help:      "Declarations with no binding and no exclusion.",
			},
			[]string{"target"},
		),
		excluded: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "bindgap",
				Subsystem: "audit",
				Name:      "excluded",
				Help:      "Declarations skipped through the exclusion list.",
			},
			[]string{"target"},
		),
		coverage: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "bindgap",
				Subsystem: "audit",
				Name:      "coverage_ratio",
				Help:      "Share of declarations that are bound or excluded.",
			},
			[]string{"target"},
		),
		failures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "bindgap",
				Subsystem: "audit",
				Name:      "failures_total",
				Help:      "Target passes that ended in an error.",
			},
			[]string{"target"},
		),
	}
	m.registry.MustRegister(m.declarations, m.gaps, m.excluded, m.coverage, m.failures)
	return m
}

// Record stores the result of one target pass.
func (m *Metrics) Record(o audit.Outcome) {
	if o.Err != nil {
		m.failures.WithLabelValues(o.Target).Inc()
		return
	}
	r := o.Report
	m.declarations.WithLabelValues(o.Target).Set(float64(r.Declared))
	m.gaps.WithLabelValues(o.Target).Set(float64(len(r.Gaps)))
	m.excluded.WithLabelValues(o.Target).Set(float64(r.Excluded))
	m.coverage.WithLabelValues(o.Target).Set(r.Coverage())
}

// RecordAll stores every outcome.
func (m *Metrics) RecordAll(outcomes []audit.Outcome) {
	for _, o := range outcomes {
		m.Record(o)
	}
}

// Gatherer exposes the private registry.
func (m *Metrics) Gatherer() prometheus.Gatherer {
	return m.registry
}

// WriteTextfile writes the metrics in the text exposition format for a
// node_exporter textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("metrics write failed (%s): %w", path, err)
	}
	return nil
}
