// Package metrics holds the Prometheus collectors of the record engine.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics groups the engine collectors. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	Registry *prometheus.Registry

	// InstructionsTotal counts applied instructions by op and outcome
	// ("ok" or the instruction error code).
	InstructionsTotal *prometheus.CounterVec

	InstructionDuration *prometheus.HistogramVec

	// ScansTotal counts record scans by kind.
	ScansTotal *prometheus.CounterVec
}

// New registers the collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,
		InstructionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "socialgraph_instructions_total",
			Help: "Total number of applied instructions",
		}, []string{"op", "outcome"}),

		InstructionDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "socialgraph_instruction_duration_seconds",
			Help:    "Duration of instruction application",
			Buckets: prometheus.DefBuckets,
		}, []string{"op"}),

		ScansTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "socialgraph_scans_total",
			Help: "Total number of record scans",
		}, []string{"kind"}),
	}
}

// ObserveInstruction records one applied instruction.
func (m *Metrics) ObserveInstruction(op, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.InstructionsTotal.WithLabelValues(op, outcome).Inc()
	m.InstructionDuration.WithLabelValues(op).Observe(elapsed.Seconds())
}

// ObserveScan records one scan.
func (m *Metrics) ObserveScan(kind string) {
	if m == nil {
		return
	}
	m.ScansTotal.WithLabelValues(kind).Inc()
}

// WriteTextfile writes the current values in the text exposition format,
// for the node exporter textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil {
		return nil
	}
	return prometheus.WriteToTextfile(path, m.Registry)
}
