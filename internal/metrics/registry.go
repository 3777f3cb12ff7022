// Package metrics exposes run-level counters for the audit engine. The
// registry is constructed and passed down, never global, so two verifier runs
// in one process cannot share hidden state.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Run outcomes.
const (
	OutcomeOK             = "ok"
	OutcomeCoverageFailed = "coverage_failed"
	OutcomeError          = "error"
)

// Determinism verdicts.
const (
	VerdictMatch             = "match"
	VerdictMismatch          = "mismatch"
	VerdictProvenanceMissing = "provenance_missing"
)

// Registry holds all engine metrics.
type Registry struct {
	registry *prometheus.Registry

	RunsTotal         *prometheus.CounterVec
	GateFailures      *prometheus.CounterVec
	IntegrityDays     *prometheus.GaugeVec
	DeterminismChecks *prometheus.CounterVec
}

// NewRegistry constructs and registers all engine collectors.
func NewRegistry() *Registry {
	r := &Registry{
		registry: prometheus.NewRegistry(),

		RunsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reconrun_runs_total",
				Help: "Reconciliation runs by outcome",
			},
			[]string{"outcome"},
		),

		GateFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reconrun_gate_failures_total",
				Help: "Coverage gate failures by code",
			},
			[]string{"code"},
		),

		IntegrityDays: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "reconrun_integrity_days",
				Help: "Day counts per severity bucket for the latest run",
			},
			[]string{"severity"},
		),

		DeterminismChecks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reconrun_determinism_checks_total",
				Help: "Determinism verification passes by verdict",
			},
			[]string{"verdict"},
		),
	}

	r.registry.MustRegister(r.RunsTotal, r.GateFailures, r.IntegrityDays, r.DeterminismChecks)
	return r
}

// Gatherer exposes the underlying registry for scraping or tests.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.registry
}

// ObserveIntegrity records the latest run's severity buckets.
func (r *Registry) ObserveIntegrity(critical, warning, info int) {
	r.IntegrityDays.WithLabelValues("critical").Set(float64(critical))
	r.IntegrityDays.WithLabelValues("warning").Set(float64(warning))
	r.IntegrityDays.WithLabelValues("info").Set(float64(info))
}
