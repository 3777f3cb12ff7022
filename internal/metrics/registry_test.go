package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_Counters(t *testing.T) {
	reg := NewRegistry()

	reg.RunsTotal.WithLabelValues(OutcomeOK).Inc()
	reg.RunsTotal.WithLabelValues(OutcomeOK).Inc()
	reg.RunsTotal.WithLabelValues(OutcomeCoverageFailed).Inc()
	reg.GateFailures.WithLabelValues("EVIDENCE_COVERAGE_REGRESSION").Inc()
	reg.DeterminismChecks.WithLabelValues(VerdictMatch).Inc()

	assert.Equal(t, 2.0, testutil.ToFloat64(reg.RunsTotal.WithLabelValues(OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(reg.RunsTotal.WithLabelValues(OutcomeCoverageFailed)))
	assert.Equal(t, 1.0, testutil.ToFloat64(reg.GateFailures.WithLabelValues("EVIDENCE_COVERAGE_REGRESSION")))
	assert.Equal(t, 1.0, testutil.ToFloat64(reg.DeterminismChecks.WithLabelValues(VerdictMatch)))
}

func TestRegistry_ObserveIntegrity(t *testing.T) {
	reg := NewRegistry()
	reg.ObserveIntegrity(2, 1, 0)

	assert.Equal(t, 2.0, testutil.ToFloat64(reg.IntegrityDays.WithLabelValues("critical")))
	assert.Equal(t, 1.0, testutil.ToFloat64(reg.IntegrityDays.WithLabelValues("warning")))
	assert.Equal(t, 0.0, testutil.ToFloat64(reg.IntegrityDays.WithLabelValues("info")))
}

func TestRegistry_Isolated(t *testing.T) {
	// Two registries in one process must not share state; the verifier's two
	// runs depend on it.
	a := NewRegistry()
	b := NewRegistry()
	a.RunsTotal.WithLabelValues(OutcomeOK).Inc()

	assert.Equal(t, 0.0, testutil.ToFloat64(b.RunsTotal.WithLabelValues(OutcomeOK)))

	families, err := a.Gatherer().Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}
