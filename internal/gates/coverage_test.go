package gates

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reconrun/reconrun/internal/data"
)

func TestEvaluate_PassWhenCurrentContainsBaseline(t *testing.T) {
	failure := Evaluate(Input{
		Baseline: &data.Baseline{Evidence: data.DateRange{MinDate: "2024-01-01", MaxDate: "2025-12-31"}},
		Evidence: data.DateRange{MinDate: "2023-06-01", MaxDate: "2025-12-31"},
		ExecutionRange: &data.DateRange{MinDate: "2024-02-01", MaxDate: "2025-06-02"},
	})
	assert.Nil(t, failure)
}

func TestEvaluate_RegressionOnShrunkenMin(t *testing.T) {
	failure := Evaluate(Input{
		Baseline: &data.Baseline{Evidence: data.DateRange{MinDate: "2024-01-01", MaxDate: "2025-12-31"}},
		Evidence: data.DateRange{MinDate: "2024-06-01", MaxDate: "2025-12-31"},
	})
	require.NotNil(t, failure)
	assert.Equal(t, CodeEvidenceCoverageRegression, failure.Code)
	assert.True(t, failure.Coverage.Regression)
	assert.False(t, failure.Coverage.ExecWithinEvidence)
	// The envelope still carries both ranges for diagnosis.
	assert.Equal(t, "2024-01-01", failure.Coverage.Baseline.MinDate)
	assert.Equal(t, "2024-06-01", failure.Coverage.Current.MinDate)
}

func TestEvaluate_RegressionOnShrunkenMax(t *testing.T) {
	failure := Evaluate(Input{
		Baseline: &data.Baseline{Evidence: data.DateRange{MinDate: "2024-01-01", MaxDate: "2025-12-31"}},
		Evidence: data.DateRange{MinDate: "2024-01-01", MaxDate: "2025-06-30"},
	})
	require.NotNil(t, failure)
	assert.Equal(t, CodeEvidenceCoverageRegression, failure.Code)
}

func TestEvaluate_ExactBaselineMatchIsNotRegression(t *testing.T) {
	failure := Evaluate(Input{
		Baseline: &data.Baseline{Evidence: data.DateRange{MinDate: "2024-01-01", MaxDate: "2025-12-31"}},
		Evidence: data.DateRange{MinDate: "2024-01-01", MaxDate: "2025-12-31"},
	})
	assert.Nil(t, failure)
}

func TestEvaluate_EmptyEvidenceIsRegression(t *testing.T) {
	failure := Evaluate(Input{EvidenceEmpty: true})
	require.NotNil(t, failure)
	assert.Equal(t, CodeEvidenceCoverageRegression, failure.Code)
}

func TestEvaluate_NoBaselineSkipsRegressionCheck(t *testing.T) {
	// First-run bootstrap: nothing to regress against.
	failure := Evaluate(Input{
		Evidence: data.DateRange{MinDate: "2024-01-01", MaxDate: "2024-06-30"},
	})
	assert.Nil(t, failure)
}

func TestEvaluate_ExecutionOutsideEvidence(t *testing.T) {
	tests := []struct {
		name string
		exec data.DateRange
	}{
		{"execution before evidence", data.DateRange{MinDate: "2023-12-29", MaxDate: "2024-02-01"}},
		{"execution after evidence", data.DateRange{MinDate: "2024-02-01", MaxDate: "2024-07-01"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exec := tt.exec
			failure := Evaluate(Input{
				Evidence:       data.DateRange{MinDate: "2024-01-01", MaxDate: "2024-06-30"},
				ExecutionRange: &exec,
			})
			require.NotNil(t, failure)
			assert.Equal(t, CodeExecutionOutsideEvidenceCoverage, failure.Code)
			assert.False(t, failure.Coverage.Regression)
			require.NotNil(t, failure.Coverage.ExecutionRange)
			assert.Equal(t, exec, *failure.Coverage.ExecutionRange)
		})
	}
}

func TestEvaluate_ExecutionOnEvidenceBoundaryPasses(t *testing.T) {
	failure := Evaluate(Input{
		Evidence:       data.DateRange{MinDate: "2024-01-01", MaxDate: "2024-06-30"},
		ExecutionRange: &data.DateRange{MinDate: "2024-01-01", MaxDate: "2024-06-30"},
	})
	assert.Nil(t, failure)
}

func TestEvaluate_RegressionBeatsContainment(t *testing.T) {
	// Both checks would fail; the regression check runs first.
	failure := Evaluate(Input{
		Baseline:       &data.Baseline{Evidence: data.DateRange{MinDate: "2024-01-01", MaxDate: "2025-12-31"}},
		Evidence:       data.DateRange{MinDate: "2024-06-01", MaxDate: "2025-12-31"},
		ExecutionRange: &data.DateRange{MinDate: "2023-01-01", MaxDate: "2026-01-01"},
	})
	require.NotNil(t, failure)
	assert.Equal(t, CodeEvidenceCoverageRegression, failure.Code)
}
