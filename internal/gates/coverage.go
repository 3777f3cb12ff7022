// Package gates enforces the fail-closed coverage invariants that must hold
// before any reconciliation output can be trusted.
package gates

import (
	"fmt"

	"github.com/reconrun/reconrun/internal/data"
)

// Failure codes. Either check failing halts the run and replaces the summary
// with an error envelope.
const (
	CodeEvidenceCoverageRegression     = "EVIDENCE_COVERAGE_REGRESSION"
	CodeExecutionOutsideEvidenceCoverage = "EXECUTION_OUTSIDE_EVIDENCE_COVERAGE"
)

// CoverageInfo describes the coverage comparison, carried both in the summary
// of a passing run and in the error envelope of a failing one.
type CoverageInfo struct {
	Baseline           data.DateRange  `json:"baseline"`
	Current            data.DateRange  `json:"current"`
	Regression         bool            `json:"regression"`
	ExecWithinEvidence bool            `json:"exec_within_evidence"`
	ExecutionRange     *data.DateRange `json:"execution_range,omitempty"`
}

// Failure is a coverage-gate violation. It is data, not a Go error: the run
// turns it into a structured error envelope.
type Failure struct {
	Code     string
	Message  string
	Coverage CoverageInfo
}

// Input is everything the gate evaluates.
type Input struct {
	Baseline       *data.Baseline  // nil on first-run bootstrap
	Evidence       data.DateRange  // zero-value when the evidence series is empty
	EvidenceEmpty  bool
	ExecutionRange *data.DateRange // nil when nothing executed
}

// Evaluate runs both coverage checks in order and returns the first failure,
// or nil when the run's coverage may be trusted.
func Evaluate(in Input) *Failure {
	baselineRange := data.DateRange{}
	if in.Baseline != nil {
		baselineRange = in.Baseline.Evidence
	}

	// Check 1: the current evidence range must fully contain the baseline
	// range. An empty evidence series can never satisfy that, baseline or not.
	regression := in.EvidenceEmpty
	if !regression && in.Baseline != nil {
		regression = in.Evidence.MinDate > baselineRange.MinDate ||
			in.Evidence.MaxDate < baselineRange.MaxDate
	}
	if regression {
		return &Failure{
			Code: CodeEvidenceCoverageRegression,
			Message: fmt.Sprintf("evidence coverage shrank: baseline %s~%s, current %s~%s",
				orNA(baselineRange.MinDate), orNA(baselineRange.MaxDate),
				orNA(in.Evidence.MinDate), orNA(in.Evidence.MaxDate)),
			Coverage: CoverageInfo{
				Baseline:           baselineRange,
				Current:            in.Evidence,
				Regression:         true,
				ExecWithinEvidence: false,
			},
		}
	}

	// Check 2: every executed date must fall inside the evidence range, or
	// the engine has no window at all to audit the trade against.
	if in.ExecutionRange != nil {
		outside := in.EvidenceEmpty ||
			in.ExecutionRange.MinDate < in.Evidence.MinDate ||
			in.ExecutionRange.MaxDate > in.Evidence.MaxDate
		if outside {
			return &Failure{
				Code: CodeExecutionOutsideEvidenceCoverage,
				Message: fmt.Sprintf("executions %s~%s fall outside evidence coverage %s~%s",
					in.ExecutionRange.MinDate, in.ExecutionRange.MaxDate,
					orNA(in.Evidence.MinDate), orNA(in.Evidence.MaxDate)),
				Coverage: CoverageInfo{
					Baseline:           baselineRange,
					Current:            in.Evidence,
					Regression:         false,
					ExecWithinEvidence: false,
					ExecutionRange:     in.ExecutionRange,
				},
			}
		}
	}

	return nil
}

func orNA(date string) string {
	if date == "" {
		return "N/A"
	}
	return date
}
