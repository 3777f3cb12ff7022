// Package integrity applies the anomaly rules that classify a reconciled day
// (or a whole run) as benign or anomalous.
package integrity

import (
	"sort"

	"github.com/reconrun/reconrun/internal/domain/indicators"
	"github.com/reconrun/reconrun/internal/domain/regime"
)

// Code is a closed-set anomaly code.
type Code string

const (
	// CodeDataMissingWithExecution fires when a trade executed on a day the
	// engine has no market evidence to audit it against.
	CodeDataMissingWithExecution Code = "IC_DATA_MISSING_WITH_EXECUTION"
	// CodeExecutedButFinalBlock fires when an executed day still resolves to
	// BLOCK, which means the ledger override failed to apply.
	CodeExecutedButFinalBlock Code = "IC_EXECUTED_BUT_FINAL_BLOCK"
	// CodeL1L2Mismatch marks a ledger-vs-validation trade-count delta. It is
	// informational (the two sources count trades under different policies)
	// and attaches to the summary, never to a day.
	CodeL1L2Mismatch Code = "IC_L1_L2_MISMATCH"
	// CodeReconNonDeterministic marks a run whose repeated execution produced
	// a different canonical summary.
	CodeReconNonDeterministic Code = "IC_RECON_NON_DETERMINISTIC"
	// CodeProvenanceMissing marks a summary published without any input
	// provenance.
	CodeProvenanceMissing Code = "IC_PROVENANCE_MISSING"
)

// Severity ranks a finding.
type Severity string

const (
	SeverityNone     Severity = "NONE"
	SeverityInfo     Severity = "INFO"
	SeverityWarning  Severity = "WARNING"
	SeverityCritical Severity = "CRITICAL"
)

// Policy maps every code to its severity.
var Policy = map[Code]Severity{
	CodeDataMissingWithExecution: SeverityCritical,
	CodeExecutedButFinalBlock:    SeverityCritical,
	CodeL1L2Mismatch:             SeverityInfo,
	CodeReconNonDeterministic:    SeverityCritical,
	CodeProvenanceMissing:        SeverityCritical,
}

var severityRank = map[Severity]int{
	SeverityNone:     0,
	SeverityInfo:     1,
	SeverityWarning:  2,
	SeverityCritical: 3,
}

// Finding is one anomaly attached to a day record or a summary.
type Finding struct {
	Code     Code     `json:"code"`
	Severity Severity `json:"severity"`
}

// DayContext is the full decision context for one reconciled day.
type DayContext struct {
	EvidenceStatus indicators.Status
	Executed       bool
	FinalDecision  regime.GateDecision
}

// AnalyzeDay evaluates every day-level rule independently; all applicable
// rules fire.
func AnalyzeDay(day DayContext) []Finding {
	var findings []Finding

	if day.Executed && day.EvidenceStatus != indicators.StatusOK {
		findings = append(findings, finding(CodeDataMissingWithExecution))
	}
	if day.Executed && day.FinalDecision == regime.Block {
		findings = append(findings, finding(CodeExecutedButFinalBlock))
	}
	return findings
}

func finding(code Code) Finding {
	return Finding{Code: code, Severity: Policy[code]}
}

// DaySeverity collapses a day's findings to a single bucket, highest first.
func DaySeverity(findings []Finding) Severity {
	top := SeverityNone
	for _, f := range findings {
		if severityRank[f.Severity] > severityRank[top] {
			top = f.Severity
		}
	}
	return top
}

// CodeCount pairs a code with the number of days it fired on.
type CodeCount struct {
	Code Code `json:"code"`
	Days int  `json:"days"`
}

// Tally accumulates integrity statistics across a run. A day counts toward at
// most one severity bucket.
type Tally struct {
	CriticalDays int
	WarningDays  int
	InfoDays     int
	codeCounts   map[Code]int
}

// NewTally returns an empty tally.
func NewTally() *Tally {
	return &Tally{codeCounts: make(map[Code]int)}
}

// AddDay folds one day's findings into the tally.
func (t *Tally) AddDay(findings []Finding) {
	switch DaySeverity(findings) {
	case SeverityCritical:
		t.CriticalDays++
	case SeverityWarning:
		t.WarningDays++
	case SeverityInfo:
		t.InfoDays++
	}
	for _, f := range findings {
		t.codeCounts[f.Code]++
	}
}

// TopCodes returns up to n codes ordered by day count descending. Ties break
// by code ascending so the ordering is reproducible.
func (t *Tally) TopCodes(n int) []CodeCount {
	counts := make([]CodeCount, 0, len(t.codeCounts))
	for code, days := range t.codeCounts {
		counts = append(counts, CodeCount{Code: code, Days: days})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Days != counts[j].Days {
			return counts[i].Days > counts[j].Days
		}
		return counts[i].Code < counts[j].Code
	})
	if len(counts) > n {
		counts = counts[:n]
	}
	return counts
}
