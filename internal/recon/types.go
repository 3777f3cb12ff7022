package recon

import (
	"github.com/reconrun/reconrun/internal/data"
	"github.com/reconrun/reconrun/internal/domain/integrity"
	"github.com/reconrun/reconrun/internal/domain/regime"
	"github.com/reconrun/reconrun/internal/gates"
)

// Schema tags let downstream readers reject records they don't understand.
const (
	SchemaDaily   = "RECON_DAILY_V1"
	SchemaSummary = "RECON_SUMMARY_V1"
)

const (
	reconcilerVersion  = "1.5.0"
	tradeCountPolicyID = "TRADE_COUNT_POLICY_V1"
)

var policyIDs = []string{
	"TRADE_COUNT_POLICY_V1",
	"COVERAGE_BASELINE_V1",
	"INTEGRITY_POLICY_V1",
}

// LedgerInfo is the ledger's view of one day.
type LedgerInfo struct {
	Actions int `json:"actions"`
}

// EvidenceInfo is the recomputed market evidence for one day. Numeric values
// are rounded to two decimals to keep records readable and stable.
type EvidenceInfo struct {
	Status        string  `json:"status"`
	Regime        string  `json:"regime"`
	TrendStrength float64 `json:"trend_strength"`
	MAShort       float64 `json:"ma_short"`
	MALong        float64 `json:"ma_long"`
}

// DecisionInfo is a gate decision with its reason code.
type DecisionInfo struct {
	GateDecision regime.GateDecision `json:"gate_decision"`
	Reason       regime.Reason       `json:"reason"`
}

// ExecutionInfo records whether the ledger shows trades for the day.
type ExecutionInfo struct {
	Executed bool `json:"executed"`
}

// IntegrityInfo is the day's anomaly classification.
type IntegrityInfo struct {
	Severity integrity.Severity `json:"severity"`
	Codes    []integrity.Code   `json:"codes"`
}

// PointersInfo names the input files that contributed to the day record.
type PointersInfo struct {
	LedgerSource   *string `json:"ledger_source"`
	EvidenceSource *string `json:"evidence_source"`
}

// DailyRecord is the atomic unit of the audit log: one self-contained line
// per audited day, never mutated after creation.
type DailyRecord struct {
	Schema    string        `json:"schema"`
	TradeDate string        `json:"trade_date"`
	Ledger    LedgerInfo    `json:"ledger"`
	Evidence  EvidenceInfo  `json:"evidence"`
	Precheck  DecisionInfo  `json:"precheck"`
	Final     DecisionInfo  `json:"final"`
	Execution ExecutionInfo `json:"execution"`
	Integrity IntegrityInfo `json:"integrity"`
	Pointers  PointersInfo  `json:"pointers"`
}

// Period is the audited date range.
type Period struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Counts is the L1 (ledger) vs L2 (validation report) trade-count
// cross-check. The delta is informational: the two layers count under
// different policies.
type Counts struct {
	LedgerActions    int `json:"ledger_actions"`
	ValidationTrades int `json:"validation_trades"`
	Delta            int `json:"delta"`
}

// KPIs tallies precheck and execution outcomes over the period.
type KPIs struct {
	GateOpen  int `json:"gate_open"`
	ChopBlock int `json:"chop_block"`
	BearBlock int `json:"bear_block"`
	Executed  int `json:"executed"`
	NoData    int `json:"no_data"`
}

// IntegritySummary aggregates anomaly findings over the run.
type IntegritySummary struct {
	CriticalDays    int                   `json:"critical_days"`
	WarningDays     int                   `json:"warning_days"`
	InfoDays        int                   `json:"info_days"`
	TopCodes        []integrity.CodeCount `json:"top_codes"`
	SummaryFindings []integrity.Finding   `json:"summary_findings"`
}

// Coverage extends the gate's comparison with the run's own no-data count.
type Coverage struct {
	EvidenceNoDataDays int             `json:"evidence_no_data_days"`
	Regression         bool            `json:"regression"`
	ExecWithinEvidence bool            `json:"exec_within_evidence"`
	Baseline           data.DateRange  `json:"baseline"`
	Current            data.DateRange  `json:"current"`
	ExecutionRange     *data.DateRange `json:"execution_range,omitempty"`
}

// SourceInfo is provenance for one input file.
type SourceInfo struct {
	Name      string `json:"name"`
	Path      string `json:"path"`
	MtimeISO  string `json:"mtime_iso,omitempty"`
	SizeBytes int64  `json:"size_bytes,omitempty"`
	SHA256    string `json:"sha256,omitempty"`
	Error     string `json:"error,omitempty"`
}

// Provenance ties a summary back to the exact input bytes it was computed
// from. A summary without at least one source is a contract violation.
type Provenance struct {
	GeneratedAt       string       `json:"generated_at"`
	ReconcilerVersion string       `json:"reconciler_version"`
	PolicyIDs         []string     `json:"policy_ids"`
	Sources           []SourceInfo `json:"sources"`
}

// Summary is the aggregate artifact of one successful run. It is immutable:
// the next run supersedes it, never edits it.
type Summary struct {
	Status             string           `json:"status"`
	Schema             string           `json:"schema"`
	GeneratedAt        string           `json:"generated_at"`
	Period             Period           `json:"period"`
	TradeCountPolicyID string           `json:"trade_count_policy_id"`
	Counts             Counts           `json:"counts"`
	KPIs               KPIs             `json:"kpis"`
	Integrity          IntegritySummary `json:"integrity"`
	Coverage           Coverage         `json:"coverage"`
	Provenance         Provenance       `json:"provenance"`
}

// ErrorInfo is the code/message pair inside an error envelope.
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorEnvelope replaces the summary whenever a run-level gate or the
// determinism verification fails. status=error tells consumers to trust no
// coverage claim derived from this run.
type ErrorEnvelope struct {
	Status      string               `json:"status"`
	Schema      string               `json:"schema"`
	GeneratedAt string               `json:"generated_at"`
	Error       ErrorInfo            `json:"error"`
	Coverage    *gates.CoverageInfo  `json:"coverage,omitempty"`
	Provenance  *Provenance          `json:"provenance,omitempty"`
}

// Result is one runner invocation's output: either a summary with its daily
// records, or an error envelope.
type Result struct {
	RunID    string
	Summary  *Summary
	Envelope *ErrorEnvelope
	Daily    []DailyRecord
}

// Failed reports whether the run produced an error envelope instead of a
// trustable summary.
func (r *Result) Failed() bool {
	return r.Envelope != nil
}
