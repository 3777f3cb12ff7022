// Package recon runs the day-by-day reconciliation pass: it recomputes what
// the signal should have decided from market evidence, compares that against
// the execution ledger, classifies every mismatch, and folds the result into
// an append-only daily log plus a summary artifact.
package recon

import (
	"context"
	"fmt"
	"math"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/reconrun/reconrun/internal/artifacts"
	"github.com/reconrun/reconrun/internal/config"
	"github.com/reconrun/reconrun/internal/data"
	"github.com/reconrun/reconrun/internal/domain/decision"
	"github.com/reconrun/reconrun/internal/domain/indicators"
	"github.com/reconrun/reconrun/internal/domain/integrity"
	"github.com/reconrun/reconrun/internal/domain/regime"
	"github.com/reconrun/reconrun/internal/gates"
	"github.com/reconrun/reconrun/internal/ledger"
	"github.com/reconrun/reconrun/internal/metrics"
)

const (
	dateLayout  = "2006-01-02"
	topCodesMax = 5
)

// Runner orchestrates one full reconciliation pass. It owns DailyRecord and
// Summary construction exclusively.
type Runner struct {
	cfg     config.Config
	store   *artifacts.Store
	metrics *metrics.Registry
	log     zerolog.Logger
	now     func() time.Time
}

// NewRunner wires a runner against its artifact store and metrics registry.
func NewRunner(cfg config.Config, store *artifacts.Store, reg *metrics.Registry, log zerolog.Logger) *Runner {
	return &Runner{
		cfg:     cfg,
		store:   store,
		metrics: reg,
		log:     log.With().Str("component", "recon").Logger(),
		now:     time.Now,
	}
}

// Run audits every business day in [from, to] (inclusive, YYYY-MM-DD). The
// returned Result carries either a summary plus daily records, or the error
// envelope that replaced them. Both are already persisted and published.
func (r *Runner) Run(ctx context.Context, from, to string) (*Result, error) {
	fromDate, err := time.Parse(dateLayout, from)
	if err != nil {
		return nil, fmt.Errorf("parse period start: %w", err)
	}
	toDate, err := time.Parse(dateLayout, to)
	if err != nil {
		return nil, fmt.Errorf("parse period end: %w", err)
	}
	if toDate.Before(fromDate) {
		return nil, fmt.Errorf("period end %s precedes start %s", to, from)
	}

	runID := r.store.NewRunID()
	log := r.log.With().Str("run_id", runID).Logger()
	log.Info().Str("from", from).Str("to", to).Msg("reconciliation pass starting")

	// Load every input once, read-only. Per-day input failures degrade to
	// NO_DATA / empty-ledger semantics; only a corrupt baseline is fatal,
	// since the regression check cannot be silently skipped.
	book, err := ledger.Load(r.cfg.Inputs.LedgerPath)
	if err != nil {
		log.Warn().Err(err).Msg("ledger unreadable, treating as zero executions")
		book = ledger.Empty()
	}

	bars, err := data.LoadBars(r.cfg.Inputs.EvidencePath)
	if err != nil {
		log.Warn().Err(err).Msg("evidence unreadable, treating as empty series")
		bars = nil
	}
	series := indicators.NewSeries(bars, indicators.Params{
		MAShort:     r.cfg.Params.MAShort,
		MALong:      r.cfg.Params.MALong,
		TrendPeriod: r.cfg.Params.TrendPeriod,
	})

	validationTotal := data.LoadValidationTotal(r.cfg.Inputs.ValidationPath)

	baseline, err := data.LoadBaseline(r.cfg.Inputs.BaselinePath)
	if err != nil {
		r.metrics.RunsTotal.WithLabelValues(metrics.OutcomeError).Inc()
		return nil, err
	}

	log.Info().
		Int("ledger_actions", book.Total()).
		Int("validation_trades", validationTotal).
		Int("evidence_bars", series.Len()).
		Msg("sources loaded")

	// Coverage gate, before anything downstream is trusted.
	var execRange *data.DateRange
	if min, max, ok := book.ExecutionRange(); ok {
		execRange = &data.DateRange{MinDate: min, MaxDate: max}
	}
	gateInput := gates.Input{
		Baseline:       baseline,
		Evidence:       data.DateRange{MinDate: series.MinDate(), MaxDate: series.MaxDate()},
		EvidenceEmpty:  series.Empty(),
		ExecutionRange: execRange,
	}
	if failure := gates.Evaluate(gateInput); failure != nil {
		log.Error().Str("code", failure.Code).Msg(failure.Message)
		return r.failRun(runID, failure)
	}

	// Day-by-day pass, strictly ascending so trailing windows only ever see
	// earlier bars.
	tally := integrity.NewTally()
	var kpis KPIs
	var daily []DailyRecord

	for day := fromDate; !day.After(toDate); day = day.AddDate(0, 0, 1) {
		if wd := day.Weekday(); wd == time.Saturday || wd == time.Sunday {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		record := r.reconcileDay(day.Format(dateLayout), book, series)

		tally.AddDay(dayFindings(record))
		kpis.accumulate(record)
		daily = append(daily, record)
	}

	counts := Counts{
		LedgerActions:    book.Total(),
		ValidationTrades: validationTotal,
		Delta:            book.Total() - validationTotal,
	}

	summaryFindings := []integrity.Finding{}
	if counts.Delta != 0 {
		summaryFindings = append(summaryFindings, integrity.Finding{
			Code:     integrity.CodeL1L2Mismatch,
			Severity: integrity.Policy[integrity.CodeL1L2Mismatch],
		})
	}

	baselineRange := data.DateRange{}
	if baseline != nil {
		baselineRange = baseline.Evidence
	}

	summary := &Summary{
		Status:             "ok",
		Schema:             SchemaSummary,
		GeneratedAt:        r.timestamp(),
		Period:             Period{From: from, To: to},
		TradeCountPolicyID: tradeCountPolicyID,
		Counts:             counts,
		KPIs:               kpis,
		Integrity: IntegritySummary{
			CriticalDays:    tally.CriticalDays,
			WarningDays:     tally.WarningDays,
			InfoDays:        tally.InfoDays,
			TopCodes:        tally.TopCodes(topCodesMax),
			SummaryFindings: summaryFindings,
		},
		Coverage: Coverage{
			EvidenceNoDataDays: kpis.NoData,
			Regression:         false,
			ExecWithinEvidence: true,
			Baseline:           baselineRange,
			Current:            gateInput.Evidence,
			ExecutionRange:     execRange,
		},
		Provenance: r.provenance(),
	}

	lines, err := marshalDaily(daily)
	if err != nil {
		r.metrics.RunsTotal.WithLabelValues(metrics.OutcomeError).Inc()
		return nil, err
	}
	if err := r.store.SaveRun(runID, summary, lines); err != nil {
		r.metrics.RunsTotal.WithLabelValues(metrics.OutcomeError).Inc()
		return nil, err
	}
	if err := r.store.Publish(runID); err != nil {
		r.metrics.RunsTotal.WithLabelValues(metrics.OutcomeError).Inc()
		return nil, err
	}

	r.metrics.RunsTotal.WithLabelValues(metrics.OutcomeOK).Inc()
	r.metrics.ObserveIntegrity(tally.CriticalDays, tally.WarningDays, tally.InfoDays)

	log.Info().
		Int("days", len(daily)).
		Int("critical_days", tally.CriticalDays).
		Int("gate_open", kpis.GateOpen).
		Msg("reconciliation pass complete")

	return &Result{RunID: runID, Summary: summary, Daily: daily}, nil
}

// reconcileDay builds the immutable audit record for one business day.
func (r *Runner) reconcileDay(date string, book *ledger.Book, series *indicators.Series) DailyRecord {
	actions := book.Actions(date)
	executed := actions > 0

	ev := series.At(date)
	pre := regime.Classify(ev, r.cfg.Params.ChopThreshold)
	final := decision.Resolve(pre, executed)

	findings := integrity.AnalyzeDay(integrity.DayContext{
		EvidenceStatus: ev.Status,
		Executed:       executed,
		FinalDecision:  final.Decision,
	})

	codes := make([]integrity.Code, 0, len(findings))
	for _, f := range findings {
		codes = append(codes, f.Code)
	}

	var pointers PointersInfo
	if executed {
		name := filepath.Base(r.cfg.Inputs.LedgerPath)
		pointers.LedgerSource = &name
	}
	if ev.Status != indicators.StatusNoData {
		name := filepath.Base(r.cfg.Inputs.EvidencePath)
		pointers.EvidenceSource = &name
	}

	return DailyRecord{
		Schema:    SchemaDaily,
		TradeDate: date,
		Ledger:    LedgerInfo{Actions: actions},
		Evidence: EvidenceInfo{
			Status:        string(ev.Status),
			Regime:        string(pre.Regime),
			TrendStrength: round2(ev.TrendStrength),
			MAShort:       round2(ev.MAShort),
			MALong:        round2(ev.MALong),
		},
		Precheck:  DecisionInfo{GateDecision: pre.Decision, Reason: pre.Reason},
		Final:     DecisionInfo{GateDecision: final.Decision, Reason: final.Reason},
		Execution: ExecutionInfo{Executed: executed},
		Integrity: IntegrityInfo{
			Severity: integrity.DaySeverity(findings),
			Codes:    codes,
		},
		Pointers: pointers,
	}
}

// failRun persists and publishes the error envelope for a coverage failure.
// The snapshot is kept so the failure stays diagnosable after later runs.
func (r *Runner) failRun(runID string, failure *gates.Failure) (*Result, error) {
	envelope := &ErrorEnvelope{
		Status:      "error",
		Schema:      SchemaSummary,
		GeneratedAt: r.timestamp(),
		Error:       ErrorInfo{Code: failure.Code, Message: failure.Message},
		Coverage:    &failure.Coverage,
	}
	if err := r.store.SaveRun(runID, envelope, nil); err != nil {
		return nil, err
	}
	if err := r.store.Publish(runID); err != nil {
		return nil, err
	}
	r.metrics.RunsTotal.WithLabelValues(metrics.OutcomeCoverageFailed).Inc()
	r.metrics.GateFailures.WithLabelValues(failure.Code).Inc()
	return &Result{RunID: runID, Envelope: envelope}, nil
}

func (r *Runner) provenance() Provenance {
	return Provenance{
		GeneratedAt:       r.timestamp(),
		ReconcilerVersion: reconcilerVersion,
		PolicyIDs:         policyIDs,
		Sources: []SourceInfo{
			describeSource(sourceLedger, r.cfg.Inputs.LedgerPath),
			describeSource(sourceEvidence, r.cfg.Inputs.EvidencePath),
			describeSource(sourceValidation, r.cfg.Inputs.ValidationPath),
			describeSource(sourceBaseline, r.cfg.Inputs.BaselinePath),
		},
	}
}

func (r *Runner) timestamp() string {
	return r.now().UTC().Format(time.RFC3339Nano)
}

func (k *KPIs) accumulate(rec DailyRecord) {
	if rec.Execution.Executed {
		k.Executed++
	}
	if rec.Evidence.Status != string(indicators.StatusOK) {
		k.NoData++
	}
	if rec.Precheck.GateDecision == regime.Pass {
		k.GateOpen++
	}
	switch rec.Precheck.Reason {
	case regime.ReasonChopBlock:
		k.ChopBlock++
	case regime.ReasonBearBlock:
		k.BearBlock++
	}
}

func dayFindings(rec DailyRecord) []integrity.Finding {
	findings := make([]integrity.Finding, 0, len(rec.Integrity.Codes))
	for _, code := range rec.Integrity.Codes {
		findings = append(findings, integrity.Finding{Code: code, Severity: integrity.Policy[code]})
	}
	return findings
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
