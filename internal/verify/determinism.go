// Package verify runs the reconciliation twice and requires identical
// canonical output before either run may be trusted. It is the final
// authority over what gets published.
package verify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/reconrun/reconrun/internal/artifacts"
	"github.com/reconrun/reconrun/internal/domain/integrity"
	"github.com/reconrun/reconrun/internal/metrics"
	"github.com/reconrun/reconrun/internal/recon"
)

// ErrNonDeterministic marks a verification pass whose two runs disagreed.
// Both runs "succeeded" individually; the combined result is still a failure.
var ErrNonDeterministic = errors.New("reconciliation output is non-deterministic")

// ErrProvenanceMissing marks a summary published without input provenance.
var ErrProvenanceMissing = errors.New("summary provenance missing")

// Reconciler is one reconciliation pass. Injected so tests can supply
// unstable implementations.
type Reconciler interface {
	Run(ctx context.Context, from, to string) (*recon.Result, error)
}

// Report is the verification artifact. It never carries authoritative
// trading data.
type Report struct {
	GeneratedAt   string `json:"generated_at"`
	Run1Hash      string `json:"run1_hash"`
	Run2Hash      string `json:"run2_hash"`
	Match         bool   `json:"match"`
	RowCountMatch bool   `json:"row_count_match"`
}

// Verifier wraps two independent runner invocations and gates publication on
// their canonical hashes matching.
type Verifier struct {
	rec     Reconciler
	store   *artifacts.Store
	metrics *metrics.Registry
	log     zerolog.Logger
	now     func() time.Time
}

// NewVerifier wires a verifier over a reconciler and its artifact store.
func NewVerifier(rec Reconciler, store *artifacts.Store, reg *metrics.Registry, log zerolog.Logger) *Verifier {
	return &Verifier{
		rec:     rec,
		store:   store,
		metrics: reg,
		log:     log.With().Str("component", "verify").Logger(),
		now:     time.Now,
	}
}

// Verify runs the reconciler twice over [from, to]. On matching hashes run
// 1's summary is restored as the published artifact (earliest trustworthy
// snapshot wins). On mismatch or missing provenance the published summary is
// overwritten with a CRITICAL error envelope and the pass fails.
func (v *Verifier) Verify(ctx context.Context, from, to string) (*Report, error) {
	run1, err := v.runOnce(ctx, 1, from, to)
	if err != nil {
		return nil, err
	}
	run2, err := v.runOnce(ctx, 2, from, to)
	if err != nil {
		return nil, err
	}

	hash1, err := CanonicalHash(run1.Summary)
	if err != nil {
		return nil, fmt.Errorf("hash run 1: %w", err)
	}
	hash2, err := CanonicalHash(run2.Summary)
	if err != nil {
		return nil, fmt.Errorf("hash run 2: %w", err)
	}

	report := &Report{
		GeneratedAt:   v.now().UTC().Format(time.RFC3339Nano),
		Run1Hash:      hash1,
		Run2Hash:      hash2,
		Match:         hash1 == hash2,
		RowCountMatch: run1.Summary.Counts.LedgerActions == run2.Summary.Counts.LedgerActions,
	}
	if err := v.store.WriteDeterminismReport(report); err != nil {
		return nil, err
	}

	if !report.Match {
		v.log.Error().
			Str("run1_hash", hash1).
			Str("run2_hash", hash2).
			Msg("determinism check failed, overriding summary")
		v.metrics.DeterminismChecks.WithLabelValues(metrics.VerdictMismatch).Inc()
		if err := v.override(integrity.CodeReconNonDeterministic,
			"reconciliation produced different output on repeated runs", &run1.Summary.Provenance); err != nil {
			return nil, err
		}
		return report, ErrNonDeterministic
	}

	if len(run1.Summary.Provenance.Sources) == 0 || len(run2.Summary.Provenance.Sources) == 0 {
		v.log.Error().Msg("provenance missing from summary, overriding")
		v.metrics.DeterminismChecks.WithLabelValues(metrics.VerdictProvenanceMissing).Inc()
		if err := v.override(integrity.CodeProvenanceMissing,
			"summary carries no input provenance", nil); err != nil {
			return nil, err
		}
		return report, ErrProvenanceMissing
	}

	// Run 2 published last; restore run 1 so the earlier trustworthy
	// snapshot (and its timestamp) wins.
	if err := v.store.Publish(run1.RunID); err != nil {
		return nil, fmt.Errorf("restore run 1 summary: %w", err)
	}
	v.metrics.DeterminismChecks.WithLabelValues(metrics.VerdictMatch).Inc()
	v.log.Info().
		Str("hash", hash1).
		Str("published_run", run1.RunID).
		Msg("determinism check passed")
	return report, nil
}

func (v *Verifier) runOnce(ctx context.Context, n int, from, to string) (*recon.Result, error) {
	v.log.Info().Int("run", n).Msg("starting reconciliation run")
	result, err := v.rec.Run(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("run %d: %w", n, err)
	}
	if result.Failed() {
		// The gate envelope is already published; verification has nothing
		// to compare.
		return nil, fmt.Errorf("run %d failed closed: %s", n, result.Envelope.Error.Code)
	}
	return result, nil
}

// override replaces the published summary with a CRITICAL error envelope.
func (v *Verifier) override(code integrity.Code, message string, provenance *recon.Provenance) error {
	envelope := &recon.ErrorEnvelope{
		Status:      "error",
		Schema:      recon.SchemaSummary,
		GeneratedAt: v.now().UTC().Format(time.RFC3339Nano),
		Error:       recon.ErrorInfo{Code: string(code), Message: message},
		Provenance:  provenance,
	}
	return v.store.PublishOverride(envelope)
}
