package regime

import (
	"github.com/reconrun/reconrun/internal/domain/indicators"
)

// Regime is the market regime implied by the evidence.
type Regime string

const (
	Bull    Regime = "bull"
	Bear    Regime = "bear"
	Neutral Regime = "neutral"
	Unknown Regime = "unknown"
)

// GateDecision is a trading-gate verdict.
type GateDecision string

const (
	Pass  GateDecision = "PASS"
	Block GateDecision = "BLOCK"
)

// Reason is a closed-set reason code attached to a gate decision.
type Reason string

const (
	ReasonNone        Reason = "NONE"
	ReasonNoData      Reason = "NO_DATA"
	ReasonDataMissing Reason = "DATA_MISSING"
	ReasonChopBlock   Reason = "CHOP_BLOCK"
	ReasonBearBlock   Reason = "BEAR_BLOCK"
)

// Precheck is what the signal logic alone decides, before execution history
// is consulted.
type Precheck struct {
	Regime   Regime
	Decision GateDecision
	Reason   Reason
}

// Classify maps evidence to a regime and a precheck gate decision. Rules run
// in fixed priority order; threshold comparisons are strict, so trend
// strength exactly at the chop threshold is not chop.
func Classify(ev indicators.Evidence, chopThreshold float64) Precheck {
	switch ev.Status {
	case indicators.StatusNoData:
		return Precheck{Regime: Unknown, Decision: Block, Reason: ReasonNoData}
	case indicators.StatusDataMissing:
		return Precheck{Regime: Unknown, Decision: Block, Reason: ReasonDataMissing}
	}

	if ev.TrendStrength < chopThreshold {
		return Precheck{Regime: Neutral, Decision: Block, Reason: ReasonChopBlock}
	}
	if ev.MAShort < ev.MALong {
		return Precheck{Regime: Bear, Decision: Block, Reason: ReasonBearBlock}
	}
	return Precheck{Regime: Bull, Decision: Pass, Reason: ReasonNone}
}
