// Package decision resolves the final gate decision from the precheck verdict
// and the execution ledger. The ledger is the source of truth: once a trade is
// on record the computed signal is advisory only.
package decision

import (
	"github.com/reconrun/reconrun/internal/domain/regime"
)

// ReasonExecutedOverride marks a final decision forced to PASS because the
// ledger records an execution on that day.
const ReasonExecutedOverride regime.Reason = "EXECUTED_SOT_OVERRIDE"

// Final is the decision after the ledger-override rule is applied.
type Final struct {
	Decision regime.GateDecision
	Reason   regime.Reason
}

type tableKey struct {
	precheck regime.GateDecision
	executed bool
}

type tableRow struct {
	decision regime.GateDecision
	override bool // true: reason becomes EXECUTED_SOT_OVERRIDE, else precheck reason is kept
}

// truthTable makes the override rule auditable at a glance: any executed day
// resolves to PASS, and an unexecuted day echoes the precheck verdict.
var truthTable = map[tableKey]tableRow{
	{regime.Pass, false}:  {regime.Pass, false},
	{regime.Block, false}: {regime.Block, false},
	{regime.Pass, true}:   {regime.Pass, true},
	{regime.Block, true}:  {regime.Pass, true},
}

// Resolve applies the truth table to one day's precheck and execution state.
func Resolve(pre regime.Precheck, executed bool) Final {
	row := truthTable[tableKey{pre.Decision, executed}]
	reason := pre.Reason
	if row.override {
		reason = ReasonExecutedOverride
	}
	return Final{Decision: row.decision, Reason: reason}
}
