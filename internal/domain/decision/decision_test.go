package decision

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/reconrun/reconrun/internal/domain/regime"
)

func TestResolve_TruthTable(t *testing.T) {
	tests := []struct {
		name     string
		pre      regime.Precheck
		executed bool
		want     Final
	}{
		{
			name:     "pass without execution keeps precheck",
			pre:      regime.Precheck{Decision: regime.Pass, Reason: regime.ReasonNone},
			executed: false,
			want:     Final{Decision: regime.Pass, Reason: regime.ReasonNone},
		},
		{
			name:     "block without execution keeps precheck",
			pre:      regime.Precheck{Decision: regime.Block, Reason: regime.ReasonChopBlock},
			executed: false,
			want:     Final{Decision: regime.Block, Reason: regime.ReasonChopBlock},
		},
		{
			name:     "pass with execution becomes ledger override",
			pre:      regime.Precheck{Decision: regime.Pass, Reason: regime.ReasonNone},
			executed: true,
			want:     Final{Decision: regime.Pass, Reason: ReasonExecutedOverride},
		},
		{
			name:     "block with execution is overridden to pass",
			pre:      regime.Precheck{Decision: regime.Block, Reason: regime.ReasonBearBlock},
			executed: true,
			want:     Final{Decision: regime.Pass, Reason: ReasonExecutedOverride},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Resolve(tt.pre, tt.executed))
		})
	}
}

func TestResolve_ExecutedNeverBlocks(t *testing.T) {
	// The core invariant: an executed day must resolve to PASS no matter what
	// the signal computed.
	for _, reason := range []regime.Reason{
		regime.ReasonNoData, regime.ReasonDataMissing,
		regime.ReasonChopBlock, regime.ReasonBearBlock, regime.ReasonNone,
	} {
		for _, dec := range []regime.GateDecision{regime.Pass, regime.Block} {
			final := Resolve(regime.Precheck{Decision: dec, Reason: reason}, true)
			assert.Equal(t, regime.Pass, final.Decision)
			assert.Equal(t, ReasonExecutedOverride, final.Reason)
		}
	}
}
