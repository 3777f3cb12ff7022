package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 60, cfg.Params.MAShort)
	assert.Equal(t, 120, cfg.Params.MALong)
	assert.Equal(t, 30, cfg.Params.TrendPeriod)
	assert.Equal(t, 17.5, cfg.Params.ChopThreshold)
}

func TestLoad_OverridesAndDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "recon.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
params:
  ma_short: 20
  ma_long: 50
inputs:
  ledger_path: /srv/audit/ledger.jsonl
output:
  dir: /srv/audit/out
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 20, cfg.Params.MAShort)
	assert.Equal(t, 50, cfg.Params.MALong)
	assert.Equal(t, "/srv/audit/ledger.jsonl", cfg.Inputs.LedgerPath)
	assert.Equal(t, "/srv/audit/out", cfg.Output.Dir)

	// Fields absent from the file keep their defaults.
	assert.Equal(t, 30, cfg.Params.TrendPeriod)
	assert.Equal(t, 17.5, cfg.Params.ChopThreshold)
	assert.Equal(t, Default().Inputs.EvidencePath, cfg.Inputs.EvidencePath)
}

func TestLoad_MissingFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero window", func(c *Config) { c.Params.MAShort = 0 }},
		{"short not below long", func(c *Config) { c.Params.MAShort = c.Params.MALong }},
		{"negative threshold", func(c *Config) { c.Params.ChopThreshold = -1 }},
		{"empty output dir", func(c *Config) { c.Output.Dir = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
