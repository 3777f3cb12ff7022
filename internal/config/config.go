package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the full run configuration for the audit engine. Every tunable
// is passed down explicitly; nothing in the engine reads this from a global.
type Config struct {
	Params ParamsConfig `yaml:"params"`
	Inputs InputsConfig `yaml:"inputs"`
	Output OutputConfig `yaml:"output"`
}

// ParamsConfig holds the evidence/signal parameters.
type ParamsConfig struct {
	MAShort       int     `yaml:"ma_short"`       // short moving-average window (bars)
	MALong        int     `yaml:"ma_long"`        // long moving-average window (bars)
	TrendPeriod   int     `yaml:"trend_period"`   // trend-strength smoothing window (bars)
	ChopThreshold float64 `yaml:"chop_threshold"` // below this the market counts as chop
}

// InputsConfig points at the read-only input files.
type InputsConfig struct {
	LedgerPath     string `yaml:"ledger_path"`     // append-only execution ledger (JSONL)
	EvidencePath   string `yaml:"evidence_path"`   // OHLC price bars (CSV)
	ValidationPath string `yaml:"validation_path"` // independent trade-count report (JSON)
	BaselinePath   string `yaml:"baseline_path"`   // coverage baseline (JSON)
}

// OutputConfig points at the artifact directory.
type OutputConfig struct {
	Dir string `yaml:"dir"`
}

// Default returns the baseline configuration used when no config file is given.
func Default() Config {
	return Config{
		Params: ParamsConfig{
			MAShort:       60,
			MALong:        120,
			TrendPeriod:   30,
			ChopThreshold: 17.5,
		},
		Inputs: InputsConfig{
			LedgerPath:     "data/ledger/daily_ledger.jsonl",
			EvidencePath:   "data/price/evidence_daily.csv",
			ValidationPath: "data/validation/oos_monthly.json",
			BaselinePath:   "data/recon/coverage_baseline.json",
		},
		Output: OutputConfig{
			Dir: "out/recon",
		},
	}
}

// Load reads a YAML config file, filling any absent fields from Default.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config YAML: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate rejects parameter combinations the evidence calculator cannot run with.
func (c Config) Validate() error {
	if c.Params.MAShort <= 0 || c.Params.MALong <= 0 || c.Params.TrendPeriod <= 0 {
		return fmt.Errorf("config: window lengths must be positive (ma_short=%d ma_long=%d trend_period=%d)",
			c.Params.MAShort, c.Params.MALong, c.Params.TrendPeriod)
	}
	if c.Params.MAShort >= c.Params.MALong {
		return fmt.Errorf("config: ma_short (%d) must be shorter than ma_long (%d)", c.Params.MAShort, c.Params.MALong)
	}
	if c.Params.ChopThreshold < 0 {
		return fmt.Errorf("config: chop_threshold must be >= 0, got %v", c.Params.ChopThreshold)
	}
	if c.Output.Dir == "" {
		return fmt.Errorf("config: output dir must not be empty")
	}
	return nil
}
