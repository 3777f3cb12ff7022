package data

import (
	"encoding/json"
	"os"
)

// validationReport mirrors the shape of the independently produced
// trade-count report: per-year summaries with a trades total.
type validationReport struct {
	Years map[string]struct {
		Summary struct {
			Trades int `json:"trades"`
		} `json:"summary"`
	} `json:"years"`
}

// LoadValidationTotal sums the trade counts reported by the validation
// report. The total is informational only (it feeds the L1/L2 delta), so any
// read or parse failure degrades to zero instead of failing the run.
func LoadValidationTotal(path string) int {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0
	}
	var report validationReport
	if err := json.Unmarshal(data, &report); err != nil {
		return 0
	}
	total := 0
	for _, year := range report.Years {
		total += year.Summary.Trades
	}
	return total
}
