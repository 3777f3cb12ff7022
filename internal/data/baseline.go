package data

import (
	"encoding/json"
	"fmt"
	"os"
)

// DateRange is an inclusive [min, max] span of YYYY-MM-DD dates.
type DateRange struct {
	MinDate string `json:"min_date"`
	MaxDate string `json:"max_date"`
}

// Baseline is a previously accepted evidence range, used to detect silent
// shrinkage of audit coverage between runs.
type Baseline struct {
	Evidence DateRange `json:"evidence"`
}

// LoadBaseline reads the coverage baseline. A missing file returns nil with
// no error: the first accepted run has nothing to regress against. A present
// but unreadable baseline is an error, since silently skipping the regression
// check would defeat it.
func LoadBaseline(path string) (*Baseline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read baseline: %w", err)
	}
	var baseline Baseline
	if err := json.Unmarshal(data, &baseline); err != nil {
		return nil, fmt.Errorf("parse baseline: %w", err)
	}
	if baseline.Evidence.MinDate == "" || baseline.Evidence.MaxDate == "" {
		return nil, fmt.Errorf("baseline missing evidence min/max dates")
	}
	return &baseline, nil
}
