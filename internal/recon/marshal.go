package recon

import (
	"encoding/json"
	"fmt"
)

// marshalDaily renders the daily records as JSONL lines, one self-contained
// record per line in date order.
func marshalDaily(records []DailyRecord) ([][]byte, error) {
	lines := make([][]byte, 0, len(records))
	for _, rec := range records {
		line, err := json.Marshal(rec)
		if err != nil {
			return nil, fmt.Errorf("marshal daily record %s: %w", rec.TradeDate, err)
		}
		lines = append(lines, line)
	}
	return lines, nil
}
