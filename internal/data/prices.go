// Package data loads the read-only input files the audit runs against.
package data

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"

	"github.com/reconrun/reconrun/internal/domain/indicators"
)

// LoadBars reads an OHLC CSV (header date,open,high,low,close) into
// date-ascending bars. A missing file yields an empty series: per-day
// evidence degrades to NO_DATA and the coverage gate decides whether the run
// survives.
func LoadBars(path string) ([]indicators.Bar, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open evidence: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read evidence header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[name] = i
	}
	for _, name := range []string{"date", "open", "high", "low", "close"} {
		if _, ok := col[name]; !ok {
			return nil, fmt.Errorf("evidence CSV missing column %q", name)
		}
	}

	var bars []indicators.Bar
	seen := make(map[string]bool)
	for lineNo := 2; ; lineNo++ {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("evidence line %d: %w", lineNo, err)
		}
		bar := indicators.Bar{Date: rec[col["date"]]}
		if seen[bar.Date] {
			return nil, fmt.Errorf("evidence line %d: duplicate date %s", lineNo, bar.Date)
		}
		seen[bar.Date] = true
		for _, field := range []struct {
			name string
			dst  *float64
		}{
			{"open", &bar.Open},
			{"high", &bar.High},
			{"low", &bar.Low},
			{"close", &bar.Close},
		} {
			v, err := strconv.ParseFloat(rec[col[field.name]], 64)
			if err != nil {
				return nil, fmt.Errorf("evidence line %d: bad %s: %w", lineNo, field.name, err)
			}
			*field.dst = v
		}
		bars = append(bars, bar)
	}

	sort.Slice(bars, func(i, j int) bool { return bars[i].Date < bars[j].Date })
	return bars, nil
}
