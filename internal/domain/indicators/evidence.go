package indicators

import (
	"math"

	talib "github.com/markcheno/go-talib"
)

// Status describes whether evidence could be derived for a date.
type Status string

const (
	StatusOK          Status = "OK"
	StatusDataMissing Status = "DATA_MISSING" // date present but trailing window too short
	StatusNoData      Status = "NO_DATA"      // date absent from the series
)

// Bar is one OHLC price bar. Dates use YYYY-MM-DD, one bar per trading day.
type Bar struct {
	Date  string
	Open  float64
	High  float64
	Low   float64
	Close float64
}

// Evidence is the derived market evidence for a single date.
type Evidence struct {
	Status        Status
	MAShort       float64
	MALong        float64
	TrendStrength float64 // bounded 0-100 directional-strength oscillator
}

// Params holds the window lengths for evidence derivation.
type Params struct {
	MAShort     int
	MALong      int
	TrendPeriod int
}

// Series precomputes evidence for a full bar series so per-date lookups are
// O(1) and every run over the same bars yields identical values.
type Series struct {
	dates   []string
	index   map[string]int
	maShort []float64
	maLong  []float64
	trend   []float64
	minBars int
}

// NewSeries derives evidence over bars, which must be date-ascending with one
// bar per trading day. All windows end at the evaluated bar; no future data is
// consulted.
func NewSeries(bars []Bar, p Params) *Series {
	n := len(bars)
	s := &Series{
		dates:   make([]string, n),
		index:   make(map[string]int, n),
		minBars: p.MALong,
	}
	if m := 2 * p.TrendPeriod; m > s.minBars {
		s.minBars = m
	}

	closes := make([]float64, n)
	plusDM := make([]float64, n)
	minusDM := make([]float64, n)
	trueRange := make([]float64, n)

	for i, bar := range bars {
		s.dates[i] = bar.Date
		s.index[bar.Date] = i
		closes[i] = bar.Close

		if i == 0 {
			trueRange[i] = bar.High - bar.Low
			continue
		}
		prev := bars[i-1]
		plusDM[i] = math.Max(bar.High-prev.High, 0)
		minusDM[i] = math.Max(prev.Low-bar.Low, 0)
		trueRange[i] = math.Max(bar.High-bar.Low,
			math.Max(math.Abs(bar.High-prev.Close), math.Abs(bar.Low-prev.Close)))
	}

	s.maShort = rollingMean(closes, p.MAShort)
	s.maLong = rollingMean(closes, p.MALong)

	avgPlusDM := rollingMean(plusDM, p.TrendPeriod)
	avgMinusDM := rollingMean(minusDM, p.TrendPeriod)
	avgTR := rollingMean(trueRange, p.TrendPeriod)

	dx := make([]float64, n)
	for i := 0; i < n; i++ {
		plusDI := safeRatio(100*avgPlusDM[i], avgTR[i])
		minusDI := safeRatio(100*avgMinusDM[i], avgTR[i])
		dx[i] = safeRatio(100*math.Abs(plusDI-minusDI), plusDI+minusDI)
	}
	s.trend = rollingMean(dx, p.TrendPeriod)

	return s
}

// At returns the evidence for date. Absent dates yield NO_DATA; dates whose
// trailing window is shorter than the longest lookback yield DATA_MISSING.
func (s *Series) At(date string) Evidence {
	i, ok := s.index[date]
	if !ok {
		return Evidence{Status: StatusNoData}
	}
	if i+1 < s.minBars {
		return Evidence{Status: StatusDataMissing}
	}
	return Evidence{
		Status:        StatusOK,
		MAShort:       s.maShort[i],
		MALong:        s.maLong[i],
		TrendStrength: s.trend[i],
	}
}

// Empty reports whether the series holds no bars at all.
func (s *Series) Empty() bool { return len(s.dates) == 0 }

// MinDate returns the earliest bar date, or "" for an empty series.
func (s *Series) MinDate() string {
	if len(s.dates) == 0 {
		return ""
	}
	return s.dates[0]
}

// MaxDate returns the latest bar date, or "" for an empty series.
func (s *Series) MaxDate() string {
	if len(s.dates) == 0 {
		return ""
	}
	return s.dates[len(s.dates)-1]
}

// Len returns the number of bars backing the series.
func (s *Series) Len() int { return len(s.dates) }

// rollingMean is a simple moving average over a trailing window. Entries
// before the window fills are zero and sit inside the DATA_MISSING zone.
func rollingMean(vals []float64, period int) []float64 {
	if period <= 0 || len(vals) < period {
		return make([]float64, len(vals))
	}
	return talib.Sma(vals, period)
}

// safeRatio divides num by denom, treating a zero denominator as zero
// movement rather than an error.
func safeRatio(num, denom float64) float64 {
	if denom == 0 {
		return 0
	}
	return num / denom
}
