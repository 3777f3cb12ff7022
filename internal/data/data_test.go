package data

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadBars(t *testing.T) {
	path := writeFile(t, "evidence.csv", `date,open,high,low,close
2024-01-03,101,102,100,101.5
2024-01-02,100,101,99,100.5
`)

	bars, err := LoadBars(path)
	require.NoError(t, err)
	require.Len(t, bars, 2)

	// Rows come back date-ascending regardless of file order.
	assert.Equal(t, "2024-01-02", bars[0].Date)
	assert.Equal(t, "2024-01-03", bars[1].Date)
	assert.Equal(t, 100.5, bars[0].Close)
	assert.Equal(t, 102.0, bars[1].High)
}

func TestLoadBars_MissingFileIsEmpty(t *testing.T) {
	bars, err := LoadBars(filepath.Join(t.TempDir(), "nope.csv"))
	require.NoError(t, err)
	assert.Empty(t, bars)
}

func TestLoadBars_DuplicateDateFails(t *testing.T) {
	path := writeFile(t, "evidence.csv", `date,open,high,low,close
2024-01-02,100,101,99,100.5
2024-01-02,100,101,99,100.5
`)
	_, err := LoadBars(path)
	assert.Error(t, err)
}

func TestLoadBars_MissingColumnFails(t *testing.T) {
	path := writeFile(t, "evidence.csv", `date,open,high,low
2024-01-02,100,101,99
`)
	_, err := LoadBars(path)
	assert.Error(t, err)
}

func TestLoadBars_BadNumberFails(t *testing.T) {
	path := writeFile(t, "evidence.csv", `date,open,high,low,close
2024-01-02,100,101,99,abc
`)
	_, err := LoadBars(path)
	assert.Error(t, err)
}

func TestLoadValidationTotal(t *testing.T) {
	path := writeFile(t, "oos.json", `{
  "years": {
    "2024": {"summary": {"trades": 12}},
    "2025": {"summary": {"trades": 8}}
  }
}`)
	assert.Equal(t, 20, LoadValidationTotal(path))
}

func TestLoadValidationTotal_DegradesToZero(t *testing.T) {
	assert.Equal(t, 0, LoadValidationTotal(filepath.Join(t.TempDir(), "nope.json")))
	assert.Equal(t, 0, LoadValidationTotal(writeFile(t, "bad.json", "not json")))
}

func TestLoadBaseline(t *testing.T) {
	path := writeFile(t, "baseline.json", `{"evidence":{"min_date":"2024-01-01","max_date":"2025-12-31"}}`)

	baseline, err := LoadBaseline(path)
	require.NoError(t, err)
	require.NotNil(t, baseline)
	assert.Equal(t, "2024-01-01", baseline.Evidence.MinDate)
	assert.Equal(t, "2025-12-31", baseline.Evidence.MaxDate)
}

func TestLoadBaseline_MissingFileIsNil(t *testing.T) {
	baseline, err := LoadBaseline(filepath.Join(t.TempDir(), "nope.json"))
	require.NoError(t, err)
	assert.Nil(t, baseline)
}

func TestLoadBaseline_MalformedFails(t *testing.T) {
	_, err := LoadBaseline(writeFile(t, "bad.json", "not json"))
	assert.Error(t, err)

	_, err = LoadBaseline(writeFile(t, "empty.json", `{"evidence":{}}`))
	assert.Error(t, err)
}
