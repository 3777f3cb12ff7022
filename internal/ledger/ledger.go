// Package ledger reads the append-only execution ledger, the source of truth
// for what actually traded. The engine never writes to it.
package ledger

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
)

// Entry is one ledger line: the number of trades executed on a date.
type Entry struct {
	Date         string `json:"date"`
	ActualTrades int    `json:"actual_trades"`
}

// Book is the loaded ledger: date -> executed trade count. Absent dates mean
// zero executions.
type Book struct {
	counts map[string]int
	total  int
}

// Empty returns a ledger with no executions anywhere.
func Empty() *Book {
	return &Book{counts: make(map[string]int)}
}

// Load reads a JSONL ledger file. A missing file yields an empty book with no
// error; whether zero coverage is acceptable is the coverage gate's call, not
// this reader's. Any malformed line is an error: a partially read source of
// truth is worse than none.
func Load(path string) (*Book, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Empty(), nil
		}
		return nil, fmt.Errorf("open ledger: %w", err)
	}
	defer f.Close()

	book := Empty()
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var entry Entry
		if err := json.Unmarshal(line, &entry); err != nil {
			return nil, fmt.Errorf("ledger line %d: %w", lineNo, err)
		}
		if entry.ActualTrades < 0 {
			return nil, fmt.Errorf("ledger line %d: negative trade count %d", lineNo, entry.ActualTrades)
		}
		// A date may legitimately appear more than once; counts sum.
		book.counts[entry.Date] += entry.ActualTrades
		book.total += entry.ActualTrades
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read ledger: %w", err)
	}
	return book, nil
}

// Actions returns the executed trade count for a date (zero when absent).
func (b *Book) Actions(date string) int {
	return b.counts[date]
}

// Total returns the summed trade count across all dates.
func (b *Book) Total() int {
	return b.total
}

// ExecutionRange returns the min and max dates carrying at least one
// execution. ok is false when nothing executed.
func (b *Book) ExecutionRange() (min, max string, ok bool) {
	for date, count := range b.counts {
		if count == 0 {
			continue
		}
		if !ok {
			min, max, ok = date, date, true
			continue
		}
		if date < min {
			min = date
		}
		if date > max {
			max = date
		}
	}
	return min, max, ok
}
