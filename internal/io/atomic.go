package io

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// writeAtomic stages data in a sibling temp file and renames it over path so
// a concurrent reader never observes a partial artifact.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return nil
}

// WriteFileAtomic writes raw bytes to path atomically.
func WriteFileAtomic(path string, data []byte) error {
	return writeAtomic(path, data)
}

// WriteJSONAtomic marshals v as indented JSON and writes it atomically.
func WriteJSONAtomic(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", path, err)
	}
	return writeAtomic(path, append(data, '\n'))
}

// WriteLinesAtomic writes one line per element, newline-terminated, atomically.
// Used for line-oriented artifacts that are regenerated whole each run.
func WriteLinesAtomic(path string, lines [][]byte) error {
	var buf []byte
	for _, line := range lines {
		buf = append(buf, line...)
		buf = append(buf, '\n')
	}
	return writeAtomic(path, buf)
}

// CopyFileAtomic copies src into dst atomically. Artifacts here are small
// summary/log files, so the copy is staged through memory.
func CopyFileAtomic(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return writeAtomic(dst, data)
}
