package recon

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
	"time"
)

// Canonical source names used in provenance blocks.
const (
	sourceLedger     = "LEDGER"
	sourceEvidence   = "EVIDENCE"
	sourceValidation = "VALIDATION"
	sourceBaseline   = "BASELINE"
)

// describeSource captures one input file's provenance: path, mtime, size and
// a content hash over its bytes. A missing file is recorded, not fatal.
func describeSource(name, path string) SourceInfo {
	info, err := os.Stat(path)
	if err != nil {
		return SourceInfo{Name: name, Path: path, Error: "file not found"}
	}

	sum, err := hashFile(path)
	if err != nil {
		return SourceInfo{Name: name, Path: path, Error: err.Error()}
	}

	return SourceInfo{
		Name:      name,
		Path:      path,
		MtimeISO:  info.ModTime().UTC().Format(time.RFC3339),
		SizeBytes: info.Size(),
		SHA256:    sum,
	}
}

func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
