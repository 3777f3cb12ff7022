package verify

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/gowebpki/jcs"
)

// CanonicalHash strips the volatile fields from a summary (the top-level
// generation timestamp and the one nested under provenance), canonicalizes
// the remainder per RFC 8785, and returns its SHA-256. Two runs over
// identical inputs must hash identically.
func CanonicalHash(summary any) (string, error) {
	raw, err := json.Marshal(summary)
	if err != nil {
		return "", fmt.Errorf("marshal summary: %w", err)
	}

	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return "", fmt.Errorf("reparse summary: %w", err)
	}
	delete(doc, "generated_at")
	if prov, ok := doc["provenance"].(map[string]any); ok {
		delete(prov, "generated_at")
	}

	stripped, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("marshal stripped summary: %w", err)
	}
	canonical, err := jcs.Transform(stripped)
	if err != nil {
		return "", fmt.Errorf("canonicalize summary: %w", err)
	}

	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}
