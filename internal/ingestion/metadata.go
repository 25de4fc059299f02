package ingestion

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"
)

// Metadata describes where a document's text came from.
type Metadata struct {
	Source    string `json:"source"`              // path, upload key or URL
	Format    string `json:"format,omitempty"`    // extension or "url"
	Title     string `json:"title,omitempty"`     // page title for URLs
	Platform  string `json:"platform,omitempty"`  // detected job board platform
	Timestamp string `json:"timestamp"`           // RFC3339 format
	Hash      string `json:"hash"`                // SHA256 hex digest of the text
	Chars     int    `json:"chars"`               // length of the extracted text
	Rendered  bool   `json:"rendered,omitempty"` // fetched through a headless browser
}

// NewMetadata creates Metadata for text read from source.
func NewMetadata(text, source, format string) *Metadata {
	return &Metadata{
		Source:    source,
		Format:    format,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Hash:      computeHash(text),
		Chars:     len(text),
	}
}

func computeHash(content string) string {
	hash := sha256.Sum256([]byte(content))
	return hex.EncodeToString(hash[:])
}

// ToJSON marshals Metadata to pretty-printed JSON.
func (m *Metadata) ToJSON() ([]byte, error) {
	jsonBytes, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal metadata to JSON: %w", err)
	}
	return jsonBytes, nil
}
