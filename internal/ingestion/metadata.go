package ingestion

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
	"unicode/utf8"
)

// Metadata describes an ingested file.
type Metadata struct {
	FileName  string `json:"file_name"`
	Format    string `json:"format"`
	Pages     int    `json:"pages,omitempty"`
	Chars     int    `json:"chars"`
	Hash      string `json:"hash"`      // SHA256 hex digest of the raw file
	Timestamp string `json:"timestamp"` // RFC3339
}

// NewMetadata creates metadata for a file and its extracted text.
func NewMetadata(fileName, format string, raw []byte, text string) *Metadata {
	return &Metadata{
		FileName:  fileName,
		Format:    format,
		Chars:     utf8.RuneCountInString(text),
		Hash:      computeHash(raw),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

func computeHash(content []byte) string {
	hash := sha256.Sum256(content)
	return hex.EncodeToString(hash[:])
}
