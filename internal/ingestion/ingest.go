package ingestion

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// Supported formats
const (
	FormatPDF  = "pdf"
	FormatText = "text"
)

// ErrUnsupportedFormat is returned for files that are neither PDF nor plain text.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// Error describes a failed ingestion stage.
type Error struct {
	Stage    string
	FileName string
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("ingestion %s failed for %s: %v", e.Stage, e.FileName, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Document is an uploaded file reduced to clean text.
type Document struct {
	Text     string
	Metadata *Metadata
}

// DetectFormat picks a format from the file extension, falling back to content sniffing.
func DetectFormat(fileName string, data []byte) (string, error) {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".pdf":
		return FormatPDF, nil
	case ".txt", ".md", ".text":
		return FormatText, nil
	}

	if bytes.HasPrefix(data, []byte("%PDF-")) {
		return FormatPDF, nil
	}
	if strings.HasPrefix(http.DetectContentType(data), "text/plain") && utf8.Valid(data) {
		return FormatText, nil
	}
	return "", ErrUnsupportedFormat
}

// Ingest extracts and cleans the text of an uploaded CV file.
func Ingest(fileName string, data []byte) (*Document, error) {
	if len(data) == 0 {
		return nil, &Error{Stage: "read", FileName: fileName, Err: errors.New("file is empty")}
	}
	format, err := DetectFormat(fileName, data)
	if err != nil {
		return nil, &Error{Stage: "detect", FileName: fileName, Err: err}
	}

	var raw string
	pages := 0
	switch format {
	case FormatPDF:
		raw, pages, err = ExtractPDFText(data)
		if err != nil {
			return nil, &Error{Stage: "extract", FileName: fileName, Err: err}
		}
	default:
		raw = string(data)
	}

	text := CleanText(raw)
	if text == "" {
		return nil, &Error{Stage: "extract", FileName: fileName, Err: errors.New("no text content found")}
	}

	meta := NewMetadata(fileName, format, data, text)
	meta.Pages = pages
	return &Document{Text: text, Metadata: meta}, nil
}

// TitleFromFileName returns the file name without directory or extension.
func TitleFromFileName(fileName string) string {
	base := filepath.Base(strings.ReplaceAll(fileName, "\\", "/"))
	return strings.TrimSuffix(base, filepath.Ext(base))
}
