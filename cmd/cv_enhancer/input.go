package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/jonathan/cv-enhancer/internal/cv"
	"github.com/jonathan/cv-enhancer/internal/ingestion"
	"github.com/jonathan/cv-enhancer/internal/server"
)

// loadCVFile reads a CV. JSON files hold a stored CV record; PDF and text files are reduced to
// their text, which becomes the profile summary so keyword matching sees all of it.
func loadCVFile(path string) (cv.Canonical, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return cv.Canonical{}, fmt.Errorf("failed to read CV file: %w", err)
	}

	if strings.EqualFold(filepath.Ext(path), ".json") {
		var rec cv.Record
		if err := json.Unmarshal(data, &rec); err != nil {
			return cv.Canonical{}, fmt.Errorf("failed to parse CV JSON %s: %w", path, err)
		}
		return cv.Normalize(rec), nil
	}

	doc, err := ingestion.Ingest(filepath.Base(path), data)
	if err != nil {
		return cv.Canonical{}, err
	}
	return cv.Normalize(cv.Record{ProfileSummary: doc.Text}), nil
}

// readJobDescription returns the job description named by source: an http(s) URL is fetched
// with jobs, "-" reads stdin and anything else is a file path.
func readJobDescription(ctx context.Context, source string, stdin io.Reader, jobs server.JobExtractor) (string, error) {
	switch {
	case strings.HasPrefix(source, "http://"), strings.HasPrefix(source, "https://"):
		text, err := jobs.Extract(ctx, source)
		if err != nil {
			return "", err
		}
		if strings.TrimSpace(text) == "" {
			return "", fmt.Errorf("no job description found at %s", source)
		}
		return text, nil
	case source == "-":
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read job description from stdin: %w", err)
		}
		return string(data), nil
	default:
		data, err := os.ReadFile(source)
		if err != nil {
			return "", fmt.Errorf("failed to read job description file: %w", err)
		}
		return string(data), nil
	}
}
