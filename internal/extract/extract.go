// Package extract pulls plain text out of non-markdown files so the baker
// can inline their content verbatim.
package extract

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Options tune extraction behavior.
type Options struct {
	// FallbackPdftotext shells out to pdftotext when the Go PDF reader fails.
	FallbackPdftotext bool
}

// SupportedExtensions lists the asset types that can bake as text.
var SupportedExtensions = map[string]bool{
	".txt":  true,
	".csv":  true,
	".html": true,
	".htm":  true,
	".pdf":  true,
	".docx": true,
}

// Supported checks if a file extension has an extractor.
func Supported(filename string) bool {
	return SupportedExtensions[strings.ToLower(filepath.Ext(filename))]
}

// File extracts the text content of the file at path.
func File(ctx context.Context, path string, opts Options) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt":
		data, err := os.ReadFile(path)
		if err != nil {
			return "", err
		}
		return string(data), nil
	case ".csv":
		f, err := os.Open(path)
		if err != nil {
			return "", err
		}
		defer f.Close()
		return CSV(f)
	case ".html", ".htm":
		f, err := os.Open(path)
		if err != nil {
			return "", err
		}
		defer f.Close()
		return HTML(f)
	case ".pdf":
		return PDF(ctx, path, opts.FallbackPdftotext)
	case ".docx":
		return DOCX(path)
	default:
		return "", fmt.Errorf("unsupported file extension: %s", filepath.Ext(path))
	}
}
