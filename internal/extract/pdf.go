package extract

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	pdflib "github.com/ledongthuc/pdf"
)

// PDF extracts the text of a PDF file. It tries the Go library first, then
// falls back to pdftotext when enabled.
func PDF(ctx context.Context, path string, fallback bool) (string, error) {
	text, err := pdfText(path)
	if err != nil && fallback {
		text, err = pdftotext(ctx, path)
	}
	if err != nil {
		return "", fmt.Errorf("extract pdf text: %w", err)
	}
	// Form feeds separate pages; baked output wants paragraph breaks.
	return strings.TrimSpace(strings.ReplaceAll(text, "\f", "\n\n")), nil
}

func pdfText(path string) (string, error) {
	f, reader, err := pdflib.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var buf strings.Builder
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		if i > 1 {
			buf.WriteString("\f")
		}
		buf.WriteString(text)
	}
	return buf.String(), nil
}

func pdftotext(ctx context.Context, path string) (string, error) {
	cmd := exec.CommandContext(ctx, "pdftotext", "-layout", path, "-")
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("pdftotext: %w", err)
	}
	return string(out), nil
}
