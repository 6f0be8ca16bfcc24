package library

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
)

var blankRuns = regexp.MustCompile(`\n{3,}`)

// ExtractPDF returns the plain text of every readable page of the PDF at
// path. Pages that fail to decode are skipped.
func ExtractPDF(path string) (string, int, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", 0, fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	var b strings.Builder
	pages := r.NumPage()
	for i := 1; i <= pages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		b.WriteString(text)
		b.WriteString("\n\n")
	}
	return cleanText(b.String()), pages, nil
}

func cleanText(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = blankRuns.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

// ImportPDF extracts the text of a PDF into meta and stores it. The title
// defaults to the file name.
func (l *Library) ImportPDF(ctx context.Context, path string, meta Novel) (Novel, error) {
	text, pages, err := ExtractPDF(path)
	if err != nil {
		return Novel{}, err
	}
	if strings.TrimSpace(text) == "" {
		return Novel{}, fmt.Errorf("no extractable text in %s", filepath.Base(path))
	}
	if meta.Title == "" {
		meta.Title = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	meta.Text = text
	meta.Pages = pages
	return l.Save(ctx, meta)
}
