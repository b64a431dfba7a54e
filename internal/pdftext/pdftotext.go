package pdftext

import (
	"context"
	"fmt"
	"strings"
)

// Extract shells out to poppler's pdftotext. Pages are separated by form feeds.
func (e *implPdftotext) Extract(ctx context.Context, path string) (Document, error) {
	// pdftotext -layout -enc UTF-8 -eol unix <path> -
	out, err := e.executor.Execute(ctx, e.binary, "-layout", "-enc", "UTF-8", "-eol", "unix", path, "-")
	if err != nil {
		return Document{}, fmt.Errorf("pdftotext: %w", err)
	}

	pages := strings.Split(out, "\f")
	// A trailing form feed leaves an empty last element.
	if len(pages) > 1 && strings.TrimSpace(pages[len(pages)-1]) == "" {
		pages = pages[:len(pages)-1]
	}

	doc := Document{Text: joinPages(pages), Pages: len(pages)}
	e.logger.Info(ctx, "Extracted %d chars from %d pages: %s", len(doc.Text), doc.Pages, path)
	return doc, nil
}
