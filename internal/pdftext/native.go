package pdftext

import (
	"context"
	"fmt"

	"github.com/ledongthuc/pdf"
)

// Extract reads every page with the pure-Go PDF reader.
func (e *implNative) Extract(ctx context.Context, path string) (doc Document, err error) {
	// The reader panics on some malformed files.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("read pdf %s: %v", path, r)
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return Document{}, fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	total := r.NumPage()
	pages := make([]string, 0, total)
	for i := 1; i <= total; i++ {
		if err := ctx.Err(); err != nil {
			return Document{}, err
		}
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			e.logger.Warn(ctx, "Skipping unreadable page %d of %s: %v", i, path, err)
			continue
		}
		pages = append(pages, text)
	}

	doc = Document{Text: joinPages(pages), Pages: total}
	e.logger.Info(ctx, "Extracted %d chars from %d pages: %s", len(doc.Text), doc.Pages, path)
	return doc, nil
}
