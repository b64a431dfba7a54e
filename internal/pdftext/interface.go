package pdftext

import "context"

// Document is the plain text of a minutes PDF.
type Document struct {
	Text  string
	Pages int
}

// Extractor pulls plain text out of a PDF file.
type Extractor interface {
	Extract(ctx context.Context, path string) (Document, error)
}
