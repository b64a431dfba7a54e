package report

import (
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"
)

const (
	pdfFont     = "Helvetica"
	pdfBodySize = 10
	pdfLine     = 14
)

// writePDF lays out the analysis on Letter pages: title, date, then one
// paragraph per non-empty line.
func (e *implExporter) writePDF(path, analysis string, now time.Time) error {
	doc := fpdf.New("P", "pt", "Letter", "")
	doc.SetMargins(72, 72, 72)
	doc.SetAutoPageBreak(true, 72)
	doc.AddPage()

	// Core fonts are cp1252; translate so accented Spanish renders.
	tr := doc.UnicodeTranslatorFromDescriptor("")

	doc.SetFont(pdfFont, "B", 18)
	doc.MultiCell(0, 22, tr(e.labels.Title), "", "C", false)
	doc.Ln(12)

	doc.SetFont(pdfFont, "", pdfBodySize)
	doc.MultiCell(0, pdfLine, tr(fmt.Sprintf("%s: %s", e.labels.DatePrefix, now.Format(dateLayout))), "", "L", false)
	doc.Ln(20)

	for _, b := range parseBlocks(analysis) {
		switch b.kind {
		case blockHeading:
			size := headingSize(b.level) - 2
			doc.SetFont(pdfFont, "B", size)
			doc.MultiCell(0, size+3, tr(b.plain()), "", "L", false)
		case blockBullet:
			writeSpans(doc, tr, append([]span{{text: "• "}}, b.spans...))
		default:
			writeSpans(doc, tr, b.spans)
		}
		doc.Ln(6)
	}

	if err := doc.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

// writeSpans flows the spans as one wrapped paragraph, switching to bold
// for emphasised runs.
func writeSpans(doc *fpdf.Fpdf, tr func(string) string, spans []span) {
	for _, s := range spans {
		style := ""
		if s.bold {
			style = "B"
		}
		doc.SetFont(pdfFont, style, pdfBodySize)
		doc.Write(pdfLine, tr(s.text))
	}
	doc.SetFont(pdfFont, "", pdfBodySize)
	doc.Ln(pdfLine)
}
