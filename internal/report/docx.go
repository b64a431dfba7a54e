package report

import (
	"fmt"
	"time"

	"github.com/gomutex/godocx"
	"github.com/gomutex/godocx/docx"
)

const (
	docxFont     = "Times New Roman"
	docxBodySize = 12
)

// writeDocx renders the analysis blocks as styled runs in a docx file.
func (e *implExporter) writeDocx(path, analysis string, now time.Time) error {
	doc, err := godocx.NewDocument()
	if err != nil {
		return fmt.Errorf("create docx: %w", err)
	}

	addRuns(doc.AddParagraph(""), []span{{text: e.labels.Title, bold: true}}, 16)
	addRuns(doc.AddParagraph(""), []span{{text: fmt.Sprintf("%s: %s", e.labels.DatePrefix, now.Format(dateLayout))}}, 10)
	doc.AddParagraph("")

	for _, b := range parseBlocks(analysis) {
		switch b.kind {
		case blockHeading:
			addRuns(doc.AddParagraph(""), b.spans, uint64(headingSize(b.level)))
		case blockBullet:
			addRuns(doc.AddParagraph(""), append([]span{{text: "• "}}, b.spans...), docxBodySize)
		default:
			addRuns(doc.AddParagraph(""), b.spans, docxBodySize)
		}
	}

	if err := doc.SaveTo(path); err != nil {
		return fmt.Errorf("write docx: %w", err)
	}
	return nil
}

func addRuns(p *docx.Paragraph, spans []span, size uint64) {
	for _, s := range spans {
		run := p.AddText(s.text).Font(docxFont).Size(size).Color("000000")
		if s.bold {
			run.Bold(true)
		}
	}
}
