package report

import (
	"errors"

	"github.com/nguyentantai21042004/actaudit/internal/pipeline"
)

var (
	// ErrEmptyReport is returned when there is no analysis to save.
	ErrEmptyReport = errors.New("no report to save")

	// ErrUnsupportedFormat is returned for output extensions other than .pdf, .txt, .md and .docx.
	ErrUnsupportedFormat = errors.New("unsupported report format")
)

// Bundle lists the files written by SaveAll.
type Bundle struct {
	TranscriptPath string
	MinutesPath    string
	AnalysisPath   string
}

// Exporter writes audit results to disk.
type Exporter interface {
	// Save writes the analysis alone; the format follows the file extension.
	Save(path, analysis string) error
	// SaveAll writes transcript, minutes text and analysis PDF into dir with a shared timestamp.
	SaveAll(dir string, res *pipeline.Result) (Bundle, error)
}
