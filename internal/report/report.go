package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nguyentantai21042004/actaudit/internal/pipeline"
)

const (
	dateLayout   = "02/01/2006 15:04"
	bundleLayout = "20060102_150405"
)

func (e *implExporter) Save(path, analysis string) error {
	analysis = strings.TrimSpace(analysis)
	if analysis == "" {
		return ErrEmptyReport
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create report dir: %w", err)
		}
	}

	now := e.now()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return e.writePDF(path, analysis, now)
	case ".docx":
		return e.writeDocx(path, analysis, now)
	case ".txt", ".md":
		return os.WriteFile(path, []byte(e.renderText(analysis, now)), 0644)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

func (e *implExporter) SaveAll(dir string, res *pipeline.Result) (Bundle, error) {
	if res == nil || strings.TrimSpace(res.Analysis) == "" {
		return Bundle{}, ErrEmptyReport
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return Bundle{}, fmt.Errorf("create output dir: %w", err)
	}

	now := e.now()
	stamp := now.Format(bundleLayout)
	b := Bundle{
		TranscriptPath: filepath.Join(dir, fmt.Sprintf("%s_%s.txt", e.labels.TranscriptPrefix, stamp)),
		MinutesPath:    filepath.Join(dir, fmt.Sprintf("%s_%s.txt", e.labels.MinutesPrefix, stamp)),
		AnalysisPath:   filepath.Join(dir, fmt.Sprintf("%s_%s.pdf", e.labels.AnalysisPrefix, stamp)),
	}

	transcript := withPlaceholder(res.Transcript, e.labels.EmptyTranscript)
	if err := os.WriteFile(b.TranscriptPath, []byte(e.labels.TranscriptHeader+"\n\n"+transcript+"\n"), 0644); err != nil {
		return Bundle{}, fmt.Errorf("write transcript: %w", err)
	}
	minutes := withPlaceholder(res.Minutes, e.labels.EmptyMinutes)
	if err := os.WriteFile(b.MinutesPath, []byte(e.labels.MinutesHeader+"\n\n"+minutes+"\n"), 0644); err != nil {
		return Bundle{}, fmt.Errorf("write minutes: %w", err)
	}
	if err := e.writePDF(b.AnalysisPath, strings.TrimSpace(res.Analysis), now); err != nil {
		return Bundle{}, fmt.Errorf("write analysis: %w", err)
	}
	return b, nil
}

// renderText is the .txt / .md layout: heading, date, rule, body.
func (e *implExporter) renderText(analysis string, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n", e.labels.Title)
	fmt.Fprintf(&b, "%s: %s\n\n", e.labels.DatePrefix, now.Format(dateLayout))
	b.WriteString("---\n\n")
	b.WriteString(analysis)
	return b.String()
}

// withPlaceholder returns text, or placeholder when text is blank.
func withPlaceholder(text, placeholder string) string {
	if strings.TrimSpace(text) == "" {
		return placeholder
	}
	return text
}

// DisplayTranscript applies the empty-transcript placeholder for on-screen output.
func DisplayTranscript(language, text string) string {
	return withPlaceholder(text, LabelsFor(language).EmptyTranscript)
}

// DisplayMinutes applies the empty-minutes placeholder.
func DisplayMinutes(language, text string) string {
	return withPlaceholder(text, LabelsFor(language).EmptyMinutes)
}
