package report

import "time"

// Labels are the user-facing strings of exported files.
type Labels struct {
	Title            string
	DatePrefix       string
	TranscriptHeader string
	MinutesHeader    string
	EmptyTranscript  string
	EmptyMinutes     string
	TranscriptPrefix string
	MinutesPrefix    string
	AnalysisPrefix   string
}

var labelsByLanguage = map[string]Labels{
	"es": {
		Title:            "Análisis de Reunión vs Acta",
		DatePrefix:       "Fecha",
		TranscriptHeader: "=== TRANSCRIPCIÓN DEL AUDIO (REFINADA CON IA) ===",
		MinutesHeader:    "=== CONTENIDO EXTRAÍDO DEL PDF ===",
		EmptyTranscript:  "(Sin texto o no se pudo transcribir)",
		EmptyMinutes:     "(No se extrajo texto del PDF)",
		TranscriptPrefix: "transcripcion",
		MinutesPrefix:    "pdf_extraido",
		AnalysisPrefix:   "analisis",
	},
	"en": {
		Title:            "Meeting vs Minutes Analysis",
		DatePrefix:       "Date",
		TranscriptHeader: "=== AUDIO TRANSCRIPT (REFINED WITH AI) ===",
		MinutesHeader:    "=== TEXT EXTRACTED FROM PDF ===",
		EmptyTranscript:  "(No text or the audio could not be transcribed)",
		EmptyMinutes:     "(No text was extracted from the PDF)",
		TranscriptPrefix: "transcript",
		MinutesPrefix:    "pdf_extracted",
		AnalysisPrefix:   "analysis",
	},
}

// LabelsFor returns the labels for language, defaulting to Spanish.
func LabelsFor(language string) Labels {
	if l, ok := labelsByLanguage[language]; ok {
		return l
	}
	return labelsByLanguage["es"]
}

type implExporter struct {
	labels Labels
	now    func() time.Time
}

// New creates an Exporter using the labels for language.
func New(language string) Exporter {
	return &implExporter{
		labels: LabelsFor(language),
		now:    time.Now,
	}
}
