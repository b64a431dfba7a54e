package transcriber

import "context"

// ProgressFunc receives human-readable status updates while a transcription runs.
type ProgressFunc func(msg string)

// Result is a finished transcript.
type Result struct {
	Text      string
	Model     string
	FromCache bool
}

// Transcriber converts an audio file into plain text using the given model size.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath, model string, progress ProgressFunc) (Result, error)
}
