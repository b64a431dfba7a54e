package pipeline

import (
	"context"
	"errors"
	"time"
)

// ErrMissingInput is returned when the audio or minutes file is not supplied or does not exist.
var ErrMissingInput = errors.New("audio and minutes files are required")

// Stage names, in execution order.
const (
	StageTranscribe = "transcribe"
	StageRefine     = "refine"
	StageExtract    = "extract"
	StageCompare    = "compare"

	StageCount = 4
)

// Event is a progress update. Index is 1-based within StageCount; it is 0 for
// the final completion or failure event.
type Event struct {
	Index   int
	Total   int
	Stage   string
	Message string
	Done    bool
	Err     error
}

// ProgressFunc receives pipeline events in order.
type ProgressFunc func(Event)

// Job names the recording and minutes document to audit.
type Job struct {
	AudioPath   string
	MinutesPath string
	// Model is the whisper model size; empty uses the configured default.
	Model string
}

// Result carries everything produced by one audit run.
type Result struct {
	ID            string
	Job           Job
	RawTranscript string
	Transcript    string
	Minutes       string
	MinutesPages  int
	Analysis      string
	Fidelity      float64
	HasFidelity   bool
	FromCache     bool
	Refined       bool
	CompareErr    error
	StartedAt     time.Time
	Duration      time.Duration
}

// Processor runs the four audit stages for a job.
type Processor interface {
	// Preflight checks the language model service before any work starts.
	Preflight(ctx context.Context) error
	Process(ctx context.Context, job Job, progress ProgressFunc) (*Result, error)
}
