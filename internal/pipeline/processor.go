package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/nguyentantai21042004/actaudit/internal/analysis"
	"github.com/nguyentantai21042004/actaudit/internal/llm"
)

// Preflight pings the language model so a run never starts against a dead service.
func (p *implProcessor) Preflight(ctx context.Context) error {
	if err := p.client.Ping(ctx); err != nil {
		if errors.Is(err, llm.ErrUnavailable) && p.cfg.LLM.Provider == "ollama" {
			return fmt.Errorf("%w\n\nSteps:\n"+
				"  1. Install Ollama from https://ollama.com\n"+
				"  2. Run: ollama pull %s\n"+
				"  3. Make sure Ollama is running (%s)", err, p.cfg.LLM.Model, p.cfg.LLM.BaseURL)
		}
		return fmt.Errorf("llm preflight: %w", err)
	}
	return nil
}

// Process orchestrates the entire audit pipeline
func (p *implProcessor) Process(ctx context.Context, job Job, progress ProgressFunc) (*Result, error) {
	if err := validateJob(job); err != nil {
		return nil, err
	}
	if job.Model == "" {
		job.Model = p.cfg.Whisper.Model
	}

	res := &Result{
		ID:        uuid.NewString(),
		Job:       job,
		StartedAt: p.now(),
	}
	emit := func(ev Event) {
		ev.Total = StageCount
		if progress != nil {
			progress(ev)
		}
	}
	fail := func(stage string, err error) (*Result, error) {
		emit(Event{Stage: stage, Message: "Process failed", Done: true, Err: err})
		return nil, fmt.Errorf("%s: %w", stage, err)
	}

	p.logger.Info(ctx, "========================================")
	p.logger.Info(ctx, "Starting audit %s", res.ID)
	p.logger.Info(ctx, "Audio: %s", job.AudioPath)
	p.logger.Info(ctx, "Minutes: %s", job.MinutesPath)
	p.logger.Info(ctx, "========================================")

	// Step 1: Transcribe (cache-checked)
	emit(Event{Index: 1, Stage: StageTranscribe, Message: "Transcribing audio with Whisper..."})
	tr, err := p.transcriber.Transcribe(ctx, job.AudioPath, job.Model, func(msg string) {
		emit(Event{Index: 1, Stage: StageTranscribe, Message: msg})
	})
	if err != nil {
		return fail(StageTranscribe, err)
	}
	res.RawTranscript = tr.Text
	res.FromCache = tr.FromCache

	// Step 2: Refine, falling back to the raw transcript
	emit(Event{Index: 2, Stage: StageRefine, Message: "Refining transcript with AI..."})
	refined := p.analyzer.Refine(ctx, tr.Text)
	res.Transcript = refined.Text
	res.Refined = refined.Refined
	if err := ctx.Err(); err != nil {
		return fail(StageRefine, err)
	}

	// Step 3: Extract minutes text
	emit(Event{Index: 3, Stage: StageExtract, Message: "Extracting text from PDF..."})
	doc, err := p.extractor.Extract(ctx, job.MinutesPath)
	if err != nil {
		return fail(StageExtract, err)
	}
	res.Minutes = doc.Text
	res.MinutesPages = doc.Pages

	// Step 4: Compare. A model failure becomes the analysis text so the
	// transcript and minutes are still usable.
	emit(Event{Index: 4, Stage: StageCompare, Message: "Generating analysis with AI..."})
	report, err := p.analyzer.Compare(ctx, res.Transcript, res.Minutes)
	if err != nil {
		if ctx.Err() != nil {
			return fail(StageCompare, ctx.Err())
		}
		p.logger.Error(ctx, "Comparison failed: %v", err)
		res.CompareErr = err
		res.Analysis = analysis.FailureNotice(p.cfg.Whisper.Language, p.client.Name(), err)
	} else {
		res.Analysis = report
		res.Fidelity, res.HasFidelity = analysis.ParseFidelity(report)
	}

	res.Duration = time.Since(res.StartedAt)
	emit(Event{Message: "Process completed successfully!", Done: true})

	p.logger.Info(ctx, "========================================")
	p.logger.Info(ctx, "Audit completed: %s", res.ID)
	p.logger.Info(ctx, "Transcript from cache: %t, refined: %t", res.FromCache, res.Refined)
	if res.HasFidelity {
		p.logger.Info(ctx, "Estimated fidelity: %.1f%%", res.Fidelity)
	}
	p.logger.Info(ctx, "Processing time: %s", res.Duration)
	p.logger.Info(ctx, "========================================")

	return res, nil
}

func validateJob(job Job) error {
	if job.AudioPath == "" || job.MinutesPath == "" {
		return ErrMissingInput
	}
	for _, path := range []string{job.AudioPath, job.MinutesPath} {
		info, err := os.Stat(path)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrMissingInput, err)
		}
		if info.IsDir() {
			return fmt.Errorf("%w: %s is a directory", ErrMissingInput, path)
		}
	}
	return nil
}
