package transcriber

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Transcribe runs whisper.cpp over the normalized recording and returns its text output.
func (w *implWhisper) Transcribe(ctx context.Context, audioPath, model string, progress ProgressFunc) (Result, error) {
	if model == "" {
		model = w.cfg.Whisper.Model
	}
	if _, err := os.Stat(audioPath); err != nil {
		return Result{}, fmt.Errorf("stat audio: %w", err)
	}

	if err := os.MkdirAll(w.cfg.Paths.Temp, 0755); err != nil {
		return Result{}, fmt.Errorf("create temp dir: %w", err)
	}
	workDir, err := os.MkdirTemp(w.cfg.Paths.Temp, "actaudit-whisper-*")
	if err != nil {
		return Result{}, fmt.Errorf("create work dir: %w", err)
	}
	defer w.cleanupDir(ctx, workDir)

	wavPath, err := w.normalizeAudio(ctx, audioPath, workDir)
	if err != nil {
		return Result{}, err
	}

	outputPrefix := filepath.Join(workDir, "transcript")
	modelPath := w.cfg.Whisper.ModelPath(model)

	w.logger.Info(ctx, "Starting transcription with model %s (%d threads): %s", model, w.cfg.Whisper.Threads, audioPath)

	// -otxt: plain text output written to <prefix>.txt
	// -l: force language (prevents hallucinated translations)
	// -np: no progress prints on stdout
	args := []string{
		"-m", modelPath,
		"-f", wavPath,
		"-l", w.cfg.Whisper.Language,
		"-t", strconv.Itoa(w.cfg.Whisper.Threads),
		"-otxt",
		"-of", outputPrefix,
		"-np",
	}
	if p := strings.TrimSpace(w.cfg.Whisper.Prompt); p != "" {
		args = append(args, "--prompt", p)
	}

	if _, err := w.executor.Execute(ctx, w.cfg.Whisper.BinaryPath, args...); err != nil {
		return Result{}, fmt.Errorf("whisper transcribe: %w", err)
	}

	raw, err := os.ReadFile(outputPrefix + ".txt")
	if err != nil {
		return Result{}, fmt.Errorf("read whisper output: %w", err)
	}

	text := joinTranscriptLines(string(raw))
	w.logger.Info(ctx, "Transcription completed: %d chars", len(text))
	return Result{Text: text, Model: model}, nil
}

// joinTranscriptLines flattens whisper's one-segment-per-line output into a
// single NFC-normalized paragraph.
func joinTranscriptLines(raw string) string {
	fields := strings.Fields(raw)
	return norm.NFC.String(strings.Join(fields, " "))
}

func (w *implWhisper) cleanupDir(ctx context.Context, dir string) {
	if err := os.RemoveAll(dir); err != nil {
		w.logger.Warn(ctx, "Failed to cleanup temp dir %s: %v", dir, err)
	} else {
		w.logger.Debug(ctx, "Cleaned up temp dir: %s", dir)
	}
}
