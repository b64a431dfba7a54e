package transcriber

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// normalizeAudio converts the recording to a 16kHz mono PCM WAV inside workDir.
// whisper.cpp only reads WAV input.
func (w *implWhisper) normalizeAudio(ctx context.Context, audioPath, workDir string) (string, error) {
	wavPath := filepath.Join(workDir, "audio.wav")

	w.logger.Info(ctx, "Normalizing audio: %s", audioPath)

	// -vn: drop any video stream
	// -ar 16000 -ac 1: the sample rate and channel layout whisper expects
	args := []string{
		"-hide_banner",
		"-loglevel", "error",
		"-i", audioPath,
		"-vn",
		"-ar", "16000",
		"-ac", "1",
		"-c:a", "pcm_s16le",
		"-y",
		wavPath,
	}

	if _, err := w.executor.Execute(ctx, w.cfg.FFmpeg.BinaryPath, args...); err != nil {
		return "", fmt.Errorf("ffmpeg normalize audio: %w", err)
	}
	if _, err := os.Stat(wavPath); err != nil {
		return "", fmt.Errorf("ffmpeg produced no output: %w", err)
	}

	return wavPath, nil
}
