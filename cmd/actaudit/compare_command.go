package main

import (
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/nguyentantai21042004/actaudit/internal/config"
	"github.com/nguyentantai21042004/actaudit/internal/pipeline"
	"github.com/nguyentantai21042004/actaudit/internal/report"
)

var reportExtensions = []string{".pdf", ".txt", ".md", ".docx"}

func newCompareCommand(ctx *commandContext) *cobra.Command {
	var audioPath, minutesPath, model, outPath, saveAllDir string

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare a meeting recording with its PDF minutes",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ctx.config
			if model != "" && !slices.Contains(config.WhisperModels, model) {
				return fmt.Errorf("model %q is not one of %s", model, strings.Join(config.WhisperModels, ", "))
			}
			if outPath != "" && !slices.Contains(reportExtensions, strings.ToLower(filepath.Ext(outPath))) {
				return fmt.Errorf("%w: %q", report.ErrUnsupportedFormat, filepath.Ext(outPath))
			}

			proc, err := ctx.newProcessor()
			if err != nil {
				return err
			}
			if err := proc.Preflight(cmd.Context()); err != nil {
				return err
			}

			progress := newProgressPrinter(cmd.ErrOrStderr())
			res, err := proc.Process(cmd.Context(), pipeline.Job{
				AudioPath:   audioPath,
				MinutesPath: minutesPath,
				Model:       model,
			}, progress.handle)
			if err != nil {
				return err
			}

			lang := cfg.Whisper.Language
			printResult(cmd.OutOrStdout(), lang, res)

			exporter := report.New(lang)
			if outPath != "" {
				if err := exporter.Save(outPath, res.Analysis); err != nil {
					return fmt.Errorf("save report: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Report saved: %s\n", outPath)
			}
			if saveAllDir != "" {
				b, err := exporter.SaveAll(saveAllDir, res)
				if err != nil {
					return fmt.Errorf("save results: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Results saved:")
				for _, p := range []string{b.TranscriptPath, b.MinutesPath, b.AnalysisPath} {
					fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", p)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&audioPath, "audio", "", "Meeting recording (mp3, wav, m4a, ogg, flac)")
	cmd.Flags().StringVar(&minutesPath, "minutes", "", "Minutes PDF")
	cmd.Flags().StringVar(&model, "model", "", "Whisper model (tiny, base, small, medium, large)")
	cmd.Flags().StringVar(&outPath, "out", "", "Export the analysis (.pdf, .txt, .md, .docx)")
	cmd.Flags().StringVar(&saveAllDir, "save-all", "", "Write transcript, minutes text and analysis PDF into this directory")
	_ = cmd.MarkFlagRequired("audio")
	_ = cmd.MarkFlagRequired("minutes")

	return cmd
}

func printResult(out io.Writer, lang string, res *pipeline.Result) {
	printSection(out, "Transcript", report.DisplayTranscript(lang, res.Transcript))
	if res.FromCache {
		fmt.Fprintln(out, "(transcript loaded from cache)")
	}
	if !res.Refined && strings.TrimSpace(res.RawTranscript) != "" {
		fmt.Fprintln(out, "(refinement unavailable, showing raw transcript)")
	}
	fmt.Fprintln(out)

	printSection(out, "Minutes", report.DisplayMinutes(lang, res.Minutes))
	fmt.Fprintln(out)

	printSection(out, "Analysis", res.Analysis)
	if res.HasFidelity {
		fmt.Fprintf(out, "\nEstimated fidelity: %.0f%%\n", res.Fidelity)
	}
	fmt.Fprintf(out, "\nRun %s finished in %s\n", res.ID, res.Duration.Round(time.Millisecond))
}

func printSection(out io.Writer, title, body string) {
	fmt.Fprintln(out, title)
	fmt.Fprintln(out, strings.Repeat("=", len(title)))
	fmt.Fprintln(out, body)
}
