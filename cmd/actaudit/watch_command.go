package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nguyentantai21042004/actaudit/internal/pipeline"
	"github.com/nguyentantai21042004/actaudit/internal/report"
	"github.com/nguyentantai21042004/actaudit/internal/watcher"
)

func newWatchCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Audit recording and minutes pairs dropped into the inbox",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ctx.config
			log := ctx.logger()
			defer log.Sync()

			for _, dir := range []string{cfg.Paths.Inbox, cfg.Paths.Output} {
				if err := os.MkdirAll(dir, 0755); err != nil {
					return fmt.Errorf("create directory %s: %w", dir, err)
				}
			}

			proc, err := ctx.newProcessor()
			if err != nil {
				return err
			}
			if err := proc.Preflight(cmd.Context()); err != nil {
				return err
			}

			exporter := report.New(cfg.Whisper.Language)
			handler := pairHandler(proc, exporter, cfg.Paths.Output, ctx)

			w, err := watcher.New(cfg.Paths.Inbox, handler, log, cfg.Performance.MaxConcurrent)
			if err != nil {
				return err
			}
			defer w.Stop()

			runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			log.Info(runCtx, "Monitoring: %s", cfg.Paths.Inbox)
			log.Info(runCtx, "Output: %s", cfg.Paths.Output)
			log.Info(runCtx, "Press Ctrl+C to stop")

			if err := w.Start(runCtx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			log.Info(cmd.Context(), "Inbox watcher stopped")
			return nil
		},
	}
}

// pairHandler audits one pair and writes its results into <output>/<name>/.
func pairHandler(proc pipeline.Processor, exporter report.Exporter, outputDir string, ctx *commandContext) watcher.PairHandler {
	log := ctx.logger()
	return func(runCtx context.Context, pair watcher.Pair) error {
		res, err := proc.Process(runCtx, pipeline.Job{
			AudioPath:   pair.AudioPath,
			MinutesPath: pair.MinutesPath,
		}, func(ev pipeline.Event) {
			if ev.Index > 0 {
				log.Info(runCtx, "[%s] [%d/%d] %s", pair.Name, ev.Index, ev.Total, ev.Message)
			}
		})
		if err != nil {
			return err
		}
		b, err := exporter.SaveAll(filepath.Join(outputDir, pair.Name), res)
		if err != nil {
			return fmt.Errorf("save results: %w", err)
		}
		log.Info(runCtx, "[%s] Analysis saved: %s", pair.Name, b.AnalysisPath)
		return nil
	}
}
