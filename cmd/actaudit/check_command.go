package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nguyentantai21042004/actaudit/pkg/executor"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Check the language model and external tools are available",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ctx.config
			out := cmd.OutOrStdout()

			tools := []string{cfg.Whisper.BinaryPath, cfg.FFmpeg.BinaryPath}
			if cfg.PDF.Extractor == "pdftotext" {
				tools = append(tools, cfg.PDF.PdftotextPath)
			}
			for _, tool := range tools {
				if path, err := executor.LookPath(tool); err != nil {
					fmt.Fprintf(out, "WARN  %s not found in PATH\n", tool)
				} else {
					fmt.Fprintf(out, "OK    %s (%s)\n", tool, path)
				}
			}

			proc, err := ctx.newProcessor()
			if err != nil {
				return err
			}
			if err := proc.Preflight(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(out, "OK    llm %s/%s\n", cfg.LLM.Provider, cfg.LLM.Model)
			return nil
		},
	}
}
