package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newCacheCommand(ctx *commandContext) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and clear the transcript cache",
	}

	cacheCmd.AddCommand(newCacheListCommand(ctx))
	cacheCmd.AddCommand(newCacheClearCommand(ctx))

	return cacheCmd
}

func newCacheListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List cached transcripts",
		RunE: func(cmd *cobra.Command, args []string) error {
			store := ctx.cacheStore()
			entries, err := store.Entries(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintf(out, "Cache is empty (%s)\n", store.Path())
				return nil
			}

			rows := make([][]string, 0, len(entries))
			for _, e := range entries {
				rows = append(rows, []string{e.Hash, e.Model, strconv.Itoa(e.Chars)})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Audio hash", "Model", "Chars"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignRight},
			))
			fmt.Fprintf(out, "%d cached transcript(s) in %s\n", len(entries), store.Path())
			return nil
		},
	}
}

func newCacheClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete the transcript cache file",
		RunE: func(cmd *cobra.Command, args []string) error {
			store := ctx.cacheStore()
			removed, err := store.Clear(cmd.Context())
			if err != nil {
				return err
			}
			if removed {
				fmt.Fprintln(cmd.OutOrStdout(), "Cache cleared successfully")
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "No cache to clear")
			}
			return nil
		},
	}
}
