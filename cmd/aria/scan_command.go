package main

import (
	"fmt"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"aria/internal/ingest"
	"aria/internal/services"
)

func newScanCommand(ctx *commandContext) *cobra.Command {
	var noSync bool

	cmd := &cobra.Command{
		Use:   "scan [path]",
		Short: "Scan a directory tree and write canonical album documents",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pipeline, err := ctx.buildPipeline()
			if err != nil {
				return err
			}

			root := pipeline.cfg.Paths.InboundDir
			if len(args) == 1 {
				root = args[0]
			}

			runCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			summary, err := pipeline.scanner.Scan(runCtx, root)
			if err != nil {
				return fmt.Errorf("scan %s: %w", root, err)
			}

			if !noSync {
				store, err := ctx.openStore()
				if err != nil {
					return err
				}
				defer store.Close()

				library, err := store.EnsureLibrary(runCtx, defaultLibrary, pipeline.cfg.Paths.LibraryDir)
				if err != nil {
					return err
				}
				for _, result := range summary.Results {
					if !result.Result.IsOk() {
						continue
					}
					if _, err := store.SyncAlbum(runCtx, library.ID, result.Album); err != nil {
						return fmt.Errorf("sync %s: %w", result.Directory, err)
					}
				}
				if err := store.RecomputeLibraryAggregates(runCtx, library.ID); err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			rows := make([][]string, 0, len(summary.Results))
			for _, result := range summary.Results {
				if result.Result.Outcome == services.OutcomeSkipped && result.Result.Reason == "no plugin claims directory" {
					continue
				}
				rows = append(rows, []string{
					result.Directory,
					result.Result.Outcome.String(),
					scanDetail(result),
				})
			}
			if len(rows) > 0 {
				fmt.Fprintln(out, renderTable(
					[]string{"Directory", "Outcome", "Detail"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft},
				))
			}
			fmt.Fprintf(out, "Processed %d, skipped %d, failed %d\n",
				summary.Processed, summary.Skipped, summary.Failed)
			return nil
		},
	}

	cmd.Flags().BoolVar(&noSync, "no-sync", false, "Write documents only; skip catalog updates")
	return cmd
}

func scanDetail(result ingest.DirectoryResult) string {
	switch result.Result.Outcome {
	case services.OutcomeOk:
		return strconv.Itoa(len(result.Album.Songs)) + " songs, " + string(result.Album.Status)
	case services.OutcomeSkipped:
		return result.Result.Reason
	default:
		if result.Result.Err != nil {
			return result.Result.Err.Error()
		}
		return ""
	}
}
