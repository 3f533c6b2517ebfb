package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"aria/internal/catalog"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show catalog and journal state",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			fmt.Fprintln(out, "Paths")
			fmt.Fprintln(out, renderStatusLine("inbound", pathKind(cfg.Paths.InboundDir), cfg.Paths.InboundDir, colorize))
			fmt.Fprintln(out, renderStatusLine("library", pathKind(cfg.Paths.LibraryDir), cfg.Paths.LibraryDir, colorize))
			fmt.Fprintln(out, renderStatusLine("database", pathKind(store.Path()), store.Path(), colorize))

			runCtx := cmd.Context()
			library, err := store.LibraryByName(runCtx, defaultLibrary)
			if err != nil {
				return err
			}
			if library != nil {
				fmt.Fprintln(out, "\nLibrary")
				rows := [][]string{{
					library.Name,
					strconv.Itoa(library.AlbumCount),
					strconv.Itoa(library.SongCount),
					strconv.FormatInt(library.DurationSeconds/60, 10) + " min",
					strconv.Itoa(library.ImageCount),
				}}
				fmt.Fprintln(out, renderTable(
					[]string{"Name", "Albums", "Songs", "Duration", "Images"},
					rows,
					[]columnAlignment{alignLeft, alignRight, alignRight, alignRight, alignRight},
				))
			}

			stats, err := store.RescanStats(runCtx)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, "\nRescan journal")
			for _, status := range []catalog.RescanStatus{catalog.RescanPending, catalog.RescanDone, catalog.RescanSkipped, catalog.RescanFailed} {
				kind := statusInfo
				switch status {
				case catalog.RescanFailed:
					if stats[status] > 0 {
						kind = statusError
					}
				case catalog.RescanDone:
					kind = statusOK
				}
				fmt.Fprintln(out, renderStatusLine(string(status), kind, strconv.Itoa(stats[status]), colorize))
			}
			return nil
		},
	}
}

func pathKind(path string) statusKind {
	if _, err := os.Stat(path); err != nil {
		return statusWarn
	}
	return statusOK
}
