package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func newRescanCommand(ctx *commandContext) *cobra.Command {
	var all bool
	var artistScan bool
	var now bool

	cmd := &cobra.Command{
		Use:   "rescan [directory]",
		Short: "Journal rescan requests for cataloged albums",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !all && len(args) == 0 {
				return fmt.Errorf("provide an album directory or --all")
			}

			pipeline, err := ctx.buildPipeline()
			if err != nil {
				return err
			}
			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			runCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			enqueued := 0
			if all {
				library, err := store.LibraryByName(runCtx, defaultLibrary)
				if err != nil {
					return err
				}
				if library == nil {
					return fmt.Errorf("no library in catalog; run a scan first")
				}
				albums, err := store.AlbumsByLibrary(runCtx, library.ID)
				if err != nil {
					return err
				}
				for _, album := range albums {
					if _, err := store.EnqueueRescan(runCtx, album.APIKey, album.Directory, artistScan); err != nil {
						return err
					}
					enqueued++
				}
			} else {
				album, err := store.AlbumByDirectory(runCtx, args[0])
				if err != nil {
					return err
				}
				if album == nil {
					return fmt.Errorf("no cataloged album at %s", args[0])
				}
				if _, err := store.EnqueueRescan(runCtx, album.APIKey, album.Directory, artistScan); err != nil {
					return err
				}
				enqueued++
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Enqueued %d rescan request(s)\n", enqueued)

			if now {
				dispatcher := newDispatcher(pipeline, store)
				handled, err := dispatcher.RunOnce(runCtx)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Handled %d request(s)\n", handled)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Enqueue a rescan for every cataloged album")
	cmd.Flags().BoolVar(&artistScan, "artist-scan", false, "Mark requests as part of an artist-level scan")
	cmd.Flags().BoolVar(&now, "now", false, "Drain the journal immediately instead of waiting for serve")
	return cmd
}
