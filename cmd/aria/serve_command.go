package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"aria/internal/catalog"
	"aria/internal/rescan"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the rescan dispatcher until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
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

			fmt.Fprintf(cmd.OutOrStdout(), "Watching rescan journal at %s\n", store.Path())
			dispatcher := newDispatcher(pipeline, store)
			if err := dispatcher.Run(runCtx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}
}

func newDispatcher(pipeline *pipeline, store *catalog.Store) *rescan.Dispatcher {
	return rescan.NewDispatcher(
		pipeline.logger,
		store,
		pipeline.newReconciler(store),
		time.Duration(pipeline.cfg.Rescan.PollInterval)*time.Second,
		pipeline.cfg.Rescan.BatchSize,
	)
}
