package rescan

import (
	"context"
	"log/slog"
	"time"

	"aria/internal/catalog"
	"aria/internal/ingest"
	"aria/internal/logging"
)

// Dispatcher drains the rescan journal. Each claimed request runs under the
// same per-directory lock the scanner takes, so a directory is never scanned
// and reconciled concurrently.
type Dispatcher struct {
	store        *catalog.Store
	reconciler   *Reconciler
	pollInterval time.Duration
	batchSize    int
	logger       *slog.Logger
}

// NewDispatcher builds a dispatcher polling the journal at the given
// interval, handling up to batchSize requests per poll.
func NewDispatcher(logger *slog.Logger, store *catalog.Store, reconciler *Reconciler, pollInterval time.Duration, batchSize int) *Dispatcher {
	if pollInterval <= 0 {
		pollInterval = 5 * time.Second
	}
	if batchSize <= 0 {
		batchSize = 1
	}
	return &Dispatcher{
		store:        store,
		reconciler:   reconciler,
		pollInterval: pollInterval,
		batchSize:    batchSize,
		logger:       logging.WithComponent(logger, "rescan"),
	}
}

// Run polls the journal until the context is cancelled.
func (d *Dispatcher) Run(ctx context.Context) error {
	ticker := time.NewTicker(d.pollInterval)
	defer ticker.Stop()

	for {
		if _, err := d.RunOnce(ctx); err != nil {
			d.logger.Error("journal poll failed", logging.Error(err))
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// RunOnce claims and handles up to one batch of pending requests, returning
// how many were handled.
func (d *Dispatcher) RunOnce(ctx context.Context) (int, error) {
	handled := 0
	for handled < d.batchSize {
		if err := ctx.Err(); err != nil {
			return handled, err
		}
		request, err := d.store.NextPendingRescan(ctx)
		if err != nil {
			return handled, err
		}
		if request == nil {
			return handled, nil
		}
		d.handle(ctx, request)
		handled++
	}
	return handled, nil
}

func (d *Dispatcher) handle(ctx context.Context, request *catalog.RescanRequest) {
	lock, locked, err := ingest.LockDirectory(request.Directory)
	if err != nil {
		// Directory may be gone; the reconciler resolves that case itself.
		d.logger.Debug("lock unavailable", logging.String("directory", request.Directory), logging.Error(err))
	} else if !locked {
		// Scanner holds the directory; try again on a later poll.
		if err := d.store.RequeueRescan(ctx, request.ID, "directory locked"); err != nil {
			d.logger.Error("requeue failed", logging.Error(err))
		}
		return
	} else {
		defer func() {
			_ = lock.Unlock()
		}()
	}

	outcome := d.reconciler.Reconcile(ctx, *request)
	switch outcome.State {
	case StateDone:
		if err := d.store.FinishRescan(ctx, request.ID, catalog.RescanDone, ""); err != nil {
			d.logger.Error("finish failed", logging.Error(err))
		}
	case StateSkipped:
		if err := d.store.FinishRescan(ctx, request.ID, catalog.RescanSkipped, outcome.Reason); err != nil {
			d.logger.Error("finish failed", logging.Error(err))
		}
	default:
		message := ""
		if outcome.Err != nil {
			message = outcome.Err.Error()
		}
		d.logger.Error("reconciliation failed",
			logging.String("directory", request.Directory),
			logging.Error(outcome.Err),
		)
		if err := d.store.FinishRescan(ctx, request.ID, catalog.RescanFailed, message); err != nil {
			d.logger.Error("finish failed", logging.Error(err))
		}
	}
}
