package ingest

import (
	"context"
	"io/fs"
	"log/slog"
	"path/filepath"
	"sort"

	"github.com/gofrs/flock"

	"aria/internal/logging"
	"aria/internal/services"
)

// LockName is the advisory lock file taken per album directory while it is
// being processed. The rescan dispatcher takes the same lock, so a directory
// is never scanned and reconciled at the same time.
const LockName = ".aria.lock"

// LockDirectory attempts a non-blocking advisory lock on the directory.
// The second return is false when another process holds the lock.
func LockDirectory(directory string) (*flock.Flock, bool, error) {
	lock := flock.New(filepath.Join(directory, LockName))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, false, err
	}
	if !locked {
		return nil, false, nil
	}
	return lock, true, nil
}

// Scanner walks a library root and processes every directory a plugin claims.
type Scanner struct {
	processor *Processor
	logger    *slog.Logger
}

// NewScanner builds a scanner over the given processor.
func NewScanner(logger *slog.Logger, processor *Processor) *Scanner {
	return &Scanner{
		processor: processor,
		logger:    logging.WithComponent(logger, "scanner"),
	}
}

// ScanSummary aggregates one walk of the tree.
type ScanSummary struct {
	Processed int
	Skipped   int
	Failed    int
	Results   []DirectoryResult
}

// Scan processes root and all directories beneath it, depth-first, taking the
// per-directory lock for each. A stop-flagged failure ends the walk early;
// cancellation is honored between directories.
func (s *Scanner) Scan(ctx context.Context, root string) (ScanSummary, error) {
	var directories []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			directories = append(directories, path)
		}
		return nil
	})
	if err != nil {
		return ScanSummary{}, services.Wrap(services.ErrTransient, "scanner", "walk", root, err)
	}
	sort.Strings(directories)

	var summary ScanSummary
	for _, directory := range directories {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		result := s.scanOne(ctx, directory)
		summary.Results = append(summary.Results, result)
		switch result.Result.Outcome {
		case services.OutcomeOk:
			summary.Processed++
		case services.OutcomeSkipped:
			summary.Skipped++
		case services.OutcomeError:
			summary.Failed++
			s.logger.Error("directory failed",
				logging.String("directory", directory),
				logging.Error(result.Result.Err),
			)
			if result.Stop {
				return summary, result.Result.Err
			}
		}
	}
	return summary, nil
}

func (s *Scanner) scanOne(ctx context.Context, directory string) DirectoryResult {
	lock, locked, err := LockDirectory(directory)
	if err != nil {
		return DirectoryResult{Directory: directory, Result: services.Failed(
			services.Wrap(services.ErrTransient, "scanner", "lock", directory, err))}
	}
	if !locked {
		return DirectoryResult{Directory: directory, Result: services.Skipped("directory locked")}
	}
	defer func() {
		_ = lock.Unlock()
	}()

	return s.processor.ProcessDirectory(ctx, directory)
}
