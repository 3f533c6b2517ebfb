package rescan

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"aria/internal/cache"
	"aria/internal/catalog"
	"aria/internal/ingest"
	"aria/internal/logging"
	"aria/internal/music"
	"aria/internal/services"
	"aria/internal/sources"
)

// Reconciler drives one rescan request through loading, reconciling, and
// persisting. Handling is idempotent: the journal delivers at least once, so
// a re-run of the same request converges on the same catalog state. The
// caller provides per-directory exclusivity; the reconciler itself takes no
// locks.
type Reconciler struct {
	store     *catalog.Store
	processor *ingest.Processor
	registry  *sources.Registry
	lists     IgnoreLists
	cache     cache.Invalidator
	logger    *slog.Logger
}

// NewReconciler builds a reconciler over the catalog store. The processor
// refreshes canonical documents best-effort; the registry decides which
// directory entries count as audio files.
func NewReconciler(
	logger *slog.Logger,
	store *catalog.Store,
	processor *ingest.Processor,
	registry *sources.Registry,
	lists IgnoreLists,
	invalidator cache.Invalidator,
) *Reconciler {
	if invalidator == nil {
		invalidator = cache.Nop{}
	}
	return &Reconciler{
		store:     store,
		processor: processor,
		registry:  registry,
		lists:     lists,
		cache:     invalidator,
		logger:    logging.WithComponent(logger, "rescan"),
	}
}

// Reconcile runs one pass for the request's album identity.
func (r *Reconciler) Reconcile(ctx context.Context, request catalog.RescanRequest) Outcome {
	if err := ctx.Err(); err != nil {
		return failed(err)
	}

	album, err := r.store.AlbumByKey(ctx, request.AlbumAPIKey)
	if err != nil {
		return failed(err)
	}
	if album == nil {
		r.logger.Info("album not in catalog", logging.String("album", request.AlbumAPIKey))
		return skipped("album not found")
	}

	artist, err := r.store.ArtistByID(ctx, album.ArtistID)
	if err != nil {
		return failed(err)
	}
	if album.Locked || (artist != nil && artist.Locked) {
		return skipped("record locked")
	}

	if _, err := os.Stat(album.Directory); errors.Is(err, fs.ErrNotExist) {
		return r.deleteVanished(ctx, album, artist, request)
	} else if err != nil {
		return failed(fmt.Errorf("stat directory: %w", err))
	}

	if err := ctx.Err(); err != nil {
		return failed(err)
	}

	// Refresh the canonical document best-effort. A failed refresh only
	// warns; reconciliation continues against whatever document exists.
	if r.processor != nil {
		if result := r.processor.ProcessDirectory(ctx, album.Directory); result.Result.Outcome == services.OutcomeError {
			r.logger.Warn("document refresh failed",
				logging.String("directory", album.Directory),
				logging.Error(result.Result.Err),
			)
		}
	}

	document, err := music.ReadDocument(album.Directory)
	if err != nil {
		if music.IsDocumentMissing(err) {
			return failed(services.Wrap(services.ErrValidation, "rescan", "reconcile", "canonical document missing for "+album.Directory, nil))
		}
		return failed(err)
	}

	changes, outcome := r.diffSongs(ctx, album, document)
	if outcome.State.Terminal() {
		return outcome
	}
	if err := r.store.ApplySongChanges(ctx, album.ID, changes); err != nil {
		return failed(err)
	}

	if err := r.persistAlbum(ctx, album, document); err != nil {
		return failed(err)
	}
	if err := r.resolveContributors(ctx, album, document); err != nil {
		return failed(err)
	}

	if !request.ArtistScan {
		if err := r.store.RecomputeLibraryAggregates(ctx, album.LibraryID); err != nil {
			return failed(err)
		}
		if err := r.store.RecomputeArtistAggregates(ctx, album.ArtistID); err != nil {
			return failed(err)
		}
		r.cache.InvalidateArtist(album.ArtistID)
	}
	r.cache.InvalidateAlbum(album.APIKey)

	r.logger.Info("album reconciled",
		logging.String("album", album.APIKey),
		logging.String("directory", album.Directory),
	)
	return done()
}

// deleteVanished removes the persisted album whose backing directory is gone
// and recomputes owning aggregates. Both steps are idempotent under
// redelivery.
func (r *Reconciler) deleteVanished(ctx context.Context, album *catalog.AlbumRecord, artist *catalog.ArtistRecord, request catalog.RescanRequest) Outcome {
	if _, err := r.store.DeleteAlbum(ctx, album.ID); err != nil {
		return failed(err)
	}
	if err := r.store.RecomputeLibraryAggregates(ctx, album.LibraryID); err != nil {
		return failed(err)
	}
	if artist != nil {
		if err := r.store.RecomputeArtistAggregates(ctx, artist.ID); err != nil {
			return failed(err)
		}
	}
	r.cache.InvalidateAlbum(album.APIKey)
	if !request.ArtistScan {
		r.cache.InvalidateArtist(album.ArtistID)
	}
	r.logger.Info("vanished album removed",
		logging.String("album", album.APIKey),
		logging.String("directory", album.Directory),
	)
	return done()
}

// diffSongs computes the change set for step-by-step reconciliation: persisted
// songs with no backing file are dropped, on-disk files must match document
// entries, matched rows take refreshed technical attributes, and new document
// entries insert only when their song number is free.
func (r *Reconciler) diffSongs(ctx context.Context, album *catalog.AlbumRecord, document music.Album) (catalog.SongChangeSet, Outcome) {
	persisted, err := r.store.SongsByAlbum(ctx, album.ID)
	if err != nil {
		return catalog.SongChangeSet{}, failed(err)
	}

	docByFileName := make(map[string]music.Song, len(document.Songs))
	for _, song := range document.Songs {
		docByFileName[song.FileName] = song
	}
	persistedByFileName := make(map[string]*catalog.SongRecord, len(persisted))
	numbersInUse := make(map[string]string, len(persisted))
	for _, row := range persisted {
		persistedByFileName[row.FileName] = row
		numbersInUse[positionKey(row.DiscNumber, row.SongNumber)] = row.FileName
	}

	var changes catalog.SongChangeSet

	for _, row := range persisted {
		if _, err := os.Stat(filepath.Join(album.Directory, row.FileName)); errors.Is(err, fs.ErrNotExist) {
			changes.Deletes = append(changes.Deletes, row.ID)
			delete(numbersInUse, positionKey(row.DiscNumber, row.SongNumber))
		}
	}

	for _, fileName := range r.audioFiles(album.Directory) {
		if err := ctx.Err(); err != nil {
			return catalog.SongChangeSet{}, failed(err)
		}
		docSong, inDocument := docByFileName[fileName]
		if !inDocument {
			// A file on disk with no canonical entry means the document and
			// the directory disagree; continuing would guess at metadata.
			return catalog.SongChangeSet{}, failed(services.Wrap(services.ErrValidation, "rescan", "reconcile",
				fmt.Sprintf("file %s missing from canonical document", fileName), nil))
		}

		row, known := persistedByFileName[fileName]
		record := catalog.SongRecordFromSong(album.ID, docSong)
		if known {
			record.ID = row.ID
			delete(numbersInUse, positionKey(row.DiscNumber, row.SongNumber))
			if owner, taken := numbersInUse[positionKey(record.DiscNumber, record.SongNumber)]; taken && owner != fileName {
				return catalog.SongChangeSet{}, failed(services.Wrap(services.ErrConflict, "rescan", "reconcile",
					fmt.Sprintf("song number %d on disc %d already taken by %s", record.SongNumber, record.DiscNumber, owner), nil))
			}
			numbersInUse[positionKey(record.DiscNumber, record.SongNumber)] = fileName
			changes.Updates = append(changes.Updates, record)
			continue
		}

		if owner, taken := numbersInUse[positionKey(record.DiscNumber, record.SongNumber)]; taken {
			return catalog.SongChangeSet{}, failed(services.Wrap(services.ErrConflict, "rescan", "reconcile",
				fmt.Sprintf("song number %d on disc %d already taken by %s", record.SongNumber, record.DiscNumber, owner), nil))
		}
		numbersInUse[positionKey(record.DiscNumber, record.SongNumber)] = fileName
		changes.Inserts = append(changes.Inserts, record)
	}

	return changes, Outcome{State: StateReconciling}
}

// persistAlbum refreshes counts and carries the document's verdict onto the
// album row.
func (r *Reconciler) persistAlbum(ctx context.Context, album *catalog.AlbumRecord, document music.Album) error {
	record := *album
	record.Name = document.Title()
	record.Year = document.Year()
	record.AlbumType = string(document.Type)
	record.Status = string(document.Status)
	record.StatusReasons = uint32(document.StatusReasons)
	if _, err := r.store.SaveAlbum(ctx, record); err != nil {
		return err
	}
	return r.store.RefreshAlbumCounts(ctx, album.ID, len(document.Images))
}

func (r *Reconciler) resolveContributors(ctx context.Context, album *catalog.AlbumRecord, document music.Album) error {
	rows, err := r.store.SongsByAlbum(ctx, album.ID)
	if err != nil {
		return err
	}
	songIDs := make(map[string]int64, len(rows))
	for _, row := range rows {
		songIDs[row.FileName] = row.ID
	}
	contributors := ResolveContributors(document.Songs, r.lists)
	return r.store.SyncContributors(ctx, album.ID, songIDs, contributors)
}

func (r *Reconciler) audioFiles(directory string) []string {
	entries, err := os.ReadDir(directory)
	if err != nil {
		return nil
	}
	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if r.registry != nil && r.registry.Handles(entry.Name()) {
			files = append(files, entry.Name())
		}
	}
	return files
}

func positionKey(disc, number int) string {
	return fmt.Sprintf("%d|%d", disc, number)
}
