package catalog

import (
	"context"
	"fmt"

	"aria/internal/music"
)

// SyncAlbum folds a canonical album document into the catalog: the owning
// artist is resolved, the album row is upserted by its identity, and song
// rows are diffed by filename so repeated syncs of the same document are
// no-ops. Aggregates on the album and artist are refreshed afterward.
func (s *Store) SyncAlbum(ctx context.Context, libraryID int64, album music.Album) (*AlbumRecord, error) {
	artistName := album.ArtistName()
	if artistName == "" {
		artistName = "Unknown Artist"
	}
	artist, err := s.EnsureArtist(ctx, libraryID, artistName)
	if err != nil {
		return nil, err
	}

	record := AlbumRecord{
		APIKey:          album.ID.String(),
		LibraryID:       libraryID,
		ArtistID:        artist.ID,
		Name:            album.Title(),
		Directory:       album.Directory,
		Year:            album.Year(),
		AlbumType:       string(album.Type),
		Status:          string(album.Status),
		StatusReasons:   uint32(album.StatusReasons),
		ImageCount:      len(album.Images),
		DurationSeconds: int64(album.TotalDuration().Seconds()),
	}
	saved, err := s.SaveAlbum(ctx, record)
	if err != nil {
		return nil, err
	}

	existing, err := s.SongsByAlbum(ctx, saved.ID)
	if err != nil {
		return nil, err
	}
	changes := diffSongs(saved.ID, existing, album.SortedSongs())
	if err := s.ApplySongChanges(ctx, saved.ID, changes); err != nil {
		return nil, err
	}

	if err := s.RefreshAlbumCounts(ctx, saved.ID, len(album.Images)); err != nil {
		return nil, err
	}
	if err := s.RecomputeArtistAggregates(ctx, artist.ID); err != nil {
		return nil, err
	}
	return s.AlbumByKey(ctx, album.ID.String())
}

// diffSongs computes the per-filename delta between persisted rows and a
// document's songs. Rows with a vanished document entry are deleted, changed
// rows are updated, and new entries are inserted.
func diffSongs(albumID int64, existing []*SongRecord, songs []music.Song) SongChangeSet {
	byFileName := make(map[string]*SongRecord, len(existing))
	for _, row := range existing {
		byFileName[row.FileName] = row
	}

	var changes SongChangeSet
	seen := make(map[string]struct{}, len(songs))
	for _, song := range songs {
		seen[song.FileName] = struct{}{}
		record := SongRecordFromSong(albumID, song)
		row, ok := byFileName[song.FileName]
		if !ok {
			changes.Inserts = append(changes.Inserts, record)
			continue
		}
		record.ID = row.ID
		if songRowDiffers(row, record) {
			changes.Updates = append(changes.Updates, record)
		}
	}
	for _, row := range existing {
		if _, ok := seen[row.FileName]; !ok {
			changes.Deletes = append(changes.Deletes, row.ID)
		}
	}
	return changes
}

// SongRecordFromSong maps a document song onto a catalog row.
func SongRecordFromSong(albumID int64, song music.Song) SongRecord {
	return SongRecord{
		AlbumID:         albumID,
		FileName:        song.FileName,
		Title:           song.Title(),
		SongNumber:      song.SongNumber(),
		DiscNumber:      song.DiscNumber(),
		DurationSeconds: int64(song.Duration.Seconds()),
		BitRate:         song.BitRate,
		SampleRate:      song.SampleRate,
		Channels:        song.Channels,
		CRCHash:         song.CRCHash,
		FileSize:        song.FileSize,
	}
}

func songRowDiffers(row *SongRecord, next SongRecord) bool {
	return row.Title != next.Title ||
		row.SongNumber != next.SongNumber ||
		row.DiscNumber != next.DiscNumber ||
		row.DurationSeconds != next.DurationSeconds ||
		row.BitRate != next.BitRate ||
		row.SampleRate != next.SampleRate ||
		row.Channels != next.Channels ||
		row.CRCHash != next.CRCHash ||
		row.FileSize != next.FileSize
}

// SyncContributors replaces each song's contributor rows from the supplied
// set, deduplicated by name and role within the album.
func (s *Store) SyncContributors(ctx context.Context, albumID int64, songIDsByFileName map[string]int64, contributors []music.Contributor) error {
	deduped := music.DedupContributors(contributors)
	bySong := make(map[int64][]ContributorRecord)
	for _, contributor := range deduped {
		songID, ok := songIDsByFileName[contributor.SongFileName]
		if !ok {
			continue
		}
		bySong[songID] = append(bySong[songID], ContributorRecord{
			AlbumID: albumID,
			SongID:  songID,
			Name:    contributor.Name,
			Role:    string(contributor.Role),
		})
	}
	for fileName, songID := range songIDsByFileName {
		if err := s.ReplaceSongContributors(ctx, albumID, songID, bySong[songID]); err != nil {
			return fmt.Errorf("sync contributors for %s: %w", fileName, err)
		}
	}
	return nil
}
