package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// SaveAlbum inserts or updates an album row keyed by its API key.
func (s *Store) SaveAlbum(ctx context.Context, record AlbumRecord) (*AlbumRecord, error) {
	if record.APIKey == "" {
		return nil, errors.New("album api key is empty")
	}
	now := timestamp(time.Now())
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO albums (
            api_key, library_id, artist_id, name, directory, year, album_type,
            status, status_reasons, song_count, image_count, duration_seconds,
            locked, created_at, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(api_key) DO UPDATE SET
            library_id = excluded.library_id,
            artist_id = excluded.artist_id,
            name = excluded.name,
            directory = excluded.directory,
            year = excluded.year,
            album_type = excluded.album_type,
            status = excluded.status,
            status_reasons = excluded.status_reasons,
            song_count = excluded.song_count,
            image_count = excluded.image_count,
            duration_seconds = excluded.duration_seconds,
            updated_at = excluded.updated_at`,
		record.APIKey,
		record.LibraryID,
		record.ArtistID,
		record.Name,
		record.Directory,
		record.Year,
		record.AlbumType,
		record.Status,
		record.StatusReasons,
		record.SongCount,
		record.ImageCount,
		record.DurationSeconds,
		boolToInt(record.Locked),
		now,
		now,
	)
	if err != nil {
		return nil, fmt.Errorf("save album: %w", err)
	}
	return s.AlbumByKey(ctx, record.APIKey)
}

// AlbumByKey fetches an album row by API key, or nil when absent.
func (s *Store) AlbumByKey(ctx context.Context, apiKey string) (*AlbumRecord, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+albumColumns+` FROM albums WHERE api_key = ?`, apiKey)
	album, err := scanAlbum(row)
	if isNoRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get album: %w", err)
	}
	return album, nil
}

// AlbumByDirectory fetches an album row by its backing directory.
func (s *Store) AlbumByDirectory(ctx context.Context, directory string) (*AlbumRecord, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+albumColumns+` FROM albums WHERE directory = ?`, directory)
	album, err := scanAlbum(row)
	if isNoRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get album by directory: %w", err)
	}
	return album, nil
}

// AlbumsByLibrary lists a library's albums ordered by name.
func (s *Store) AlbumsByLibrary(ctx context.Context, libraryID int64) ([]*AlbumRecord, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+albumColumns+` FROM albums WHERE library_id = ? ORDER BY name`,
		libraryID,
	)
	if err != nil {
		return nil, fmt.Errorf("list albums: %w", err)
	}
	defer rows.Close()

	var albums []*AlbumRecord
	for rows.Next() {
		album, err := scanAlbum(rows)
		if err != nil {
			return nil, err
		}
		albums = append(albums, album)
	}
	return albums, rows.Err()
}

// DeleteAlbum removes an album; songs and contributors cascade.
func (s *Store) DeleteAlbum(ctx context.Context, id int64) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM albums WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete album: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

// SetAlbumLocked toggles editorial protection on an album.
func (s *Store) SetAlbumLocked(ctx context.Context, id int64, locked bool) error {
	_, err := s.db.ExecContext(
		ctx,
		`UPDATE albums SET locked = ?, updated_at = ? WHERE id = ?`,
		boolToInt(locked), timestamp(time.Now()), id,
	)
	if err != nil {
		return fmt.Errorf("set album locked: %w", err)
	}
	return nil
}

// RefreshAlbumCounts rederives an album's song count and duration from its
// song rows and stores the supplied image count.
func (s *Store) RefreshAlbumCounts(ctx context.Context, albumID int64, imageCount int) error {
	_, err := s.db.ExecContext(
		ctx,
		`UPDATE albums SET
            song_count = (SELECT COUNT(1) FROM songs WHERE album_id = ?),
            duration_seconds = (SELECT COALESCE(SUM(duration_seconds), 0) FROM songs WHERE album_id = ?),
            image_count = ?,
            updated_at = ?
         WHERE id = ?`,
		albumID, albumID, imageCount, timestamp(time.Now()), albumID,
	)
	if err != nil {
		return fmt.Errorf("refresh album counts: %w", err)
	}
	return nil
}

// SongsByAlbum lists an album's songs ordered by disc then position.
func (s *Store) SongsByAlbum(ctx context.Context, albumID int64) ([]*SongRecord, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+songColumns+` FROM songs WHERE album_id = ? ORDER BY disc_number, song_number, file_name`,
		albumID,
	)
	if err != nil {
		return nil, fmt.Errorf("list songs: %w", err)
	}
	defer rows.Close()

	var songs []*SongRecord
	for rows.Next() {
		song, err := scanSong(rows)
		if err != nil {
			return nil, err
		}
		songs = append(songs, song)
	}
	return songs, rows.Err()
}

// ApplySongChanges runs a reconciliation delta in one transaction so an abort
// never leaves a partially-applied pass.
func (s *Store) ApplySongChanges(ctx context.Context, albumID int64, changes SongChangeSet) error {
	if changes.Empty() {
		return nil
	}
	now := timestamp(time.Now())
	return s.withTx(ctx, func(tx *sql.Tx) error {
		for _, id := range changes.Deletes {
			if _, err := tx.ExecContext(ctx, `DELETE FROM songs WHERE id = ? AND album_id = ?`, id, albumID); err != nil {
				return fmt.Errorf("delete song %d: %w", id, err)
			}
		}
		for _, song := range changes.Updates {
			if _, err := tx.ExecContext(
				ctx,
				`UPDATE songs SET
                    title = ?, song_number = ?, disc_number = ?, duration_seconds = ?,
                    bit_rate = ?, sample_rate = ?, channels = ?, crc_hash = ?, file_size = ?,
                    updated_at = ?
                 WHERE id = ? AND album_id = ?`,
				song.Title,
				song.SongNumber,
				song.DiscNumber,
				song.DurationSeconds,
				song.BitRate,
				song.SampleRate,
				song.Channels,
				song.CRCHash,
				song.FileSize,
				now,
				song.ID,
				albumID,
			); err != nil {
				return fmt.Errorf("update song %s: %w", song.FileName, err)
			}
		}
		for _, song := range changes.Inserts {
			if _, err := tx.ExecContext(
				ctx,
				`INSERT INTO songs (
                    album_id, file_name, title, song_number, disc_number,
                    duration_seconds, bit_rate, sample_rate, channels, crc_hash,
                    file_size, created_at, updated_at
                ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				albumID,
				song.FileName,
				song.Title,
				song.SongNumber,
				song.DiscNumber,
				song.DurationSeconds,
				song.BitRate,
				song.SampleRate,
				song.Channels,
				song.CRCHash,
				song.FileSize,
				now,
				now,
			); err != nil {
				return fmt.Errorf("insert song %s: %w", song.FileName, err)
			}
		}
		return nil
	})
}

// ReplaceSongContributors swaps a song's credited names for the supplied set
// in one transaction.
func (s *Store) ReplaceSongContributors(ctx context.Context, albumID, songID int64, contributors []ContributorRecord) error {
	now := timestamp(time.Now())
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM contributors WHERE song_id = ?`, songID); err != nil {
			return fmt.Errorf("clear contributors: %w", err)
		}
		for _, contributor := range contributors {
			if _, err := tx.ExecContext(
				ctx,
				`INSERT INTO contributors (album_id, song_id, name, role, created_at)
                 VALUES (?, ?, ?, ?, ?)
                 ON CONFLICT(song_id, name, role) DO NOTHING`,
				albumID, songID, contributor.Name, contributor.Role, now,
			); err != nil {
				return fmt.Errorf("insert contributor %s: %w", contributor.Name, err)
			}
		}
		return nil
	})
}

// ContributorsByAlbum lists an album's contributors ordered by song then name.
func (s *Store) ContributorsByAlbum(ctx context.Context, albumID int64) ([]*ContributorRecord, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT id, album_id, song_id, name, role, created_at
         FROM contributors WHERE album_id = ? ORDER BY song_id, role, name`,
		albumID,
	)
	if err != nil {
		return nil, fmt.Errorf("list contributors: %w", err)
	}
	defer rows.Close()

	var contributors []*ContributorRecord
	for rows.Next() {
		var (
			contributor ContributorRecord
			createdRaw  string
		)
		if err := rows.Scan(
			&contributor.ID,
			&contributor.AlbumID,
			&contributor.SongID,
			&contributor.Name,
			&contributor.Role,
			&createdRaw,
		); err != nil {
			return nil, err
		}
		if created, err := parseTimeString(createdRaw); err == nil {
			contributor.CreatedAt = created
		}
		contributors = append(contributors, &contributor)
	}
	return contributors, rows.Err()
}

const albumColumns = "id, api_key, library_id, artist_id, name, directory, year, album_type, status, status_reasons, song_count, image_count, duration_seconds, locked, created_at, updated_at"

func scanAlbum(scanner interface{ Scan(dest ...any) error }) (*AlbumRecord, error) {
	var (
		album      AlbumRecord
		locked     sql.NullInt64
		createdRaw string
		updatedRaw string
	)
	if err := scanner.Scan(
		&album.ID,
		&album.APIKey,
		&album.LibraryID,
		&album.ArtistID,
		&album.Name,
		&album.Directory,
		&album.Year,
		&album.AlbumType,
		&album.Status,
		&album.StatusReasons,
		&album.SongCount,
		&album.ImageCount,
		&album.DurationSeconds,
		&locked,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return nil, err
	}
	album.Locked = locked.Valid && locked.Int64 != 0
	if created, err := parseTimeString(createdRaw); err == nil {
		album.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw); err == nil {
		album.UpdatedAt = updated
	}
	return &album, nil
}

const songColumns = "id, album_id, file_name, title, song_number, disc_number, duration_seconds, bit_rate, sample_rate, channels, crc_hash, file_size, created_at, updated_at"

func scanSong(scanner interface{ Scan(dest ...any) error }) (*SongRecord, error) {
	var (
		song       SongRecord
		createdRaw string
		updatedRaw string
	)
	if err := scanner.Scan(
		&song.ID,
		&song.AlbumID,
		&song.FileName,
		&song.Title,
		&song.SongNumber,
		&song.DiscNumber,
		&song.DurationSeconds,
		&song.BitRate,
		&song.SampleRate,
		&song.Channels,
		&song.CRCHash,
		&song.FileSize,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return nil, err
	}
	if created, err := parseTimeString(createdRaw); err == nil {
		song.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw); err == nil {
		song.UpdatedAt = updated
	}
	return &song, nil
}
