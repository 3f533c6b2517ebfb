package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"aria/internal/textutil"
)

// EnsureLibrary returns the library with the given name, creating it when
// absent. Path updates apply on every call so a moved root is picked up.
func (s *Store) EnsureLibrary(ctx context.Context, name, path string) (*LibraryRecord, error) {
	now := timestamp(time.Now())
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO libraries (name, path, created_at, updated_at) VALUES (?, ?, ?, ?)
         ON CONFLICT(name) DO UPDATE SET path = excluded.path, updated_at = excluded.updated_at`,
		name, path, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("ensure library: %w", err)
	}
	return s.LibraryByName(ctx, name)
}

// LibraryByName fetches a library row, or nil when absent.
func (s *Store) LibraryByName(ctx context.Context, name string) (*LibraryRecord, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+libraryColumns+` FROM libraries WHERE name = ?`, name)
	library, err := scanLibrary(row)
	if isNoRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get library: %w", err)
	}
	return library, nil
}

// LibraryByID fetches a library row by identifier, or nil when absent.
func (s *Store) LibraryByID(ctx context.Context, id int64) (*LibraryRecord, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+libraryColumns+` FROM libraries WHERE id = ?`, id)
	library, err := scanLibrary(row)
	if isNoRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get library: %w", err)
	}
	return library, nil
}

// RecomputeLibraryAggregates rederives a library's rolled-up counts from its
// albums and songs. Safe to re-run; the same inputs yield the same row.
func (s *Store) RecomputeLibraryAggregates(ctx context.Context, libraryID int64) error {
	_, err := s.db.ExecContext(
		ctx,
		`UPDATE libraries SET
            album_count = (SELECT COUNT(1) FROM albums WHERE library_id = ?),
            song_count = (SELECT COUNT(1) FROM songs
                WHERE album_id IN (SELECT id FROM albums WHERE library_id = ?)),
            duration_seconds = (SELECT COALESCE(SUM(duration_seconds), 0) FROM songs
                WHERE album_id IN (SELECT id FROM albums WHERE library_id = ?)),
            image_count = (SELECT COALESCE(SUM(image_count), 0) FROM albums WHERE library_id = ?),
            updated_at = ?
         WHERE id = ?`,
		libraryID, libraryID, libraryID, libraryID, timestamp(time.Now()), libraryID,
	)
	if err != nil {
		return fmt.Errorf("recompute library aggregates: %w", err)
	}
	return nil
}

// EnsureArtist returns the artist with the given name inside a library,
// creating it when absent. Matching is on the normalized sort name so case
// and accent variants resolve to one row.
func (s *Store) EnsureArtist(ctx context.Context, libraryID int64, name string) (*ArtistRecord, error) {
	sortName := textutil.Normalize(name)
	if sortName == "" {
		return nil, fmt.Errorf("ensure artist: empty name")
	}
	now := timestamp(time.Now())
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO artists (library_id, name, sort_name, created_at, updated_at)
         VALUES (?, ?, ?, ?, ?)
         ON CONFLICT(library_id, sort_name) DO UPDATE SET updated_at = excluded.updated_at`,
		libraryID, name, sortName, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("ensure artist: %w", err)
	}

	row := s.db.QueryRowContext(
		ctx,
		`SELECT `+artistColumns+` FROM artists WHERE library_id = ? AND sort_name = ?`,
		libraryID, sortName,
	)
	artist, err := scanArtist(row)
	if err != nil {
		return nil, fmt.Errorf("get artist: %w", err)
	}
	return artist, nil
}

// ArtistByID fetches an artist row, or nil when absent.
func (s *Store) ArtistByID(ctx context.Context, id int64) (*ArtistRecord, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+artistColumns+` FROM artists WHERE id = ?`, id)
	artist, err := scanArtist(row)
	if isNoRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get artist: %w", err)
	}
	return artist, nil
}

// SetArtistLocked toggles editorial protection on an artist.
func (s *Store) SetArtistLocked(ctx context.Context, id int64, locked bool) error {
	_, err := s.db.ExecContext(
		ctx,
		`UPDATE artists SET locked = ?, updated_at = ? WHERE id = ?`,
		boolToInt(locked), timestamp(time.Now()), id,
	)
	if err != nil {
		return fmt.Errorf("set artist locked: %w", err)
	}
	return nil
}

// RecomputeArtistAggregates rederives an artist's album and song counts.
func (s *Store) RecomputeArtistAggregates(ctx context.Context, artistID int64) error {
	_, err := s.db.ExecContext(
		ctx,
		`UPDATE artists SET
            album_count = (SELECT COUNT(1) FROM albums WHERE artist_id = ?),
            song_count = (SELECT COUNT(1) FROM songs
                WHERE album_id IN (SELECT id FROM albums WHERE artist_id = ?)),
            updated_at = ?
         WHERE id = ?`,
		artistID, artistID, timestamp(time.Now()), artistID,
	)
	if err != nil {
		return fmt.Errorf("recompute artist aggregates: %w", err)
	}
	return nil
}

const libraryColumns = "id, name, path, album_count, song_count, duration_seconds, image_count, created_at, updated_at"

func scanLibrary(scanner interface{ Scan(dest ...any) error }) (*LibraryRecord, error) {
	var (
		library    LibraryRecord
		createdRaw string
		updatedRaw string
	)
	if err := scanner.Scan(
		&library.ID,
		&library.Name,
		&library.Path,
		&library.AlbumCount,
		&library.SongCount,
		&library.DurationSeconds,
		&library.ImageCount,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return nil, err
	}
	if created, err := parseTimeString(createdRaw); err == nil {
		library.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw); err == nil {
		library.UpdatedAt = updated
	}
	return &library, nil
}

const artistColumns = "id, library_id, name, sort_name, locked, album_count, song_count, created_at, updated_at"

func scanArtist(scanner interface{ Scan(dest ...any) error }) (*ArtistRecord, error) {
	var (
		artist     ArtistRecord
		locked     sql.NullInt64
		createdRaw string
		updatedRaw string
	)
	if err := scanner.Scan(
		&artist.ID,
		&artist.LibraryID,
		&artist.Name,
		&artist.SortName,
		&locked,
		&artist.AlbumCount,
		&artist.SongCount,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return nil, err
	}
	artist.Locked = locked.Valid && locked.Int64 != 0
	if created, err := parseTimeString(createdRaw); err == nil {
		artist.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw); err == nil {
		artist.UpdatedAt = updated
	}
	return &artist, nil
}
