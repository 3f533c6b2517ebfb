package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// EnqueueRescan journals a rescan request for one album directory. The table
// is the at-least-once boundary: rows stay pending until a handler marks them
// terminal, and a crashed handler's row is simply picked up again.
func (s *Store) EnqueueRescan(ctx context.Context, albumAPIKey, directory string, artistScan bool) (*RescanRequest, error) {
	now := timestamp(time.Now())
	apiKey := uuid.New().String()
	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO rescan_requests (api_key, album_api_key, directory, artist_scan, status, created_at, updated_at)
         VALUES (?, ?, ?, ?, ?, ?, ?)`,
		apiKey, albumAPIKey, directory, boolToInt(artistScan), RescanPending, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("enqueue rescan: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.RescanByID(ctx, id)
}

// RescanByID fetches one journal row, or nil when absent.
func (s *Store) RescanByID(ctx context.Context, id int64) (*RescanRequest, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+rescanColumns+` FROM rescan_requests WHERE id = ?`, id)
	request, err := scanRescan(row)
	if isNoRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get rescan request: %w", err)
	}
	return request, nil
}

// NextPendingRescan claims the oldest pending request, bumping its attempt
// counter, or returns nil when the journal is drained.
func (s *Store) NextPendingRescan(ctx context.Context) (*RescanRequest, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT `+rescanColumns+` FROM rescan_requests WHERE status = ? ORDER BY created_at, id LIMIT 1`,
		RescanPending,
	)
	request, err := scanRescan(row)
	if isNoRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("next pending rescan: %w", err)
	}

	_, err = s.db.ExecContext(
		ctx,
		`UPDATE rescan_requests SET attempts = attempts + 1, updated_at = ? WHERE id = ?`,
		timestamp(time.Now()), request.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("bump rescan attempts: %w", err)
	}
	request.Attempts++
	return request, nil
}

// PendingRescans lists journal rows awaiting a handler, oldest first.
func (s *Store) PendingRescans(ctx context.Context, limit int) ([]*RescanRequest, error) {
	query := `SELECT ` + rescanColumns + ` FROM rescan_requests WHERE status = ? ORDER BY created_at, id`
	args := []any{RescanPending}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list pending rescans: %w", err)
	}
	defer rows.Close()

	var requests []*RescanRequest
	for rows.Next() {
		request, err := scanRescan(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, request)
	}
	return requests, rows.Err()
}

// FinishRescan records a terminal status for one journal row.
func (s *Store) FinishRescan(ctx context.Context, id int64, status RescanStatus, message string) error {
	_, err := s.db.ExecContext(
		ctx,
		`UPDATE rescan_requests SET status = ?, error_message = ?, updated_at = ? WHERE id = ?`,
		status, nullableString(message), timestamp(time.Now()), id,
	)
	if err != nil {
		return fmt.Errorf("finish rescan: %w", err)
	}
	return nil
}

// RequeueRescan returns a claimed request to pending so a later pass retries it.
func (s *Store) RequeueRescan(ctx context.Context, id int64, message string) error {
	_, err := s.db.ExecContext(
		ctx,
		`UPDATE rescan_requests SET status = ?, error_message = ?, updated_at = ? WHERE id = ?`,
		RescanPending, nullableString(message), timestamp(time.Now()), id,
	)
	if err != nil {
		return fmt.Errorf("requeue rescan: %w", err)
	}
	return nil
}

// RescanStats counts journal rows grouped by status.
func (s *Store) RescanStats(ctx context.Context) (map[RescanStatus]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT status, COUNT(1) FROM rescan_requests GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("rescan stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[RescanStatus]int)
	for rows.Next() {
		var status RescanStatus
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		stats[status] = count
	}
	return stats, rows.Err()
}

const rescanColumns = "id, api_key, album_api_key, directory, artist_scan, status, attempts, error_message, created_at, updated_at"

func scanRescan(scanner interface{ Scan(dest ...any) error }) (*RescanRequest, error) {
	var (
		request      RescanRequest
		artistScan   sql.NullInt64
		statusStr    string
		errorMessage sql.NullString
		createdRaw   string
		updatedRaw   string
	)
	if err := scanner.Scan(
		&request.ID,
		&request.APIKey,
		&request.AlbumAPIKey,
		&request.Directory,
		&artistScan,
		&statusStr,
		&request.Attempts,
		&errorMessage,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return nil, err
	}
	request.ArtistScan = artistScan.Valid && artistScan.Int64 != 0
	request.Status = RescanStatus(statusStr)
	request.ErrorMessage = errorMessage.String
	if created, err := parseTimeString(createdRaw); err == nil {
		request.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw); err == nil {
		request.UpdatedAt = updated
	}
	return &request, nil
}
