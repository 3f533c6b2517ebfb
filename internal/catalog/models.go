package catalog

import "time"

// LibraryRecord is one managed library root with its rolled-up aggregates.
type LibraryRecord struct {
	ID              int64
	Name            string
	Path            string
	AlbumCount      int
	SongCount       int
	DurationSeconds int64
	ImageCount      int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ArtistRecord is a catalog artist. Locked artists are protected from
// reconciliation side effects.
type ArtistRecord struct {
	ID         int64
	LibraryID  int64
	Name       string
	SortName   string
	Locked     bool
	AlbumCount int
	SongCount  int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// AlbumRecord is a persisted album row. APIKey carries the identity assigned
// when the canonical document was first written, so rescans can find the row
// regardless of directory renames.
type AlbumRecord struct {
	ID              int64
	APIKey          string
	LibraryID       int64
	ArtistID        int64
	Name            string
	Directory       string
	Year            int
	AlbumType       string
	Status          string
	StatusReasons   uint32
	SongCount       int
	ImageCount      int
	DurationSeconds int64
	Locked          bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// SongRecord is a persisted song row belonging to one album.
type SongRecord struct {
	ID              int64
	AlbumID         int64
	FileName        string
	Title           string
	SongNumber      int
	DiscNumber      int
	DurationSeconds int64
	BitRate         int
	SampleRate      int
	Channels        int
	CRCHash         string
	FileSize        int64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ContributorRecord is one credited name on a song.
type ContributorRecord struct {
	ID        int64
	AlbumID   int64
	SongID    int64
	Name      string
	Role      string
	CreatedAt time.Time
}

// RescanStatus tracks one journal entry through its lifecycle.
type RescanStatus string

const (
	RescanPending RescanStatus = "pending"
	RescanDone    RescanStatus = "done"
	RescanSkipped RescanStatus = "skipped"
	RescanFailed  RescanStatus = "failed"
)

// RescanRequest is one row of the at-least-once delivery journal. Handlers
// must be idempotent: the same request may be picked up again after a crash.
type RescanRequest struct {
	ID           int64
	APIKey       string
	AlbumAPIKey  string
	Directory    string
	ArtistScan   bool
	Status       RescanStatus
	Attempts     int
	ErrorMessage string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// SongChangeSet is the delta a reconciliation pass computed for one album.
// Apply is all-or-nothing so an abort never leaves partial song writes.
type SongChangeSet struct {
	Deletes []int64
	Updates []SongRecord
	Inserts []SongRecord
}

// Empty reports whether the change set carries no work.
func (c SongChangeSet) Empty() bool {
	return len(c.Deletes) == 0 && len(c.Updates) == 0 && len(c.Inserts) == 0
}
