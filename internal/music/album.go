package music

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// AlbumType classifies a release.
type AlbumType string

const (
	AlbumTypeNotSet AlbumType = ""
	AlbumTypeAlbum  AlbumType = "album"
	AlbumTypeEP     AlbumType = "ep"
	AlbumTypeSingle AlbumType = "single"
)

// albumTypeRank orders types by specificity for merge reconciliation.
// Types outside this table never override an established value.
var albumTypeRank = map[AlbumType]int{
	AlbumTypeNotSet: 0,
	AlbumTypeSingle: 1,
	AlbumTypeEP:     2,
	AlbumTypeAlbum:  3,
}

// Album is a published collection of songs assembled from one directory.
// OriginalDirectory records where the files were first scanned; Directory is
// the current location and diverges once the album moves into a library.
type Album struct {
	ID                uuid.UUID     `json:"id"`
	Type              AlbumType     `json:"type,omitempty"`
	OriginalDirectory string        `json:"originalDirectory,omitempty"`
	Directory         string        `json:"directory"`
	Tags              []Tag         `json:"tags,omitempty"`
	Songs             []Song        `json:"songs,omitempty"`
	Images            []Image       `json:"images,omitempty"`
	Files             []FileInfo    `json:"files,omitempty"`
	Contributors      []Contributor `json:"contributors,omitempty"`
	Status            Status        `json:"status"`
	StatusReasons     Reasons       `json:"statusReasons,omitempty"`
	Messages          []string      `json:"messages,omitempty"`
	ViaPlugins        []string      `json:"viaPlugins,omitempty"`
	Created           time.Time     `json:"created,omitempty"`
	Modified          time.Time     `json:"modified,omitempty"`
}

// NewAlbum returns an empty album rooted at directory with a fresh identity.
func NewAlbum(directory string) Album {
	now := time.Now().UTC()
	return Album{
		ID:                uuid.New(),
		OriginalDirectory: directory,
		Directory:         directory,
		Status:            StatusNew,
		Created:           now,
		Modified:          now,
	}
}

// Title returns the album title tag value.
func (a Album) Title() string {
	return TagValue(a.Tags, TagAlbum)
}

// ArtistName returns the album artist, falling back to the artist tag.
func (a Album) ArtistName() string {
	if name := TagValue(a.Tags, TagAlbumArtist); strings.TrimSpace(name) != "" {
		return name
	}
	return TagValue(a.Tags, TagArtist)
}

// Year returns the recording year, 0 when untagged or unparseable.
func (a Album) Year() int {
	return TagInt(a.Tags, TagRecordingYear)
}

// Genres returns the distinct genre values, splitting multi-valued tags on
// the conventional separators.
func (a Album) Genres() []string {
	raw := TagValue(a.Tags, TagGenre)
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ';' || r == '/' || r == ','
	})
	seen := make(map[string]struct{}, len(fields))
	out := make([]string, 0, len(fields))
	for _, field := range fields {
		trimmed := strings.TrimSpace(field)
		if trimmed == "" {
			continue
		}
		key := strings.ToLower(trimmed)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, trimmed)
	}
	return out
}

// SongTotal returns the declared song total tag, falling back to the count of
// songs actually present.
func (a Album) SongTotal() int {
	if n := TagInt(a.Tags, TagTrackTotal); n > 0 {
		return n
	}
	return len(a.Songs)
}

// TotalDuration is always derived from the songs set, never stored.
func (a Album) TotalDuration() time.Duration {
	var total time.Duration
	for _, song := range a.Songs {
		total += song.Duration
	}
	return total
}

// SortTitle returns the title with a leading English article removed, used as
// the derived sort key.
func (a Album) SortTitle() string {
	title := strings.TrimSpace(a.Title())
	lower := strings.ToLower(title)
	for _, article := range []string{"the ", "a ", "an "} {
		if strings.HasPrefix(lower, article) && len(title) > len(article) {
			return strings.TrimSpace(title[len(article):])
		}
	}
	return title
}

// WithTag returns a copy of the album with the given tag set.
func (a Album) WithTag(id TagID, value string, processor string) Album {
	out := a
	out.Tags = SetTagValue(a.Tags, id, value, processor)
	return out
}

// WithSongTotal returns a copy with the song total tag synchronized to the
// current song count.
func (a Album) WithSongTotal() Album {
	return a.WithTag(TagTrackTotal, strconv.Itoa(len(a.Songs)), "")
}

// WithMessage returns a copy with message appended to the validation messages.
func (a Album) WithMessage(message string) Album {
	out := a
	out.Messages = append(append([]string{}, a.Messages...), message)
	return out
}

// SongByFileName returns the song with the given filename, if present.
func (a Album) SongByFileName(fileName string) (Song, bool) {
	for _, song := range a.Songs {
		if song.FileName == fileName {
			return song, true
		}
	}
	return Song{}, false
}

// SortedSongs returns the songs ordered by disc then track position, with
// filename as the final tiebreak.
func (a Album) SortedSongs() []Song {
	songs := make([]Song, len(a.Songs))
	copy(songs, a.Songs)
	sort.SliceStable(songs, func(i, j int) bool {
		if songs[i].DiscNumber() != songs[j].DiscNumber() {
			return songs[i].DiscNumber() < songs[j].DiscNumber()
		}
		if songs[i].SongNumber() != songs[j].SongNumber() {
			return songs[i].SongNumber() < songs[j].SongNumber()
		}
		return songs[i].FileName < songs[j].FileName
	})
	return songs
}
