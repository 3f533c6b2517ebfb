package music

import (
	"fmt"
	"time"

	"aria/internal/fileutil"
)

// Song is one playable file within an album.
type Song struct {
	FileName   string        `json:"fileName"`
	CRCHash    string        `json:"crcHash,omitempty"`
	FileSize   int64         `json:"fileSize,omitempty"`
	Duration   time.Duration `json:"duration,omitempty"`
	BitRate    int           `json:"bitRate,omitempty"`
	BitDepth   int           `json:"bitDepth,omitempty"`
	SampleRate int           `json:"sampleRate,omitempty"`
	Channels   int           `json:"channels,omitempty"`
	Tags       []Tag         `json:"tags,omitempty"`
	SortOrder  int           `json:"sortOrder,omitempty"`
}

// Title returns the song title tag value.
func (s Song) Title() string {
	return TagValue(s.Tags, TagTitle)
}

// SongNumber returns the numeric track position, 0 when untagged.
func (s Song) SongNumber() int {
	return TagInt(s.Tags, TagTrackNumber)
}

// DiscNumber returns the disc grouping, defaulting to 1 when untagged.
func (s Song) DiscNumber() int {
	if n := TagInt(s.Tags, TagDiscNumber); n > 0 {
		return n
	}
	return 1
}

// UniqueID derives the song's identity from its filename and position. Two
// extraction passes over the same file produce the same id, which the merge
// engine uses to deduplicate songs.
func (s Song) UniqueID() string {
	return fileutil.CRC32Sum([]byte(fmt.Sprintf("%s|%d|%d", s.FileName, s.DiscNumber(), s.SongNumber())))
}

// WithTag returns a copy of the song with the given tag set.
func (s Song) WithTag(id TagID, value string, processor string) Song {
	out := s
	out.Tags = SetTagValue(s.Tags, id, value, processor)
	return out
}

// Image is artwork discovered alongside or embedded in audio files,
// deduplicated by content hash.
type Image struct {
	FileName string `json:"fileName,omitempty"`
	CRCHash  string `json:"crcHash"`
	FileSize int64  `json:"fileSize,omitempty"`
	Width    int    `json:"width,omitempty"`
	Height   int    `json:"height,omitempty"`
}

// FileInfo describes one source file that contributed to an album record.
type FileInfo struct {
	FileName string `json:"fileName"`
	FileSize int64  `json:"fileSize,omitempty"`
	CRCHash  string `json:"crcHash,omitempty"`
}
