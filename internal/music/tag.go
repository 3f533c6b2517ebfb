package music

import (
	"strconv"
	"strings"
)

// TagID identifies one recognized metadata field.
type TagID string

const (
	TagAlbum         TagID = "album"
	TagAlbumArtist   TagID = "album_artist"
	TagArtist        TagID = "artist"
	TagTitle         TagID = "title"
	TagRecordingYear TagID = "recording_year"
	TagGenre         TagID = "genre"
	TagTrackNumber   TagID = "track_number"
	TagTrackTotal    TagID = "track_total"
	TagDiscNumber    TagID = "disc_number"
	TagDiscTotal     TagID = "disc_total"
	TagComposer      TagID = "composer"
	TagPublisher     TagID = "publisher"
	TagProducer      TagID = "producer"
	TagComment       TagID = "comment"
)

// tagSortOrder fixes the display ordering of known identifiers.
var tagSortOrder = map[TagID]int{
	TagAlbum:         1,
	TagAlbumArtist:   2,
	TagArtist:        3,
	TagTitle:         4,
	TagRecordingYear: 5,
	TagGenre:         6,
	TagTrackNumber:   7,
	TagTrackTotal:    8,
	TagDiscNumber:    9,
	TagDiscTotal:     10,
	TagComposer:      11,
	TagPublisher:     12,
	TagProducer:      13,
	TagComment:       14,
}

// Tag is one named metadata field with provenance. OriginalValue holds the
// pre-normalization value once a processor rewrites Value.
type Tag struct {
	ID            TagID    `json:"id"`
	Value         string   `json:"value"`
	OriginalValue string   `json:"originalValue,omitempty"`
	SortOrder     int      `json:"sortOrder,omitempty"`
	WasModified   bool     `json:"wasModified,omitempty"`
	ProcessedBy   []string `json:"processedBy,omitempty"`
}

// FindTag returns the tag with the given identifier, if present.
func FindTag(tags []Tag, id TagID) (Tag, bool) {
	for _, tag := range tags {
		if tag.ID == id {
			return tag, true
		}
	}
	return Tag{}, false
}

// TagValue returns the string value for id, or empty when absent.
func TagValue(tags []Tag, id TagID) string {
	if tag, ok := FindTag(tags, id); ok {
		return tag.Value
	}
	return ""
}

// TagInt parses the tag value for id as an integer, returning 0 when absent
// or unparseable.
func TagInt(tags []Tag, id TagID) int {
	value := strings.TrimSpace(TagValue(tags, id))
	if value == "" {
		return 0
	}
	// Tolerate "3/12" style track fields.
	if idx := strings.IndexByte(value, '/'); idx > 0 {
		value = value[:idx]
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0
	}
	return n
}

// SetTagValue returns a copy of tags with id set to value. An existing tag
// keeps its first original value; an identical value is a no-op. The processor
// name, when non-empty, is appended to the tag's provenance list.
func SetTagValue(tags []Tag, id TagID, value string, processor string) []Tag {
	out := make([]Tag, len(tags))
	copy(out, tags)

	for i, tag := range out {
		if tag.ID != id {
			continue
		}
		if tag.Value == value {
			return out
		}
		updated := tag
		if updated.OriginalValue == "" && updated.Value != value {
			updated.OriginalValue = tag.Value
		}
		updated.Value = value
		updated.WasModified = true
		if processor != "" {
			updated.ProcessedBy = appendUnique(tag.ProcessedBy, processor)
		}
		out[i] = updated
		return out
	}

	created := Tag{ID: id, Value: value, SortOrder: tagSortOrder[id]}
	if processor != "" {
		created.ProcessedBy = []string{processor}
	}
	return append(out, created)
}

func appendUnique(values []string, value string) []string {
	for _, existing := range values {
		if existing == value {
			cp := make([]string, len(values))
			copy(cp, values)
			return cp
		}
	}
	out := make([]string, 0, len(values)+1)
	out = append(out, values...)
	return append(out, value)
}
