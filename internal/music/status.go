package music

import "strings"

// Status represents the lifecycle of an album record. Re-extraction always
// resets a record to StatusNew before validation re-derives Ok or Invalid.
type Status string

const (
	StatusNew     Status = "new"
	StatusOk      Status = "ok"
	StatusInvalid Status = "invalid"
)

// ParseStatus converts a string into a known Status.
func ParseStatus(value string) (Status, bool) {
	normalized := Status(strings.ToLower(strings.TrimSpace(value)))
	switch normalized {
	case StatusNew, StatusOk, StatusInvalid:
		return normalized, true
	default:
		return "", false
	}
}

// Reasons is a bitmask of independent validator findings. It is recomputed
// wholesale on every validation pass, never patched incrementally.
type Reasons uint32

const (
	ReasonInvalidArtist Reasons = 1 << iota
	ReasonInvalidYear
	ReasonNoImages
	ReasonInvalidSongs
	ReasonUnwantedAlbumTitle
)

var reasonNames = []struct {
	bit  Reasons
	name string
}{
	{ReasonInvalidArtist, "invalid artist"},
	{ReasonInvalidYear, "invalid year"},
	{ReasonNoImages, "no images"},
	{ReasonInvalidSongs, "invalid songs"},
	{ReasonUnwantedAlbumTitle, "unwanted album title text"},
}

// Has reports whether every bit in mask is set.
func (r Reasons) Has(mask Reasons) bool {
	return r&mask == mask
}

func (r Reasons) String() string {
	if r == 0 {
		return "none"
	}
	parts := make([]string, 0, len(reasonNames))
	for _, entry := range reasonNames {
		if r&entry.bit != 0 {
			parts = append(parts, entry.name)
		}
	}
	return strings.Join(parts, ", ")
}
