package music

import "time"

// Merge reconciles two album records into one, deterministically. The base
// record's identity and directories are always retained; incoming data only
// adds, never relocates or replaces. Applying Merge repeatedly across partial
// extractions never reorders already-accepted values.
func Merge(base, incoming Album) Album {
	out := base

	out.Tags = mergeTags(base.Tags, incoming.Tags)
	out.Songs = MergeSongs(base.Songs, incoming.Songs)
	out.Images = mergeImages(base.Images, incoming.Images)
	out.Files = mergeFiles(base.Files, incoming.Files)
	out.ViaPlugins = mergeStrings(base.ViaPlugins, incoming.ViaPlugins)
	out.Messages = distinctStrings(append(append([]string{}, base.Messages...), incoming.Messages...))
	out.Type = mergeAlbumType(base.Type, incoming.Type)
	out.Status, out.StatusReasons = mergeStatus(base, incoming)
	out.Modified = time.Now().UTC()

	return out
}

// MergeSongs unions two song sets, deduplicated by derived unique id. An
// incoming song absent from base is appended; it never replaces an existing
// entry.
func MergeSongs(base, incoming []Song) []Song {
	out := make([]Song, len(base))
	copy(out, base)

	seen := make(map[string]struct{}, len(base))
	for _, song := range base {
		seen[song.UniqueID()] = struct{}{}
	}
	for _, song := range incoming {
		id := song.UniqueID()
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, song)
	}
	return out
}

// mergeTags adds an incoming tag only when its identifier is absent in base
// or its value differs; an exact-equal value already in base wins the tie.
func mergeTags(base, incoming []Tag) []Tag {
	out := make([]Tag, len(base))
	copy(out, base)

	for _, tag := range incoming {
		existing, ok := FindTag(out, tag.ID)
		if ok && existing.Value == tag.Value {
			continue
		}
		if ok {
			out = SetTagValue(out, tag.ID, tag.Value, firstProcessor(tag.ProcessedBy))
			continue
		}
		out = append(out, tag)
	}
	return out
}

func firstProcessor(processors []string) string {
	if len(processors) == 0 {
		return ""
	}
	return processors[len(processors)-1]
}

func mergeImages(base, incoming []Image) []Image {
	out := make([]Image, len(base))
	copy(out, base)

	seen := make(map[string]struct{}, len(base))
	for _, image := range base {
		seen[image.CRCHash] = struct{}{}
	}
	for _, image := range incoming {
		if _, ok := seen[image.CRCHash]; ok {
			continue
		}
		seen[image.CRCHash] = struct{}{}
		out = append(out, image)
	}
	return out
}

func mergeFiles(base, incoming []FileInfo) []FileInfo {
	out := make([]FileInfo, len(base))
	copy(out, base)

	seen := make(map[string]struct{}, len(base))
	for _, file := range base {
		seen[file.FileName] = struct{}{}
	}
	for _, file := range incoming {
		if _, ok := seen[file.FileName]; ok {
			continue
		}
		seen[file.FileName] = struct{}{}
		out = append(out, file)
	}
	return out
}

func mergeStrings(base, incoming []string) []string {
	return distinctStrings(append(append([]string{}, base...), incoming...))
}

func distinctStrings(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, value := range values {
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		out = append(out, value)
	}
	return out
}

// mergeAlbumType takes the more specific of the two inputs. Unranked values
// never override an established base value.
func mergeAlbumType(base, incoming AlbumType) AlbumType {
	baseRank, baseKnown := albumTypeRank[base]
	incomingRank, incomingKnown := albumTypeRank[incoming]
	if !baseKnown || !incomingKnown {
		if base == AlbumTypeNotSet {
			return incoming
		}
		return base
	}
	if incomingRank > baseRank {
		return incoming
	}
	return base
}

// mergeStatus reconciles lifecycle status: Ok only when both inputs are Ok,
// Invalid when either is Invalid, otherwise New.
func mergeStatus(base, incoming Album) (Status, Reasons) {
	switch {
	case base.Status == StatusOk && incoming.Status == StatusOk:
		return StatusOk, 0
	case base.Status == StatusInvalid || incoming.Status == StatusInvalid:
		return StatusInvalid, base.StatusReasons | incoming.StatusReasons
	default:
		return StatusNew, base.StatusReasons | incoming.StatusReasons
	}
}
