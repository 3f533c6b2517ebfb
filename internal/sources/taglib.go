package sources

import (
	"bytes"
	"context"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"go.senan.xyz/taglib"

	"aria/internal/fileutil"
	"aria/internal/music"
	"aria/internal/services"
)

// audioExtensions lists the container formats the taglib source owns.
var audioExtensions = map[string]struct{}{
	".flac": {},
	".mp3":  {},
	".ogg":  {},
	".oga":  {},
	".opus": {},
	".m4a":  {},
	".aac":  {},
	".wma":  {},
	".wav":  {},
}

// TagLibSource reads embedded tags and audio properties through taglib. For
// MP3 files whose headers taglib rejects, it falls back to a direct ID3v2
// parse before giving up.
type TagLibSource struct{}

// NewTagLibSource builds the primary audio extractor.
func NewTagLibSource() *TagLibSource {
	return &TagLibSource{}
}

func (s *TagLibSource) Name() string { return "taglib" }

func (s *TagLibSource) Handles(ext string) bool {
	_, ok := audioExtensions[ext]
	return ok
}

func (s *TagLibSource) Extract(ctx context.Context, path string) (music.Song, []music.Image, error) {
	if err := ctx.Err(); err != nil {
		return music.Song{}, nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return music.Song{}, nil, services.Wrap(services.ErrTransient, "sources", "stat", path, err)
	}
	hash, err := fileutil.CRC32File(path)
	if err != nil {
		return music.Song{}, nil, services.Wrap(services.ErrTransient, "sources", "hash", path, err)
	}

	song := music.Song{
		FileName: filepath.Base(path),
		FileSize: info.Size(),
		CRCHash:  hash,
	}

	tags, tagsErr := taglib.ReadTags(path)
	if tagsErr != nil {
		if strings.EqualFold(filepath.Ext(path), ".mp3") {
			return s.extractMP3Fallback(song, path)
		}
		return music.Song{}, nil, services.Wrap(services.ErrValidation, "sources", "read tags", path, tagsErr)
	}
	song.Tags = mapTagValues(tags, filepath.Base(path))

	if properties, err := taglib.ReadProperties(path); err == nil {
		song.Duration = properties.Length
		song.SampleRate = int(properties.SampleRate)
		song.BitRate = int(properties.Bitrate)
		song.Channels = int(properties.Channels)
	}
	if depth := firstValue(tags, "BITS_PER_SAMPLE", "BITDEPTH", "BIT_DEPTH"); depth != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(depth)); err == nil {
			song.BitDepth = n
		}
	}

	var images []music.Image
	if data, err := taglib.ReadImage(path); err == nil && len(data) > 0 {
		images = append(images, embeddedImage(filepath.Base(path), data))
	}

	return song, images, nil
}

// mapTagValues translates raw taglib keys into the canonical tag set, seeding
// a title from the filename when none is embedded.
func mapTagValues(tags map[string][]string, fileName string) []music.Tag {
	var out []music.Tag
	set := func(id music.TagID, keys ...string) {
		if value := firstValue(tags, keys...); value != "" {
			out = music.SetTagValue(out, id, value, "")
		}
	}

	set(music.TagTitle, taglib.Title, "TITLE")
	set(music.TagArtist, taglib.Artist, "ARTIST")
	set(music.TagAlbumArtist, taglib.AlbumArtist, "ALBUMARTIST")
	set(music.TagAlbum, taglib.Album, "ALBUM")
	set(music.TagGenre, taglib.Genre, "GENRE")
	set(music.TagTrackNumber, taglib.TrackNumber, "TRACKNUMBER", "TRCK")
	set(music.TagTrackTotal, "TRACKTOTAL", "TOTALTRACKS")
	set(music.TagDiscNumber, taglib.DiscNumber, "DISCNUMBER", "TPOS")
	set(music.TagDiscTotal, "DISCTOTAL", "TOTALDISCS")
	set(music.TagRecordingYear, taglib.Date, "DATE", "YEAR", "ORIGINALDATE", "RELEASEDATE")
	set(music.TagComposer, "COMPOSER")
	set(music.TagPublisher, "LABEL", "PUBLISHER", "ORGANIZATION")
	set(music.TagProducer, "PRODUCER")
	set(music.TagComment, "COMMENT")

	if music.TagValue(out, music.TagTitle) == "" {
		if number, title := TitleFromFileName(fileName); title != "" {
			out = music.SetTagValue(out, music.TagTitle, title, "filename")
			if number > 0 && music.TagValue(out, music.TagTrackNumber) == "" {
				out = music.SetTagValue(out, music.TagTrackNumber, strconv.Itoa(number), "filename")
			}
		}
	}
	return out
}

func firstValue(tags map[string][]string, keys ...string) string {
	for _, key := range keys {
		for _, value := range tags[key] {
			if trimmed := strings.TrimSpace(value); trimmed != "" {
				return trimmed
			}
		}
	}
	return ""
}

// embeddedImage wraps embedded artwork bytes as an image record hashed by
// content. Dimensions are best-effort.
func embeddedImage(fileName string, data []byte) music.Image {
	img := music.Image{
		FileName: fileName,
		CRCHash:  fileutil.CRC32Sum(data),
		FileSize: int64(len(data)),
	}
	if cfg, _, err := image.DecodeConfig(bytes.NewReader(data)); err == nil {
		img.Width = cfg.Width
		img.Height = cfg.Height
	}
	return img
}

// TitleFromFileName strips a leading track-number prefix from a filename and
// returns the number (0 when absent) plus the remaining title.
func TitleFromFileName(fileName string) (int, string) {
	base := strings.TrimSuffix(fileName, filepath.Ext(fileName))
	match := trackPrefix.FindStringSubmatch(base)
	if len(match) == 3 {
		number, err := strconv.Atoi(match[1])
		if err == nil && number > 0 {
			return number, strings.TrimSpace(match[2])
		}
	}
	return 0, strings.TrimSpace(base)
}

var trackPrefix = regexp.MustCompile(`^(\d{1,3})[\s._-]+(.+)$`)
