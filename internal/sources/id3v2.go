package sources

import (
	"strconv"
	"strings"

	"github.com/bogem/id3v2"

	"aria/internal/music"
	"aria/internal/services"
)

// extractMP3Fallback parses ID3v2 frames directly when taglib cannot read an
// MP3. Audio properties are unavailable on this path; validation will flag
// the missing duration.
func (s *TagLibSource) extractMP3Fallback(song music.Song, path string) (music.Song, []music.Image, error) {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return music.Song{}, nil, services.Wrap(services.ErrValidation, "sources", "read id3", path, err)
	}
	defer tag.Close()

	set := func(id music.TagID, value string) {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			song.Tags = music.SetTagValue(song.Tags, id, trimmed, "")
		}
	}

	set(music.TagTitle, tag.Title())
	set(music.TagArtist, tag.Artist())
	set(music.TagAlbum, tag.Album())
	set(music.TagGenre, tag.Genre())
	set(music.TagAlbumArtist, textFrame(tag, "TPE2"))
	set(music.TagTrackNumber, textFrame(tag, "TRCK"))
	set(music.TagDiscNumber, textFrame(tag, "TPOS"))
	if year := tag.Year(); year != "" {
		set(music.TagRecordingYear, year)
	} else {
		set(music.TagRecordingYear, textFrame(tag, "TDRC"))
	}

	if music.TagValue(song.Tags, music.TagTitle) == "" {
		if number, title := TitleFromFileName(song.FileName); title != "" {
			song.Tags = music.SetTagValue(song.Tags, music.TagTitle, title, "filename")
			if number > 0 && music.TagValue(song.Tags, music.TagTrackNumber) == "" {
				song.Tags = music.SetTagValue(song.Tags, music.TagTrackNumber, strconv.Itoa(number), "filename")
			}
		}
	}

	var images []music.Image
	for _, frame := range tag.GetFrames(tag.CommonID("Attached picture")) {
		picture, ok := frame.(id3v2.PictureFrame)
		if !ok || len(picture.Picture) == 0 {
			continue
		}
		images = append(images, embeddedImage(song.FileName, picture.Picture))
	}

	return song, images, nil
}

func textFrame(tag *id3v2.Tag, id string) string {
	return tag.GetTextFrame(id).Text
}
