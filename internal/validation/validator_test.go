package validation

import (
	"reflect"
	"strconv"
	"strings"
	"testing"
	"time"

	"aria/internal/logging"
	"aria/internal/music"
)

func testSettings() Settings {
	return Settings{
		MinimumYear:             1860,
		MaximumYear:             2200,
		UseCurrentYearAsMaximum: false,
		MaximumMediaNumber:      500,
		MaximumSongNumber:       1000,
	}
}

func validSong(fileName string, track int, title string) music.Song {
	song := music.Song{FileName: fileName, Duration: 3 * time.Minute}
	song.Tags = music.SetTagValue(song.Tags, music.TagTrackNumber, strconv.Itoa(track), "")
	song.Tags = music.SetTagValue(song.Tags, music.TagTitle, title, "")
	return song
}

func validAlbum(t *testing.T) music.Album {
	t.Helper()
	album := music.NewAlbum(t.TempDir())
	album = album.WithTag(music.TagAlbum, "Night Drive", "")
	album = album.WithTag(music.TagAlbumArtist, "The Districts", "")
	album = album.WithTag(music.TagRecordingYear, "2019", "")
	album.Songs = []music.Song{
		validSong("01 - Opening.flac", 1, "Opening"),
		validSong("02 - Closing.flac", 2, "Closing"),
	}
	album.Images = []music.Image{{FileName: "cover.jpg", CRCHash: "1"}}
	return album
}

func TestValidateOkAlbum(t *testing.T) {
	v := New(logging.NewNop(), testSettings())
	status, reasons, messages := v.Validate(validAlbum(t))
	if status != music.StatusOk || reasons != 0 || len(messages) != 0 {
		t.Fatalf("expected clean pass, got %s %s %v", status, reasons, messages)
	}
}

func TestValidateNoImages(t *testing.T) {
	album := validAlbum(t)
	album.Images = nil

	v := New(logging.NewNop(), testSettings())
	status, reasons, _ := v.Validate(album)
	if !reasons.Has(music.ReasonNoImages) {
		t.Fatal("no-images bit not set")
	}
	if status != music.StatusInvalid {
		t.Fatal("missing images must force invalid status")
	}
}

func TestValidateMissingArtist(t *testing.T) {
	album := validAlbum(t)
	album = album.WithTag(music.TagAlbumArtist, "  ", "")

	v := New(logging.NewNop(), testSettings())
	_, reasons, _ := v.Validate(album)
	if !reasons.Has(music.ReasonInvalidArtist) {
		t.Fatal("invalid-artist bit not set")
	}
}

func TestValidateYearOutOfRange(t *testing.T) {
	album := validAlbum(t)
	album = album.WithTag(music.TagRecordingYear, "1503", "")

	v := New(logging.NewNop(), testSettings())
	_, reasons, messages := v.Validate(album)
	if !reasons.Has(music.ReasonInvalidYear) {
		t.Fatal("invalid-year bit not set")
	}
	found := false
	for _, message := range messages {
		if strings.Contains(message, "1503") {
			found = true
		}
	}
	if !found {
		t.Fatalf("messages should name the bad year: %v", messages)
	}
}

func TestValidateGenericSongTitle(t *testing.T) {
	album := validAlbum(t)
	album = album.WithTag(music.TagAlbum, "Night Drive", "")
	album.Songs = []music.Song{validSong("01.flac", 1, "Song Title")}

	v := New(logging.NewNop(), testSettings())
	status, reasons, _ := v.Validate(album)
	if !reasons.Has(music.ReasonInvalidSongs) {
		t.Fatal("generic title should flag invalid songs")
	}
	if status != music.StatusInvalid {
		t.Fatal("invalid songs alone must force invalid status")
	}
}

func TestValidateDuplicateSongNumbers(t *testing.T) {
	album := validAlbum(t)
	album.Songs = []music.Song{
		validSong("01.flac", 1, "Opening"),
		validSong("01b.flac", 1, "Opening Again"),
	}

	v := New(logging.NewNop(), testSettings())
	_, reasons, messages := v.Validate(album)
	if !reasons.Has(music.ReasonInvalidSongs) {
		t.Fatalf("duplicate numbers not flagged: %v", messages)
	}
}

func TestValidateZeroDurationAndMissingNumber(t *testing.T) {
	album := validAlbum(t)
	broken := music.Song{FileName: "mystery.flac"}
	broken.Tags = music.SetTagValue(broken.Tags, music.TagTitle, "Mystery", "")
	album.Songs = append(album.Songs, broken)

	v := New(logging.NewNop(), testSettings())
	_, reasons, messages := v.Validate(album)
	if !reasons.Has(music.ReasonInvalidSongs) {
		t.Fatal("broken song not flagged")
	}
	var sawNumber, sawDuration bool
	for _, message := range messages {
		if strings.Contains(message, "missing song number") {
			sawNumber = true
		}
		if strings.Contains(message, "zero duration") {
			sawDuration = true
		}
	}
	if !sawNumber || !sawDuration {
		t.Fatalf("expected both findings, got %v", messages)
	}
}

func TestValidateEmptyAlbum(t *testing.T) {
	album := music.NewAlbum(t.TempDir())

	v := New(logging.NewNop(), testSettings())
	status, reasons, _ := v.Validate(album)
	if status != music.StatusInvalid {
		t.Fatal("empty album should be invalid")
	}
	for _, bit := range []music.Reasons{
		music.ReasonInvalidArtist,
		music.ReasonInvalidYear,
		music.ReasonNoImages,
		music.ReasonInvalidSongs,
		music.ReasonUnwantedAlbumTitle,
	} {
		if !reasons.Has(bit) {
			t.Fatalf("expected bit %s in %s", bit, reasons)
		}
	}
}

func TestValidateDeterministic(t *testing.T) {
	album := validAlbum(t)
	album.Songs = append(album.Songs, validSong("03.flac", 3, "Track 3"))

	v := New(logging.NewNop(), testSettings())
	s1, r1, m1 := v.Validate(album)
	s2, r2, m2 := v.Validate(album)
	if s1 != s2 || r1 != r2 || !reflect.DeepEqual(m1, m2) {
		t.Fatal("validator is not deterministic")
	}
}

func TestStatusInvariant(t *testing.T) {
	v := New(logging.NewNop(), testSettings())
	albums := []music.Album{validAlbum(t)}

	broken := validAlbum(t)
	broken.Images = nil
	albums = append(albums, broken)

	for _, album := range albums {
		status, reasons, _ := v.Validate(album)
		if (status == music.StatusOk) != (reasons == 0) {
			t.Fatalf("status %s inconsistent with reasons %s", status, reasons)
		}
	}
}

func TestApplyReplacesVerdict(t *testing.T) {
	album := validAlbum(t)
	album.Status = music.StatusNew
	album.StatusReasons = music.ReasonNoImages
	album.Messages = []string{"stale finding"}

	v := New(logging.NewNop(), testSettings())
	out := v.Apply(album)
	if out.Status != music.StatusOk || out.StatusReasons != 0 {
		t.Fatalf("verdict not recomputed: %s %s", out.Status, out.StatusReasons)
	}
	if len(out.Messages) != 0 {
		t.Fatalf("stale messages kept: %v", out.Messages)
	}
	if album.StatusReasons != music.ReasonNoImages {
		t.Fatal("input album mutated")
	}
}
