package music

import (
	"reflect"
	"testing"
)

func TestSetTagValuePreservesOriginal(t *testing.T) {
	tags := SetTagValue(nil, TagAlbum, "Raw Title", "")
	tags = SetTagValue(tags, TagAlbum, "Clean Title", "title-normalizer")

	tag, ok := FindTag(tags, TagAlbum)
	if !ok {
		t.Fatal("tag missing")
	}
	if tag.Value != "Clean Title" || tag.OriginalValue != "Raw Title" {
		t.Fatalf("unexpected tag %+v", tag)
	}
	if !tag.WasModified {
		t.Fatal("modification flag not set")
	}
	if !reflect.DeepEqual(tag.ProcessedBy, []string{"title-normalizer"}) {
		t.Fatalf("unexpected provenance %v", tag.ProcessedBy)
	}
}

func TestSetTagValueSameValueIsNoOp(t *testing.T) {
	tags := SetTagValue(nil, TagArtist, "Boards of Canada", "")
	again := SetTagValue(tags, TagArtist, "Boards of Canada", "whoever")

	tag, _ := FindTag(again, TagArtist)
	if tag.WasModified || tag.OriginalValue != "" || len(tag.ProcessedBy) != 0 {
		t.Fatalf("no-op write altered tag: %+v", tag)
	}
}

func TestSetTagValueKeepsFirstOriginal(t *testing.T) {
	tags := SetTagValue(nil, TagTitle, "first", "")
	tags = SetTagValue(tags, TagTitle, "second", "p1")
	tags = SetTagValue(tags, TagTitle, "third", "p2")

	tag, _ := FindTag(tags, TagTitle)
	if tag.OriginalValue != "first" {
		t.Fatalf("original overwritten: %+v", tag)
	}
	if !reflect.DeepEqual(tag.ProcessedBy, []string{"p1", "p2"}) {
		t.Fatalf("provenance chain wrong: %v", tag.ProcessedBy)
	}
}

func TestSetTagValueDoesNotMutateInput(t *testing.T) {
	tags := SetTagValue(nil, TagGenre, "Ambient", "")
	_ = SetTagValue(tags, TagGenre, "Techno", "")

	if tags[0].Value != "Ambient" {
		t.Fatal("input slice mutated")
	}
}

func TestTagInt(t *testing.T) {
	cases := []struct {
		value string
		want  int
	}{
		{"7", 7},
		{"3/12", 3},
		{" 04 ", 4},
		{"", 0},
		{"abc", 0},
	}
	for _, tc := range cases {
		tags := SetTagValue(nil, TagTrackNumber, tc.value, "")
		if got := TagInt(tags, TagTrackNumber); got != tc.want {
			t.Errorf("TagInt(%q) = %d, want %d", tc.value, got, tc.want)
		}
	}
}

func TestSongUniqueIDStable(t *testing.T) {
	a := testSong("05 - Roygbiv.flac", 5, "Roygbiv")
	b := testSong("05 - Roygbiv.flac", 5, "Roygbiv (retagged)")
	if a.UniqueID() != b.UniqueID() {
		t.Fatal("id should depend on filename and position only")
	}

	c := testSong("05 - Roygbiv.flac", 6, "Roygbiv")
	if a.UniqueID() == c.UniqueID() {
		t.Fatal("different position should change id")
	}
}

func TestAlbumDerivedFields(t *testing.T) {
	album := testAlbum(t.TempDir())
	if album.Title() != "Night Drive" {
		t.Fatalf("unexpected title %q", album.Title())
	}
	if album.ArtistName() != "The Districts" {
		t.Fatalf("unexpected artist %q", album.ArtistName())
	}
	if album.Year() != 2019 {
		t.Fatalf("unexpected year %d", album.Year())
	}
	if album.SortTitle() != "Night Drive" {
		t.Fatalf("unexpected sort title %q", album.SortTitle())
	}

	album = album.WithTag(TagAlbum, "The Night Drive", "")
	if album.SortTitle() != "Night Drive" {
		t.Fatalf("article not stripped: %q", album.SortTitle())
	}
}

func TestAlbumGenresSplitAndDedup(t *testing.T) {
	album := NewAlbum(t.TempDir()).WithTag(TagGenre, "Rock; Indie Rock / rock", "")
	got := album.Genres()
	if !reflect.DeepEqual(got, []string{"Rock", "Indie Rock"}) {
		t.Fatalf("unexpected genres %v", got)
	}
}

func TestSortedSongsByDiscThenTrack(t *testing.T) {
	album := NewAlbum(t.TempDir())
	d2 := testSong("2-01.flac", 1, "Disc Two Opener")
	d2.Tags = SetTagValue(d2.Tags, TagDiscNumber, "2", "")
	album.Songs = []Song{
		d2,
		testSong("1-02.flac", 2, "Second"),
		testSong("1-01.flac", 1, "First"),
	}

	sorted := album.SortedSongs()
	want := []string{"1-01.flac", "1-02.flac", "2-01.flac"}
	for i, song := range sorted {
		if song.FileName != want[i] {
			t.Fatalf("unexpected order %v", sorted)
		}
	}
}

func TestDedupContributors(t *testing.T) {
	in := []Contributor{
		{Name: "Rick Rubin", Role: RoleProduction, SongFileName: "01.flac"},
		{Name: "rick rubin", Role: RoleProduction, SongFileName: "02.flac"},
		{Name: "Rick Rubin", Role: RolePerformer},
		{Name: "  ", Role: RolePerformer},
	}
	got := DedupContributors(in)
	if len(got) != 2 {
		t.Fatalf("expected 2 contributors, got %v", got)
	}
	if got[0].Role != RoleProduction || got[1].Role != RolePerformer {
		t.Fatalf("unexpected roles %v", got)
	}
}

func TestReasonsString(t *testing.T) {
	r := ReasonInvalidYear | ReasonNoImages
	if r.String() != "invalid year, no images" {
		t.Fatalf("unexpected string %q", r.String())
	}
	if Reasons(0).String() != "none" {
		t.Fatal("zero reasons should render as none")
	}
	if !r.Has(ReasonNoImages) || r.Has(ReasonInvalidArtist) {
		t.Fatal("Has misbehaving")
	}
}
