package validation

import "testing"

func TestSongHasUnwantedText(t *testing.T) {
	cases := []struct {
		albumTitle string
		songTitle  string
		songNumber int
		want       bool
	}{
		{"", "", 1, true},
		{"", "   ", 1, true},
		{"Album Title", "Song   Title", 1, true},
		{"Album Title", "15 ", 15, true},
		{"Album Title", "Song Title", 1, true},
		{"Album Title", "Track 7", 7, true},
		{"Album Title", "1", 1, true},
		{"Album Title", "0005 Song Name", 5, true},
		{"Album Title", "11 - Renegade", 11, true},
		{"Album Title", "Album Title (prod DJ Stinky)", 1, true},
		{"Album Title", "Song (feat. Somebody)", 1, true},
		{"Album Title", "Song ft. Somebody", 1, true},
		{"Album Title", "Minds Without Fear with Vishal-Shekhar", 1, true},
		{"Album Title", "Something With Bob", 1, true},

		{"Album Title", "Opening", 1, false},
		{"Album Title", "Album Title", 1, false},
		{"Album Title", "'81 Camaro", 81, false},
		{"Album Title", "11:11", 11, false},
		{"Album Title", "Bless em With The Blade (Orchestral Version)", 1, false},
		{"Album Title", "Dancing With Tears In My Eyes", 1, false},
		{"Album Title", "Without You", 1, false},
		{"Album Title", "Shift", 1, false},
		{"…DJ Fl", "Megamix Medley Of Hits By DJ Flimflam)", 1, false},
	}
	for _, tc := range cases {
		got := SongHasUnwantedText(tc.albumTitle, tc.songTitle, tc.songNumber)
		if got != tc.want {
			t.Errorf("SongHasUnwantedText(%q, %q, %d) = %v, want %v",
				tc.albumTitle, tc.songTitle, tc.songNumber, got, tc.want)
		}
	}
}

func TestAlbumTitleHasUnwantedText(t *testing.T) {
	cases := []struct {
		title string
		want  bool
	}{
		{"", true},
		{"   ", true},
		{"Great Songs (Deluxe)", true},
		{"Great Songs [Deluxe]", true},
		{"Great Songs Remastered", true},
		{"Great Songs (2010 Remaster)", true},
		{"Great Songs Re-Issue", true},
		{"Great Songs (Expanded)", true},
		{"20th Anniversary Collection Anniversary", true},
		{"Best Of Compilation", true},
		{"Limited Gold", true},
		{"Hits (320)", true},
		{"Hits [WEB]", true},
		{"Greatest EP", true},
		{"Double LP", true},

		{"Electric Deluge, Vol. 2", false},
		{"Album■Title", false},
		{"Experience Yourself", false},
		{"The Fine Art Of Self Destruction", false},
		{"Night Drive", false},
		{"1989", false},
	}
	for _, tc := range cases {
		if got := AlbumTitleHasUnwantedText(tc.title); got != tc.want {
			t.Errorf("AlbumTitleHasUnwantedText(%q) = %v, want %v", tc.title, got, tc.want)
		}
	}
}

func TestStringHasFeaturingFragments(t *testing.T) {
	cases := []struct {
		value string
		want  bool
	}{
		{"Song (feat. Drake)", true},
		{"Song feat Drake", true},
		{"Song featuring Drake", true},
		{"Song ft. Drake", true},
		{"Song ft Drake", true},
		{"Duet with Someone", true},
		{"Minds Without Fear with Vishal-Shekhar", true},
		{"Something With Bob", true},
		{"Song (with Bob Marley & Friends)", true},

		{"", false},
		{"Without You", false},
		{"Bless em With The Blade (Orchestral Version)", false},
		{"Dancing With Tears In My Eyes", false},
		{"Sleeping With The Enemy", false},
		{"Shift", false},
		{"Left Field", false},
		{"Featherweight", false},
		{"Song feat", false},
	}
	for _, tc := range cases {
		if got := StringHasFeaturingFragments(tc.value); got != tc.want {
			t.Errorf("StringHasFeaturingFragments(%q) = %v, want %v", tc.value, got, tc.want)
		}
	}
}

func TestIsProofImage(t *testing.T) {
	cases := []struct {
		fileName string
		want     bool
	}{
		{"proof.jpg", true},
		{"PROOF.JPG", true},
		{"00-artist-album-proof.jpg", true},
		{"scan proof.png", true},
		{"proof_01.jpg", true},

		{"cover.jpg", false},
		{"bulletproof.jpg", false},
		{"proofing-notes.txt.jpg", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := IsProofImage(tc.fileName); got != tc.want {
			t.Errorf("IsProofImage(%q) = %v, want %v", tc.fileName, got, tc.want)
		}
	}
}
