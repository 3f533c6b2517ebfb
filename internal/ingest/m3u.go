package ingest

import (
	"bufio"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"aria/internal/logging"
	"aria/internal/metatag"
	"aria/internal/music"
	"aria/internal/services"
	"aria/internal/sources"
)

// playlistEntry is one parsed playlist line.
type playlistEntry struct {
	Position int
	Artist   string
	Title    string
	FileName string
}

// M3UPlaylistPlugin assembles an album from an M3U playlist whose lines name
// audio files as "<position>-<artist>-<title>". Malformed lines are skipped;
// referenced files are extracted concurrently with bounded parallelism. The
// playlist file itself is reported as consumable once folded in.
type M3UPlaylistPlugin struct {
	registry    *sources.Registry
	chain       *metatag.Chain
	parallelism int
	logger      *slog.Logger
}

// NewM3UPlaylistPlugin builds the playlist plugin.
func NewM3UPlaylistPlugin(logger *slog.Logger, registry *sources.Registry, chain *metatag.Chain, parallelism int) *M3UPlaylistPlugin {
	if parallelism <= 0 {
		parallelism = 1
	}
	return &M3UPlaylistPlugin{
		registry:    registry,
		chain:       chain,
		parallelism: parallelism,
		logger:      logging.WithComponent(logger, "ingest"),
	}
}

func (p *M3UPlaylistPlugin) Name() string { return "m3u-playlist" }

func (p *M3UPlaylistPlugin) Handles(directory string) bool {
	return len(playlistFiles(directory)) > 0
}

func (p *M3UPlaylistPlugin) Assemble(ctx context.Context, directory string) (music.Album, []string, services.Result) {
	playlists := playlistFiles(directory)
	if len(playlists) == 0 {
		return music.Album{}, nil, services.Skipped("no playlist files")
	}

	album := music.NewAlbum(directory)
	album.ViaPlugins = []string{p.Name()}
	var consumed []string

	for _, playlist := range playlists {
		if err := ctx.Err(); err != nil {
			return music.Album{}, nil, services.Failed(err)
		}
		path := filepath.Join(directory, playlist)
		entries, err := p.parsePlaylist(path)
		if err != nil {
			p.logger.Warn("playlist unreadable", logging.String("file", playlist), logging.Error(err))
			continue
		}

		resolved, err := p.resolveEntries(ctx, directory, entries)
		if err != nil {
			return music.Album{}, nil, services.Failed(err)
		}
		for _, item := range resolved {
			if !item.ok {
				continue
			}
			album.Songs = music.MergeSongs(album.Songs, []music.Song{item.song})
			for _, image := range item.images {
				album.Images = appendImage(album.Images, image)
			}
			album.Files = append(album.Files, music.FileInfo{
				FileName: item.song.FileName,
				FileSize: item.song.FileSize,
				CRCHash:  item.song.CRCHash,
			})
		}
		consumed = append(consumed, path)
	}

	if len(album.Songs) == 0 {
		return music.Album{}, nil, services.Failed(services.Wrap(services.ErrValidation, "ingest", "playlist", "no resolvable entries in "+directory, nil))
	}

	album.Songs = sortSongs(album.Songs)
	album = deriveAlbumTagsFromSongs(album)
	return album, consumed, services.Ok()
}

// parsePlaylist reads non-comment lines as playlist entries, skipping any
// line that does not fit "<position>-<artist>-<title>".
func (p *M3UPlaylistPlugin) parsePlaylist(path string) ([]playlistEntry, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var entries []playlistEntry
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		entry, ok := parsePlaylistLine(line)
		if !ok {
			p.logger.Warn("skipping malformed playlist line",
				logging.String("file", filepath.Base(path)),
				logging.String("line", line),
			)
			continue
		}
		entries = append(entries, entry)
	}
	return entries, scanner.Err()
}

// parsePlaylistLine splits "<position>-<artist>-<title...>" on hyphens. The
// title keeps any further hyphens; the audio extension is preserved on the
// referenced filename.
func parsePlaylistLine(line string) (playlistEntry, bool) {
	name := filepath.Base(line)
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)

	parts := strings.SplitN(stem, "-", 3)
	if len(parts) != 3 {
		return playlistEntry{}, false
	}
	position, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || position <= 0 {
		return playlistEntry{}, false
	}
	artist := strings.TrimSpace(parts[1])
	title := strings.TrimSpace(parts[2])
	if artist == "" || title == "" {
		return playlistEntry{}, false
	}
	return playlistEntry{
		Position: position,
		Artist:   artist,
		Title:    title,
		FileName: name,
	}, true
}

// resolvedEntry carries one playlist entry's extraction result in entry order.
type resolvedEntry struct {
	song   music.Song
	images []music.Image
	ok     bool
}

// resolveEntries extracts the referenced files with bounded parallelism.
// Each result lands in its entry's slot, so the fold into the album keeps
// playlist order regardless of completion order.
func (p *M3UPlaylistPlugin) resolveEntries(ctx context.Context, directory string, entries []playlistEntry) ([]resolvedEntry, error) {
	resolved := make([]resolvedEntry, len(entries))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(p.parallelism)

	for i, entry := range entries {
		i, entry := i, entry
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			song, images, ok := p.resolveEntry(groupCtx, directory, entry)
			resolved[i] = resolvedEntry{song: song, images: images, ok: ok}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return resolved, nil
}

// resolveEntry extracts the referenced file and overlays the playlist's
// position, artist, and title where the file's own tags are silent.
func (p *M3UPlaylistPlugin) resolveEntry(ctx context.Context, directory string, entry playlistEntry) (music.Song, []music.Image, bool) {
	source, ok := p.registry.ForFile(entry.FileName)
	if !ok {
		p.logger.Warn("playlist references unsupported file", logging.String("file", entry.FileName))
		return music.Song{}, nil, false
	}
	path := filepath.Join(directory, entry.FileName)
	if _, err := os.Stat(path); err != nil {
		p.logger.Warn("playlist references missing file", logging.String("file", entry.FileName))
		return music.Song{}, nil, false
	}

	song, images, err := source.Extract(ctx, path)
	if err != nil {
		p.logger.Warn("song extraction failed", logging.String("file", entry.FileName), logging.Error(err))
		return music.Song{}, nil, false
	}

	if music.TagValue(song.Tags, music.TagTitle) == "" {
		song.Tags = music.SetTagValue(song.Tags, music.TagTitle, entry.Title, p.Name())
	}
	if music.TagValue(song.Tags, music.TagArtist) == "" {
		song.Tags = music.SetTagValue(song.Tags, music.TagArtist, entry.Artist, p.Name())
	}
	if song.SongNumber() == 0 {
		song.Tags = music.SetTagValue(song.Tags, music.TagTrackNumber, strconv.Itoa(entry.Position), p.Name())
	}

	tags, _ := p.chain.Apply(directory, entry.FileName, song.Tags)
	song.Tags = tags
	return song, images, true
}

func playlistFiles(directory string) []string {
	entries, err := os.ReadDir(directory)
	if err != nil {
		return nil
	}
	var out []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext == ".m3u" || ext == ".m3u8" {
			out = append(out, entry.Name())
		}
	}
	return out
}

func appendImage(images []music.Image, image music.Image) []music.Image {
	for _, existing := range images {
		if existing.CRCHash == image.CRCHash {
			return images
		}
	}
	return append(images, image)
}

func sortSongs(songs []music.Song) []music.Song {
	album := music.Album{Songs: songs}
	return album.SortedSongs()
}

// deriveAlbumTagsFromSongs fills album-level tags from the first fully-tagged
// song, mirroring the audio directory plugin's derivation.
func deriveAlbumTagsFromSongs(album music.Album) music.Album {
	if len(album.Songs) == 0 {
		return album
	}
	reference, ok := firstFullyTagged(album.Songs)
	if !ok {
		reference = album.Songs[0]
	}
	if value := music.TagValue(reference.Tags, music.TagAlbum); value != "" {
		album.Tags = music.SetTagValue(album.Tags, music.TagAlbum, value, "")
	}
	if value := music.TagValue(reference.Tags, music.TagRecordingYear); value != "" {
		album.Tags = music.SetTagValue(album.Tags, music.TagRecordingYear, value, "")
	}
	if value := music.TagValue(reference.Tags, music.TagGenre); value != "" {
		album.Tags = music.SetTagValue(album.Tags, music.TagGenre, value, "")
	}
	artist := music.TagValue(reference.Tags, music.TagAlbumArtist)
	if artist == "" {
		artist = music.TagValue(reference.Tags, music.TagArtist)
	}
	if artist != "" {
		album.Tags = music.SetTagValue(album.Tags, music.TagAlbumArtist, artist, "")
	}
	album.Tags = music.SetTagValue(album.Tags, music.TagTrackTotal, strconv.Itoa(len(album.Songs)), "")
	return album
}
