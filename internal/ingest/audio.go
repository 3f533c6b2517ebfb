package ingest

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"aria/internal/fileutil"
	"aria/internal/logging"
	"aria/internal/metatag"
	"aria/internal/music"
	"aria/internal/services"
	"aria/internal/sources"
	"aria/internal/validation"
)

var imageExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".gif":  {},
	".webp": {},
}

// AudioDirectoryPlugin assembles an album from the audio files in one
// directory, extracting songs concurrently with bounded parallelism.
type AudioDirectoryPlugin struct {
	registry    *sources.Registry
	chain       *metatag.Chain
	parallelism int
	logger      *slog.Logger
}

// NewAudioDirectoryPlugin builds the audio directory plugin.
func NewAudioDirectoryPlugin(logger *slog.Logger, registry *sources.Registry, chain *metatag.Chain, parallelism int) *AudioDirectoryPlugin {
	if parallelism <= 0 {
		parallelism = 1
	}
	return &AudioDirectoryPlugin{
		registry:    registry,
		chain:       chain,
		parallelism: parallelism,
		logger:      logging.WithComponent(logger, "ingest"),
	}
}

func (p *AudioDirectoryPlugin) Name() string { return "audio-directory" }

func (p *AudioDirectoryPlugin) Handles(directory string) bool {
	entries, err := os.ReadDir(directory)
	if err != nil {
		return false
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if p.registry.Handles(entry.Name()) {
			return true
		}
	}
	return false
}

func (p *AudioDirectoryPlugin) Assemble(ctx context.Context, directory string) (music.Album, []string, services.Result) {
	entries, err := os.ReadDir(directory)
	if err != nil {
		return music.Album{}, nil, services.Failed(services.Wrap(services.ErrTransient, "ingest", "read directory", directory, err))
	}

	var audioFiles []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if p.registry.Handles(entry.Name()) {
			audioFiles = append(audioFiles, entry.Name())
		}
	}
	if len(audioFiles) == 0 {
		return music.Album{}, nil, services.Skipped("no audio files")
	}
	sort.Strings(audioFiles)

	songs, images, messages := p.extractSongs(ctx, directory, audioFiles)
	if err := ctx.Err(); err != nil {
		return music.Album{}, nil, services.Failed(err)
	}
	if len(songs) == 0 {
		return music.Album{}, nil, services.Failed(services.Wrap(services.ErrValidation, "ingest", "extract", "no readable songs in "+directory, nil))
	}

	album := p.assembleAlbum(directory, songs, images, messages)
	album = p.addDirectoryImages(album, directory, entries)

	return album, nil, services.Ok()
}

// extractSongs dispatches files to their source plugins with bounded
// parallelism. Individual failures are logged and dropped; output ordering is
// re-imposed afterward.
func (p *AudioDirectoryPlugin) extractSongs(ctx context.Context, directory string, fileNames []string) ([]music.Song, []music.Image, []string) {
	var mu sync.Mutex
	songs := make([]music.Song, 0, len(fileNames))
	var images []music.Image
	var messages []string

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(p.parallelism)

	for _, fileName := range fileNames {
		fileName := fileName
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			source, ok := p.registry.ForFile(fileName)
			if !ok {
				return nil
			}
			path := filepath.Join(directory, fileName)
			song, songImages, err := source.Extract(groupCtx, path)
			if err != nil {
				p.logger.Warn("song extraction failed",
					logging.String("file", fileName),
					logging.Error(err),
				)
				return nil
			}

			tags, tagMessages := p.chain.Apply(directory, fileName, song.Tags)
			song.Tags = tags

			mu.Lock()
			songs = append(songs, song)
			images = append(images, songImages...)
			messages = append(messages, tagMessages...)
			mu.Unlock()
			return nil
		})
	}
	_ = group.Wait()

	sort.SliceStable(songs, func(i, j int) bool {
		if songs[i].DiscNumber() != songs[j].DiscNumber() {
			return songs[i].DiscNumber() < songs[j].DiscNumber()
		}
		if songs[i].SongNumber() != songs[j].SongNumber() {
			return songs[i].SongNumber() < songs[j].SongNumber()
		}
		return songs[i].FileName < songs[j].FileName
	})
	return songs, images, messages
}

// assembleAlbum derives album-level tags from the first fully-tagged song and
// deduplicates embedded images by content hash.
func (p *AudioDirectoryPlugin) assembleAlbum(directory string, songs []music.Song, images []music.Image, messages []string) music.Album {
	album := music.NewAlbum(directory)
	album.Songs = songs
	album.ViaPlugins = []string{p.Name()}

	for _, song := range songs {
		album.Files = append(album.Files, music.FileInfo{
			FileName: song.FileName,
			FileSize: song.FileSize,
			CRCHash:  song.CRCHash,
		})
	}

	reference, ok := firstFullyTagged(songs)
	if !ok {
		reference = songs[0]
	}
	copyTag := func(id music.TagID) {
		if value := music.TagValue(reference.Tags, id); value != "" {
			album.Tags = music.SetTagValue(album.Tags, id, value, "")
		}
	}
	copyTag(music.TagAlbum)
	copyTag(music.TagRecordingYear)
	copyTag(music.TagGenre)

	if artist := music.TagValue(reference.Tags, music.TagAlbumArtist); artist != "" {
		album.Tags = music.SetTagValue(album.Tags, music.TagAlbumArtist, artist, "")
	} else if artist := music.TagValue(reference.Tags, music.TagArtist); artist != "" {
		album.Tags = music.SetTagValue(album.Tags, music.TagAlbumArtist, artist, "")
	}

	if total := music.TagValue(reference.Tags, music.TagTrackTotal); total != "" {
		album.Tags = music.SetTagValue(album.Tags, music.TagTrackTotal, total, "")
	} else {
		album.Tags = music.SetTagValue(album.Tags, music.TagTrackTotal, strconv.Itoa(len(songs)), "")
	}

	seen := make(map[string]struct{}, len(images))
	for _, image := range images {
		if _, ok := seen[image.CRCHash]; ok {
			continue
		}
		seen[image.CRCHash] = struct{}{}
		album.Images = append(album.Images, image)
	}

	album.Messages = messages
	return album
}

// addDirectoryImages folds loose artwork files into the album, skipping
// release scan-proofs, deduplicated against embedded images by hash.
func (p *AudioDirectoryPlugin) addDirectoryImages(album music.Album, directory string, entries []os.DirEntry) music.Album {
	seen := make(map[string]struct{}, len(album.Images))
	for _, image := range album.Images {
		seen[image.CRCHash] = struct{}{}
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if _, ok := imageExtensions[ext]; !ok {
			continue
		}
		if validation.IsProofImage(entry.Name()) {
			p.logger.Debug("skipping proof image", logging.String("file", entry.Name()))
			continue
		}
		path := filepath.Join(directory, entry.Name())
		hash, err := fileutil.CRC32File(path)
		if err != nil {
			p.logger.Warn("image unreadable", logging.String("file", entry.Name()), logging.Error(err))
			continue
		}
		if _, ok := seen[hash]; ok {
			continue
		}
		seen[hash] = struct{}{}

		info, err := entry.Info()
		var size int64
		if err == nil {
			size = info.Size()
		}
		album.Images = append(album.Images, music.Image{
			FileName: entry.Name(),
			CRCHash:  hash,
			FileSize: size,
		})
	}
	return album
}

// firstFullyTagged returns the first song carrying both an album title and an
// artist credit.
func firstFullyTagged(songs []music.Song) (music.Song, bool) {
	for _, song := range songs {
		if music.TagValue(song.Tags, music.TagAlbum) == "" {
			continue
		}
		if music.TagValue(song.Tags, music.TagAlbumArtist) == "" &&
			music.TagValue(song.Tags, music.TagArtist) == "" {
			continue
		}
		return song, true
	}
	return music.Song{}, false
}
