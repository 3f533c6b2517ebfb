package rescan

import (
	"strings"

	"aria/internal/config"
	"aria/internal/music"
)

// IgnoreLists carries configured names to drop during contributor resolution.
type IgnoreLists struct {
	Performers []string
	Production []string
	Publishers []string
}

// IgnoreListsFromConfig copies the processing ignore lists out of the config.
func IgnoreListsFromConfig(cfg *config.Config) IgnoreLists {
	return IgnoreLists{
		Performers: cfg.Processing.IgnoredPerformers,
		Production: cfg.Processing.IgnoredProduction,
		Publishers: cfg.Processing.IgnoredPublishers,
	}
}

func (l IgnoreLists) ignored(role music.ContributorRole, name string) bool {
	var list []string
	switch role {
	case music.RolePerformer:
		list = l.Performers
	case music.RoleProduction:
		list = l.Production
	case music.RolePublisher:
		list = l.Publishers
	default:
		return false
	}
	for _, entry := range list {
		if strings.EqualFold(strings.TrimSpace(entry), strings.TrimSpace(name)) {
			return true
		}
	}
	return false
}

// ResolveContributors derives per-song credits from the canonical document's
// tags, drops configured ignore-list names, and deduplicates by name and role
// across the album.
func ResolveContributors(songs []music.Song, lists IgnoreLists) []music.Contributor {
	var out []music.Contributor
	add := func(song music.Song, role music.ContributorRole, value string) {
		for _, name := range splitNames(value) {
			if lists.ignored(role, name) {
				continue
			}
			out = append(out, music.Contributor{
				Name:         name,
				Role:         role,
				SongFileName: song.FileName,
			})
		}
	}
	for _, song := range songs {
		add(song, music.RolePerformer, music.TagValue(song.Tags, music.TagArtist))
		add(song, music.RoleComposer, music.TagValue(song.Tags, music.TagComposer))
		add(song, music.RolePublisher, music.TagValue(song.Tags, music.TagPublisher))
		add(song, music.RoleProduction, music.TagValue(song.Tags, music.TagProducer))
	}
	return music.DedupContributors(out)
}

func splitNames(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	parts := strings.FieldsFunc(value, func(r rune) bool {
		return r == ';' || r == '/'
	})
	var names []string
	for _, part := range parts {
		if name := strings.TrimSpace(part); name != "" {
			names = append(names, name)
		}
	}
	return names
}
