// Package validation classifies fully merged albums: independent rules each
// contribute one status-reason bit, recomputed from scratch on every pass.
package validation

import (
	"fmt"
	"log/slog"
	"strings"

	"aria/internal/config"
	"aria/internal/logging"
	"aria/internal/metatag"
	"aria/internal/music"
)

// Settings bounds the validator's numeric checks.
type Settings struct {
	MinimumYear             int
	MaximumYear             int
	UseCurrentYearAsMaximum bool
	MaximumMediaNumber      int
	MaximumSongNumber       int
}

// SettingsFromConfig maps the validation configuration section.
func SettingsFromConfig(cfg *config.Config) Settings {
	return Settings{
		MinimumYear:             cfg.Validation.MinimumYear,
		MaximumYear:             cfg.Validation.MaximumYear,
		UseCurrentYearAsMaximum: cfg.Validation.UseCurrentYearAsMaximum,
		MaximumMediaNumber:      cfg.Validation.MaximumMediaNumber,
		MaximumSongNumber:       cfg.Validation.MaximumSongNumber,
	}
}

func (s Settings) yearPolicy() metatag.YearPolicy {
	return metatag.YearPolicy{
		Minimum:                 s.MinimumYear,
		Maximum:                 s.MaximumYear,
		UseCurrentYearAsMaximum: s.UseCurrentYearAsMaximum,
	}
}

// Validator runs the album rule set.
type Validator struct {
	settings Settings
	logger   *slog.Logger
}

// New builds a validator with the given settings.
func New(logger *slog.Logger, settings Settings) *Validator {
	return &Validator{
		settings: settings,
		logger:   logging.WithComponent(logger, "validator"),
	}
}

// Validate inspects album and returns its derived status, the reason bitmask,
// and one message per finding. Running it twice on the same album yields
// identical results.
func (v *Validator) Validate(album music.Album) (music.Status, music.Reasons, []string) {
	var reasons music.Reasons
	var messages []string

	if strings.TrimSpace(album.ArtistName()) == "" {
		reasons |= music.ReasonInvalidArtist
		messages = append(messages, "album has no resolvable artist")
	}

	if !v.settings.yearPolicy().Valid(album.Year()) {
		reasons |= music.ReasonInvalidYear
		messages = append(messages, fmt.Sprintf("recording year %d outside %d..%d",
			album.Year(), v.settings.MinimumYear, v.settings.yearPolicy().MaximumYear()))
	}

	if len(album.Images) == 0 {
		reasons |= music.ReasonNoImages
		messages = append(messages, "album has no images")
	}

	if problems := v.songProblems(album); len(problems) > 0 {
		reasons |= music.ReasonInvalidSongs
		messages = append(messages, problems...)
	}

	if AlbumTitleHasUnwantedText(album.Title()) {
		reasons |= music.ReasonUnwantedAlbumTitle
		messages = append(messages, fmt.Sprintf("album title %q has unwanted text", album.Title()))
	}

	status := music.StatusOk
	if reasons != 0 {
		status = music.StatusInvalid
	}
	return status, reasons, messages
}

// Apply returns a new album snapshot carrying the validation verdict. The
// prior message list is replaced, never appended to.
func (v *Validator) Apply(album music.Album) music.Album {
	status, reasons, messages := v.Validate(album)
	out := album
	out.Status = status
	out.StatusReasons = reasons
	out.Messages = messages
	if status != music.StatusOk {
		v.logger.Debug("album invalid",
			logging.String("directory", album.Directory),
			logging.String("reasons", reasons.String()),
		)
	}
	return out
}

func (v *Validator) songProblems(album music.Album) []string {
	if len(album.Songs) == 0 {
		return []string{"album has no songs"}
	}

	var problems []string
	albumTitle := album.Title()
	seen := make(map[string]string, len(album.Songs))

	for _, song := range album.Songs {
		title := song.Title()
		number := song.SongNumber()

		if strings.TrimSpace(title) == "" {
			problems = append(problems, fmt.Sprintf("%s: missing title", song.FileName))
		}
		if number <= 0 {
			problems = append(problems, fmt.Sprintf("%s: missing song number", song.FileName))
		} else {
			if number > v.settings.MaximumSongNumber {
				problems = append(problems, fmt.Sprintf("%s: song number %d exceeds maximum %d",
					song.FileName, number, v.settings.MaximumSongNumber))
			}
			key := fmt.Sprintf("%d|%d", song.DiscNumber(), number)
			if other, ok := seen[key]; ok {
				problems = append(problems, fmt.Sprintf("%s: song number %d duplicates %s",
					song.FileName, number, other))
			} else {
				seen[key] = song.FileName
			}
		}
		if song.DiscNumber() > v.settings.MaximumMediaNumber {
			problems = append(problems, fmt.Sprintf("%s: disc number %d exceeds maximum %d",
				song.FileName, song.DiscNumber(), v.settings.MaximumMediaNumber))
		}
		if song.Duration <= 0 {
			problems = append(problems, fmt.Sprintf("%s: zero duration", song.FileName))
		}
		if strings.TrimSpace(title) != "" && SongHasUnwantedText(albumTitle, title, number) {
			problems = append(problems, fmt.Sprintf("%s: unwanted text in title %q", song.FileName, title))
		}
	}
	return problems
}
