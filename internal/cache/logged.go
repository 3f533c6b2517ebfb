package cache

import (
	"log/slog"

	"aria/internal/logging"
)

// Logged forwards invalidation signals to the debug log. It stands in for an
// external cache service in single-process deployments so invalidation
// traffic stays observable without one.
type Logged struct {
	logger *slog.Logger
}

// NewLogged builds a logging invalidation sink.
func NewLogged(logger *slog.Logger) *Logged {
	return &Logged{logger: logging.WithComponent(logger, "cache")}
}

func (l *Logged) InvalidateAlbum(apiKey string) {
	l.logger.Debug("album cache invalidated", logging.String("album", apiKey))
}

func (l *Logged) InvalidateArtist(artistID int64) {
	l.logger.Debug("artist cache invalidated", logging.Int64("artist", artistID))
}
