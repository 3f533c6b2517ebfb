// Package sources contains per-format extractors that turn one audio file
// into a canonical song record with tags, technical attributes, and any
// embedded artwork.
package sources

import (
	"context"
	"path/filepath"
	"strings"

	"aria/internal/music"
)

// Source produces zero or more canonical songs from one input file.
type Source interface {
	// Name identifies the plugin in album provenance lists.
	Name() string
	// Handles reports whether the plugin owns the file extension
	// (lowercase, with leading dot).
	Handles(ext string) bool
	// Extract reads one file. Embedded artwork is returned separately so the
	// caller can deduplicate images across songs.
	Extract(ctx context.Context, path string) (music.Song, []music.Image, error)
}

// Registry dispatches files to the first source claiming their extension.
type Registry struct {
	sources []Source
}

// NewRegistry builds a registry. Sources are consulted in the given order.
func NewRegistry(sources ...Source) *Registry {
	return &Registry{sources: sources}
}

// ForFile returns the source responsible for path, if any.
func (r *Registry) ForFile(path string) (Source, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	for _, source := range r.sources {
		if source.Handles(ext) {
			return source, true
		}
	}
	return nil, false
}

// Handles reports whether any registered source claims the path.
func (r *Registry) Handles(path string) bool {
	_, ok := r.ForFile(path)
	return ok
}
