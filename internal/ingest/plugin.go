// Package ingest orchestrates directory scanning: source plugins extract
// songs, the metatag chain normalizes them, the merge engine folds the result
// into any existing canonical document, and the validator assigns the final
// status before the document is rewritten atomically.
package ingest

import (
	"context"

	"aria/internal/music"
	"aria/internal/services"
)

// DirectoryPlugin assembles a transient album record from one directory.
type DirectoryPlugin interface {
	// Name identifies the plugin in album provenance lists.
	Name() string
	// Handles reports whether the plugin owns the directory's contents.
	Handles(directory string) bool
	// Assemble produces the album plus the source files that may be deleted
	// once their content is folded into the canonical document.
	Assemble(ctx context.Context, directory string) (music.Album, []string, services.Result)
}

// DirectoryResult reports the outcome of processing one directory. Stop is
// set when the failure mode makes retrying in the same pass pointless.
type DirectoryResult struct {
	Directory string
	Album     music.Album
	Result    services.Result
	Stop      bool
}
