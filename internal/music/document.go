package music

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"aria/internal/fileutil"
)

// DocumentName is the reserved filename of the canonical album document
// written into each album directory.
const DocumentName = "aria.json"

// DocumentPath returns the canonical document location for a directory.
func DocumentPath(directory string) string {
	return filepath.Join(directory, DocumentName)
}

// DocumentExists reports whether a canonical document is present.
func DocumentExists(directory string) bool {
	info, err := os.Stat(DocumentPath(directory))
	return err == nil && !info.IsDir()
}

// ReadDocument loads the canonical album document for a directory. A missing
// document is reported via fs.ErrNotExist.
func ReadDocument(directory string) (Album, error) {
	data, err := os.ReadFile(DocumentPath(directory))
	if err != nil {
		return Album{}, err
	}
	var album Album
	if err := json.Unmarshal(data, &album); err != nil {
		return Album{}, fmt.Errorf("parse %s: %w", DocumentName, err)
	}
	return album, nil
}

// WriteDocument persists the album as the directory's canonical document.
// The file is fully rewritten through an atomic rename so concurrent readers
// never observe a torn document.
func WriteDocument(album Album) error {
	if album.Directory == "" {
		return errors.New("album has no directory")
	}
	data, err := json.MarshalIndent(album, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", DocumentName, err)
	}
	data = append(data, '\n')
	if err := fileutil.WriteFileAtomic(DocumentPath(album.Directory), data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", DocumentName, err)
	}
	return nil
}

// IsDocumentMissing reports whether err indicates an absent canonical
// document.
func IsDocumentMissing(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
