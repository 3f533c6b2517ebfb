package music

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDocumentRoundTrip(t *testing.T) {
	dir := t.TempDir()
	album := testAlbum(dir)

	if DocumentExists(dir) {
		t.Fatal("document should not exist yet")
	}
	if err := WriteDocument(album); err != nil {
		t.Fatalf("WriteDocument failed: %v", err)
	}
	if !DocumentExists(dir) {
		t.Fatal("document missing after write")
	}

	loaded, err := ReadDocument(dir)
	if err != nil {
		t.Fatalf("ReadDocument failed: %v", err)
	}
	if loaded.ID != album.ID {
		t.Fatal("identity lost in round trip")
	}
	if loaded.Title() != album.Title() || len(loaded.Songs) != len(album.Songs) {
		t.Fatalf("content lost in round trip: %+v", loaded)
	}
}

func TestReadDocumentMissing(t *testing.T) {
	_, err := ReadDocument(t.TempDir())
	if err == nil {
		t.Fatal("expected error")
	}
	if !IsDocumentMissing(err) {
		t.Fatalf("missing document not classified: %v", err)
	}
}

func TestReadDocumentCorrupt(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(DocumentPath(dir), []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	_, err := ReadDocument(dir)
	if err == nil || IsDocumentMissing(err) {
		t.Fatalf("corrupt document should fail parse: %v", err)
	}
	if !strings.Contains(err.Error(), DocumentName) {
		t.Fatalf("error should name the document: %v", err)
	}
}

func TestWriteDocumentRewritesWholeFile(t *testing.T) {
	dir := t.TempDir()
	album := testAlbum(dir)
	if err := WriteDocument(album); err != nil {
		t.Fatalf("first write: %v", err)
	}

	album.Songs = album.Songs[:1]
	if err := WriteDocument(album); err != nil {
		t.Fatalf("second write: %v", err)
	}

	loaded, err := ReadDocument(dir)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if len(loaded.Songs) != 1 {
		t.Fatalf("expected full rewrite, got %d songs", len(loaded.Songs))
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	for _, entry := range entries {
		if entry.Name() != DocumentName {
			t.Fatalf("unexpected leftover %s", entry.Name())
		}
	}
}

func TestWriteDocumentRequiresDirectory(t *testing.T) {
	if err := WriteDocument(Album{}); err == nil {
		t.Fatal("expected error for album without directory")
	}
}

func TestDocumentPathUsesReservedName(t *testing.T) {
	if got := DocumentPath("/music/x"); got != filepath.Join("/music/x", "aria.json") {
		t.Fatalf("unexpected path %q", got)
	}
}
