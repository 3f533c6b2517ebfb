// Package cache tracks which catalog entities have served stale data.
// Reconciliation invalidates entries; read-side consumers drop and rebuild
// them on next access.
package cache

import "sync"

// Invalidator receives invalidation signals for catalog entities.
type Invalidator interface {
	InvalidateAlbum(apiKey string)
	InvalidateArtist(artistID int64)
}

// Memory is an in-process Invalidator that records invalidated keys. It
// doubles as the test double for reconciliation.
type Memory struct {
	mu      sync.Mutex
	albums  map[string]int
	artists map[int64]int
}

// NewMemory builds an empty in-memory invalidator.
func NewMemory() *Memory {
	return &Memory{
		albums:  make(map[string]int),
		artists: make(map[int64]int),
	}
}

func (m *Memory) InvalidateAlbum(apiKey string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.albums[apiKey]++
}

func (m *Memory) InvalidateArtist(artistID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.artists[artistID]++
}

// AlbumInvalidations returns how many times an album entry was invalidated.
func (m *Memory) AlbumInvalidations(apiKey string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.albums[apiKey]
}

// ArtistInvalidations returns how many times an artist entry was invalidated.
func (m *Memory) ArtistInvalidations(artistID int64) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.artists[artistID]
}

// Nop discards all invalidation signals.
type Nop struct{}

func (Nop) InvalidateAlbum(string) {}

func (Nop) InvalidateArtist(int64) {}
