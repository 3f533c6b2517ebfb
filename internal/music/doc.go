// Package music defines the album domain model: albums, songs, tags, images,
// contributors, lifecycle status, and the deterministic merge that reconciles
// two album records into one. Values are treated as immutable snapshots; every
// transformation returns a new value instead of mutating in place.
package music
