// Package catalog persists libraries, artists, albums, songs, and
// contributors in SQLite, and journals rescan requests for the dispatcher.
// Schema changes ship as embedded migrations applied on open.
package catalog
