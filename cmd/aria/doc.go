// Command aria scans music directories into canonical album documents,
// syncs them into the SQLite catalog, and reconciles cataloged albums
// against the filesystem via the rescan journal.
package main
