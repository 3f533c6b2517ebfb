// Package rescan keeps persisted catalog rows consistent with the filesystem
// and the canonical metadata documents. A reconciler handles one journaled
// request at a time; the dispatcher drains the journal under per-directory
// locks shared with the scanner.
package rescan
