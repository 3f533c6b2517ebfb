// Package logging configures slog handlers for console and JSON output and
// provides attribute helpers shared across the pipeline.
package logging
