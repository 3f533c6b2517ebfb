package ingest

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"aria/internal/logging"
	"aria/internal/music"
	"aria/internal/services"
	"aria/internal/validation"
)

// Options controls directory processing behavior.
type Options struct {
	// DeleteOriginal removes consumable source files (playlists) once their
	// content is folded into the canonical document.
	DeleteOriginal bool
}

// Processor runs directory plugins and owns the merge, validate, persist
// sequence for each directory.
type Processor struct {
	plugins   []DirectoryPlugin
	validator *validation.Validator
	opts      Options
	logger    *slog.Logger
}

// NewProcessor builds a processor. Plugins are consulted in order; the first
// one claiming a directory processes it.
func NewProcessor(logger *slog.Logger, validator *validation.Validator, opts Options, plugins ...DirectoryPlugin) *Processor {
	return &Processor{
		plugins:   plugins,
		validator: validator,
		opts:      opts,
		logger:    logging.WithComponent(logger, "ingest"),
	}
}

// ProcessDirectory assembles the directory's album, merges it into any
// existing canonical document, validates, and rewrites the document. The
// result carries a stop flag when retrying in the same pass cannot help.
func (p *Processor) ProcessDirectory(ctx context.Context, directory string) DirectoryResult {
	if err := ctx.Err(); err != nil {
		return DirectoryResult{Directory: directory, Result: services.Failed(err), Stop: true}
	}

	plugin, ok := p.pluginFor(directory)
	if !ok {
		return DirectoryResult{Directory: directory, Result: services.Skipped("no plugin claims directory")}
	}

	album, consumed, result := plugin.Assemble(ctx, directory)
	if result.IsSkipped() {
		return DirectoryResult{Directory: directory, Result: result}
	}
	if result.Outcome == services.OutcomeError {
		return DirectoryResult{Directory: directory, Result: result, Stop: !services.Retryable(result.Err)}
	}

	merged := album
	if music.DocumentExists(directory) {
		base, err := music.ReadDocument(directory)
		if err != nil {
			wrapped := services.Wrap(services.ErrValidation, "ingest", "read document", directory, err)
			return DirectoryResult{Directory: directory, Result: services.Failed(wrapped), Stop: true}
		}
		merged = music.Merge(base, album)
	}
	merged = merged.WithSongTotal()
	merged = p.validator.Apply(merged)

	if err := ctx.Err(); err != nil {
		return DirectoryResult{Directory: directory, Result: services.Failed(err), Stop: true}
	}
	if err := music.WriteDocument(merged); err != nil {
		wrapped := services.Wrap(services.ErrTransient, "ingest", "write document", directory, err)
		return DirectoryResult{Directory: directory, Result: services.Failed(wrapped)}
	}

	if p.opts.DeleteOriginal {
		p.deleteConsumed(consumed)
	}

	p.logger.Info("directory processed",
		logging.String("directory", directory),
		logging.String("plugin", plugin.Name()),
		logging.String("status", string(merged.Status)),
		logging.Int("songs", len(merged.Songs)),
	)
	return DirectoryResult{Directory: directory, Album: merged, Result: services.Ok()}
}

func (p *Processor) pluginFor(directory string) (DirectoryPlugin, bool) {
	for _, plugin := range p.plugins {
		if plugin.Handles(directory) {
			return plugin, true
		}
	}
	return nil, false
}

func (p *Processor) deleteConsumed(paths []string) {
	for _, path := range paths {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			p.logger.Warn("could not delete source file",
				logging.String("file", path),
				logging.Error(err),
			)
		}
	}
}
