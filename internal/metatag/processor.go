// Package metatag contains stateless processors that normalize one extracted
// metadata field at a time and stamp the result with provenance.
package metatag

import (
	"log/slog"

	"aria/internal/logging"
	"aria/internal/music"
	"aria/internal/services"
)

// Processor normalizes tags for a declared subset of field identifiers.
// Implementations must be side-effect-free beyond the returned tags.
type Processor interface {
	// Name identifies the processor in tag provenance lists.
	Name() string
	// Handles reports whether the processor applies to the identifier.
	Handles(id music.TagID) bool
	// Process normalizes one tag given the full tag set for context. A failed
	// result records the problem without aborting the surrounding scan.
	Process(directory, fileName string, tag music.Tag, all []music.Tag) ([]music.Tag, services.Result)
}

// Chain applies a fixed sequence of processors to a record's tag set.
type Chain struct {
	processors []Processor
	logger     *slog.Logger
}

// NewChain builds a processor chain. Processors run in the given order.
func NewChain(logger *slog.Logger, processors ...Processor) *Chain {
	return &Chain{
		processors: processors,
		logger:     logging.WithComponent(logger, "metatag"),
	}
}

// Apply runs every applicable processor over tags and returns the normalized
// set plus messages for any per-tag failures. Failures never abort the pass.
func (c *Chain) Apply(directory, fileName string, tags []music.Tag) ([]music.Tag, []string) {
	var messages []string
	for _, processor := range c.processors {
		for _, tag := range tags {
			if !processor.Handles(tag.ID) {
				continue
			}
			produced, result := processor.Process(directory, fileName, tag, tags)
			for _, out := range produced {
				tags = music.SetTagValue(tags, out.ID, out.Value, processor.Name())
			}
			if result.Outcome == services.OutcomeError {
				messages = append(messages, result.Reason)
				c.logger.Warn("tag rejected",
					logging.String("file", fileName),
					logging.String("tag", string(tag.ID)),
					logging.String("reason", result.Reason),
				)
			}
		}
	}
	return tags, messages
}
