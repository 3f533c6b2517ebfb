package main

import (
	"log/slog"
	"strings"
	"sync"

	"aria/internal/cache"
	"aria/internal/catalog"
	"aria/internal/config"
	"aria/internal/ingest"
	"aria/internal/logging"
	"aria/internal/metatag"
	"aria/internal/rescan"
	"aria/internal/sources"
	"aria/internal/validation"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// pipeline bundles the wired ingestion components a command needs.
type pipeline struct {
	cfg       *config.Config
	logger    *slog.Logger
	registry  *sources.Registry
	processor *ingest.Processor
	scanner   *ingest.Scanner
	validator *validation.Validator
}

// buildPipeline wires sources, tag processors, the validator, and the
// directory plugins from the resolved configuration.
func (c *commandContext) buildPipeline() (*pipeline, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return nil, err
	}

	registry := sources.NewRegistry(sources.NewTagLibSource())
	chain := metatag.NewChain(logger,
		metatag.NewTitleProcessor(),
		metatag.NewYearProcessor(metatag.YearPolicy{
			Minimum:                 cfg.Validation.MinimumYear,
			Maximum:                 cfg.Validation.MaximumYear,
			UseCurrentYearAsMaximum: cfg.Validation.UseCurrentYearAsMaximum,
		}),
	)
	validator := validation.New(logger, validation.SettingsFromConfig(cfg))
	processor := ingest.NewProcessor(logger, validator,
		ingest.Options{DeleteOriginal: cfg.Scan.DeleteOriginal},
		ingest.NewM3UPlaylistPlugin(logger, registry, chain, cfg.Scan.Parallelism),
		ingest.NewAudioDirectoryPlugin(logger, registry, chain, cfg.Scan.Parallelism),
	)

	return &pipeline{
		cfg:       cfg,
		logger:    logger,
		registry:  registry,
		processor: processor,
		scanner:   ingest.NewScanner(logger, processor),
		validator: validator,
	}, nil
}

func (c *commandContext) openStore() (*catalog.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return catalog.Open(cfg)
}

// defaultLibrary names the catalog library backing the configured root.
const defaultLibrary = "library"

func (p *pipeline) newReconciler(store *catalog.Store) *rescan.Reconciler {
	return rescan.NewReconciler(
		p.logger,
		store,
		p.processor,
		p.registry,
		rescan.IgnoreListsFromConfig(p.cfg),
		cache.NewLogged(p.logger),
	)
}
