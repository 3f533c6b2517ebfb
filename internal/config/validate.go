package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateScan(); err != nil {
		return err
	}
	if err := c.validateRescan(); err != nil {
		return err
	}
	if err := c.validateValidation(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.LibraryDir) == "" {
		return errors.New("paths.library_dir must be set")
	}
	if strings.TrimSpace(c.Paths.InboundDir) == "" {
		return errors.New("paths.inbound_dir must be set")
	}
	if c.Paths.InboundDir == c.Paths.LibraryDir {
		return errors.New("paths.inbound_dir and paths.library_dir must differ")
	}
	return nil
}

func (c *Config) validateScan() error {
	if c.Scan.Parallelism <= 0 {
		return errors.New("scan.parallelism must be positive")
	}
	return nil
}

func (c *Config) validateRescan() error {
	if err := ensurePositiveMap(map[string]int{
		"rescan.poll_interval": c.Rescan.PollInterval,
		"rescan.batch_size":    c.Rescan.BatchSize,
	}); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateValidation() error {
	if c.Validation.MinimumYear <= 0 {
		return errors.New("validation.minimum_year must be positive")
	}
	if c.Validation.MaximumYear <= c.Validation.MinimumYear {
		return errors.New("validation.maximum_year must be greater than validation.minimum_year")
	}
	if c.Validation.MaximumMediaNumber <= 0 {
		return errors.New("validation.maximum_media_number must be positive")
	}
	if c.Validation.MaximumSongNumber <= 0 {
		return errors.New("validation.maximum_song_number must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
