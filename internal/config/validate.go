package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateProvider(); err != nil {
		return err
	}
	if err := c.validatePreprocess(); err != nil {
		return err
	}
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateProvider() error {
	switch c.Provider.Name {
	case ProviderGemini, ProviderOpenAI:
	default:
		return fmt.Errorf("provider.name must be %q or %q, got %q", ProviderGemini, ProviderOpenAI, c.Provider.Name)
	}
	if c.Provider.TimeoutSeconds <= 0 {
		return errors.New("provider.timeout_seconds must be positive")
	}
	return nil
}

func (c *Config) validatePreprocess() error {
	if c.Preprocess.MaxDimension <= 0 {
		return errors.New("preprocess.max_dimension must be positive")
	}
	if c.Preprocess.JPEGQuality < 1 || c.Preprocess.JPEGQuality > 100 {
		return errors.New("preprocess.jpeg_quality must be between 1 and 100")
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.ContainsAny(c.Paths.LedgerName, `/\`) {
		return errors.New("paths.ledger_name must be a bare file name")
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
