package config

import (
	"fmt"
	"os"
	"strings"
	"unicode"
)

func (c *Config) normalize() error {
	c.normalizeProvider()
	c.normalizeCredentials()
	if err := c.normalizePreprocess(); err != nil {
		return err
	}
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeExport()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizeProvider() {
	if value, ok := os.LookupEnv("STOCKMETA_PROVIDER"); ok && strings.TrimSpace(value) != "" {
		c.Provider.Name = value
	}
	if value, ok := os.LookupEnv("STOCKMETA_MODEL"); ok && strings.TrimSpace(value) != "" {
		c.Provider.Model = value
	}
	c.Provider.Name = strings.ToLower(strings.TrimSpace(c.Provider.Name))
	if c.Provider.Name == "" {
		c.Provider.Name = defaultProvider
	}
	c.Provider.Model = strings.TrimSpace(c.Provider.Model)
	c.Provider.GeminiBaseURL = strings.TrimSpace(c.Provider.GeminiBaseURL)
	c.Provider.OpenAIBaseURL = strings.TrimSpace(c.Provider.OpenAIBaseURL)
	if c.Provider.TimeoutSeconds <= 0 {
		c.Provider.TimeoutSeconds = defaultProviderTimeout
	}
	if c.Provider.MaxRetries < 0 {
		c.Provider.MaxRetries = 0
	}
}

func (c *Config) normalizeCredentials() {
	if value, ok := os.LookupEnv("API_KEYS"); ok {
		if keys := SplitKeyList(value); len(keys) > 0 {
			c.Credentials.APIKeys = keys
			return
		}
	}
	if value, ok := os.LookupEnv("API_KEY"); ok {
		if key := strings.TrimSpace(value); key != "" {
			c.Credentials.APIKeys = []string{key}
			return
		}
	}
	keys := make([]string, 0, len(c.Credentials.APIKeys))
	for _, key := range c.Credentials.APIKeys {
		if key = strings.TrimSpace(key); key != "" {
			keys = append(keys, key)
		}
	}
	c.Credentials.APIKeys = keys
}

func (c *Config) normalizePreprocess() error {
	c.Preprocess.FFmpegBinary = strings.TrimSpace(c.Preprocess.FFmpegBinary)
	if c.Preprocess.FFmpegBinary == "" {
		c.Preprocess.FFmpegBinary = defaultFFmpegBinary
	}
	c.Preprocess.FFprobeBinary = strings.TrimSpace(c.Preprocess.FFprobeBinary)
	if c.Preprocess.FFprobeBinary == "" {
		c.Preprocess.FFprobeBinary = defaultFFprobeBinary
	}
	if c.Preprocess.MaxDimension == 0 {
		c.Preprocess.MaxDimension = defaultMaxDimension
	}
	if c.Preprocess.JPEGQuality == 0 {
		c.Preprocess.JPEGQuality = defaultJPEGQuality
	}
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	c.Paths.LedgerName = strings.TrimSpace(c.Paths.LedgerName)
	if c.Paths.LedgerName == "" {
		c.Paths.LedgerName = defaultLedgerName
	}
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if c.Metrics.Textfile = strings.TrimSpace(c.Metrics.Textfile); c.Metrics.Textfile != "" {
		if c.Metrics.Textfile, err = expandPath(c.Metrics.Textfile); err != nil {
			return fmt.Errorf("metrics.textfile: %w", err)
		}
	}
	return nil
}

func (c *Config) normalizeExport() {
	targets := make([]string, 0, len(c.Export.Targets))
	seen := make(map[string]struct{}, len(c.Export.Targets))
	for _, target := range c.Export.Targets {
		normalized := strings.ToLower(strings.TrimSpace(target))
		if normalized == "" {
			continue
		}
		if _, exists := seen[normalized]; exists {
			continue
		}
		seen[normalized] = struct{}{}
		targets = append(targets, normalized)
	}
	c.Export.Targets = targets
	c.Export.Stem = strings.TrimSpace(c.Export.Stem)
	c.Export.OutputDir = strings.TrimSpace(c.Export.OutputDir)
	c.Export.Dreamstime.Category1 = strings.TrimSpace(c.Export.Dreamstime.Category1)
	if c.Export.Dreamstime.Category1 == "" {
		c.Export.Dreamstime.Category1 = defaultDreamstimeCategory1
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

// SplitKeyList splits a credential list on commas, whitespace, and newlines,
// preserving order and dropping empty entries.
func SplitKeyList(value string) []string {
	return strings.FieldsFunc(value, func(r rune) bool {
		return r == ',' || r == ';' || unicode.IsSpace(r)
	})
}
