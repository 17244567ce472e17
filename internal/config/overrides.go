package config

import "strings"

// Overrides carries command-line values that take precedence over the
// environment and the config file. Zero values leave the config untouched.
type Overrides struct {
	Provider     string
	Model        string
	APIKeys      []string
	MaxDimension int
	LogLevel     string
	LogFormat    string
	Targets      []string
}

// Apply merges command-line overrides and re-validates the result.
func (c *Config) Apply(o Overrides) error {
	if value := strings.TrimSpace(o.Provider); value != "" {
		c.Provider.Name = strings.ToLower(value)
	}
	if value := strings.TrimSpace(o.Model); value != "" {
		c.Provider.Model = value
	}
	if len(o.APIKeys) > 0 {
		keys := make([]string, 0, len(o.APIKeys))
		for _, raw := range o.APIKeys {
			keys = append(keys, SplitKeyList(raw)...)
		}
		if len(keys) > 0 {
			c.Credentials.APIKeys = keys
		}
	}
	if o.MaxDimension > 0 {
		c.Preprocess.MaxDimension = o.MaxDimension
	}
	if value := strings.TrimSpace(o.LogLevel); value != "" {
		c.Logging.Level = strings.ToLower(value)
	}
	if value := strings.TrimSpace(o.LogFormat); value != "" {
		c.Logging.Format = strings.ToLower(value)
	}
	if len(o.Targets) > 0 {
		c.Export.Targets = o.Targets
		c.normalizeExport()
	}
	return c.Validate()
}
