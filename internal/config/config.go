package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Provider selects the vision model backend and its connection settings.
type Provider struct {
	Name           string `toml:"name"`
	Model          string `toml:"model"`
	GeminiBaseURL  string `toml:"gemini_base_url"`
	OpenAIBaseURL  string `toml:"openai_base_url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	MaxRetries     int    `toml:"max_retries"`
}

// Credentials holds the ordered API key list used for rotation.
type Credentials struct {
	APIKeys []string `toml:"api_keys"`
}

// Preprocess controls how media is normalized before upload.
type Preprocess struct {
	MaxDimension  int    `toml:"max_dimension"`
	JPEGQuality   int    `toml:"jpeg_quality"`
	FFmpegBinary  string `toml:"ffmpeg_binary"`
	FFprobeBinary string `toml:"ffprobe_binary"`
}

// Paths contains state file names and directories.
type Paths struct {
	// LedgerName is the processed-files ledger, relative to the target folder.
	LedgerName string `toml:"ledger_name"`
	// StateDir holds the run history database.
	StateDir string `toml:"state_dir"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Freepik holds Freepik exporter options.
type Freepik struct {
	MarkAIKeyword bool `toml:"mark_ai_keyword"`
}

// Dreamstime holds Dreamstime exporter options.
type Dreamstime struct {
	Category1 string         `toml:"category1"`
	Defaults  map[string]any `toml:"defaults"`
	// AdobeToDTMap maps an Adobe category ID to either {c2, c3} or [c2, c3].
	AdobeToDTMap map[string]any `toml:"adobe_to_dt_map"`
}

// Export selects export targets and per-agency settings.
type Export struct {
	Targets    []string   `toml:"targets"`
	Stem       string     `toml:"stem"`
	OutputDir  string     `toml:"output_dir"`
	Freepik    Freepik    `toml:"freepik"`
	Dreamstime Dreamstime `toml:"dreamstime"`
}

// Metrics controls the Prometheus textfile dump written after each run.
type Metrics struct {
	Textfile string `toml:"textfile"`
}

// Config encapsulates all configuration values for stockmeta.
//
// Configuration sections by subsystem:
//   - Provider: model backend, model name, endpoints, timeouts
//   - Credentials: API keys used in rotation
//   - Preprocess: image bound, JPEG quality, ffmpeg binaries
//   - Paths: ledger name and state directory
//   - Logging: log format and level
//   - Export: targets and agency-specific settings
//   - Metrics: optional Prometheus textfile output
type Config struct {
	Provider    Provider    `toml:"provider"`
	Credentials Credentials `toml:"credentials"`
	Preprocess  Preprocess  `toml:"preprocess"`
	Paths       Paths       `toml:"paths"`
	Logging     Logging     `toml:"logging"`
	Export      Export      `toml:"export"`
	Metrics     Metrics     `toml:"metrics"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and environment fallbacks applied.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("stockmeta.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the state directory used for run history.
func (c *Config) EnsureDirectories() error {
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		return nil
	}
	if err := os.MkdirAll(c.Paths.StateDir, 0o755); err != nil {
		return fmt.Errorf("create directory %q: %w", c.Paths.StateDir, err)
	}
	return nil
}

// ModelName returns the configured model or the default for the selected provider.
func (c *Config) ModelName() string {
	if model := strings.TrimSpace(c.Provider.Model); model != "" {
		return model
	}
	return DefaultModel(c.Provider.Name)
}

// DefaultModel returns the built-in model identifier for a provider name.
func DefaultModel(provider string) string {
	switch strings.ToLower(strings.TrimSpace(provider)) {
	case ProviderOpenAI:
		return defaultOpenAIModel
	default:
		return defaultGeminiModel
	}
}

// ResolveKeys returns the API keys for the selected provider. Keys from the
// config file or the API_KEYS/API_KEY variables win; otherwise the
// provider-specific variable is consulted.
func (c *Config) ResolveKeys() []string {
	if len(c.Credentials.APIKeys) > 0 {
		out := make([]string, len(c.Credentials.APIKeys))
		copy(out, c.Credentials.APIKeys)
		return out
	}
	var names []string
	switch c.Provider.Name {
	case ProviderOpenAI:
		names = []string{"OPENAI_API_KEY"}
	default:
		names = []string{"GEMINI_API_KEY", "GOOGLE_API_KEY"}
	}
	for _, name := range names {
		if value, ok := os.LookupEnv(name); ok {
			if keys := SplitKeyList(value); len(keys) > 0 {
				return keys
			}
		}
	}
	return nil
}

// LedgerPath returns the ledger location inside the target folder.
func (c *Config) LedgerPath(folder string) string {
	return filepath.Join(folder, c.Paths.LedgerName)
}

// HistoryPath returns the run history database path.
func (c *Config) HistoryPath() string {
	return filepath.Join(c.Paths.StateDir, "history.db")
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
