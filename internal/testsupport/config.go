package testsupport

import (
	"path/filepath"
	"testing"

	"stockmeta/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Credentials.APIKeys = []string{"test-key"}
	cfgVal.Paths.StateDir = filepath.Join(base, "state")

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithKeys sets the API keys on the test config.
func WithKeys(keys ...string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Credentials.APIKeys = keys
	}
}

// WithProvider selects the provider and an endpoint override for it.
func WithProvider(name, baseURL string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Provider.Name = name
		switch name {
		case config.ProviderOpenAI:
			b.cfg.Provider.OpenAIBaseURL = baseURL
		default:
			b.cfg.Provider.GeminiBaseURL = baseURL
		}
	}
}

// WithStubbedBinaries points ffmpeg and ffprobe at stub scripts.
func WithStubbedBinaries(ffmpegScript, ffprobeScript string) ConfigOption {
	return func(b *configBuilder) {
		binDir := filepath.Join(b.baseDir, "bin")
		b.cfg.Preprocess.FFmpegBinary = WriteScript(b.t, binDir, "ffmpeg", ffmpegScript)
		b.cfg.Preprocess.FFprobeBinary = WriteScript(b.t, binDir, "ffprobe", ffprobeScript)
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.StateDir)
}
