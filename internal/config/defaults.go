package config

const (
	// ProviderGemini selects the Google Gemini backend.
	ProviderGemini = "gemini"
	// ProviderOpenAI selects the OpenAI responses backend.
	ProviderOpenAI = "openai"
)

const (
	defaultConfigPath            = "~/.config/stockmeta/config.toml"
	defaultStateDir              = "~/.local/share/stockmeta"
	defaultLedgerName            = "processed_files.txt"
	defaultProvider              = ProviderGemini
	defaultGeminiModel           = "gemini-2.5-flash"
	defaultOpenAIModel           = "gpt-4o-mini"
	defaultProviderTimeout       = 120
	defaultMaxDimension          = 600
	defaultJPEGQuality           = 85
	defaultFFmpegBinary          = "ffmpeg"
	defaultFFprobeBinary         = "ffprobe"
	defaultLogFormat             = "console"
	defaultLogLevel              = "info"
	defaultDreamstimeCategory1   = "212"
	defaultFreepikMarkAIKeywords = true
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Provider: Provider{
			Name:           defaultProvider,
			TimeoutSeconds: defaultProviderTimeout,
		},
		Preprocess: Preprocess{
			MaxDimension:  defaultMaxDimension,
			JPEGQuality:   defaultJPEGQuality,
			FFmpegBinary:  defaultFFmpegBinary,
			FFprobeBinary: defaultFFprobeBinary,
		},
		Paths: Paths{
			LedgerName: defaultLedgerName,
			StateDir:   defaultStateDir,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		Export: Export{
			Freepik: Freepik{
				MarkAIKeyword: defaultFreepikMarkAIKeywords,
			},
			Dreamstime: Dreamstime{
				Category1: defaultDreamstimeCategory1,
			},
		},
	}
}
