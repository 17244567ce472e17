package provider

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"stockmeta/internal/config"
)

// ErrCall marks a failed backend request.
var ErrCall = errors.New("provider call failed")

// Gateway sends one image to a vision model and returns the reply text.
type Gateway interface {
	Name() string
	Generate(ctx context.Context, key, model, imagePath string) (string, error)
}

// CallError wraps a backend failure with the provider that produced it.
type CallError struct {
	Provider string
	Err      error
}

func (e *CallError) Error() string {
	return fmt.Sprintf("%s: %s", e.Provider, e.Err)
}

func (e *CallError) Unwrap() []error {
	return []error{ErrCall, e.Err}
}

func callError(provider string, err error) error {
	if err == nil {
		return nil
	}
	return &CallError{Provider: provider, Err: err}
}

// Settings configures a gateway.
type Settings struct {
	BaseURL    string
	Timeout    time.Duration
	MaxRetries int
}

// New builds the gateway selected by cfg.Name.
func New(cfg config.Provider) (Gateway, error) {
	settings := Settings{
		Timeout:    time.Duration(cfg.TimeoutSeconds) * time.Second,
		MaxRetries: cfg.MaxRetries,
	}
	switch strings.ToLower(strings.TrimSpace(cfg.Name)) {
	case config.ProviderGemini:
		settings.BaseURL = cfg.GeminiBaseURL
		return NewGemini(settings), nil
	case config.ProviderOpenAI:
		settings.BaseURL = cfg.OpenAIBaseURL
		return NewOpenAI(settings), nil
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Name)
	}
}

func readImage(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	if len(data) == 0 {
		return nil, errors.New("read image: empty file")
	}
	return data, nil
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
