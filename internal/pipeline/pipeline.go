package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"stockmeta/internal/config"
	"stockmeta/internal/export"
	"stockmeta/internal/history"
	"stockmeta/internal/keyring"
	"stockmeta/internal/logging"
	"stockmeta/internal/media"
	"stockmeta/internal/metrics"
	"stockmeta/internal/provider"
)

// Preparer produces an upload-ready temporary image for a media file. The
// caller owns and removes the returned file.
type Preparer interface {
	Prepare(ctx context.Context, path string) (string, error)
}

// HistoryRecorder stores per-file outcomes.
type HistoryRecorder interface {
	Record(ctx context.Context, entry history.Entry) error
}

// Deps carries collaborators. Zero fields are built from the config on first use.
type Deps struct {
	Gateway      provider.Gateway
	Keys         *keyring.Rotator
	Preprocessor Preparer
	Registry     *export.Registry
	History      HistoryRecorder
	Metrics      *metrics.Recorder
	Logger       *slog.Logger
	Now          func() time.Time
	NewRunID     func() string
}

// Pipeline processes working folders with one configuration.
type Pipeline struct {
	cfg    *config.Config
	deps   Deps
	logger *slog.Logger
}

// New wires a pipeline. The preprocessor, exporter registry, clock, and run
// ID source default to their production implementations; the gateway and key
// rotator are resolved lazily so export-only runs need no credentials.
func New(cfg *config.Config, deps Deps) *Pipeline {
	if deps.Logger == nil {
		deps.Logger = logging.NewNop()
	}
	if deps.Preprocessor == nil {
		deps.Preprocessor = media.New(cfg.Preprocess, deps.Logger)
	}
	if deps.Registry == nil {
		deps.Registry = export.Builtin()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.NewRunID == nil {
		deps.NewRunID = uuid.NewString
	}
	return &Pipeline{
		cfg:    cfg,
		deps:   deps,
		logger: logging.NewComponentLogger(deps.Logger, "pipeline"),
	}
}

// Registry returns the exporter registry in use.
func (p *Pipeline) Registry() *export.Registry {
	return p.deps.Registry
}

func (p *Pipeline) gateway() (provider.Gateway, error) {
	if p.deps.Gateway != nil {
		return p.deps.Gateway, nil
	}
	gw, err := provider.New(p.cfg.Provider)
	if err != nil {
		return nil, Wrap(ErrConfig, "raster", "select provider", "", err)
	}
	p.deps.Gateway = gw
	return gw, nil
}

func (p *Pipeline) keys() (*keyring.Rotator, error) {
	if p.deps.Keys != nil {
		return p.deps.Keys, nil
	}
	rotator, err := keyring.New(p.cfg.ResolveKeys())
	if err != nil {
		return nil, Wrap(ErrCredentials, "raster", "load api keys", "set API_KEYS or credentials.api_keys", err)
	}
	p.deps.Keys = rotator
	return rotator, nil
}

func (p *Pipeline) recordHistory(ctx context.Context, entry history.Entry) {
	if p.deps.History == nil {
		return
	}
	if err := p.deps.History.Record(ctx, entry); err != nil {
		logging.WithContext(ctx, p.logger).Warn("history record failed", logging.Error(err))
	}
}
