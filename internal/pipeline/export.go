package pipeline

import (
	"context"
	"path/filepath"
	"strings"

	"stockmeta/internal/export"
	"stockmeta/internal/folder"
	"stockmeta/internal/logging"
	"stockmeta/internal/metadata"
	"stockmeta/internal/rowstore"
	"stockmeta/internal/vectorlink"
)

const stemLayout = "2006-01-02"

// Row sources reported by the export pass.
const (
	SourceRun      = "run"
	SourceRowStore = "row store"
)

// ExportRequest selects what the export pass writes. Empty fields fall back
// to the [export] config section.
type ExportRequest struct {
	Targets []string
	Stem    string
	OutDir  string
	// Rows are the rows gathered by the current run. When empty the day's row
	// store is read instead.
	Rows []metadata.Row
}

// ExportSummary reports the export pass.
type ExportSummary struct {
	Source string
	Rows   int
	Paths  []string
}

// Export writes the agency CSVs for dir. Vector companions found in the
// folder are added to the exported rows without being persisted.
func (p *Pipeline) Export(ctx context.Context, dir string, req ExportRequest) (ExportSummary, error) {
	logger := logging.WithContext(ctx, p.logger)
	day := p.deps.Now()

	summary := ExportSummary{Source: SourceRun}
	rows := req.Rows
	if len(rows) == 0 {
		store := rowstore.Open(dir, day)
		stored, err := store.ReadAll()
		if err != nil {
			return summary, Wrap(ErrPersistence, "export", "read rows", store.Path(), err)
		}
		rows = stored
		summary.Source = SourceRowStore
	}

	listing, err := folder.List(dir)
	if err != nil {
		return summary, Wrap(ErrExport, "export", "list folder", dir, err)
	}
	rows = vectorlink.Companions(rows, listing.Names())
	summary.Rows = len(rows)
	if len(rows) == 0 {
		logger.Info("no metadata to export", logging.String("source", summary.Source))
		return summary, nil
	}

	opts, err := export.OptionsFromConfig(p.cfg.Export)
	if err != nil {
		return summary, Wrap(ErrExport, "export", "options", "", err)
	}
	targets := req.Targets
	if len(targets) == 0 {
		targets = p.cfg.Export.Targets
	}
	stem := firstNonEmpty(req.Stem, p.cfg.Export.Stem, day.Format(stemLayout))
	outDir := p.outputDir(dir, req.OutDir)

	paths, err := p.deps.Registry.Export(rows, outDir, targets, opts, stem)
	summary.Paths = paths
	for _, path := range paths {
		name := strings.SplitN(filepath.Base(path), "_metadata_", 2)[0]
		p.deps.Metrics.Exported(name)
		logger.Info("export written", logging.String(logging.FieldExporter, name), logging.String("path", path))
	}
	if err != nil {
		return summary, Wrap(ErrExport, "export", "write", "", err)
	}

	logger.Info("export pass complete",
		logging.Int("rows", summary.Rows),
		logging.Int("files", len(paths)),
		logging.String("source", summary.Source),
	)
	return summary, nil
}

func (p *Pipeline) outputDir(dir, override string) string {
	out := firstNonEmpty(override, p.cfg.Export.OutputDir)
	if out == "" {
		return dir
	}
	if filepath.IsAbs(out) {
		return out
	}
	return filepath.Join(dir, out)
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
