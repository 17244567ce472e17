package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"stockmeta/internal/folder"
	"stockmeta/internal/ledger"
	"stockmeta/internal/logging"
	"stockmeta/internal/media"
	"stockmeta/internal/metadata"
	"stockmeta/internal/rowstore"
)

// RunOptions selects which passes run.
type RunOptions struct {
	// DryRun lists what would happen without preprocessing, calling a
	// provider, or writing anything.
	DryRun bool
	// ExportOnly skips the raster and vector passes.
	ExportOnly bool
	// NoExport skips the export pass.
	NoExport bool
	Export   ExportRequest
}

// PlannedFile is one dry-run entry.
type PlannedFile struct {
	Name      string
	Kind      media.Kind
	Processed bool
}

// Report collects the summaries of every pass that ran.
type Report struct {
	RunID    string
	Folder   string
	Started  time.Time
	Finished time.Time
	DryRun   bool
	Plan     []PlannedFile
	Raster   RasterSummary
	Vector   VectorSummary
	Export   ExportSummary
	Exported bool
}

// Run processes dir. The returned report is populated up to the point a fatal
// error stopped the run.
func (p *Pipeline) Run(ctx context.Context, dir string, opts RunOptions) (Report, error) {
	report := Report{RunID: p.deps.NewRunID(), Started: p.deps.Now(), DryRun: opts.DryRun}
	ctx = logging.WithRunID(ctx, report.RunID)
	logger := logging.WithContext(ctx, p.logger)

	abs, err := resolveFolder(dir)
	if err != nil {
		return report, Wrap(ErrConfig, "run", "resolve folder", dir, err)
	}
	report.Folder = abs
	logger.Info("run started", logging.String("folder", abs), logging.Bool("dry_run", opts.DryRun))

	if opts.DryRun {
		plan, err := p.plan(abs)
		report.Plan = plan
		report.Finished = p.deps.Now()
		return report, err
	}

	lock, err := folder.Acquire(abs)
	if err != nil {
		return report, Wrap(ErrPersistence, "run", "lock folder", "", err)
	}
	logger.Debug("folder locked", logging.String("lock", lock.Path()))
	defer func() {
		if err := lock.Release(); err != nil {
			logger.Warn("folder lock release failed", logging.Error(err))
		}
	}()
	defer p.writeMetrics(ctx)

	var runRows []metadata.Row
	if !opts.ExportOnly {
		listing, err := folder.List(abs)
		if err != nil {
			return report, Wrap(ErrConfig, "run", "list folder", abs, err)
		}
		led, err := ledger.Open(p.cfg.LedgerPath(abs))
		if err != nil {
			return report, Wrap(ErrPersistence, "run", "open ledger", "", err)
		}
		store := rowstore.Open(abs, report.Started)

		report.Raster, err = p.processRaster(ctx, report.RunID, listing, led, store)
		if err != nil {
			report.Finished = p.deps.Now()
			return report, err
		}
		report.Vector, err = p.linkVectors(ctx, report.RunID, report.Raster.Rows, listing, led, store)
		if err != nil {
			report.Finished = p.deps.Now()
			return report, err
		}
		runRows = append(append(runRows, report.Raster.Rows...), report.Vector.Linked...)
	}

	if !opts.NoExport {
		req := opts.Export
		req.Rows = runRows
		report.Export, err = p.Export(ctx, abs, req)
		report.Exported = err == nil
		if err != nil {
			report.Finished = p.deps.Now()
			return report, err
		}
	}

	report.Finished = p.deps.Now()
	logger.Info("run complete", logging.Duration("elapsed", report.Finished.Sub(report.Started)))
	return report, nil
}

func (p *Pipeline) plan(dir string) ([]PlannedFile, error) {
	listing, err := folder.List(dir)
	if err != nil {
		return nil, Wrap(ErrConfig, "dry run", "list folder", dir, err)
	}
	led, err := ledger.Open(p.cfg.LedgerPath(dir))
	if err != nil {
		return nil, Wrap(ErrPersistence, "dry run", "open ledger", "", err)
	}
	var plan []PlannedFile
	for _, entry := range listing.Entries {
		if entry.Kind == media.KindOther {
			continue
		}
		plan = append(plan, PlannedFile{Name: entry.Name, Kind: entry.Kind, Processed: led.Contains(entry.Name)})
	}
	return plan, nil
}

func (p *Pipeline) writeMetrics(ctx context.Context) {
	path := p.cfg.Metrics.Textfile
	if path == "" || p.deps.Metrics == nil {
		return
	}
	if err := p.deps.Metrics.WriteTextfile(path); err != nil {
		logging.WithContext(ctx, p.logger).Warn("metrics textfile write failed", logging.Error(err))
	}
}

func resolveFolder(dir string) (string, error) {
	if dir == "" {
		dir = "."
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", err
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%s is not a directory", abs)
	}
	return abs, nil
}
