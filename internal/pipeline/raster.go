package pipeline

import (
	"context"
	"time"

	"stockmeta/internal/fileutil"
	"stockmeta/internal/folder"
	"stockmeta/internal/history"
	"stockmeta/internal/keyring"
	"stockmeta/internal/ledger"
	"stockmeta/internal/logging"
	"stockmeta/internal/metadata"
	"stockmeta/internal/provider"
	"stockmeta/internal/rowstore"
)

// FileResult is the reported outcome for one media file.
type FileResult struct {
	Name     string
	Outcome  Outcome
	KeySlot  int
	Category string
	Err      error
}

// RasterSummary reports the raster pass.
type RasterSummary struct {
	Results   []FileResult
	Rows      []metadata.Row
	Succeeded int
	Skipped   int
	Failed    int
}

func (s *RasterSummary) add(result FileResult, row *metadata.Row) {
	s.Results = append(s.Results, result)
	switch result.Outcome {
	case OutcomeSuccess:
		s.Succeeded++
		if row != nil {
			s.Rows = append(s.Rows, *row)
		}
	case OutcomeSkipProcessed:
		s.Skipped++
	case OutcomeSkipError:
		s.Failed++
	}
}

type rasterPass struct {
	p       *Pipeline
	runID   string
	gateway provider.Gateway
	keys    *keyring.Rotator
	model   string
	ledger  *ledger.Ledger
	store   *rowstore.Store
}

// processRaster runs every processable entry in order. A fatal error stops the
// pass and is returned together with the results gathered so far.
func (p *Pipeline) processRaster(ctx context.Context, runID string, listing folder.Listing, led *ledger.Ledger, store *rowstore.Store) (RasterSummary, error) {
	var summary RasterSummary
	gw, err := p.gateway()
	if err != nil {
		return summary, err
	}
	keys, err := p.keys()
	if err != nil {
		return summary, err
	}
	pass := rasterPass{
		p:       p,
		runID:   runID,
		gateway: gw,
		keys:    keys,
		model:   p.cfg.ModelName(),
		ledger:  led,
		store:   store,
	}

	logger := logging.WithContext(ctx, p.logger)
	entries := listing.Processable()
	logger.Info("raster pass started",
		logging.Int("files", len(entries)),
		logging.String(logging.FieldProvider, gw.Name()),
		logging.String("model", pass.model),
		logging.Int("keys", keys.Len()),
		logging.Int("ledger_entries", led.Len()),
	)

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		result, row := pass.processFile(ctx, entry)
		if result.Outcome == OutcomeFatal {
			summary.Results = append(summary.Results, result)
			return summary, result.Err
		}
		summary.add(result, row)
	}

	logger.Info("raster pass complete",
		logging.Int("succeeded", summary.Succeeded),
		logging.Int("skipped", summary.Skipped),
		logging.Int("failed", summary.Failed),
	)
	return summary, nil
}

func (r rasterPass) processFile(ctx context.Context, entry folder.Entry) (FileResult, *metadata.Row) {
	ctx = logging.WithFile(ctx, entry.Name)
	logger := logging.WithContext(ctx, r.p.logger)
	result := FileResult{Name: entry.Name}

	if r.ledger.Contains(entry.Name) {
		result.Outcome = OutcomeSkipProcessed
		logger.Info("already processed, skipping")
		r.p.deps.Metrics.Skipped("already_processed")
		r.record(ctx, result)
		return result, nil
	}

	row, slot, err := r.describe(ctx, entry)
	result.KeySlot = slot.Index
	if err != nil {
		result.Err = err
		result.Outcome = Classify(err)
		if result.Outcome == OutcomeFatal {
			logger.Error("run aborted", logging.Error(err))
		} else {
			logger.Warn("skipping file", logging.Error(err), logging.Int(logging.FieldKeySlot, slot.Index))
			r.p.deps.Metrics.Failed()
		}
		r.record(ctx, result)
		return result, nil
	}

	if err := r.store.Append(row); err != nil {
		return r.fatal(ctx, result, Wrap(ErrPersistence, "raster", "append row", r.store.Path(), err)), nil
	}
	if err := r.ledger.Record(entry.Name); err != nil {
		return r.fatal(ctx, result, Wrap(ErrPersistence, "raster", "record ledger", r.ledger.Path(), err)), nil
	}

	result.Outcome = OutcomeSuccess
	result.Category = metadata.CategoryName(row.CategoryID)
	logger.Info("metadata saved",
		logging.String("title", row.Title),
		logging.String("category_id", row.CategoryID),
		logging.String("category", result.Category),
		logging.Int(logging.FieldKeySlot, slot.Index),
		logging.Int("key_total", slot.Total),
	)
	r.p.deps.Metrics.Processed()
	r.record(ctx, result)
	return result, &row
}

// describe preprocesses entry and asks the model for its metadata. The
// temporary upload image is removed on every path. Names the ledger cannot
// record are rejected before any work is done.
func (r rasterPass) describe(ctx context.Context, entry folder.Entry) (metadata.Row, keyring.Slot, error) {
	if err := r.ledger.Recordable(entry.Name); err != nil {
		return metadata.Row{}, keyring.Slot{}, Wrap(ErrFileName, "raster", "check name", "", err)
	}
	upload, err := r.p.deps.Preprocessor.Prepare(ctx, entry.Path)
	if err != nil {
		return metadata.Row{}, keyring.Slot{}, Wrap(ErrPreprocess, "raster", "prepare", entry.Name, err)
	}
	defer func() {
		if err := fileutil.RemoveQuiet(upload); err != nil {
			logging.WithContext(ctx, r.p.logger).Warn("temp file cleanup failed", logging.Error(err))
		}
	}()

	slot := r.keys.Acquire()
	start := time.Now()
	text, err := r.gateway.Generate(ctx, slot.Key, r.model, upload)
	r.p.deps.Metrics.ObserveProvider(r.gateway.Name(), time.Since(start), err)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return metadata.Row{}, slot, ctxErr
		}
		return metadata.Row{}, slot, Wrap(ErrProvider, "raster", "generate", entry.Name, err)
	}
	return metadata.Parse(text).Row(entry.Name), slot, nil
}

func (r rasterPass) fatal(ctx context.Context, result FileResult, err error) FileResult {
	result.Outcome = OutcomeFatal
	result.Err = err
	logging.WithContext(ctx, r.p.logger).Error("run aborted", logging.Error(err))
	r.record(ctx, result)
	return result
}

func (r rasterPass) record(ctx context.Context, result FileResult) {
	entry := history.Entry{
		RunID:    r.runID,
		File:     result.Name,
		Outcome:  string(result.Outcome),
		Provider: r.gateway.Name(),
		Model:    r.model,
		KeySlot:  result.KeySlot,
	}
	if result.Err != nil {
		entry.Message = result.Err.Error()
	}
	r.p.recordHistory(ctx, entry)
}
