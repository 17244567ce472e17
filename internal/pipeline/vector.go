package pipeline

import (
	"context"

	"stockmeta/internal/folder"
	"stockmeta/internal/history"
	"stockmeta/internal/ledger"
	"stockmeta/internal/logging"
	"stockmeta/internal/metadata"
	"stockmeta/internal/rowstore"
	"stockmeta/internal/vectorlink"
)

// VectorSummary reports the vector pass.
type VectorSummary struct {
	Linked    []metadata.Row
	Skipped   []string
	Unmatched []string
	Rejected  []string
}

// linkVectors matches vector files against this run's rows and the day's row
// store, persisting each link to the store and the ledger.
func (p *Pipeline) linkVectors(ctx context.Context, runID string, runRows []metadata.Row, listing folder.Listing, led *ledger.Ledger, store *rowstore.Store) (VectorSummary, error) {
	logger := logging.WithContext(ctx, p.logger)
	stored, err := store.ReadAll()
	if err != nil {
		return VectorSummary{}, Wrap(ErrPersistence, "vector", "read rows", store.Path(), err)
	}
	rows := append(append([]metadata.Row(nil), runRows...), stored...)

	result, err := vectorlink.Link(rows, listing.Names(), led, store)
	summary := VectorSummary{Linked: result.Linked, Skipped: result.Skipped, Unmatched: result.Unmatched, Rejected: result.Rejected}
	for _, row := range result.Linked {
		fileCtx := logging.WithFile(ctx, row.Filename)
		logging.WithContext(fileCtx, p.logger).Info("vector linked",
			logging.String("source", metadata.BaseName(row.Filename)),
			logging.String("title", row.Title),
		)
		p.recordHistory(fileCtx, history.Entry{RunID: runID, File: row.Filename, Outcome: string(OutcomeSuccess), Message: "linked"})
	}
	for _, name := range result.Skipped {
		logging.WithContext(logging.WithFile(ctx, name), p.logger).Debug("vector already processed")
	}
	for _, name := range result.Unmatched {
		logging.WithContext(logging.WithFile(ctx, name), p.logger).Info("no raster match for vector")
	}
	for _, name := range result.Rejected {
		logging.WithContext(logging.WithFile(ctx, name), p.logger).Warn("vector name cannot be recorded, skipping")
		p.deps.Metrics.Skipped("unsupported_name")
	}
	p.deps.Metrics.Linked(len(result.Linked))
	if err != nil {
		return summary, Wrap(ErrPersistence, "vector", "link", "", err)
	}

	logger.Info("vector pass complete",
		logging.Int("linked", len(summary.Linked)),
		logging.Int("skipped", len(summary.Skipped)),
		logging.Int("unmatched", len(summary.Unmatched)),
		logging.Int("rejected", len(summary.Rejected)),
	)
	return summary, nil
}
