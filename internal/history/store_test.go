package history_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"stockmeta/internal/history"
)

func openStore(t *testing.T) *history.Store {
	t.Helper()
	store, err := history.Open(filepath.Join(t.TempDir(), "state", "history.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestRecordAndRecent(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	entries := []history.Entry{
		{RunID: "run-1", File: "a.jpg", Outcome: "success", Provider: "gemini", Model: "gemini-2.5-flash", KeySlot: 1, CreatedAt: base},
		{RunID: "run-1", File: "b.jpg", Outcome: "skip-error", Provider: "gemini", KeySlot: 2, Message: "quota", CreatedAt: base.Add(time.Second)},
		{RunID: "run-2", File: "a.jpg", Outcome: "skip-processed", CreatedAt: base.Add(time.Minute)},
	}
	for _, e := range entries {
		if err := store.Record(ctx, e); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	recent, err := store.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(recent))
	}
	if recent[0].RunID != "run-2" || recent[0].Outcome != "skip-processed" || recent[0].KeySlot != 0 || recent[0].Provider != "" {
		t.Fatalf("unexpected newest entry %+v", recent[0])
	}
	if recent[1].File != "b.jpg" || recent[1].Message != "quota" || recent[1].KeySlot != 2 {
		t.Fatalf("unexpected second entry %+v", recent[1])
	}
	if !recent[1].CreatedAt.Equal(base.Add(time.Second)) {
		t.Fatalf("unexpected timestamp %v", recent[1].CreatedAt)
	}

	all, err := store.Recent(ctx, 0)
	if err != nil || len(all) != 3 {
		t.Fatalf("expected all entries, got %d %v", len(all), err)
	}

	counts, err := store.CountByOutcome(ctx, "run-1")
	if err != nil {
		t.Fatalf("CountByOutcome: %v", err)
	}
	if counts["success"] != 1 || counts["skip-error"] != 1 || len(counts) != 2 {
		t.Fatalf("unexpected counts %v", counts)
	}
}

func TestRecordRequiresRunAndFile(t *testing.T) {
	store := openStore(t)
	if err := store.Record(context.Background(), history.Entry{File: "a.jpg"}); err == nil {
		t.Fatal("expected error without run id")
	}
}

func TestReopenKeepsEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	store, err := history.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := store.Record(context.Background(), history.Entry{RunID: "r", File: "x.png", Outcome: "success"}); err != nil {
		t.Fatalf("Record: %v", err)
	}
	_ = store.Close()

	reopened, err := history.Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	entries, err := reopened.Recent(context.Background(), 10)
	if err != nil || len(entries) != 1 || entries[0].File != "x.png" {
		t.Fatalf("unexpected entries after reopen %+v %v", entries, err)
	}
}
