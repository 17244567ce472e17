package rowstore_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"stockmeta/internal/metadata"
	"stockmeta/internal/rowstore"
)

func TestFileName(t *testing.T) {
	day := time.Date(2025, 3, 9, 18, 0, 0, 0, time.UTC)
	if got := rowstore.FileName(day); got != "adobe_metadata_2025-03-09.csv" {
		t.Fatalf("FileName = %q", got)
	}
}

func TestAppendWritesHeaderOnce(t *testing.T) {
	dir := t.TempDir()
	store := rowstore.Open(dir, time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC))

	rows := []metadata.Row{
		{Filename: "a.jpg", Title: "Red, ripe apple", Keywords: "apple, fruit", CategoryID: "7"},
		{Filename: "b.png", Title: "Bay", Keywords: "sea", CategoryID: metadata.NotFound},
	}
	for _, row := range rows {
		if err := store.Append(row); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	data, err := os.ReadFile(filepath.Join(dir, "adobe_metadata_2025-01-02.csv"))
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	text := string(data)
	if strings.Count(text, "Filename,Title,Keywords,Category ID") != 1 {
		t.Fatalf("expected header exactly once:\n%s", text)
	}
	if !strings.Contains(text, `a.jpg,"Red, ripe apple","apple, fruit",7`) {
		t.Fatalf("unexpected row encoding:\n%s", text)
	}

	got, err := store.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(got) != 2 || got[0].Title != "Red, ripe apple" || got[1].CategoryID != metadata.NotFound {
		t.Fatalf("unexpected rows %+v", got)
	}
}

func TestAppendIsNotDeduplicated(t *testing.T) {
	store := rowstore.At(filepath.Join(t.TempDir(), "rows.csv"))
	row := metadata.Row{Filename: "a.jpg", Title: "A"}
	for i := 0; i < 2; i++ {
		if err := store.Append(row); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}
	got, err := store.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected duplicate rows to be kept, got %d", len(got))
	}
}

func TestReadAllMissingOrEmpty(t *testing.T) {
	dir := t.TempDir()
	store := rowstore.At(filepath.Join(dir, "none.csv"))
	rows, err := store.ReadAll()
	if err != nil || rows != nil {
		t.Fatalf("expected no rows, got %v %v", rows, err)
	}

	emptyPath := filepath.Join(dir, "empty.csv")
	if err := os.WriteFile(emptyPath, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	empty := rowstore.At(emptyPath)
	if rows, err := empty.ReadAll(); err != nil || rows != nil {
		t.Fatalf("expected no rows, got %v %v", rows, err)
	}
	if err := empty.Append(metadata.Row{Filename: "x.jpg"}); err != nil {
		t.Fatalf("Append: %v", err)
	}
	data, _ := os.ReadFile(emptyPath)
	if !strings.HasPrefix(string(data), "Filename,Title,Keywords,Category ID\n") {
		t.Fatalf("expected header written into empty file, got %q", data)
	}
}
