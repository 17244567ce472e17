package fileutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestAppendLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.txt")

	if err := AppendLine(path, "a.jpg"); err != nil {
		t.Fatal(err)
	}
	if err := AppendLine(path, "b.png"); err != nil {
		t.Fatal(err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "a.jpg\nb.png\n" {
		t.Fatalf("content mismatch: got %q", got)
	}
}

func TestAppendLineRejectsNewline(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.txt")
	if err := AppendLine(path, "a\nb"); err == nil {
		t.Fatal("expected error for embedded newline")
	}
	if ok, _ := Exists(path); ok {
		t.Fatal("expected no file to be created")
	}
}

func TestExists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "file.txt")

	ok, err := Exists(path)
	if err != nil || ok {
		t.Fatalf("expected missing file, got ok=%v err=%v", ok, err)
	}
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if ok, err := Exists(path); err != nil || !ok {
		t.Fatalf("expected existing file, got ok=%v err=%v", ok, err)
	}
	if ok, err := Exists(dir); err != nil || ok {
		t.Fatalf("expected directory to report false, got ok=%v err=%v", ok, err)
	}
}

func TestRemoveQuiet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tmp.jpg")
	if err := RemoveQuiet(path); err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := RemoveQuiet(path); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("expected file removed, got %v", err)
	}
}
