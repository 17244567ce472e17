// Package rowstore appends processed metadata rows to the per-day CSV kept in
// the target folder. The file is the canonical record of processed media and
// seeds later export runs.
package rowstore

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"stockmeta/internal/metadata"
)

// Header is written once, when the file is created.
var Header = []string{"Filename", "Title", "Keywords", "Category ID"}

const dateLayout = "2006-01-02"

// FileName returns the row store name for the given day.
func FileName(day time.Time) string {
	return "adobe_metadata_" + day.Format(dateLayout) + ".csv"
}

// Store appends rows to a single CSV file.
type Store struct {
	path string
}

// Open returns the store for day inside folder. The file is created lazily.
func Open(folder string, day time.Time) *Store {
	return &Store{path: filepath.Join(folder, FileName(day))}
}

// At returns a store backed by an explicit path.
func At(path string) *Store {
	return &Store{path: path}
}

// Path returns the CSV location.
func (s *Store) Path() string {
	return s.path
}

// Append writes row, emitting the header first if the file is new or empty.
// The file is synced before returning.
func (s *Store) Append(row metadata.Row) error {
	writeHeader := false
	info, err := os.Stat(s.path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		writeHeader = true
	case err != nil:
		return fmt.Errorf("stat row store: %w", err)
	case info.Size() == 0:
		writeHeader = true
	}

	file, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open row store: %w", err)
	}
	writer := csv.NewWriter(file)
	if writeHeader {
		if err := writer.Write(Header); err != nil {
			_ = file.Close()
			return fmt.Errorf("write row store header: %w", err)
		}
	}
	if err := writer.Write([]string{row.Filename, row.Title, row.Keywords, row.CategoryID}); err != nil {
		_ = file.Close()
		return fmt.Errorf("write row: %w", err)
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		_ = file.Close()
		return fmt.Errorf("flush row store: %w", err)
	}
	if err := file.Sync(); err != nil {
		_ = file.Close()
		return fmt.Errorf("sync row store: %w", err)
	}
	return file.Close()
}

// ReadAll returns every row in the file. A missing file yields no rows.
func (s *Store) ReadAll() ([]metadata.Row, error) {
	file, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open row store: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("read row store header: %w", err)
	}

	var rows []metadata.Row
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row store: %w", err)
		}
		row := metadata.FromRecord(header, record)
		if row.Filename == "" {
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}
