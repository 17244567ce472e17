// Package vectorlink gives vector files (.svg, .eps) the metadata of the raster
// file that shares their base name.
package vectorlink

import (
	"path/filepath"
	"sort"
	"strings"

	"stockmeta/internal/metadata"
)

var vectorExtensions = map[string]struct{}{
	".svg": {},
	".eps": {},
}

// IsVector reports whether name has a vector extension.
func IsVector(name string) bool {
	_, ok := vectorExtensions[strings.ToLower(filepath.Ext(name))]
	return ok
}

// Ledger is the subset of the processed-files ledger the linker needs.
type Ledger interface {
	Contains(name string) bool
	Recordable(name string) error
	Record(name string) error
}

// Appender persists a linked row.
type Appender interface {
	Append(row metadata.Row) error
}

// Result summarizes a linking pass.
type Result struct {
	Linked    []metadata.Row
	Skipped   []string
	Unmatched []string
	// Rejected names match a raster row but cannot be recorded.
	Rejected []string
}

// index maps raster base names to their first row.
func index(rows []metadata.Row) map[string]metadata.Row {
	out := make(map[string]metadata.Row, len(rows))
	for _, row := range rows {
		if IsVector(row.Filename) {
			continue
		}
		base := metadata.BaseName(row.Filename)
		if _, exists := out[base]; !exists {
			out[base] = row
		}
	}
	return out
}

func vectorNames(names []string) []string {
	out := make([]string, 0, len(names))
	for _, name := range names {
		if IsVector(name) {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

// Link clones raster metadata onto matching vector files from names. Each
// link is appended to store and then recorded in ledger; vectors already in
// the ledger are skipped and names the ledger cannot hold are rejected before
// anything is written. An append or record failure stops the pass.
func Link(rows []metadata.Row, names []string, ledger Ledger, store Appender) (Result, error) {
	var result Result
	byBase := index(rows)
	for _, name := range vectorNames(names) {
		if ledger.Contains(name) {
			result.Skipped = append(result.Skipped, name)
			continue
		}
		source, ok := byBase[metadata.BaseName(name)]
		if !ok {
			result.Unmatched = append(result.Unmatched, name)
			continue
		}
		if err := ledger.Recordable(name); err != nil {
			result.Rejected = append(result.Rejected, name)
			continue
		}
		clone := source.WithFilename(name)
		if err := store.Append(clone); err != nil {
			return result, err
		}
		if err := ledger.Record(name); err != nil {
			return result, err
		}
		result.Linked = append(result.Linked, clone)
	}
	return result, nil
}

// Companions returns rows extended with clones for matching vector files that
// are not already present. Nothing is persisted.
func Companions(rows []metadata.Row, names []string) []metadata.Row {
	present := make(map[string]struct{}, len(rows))
	for _, row := range rows {
		present[row.Filename] = struct{}{}
	}
	out := append([]metadata.Row(nil), rows...)
	byBase := index(rows)
	for _, name := range vectorNames(names) {
		if _, ok := present[name]; ok {
			continue
		}
		if source, ok := byBase[metadata.BaseName(name)]; ok {
			out = append(out, source.WithFilename(name))
			present[name] = struct{}{}
		}
	}
	return out
}
