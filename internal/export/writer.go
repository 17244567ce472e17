package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/text/encoding/unicode"

	"stockmeta/internal/metadata"
)

// FileName returns the output name for an exporter and stem.
func FileName(name, stem string) string {
	return name + "_metadata_" + stem + ".csv"
}

// Export writes one CSV per target under outDir and returns the written paths
// in target order. Empty targets select every registered exporter. Unknown
// targets fail before any file is written.
func (r *Registry) Export(rows []metadata.Row, outDir string, targets []string, opts Options, stem string) ([]string, error) {
	if len(targets) == 0 {
		targets = r.Names()
	}
	specs := make([]Spec, 0, len(targets))
	for _, target := range targets {
		spec, err := r.Lookup(target)
		if err != nil {
			return nil, err
		}
		specs = append(specs, spec)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("create export directory: %w", err)
	}

	paths := make([]string, 0, len(specs))
	for _, spec := range specs {
		path := filepath.Join(outDir, FileName(spec.Name, stem))
		if err := writeCSV(path, spec, rows, opts); err != nil {
			return paths, fmt.Errorf("export %s: %w", spec.Name, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func writeCSV(path string, spec Spec, rows []metadata.Row, opts Options) error {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	if err := writer.Write(spec.Headers); err != nil {
		return err
	}
	for _, row := range rows {
		if err := writer.Write(spec.Row(row, opts)); err != nil {
			return err
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return err
	}
	encoded, err := unicode.UTF8BOM.NewEncoder().Bytes(buf.Bytes())
	if err != nil {
		return fmt.Errorf("encode utf-8: %w", err)
	}
	return os.WriteFile(path, encoded, 0o644)
}
