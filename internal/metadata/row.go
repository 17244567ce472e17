package metadata

import "strings"

// NotFound is recorded for any field whose tag is absent from a model response.
const NotFound = "Not found"

// Row is one processed media file. Keywords is a comma-joined list in model order.
type Row struct {
	Filename    string
	Title       string
	Description string
	Keywords    string
	CategoryID  string
	Releases    string
	DTCategory2 string
	DTCategory3 string
}

// WithFilename returns a copy of r carrying a different filename.
func (r Row) WithFilename(name string) Row {
	r.Filename = name
	return r
}

// BaseName returns the filename without its final extension.
func BaseName(filename string) string {
	if idx := strings.LastIndexByte(filename, '.'); idx > 0 {
		return filename[:idx]
	}
	return filename
}

var columnAliases = map[string][]string{
	"filename":    {"Filename", "filename", "File Name"},
	"title":       {"Title", "title", "Image Name"},
	"description": {"Description", "description"},
	"keywords":    {"Keywords", "keywords"},
	"category":    {"Category ID", "Category", "category_id"},
	"releases":    {"Releases", "releases"},
	"dt2":         {"DT_Category2"},
	"dt3":         {"DT_Category3"},
}

// FromRecord builds a Row from a CSV record using its header. Columns are
// matched by any of their known spellings; absent columns stay empty.
func FromRecord(header, record []string) Row {
	index := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		if _, exists := index[name]; !exists {
			index[name] = i
		}
	}
	lookup := func(field string) string {
		for _, alias := range columnAliases[field] {
			if i, ok := index[alias]; ok && i < len(record) {
				return record[i]
			}
		}
		return ""
	}
	return Row{
		Filename:    lookup("filename"),
		Title:       lookup("title"),
		Description: lookup("description"),
		Keywords:    lookup("keywords"),
		CategoryID:  lookup("category"),
		Releases:    lookup("releases"),
		DTCategory2: lookup("dt2"),
		DTCategory3: lookup("dt3"),
	}
}
