package metadata

import (
	"regexp"
	"strings"
)

// Parsed holds the four fields extracted from a model response.
type Parsed struct {
	Title       string
	Description string
	Keywords    string
	CategoryID  string
}

var tagPatterns = map[string]*regexp.Regexp{
	"TITLE":       regexp.MustCompile(`(?s)<TITLE>(.*?)</TITLE>`),
	"DESCRIPTION": regexp.MustCompile(`(?s)<DESCRIPTION>(.*?)</DESCRIPTION>`),
	"KEYWORDS":    regexp.MustCompile(`(?s)<KEYWORDS>(.*?)</KEYWORDS>`),
	"CATEGORY_ID": regexp.MustCompile(`(?s)<CATEGORY_ID>(.*?)</CATEGORY_ID>`),
}

// Parse extracts each tagged field independently. Missing tags yield NotFound.
func Parse(text string) Parsed {
	return Parsed{
		Title:       extract(text, "TITLE"),
		Description: extract(text, "DESCRIPTION"),
		Keywords:    extract(text, "KEYWORDS"),
		CategoryID:  extract(text, "CATEGORY_ID"),
	}
}

func extract(text, tag string) string {
	match := tagPatterns[tag].FindStringSubmatch(text)
	if match == nil {
		return NotFound
	}
	return strings.TrimSpace(match[1])
}

// Row builds a metadata row for filename from the parsed fields.
func (p Parsed) Row(filename string) Row {
	return Row{
		Filename:    filename,
		Title:       p.Title,
		Description: p.Description,
		Keywords:    p.Keywords,
		CategoryID:  p.CategoryID,
	}
}
