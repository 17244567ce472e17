package export

import (
	"strings"

	"stockmeta/internal/metadata"
	"stockmeta/internal/textutil"
)

// AIKeyword marks content as AI generated on Freepik.
const AIKeyword = "_ai_generated"

func adobeStock() Spec {
	return Spec{
		Name:    "adobestock",
		Headers: []string{"Filename", "Title", "Keywords", "Category ID", "Releases"},
		Row: func(row metadata.Row, _ Options) []string {
			return []string{row.Filename, row.Title, row.Keywords, row.CategoryID, row.Releases}
		},
	}
}

func freepik() Spec {
	return Spec{
		Name:    "freepik",
		Headers: []string{"filename", "title", "keywords"},
		Row: func(row metadata.Row, opts Options) []string {
			keywords := row.Keywords
			if opts.MarkAIKeyword {
				keywords = EnsureAIKeyword(keywords)
			}
			return []string{row.Filename, row.Title, keywords}
		},
	}
}

func dreamstime() Spec {
	headers := []string{
		"Filename", "Image Name", "Description",
		"Category 1", "Category 2", "Category 3",
		"keywords",
	}
	headers = append(headers, DreamstimeDefaultColumns...)
	headers = append(headers, "MR doc Ids", "Pr Docs")
	return Spec{
		Name:    "dreamstime",
		Headers: headers,
		Row: func(row metadata.Row, opts Options) []string {
			c2, c3 := dreamstimeCategories(row, opts)
			category1 := opts.Category1
			if category1 == "" {
				category1 = "212"
			}
			out := []string{
				row.Filename, row.Title, row.Description,
				category1, c2, c3,
				row.Keywords,
			}
			for _, column := range DreamstimeDefaultColumns {
				value, ok := opts.Defaults[column]
				if !ok {
					value = "0"
				}
				out = append(out, value)
			}
			return append(out, "", "")
		},
	}
}

func dreamstimeCategories(row metadata.Row, opts Options) (string, string) {
	if row.DTCategory2 != "" || row.DTCategory3 != "" {
		return row.DTCategory2, row.DTCategory3
	}
	id := strings.TrimSpace(row.CategoryID)
	if id == "" {
		return "", ""
	}
	if pair, ok := opts.CategoryMap[id]; ok {
		return pair.C2, pair.C3
	}
	return "", ""
}

// EnsureAIKeyword puts AIKeyword first unless the list already carries it
// (compared case-insensitively). Empty tokens are dropped.
func EnsureAIKeyword(keywords string) string {
	tokens := textutil.SplitKeywords(keywords)
	if !textutil.ContainsFold(tokens, AIKeyword) {
		tokens = append([]string{AIKeyword}, tokens...)
	}
	return textutil.JoinKeywords(tokens)
}
