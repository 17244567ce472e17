package textutil

import (
	"strings"

	"golang.org/x/text/cases"
)

// KeywordSeparator joins keyword tokens in stored and exported rows.
const KeywordSeparator = ", "

// SplitKeywords splits a comma-joined keyword list, trimming tokens and
// dropping empty ones.
func SplitKeywords(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if token := strings.TrimSpace(part); token != "" {
			out = append(out, token)
		}
	}
	return out
}

// JoinKeywords joins tokens with KeywordSeparator.
func JoinKeywords(tokens []string) string {
	return strings.Join(tokens, KeywordSeparator)
}

// Fold returns the case-folded form of value for caseless comparison.
func Fold(value string) string {
	return cases.Fold().String(value)
}

// ContainsFold reports whether tokens contains target under case folding.
func ContainsFold(tokens []string, target string) bool {
	folded := Fold(target)
	for _, token := range tokens {
		if Fold(token) == folded {
			return true
		}
	}
	return false
}
