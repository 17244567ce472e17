// Package textutil provides keyword list handling shared by the pipeline and
// the exporters.
//
// Keyword lists travel as a single comma-joined string. SplitKeywords and
// JoinKeywords convert between that form and a token slice, preserving
// insertion order. Comparisons use Unicode case folding so "AI" and "ai"
// are treated as the same token.
package textutil
