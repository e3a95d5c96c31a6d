package search

import (
	"sort"
	"strings"
	"unicode"
)

// MatchSpan is a half-open rune range [Start, End) of a matched name.
type MatchSpan struct {
	Start int
	End   int
}

// MatchSpans locates the query in text for highlighting. Each whitespace
// separated token is matched case-insensitively as a substring, every
// occurrence counted; a token with no substring hit falls back to an
// in-order subsequence match. The result is sorted and merged.
func MatchSpans(query, text string) []MatchSpan {
	if query == "" || text == "" {
		return nil
	}
	target := foldRunes(text)

	var spans []MatchSpan
	for _, token := range strings.Fields(query) {
		pattern := foldRunes(token)
		found := false
		for from := 0; from <= len(target)-len(pattern); {
			idx := indexRunes(target, pattern, from)
			if idx < 0 {
				break
			}
			spans = append(spans, MatchSpan{Start: idx, End: idx + len(pattern)})
			found = true
			from = idx + len(pattern)
		}
		if !found {
			spans = append(spans, subsequenceSpans(target, pattern)...)
		}
	}
	return MergeMatchSpans(spans)
}

// MergeMatchSpans sorts spans and joins the ones that overlap or touch.
func MergeMatchSpans(spans []MatchSpan) []MatchSpan {
	if len(spans) == 0 {
		return nil
	}
	sorted := append([]MatchSpan(nil), spans...)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Start == sorted[j].Start {
			return sorted[i].End < sorted[j].End
		}
		return sorted[i].Start < sorted[j].Start
	})

	merged := make([]MatchSpan, 0, len(sorted))
	current := sorted[0]
	for _, next := range sorted[1:] {
		if next.Start <= current.End {
			if next.End > current.End {
				current.End = next.End
			}
			continue
		}
		merged = append(merged, current)
		current = next
	}
	return append(merged, current)
}

func foldRunes(s string) []rune {
	runes := []rune(s)
	for i, r := range runes {
		runes[i] = unicode.ToLower(r)
	}
	return runes
}

func indexRunes(haystack, needle []rune, from int) int {
	if len(needle) == 0 {
		return -1
	}
outer:
	for i := from; i+len(needle) <= len(haystack); i++ {
		for j, r := range needle {
			if haystack[i+j] != r {
				continue outer
			}
		}
		return i
	}
	return -1
}

// subsequenceSpans matches pattern in order, allowing gaps, and groups
// adjacent hits into spans. Partial matches produce no spans.
func subsequenceSpans(target, pattern []rune) []MatchSpan {
	if len(pattern) == 0 {
		return nil
	}
	var spans []MatchSpan
	p := 0
	for i := 0; i < len(target) && p < len(pattern); i++ {
		if target[i] != pattern[p] {
			continue
		}
		p++
		if n := len(spans); n > 0 && spans[n-1].End == i {
			spans[n-1].End = i + 1
			continue
		}
		spans = append(spans, MatchSpan{Start: i, End: i + 1})
	}
	if p < len(pattern) {
		return nil
	}
	return spans
}
