package ahocorasick

// MergeSpans collapses spans sorted by Start into disjoint, non-adjacent
// covering ranges. Nested and overlapping spans are absorbed by the running
// maximum end.
func MergeSpans(spans []MatchSpan) []MatchSpan {
	if len(spans) == 0 {
		return nil
	}

	merged := make([]MatchSpan, 0, len(spans))
	cur := spans[0]
	for _, s := range spans[1:] {
		if s.Start <= cur.End {
			if s.End > cur.End {
				cur.End = s.End
			}
			continue
		}
		merged = append(merged, cur)
		cur = s
	}
	return append(merged, cur)
}

// Mask replaces every rune of text covered by spans with mask. Rune count is
// preserved. When spans is empty text is returned as is.
func Mask(text string, spans []MatchSpan, mask rune) string {
	if len(spans) == 0 {
		return text
	}

	runes := []rune(text)
	for _, s := range MergeSpans(spans) {
		maskRange(runes, s.Start, s.End, mask)
	}
	return string(runes)
}

// maskRange overwrites runes[start:end], clamped to the slice bounds.
func maskRange(runes []rune, start, end int, mask rune) {
	if start < 0 {
		start = 0
	}
	if end > len(runes) {
		end = len(runes)
	}
	for i := start; i < end; i++ {
		runes[i] = mask
	}
}
