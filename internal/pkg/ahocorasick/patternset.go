package ahocorasick

import "sort"

// PatternSet is a deduplicated collection of non-empty patterns.
type PatternSet struct {
	words map[string]struct{}
}

// NewPatternSet admits every non-empty word, dropping duplicates.
func NewPatternSet(words []string) *PatternSet {
	ps := &PatternSet{words: make(map[string]struct{}, len(words))}
	for _, w := range words {
		ps.Add(w)
	}
	return ps
}

// Add admits word and reports whether it was new. Empty words are ignored.
func (ps *PatternSet) Add(word string) bool {
	if word == "" {
		return false
	}
	if _, ok := ps.words[word]; ok {
		return false
	}
	ps.words[word] = struct{}{}
	return true
}

// Contains reports whether word is in the set.
func (ps *PatternSet) Contains(word string) bool {
	_, ok := ps.words[word]
	return ok
}

// Len returns the number of distinct patterns.
func (ps *PatternSet) Len() int {
	return len(ps.words)
}

// Words returns the patterns in sorted order.
func (ps *PatternSet) Words() []string {
	out := make([]string, 0, len(ps.words))
	for w := range ps.words {
		out = append(out, w)
	}
	sort.Strings(out)
	return out
}
