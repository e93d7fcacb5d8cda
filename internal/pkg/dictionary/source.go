// Package dictionary supplies forbidden-word lists: fixed slices, word files
// on disk, and a bbolt-backed store, plus a watcher that reports when a word
// file's content changes.
package dictionary

import (
	"context"
	"sort"

	"github.com/cespare/xxhash/v2"
)

// Source yields the current word list. It is consulted when a matcher is
// (re)built, never on the matching path.
type Source interface {
	ListPatterns(ctx context.Context) ([]string, error)
}

// StaticSource is a fixed word list.
type StaticSource []string

// ListPatterns returns a copy of the list. The result is never nil.
func (s StaticSource) ListPatterns(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]string, len(s))
	copy(out, s)
	return out, nil
}

// Union lists the words of every source in turn. Duplicates are left to the
// matcher builder, which deduplicates.
type Union []Source

// ListPatterns concatenates the sources' lists. The first error aborts.
func (u Union) ListPatterns(ctx context.Context) ([]string, error) {
	words := []string{}
	for _, src := range u {
		more, err := src.ListPatterns(ctx)
		if err != nil {
			return nil, err
		}
		words = append(words, more...)
	}
	return words, nil
}

// Fingerprint hashes the deduplicated, sorted, non-empty words. Two lists
// holding the same set of words share a fingerprint regardless of order.
func Fingerprint(words []string) uint64 {
	seen := make(map[string]struct{}, len(words))
	uniq := make([]string, 0, len(words))
	for _, w := range words {
		if w == "" {
			continue
		}
		if _, ok := seen[w]; ok {
			continue
		}
		seen[w] = struct{}{}
		uniq = append(uniq, w)
	}
	sort.Strings(uniq)

	d := xxhash.New()
	for _, w := range uniq {
		_, _ = d.WriteString(w)
		_, _ = d.Write([]byte{0})
	}
	return d.Sum64()
}
