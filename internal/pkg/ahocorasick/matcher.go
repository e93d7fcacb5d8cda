// Package ahocorasick provides dictionary matching and redaction over an
// Aho-Corasick automaton.
//
// Three strategies share one Matcher interface:
//
//   - StrategySpans reports every occurrence of every pattern, overlaps and
//     nested matches included, and redacts by merging the reported spans.
//   - StrategyGreedyRedact masks in a single forward pass and, when a match is
//     a prefix of a longer pattern also present in the text, masks the longer
//     one.
//   - StrategySkipAwareLinear walks a plain trie from every start offset,
//     ignoring noise runes and ASCII case, so "B-a-D" still matches "bad".
//
// All matchers are immutable once built and safe for concurrent use.
// Indexes are rune offsets into the scanned text.
package ahocorasick

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Strategy names a matching strategy.
type Strategy string

const (
	// StrategySpans reports all overlapping matches.
	StrategySpans Strategy = "aho_corasick_spans"

	// StrategyGreedyRedact masks with containment resolution.
	StrategyGreedyRedact Strategy = "aho_corasick_greedy_redact"

	// StrategySkipAwareLinear performs noise-tolerant case-insensitive masking.
	StrategySkipAwareLinear Strategy = "skip_aware_linear"
)

// Strategies lists every supported strategy in display order.
var Strategies = []Strategy{StrategySpans, StrategyGreedyRedact, StrategySkipAwareLinear}

// Short aliases accepted by ParseStrategy.
var strategyAliases = map[string]Strategy{
	"ac":     StrategySpans,
	"spans":  StrategySpans,
	"acpro":  StrategyGreedyRedact,
	"ac_pro": StrategyGreedyRedact,
	"greedy": StrategyGreedyRedact,
	"dfa":    StrategySkipAwareLinear,
	"linear": StrategySkipAwareLinear,
}

var (
	// ErrUnknownStrategy is returned for a strategy name that is not supported.
	ErrUnknownStrategy = errors.New("unknown matching strategy")

	// ErrInvalidMask is returned when the mask rune is zero or not a valid rune.
	ErrInvalidMask = errors.New("invalid mask rune")
)

// ParseStrategy resolves a strategy name or alias, case-insensitively.
func ParseStrategy(name string) (Strategy, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	for _, s := range Strategies {
		if key == string(s) {
			return s, nil
		}
	}
	if s, ok := strategyAliases[key]; ok {
		return s, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
}

func (s Strategy) String() string { return string(s) }

// Valid reports whether s is a supported strategy.
func (s Strategy) Valid() bool {
	for _, known := range Strategies {
		if s == known {
			return true
		}
	}
	return false
}

// DefaultMaskRune replaces every matched rune.
const DefaultMaskRune = '*'

// DefaultNoiseRunes are ignored inside a candidate window by the skip-aware
// linear matcher.
const DefaultNoiseRunes = " !*-+_=,，.@;:；：。、？?（）()【】[]《》<>“”\"‘’"

// Options configures matcher construction.
type Options struct {
	// MaskRune replaces matched runes. Zero selects DefaultMaskRune.
	MaskRune rune

	// NoiseRunes are skipped by StrategySkipAwareLinear. Nil selects
	// DefaultNoiseRunes; an empty non-nil slice disables noise skipping.
	NoiseRunes []rune
}

// DefaultOptions returns the default matcher options.
func DefaultOptions() Options {
	return Options{
		MaskRune:   DefaultMaskRune,
		NoiseRunes: []rune(DefaultNoiseRunes),
	}
}

func (o Options) withDefaults() (Options, error) {
	if o.MaskRune == 0 {
		o.MaskRune = DefaultMaskRune
	}
	if !utf8.ValidRune(o.MaskRune) {
		return o, fmt.Errorf("%w: %U", ErrInvalidMask, o.MaskRune)
	}
	if o.NoiseRunes == nil {
		o.NoiseRunes = []rune(DefaultNoiseRunes)
	}
	return o, nil
}

// Matcher is the capability shared by all strategies.
type Matcher interface {
	// Contains reports whether text holds any dictionary pattern.
	Contains(text string) bool

	// Redact returns text with matched runes replaced by the mask rune.
	// The result has exactly as many runes as text.
	Redact(text string) string

	// Strategy identifies the implementation.
	Strategy() Strategy

	// PatternCount returns the number of distinct patterns loaded.
	PatternCount() int

	// NodeCount returns the number of trie nodes, root included.
	NodeCount() int
}

// SpanFinder is implemented by matchers that can report match spans.
type SpanFinder interface {
	Matches(text string) []MatchSpan
}

// New builds a matcher for the given strategy. A nil words slice is rejected
// with ErrNilPatterns; an empty one yields a matcher that matches nothing.
func New(strategy Strategy, words []string, opts Options) (Matcher, error) {
	opts, err := opts.withDefaults()
	if err != nil {
		return nil, err
	}

	switch strategy {
	case StrategySpans:
		ac, err := NewBuilder().Build(words)
		if err != nil {
			return nil, err
		}
		return NewSpanMatcher(ac, opts.MaskRune), nil
	case StrategyGreedyRedact:
		ac, err := NewBuilder().Build(words)
		if err != nil {
			return nil, err
		}
		return NewGreedyMatcher(ac, opts.MaskRune), nil
	case StrategySkipAwareLinear:
		return NewLinearMatcher(words, opts)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, strategy)
	}
}
