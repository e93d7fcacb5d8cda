package ahocorasick

import "sort"

const (
	// rootNode is the arena index of the root.
	rootNode int32 = 0

	// noNode marks an absent failure or output link. Only the root has no
	// failure link.
	noNode int32 = -1
)

// node is a state in the automaton arena. Children and links are arena
// indexes, so the failure graph never owns the nodes it points at.
type node struct {
	// children maps the next rune to a child index.
	children map[rune]int32

	// failure is the fallback state on a mismatch.
	failure int32

	// output is the nearest terminal on the failure chain, this node excluded.
	output int32

	// depth is the distance from the root.
	depth int

	// terminal is set when a pattern ends here.
	terminal bool
}

func newNode(depth int) node {
	return node{
		children: make(map[rune]int32),
		failure:  noNode,
		output:   noNode,
		depth:    depth,
	}
}

// MatchSpan is a half-open [Start, End) rune range of one match.
type MatchSpan struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Len returns the number of runes covered.
func (s MatchSpan) Len() int { return s.End - s.Start }

// Automaton is an immutable Aho-Corasick automaton. Build one with Builder.
type Automaton struct {
	nodes    []node
	patterns int
}

// PatternCount returns the number of distinct patterns in the automaton.
func (ac *Automaton) PatternCount() int {
	return ac.patterns
}

// NodeCount returns the number of states, root included.
func (ac *Automaton) NodeCount() int {
	return len(ac.nodes)
}

func (ac *Automaton) empty() bool {
	return ac == nil || ac.patterns == 0
}

// step performs one goto/failure transition from current on r. When no state
// on the failure chain has a child for r the scan restarts at the root.
func (ac *Automaton) step(current int32, r rune) int32 {
	for {
		if next, exists := ac.nodes[current].children[r]; exists {
			return next
		}
		if ac.nodes[current].failure == noNode {
			return rootNode
		}
		current = ac.nodes[current].failure
	}
}

// firstTerminal returns current if it is terminal, otherwise the nearest
// terminal on its failure chain, or noNode.
func (ac *Automaton) firstTerminal(current int32) int32 {
	if ac.nodes[current].terminal {
		return current
	}
	return ac.nodes[current].output
}

// Matches returns a span for every occurrence of every pattern in text,
// ordered by Start and then End. Overlapping and nested occurrences are all
// reported: with patterns {"ab", "b"}, "xab" yields [1,3) and [2,3).
func (ac *Automaton) Matches(text string) []MatchSpan {
	if ac.empty() || text == "" {
		return nil
	}

	var spans []MatchSpan
	current := rootNode
	i := 0
	for _, r := range text {
		current = ac.step(current, r)

		// Every terminal on the chain ends at i.
		for t := ac.firstTerminal(current); t != noNode; t = ac.nodes[t].output {
			spans = append(spans, MatchSpan{
				Start: i - ac.nodes[t].depth + 1,
				End:   i + 1,
			})
		}
		i++
	}

	sort.SliceStable(spans, func(a, b int) bool {
		if spans[a].Start != spans[b].Start {
			return spans[a].Start < spans[b].Start
		}
		return spans[a].End < spans[b].End
	})
	return spans
}

// SpanMatcher reports all matches and redacts by masking their union.
type SpanMatcher struct {
	ac   *Automaton
	mask rune
}

// NewSpanMatcher wraps an automaton with the span strategy.
func NewSpanMatcher(ac *Automaton, mask rune) *SpanMatcher {
	return &SpanMatcher{ac: ac, mask: mask}
}

// Matches returns every match span in text.
func (m *SpanMatcher) Matches(text string) []MatchSpan {
	return m.ac.Matches(text)
}

// Redact masks every rune covered by at least one match.
func (m *SpanMatcher) Redact(text string) string {
	return Mask(text, m.ac.Matches(text), m.mask)
}

// Contains reports whether redaction would change text.
func (m *SpanMatcher) Contains(text string) bool {
	return m.Redact(text) != text
}

// Strategy returns StrategySpans.
func (m *SpanMatcher) Strategy() Strategy { return StrategySpans }

// PatternCount returns the number of distinct patterns.
func (m *SpanMatcher) PatternCount() int { return m.ac.PatternCount() }

// NodeCount returns the automaton size.
func (m *SpanMatcher) NodeCount() int { return m.ac.NodeCount() }
