package ahocorasick

// GreedyMatcher redacts in a single forward pass without building a span
// list. When a match is also the prefix of a longer pattern present at the
// same position, the longer pattern is masked: with {"abc", "abcd"},
// "xabcdx" becomes "x****x".
type GreedyMatcher struct {
	ac   *Automaton
	mask rune
}

// NewGreedyMatcher wraps an automaton with the greedy redaction strategy.
func NewGreedyMatcher(ac *Automaton, mask rune) *GreedyMatcher {
	return &GreedyMatcher{ac: ac, mask: mask}
}

// Redact masks matches, preferring the longest containing pattern.
func (m *GreedyMatcher) Redact(text string) string {
	if m.ac.empty() || text == "" {
		return text
	}

	nodes := m.ac.nodes
	runes := []rune(text)
	changed := false
	current := rootNode

	for i := 0; i < len(runes); i++ {
		current = m.ac.step(current, runes[i])

		if !nodes[current].terminal {
			// A shorter pattern may end here as a suffix of a partial match.
			// Mask it and keep the deeper state so the partial match can
			// still complete.
			if t := nodes[current].output; t != noNode {
				maskRange(runes, i-nodes[t].depth+1, i+1, m.mask)
				changed = true
			}
			continue
		}

		hit := current
		start := i - nodes[hit].depth + 1
		longer, end := m.ac.extend(hit, runes, i+1)
		if longer != noNode {
			maskRange(runes, start, end, m.mask)
			i = end - 1
			current = nodes[longer].failure
		} else {
			maskRange(runes, start, i+1, m.mask)
			current = nodes[hit].failure
		}
		changed = true
	}

	if !changed {
		return text
	}
	return string(runes)
}

// extend probes forward from a terminal node through runes[pos:] along trie
// edges only. It returns the deepest terminal reached and the index just past
// its last rune, or noNode when the probe finds no longer pattern.
func (ac *Automaton) extend(from int32, runes []rune, pos int) (int32, int) {
	best, end := noNode, pos
	current := from
	for k := pos; k < len(runes); k++ {
		next, exists := ac.nodes[current].children[runes[k]]
		if !exists {
			break
		}
		current = next
		if ac.nodes[current].terminal {
			best, end = current, k+1
		}
	}
	return best, end
}

// Contains reports whether redaction would change text.
func (m *GreedyMatcher) Contains(text string) bool {
	return m.Redact(text) != text
}

// Strategy returns StrategyGreedyRedact.
func (m *GreedyMatcher) Strategy() Strategy { return StrategyGreedyRedact }

// PatternCount returns the number of distinct patterns.
func (m *GreedyMatcher) PatternCount() int { return m.ac.PatternCount() }

// NodeCount returns the automaton size.
func (m *GreedyMatcher) NodeCount() int { return m.ac.NodeCount() }
