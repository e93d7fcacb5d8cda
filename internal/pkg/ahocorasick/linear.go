package ahocorasick

// lexNode is a node of the linear matcher's lexicon. Children are owned by
// their parent; there are no failure links.
type lexNode struct {
	children map[rune]*lexNode
	end      bool
}

func newLexNode() *lexNode {
	return &lexNode{children: make(map[rune]*lexNode)}
}

// LinearMatcher restarts a plain trie walk at every offset. It tolerates
// noise runes inside a match ("b-a-d" matches "bad") and ignores ASCII case,
// at the cost of losing the linear time bound of the automaton.
type LinearMatcher struct {
	root     *lexNode
	noise    map[rune]struct{}
	mask     rune
	patterns int
	nodes    int
}

// NewLinearMatcher builds the lexicon. Patterns are ASCII-lowercased and
// stripped of noise runes; patterns left empty are dropped.
func NewLinearMatcher(words []string, opts Options) (*LinearMatcher, error) {
	if words == nil {
		return nil, ErrNilPatterns
	}
	opts, err := opts.withDefaults()
	if err != nil {
		return nil, err
	}

	m := &LinearMatcher{
		root:  newLexNode(),
		noise: make(map[rune]struct{}, len(opts.NoiseRunes)),
		mask:  opts.MaskRune,
		nodes: 1,
	}
	for _, r := range opts.NoiseRunes {
		m.noise[r] = struct{}{}
	}
	for _, w := range NewPatternSet(words).Words() {
		m.add(w)
	}
	return m, nil
}

func (m *LinearMatcher) add(word string) {
	current := m.root
	consumed := 0
	for _, r := range word {
		r = foldASCII(r)
		if m.isNoise(r) {
			continue
		}
		next, ok := current.children[r]
		if !ok {
			next = newLexNode()
			current.children[r] = next
			m.nodes++
		}
		current = next
		consumed++
	}
	if consumed == 0 || current.end {
		return
	}
	current.end = true
	m.patterns++
}

func (m *LinearMatcher) isNoise(r rune) bool {
	_, ok := m.noise[r]
	return ok
}

func foldASCII(r rune) rune {
	if r >= 'A' && r <= 'Z' {
		return r + ('a' - 'A')
	}
	return r
}

// walk follows the lexicon from start, skipping noise runes. It calls onEnd
// with the index of every rune that completes a pattern and stops early when
// onEnd returns false.
func (m *LinearMatcher) walk(runes []rune, start int, onEnd func(i int) bool) {
	current := m.root
	for i := start; i < len(runes); i++ {
		r := runes[i]
		if m.isNoise(r) {
			continue
		}
		next, ok := current.children[foldASCII(r)]
		if !ok {
			return
		}
		current = next
		if current.end && !onEnd(i) {
			return
		}
	}
}

// Redact masks each matched window from its first rune through the rune
// completing the pattern. Noise runes inside the window are masked too;
// noise before the window and after its last matched rune is left alone.
func (m *LinearMatcher) Redact(text string) string {
	if m.patterns == 0 || text == "" {
		return text
	}

	runes := []rune(text)
	out := runes
	changed := false

	for index := 0; index < len(runes); {
		if m.isNoise(runes[index]) {
			index++
			continue
		}

		resume := -1
		m.walk(runes, index, func(i int) bool {
			if !changed {
				out = make([]rune, len(runes))
				copy(out, runes)
				changed = true
			}
			maskRange(out, index, i+1, m.mask)
			resume = i
			return true
		})

		// Resume at the last matched rune so a pattern starting there is
		// still found.
		if resume > index {
			index = resume
		} else {
			index++
		}
	}

	if !changed {
		return text
	}
	return string(out)
}

// Contains reports whether any pattern matches, stopping at the first one.
func (m *LinearMatcher) Contains(text string) bool {
	if m.patterns == 0 || text == "" {
		return false
	}

	runes := []rune(text)
	found := false
	for index := 0; index < len(runes) && !found; index++ {
		if m.isNoise(runes[index]) {
			continue
		}
		m.walk(runes, index, func(int) bool {
			found = true
			return false
		})
	}
	return found
}

// Strategy returns StrategySkipAwareLinear.
func (m *LinearMatcher) Strategy() Strategy { return StrategySkipAwareLinear }

// PatternCount returns the number of distinct normalized patterns.
func (m *LinearMatcher) PatternCount() int { return m.patterns }

// NodeCount returns the lexicon size, root included.
func (m *LinearMatcher) NodeCount() int { return m.nodes }
