package ahocorasick

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustBuild(t testing.TB, words ...string) *Automaton {
	t.Helper()
	if words == nil {
		words = []string{}
	}
	ac, err := NewBuilder().Build(words)
	require.NoError(t, err)
	return ac
}

func TestAhoCorasick_SinglePattern(t *testing.T) {
	ac := mustBuild(t, "hello")

	tests := []struct {
		name  string
		input string
		want  []MatchSpan
	}{
		{
			name:  "exact match",
			input: "hello",
			want:  []MatchSpan{{0, 5}},
		},
		{
			name:  "contains match",
			input: "say hello world",
			want:  []MatchSpan{{4, 9}},
		},
		{
			name:  "no match",
			input: "world",
			want:  nil,
		},
		{
			name:  "case sensitive",
			input: "HELLO",
			want:  nil,
		},
		{
			name:  "repeated",
			input: "hellohello",
			want:  []MatchSpan{{0, 5}, {5, 10}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ac.Matches(tt.input))
		})
	}
}

func TestAhoCorasick_MultiplePatterns(t *testing.T) {
	ac := mustBuild(t, "he", "she", "his", "hers")

	tests := []struct {
		name  string
		input string
		want  []MatchSpan
	}{
		{
			name:  "suffix overlap",
			input: "she",
			want:  []MatchSpan{{0, 3}, {1, 3}},
		},
		{
			name:  "three overlapping",
			input: "ushers",
			want:  []MatchSpan{{1, 4}, {2, 4}, {2, 6}},
		},
		{
			name:  "single match",
			input: "his",
			want:  []MatchSpan{{0, 3}},
		},
		{
			name:  "no matches",
			input: "abc",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ac.Matches(tt.input))
		})
	}
}

func TestAhoCorasick_SharedSuffixSameEnd(t *testing.T) {
	ac := mustBuild(t, "ab", "b")
	assert.Equal(t, []MatchSpan{{1, 3}, {2, 3}}, ac.Matches("xab"))
}

func TestAhoCorasick_PrefixOfLongerPattern(t *testing.T) {
	ac := mustBuild(t, "ab", "abc")
	assert.Equal(t, []MatchSpan{{0, 2}, {0, 3}}, ac.Matches("abc"))
}

func TestAhoCorasick_SuffixChain(t *testing.T) {
	ac := mustBuild(t, "a", "aa", "aaa")
	want := []MatchSpan{{0, 1}, {0, 2}, {0, 3}, {1, 2}, {1, 3}, {2, 3}}
	assert.Equal(t, want, ac.Matches("aaa"))
}

func TestAhoCorasick_PartialMatchHidesSuffix(t *testing.T) {
	// "b" ends inside the partial match "ab" of "abx".
	ac := mustBuild(t, "abx", "b")
	assert.Equal(t, []MatchSpan{{1, 2}}, ac.Matches("abc"))
	assert.Equal(t, []MatchSpan{{0, 3}, {1, 2}}, ac.Matches("abx"))
}

func TestAhoCorasick_RuneIndexes(t *testing.T) {
	ac := mustBuild(t, "敏感", "感词")
	assert.Equal(t, []MatchSpan{{2, 4}, {3, 5}}, ac.Matches("这是敏感词"))
}

func TestAhoCorasick_EmptyAndDuplicatePatterns(t *testing.T) {
	ac := mustBuild(t, "", "a", "a", "")
	assert.Equal(t, 1, ac.PatternCount())
	assert.Equal(t, 2, ac.NodeCount())
	assert.Equal(t, []MatchSpan{{1, 2}}, ac.Matches("ba"))
}

func TestAhoCorasick_NoPatterns(t *testing.T) {
	ac := mustBuild(t)
	assert.Equal(t, 0, ac.PatternCount())
	assert.Equal(t, 1, ac.NodeCount())
	assert.Nil(t, ac.Matches("anything"))
	assert.Nil(t, ac.Matches(""))
}

func TestAhoCorasick_EmptyInput(t *testing.T) {
	ac := mustBuild(t, "a")
	assert.Nil(t, ac.Matches(""))
}

func TestBuilder_NilPatterns(t *testing.T) {
	ac, err := NewBuilder().Build(nil)
	assert.ErrorIs(t, err, ErrNilPatterns)
	assert.Nil(t, ac)
}

// nodePaths reconstructs the path string of every node.
func nodePaths(ac *Automaton) map[int32]string {
	paths := map[int32]string{rootNode: ""}
	stack := []int32{rootNode}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for r, child := range ac.nodes[n].children {
			paths[child] = paths[n] + string(r)
			stack = append(stack, child)
		}
	}
	return paths
}

func TestBuilder_FailureLinks(t *testing.T) {
	ac := mustBuild(t, "he", "she", "his", "hers", "ushe", "sh", "e")
	paths := nodePaths(ac)

	byPath := make(map[string]int32, len(paths))
	for idx, p := range paths {
		byPath[p] = idx
	}

	assert.Equal(t, noNode, ac.nodes[rootNode].failure)

	for idx, p := range paths {
		if idx == rootNode {
			continue
		}
		runes := []rune(p)
		n := ac.nodes[idx]
		assert.Equal(t, len(runes), n.depth, "depth of %q", p)

		// Longest proper suffix that is also a trie path.
		want := rootNode
		for k := 1; k < len(runes); k++ {
			if target, ok := byPath[string(runes[k:])]; ok {
				want = target
				break
			}
		}
		assert.Equal(t, paths[want], paths[n.failure], "failure of %q", p)
		assert.NotEqual(t, idx, n.failure, "node %q fails to itself", p)
	}
}

func TestBuilder_OrderIndependent(t *testing.T) {
	words := []string{"abc", "bcd", "cde", "ab", "e", "dea"}
	reference := mustBuild(t, words...)
	refPaths := nodePaths(reference)

	shape := func(ac *Automaton, paths map[int32]string) map[string]string {
		out := make(map[string]string, len(paths))
		for idx, p := range paths {
			n := ac.nodes[idx]
			failure := "<none>"
			if n.failure != noNode {
				failure = paths[n.failure]
			}
			mark := ""
			if n.terminal {
				mark = "$"
			}
			out[p+mark] = failure
		}
		return out
	}
	want := shape(reference, refPaths)

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 10; i++ {
		shuffled := append([]string(nil), words...)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		ac := mustBuild(t, shuffled...)
		assert.Equal(t, want, shape(ac, nodePaths(ac)))
		assert.Equal(t, reference.Matches("abcdeabcdea"), ac.Matches("abcdeabcdea"))
	}
}

// naiveMatches enumerates every substring of text that is a pattern.
func naiveMatches(words []string, text string) []MatchSpan {
	set := NewPatternSet(words)
	runes := []rune(text)
	var spans []MatchSpan
	for start := 0; start < len(runes); start++ {
		for end := start + 1; end <= len(runes); end++ {
			if set.Contains(string(runes[start:end])) {
				spans = append(spans, MatchSpan{start, end})
			}
		}
	}
	return spans
}

func randomWord(rng *rand.Rand, alphabet string, maxLen int) string {
	n := 1 + rng.Intn(maxLen)
	var sb strings.Builder
	for i := 0; i < n; i++ {
		sb.WriteByte(alphabet[rng.Intn(len(alphabet))])
	}
	return sb.String()
}

func TestAhoCorasick_NoFalseNegatives(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for round := 0; round < 200; round++ {
		words := make([]string, 1+rng.Intn(6))
		for i := range words {
			words[i] = randomWord(rng, "abc", 4)
		}
		text := randomWord(rng, "abc", 30)

		ac := mustBuild(t, words...)
		require.Equal(t, naiveMatches(words, text), ac.Matches(text), "words=%q text=%q", words, text)
	}
}

func TestSpanMatcher_Redact(t *testing.T) {
	m := NewSpanMatcher(mustBuild(t, "ab", "b", "bcd"), '*')

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "overlapping merged", input: "xabcdx", want: "x****x"},
		{name: "nested", input: "xab", want: "x**"},
		{name: "no match", input: "xyz", want: "xyz"},
		{name: "empty", input: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, m.Redact(tt.input))
			assert.Equal(t, tt.want != tt.input, m.Contains(tt.input))
		})
	}
}
