package ahocorasick

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLinear(t *testing.T, words []string, opts Options) *LinearMatcher {
	t.Helper()
	m, err := NewLinearMatcher(words, opts)
	require.NoError(t, err)
	return m
}

func TestLinearMatcher_Redact(t *testing.T) {
	dash := Options{NoiseRunes: []rune{'-'}}

	tests := []struct {
		name  string
		words []string
		opts  Options
		input string
		want  string
	}{
		{
			name:  "noise inside window is masked",
			words: []string{"bad"},
			opts:  dash,
			input: "b-a-d end",
			want:  "***** end",
		},
		{
			name:  "noise around window is kept",
			words: []string{"bad"},
			opts:  dash,
			input: "-bad-",
			want:  "-***-",
		},
		{
			name:  "ascii case folded in text",
			words: []string{"bad"},
			input: "BaD word",
			want:  "*** word",
		},
		{
			name:  "ascii case folded in pattern",
			words: []string{"BAD"},
			input: "bad",
			want:  "***",
		},
		{
			name:  "default noise includes space",
			words: []string{"敏感"},
			input: "敏 感",
			want:  "***",
		},
		{
			name:  "trailing noise untouched",
			words: []string{"bad"},
			input: "bad!!",
			want:  "***!!",
		},
		{
			name:  "pattern starting at last matched rune",
			words: []string{"bad", "dog"},
			input: "badog",
			want:  "*****",
		},
		{
			name:  "longest match from one start",
			words: []string{"ab", "abcd"},
			input: "abcdx",
			want:  "****x",
		},
		{
			name:  "single rune pattern",
			words: []string{"a"},
			input: "aaa",
			want:  "***",
		},
		{
			name:  "noise skipping disabled",
			words: []string{"bad"},
			opts:  Options{NoiseRunes: []rune{}},
			input: "b-a-d",
			want:  "b-a-d",
		},
		{
			name:  "custom mask",
			words: []string{"bad"},
			opts:  Options{MaskRune: '#'},
			input: "so bad",
			want:  "so ###",
		},
		{
			name:  "no match",
			words: []string{"bad"},
			input: "good",
			want:  "good",
		},
		{
			name:  "empty text",
			words: []string{"bad"},
			input: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newLinear(t, tt.words, tt.opts)
			assert.Equal(t, tt.want, m.Redact(tt.input))
			assert.Equal(t, tt.want != tt.input, m.Contains(tt.input))
		})
	}
}

func TestLinearMatcher_Contains(t *testing.T) {
	m := newLinear(t, []string{"bad"}, Options{})

	assert.True(t, m.Contains("b.a.d"))
	assert.True(t, m.Contains("so BAD"))
	assert.False(t, m.Contains("good"))
	assert.False(t, m.Contains(""))
}

func TestLinearMatcher_NoisePatterns(t *testing.T) {
	m := newLinear(t, []string{"--", "b-ad", "bad", "BAD"}, Options{})

	// Noise-only patterns are dropped; the rest normalize to one entry.
	assert.Equal(t, 1, m.PatternCount())
	assert.Equal(t, 4, m.NodeCount())
	assert.Equal(t, "--", m.Redact("--"))
}

func TestLinearMatcher_NilPatterns(t *testing.T) {
	m, err := NewLinearMatcher(nil, Options{})
	assert.ErrorIs(t, err, ErrNilPatterns)
	assert.Nil(t, m)
}

func TestLinearMatcher_EmptyDictionary(t *testing.T) {
	m := newLinear(t, []string{}, Options{})
	assert.Equal(t, 0, m.PatternCount())
	assert.Equal(t, 1, m.NodeCount())
	assert.Equal(t, "anything", m.Redact("anything"))
	assert.False(t, m.Contains("anything"))
}
