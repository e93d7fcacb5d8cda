package dictionary

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticSource(t *testing.T) {
	src := StaticSource{"a", "b"}

	words, err := src.ListPatterns(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, words)

	// Callers may not mutate the source through the result.
	words[0] = "z"
	again, err := src.ListPatterns(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "a", again[0])
}

func TestStaticSource_Empty(t *testing.T) {
	words, err := StaticSource(nil).ListPatterns(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, words)
	assert.Empty(t, words)
}

func TestStaticSource_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := StaticSource{"a"}.ListPatterns(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFingerprint(t *testing.T) {
	base := Fingerprint([]string{"alpha", "beta"})

	assert.Equal(t, base, Fingerprint([]string{"beta", "alpha"}), "order must not matter")
	assert.Equal(t, base, Fingerprint([]string{"alpha", "", "beta", "alpha"}), "duplicates and empties must not matter")
	assert.NotEqual(t, base, Fingerprint([]string{"alpha", "betA"}))
	assert.NotEqual(t, Fingerprint([]string{"ab", "c"}), Fingerprint([]string{"a", "bc"}))
	assert.Equal(t, Fingerprint(nil), Fingerprint([]string{}))
}

type failingSource struct{ err error }

func (f failingSource) ListPatterns(context.Context) ([]string, error) { return nil, f.err }

func TestUnion(t *testing.T) {
	ctx := context.Background()

	words, err := Union{StaticSource{"a", "b"}, StaticSource{"b", "c"}}.ListPatterns(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "b", "c"}, words)

	words, err = Union{}.ListPatterns(ctx)
	require.NoError(t, err)
	assert.NotNil(t, words)

	boom := assert.AnError
	_, err = Union{StaticSource{"a"}, failingSource{boom}}.ListPatterns(ctx)
	assert.ErrorIs(t, err, boom)
}
