package sensitive

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/endorses/wordmask/internal/pkg/ahocorasick"
	"github.com/endorses/wordmask/internal/pkg/dictionary"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mutableSource is a dictionary.Source whose words and error can change
// between calls.
type mutableSource struct {
	mu    sync.Mutex
	words []string
	err   error
}

func (m *mutableSource) set(words []string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.words, m.err = words, err
}

func (m *mutableSource) ListPatterns(ctx context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return append([]string{}, m.words...), nil
}

type reloadEvent struct {
	patterns int
	err      error
}

type fakeObserver struct {
	mu         sync.Mutex
	reloads    []reloadEvent
	redactions map[bool]int
}

func newFakeObserver() *fakeObserver {
	return &fakeObserver{redactions: make(map[bool]int)}
}

func (f *fakeObserver) ObserveReload(_ ahocorasick.Strategy, patterns int, _ time.Duration, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reloads = append(f.reloads, reloadEvent{patterns: patterns, err: err})
}

func (f *fakeObserver) ObserveRedaction(_ ahocorasick.Strategy, changed bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.redactions[changed]++
}

func newTestService(t *testing.T, words []string, opts ...Option) *Service {
	t.Helper()
	s, err := New(dictionary.StaticSource(words), opts...)
	require.NoError(t, err)
	require.NoError(t, s.Init(context.Background()))
	return s
}

func TestNew_Errors(t *testing.T) {
	_, err := New(nil)
	assert.ErrorIs(t, err, ErrNilSource)

	_, err = New(dictionary.StaticSource{}, WithStrategy("regex"))
	assert.ErrorIs(t, err, ahocorasick.ErrUnknownStrategy)

	_, err = New(dictionary.StaticSource{}, WithMaskRune(-1))
	assert.ErrorIs(t, err, ahocorasick.ErrInvalidMask)
}

func TestService_BeforeInit(t *testing.T) {
	s, err := New(dictionary.StaticSource{"bad"})
	require.NoError(t, err)

	assert.False(t, s.Contains("bad"))
	assert.Equal(t, "bad", s.Redact("bad"))

	stats := s.Stats()
	assert.Equal(t, ahocorasick.StrategyGreedyRedact, stats.Strategy)
	assert.NotEmpty(t, stats.Generation)
	assert.Equal(t, 0, stats.PatternCount)
	assert.Equal(t, uint64(0), stats.Reloads)
}

func TestService_Strategies(t *testing.T) {
	tests := []struct {
		strategy ahocorasick.Strategy
		input    string
		want     string
	}{
		{ahocorasick.StrategySpans, "xabcdx", "x****x"},
		{ahocorasick.StrategyGreedyRedact, "xabcdx", "x****x"},
		{ahocorasick.StrategySkipAwareLinear, "x-A-b-C-d", "x-*******"},
	}

	for _, tt := range tests {
		t.Run(string(tt.strategy), func(t *testing.T) {
			s := newTestService(t, []string{"abc", "abcd"}, WithStrategy(tt.strategy))

			assert.Equal(t, tt.strategy, s.Strategy())
			assert.Equal(t, tt.want, s.Redact(tt.input))
			assert.True(t, s.Contains(tt.input))
			assert.False(t, s.Contains("nothing here"))
			assert.False(t, s.Contains(""))
			assert.Equal(t, "", s.Redact(""))
		})
	}
}

func TestService_MaskAndNoiseOptions(t *testing.T) {
	s := newTestService(t, []string{"bad"},
		WithStrategy(ahocorasick.StrategySkipAwareLinear),
		WithMaskRune('#'),
		WithNoiseRunes([]rune{'-'}))

	assert.Equal(t, "##### end", s.Redact("b-a-d end"))
	assert.Equal(t, "b a d", s.Redact("b a d"))
}

func TestService_Matches(t *testing.T) {
	s := newTestService(t, []string{"ab", "b"}, WithStrategy(ahocorasick.StrategySpans))
	spans, ok := s.Matches("xab")
	require.True(t, ok)
	assert.Equal(t, []ahocorasick.MatchSpan{{Start: 1, End: 3}, {Start: 2, End: 3}}, spans)

	s = newTestService(t, []string{"ab"})
	_, ok = s.Matches("xab")
	assert.False(t, ok)
}

func TestService_Reload(t *testing.T) {
	src := &mutableSource{words: []string{"bad"}}
	s, err := New(src)
	require.NoError(t, err)
	require.NoError(t, s.Init(context.Background()))

	first := s.Current()
	assert.Equal(t, "*** worse", s.Redact("bad worse"))

	src.set([]string{"bad", "worse"}, nil)
	require.NoError(t, s.Reload(context.Background()))

	assert.Equal(t, "*** *****", s.Redact("bad worse"))
	assert.NotEqual(t, first.ID, s.Current().ID)
	assert.NotEqual(t, first.Fingerprint, s.Current().Fingerprint)
	assert.Equal(t, uint64(2), s.Stats().Reloads)
	assert.Equal(t, 2, s.Stats().PatternCount)
}

func TestService_FailedReloadKeepsGeneration(t *testing.T) {
	src := &mutableSource{words: []string{"bad"}}
	obs := newFakeObserver()
	s, err := New(src, WithObserver(obs))
	require.NoError(t, err)
	require.NoError(t, s.Init(context.Background()))
	before := s.Current()

	boom := errors.New("store offline")
	src.set(nil, boom)
	err = s.Reload(context.Background())
	assert.ErrorIs(t, err, boom)

	err = s.ReloadPatterns(nil)
	assert.ErrorIs(t, err, ahocorasick.ErrNilPatterns)

	assert.Same(t, before, s.Current())
	assert.Equal(t, "***", s.Redact("bad"))

	stats := s.Stats()
	assert.Equal(t, uint64(1), stats.Reloads)
	assert.Equal(t, uint64(2), stats.FailedReloads)
	assert.False(t, stats.IsBuilding)

	obs.mu.Lock()
	defer obs.mu.Unlock()
	require.Len(t, obs.reloads, 3)
	assert.NoError(t, obs.reloads[0].err)
	assert.Equal(t, 1, obs.reloads[0].patterns)
	assert.ErrorIs(t, obs.reloads[1].err, boom)
	assert.ErrorIs(t, obs.reloads[2].err, ahocorasick.ErrNilPatterns)
}

func TestService_ReloadToEmpty(t *testing.T) {
	s := newTestService(t, []string{"bad"})
	require.NoError(t, s.ReloadPatterns([]string{}))
	assert.False(t, s.Contains("bad"))
	assert.Equal(t, 0, s.Stats().PatternCount)
}

func TestService_ObserverRedactions(t *testing.T) {
	obs := newFakeObserver()
	s := newTestService(t, []string{"bad"}, WithObserver(obs))

	s.Redact("bad")
	s.Redact("good")
	s.Redact("so bad")

	obs.mu.Lock()
	defer obs.mu.Unlock()
	assert.Equal(t, 2, obs.redactions[true])
	assert.Equal(t, 1, obs.redactions[false])
}

func TestService_ConcurrentReadsDuringReload(t *testing.T) {
	for _, strategy := range ahocorasick.Strategies {
		t.Run(string(strategy), func(t *testing.T) {
			s := newTestService(t, []string{"bad"}, WithStrategy(strategy))

			const input = "bad worse"
			valid := map[string]bool{
				"*** worse": true,
				"*** *****": true,
			}

			ctx, cancel := context.WithCancel(context.Background())
			var wg sync.WaitGroup
			errs := make(chan string, 8)

			for i := 0; i < 4; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					for ctx.Err() == nil {
						if out := s.Redact(input); !valid[out] {
							select {
							case errs <- out:
							default:
							}
							return
						}
						if !s.Contains(input) {
							select {
							case errs <- "contains false":
							default:
							}
							return
						}
					}
				}()
			}

			for i := 0; i < 50; i++ {
				words := []string{"bad"}
				if i%2 == 0 {
					words = append(words, "worse")
				}
				require.NoError(t, s.ReloadPatterns(words))
			}
			cancel()
			wg.Wait()
			close(errs)

			for out := range errs {
				t.Errorf("reader observed an invalid result: %q", out)
			}
			assert.Equal(t, uint64(51), s.Stats().Reloads)
		})
	}
}

func TestService_ConcurrentReloadsSerialized(t *testing.T) {
	s := newTestService(t, []string{})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, s.ReloadPatterns([]string{"bad", string(rune('a' + i))}))
		}(i)
	}
	wg.Wait()

	assert.Equal(t, uint64(9), s.Stats().Reloads)
	assert.Equal(t, 2, s.Stats().PatternCount)
	assert.False(t, s.Stats().IsBuilding)
}
