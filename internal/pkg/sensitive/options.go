package sensitive

import (
	"time"

	"github.com/endorses/wordmask/internal/pkg/ahocorasick"
)

// Observer is notified of reloads and redactions. Implementations must be
// safe for concurrent use.
type Observer interface {
	// ObserveReload is called after every reload attempt. patterns is the
	// pattern count of the published generation and is zero on failure.
	ObserveReload(strategy ahocorasick.Strategy, patterns int, took time.Duration, err error)

	// ObserveRedaction is called once per Redact call.
	ObserveRedaction(strategy ahocorasick.Strategy, changed bool)
}

type config struct {
	strategy ahocorasick.Strategy
	matcher  ahocorasick.Options
	observer Observer
}

func defaultConfig() config {
	return config{
		strategy: ahocorasick.StrategyGreedyRedact,
		matcher:  ahocorasick.DefaultOptions(),
	}
}

// Option configures a Service.
type Option func(*config)

// WithStrategy selects the matching strategy. The default is
// ahocorasick.StrategyGreedyRedact.
func WithStrategy(s ahocorasick.Strategy) Option {
	return func(c *config) { c.strategy = s }
}

// WithMaskRune sets the rune that replaces matched text.
func WithMaskRune(r rune) Option {
	return func(c *config) { c.matcher.MaskRune = r }
}

// WithNoiseRunes sets the runes the skip-aware linear strategy ignores
// inside a match.
func WithNoiseRunes(runes []rune) Option {
	return func(c *config) { c.matcher.NoiseRunes = runes }
}

// WithObserver attaches an observer, typically a metrics recorder.
func WithObserver(o Observer) Option {
	return func(c *config) { c.observer = o }
}
