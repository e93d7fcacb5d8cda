// Package sensitive hosts the content-filtering service: one active matcher
// generation, replaced wholesale when the dictionary is reloaded.
package sensitive

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/endorses/wordmask/internal/pkg/ahocorasick"
	"github.com/endorses/wordmask/internal/pkg/dictionary"
	"github.com/endorses/wordmask/internal/pkg/logger"
	"github.com/google/uuid"
)

// ErrNilSource is returned by New when no dictionary source is given.
var ErrNilSource = errors.New("nil dictionary source")

// Generation is one fully built matcher together with where it came from.
// A Generation is immutable once published.
type Generation struct {
	ID            string
	Matcher       ahocorasick.Matcher
	Fingerprint   uint64
	BuiltAt       time.Time
	BuildDuration time.Duration
}

// Service answers Contains and Redact against the active generation.
//
// Reads are lock-free: they load the active generation atomically and never
// observe a partially built one. Reloads are serialized among themselves and
// publish only after the new matcher is complete; a failed reload leaves the
// previous generation in place.
type Service struct {
	source   dictionary.Source
	strategy ahocorasick.Strategy
	opts     ahocorasick.Options
	observer Observer

	// active is the generation readers use.
	active atomic.Pointer[Generation]

	// buildMu ensures only one rebuild runs at a time.
	buildMu sync.Mutex

	// building indicates a rebuild is in progress.
	building atomic.Bool

	reloads  atomic.Uint64
	failures atomic.Uint64
}

// New creates a service over src. The strategy and matcher options are
// validated here; the service starts with an empty dictionary until Init or
// a reload succeeds.
func New(src dictionary.Source, opts ...Option) (*Service, error) {
	if src == nil {
		return nil, ErrNilSource
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if !cfg.strategy.Valid() {
		return nil, fmt.Errorf("%w: %q", ahocorasick.ErrUnknownStrategy, cfg.strategy)
	}

	s := &Service{
		source:   src,
		strategy: cfg.strategy,
		opts:     cfg.matcher,
		observer: cfg.observer,
	}

	empty, err := s.build([]string{})
	if err != nil {
		return nil, err
	}
	s.active.Store(empty)
	return s, nil
}

// Init loads the dictionary for the first time.
func (s *Service) Init(ctx context.Context) error {
	return s.Reload(ctx)
}

// Reload re-reads the source and publishes a new generation.
func (s *Service) Reload(ctx context.Context) error {
	words, err := s.source.ListPatterns(ctx)
	if err != nil {
		err = fmt.Errorf("failed to list patterns: %w", err)
		s.reloadFailed(err, 0)
		return err
	}
	return s.ReloadPatterns(words)
}

// ReloadPatterns builds a generation from words and publishes it.
func (s *Service) ReloadPatterns(words []string) error {
	s.buildMu.Lock()
	defer s.buildMu.Unlock()

	s.building.Store(true)
	defer s.building.Store(false)

	gen, err := s.build(words)
	if err != nil {
		s.reloadFailed(err, len(words))
		return err
	}

	// Atomic swap - readers will see the new generation immediately
	s.active.Store(gen)
	s.reloads.Add(1)

	logger.Info("dictionary reloaded",
		"generation", gen.ID,
		"strategy", s.strategy,
		"pattern_count", gen.Matcher.PatternCount(),
		"node_count", gen.Matcher.NodeCount(),
		"build_duration", gen.BuildDuration)

	if s.observer != nil {
		s.observer.ObserveReload(s.strategy, gen.Matcher.PatternCount(), gen.BuildDuration, nil)
	}
	return nil
}

func (s *Service) build(words []string) (*Generation, error) {
	start := time.Now()
	m, err := ahocorasick.New(s.strategy, words, s.opts)
	if err != nil {
		return nil, fmt.Errorf("failed to build %s matcher: %w", s.strategy, err)
	}
	return &Generation{
		ID:            uuid.New().String(),
		Matcher:       m,
		Fingerprint:   dictionary.Fingerprint(words),
		BuiltAt:       time.Now(),
		BuildDuration: time.Since(start),
	}, nil
}

func (s *Service) reloadFailed(err error, wordCount int) {
	s.failures.Add(1)
	logger.Error("dictionary reload failed",
		"strategy", s.strategy,
		"word_count", wordCount,
		"error", err)
	if s.observer != nil {
		s.observer.ObserveReload(s.strategy, 0, 0, err)
	}
}

// Current returns the active generation.
func (s *Service) Current() *Generation {
	return s.active.Load()
}

// Contains reports whether text holds any dictionary word.
func (s *Service) Contains(text string) bool {
	if text == "" {
		return false
	}
	return s.active.Load().Matcher.Contains(text)
}

// Redact returns text with every dictionary word masked. The result has as
// many runes as text.
func (s *Service) Redact(text string) string {
	if text == "" {
		return text
	}
	out := s.active.Load().Matcher.Redact(text)
	if s.observer != nil {
		s.observer.ObserveRedaction(s.strategy, out != text)
	}
	return out
}

// Matches returns the match spans in text. ok is false when the configured
// strategy does not report spans.
func (s *Service) Matches(text string) (spans []ahocorasick.MatchSpan, ok bool) {
	finder, ok := s.active.Load().Matcher.(ahocorasick.SpanFinder)
	if !ok {
		return nil, false
	}
	return finder.Matches(text), true
}

// Strategy returns the configured strategy.
func (s *Service) Strategy() ahocorasick.Strategy {
	return s.strategy
}

// Stats describes the service and its active generation.
type Stats struct {
	Strategy          ahocorasick.Strategy `json:"strategy"`
	Generation        string               `json:"generation"`
	PatternCount      int                  `json:"pattern_count"`
	NodeCount         int                  `json:"node_count"`
	Fingerprint       uint64               `json:"fingerprint"`
	LastBuildTime     time.Time            `json:"last_build_time"`
	LastBuildDuration time.Duration        `json:"last_build_duration"`
	Reloads           uint64               `json:"reloads"`
	FailedReloads     uint64               `json:"failed_reloads"`
	IsBuilding        bool                 `json:"is_building"`
}

// Stats returns current statistics.
func (s *Service) Stats() Stats {
	gen := s.active.Load()
	return Stats{
		Strategy:          s.strategy,
		Generation:        gen.ID,
		PatternCount:      gen.Matcher.PatternCount(),
		NodeCount:         gen.Matcher.NodeCount(),
		Fingerprint:       gen.Fingerprint,
		LastBuildTime:     gen.BuiltAt,
		LastBuildDuration: gen.BuildDuration,
		Reloads:           s.reloads.Load(),
		FailedReloads:     s.failures.Load(),
		IsBuilding:        s.building.Load(),
	}
}
