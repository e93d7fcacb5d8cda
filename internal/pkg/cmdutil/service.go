package cmdutil

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/endorses/wordmask/internal/pkg/ahocorasick"
	"github.com/endorses/wordmask/internal/pkg/dictionary"
	"github.com/endorses/wordmask/internal/pkg/sensitive"
	"github.com/spf13/viper"
)

// ErrNoDictionary is returned when neither a word file nor a database is
// configured.
var ErrNoDictionary = errors.New("no dictionary configured (use --words or --db, or set dictionary.file / dictionary.db in config)")

// ServiceConfig is the matcher and dictionary configuration shared by the
// scanning commands.
type ServiceConfig struct {
	Strategy  ahocorasick.Strategy
	Mask      rune
	Noise     []rune // nil selects the default noise runes
	WordsFile string
	DBPath    string
}

// LoadServiceConfig reads the service configuration from viper.
func LoadServiceConfig() (ServiceConfig, error) {
	cfg := ServiceConfig{
		Strategy:  ahocorasick.StrategyGreedyRedact,
		Mask:      ahocorasick.DefaultMaskRune,
		WordsFile: viper.GetString("dictionary.file"),
		DBPath:    viper.GetString("dictionary.db"),
	}

	if name := viper.GetString("strategy"); name != "" {
		s, err := ahocorasick.ParseStrategy(name)
		if err != nil {
			return cfg, err
		}
		cfg.Strategy = s
	}

	if m := viper.GetString("mask"); m != "" {
		mask, err := ParseMask(m)
		if err != nil {
			return cfg, err
		}
		cfg.Mask = mask
	}

	if viper.IsSet("noise") {
		cfg.Noise = append([]rune{}, []rune(viper.GetString("noise"))...)
	}
	return cfg, nil
}

// ParseMask accepts exactly one rune. U+FFFD itself is a valid mask; a
// single byte that is not UTF-8 is not.
func ParseMask(s string) (rune, error) {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 || size != len(s) || (r == utf8.RuneError && size == 1) {
		return 0, fmt.Errorf("%w: mask must be a single character, got %q", ahocorasick.ErrInvalidMask, s)
	}
	return r, nil
}

// OpenSource opens the configured dictionary. When both a word file and a
// database are configured their words are combined. The returned close
// function releases the database, if any.
func OpenSource(cfg ServiceConfig) (dictionary.Source, func() error, error) {
	var sources dictionary.Union
	closeFn := func() error { return nil }

	if cfg.WordsFile != "" {
		sources = append(sources, dictionary.NewFileSource(cfg.WordsFile))
	}
	if cfg.DBPath != "" {
		store, err := dictionary.OpenBoltStore(cfg.DBPath)
		if err != nil {
			return nil, nil, err
		}
		sources = append(sources, store)
		closeFn = store.Close
	}

	switch len(sources) {
	case 0:
		return nil, nil, ErrNoDictionary
	case 1:
		return sources[0], closeFn, nil
	default:
		return sources, closeFn, nil
	}
}

// BuildService opens the dictionary, creates the service and loads it once.
// Extra options are applied after the configured ones.
func BuildService(ctx context.Context, cfg ServiceConfig, opts ...sensitive.Option) (*sensitive.Service, func() error, error) {
	src, closeFn, err := OpenSource(cfg)
	if err != nil {
		return nil, nil, err
	}

	all := append([]sensitive.Option{
		sensitive.WithStrategy(cfg.Strategy),
		sensitive.WithMaskRune(cfg.Mask),
		sensitive.WithNoiseRunes(cfg.Noise),
	}, opts...)

	svc, err := sensitive.New(src, all...)
	if err != nil {
		_ = closeFn()
		return nil, nil, err
	}
	if err := svc.Init(ctx); err != nil {
		_ = closeFn()
		return nil, nil, fmt.Errorf("failed to load dictionary: %w", err)
	}
	return svc, closeFn, nil
}
