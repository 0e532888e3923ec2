package mdfancy

import "log/slog"

// Option configures a Converter.
type Option func(*config)

type config struct {
	theme            Theme
	rules            []Rule
	logger           *slog.Logger
	stripFrontMatter bool
}

// WithTheme selects the glyphs used for headings, bullets, quotes and rules.
func WithTheme(t Theme) Option {
	return func(cfg *config) {
		cfg.theme = t
	}
}

// WithRules replaces the conversion pipeline. Start from DefaultRules to
// extend it.
func WithRules(rules ...Rule) Option {
	return func(cfg *config) {
		cfg.rules = append([]Rule{}, rules...)
	}
}

// WithLogger sets the logger used to report skipped stages.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *config) {
		cfg.logger = logger
	}
}

// WithFrontMatter enables removal of a leading front matter block.
func WithFrontMatter(strip bool) Option {
	return func(cfg *config) {
		cfg.stripFrontMatter = strip
	}
}
