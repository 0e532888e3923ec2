package mdfancy

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

const (
	// EmptyInputMessage is returned for input that is empty after trimming.
	EmptyInputMessage = "Please enter some markdown text to convert."

	// FallbackMessage is returned by ConvertDocument when conversion faults.
	FallbackMessage = "Error converting markdown. Please check your input and try again.\n\n" +
		"If the problem persists, try:\n" +
		"1. Simplifying your markdown\n" +
		"2. Breaking it into smaller sections\n" +
		"3. Removing any unusual characters"
)

// ConversionError reports a pipeline stage that failed and was skipped.
type ConversionError struct {
	Stage string
	Err   error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("convert: stage %s: %v", e.Stage, e.Err)
}

func (e *ConversionError) Unwrap() error { return e.Err }

// Converter rewrites markdown into Unicode-styled plain text. A Converter is
// immutable after construction and safe for concurrent use.
type Converter struct {
	theme            Theme
	rules            []Rule
	logger           *slog.Logger
	stripFrontMatter bool
}

// NewConverter returns a Converter configured by opts.
func NewConverter(opts ...Option) *Converter {
	cfg := config{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.theme == nil {
		cfg.theme = DefaultTheme()
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}
	rules := cfg.rules
	if rules == nil {
		rules = DefaultRules(cfg.theme)
	}
	return &Converter{
		theme:            cfg.theme,
		rules:            rules,
		logger:           cfg.logger,
		stripFrontMatter: cfg.stripFrontMatter,
	}
}

// Theme returns the theme the converter decorates with.
func (c *Converter) Theme() Theme { return c.theme }

// Convert applies every rule in order. A rule that panics is skipped and
// reported as a *ConversionError; the returned document is still the result
// of all remaining rules.
func (c *Converter) Convert(input string) (string, error) {
	if strings.TrimSpace(input) == "" {
		return EmptyInputMessage, nil
	}
	doc := normalizeNewlines(input)
	if c.stripFrontMatter {
		doc = StripFrontMatter(doc)
		if strings.TrimSpace(doc) == "" {
			return EmptyInputMessage, nil
		}
	}
	var errs []error
	for _, rule := range c.rules {
		out, err := applyRule(rule, doc)
		if err != nil {
			c.logger.Warn("conversion stage failed", "stage", rule.Name, "error", err)
			errs = append(errs, err)
			continue
		}
		doc = out
	}
	return doc, errors.Join(errs...)
}

func applyRule(rule Rule, doc string) (out string, err error) {
	defer func() {
		if r := recover(); r != nil {
			cause, ok := r.(error)
			if !ok {
				cause = fmt.Errorf("panic: %v", r)
			}
			out, err = doc, &ConversionError{Stage: rule.Name, Err: cause}
		}
	}()
	if rule.Apply == nil {
		return doc, nil
	}
	return rule.Apply(doc), nil
}

func normalizeNewlines(s string) string {
	if !strings.Contains(s, "\r") {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

var defaultConverter = NewConverter()

// ConvertDocument converts input with the default theme. It never fails: a
// faulted conversion yields FallbackMessage.
func ConvertDocument(input string) string {
	out, err := defaultConverter.Convert(input)
	if err != nil {
		slog.Error("markdown conversion failed", "error", err)
		return FallbackMessage
	}
	return out
}
