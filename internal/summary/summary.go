// Package summary produces short model-written summaries of article text.
package summary

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Manoj010104/news-summarizer/internal/cache"
	"github.com/Manoj010104/news-summarizer/internal/logger"
	"github.com/Manoj010104/news-summarizer/internal/metrics"
)

// Unavailable is shown in place of a summary that could not be produced.
const Unavailable = "Summary unavailable"

const promptTemplate = "Generate a concise 3-sentence summary of this news article:\n%s"

var ErrNoAPIKey = errors.New("no model API key configured")

// Generator is a single-turn text completion backend.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func(ctx context.Context, prompt string) (string, error)

func (f GeneratorFunc) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// Disabled is a Generator that always fails with ErrNoAPIKey.
var Disabled Generator = GeneratorFunc(func(context.Context, string) (string, error) {
	return "", ErrNoAPIKey
})

type Reason string

const (
	ReasonOK            Reason = "ok"
	ReasonEmptyInput    Reason = "empty_input"
	ReasonModelError    Reason = "model_error"
	ReasonEmptyResponse Reason = "empty_response"
)

// Result is either a generated summary (Reason == ReasonOK) or a named failure.
type Result struct {
	Text   string
	Reason Reason
	Cached bool
	Err    error
}

func (r Result) OK() bool { return r.Reason == ReasonOK }

// String returns the summary text, or Unavailable.
func (r Result) String() string {
	if r.OK() {
		return r.Text
	}
	return Unavailable
}

type Options struct {
	MaxChars  int
	CacheSize int
	Metrics   *metrics.Metrics
}

type Summarizer struct {
	gen      Generator
	maxChars int
	memo     *cache.LRU[string, string]
	metrics  *metrics.Metrics
}

func New(gen Generator, opts Options) *Summarizer {
	if gen == nil {
		gen = Disabled
	}
	if opts.MaxChars <= 0 {
		opts.MaxChars = 3000
	}
	if opts.CacheSize <= 0 {
		opts.CacheSize = 100
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.Global
	}
	return &Summarizer{
		gen:      gen,
		maxChars: opts.MaxChars,
		memo:     cache.New[string, string](opts.CacheSize),
		metrics:  opts.Metrics,
	}
}

// Summarize returns a summary of text. Blank input never reaches the model.
// Successful summaries are memoized by the exact input; failures are not.
func (s *Summarizer) Summarize(ctx context.Context, text string) Result {
	if strings.TrimSpace(text) == "" {
		return Result{Reason: ReasonEmptyInput}
	}

	key := cache.Key(text)
	if cached, ok := s.memo.Get(key); ok {
		s.metrics.IncrementSummaryCacheHits()
		return Result{Text: cached, Reason: ReasonOK, Cached: true}
	}

	out, err := s.gen.Generate(ctx, BuildPrompt(text, s.maxChars))
	if err != nil {
		s.metrics.IncrementSummaryFailures()
		logger.Warn("summarization failed", "reason", ReasonModelError, "error", err)
		return Result{Reason: ReasonModelError, Err: err}
	}

	out = strings.TrimSpace(out)
	if out == "" {
		s.metrics.IncrementSummaryFailures()
		logger.Warn("summarization failed", "reason", ReasonEmptyResponse)
		return Result{Reason: ReasonEmptyResponse, Err: errors.New("model returned empty text")}
	}

	s.memo.Set(key, out)
	s.metrics.IncrementSummariesGenerated()
	return Result{Text: out, Reason: ReasonOK}
}

// Text is Summarize reduced to display text.
func (s *Summarizer) Text(ctx context.Context, text string) string {
	return s.Summarize(ctx, text).String()
}

// BuildPrompt fills the instruction template with text clipped to maxChars
// characters.
func BuildPrompt(text string, maxChars int) string {
	return fmt.Sprintf(promptTemplate, Clip(text, maxChars))
}

// Clip returns the first n characters (runes) of s.
func Clip(s string, n int) string {
	if n <= 0 {
		return s
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
