// Package app is the presentation layer: it validates user input, owns the
// favorites session and renders pipeline output for a terminal or HTTP client.
package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/Manoj010104/news-summarizer/internal/config"
	"github.com/Manoj010104/news-summarizer/internal/gemini"
	"github.com/Manoj010104/news-summarizer/internal/logger"
	"github.com/Manoj010104/news-summarizer/internal/metrics"
	"github.com/Manoj010104/news-summarizer/internal/news"
	"github.com/Manoj010104/news-summarizer/internal/rouge"
	"github.com/Manoj010104/news-summarizer/internal/rss"
	"github.com/Manoj010104/news-summarizer/internal/scraper"
	"github.com/Manoj010104/news-summarizer/internal/summary"
)

const noArticlesMessage = "No articles found. Try another topic."

var (
	ErrKeywordRequired = errors.New("keyword is required")
	ErrKeywordTooLong  = errors.New("keyword is too long")
	ErrCountOutOfRange = errors.New("number of articles out of range")
)

// Session is the state one user interaction works against: the pipeline and
// the favorites collected so far.
type Session struct {
	cfg       *config.Config
	pipeline  *news.Pipeline
	favorites *news.Favorites
	closer    func()
}

// NewSession wires the pipeline from cfg. Without an API key summaries
// degrade to the unavailable marker.
func NewSession(ctx context.Context, cfg *config.Config) (*Session, error) {
	feed := rss.NewFetcher(cfg.FeedBaseURL, rss.Locale{
		Language: cfg.FeedLanguage,
		Country:  cfg.FeedCountry,
		CEID:     cfg.FeedCEID,
	}, cfg.UserAgent, cfg.FeedTimeout)

	images := scraper.NewResolver(cfg.UserAgent, cfg.ImageTimeout, cfg.ImageCacheSize)

	var gen summary.Generator = summary.Disabled
	closer := func() {}
	if cfg.GeminiAPIKey != "" {
		client, err := gemini.NewClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, cfg.SummaryTemperature)
		if err != nil {
			return nil, err
		}
		gen = client
		closer = client.Close
	} else {
		logger.Warn("GEMINI_API_KEY is not set, summaries will be unavailable")
	}

	summarizer := summary.New(gen, summary.Options{
		MaxChars:  cfg.SummaryMaxChars,
		CacheSize: cfg.SummaryCacheSize,
		Metrics:   metrics.Global,
	})

	pipeline := news.NewPipeline(feed, images, summarizer, rouge.Score, metrics.Global)
	return newSession(cfg, pipeline, closer), nil
}

func newSession(cfg *config.Config, pipeline *news.Pipeline, closer func()) *Session {
	if closer == nil {
		closer = func() {}
	}
	return &Session{
		cfg:       cfg,
		pipeline:  pipeline,
		favorites: news.NewFavorites(),
		closer:    closer,
	}
}

func (s *Session) Close() { s.closer() }

// Search validates the form input and runs the pipeline.
func (s *Session) Search(ctx context.Context, keyword string, count int, withImages, withSummary bool) ([]news.Item, error) {
	keyword, count, err := s.validate(keyword, count)
	if err != nil {
		return nil, err
	}
	return s.pipeline.Process(ctx, news.Request{
		Keyword:     keyword,
		Count:       count,
		WithImages:  withImages,
		WithSummary: withSummary,
	})
}

// AddFavorite records a in the session favorites.
func (s *Session) AddFavorite(a news.Article) bool {
	return s.favorites.Add(a)
}

// Favorites returns the favorites enriched for display, never summarized.
func (s *Session) Favorites(ctx context.Context, withImages bool) []news.Item {
	list := s.favorites.List()
	out := make([]news.Item, 0, len(list))
	for i := range list {
		a := &list[i]
		hadImage := a.HasImage()
		item := s.pipeline.Enrich(ctx, a, withImages, false)
		// store the attempt too, so a failed lookup is not repeated
		if withImages && !hadImage {
			s.favorites.Update(*a)
		}
		out = append(out, item)
	}
	return out
}

// SummarizeText is the lazily requested summary and score of one excerpt.
func (s *Session) SummarizeText(ctx context.Context, text string) news.Item {
	a := news.Article{Summary: text}
	return s.pipeline.Enrich(ctx, &a, false, true)
}

func (s *Session) validate(keyword string, count int) (string, int, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return "", 0, ErrKeywordRequired
	}
	if utf8.RuneCountInString(keyword) > s.cfg.MaxKeywordLength {
		return "", 0, fmt.Errorf("%w: at most %d characters", ErrKeywordTooLong, s.cfg.MaxKeywordLength)
	}
	if count == 0 {
		count = s.cfg.DefaultArticles
	}
	if count < 1 || count > s.cfg.MaxArticles {
		return "", 0, fmt.Errorf("%w: must be between 1 and %d", ErrCountOutOfRange, s.cfg.MaxArticles)
	}
	return keyword, count, nil
}

// IsInputError reports whether err came from form validation.
func IsInputError(err error) bool {
	return errors.Is(err, ErrKeywordRequired) || errors.Is(err, ErrKeywordTooLong) || errors.Is(err, ErrCountOutOfRange)
}
