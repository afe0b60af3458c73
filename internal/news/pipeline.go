package news

import (
	"context"
	"time"

	"github.com/Manoj010104/news-summarizer/internal/logger"
	"github.com/Manoj010104/news-summarizer/internal/metrics"
	"github.com/Manoj010104/news-summarizer/internal/rouge"
	"github.com/Manoj010104/news-summarizer/internal/rss"
	"github.com/Manoj010104/news-summarizer/internal/scraper"
	"github.com/Manoj010104/news-summarizer/internal/summary"
)

type FeedSource interface {
	Fetch(ctx context.Context, keyword string, maxCount int) ([]rss.Item, error)
}

type ImageResolver interface {
	Resolve(ctx context.Context, articleURL string) scraper.Result
}

type Summarizer interface {
	Summarize(ctx context.Context, text string) summary.Result
}

// ScoreFunc compares a reference text with a generated summary.
type ScoreFunc func(reference, candidate string) (rouge.Scores, error)

// Request describes one fetch-and-enrich action.
type Request struct {
	Keyword     string
	Count       int
	WithImages  bool
	WithSummary bool
}

// Item is an article plus the enrichments computed for it. Scores is nil when
// scoring was skipped or failed.
type Item struct {
	Article       Article        `json:"article"`
	AISummary     string         `json:"ai_summary,omitempty"`
	SummaryStatus summary.Reason `json:"summary_status,omitempty"`
	Scores        rouge.Scores   `json:"scores,omitempty"`
}

type Pipeline struct {
	feed       FeedSource
	images     ImageResolver
	summarizer Summarizer
	score      ScoreFunc
	metrics    *metrics.Metrics
}

func NewPipeline(feed FeedSource, images ImageResolver, summarizer Summarizer, score ScoreFunc, m *metrics.Metrics) *Pipeline {
	if score == nil {
		score = rouge.Score
	}
	if m == nil {
		m = metrics.Global
	}
	return &Pipeline{
		feed:       feed,
		images:     images,
		summarizer: summarizer,
		score:      score,
		metrics:    m,
	}
}

// FetchArticles returns at most count articles for keyword in feed order.
// On failure it returns no articles and the error.
func (p *Pipeline) FetchArticles(ctx context.Context, keyword string, count int) ([]Article, error) {
	items, err := p.feed.Fetch(ctx, keyword, count)
	if err != nil {
		p.metrics.IncrementFetchFailures()
		p.metrics.SetError(err.Error())
		logger.Error("feed fetch failed", "keyword", keyword, "error", err)
		return nil, err
	}

	articles := make([]Article, 0, len(items))
	for _, it := range items {
		articles = append(articles, FromItem(it))
	}
	p.metrics.AddArticlesFetched(len(articles))
	p.metrics.SetLastRun()
	logger.Info("fetched articles", "keyword", keyword, "count", len(articles))
	return articles, nil
}

// ResolveImage fills a.Image once. Later calls on the same article do not
// touch the network, whether or not an image was found.
func (p *Pipeline) ResolveImage(ctx context.Context, a *Article) *Article {
	if a.Image != "" || a.imageChecked || p.images == nil {
		return a
	}

	res := p.images.Resolve(ctx, a.Link)
	a.imageChecked = true
	if res.Found() {
		a.Image = res.URL
		p.metrics.IncrementImagesFound()
		return a
	}

	p.metrics.IncrementImagesMissing()
	if res.Err != nil {
		logger.Warn("image resolution failed", "link", a.Link, "reason", res.Reason, "error", res.Err)
	}
	return a
}

// Summarize returns the generated summary of text, or a named failure.
func (p *Pipeline) Summarize(ctx context.Context, text string) summary.Result {
	if p.summarizer == nil {
		return summary.Result{Reason: summary.ReasonModelError, Err: summary.ErrNoAPIKey}
	}
	return p.summarizer.Summarize(ctx, text)
}

// Score compares reference and candidate. A scoring failure is logged and
// reported as ok=false.
func (p *Pipeline) Score(reference, candidate string) (rouge.Scores, bool) {
	scores, err := p.score(reference, candidate)
	if err != nil {
		p.metrics.IncrementScoreFailures()
		logger.Warn("scoring failed", "reason", "score_error", "error", err)
		return nil, false
	}
	p.metrics.IncrementScoresComputed()
	return scores, true
}

// Enrich applies the per-article step: image first, then summary and score.
func (p *Pipeline) Enrich(ctx context.Context, a *Article, withImages, withSummary bool) Item {
	if withImages {
		p.ResolveImage(ctx, a)
	}

	item := Item{Article: *a}
	if !withSummary {
		return item
	}

	excerpt := PlainText(a.Summary)
	res := p.Summarize(ctx, excerpt)
	item.AISummary = res.String()
	item.SummaryStatus = res.Reason
	if !res.OK() {
		return item
	}

	if scores, ok := p.Score(excerpt, res.Text); ok {
		item.Scores = scores
	}
	return item
}

// Process fetches once and enriches every returned article in order.
func (p *Pipeline) Process(ctx context.Context, req Request) ([]Item, error) {
	start := time.Now()
	defer func() { p.metrics.RecordProcessingTime(time.Since(start)) }()

	articles, err := p.FetchArticles(ctx, req.Keyword, req.Count)
	if err != nil {
		return nil, err
	}

	items := make([]Item, 0, len(articles))
	for i := range articles {
		items = append(items, p.Enrich(ctx, &articles[i], req.WithImages, req.WithSummary))
	}
	return items, nil
}
