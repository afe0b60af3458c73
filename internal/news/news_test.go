package news

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Manoj010104/news-summarizer/internal/metrics"
	"github.com/Manoj010104/news-summarizer/internal/rouge"
	"github.com/Manoj010104/news-summarizer/internal/rss"
	"github.com/Manoj010104/news-summarizer/internal/scraper"
	"github.com/Manoj010104/news-summarizer/internal/summary"
)

type stubFeed struct {
	items []rss.Item
	err   error
	calls int
}

func (s *stubFeed) Fetch(_ context.Context, _ string, maxCount int) ([]rss.Item, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	if maxCount < len(s.items) {
		return s.items[:maxCount], nil
	}
	return s.items, nil
}

type stubResolver struct {
	calls  int
	result scraper.Result
}

func (s *stubResolver) Resolve(context.Context, string) scraper.Result {
	s.calls++
	return s.result
}

func items(n int) []rss.Item {
	out := make([]rss.Item, n)
	for i := range out {
		out[i] = rss.Item{
			Title:     fmt.Sprintf("Title %d", i+1),
			Link:      fmt.Sprintf("https://example.com/%d", i+1),
			Published: rss.UnknownPublished,
			Summary:   fmt.Sprintf("Lawmakers debated the new energy bill for article %d.", i+1),
		}
	}
	return out
}

func echoSummarizer(calls *int32) *summary.Summarizer {
	gen := summary.GeneratorFunc(func(_ context.Context, prompt string) (string, error) {
		atomic.AddInt32(calls, 1)
		return "Lawmakers debated the new energy bill.", nil
	})
	return summary.New(gen, summary.Options{Metrics: metrics.New()})
}

func TestFetchArticles(t *testing.T) {
	feed := &stubFeed{items: items(7)}
	p := NewPipeline(feed, nil, nil, nil, metrics.New())

	articles, err := p.FetchArticles(context.Background(), "energy", 3)
	require.NoError(t, err)
	require.Len(t, articles, 3)
	for i, a := range articles {
		assert.Equal(t, fmt.Sprintf("Title %d", i+1), a.Title)
		assert.NotEmpty(t, a.Link)
		assert.False(t, a.HasImage())
	}
}

func TestFetchArticles_Failure(t *testing.T) {
	m := metrics.New()
	p := NewPipeline(&stubFeed{err: errors.New("dns failure")}, nil, nil, nil, m)

	articles, err := p.FetchArticles(context.Background(), "energy", 3)
	assert.Error(t, err)
	assert.Empty(t, articles)
	assert.Equal(t, int64(1), m.FetchFailures)
	assert.False(t, m.Healthy())
}

func TestResolveImage_Idempotent(t *testing.T) {
	res := &stubResolver{result: scraper.Result{URL: "https://example.com/img/a.png", Reason: scraper.ReasonFound}}
	p := NewPipeline(&stubFeed{}, res, nil, nil, metrics.New())

	a := &Article{Link: "https://example.com/article"}
	p.ResolveImage(context.Background(), a)
	first := a.Image
	p.ResolveImage(context.Background(), a)

	assert.Equal(t, "https://example.com/img/a.png", first)
	assert.Equal(t, first, a.Image)
	assert.Equal(t, 1, res.calls)
}

func TestResolveImage_NoImageNotRetried(t *testing.T) {
	res := &stubResolver{result: scraper.Result{Reason: scraper.ReasonFetchFailed, Err: errors.New("timeout")}}
	m := metrics.New()
	p := NewPipeline(&stubFeed{}, res, nil, nil, m)

	a := &Article{Link: "https://example.com/article"}
	p.ResolveImage(context.Background(), a)
	p.ResolveImage(context.Background(), a)

	assert.False(t, a.HasImage())
	assert.Equal(t, 1, res.calls)
	assert.Equal(t, int64(1), m.ImagesMissing)
}

func TestResolveImage_PresetImageSkipsNetwork(t *testing.T) {
	res := &stubResolver{}
	p := NewPipeline(&stubFeed{}, res, nil, nil, metrics.New())

	a := &Article{Link: "https://example.com/a", Image: "https://cdn.example.com/x.png"}
	p.ResolveImage(context.Background(), a)
	assert.Equal(t, 0, res.calls)
	assert.Equal(t, "https://cdn.example.com/x.png", a.Image)
}

func TestResolveImage_HTMLFixture(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Write([]byte(`<html><head><meta property="og:image" content="/img/a.png"></head><body><img src="/other.png"></body></html>`))
	}))
	defer srv.Close()

	p := NewPipeline(&stubFeed{}, scraper.NewResolverWithClient(srv.Client(), "Mozilla/5.0", 16), nil, nil, metrics.New())

	a := &Article{Link: srv.URL + "/article"}
	p.ResolveImage(context.Background(), a)
	p.ResolveImage(context.Background(), a)

	assert.Equal(t, srv.URL+"/img/a.png", a.Image)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestScore_FailureOmitted(t *testing.T) {
	m := metrics.New()
	failing := func(string, string) (rouge.Scores, error) { return nil, errors.New("tokenizer missing") }
	p := NewPipeline(&stubFeed{}, nil, nil, failing, m)

	scores, ok := p.Score("a b", "a b")
	assert.False(t, ok)
	assert.Nil(t, scores)
	assert.Equal(t, int64(1), m.ScoreFailures)
}

func TestProcess_FullEnrichment(t *testing.T) {
	var calls int32
	feed := &stubFeed{items: items(5)}
	res := &stubResolver{result: scraper.Result{URL: "https://example.com/img.png", Reason: scraper.ReasonFound}}
	p := NewPipeline(feed, res, echoSummarizer(&calls), nil, metrics.New())

	out, err := p.Process(context.Background(), Request{Keyword: "energy", Count: 2, WithImages: true, WithSummary: true})
	require.NoError(t, err)
	require.Len(t, out, 2)

	assert.Equal(t, 1, feed.calls)
	assert.Equal(t, 2, res.calls)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
	for i, it := range out {
		assert.Equal(t, fmt.Sprintf("Title %d", i+1), it.Article.Title)
		assert.Equal(t, "https://example.com/img.png", it.Article.Image)
		assert.Equal(t, "Lawmakers debated the new energy bill.", it.AISummary)
		assert.Equal(t, summary.ReasonOK, it.SummaryStatus)
		require.NotNil(t, it.Scores)
		assert.Greater(t, it.Scores[rouge.RougeL], 0.0)
		assert.LessOrEqual(t, it.Scores[rouge.RougeL], 1.0)
	}
}

func TestProcess_WithoutImagesOrSummary(t *testing.T) {
	var calls int32
	res := &stubResolver{}
	p := NewPipeline(&stubFeed{items: items(3)}, res, echoSummarizer(&calls), nil, metrics.New())

	out, err := p.Process(context.Background(), Request{Keyword: "x", Count: 3})
	require.NoError(t, err)
	require.Len(t, out, 3)
	assert.Equal(t, 0, res.calls)
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
	for _, it := range out {
		assert.Empty(t, it.AISummary)
		assert.Nil(t, it.Scores)
	}
}

func TestProcess_EmptyExcerptGetsSentinel(t *testing.T) {
	var calls int32
	feed := &stubFeed{items: []rss.Item{{Title: "t", Link: "https://example.com/t", Published: "Unknown"}}}
	p := NewPipeline(feed, nil, echoSummarizer(&calls), nil, metrics.New())

	out, err := p.Process(context.Background(), Request{Keyword: "x", Count: 1, WithSummary: true})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, summary.Unavailable, out[0].AISummary)
	assert.Equal(t, summary.ReasonEmptyInput, out[0].SummaryStatus)
	assert.Nil(t, out[0].Scores)
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
}

func TestProcess_FetchFailure(t *testing.T) {
	p := NewPipeline(&stubFeed{err: errors.New("unreachable")}, nil, nil, nil, metrics.New())

	out, err := p.Process(context.Background(), Request{Keyword: "x", Count: 3})
	assert.Error(t, err)
	assert.Nil(t, out)
}

func TestPlainText(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"plain   text\nhere", "plain text here"},
		{`<a href="https://x">Headline</a>&nbsp;&nbsp;<font color="#6f6f6f">Reuters</font>`, "Headline Reuters"},
		{"Tom &amp; Jerry", "Tom & Jerry"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, PlainText(tt.in))
	}
}

func TestFavorites(t *testing.T) {
	f := NewFavorites()
	a := Article{Title: "A", Link: "https://x/a"}
	b := Article{Title: "B", Link: "https://x/b"}

	assert.True(t, f.Add(a))
	assert.True(t, f.Add(b))
	assert.False(t, f.Add(Article{Title: "A again", Link: "https://x/a"}))
	assert.False(t, f.Add(Article{Title: "no link"}))

	require.Equal(t, 2, f.Len())
	list := f.List()
	assert.Equal(t, "A", list[0].Title)
	assert.Equal(t, "B", list[1].Title)
	assert.True(t, f.Contains("https://x/b"))
	assert.False(t, f.Contains("https://x/c"))

	a.Image = "https://x/a.png"
	f.Update(a)
	assert.Equal(t, "https://x/a.png", f.List()[0].Image)

	// List hands out copies
	list[0].Title = "mutated"
	assert.Equal(t, "A", f.List()[0].Title)
}
