// Package scraper resolves a representative image for an article page.
package scraper

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/Manoj010104/news-summarizer/internal/cache"
	"github.com/Manoj010104/news-summarizer/internal/logger"
)

// Reason names the outcome of a resolution.
type Reason string

const (
	ReasonFound       Reason = "found"
	ReasonNoImage     Reason = "no_image"
	ReasonInvalidURL  Reason = "invalid_url"
	ReasonFetchFailed Reason = "fetch_failed"
	ReasonBadStatus   Reason = "bad_status"
	ReasonParseFailed Reason = "parse_failed"
)

// Result is the outcome of Resolve. URL is set only when Reason is ReasonFound.
type Result struct {
	URL    string
	Reason Reason
	Err    error
}

func (r Result) Found() bool { return r.Reason == ReasonFound }

// definitive results depend only on the page and are safe to memoize.
func (r Result) definitive() bool {
	return r.Reason == ReasonFound || r.Reason == ReasonNoImage
}

type Resolver struct {
	client    *http.Client
	userAgent string
	memo      *cache.LRU[string, Result]
}

// NewResolver builds a Resolver with the given per-request timeout.
// cacheSize bounds the number of memoized article URLs.
func NewResolver(userAgent string, timeout time.Duration, cacheSize int) *Resolver {
	return NewResolverWithClient(&http.Client{Timeout: timeout}, userAgent, cacheSize)
}

// NewResolverWithClient is NewResolver with a caller-supplied HTTP client.
func NewResolverWithClient(client *http.Client, userAgent string, cacheSize int) *Resolver {
	return &Resolver{
		client:    client,
		userAgent: userAgent,
		memo:      cache.New[string, Result](cacheSize),
	}
}

// Resolve fetches articleURL and picks its Open Graph image, falling back to
// the first <img> with a source. Failures never escape as errors; they are
// reported through Result.Reason.
func (r *Resolver) Resolve(ctx context.Context, articleURL string) Result {
	if res, ok := r.memo.Get(articleURL); ok {
		return res
	}

	res := r.resolve(ctx, articleURL)
	if res.definitive() {
		r.memo.Set(articleURL, res)
	}

	if res.Found() {
		logger.Debug("image resolved", "article", articleURL, "image", res.URL)
	} else {
		logger.Debug("no image", "article", articleURL, "reason", res.Reason, "error", res.Err)
	}
	return res
}

func (r *Resolver) resolve(ctx context.Context, articleURL string) Result {
	base, err := url.Parse(articleURL)
	if err != nil || !isHTTP(base) {
		return Result{Reason: ReasonInvalidURL, Err: fmt.Errorf("invalid article url %q", articleURL)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, articleURL, nil)
	if err != nil {
		return Result{Reason: ReasonInvalidURL, Err: err}
	}
	if r.userAgent != "" {
		req.Header.Set("User-Agent", r.userAgent)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return Result{Reason: ReasonFetchFailed, Err: fmt.Errorf("error loading page: %w", err)}
	}
	defer resp.Body.Close()

	// error pages often carry the site's generic og:image
	if resp.StatusCode != http.StatusOK {
		return Result{Reason: ReasonBadStatus, Err: fmt.Errorf("HTTP error: %d", resp.StatusCode)}
	}

	// redirects change the base that relative references resolve against
	if resp.Request != nil && resp.Request.URL != nil {
		base = resp.Request.URL
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return Result{Reason: ReasonParseFailed, Err: fmt.Errorf("error parsing HTML: %w", err)}
	}

	if img, ok := ExtractImage(doc, base); ok {
		return Result{URL: img, Reason: ReasonFound}
	}
	return Result{Reason: ReasonNoImage}
}

// ExtractImage applies the selection policy to a parsed page: og:image first,
// then the first <img src>. Both are resolved against base.
func ExtractImage(doc *goquery.Document, base *url.URL) (string, bool) {
	var found string

	doc.Find(`meta[property="og:image"], meta[name="og:image"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if abs, ok := absolute(base, s.AttrOr("content", "")); ok {
			found = abs
			return false
		}
		return true
	})
	if found != "" {
		return found, true
	}

	doc.Find("img[src]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		src := strings.TrimSpace(s.AttrOr("src", ""))
		if src == "" {
			return true
		}
		// only the first image with a source is considered
		found, _ = absolute(base, src)
		return false
	})
	return found, found != ""
}

func absolute(base *url.URL, raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	ref, err := url.Parse(raw)
	if err != nil {
		return "", false
	}
	abs := base.ResolveReference(ref)
	if !isHTTP(abs) {
		return "", false
	}
	return abs.String(), true
}

func isHTTP(u *url.URL) bool {
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
