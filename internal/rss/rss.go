// Package rss queries the news search feed and maps its entries to plain items.
package rss

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
)

// UnknownPublished is used when an entry carries no published timestamp.
const UnknownPublished = "Unknown"

var (
	ErrEmptyKeyword = errors.New("keyword is empty")
	ErrInvalidCount = errors.New("max count must be positive")
)

// Item is one feed entry, in feed order.
type Item struct {
	Title     string
	Link      string
	Published string
	Summary   string
}

// Locale holds the fixed language/country parameters of the search query.
type Locale struct {
	Language string // hl
	Country  string // gl
	CEID     string // ceid
}

type Fetcher struct {
	baseURL string
	locale  Locale
	parser  *gofeed.Parser
}

// NewFetcher builds a Fetcher for a search endpoint such as
// https://news.google.com/rss/search.
func NewFetcher(baseURL string, locale Locale, userAgent string, timeout time.Duration) *Fetcher {
	return NewFetcherWithClient(baseURL, locale, userAgent, &http.Client{Timeout: timeout})
}

// NewFetcherWithClient is NewFetcher with a caller-supplied HTTP client.
func NewFetcherWithClient(baseURL string, locale Locale, userAgent string, client *http.Client) *Fetcher {
	parser := gofeed.NewParser()
	parser.Client = client
	if userAgent != "" {
		parser.UserAgent = userAgent
	}
	return &Fetcher{baseURL: baseURL, locale: locale, parser: parser}
}

// QueryURL returns the search URL for keyword. Spaces and reserved
// characters are percent-encoded.
func (f *Fetcher) QueryURL(keyword string) string {
	var b strings.Builder
	b.WriteString(f.baseURL)
	if strings.Contains(f.baseURL, "?") {
		b.WriteString("&")
	} else {
		b.WriteString("?")
	}
	b.WriteString("q=")
	b.WriteString(escapeKeyword(keyword))
	if f.locale.Language != "" {
		b.WriteString("&hl=" + url.QueryEscape(f.locale.Language))
	}
	if f.locale.Country != "" {
		b.WriteString("&gl=" + url.QueryEscape(f.locale.Country))
	}
	if f.locale.CEID != "" {
		b.WriteString("&ceid=" + url.QueryEscape(f.locale.CEID))
	}
	return b.String()
}

// Fetch returns at most maxCount items for keyword, preserving feed order.
// Entries without a link are skipped and repeated links keep their first
// occurrence. On any network or parse failure it returns no items.
func (f *Fetcher) Fetch(ctx context.Context, keyword string, maxCount int) ([]Item, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, ErrEmptyKeyword
	}
	if maxCount <= 0 {
		return nil, ErrInvalidCount
	}

	feed, err := f.parser.ParseURLWithContext(f.QueryURL(keyword), ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching feed for %q: %w", keyword, err)
	}

	return collect(feed.Items, maxCount), nil
}

// escapeKeyword percent-encodes every reserved character, spaces as %20.
func escapeKeyword(keyword string) string {
	return strings.ReplaceAll(url.QueryEscape(keyword), "+", "%20")
}

func collect(entries []*gofeed.Item, maxCount int) []Item {
	items := make([]Item, 0, min(len(entries), maxCount))
	seen := make(map[string]struct{}, len(entries))

	for _, entry := range entries {
		if len(items) >= maxCount {
			break
		}
		if entry == nil {
			continue
		}
		link := strings.TrimSpace(entry.Link)
		if link == "" {
			continue
		}
		if _, dup := seen[link]; dup {
			continue
		}
		seen[link] = struct{}{}

		published := strings.TrimSpace(entry.Published)
		if published == "" {
			published = UnknownPublished
		}

		summary := entry.Description
		if summary == "" {
			summary = entry.Content
		}

		items = append(items, Item{
			Title:     entry.Title,
			Link:      link,
			Published: published,
			Summary:   summary,
		})
	}
	return items
}
