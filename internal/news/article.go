package news

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/Manoj010104/news-summarizer/internal/rss"
)

// Article is one news item. Image is empty until resolved and is written at
// most once.
type Article struct {
	Title     string `json:"title"`
	Link      string `json:"link"`
	Published string `json:"published"`
	Summary   string `json:"summary"`
	Image     string `json:"image,omitempty"`

	imageChecked bool
}

func FromItem(it rss.Item) Article {
	return Article{
		Title:     it.Title,
		Link:      it.Link,
		Published: it.Published,
		Summary:   it.Summary,
	}
}

// HasImage reports whether an image URL has been resolved.
func (a *Article) HasImage() bool { return a.Image != "" }

// PlainText strips markup from a feed excerpt for display.
func PlainText(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return strings.Join(strings.Fields(s), " ")
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.Join(strings.Fields(s), " ")
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}
