package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Manoj010104/news-summarizer/internal/news"
	"github.com/Manoj010104/news-summarizer/internal/rouge"
)

type palette struct {
	primary   lipgloss.Color
	secondary lipgloss.Color
	text      lipgloss.Color
	muted     lipgloss.Color
	border    lipgloss.Color
}

var themes = map[string]palette{
	"light": {
		primary:   lipgloss.Color("#1976d2"),
		secondary: lipgloss.Color("#00bcd4"),
		text:      lipgloss.Color("#212121"),
		muted:     lipgloss.Color("#757575"),
		border:    lipgloss.Color("#dbdbdb"),
	},
	"dark": {
		primary:   lipgloss.Color("#64b5f6"),
		secondary: lipgloss.Color("#4dd0e1"),
		text:      lipgloss.Color("#eeeeee"),
		muted:     lipgloss.Color("#9e9e9e"),
		border:    lipgloss.Color("#383838"),
	},
}

// Renderer draws pipeline items as terminal cards.
type Renderer struct {
	width int

	header lipgloss.Style
	card   lipgloss.Style
	title  lipgloss.Style
	meta   lipgloss.Style
	label  lipgloss.Style
	body   lipgloss.Style
	score  lipgloss.Style
	notice lipgloss.Style
}

func NewRenderer(theme string, width int) *Renderer {
	p, ok := themes[theme]
	if !ok {
		p = themes["light"]
	}
	if width < 40 {
		width = 40
	}
	return &Renderer{
		width:  width,
		header: lipgloss.NewStyle().Bold(true).Foreground(p.primary).PaddingLeft(1),
		card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.border).
			Padding(0, 1).
			Width(width),
		title:  lipgloss.NewStyle().Bold(true).Foreground(p.primary),
		meta:   lipgloss.NewStyle().Foreground(p.muted),
		label:  lipgloss.NewStyle().Bold(true).Foreground(p.secondary),
		body:   lipgloss.NewStyle().Foreground(p.text),
		score:  lipgloss.NewStyle().Bold(true).Foreground(p.primary),
		notice: lipgloss.NewStyle().Italic(true).Foreground(p.muted),
	}
}

func (r *Renderer) Header(subtitle string) string {
	return lipgloss.JoinVertical(lipgloss.Left,
		r.header.Render("NovaNews 📰"),
		r.meta.PaddingLeft(1).Render(subtitle),
	)
}

func (r *Renderer) Notice(msg string) string {
	return r.notice.Render(msg)
}

// Card renders one item. Summary and score lines appear only when present.
func (r *Renderer) Card(it news.Item, showImage bool) string {
	inner := r.width - 4
	a := it.Article

	lines := []string{
		r.title.Width(inner).Render(a.Title),
		r.meta.Render(fmt.Sprintf("📅 %s | %s", a.Published, a.Link)),
	}
	if showImage && a.HasImage() {
		lines = append(lines, r.meta.Render("🖼  "+a.Image))
	}

	excerpt := news.PlainText(a.Summary)
	lines = append(lines, "", r.label.Render("Original:"), r.body.Width(inner).Render(excerpt))

	if it.AISummary != "" {
		lines = append(lines, "", r.label.Render("AI Summary:"), r.body.Width(inner).Render(it.AISummary))
	}
	if it.Scores != nil {
		lines = append(lines, r.score.Render(fmt.Sprintf("ROUGE-L F1 Score: %.2f", it.Scores[rouge.RougeL])))
	}

	return r.card.Render(strings.Join(lines, "\n"))
}

func (r *Renderer) Cards(items []news.Item, showImages bool) string {
	cards := make([]string, 0, len(items))
	for _, it := range items {
		cards = append(cards, r.Card(it, showImages))
	}
	return strings.Join(cards, "\n")
}
