package news

import (
	"fmt"
	"html/template"
	"strings"
	"time"
)

// Unavailable is rendered when no source succeeded and nothing is cached.
const Unavailable = `<p class="news-unavailable">No news available right now.</p>`

var articleTmpl = template.Must(template.New("article").Parse(
	`<div class="news-card" style="animation-delay: {{.Delay}}ms">` +
		`<img src="{{.Image}}" alt="" loading="lazy">` +
		`<div class="news-body">` +
		`<a href="{{.URL}}" target="_blank" rel="noopener noreferrer">{{.Title}}</a>` +
		`<p class="news-meta">{{.Source}}{{if .Date}} · {{.Date}}{{end}}</p>` +
		`</div>` +
		`</div>`,
))

// Renderer turns articles into html fragments.
type Renderer struct {
	// Stagger is the reveal delay added per fragment, purely cosmetic.
	Stagger time.Duration
}

// Fragments renders one fragment per article, in the order of articles.
func (r Renderer) Fragments(articles []Article) ([]string, error) {
	res := make([]string, 0, len(articles))
	sb := &strings.Builder{}

	for i, a := range articles {
		sb.Reset()

		data := struct {
			Article
			Delay int64
		}{Article: a, Delay: int64(i) * r.Stagger.Milliseconds()}

		if err := articleTmpl.Execute(sb, data); err != nil {
			return nil, fmt.Errorf("execute template for article %q: %w", a.URL, err)
		}

		res = append(res, sb.String())
	}

	return res, nil
}

// Render renders the whole feed. The output is built completely before it is returned,
// so the caller swaps the content of its container in one step.
func (r Renderer) Render(articles []Article) (string, error) {
	fragments, err := r.Fragments(articles)
	if err != nil {
		return "", err
	}
	return strings.Join(fragments, "\n"), nil
}
