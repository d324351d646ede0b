// Package news resolves the news feed of the dashboard from an ordered list of providers,
// falling back to the last successfully rendered feed when every provider fails.
package news

import (
	"strings"
	"time"

	"github.com/samber/lo"
)

// Article is a single news entry ready to be rendered.
type Article struct {
	Title  string `json:"title"`
	URL    string `json:"url"`
	Source string `json:"source"`
	Date   string `json:"date"`
	Image  string `json:"image"`
}

// dateLayout is the layout of Article.Date.
const dateLayout = "Jan 2, 2006"

// formatDate formats the provider timestamp, zero time gives an empty date.
func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(dateLayout)
}

// valid drops articles without a title or a link.
func valid(articles []Article) []Article {
	return lo.Filter(articles, func(a Article, _ int) bool {
		return strings.TrimSpace(a.Title) != "" && strings.TrimSpace(a.URL) != ""
	})
}
