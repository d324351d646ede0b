package news

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/go-shiori/go-readability"
	"golang.org/x/exp/slog"
)

// Enricher looks up lead images of articles that came without one.
type Enricher struct {
	Log    *slog.Logger
	Client *http.Client
}

// Enrich fills missing images from the article pages. Articles whose page
// can't be fetched or parsed are returned as is.
func (e *Enricher) Enrich(ctx context.Context, articles []Article) []Article {
	res := make([]Article, len(articles))
	copy(res, articles)

	for i := range res {
		if res[i].Image != "" {
			continue
		}

		img, err := e.leadImage(ctx, res[i].URL)
		if err != nil {
			if e.Log != nil {
				e.Log.DebugCtx(ctx, "failed to get lead image",
					slog.String("url", res[i].URL), slog.Any("err", err))
			}
			continue
		}

		res[i].Image = img
	}

	return res
}

func (e *Enricher) leadImage(ctx context.Context, u string) (string, error) {
	pageURL, err := url.Parse(u)
	if err != nil {
		return "", fmt.Errorf("parse url: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, http.NoBody)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}

	cl := e.Client
	if cl == nil {
		cl = http.DefaultClient
	}

	resp, err := cl.Do(req)
	if err != nil {
		return "", fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // read-only body

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return "", fmt.Errorf("bad status code: %d", resp.StatusCode)
	}

	doc, err := readability.FromReader(resp.Body, pageURL)
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}

	if doc.Image == "" {
		return "", fmt.Errorf("no lead image")
	}

	return doc.Image, nil
}
