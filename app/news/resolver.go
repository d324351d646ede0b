package news

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Semior001/cryptodash/app/fetch"
	"github.com/Semior001/cryptodash/app/store"
	"github.com/Semior001/cryptodash/pkg/logx"
	"golang.org/x/exp/slog"
)

// CacheKey is the key of the cache slot with the last rendered feed.
const CacheKey = "news"

// DefaultLimit is the default maximum number of rendered articles.
const DefaultLimit = 5

//go:generate moq -out mock_fetcher.go . Fetcher

// Fetcher retrieves the body of the url.
type Fetcher interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

//go:generate moq -out mock_cache.go . Cache

// Cache keeps rendered snapshots, it returns store.ErrNotFound for an empty slot.
type Cache interface {
	GetSnapshot(ctx context.Context, key string) (string, error)
	PutSnapshot(ctx context.Context, key, content string) error
}

// Origin tells where the resolved feed came from.
type Origin string

// Origins of the feed.
const (
	OriginLive        Origin = "live"
	OriginCache       Origin = "cache"
	OriginUnavailable Origin = "unavailable"
)

// Result is the outcome of a single resolution.
type Result struct {
	Origin     Origin    `json:"origin"`
	Source     string    `json:"source,omitempty"`
	Articles   []Article `json:"articles,omitempty"`
	HTML       string    `json:"html"`
	ResolvedAt time.Time `json:"resolved_at"`
	Errors     []error   `json:"-"`
}

// Resolver walks the sources in order until one of them gives articles.
type Resolver struct {
	Log      *slog.Logger
	Fetcher  Fetcher
	Sources  []Source
	Renderer Renderer
	Cache    Cache
	// Enricher looks up missing images, optional.
	Enricher *Enricher
	// Limit is the maximum number of rendered articles, DefaultLimit if zero.
	Limit int
	// DefaultImage replaces images that providers don't have.
	DefaultImage string
}

// Resolve tries the sources strictly in order. The first source that gives a non-empty
// list of articles is rendered, stored into the cache slot and returned, later sources
// are not requested. If every source fails, the cached feed is returned, or
// the Unavailable message if the cache is empty.
func (r *Resolver) Resolve(ctx context.Context) Result {
	lg := r.log()
	var errs []error

	for _, src := range r.Sources {
		articles, err := r.try(ctx, src)
		if err == nil {
			var html string
			if html, err = r.Renderer.Render(articles); err == nil {
				if err := r.Cache.PutSnapshot(ctx, CacheKey, html); err != nil {
					lg.WarnCtx(ctx, "failed to store news into cache", slog.Any("err", err))
				}

				lg.DebugCtx(ctx, "news resolved",
					slog.String("source", src.Name),
					slog.Int("articles", len(articles)))

				return Result{
					Origin:     OriginLive,
					Source:     src.Name,
					Articles:   articles,
					HTML:       html,
					ResolvedAt: time.Now(),
					Errors:     errs,
				}
			}
			err = fmt.Errorf("render: %w", err)
		}

		errs = append(errs, fmt.Errorf("source %s: %w", src.Name, err))
		lg.WarnCtx(ctx, "news source failed, trying next one",
			slog.String("source", src.Name),
			slog.String("kind", fetch.KindOf(err).String()),
			slog.Any("err", err))
	}

	return r.fallback(ctx, errs)
}

func (r *Resolver) fallback(ctx context.Context, errs []error) Result {
	lg := r.log()

	cached, err := r.Cache.GetSnapshot(ctx, CacheKey)
	switch {
	case err == nil:
		lg.WarnCtx(ctx, "all news sources failed, serving cached news", slog.Int("sources", len(r.Sources)))
		return Result{Origin: OriginCache, HTML: cached, ResolvedAt: time.Now(), Errors: errs}
	case !errors.Is(err, store.ErrNotFound):
		lg.WarnCtx(ctx, "failed to read cached news", slog.Any("err", err))
	}

	lg.WarnCtx(ctx, "all news sources failed, nothing in cache", slog.Int("sources", len(r.Sources)))
	return Result{Origin: OriginUnavailable, HTML: Unavailable, ResolvedAt: time.Now(), Errors: errs}
}

// try fetches and transforms a single source.
func (r *Resolver) try(ctx context.Context, src Source) (articles []Article, err error) {
	body, err := r.Fetcher.Get(ctx, src.Endpoint)
	if err != nil {
		return nil, err
	}

	if articles, err = transform(src, body); err != nil {
		return nil, fetch.Payload(src.Endpoint, err)
	}

	articles = valid(articles)
	if len(articles) == 0 {
		return nil, fetch.Empty(src.Endpoint)
	}

	limit := r.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	if len(articles) > limit {
		articles = articles[:limit]
	}

	if r.Enricher != nil {
		articles = r.Enricher.Enrich(ctx, articles)
	}

	for i := range articles {
		if articles[i].Source == "" {
			articles[i].Source = src.Name
		}
		if articles[i].Image == "" {
			articles[i].Image = r.DefaultImage
		}
	}

	return articles, nil
}

// transform applies the source transform, a panic in it is a payload failure.
func transform(src Source, body []byte) (articles []Article, err error) {
	if src.Transform == nil {
		return nil, fmt.Errorf("no transform for source %s", src.Name)
	}

	defer func() {
		if rec := recover(); rec != nil {
			articles, err = nil, fmt.Errorf("transform panicked: %v", rec)
		}
	}()

	return src.Transform(body)
}

func (r *Resolver) log() *slog.Logger {
	if r.Log == nil {
		return slog.New(logx.NoOp())
	}
	return r.Log
}
