// Package cmd contains commands for the application.
package cmd

import (
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/Semior001/cryptodash/app/config"
	"github.com/Semior001/cryptodash/app/fetch"
	"github.com/Semior001/cryptodash/app/news"
	"github.com/Semior001/cryptodash/app/store"
	"github.com/Semior001/cryptodash/pkg/logx"
	"github.com/adrg/xdg"
	"github.com/go-pkgz/requester"
	"golang.org/x/exp/slog"
)

// FetchOpts defines options of outgoing requests.
type FetchOpts struct {
	Timeout   time.Duration `long:"timeout" env:"TIMEOUT" default:"10s" description:"timeout of a single request"`
	Retries   int           `long:"retries" env:"RETRIES" default:"2" description:"retries after a failed request"`
	Delay     time.Duration `long:"delay" env:"DELAY" default:"1s" description:"pause between retries"`
	UserAgent string        `long:"user-agent" env:"USER_AGENT" default:"cryptodash" description:"user agent of requests"`
}

// NewsOpts defines options of the news feed.
type NewsOpts struct {
	Enrich  bool          `long:"enrich" env:"ENRICH" description:"look up missing images on article pages"`
	Stagger time.Duration `long:"stagger" env:"STAGGER" default:"100ms" description:"reveal delay between news cards"`
}

// CommonOpts are options shared by the commands.
type CommonOpts struct {
	Config    string    `long:"config" env:"CONFIG" description:"path to the yaml config, user config dir if empty"`
	StorePath string    `long:"store-path" env:"STORE_PATH" description:"parent dir for bolt files, user cache dir if empty"`
	Fetch     FetchOpts `group:"fetch" namespace:"fetch" env-namespace:"FETCH"`
	News      NewsOpts  `group:"news" namespace:"news" env-namespace:"NEWS"`
}

func (c CommonOpts) storePath() string {
	if c.StorePath != "" {
		return c.StorePath
	}
	return filepath.Join(xdg.CacheHome, "cryptodash")
}

// httpClient makes a client that logs requests and masks api tokens.
func (c CommonOpts) httpClient(lg *slog.Logger) *http.Client {
	return requester.New(
		http.Client{Timeout: c.Fetch.Timeout},
		logx.UserAgent(c.Fetch.UserAgent),
		logx.LoggingRoundTripper(lg.With(slog.String("prefix", "http")), logx.RoundTripperOpts{
			Level:         slog.LevelDebug,
			SecretHeaders: []string{"Authorization", "X-Cg-Pro-Api-Key"},
			SecretParams:  []string{"auth_token", "api_key"},
		}),
	).Client()
}

func (c CommonOpts) fetcher(lg *slog.Logger, cl *http.Client) *fetch.Client {
	return &fetch.Client{
		HTTP:    cl,
		Log:     lg.With(slog.String("prefix", "fetch")),
		Retries: c.Fetch.Retries,
		Delay:   c.Fetch.Delay,
	}
}

// prepare loads the configuration and opens the store.
func (c CommonOpts) prepare() (*config.Config, *store.Bolt, error) {
	cfg, err := config.Load(configPath(c.Config))
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	s, err := store.NewBolt(c.storePath())
	if err != nil {
		return nil, nil, fmt.Errorf("make store: %w", err)
	}

	return cfg, s, nil
}

// configPath falls back to the user config file, which may be absent.
func configPath(p string) string {
	if p != "" {
		return p
	}
	return config.DefaultPath()
}

func (c CommonOpts) resolver(lg *slog.Logger, cfg *config.Config, cl *http.Client, cache news.Cache) (*news.Resolver, error) {
	sources, err := cfg.NewsSources()
	if err != nil {
		return nil, fmt.Errorf("make news sources: %w", err)
	}

	r := &news.Resolver{
		Log:          lg.With(slog.String("prefix", "news")),
		Fetcher:      c.fetcher(lg, cl),
		Sources:      sources,
		Renderer:     news.Renderer{Stagger: c.News.Stagger},
		Cache:        cache,
		Limit:        cfg.Limit(),
		DefaultImage: cfg.DefaultImage,
	}

	if c.News.Enrich {
		r.Enricher = &news.Enricher{Log: lg.With(slog.String("prefix", "enricher")), Client: cl}
	}

	return r, nil
}
