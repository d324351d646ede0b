// Package market provides the market board of the dashboard: top coins from CoinGecko
// patched in place by the live ticker stream.
package market

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Semior001/cryptodash/app/fetch"
	cache "github.com/go-pkgz/expirable-cache/v2"
	"golang.org/x/exp/slog"
)

// DefaultCoinGeckoURL is the base url of the public CoinGecko API.
const DefaultCoinGeckoURL = "https://api.coingecko.com/api/v3"

// ErrCoinNotFound is returned when CoinGecko doesn't know the coin id.
var ErrCoinNotFound = errors.New("coin not found")

//go:generate moq -out mock_fetcher.go . Fetcher

// Fetcher retrieves the body of the url.
type Fetcher interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

// Coin is a single coin of the board.
type Coin struct {
	ID     string  `json:"id"`
	Symbol string  `json:"symbol"`
	Name   string  `json:"name"`
	Image  string  `json:"image,omitempty"`
	Price  float64 `json:"current_price"`
	Change float64 `json:"price_change_percentage_24h"`
	Rank   int     `json:"market_cap_rank"`
}

// Pair returns the USDT trading pair of the coin, e.g. BTCUSDT.
func (c Coin) Pair() string { return strings.ToUpper(c.Symbol) + "USDT" }

// CoinGecko is a client of the CoinGecko API.
type CoinGecko struct {
	log     *slog.Logger
	baseURL string
	perPage int
	// fetcher is used for the board, lookup for the single coin requests,
	// which should fail fast.
	fetcher Fetcher
	lookup  Fetcher
	coins   cache.Cache[string, Coin]
}

// CoinGeckoParams defines parameters of the CoinGecko client.
type CoinGeckoParams struct {
	BaseURL  string
	PerPage  int
	Fetcher  Fetcher
	Lookup   Fetcher // optional, Fetcher is used if nil
	CacheTTL time.Duration
}

// NewCoinGecko makes a new CoinGecko client.
func NewCoinGecko(lg *slog.Logger, p CoinGeckoParams) *CoinGecko {
	if p.BaseURL == "" {
		p.BaseURL = DefaultCoinGeckoURL
	}
	if p.PerPage <= 0 {
		p.PerPage = 10
	}
	if p.Lookup == nil {
		p.Lookup = p.Fetcher
	}
	if p.CacheTTL <= 0 {
		p.CacheTTL = time.Minute
	}

	return &CoinGecko{
		log:     lg,
		baseURL: strings.TrimSuffix(p.BaseURL, "/"),
		perPage: p.PerPage,
		fetcher: p.Fetcher,
		lookup:  p.Lookup,
		coins: cache.NewCache[string, Coin]().
			WithLRU().
			WithMaxKeys(100).
			WithTTL(p.CacheTTL),
	}
}

// Markets returns the top coins by market capitalization.
func (g *CoinGecko) Markets(ctx context.Context) ([]Coin, error) {
	q := url.Values{}
	q.Set("vs_currency", "usd")
	q.Set("order", "market_cap_desc")
	q.Set("per_page", strconv.Itoa(g.perPage))
	q.Set("page", "1")

	u := g.baseURL + "/coins/markets?" + q.Encode()

	body, err := g.fetcher.Get(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("get markets: %w", err)
	}

	var coins []Coin
	if err := json.Unmarshal(body, &coins); err != nil {
		return nil, fetch.Payload(u, fmt.Errorf("unmarshal markets: %w", err))
	}

	if len(coins) == 0 {
		return nil, fetch.Empty(u)
	}

	return coins, nil
}

// Coin returns the coin by its CoinGecko id. Spaces in the id are replaced with dashes.
func (g *CoinGecko) Coin(ctx context.Context, id string) (Coin, error) {
	id = strings.ReplaceAll(strings.ToLower(strings.TrimSpace(id)), " ", "-")
	if id == "" {
		return Coin{}, ErrCoinNotFound
	}

	if c, ok := g.coins.Get(id); ok {
		return c, nil
	}

	q := url.Values{}
	for _, k := range []string{"localization", "tickers", "community_data", "developer_data"} {
		q.Set(k, "false")
	}

	u := g.baseURL + "/coins/" + url.PathEscape(id) + "?" + q.Encode()

	body, err := g.lookup.Get(ctx, u)
	if err != nil {
		var fe *fetch.Error
		if errors.As(err, &fe) && fe.Kind == fetch.KindStatus && fe.Status == http.StatusNotFound {
			return Coin{}, ErrCoinNotFound
		}
		return Coin{}, fmt.Errorf("get coin %s: %w", id, err)
	}

	var resp struct {
		Error  string `json:"error"`
		ID     string `json:"id"`
		Symbol string `json:"symbol"`
		Name   string `json:"name"`
		Image  struct {
			Large string `json:"large"`
		} `json:"image"`
		MarketCapRank int `json:"market_cap_rank"`
		MarketData    struct {
			CurrentPrice          map[string]float64 `json:"current_price"`
			PriceChangePercentage float64            `json:"price_change_percentage_24h"`
		} `json:"market_data"`
	}

	if err := json.Unmarshal(body, &resp); err != nil {
		return Coin{}, fetch.Payload(u, fmt.Errorf("unmarshal coin: %w", err))
	}

	if resp.Error != "" || resp.ID == "" {
		return Coin{}, ErrCoinNotFound
	}

	c := Coin{
		ID:     resp.ID,
		Symbol: resp.Symbol,
		Name:   resp.Name,
		Image:  resp.Image.Large,
		Price:  resp.MarketData.CurrentPrice["usd"],
		Change: resp.MarketData.PriceChangePercentage,
		Rank:   resp.MarketCapRank,
	}

	g.coins.Set(id, c, 0)
	return c, nil
}

// CacheStat returns the statistics of the coin cache.
func (g *CoinGecko) CacheStat() cache.Stats { return g.coins.Stat() }

// Refresh loads the top coins into the board.
func (g *CoinGecko) Refresh(ctx context.Context, b *Board) error {
	coins, err := g.Markets(ctx)
	if err != nil {
		return err
	}

	b.Set(coins)
	if g.log != nil {
		g.log.DebugCtx(ctx, "market board refreshed", slog.Int("coins", len(coins)))
	}
	return nil
}
