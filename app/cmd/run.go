package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Semior001/cryptodash/app/market"
	"github.com/Semior001/cryptodash/app/rest"
	"github.com/Semior001/cryptodash/app/search"
	"golang.org/x/exp/slog"
	"golang.org/x/sync/errgroup"
)

// Run is a command to run the dashboard server.
type Run struct {
	CommonOpts

	Addr    string        `long:"addr" env:"ADDR" default:":8080" description:"address to listen on"`
	Timeout time.Duration `long:"timeout" env:"TIMEOUT" default:"30s" description:"timeout of http handlers"`

	Market struct {
		Refresh   time.Duration `long:"refresh" env:"REFRESH" default:"60s" description:"interval of market board refresh"`
		CoinGecko string        `long:"coingecko-url" env:"COINGECKO_URL" default:"https://api.coingecko.com/api/v3" description:"base url of CoinGecko API"`
		PerPage   int           `long:"per-page" env:"PER_PAGE" default:"10" description:"number of coins on the board"`
		CacheTTL  time.Duration `long:"cache-ttl" env:"CACHE_TTL" default:"1m" description:"ttl of coin lookups"`
		Stream    struct {
			URL   string        `long:"url" env:"URL" default:"wss://stream.binance.com:9443" description:"base url of the ticker stream"`
			Delay time.Duration `long:"reconnect-delay" env:"RECONNECT_DELAY" default:"5s" description:"pause before reconnecting"`
			Off   bool          `long:"off" env:"OFF" description:"don't subscribe to the ticker stream"`
		} `group:"stream" namespace:"stream" env-namespace:"STREAM"`
	} `group:"market" namespace:"market" env-namespace:"MARKET"`

	NewsRefresh time.Duration `long:"news-refresh" env:"NEWS_REFRESH" default:"5m" description:"interval of news refresh"`
}

// Execute runs the command.
func (r Run) Execute(_ []string) error {
	lg := slog.Default()

	if err := r.validate(); err != nil {
		return err
	}

	cfg, s, err := r.prepare()
	if err != nil {
		return err
	}

	defer func() {
		if err := s.Close(); err != nil {
			lg.Error("close bolt store", slog.Any("err", err))
		}
	}()

	cl := r.httpClient(lg)

	resolver, err := r.resolver(lg, cfg, cl, s)
	if err != nil {
		return err
	}

	lookup := r.fetcher(lg, cl)
	lookup.Retries = 0

	gecko := market.NewCoinGecko(lg.With(slog.String("prefix", "coingecko")), market.CoinGeckoParams{
		BaseURL:  r.Market.CoinGecko,
		PerPage:  r.Market.PerPage,
		Fetcher:  r.fetcher(lg, cl),
		Lookup:   lookup,
		CacheTTL: r.Market.CacheTTL,
	})

	dashboard := rest.NewDashboard()

	srv := &rest.Server{
		Log:   lg.With(slog.String("prefix", "rest")),
		Addr:  r.Addr,
		Terms: s,
		Coins: gecko,
		Searcher: &search.Service{
			Log:        lg.With(slog.String("prefix", "search")),
			Dictionary: s,
			Coins:      gecko,
			CoinMap:    cfg.CoinMap(),
		},
		Dashboard: dashboard,
		Timeout:   r.Timeout,
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	ewg, ctx := errgroup.WithContext(ctx)
	ewg.Go(func() error {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
		select {
		case sig := <-sig:
			slog.Warn("caught signal, stopping", slog.String("signal", sig.String()))
			stop()
			return ctx.Err()
		case <-ctx.Done():
			return ctx.Err()
		}
	})
	ewg.Go(func() error {
		return every(ctx, r.NewsRefresh, func(ctx context.Context) {
			res := resolver.Resolve(ctx)
			dashboard.SetNews(res)
			lg.InfoCtx(ctx, "news refreshed",
				slog.String("origin", string(res.Origin)),
				slog.String("source", res.Source),
				slog.Int("failures", len(res.Errors)))
		})
	})
	ewg.Go(func() error {
		return every(ctx, r.Market.Refresh, func(ctx context.Context) {
			if err := gecko.Refresh(ctx, dashboard.Board); err != nil {
				lg.WarnCtx(ctx, "failed to refresh market board", slog.Any("err", err))
			}
		})
	})
	if !r.Market.Stream.Off {
		ewg.Go(func() error {
			stream := market.NewStream(r.Market.Stream.URL, cfg.Symbols,
				market.WithLogger(lg.With(slog.String("prefix", "stream"))),
				market.WithReconnectDelay(r.Market.Stream.Delay),
			)
			return stream.Run(ctx, func(t market.Tick) { dashboard.Board.Apply(t) })
		})
	}
	ewg.Go(func() error {
		return srv.Run(ctx)
	})

	if err := ewg.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("run: %w", err)
	}

	lg.Info("dashboard stopped")
	return nil
}

func (r Run) validate() error {
	if r.NewsRefresh <= 0 {
		return fmt.Errorf("news refresh interval must be positive, got %s", r.NewsRefresh)
	}
	if r.Market.Refresh <= 0 {
		return fmt.Errorf("market refresh interval must be positive, got %s", r.Market.Refresh)
	}
	return nil
}

// every calls fn right away and then on each tick of the interval, until the context is done.
func every(ctx context.Context, interval time.Duration, fn func(context.Context)) error {
	fn(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			fn(ctx)
		}
	}
}
