package market

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Semior001/cryptodash/pkg/logx"
	"github.com/gorilla/websocket"
	"golang.org/x/exp/slog"
)

// DefaultStreamURL is the base url of the Binance combined streams.
const DefaultStreamURL = "wss://stream.binance.com:9443"

// DefaultReconnectDelay is the pause before the stream is dialed again.
const DefaultReconnectDelay = 5 * time.Second

// Tick is a price update of a trading pair.
type Tick struct {
	Symbol string  `json:"symbol"`
	Price  float64 `json:"price"`
	Change float64 `json:"change"`
}

// Stream subscribes to 24h ticker updates of the trading pairs.
type Stream struct {
	baseURL string
	symbols []string
	opts    Options
}

// Options defines options for Stream.
type Options struct {
	Logger *slog.Logger
	Delay  time.Duration
	Dialer *websocket.Dialer
}

// Option defines a function that configures Stream.
type Option func(*Options)

// WithLogger sets the logger to use.
func WithLogger(lg *slog.Logger) Option {
	return func(o *Options) { o.Logger = lg }
}

// WithReconnectDelay sets the fixed pause between reconnects.
func WithReconnectDelay(d time.Duration) Option {
	return func(o *Options) { o.Delay = d }
}

// WithDialer sets the websocket dialer.
func WithDialer(d *websocket.Dialer) Option {
	return func(o *Options) { o.Dialer = d }
}

// NewStream makes a stream of the given trading pairs, e.g. BTCUSDT.
func NewStream(baseURL string, symbols []string, opts ...Option) *Stream {
	s := &Stream{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		symbols: symbols,
		opts: Options{
			Logger: slog.New(logx.NoOp()),
			Delay:  DefaultReconnectDelay,
			Dialer: websocket.DefaultDialer,
		},
	}

	for _, opt := range opts {
		opt(&s.opts)
	}

	return s
}

// URL returns the combined stream url.
func (s *Stream) URL() string {
	streams := make([]string, 0, len(s.symbols))
	for _, sym := range s.symbols {
		streams = append(streams, strings.ToLower(sym)+"@ticker")
	}
	return s.baseURL + "/stream?streams=" + strings.Join(streams, "/")
}

// Run reads ticks and passes them to handle until the context is done.
// A closed or failed connection is dialed again after the fixed delay,
// without any limit on the number of reconnects.
func (s *Stream) Run(ctx context.Context, handle func(Tick)) error {
	lg := s.opts.Logger

	for {
		err := s.session(ctx, handle)
		if ctx.Err() != nil {
			return ctx.Err()
		}

		lg.WarnCtx(ctx, "ticker stream closed, reconnecting",
			slog.Duration("delay", s.opts.Delay),
			slog.Any("err", err))

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(s.opts.Delay):
		}
	}
}

func (s *Stream) session(ctx context.Context, handle func(Tick)) error {
	conn, _, err := s.opts.Dialer.DialContext(ctx, s.URL(), nil)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
		case <-done:
		}
		_ = conn.Close()
	}()

	s.opts.Logger.InfoCtx(ctx, "ticker stream connected", slog.Int("symbols", len(s.symbols)))

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return fmt.Errorf("read message: %w", err)
		}

		tick, err := ParseTick(msg)
		if err != nil {
			s.opts.Logger.DebugCtx(ctx, "skipping ticker frame", slog.Any("err", err))
			continue
		}

		handle(tick)
	}
}

// ParseTick decodes a combined stream frame, or a bare ticker payload.
// Ticker keys differ only by case (c/C, p/P), so they are matched exactly.
func ParseTick(msg []byte) (Tick, error) {
	var frame struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(msg, &frame); err != nil {
		return Tick{}, fmt.Errorf("unmarshal frame: %w", err)
	}

	data := frame.Data
	if len(data) == 0 {
		data = msg
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return Tick{}, fmt.Errorf("unmarshal ticker: %w", err)
	}

	str := func(key string) string {
		var v string
		_ = json.Unmarshal(fields[key], &v)
		return v
	}

	sym := str("s")
	if sym == "" {
		return Tick{}, fmt.Errorf("no symbol in frame")
	}

	price, err := strconv.ParseFloat(str("c"), 64)
	if err != nil {
		return Tick{}, fmt.Errorf("parse price of %s: %w", sym, err)
	}

	change, err := strconv.ParseFloat(str("P"), 64)
	if err != nil {
		return Tick{}, fmt.Errorf("parse change of %s: %w", sym, err)
	}

	return Tick{Symbol: sym, Price: price, Change: change}, nil
}
