package market

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStream_ReconnectsAndDeliversTicks(t *testing.T) {
	var conns int32
	upgrader := websocket.Upgrader{}

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/stream", r.URL.Path)
		assert.Equal(t, "btcusdt@ticker/ethusdt@ticker", r.URL.Query().Get("streams"))

		c, err := upgrader.Upgrade(w, r, nil)
		if !assert.NoError(t, err) {
			return
		}
		defer c.Close()

		switch atomic.AddInt32(&conns, 1) {
		case 1:
			// the first connection delivers a tick and drops
			_ = c.WriteMessage(websocket.TextMessage,
				[]byte(`{"stream":"btcusdt@ticker","data":{"e":"24hrTicker","s":"BTCUSDT","p":"-10.0","P":"1.50","c":"67000.10","C":1710405000000}}`))
		default:
			_ = c.WriteMessage(websocket.TextMessage, []byte(`not a frame`))
			_ = c.WriteMessage(websocket.TextMessage,
				[]byte(`{"stream":"ethusdt@ticker","data":{"s":"ETHUSDT","P":"-0.75","c":"3500"}}`))
			for { // hold until the client goes away
				if _, _, err := c.ReadMessage(); err != nil {
					return
				}
			}
		}
	}))
	defer ts.Close()

	s := NewStream("ws"+strings.TrimPrefix(ts.URL, "http"), []string{"BTCUSDT", "ETHUSDT"},
		WithReconnectDelay(10*time.Millisecond))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	ticks := make(chan Tick, 10)
	errCh := make(chan error, 1)
	go func() { errCh <- s.Run(ctx, func(t Tick) { ticks <- t }) }()

	assert.Equal(t, Tick{Symbol: "BTCUSDT", Price: 67000.10, Change: 1.5}, <-ticks)
	assert.Equal(t, Tick{Symbol: "ETHUSDT", Price: 3500, Change: -0.75}, <-ticks)
	cancel()

	assert.ErrorIs(t, <-errCh, context.Canceled)
	assert.Equal(t, int32(2), atomic.LoadInt32(&conns))
}

func TestStream_KeepsDialing(t *testing.T) {
	var attempts int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&attempts, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	s := NewStream("ws"+strings.TrimPrefix(ts.URL, "http"), []string{"BTCUSDT"},
		WithReconnectDelay(5*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 1)
	go func() { errCh <- s.Run(ctx, func(Tick) {}) }()

	require.Eventually(t, func() bool { return atomic.LoadInt32(&attempts) >= 3 },
		2*time.Second, 5*time.Millisecond)
	cancel()
	assert.ErrorIs(t, <-errCh, context.Canceled)
}

func TestStream_URL(t *testing.T) {
	s := NewStream(DefaultStreamURL+"/", []string{"BTCUSDT", "SOLUSDT"})
	assert.Equal(t, "wss://stream.binance.com:9443/stream?streams=btcusdt@ticker/solusdt@ticker", s.URL())
}

func TestParseTick(t *testing.T) {
	tick, err := ParseTick([]byte(`{"s":"SOLUSDT","c":"150.25","P":"3.1"}`))
	require.NoError(t, err)
	assert.Equal(t, Tick{Symbol: "SOLUSDT", Price: 150.25, Change: 3.1}, tick)

	_, err = ParseTick([]byte(`{"result":null,"id":1}`))
	assert.Error(t, err)

	_, err = ParseTick([]byte(`{"data":{"s":"BTCUSDT","c":"abc","P":"1"}}`))
	assert.Error(t, err)
}
