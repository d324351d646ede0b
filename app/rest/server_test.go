package rest

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Semior001/cryptodash/app/market"
	"github.com/Semior001/cryptodash/app/news"
	"github.com/Semior001/cryptodash/app/search"
	"github.com/Semior001/cryptodash/app/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"
)

func prepServer(t *testing.T) (*httptest.Server, *Dashboard) {
	t.Helper()

	b, err := store.NewBolt(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close() })

	coins := &search.CoinsMock{CoinFunc: func(_ context.Context, id string) (market.Coin, error) {
		switch id {
		case "bitcoin":
			return market.Coin{ID: "bitcoin", Symbol: "btc", Name: "Bitcoin", Price: 67000, Rank: 1}, nil
		case "boom":
			return market.Coin{}, assert.AnError
		}
		return market.Coin{}, market.ErrCoinNotFound
	}}

	d := NewDashboard()
	srv := &Server{
		Log:       slog.Default(),
		Terms:     b,
		Coins:     coins,
		Searcher:  &search.Service{Dictionary: b, Coins: coins, CoinMap: map[string]string{"btc": "bitcoin"}},
		Dashboard: d,
		Timeout:   time.Second,
	}

	ts := httptest.NewServer(srv.routes())
	t.Cleanup(ts.Close)
	return ts, d
}

func get(t *testing.T, url string) (int, string) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestServer_Terms(t *testing.T) {
	ts, _ := prepServer(t)

	code, body := get(t, ts.URL+"/term/Bitcoin")
	assert.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"term":"bitcoin","definition":"Bitcoin is a decentralized digital currency."}`, body)

	code, body = get(t, ts.URL+"/term/staking")
	assert.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"term":"staking","definition":"No definition found."}`, body)

	resp, err := http.Post(ts.URL+"/add_term", "application/json",
		strings.NewReader(`{"term":"Staking","definition":"Locking coins."}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var msg map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&msg))
	assert.Equal(t, "Added staking to dictionary!", msg["message"])

	_, body = get(t, ts.URL+"/all_terms")
	assert.JSONEq(t, `["bitcoin","blockchain","defi","nft","staking","wallet"]`, body)

	resp, err = http.Post(ts.URL+"/add_term", "application/json", strings.NewReader(`{"term":"x"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"error":"Missing term or definition"}`, string(b))
}

func TestServer_Coin(t *testing.T) {
	ts, _ := prepServer(t)

	code, body := get(t, ts.URL+"/crypto/bitcoin")
	assert.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"name":"Bitcoin","symbol":"BTC","price":67000,"rank":1}`, body)

	code, body = get(t, ts.URL+"/crypto/dogwifhat")
	assert.Equal(t, http.StatusNotFound, code)
	assert.JSONEq(t, `{"error":"Coin not found"}`, body)

	code, _ = get(t, ts.URL+"/crypto/boom")
	assert.Equal(t, http.StatusBadGateway, code)
}

func TestServer_Search(t *testing.T) {
	ts, _ := prepServer(t)

	code, body := get(t, ts.URL+"/search?q=DeFi")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, `"definition":"Decentralized finance`)

	code, body = get(t, ts.URL+"/search?q=btc")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, `"name":"Bitcoin"`)

	code, body = get(t, ts.URL+"/search?q=nothing")
	assert.Equal(t, http.StatusNotFound, code)
	assert.JSONEq(t, `{"error":"No term or coin found!"}`, body)

	code, _ = get(t, ts.URL+"/search?q=%20")
	assert.Equal(t, http.StatusBadRequest, code)

	code, body = get(t, ts.URL+"/search?q=boom")
	assert.Equal(t, http.StatusBadGateway, code)
	assert.JSONEq(t, `{"error":"Couldn't fetch coin data. Try again later."}`, body)
}

func TestServer_Fragments(t *testing.T) {
	ts, d := prepServer(t)

	code, body := get(t, ts.URL+"/fragments/news")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, news.Unavailable, body)

	d.SetNews(news.Result{Origin: news.OriginLive, Source: "cryptopanic", HTML: `<div class="news-card">x</div>`})
	_, body = get(t, ts.URL+"/fragments/news")
	assert.Equal(t, `<div class="news-card">x</div>`, body)

	_, body = get(t, ts.URL+"/api/news")
	assert.Contains(t, body, `"origin":"live"`)
	assert.Contains(t, body, `"source":"cryptopanic"`)

	d.Board.Set([]market.Coin{{Symbol: "btc", Name: "Bitcoin", Price: 60000, Change: 1}})
	d.Board.Apply(market.Tick{Symbol: "BTCUSDT", Price: 61000, Change: -0.5})

	_, body = get(t, ts.URL+"/fragments/market")
	assert.Contains(t, body, "$61,000.00")
	assert.Contains(t, body, "-0.50%")

	_, body = get(t, ts.URL+"/api/market")
	assert.Contains(t, body, `"current_price":61000`)
}

func TestServer_PingAndRequestID(t *testing.T) {
	ts, _ := prepServer(t)

	resp, err := http.Get(ts.URL + "/ping")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "pong", string(body))
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/ping", http.NoBody)
	require.NoError(t, err)
	req.Header.Set("X-Request-ID", "abc")
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "abc", resp.Header.Get("X-Request-ID"))
}

func TestRecover(t *testing.T) {
	h := Recover(slog.Default())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("oops")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", http.NoBody))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestTimeout(t *testing.T) {
	h := Timeout(10 * time.Millisecond)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		deadline, ok := r.Context().Deadline()
		assert.True(t, ok)
		assert.WithinDuration(t, time.Now().Add(10*time.Millisecond), deadline, 10*time.Millisecond)
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", http.NoBody))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
