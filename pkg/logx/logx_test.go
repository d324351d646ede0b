package logx

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-pkgz/requester"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"
)

func TestChain_RequestID(t *testing.T) {
	buf := &bytes.Buffer{}
	lg := slog.New(&Chain{
		Middleware: []Middleware{RequestID},
		Handler:    slog.HandlerOptions{}.NewTextHandler(buf),
	})

	lg.InfoCtx(ContextWithRequestID(context.Background(), "req-1"), "hello")
	assert.Contains(t, buf.String(), "request_id=req-1")

	buf.Reset()
	lg.With(slog.String("prefix", "x")).InfoCtx(context.Background(), "no id")
	assert.Contains(t, buf.String(), "prefix=x")
	assert.NotContains(t, buf.String(), "request_id")
}

func TestNoOp(t *testing.T) {
	h := NoOp()
	assert.False(t, h.Enabled(context.Background(), slog.LevelError))
	assert.NotPanics(t, func() { slog.New(h).With("a", 1).WithGroup("g").Error("dropped") })
}

func TestLoggingRoundTripper(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "cryptodash-test", r.Header.Get("User-Agent"))
		assert.Equal(t, "secret", r.URL.Query().Get("auth_token"))
		_, _ = w.Write([]byte(`{"results":[]}`))
	}))
	defer ts.Close()

	buf := &bytes.Buffer{}
	lg := slog.New(slog.HandlerOptions{Level: slog.LevelDebug}.NewTextHandler(buf))

	cl := requester.New(http.Client{},
		UserAgent("cryptodash-test"),
		LoggingRoundTripper(lg, RoundTripperOpts{
			Level:         slog.LevelDebug,
			SecretHeaders: []string{"Authorization"},
			SecretParams:  []string{"auth_token"},
		}),
	).Client()

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/posts?auth_token=secret&public=true", http.NoBody)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer token")

	resp, err := cl.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, `{"results":[]}`, string(body), "body stays readable after logging")

	logged := buf.String()
	assert.Contains(t, logged, "request sent")
	assert.Contains(t, logged, "response received")
	assert.NotContains(t, logged, "secret")
	assert.NotContains(t, logged, "Bearer token")
}

func TestLoggingRoundTripper_Disabled(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))
	defer ts.Close()

	buf := &bytes.Buffer{}
	lg := slog.New(slog.HandlerOptions{Level: slog.LevelInfo}.NewTextHandler(buf))

	cl := requester.New(http.Client{}, LoggingRoundTripper(lg, RoundTripperOpts{Level: slog.LevelDebug})).Client()
	resp, err := cl.Get(ts.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Empty(t, buf.String())
}
