// Package fetch provides an HTTP GET helper with bounded retries and fixed backoff.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Semior001/cryptodash/pkg/logx"
	"github.com/cenkalti/backoff/v4"
	"golang.org/x/exp/slog"
)

// Defaults for the retry policy.
const (
	DefaultRetries = 2
	DefaultDelay   = time.Second
)

// maxBodySize limits the amount of bytes read from a single response.
const maxBodySize = 8 << 20

// Client performs GET requests, retrying transport and status failures.
type Client struct {
	HTTP *http.Client
	Log  *slog.Logger
	// Retries is the number of additional attempts after the first one.
	Retries int
	// Delay is the fixed pause between attempts.
	Delay time.Duration
}

// NewClient makes a Client with the default retry policy.
func NewClient(lg *slog.Logger, cl *http.Client) *Client {
	return &Client{HTTP: cl, Log: lg, Retries: DefaultRetries, Delay: DefaultDelay}
}

// Get fetches the body of the url. Each failed attempt is logged as a warning.
// When the retry budget is exhausted the error of the last attempt is returned.
// A negative Retries is treated as zero.
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	lg := c.Log
	if lg == nil {
		lg = slog.New(logx.NoOp())
	}

	retries := max(c.Retries, 0)

	var body []byte
	attempt := 0
	op := func() error {
		attempt++

		b, err := c.get(ctx, url)
		if err == nil {
			body = b
			return nil
		}

		lg.WarnCtx(ctx, "fetch attempt failed",
			slog.String("url", url),
			slog.Int("attempt", attempt),
			slog.Int("attempts", retries+1),
			slog.Any("err", err),
		)

		if !KindOf(err).Retryable() {
			return backoff.Permanent(err)
		}
		return err
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewConstantBackOff(c.Delay), uint64(retries)), ctx)
	if err := backoff.Retry(op, policy); err != nil {
		var fe *Error
		if !errors.As(err, &fe) {
			// the context is done while waiting for the next attempt
			return nil, &Error{Kind: KindTransport, URL: url, Err: err}
		}
		return nil, err
	}

	return body, nil
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, &Error{Kind: KindPayload, URL: url, Err: fmt.Errorf("build request: %w", err)}
	}

	cl := c.HTTP
	if cl == nil {
		cl = http.DefaultClient
	}

	resp, err := cl.Do(req)
	if err != nil {
		return nil, &Error{Kind: KindTransport, URL: url, Err: fmt.Errorf("do request: %w", err)}
	}
	defer func() {
		if err := resp.Body.Close(); err != nil && c.Log != nil {
			c.Log.WarnCtx(ctx, "failed to close response body", slog.Any("err", err))
		}
	}()

	ok := resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices
	if !ok {
		return nil, &Error{Kind: KindStatus, URL: url, Status: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, &Error{Kind: KindTransport, URL: url, Err: fmt.Errorf("read body: %w", err)}
	}

	return body, nil
}
