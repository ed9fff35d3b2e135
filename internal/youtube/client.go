package youtube

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"

	"caption-resolver-backend/pkg/logger"
)

// ClientConfig carries the knobs every upstream call shares. Strategies
// receive a built Client instead of reading configuration themselves.
type ClientConfig struct {
	UserAgent  string
	Timeout    time.Duration
	MaxRetries int
	RetryBase  time.Duration
	RetryCap   time.Duration
	HTTPClient *http.Client
}

// Client performs HTTP calls against the platform with a browser-like
// identity, a per-call timeout and bounded exponential retry. Retries
// apply only to transient failures; deterministic outcomes like 404 are
// surfaced immediately.
type Client struct {
	httpClient *http.Client
	userAgent  string
	timeout    time.Duration
	maxRetries uint64
	retryBase  time.Duration
	retryCap   time.Duration
}

func NewClient(cfg ClientConfig) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 20 * time.Second
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.RetryBase <= 0 {
		cfg.RetryBase = time.Second
	}
	if cfg.RetryCap <= 0 {
		cfg.RetryCap = 5 * time.Second
	}

	return &Client{
		httpClient: httpClient,
		userAgent:  cfg.UserAgent,
		timeout:    cfg.Timeout,
		maxRetries: uint64(cfg.MaxRetries),
		retryBase:  cfg.RetryBase,
		retryCap:   cfg.RetryCap,
	}
}

// Get fetches url and returns the response body.
func (c *Client) Get(ctx context.Context, url string, header http.Header) ([]byte, error) {
	return c.do(ctx, http.MethodGet, url, nil, header)
}

// PostJSON posts a JSON payload to url and returns the response body.
func (c *Client) PostJSON(ctx context.Context, url string, payload []byte, header http.Header) ([]byte, error) {
	if header == nil {
		header = http.Header{}
	}
	header.Set("Content-Type", "application/json")
	return c.do(ctx, http.MethodPost, url, payload, header)
}

func (c *Client) do(ctx context.Context, method, url string, payload []byte, header http.Header) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var body []byte
	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(payload))
		if err != nil {
			return backoff.Permanent(err)
		}
		if c.userAgent != "" {
			req.Header.Set("User-Agent", c.userAgent)
		}
		req.Header.Set("Accept-Language", "en-US,en;q=0.5")
		for k, vs := range header {
			for _, v := range vs {
				req.Header.Set(k, v)
			}
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(ctx.Err())
			}
			return err
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusNotFound:
			return backoff.Permanent(ErrVideoUnavailable)
		case resp.StatusCode == http.StatusForbidden, resp.StatusCode == http.StatusTooManyRequests:
			return backoff.Permanent(ErrRateLimited)
		case resp.StatusCode >= 400:
			return fmt.Errorf("upstream returned status %d", resp.StatusCode)
		}

		body, err = io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		return nil
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = c.retryBase
	policy.MaxInterval = c.retryCap
	policy.MaxElapsedTime = 0

	notify := func(err error, wait time.Duration) {
		logger.Debug("Retrying upstream call", map[string]interface{}{
			"url":   url,
			"error": err.Error(),
			"wait":  wait,
		})
	}

	err := backoff.RetryNotify(operation,
		backoff.WithContext(backoff.WithMaxRetries(policy, c.maxRetries), ctx), notify)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return nil, fmt.Errorf("fetching %s: %w", url, ctx.Err())
		}
		return nil, err
	}
	return body, nil
}
