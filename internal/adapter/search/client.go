package search

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/fergoeqs/second-service/internal/core/domain"
	"github.com/hashicorp/go-cleanhttp"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog"
)

// SearchPath is appended to the configured base URL for every forwarded query
const SearchPath = "/search"

// maxErrorBodyBytes caps how much of a failed upstream body is kept for logs
const maxErrorBodyBytes = 1024

// Options configures a Client
type Options struct {
	BaseURL string
	Timeout time.Duration
	// RootCAs replaces the system roots when set
	RootCAs *x509.CertPool
	Logger  zerolog.Logger
}

// Client forwards queries to the search service's /search endpoint
type Client struct {
	url     string
	timeout time.Duration
	http    *retryablehttp.Client
	logger  zerolog.Logger
}

// NewClient creates a new search service client
func NewClient(opts Options) (*Client, error) {
	if opts.BaseURL == "" {
		return nil, fmt.Errorf("search service base URL is required")
	}
	if opts.Timeout <= 0 {
		return nil, fmt.Errorf("search service timeout must be positive")
	}

	transport := cleanhttp.DefaultPooledTransport()
	transport.TLSClientConfig = &tls.Config{
		MinVersion: tls.VersionTLS12,
		RootCAs:    opts.RootCAs,
	}

	httpClient := &http.Client{
		Transport: transport,
		Timeout:   opts.Timeout,
	}

	// Forwarding is single-shot: one attempt, the response or error is
	// handed back as-is.
	rc := retryablehttp.NewClient()
	rc.HTTPClient = httpClient
	rc.RetryMax = 0
	rc.CheckRetry = noRetry
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler
	rc.Logger = leveledLogger{logger: opts.Logger}

	return &Client{
		url:     strings.TrimRight(opts.BaseURL, "/") + SearchPath,
		timeout: opts.Timeout,
		http:    rc,
		logger:  opts.Logger,
	}, nil
}

// URL returns the full endpoint queries are posted to
func (c *Client) URL() string {
	return c.url
}

// Search posts body to the search service and returns its response verbatim.
// Any transport failure, timeout or non-2xx status yields an *UpstreamError.
func (c *Client) Search(ctx context.Context, body []byte) (*domain.UpstreamResult, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, c.url, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create search request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	upstreamRequestDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		if resp != nil {
			resp.Body.Close()
		}
		uErr := newTransportError(err)
		c.record(uErr)
		return nil, uErr
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		uErr := &UpstreamError{
			StatusCode: resp.StatusCode,
			Cause:      fmt.Errorf("%s: %s", resp.Status, strings.TrimSpace(string(snippet))),
		}
		c.record(uErr)
		return nil, uErr
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		uErr := newTransportError(fmt.Errorf("failed to read response: %w", err))
		c.record(uErr)
		return nil, uErr
	}

	upstreamRequestsTotal.WithLabelValues(outcomeSuccess).Inc()

	return &domain.UpstreamResult{
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        data,
	}, nil
}

func (c *Client) record(err *UpstreamError) {
	outcome := outcomeUnreachable
	switch {
	case err.Timeout:
		outcome = outcomeTimeout
	case err.StatusCode != 0:
		outcome = outcomeStatusError
	}
	upstreamRequestsTotal.WithLabelValues(outcome).Inc()

	c.logger.Warn().
		Err(err.Cause).
		Str("url", c.url).
		Int("status", err.StatusCode).
		Bool("timeout", err.Timeout).
		Msg("search request failed")
}

func noRetry(ctx context.Context, _ *http.Response, _ error) (bool, error) {
	return false, ctx.Err()
}

// leveledLogger adapts zerolog to retryablehttp.LeveledLogger
type leveledLogger struct {
	logger zerolog.Logger
}

func (l leveledLogger) Error(msg string, keysAndValues ...interface{}) {
	l.logger.Error().Fields(keysAndValues).Msg(msg)
}

func (l leveledLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Info().Fields(keysAndValues).Msg(msg)
}

func (l leveledLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.logger.Debug().Fields(keysAndValues).Msg(msg)
}

func (l leveledLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.logger.Warn().Fields(keysAndValues).Msg(msg)
}
