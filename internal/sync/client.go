// Drova Dash - Station Usage Analytics
// Copyright 2026 Xerz
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Xerz/drova-dash

package sync

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/Xerz/drova-dash/internal/config"
	"github.com/Xerz/drova-dash/internal/logging"
	"github.com/Xerz/drova-dash/internal/metrics"
)

// maxErrorBodySize limits the maximum amount of response body read for error reporting
const maxErrorBodySize = 64 * 1024 // 64KB

// maxResponseSize bounds successful responses; the product catalog is the largest.
const maxResponseSize = 32 << 20 // 32MB

// ErrUnexpectedPayload is returned when a response is valid JSON of the wrong shape.
var ErrUnexpectedPayload = errors.New("unexpected payload")

// StatusError is returned for non-200 responses.
type StatusError struct {
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s failed with status %d: %s", e.URL, e.StatusCode, e.Body)
}

// clientError reports whether the request itself was at fault.
func (e *StatusError) clientError() bool {
	return e.StatusCode >= 400 && e.StatusCode < 500 && e.StatusCode != http.StatusTooManyRequests
}

// Client talks to the public Drova API. Requests are rate limited, retried on
// HTTP 429 and guarded by a circuit breaker.
type Client struct {
	serverURL   string
	hardwareURL string
	productsURL string

	client  *http.Client
	limiter *rate.Limiter
	cb      *gobreaker.CircuitBreaker[[]byte]
	cbName  string

	maxRetries     int
	retryBaseDelay time.Duration
}

// NewClient creates a Drova API client from cfg
func NewClient(cfg *config.DrovaConfig) *Client {
	burst := cfg.Burst
	if burst < 1 {
		burst = 1
	}
	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}

	return &Client{
		serverURL:   cfg.ServerURL,
		hardwareURL: cfg.HardwareURL,
		productsURL: cfg.ProductsURL,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		limiter:        rate.NewLimiter(limit, burst),
		cb:             newCircuitBreaker(breakerName),
		cbName:         breakerName,
		maxRetries:     3,
		retryBaseDelay: time.Second,
	}
}

// Server fetches the public server payload of a station.
func (c *Client) Server(ctx context.Context, uuid string) (map[string]any, error) {
	return c.getObject(ctx, "server", c.serverURL+url.PathEscape(uuid))
}

// Hardware fetches the hardware payload of a station.
func (c *Client) Hardware(ctx context.Context, uuid string) (map[string]any, error) {
	return c.getObject(ctx, "hardware", c.hardwareURL+url.PathEscape(uuid))
}

// ProductTitles fetches the product catalog and maps product ids to titles.
// Items that are not objects or lack an id or title are skipped.
func (c *Client) ProductTitles(ctx context.Context) (map[string]string, error) {
	v, err := c.getJSON(ctx, "products", c.productsURL)
	if err != nil {
		return nil, err
	}
	items, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: product list is %T", ErrUnexpectedPayload, v)
	}

	titles := make(map[string]string, len(items))
	for _, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		id := scalarString(obj["productId"])
		title := scalarString(obj["title"])
		if id == nil || title == nil {
			continue
		}
		titles[*id] = *title
	}
	return titles, nil
}

func (c *Client) getObject(ctx context.Context, endpoint, reqURL string) (map[string]any, error) {
	v, err := c.getJSON(ctx, endpoint, reqURL)
	if err != nil {
		return nil, err
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: %s response is %T", ErrUnexpectedPayload, endpoint, v)
	}
	return obj, nil
}

// getJSON performs a GET and decodes the body with numbers kept as json.Number.
func (c *Client) getJSON(ctx context.Context, endpoint, reqURL string) (any, error) {
	start := time.Now()
	body, err := c.get(ctx, reqURL)
	metrics.DrovaRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.DrovaRequests.WithLabelValues(endpoint, outcome(err)).Inc()
		return nil, err
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		metrics.DrovaRequests.WithLabelValues(endpoint, "invalid").Inc()
		return nil, fmt.Errorf("failed to decode %s response: %w", endpoint, err)
	}
	metrics.DrovaRequests.WithLabelValues(endpoint, "success").Inc()
	return v, nil
}

func outcome(err error) string {
	var statusErr *StatusError
	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return "rejected"
	case errors.As(err, &statusErr):
		return "status_" + strconv.Itoa(statusErr.StatusCode)
	default:
		return "error"
	}
}

// get waits for the rate limiter and performs the request through the breaker.
func (c *Client) get(ctx context.Context, reqURL string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}
	return c.execute(func() ([]byte, error) {
		return c.doRequestWithRateLimit(ctx, reqURL)
	})
}

// doRequestWithRateLimit performs an HTTP request with automatic rate limit handling.
// Implements exponential backoff for HTTP 429 responses (1s, 2s, 4s).
func (c *Client) doRequestWithRateLimit(ctx context.Context, reqURL string) ([]byte, error) {
	for attempt := 0; ; attempt++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("HTTP request failed: %w", err)
		}

		if resp.StatusCode == http.StatusOK {
			body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
			_ = resp.Body.Close()
			if err != nil {
				return nil, fmt.Errorf("failed to read response: %w", err)
			}
			return body, nil
		}

		statusErr := &StatusError{
			URL:        reqURL,
			StatusCode: resp.StatusCode,
			Body:       string(readBodyForError(resp.Body)),
		}
		_ = resp.Body.Close()

		if resp.StatusCode != http.StatusTooManyRequests || attempt >= c.maxRetries {
			return nil, statusErr
		}

		delay := c.retryBaseDelay * time.Duration(1<<uint(attempt))
		if retryAfter := resp.Header.Get("Retry-After"); retryAfter != "" {
			if seconds, err := strconv.Atoi(retryAfter); err == nil {
				delay = time.Duration(seconds) * time.Second
			}
		}
		logging.Debug().Str("url", reqURL).Dur("delay", delay).Msg("Drova API rate limited, backing off")

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// readBodyForError reads the response body for error reporting (max 64KB)
func readBodyForError(r io.Reader) []byte {
	body, err := io.ReadAll(io.LimitReader(r, maxErrorBodySize))
	if err != nil {
		return []byte("(failed to read response body)")
	}
	if len(body) == maxErrorBodySize {
		return append(body, []byte("\n... (truncated)")...)
	}
	return body
}
