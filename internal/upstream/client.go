// Headlines - News Aggregation and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/headlines

package upstream

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"
)

// maxErrorBodySize caps how much of a failed response is kept for the error message.
const maxErrorBodySize = 1024

// DefaultTimeout bounds every outbound call.
const DefaultTimeout = 10 * time.Second

// ClientConfig configures a Client.
type ClientConfig struct {
	Name              string
	Timeout           time.Duration
	RequestsPerSecond float64 // 0 disables pacing
	Burst             int
	Breaker           *BreakerSettings // nil uses DefaultBreakerSettings
	HTTPClient        *http.Client
}

// Client is a JSON-over-HTTP client with pacing, a circuit breaker and a
// per-call timeout.
type Client struct {
	name    string
	http    *http.Client
	limiter *rate.Limiter
	breaker *Breaker
	timeout time.Duration
}

// NewClient creates a Client from cfg.
func NewClient(cfg ClientConfig) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	settings := DefaultBreakerSettings()
	if cfg.Breaker != nil {
		settings = *cfg.Breaker
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	var limiter *rate.Limiter
	if cfg.RequestsPerSecond > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}

	return &Client{
		name:    cfg.Name,
		http:    httpClient,
		limiter: limiter,
		breaker: NewBreaker(cfg.Name, settings),
		timeout: cfg.Timeout,
	}
}

// Breaker exposes the client's circuit breaker.
func (c *Client) Breaker() *Breaker { return c.breaker }

// GetJSON issues a GET and decodes the JSON body into out.
func (c *Client) GetJSON(ctx context.Context, reqURL string, header http.Header, out any) error {
	return c.do(ctx, http.MethodGet, reqURL, header, nil, out)
}

// PostJSON encodes body as JSON, POSTs it and decodes the JSON reply into out.
func (c *Client) PostJSON(ctx context.Context, reqURL string, header http.Header, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request body: %w", err)
	}
	return c.do(ctx, http.MethodPost, reqURL, header, payload, out)
}

// GetRaw issues a GET and returns the raw body (used by feed parsing).
func (c *Client) GetRaw(ctx context.Context, reqURL string, header http.Header) ([]byte, error) {
	var raw []byte
	err := c.call(ctx, http.MethodGet, reqURL, header, nil, func(r io.Reader) error {
		b, err := io.ReadAll(r)
		raw = b
		return err
	})
	return raw, err
}

func (c *Client) do(ctx context.Context, method, reqURL string, header http.Header, payload []byte, out any) error {
	return c.call(ctx, method, reqURL, header, payload, func(r io.Reader) error {
		if out == nil {
			return nil
		}
		if err := json.NewDecoder(r).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
		return nil
	})
}

func (c *Client) call(ctx context.Context, method, reqURL string, header http.Header, payload []byte, read func(io.Reader) error) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter: %w", err)
		}
	}

	_, err := Execute(c.breaker, func() (struct{}, error) {
		var body io.Reader = http.NoBody
		if payload != nil {
			body = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, reqURL, body)
		if err != nil {
			return struct{}{}, fmt.Errorf("create request failed: %w", err)
		}
		for k, vs := range header {
			for _, v := range vs {
				req.Header.Add(k, v)
			}
		}
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			return struct{}{}, fmt.Errorf("request failed: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return struct{}{}, &StatusError{Code: resp.StatusCode, Body: string(readBodyForError(resp.Body))}
		}
		return struct{}{}, read(resp.Body)
	})
	return err
}

// StatusError is a non-2xx upstream response.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("request failed with status %d: %s", e.Code, e.Body)
}

// readBodyForError reads at most maxErrorBodySize bytes for an error message.
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
