package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/leapstack-labs/shortlist/internal/filter"
	"github.com/leapstack-labs/shortlist/internal/leads"
)

// DefaultTimeout bounds one upstream call.
const DefaultTimeout = 10 * time.Second

// maxErrorBody caps how much of a failed response is kept for the error.
const maxErrorBody = 512

// HTTPConfig configures an HTTPClient.
type HTTPConfig struct {
	URL     string
	Timeout time.Duration
	// RateLimit is the sustained request rate per second; zero disables limiting.
	RateLimit float64
	Burst     int
	Logger    *slog.Logger
}

// HTTPClient posts the filter snapshot as JSON to an upstream URL.
type HTTPClient struct {
	url     string
	client  *http.Client
	limiter *rate.Limiter
	logger  *slog.Logger
}

// NewHTTPClient creates an upstream client.
func NewHTTPClient(cfg HTTPConfig) (*HTTPClient, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("search url: %w", ErrNotConfigured)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	c := &HTTPClient{
		url:    cfg.URL,
		client: &http.Client{Timeout: timeout},
		logger: logger,
	}
	if cfg.RateLimit > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}
	return c, nil
}

// Search sends the snapshot and decodes the results payload.
func (c *HTTPClient) Search(ctx context.Context, s filter.Snapshot) (leads.ResultsPayload, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return leads.ResultsPayload{}, fmt.Errorf("wait for search slot: %w", err)
		}
	}

	body, err := json.Marshal(s)
	if err != nil {
		return leads.ResultsPayload{}, fmt.Errorf("encode filters: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return leads.ResultsPayload{}, fmt.Errorf("build search request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return leads.ResultsPayload{}, fmt.Errorf("search request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	c.logger.Debug("search response", "status", resp.StatusCode, "duration", time.Since(start))

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return leads.ResultsPayload{}, &StatusError{Code: resp.StatusCode, Body: string(bytes.TrimSpace(msg))}
	}

	payload, err := leads.Decode(resp.Body)
	if err != nil {
		return leads.ResultsPayload{}, fmt.Errorf("decode search response: %w", err)
	}
	return payload, nil
}

// StatusError is a non-200 upstream response.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("search upstream returned %d", e.Code)
	}
	return fmt.Sprintf("search upstream returned %d: %s", e.Code, e.Body)
}
