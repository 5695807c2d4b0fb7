package inventory

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/lensfinder/backend/internal/domain"
	"golang.org/x/time/rate"
)

// ClientConfig holds settings for the inventory API client
type ClientConfig struct {
	BaseURL    string
	Token      string        // fallback when the request context carries none
	Timeout    time.Duration // per HTTP request
	RateLimit  float64       // requests per second
	Burst      int
	MaxRetries int
}

// Client handles communication with the lens inventory API
type Client struct {
	httpClient  *http.Client
	baseURL     string
	token       string
	maxRetries  int
	rateLimiter *rate.Limiter
	debug       bool
}

// NewClient creates a new inventory API client
func NewClient(config ClientConfig) *Client {
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	limit := config.RateLimit
	if limit <= 0 {
		limit = 5
	}
	burst := config.Burst
	if burst <= 0 {
		burst = 10
	}
	retries := config.MaxRetries
	if retries <= 0 {
		retries = 3
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL:     strings.TrimRight(config.BaseURL, "/"),
		token:       config.Token,
		maxRetries:  retries,
		rateLimiter: rate.NewLimiter(rate.Limit(limit), burst),
	}
}

// SetDebug enables or disables debug logging
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

// exponentialBackoff returns the wait before the next attempt: 500ms, 1s, 2s, ...
func exponentialBackoff(attempt int) time.Duration {
	return time.Duration(500*(1<<(attempt-1))) * time.Millisecond
}

// doRequest executes an authenticated HTTP GET request
func (c *Client) doRequest(ctx context.Context, reqURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "LensFinder/1.0")
	req.Header.Set("Accept", "application/json")

	token := c.token
	if fromCtx, ok := domain.TokenFromContext(ctx); ok {
		token = fromCtx
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return c.httpClient.Do(req)
}

// ListLenses fetches the whole contact lens catalog
func (c *Client) ListLenses(ctx context.Context) ([]domain.LensProduct, error) {
	reqURL := c.baseURL + "/contact-lenses"
	if c.debug {
		log.Printf("[INVENTORY] GET %s", reqURL)
	}

	var lastErr error
	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter error: %w", err)
		}

		resp, err := c.doRequest(ctx, reqURL)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			log.Printf("[INVENTORY] Request error (attempt %d): %v", attempt, err)
			lastErr = err
			if !c.sleep(ctx, attempt) {
				return nil, ctx.Err()
			}
			continue
		}

		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			lastErr = fmt.Errorf("failed to read response: %w", readErr)
			if !c.sleep(ctx, attempt) {
				return nil, ctx.Err()
			}
			continue
		}

		switch {
		case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
			return nil, fmt.Errorf("%w: status %d", domain.ErrCatalogUnauthorized, resp.StatusCode)
		case resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests:
			log.Printf("[INVENTORY] API error (attempt %d) - Status: %d", attempt, resp.StatusCode)
			lastErr = fmt.Errorf("inventory API status %d", resp.StatusCode)
			if !c.sleep(ctx, attempt) {
				return nil, ctx.Err()
			}
			continue
		case resp.StatusCode != http.StatusOK:
			return nil, fmt.Errorf("inventory API status %d: %s", resp.StatusCode, truncate(string(body), 200))
		}

		var records []LensRecord
		if err := json.Unmarshal(body, &records); err != nil {
			return nil, fmt.Errorf("failed to decode response: %w", err)
		}

		lenses := MapToLensProducts(records)
		if c.debug {
			log.Printf("[INVENTORY] Received %d lenses", len(lenses))
		}
		return lenses, nil
	}

	log.Printf("[INVENTORY] All %d attempts failed", c.maxRetries)
	return nil, lastErr
}

// sleep waits out the backoff unless there are no attempts left or ctx ends
func (c *Client) sleep(ctx context.Context, attempt int) bool {
	if attempt >= c.maxRetries {
		return true
	}
	timer := time.NewTimer(exponentialBackoff(attempt))
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
