package ensembl

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/inodb/varona/internal/extract"
)

const (
	// DefaultRetries bounds how often a chunk is resent after a 429.
	DefaultRetries = 3

	// DefaultTimeout is the per-request HTTP timeout.
	DefaultTimeout = 300 * time.Second

	// LongRetryDelay is slept after a 429 response without a
	// Retry-After header before resending.
	LongRetryDelay = 60 * time.Second
)

// ErrTooManyRetries reports a chunk that kept hitting 429 responses
// past the configured retry bound.
var ErrTooManyRetries = errors.New("too many retries")

// StatusError reports a non-retryable HTTP status from the VEP API.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("VEP API error %d: %s", e.Code, e.Body)
}

// Client queries the VEP region endpoint one chunk at a time.
//
// The API rate-limits aggressively and signals backpressure with 429
// responses, optionally carrying a Retry-After header with the delay in
// seconds. The client blocks on both the request and any backoff sleep;
// chunks are never pipelined.
type Client struct {
	httpClient *http.Client
	baseURL    string
	retries    int
	logger     *zap.Logger
	sleep      func(time.Duration)
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient substitutes the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithBaseURL overrides the REST host, mainly for tests.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithRetries sets how often a chunk is resent after a 429.
func WithRetries(n int) Option {
	return func(c *Client) { c.retries = n }
}

// WithTimeout sets the per-request HTTP timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithLogger sets the logger for retry warnings.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithSleep substitutes the backoff sleep, for tests.
func WithSleep(fn func(time.Duration)) Option {
	return func(c *Client) { c.sleep = fn }
}

// NewClient creates a VEP API client for the given assembly.
func NewClient(assembly Assembly, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		baseURL:    assembly.BaseURL(),
		retries:    DefaultRetries,
		logger:     zap.NewNop(),
		sleep:      time.Sleep,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// defaultParams are sent with every request. pick=1 selects one
// representative consequence per variant, which keeps the flattened
// rows single-valued.
var defaultParams = url.Values{
	"species":       {"human"},
	"variant_class": {"1"},
	"pick":          {"1"},
}

// Annotate submits one chunk of locus query strings and returns the
// decoded response items in response order. If extractor is non-nil it
// is applied to every item.
//
// 429 responses are retried up to the configured bound, sleeping the
// server-supplied Retry-After seconds, or LongRetryDelay when the
// header is absent. Any other non-200 status is fatal with no retry.
// The retry counter is scoped to this chunk.
func (c *Client) Annotate(ctx context.Context, chunk []string, extractor extract.ResponseFunc) ([]map[string]interface{}, error) {
	body, err := json.Marshal(map[string][]string{"variants": chunk})
	if err != nil {
		return nil, fmt.Errorf("encode request body: %w", err)
	}

	endpoint := c.baseURL + "/vep/homo_sapiens/region?" + defaultParams.Encode()

	for retried := 0; retried <= c.retries; {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("VEP API request: %w", err)
		}

		switch resp.StatusCode {
		case http.StatusOK:
			items, err := decodeItems(resp.Body, extractor)
			resp.Body.Close()
			return items, err

		case http.StatusTooManyRequests:
			resp.Body.Close()
			retried++
			delay := LongRetryDelay
			if after := resp.Header.Get("Retry-After"); after != "" {
				secs, err := strconv.Atoi(after)
				if err != nil {
					return nil, fmt.Errorf("invalid Retry-After header %q", after)
				}
				delay = time.Duration(secs) * time.Second
				c.logger.Warn("API code 429 with Retry-After, retrying",
					zap.Duration("sleep", delay))
			} else {
				c.logger.Warn("API code 429 with no Retry-After, retrying",
					zap.Duration("sleep", delay))
			}
			c.sleep(delay)

		default:
			respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			resp.Body.Close()
			return nil, &StatusError{Code: resp.StatusCode, Body: string(respBody)}
		}
	}

	return nil, ErrTooManyRetries
}

// decodeItems decodes the JSON array response and maps the optional
// extractor over every item, preserving order.
func decodeItems(r io.Reader, extractor extract.ResponseFunc) ([]map[string]interface{}, error) {
	var items []map[string]interface{}
	if err := json.NewDecoder(r).Decode(&items); err != nil {
		return nil, fmt.Errorf("decode VEP response: %w", err)
	}
	if extractor == nil {
		return items, nil
	}
	extracted := make([]map[string]interface{}, len(items))
	for i, item := range items {
		row, err := extractor(item)
		if err != nil {
			return nil, err
		}
		extracted[i] = row
	}
	return extracted, nil
}
