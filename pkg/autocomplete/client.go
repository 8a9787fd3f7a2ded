// Package autocomplete provides a client for the Google suggest endpoint,
// used to expand seed terms into real user queries.
package autocomplete

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"

	"github.com/scaile-group/keywords-cli/internal/resilience"
)

const defaultBaseURL = "https://suggestqueries.google.com"

const defaultRequestsPerSecond = 1

// Client defines the suggest operations used by the autocomplete producer.
type Client interface {
	// Suggest returns autocomplete suggestions for a partial query.
	Suggest(ctx context.Context, query, language string) ([]string, error)
}

type httpClient struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the API base URL. Useful for testing.
func WithBaseURL(u string) Option {
	return func(c *httpClient) {
		c.baseURL = u
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.httpClient = hc
	}
}

// WithRateLimit overrides the client-side request rate limit.
func WithRateLimit(rps float64) Option {
	return func(c *httpClient) {
		c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// NewClient creates a new suggest client. No API key is required.
func NewClient(opts ...Option) Client {
	c := &httpClient{
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		limiter: rate.NewLimiter(rate.Limit(defaultRequestsPerSecond), 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *httpClient) Suggest(ctx context.Context, query, language string) ([]string, error) {
	if query == "" {
		return nil, eris.New("autocomplete: query is required")
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "autocomplete: rate limit wait")
	}

	q := url.Values{}
	q.Set("client", "firefox")
	q.Set("q", query)
	if language != "" {
		q.Set("hl", language)
	}

	endpoint := c.baseURL + "/complete/search?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, eris.Wrap(err, "autocomplete: create request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, resilience.NewTransientError(eris.Wrap(err, "autocomplete: execute request"), 0)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "autocomplete: read response")
	}

	if resp.StatusCode != http.StatusOK {
		err := eris.Errorf("autocomplete: API returned status %d", resp.StatusCode)
		if resilience.IsTransientHTTPStatus(resp.StatusCode) {
			return nil, resilience.NewTransientError(err, resp.StatusCode)
		}
		return nil, err
	}

	// The firefox client format is ["query", ["suggestion", ...]].
	var payload []json.RawMessage
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, eris.Wrap(err, "autocomplete: unmarshal response")
	}
	if len(payload) < 2 {
		return nil, nil
	}

	var suggestions []string
	if err := json.Unmarshal(payload[1], &suggestions); err != nil {
		return nil, eris.Wrap(err, "autocomplete: unmarshal suggestions")
	}
	return suggestions, nil
}
