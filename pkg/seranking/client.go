// Package seranking provides a client for the SE Ranking research API,
// used for competitor gap analysis and keyword volume lookups.
package seranking

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"

	"github.com/scaile-group/keywords-cli/internal/resilience"
)

const defaultBaseURL = "https://api4.seranking.com"

// Client defines the SE Ranking API operations.
type Client interface {
	// DomainKeywords returns the organic keywords a domain ranks for in the
	// given regional database.
	DomainKeywords(ctx context.Context, domain, source string, limit int) ([]DomainKeyword, error)
	// KeywordMetrics returns volume, difficulty and CPC for a list of keywords.
	KeywordMetrics(ctx context.Context, keywords []string, source string) ([]KeywordMetric, error)
}

// DomainKeyword is one organic ranking entry for a domain.
type DomainKeyword struct {
	Keyword    string  `json:"keyword"`
	Position   int     `json:"position"`
	Volume     int     `json:"volume"`
	Difficulty int     `json:"difficulty"`
	CPC        float64 `json:"cpc"`
}

// KeywordMetric carries research metrics for one keyword.
type KeywordMetric struct {
	Keyword    string  `json:"keyword"`
	Volume     int     `json:"volume"`
	Difficulty int     `json:"difficulty"`
	CPC        float64 `json:"cpc"`
}

type httpClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
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

// NewClient creates a new SE Ranking API client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *httpClient) DomainKeywords(ctx context.Context, domain, source string, limit int) ([]DomainKeyword, error) {
	if domain == "" {
		return nil, eris.New("seranking: domain is required")
	}
	if limit <= 0 {
		limit = 100
	}

	q := url.Values{}
	q.Set("domain", domain)
	q.Set("source", source)
	q.Set("limit", fmt.Sprint(limit))

	endpoint := fmt.Sprintf("%s/research/%s/organic/keywords/?%s", c.baseURL, source, q.Encode())

	var out struct {
		Keywords []DomainKeyword `json:"keywords"`
	}
	if err := c.do(ctx, http.MethodGet, endpoint, nil, &out); err != nil {
		return nil, eris.Wrap(err, "seranking: domain keywords")
	}
	return out.Keywords, nil
}

func (c *httpClient) KeywordMetrics(ctx context.Context, keywords []string, source string) ([]KeywordMetric, error) {
	if len(keywords) == 0 {
		return nil, nil
	}

	body := map[string]any{
		"keywords": keywords,
		"source":   source,
	}

	endpoint := c.baseURL + "/research/keywords/analyze/"

	var out []KeywordMetric
	if err := c.do(ctx, http.MethodPost, endpoint, body, &out); err != nil {
		return nil, eris.Wrap(err, "seranking: keyword metrics")
	}
	return out, nil
}

func (c *httpClient) do(ctx context.Context, method, endpoint string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return eris.Wrap(err, "marshal request")
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return eris.Wrap(err, "create request")
	}
	req.Header.Set("Authorization", "Token "+c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return resilience.NewTransientError(eris.Wrap(err, "execute request"), 0)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return eris.Wrap(err, "read response")
	}

	if resp.StatusCode != http.StatusOK {
		err := eris.Errorf("API returned status %d: %s", resp.StatusCode, string(data))
		if resilience.IsTransientHTTPStatus(resp.StatusCode) {
			return resilience.NewTransientError(err, resp.StatusCode)
		}
		return err
	}

	if err := json.Unmarshal(data, out); err != nil {
		return eris.Wrap(err, "unmarshal response")
	}
	return nil
}
