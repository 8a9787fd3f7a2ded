// Package dataforseo provides a client for the DataForSEO API, used for
// SERP People Also Ask extraction and search volume lookups.
package dataforseo

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"

	"github.com/scaile-group/keywords-cli/internal/resilience"
)

const defaultBaseURL = "https://api.dataforseo.com"

// DataForSEO caps live endpoints at roughly 2000 requests a minute, but we
// stay far under that to keep costs bounded.
const defaultRequestsPerSecond = 2

// Client defines the DataForSEO API operations.
type Client interface {
	// PeopleAlsoAsk returns the People Also Ask questions from a live Google
	// SERP for the given keyword.
	PeopleAlsoAsk(ctx context.Context, keyword, location, language string) ([]string, error)
	// SearchVolume returns monthly search volume for a batch of keywords.
	SearchVolume(ctx context.Context, keywords []string, location, language string) ([]VolumeResult, error)
}

// VolumeResult carries search volume data for one keyword.
type VolumeResult struct {
	Keyword      string `json:"keyword"`
	SearchVolume int    `json:"search_volume"`
	Competition  string `json:"competition"`
}

type httpClient struct {
	login      string
	password   string
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

// NewClient creates a new DataForSEO client authenticated with the given
// login and password (HTTP basic auth).
func NewClient(login, password string, opts ...Option) Client {
	c := &httpClient{
		login:    login,
		password: password,
		baseURL:  defaultBaseURL,
		httpClient: &http.Client{
			Timeout: 90 * time.Second,
		},
		limiter: rate.NewLimiter(rate.Limit(defaultRequestsPerSecond), 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// task mirrors the task envelope DataForSEO wraps every response in.
type task[T any] struct {
	StatusCode int `json:"status_code"`
	Result     []T `json:"result"`
}

type apiResponse[T any] struct {
	StatusCode int       `json:"status_code"`
	Tasks      []task[T] `json:"tasks"`
}

type serpResult struct {
	Items []serpItem `json:"items"`
}

type serpItem struct {
	Type  string     `json:"type"`
	Items []paaChild `json:"items"`
}

type paaChild struct {
	Title string `json:"title"`
}

func (c *httpClient) PeopleAlsoAsk(ctx context.Context, keyword, location, language string) ([]string, error) {
	if keyword == "" {
		return nil, eris.New("dataforseo: keyword is required")
	}

	payload := []map[string]any{{
		"keyword":       keyword,
		"location_name": location,
		"language_code": language,
		"depth":         10,
	}}

	var out apiResponse[serpResult]
	if err := c.do(ctx, "/v3/serp/google/organic/live/advanced", payload, &out); err != nil {
		return nil, eris.Wrap(err, "dataforseo: people also ask")
	}

	var questions []string
	for _, t := range out.Tasks {
		for _, r := range t.Result {
			for _, item := range r.Items {
				if item.Type != "people_also_ask" {
					continue
				}
				for _, child := range item.Items {
					if child.Title != "" {
						questions = append(questions, child.Title)
					}
				}
			}
		}
	}
	return questions, nil
}

func (c *httpClient) SearchVolume(ctx context.Context, keywords []string, location, language string) ([]VolumeResult, error) {
	if len(keywords) == 0 {
		return nil, nil
	}

	payload := []map[string]any{{
		"keywords":      keywords,
		"location_name": location,
		"language_code": language,
	}}

	var out apiResponse[VolumeResult]
	if err := c.do(ctx, "/v3/keywords_data/google_ads/search_volume/live", payload, &out); err != nil {
		return nil, eris.Wrap(err, "dataforseo: search volume")
	}

	var results []VolumeResult
	for _, t := range out.Tasks {
		results = append(results, t.Result...)
	}
	return results, nil
}

func (c *httpClient) do(ctx context.Context, path string, payload, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return eris.Wrap(err, "rate limit wait")
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return eris.Wrap(err, "marshal request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return eris.Wrap(err, "create request")
	}
	req.SetBasicAuth(c.login, c.password)
	req.Header.Set("Content-Type", "application/json")

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
