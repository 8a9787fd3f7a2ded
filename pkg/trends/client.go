// Package trends provides a client for the unofficial Google Trends API,
// used to pull rising related queries for seed terms.
package trends

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"

	"github.com/scaile-group/keywords-cli/internal/resilience"
)

const defaultBaseURL = "https://trends.google.com"

// The trends endpoints are aggressive about throttling unauthenticated
// traffic, so the client-side limit is deliberately low.
const defaultRequestsPerSecond = 0.5

// Client defines the Google Trends operations used by the research producer.
type Client interface {
	// RelatedQueries returns rising and top related queries for a term.
	RelatedQueries(ctx context.Context, term, geo string) (*RelatedResult, error)
}

// RelatedResult holds related query sets for one term.
type RelatedResult struct {
	Rising []RelatedQuery
	Top    []RelatedQuery
}

// RelatedQuery is one related query with its relative interest value.
type RelatedQuery struct {
	Query string
	Value int
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

// NewClient creates a new Google Trends client. No API key is required.
func NewClient(opts ...Option) Client {
	c := &httpClient{
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		limiter: rate.NewLimiter(rate.Limit(defaultRequestsPerSecond), 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// exploreResponse carries the widget tokens the explore endpoint hands out.
type exploreResponse struct {
	Widgets []struct {
		ID      string          `json:"id"`
		Token   string          `json:"token"`
		Request json.RawMessage `json:"request"`
	} `json:"widgets"`
}

type relatedResponse struct {
	Default struct {
		RankedList []struct {
			RankedKeyword []struct {
				Query string `json:"query"`
				Value int    `json:"value"`
			} `json:"rankedKeyword"`
		} `json:"rankedList"`
	} `json:"default"`
}

func (c *httpClient) RelatedQueries(ctx context.Context, term, geo string) (*RelatedResult, error) {
	if term == "" {
		return nil, eris.New("trends: term is required")
	}

	token, request, err := c.exploreToken(ctx, term, geo)
	if err != nil {
		return nil, eris.Wrap(err, "trends: related queries")
	}

	q := url.Values{}
	q.Set("hl", "en-US")
	q.Set("tz", "0")
	q.Set("token", token)
	q.Set("req", string(request))

	endpoint := c.baseURL + "/trends/api/widgetdata/relatedsearches?" + q.Encode()

	var out relatedResponse
	if err := c.get(ctx, endpoint, &out); err != nil {
		return nil, eris.Wrap(err, "trends: related queries")
	}

	result := &RelatedResult{}
	// The widget returns two ranked lists: top queries first, rising second.
	for i, list := range out.Default.RankedList {
		queries := make([]RelatedQuery, 0, len(list.RankedKeyword))
		for _, kw := range list.RankedKeyword {
			queries = append(queries, RelatedQuery{Query: kw.Query, Value: kw.Value})
		}
		switch i {
		case 0:
			result.Top = queries
		case 1:
			result.Rising = queries
		}
	}
	return result, nil
}

// exploreToken requests the explore page and extracts the token for the
// RELATED_QUERIES widget.
func (c *httpClient) exploreToken(ctx context.Context, term, geo string) (string, json.RawMessage, error) {
	req := map[string]any{
		"comparisonItem": []map[string]any{{
			"keyword": term,
			"geo":     geo,
			"time":    "today 12-m",
		}},
		"category": 0,
		"property": "",
	}
	reqJSON, err := json.Marshal(req)
	if err != nil {
		return "", nil, eris.Wrap(err, "marshal explore request")
	}

	q := url.Values{}
	q.Set("hl", "en-US")
	q.Set("tz", "0")
	q.Set("req", string(reqJSON))

	endpoint := c.baseURL + "/trends/api/explore?" + q.Encode()

	var out exploreResponse
	if err := c.get(ctx, endpoint, &out); err != nil {
		return "", nil, eris.Wrap(err, "explore")
	}

	for _, w := range out.Widgets {
		if w.ID == "RELATED_QUERIES" {
			return w.Token, w.Request, nil
		}
	}
	return "", nil, eris.New("no RELATED_QUERIES widget in explore response")
}

func (c *httpClient) get(ctx context.Context, endpoint string, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return eris.Wrap(err, "rate limit wait")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return eris.Wrap(err, "create request")
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; keywords-cli)")

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
		err := eris.Errorf("API returned status %d", resp.StatusCode)
		if resilience.IsTransientHTTPStatus(resp.StatusCode) {
			return resilience.NewTransientError(err, resp.StatusCode)
		}
		return err
	}

	if err := json.Unmarshal(stripXSSIPrefix(data), out); err != nil {
		return eris.Wrap(err, "unmarshal response")
	}
	return nil
}

// stripXSSIPrefix removes the anti-XSSI prefix Google prepends to trends
// JSON payloads, e.g. ")]}'," or ")]}'".
func stripXSSIPrefix(data []byte) []byte {
	s := string(data)
	if idx := strings.IndexAny(s, "{["); idx > 0 && idx < 10 {
		prefix := strings.TrimSpace(s[:idx])
		if strings.HasPrefix(prefix, ")]}'") {
			return []byte(s[idx:])
		}
	}
	return data
}
