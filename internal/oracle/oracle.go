// Package oracle models the LLM as a capability interface: scoring, semantic
// grouping, clustering, generation, and research are judgment calls answered
// by a noisy external service. The pipeline depends only on the interface so
// it can be tested against a deterministic fake.
package oracle

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/scaile-group/keywords-cli/internal/model"
	"github.com/scaile-group/keywords-cli/internal/resilience"
)

// Oracle is the LLM capability surface the pipeline and producers consume.
// Implementations must tolerate partial and malformed model output; callers
// treat degraded results as first-class outcomes, not exceptions.
type Oracle interface {
	// GenerateKeywords produces one batch of keyword candidates for the
	// company, honoring per-intent minimum counts.
	GenerateKeywords(ctx context.Context, req GenerateRequest) ([]model.Keyword, error)

	// ScoreBatch scores each text 0-100 for company fit. The returned map is
	// keyed by the echoed keyword text; texts the model dropped are absent.
	ScoreBatch(ctx context.Context, companyContext string, texts []string) (map[string]int, error)

	// DedupGroups partitions texts into groups of semantically equivalent
	// candidates. Singleton groups may be omitted.
	DedupGroups(ctx context.Context, texts []string) ([][]string, error)

	// ClusterKeywords assigns each text to a named topical cluster,
	// targeting clusterCount clusters. Returns text -> cluster name.
	ClusterKeywords(ctx context.Context, texts []string, clusterCount int) (map[string]string, error)

	// Research mines a channel (reddit, quora, forum) for real user queries
	// about the company's space via search grounding.
	Research(ctx context.Context, company *model.CompanyInfo, channel string) ([]string, error)

	// AnalyzeCompany builds a rich company profile from a website URL and
	// optional seed description.
	AnalyzeCompany(ctx context.Context, websiteURL, description string) (*model.CompanyInfo, error)
}

// GenerateRequest describes one generation batch.
type GenerateRequest struct {
	Company *model.CompanyInfo
	// Count is the number of keywords requested in this batch.
	Count int
	// IntentQuota sets per-intent minimum counts within the batch.
	IntentQuota map[model.Intent]int
	Language    string
	Region      string
	// Exclude lists keywords already generated, to steer away from repeats.
	Exclude []string
}

// completionRequest is what an oracle backend turns into one model call.
type completionRequest struct {
	prompt string
	// search enables provider-side search grounding.
	search bool
	// temperature overrides the backend default when non-nil.
	temperature *float64
}

// backend is a raw text-completion provider. Implementations wrap one model
// API; llmOracle layers retry, circuit breaking, and parsing on top.
type backend interface {
	Name() string
	Complete(ctx context.Context, req completionRequest) (string, error)
}

// llmOracle implements Oracle over any backend.
type llmOracle struct {
	backend backend
	retry   resilience.RetryConfig
	breaker *resilience.CircuitBreaker
}

// Option configures the oracle.
type Option func(*llmOracle)

// WithRetryConfig overrides the default retry policy.
func WithRetryConfig(cfg resilience.RetryConfig) Option {
	return func(o *llmOracle) {
		o.retry = cfg
	}
}

// WithCircuitBreaker overrides the default circuit breaker.
func WithCircuitBreaker(cb *resilience.CircuitBreaker) Option {
	return func(o *llmOracle) {
		o.breaker = cb
	}
}

func newLLMOracle(b backend, opts ...Option) *llmOracle {
	o := &llmOracle{
		backend: b,
		retry:   resilience.DefaultRetryConfig(),
		breaker: resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{}),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// complete runs one model call through the circuit breaker and retry policy.
func (o *llmOracle) complete(ctx context.Context, operation string, req completionRequest) (string, error) {
	cfg := o.retry
	cfg.OnRetry = resilience.RetryLogger(o.backend.Name(), operation)

	return resilience.DoVal(ctx, cfg, func(ctx context.Context) (string, error) {
		return resilience.ExecuteVal(ctx, o.breaker, func(ctx context.Context) (string, error) {
			return o.backend.Complete(ctx, req)
		})
	})
}

func (o *llmOracle) GenerateKeywords(ctx context.Context, req GenerateRequest) ([]model.Keyword, error) {
	if req.Company == nil {
		return nil, eris.New("oracle: company is required")
	}
	if req.Count <= 0 {
		return nil, eris.New("oracle: batch count must be positive")
	}

	text, err := o.complete(ctx, "generate", completionRequest{
		prompt: buildGeneratePrompt(req),
	})
	if err != nil {
		return nil, eris.Wrap(err, "oracle: generate keywords")
	}

	keywords, err := parseGeneratedKeywords(text)
	if err != nil {
		return nil, eris.Wrap(err, "oracle: generate keywords")
	}
	return keywords, nil
}

func (o *llmOracle) ScoreBatch(ctx context.Context, companyContext string, texts []string) (map[string]int, error) {
	if len(texts) == 0 {
		return map[string]int{}, nil
	}

	text, err := o.complete(ctx, "score", completionRequest{
		prompt: buildScorePrompt(companyContext, texts),
	})
	if err != nil {
		return nil, eris.Wrap(err, "oracle: score batch")
	}

	scores, err := parseScores(text)
	if err != nil {
		return nil, eris.Wrap(err, "oracle: score batch")
	}
	return scores, nil
}

func (o *llmOracle) DedupGroups(ctx context.Context, texts []string) ([][]string, error) {
	if len(texts) < 2 {
		return nil, nil
	}

	text, err := o.complete(ctx, "dedup", completionRequest{
		prompt: buildDedupPrompt(texts),
	})
	if err != nil {
		return nil, eris.Wrap(err, "oracle: dedup groups")
	}

	groups, err := parseGroups(text)
	if err != nil {
		return nil, eris.Wrap(err, "oracle: dedup groups")
	}
	return groups, nil
}

func (o *llmOracle) ClusterKeywords(ctx context.Context, texts []string, clusterCount int) (map[string]string, error) {
	if len(texts) == 0 {
		return map[string]string{}, nil
	}
	if clusterCount <= 0 {
		return nil, eris.New("oracle: cluster count must be positive")
	}

	text, err := o.complete(ctx, "cluster", completionRequest{
		prompt: buildClusterPrompt(texts, clusterCount),
	})
	if err != nil {
		return nil, eris.Wrap(err, "oracle: cluster keywords")
	}

	assignments, err := parseClusters(text)
	if err != nil {
		return nil, eris.Wrap(err, "oracle: cluster keywords")
	}
	return assignments, nil
}

func (o *llmOracle) Research(ctx context.Context, company *model.CompanyInfo, channel string) ([]string, error) {
	if company == nil {
		return nil, eris.New("oracle: company is required")
	}

	text, err := o.complete(ctx, "research", completionRequest{
		prompt: buildResearchPrompt(company, channel),
		search: true,
	})
	if err != nil {
		return nil, eris.Wrapf(err, "oracle: research %s", channel)
	}

	queries, err := parseResearchQueries(text)
	if err != nil {
		return nil, eris.Wrapf(err, "oracle: research %s", channel)
	}

	zap.L().Debug("research channel mined",
		zap.String("channel", channel),
		zap.Int("queries", len(queries)))
	return queries, nil
}

func (o *llmOracle) AnalyzeCompany(ctx context.Context, websiteURL, description string) (*model.CompanyInfo, error) {
	if websiteURL == "" && description == "" {
		return nil, eris.New("oracle: website URL or description is required")
	}

	text, err := o.complete(ctx, "analyze", completionRequest{
		prompt: buildAnalyzePrompt(websiteURL, description),
		search: websiteURL != "",
	})
	if err != nil {
		return nil, eris.Wrap(err, "oracle: analyze company")
	}

	info, err := parseCompanyInfo(text)
	if err != nil {
		return nil, eris.Wrap(err, "oracle: analyze company")
	}
	return info, nil
}
