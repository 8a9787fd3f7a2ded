package producer

import (
	"context"

	"go.uber.org/zap"

	"github.com/scaile-group/keywords-cli/internal/model"
	"github.com/scaile-group/keywords-cli/internal/pipeline"
	"github.com/scaile-group/keywords-cli/internal/registry"
	"github.com/scaile-group/keywords-cli/pkg/trends"
)

// Trends expands seed terms with related queries from the trends widget
// API. Rising queries are preferred over top queries since they signal
// growing demand; both feed the pool. Failures are logged and skipped.
func Trends(ctx context.Context, tc trends.Client, reg *registry.Registry, company *model.CompanyInfo, geo string, pool *pipeline.Pool) int {
	added := 0
	for _, seed := range company.SeedTerms() {
		related, err := tc.RelatedQueries(ctx, seed, geo)
		if err != nil {
			if ctx.Err() != nil {
				return added
			}
			zap.L().Warn("producer: trends lookup failed, skipping",
				zap.String("term", seed),
				zap.Error(err))
			continue
		}

		queries := make([]trends.RelatedQuery, 0, len(related.Rising)+len(related.Top))
		queries = append(queries, related.Rising...)
		queries = append(queries, related.Top...)

		kws := make([]model.Keyword, 0, len(queries))
		for _, q := range queries {
			kws = append(kws, model.Keyword{
				Text:       q.Query,
				Source:     model.SourceTrends,
				Intent:     researchIntent(q.Query, reg),
				IsQuestion: isQuestion(q.Query, reg),
			})
		}
		added += pool.AddAll(kws)
	}

	zap.L().Debug("producer: trends expansion complete", zap.Int("accepted", added))
	return added
}
