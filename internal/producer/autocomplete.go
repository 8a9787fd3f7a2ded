package producer

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/scaile-group/keywords-cli/internal/model"
	"github.com/scaile-group/keywords-cli/internal/pipeline"
	"github.com/scaile-group/keywords-cli/internal/registry"
	"github.com/scaile-group/keywords-cli/pkg/autocomplete"
)

// Autocomplete expands the company's seed terms through the public suggest
// endpoint: each seed term is queried bare and with each question starter
// prepended. The client rate-limits itself; failures are logged and
// skipped. Suggestions identical to their query are ignored.
func Autocomplete(ctx context.Context, ac autocomplete.Client, reg *registry.Registry, company *model.CompanyInfo, language string, pool *pipeline.Pool) int {
	seeds := company.SeedTerms()
	if len(seeds) == 0 {
		return 0
	}

	queries := make([]string, 0, len(seeds)*(1+len(reg.QuestionStarters)))
	for _, seed := range seeds {
		queries = append(queries, seed)
		for _, starter := range reg.QuestionStarters {
			queries = append(queries, starter+" "+seed)
		}
	}

	added := 0
	for _, query := range queries {
		suggestions, err := ac.Suggest(ctx, query, language)
		if err != nil {
			if ctx.Err() != nil {
				return added
			}
			zap.L().Warn("producer: autocomplete query failed, skipping",
				zap.String("query", query),
				zap.Error(err))
			continue
		}

		kws := make([]model.Keyword, 0, len(suggestions))
		for _, s := range suggestions {
			if strings.EqualFold(strings.TrimSpace(s), query) {
				continue
			}
			kws = append(kws, model.Keyword{
				Text:       s,
				Source:     model.SourceAutocomplete,
				Intent:     researchIntent(s, reg),
				IsQuestion: isQuestion(s, reg),
			})
		}
		added += pool.AddAll(kws)
	}

	zap.L().Debug("producer: autocomplete expansion complete",
		zap.Int("queries", len(queries)),
		zap.Int("accepted", added))
	return added
}
