package producer

import (
	"context"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/scaile-group/keywords-cli/internal/model"
	"github.com/scaile-group/keywords-cli/internal/pipeline"
	"github.com/scaile-group/keywords-cli/pkg/seranking"
)

// gapKeywordLimit caps how many gap keywords one competitor contributes.
const gapKeywordLimit = 100

// Gap pulls the keywords each competitor ranks for from SE Ranking and
// feeds them into the pool with volume and difficulty already attached.
// The refinement stages score them like any other candidate; the metadata
// rides through untouched. A failed competitor is logged and skipped.
func Gap(ctx context.Context, sr seranking.Client, competitors []string, source string, maxCompetitors int, pool *pipeline.Pool) int {
	if maxCompetitors > 0 && len(competitors) > maxCompetitors {
		zap.L().Info("producer: truncating competitor list",
			zap.Int("given", len(competitors)),
			zap.Int("max", maxCompetitors))
		competitors = competitors[:maxCompetitors]
	}

	added := 0
	for _, competitor := range competitors {
		domain := normalizeDomain(competitor)
		if domain == "" {
			zap.L().Warn("producer: skipping unparseable competitor", zap.String("competitor", competitor))
			continue
		}

		found, err := sr.DomainKeywords(ctx, domain, source, gapKeywordLimit)
		if err != nil {
			if ctx.Err() != nil {
				return added
			}
			zap.L().Warn("producer: gap analysis failed for competitor, skipping",
				zap.String("domain", domain),
				zap.Error(err))
			continue
		}

		kws := make([]model.Keyword, 0, len(found))
		for _, dk := range found {
			volume := dk.Volume
			difficulty := dk.Difficulty
			kws = append(kws, model.Keyword{
				Text:       dk.Keyword,
				Source:     model.SourceGapAnalysis,
				Intent:     model.IntentInformational,
				Volume:     &volume,
				Difficulty: &difficulty,
			})
		}
		accepted := pool.AddAll(kws)
		added += accepted

		zap.L().Debug("producer: gap analysis complete",
			zap.String("domain", domain),
			zap.Int("accepted", accepted))
	}
	return added
}

// normalizeDomain reduces a competitor reference (URL or bare domain) to
// the hostname SE Ranking expects.
func normalizeDomain(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if strings.Contains(s, "://") {
		u, err := url.Parse(s)
		if err != nil || u.Host == "" {
			return ""
		}
		s = u.Host
	}
	s = strings.TrimPrefix(s, "www.")
	if i := strings.IndexAny(s, "/?#"); i >= 0 {
		s = s[:i]
	}
	return strings.ToLower(s)
}
