package producer

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/scaile-group/keywords-cli/internal/model"
	"github.com/scaile-group/keywords-cli/internal/oracle"
	"github.com/scaile-group/keywords-cli/internal/pipeline"
	"github.com/scaile-group/keywords-cli/internal/registry"
)

// researchChannels maps each research channel to its provenance source.
var researchChannels = []struct {
	channel string
	source  model.Source
}{
	{"reddit", model.SourceResearchReddit},
	{"quora", model.SourceResearchQuora},
	{"forum", model.SourceResearchForum},
	{"paa", model.SourceSERPPAA},
}

// Research mines community channels for real user queries about the
// company's space via the oracle's search grounding. Channels run
// sequentially; a failed channel is logged and skipped so one blocked
// source never starves the others.
func Research(ctx context.Context, o oracle.Oracle, reg *registry.Registry, company *model.CompanyInfo, pool *pipeline.Pool) int {
	added := 0
	for _, rc := range researchChannels {
		queries, err := o.Research(ctx, company, rc.channel)
		if err != nil {
			if ctx.Err() != nil {
				return added
			}
			zap.L().Warn("producer: research channel failed, skipping",
				zap.String("channel", rc.channel),
				zap.Error(err))
			continue
		}

		kws := make([]model.Keyword, 0, len(queries))
		for _, q := range queries {
			kws = append(kws, model.Keyword{
				Text:       q,
				Source:     rc.source,
				Intent:     researchIntent(q, reg),
				IsQuestion: isQuestion(q, reg),
			})
		}
		accepted := pool.AddAll(kws)
		added += accepted

		zap.L().Debug("producer: research channel complete",
			zap.String("channel", rc.channel),
			zap.Int("accepted", accepted))
	}
	return added
}

// researchIntent labels a mined query: questions keep the question intent,
// everything else is informational since community queries rarely carry
// purchase intent.
func researchIntent(query string, reg *registry.Registry) model.Intent {
	if isQuestion(query, reg) {
		return model.IntentQuestion
	}
	return model.IntentInformational
}

// isQuestion reports whether a query reads as a question: it ends with a
// question mark or starts with a known question starter.
func isQuestion(query string, reg *registry.Registry) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if strings.HasSuffix(q, "?") {
		return true
	}
	for _, starter := range reg.QuestionStarters {
		if q == starter || strings.HasPrefix(q, starter+" ") {
			return true
		}
	}
	return false
}
