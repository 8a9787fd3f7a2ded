// Package producer implements the candidate producers that feed the
// refinement pipeline: AI generation, search-grounded research, competitor
// gap analysis, autocomplete expansion, and post-refinement enrichment.
package producer

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/scaile-group/keywords-cli/internal/config"
	"github.com/scaile-group/keywords-cli/internal/model"
	"github.com/scaile-group/keywords-cli/internal/oracle"
	"github.com/scaile-group/keywords-cli/internal/pipeline"
	"github.com/scaile-group/keywords-cli/internal/registry"
)

// quotaIntents are the intents with a reserved share per generation batch.
var quotaIntents = []model.Intent{
	model.IntentQuestion,
	model.IntentCommercial,
	model.IntentTransactional,
	model.IntentComparison,
}

// Generate over-generates keyword candidates through the oracle: the target
// count times the over-generation factor, requested in fixed-size batches
// with per-intent minimum counts. Batches run sequentially so each batch can
// exclude everything generated before it. A failed batch is logged and
// skipped; Generate errors only when every batch failed.
func Generate(ctx context.Context, o oracle.Oracle, reg *registry.Registry, company *model.CompanyInfo, cfg config.GenerationConfig, pool *pipeline.Pool) (int, error) {
	total := int(cfg.OverGenFactor * float64(cfg.TargetCount))
	if total < cfg.TargetCount {
		total = cfg.TargetCount
	}

	quota := make(map[model.Intent]int, len(quotaIntents))
	for _, intent := range quotaIntents {
		quota[intent] = reg.IntentQuota(intent, cfg.GenBatchSize)
	}

	exclude := make([]string, 0, total)
	for _, kw := range pool.Candidates() {
		exclude = append(exclude, kw.Text)
	}

	// Three failed batches in a row means the oracle is down, not unlucky.
	const maxConsecutiveFailures = 3

	added := 0
	consecutiveFailures := 0
	batches := 0
	for added < total {
		count := cfg.GenBatchSize
		if remaining := total - added; remaining < count {
			count = remaining
		}
		batches++

		kws, err := o.GenerateKeywords(ctx, oracle.GenerateRequest{
			Company:     company,
			Count:       count,
			IntentQuota: quota,
			Language:    cfg.Language,
			Region:      cfg.Region,
			Exclude:     exclude,
		})
		if err != nil {
			if ctx.Err() != nil {
				return added, ctx.Err()
			}
			zap.L().Warn("producer: generation batch failed, skipping",
				zap.Int("batch", batches),
				zap.Error(err))
			consecutiveFailures++
			if consecutiveFailures >= maxConsecutiveFailures {
				break
			}
			continue
		}
		consecutiveFailures = 0
		if len(kws) == 0 {
			// The oracle returning nothing means the exclusion list has
			// exhausted the topic space.
			break
		}

		// Excluded in later batches even when dropped below, so the
		// oracle does not resend them.
		for _, kw := range kws {
			exclude = append(exclude, kw.Text)
		}

		kept := make([]model.Keyword, 0, len(kws))
		for _, kw := range kws {
			if cfg.MinWordCount > 0 && kw.WordCount() < cfg.MinWordCount {
				continue
			}
			kw.Source = model.SourceAIGenerated
			kept = append(kept, kw)
		}
		accepted := pool.AddAll(kept)
		added += accepted

		zap.L().Debug("producer: generation batch complete",
			zap.Int("batch", batches),
			zap.Int("accepted", accepted),
			zap.Int("total", added))
	}

	if added == 0 {
		return 0, eris.Errorf("producer: all %d generation batches failed", batches)
	}
	return added, nil
}
