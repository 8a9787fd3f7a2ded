package pipeline

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/scaile-group/keywords-cli/internal/model"
	"github.com/scaile-group/keywords-cli/internal/oracle"
)

// scoreOutcome summarizes the scoring stage for stage tracking.
type scoreOutcome struct {
	totalBatches  int
	failedBatches int
	unscored      int
}

// ScoreAll assigns company-fit scores to every candidate, dispatching
// fixed-size batches concurrently up to maxInFlight. Results are written
// back into the original sequence slots, so output order is input order
// regardless of completion order. A failed batch degrades its candidates
// to the unscored sentinel instead of failing the stage; only context
// cancellation aborts the run.
func ScoreAll(ctx context.Context, o oracle.Oracle, companyContext string, candidates []model.Keyword, batchSize, maxInFlight int) ([]model.Keyword, scoreOutcome, error) {
	out := make([]model.Keyword, len(candidates))
	copy(out, candidates)
	if len(out) == 0 {
		return out, scoreOutcome{}, nil
	}

	type batch struct {
		start, end int
	}
	var batches []batch
	for start := 0; start < len(out); start += batchSize {
		end := start + batchSize
		if end > len(out) {
			end = len(out)
		}
		batches = append(batches, batch{start, end})
	}

	failed := make([]bool, len(batches))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(maxInFlight)
	for bi, b := range batches {
		g.Go(func() error {
			texts := make([]string, 0, b.end-b.start)
			for _, kw := range out[b.start:b.end] {
				texts = append(texts, kw.Text)
			}

			scores, err := o.ScoreBatch(gCtx, companyContext, texts)
			if err != nil {
				if gCtx.Err() != nil {
					return gCtx.Err()
				}
				zap.L().Warn("score batch failed, candidates degraded to unscored",
					zap.Int("batch", bi),
					zap.Int("size", len(texts)),
					zap.Error(err))
				failed[bi] = true
				return nil
			}

			// Match by echoed text, tolerating case drift. Candidates the
			// oracle dropped stay unscored.
			folded := make(map[string]int, len(scores))
			for text, score := range scores {
				folded[strings.ToLower(text)] = score
			}
			for i := b.start; i < b.end; i++ {
				if score, ok := scores[out[i].Text]; ok {
					out[i].Score = score
					out[i].Scored = true
				} else if score, ok := folded[strings.ToLower(out[i].Text)]; ok {
					out[i].Score = score
					out[i].Scored = true
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, scoreOutcome{}, err
	}

	outcome := scoreOutcome{totalBatches: len(batches)}
	for _, f := range failed {
		if f {
			outcome.failedBatches++
		}
	}
	for _, kw := range out {
		if !kw.Scored {
			outcome.unscored++
		}
	}
	return out, outcome, nil
}
