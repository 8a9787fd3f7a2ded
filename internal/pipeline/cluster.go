package pipeline

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/scaile-group/keywords-cli/internal/model"
	"github.com/scaile-group/keywords-cli/internal/oracle"
)

// clusterOutcome summarizes the clustering stage for stage tracking.
type clusterOutcome struct {
	totalShards  int
	failedShards int
	unassigned   int
}

// ClusterAll annotates every candidate with a cluster name. The configured
// count is a target, not a hard limit. Candidates the oracle omits, and
// entire shards whose oracle call fails, land in the reserved
// "Uncategorized" cluster so clustering never reduces the output count.
func ClusterAll(ctx context.Context, o oracle.Oracle, candidates []model.Keyword, clusterCount, shardSize int) ([]model.Keyword, clusterOutcome, error) {
	out := make([]model.Keyword, len(candidates))
	copy(out, candidates)
	if len(out) == 0 {
		return out, clusterOutcome{}, nil
	}
	if shardSize <= 0 {
		shardSize = len(out)
	}

	outcome := clusterOutcome{}

	for start := 0; start < len(out); start += shardSize {
		end := start + shardSize
		if end > len(out) {
			end = len(out)
		}
		shard := out[start:end]
		outcome.totalShards++

		texts := make([]string, len(shard))
		for i, kw := range shard {
			texts[i] = kw.Text
		}

		assignments, err := o.ClusterKeywords(ctx, texts, clusterCount)
		if err != nil {
			if ctx.Err() != nil {
				return nil, clusterOutcome{}, ctx.Err()
			}
			zap.L().Warn("cluster shard failed, candidates placed in fallback cluster",
				zap.Int("shard_start", start),
				zap.Int("shard_size", len(shard)),
				zap.Error(err))
			outcome.failedShards++
			for i := range shard {
				shard[i].ClusterName = model.ClusterUncategorized
				outcome.unassigned++
			}
			continue
		}

		folded := make(map[string]string, len(assignments))
		for text, name := range assignments {
			folded[strings.ToLower(text)] = name
		}

		for i := range shard {
			name, ok := assignments[shard[i].Text]
			if !ok {
				name, ok = folded[strings.ToLower(shard[i].Text)]
			}
			if !ok || name == "" {
				name = model.ClusterUncategorized
				outcome.unassigned++
			}
			shard[i].ClusterName = name
		}
	}

	return out, outcome, nil
}
