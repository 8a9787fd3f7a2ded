package pipeline

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/scaile-group/keywords-cli/internal/model"
	"github.com/scaile-group/keywords-cli/internal/oracle"
)

// semDedupOutcome summarizes the semantic dedup stage for stage tracking.
type semDedupOutcome struct {
	totalShards  int
	failedShards int
	dropped      int
}

// SemanticDedup collapses semantically equivalent candidates to their best
// representative. The oracle reports groups of equivalent texts; for each
// valid group the member with the highest score is kept, ties broken by
// source provenance rank and then original position. An unparseable or
// failed oracle response fails open: that shard keeps all its candidates.
func SemanticDedup(ctx context.Context, o oracle.Oracle, candidates []model.Keyword, shardSize int) ([]model.Keyword, semDedupOutcome, error) {
	if shardSize <= 0 {
		shardSize = len(candidates)
	}
	if len(candidates) < 2 {
		return candidates, semDedupOutcome{}, nil
	}

	drop := make([]bool, len(candidates))
	outcome := semDedupOutcome{}

	for start := 0; start < len(candidates); start += shardSize {
		end := start + shardSize
		if end > len(candidates) {
			end = len(candidates)
		}
		shard := candidates[start:end]
		outcome.totalShards++

		texts := make([]string, len(shard))
		for i, kw := range shard {
			texts[i] = kw.Text
		}

		groups, err := o.DedupGroups(ctx, texts)
		if err != nil {
			if ctx.Err() != nil {
				return nil, semDedupOutcome{}, ctx.Err()
			}
			zap.L().Warn("semantic dedup shard failed open, keeping all candidates",
				zap.Int("shard_start", start),
				zap.Int("shard_size", len(shard)),
				zap.Error(err))
			outcome.failedShards++
			continue
		}

		// Index shard members by folded text for validation. First index
		// wins so duplicate texts resolve deterministically.
		byText := make(map[string]int, len(shard))
		for i, kw := range shard {
			key := strings.ToLower(kw.Text)
			if _, ok := byText[key]; !ok {
				byText[key] = start + i
			}
		}

		for _, group := range groups {
			members := resolveGroup(group, byText)
			if len(members) < 2 {
				// Groups referencing unknown candidates are ignored
				// rather than trusted: losing keywords is worse than
				// losing dedup precision.
				continue
			}

			keep := members[0]
			for _, idx := range members[1:] {
				if better(candidates[idx], idx, candidates[keep], keep) {
					keep = idx
				}
			}
			for _, idx := range members {
				if idx != keep && !drop[idx] {
					drop[idx] = true
					outcome.dropped++
				}
			}
		}
	}

	out := make([]model.Keyword, 0, len(candidates)-outcome.dropped)
	for i, kw := range candidates {
		if !drop[i] {
			out = append(out, kw)
		}
	}
	return out, outcome, nil
}

// resolveGroup maps reported member texts onto known candidate indices,
// dropping members the oracle invented and collapsing duplicates.
func resolveGroup(group []string, byText map[string]int) []int {
	seen := make(map[int]bool, len(group))
	members := make([]int, 0, len(group))
	for _, text := range group {
		idx, ok := byText[strings.ToLower(strings.TrimSpace(text))]
		if !ok || seen[idx] {
			continue
		}
		seen[idx] = true
		members = append(members, idx)
	}
	return members
}

// better reports whether candidate a at position ai should be kept over
// candidate b at position bi. Higher score wins, then lower source rank,
// then earlier original position.
func better(a model.Keyword, ai int, b model.Keyword, bi int) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	if a.Source.Rank() != b.Source.Rank() {
		return a.Source.Rank() < b.Source.Rank()
	}
	return ai < bi
}
