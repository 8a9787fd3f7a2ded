package pipeline

import (
	"sort"

	"github.com/scaile-group/keywords-cli/internal/model"
)

// filterOutcome summarizes the selection stage for stage tracking.
type filterOutcome struct {
	unscored   int
	belowScore int
	truncated  int
}

// Filter applies the final selection: unscored candidates and candidates
// below minScore are dropped, survivors are stable-sorted by score
// descending (ties preserve prior order), and the list is truncated to
// targetCount. Empty input yields an empty list, not an error.
func Filter(candidates []model.Keyword, minScore, targetCount int) ([]model.Keyword, filterOutcome) {
	outcome := filterOutcome{}

	out := make([]model.Keyword, 0, len(candidates))
	for _, kw := range candidates {
		if !kw.Scored {
			outcome.unscored++
			continue
		}
		if kw.Score < minScore {
			outcome.belowScore++
			continue
		}
		out = append(out, kw)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})

	if targetCount > 0 && len(out) > targetCount {
		outcome.truncated = len(out) - targetCount
		out = out[:targetCount]
	}
	return out, outcome
}
