package pipeline

import (
	"github.com/scaile-group/keywords-cli/internal/model"
)

// wordLengthBucket labels a keyword by phrase length for the distribution
// breakdown.
func wordLengthBucket(words int) string {
	switch {
	case words <= 1:
		return "single_word"
	case words <= 3:
		return "short_tail"
	default:
		return "long_tail"
	}
}

// ComputeStatistics builds the aggregate statistics for a final keyword
// set. Everything except the drop counts is computed purely from the set.
func ComputeStatistics(final []model.Keyword, duplicates, semanticDrops, unscored, filtered int) model.Statistics {
	stats := model.Statistics{
		Total:                  len(final),
		IntentBreakdown:        make(map[model.Intent]int),
		SourceBreakdown:        make(map[model.Source]int),
		WordLengthDistribution: make(map[string]int),
		ClusterCounts:          make(map[string]int),
		DuplicateCount:         duplicates,
		SemanticDropCount:      semanticDrops,
		UnscoredCount:          unscored,
		FilteredCount:          filtered,
	}

	sum := 0
	for i := range final {
		kw := &final[i]
		sum += kw.Score
		stats.IntentBreakdown[kw.Intent]++
		stats.SourceBreakdown[kw.Source]++
		stats.WordLengthDistribution[wordLengthBucket(kw.WordCount())]++
		if kw.ClusterName != "" {
			stats.ClusterCounts[kw.ClusterName]++
		}
	}
	if len(final) > 0 {
		stats.AvgScore = float64(sum) / float64(len(final))
	}
	return stats
}
