package model

import "time"

// RunStatus tracks the pipeline state machine for a run.
type RunStatus string

const (
	RunStatusPending       RunStatus = "pending"
	RunStatusDeduplicated  RunStatus = "deduplicated"
	RunStatusScored        RunStatus = "scored"
	RunStatusSemanticDedup RunStatus = "semantically_deduplicated"
	RunStatusClustered     RunStatus = "clustered"
	RunStatusFiltered      RunStatus = "filtered"
	RunStatusFailed        RunStatus = "failed"
)

// StageStatus is the outcome of a single refinement stage.
type StageStatus string

const (
	StageStatusComplete StageStatus = "complete"
	StageStatusDegraded StageStatus = "degraded"
	StageStatusFailed   StageStatus = "failed"
	StageStatusSkipped  StageStatus = "skipped"
)

// StageResult records one refinement stage of a run.
type StageResult struct {
	Name     string         `json:"name"`
	Status   StageStatus    `json:"status"`
	Duration int64          `json:"duration_ms"`
	Error    string         `json:"error,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// Run is a persisted pipeline execution.
type Run struct {
	ID        string            `json:"id"`
	Company   string            `json:"company"`
	Status    RunStatus         `json:"status"`
	Result    *GenerationResult `json:"result,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// Cluster groups keywords under a topical name.
type Cluster struct {
	Name     string   `json:"name"`
	Keywords []string `json:"keywords"`
}

// Statistics summarizes a final keyword set. Computed purely from the
// output set plus per-stage drop counts for diagnosability.
type Statistics struct {
	Total                  int            `json:"total"`
	AvgScore               float64        `json:"avg_score"`
	IntentBreakdown        map[Intent]int `json:"intent_breakdown"`
	SourceBreakdown        map[Source]int `json:"source_breakdown"`
	WordLengthDistribution map[string]int `json:"word_length_distribution"`
	ClusterCounts          map[string]int `json:"cluster_counts"`
	DuplicateCount         int            `json:"duplicate_count"`
	SemanticDropCount      int            `json:"semantic_drop_count"`
	UnscoredCount          int            `json:"unscored_count"`
	FilteredCount          int            `json:"filtered_count"`
}

// GenerationResult is what the pipeline hands back to the caller.
type GenerationResult struct {
	RunID      string        `json:"run_id,omitempty"`
	Keywords   []Keyword     `json:"keywords"`
	Clusters   []Cluster     `json:"clusters"`
	Statistics Statistics    `json:"statistics"`
	Stages     []StageResult `json:"stages"`
	Warnings   []string      `json:"warnings,omitempty"`
	Elapsed    time.Duration `json:"-"`
	ElapsedSec float64       `json:"processing_time_seconds"`
}

// BuildClusters derives the cluster list from keyword cluster names,
// preserving first-seen order.
func BuildClusters(keywords []Keyword) []Cluster {
	index := make(map[string]int)
	var clusters []Cluster
	for _, kw := range keywords {
		if kw.ClusterName == "" {
			continue
		}
		i, ok := index[kw.ClusterName]
		if !ok {
			i = len(clusters)
			index[kw.ClusterName] = i
			clusters = append(clusters, Cluster{Name: kw.ClusterName})
		}
		clusters[i].Keywords = append(clusters[i].Keywords, kw.Text)
	}
	return clusters
}
