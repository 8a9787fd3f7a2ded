// Package model defines the data types flowing through the keyword
// refinement pipeline.
package model

import "strings"

// Source identifies where a keyword candidate came from. Immutable once set.
type Source string

const (
	SourceAIGenerated    Source = "ai_generated"
	SourceResearchReddit Source = "research_reddit"
	SourceResearchQuora  Source = "research_quora"
	SourceResearchForum  Source = "research_forum"
	SourceGapAnalysis    Source = "gap_analysis"
	SourceSERPPAA        Source = "serp_paa"
	SourceAutocomplete   Source = "autocomplete"
	SourceTrends         Source = "trends"
)

// Rank orders sources for deterministic dedup tie-breaks. Lower wins.
// Generation-derived candidates outrank research-derived ones.
func (s Source) Rank() int {
	switch s {
	case SourceAIGenerated:
		return 0
	case SourceResearchReddit, SourceResearchQuora, SourceResearchForum:
		return 1
	case SourceGapAnalysis:
		return 2
	case SourceSERPPAA:
		return 3
	case SourceAutocomplete:
		return 4
	case SourceTrends:
		return 5
	default:
		return 100
	}
}

// Intent labels the search intent assigned at generation time. Later stages
// never reassign it.
type Intent string

const (
	IntentQuestion      Intent = "question"
	IntentCommercial    Intent = "commercial"
	IntentTransactional Intent = "transactional"
	IntentComparison    Intent = "comparison"
	IntentInformational Intent = "informational"
)

// ValidIntent reports whether s is a known intent label.
func ValidIntent(s Intent) bool {
	switch s {
	case IntentQuestion, IntentCommercial, IntentTransactional,
		IntentComparison, IntentInformational:
		return true
	}
	return false
}

// ClusterUncategorized is the reserved cluster for candidates the clusterer
// did not assign. Clustering failure never reduces the output count.
const ClusterUncategorized = "Uncategorized"

// Keyword is the unit of work in the refinement pipeline.
type Keyword struct {
	Text       string `json:"keyword"`
	Source     Source `json:"source"`
	Intent     Intent `json:"intent"`
	IsQuestion bool   `json:"is_question"`

	// Score is the 0-100 company-fit score. Scored distinguishes a real
	// zero from the unscored sentinel.
	Score  int  `json:"score"`
	Scored bool `json:"-"`

	// ClusterName is assigned only by the clusterer. Empty means absent.
	ClusterName string `json:"cluster_name,omitempty"`

	// Passthrough enrichment fields. nil means never looked up, which is
	// distinct from a looked-up zero.
	Volume         *int `json:"volume,omitempty"`
	Difficulty     *int `json:"difficulty,omitempty"`
	AEOOpportunity *int `json:"aeo_opportunity,omitempty"`

	// tokenSignature caches the fast deduplicator's comparison key.
	tokenSignature string
}

// TokenSignature returns the cached dedup signature, or empty if unset.
func (k *Keyword) TokenSignature() string {
	return k.tokenSignature
}

// SetTokenSignature caches the dedup signature.
func (k *Keyword) SetTokenSignature(sig string) {
	k.tokenSignature = sig
}

// WordCount returns the number of whitespace-separated words in Text.
func (k *Keyword) WordCount() int {
	return len(strings.Fields(k.Text))
}
