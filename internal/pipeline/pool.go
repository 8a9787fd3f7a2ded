// Package pipeline implements the keyword refinement pipeline: candidate
// pool, fast deduplication, batched relevance scoring, semantic
// deduplication, clustering, and final selection.
package pipeline

import (
	"strings"

	"github.com/rotisserie/eris"

	"github.com/scaile-group/keywords-cli/internal/model"
)

// Pool is the ordered, mutable candidate collection producers append to.
// It is not safe for concurrent use; producers run before the pipeline.
type Pool struct {
	candidates []model.Keyword
}

// NewPool creates an empty candidate pool.
func NewPool() *Pool {
	return &Pool{}
}

// Add validates and appends one candidate. Empty or whitespace-only text
// is rejected at insertion so malformed input never enters the pipeline.
func (p *Pool) Add(kw model.Keyword) error {
	kw.Text = strings.TrimSpace(kw.Text)
	if kw.Text == "" {
		return eris.New("pipeline: candidate text is empty")
	}
	p.candidates = append(p.candidates, kw)
	return nil
}

// AddAll appends every valid candidate and returns how many were accepted.
func (p *Pool) AddAll(kws []model.Keyword) int {
	accepted := 0
	for _, kw := range kws {
		if err := p.Add(kw); err == nil {
			accepted++
		}
	}
	return accepted
}

// Candidates returns the candidates in append order.
func (p *Pool) Candidates() []model.Keyword {
	return p.candidates
}

// Len returns the number of candidates in the pool.
func (p *Pool) Len() int {
	return len(p.candidates)
}
