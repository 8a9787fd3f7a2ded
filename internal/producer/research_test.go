package producer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/scaile-group/keywords-cli/internal/model"
	"github.com/scaile-group/keywords-cli/internal/pipeline"
)

func TestResearch(t *testing.T) {
	company := testCompany()

	o := &mockOracle{}
	o.On("Research", mock.Anything, company, "reddit").
		Return([]string{"how to migrate crm data"}, nil)
	o.On("Research", mock.Anything, company, "quora").
		Return([]string{"is a crm worth it for small business"}, nil)
	o.On("Research", mock.Anything, company, "forum").
		Return([]string{"crm import keeps failing"}, nil)
	o.On("Research", mock.Anything, company, "paa").
		Return([]string{"what does a crm actually do"}, nil)

	pool := pipeline.NewPool()
	added := Research(context.Background(), o, testRegistry(t), company, pool)

	assert.Equal(t, 4, added)
	kws := pool.Candidates()
	require.Len(t, kws, 4)
	assert.Equal(t, model.SourceResearchReddit, kws[0].Source)
	assert.Equal(t, model.SourceResearchQuora, kws[1].Source)
	assert.Equal(t, model.SourceResearchForum, kws[2].Source)
	assert.Equal(t, model.SourceSERPPAA, kws[3].Source)
	o.AssertExpectations(t)
}

func TestResearch_FailedChannelSkipped(t *testing.T) {
	company := testCompany()

	o := &mockOracle{}
	o.On("Research", mock.Anything, company, "reddit").Return(nil, assert.AnError)
	o.On("Research", mock.Anything, company, "quora").
		Return([]string{"best crm for startups"}, nil)
	o.On("Research", mock.Anything, company, "forum").Return([]string{}, nil)
	o.On("Research", mock.Anything, company, "paa").Return([]string{}, nil)

	pool := pipeline.NewPool()
	added := Research(context.Background(), o, testRegistry(t), company, pool)

	assert.Equal(t, 1, added)
	require.Equal(t, 1, pool.Len())
	assert.Equal(t, model.SourceResearchQuora, pool.Candidates()[0].Source)
}

func TestResearch_LabelsQuestions(t *testing.T) {
	company := testCompany()

	o := &mockOracle{}
	o.On("Research", mock.Anything, company, "reddit").
		Return([]string{"how to pick a crm", "crm pricing comparison"}, nil)
	o.On("Research", mock.Anything, company, "quora").Return([]string{}, nil)
	o.On("Research", mock.Anything, company, "forum").Return([]string{}, nil)
	o.On("Research", mock.Anything, company, "paa").Return([]string{}, nil)

	pool := pipeline.NewPool()
	Research(context.Background(), o, testRegistry(t), company, pool)

	kws := pool.Candidates()
	require.Len(t, kws, 2)
	assert.True(t, kws[0].IsQuestion)
	assert.Equal(t, model.IntentQuestion, kws[0].Intent)
	assert.False(t, kws[1].IsQuestion)
	assert.Equal(t, model.IntentInformational, kws[1].Intent)
}

func TestIsQuestion(t *testing.T) {
	reg := testRegistry(t)

	tests := []struct {
		query string
		want  bool
	}{
		{"how to choose a crm", true},
		{"What is a crm", true},
		{"crm worth it?", true},
		{"should I buy a crm", true},
		{"best crm software", false},
		{"howto guide", false}, // starter must be a whole-word prefix
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			assert.Equal(t, tt.want, isQuestion(tt.query, reg))
		})
	}
}
