package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/scaile-group/keywords-cli/internal/model"
)

func TestSemanticDedup_KeepsHighestScore(t *testing.T) {
	in := []model.Keyword{
		scoredCandidate("crm software", 70),
		scoredCandidate("crm system", 85),
		scoredCandidate("sales pipeline tool", 60),
	}

	o := &mockOracle{}
	o.On("DedupGroups", mock.Anything, texts(in)).
		Return([][]string{{"crm software", "crm system"}}, nil)

	out, outcome, err := SemanticDedup(context.Background(), o, in, 0)

	require.NoError(t, err)
	assert.Equal(t, []string{"crm system", "sales pipeline tool"}, texts(out))
	assert.Equal(t, 1, outcome.dropped)
	assert.Equal(t, 1, outcome.totalShards)
	assert.Equal(t, 0, outcome.failedShards)
}

func TestSemanticDedup_TieBreaksOnSourceRank(t *testing.T) {
	researched := model.Keyword{
		Text: "crm software", Source: model.SourceResearchReddit,
		Intent: model.IntentInformational, Score: 80, Scored: true,
	}
	in := []model.Keyword{
		scoredCandidate("crm system", 80), // ai_generated outranks research
		researched,
	}

	o := &mockOracle{}
	o.On("DedupGroups", mock.Anything, texts(in)).
		Return([][]string{{"crm system", "crm software"}}, nil)

	out, _, err := SemanticDedup(context.Background(), o, in, 0)

	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "crm system", out[0].Text)
}

func TestSemanticDedup_TieBreaksOnPosition(t *testing.T) {
	in := []model.Keyword{
		scoredCandidate("crm software", 80),
		scoredCandidate("crm system", 80),
	}

	o := &mockOracle{}
	o.On("DedupGroups", mock.Anything, texts(in)).
		Return([][]string{{"crm system", "crm software"}}, nil)

	out, _, err := SemanticDedup(context.Background(), o, in, 0)

	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "crm software", out[0].Text, "earlier position wins a full tie")
}

func TestSemanticDedup_FailsOpen(t *testing.T) {
	in := []model.Keyword{
		scoredCandidate("crm software", 70),
		scoredCandidate("crm system", 85),
	}

	o := &mockOracle{}
	o.On("DedupGroups", mock.Anything, texts(in)).Return(nil, assert.AnError)

	out, outcome, err := SemanticDedup(context.Background(), o, in, 0)

	require.NoError(t, err, "oracle failure must not fail the stage")
	assert.Equal(t, texts(in), texts(out), "failed shard keeps all candidates")
	assert.Equal(t, 1, outcome.failedShards)
	assert.Equal(t, 0, outcome.dropped)
}

func TestSemanticDedup_IgnoresInventedMembers(t *testing.T) {
	in := []model.Keyword{
		scoredCandidate("crm software", 70),
		scoredCandidate("sales pipeline tool", 60),
	}

	o := &mockOracle{}
	o.On("DedupGroups", mock.Anything, texts(in)).
		Return([][]string{{"crm software", "made up keyword"}}, nil)

	out, outcome, err := SemanticDedup(context.Background(), o, in, 0)

	require.NoError(t, err)
	assert.Equal(t, texts(in), texts(out), "a group with one known member is a no-op")
	assert.Equal(t, 0, outcome.dropped)
}

func TestSemanticDedup_Shards(t *testing.T) {
	in := []model.Keyword{
		scoredCandidate("alpha tool", 70),
		scoredCandidate("beta tool", 60),
		scoredCandidate("gamma tool", 80),
		scoredCandidate("delta tool", 50),
	}

	o := &mockOracle{}
	o.On("DedupGroups", mock.Anything, []string{"alpha tool", "beta tool"}).
		Return([][]string{{"alpha tool", "beta tool"}}, nil)
	o.On("DedupGroups", mock.Anything, []string{"gamma tool", "delta tool"}).
		Return([][]string{}, nil)

	out, outcome, err := SemanticDedup(context.Background(), o, in, 2)

	require.NoError(t, err)
	assert.Equal(t, []string{"alpha tool", "gamma tool", "delta tool"}, texts(out))
	assert.Equal(t, 2, outcome.totalShards)
	assert.Equal(t, 1, outcome.dropped)
	o.AssertExpectations(t)
}

func TestSemanticDedup_TooFewCandidates(t *testing.T) {
	in := []model.Keyword{scoredCandidate("crm software", 70)}

	o := &mockOracle{}

	out, _, err := SemanticDedup(context.Background(), o, in, 0)

	require.NoError(t, err)
	assert.Equal(t, texts(in), texts(out))
	o.AssertNotCalled(t, "DedupGroups")
}
