package pipeline

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/scaile-group/keywords-cli/internal/model"
)

func numberedCandidates(n int) []model.Keyword {
	out := make([]model.Keyword, n)
	for i := range out {
		out[i] = candidate(fmt.Sprintf("keyword number %d", i))
	}
	return out
}

func TestScoreAll(t *testing.T) {
	in := numberedCandidates(5)

	o := &mockOracle{}
	o.On("ScoreBatch", mock.Anything, "ctx", texts(in)).
		Return(map[string]int{
			"keyword number 0": 90,
			"keyword number 1": 80,
			"keyword number 2": 70,
			"keyword number 3": 60,
			"keyword number 4": 50,
		}, nil)

	out, outcome, err := ScoreAll(context.Background(), o, "ctx", in, 25, 4)

	require.NoError(t, err)
	require.Len(t, out, 5)
	assert.Equal(t, 1, outcome.totalBatches)
	assert.Equal(t, 0, outcome.failedBatches)
	assert.Equal(t, 0, outcome.unscored)
	for i, want := range []int{90, 80, 70, 60, 50} {
		assert.True(t, out[i].Scored)
		assert.Equal(t, want, out[i].Score)
	}
	o.AssertExpectations(t)
}

func TestScoreAll_FailedBatchDegradesToUnscored(t *testing.T) {
	in := numberedCandidates(50)
	batchSize := 10

	o := &mockOracle{}
	for start := 0; start < len(in); start += batchSize {
		batch := in[start : start+batchSize]
		if start == 20 {
			o.On("ScoreBatch", mock.Anything, "ctx", texts(batch)).
				Return(nil, assert.AnError)
			continue
		}
		scores := make(map[string]int, len(batch))
		for _, kw := range batch {
			scores[kw.Text] = 75
		}
		o.On("ScoreBatch", mock.Anything, "ctx", texts(batch)).Return(scores, nil)
	}

	out, outcome, err := ScoreAll(context.Background(), o, "ctx", in, batchSize, 4)

	require.NoError(t, err, "a failed batch must not fail the stage")
	require.Len(t, out, 50)
	assert.Equal(t, 5, outcome.totalBatches)
	assert.Equal(t, 1, outcome.failedBatches)
	assert.Equal(t, 10, outcome.unscored)

	// Order is input order regardless of completion order, and exactly
	// the failed batch's candidates are unscored.
	assert.Equal(t, texts(in), texts(out))
	for i, kw := range out {
		if i >= 20 && i < 30 {
			assert.False(t, kw.Scored, "candidate %d should be unscored", i)
		} else {
			assert.True(t, kw.Scored, "candidate %d should be scored", i)
			assert.Equal(t, 75, kw.Score)
		}
	}
}

func TestScoreAll_ToleratesCaseDriftInEcho(t *testing.T) {
	in := []model.Keyword{candidate("CRM Software")}

	o := &mockOracle{}
	o.On("ScoreBatch", mock.Anything, "ctx", []string{"CRM Software"}).
		Return(map[string]int{"crm software": 85}, nil)

	out, outcome, err := ScoreAll(context.Background(), o, "ctx", in, 25, 4)

	require.NoError(t, err)
	assert.True(t, out[0].Scored)
	assert.Equal(t, 85, out[0].Score)
	assert.Equal(t, 0, outcome.unscored)
}

func TestScoreAll_DroppedEchoStaysUnscored(t *testing.T) {
	in := numberedCandidates(3)

	o := &mockOracle{}
	o.On("ScoreBatch", mock.Anything, "ctx", texts(in)).
		Return(map[string]int{
			"keyword number 0": 90,
			"keyword number 2": 70,
		}, nil)

	out, outcome, err := ScoreAll(context.Background(), o, "ctx", in, 25, 4)

	require.NoError(t, err)
	assert.True(t, out[0].Scored)
	assert.False(t, out[1].Scored)
	assert.True(t, out[2].Scored)
	assert.Equal(t, 1, outcome.unscored)
}

func TestScoreAll_Empty(t *testing.T) {
	o := &mockOracle{}

	out, outcome, err := ScoreAll(context.Background(), o, "ctx", nil, 25, 4)

	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Equal(t, 0, outcome.totalBatches)
	o.AssertNotCalled(t, "ScoreBatch")
}

func TestScoreAll_DoesNotMutateInput(t *testing.T) {
	in := numberedCandidates(2)

	o := &mockOracle{}
	o.On("ScoreBatch", mock.Anything, "ctx", texts(in)).
		Return(map[string]int{"keyword number 0": 90, "keyword number 1": 80}, nil)

	_, _, err := ScoreAll(context.Background(), o, "ctx", in, 25, 4)

	require.NoError(t, err)
	assert.False(t, in[0].Scored, "input slice must not be mutated")
}

// textScorer scores each candidate from its text alone, so any
// cross-batch influence would show up as a score difference.
type textScorer struct {
	mockOracle
}

func (s *textScorer) ScoreBatch(_ context.Context, _ string, texts []string) (map[string]int, error) {
	scores := make(map[string]int, len(texts))
	for _, text := range texts {
		scores[text] = (len(text) * 7) % 101
	}
	return scores, nil
}

func TestScoreAll_ConcatenationMatchesSeparateRuns(t *testing.T) {
	poolA := make([]model.Keyword, 0, 7)
	for i := 0; i < 7; i++ {
		poolA = append(poolA, candidate(fmt.Sprintf("crm onboarding topic %d", i)))
	}
	poolB := make([]model.Keyword, 0, 8)
	for i := 0; i < 8; i++ {
		poolB = append(poolB, candidate(fmt.Sprintf("sales automation idea %d", i)))
	}

	o := &textScorer{}
	ctx := context.Background()

	// Batch size 5 so the combined run regroups candidates across the
	// original pool boundary.
	outA, _, err := ScoreAll(ctx, o, "ctx", poolA, 5, 4)
	require.NoError(t, err)
	outB, _, err := ScoreAll(ctx, o, "ctx", poolB, 5, 4)
	require.NoError(t, err)

	combined := append(append([]model.Keyword{}, poolA...), poolB...)
	outC, _, err := ScoreAll(ctx, o, "ctx", combined, 5, 4)
	require.NoError(t, err)
	require.Len(t, outC, len(poolA)+len(poolB))

	separate := make(map[string]int, len(outA)+len(outB))
	for _, kw := range append(append([]model.Keyword{}, outA...), outB...) {
		require.True(t, kw.Scored)
		separate[kw.Text] = kw.Score
	}
	for _, kw := range outC {
		require.True(t, kw.Scored)
		assert.Equal(t, separate[kw.Text], kw.Score, "score for %q changed when pools were concatenated", kw.Text)
	}
}
