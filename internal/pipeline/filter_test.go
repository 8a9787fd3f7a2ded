package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scaile-group/keywords-cli/internal/model"
)

func TestFilter(t *testing.T) {
	in := []model.Keyword{
		scoredCandidate("a", 80),
		scoredCandidate("b", 55),
		scoredCandidate("c", 70),
		scoredCandidate("d", 60),
		scoredCandidate("e", 59),
	}

	out, outcome := Filter(in, 60, 50)

	require.Len(t, out, 3)
	assert.Equal(t, []string{"a", "c", "d"}, texts(out))
	assert.Equal(t, []int{80, 70, 60}, []int{out[0].Score, out[1].Score, out[2].Score})
	assert.Equal(t, 2, outcome.belowScore)
	assert.Equal(t, 0, outcome.unscored)
	assert.Equal(t, 0, outcome.truncated)
}

func TestFilter_DropsUnscored(t *testing.T) {
	unscored := candidate("never scored")
	in := []model.Keyword{
		scoredCandidate("a", 90),
		unscored,
		scoredCandidate("b", 70),
	}

	out, outcome := Filter(in, 0, 50)

	assert.Equal(t, []string{"a", "b"}, texts(out))
	assert.Equal(t, 1, outcome.unscored)
}

func TestFilter_Truncates(t *testing.T) {
	in := []model.Keyword{
		scoredCandidate("a", 60),
		scoredCandidate("b", 90),
		scoredCandidate("c", 70),
		scoredCandidate("d", 80),
	}

	out, outcome := Filter(in, 0, 2)

	assert.Equal(t, []string{"b", "d"}, texts(out))
	assert.Equal(t, 2, outcome.truncated)
}

func TestFilter_StableOnTies(t *testing.T) {
	in := []model.Keyword{
		scoredCandidate("first", 70),
		scoredCandidate("second", 70),
		scoredCandidate("third", 70),
	}

	out, _ := Filter(in, 0, 50)

	assert.Equal(t, []string{"first", "second", "third"}, texts(out))
}

func TestFilter_Empty(t *testing.T) {
	out, outcome := Filter(nil, 60, 50)

	assert.Empty(t, out)
	assert.Equal(t, filterOutcome{}, outcome)
}
