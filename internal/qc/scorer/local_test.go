package scorer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forgenet/forgenet/internal/qc/domain"
)

func TestLocalScoreDeterministic(t *testing.T) {
	l := NewLocal()
	in := domain.ScoreInput{
		JobID:         "1",
		Material:      "PLA",
		ToleranceTier: "medium",
		EvidencePaths: []string{"a.jpg", "b.jpg"},
	}

	first, err := l.Score(context.Background(), in)
	require.NoError(t, err)
	second, err := l.Score(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, "local-deterministic-v1", first.ModelVersion)
}

func TestLocalScoreByEvidenceAndTier(t *testing.T) {
	l := NewLocal()

	// no evidence on a high-tolerance job scores lowest
	res, err := l.Score(context.Background(), domain.ScoreInput{ToleranceTier: "high"})
	require.NoError(t, err)
	assert.InDelta(t, 0.50, res.Score, 1e-9)
	assert.Equal(t, domain.StatusFail, res.Status)

	// two evidence files on a medium job lands in review territory
	res, err = l.Score(context.Background(), domain.ScoreInput{
		ToleranceTier: "medium",
		EvidencePaths: []string{"a", "b"},
	})
	require.NoError(t, err)
	assert.InDelta(t, 0.75, res.Score, 1e-9)
	assert.Equal(t, domain.StatusReview, res.Status)

	// well-evidenced low-tolerance job caps at 1.0 and passes
	res, err = l.Score(context.Background(), domain.ScoreInput{
		ToleranceTier: "low",
		EvidencePaths: []string{"a", "b", "c", "d", "e", "f"},
	})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, res.Score, 1e-9)
	assert.Equal(t, domain.StatusPass, res.Status)
	assert.InDelta(t, 0.97, res.Similarity, 1e-9)
}
