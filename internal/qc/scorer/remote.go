package scorer

import (
	"context"

	"github.com/forgenet/forgenet/internal/forgeai"
	"github.com/forgenet/forgenet/internal/qc/domain"
)

// Remote delegates scoring to the external vision service. Upstream
// failures are returned to the caller untouched: a quality verdict is
// never invented when the model is down.
type Remote struct {
	ai *forgeai.Client
}

func NewRemote(ai *forgeai.Client) *Remote {
	return &Remote{ai: ai}
}

func (r *Remote) Score(ctx context.Context, in domain.ScoreInput) (domain.ScoreResult, error) {
	resp, err := r.ai.CheckQuality(ctx, forgeai.QCRequest{
		JobID:         in.JobID,
		Material:      in.Material,
		ToleranceTier: in.ToleranceTier,
		STLPath:       in.STLPath,
		EvidencePaths: in.EvidencePaths,
	})
	if err != nil {
		return domain.ScoreResult{}, err
	}
	return domain.ScoreResult{
		Score:        resp.Score,
		Status:       domain.StatusForScore(resp.Score),
		Similarity:   resp.Similarity,
		Notes:        resp.Notes,
		ModelVersion: resp.ModelVersion,
	}, nil
}

// Select returns the remote scorer when an upstream is configured and
// the local deterministic one otherwise.
func Select(ai *forgeai.Client) domain.Scorer {
	if ai.Enabled() {
		return NewRemote(ai)
	}
	return NewLocal()
}
