package domain

import "context"

type ScoreInput struct {
	JobID         string
	Material      string
	ToleranceTier string
	STLPath       string
	EvidencePaths []string
}

type ScoreResult struct {
	Score        float64  `json:"score"`
	Status       QCStatus `json:"status"`
	Similarity   float64  `json:"similarity"`
	Notes        []string `json:"notes"`
	ModelVersion string   `json:"model_version"`
}

// Scorer produces a quality verdict for submitted evidence. The remote
// implementation surfaces upstream failures instead of guessing.
type Scorer interface {
	Score(context.Context, ScoreInput) (ScoreResult, error)
}
