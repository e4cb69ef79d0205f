package domain

import (
	"context"
	"errors"
)

type SubmitRatingRequest struct {
	JobID   string
	Rating  int
	Comment string
}

type AggregateResult struct {
	ManufacturerID string  `json:"manufacturer_id"`
	AverageRating  float64 `json:"average_rating"`
	TotalRatings   int     `json:"total_ratings"`
	ModelVersion   string  `json:"model_version,omitempty"`
}

type Service interface {
	// Submit records a client's rating for a completed job.
	Submit(context.Context, SubmitRatingRequest) (Rating, error)

	// Aggregate recomputes a manufacturer's average rating and writes it
	// back to the profile.
	Aggregate(ctx context.Context, manufacturerID string) (AggregateResult, error)
}

var (
	ErrInvalidRating = errors.New("invalid_rating")
	ErrJobNotRatable = errors.New("job_not_ratable")
	ErrAlreadyRated  = errors.New("already_rated")
)
