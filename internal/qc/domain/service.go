package domain

import (
	"context"
	"errors"
)

type SubmitQCRequest struct {
	JobID         string
	QCScore       float64
	Status        string
	Similarity    float64
	EvidencePaths []string
	ModelVersion  string
}

type RunCheckRequest struct {
	JobID         string
	EvidencePaths []string
}

type Service interface {
	// SubmitRecord stores a manual QC submission from the assigned
	// manufacturer and moves the job to qc_done in the same transaction.
	SubmitRecord(context.Context, SubmitQCRequest) error

	// RunCheck scores evidence with the configured scorer and persists
	// the record best-effort: a storage failure is logged, not returned.
	RunCheck(context.Context, RunCheckRequest) (ScoreResult, error)

	ListForJob(ctx context.Context, jobID string) ([]QCRecord, error)
}

var (
	ErrInvalidScore  = errors.New("invalid_qc_score")
	ErrInvalidStatus = errors.New("invalid_qc_status")
)
