package domain

import (
	"context"
	"errors"
)

type OpenDisputeRequest struct {
	JobID  string
	Reason string
}

type ResolveDisputeRequest struct {
	DisputeID  string
	Resolution string
}

type Service interface {
	// Open files a dispute on a delivered job and moves the job to
	// disputed in the same transaction.
	Open(context.Context, OpenDisputeRequest) (Dispute, error)

	// Resolve closes a dispute (admin only) and moves the job to
	// resolved in the same transaction.
	Resolve(context.Context, ResolveDisputeRequest) (Dispute, error)

	// List returns disputes visible to the actor: all for admins, own
	// side only otherwise.
	List(context.Context) ([]Dispute, error)
}

var (
	ErrNotFound          = errors.New("dispute_not_found")
	ErrInvalidReason     = errors.New("invalid_reason")
	ErrInvalidResolution = errors.New("invalid_resolution")
	ErrAlreadyResolved   = errors.New("dispute_already_resolved")
)
