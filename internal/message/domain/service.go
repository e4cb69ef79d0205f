package domain

import (
	"context"
	"errors"
)

type SendMessageRequest struct {
	JobID string
	Body  string
}

type Service interface {
	// Send appends a message on the job thread. The recipient is the
	// other party: the assigned manufacturer when the client sends, the
	// client otherwise.
	Send(context.Context, SendMessageRequest) (Message, error)
	ListForJob(ctx context.Context, jobID string) ([]Message, error)
}

var ErrInvalidBody = errors.New("invalid_body")
