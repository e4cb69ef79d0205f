package domain

import (
	"context"
	"errors"
)

type Service interface {
	// ListForCaller returns the ledger rows visible to the authenticated
	// actor, as client or manufacturer.
	ListForCaller(ctx context.Context) ([]Transaction, error)
}

var ErrNoActor = errors.New("no_authenticated_actor")
