package domain

import (
	"github.com/forgenet/forgenet/internal/actorcontext"
	identitydomain "github.com/forgenet/forgenet/internal/identity/domain"
)

// Action is a job operation gated by Authorize.
type Action string

const (
	ActionView           Action = "view"
	ActionMessage        Action = "message"
	ActionShip           Action = "ship"
	ActionSubmitQC       Action = "submit_qc"
	ActionOpenDispute    Action = "open_dispute"
	ActionResolveDispute Action = "resolve_dispute"
	ActionRate           Action = "rate"
)

// Authorize is the single entitlement predicate for job actions. Every
// handler and service goes through it instead of re-deriving ownership
// rules inline.
func Authorize(actor actorcontext.Actor, job *Job, action Action) error {
	if job == nil {
		return ErrNotFound
	}
	if actor.Role == identitydomain.RoleAdmin {
		return nil
	}

	switch action {
	case ActionView, ActionMessage:
		if actor.ID == job.ClientID || job.AssignedTo(actor.ID) {
			return nil
		}
		return ErrForbidden
	case ActionShip, ActionSubmitQC:
		if job.SelectedManufacturerID == nil {
			return ErrNoManufacturer
		}
		if job.AssignedTo(actor.ID) {
			return nil
		}
		return ErrForbidden
	case ActionOpenDispute, ActionRate:
		if actor.ID == job.ClientID {
			return nil
		}
		return ErrForbidden
	case ActionResolveDispute:
		// admin only, handled above
		return ErrForbidden
	default:
		return ErrForbidden
	}
}
