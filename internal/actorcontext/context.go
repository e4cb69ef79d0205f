package actorcontext

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/forgenet/forgenet/internal/identity/domain"
)

// Actor identifies the authenticated caller for the current request.
type Actor struct {
	ID   snowflake.ID
	Role domain.Role
}

type actorContextKey struct{}

// WithActor stores the authenticated caller in the context.
func WithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, actorContextKey{}, actor)
}

// ActorFromContext returns the authenticated caller from context, if set.
func ActorFromContext(ctx context.Context) (Actor, bool) {
	if ctx == nil {
		return Actor{}, false
	}
	actor, ok := ctx.Value(actorContextKey{}).(Actor)
	if !ok || actor.ID == 0 {
		return Actor{}, false
	}
	return actor, true
}
