package server

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/forgenet/forgenet/internal/actorcontext"
	identitydomain "github.com/forgenet/forgenet/internal/identity/domain"
)

// AuthRequired resolves the session cookie into an actor on the request
// context. Every /api route sits behind it, so handlers can assume an
// authenticated caller.
func (s *Server) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := s.sessions.ReadToken(c)
		if !ok {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		user, err := s.identitySvc.Authenticate(c.Request.Context(), token)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		ctx := actorcontext.WithActor(c.Request.Context(), actorcontext.Actor{
			ID:   user.ID,
			Role: user.Role,
		})
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func (s *Server) RequireRole(roles ...identitydomain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := actorcontext.ActorFromContext(c.Request.Context())
		if !ok {
			AbortWithError(c, ErrUnauthorized)
			return
		}
		for _, role := range roles {
			if actor.Role == role {
				c.Next()
				return
			}
		}
		AbortWithError(c, ErrForbidden)
	}
}

// EstimateRateLimit throttles the pay-estimation route per user. A
// limiter backend failure fails open: pricing is a convenience, not a
// protected resource.
func (s *Server) EstimateRateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.estimateLimiter == nil || !s.estimateLimiter.Enabled() {
			c.Next()
			return
		}

		actor, ok := actorcontext.ActorFromContext(c.Request.Context())
		if !ok {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		allowed, err := s.estimateLimiter.AllowUser(c.Request.Context(), actor.ID.String())
		if err != nil {
			zap.L().Warn("estimate rate limit check failed", zap.Error(err))
			c.Next()
			return
		}
		if !allowed {
			c.Header("Retry-After", "2")
			AbortWithError(c, ErrRateLimited)
			return
		}
		c.Next()
	}
}
