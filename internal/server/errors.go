package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	disputedomain "github.com/forgenet/forgenet/internal/dispute/domain"
	financialdomain "github.com/forgenet/forgenet/internal/financial/domain"
	identitydomain "github.com/forgenet/forgenet/internal/identity/domain"
	jobdomain "github.com/forgenet/forgenet/internal/job/domain"
	manufacturerdomain "github.com/forgenet/forgenet/internal/manufacturer/domain"
	messagedomain "github.com/forgenet/forgenet/internal/message/domain"
	paydomain "github.com/forgenet/forgenet/internal/payestimate/domain"
	qcdomain "github.com/forgenet/forgenet/internal/qc/domain"
	rankingdomain "github.com/forgenet/forgenet/internal/ranking/domain"
	ratingdomain "github.com/forgenet/forgenet/internal/rating/domain"
	shippingdomain "github.com/forgenet/forgenet/internal/shipping/domain"
	workflowdomain "github.com/forgenet/forgenet/internal/workflow/domain"
)

type errorPayload struct {
	Type    string `json:"type"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrConflict           = errors.New("conflict")
	ErrInternal           = errors.New("internal_error")
	ErrNotFound           = errors.New("not_found")
	ErrInvalidRequest     = errors.New("invalid_request")
	ErrRateLimited        = errors.New("rate_limited")
	ErrServiceUnavailable = errors.New("service_unavailable")
)

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func mapError(err error) (int, errorPayload) {
	switch {
	case err == nil:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	case isUnauthorizedError(err):
		return http.StatusUnauthorized, errorPayload{
			Type:    "unauthorized",
			Message: "unauthorized",
		}
	case isValidationError(err):
		code := err.Error()
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Code:    code,
			Message: validationMessage(code),
		}
	case isForbiddenError(err):
		return http.StatusForbidden, errorPayload{
			Type:    "forbidden",
			Message: "forbidden",
		}
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	case isConflictError(err):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Code:    err.Error(),
			Message: "conflict",
		}
	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests, errorPayload{
			Type:    "rate_limited",
			Message: "too many requests",
		}
	case errors.Is(err, ErrServiceUnavailable):
		return http.StatusServiceUnavailable, errorPayload{
			Type:    "service_unavailable",
			Message: "service unavailable",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func isUnauthorizedError(err error) bool {
	switch {
	case errors.Is(err, ErrUnauthorized),
		errors.Is(err, identitydomain.ErrInvalidCredentials),
		errors.Is(err, identitydomain.ErrInvalidSession),
		errors.Is(err, identitydomain.ErrSessionExpired),
		errors.Is(err, identitydomain.ErrSessionRevoked),
		errors.Is(err, financialdomain.ErrNoActor):
		return true
	default:
		return false
	}
}

func isForbiddenError(err error) bool {
	switch {
	case errors.Is(err, ErrForbidden),
		errors.Is(err, jobdomain.ErrForbidden),
		errors.Is(err, manufacturerdomain.ErrNotManufacturer):
		return true
	default:
		return false
	}
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, jobdomain.ErrNotFound),
		errors.Is(err, manufacturerdomain.ErrNotFound),
		errors.Is(err, disputedomain.ErrNotFound),
		errors.Is(err, shippingdomain.ErrNotFound),
		errors.Is(err, identitydomain.ErrNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}

func isConflictError(err error) bool {
	switch {
	case errors.Is(err, ErrConflict),
		errors.Is(err, identitydomain.ErrUserExists),
		errors.Is(err, jobdomain.ErrInvalidTransition),
		errors.Is(err, jobdomain.ErrStaleStatus),
		errors.Is(err, disputedomain.ErrAlreadyResolved),
		errors.Is(err, ratingdomain.ErrAlreadyRated):
		return true
	default:
		return false
	}
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, jobdomain.ErrInvalidID),
		errors.Is(err, jobdomain.ErrInvalidTitle),
		errors.Is(err, jobdomain.ErrInvalidMaterial),
		errors.Is(err, jobdomain.ErrInvalidQuantity),
		errors.Is(err, jobdomain.ErrInvalidTolerance),
		errors.Is(err, jobdomain.ErrInvalidStatus),
		errors.Is(err, jobdomain.ErrNoManufacturer),
		errors.Is(err, identitydomain.ErrInvalidRole),
		errors.Is(err, identitydomain.ErrInvalidName),
		errors.Is(err, identitydomain.ErrInvalidEmail),
		errors.Is(err, identitydomain.ErrInvalidPassword),
		errors.Is(err, identitydomain.ErrInvalidID),
		errors.Is(err, manufacturerdomain.ErrInvalidID),
		errors.Is(err, manufacturerdomain.ErrInvalidTolerance),
		errors.Is(err, messagedomain.ErrInvalidBody),
		errors.Is(err, qcdomain.ErrInvalidScore),
		errors.Is(err, qcdomain.ErrInvalidStatus),
		errors.Is(err, shippingdomain.ErrInvalidCarrier),
		errors.Is(err, shippingdomain.ErrInvalidTracking),
		errors.Is(err, disputedomain.ErrInvalidReason),
		errors.Is(err, disputedomain.ErrInvalidResolution),
		errors.Is(err, paydomain.ErrInvalidMaterial),
		errors.Is(err, paydomain.ErrInvalidQuantity),
		errors.Is(err, paydomain.ErrInvalidHours),
		errors.Is(err, rankingdomain.ErrInvalidMaterial),
		errors.Is(err, ratingdomain.ErrInvalidRating),
		errors.Is(err, workflowdomain.ErrInvalidWindow),
		errors.Is(err, ratingdomain.ErrJobNotRatable):
		return true
	default:
		return false
	}
}

func validationMessage(code string) string {
	if code == "invalid_request" {
		return "invalid request"
	}
	if strings.HasPrefix(code, "invalid_") {
		return "invalid " + strings.ReplaceAll(strings.TrimPrefix(code, "invalid_"), "_", " ")
	}
	return "invalid value"
}

// classifyErrorForLog buckets errors for the request log without leaking
// internals into user-facing fields.
func classifyErrorForLog(err error) (string, string) {
	status, payload := mapError(err)
	switch {
	case status >= 500:
		return "internal", payload.Type
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return "auth", payload.Type
	case status == http.StatusTooManyRequests:
		return "rate_limit", payload.Type
	default:
		return "client", payload.Type
	}
}
