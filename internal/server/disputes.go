package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	disputedomain "github.com/forgenet/forgenet/internal/dispute/domain"
)

type openDisputeRequest struct {
	JobID  string `json:"job_id"`
	Reason string `json:"reason"`
}

func (s *Server) OpenDispute(c *gin.Context) {
	var req openDisputeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	d, err := s.disputeSvc.Open(c.Request.Context(), disputedomain.OpenDisputeRequest{
		JobID:  req.JobID,
		Reason: req.Reason,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, d)
}

func (s *Server) ListDisputes(c *gin.Context) {
	ds, err := s.disputeSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"disputes": ds})
}

type resolveDisputeRequest struct {
	Resolution string `json:"resolution"`
}

func (s *Server) ResolveDispute(c *gin.Context) {
	var req resolveDisputeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	d, err := s.disputeSvc.Resolve(c.Request.Context(), disputedomain.ResolveDisputeRequest{
		DisputeID:  c.Param("id"),
		Resolution: req.Resolution,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, d)
}
