package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	paydomain "github.com/forgenet/forgenet/internal/payestimate/domain"
	qcdomain "github.com/forgenet/forgenet/internal/qc/domain"
	rankingdomain "github.com/forgenet/forgenet/internal/ranking/domain"
	workflowdomain "github.com/forgenet/forgenet/internal/workflow/domain"
)

func (s *Server) EstimatePay(c *gin.Context) {
	var req paydomain.EstimateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	est, err := s.paySvc.Estimate(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, est)
}

type runQCCheckRequest struct {
	JobID         string   `json:"job_id"`
	EvidencePaths []string `json:"evidence_paths"`
}

func (s *Server) RunQCCheck(c *gin.Context) {
	var req runQCCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	res, err := s.qcSvc.RunCheck(c.Request.Context(), qcdomain.RunCheckRequest{
		JobID:         req.JobID,
		EvidencePaths: req.EvidencePaths,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (s *Server) AggregateRatings(c *gin.Context) {
	res, err := s.ratingSvc.Aggregate(c.Request.Context(), c.Query("manufacturer_id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) ScheduleWorkflow(c *gin.Context) {
	var req workflowdomain.ScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	res, err := s.workflowSvc.Schedule(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

type rankManufacturersRequest struct {
	JobID string `json:"job_id"`
}

func (s *Server) RankManufacturers(c *gin.Context) {
	var req rankManufacturersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	// GetByID enforces the view check before we rank on the job's behalf.
	job, err := s.jobSvc.GetByID(c.Request.Context(), req.JobID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	res, err := s.rankingSvc.RankForJob(c.Request.Context(), rankingdomain.RankInput{
		Material:      job.Material,
		ToleranceTier: string(job.ToleranceTier),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if err := s.rankingSvc.StoreRecommendations(c.Request.Context(), s.db, job.ID, res); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}
