package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	jobdomain "github.com/forgenet/forgenet/internal/job/domain"
	messagedomain "github.com/forgenet/forgenet/internal/message/domain"
	qcdomain "github.com/forgenet/forgenet/internal/qc/domain"
	shippingdomain "github.com/forgenet/forgenet/internal/shipping/domain"
)

type createJobRequest struct {
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	Material       string     `json:"material"`
	Quantity       int        `json:"quantity"`
	ToleranceTier  string     `json:"tolerance_tier"`
	ToleranceThou  *float64   `json:"tolerance_thou"`
	Deadline       *time.Time `json:"deadline"`
	EstimatedHours float64    `json:"estimated_hours"`
	STLPath        string     `json:"stl_path"`
}

func (s *Server) CreateJob(c *gin.Context) {
	var req createJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.jobSvc.Create(c.Request.Context(), jobdomain.CreateJobRequest{
		Title:          req.Title,
		Description:    req.Description,
		Material:       req.Material,
		Quantity:       req.Quantity,
		ToleranceTier:  req.ToleranceTier,
		ToleranceThou:  req.ToleranceThou,
		Deadline:       req.Deadline,
		EstimatedHours: req.EstimatedHours,
		STLPath:        req.STLPath,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

type listJobsQuery struct {
	PageToken string `form:"page_token"`
	PageSize  int    `form:"page_size"`
	Status    string `form:"status"`
}

func (s *Server) ListJobs(c *gin.Context) {
	var query listJobsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.jobSvc.List(c.Request.Context(), jobdomain.ListJobsRequest{
		PageToken: query.PageToken,
		PageSize:  query.PageSize,
		Status:    query.Status,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) GetJob(c *gin.Context) {
	job, err := s.jobSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, job)
}

type shipJobRequest struct {
	Carrier        string `json:"carrier"`
	TrackingNumber string `json:"tracking_number"`
}

func (s *Server) ShipJob(c *gin.Context) {
	var req shipJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	err := s.shippingSvc.Ship(c.Request.Context(), shippingdomain.ShipRequest{
		JobID:          c.Param("id"),
		Carrier:        req.Carrier,
		TrackingNumber: req.TrackingNumber,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (s *Server) GetJobShipping(c *gin.Context) {
	rec, err := s.shippingSvc.GetForJob(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

type submitQCRequest struct {
	QCScore       float64  `json:"qc_score"`
	Status        string   `json:"status"`
	Similarity    float64  `json:"similarity"`
	EvidencePaths []string `json:"evidence_paths"`
	ModelVersion  string   `json:"model_version"`
}

func (s *Server) SubmitJobQC(c *gin.Context) {
	var req submitQCRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	err := s.qcSvc.SubmitRecord(c.Request.Context(), qcdomain.SubmitQCRequest{
		JobID:         c.Param("id"),
		QCScore:       req.QCScore,
		Status:        req.Status,
		Similarity:    req.Similarity,
		EvidencePaths: req.EvidencePaths,
		ModelVersion:  req.ModelVersion,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (s *Server) ListJobQC(c *gin.Context) {
	recs, err := s.qcSvc.ListForJob(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"qc_records": recs})
}

type sendMessageRequest struct {
	Body string `json:"body"`
}

func (s *Server) SendJobMessage(c *gin.Context) {
	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	msg, err := s.messageSvc.Send(c.Request.Context(), messagedomain.SendMessageRequest{
		JobID: c.Param("id"),
		Body:  req.Body,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, msg)
}

func (s *Server) ListJobMessages(c *gin.Context) {
	msgs, err := s.messageSvc.ListForJob(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": msgs})
}
